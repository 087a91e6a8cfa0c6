package sync

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/eth2core/beacon-p2p/beacon-chain/blockchain"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/p2p"
	"github.com/eth2core/beacon-p2p/beacon-chain/params"
)

var log = logrus.WithField("service", "sync")

// MessageProcessor translates RPC/gossip behaviour events into
// chain-affecting actions, runs the peer handshake, and answers block
// queries from storage (§4.B). It owns a read handle to the chain, the
// send half of the sync dispatcher plus its shutdown handle, and a
// NetworkContext for outbound commands.
type MessageProcessor struct {
	chain      blockchain.Chain
	syncSender SyncSender
	syncExit   *ShutdownHandle
	network    *NetworkContext
}

// NewMessageProcessor wires a MessageProcessor against chain, a freshly
// created sync dispatcher channel, and network for outbound RPC commands.
func NewMessageProcessor(chain blockchain.Chain, network rpcSender) (*MessageProcessor, SyncReceiver) {
	sender, receiver, exit := NewSyncChannel()
	return &MessageProcessor{
		chain:      chain,
		syncSender: sender,
		syncExit:   exit,
		network:    NewNetworkContext(network),
	}, receiver
}

// Close drops the processor's one-shot sync-exit handle, cancelling the
// sync task (§4.C, §5).
func (p *MessageProcessor) Close() {
	p.syncExit.Close()
}

func (p *MessageProcessor) sendToSync(msg SyncMessage) {
	if !trySend(p.syncSender, msg) {
		log.Warn("Could not send message to the sync service")
	}
}

// OnConnect sends an outbound Hello request built from the current chain
// head.
func (p *MessageProcessor) OnConnect(peer p2p.PeerID) {
	hello := localHelloMessage(p.chain)
	p.network.SendRPCRequest(nil, peer, p2p.RPCRequest{Kind: p2p.RPCRequestHello, Hello: hello})
}

// OnDisconnect emits SyncMessage::Disconnect.
func (p *MessageProcessor) OnDisconnect(peer p2p.PeerID) {
	p.sendToSync(SyncMessage{Kind: SyncMessageDisconnect, Peer: peer})
}

// OnHelloRequest answers with the local Hello, then runs handshake
// classification.
func (p *MessageProcessor) OnHelloRequest(peer p2p.PeerID, requestID p2p.RequestID, hello *p2p.HelloMessage) {
	log.WithField("peer", peer).Trace("HelloRequest")
	p.network.SendRPCResponse(peer, requestID, p2p.RPCResponse{Kind: p2p.RPCResponseHello, Hello: localHelloMessage(p.chain)})
	p.processHello(peer, PeerSyncInfoFromHello(hello))
}

// OnHelloResponse runs handshake classification without sending a second
// Hello.
func (p *MessageProcessor) OnHelloResponse(peer p2p.PeerID, hello *p2p.HelloMessage) {
	log.WithField("peer", peer).Trace("HelloResponse")
	p.processHello(peer, PeerSyncInfoFromHello(hello))
}

// OnBeaconBlocksRequest returns blocks whose slot is in
// [start_slot, start_slot+count), walking roots from head backwards,
// de-duplicated per slot, returned ascending by slot (§4.B, §6).
func (p *MessageProcessor) OnBeaconBlocksRequest(ctx context.Context, peer p2p.PeerID, requestID p2p.RequestID, req p2p.BeaconBlocksRequest) {
	if req.Count > params.MaxChunkRequestBlocks {
		log.WithFields(logrus.Fields{
			"peer":          peer,
			"count":         req.Count,
			"max_permitted": params.MaxChunkRequestBlocks,
		}).Debug("Truncating oversized BeaconBlocksRequest")
		req.Count = params.MaxChunkRequestBlocks
	}
	end := req.StartSlot + req.Count
	var blocks []*types.SignedBeaconBlock
	seenSlot := make(map[uint64]bool)
	err := p.chain.Store().RevIterBlockRoots(ctx, func(root types.Root, slot uint64) (bool, error) {
		if slot < req.StartSlot {
			return false, nil // rev_iter walks backwards; slots below start_slot end the walk
		}
		if slot >= end {
			return true, nil
		}
		if seenSlot[slot] {
			return true, nil
		}
		block, err := p.chain.Store().Block(ctx, root)
		if err != nil || block == nil {
			log.WithField("request_root", root).Warn("Block in the chain is not in the store")
			return true, nil
		}
		seenSlot[slot] = true
		blocks = append(blocks, block)
		return true, nil
	})
	if err != nil {
		log.WithError(err).Warn("Error walking block roots for BeaconBlocksRequest")
	}
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	}
	p.respondBeaconBlocks(peer, requestID, blocks)
}

// OnRecentBeaconBlocksRequest resolves each requested root against the
// store, skipping and logging misses, preserving request order (§4.B, §6).
func (p *MessageProcessor) OnRecentBeaconBlocksRequest(ctx context.Context, peer p2p.PeerID, requestID p2p.RequestID, req p2p.RecentBeaconBlocksRequest) {
	if uint64(len(req.BlockRoots)) > params.MaxRequestedBlockRoots {
		log.WithFields(logrus.Fields{
			"peer":          peer,
			"count":         len(req.BlockRoots),
			"max_permitted": params.MaxRequestedBlockRoots,
		}).Debug("Truncating oversized RecentBeaconBlocksRequest")
		req.BlockRoots = req.BlockRoots[:params.MaxRequestedBlockRoots]
	}
	var blocks []*types.SignedBeaconBlock
	for _, root := range req.BlockRoots {
		block, err := p.chain.Store().Block(ctx, root)
		if err != nil || block == nil {
			log.WithField("request_root", root).Debug("Peer requested unknown block")
			continue
		}
		blocks = append(blocks, block)
	}
	p.respondBeaconBlocks(peer, requestID, blocks)
}

func (p *MessageProcessor) respondBeaconBlocks(peer p2p.PeerID, requestID p2p.RequestID, blocks []*types.SignedBeaconBlock) {
	data, err := marshalBlocksSSZ(blocks)
	if err != nil {
		log.WithError(err).Warn("Failed to encode BeaconBlocks response")
		data = nil
	}
	p.network.SendRPCResponse(peer, requestID, p2p.RPCResponse{Kind: p2p.RPCResponseBeaconBlocks, BeaconBlocks: data})
}

func marshalBlocksSSZ(blocks []*types.SignedBeaconBlock) ([]byte, error) {
	var buf []byte
	for _, b := range blocks {
		enc, err := b.MarshalSSZ()
		if err != nil {
			return nil, err
		}
		buf = append(buf, enc...)
	}
	return buf, nil
}

// OnBeaconBlocksResponse forwards to the sync manager.
func (p *MessageProcessor) OnBeaconBlocksResponse(peer p2p.PeerID, requestID p2p.RequestID, blocks []*types.SignedBeaconBlock) {
	log.WithFields(logrus.Fields{"peer": peer, "count": len(blocks)}).Debug("BeaconBlocksResponse")
	p.sendToSync(SyncMessage{Kind: SyncMessageBeaconBlocksResponse, Peer: peer, RequestID: requestID, Blocks: blocks})
}

// OnRecentBeaconBlocksResponse forwards to the sync manager.
func (p *MessageProcessor) OnRecentBeaconBlocksResponse(peer p2p.PeerID, requestID p2p.RequestID, blocks []*types.SignedBeaconBlock) {
	log.WithFields(logrus.Fields{"peer": peer, "count": len(blocks)}).Debug("RecentBeaconBlocksResponse")
	p.sendToSync(SyncMessage{Kind: SyncMessageRecentBeaconBlocksResponse, Peer: peer, RequestID: requestID, Blocks: blocks})
}

// OnBlockGossip submits block to the chain. ParentUnknown is forwarded to
// sync as UnknownBlock; any other non-Processed outcome or error is logged
// and the block is dropped (§4.B).
func (p *MessageProcessor) OnBlockGossip(ctx context.Context, peer p2p.PeerID, block *types.SignedBeaconBlock) {
	if currentSlot, err := p.chain.CurrentSlot(); err == nil && block.Block.Slot > currentSlot+params.FutureSlotTolerance {
		log.WithFields(logrus.Fields{
			"peer":         peer,
			"block_slot":   block.Block.Slot,
			"current_slot": currentSlot,
		}).Debug("Dropping gossip block beyond future slot tolerance")
		return
	}
	outcome, err := p.chain.ProcessBlock(ctx, block)
	if err != nil {
		log.WithError(err).WithField("block_slot", block.Block.Slot).Error("Error processing gossip beacon block")
		return
	}
	switch outcome {
	case blockchain.BlockProcessingOutcomeProcessed:
		log.WithField("peer", peer).Trace("Gossipsub block processed")
	case blockchain.BlockProcessingOutcomeParentUnknown:
		log.WithField("peer", peer).Trace("Block with unknown parent received")
		p.sendToSync(SyncMessage{Kind: SyncMessageUnknownBlock, Peer: peer, Block: block})
	default:
		log.WithFields(logrus.Fields{
			"outcome":    outcome,
			"block_slot": block.Block.Slot,
		}).Warn("Invalid gossip beacon block")
	}
}

// OnAttestationGossip submits attestation to the chain, logging
// non-Processed outcomes (§4.B).
func (p *MessageProcessor) OnAttestationGossip(ctx context.Context, peer p2p.PeerID, att *types.Attestation) {
	outcome, err := p.chain.ProcessAttestation(ctx, att)
	if err != nil {
		log.WithError(err).Error("Invalid gossip attestation")
		return
	}
	log.WithFields(logrus.Fields{"source": "gossip", "outcome": outcome}).Info("Processed attestation")
}
