package sync

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/eth2core/beacon-p2p/beacon-chain/blockchain"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/p2p"
	"github.com/eth2core/beacon-p2p/beacon-chain/params"
)

// processHello runs the five-branch handshake classification (§4.B),
// evaluated top-to-bottom; the first matching branch decides. It never
// sends a second Hello — that is the caller's responsibility on the
// request path.
func (p *MessageProcessor) processHello(peer p2p.PeerID, remote PeerSyncInfo) {
	local := localPeerSyncInfo(p.chain)
	slotsPerEpoch := p.chain.SlotsPerEpoch()
	startSlot := func(epoch uint64) uint64 { return params.StartSlot(epoch, slotsPerEpoch) }

	switch {
	case remote.ForkVersion != local.ForkVersion:
		log.WithFields(logrus.Fields{
			"peer":   peer,
			"reason": "network_id",
		}).Debug("HandshakeFailure")
		p.network.Disconnect(peer, p2p.GoodbyeReasonIrrelevantNetwork)

	case remote.FinalizedEpoch <= local.FinalizedEpoch &&
		!remote.FinalizedRoot.IsZero() &&
		!local.FinalizedRoot.IsZero() &&
		!rootAtSlotEquals(p.chain, startSlot(remote.FinalizedEpoch), remote.FinalizedRoot):
		log.WithFields(logrus.Fields{
			"peer":   peer,
			"reason": "different finalized chain",
		}).Debug("HandshakeFailure")
		p.network.Disconnect(peer, p2p.GoodbyeReasonIrrelevantNetwork)

	case remote.FinalizedEpoch < local.FinalizedEpoch:
		log.WithFields(logrus.Fields{
			"peer":   peer,
			"reason": "lower finalized epoch",
		}).Debug("NaivePeer")

	default:
		known, err := p.chain.Store().HasBlock(context.Background(), remote.HeadRoot)
		if err != nil {
			known = false
		}
		if known {
			log.WithFields(logrus.Fields{
				"peer":                   peer,
				"remote_head_slot":       remote.HeadSlot,
				"remote_finalized_epoch": remote.FinalizedEpoch,
			}).Trace("Peer with known chain found")
		} else {
			log.WithFields(logrus.Fields{
				"peer":                   peer,
				"local_finalized_epoch":  local.FinalizedEpoch,
				"remote_finalized_epoch": remote.FinalizedEpoch,
			}).Debug("UsefulPeer")
		}
		p.sendToSync(SyncMessage{Kind: SyncMessageAddPeer, Peer: peer, PeerInfo: remote})
	}
}

// rootAtSlotEquals reports whether the chain's canonical root at slot
// equals want. A missing root at that slot is treated as a mismatch,
// matching root_at_slot(...) != Some(remote.finalized_root) in the
// original.
func rootAtSlotEquals(chain blockchain.Chain, slot uint64, want types.Root) bool {
	got, ok := chain.RootAtSlot(slot)
	return ok && got == want
}
