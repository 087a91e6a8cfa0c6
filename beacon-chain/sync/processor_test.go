package sync

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/eth2core/beacon-p2p/beacon-chain/blockchain"
	"github.com/eth2core/beacon-p2p/beacon-chain/blockchain/chaintest"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/db/dbtest"
	"github.com/eth2core/beacon-p2p/beacon-chain/p2p"
	"github.com/eth2core/beacon-p2p/beacon-chain/state/statetest"
	synctesting "github.com/eth2core/beacon-p2p/beacon-chain/sync/testing"
)

func newProcessorFixture() (*MessageProcessor, SyncReceiver, *synctesting.MockNetwork, *chaintest.MockChain, *dbtest.MockStore) {
	store := dbtest.NewMockStore()
	localState := &statetest.MockState{
		SlotVal:                10,
		ForkVal:                &types.Fork{},
		FinalizedCheckpointVal: &types.Checkpoint{},
	}
	chain := &chaintest.MockChain{
		HeadVal: &blockchain.Head{
			BeaconState: localState,
		},
		StoreVal:         store,
		SlotsPerEpochVal: 32,
	}
	network := &synctesting.MockNetwork{}
	proc, receiver := NewMessageProcessor(chain, network)
	return proc, receiver, network, chain, store
}

func saveBlockAtSlot(t *testing.T, store *dbtest.MockStore, slot uint64) types.Root {
	t.Helper()
	block := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: slot, ParentRoot: types.Root{byte(slot)}}}
	root, err := store.SaveBlock(block)
	require.NoError(t, err)
	return root
}

func TestOnDisconnect_EmitsSyncMessage(t *testing.T) {
	proc, receiver, _, _, _ := newProcessorFixture()
	proc.OnDisconnect("peer-1")

	msg := <-receiver
	require.Equal(t, SyncMessageDisconnect, msg.Kind)
	require.Equal(t, p2p.PeerID("peer-1"), msg.Peer)
}

func TestOnConnect_SendsHelloRequest(t *testing.T) {
	proc, _, network, _, _ := newProcessorFixture()
	proc.OnConnect("peer-2")

	require.Len(t, network.Sent, 1)
	require.Equal(t, p2p.RPCRequestHello, network.Sent[0].Event.Request.Kind)
}

func TestOnBeaconBlocksRequest_AscendingDeduped(t *testing.T) {
	proc, _, network, _, store := newProcessorFixture()
	root5 := saveBlockAtSlot(t, store, 5)
	saveBlockAtSlot(t, store, 6)
	root7 := saveBlockAtSlot(t, store, 7)
	// A second, distinct block at slot 6: only one block per slot is returned.
	_, err := store.SaveBlock(&types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 6, ParentRoot: types.Root{0xee}}})
	require.NoError(t, err)

	proc.OnBeaconBlocksRequest(context.Background(), "peer-3", 9, p2p.BeaconBlocksRequest{StartSlot: 5, Count: 3})

	require.Len(t, network.Sent, 1)
	resp := network.Sent[0].Event.Response.Success
	require.Equal(t, p2p.RPCResponseBeaconBlocks, resp.Kind)
	require.NotEmpty(t, resp.BeaconBlocks)

	// All blocks here encode to the same size, so three of them means the
	// slot-6 duplicate was dropped; slot 5 first and slot 7 last means the
	// response is ascending.
	enc5, err := store.Blocks[root5].MarshalSSZ()
	require.NoError(t, err)
	enc7, err := store.Blocks[root7].MarshalSSZ()
	require.NoError(t, err)
	require.Len(t, resp.BeaconBlocks, 3*len(enc5))
	require.Equal(t, enc5, resp.BeaconBlocks[:len(enc5)])
	require.Equal(t, enc7, resp.BeaconBlocks[2*len(enc5):])
}

func TestOnRecentBeaconBlocksRequest_SkipsUnknown(t *testing.T) {
	proc, _, network, _, store := newProcessorFixture()
	root := saveBlockAtSlot(t, store, 11)

	req := p2p.RecentBeaconBlocksRequest{BlockRoots: []types.Root{root, {0xde, 0xad}}}
	proc.OnRecentBeaconBlocksRequest(context.Background(), "peer-4", 1, req)

	require.Len(t, network.Sent, 1)
	resp := network.Sent[0].Event.Response.Success
	require.NotEmpty(t, resp.BeaconBlocks)
}

func TestOnBlockGossip_ParentUnknown_ForwardsToSync(t *testing.T) {
	proc, receiver, _, chain, _ := newProcessorFixture()
	chain.ProcessBlockFn = func(*types.SignedBeaconBlock) (blockchain.BlockProcessingOutcome, error) {
		return blockchain.BlockProcessingOutcomeParentUnknown, nil
	}
	// Keep the block within FutureSlotTolerance of the current slot so it
	// reaches ProcessBlock.
	chain.CurrentSlotVal = 42
	block := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 42}}

	proc.OnBlockGossip(context.Background(), "peer-5", block)

	msg := <-receiver
	require.Equal(t, SyncMessageUnknownBlock, msg.Kind)
	require.Equal(t, block, msg.Block)
}

func TestOnBlockGossip_Processed_NoSyncMessage(t *testing.T) {
	proc, receiver, _, _, _ := newProcessorFixture()
	block := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 1}}

	proc.OnBlockGossip(context.Background(), "peer-6", block)

	select {
	case <-receiver:
		t.Fatal("did not expect a sync message for a processed block")
	default:
	}
}

func TestOnBlockGossip_Error_Dropped(t *testing.T) {
	proc, receiver, _, chain, _ := newProcessorFixture()
	chain.ProcessBlockFn = func(*types.SignedBeaconBlock) (blockchain.BlockProcessingOutcome, error) {
		return blockchain.BlockProcessingOutcomeInvalid, errors.New("processing failed")
	}
	block := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 1}}
	proc.OnBlockGossip(context.Background(), "peer-7", block)

	select {
	case <-receiver:
		t.Fatal("did not expect a sync message on processing error")
	default:
	}
}

func TestOnAttestationGossip_Processed(t *testing.T) {
	proc, _, _, _, _ := newProcessorFixture()
	att := &types.Attestation{Data: &types.AttestationData{Slot: 3}}
	proc.OnAttestationGossip(context.Background(), "peer-8", att)
}
