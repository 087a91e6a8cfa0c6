package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eth2core/beacon-p2p/beacon-chain/blockchain"
	"github.com/eth2core/beacon-p2p/beacon-chain/blockchain/chaintest"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/signing"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/db/dbtest"
	"github.com/eth2core/beacon-p2p/beacon-chain/params"
	"github.com/eth2core/beacon-p2p/beacon-chain/state"
	"github.com/eth2core/beacon-p2p/beacon-chain/state/statetest"
	"github.com/eth2core/beacon-p2p/crypto/bls/blstest"
)

const testSlotsPerEpoch = 8

func testFork() *types.Fork {
	return &types.Fork{
		PreviousVersion: types.ForkVersion{0, 0, 0, 0},
		CurrentVersion:  types.ForkVersion{0, 0, 0, 0},
		Epoch:           0,
	}
}

// signedBlockAt builds a block at slot with parentRoot/parentStateRoot,
// signed by key under the proposer domain for the fork/epoch of slot.
func signedBlockAt(t *testing.T, slot uint64, parentRoot, stateRoot types.Root, proposerIndex uint64, key *blstest.Key, fork *types.Fork) *types.SignedBeaconBlock {
	t.Helper()
	block := &types.BeaconBlock{
		Slot:          slot,
		ProposerIndex: proposerIndex,
		ParentRoot:    parentRoot,
		StateRoot:     stateRoot,
		Body:          &types.BeaconBlockBody{},
	}
	root, err := block.HashTreeRoot()
	require.NoError(t, err)

	domain := signing.ComputeDomain(params.DomainBeaconProposer, fork.CurrentVersion, types.Root{})
	signingRoot := signing.ComputeSigningRoot(types.Root(root), domain)

	signed := &types.SignedBeaconBlock{Block: block}
	copy(signed.Signature[:], key.Sign(signingRoot[:]))
	return signed
}

func newMockStateWithProposer(slot uint64, proposerIndex uint64, validators []*types.Validator, fork *types.Fork, stateRoot types.Root) *statetest.MockState {
	return &statetest.MockState{
		SlotVal:      slot,
		ForkVal:      fork,
		StateRootVal: stateRoot,
		Validators:   validators,
		Proposers:    map[uint64]uint64{slot: proposerIndex},
	}
}

func TestShouldForwardBlock_HeadStateFastPath(t *testing.T) {
	fork := testFork()
	key := blstest.NewKey(1)
	validators := []*types.Validator{{PublicKey: pubKeyArr(key)}}

	parentStateRoot := types.Root{0xBB}
	parent := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 5, StateRoot: parentStateRoot, Body: &types.BeaconBlockBody{}}}

	headState := newMockStateWithProposer(6, 0, validators, fork, parentStateRoot)
	head := &blockchain.Head{BeaconStateRoot: parentStateRoot, BeaconState: headState}

	store := dbtest.NewMockStore()
	_, err := store.SaveBlock(parent)
	require.NoError(t, err)

	chain := &chaintest.MockChain{
		HeadVal:          head,
		StoreVal:         store,
		SlotsPerEpochVal: testSlotsPerEpoch,
	}

	parentRootComputed, err := parent.Block.HashTreeRoot()
	require.NoError(t, err)
	block := signedBlockAt(t, 6, types.Root(parentRootComputed), parentStateRoot, 0, key, fork)

	v := NewForwardingValidator(chain)
	require.True(t, v.ShouldForwardBlock(context.Background(), block))
}

func TestShouldForwardBlock_StateFromStoreFallback(t *testing.T) {
	fork := testFork()
	key := blstest.NewKey(2)
	validators := []*types.Validator{{PublicKey: pubKeyArr(key)}}

	parentStateRoot := types.Root{0xCC}
	parent := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 5, StateRoot: parentStateRoot, Body: &types.BeaconBlockBody{}}}

	store := dbtest.NewMockStore()
	_, err := store.SaveBlock(parent)
	require.NoError(t, err)
	parentState := newMockStateWithProposer(6, 0, validators, fork, parentStateRoot)
	store.SaveState(parentStateRoot, parentState)

	// Head state root differs from the parent's state root, forcing the
	// store.State fallback.
	head := &blockchain.Head{BeaconStateRoot: types.Root{0xFF}, BeaconState: nil}

	chain := &chaintest.MockChain{
		HeadVal:          head,
		StoreVal:         store,
		SlotsPerEpochVal: testSlotsPerEpoch,
	}

	parentRootComputed, err := parent.Block.HashTreeRoot()
	require.NoError(t, err)
	block := signedBlockAt(t, 6, types.Root(parentRootComputed), parentStateRoot, 0, key, fork)

	v := NewForwardingValidator(chain)
	require.True(t, v.ShouldForwardBlock(context.Background(), block))
}

func TestShouldForwardBlock_PerSlotProcessingFallback(t *testing.T) {
	fork := testFork()
	key := blstest.NewKey(3)
	validators := []*types.Validator{{PublicKey: pubKeyArr(key)}}

	parentStateRoot := types.Root{0xDD}
	// Parent is at slot 1, block at slot 20: more than one epoch apart at
	// testSlotsPerEpoch=8, forcing RelativeEpochFromSlots to error.
	parent := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 1, StateRoot: parentStateRoot, Body: &types.BeaconBlockBody{}}}

	parentState := newMockStateWithProposer(20, 0, validators, fork, parentStateRoot)
	parentState.SlotVal = 1 // the state itself starts at the parent's slot

	store := dbtest.NewMockStore()
	_, err := store.SaveBlock(parent)
	require.NoError(t, err)
	store.SaveState(parentStateRoot, parentState)

	head := &blockchain.Head{BeaconStateRoot: types.Root{0xEE}}
	chain := &chaintest.MockChain{
		HeadVal:          head,
		StoreVal:         store,
		SlotsPerEpochVal: testSlotsPerEpoch,
	}

	_, relErr := state.RelativeEpochFromSlots(parent.Block.Slot, 20, testSlotsPerEpoch)
	require.Error(t, relErr)

	parentRootComputed, err := parent.Block.HashTreeRoot()
	require.NoError(t, err)
	block := signedBlockAt(t, 20, types.Root(parentRootComputed), parentStateRoot, 0, key, fork)

	v := NewForwardingValidator(chain)
	require.True(t, v.ShouldForwardBlock(context.Background(), block))
}

func TestShouldForwardBlock_MissingParent(t *testing.T) {
	chain := &chaintest.MockChain{
		HeadVal:          &blockchain.Head{},
		StoreVal:         dbtest.NewMockStore(),
		SlotsPerEpochVal: testSlotsPerEpoch,
	}
	block := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 6, ParentRoot: types.Root{0x01}, Body: &types.BeaconBlockBody{}}}

	v := NewForwardingValidator(chain)
	require.False(t, v.ShouldForwardBlock(context.Background(), block))
}

func TestShouldForwardBlock_MissingState(t *testing.T) {
	parentStateRoot := types.Root{0x02}
	parent := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 5, StateRoot: parentStateRoot, Body: &types.BeaconBlockBody{}}}

	store := dbtest.NewMockStore()
	_, err := store.SaveBlock(parent)
	require.NoError(t, err)
	// Deliberately do not SaveState for parentStateRoot.

	head := &blockchain.Head{BeaconStateRoot: types.Root{0x03}}
	chain := &chaintest.MockChain{
		HeadVal:          head,
		StoreVal:         store,
		SlotsPerEpochVal: testSlotsPerEpoch,
	}

	parentRootComputed, err := parent.Block.HashTreeRoot()
	require.NoError(t, err)
	block := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 6, ParentRoot: types.Root(parentRootComputed), Body: &types.BeaconBlockBody{}}}

	v := NewForwardingValidator(chain)
	require.False(t, v.ShouldForwardBlock(context.Background(), block))
}

func TestShouldForwardBlock_ProposerError(t *testing.T) {
	fork := testFork()
	key := blstest.NewKey(4)
	validators := []*types.Validator{{PublicKey: pubKeyArr(key)}}

	parentStateRoot := types.Root{0x04}
	parent := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 5, StateRoot: parentStateRoot, Body: &types.BeaconBlockBody{}}}

	headState := newMockStateWithProposer(6, 0, validators, fork, parentStateRoot)
	headState.ProposerErr = assert.AnError
	head := &blockchain.Head{BeaconStateRoot: parentStateRoot, BeaconState: headState}

	store := dbtest.NewMockStore()
	_, err := store.SaveBlock(parent)
	require.NoError(t, err)

	chain := &chaintest.MockChain{
		HeadVal:          head,
		StoreVal:         store,
		SlotsPerEpochVal: testSlotsPerEpoch,
	}

	parentRootComputed, err := parent.Block.HashTreeRoot()
	require.NoError(t, err)
	block := signedBlockAt(t, 6, types.Root(parentRootComputed), parentStateRoot, 0, key, fork)

	v := NewForwardingValidator(chain)
	require.False(t, v.ShouldForwardBlock(context.Background(), block))
}

func TestShouldForwardBlock_BadSignature(t *testing.T) {
	fork := testFork()
	proposerKey := blstest.NewKey(5)
	wrongKey := blstest.NewKey(6)
	validators := []*types.Validator{{PublicKey: pubKeyArr(proposerKey)}}

	parentStateRoot := types.Root{0x05}
	parent := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 5, StateRoot: parentStateRoot, Body: &types.BeaconBlockBody{}}}

	headState := newMockStateWithProposer(6, 0, validators, fork, parentStateRoot)
	head := &blockchain.Head{BeaconStateRoot: parentStateRoot, BeaconState: headState}

	store := dbtest.NewMockStore()
	_, err := store.SaveBlock(parent)
	require.NoError(t, err)

	chain := &chaintest.MockChain{
		HeadVal:          head,
		StoreVal:         store,
		SlotsPerEpochVal: testSlotsPerEpoch,
	}

	parentRootComputed, err := parent.Block.HashTreeRoot()
	require.NoError(t, err)
	// Signed by wrongKey, but the registered proposer's public key is
	// proposerKey's: the signature is well-formed but does not verify.
	block := signedBlockAt(t, 6, types.Root(parentRootComputed), parentStateRoot, 0, wrongKey, fork)

	v := NewForwardingValidator(chain)
	require.False(t, v.ShouldForwardBlock(context.Background(), block))
}

func pubKeyArr(k *blstest.Key) [48]byte {
	var out [48]byte
	copy(out[:], k.PublicKeyBytes())
	return out
}

func indexedAttestation(indices []uint64) *types.IndexedAttestation {
	return &types.IndexedAttestation{
		AttestingIndices: indices,
		Data: &types.AttestationData{
			Slot:            6,
			BeaconBlockRoot: types.Root{0x10},
			Source:          &types.Checkpoint{},
			Target:          &types.Checkpoint{Epoch: 0},
		},
	}
}

// signIndexedAttestation computes the signing root for indexed's data under
// fork and signs it with keys[0] only; the other keys are not used, so it
// produces a valid aggregate only for a single attester, which is all these
// tests need from verifyIndexedAttestation's FastAggregateVerify.
func signIndexedAttestation(t *testing.T, indexed *types.IndexedAttestation, fork *types.Fork, keys ...*blstest.Key) {
	t.Helper()
	root, err := indexed.Data.HashTreeRoot()
	require.NoError(t, err)
	domain := signing.ComputeDomain(params.DomainBeaconAttester, fork.CurrentVersion, types.Root{})
	signingRoot := signing.ComputeSigningRoot(types.Root(root), domain)
	copy(indexed.Signature[:], keys[0].Sign(signingRoot[:]))
}

func TestShouldForwardAttestation_HeadStateFastPath(t *testing.T) {
	fork := testFork()
	key := blstest.NewKey(10)
	validators := []*types.Validator{{PublicKey: pubKeyArr(key)}}

	indexed := indexedAttestation([]uint64{0})
	signIndexedAttestation(t, indexed, fork, key)

	headState := &statetest.MockState{
		ForkVal:    fork,
		Validators: validators,
		IndexedAttestationFn: func(*types.Attestation) (*types.IndexedAttestation, error) {
			return indexed, nil
		},
	}
	head := &blockchain.Head{BeaconState: headState}
	chain := &chaintest.MockChain{HeadVal: head, StoreVal: dbtest.NewMockStore(), SlotsPerEpochVal: testSlotsPerEpoch}

	att := &types.Attestation{Data: indexed.Data}
	v := NewForwardingValidator(chain)
	require.True(t, v.ShouldForwardAttestation(context.Background(), att))
}

func TestShouldForwardAttestation_StateFromStoreFallback(t *testing.T) {
	fork := testFork()
	key := blstest.NewKey(11)
	validators := []*types.Validator{{PublicKey: pubKeyArr(key)}}

	indexed := indexedAttestation([]uint64{0})
	signIndexedAttestation(t, indexed, fork, key)

	attestedStateRoot := types.Root{0x11}
	attestedBlock := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 6, StateRoot: attestedStateRoot, Body: &types.BeaconBlockBody{}}}

	store := dbtest.NewMockStore()
	store.Blocks[indexed.Data.BeaconBlockRoot] = attestedBlock
	fallbackState := &statetest.MockState{
		ForkVal:    fork,
		Validators: validators,
		IndexedAttestationFn: func(*types.Attestation) (*types.IndexedAttestation, error) {
			return indexed, nil
		},
	}
	store.SaveState(attestedStateRoot, fallbackState)

	// Head has no in-memory state, forcing the store fallback.
	head := &blockchain.Head{}
	chain := &chaintest.MockChain{HeadVal: head, StoreVal: store, SlotsPerEpochVal: testSlotsPerEpoch}

	att := &types.Attestation{Data: indexed.Data}
	v := NewForwardingValidator(chain)
	require.True(t, v.ShouldForwardAttestation(context.Background(), att))
}

func TestShouldForwardAttestation_MissingBlock(t *testing.T) {
	head := &blockchain.Head{}
	chain := &chaintest.MockChain{HeadVal: head, StoreVal: dbtest.NewMockStore(), SlotsPerEpochVal: testSlotsPerEpoch}

	att := &types.Attestation{Data: &types.AttestationData{BeaconBlockRoot: types.Root{0x12}, Source: &types.Checkpoint{}, Target: &types.Checkpoint{}}}
	v := NewForwardingValidator(chain)
	require.False(t, v.ShouldForwardAttestation(context.Background(), att))
}

func TestShouldForwardAttestation_MissingState(t *testing.T) {
	attestedBlockRoot := types.Root{0x13}
	attestedBlock := &types.SignedBeaconBlock{Block: &types.BeaconBlock{Slot: 6, StateRoot: types.Root{0x14}, Body: &types.BeaconBlockBody{}}}

	store := dbtest.NewMockStore()
	store.Blocks[attestedBlockRoot] = attestedBlock
	// Deliberately do not SaveState for the attested block's state root.

	head := &blockchain.Head{}
	chain := &chaintest.MockChain{HeadVal: head, StoreVal: store, SlotsPerEpochVal: testSlotsPerEpoch}

	att := &types.Attestation{Data: &types.AttestationData{BeaconBlockRoot: attestedBlockRoot, Source: &types.Checkpoint{}, Target: &types.Checkpoint{}}}
	v := NewForwardingValidator(chain)
	require.False(t, v.ShouldForwardAttestation(context.Background(), att))
}

func TestShouldForwardAttestation_BadSignature(t *testing.T) {
	fork := testFork()
	proposerKey := blstest.NewKey(12)
	wrongKey := blstest.NewKey(13)
	validators := []*types.Validator{{PublicKey: pubKeyArr(proposerKey)}}

	indexed := indexedAttestation([]uint64{0})
	// Signed by wrongKey, but the registered attester's key is proposerKey's.
	signIndexedAttestation(t, indexed, fork, wrongKey)

	headState := &statetest.MockState{
		ForkVal:    fork,
		Validators: validators,
		IndexedAttestationFn: func(*types.Attestation) (*types.IndexedAttestation, error) {
			return indexed, nil
		},
	}
	head := &blockchain.Head{BeaconState: headState}
	chain := &chaintest.MockChain{HeadVal: head, StoreVal: dbtest.NewMockStore(), SlotsPerEpochVal: testSlotsPerEpoch}

	att := &types.Attestation{Data: indexed.Data}
	v := NewForwardingValidator(chain)
	require.False(t, v.ShouldForwardAttestation(context.Background(), att))
}
