// Package statetest provides an in-memory state.BeaconState double for
// tests, in the same spirit as the teacher's mockChainService in
// beacon-chain/deprecated-sync/regular_sync_test.go: a struct with just
// enough behaviour wired to drive the code under test, nothing more.
package statetest

import (
	"github.com/pkg/errors"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/state"
)

// MockState is a fully in-memory, deterministic state.BeaconState.
type MockState struct {
	SlotVal                uint64
	ForkVal                *types.Fork
	StateRootVal           types.Root
	FinalizedCheckpointVal *types.Checkpoint
	Validators             []*types.Validator
	Proposers              map[uint64]uint64 // slot -> validator index
	CommitteeBuilt         bool

	// IndexedAttestationFn lets tests control get_indexed_attestation
	// without modelling committee shuffling.
	IndexedAttestationFn func(att *types.Attestation) (*types.IndexedAttestation, error)

	ProcessSlotErr error
	CommitteeErr   error
	ProposerErr    error
}

var _ state.BeaconState = (*MockState)(nil)

func (m *MockState) Slot() uint64          { return m.SlotVal }
func (m *MockState) Fork() *types.Fork     { return m.ForkVal }
func (m *MockState) StateRoot() types.Root { return m.StateRootVal }
func (m *MockState) FinalizedCheckpoint() *types.Checkpoint { return m.FinalizedCheckpointVal }

func (m *MockState) Copy() state.BeaconState {
	cp := *m
	return &cp
}

func (m *MockState) ProcessSlot() error {
	if m.ProcessSlotErr != nil {
		return m.ProcessSlotErr
	}
	m.SlotVal++
	return nil
}

func (m *MockState) BuildCommitteeCache(_ state.RelativeEpoch) error {
	if m.CommitteeErr != nil {
		return m.CommitteeErr
	}
	m.CommitteeBuilt = true
	return nil
}

func (m *MockState) BeaconProposerIndex(slot uint64, _ state.RelativeEpoch) (uint64, error) {
	if m.ProposerErr != nil {
		return 0, m.ProposerErr
	}
	idx, ok := m.Proposers[slot]
	if !ok {
		return 0, errors.Errorf("no proposer assigned for slot %d", slot)
	}
	return idx, nil
}

func (m *MockState) ValidatorAtIndex(i uint64) (*types.Validator, error) {
	if i >= uint64(len(m.Validators)) {
		return nil, errors.Errorf("validator index %d out of range", i)
	}
	return m.Validators[i], nil
}

func (m *MockState) GetIndexedAttestation(att *types.Attestation) (*types.IndexedAttestation, error) {
	if m.IndexedAttestationFn != nil {
		return m.IndexedAttestationFn(att)
	}
	return nil, errors.New("GetIndexedAttestation not configured on MockState")
}
