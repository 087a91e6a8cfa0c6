// Package state defines the BeaconState capability the forwarding validator
// (§4.E) advances and queries. Full state transition lives in the beacon
// chain itself (§1 scope note); this core only needs the narrow read/advance
// surface below, consumed through an interface so no concrete state
// implementation is required here.
package state

import (
	"github.com/pkg/errors"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
)

// RelativeEpoch names an epoch relative to a state's current epoch, the
// granularity committee caches are built and looked up at.
type RelativeEpoch int

const (
	// RelativeEpochUnknown marks slot pairs too far apart to relate.
	RelativeEpochUnknown RelativeEpoch = iota
	RelativeEpochPrevious
	RelativeEpochCurrent
	RelativeEpochNext
)

// RelativeEpochFromSlots relates parentSlot to blockSlot, mirroring
// RelativeEpoch::from_slot: valid only when both slots fall within one
// epoch of each other under the state they're computed against.
func RelativeEpochFromSlots(parentSlot, blockSlot uint64, slotsPerEpoch uint64) (RelativeEpoch, error) {
	if slotsPerEpoch == 0 {
		return RelativeEpochUnknown, errors.New("slots_per_epoch is zero")
	}
	parentEpoch := parentSlot / slotsPerEpoch
	blockEpoch := blockSlot / slotsPerEpoch
	switch {
	case blockEpoch == parentEpoch:
		return RelativeEpochCurrent, nil
	case parentEpoch > 0 && blockEpoch == parentEpoch-1:
		return RelativeEpochPrevious, nil
	case blockEpoch == parentEpoch+1:
		return RelativeEpochNext, nil
	default:
		return RelativeEpochUnknown, errors.New("slots are not within a relatable epoch distance")
	}
}

// BeaconState is the external capability the forwarding validator reads and
// advances. Implementations back this with the node's real state-transition
// machinery; beacon-chain/state/statetest ships an in-memory double for
// tests.
type BeaconState interface {
	Slot() uint64
	Fork() *types.Fork
	StateRoot() types.Root
	FinalizedCheckpoint() *types.Checkpoint
	Copy() BeaconState

	// ProcessSlot advances the state by exactly one slot. Component E
	// calls this in a loop up to the target slot, matching per_slot_processing
	// being invoked once per slot in the original.
	ProcessSlot() error

	// BuildCommitteeCache prepares proposer/committee lookups for relEpoch.
	BuildCommitteeCache(relEpoch RelativeEpoch) error

	// BeaconProposerIndex returns the validator index assigned to propose
	// at slot, under the committee cache built for relEpoch.
	BeaconProposerIndex(slot uint64, relEpoch RelativeEpoch) (uint64, error)

	// ValidatorAtIndex returns the validator record at i.
	ValidatorAtIndex(i uint64) (*types.Validator, error)

	// GetIndexedAttestation rewrites att's aggregation bitlist into
	// explicit validator indices using this state's committee assignment
	// for att.Data.
	GetIndexedAttestation(att *types.Attestation) (*types.IndexedAttestation, error)
}
