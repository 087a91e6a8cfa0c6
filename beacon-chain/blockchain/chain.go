// Package blockchain defines the Chain capability the sync core consumes
// (§6). Block import, fork choice and the state transition itself live
// outside this core (§1); the core only ever calls through this narrow
// interface.
package blockchain

import (
	"context"

	"github.com/eth2core/beacon-p2p/beacon-chain/core/signing"
	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/db"
	"github.com/eth2core/beacon-p2p/beacon-chain/params"
	"github.com/eth2core/beacon-p2p/beacon-chain/state"
)

// BlockProcessingOutcome is the result of submitting a block to the chain.
type BlockProcessingOutcome int

const (
	BlockProcessingOutcomeProcessed BlockProcessingOutcome = iota
	BlockProcessingOutcomeParentUnknown
	BlockProcessingOutcomeFutureSlot
	BlockProcessingOutcomeInvalidSignature
	BlockProcessingOutcomeInvalid
)

func (o BlockProcessingOutcome) String() string {
	switch o {
	case BlockProcessingOutcomeProcessed:
		return "Processed"
	case BlockProcessingOutcomeParentUnknown:
		return "ParentUnknown"
	case BlockProcessingOutcomeFutureSlot:
		return "FutureSlot"
	case BlockProcessingOutcomeInvalidSignature:
		return "InvalidSignature"
	default:
		return "Invalid"
	}
}

// AttestationProcessingOutcome is the result of submitting an attestation.
type AttestationProcessingOutcome int

const (
	AttestationProcessingOutcomeProcessed AttestationProcessingOutcome = iota
	AttestationProcessingOutcomeUnknownTargetRoot
	AttestationProcessingOutcomeInvalid
)

func (o AttestationProcessingOutcome) String() string {
	switch o {
	case AttestationProcessingOutcomeProcessed:
		return "Processed"
	case AttestationProcessingOutcomeUnknownTargetRoot:
		return "UnknownTargetRoot"
	default:
		return "Invalid"
	}
}

// Head summarizes the chain's current canonical head: the block/state roots
// and the state value itself, used both to build outbound Hello messages
// and as the forwarding validator's fast-path state.
type Head struct {
	BeaconBlockRoot types.Root
	BeaconStateRoot types.Root
	BeaconState     state.BeaconState
}

// Chain is the capability set §6 requires of the beacon chain: reading the
// head and canonical roots, submitting gossip for processing, and deriving
// signing domains.
type Chain interface {
	// Head returns the current canonical head.
	Head() *Head

	// RootAtSlot returns the canonical block root at slot, if any.
	RootAtSlot(slot uint64) (types.Root, bool)

	// CurrentSlot returns the wall-clock slot, per the node's slot clock.
	CurrentSlot() (uint64, error)

	// Store exposes the read-only persistent store (§6).
	Store() db.Store

	// ProcessBlock submits a gossiped/RPC'd block for import.
	ProcessBlock(ctx context.Context, block *types.SignedBeaconBlock) (BlockProcessingOutcome, error)

	// ProcessAttestation submits a gossiped attestation for import.
	ProcessAttestation(ctx context.Context, att *types.Attestation) (AttestationProcessingOutcome, error)

	// GetDomain derives the signing domain for epoch/domainType under
	// fork.
	GetDomain(epoch uint64, domainType params.DomainType, fork *types.Fork) signing.Domain

	// SlotsPerEpoch exposes the chain-spec constant the handshake and
	// forwarding validator need for slot/epoch arithmetic.
	SlotsPerEpoch() uint64
}
