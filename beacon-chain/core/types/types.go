// Package types defines the plain beacon-chain value types the networking
// and sync core reads and writes: blocks, attestations, and the small state
// fields the handshake and forwarding validator need. Block import, fork
// choice and full state transition are external capabilities (§1, §6) and
// are not implemented here.
package types

import (
	"github.com/prysmaticlabs/go-bitfield"
)

// Root is a 32-byte SSZ hash-tree-root, used throughout for block, state and
// attestation roots.
type Root [32]byte

// IsZero reports whether r is the all-zero root, the sentinel the handshake
// uses for "peer has never finalized anything".
func (r Root) IsZero() bool {
	return r == Root{}
}

// ForkVersion is the 4-byte tag distinguishing incompatible network forks.
type ForkVersion [4]byte

// Fork describes a state's current and previous fork versions.
type Fork struct {
	PreviousVersion ForkVersion
	CurrentVersion  ForkVersion
	Epoch           uint64
}

// Checkpoint pairs an epoch with the root finalized or justified at it.
type Checkpoint struct {
	Epoch uint64
	Root  Root
}

// Eth1Data is carried in the block body; only present here so BeaconBlockBody
// shapes match the real chain's wire format.
type Eth1Data struct {
	DepositRoot  Root
	DepositCount uint64
	BlockHash    Root
}

// BeaconBlockBody holds the block's non-header payload. Nested operations
// (proposer/attester slashings, deposits, voluntary exits) are omitted: the
// core never inspects them, only the proposer signature over the whole
// block.
type BeaconBlockBody struct {
	RandaoReveal [96]byte
	Eth1Data     *Eth1Data
	Graffiti     [32]byte
	Attestations []*Attestation
}

// BeaconBlock is the unsigned block header+body pair the core passes to the
// chain for processing and hashes to derive a signing root.
type BeaconBlock struct {
	Slot          uint64
	ProposerIndex uint64
	ParentRoot    Root
	StateRoot     Root
	Body          *BeaconBlockBody
}

// SignedBeaconBlock pairs a block with its proposer signature. This is the
// value gossiped on the block topic and requested/returned over RPC.
type SignedBeaconBlock struct {
	Block     *BeaconBlock
	Signature [96]byte
}

// AttestationData identifies what a single attestation is attesting to.
type AttestationData struct {
	Slot            uint64
	CommitteeIndex  uint64
	BeaconBlockRoot Root
	Source          *Checkpoint
	Target          *Checkpoint
}

// Attestation is the gossiped, not-yet-indexed form: aggregation bits plus
// an aggregate signature over Data.
type Attestation struct {
	AggregationBits bitfield.Bitlist
	Data            *AttestationData
	Signature       [96]byte
}

// IndexedAttestation rewrites an Attestation with explicit validator
// indices, the form signature verification actually operates on.
type IndexedAttestation struct {
	AttestingIndices []uint64
	Data             *AttestationData
	Signature        [96]byte
}

// Validator is the subset of validator-registry fields the core reads: the
// public key used to verify proposer and attester signatures.
type Validator struct {
	PublicKey [48]byte
}
