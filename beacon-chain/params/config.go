// Package params defines the chain-spec constants the p2p and sync packages
// are generic over. Nothing in this package is a global: callers thread a
// *BeaconChainConfig through explicitly rather than reaching for a package
// singleton.
package params

import "math"

// BeaconChainConfig carries the subset of the eth2 chain spec that the
// networking and sync core needs: slot/epoch arithmetic and domain tags.
type BeaconChainConfig struct {
	SlotsPerEpoch      uint64
	SecondsPerSlot     uint64
	GenesisForkVersion [4]byte
}

// MainnetConfig returns spec values matching the network this core was
// built against. Tests that need different parameters construct their own
// BeaconChainConfig rather than mutating this one.
func MainnetConfig() *BeaconChainConfig {
	return &BeaconChainConfig{
		SlotsPerEpoch:      32,
		SecondsPerSlot:     12,
		GenesisForkVersion: [4]byte{0x00, 0x00, 0x00, 0x00},
	}
}

// StartSlot returns epoch*slotsPerEpoch, saturating instead of overflowing.
// §4.B requires slot arithmetic to never panic on attacker-controlled input.
func StartSlot(epoch uint64, slotsPerEpoch uint64) uint64 {
	if slotsPerEpoch == 0 {
		return 0
	}
	if epoch > math.MaxUint64/slotsPerEpoch {
		return math.MaxUint64
	}
	return epoch * slotsPerEpoch
}

// SlotToEpoch returns slot/slotsPerEpoch.
func SlotToEpoch(slot uint64, slotsPerEpoch uint64) uint64 {
	if slotsPerEpoch == 0 {
		return 0
	}
	return slot / slotsPerEpoch
}

// DomainType tags the purpose a BLS signing domain was derived for.
type DomainType [4]byte

var (
	// DomainBeaconProposer is used to verify a block proposer's signature.
	DomainBeaconProposer = DomainType{0x00, 0x00, 0x00, 0x00}
	// DomainBeaconAttester is used to verify an attestation's signature.
	DomainBeaconAttester = DomainType{0x01, 0x00, 0x00, 0x00}
)

const (
	// FutureSlotTolerance is how many slots ahead of the local clock a
	// gossip block may be before it is dropped outright (§6). Attestations
	// are not checked against it.
	FutureSlotTolerance = 1

	// SeenGossipMessagesCacheSize bounds the behaviour's duplicate-gossip
	// LRU (§3).
	SeenGossipMessagesCacheSize = 256

	// MaxIdentifyAddresses is the hard cap applied to identify's
	// listen_addrs on receipt (§4.A, §6).
	MaxIdentifyAddresses = 20

	// MaxPayloadSize bounds the decompressed length of a single gossip or
	// RPC chunk (§2). 10 MiB comfortably covers a full BeaconBlocksByRange
	// response chunk at mainnet block sizes.
	MaxPayloadSize = uint64(10 * 1 << 20)

	// MaxChunkRequestBlocks bounds how many blocks a single
	// BeaconBlocksByRange request may ask for (§4.D).
	MaxChunkRequestBlocks = uint64(1024)

	// MaxRequestedBlockRoots bounds how many roots a single
	// BeaconBlocksByRoot request may ask for (§4.D).
	MaxRequestedBlockRoots = uint64(1024)
)
