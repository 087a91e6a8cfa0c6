// Package signing computes BLS signing domains and signing roots, the two
// steps between an SSZ object's hash-tree-root and the message a BLS
// signature actually covers. Grounded on the handshake/forwarding logic in
// simple_sync.rs, which calls the equivalent `spec.get_domain` and
// `signed_root()` helpers as external, already-available functions.
package signing

import (
	"crypto/sha256"

	"github.com/eth2core/beacon-p2p/beacon-chain/core/types"
	"github.com/eth2core/beacon-p2p/beacon-chain/params"
)

// Domain is the 32-byte value mixed into an object's hash-tree-root before
// it is signed or verified.
type Domain [32]byte

// ComputeDomain derives the signing domain for domainType under fork,
// mirroring compute_domain(domain_type, fork_version, genesis_validators_root).
// genesisValidatorsRoot defaults to the zero root when the caller does not
// track one; the core does not require genesis-validators tracking for its
// own correctness (§1 scope).
func ComputeDomain(domainType params.DomainType, forkVersion types.ForkVersion, genesisValidatorsRoot types.Root) Domain {
	forkDataRoot := computeForkDataRoot(forkVersion, genesisValidatorsRoot)
	var d Domain
	copy(d[:4], domainType[:])
	copy(d[4:], forkDataRoot[:28])
	return d
}

func computeForkDataRoot(version types.ForkVersion, genesisValidatorsRoot types.Root) types.Root {
	var buf [64]byte
	copy(buf[:4], version[:])
	copy(buf[32:], genesisValidatorsRoot[:])
	return sha256.Sum256(buf[:])
}

// ComputeSigningRoot mixes domain into objRoot, producing the value a BLS
// signature is actually computed/verified over. For a two-leaf SSZ
// container (object_root, domain) the Merkle root is simply the hash of
// their concatenation.
func ComputeSigningRoot(objRoot types.Root, domain Domain) types.Root {
	var buf [64]byte
	copy(buf[:32], objRoot[:])
	copy(buf[32:], domain[:])
	return sha256.Sum256(buf[:])
}
