// Package bls wraps supranational/blst with the minimal surface the
// forwarding validator needs: parsing public keys/signatures off the wire
// and verifying single and aggregate signatures. BLS primitives are an
// external capability per spec §1/§6; this is a thin adapter, not a
// from-scratch implementation.
package bls

import (
	"github.com/pkg/errors"
	blst "github.com/supranational/blst/bindings/go"
)

// domainSeparationTag matches the ciphersuite eth2 uses for BLS
// signatures over the BLS12-381 G2 curve.
var domainSeparationTag = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// PublicKey is a deserialized BLS public key (G1 point).
type PublicKey struct {
	p *blst.P1Affine
}

// Signature is a deserialized BLS signature (G2 point).
type Signature struct {
	s *blst.P2Affine
}

// PublicKeyFromBytes parses a 48-byte compressed G1 point.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	p := new(blst.P1Affine).Uncompress(b)
	if p == nil {
		return nil, errors.New("invalid public key bytes")
	}
	if !p.KeyValidate() {
		return nil, errors.New("public key fails group validation")
	}
	return &PublicKey{p: p}, nil
}

// SignatureFromBytes parses a 96-byte compressed G2 point.
func SignatureFromBytes(b []byte) (*Signature, error) {
	s := new(blst.P2Affine).Uncompress(b)
	if s == nil {
		return nil, errors.New("invalid signature bytes")
	}
	return &Signature{s: s}, nil
}

// Verify checks sig over msg under pub. Used for the single-proposer
// signature check in should_forward_block.
func (sig *Signature) Verify(pub *PublicKey, msg []byte) bool {
	if sig == nil || pub == nil {
		return false
	}
	return sig.s.Verify(true, pub.p, true, msg, domainSeparationTag)
}

// VerifyAggregate checks sig as an aggregate signature over a single msg
// signed independently by each of pubs. Used for indexed-attestation
// signature verification, where every attester signs the same
// AttestationData signing root.
func (sig *Signature) VerifyAggregate(pubs []*PublicKey, msg []byte) bool {
	if sig == nil || len(pubs) == 0 {
		return false
	}
	raw := make([]*blst.P1Affine, len(pubs))
	for i, p := range pubs {
		if p == nil {
			return false
		}
		raw[i] = p.p
	}
	return sig.s.FastAggregateVerify(true, raw, msg, domainSeparationTag)
}
