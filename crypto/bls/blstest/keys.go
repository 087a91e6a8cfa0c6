// Package blstest generates real BLS keypairs and signatures for tests,
// the same capability statetest/chaintest/dbtest give test code for their
// own interfaces. It exists only so forwarding_test.go can exercise the
// real bls.Signature.Verify/VerifyAggregate code paths against genuinely
// valid (and genuinely invalid) signatures rather than malformed bytes.
package blstest

import (
	blst "github.com/supranational/blst/bindings/go"
)

var dst = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// Key is a secret/public keypair usable to sign test fixtures.
type Key struct {
	secret *blst.SecretKey
	public *blst.P1Affine
}

// NewKey derives a deterministic keypair from seed, so tests can produce
// stable fixtures without needing real randomness.
func NewKey(seed byte) *Key {
	ikm := make([]byte, 32)
	for i := range ikm {
		ikm[i] = seed
	}
	sk := blst.KeyGen(ikm)
	pk := new(blst.P1Affine).From(sk)
	return &Key{secret: sk, public: pk}
}

// PublicKeyBytes returns the 48-byte compressed public key, the same wire
// format bls.PublicKeyFromBytes expects.
func (k *Key) PublicKeyBytes() []byte {
	return k.public.Compress()
}

// Sign produces a 96-byte compressed signature over msg, the same wire
// format bls.SignatureFromBytes expects.
func (k *Key) Sign(msg []byte) []byte {
	sig := new(blst.P2Affine).Sign(k.secret, msg, dst)
	return sig.Compress()
}
