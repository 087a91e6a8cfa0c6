package types

import (
	"crypto/sha256"

	ssz "github.com/ferranbt/fastssz"
)

// HashTreeRoot computes the block's SSZ hash-tree-root. This is the value
// signed by the proposer (the "signing root", once domain-mixed), and what
// should_forward_block verifies the signature against.
func (b *BeaconBlock) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith implements ssz.HashRoot.
func (b *BeaconBlock) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutUint64(b.Slot)
	hh.PutUint64(b.ProposerIndex)
	hh.PutBytes(b.ParentRoot[:])
	hh.PutBytes(b.StateRoot[:])
	if b.Body == nil {
		b.Body = &BeaconBlockBody{}
	}
	if err := b.Body.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(indx)
	return nil
}

// HashTreeRootWith implements ssz.HashRoot. The attestation list is hashed
// as the SHA-256 of its concatenated SSZ encoding rather than individually
// merkleized: the core only
// needs a stable root to verify signatures against, never a membership
// proof into the body.
func (b *BeaconBlockBody) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutBytes(b.RandaoReveal[:])
	if b.Eth1Data == nil {
		b.Eth1Data = &Eth1Data{}
	}
	eIndx := hh.Index()
	hh.PutBytes(b.Eth1Data.DepositRoot[:])
	hh.PutUint64(b.Eth1Data.DepositCount)
	hh.PutBytes(b.Eth1Data.BlockHash[:])
	hh.Merkleize(eIndx)
	hh.PutBytes(b.Graffiti[:])
	var ops []byte
	for _, att := range b.Attestations {
		enc, err := att.MarshalSSZ()
		if err != nil {
			return err
		}
		ops = append(ops, enc...)
	}
	opsRoot := sha256.Sum256(ops)
	hh.PutBytes(opsRoot[:])
	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot computes the attestation data's hash-tree-root, the object
// that gets domain-mixed into a signing root for attestation signatures.
func (d *AttestationData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(d)
}

// HashTreeRootWith implements ssz.HashRoot.
func (d *AttestationData) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutUint64(d.Slot)
	hh.PutUint64(d.CommitteeIndex)
	hh.PutBytes(d.BeaconBlockRoot[:])
	if d.Source == nil {
		d.Source = &Checkpoint{}
	}
	if d.Target == nil {
		d.Target = &Checkpoint{}
	}
	sIndx := hh.Index()
	hh.PutUint64(d.Source.Epoch)
	hh.PutBytes(d.Source.Root[:])
	hh.Merkleize(sIndx)
	tIndx := hh.Index()
	hh.PutUint64(d.Target.Epoch)
	hh.PutBytes(d.Target.Root[:])
	hh.Merkleize(tIndx)
	hh.Merkleize(indx)
	return nil
}
