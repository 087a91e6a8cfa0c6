package types

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"
)

// This file hand-rolls the fastssz.Marshaler/Unmarshaler pair (MarshalSSZ,
// MarshalSSZTo, SizeSSZ, UnmarshalSSZ) for the subset of fields the
// networking core actually puts on the wire. Real fixed-size fields are
// packed inline; variable-size fields (attestation lists, the bitlist) sit
// behind a uint32 offset the way fastssz-generated code does it. Unlike
// fastssz, each item of the attestation list is written with its own uint32
// length prefix rather than through a per-item offset table.

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

const (
	eth1DataSize        = 32 + 8 + 32
	checkpointSize       = 8 + 32
	attestationDataSize  = 8 + 8 + 32 + checkpointSize + checkpointSize
	attestationFixedSize = 4 + attestationDataSize + 96
	blockBodyFixedSize   = 96 + eth1DataSize + 32 + 4
	blockFixedSize       = 8 + 8 + 32 + 32 + 4
	signedBlockFixedSize = 4 + 96
)

func (e *Eth1Data) SizeSSZ() int { return eth1DataSize }

func (e *Eth1Data) MarshalSSZTo(buf []byte) ([]byte, error) {
	buf = append(buf, e.DepositRoot[:]...)
	buf = appendUint64(buf, e.DepositCount)
	buf = append(buf, e.BlockHash[:]...)
	return buf, nil
}

func (e *Eth1Data) MarshalSSZ() ([]byte, error) {
	return e.MarshalSSZTo(make([]byte, 0, eth1DataSize))
}

func (e *Eth1Data) UnmarshalSSZ(buf []byte) error {
	if len(buf) != eth1DataSize {
		return errors.Errorf("Eth1Data: expected %d bytes, got %d", eth1DataSize, len(buf))
	}
	copy(e.DepositRoot[:], buf[:32])
	e.DepositCount = binary.LittleEndian.Uint64(buf[32:40])
	copy(e.BlockHash[:], buf[40:72])
	return nil
}

func (c *Checkpoint) SizeSSZ() int { return checkpointSize }

func (c *Checkpoint) MarshalSSZTo(buf []byte) ([]byte, error) {
	buf = appendUint64(buf, c.Epoch)
	buf = append(buf, c.Root[:]...)
	return buf, nil
}

func (c *Checkpoint) MarshalSSZ() ([]byte, error) {
	return c.MarshalSSZTo(make([]byte, 0, checkpointSize))
}

func (c *Checkpoint) UnmarshalSSZ(buf []byte) error {
	if len(buf) != checkpointSize {
		return errors.Errorf("Checkpoint: expected %d bytes, got %d", checkpointSize, len(buf))
	}
	c.Epoch = binary.LittleEndian.Uint64(buf[:8])
	copy(c.Root[:], buf[8:40])
	return nil
}

func (a *AttestationData) SizeSSZ() int { return attestationDataSize }

func (a *AttestationData) MarshalSSZTo(buf []byte) ([]byte, error) {
	buf = appendUint64(buf, a.Slot)
	buf = appendUint64(buf, a.CommitteeIndex)
	buf = append(buf, a.BeaconBlockRoot[:]...)
	var err error
	buf, err = a.Source.MarshalSSZTo(buf)
	if err != nil {
		return nil, err
	}
	return a.Target.MarshalSSZTo(buf)
}

func (a *AttestationData) MarshalSSZ() ([]byte, error) {
	return a.MarshalSSZTo(make([]byte, 0, attestationDataSize))
}

func (a *AttestationData) UnmarshalSSZ(buf []byte) error {
	if len(buf) != attestationDataSize {
		return errors.Errorf("AttestationData: expected %d bytes, got %d", attestationDataSize, len(buf))
	}
	a.Slot = binary.LittleEndian.Uint64(buf[0:8])
	a.CommitteeIndex = binary.LittleEndian.Uint64(buf[8:16])
	copy(a.BeaconBlockRoot[:], buf[16:48])
	a.Source = &Checkpoint{}
	if err := a.Source.UnmarshalSSZ(buf[48 : 48+checkpointSize]); err != nil {
		return err
	}
	a.Target = &Checkpoint{}
	return a.Target.UnmarshalSSZ(buf[48+checkpointSize : 48+2*checkpointSize])
}

func (a *Attestation) SizeSSZ() int {
	return attestationFixedSize + len(a.AggregationBits)
}

func (a *Attestation) MarshalSSZTo(buf []byte) ([]byte, error) {
	buf = appendUint32(buf, uint32(attestationFixedSize))
	var err error
	buf, err = a.Data.MarshalSSZTo(buf)
	if err != nil {
		return nil, err
	}
	buf = append(buf, a.Signature[:]...)
	buf = append(buf, a.AggregationBits...)
	return buf, nil
}

func (a *Attestation) MarshalSSZ() ([]byte, error) {
	return a.MarshalSSZTo(make([]byte, 0, a.SizeSSZ()))
}

func (a *Attestation) UnmarshalSSZ(buf []byte) error {
	if len(buf) < attestationFixedSize {
		return errors.Errorf("Attestation: buffer too short: %d bytes", len(buf))
	}
	offset := binary.LittleEndian.Uint32(buf[0:4])
	if int(offset) != attestationFixedSize {
		return errors.Errorf("Attestation: unexpected bitlist offset %d", offset)
	}
	a.Data = &AttestationData{}
	if err := a.Data.UnmarshalSSZ(buf[4 : 4+attestationDataSize]); err != nil {
		return err
	}
	copy(a.Signature[:], buf[4+attestationDataSize:attestationFixedSize])
	a.AggregationBits = bitfield.Bitlist(append([]byte(nil), buf[attestationFixedSize:]...))
	return nil
}

func (b *BeaconBlockBody) SizeSSZ() int {
	size := blockBodyFixedSize
	size += 4 * len(b.Attestations) // per-item length prefix
	for _, att := range b.Attestations {
		size += att.SizeSSZ()
	}
	return size
}

func (b *BeaconBlockBody) MarshalSSZTo(buf []byte) ([]byte, error) {
	buf = append(buf, b.RandaoReveal[:]...)
	var err error
	buf, err = b.Eth1Data.MarshalSSZTo(buf)
	if err != nil {
		return nil, err
	}
	buf = append(buf, b.Graffiti[:]...)
	buf = appendUint32(buf, uint32(blockBodyFixedSize))
	for _, att := range b.Attestations {
		ab, err := att.MarshalSSZ()
		if err != nil {
			return nil, err
		}
		buf = appendUint32(buf, uint32(len(ab)))
		buf = append(buf, ab...)
	}
	return buf, nil
}

func (b *BeaconBlockBody) MarshalSSZ() ([]byte, error) {
	return b.MarshalSSZTo(make([]byte, 0, b.SizeSSZ()))
}

func (b *BeaconBlockBody) UnmarshalSSZ(buf []byte) error {
	if len(buf) < blockBodyFixedSize {
		return errors.Errorf("BeaconBlockBody: buffer too short: %d bytes", len(buf))
	}
	copy(b.RandaoReveal[:], buf[0:96])
	b.Eth1Data = &Eth1Data{}
	if err := b.Eth1Data.UnmarshalSSZ(buf[96 : 96+eth1DataSize]); err != nil {
		return err
	}
	off := 96 + eth1DataSize
	copy(b.Graffiti[:], buf[off:off+32])
	off += 32
	// skip the offset field itself; the variable section starts right after it.
	off += 4
	b.Attestations = nil
	for off < len(buf) {
		if off+4 > len(buf) {
			return errors.New("BeaconBlockBody: truncated attestation length prefix")
		}
		n := int(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4
		if off+n > len(buf) {
			return errors.New("BeaconBlockBody: truncated attestation payload")
		}
		att := &Attestation{}
		if err := att.UnmarshalSSZ(buf[off : off+n]); err != nil {
			return err
		}
		b.Attestations = append(b.Attestations, att)
		off += n
	}
	return nil
}

func (b *BeaconBlock) SizeSSZ() int {
	return blockFixedSize + b.Body.SizeSSZ()
}

func (b *BeaconBlock) MarshalSSZTo(buf []byte) ([]byte, error) {
	buf = appendUint64(buf, b.Slot)
	buf = appendUint64(buf, b.ProposerIndex)
	buf = append(buf, b.ParentRoot[:]...)
	buf = append(buf, b.StateRoot[:]...)
	buf = appendUint32(buf, uint32(blockFixedSize))
	return b.Body.MarshalSSZTo(buf)
}

func (b *BeaconBlock) MarshalSSZ() ([]byte, error) {
	return b.MarshalSSZTo(make([]byte, 0, b.SizeSSZ()))
}

func (b *BeaconBlock) UnmarshalSSZ(buf []byte) error {
	if len(buf) < blockFixedSize {
		return errors.Errorf("BeaconBlock: buffer too short: %d bytes", len(buf))
	}
	b.Slot = binary.LittleEndian.Uint64(buf[0:8])
	b.ProposerIndex = binary.LittleEndian.Uint64(buf[8:16])
	copy(b.ParentRoot[:], buf[16:48])
	copy(b.StateRoot[:], buf[48:80])
	b.Body = &BeaconBlockBody{}
	return b.Body.UnmarshalSSZ(buf[blockFixedSize:])
}

func (b *SignedBeaconBlock) SizeSSZ() int {
	return signedBlockFixedSize + b.Block.SizeSSZ()
}

func (b *SignedBeaconBlock) MarshalSSZTo(buf []byte) ([]byte, error) {
	buf = appendUint32(buf, uint32(signedBlockFixedSize))
	buf = append(buf, b.Signature[:]...)
	return b.Block.MarshalSSZTo(buf)
}

func (b *SignedBeaconBlock) MarshalSSZ() ([]byte, error) {
	return b.MarshalSSZTo(make([]byte, 0, b.SizeSSZ()))
}

func (b *SignedBeaconBlock) UnmarshalSSZ(buf []byte) error {
	if len(buf) < signedBlockFixedSize {
		return errors.Errorf("SignedBeaconBlock: buffer too short: %d bytes", len(buf))
	}
	copy(b.Signature[:], buf[4:signedBlockFixedSize])
	b.Block = &BeaconBlock{}
	return b.Block.UnmarshalSSZ(buf[signedBlockFixedSize:])
}
