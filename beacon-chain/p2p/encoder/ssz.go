// Package encoder implements the wire codec gossip and RPC messages are
// serialized with: SSZ payloads, snappy-compressed, length-prefixed with an
// unsigned varint (§2).
package encoder

import (
	"io"
	"sync"

	fastssz "github.com/ferranbt/fastssz"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/eth2core/beacon-p2p/beacon-chain/params"
)

// MaxChunkSize bounds a single RPC chunk's decompressed length. It is a var,
// not a const, so tests can shrink it to exercise the oversize-rejection
// path.
var MaxChunkSize = params.MaxPayloadSize

// MaxGossipSize bounds a single gossip message's decompressed length.
var MaxGossipSize = params.MaxPayloadSize

var bufReaderPool = new(sync.Pool)
var bufWriterPool = new(sync.Pool)

func newBufferedReader(r io.Reader) *snappy.Reader {
	if v := bufReaderPool.Get(); v != nil {
		sr := v.(*snappy.Reader)
		sr.Reset(r)
		return sr
	}
	return snappy.NewReader(r)
}

func newBufferedWriter(w io.Writer) *snappy.Writer {
	if v := bufWriterPool.Get(); v != nil {
		sw := v.(*snappy.Writer)
		sw.Reset(w)
		return sw
	}
	return snappy.NewBufferedWriter(w)
}

// SszNetworkEncoder encodes/decodes fastssz messages with a snappy
// compression layer, matching the wire format §2 specifies.
type SszNetworkEncoder struct{}

// EncodeWithMaxLength writes a varint-prefixed, snappy-compressed SSZ
// encoding of msg to w. It returns an error rather than writing if msg's
// uncompressed size exceeds MaxChunkSize.
func (e *SszNetworkEncoder) EncodeWithMaxLength(w io.Writer, msg fastssz.Marshaler) (int, error) {
	if uint64(msg.SizeSSZ()) > MaxChunkSize {
		return 0, errors.Errorf("encoded size %d is larger than the provided max limit of %d", msg.SizeSSZ(), MaxChunkSize)
	}
	b, err := msg.MarshalSSZ()
	if err != nil {
		return 0, err
	}
	return e.doEncode(w, b)
}

// EncodeGossip is EncodeWithMaxLength bounded by MaxGossipSize instead.
func (e *SszNetworkEncoder) EncodeGossip(w io.Writer, msg fastssz.Marshaler) (int, error) {
	if uint64(msg.SizeSSZ()) > MaxGossipSize {
		return 0, errors.Errorf("encoded size %d is larger than the provided max limit of %d", msg.SizeSSZ(), MaxGossipSize)
	}
	b, err := msg.MarshalSSZ()
	if err != nil {
		return 0, err
	}
	return e.doEncode(w, b)
}

func (e *SszNetworkEncoder) doEncode(w io.Writer, b []byte) (int, error) {
	prefix := make([]byte, 0, maxVarintLength)
	n := uint64(len(b))
	for n >= 0x80 {
		prefix = append(prefix, byte(n)|0x80)
		n >>= 7
	}
	prefix = append(prefix, byte(n))
	if _, err := w.Write(prefix); err != nil {
		return 0, err
	}
	sw := newBufferedWriter(w)
	defer bufWriterPool.Put(sw)
	written, err := sw.Write(b)
	if err != nil {
		return written, err
	}
	if err := sw.Close(); err != nil {
		return written, err
	}
	return written, nil
}

// DecodeWithMaxLength reads a varint-prefixed, snappy-compressed SSZ message
// from r into dst, rejecting anything whose declared length exceeds
// MaxChunkSize.
func (e *SszNetworkEncoder) DecodeWithMaxLength(r io.Reader, dst fastssz.Unmarshaler) error {
	return e.decode(r, dst, MaxChunkSize)
}

// DecodeGossip is DecodeWithMaxLength bounded by MaxGossipSize instead.
func (e *SszNetworkEncoder) DecodeGossip(r io.Reader, dst fastssz.Unmarshaler) error {
	return e.decode(r, dst, MaxGossipSize)
}

func (e *SszNetworkEncoder) decode(r io.Reader, dst fastssz.Unmarshaler, limit uint64) error {
	length, err := readVarint(r)
	if err != nil {
		return err
	}
	if length > limit {
		return errors.Errorf("declared size %d is larger than the provided max limit of %d", length, limit)
	}
	sr := newBufferedReader(r)
	defer bufReaderPool.Put(sr)
	b := make([]byte, length)
	if _, err := io.ReadFull(sr, b); err != nil {
		return err
	}
	return dst.UnmarshalSSZ(b)
}

// ProtocolSuffix names the encoding as it appears in a libp2p protocol ID,
// e.g. ".../req/block_by_range/1/ssz_snappy".
func (e *SszNetworkEncoder) ProtocolSuffix() string {
	return "ssz_snappy"
}
