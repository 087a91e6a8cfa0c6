package encoder

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// errExcessMaxLength is returned when a varint header runs longer than
// maxVarintLength bytes or does not fit in a uint64. Payloads whose declared
// length exceeds the size limit are rejected by the decoder instead.
var errExcessMaxLength = errors.Errorf("varint exceeds max length of %d bytes", maxVarintLength)

// maxVarintLength is the longest an unsigned varint can legally be.
const maxVarintLength = 10

// readVarint reads a protobuf-style unsigned varint length prefix from r,
// enforcing maxVarintLength so a malicious peer cannot force an unbounded
// read.
func readVarint(r io.Reader) (uint64, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	var x uint64
	var s uint
	for i := 0; i < maxVarintLength; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if b < 0x80 {
			if i == maxVarintLength-1 && b > 1 {
				return 0, errExcessMaxLength
			}
			return x | uint64(b)<<s, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, errExcessMaxLength
}
