package encoder

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeVarint(n uint64) []byte {
	var out []byte
	for n >= 0x80 {
		out = append(out, byte(n)|0x80)
		n >>= 7
	}
	return append(out, byte(n))
}

func TestReadVarint(t *testing.T) {
	data := []byte("foobar data")
	prefixed := append(encodeVarint(uint64(len(data))), data...)

	vi, err := readVarint(bytes.NewBuffer(prefixed))
	require.NoError(t, err)
	require.Equal(t, uint64(len(data)), vi)
}

func TestReadVarint_ExceedsMaxLength(t *testing.T) {
	header := bytes.Repeat([]byte{0x80}, 10)
	header = append(header, 0x01)
	_, err := readVarint(bytes.NewBuffer(header))
	require.ErrorIs(t, err, errExcessMaxLength)
}
