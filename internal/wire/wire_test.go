package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripPrimitives(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(0xAB)
	w.WriteUint16(0x1234)
	w.WriteUint32(0xDEADBEEF)
	w.WriteVarBytes(1, []byte("hi"))
	w.WriteVarBytes(2, []byte("hello"))
	w.WriteVarBytes(4, []byte{})

	r := NewReader(w.Bytes())
	u8, err := r.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), u8)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	b1, err := r.ReadVarBytes(1)
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), b1)

	b2, err := r.ReadVarBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), b2)

	b4, err := r.ReadVarBytes(4)
	require.NoError(t, err)
	require.Empty(t, b4)

	require.True(t, r.AtEOF())
}

func TestReadPastEOFErrors(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.ReadUint32()
	require.Error(t, err)
}

func TestVarBytesLengthIsByteCountNotElementCount(t *testing.T) {
	w := NewWriter()
	w.WriteVarBytes(2, make([]byte, 300))
	require.Equal(t, []byte{0x01, 0x2C}, w.Bytes()[:2])
}
