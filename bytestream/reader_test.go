package bytestream

import (
	"testing"

	"github.com/chausner/XbfAnalyzer/xbferrors"
	"github.com/stretchr/testify/require"
)

func TestReadPrimitivesLittleEndian(t *testing.T) {
	r := New([]byte{0x01, 0x02, 0x03, 0x04, 0xFF, 0x00})

	u8, err := r.ReadU8()
	require.NoError(t, err)
	require.Equal(t, byte(0x01), u8)

	u16, err := r.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0302), u16)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x0000FF04), u32)
}

func TestReadCharsDecodesUTF16(t *testing.T) {
	// "Hi" as UTF-16LE
	r := New([]byte{'H', 0x00, 'i', 0x00})
	s, err := r.ReadChars(2)
	require.NoError(t, err)
	require.Equal(t, "Hi", s)
}

func TestReadVarintSingleByte(t *testing.T) {
	r := New([]byte{0x05})
	v, err := r.ReadVarint()
	require.NoError(t, err)
	require.Equal(t, uint32(5), v)
}

func TestReadVarintMultiByte(t *testing.T) {
	// 300 = 0b1_0010_1100 -> low 7 bits 0101100 with continuation, then 10
	r := New([]byte{0xAC, 0x02})
	v, err := r.ReadVarint()
	require.NoError(t, err)
	require.Equal(t, uint32(300), v)
}

func TestReadUnexpectedEOF(t *testing.T) {
	r := New([]byte{0x01})
	_, err := r.ReadU32()
	require.Error(t, err)
	require.ErrorIs(t, err, xbferrors.New(xbferrors.UnexpectedEOF).Build())
}

func TestSeekAndPosition(t *testing.T) {
	r := New([]byte{0x01, 0x02, 0x03})
	require.NoError(t, r.Seek(2))
	require.Equal(t, 2, r.Position())
	b, err := r.ReadU8()
	require.NoError(t, err)
	require.Equal(t, byte(0x03), b)
}
