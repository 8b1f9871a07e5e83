package xbf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chausner/XbfAnalyzer/xbferrors"
)

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func le64(v uint64) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = byte(v >> (8 * i))
	}
	return out
}

func u16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }

// buildMinimalFile assembles a complete, valid XBF v2 buffer with empty
// metadata tables except for a single type table entry ("Grid"), and a
// root node section containing just "begin Grid, end".
func buildMinimalFile() []byte {
	var b []byte
	b = append(b, 'X', 'B', 'F', 0x00)
	b = append(b, le32(0)...) // metadata size, unused by the reader
	b = append(b, le32(0)...) // node size, unused by the reader
	b = append(b, le32(2)...) // major version
	b = append(b, le32(0)...) // minor version
	for i := 0; i < 6; i++ {
		b = append(b, le64(0)...)
	}
	b = append(b, make([]byte, 32)...) // hash

	// string table: 1 entry, "Grid"
	b = append(b, le32(1)...)
	b = append(b, le32(4)...)
	b = append(b, 'G', 0, 'r', 0, 'i', 0, 'd', 0)
	b = append(b, 0, 0) // zero terminator

	b = append(b, le32(0)...) // assemblies
	b = append(b, le32(0)...) // type namespaces

	// type table: 1 entry, namespace -1, name 0 ("Grid")
	b = append(b, le32(1)...)
	b = append(b, le32(0)...)          // flags
	b = append(b, le32(uint32(^uint32(0)))...) // namespace id -1
	b = append(b, le32(0)...)          // name id 0

	b = append(b, le32(0)...) // properties
	b = append(b, le32(0)...) // xml namespaces
	b = append(b, le32(0)...) // node section directory

	// root node section: opRootBegin(0x17), type id 0, opObjectEndReturn(0x28)
	b = append(b, 0x17)
	b = append(b, u16(0)...)
	b = append(b, 0x28)

	return b
}

func TestOpenBytesParsesMinimalRoot(t *testing.T) {
	data := buildMinimalFile()
	r, err := OpenBytes(data)
	require.NoError(t, err)
	defer r.Close()

	root, err := r.ReadRootNodeSection()
	require.NoError(t, err)
	require.Equal(t, "Grid", root.TypeName)
}

func TestOpenBytesRejectsBadMagic(t *testing.T) {
	data := buildMinimalFile()
	data[0] = 'N'
	_, err := OpenBytes(data)
	require.Error(t, err)
	require.ErrorIs(t, err, xbferrors.New(xbferrors.InvalidMagic).Build())
}

func TestDisassembleRootNodeSectionRecordsCommands(t *testing.T) {
	data := buildMinimalFile()
	r, err := OpenBytes(data)
	require.NoError(t, err)
	defer r.Close()

	tr, err := r.DisassembleRootNodeSection()
	require.NoError(t, err)
	require.NotEmpty(t, tr.Commands)
}

func TestClosedReaderRejectsOperations(t *testing.T) {
	data := buildMinimalFile()
	r, err := OpenBytes(data)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.ReadRootNodeSection()
	require.Error(t, err)
	require.ErrorIs(t, err, xbferrors.New(xbferrors.Disposed).Build())
}
