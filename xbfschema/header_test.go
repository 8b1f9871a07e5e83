package xbfschema

import (
	"testing"

	"github.com/chausner/XbfAnalyzer/bytestream"
	"github.com/chausner/XbfAnalyzer/xbferrors"
	"github.com/stretchr/testify/require"
)

func buildHeaderBytes(majorVersion uint32) []byte {
	b := []byte{'X', 'B', 'F', 0x00}
	b = append(b, le32(0)...)            // metadata size
	b = append(b, le32(0)...)            // node size
	b = append(b, le32(majorVersion)...) // major
	b = append(b, le32(0)...)            // minor
	for i := 0; i < 6; i++ {
		b = append(b, le64(0)...)
	}
	b = append(b, make([]byte, 32)...) // hash
	return b
}

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

func TestLoadHeaderRejectsBadMagic(t *testing.T) {
	data := append([]byte{'N', 'O', 'P', 'E'}, buildHeaderBytes(2)[4:]...)
	r := bytestream.New(data)
	_, err := LoadHeader(r)
	require.Error(t, err)
	require.ErrorIs(t, err, xbferrors.New(xbferrors.InvalidMagic).Build())
}

func TestLoadHeaderRejectsUnsupportedVersion(t *testing.T) {
	r := bytestream.New(buildHeaderBytes(1))
	_, err := LoadHeader(r)
	require.Error(t, err)
	require.ErrorIs(t, err, xbferrors.New(xbferrors.UnsupportedVersion).Build())
}

func TestLoadHeaderAcceptsVersion2(t *testing.T) {
	r := bytestream.New(buildHeaderBytes(2))
	h, err := LoadHeader(r)
	require.NoError(t, err)
	require.Equal(t, uint32(2), h.MajorVersion)
}

func TestLoadTablesEmptyTables(t *testing.T) {
	data := append([]byte{}, le32(0)...) // strings count=0
	data = append(data, le32(0)...)      // assemblies count=0
	data = append(data, le32(0)...)      // type namespaces count=0
	data = append(data, le32(0)...)      // types count=0
	data = append(data, le32(0)...)      // properties count=0
	data = append(data, le32(0)...)      // xml namespaces count=0
	data = append(data, le32(0)...)      // node section directory count=0

	r := bytestream.New(data)
	tables, base, err := LoadTables(r, Header{MajorVersion: 2})
	require.NoError(t, err)
	require.Empty(t, tables.Strings)
	require.Equal(t, len(data), base)
}

func TestStringTableZeroTerminatorEnforced(t *testing.T) {
	// count=1, length=1, 'A' in UTF-16LE, terminator=0x0001 (invalid)
	data := append([]byte{}, le32(1)...)
	data = append(data, le32(1)...)
	data = append(data, 'A', 0x00)
	data = append(data, 0x01, 0x00)

	r := bytestream.New(data)
	_, err := readStringTable(r)
	require.Error(t, err)
}
