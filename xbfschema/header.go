// Package xbfschema reads the XBF fixed-layout header and the six/seven
// indexed metadata tables (strings, assemblies, type namespaces, types,
// properties, XML namespaces, and — v2 only — the node-section directory)
// that follow it.
//
// Record structs here are plain, exported-field structs with no struct
// tags: the layout is positional binary, not self-describing, so the
// encoding/xml-style tag idiom the teacher uses for its SOAP records
// (soap/parsing.go) would be misleading here. What is kept from that file
// is the modeling habit itself: one small struct per wire record.
package xbfschema

import (
	"github.com/chausner/XbfAnalyzer/bytestream"
	"github.com/chausner/XbfAnalyzer/xbferrors"
)

const magic = "XBF\x00"

// SupportedMajorVersion is the only major version this reader understands.
const SupportedMajorVersion = 2

// Header is the fixed XBF record preceding the metadata tables.
type Header struct {
	MetadataSize  uint32
	NodeSize      uint32
	MajorVersion  uint32
	MinorVersion  uint32
	StringsOffset uint64
	AssembliesOffset uint64
	TypeNamespacesOffset uint64
	TypesOffset uint64
	PropertiesOffset uint64
	XMLNamespacesOffset uint64
	Hash string
}

// LoadHeader reads the header at the reader's current position (expected to
// be 0), verifying the magic and major version.
func LoadHeader(r *bytestream.Reader) (Header, error) {
	var h Header

	magicBytes, err := r.ReadBytes(4)
	if err != nil {
		return h, err
	}
	if string(magicBytes) != magic {
		return h, xbferrors.New(xbferrors.InvalidMagic).At(0).
			Detail("got %q", magicBytes).Build()
	}

	if h.MetadataSize, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.NodeSize, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.MajorVersion, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.MinorVersion, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.MajorVersion != SupportedMajorVersion {
		return h, xbferrors.New(xbferrors.UnsupportedVersion).
			Detail("major version %d is not supported (only %d)", h.MajorVersion, SupportedMajorVersion).
			Build()
	}

	offsets := []*uint64{
		&h.StringsOffset, &h.AssembliesOffset, &h.TypeNamespacesOffset,
		&h.TypesOffset, &h.PropertiesOffset, &h.XMLNamespacesOffset,
	}
	for _, o := range offsets {
		if *o, err = r.ReadU64(); err != nil {
			return h, err
		}
	}

	hashBytes, err := r.ReadBytes(32)
	if err != nil {
		return h, err
	}
	h.Hash = string(hashBytes)

	return h, nil
}
