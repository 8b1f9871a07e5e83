package xbfschema

import (
	"github.com/chausner/XbfAnalyzer/bytestream"
)

// AssemblyKind enumerates an assembly record's kind. Values are preserved
// raw rather than collapsed into a closed Go enum with validation, per the
// spec's open question that v1 semantics for this field were never
// re-verified for v2 — the same way the teacher keeps ProtectionLevel and
// CredentialType as plain int consts in transport/nns.go instead of
// validating a dial parameter against a closed set at connect time.
type AssemblyKind int32

const (
	AssemblyUnknown AssemblyKind = iota
	AssemblyNative
	AssemblyManaged
	AssemblySystem
	AssemblyParser
	AssemblyAlternate
)

// Assembly is one record of the assembly table.
type Assembly struct {
	Kind   AssemblyKind
	NameID int32
}

// TypeNamespace is one record of the type-namespace table.
type TypeNamespace struct {
	AssemblyID int32
	NameID     int32
}

// Type is one record of the type table. Flags is preserved raw; see
// AssemblyKind's doc comment for why.
type Type struct {
	Flags       int32
	NamespaceID int32
	NameID      int32
}

// Property is one record of the property table. DeclaringTypeID occupies
// the same wire slot as Type.NamespaceID, per spec.md §3 ("the
// property's declaring type id occupies the same slot as typeId in the Type
// record layout").
type Property struct {
	Flags          int32
	DeclaringTypeID int32
	NameID          int32
}

// XMLNamespace is one record of the XML-namespace table.
type XMLNamespace struct {
	NameID int32
}

// NodeSection is one directory entry (v2 only). NodeOffset and
// PositionalOffset are stored relative to the first-node-section base; see
// NodeSection.NodeStart and NodeSection.NodeEnd.
type NodeSection struct {
	NodeOffset       int32
	PositionalOffset int32
}

// Tables holds every metadata table plus the strings they reference.
type Tables struct {
	Strings        []string
	Assemblies     []Assembly
	TypeNamespaces []TypeNamespace
	Types          []Type
	Properties     []Property
	XMLNamespaces  []XMLNamespace
	NodeSections   []NodeSection // v2 only; empty for files with no directory
}

// String returns the string table entry at id, or "" if id is out of range.
func (t *Tables) String(id int32) string {
	if id < 0 || int(id) >= len(t.Strings) {
		return ""
	}
	return t.Strings[id]
}

// LoadTables reads every table in header-table order and returns the
// absolute file position of the byte following the node-section directory
// (the "first node section base" per spec.md §3/§4.2), against which every
// NodeSection's NodeOffset/PositionalOffset is later added.
func LoadTables(r *bytestream.Reader, header Header) (Tables, int, error) {
	var t Tables
	var err error

	if t.Strings, err = readStringTable(r); err != nil {
		return t, 0, err
	}
	if t.Assemblies, err = readAssemblyTable(r); err != nil {
		return t, 0, err
	}
	if t.TypeNamespaces, err = readTypeNamespaceTable(r); err != nil {
		return t, 0, err
	}
	if t.Types, err = readTypeTable(r); err != nil {
		return t, 0, err
	}
	if t.Properties, err = readPropertyTable(r); err != nil {
		return t, 0, err
	}
	if t.XMLNamespaces, err = readXMLNamespaceTable(r); err != nil {
		return t, 0, err
	}
	if t.NodeSections, err = readNodeSectionDirectory(r); err != nil {
		return t, 0, err
	}

	base := r.Position()
	return t, base, nil
}

func readStringTable(r *bytestream.Reader) ([]string, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	out := make([]string, count)
	for i := range out {
		length, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		s, err := r.ReadChars(int(length))
		if err != nil {
			return nil, err
		}
		// v2: each string is followed by a u16 that must be zero.
		terminator, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		if terminator != 0 {
			return nil, tableError("string table entry %d: expected zero terminator, got 0x%04x", i, terminator)
		}
		out[i] = s
	}
	return out, nil
}

func readAssemblyTable(r *bytestream.Reader) ([]Assembly, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	out := make([]Assembly, count)
	for i := range out {
		kind, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		nameID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = Assembly{Kind: AssemblyKind(kind), NameID: nameID}
	}
	return out, nil
}

func readTypeNamespaceTable(r *bytestream.Reader) ([]TypeNamespace, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	out := make([]TypeNamespace, count)
	for i := range out {
		assemblyID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		nameID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = TypeNamespace{AssemblyID: assemblyID, NameID: nameID}
	}
	return out, nil
}

func readTypeTable(r *bytestream.Reader) ([]Type, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	out := make([]Type, count)
	for i := range out {
		flags, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		namespaceID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		nameID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = Type{Flags: flags, NamespaceID: namespaceID, NameID: nameID}
	}
	return out, nil
}

func readPropertyTable(r *bytestream.Reader) ([]Property, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	out := make([]Property, count)
	for i := range out {
		flags, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		declaringTypeID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		nameID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = Property{Flags: flags, DeclaringTypeID: declaringTypeID, NameID: nameID}
	}
	return out, nil
}

func readXMLNamespaceTable(r *bytestream.Reader) ([]XMLNamespace, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	out := make([]XMLNamespace, count)
	for i := range out {
		nameID, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = XMLNamespace{NameID: nameID}
	}
	return out, nil
}

func readNodeSectionDirectory(r *bytestream.Reader) ([]NodeSection, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	out := make([]NodeSection, count)
	for i := range out {
		nodeOffset, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		positionalOffset, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = NodeSection{NodeOffset: nodeOffset, PositionalOffset: positionalOffset}
	}
	return out, nil
}
