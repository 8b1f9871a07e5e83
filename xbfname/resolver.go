// Package xbfname resolves type, property, and enum IDs into display names,
// splitting on the high bit (framework oracle vs. in-file table) per
// spec.md §4.3, and qualifies type names with the XML namespace prefix
// declared for their namespace's "using:" URI.
//
// Grounded on the teacher's dictString/namespacePrefix/namespacePrefixFromMap
// trio in transport/nbfse.go, which resolve NBFS's static dictionary ids to
// names and qualify element names with a namespace prefix the same way.
package xbfname

import (
	"fmt"

	"github.com/chausner/XbfAnalyzer/oracle"
	"github.com/chausner/XbfAnalyzer/xbfschema"
)

const highBit = 0x8000
const idMask = 0x7FFF

// Resolver resolves IDs against a fixed Tables snapshot and an Oracle,
// tracking the namespace-URI-to-XML-prefix map populated by root namespace
// declarations as the node stream is read.
type Resolver struct {
	tables      *xbfschema.Tables
	oracle      oracle.Oracle
	prefixByURI map[string]string
}

// New creates a Resolver over tables using o for high-bit IDs.
func New(tables *xbfschema.Tables, o oracle.Oracle) *Resolver {
	if o == nil {
		o = oracle.NoopOracle{}
	}
	return &Resolver{tables: tables, oracle: o, prefixByURI: make(map[string]string)}
}

// Tables returns the underlying table snapshot, used by xbfvalue for string
// lookups (tag 0x05) without duplicating the dependency.
func (r *Resolver) Tables() *xbfschema.Tables {
	return r.tables
}

// RegisterPrefix records the declared XML prefix for a namespace URI. An
// empty prefix means the default (unprefixed) xmlns declaration.
func (r *Resolver) RegisterPrefix(uri, prefix string) {
	r.prefixByURI[uri] = prefix
}

// DeclaredPrefix returns the prefix registered for uri, if any.
func (r *Resolver) DeclaredPrefix(uri string) (string, bool) {
	p, ok := r.prefixByURI[uri]
	return p, ok
}

// TypeName resolves a type ID per spec.md §4.3: high bit set routes to the
// oracle (falling back to "UnknownType0x<hex>"); otherwise the in-file type
// table is consulted and, if the type's namespace is registered under a
// "using:<ns>" prefix, the name is qualified with that prefix.
func (r *Resolver) TypeName(id uint16) string {
	if id&highBit != 0 {
		raw := id & idMask
		if name, ok := r.oracle.TypeName(raw); ok {
			return name
		}
		return fmt.Sprintf("UnknownType0x%X", raw)
	}

	idx := int(id)
	if idx < 0 || idx >= len(r.tables.Types) {
		return fmt.Sprintf("UnknownType0x%X", id)
	}
	typ := r.tables.Types[idx]
	name := r.tables.String(typ.NameID)

	nsIdx := int(typ.NamespaceID)
	if nsIdx >= 0 && nsIdx < len(r.tables.TypeNamespaces) {
		ns := r.tables.TypeNamespaces[nsIdx]
		nsName := r.tables.String(ns.NameID)
		uri := "using:" + nsName
		if prefix, ok := r.prefixByURI[uri]; ok {
			if prefix == "" {
				return name
			}
			return prefix + ":" + name
		}
	}
	return name
}

// PropertyName resolves a property ID the same way TypeName resolves a type
// ID, minus namespace qualification (properties are always rendered
// unqualified, per spec.md §4.3).
func (r *Resolver) PropertyName(id uint16) string {
	if id&highBit != 0 {
		raw := id & idMask
		if name, ok := r.oracle.PropertyName(raw); ok {
			return name
		}
		return fmt.Sprintf("UnknownType0x%X", raw)
	}

	idx := int(id)
	if idx < 0 || idx >= len(r.tables.Properties) {
		return fmt.Sprintf("UnknownType0x%X", id)
	}
	return r.tables.String(r.tables.Properties[idx].NameID)
}

// EnumValue resolves an enum value name via the oracle, falling back to
// "(Enum0x<hex>)<value>" per spec.md §4.3.
func (r *Resolver) EnumValue(enumID uint16, value int32) string {
	raw := enumID
	if raw&highBit != 0 {
		raw &= idMask
	}
	if name, ok := r.oracle.EnumValue(raw, value); ok {
		return name
	}
	return fmt.Sprintf("(Enum0x%X)%d", raw, value)
}
