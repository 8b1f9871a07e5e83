// Package oracle defines the Framework Oracle: the external mapping from
// small integer IDs to well-known framework type names, property names, and
// enumeration value names that the XBF format references whenever an ID's
// high bit is set. The core reader never embeds this table itself (spec
// scope treats it as an opaque lookup the core consumes); this package only
// defines the interface plus small, dependency-free implementations of it.
package oracle

// Oracle resolves framework-defined IDs to names. A lookup that finds
// nothing returns ("", false); callers fall back to a documented synthetic
// name rather than treating a miss as an error.
type Oracle interface {
	TypeName(id uint16) (string, bool)
	PropertyName(id uint16) (string, bool)
	EnumValue(enumID uint16, value int32) (string, bool)
}

// NoopOracle answers every lookup with a miss. It keeps the core reader
// unit-testable without a real framework table wired in, and is also the
// default used by xbf.Open when no Oracle option is supplied.
type NoopOracle struct{}

func (NoopOracle) TypeName(uint16) (string, bool)         { return "", false }
func (NoopOracle) PropertyName(uint16) (string, bool)     { return "", false }
func (NoopOracle) EnumValue(uint16, int32) (string, bool) { return "", false }

// MapOracle is an in-memory Oracle backed by plain maps. It does not ship
// with any data: it exists so a caller who has already loaded the static
// framework tables (out of scope for this module) can wire them in without
// writing their own Oracle implementation.
type MapOracle struct {
	Types      map[uint16]string
	Properties map[uint16]string
	Enums      map[enumKey]string
}

type enumKey struct {
	enumID uint16
	value  int32
}

// NewMapOracle returns an empty, ready-to-populate MapOracle.
func NewMapOracle() *MapOracle {
	return &MapOracle{
		Types:      make(map[uint16]string),
		Properties: make(map[uint16]string),
		Enums:      make(map[enumKey]string),
	}
}

func (m *MapOracle) TypeName(id uint16) (string, bool) {
	v, ok := m.Types[id]
	return v, ok
}

func (m *MapOracle) PropertyName(id uint16) (string, bool) {
	v, ok := m.Properties[id]
	return v, ok
}

func (m *MapOracle) EnumValue(enumID uint16, value int32) (string, bool) {
	v, ok := m.Enums[enumKey{enumID, value}]
	return v, ok
}

// SetEnumValue registers a single enum value name, the write-side
// counterpart to EnumValue.
func (m *MapOracle) SetEnumValue(enumID uint16, value int32, name string) {
	m.Enums[enumKey{enumID, value}] = name
}
