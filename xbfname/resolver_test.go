package xbfname

import (
	"testing"

	"github.com/chausner/XbfAnalyzer/oracle"
	"github.com/chausner/XbfAnalyzer/xbfschema"
	"github.com/stretchr/testify/require"
)

func sampleTables() *xbfschema.Tables {
	return &xbfschema.Tables{
		Strings: []string{"Grid", "controls"},
		TypeNamespaces: []xbfschema.TypeNamespace{
			{AssemblyID: 0, NameID: 1},
		},
		Types: []xbfschema.Type{
			{NamespaceID: 0, NameID: 0},
		},
		Properties: []xbfschema.Property{
			{NameID: 0},
		},
	}
}

func TestTypeNameHighBitRoutesToOracle(t *testing.T) {
	o := oracle.NewMapOracle()
	o.Types[5] = "Button"
	r := New(sampleTables(), o)

	name := r.TypeName(0x8000 | 5)
	require.Equal(t, "Button", name)
}

func TestTypeNameHighBitUnknownFallback(t *testing.T) {
	r := New(sampleTables(), oracle.NoopOracle{})
	name := r.TypeName(0x8000 | 7)
	require.Equal(t, "UnknownType0x7", name)
}

func TestTypeNameTableLookupUnqualified(t *testing.T) {
	r := New(sampleTables(), oracle.NoopOracle{})
	name := r.TypeName(0)
	require.Equal(t, "Grid", name)
}

func TestTypeNameQualifiedWithRegisteredPrefix(t *testing.T) {
	r := New(sampleTables(), oracle.NoopOracle{})
	r.RegisterPrefix("using:controls", "c")
	name := r.TypeName(0)
	require.Equal(t, "c:Grid", name)
}

func TestEnumValueFallback(t *testing.T) {
	r := New(sampleTables(), oracle.NoopOracle{})
	name := r.EnumValue(3, 9)
	require.Equal(t, "(Enum0x3)9", name)
}

func TestEnumValueResolved(t *testing.T) {
	o := oracle.NewMapOracle()
	o.SetEnumValue(3, 9, "Visible")
	r := New(sampleTables(), o)
	require.Equal(t, "Visible", r.EnumValue(3, 9))
}
