package interpreter

import (
	"testing"

	"github.com/chausner/XbfAnalyzer/bytestream"
	"github.com/chausner/XbfAnalyzer/object"
	"github.com/chausner/XbfAnalyzer/oracle"
	"github.com/chausner/XbfAnalyzer/xbfname"
	"github.com/chausner/XbfAnalyzer/xbfschema"
	"github.com/chausner/XbfAnalyzer/xbfvalue"
	"github.com/stretchr/testify/require"
)

func gridTables() *xbfschema.Tables {
	return &xbfschema.Tables{
		Strings: []string{"Grid", "Width", "hello", "Button", "Style1"},
		Types: []xbfschema.Type{
			{NamespaceID: -1, NameID: 0}, // 0: Grid
			{NamespaceID: -1, NameID: 3}, // 1: Button
		},
		Properties: []xbfschema.Property{
			{NameID: 1}, // 0: Width
		},
	}
}

func newTestInterpreter(data []byte, tables *xbfschema.Tables) *Interpreter {
	r := bytestream.New(data)
	names := xbfname.New(tables, oracle.NoopOracle{})
	return New(r, tables, names, 0, 0, nil)
}

func u16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func i32(v int32) []byte {
	u := uint32(v)
	return []byte{byte(u), byte(u >> 8), byte(u >> 16), byte(u >> 24)}
}

func varint(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			return out
		}
	}
}

// minimal root: opRootBegin, type id 0 (Grid), immediately closed.
func TestReadRootMinimalObject(t *testing.T) {
	data := append([]byte{opRootBegin}, u16(0)...)
	data = append(data, opObjectEndReturn)

	ip := newTestInterpreter(data, gridTables())
	root, err := ip.ReadRoot(len(data))
	require.NoError(t, err)
	require.Equal(t, "Grid", root.TypeName)
	require.Equal(t, 0, ip.ObjStackDepth())
	require.Equal(t, 0, ip.CollectionStackDepth())
}

func TestReadRootWithNamespaceDeclaration(t *testing.T) {
	tables := gridTables()
	tables.XMLNamespaces = []xbfschema.XMLNamespace{{NameID: 2}} // "hello" used as a fake URI

	var data []byte
	data = append(data, opRootNamespaceA)
	data = append(data, u16(0)...)  // namespace table index 0
	data = append(data, i32(0)...)  // empty prefix (0 chars)
	data = append(data, opRootBegin)
	data = append(data, u16(0)...)
	data = append(data, opObjectEndReturn)

	ip := newTestInterpreter(data, tables)
	root, err := ip.ReadRoot(len(data))
	require.NoError(t, err)
	require.Equal(t, "Grid", root.TypeName)

	prefix, ok := ip.names.DeclaredPrefix("hello")
	require.True(t, ok)
	require.Equal(t, "", prefix)
}

func TestReadRootWithDirectIntProperty(t *testing.T) {
	tables := gridTables()

	var data []byte
	data = append(data, opRootBegin)
	data = append(data, u16(0)...) // Grid
	data = append(data, opPropertyB)
	data = append(data, u16(0)...) // Width property id
	data = append(data, xbfvalue.TagInt)
	data = append(data, i32(42)...)
	data = append(data, opObjectEndReturn)

	ip := newTestInterpreter(data, tables)
	root, err := ip.ReadRoot(len(data))
	require.NoError(t, err)

	v, ok := root.Property("Width")
	require.True(t, ok)
	require.Equal(t, int32(42), v)
}

func TestReadRootWithKeyedResourceCollection(t *testing.T) {
	tables := gridTables()

	var root []byte
	root = append(root, opRootBegin)
	root = append(root, u16(0)...) // Grid

	root = append(root, opCollectionBegin)
	root = append(root, u16(0)...) // property id 0 ("Width", repurposed as collection name for this test)

	// node-section reference: index 0, reserved zero, kind 7 (resource dict)
	root = append(root, opSectionRef)
	root = append(root, varint(0)...)
	root = append(root, u16(0)...)
	root = append(root, varint(7)...)

	root = append(root, opCollectionEnd)
	root = append(root, opObjectEndReturn)

	// Secondary node section, laid out right after the root's own bytes
	// (base is 0 in newTestInterpreter, so NodeOffset/PositionalOffset are
	// plain absolute positions into this combined buffer).
	sectionStart := len(root)

	// header: resourceCount=2, two {keyStringId u16, offset varint} pairs,
	// key-subset count=0, target-typed-style count=0, trailing key-subset
	// count=0 (not extended, not extended2).
	const obj1Offset = 10 // header length below
	const obj2Offset = obj1Offset + 4

	var header []byte
	header = append(header, varint(2)...)    // resourceCount
	header = append(header, u16(2)...)       // "hello"
	header = append(header, varint(obj1Offset)...)
	header = append(header, u16(4)...) // "Style1"
	header = append(header, varint(obj2Offset)...)
	header = append(header, varint(0)...) // key-subset count
	header = append(header, varint(0)...) // target-typed-style count
	header = append(header, varint(0)...) // trailing key-subset count
	require.Len(t, header, obj1Offset)

	// each offset-addressed object body: objectBegin(Button), objectEndReturn
	obj1 := append([]byte{opObjectBegin}, u16(1)...)
	obj1 = append(obj1, opObjectEndReturn)
	obj2 := append([]byte{opObjectBegin}, u16(1)...)
	obj2 = append(obj2, opObjectEndReturn)
	require.Len(t, obj1, 4)

	section := append(append(header, obj1...), obj2...)

	data := append(root, section...)

	tables.NodeSections = []xbfschema.NodeSection{
		{NodeOffset: int32(sectionStart), PositionalOffset: int32(sectionStart + len(section))},
	}

	ip := newTestInterpreter(data, tables)
	rootObj, err := ip.ReadRoot(len(root))
	require.NoError(t, err)

	colVal, ok := rootObj.Property("Width")
	require.True(t, ok)
	col, ok := colVal.(*object.ObjCollection)
	require.True(t, ok)
	require.Len(t, col.Items, 2)
	require.Equal(t, "hello", col.Items[0].Key)
	require.Equal(t, "Style1", col.Items[1].Key)
}
