package xbfvalue

import (
	"testing"

	"github.com/chausner/XbfAnalyzer/bytestream"
	"github.com/chausner/XbfAnalyzer/oracle"
	"github.com/chausner/XbfAnalyzer/xbfname"
	"github.com/chausner/XbfAnalyzer/xbfschema"
	"github.com/stretchr/testify/require"
)

func resolver() *xbfname.Resolver {
	return xbfname.New(&xbfschema.Tables{Strings: []string{"hello"}}, oracle.NoopOracle{})
}

func TestDecodeBoolAndInt(t *testing.T) {
	r := bytestream.New([]byte{TagTrue})
	v, err := Decode(r, resolver())
	require.NoError(t, err)
	require.Equal(t, true, v)

	r2 := bytestream.New([]byte{TagInt, 42, 0, 0, 0})
	v2, err := Decode(r2, resolver())
	require.NoError(t, err)
	require.Equal(t, int32(42), v2)
}

func TestDecodeStringFromTable(t *testing.T) {
	r := bytestream.New([]byte{TagString, 0x00, 0x00})
	v, err := Decode(r, resolver())
	require.NoError(t, err)
	require.Equal(t, "hello", v)
}

func TestThicknessNormalization(t *testing.T) {
	require.Equal(t, "1", Thickness{1, 1, 1, 1}.String())
	require.Equal(t, "1,2", Thickness{1, 2, 1, 2}.String())
	require.Equal(t, "1,2,3,4", Thickness{1, 2, 3, 4}.String())
}

func TestGridLengthNormalization(t *testing.T) {
	require.Equal(t, "Auto", GridLength{Kind: 0}.String())
	require.Equal(t, "5", GridLength{Kind: 1, Value: 5}.String())
	require.Equal(t, "*", GridLength{Kind: 2, Value: 1}.String())
	require.Equal(t, "0.5*", GridLength{Kind: 2, Value: 0.5}.String())
}

func TestDecodeColor(t *testing.T) {
	// B=0x33 G=0x22 R=0x11 A=0xFF -> "#FF112233"
	r := bytestream.New([]byte{TagColor, 0x33, 0x22, 0x11, 0xFF})
	v, err := Decode(r, resolver())
	require.NoError(t, err)
	require.Equal(t, "#FF112233", v)
}

func TestDecodeUnknownTag(t *testing.T) {
	r := bytestream.New([]byte{0xEE})
	_, err := Decode(r, resolver())
	require.Error(t, err)
}

func TestDecodeEmptyString(t *testing.T) {
	r := bytestream.New([]byte{TagEmptyStr})
	v, err := Decode(r, resolver())
	require.NoError(t, err)
	require.Equal(t, "", v)
}
