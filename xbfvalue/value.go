// Package xbfvalue decodes inline typed property values from the node
// stream: a one-byte tag followed by a tag-specific payload.
//
// The tag-dispatch switch is grounded on the teacher's decodeAttr/
// decodeElementStart functions in transport/nbfse.go, the pack's only
// precedent for "a single leading tag byte selects one of a dozen decode
// shapes, each consuming a different number of trailing bytes".
package xbfvalue

import (
	"fmt"
	"strconv"

	"github.com/chausner/XbfAnalyzer/bytestream"
	"github.com/chausner/XbfAnalyzer/xbfname"
	"github.com/chausner/XbfAnalyzer/xbferrors"
)

// Value tags, per spec.md §4.4.
const (
	TagFalse      = 0x01
	TagTrue       = 0x02
	TagFloat      = 0x03
	TagInt        = 0x04
	TagString     = 0x05
	TagThickness  = 0x06
	TagGridLength = 0x07
	TagColor      = 0x08
	TagDuration   = 0x09
	TagEmptyStr   = 0x0A
	TagEnum       = 0x0B
)

// Thickness is a four-sided inset/margin value.
type Thickness struct {
	Left, Top, Right, Bottom float32
}

// String normalizes per spec.md §4.4/§8: all four equal collapses to a
// single scalar; left==right && top==bottom collapses to "l,t"; otherwise
// all four are emitted.
func (t Thickness) String() string {
	if t.Left == t.Top && t.Top == t.Right && t.Right == t.Bottom {
		return formatFloat(t.Left)
	}
	if t.Left == t.Right && t.Top == t.Bottom {
		return formatFloat(t.Left) + "," + formatFloat(t.Top)
	}
	return formatFloat(t.Left) + "," + formatFloat(t.Top) + "," +
		formatFloat(t.Right) + "," + formatFloat(t.Bottom)
}

// GridLength is a row/column sizing value: Auto, a fixed number, or a star
// (proportional) size.
type GridLength struct {
	Kind  int32
	Value float32
}

// String implements spec.md §4.4/§8: kind 0 -> "Auto"; kind 1 -> the
// numeric value; kind 2 with value 1 -> "*"; kind 2 otherwise -> "<v>*".
func (g GridLength) String() string {
	switch g.Kind {
	case 0:
		return "Auto"
	case 1:
		return formatFloat(g.Value)
	case 2:
		if g.Value == 1 {
			return "*"
		}
		return formatFloat(g.Value) + "*"
	default:
		return formatFloat(g.Value)
	}
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Decode reads a one-byte tag and its payload, returning one of: bool,
// float32, int32, string, Thickness, GridLength, or an already-resolved
// enum-name string.
func Decode(r *bytestream.Reader, names *xbfname.Resolver) (any, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagFalse:
		return false, nil
	case TagTrue:
		return true, nil
	case TagFloat:
		return r.ReadF32()
	case TagInt:
		return r.ReadI32()
	case TagString:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return names.Tables().String(int32(idx)), nil
	case TagThickness:
		return decodeThickness(r)
	case TagGridLength:
		return decodeGridLength(r)
	case TagColor:
		return decodeColor(r)
	case TagDuration:
		return decodeDuration(r)
	case TagEmptyStr:
		return "", nil
	case TagEnum:
		return decodeEnum(r, names)
	default:
		return nil, xbferrors.New(xbferrors.UnknownValueType).At(r.Position() - 1).
			Detail("tag 0x%02x", tag).Build()
	}
}

func decodeThickness(r *bytestream.Reader) (Thickness, error) {
	var t Thickness
	vals := []*float32{&t.Left, &t.Top, &t.Right, &t.Bottom}
	for _, v := range vals {
		f, err := r.ReadF32()
		if err != nil {
			return t, err
		}
		*v = f
	}
	return t, nil
}

func decodeGridLength(r *bytestream.Reader) (GridLength, error) {
	var g GridLength
	kind, err := r.ReadI32()
	if err != nil {
		return g, err
	}
	value, err := r.ReadF32()
	if err != nil {
		return g, err
	}
	g.Kind = kind
	g.Value = value
	return g, nil
}

// decodeColor reads B,G,R,A bytes and formats "#AARRGGBB".
func decodeColor(r *bytestream.Reader) (string, error) {
	b, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	g, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	rr, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	a, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", a, rr, g, b), nil
}

func decodeDuration(r *bytestream.Reader) (string, error) {
	length, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	return r.ReadChars(int(length))
}

func decodeEnum(r *bytestream.Reader, names *xbfname.Resolver) (string, error) {
	enumID, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	value, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	return names.EnumValue(enumID, value), nil
}
