// Package bytestream implements a positioned random-access view over an
// in-memory byte slice: little-endian primitive reads, UTF-16 character
// reads, 7-bit variable-length integers, and absolute seek. It is the
// lowest layer of the XBF reader; every other package reads through it.
package bytestream

import (
	"math"
	"unicode/utf16"

	"github.com/chausner/XbfAnalyzer/xbferrors"
)

// Reader is a positioned cursor over data. It is not safe for concurrent use.
type Reader struct {
	data []byte
	pos  int
}

// New wraps data in a Reader positioned at offset 0.
func New(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current absolute read offset.
func (r *Reader) Position() int {
	return r.pos
}

// Seek moves the cursor to an absolute offset. Seeking past the end of data
// is allowed (it will fail on the next read); seeking to a negative offset
// fails immediately.
func (r *Reader) Seek(pos int) error {
	if pos < 0 {
		return xbferrors.New(xbferrors.UnexpectedByte).At(pos).
			Detail("seek to negative offset %d", pos).Build()
	}
	r.pos = pos
	return nil
}

// Len returns the total number of bytes backing this reader.
func (r *Reader) Len() int {
	return len(r.data)
}

func (r *Reader) require(n int) error {
	if r.pos < 0 || r.pos+n > len(r.data) {
		return xbferrors.New(xbferrors.UnexpectedEOF).At(r.pos).
			Detail("need %d byte(s), have %d", n, len(r.data)-r.pos).Build()
	}
	return nil
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := uint16(r.data[r.pos]) | uint16(r.data[r.pos+1])<<8
	r.pos += 2
	return v, nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	u, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return int32(u), nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := uint32(r.data[r.pos]) | uint32(r.data[r.pos+1])<<8 |
		uint32(r.data[r.pos+2])<<16 | uint32(r.data[r.pos+3])<<24
	r.pos += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(r.data[r.pos+i]) << (8 * i)
	}
	r.pos += 8
	return v, nil
}

// ReadF32 reads a little-endian IEEE-754 single-precision float.
func (r *Reader) ReadF32() (float32, error) {
	bits, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// Slice returns the raw bytes in [start, end) without moving the cursor,
// used by disassembly tracing to record the exact bytes an opcode consumed.
// An out-of-range request returns nil rather than erroring, since tracing
// is diagnostic and must never itself fail a parse.
func (r *Reader) Slice(start, end int) []byte {
	if start < 0 || end > len(r.data) || start > end {
		return nil
	}
	return r.data[start:end]
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n
	return b, nil
}

// ReadChars reads n UTF-16 code units (2n bytes) and decodes them to a Go
// string, mirroring how the format's length-prefixed strings give their
// length in UTF-16 characters rather than bytes.
func (r *Reader) ReadChars(n int) (string, error) {
	if err := r.require(2 * n); err != nil {
		return "", err
	}
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		units[i] = uint16(r.data[r.pos]) | uint16(r.data[r.pos+1])<<8
		r.pos += 2
	}
	return string(utf16.Decode(units)), nil
}

// ReadVarint reads a 7-bit base-128 little-endian variable-length integer,
// five bytes maximum (enough for a full uint32 of payload bits).
func (r *Reader) ReadVarint() (uint32, error) {
	var result uint32
	for shift := uint(0); shift < 35; shift += 7 {
		b, err := r.ReadU8()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
	}
	return 0, xbferrors.New(xbferrors.UnexpectedByte).At(r.pos).
		Detail("varint exceeds 5-byte maximum").Build()
}
