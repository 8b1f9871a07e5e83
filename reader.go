// Package xbf is the public entry point for parsing XBF v2 files: opening a
// file or in-memory buffer, reading its root object tree, and producing a
// step-by-step disassembly trace of either the root node section or any
// secondary one, for diagnostic and research tooling.
//
// Modeled on the teacher's transport.Dial, which returns a configured
// *Conn from a small set of functional options; Reader plays the same role
// here over an in-memory byte buffer instead of a network connection.
package xbf

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/chausner/XbfAnalyzer/bytestream"
	"github.com/chausner/XbfAnalyzer/interpreter"
	"github.com/chausner/XbfAnalyzer/object"
	"github.com/chausner/XbfAnalyzer/oracle"
	"github.com/chausner/XbfAnalyzer/xbfname"
	"github.com/chausner/XbfAnalyzer/xbfschema"
	"github.com/chausner/XbfAnalyzer/xbferrors"
)

// Reader holds a parsed XBF file's metadata tables and the raw bytes
// needed to later read its root node section or recurse into any
// secondary one on demand.
type Reader struct {
	data    []byte
	tables  xbfschema.Tables
	base    int
	rootEnd int

	names    *xbfname.Resolver
	oracle   oracle.Oracle
	maxDepth int
	log      *logrus.Logger

	closed bool
}

// Option configures a Reader at Open time.
type Option func(*Reader)

// WithOracle supplies the framework name-resolution Oracle used for
// high-bit type/property/enum ids. Defaults to oracle.NoopOracle{}.
func WithOracle(o oracle.Oracle) Option {
	return func(r *Reader) { r.oracle = o }
}

// WithMaxDepth overrides the node-section recursion depth limit. Defaults
// to interpreter.DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(r *Reader) { r.maxDepth = n }
}

// WithLogger supplies a logrus.Logger for interpreter diagnostics. Defaults
// to logrus.StandardLogger().
func WithLogger(log *logrus.Logger) Option {
	return func(r *Reader) { r.log = log }
}

// Open reads path into memory and parses its header and metadata tables.
func Open(path string, opts ...Option) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xbferrors.New(xbferrors.UnsupportedFeature).
			Detail("reading %s", path).Wrap(err).Build()
	}
	return OpenBytes(data, opts...)
}

// OpenBytes parses an in-memory XBF v2 buffer's header and metadata tables.
// The buffer is retained (not copied) for the lifetime of the Reader.
func OpenBytes(data []byte, opts ...Option) (*Reader, error) {
	r := bytestream.New(data)
	header, err := xbfschema.LoadHeader(r)
	if err != nil {
		return nil, err
	}
	tables, base, err := xbfschema.LoadTables(r, header)
	if err != nil {
		return nil, err
	}

	rd := &Reader{
		data:    data,
		tables:  tables,
		base:    base,
		rootEnd: len(data),
		oracle:  oracle.NoopOracle{},
	}
	for _, opt := range opts {
		opt(rd)
	}
	rd.names = xbfname.New(&rd.tables, rd.oracle)
	return rd, nil
}

func (r *Reader) newInterpreter(start int, trace bool) (*interpreter.Interpreter, *interpreter.Trace, error) {
	br := bytestream.New(r.data)
	if err := br.Seek(start); err != nil {
		return nil, nil, err
	}
	ip := interpreter.New(br, &r.tables, r.names, r.base, r.maxDepth, r.log)
	var tr *interpreter.Trace
	if trace {
		tr = ip.EnableTrace()
	}
	return ip, tr, nil
}

// ReadRootNodeSection parses the file's root object tree and returns it.
func (r *Reader) ReadRootNodeSection() (*object.Obj, error) {
	if r.closed {
		return nil, xbferrors.New(xbferrors.Disposed).Build()
	}
	ip, _, err := r.newInterpreter(r.base, false)
	if err != nil {
		return nil, err
	}
	return ip.ReadRoot(r.rootEnd)
}

// DisassembleRootNodeSection parses the root node section the same way
// ReadRootNodeSection does, but additionally records every opcode dispatch
// as a Command in the returned Trace.
func (r *Reader) DisassembleRootNodeSection() (*interpreter.Trace, error) {
	if r.closed {
		return nil, xbferrors.New(xbferrors.Disposed).Build()
	}
	ip, tr, err := r.newInterpreter(r.base, true)
	if err != nil {
		return nil, err
	}
	if _, err := ip.ReadRoot(r.rootEnd); err != nil {
		return nil, err
	}
	return tr, nil
}

// DisassembleNodeSection parses and traces the secondary node section at
// index (as listed in the node-section directory), independent of any
// property that references it. Useful for inspecting styles, resource
// dictionaries, or deferred element bodies directly.
func (r *Reader) DisassembleNodeSection(index int) (*interpreter.Trace, error) {
	if r.closed {
		return nil, xbferrors.New(xbferrors.Disposed).Build()
	}
	if index < 0 || index >= len(r.tables.NodeSections) {
		return nil, xbferrors.New(xbferrors.UnknownSectionKind).
			Detail("node section index %d out of range", index).Build()
	}
	section := r.tables.NodeSections[index]
	start := section.NodeStart(r.base)
	end := section.NodeEnd(r.base)
	ip, tr, err := r.newInterpreter(start, true)
	if err != nil {
		return nil, err
	}
	// A secondary node section is node-frame content (styles, resource
	// entries, deferred element bodies) with no root-frame xmlns/class
	// preamble, so it's walked with ReadNodes directly rather than ReadRoot.
	if _, err := ip.ReadNodes(end, false, false); err != nil {
		return nil, err
	}
	return tr, nil
}

// Close marks the Reader unusable. Since Reader only ever holds an
// in-memory buffer, Close has no resource to release; it exists so callers
// that treat every xbf.Reader like a file handle get the same
// use-after-close protection the teacher's transport.Conn provides.
func (r *Reader) Close() error {
	r.closed = true
	return nil
}
