package interpreter

import (
	"github.com/chausner/XbfAnalyzer/object"
	"github.com/chausner/XbfAnalyzer/xbferrors"
)

// ReadRoot parses the root frame starting at the interpreter's current
// position and ending at end (an absolute file offset), per spec.md §4.5's
// root-frame opcode table. It returns the single root Obj produced.
//
// The root frame declares xmlns prefixes (0x12/0x03), optionally names an
// x:Class, and then hands off to the node frame via opRootBegin (0x17),
// which is where the object itself is actually constructed. Everything
// before opRootBegin only populates the name resolver's prefix map or
// records a pending class name; spec.md §3 calls this out explicitly as the
// reason root-frame declarations must be processed before the first object
// is seen.
func (ip *Interpreter) ReadRoot(end int) (*object.Obj, error) {
	var pendingClass string
	var havePendingClass bool

	for {
		if ip.reader.Position() >= end {
			return nil, xbferrors.New(xbferrors.UnexpectedEOF).At(ip.reader.Position()).
				Detail("root frame ended without opRootBegin").Build()
		}
		startPos := ip.reader.Position()
		op, err := ip.reader.ReadU8()
		if err != nil {
			return nil, err
		}

		switch op {
		case opRootNamespaceA, opRootNamespaceB:
			if err := ip.readRootNamespaceDecl(); err != nil {
				return nil, ip.wrapPosition(err, startPos)
			}
		case opRootClass:
			name, err := ip.readInlineString()
			if err != nil {
				return nil, ip.wrapPosition(err, startPos)
			}
			pendingClass = name
			havePendingClass = true
		case opRootBegin:
			root, err := ip.readRootObject(end)
			if err != nil {
				return nil, ip.wrapPosition(err, startPos)
			}
			if havePendingClass {
				root.SetProperty("x:Class", pendingClass)
			}
			return root, nil
		default:
			return nil, xbferrors.New(xbferrors.UnknownOpcode).At(startPos).
				Detail("opcode 0x%02x not valid in root frame", op).Build()
		}
	}
}

// readRootNamespaceDecl reads a single xmlns declaration: a u16 namespace
// table id plus an inline string prefix (empty string for the default
// namespace), and registers it with the name resolver.
func (ip *Interpreter) readRootNamespaceDecl() error {
	nsID, err := ip.reader.ReadU16()
	if err != nil {
		return err
	}
	prefix, err := ip.readInlineString()
	if err != nil {
		return err
	}
	idx := int(nsID)
	var uri string
	if idx >= 0 && idx < len(ip.tables.XMLNamespaces) {
		uri = ip.tables.String(ip.tables.XMLNamespaces[idx].NameID)
	}
	ip.names.RegisterPrefix(uri, prefix)
	return nil
}

// readRootObject constructs the document root object and then reads the
// node frame's single object to completion. rootStack holds exactly this
// one Obj once readRootObject returns successfully, per spec.md §3's
// invariant that a clean parse leaves rootStack as a singleton.
func (ip *Interpreter) readRootObject(end int) (*object.Obj, error) {
	typeName, err := ip.readTypeName()
	if err != nil {
		return nil, err
	}
	root := object.NewObj(typeName)
	ip.rootStack = append(ip.rootStack, root)
	ip.pushObj(root)

	if _, err := ip.ReadNodes(end, false, false); err != nil {
		return nil, err
	}

	if len(ip.objStack) != 0 {
		return nil, xbferrors.New(xbferrors.StackCorruption).At(ip.reader.Position()).
			Detail("object stack not empty after root parse (depth %d)", len(ip.objStack)).Build()
	}
	if len(ip.colStack) != 0 {
		return nil, xbferrors.New(xbferrors.StackCorruption).At(ip.reader.Position()).
			Detail("collection stack not empty after root parse (depth %d)", len(ip.colStack)).Build()
	}
	return root, nil
}
