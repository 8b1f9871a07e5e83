package interpreter

import "github.com/chausner/XbfAnalyzer/object"

// Command is one recorded step of a disassembly trace: the opcode's byte
// range, a human-readable rendering of what it did, a node-section index,
// and deep-copied snapshots of both stacks as they stood immediately after
// the opcode ran. ReadNodes records every command with NodeSectionIndex -1;
// the section a command was read from is not tracked.
type Command struct {
	Position         int
	ByteSlice        []byte
	NodeSectionIndex int
	Text             string
	Indent           int

	ObjectStackSnapshot     []*object.Obj
	CollectionStackSnapshot []*object.ObjCollection
}

// Trace accumulates Commands across one or more ReadRoot/ReadNodes calls.
// Snapshots are deep copies (via Obj.Clone) so that
// later mutation of the interpreter's live stacks can never corrupt an
// already-recorded Command.
type Trace struct {
	Commands []Command
}

func newTrace() *Trace {
	return &Trace{}
}

// record appends a Command built from the interpreter's current stacks.
// sectionIndex is -1 when recording the root node section.
func (ip *Interpreter) record(startPos int, raw []byte, sectionIndex int, text string) {
	if ip.trace == nil {
		return
	}
	cmd := Command{
		Position:         startPos,
		ByteSlice:        append([]byte(nil), raw...),
		NodeSectionIndex: sectionIndex,
		Text:             text,
		Indent:           ip.depth,
	}
	cmd.ObjectStackSnapshot = make([]*object.Obj, len(ip.objStack))
	for i, o := range ip.objStack {
		cmd.ObjectStackSnapshot[i] = o.Clone()
	}
	cmd.CollectionStackSnapshot = make([]*object.ObjCollection, len(ip.colStack))
	for i, c := range ip.colStack {
		owner := c.Owner
		if owner != nil {
			owner = owner.Clone()
		}
		cloned := &object.ObjCollection{Owner: owner, OwnerProperty: c.OwnerProperty}
		cloned.Items = make([]*object.Obj, len(c.Items))
		for j, item := range c.Items {
			cloned.Items[j] = item.Clone()
		}
		cmd.CollectionStackSnapshot[i] = cloned
	}
	ip.trace.Commands = append(ip.trace.Commands, cmd)
}
