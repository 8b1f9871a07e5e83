package interpreter

import (
	"github.com/chausner/XbfAnalyzer/object"
	"github.com/chausner/XbfAnalyzer/xbferrors"
)

// dispatchSectionRef reads a node-section reference: a varint section index,
// a u16 reserved field that must be zero, and a varint kind tag, per
// spec.md §4.5.2. It recurses into the referenced section according to kind
// and attaches whatever that recursion produces (an Obj, a set of resource
// entries, or nothing) the way each kind's own handler documents.
func (ip *Interpreter) dispatchSectionRef() error {
	sectionIndex, err := ip.reader.ReadVarint()
	if err != nil {
		return err
	}
	zero, err := ip.reader.ReadU16()
	if err != nil {
		return err
	}
	if zero != 0 {
		return xbferrors.New(xbferrors.UnexpectedByte).At(ip.reader.Position()).
			Detail("node section reference reserved field must be zero, got 0x%04x", zero).Build()
	}
	kind, err := ip.reader.ReadVarint()
	if err != nil {
		return err
	}

	idx := int(sectionIndex)
	if idx < 0 || idx >= len(ip.tables.NodeSections) {
		return xbferrors.New(xbferrors.UnknownSectionKind).At(ip.reader.Position()).
			Detail("node section index %d out of range", idx).Build()
	}
	section := ip.tables.NodeSections[idx]

	switch int(kind) {
	case sectionKindStyle, sectionKindStyleAlt:
		return ip.ReadStyle(section, false)
	case sectionKindStyleExtended:
		return ip.ReadStyle(section, true)
	case sectionKindResourceDict:
		return ip.ReadResourceDictionary(section, false, false)
	case sectionKindResourceDictExt:
		return ip.ReadResourceDictionary(section, true, false)
	case sectionKindResourceDictExt2:
		return ip.ReadResourceDictionary(section, true, true)
	case sectionKindVisualStates:
		return ip.readVisualStateSection(section)
	case sectionKindDeferredElement:
		return ip.ReadDeferredElement(section, true, false)
	case sectionKindDeferredElementAlt:
		return ip.ReadDeferredElement(section, false, false)
	case sectionKindDeferredElementExt:
		return ip.ReadDeferredElement(section, true, true)
	default:
		return xbferrors.New(xbferrors.UnknownSectionKind).At(ip.reader.Position()).
			Detail("section kind %d", kind).Build()
	}
}

// sectionRange is the minimal interface section recursion needs from a
// xbfschema.NodeSection: the absolute start and end of its node bytes.
type sectionRange interface {
	NodeStart(base int) int
	NodeEnd(base int) int
}

// enterSection seeks to section's node start, enforces the recursion depth
// limit for the duration of fn, and restores the saved read position
// afterward regardless of fn's outcome. Unlike the offset-addressed helpers
// below, it does not assert stack balance: a top-level section recursion
// (Style, ResourceDictionary, DeferredElement, visual states) is free to
// leave its own Obj on objStack for the opcode that referenced it to
// consume, the same way objbegin does.
func (ip *Interpreter) enterSection(section sectionRange) (end int, restore func(), err error) {
	if ip.depth >= ip.maxDepth {
		return 0, nil, xbferrors.New(xbferrors.DepthExceeded).At(ip.reader.Position()).
			Detail("node section recursion exceeds depth %d", ip.maxDepth).Build()
	}
	savedPos := ip.reader.Position()
	start := section.NodeStart(ip.base)
	end = section.NodeEnd(ip.base)
	if err := ip.reader.Seek(start); err != nil {
		return 0, nil, err
	}
	ip.depth++
	restore = func() {
		ip.depth--
		ip.reader.Seek(savedPos)
	}
	return end, restore, nil
}

// ReadObjectInNodeSection performs the recursive single-object read
// described by spec.md §4.5.8: it saves the current position, seeks to
// section's node start plus offset, runs the node-frame loop until exactly
// one object has been pushed and popped back off objStack, restores the
// saved position, and returns the object that was popped. Used by Style
// setters and resource-dictionary entries that address their value via an
// offset into their own section rather than a freshly referenced one.
func (ip *Interpreter) ReadObjectInNodeSection(section sectionRange, offset int) (*object.Obj, error) {
	if ip.depth >= ip.maxDepth {
		return nil, xbferrors.New(xbferrors.DepthExceeded).At(ip.reader.Position()).
			Detail("node section recursion exceeds depth %d", ip.maxDepth).Build()
	}
	savedPos := ip.reader.Position()
	entryObjDepth := len(ip.objStack)
	entryColDepth := len(ip.colStack)
	defer ip.reader.Seek(savedPos)

	if err := ip.reader.Seek(section.NodeStart(ip.base) + offset); err != nil {
		return nil, err
	}
	ip.depth++
	obj, err := ip.ReadNodes(ip.reader.Len(), true, false)
	ip.depth--
	if err != nil {
		return nil, err
	}
	if len(ip.objStack) != entryObjDepth || len(ip.colStack) != entryColDepth {
		return nil, xbferrors.New(xbferrors.StackCorruption).At(ip.reader.Position()).
			Detail("stack depth changed across offset object recursion").Build()
	}
	return obj, nil
}

// ReadNodeInNodeSection performs the recursive single-node read described by
// spec.md §4.5.8 for resource-typed style setters: the caller has already
// pushed its own Setter Obj onto objStack, and this dispatches exactly one
// opcode from section's node start plus offset against that pushed object
// before restoring the saved position. It does not pop anything itself; the
// caller owns the object it pushed.
func (ip *Interpreter) ReadNodeInNodeSection(section sectionRange, offset int) error {
	if ip.depth >= ip.maxDepth {
		return xbferrors.New(xbferrors.DepthExceeded).At(ip.reader.Position()).
			Detail("node section recursion exceeds depth %d", ip.maxDepth).Build()
	}
	savedPos := ip.reader.Position()
	defer ip.reader.Seek(savedPos)

	if err := ip.reader.Seek(section.NodeStart(ip.base) + offset); err != nil {
		return err
	}
	ip.depth++
	_, err := ip.ReadNodes(ip.reader.Len(), false, true)
	ip.depth--
	return err
}

// ReadNodeSection runs the ordinary node-frame loop over section's full
// node range (from its node start to its positional offset), per
// spec.md §4.5.8's general section-recursion helper. Used where a section's
// content is a plain run of node-frame opcodes rather than a single
// offset-addressed object or node.
func (ip *Interpreter) ReadNodeSection(section sectionRange) (*object.Obj, error) {
	end, restore, err := ip.enterSection(section)
	if err != nil {
		return nil, err
	}
	defer restore()
	return ip.ReadNodes(end, false, false)
}

// ReadStyle reads a Style node section per spec.md §4.5.4: a Style creates
// and pushes its own Obj exactly like an ordinary objbegin would, then loops
// a varint setterCount times, dispatching each setter by its leading
// type byte. extended selects the form with StyleExtended's extra trailing
// zero-check varint. The enclosing opcode that triggered the section
// reference is responsible for consuming the Style Obj off objStack the
// normal way.
func (ip *Interpreter) ReadStyle(section sectionRange, extended bool) error {
	_, restore, err := ip.enterSection(section)
	if err != nil {
		return err
	}
	defer restore()

	styleObj := object.NewObj("Style")
	ip.pushObj(styleObj)

	count, err := ip.reader.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		if err := ip.readStyleSetter(section, styleObj, extended); err != nil {
			return err
		}
	}

	if extended {
		trailer, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		if trailer != 0 {
			return xbferrors.New(xbferrors.UnexpectedByte).At(ip.reader.Position()).
				Detail("style extended trailer must be zero, got %d", trailer).Build()
		}
	}
	return nil
}

// readStyleSetter dispatches a single Style setter entry by its leading
// type byte, per spec.md §4.5.4's setter table. Setters are collected as
// child Obj values ("Setter") under the Style's own Children collection.
func (ip *Interpreter) readStyleSetter(section sectionRange, styleObj *object.Obj, extended bool) error {
	setterType, err := ip.reader.ReadU8()
	if err != nil {
		return err
	}

	setter := object.NewObj("Setter")

	switch setterType {
	case setterStringProperty, setterStringPropertyAlt:
		// Property resolved via the string table rather than the property
		// table (a setter on an attached/unregistered property).
		idx, err := ip.reader.ReadU16()
		if err != nil {
			return err
		}
		setter.SetProperty("Property", ip.tables.String(int32(idx)))
		offset, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		ip.pushObj(setter)
		if err := ip.ReadNodeInNodeSection(section, int(offset)); err != nil {
			ip.popObj()
			return err
		}
		if _, err := ip.popObj(); err != nil {
			return err
		}

	case setterTableProperty, setterTablePropertyAlt:
		propName, err := ip.readPropertyName()
		if err != nil {
			return err
		}
		setter.SetProperty("Property", propName)
		offset, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		ip.pushObj(setter)
		if err := ip.ReadNodeInNodeSection(section, int(offset)); err != nil {
			ip.popObj()
			return err
		}
		if _, err := ip.popObj(); err != nil {
			return err
		}

	case setterObjectOffset, setterObjectOffsetAlt:
		propName, err := ip.readPropertyName()
		if err != nil {
			return err
		}
		setter.SetProperty("Property", propName)
		offset, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		value, err := ip.ReadObjectInNodeSection(section, int(offset))
		if err != nil {
			return err
		}
		setter.SetProperty("Value", value)

	case setterInlineValue, setterInlineValueAlt:
		propName, err := ip.readPropertyName()
		if err != nil {
			return err
		}
		setter.SetProperty("Property", propName)
		value, err := ip.readValue()
		if err != nil {
			return err
		}
		setter.SetProperty("Value", value)

	case setterReadySetter, setterReadySetterAlt:
		var propName string
		if !extended {
			propName, err = ip.readPropertyName()
			if err != nil {
				return err
			}
		}
		offset, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		ready, err := ip.ReadObjectInNodeSection(section, int(offset))
		if err != nil {
			return err
		}
		if propName != "" {
			ready.SetProperty("Property", propName)
		}
		styleObj.Children.Add(ready)
		return nil

	case setterReadySetterPrefixed, setterReadySetterPrefixedB:
		marker, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		if marker != 1 {
			return xbferrors.New(xbferrors.UnexpectedByte).At(ip.reader.Position()).
				Detail("ready-setter prefix marker must be 1, got %d", marker).Build()
		}
		offset, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		ready, err := ip.ReadObjectInNodeSection(section, int(offset))
		if err != nil {
			return err
		}
		styleObj.Children.Add(ready)
		return nil

	default:
		return xbferrors.New(xbferrors.UnexpectedByte).At(ip.reader.Position()).
			Detail("unknown style setter type 0x%02x", setterType).Build()
	}

	styleObj.Children.Add(setter)
	return nil
}

// ReadResourceDictionary reads a resource-dictionary node section per
// spec.md §4.5.5's three-pass structure: a keyed-resource block
// (keyStringId + offset pairs, each resolved via ReadObjectInNodeSection), a
// trace-only key-subset block, a target-typed-style block (keyed by type
// name instead of an explicit key), and a tail that branches on extended and
// extended2. Entries append directly to the collection that was already on
// top of colStack when the section reference was read, since the dictionary
// itself carries no wrapper Obj of its own.
func (ip *Interpreter) ReadResourceDictionary(section sectionRange, extended, extended2 bool) error {
	_, restore, err := ip.enterSection(section)
	if err != nil {
		return err
	}
	defer restore()

	col := ip.peekCol()
	if col == nil {
		return xbferrors.New(xbferrors.StackCorruption).At(ip.reader.Position()).
			Detail("resource dictionary section with empty collection stack").Build()
	}

	resourceCount, err := ip.reader.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < resourceCount; i++ {
		keyID, err := ip.reader.ReadU16()
		if err != nil {
			return err
		}
		offset, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		obj, err := ip.ReadObjectInNodeSection(section, int(offset))
		if err != nil {
			return err
		}
		obj.SetKey(ip.tables.String(int32(keyID)))
		col.Add(obj)
	}

	if err := ip.skipResourceKeySubset(); err != nil {
		return err
	}

	styleCount, err := ip.reader.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < styleCount; i++ {
		typeID, err := ip.reader.ReadU16()
		if err != nil {
			return err
		}
		offset, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		obj, err := ip.ReadObjectInNodeSection(section, int(offset))
		if err != nil {
			return err
		}
		obj.SetKey(ip.tables.String(int32(typeID)))
		col.Add(obj)
	}

	if extended2 {
		for i := 0; i < 3; i++ {
			v, err := ip.reader.ReadVarint()
			if err != nil {
				return err
			}
			if v != 0 {
				return xbferrors.New(xbferrors.UnexpectedByte).At(ip.reader.Position()).
					Detail("resource dictionary extended2 tail varint must be zero, got %d", v).Build()
			}
		}
		return nil
	}

	if extended {
		zero, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		if zero != 0 {
			return xbferrors.New(xbferrors.UnexpectedByte).At(ip.reader.Position()).
				Detail("resource dictionary extended tail varint must be zero, got %d", zero).Build()
		}
	}
	return ip.skipResourceKeySubset()
}

// skipResourceKeySubset reads and discards a varint-length-prefixed run of
// u16 string-table ids, the "key subset" blocks spec.md §4.5.5 documents as
// trace-only (they restate keys already readable from the entries above).
func (ip *Interpreter) skipResourceKeySubset() error {
	n, err := ip.reader.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		if _, err := ip.reader.ReadU16(); err != nil {
			return err
		}
	}
	return nil
}

// ReadDeferredElement reads a deferred-element node section (a templated
// element body captured for later expansion) per spec.md §4.5.6: a leading
// u16 name id, an extended block of property-name/property-value pairs when
// extended is set, the element's own node-frame body, and a trailing varint
// when extended2 is set. The resolved child attaches directly to the
// referencing object's Children collection, since a deferred body carries
// no addobj/keyaddobj terminator of its own.
func (ip *Interpreter) ReadDeferredElement(section sectionRange, extended, extended2 bool) error {
	owner, err := ip.peekObj()
	if err != nil {
		return err
	}

	end, restore, err := ip.enterSection(section)
	if err != nil {
		return err
	}
	defer restore()

	if _, err := ip.reader.ReadU16(); err != nil { // name id, trace-only
		return err
	}

	if extended {
		n, err := ip.reader.ReadVarint()
		if err != nil {
			return err
		}
		for i := uint32(0); i < n; i++ {
			if _, err := ip.readPropertyName(); err != nil {
				return err
			}
			if _, err := ip.readValue(); err != nil {
				return err
			}
		}
	}

	child, err := ip.ReadNodes(end, true, false)
	if err != nil {
		return err
	}
	owner.Children.Add(child)

	if extended2 {
		if _, err := ip.reader.ReadVarint(); err != nil {
			return err
		}
	}
	return nil
}

// readVisualStateSection reads a visual-state-group node section per
// spec.md §4.5.2's kind 5 handler: skipVisualStateBytes consumes the
// section's metadata header (groups, states, setter/trigger/transition
// tables, string ids), after which the remaining bytes up to the section's
// end are an ordinary node-frame run describing the actual state objects.
func (ip *Interpreter) readVisualStateSection(section sectionRange) error {
	end, restore, err := ip.enterSection(section)
	if err != nil {
		return err
	}
	defer restore()

	if err := ip.skipVisualStateBytes(); err != nil {
		return err
	}
	_, err = ip.ReadNodes(end, false, false)
	return err
}

// skipVisualStateBytes consumes the visual-state metadata header documented
// in spec.md §4.5.7: per-state group membership, a repeated visualStateCount
// check, per-state setter/adaptive-trigger/state-trigger/offset tables with
// a required zero trailer, visual-state-group and visual-transition tables,
// and a final string-id table. Every field here is read positionally and
// discarded except where spec.md documents an expected constant value.
func (ip *Interpreter) skipVisualStateBytes() error {
	r := ip.reader

	visualStateCount, err := r.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < visualStateCount; i++ {
		if _, err := r.ReadVarint(); err != nil { // group membership
			return err
		}
	}

	visualStateCount2, err := r.ReadVarint()
	if err != nil {
		return err
	}
	if visualStateCount2 != visualStateCount {
		return xbferrors.New(xbferrors.UnexpectedByte).At(r.Position()).
			Detail("visualStateCount2 (%d) does not match visualStateCount (%d)", visualStateCount2, visualStateCount).Build()
	}

	for i := uint32(0); i < visualStateCount; i++ {
		if _, err := r.ReadU16(); err != nil { // name id
			return err
		}
		if _, err := r.ReadVarint(); err != nil {
			return err
		}
		if _, err := r.ReadVarint(); err != nil {
			return err
		}

		setterCount, err := r.ReadVarint()
		if err != nil {
			return err
		}
		for j := uint32(0); j < setterCount; j++ {
			if _, err := r.ReadVarint(); err != nil { // setter offset
				return err
			}
		}

		adaptiveTriggerCount, err := r.ReadVarint()
		if err != nil {
			return err
		}
		for j := uint32(0); j < adaptiveTriggerCount; j++ {
			innerCount, err := r.ReadVarint()
			if err != nil {
				return err
			}
			for k := uint32(0); k < innerCount; k++ {
				if _, err := r.ReadVarint(); err != nil {
					return err
				}
			}
		}

		stateTriggerCount, err := r.ReadVarint()
		if err != nil {
			return err
		}
		for j := uint32(0); j < stateTriggerCount; j++ {
			if _, err := r.ReadVarint(); err != nil { // state trigger offset
				return err
			}
		}

		offsetCount, err := r.ReadVarint()
		if err != nil {
			return err
		}
		for j := uint32(0); j < offsetCount; j++ {
			if _, err := r.ReadVarint(); err != nil {
				return err
			}
		}

		trailer, err := r.ReadVarint()
		if err != nil {
			return err
		}
		if trailer != 0 {
			return xbferrors.New(xbferrors.UnexpectedByte).At(r.Position()).
				Detail("visual state trailer must be zero, got %d", trailer).Build()
		}
	}

	visualStateGroupCount, err := r.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < visualStateGroupCount; i++ {
		if _, err := r.ReadU16(); err != nil { // name id
			return err
		}
		if _, err := r.ReadVarint(); err != nil {
			return err
		}
		if _, err := r.ReadVarint(); err != nil { // default-state offset
			return err
		}
	}

	visualTransitionCount, err := r.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < visualTransitionCount; i++ {
		if _, err := r.ReadU16(); err != nil { // to-state name id
			return err
		}
		if _, err := r.ReadU16(); err != nil { // from-state name id
			return err
		}
		if _, err := r.ReadVarint(); err != nil { // storyboard offset
			return err
		}
	}

	if _, err := r.ReadVarint(); err != nil {
		return err
	}

	groupCount2, err := r.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < groupCount2; i++ {
		for k := 0; k < 3; k++ {
			if _, err := r.ReadVarint(); err != nil {
				return err
			}
		}
	}

	count3, err := r.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count3; i++ {
		if _, err := r.ReadVarint(); err != nil {
			return err
		}
	}

	if _, err := r.ReadVarint(); err != nil {
		return err
	}

	stringCount, err := r.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < stringCount; i++ {
		if _, err := r.ReadU16(); err != nil {
			return err
		}
	}

	return nil
}

// dispatchDataTemplate reads a DataTemplate property value per spec.md
// §4.5.3: the literal property name (always "Template"), a varint target
// section index, varint staticCount/themeCount resource-index counts and
// their trace-only u16 entries, then immediately and recursively executes
// the target section via ReadNodeSection, assigning the single Obj it
// produces as the property's value. Unlike a lazily re-entrant reference,
// the target section is walked right here at dispatch time.
func (ip *Interpreter) dispatchDataTemplate() error {
	top, err := ip.peekObj()
	if err != nil {
		return err
	}
	propName, err := ip.readPropertyName()
	if err != nil {
		return err
	}

	sectionIndex, err := ip.reader.ReadVarint()
	if err != nil {
		return err
	}
	staticCount, err := ip.reader.ReadVarint()
	if err != nil {
		return err
	}
	themeCount, err := ip.reader.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < staticCount+themeCount; i++ {
		if _, err := ip.reader.ReadU16(); err != nil {
			return err
		}
	}

	idx := int(sectionIndex)
	if idx < 0 || idx >= len(ip.tables.NodeSections) {
		return xbferrors.New(xbferrors.UnknownSectionKind).At(ip.reader.Position()).
			Detail("DataTemplate section index %d out of range", idx).Build()
	}
	section := ip.tables.NodeSections[idx]

	result, err := ip.ReadNodeSection(section)
	if err != nil {
		return err
	}
	top.SetProperty(propName, result)
	return nil
}
