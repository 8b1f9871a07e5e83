package interpreter

import (
	"github.com/chausner/XbfAnalyzer/object"
	"github.com/chausner/XbfAnalyzer/xbferrors"
	"github.com/chausner/XbfAnalyzer/xbfvalue"
)

// dispatchSetProperty pops the top object, reads a property name, and
// assigns the object as that property's value on the new top of objStack.
// extended is true for opSetPropertyExt; both opcodes are read and handled
// identically.
func (ip *Interpreter) dispatchSetProperty(extended bool) error {
	value, err := ip.popObj()
	if err != nil {
		return err
	}
	owner, err := ip.peekObj()
	if err != nil {
		return err
	}
	propName, err := ip.readPropertyName()
	if err != nil {
		return err
	}
	owner.SetProperty(propName, value)
	return nil
}

// dispatchAddObject pops the top object and appends it to the collection at
// the top of colStack (per spec.md's lifecycle note that addobj is one of
// the operations that consumes an object off objStack).
func (ip *Interpreter) dispatchAddObject() error {
	child, err := ip.popObj()
	if err != nil {
		return err
	}
	col := ip.peekCol()
	if col == nil {
		return xbferrors.New(xbferrors.StackCorruption).
			Detail("addobj with empty collection stack").Build()
	}
	col.Add(child)
	return nil
}

// dispatchAddKeylessStyle is identical to dispatchAddObject: spec.md §4.5
// documents opcode 0x09 as "same as 0x08" — a plain pop-and-append, with no
// keying of any kind.
func (ip *Interpreter) dispatchAddKeylessStyle() error {
	return ip.dispatchAddObject()
}

// dispatchAddKeyedObject pops the top object, reads its resource key, and
// appends it to the top collection, mirroring ReadResourceDictionary's
// treatment of keyed entries read out of a secondary node section.
func (ip *Interpreter) dispatchAddKeyedObject() error {
	child, err := ip.popObj()
	if err != nil {
		return err
	}
	key, err := ip.readValue()
	if err != nil {
		return err
	}
	child.SetKey(xbfvalue.Stringify(key))
	col := ip.peekCol()
	if col == nil {
		return xbferrors.New(xbferrors.StackCorruption).
			Detail("keyaddobj with empty collection stack").Build()
	}
	col.Add(child)
	return nil
}

// dispatchContextDependent resolves opcode 0x04's three-way overload per
// spec.md §4.5.1, purely from stack shape at the moment it's hit:
//
//  1. colStack's top is not the current object's own Children collection:
//     the payload is a verbatim text node. Read the value and push a
//     synthetic Obj{Type: "Verbatim"} carrying it as "Value".
//  2. colStack's top is the current object's Children and that object is
//     the document root: read the value and append it as the root's
//     x:Class property.
//  3. Otherwise: read and discard the value.
func (ip *Interpreter) dispatchContextDependent() error {
	top, err := ip.peekObj()
	if err != nil {
		return err
	}
	col := ip.peekCol()

	if col == nil || col != top.Children {
		val, err := ip.readValue()
		if err != nil {
			return err
		}
		verbatim := object.NewObj("Verbatim")
		verbatim.SetProperty("Value", val)
		ip.pushObj(verbatim)
		return nil
	}

	if len(ip.rootStack) > 0 && top == ip.rootStack[0] {
		val, err := ip.readValue()
		if err != nil {
			return err
		}
		top.SetProperty("x:Class", val)
		return nil
	}

	_, err = ip.readValue()
	return err
}

// dispatchNestedRoot handles a nested x:Class root embedded inside the
// current node frame (e.g. a templated control's own compiled root),
// reading a fresh root frame recursively and attaching the resulting Obj as
// a child of the enclosing object's Children collection.
func (ip *Interpreter) dispatchNestedRoot(end int) error {
	top, err := ip.peekObj()
	if err != nil {
		return err
	}
	typeName, err := ip.readTypeName()
	if err != nil {
		return err
	}
	nested := object.NewObj(typeName)
	ip.rootStack = append(ip.rootStack, nested)
	ip.pushObj(nested)
	if _, err := ip.ReadNodes(end, true, false); err != nil {
		return err
	}
	if _, err := ip.popObj(); err != nil {
		return err
	}
	top.Children.Add(nested)
	return nil
}

// dispatchCreateWithArg constructs an object whose constructor takes a
// single inline string argument (e.g. a markup-extension-style type),
// recording the argument as a synthetic "_ConstructorArgument" property.
// wide selects the form whose argument is a table string reference rather
// than an inline one.
func (ip *Interpreter) dispatchCreateWithArg(wide bool) error {
	typeName, err := ip.readTypeName()
	if err != nil {
		return err
	}
	var arg string
	if wide {
		idx, err := ip.reader.ReadU16()
		if err != nil {
			return err
		}
		arg = ip.tables.String(int32(idx))
	} else {
		arg, err = ip.readInlineString()
		if err != nil {
			return err
		}
	}
	obj := object.NewObj(typeName)
	obj.SetProperty("_ConstructorArgument", arg)
	ip.pushObj(obj)
	return nil
}

// dispatchDirectProperty reads a property name and an inline value,
// assigning it directly on the current object top without the intervening
// push/pop a full nested-object value would require. wide selects the form
// whose property id is a full table reference.
func (ip *Interpreter) dispatchDirectProperty(wide bool) error {
	top, err := ip.peekObj()
	if err != nil {
		return err
	}
	var propName string
	if wide {
		propName, err = ip.readPropertyName()
	} else {
		propName, err = ip.readInlineString()
	}
	if err != nil {
		return err
	}
	val, err := ip.readValue()
	if err != nil {
		return err
	}
	top.SetProperty(propName, val)
	return nil
}

// dispatchResolvedPropertySetter reads two property names, a and b, and
// appends "a = b" to the current object, per spec.md §4.5 (a resolved
// property-to-property binding, distinct from opTemplateBinding's markup
// rendering).
func (ip *Interpreter) dispatchResolvedPropertySetter() error {
	top, err := ip.peekObj()
	if err != nil {
		return err
	}
	a, err := ip.readPropertyName()
	if err != nil {
		return err
	}
	b, err := ip.readPropertyName()
	if err != nil {
		return err
	}
	top.SetProperty(a, b)
	return nil
}

// dispatchResourceReferenceProperty assigns a {StaticResource name} or
// {ThemeResource name} markup-extension string as a property value,
// resolving the resource name from the string table.
func (ip *Interpreter) dispatchResourceReferenceProperty(theme bool) error {
	top, err := ip.peekObj()
	if err != nil {
		return err
	}
	propName, err := ip.readPropertyName()
	if err != nil {
		return err
	}
	idx, err := ip.reader.ReadU16()
	if err != nil {
		return err
	}
	name := ip.tables.String(int32(idx))
	top.SetProperty(propName, resourceMarkup(theme, name))
	return nil
}

// dispatchResourceReferenceObject pushes a placeholder object whose sole
// purpose is to carry a resource-reference string as its
// "_MarkupExtension" property, for contexts where a resource reference
// appears as a collection item rather than a property value.
func (ip *Interpreter) dispatchResourceReferenceObject(theme bool) error {
	idx, err := ip.reader.ReadU16()
	if err != nil {
		return err
	}
	name := ip.tables.String(int32(idx))
	obj := object.NewObj("_ResourceReference")
	obj.SetProperty("_MarkupExtension", resourceMarkup(theme, name))
	ip.pushObj(obj)
	return nil
}

func resourceMarkup(theme bool, name string) string {
	if theme {
		return "{ThemeResource " + name + "}"
	}
	return "{StaticResource " + name + "}"
}
