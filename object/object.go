// Package object defines the materialized output of the XBF reader: Obj,
// the typed object-tree node, and ObjCollection, the ordered, owner-linked
// collection type used for children and named collection-valued properties.
//
// Modeled on the teacher's ADWSItem/ADWSValue pair in soap/parsing.go — the
// pack's closest analogue of "a parsed record with an ordered set of named
// attributes" — generalized here to a recursive tree with an explicit
// collection type instead of a flat attribute map, since XBF properties can
// themselves hold nested objects or whole collections.
package object

// Property is a single (name, value) pair as emitted by the node stream.
// Value is one of: a primitive scalar (bool, int32, float32, string), *Obj,
// or *ObjCollection.
type Property struct {
	Name  string
	Value any
}

// Obj is a single node in the reconstructed XAML object tree.
type Obj struct {
	TypeName     string
	Name         string
	HasName      bool
	UID          string
	HasUID       bool
	Key          string
	HasKey       bool
	ConnectionID int32
	HasConnID    bool
	Properties   []Property
	Children     *ObjCollection
}

// NewObj creates an Obj of the given type with its implicit Children
// collection already created and owned, per spec: "When an object is
// created, its children collection is created with owner=self,
// ownerProperty='Children' and is implicitly pushed when the object is
// opened."
func NewObj(typeName string) *Obj {
	o := &Obj{TypeName: typeName}
	o.Children = &ObjCollection{Owner: o, OwnerProperty: "Children"}
	return o
}

// SetProperty appends a (name, value) pair in stream order. Duplicates are
// preserved; later entries are output-order-last and therefore "win" when a
// downstream serializer renders a single-valued property.
func (o *Obj) SetProperty(name string, value any) {
	o.Properties = append(o.Properties, Property{Name: name, Value: value})
}

// Property returns the last property matching name, since a later duplicate
// in the stream overwrites an earlier one for single-valued properties.
func (o *Obj) Property(name string) (any, bool) {
	for i := len(o.Properties) - 1; i >= 0; i-- {
		if o.Properties[i].Name == name {
			return o.Properties[i].Value, true
		}
	}
	return nil, false
}

// SetName sets the x:Name attribute.
func (o *Obj) SetName(name string) { o.Name = name; o.HasName = true }

// SetUID sets the x:Uid attribute.
func (o *Obj) SetUID(uid string) { o.UID = uid; o.HasUID = true }

// SetKey sets the resource key under which this object was added to a
// keyed collection (ReadResourceDictionary, keyaddobj).
func (o *Obj) SetKey(key string) { o.Key = key; o.HasKey = true }

// SetConnectionID records the generated connection-site tag.
func (o *Obj) SetConnectionID(id int32) { o.ConnectionID = id; o.HasConnID = true }

// String returns a short debug form: TypeName plus Name/Key when present.
func (o *Obj) String() string {
	s := o.TypeName
	if o.HasName {
		s += "[Name=" + o.Name + "]"
	}
	if o.HasKey {
		s += "[Key=" + o.Key + "]"
	}
	return s
}

// Clone deep-copies this Obj and its entire subtree (properties, nested
// Objs/ObjCollections). Used exclusively to snapshot the interpreter's
// object/collection stacks into a disassembly Command so that later
// mutation of the live stacks cannot corrupt an already-recorded trace.
func (o *Obj) Clone() *Obj {
	if o == nil {
		return nil
	}
	clone := &Obj{
		TypeName:     o.TypeName,
		Name:         o.Name,
		HasName:      o.HasName,
		UID:          o.UID,
		HasUID:       o.HasUID,
		Key:          o.Key,
		HasKey:       o.HasKey,
		ConnectionID: o.ConnectionID,
		HasConnID:    o.HasConnID,
	}
	clone.Properties = make([]Property, len(o.Properties))
	for i, p := range o.Properties {
		clone.Properties[i] = Property{Name: p.Name, Value: cloneValue(p.Value, clone)}
	}
	clone.Children = o.Children.cloneFor(clone)
	return clone
}

func cloneValue(v any, newOwner *Obj) any {
	switch t := v.(type) {
	case *Obj:
		return t.Clone()
	case *ObjCollection:
		return t.cloneFor(newOwner)
	default:
		return v
	}
}

// ObjCollection is an ordered sequence of Obj with a back-reference to its
// owner. The back-reference is a plain pointer, not ownership: collections
// never own their owner (the owner owns the collection), so cloning an Obj
// never walks back up through Owner and cannot loop.
type ObjCollection struct {
	Owner         *Obj
	OwnerProperty string
	Items         []*Obj
}

// Add appends obj to the collection, preserving declaration order.
func (c *ObjCollection) Add(obj *Obj) {
	c.Items = append(c.Items, obj)
}

// cloneFor deep-copies the collection's items, pointing the clone's Owner at
// newOwner (the already-cloned parent) instead of re-cloning the owner,
// which would recurse back down into the very subtree being cloned.
func (c *ObjCollection) cloneFor(newOwner *Obj) *ObjCollection {
	if c == nil {
		return nil
	}
	clone := &ObjCollection{Owner: newOwner, OwnerProperty: c.OwnerProperty}
	clone.Items = make([]*Obj, len(c.Items))
	for i, item := range c.Items {
		clone.Items[i] = item.Clone()
	}
	return clone
}
