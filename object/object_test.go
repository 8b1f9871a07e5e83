package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewObjCreatesImplicitChildrenCollection(t *testing.T) {
	o := NewObj("Grid")
	require.NotNil(t, o.Children)
	require.Same(t, o, o.Children.Owner)
	require.Equal(t, "Children", o.Children.OwnerProperty)
}

func TestPropertyReturnsLastDuplicate(t *testing.T) {
	o := NewObj("TextBlock")
	o.SetProperty("Text", "first")
	o.SetProperty("Text", "second")

	v, ok := o.Property("Text")
	require.True(t, ok)
	require.Equal(t, "second", v)
}

func TestPropertyMissingReturnsFalse(t *testing.T) {
	o := NewObj("TextBlock")
	_, ok := o.Property("Missing")
	require.False(t, ok)
}

func TestCloneIsDeepAndIndependent(t *testing.T) {
	root := NewObj("Grid")
	root.SetName("root")
	child := NewObj("Button")
	root.Children.Add(child)
	root.SetProperty("Tag", child)

	clone := root.Clone()
	require.Equal(t, "Grid", clone.TypeName)
	require.Equal(t, "root", clone.Name)
	require.Len(t, clone.Children.Items, 1)
	require.NotSame(t, child, clone.Children.Items[0])
	require.Equal(t, "Button", clone.Children.Items[0].TypeName)

	// mutating the clone must not affect the original
	clone.Children.Items[0].SetName("mutated")
	require.False(t, child.HasName)

	nested, ok := clone.Property("Tag")
	require.True(t, ok)
	require.IsType(t, &Obj{}, nested)
	require.NotSame(t, child, nested)
}

func TestObjCollectionAddPreservesOrder(t *testing.T) {
	c := &ObjCollection{OwnerProperty: "Items"}
	a := NewObj("A")
	b := NewObj("B")
	c.Add(a)
	c.Add(b)
	require.Equal(t, []*Obj{a, b}, c.Items)
}
