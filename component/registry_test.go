package component_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/TheBitDrifter/ecsforge/component"
)

type pos struct{ X, Y float64 }
type vel struct{ X, Y float64 }

func TestRegisterIsIdempotent(t *testing.T) {
	a := component.Register[pos]()
	b := component.Register[pos]()
	require.Same(t, a, b)
	require.Equal(t, "pos", a.Type.Name())
}

func TestRegisterAssignsDistinctIDs(t *testing.T) {
	p := component.Register[pos]()
	v := component.Register[vel]()
	require.NotEqual(t, p.ID, v.ID)
}

func TestRegisterPanicsOnEntityType(t *testing.T) {
	require.Panics(t, func() {
		component.Register[component.Entity]()
	})
}

func TestLookupByID(t *testing.T) {
	meta := component.Register[pos]()
	found, ok := component.Lookup(meta.ID)
	require.True(t, ok)
	require.Same(t, meta, found)
}

func TestMarkCopyableEnablesCopy(t *testing.T) {
	type tag struct{ N int }
	meta := component.MarkCopyable[tag]()
	require.True(t, meta.Copyable())

	src := tag{N: 7}
	var dst tag
	meta.Copy(unsafe.Pointer(&dst), unsafe.Pointer(&src))
	require.Equal(t, 7, dst.N)
}

func TestPlainRegisterIsNotCopyable(t *testing.T) {
	type notCopyable struct{ N int }
	meta := component.Register[notCopyable]()
	require.False(t, meta.Copyable())
}
