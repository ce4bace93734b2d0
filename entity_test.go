package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	ecs "github.com/TheBitDrifter/ecsforge"
	"github.com/TheBitDrifter/ecsforge/component"
)

type refPos struct{ X, Y float64 }

func TestEntityRefFluentAccess(t *testing.T) {
	component.MarkCopyable[refPos]()
	r := ecs.New()
	e := ecs.Create1(r, refPos{X: 1, Y: 2})
	ref := ecs.Ref(r, e)

	require.True(t, ref.Alive())
	require.True(t, ecs.HasRef1[refPos](ref))

	p, err := ecs.GetRef1[refPos](ref)
	require.NoError(t, err)
	require.Equal(t, refPos{X: 1, Y: 2}, p)

	require.NoError(t, ecs.SetRef1(ref, refPos{X: 5, Y: 6}))
	p, err = ecs.GetRef1[refPos](ref)
	require.NoError(t, err)
	require.Equal(t, refPos{X: 5, Y: 6}, p)
}

func TestEntityRefCloneWithinSameRegistry(t *testing.T) {
	component.MarkCopyable[refPos]()
	r := ecs.New()
	e := ecs.Create1(r, refPos{X: 3, Y: 4})
	ref := ecs.Ref(r, e)

	clone, err := ref.Clone()
	require.NoError(t, err)
	require.NotEqual(t, ref.Entity, clone.Entity)

	p, err := ecs.GetRef1[refPos](clone)
	require.NoError(t, err)
	require.Equal(t, refPos{X: 3, Y: 4}, p)
}

func TestEntityRefMoveIntoAnotherRegistry(t *testing.T) {
	component.MarkCopyable[refPos]()
	src := ecs.New()
	dest := ecs.New()
	e := ecs.Create1(src, refPos{X: 7, Y: 8})
	ref := ecs.Ref(src, e)

	moved, err := ref.MoveInto(dest)
	require.NoError(t, err)
	require.False(t, src.Alive(e))

	p, err := ecs.GetRef1[refPos](moved)
	require.NoError(t, err)
	require.Equal(t, refPos{X: 7, Y: 8}, p)
}

func TestEntityRefDestroy(t *testing.T) {
	r := ecs.New()
	e := ecs.Create0(r)
	ref := ecs.Ref(r, e)
	require.NoError(t, ref.Destroy())
	require.False(t, ref.Alive())
}
