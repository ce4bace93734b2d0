package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	ecs "github.com/TheBitDrifter/ecsforge"
	"github.com/TheBitDrifter/ecsforge/component"
)

type pos struct{ X, Y float64 }
type vel struct{ X, Y float64 }

func TestCreateAndRetrieve(t *testing.T) {
	r := ecs.New()
	e := ecs.Create2(r, pos{X: 1, Y: 2}, vel{X: 3, Y: 4})

	p, err := ecs.Get1[pos](r, e)
	require.NoError(t, err)
	require.Equal(t, pos{X: 1, Y: 2}, p)

	v, err := ecs.Get1[vel](r, e)
	require.NoError(t, err)
	require.Equal(t, vel{X: 3, Y: 4}, v)

	require.NoError(t, r.Destroy(e))
	_, err = ecs.Get1[pos](r, e)
	require.IsType(t, ecs.EntityNotFoundError{}, err)
}

func TestArchetypeMigrationOnSet(t *testing.T) {
	r := ecs.New()
	e := ecs.Create1(r, pos{X: 1, Y: 2})

	require.False(t, ecs.Has1[vel](r, e))
	require.NoError(t, ecs.Set1[vel](r, e, vel{X: 3, Y: 4}))
	require.True(t, ecs.Has1[vel](r, e))

	p, err := ecs.Get1[pos](r, e)
	require.NoError(t, err)
	require.Equal(t, pos{X: 1, Y: 2}, p)

	v, err := ecs.Get1[vel](r, e)
	require.NoError(t, err)
	require.Equal(t, vel{X: 3, Y: 4}, v)
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := ecs.New()
	e := ecs.Create2(r, pos{X: 1}, vel{X: 2})

	require.NoError(t, ecs.Remove1[vel](r, e))
	require.False(t, ecs.Has1[vel](r, e))
	require.NoError(t, ecs.Remove1[vel](r, e)) // second remove is a no-op

	p, err := ecs.Get1[pos](r, e)
	require.NoError(t, err)
	require.Equal(t, pos{X: 1}, p)
}

func TestSwapEraseRelocatesLastRow(t *testing.T) {
	r := ecs.New()
	const n = 100
	entities := make([]component.Entity, n)
	for i := 0; i < n; i++ {
		entities[i] = ecs.Create1(r, pos{X: float64(i)})
	}

	last := entities[n-1]
	require.NoError(t, r.Destroy(entities[40]))

	// the last entity's row was relocated into slot 40; its own component
	// value must have survived the move untouched.
	p, err := ecs.Get1[pos](r, last)
	require.NoError(t, err)
	require.Equal(t, float64(n-1), p.X)

	count := 0
	view := ecs.NewView1[pos](r, false)
	view.Each(func(component.Entity, *pos) { count++ })
	require.Equal(t, n-1, count)
}

func TestEntityNotFoundAfterDestroy(t *testing.T) {
	r := ecs.New()
	e := ecs.Create0(r)
	require.NoError(t, r.Destroy(e))
	require.Error(t, r.Destroy(e))
	require.False(t, r.Alive(e))
}
