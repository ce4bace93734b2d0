package ecs_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	ecs "github.com/TheBitDrifter/ecsforge"
	"github.com/TheBitDrifter/ecsforge/component"
	"github.com/TheBitDrifter/ecsforge/ecs/cmdbuf"
)

func TestCommandBufferedCreationAcrossWorkers(t *testing.T) {
	r := ecs.New()
	w1 := ecs.NewWriter(r)
	w2 := ecs.NewWriter(r)

	var wg sync.WaitGroup
	wg.Add(2)
	for _, w := range []*ecs.Writer{w1, w2} {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				ecs.WriterCreate1(w, pos{X: float64(i), Y: float64(i)})
			}
		}()
	}
	wg.Wait()

	require.NoError(t, cmdbuf.Flush(r))

	count := 0
	ecs.NewView1[pos](r, false).Each(func(component.Entity, *pos) { count++ })
	require.Equal(t, 2000, count)
}

type copyablePos struct{ X, Y float64 }
type copyableVel struct{ X, Y float64 }

func TestCloneUnderParallelism(t *testing.T) {
	component.MarkCopyable[copyablePos]()
	component.MarkCopyable[copyableVel]()

	r := ecs.New()
	originals := make([]component.Entity, 10)
	for i := 0; i < 10; i++ {
		originals[i] = ecs.Create2(r, copyablePos{X: float64(i), Y: float64(i)}, copyableVel{X: float64(2 * i), Y: float64(2 * i)})
	}

	w := ecs.NewWriter(r)
	var wg sync.WaitGroup
	for _, e := range originals {
		e := e
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Clone(e)
		}()
	}
	wg.Wait()

	require.NoError(t, cmdbuf.Flush(r))

	count := 0
	ecs.NewView1[copyablePos](r, false).Each(func(component.Entity, *copyablePos) { count++ })
	require.Equal(t, 20, count)

	for _, e := range originals {
		p, err := ecs.Get1[copyablePos](r, e)
		require.NoError(t, err)
		v, err := ecs.Get1[copyableVel](r, e)
		require.NoError(t, err)
		require.Equal(t, p.X, v.X/2)
	}
}

func TestWriterSetAndRemoveAreDeferred(t *testing.T) {
	r := ecs.New()
	e := ecs.Create1(r, pos{X: 1})

	w := ecs.NewWriter(r)
	ecs.WriterSet1(w, e, vel{X: 9, Y: 9})
	require.False(t, ecs.Has1[vel](r, e), "set must not apply before flush")

	require.NoError(t, cmdbuf.Flush(r))
	require.True(t, ecs.Has1[vel](r, e))

	w2 := ecs.NewWriter(r)
	ecs.WriterRemove1[vel](w2, e)
	require.NoError(t, cmdbuf.Flush(r))
	require.False(t, ecs.Has1[vel](r, e))
}
