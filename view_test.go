package ecs_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	ecs "github.com/TheBitDrifter/ecsforge"
	"github.com/TheBitDrifter/ecsforge/component"
	"github.com/TheBitDrifter/ecsforge/workpool"
)

func TestView2EachYieldsBothComponents(t *testing.T) {
	r := ecs.New()
	ecs.Create2(r, pos{X: 1, Y: 1}, vel{X: 2, Y: 2})
	ecs.Create2(r, pos{X: 3, Y: 3}, vel{X: 4, Y: 4})
	ecs.Create1(r, pos{X: 9, Y: 9}) // no vel: must not match

	var sumX float64
	n := 0
	ecs.NewView2[pos, vel](r, false, false).Each(func(_ component.Entity, p *pos, v *vel) {
		n++
		sumX += p.X + v.X
	})

	require.Equal(t, 2, n)
	require.Equal(t, 1.0+2+3+4, sumX)
}

func TestView1AllRangeMode(t *testing.T) {
	r := ecs.New()
	ecs.Create1(r, pos{X: 1})
	ecs.Create1(r, pos{X: 2})

	total := 0.0
	for _, p := range ecs.NewView1[pos](r, false).All() {
		total += p.X
	}
	require.Equal(t, 3.0, total)
}

func TestView1ParEachVisitsEveryRow(t *testing.T) {
	pool := workpool.New(4)
	defer pool.Stop()

	r := ecs.New()
	const n = 50
	for i := 0; i < n; i++ {
		ecs.Create1(r, pos{X: float64(i)})
	}

	var visited atomic.Int32
	ecs.NewView1[pos](r, true).ParEach(pool, func(_ component.Entity, p *pos) {
		p.X *= 2
		visited.Add(1)
	})

	require.Equal(t, int32(n), visited.Load())

	sum := 0.0
	ecs.NewView1[pos](r, false).Each(func(_ component.Entity, p *pos) { sum += p.X })

	expected := 0.0
	for i := 0; i < n; i++ {
		expected += float64(i) * 2
	}
	require.Equal(t, expected, sum)
}
