package cmdbuf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheBitDrifter/ecsforge/component"
	"github.com/TheBitDrifter/ecsforge/ecs/cmdbuf"
)

// fakeRegistry is a minimal cmdbuf.Registry used to test Buffer/Flush
// mechanics in isolation from the real archetype-backed registry.
type fakeRegistry struct {
	synced     int
	destroyed  []component.Entity
	moved      []component.Entity // dest side of every MoveEntityFrom
	cloned     []component.Entity // dest side of every CloneEntityInto
	failMove   bool
	failClone  bool
}

func (f *fakeRegistry) Sync() { f.synced++ }

func (f *fakeRegistry) Destroy(e component.Entity) error {
	f.destroyed = append(f.destroyed, e)
	return nil
}

func (f *fakeRegistry) MoveEntityFrom(staging cmdbuf.Registry, staged, dest component.Entity) error {
	if f.failMove {
		return component.NotCopyableError{}
	}
	f.moved = append(f.moved, dest)
	return nil
}

func (f *fakeRegistry) CloneEntityInto(source, dest component.Entity) error {
	if f.failClone {
		return component.NotCopyableError{}
	}
	f.cloned = append(f.cloned, dest)
	return nil
}

func TestFlushReplaysCreateCloneAndDestroyInOrder(t *testing.T) {
	staging := &fakeRegistry{}
	dest := &fakeRegistry{}
	buf := cmdbuf.NewBuffer(staging)

	buf.Create(component.Entity{ID: 1}, component.Entity{ID: 100})
	buf.Clone(component.Entity{ID: 2}, component.Entity{ID: 101})
	buf.Destroy(component.Entity{ID: 3})

	require.NoError(t, cmdbuf.Flush(dest))
	require.Equal(t, 1, dest.synced)
	require.Equal(t, []component.Entity{{ID: 100}}, dest.moved)
	require.Equal(t, []component.Entity{{ID: 101}}, dest.cloned)
	require.Equal(t, []component.Entity{{ID: 3}}, dest.destroyed)
}

func TestFlushRunsSetAndRemoveClosures(t *testing.T) {
	staging := &fakeRegistry{}
	dest := &fakeRegistry{}
	buf := cmdbuf.NewBuffer(staging)

	var ran []string
	buf.Set(func() error { ran = append(ran, "set"); return nil })
	buf.Remove(func() error { ran = append(ran, "remove"); return nil })

	require.NoError(t, cmdbuf.Flush(dest))
	require.Equal(t, []string{"set", "remove"}, ran)
}

func TestFlushSurfacesErrorFromCommand(t *testing.T) {
	staging := &fakeRegistry{}
	dest := &fakeRegistry{failMove: true}
	buf := cmdbuf.NewBuffer(staging)

	buf.Create(component.Entity{ID: 1}, component.Entity{ID: 2})
	require.Error(t, cmdbuf.Flush(dest))
}

func TestFlushSurfacesErrorFromSetClosure(t *testing.T) {
	staging := &fakeRegistry{}
	dest := &fakeRegistry{}
	buf := cmdbuf.NewBuffer(staging)

	buf.Set(func() error { return component.NotCopyableError{} })
	buf.Remove(func() error { return nil })

	err := cmdbuf.Flush(dest)
	require.Error(t, err)
	require.IsType(t, component.NotCopyableError{}, err)
}

func TestFlushSurfacesErrorFromRemoveClosureAndStopsDraining(t *testing.T) {
	staging := &fakeRegistry{}
	dest := &fakeRegistry{}
	buf := cmdbuf.NewBuffer(staging)

	buf.Remove(func() error { return component.NotCopyableError{} })
	buf.Destroy(component.Entity{ID: 9})

	require.Error(t, cmdbuf.Flush(dest))
	require.Empty(t, dest.destroyed, "drain must stop at the first error, per Flush's documented first-error contract")
}
