package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheBitDrifter/ecsforge/component"
)

func TestPartitionGroupsNonConflictingSystemsIntoOneWave(t *testing.T) {
	posID := component.ID(1)
	velID := component.ID(2)
	accID := component.ID(3)

	a := System{Name: "A", Pattern: ReadsComponent(posID).Merge(WritesComponent(velID))}
	b := System{Name: "B", Pattern: ReadsComponent(posID).Merge(WritesComponent(accID))}
	c := System{Name: "C", Pattern: WritesComponent(posID)}

	s := &Stage{systems: []System{a, b, c}}
	s.partition()

	require.Len(t, s.waves, 2)
	require.ElementsMatch(t, []string{"A", "B"}, names(s.waves[0]))
	require.ElementsMatch(t, []string{"C"}, names(s.waves[1]))
}

func TestPartitionPlacesConflictingWriteAloneInItsOwnWave(t *testing.T) {
	posID := component.ID(1)
	a := System{Name: "A", Pattern: WritesComponent(posID)}
	b := System{Name: "B", Pattern: WritesComponent(posID)}

	s := &Stage{systems: []System{a, b}}
	s.partition()

	require.Len(t, s.waves, 2)
	require.Len(t, s.waves[0], 1)
	require.Len(t, s.waves[1], 1)
}

func TestPartitionSingleStageNoConflicts(t *testing.T) {
	posID := component.ID(1)
	s := &Stage{systems: []System{
		{Name: "A", Pattern: ReadsComponent(posID)},
		{Name: "B", Pattern: ReadsComponent(posID)},
		{Name: "C", Pattern: ReadsComponent(posID)},
	}}
	s.partition()
	require.Len(t, s.waves, 1)
	require.Len(t, s.waves[0], 3)
}

func names(systems []System) []string {
	out := make([]string, len(systems))
	for i, s := range systems {
		out[i] = s.Name
	}
	return out
}
