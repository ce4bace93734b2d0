package schedule

// System is one unit of scheduled work: a name for diagnostics, whether it
// must run on the main goroutine, its declared access pattern, and the
// function itself.
type System struct {
	Name       string
	MainThread bool
	Pattern    AccessPattern
	Fn         func()
}

// Stage is a named group of systems that run together, partitioned into
// waves at schedule-build time. The partitioner treats main-thread
// systems like any other: each joins the first wave its access pattern
// is allowed into, and at run time it executes inline on the calling
// goroutine while that wave's parallel systems run on the pool.
type Stage struct {
	Name    string
	systems []System
	waves   [][]System
}

// partition runs the greedy wave-partitioning algorithm: walk the pending
// list in insertion order, and on each pass add every system whose
// pattern is allowed by the wave's accumulated pattern so far, until every
// system has been placed.
func (s *Stage) partition() {
	pending := append([]System(nil), s.systems...)
	var waves [][]System

	for len(pending) > 0 {
		var wave []System
		var remaining []System
		acc := NoAccessPattern()

		for _, sys := range pending {
			if acc.Allows(sys.Pattern) {
				wave = append(wave, sys)
				acc = acc.Merge(sys.Pattern)
			} else {
				remaining = append(remaining, sys)
			}
		}

		waves = append(waves, wave)
		pending = remaining
	}

	s.waves = waves
}

// Waves returns the stage's precomputed wave partitioning.
func (s *Stage) Waves() [][]System { return s.waves }
