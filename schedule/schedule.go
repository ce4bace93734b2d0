package schedule

import (
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/TheBitDrifter/ecsforge/workpool"
)

// Schedule is an ordered list of stages plus the systems that run once at
// executor construction.
type Schedule struct {
	initSystems []func()
	stages      []*Stage
}

// Builder assembles a Schedule. Call BeginStage/AddSystem/EndStage for
// each stage in the order they should run, then CreateExecutor.
type Builder struct {
	schedule Schedule
	current  *Stage
}

// NewBuilder returns an empty schedule builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddInitSystem registers a function to run once, on the main goroutine,
// when the executor is created.
func (b *Builder) AddInitSystem(fn func()) *Builder {
	b.schedule.initSystems = append(b.schedule.initSystems, fn)
	return b
}

// BeginStage opens a new named stage. Must be paired with EndStage before
// starting another stage or creating the executor.
func (b *Builder) BeginStage(name string) *Builder {
	b.current = &Stage{Name: name}
	return b
}

// AddSystem adds a system to the currently open stage.
func (b *Builder) AddSystem(sys System) *Builder {
	if b.current == nil {
		b.current = &Stage{}
	}
	b.current.systems = append(b.current.systems, sys)
	return b
}

// EndStage closes the current stage, partitions it into waves, and
// appends it to the schedule.
func (b *Builder) EndStage() *Builder {
	if b.current == nil {
		return b
	}
	b.current.partition()
	b.schedule.stages = append(b.schedule.stages, b.current)
	b.current = nil
	return b
}

// CreateExecutor runs every init system, then returns an Executor that
// drives the schedule's stages over pool, flushing deferred structural
// mutations with flush after every wave.
func (b *Builder) CreateExecutor(pool *workpool.Pool, flush func() error) *Executor {
	for _, fn := range b.schedule.initSystems {
		fn()
	}
	return &Executor{schedule: &b.schedule, pool: pool, flush: flush}
}

// Executor drives a built Schedule's stages, one RunOnce call per frame.
type Executor struct {
	schedule *Schedule
	pool     *workpool.Pool
	flush    func() error
}

// RunOnce runs every stage's waves in order. Within a wave, every
// parallel system is submitted as a child of one shared parent task, main
// -thread systems run inline while the workers drain, and the executor
// waits on the parent before flushing command buffers and moving to the
// next wave. Returns the first panic recovered from either side of a
// wave, wrapped as an error; later waves do not run once one has failed.
func (e *Executor) RunOnce() error {
	for _, stage := range e.schedule.stages {
		for _, wave := range stage.Waves() {
			if err := e.runWave(wave); err != nil {
				return err
			}
			if err := e.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// runRecovered runs fn, converting a panic into an error instead of
// letting it unwind past this call.
func runRecovered(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("schedule: system panicked: %v", r)
			if Config.Logger != nil {
				Config.Logger.Printf("%v", err)
			} else {
				log.Print(err)
			}
		}
	}()
	fn()
	return nil
}

func (e *Executor) runWave(wave []System) error {
	var mainThread []System
	var parallel []System
	for _, sys := range wave {
		if sys.MainThread {
			mainThread = append(mainThread, sys)
		} else {
			parallel = append(parallel, sys)
		}
	}

	if len(parallel) == 0 {
		var firstErr error
		for _, sys := range mainThread {
			if err := runRecovered(sys.Fn); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	parent := e.pool.Submit(func() {}, nil)
	tasks := make([]*workpool.Task, len(parallel))
	for i, sys := range parallel {
		tasks[i] = e.pool.SubmitOn(i+1, sys.Fn, parent)
	}

	// errgroup supervises the wait-for-workers side of the wave alongside
	// the main-thread systems running inline on this goroutine, so a
	// panic in either surfaces as a single error without losing the other
	// side's completion. Task.execute already recovers panics raised on
	// background workers, so this errgroup branch only needs to guard
	// against a panic escaping Wait's own inline execution of stolen work.
	var g errgroup.Group
	g.Go(func() error {
		if err := runRecovered(func() { e.pool.Wait(parent) }); err != nil {
			return err
		}
		for i, t := range tasks {
			if r, ok := t.Recovered(); ok {
				return fmt.Errorf("schedule: system %q panicked: %v", parallel[i].Name, r)
			}
		}
		return nil
	})

	var mainErr error
	for _, sys := range mainThread {
		if err := runRecovered(sys.Fn); err != nil && mainErr == nil {
			mainErr = err
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return mainErr
}
