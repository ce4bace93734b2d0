// Package schedule builds a sequence of stages, each made of main-thread
// and parallelizable systems, and runs them wave by wave: within a stage,
// systems are greedily grouped into waves by their declared access
// pattern so that no two systems in the same wave conflict, and the
// waves themselves form a total order that respects every conflict.
package schedule
