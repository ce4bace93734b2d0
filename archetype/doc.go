// Package archetype implements the core storage engine: fixed 16 KiB SoA
// chunks, the append-only-then-pop_back chunk list that makes up one
// archetype, and the archetype graph that maps component-sets to
// archetypes and memoizes add/remove transitions between them.
package archetype
