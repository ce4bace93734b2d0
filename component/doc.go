// Package component assigns a dense numeric id to each distinct component
// type on first use and holds the per-type metadata (size, alignment, move
// and destroy function pointers) that the archetype/chunk storage engine
// needs to treat components as opaque blobs.
//
// Types are statically known to the caller; ids are assigned lazily the
// first time a type is mentioned, and never reassigned afterwards.
package component
