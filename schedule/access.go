package schedule

import (
	"github.com/TheBitDrifter/ecsforge/component"
	"github.com/TheBitDrifter/mask"
)

// AccessPattern describes what a system touches: either the whole
// registry (WritesAll/ReadsAll, from a `*Registry`/read-only `*Registry`
// parameter) or a specific set of component ids (from a view). A command
// writer has no access at all and is represented by the zero value.
//
// readIDs/writeIDs are kept alongside the read/write masks because
// mask.Mask exposes membership tests (Mark/ContainsAny/...) but no public
// union operator; merging two patterns re-derives their combined mask
// from the concatenated id lists instead of manipulating mask bits
// directly.
type AccessPattern struct {
	WritesAll bool
	ReadsAll  bool

	readIDs  []component.ID
	writeIDs []component.ID
	reads    mask.Mask
	writes   mask.Mask
}

func buildMask(ids []component.ID) mask.Mask {
	var m mask.Mask
	for _, id := range ids {
		m.Mark(uint32(id))
	}
	return m
}

// ReadsComponent returns an access pattern for a view parameter that only
// reads component id.
func ReadsComponent(id component.ID) AccessPattern {
	ids := []component.ID{id}
	return AccessPattern{readIDs: ids, reads: buildMask(ids)}
}

// WritesComponent returns an access pattern for a view parameter that
// writes component id.
func WritesComponent(id component.ID) AccessPattern {
	ids := []component.ID{id}
	return AccessPattern{writeIDs: ids, writes: buildMask(ids)}
}

// WritesAllPattern is the access pattern of a system taking the whole
// registry mutably.
func WritesAllPattern() AccessPattern { return AccessPattern{WritesAll: true} }

// ReadsAllPattern is the access pattern of a system taking the whole
// registry read-only.
func ReadsAllPattern() AccessPattern { return AccessPattern{ReadsAll: true} }

// NoAccessPattern is the access pattern of a command-writer-only system:
// its mutations are deferred, so it never conflicts with anything.
func NoAccessPattern() AccessPattern { return AccessPattern{} }

func (a AccessPattern) hasAnyAccess() bool {
	return a.WritesAll || a.ReadsAll || len(a.readIDs) > 0 || len(a.writeIDs) > 0
}

// Allows reports whether a and b may run in the same wave: neither writes
// all while the other has any access, reads-all never coexists with a
// write, and no write overlaps any read or write from the other side.
func (a AccessPattern) Allows(b AccessPattern) bool {
	if a.WritesAll && b.hasAnyAccess() {
		return false
	}
	if b.WritesAll && a.hasAnyAccess() {
		return false
	}
	if a.ReadsAll && (b.WritesAll || len(b.writeIDs) > 0) {
		return false
	}
	if b.ReadsAll && (a.WritesAll || len(a.writeIDs) > 0) {
		return false
	}
	if a.writes.ContainsAny(b.writes) || a.writes.ContainsAny(b.reads) || b.writes.ContainsAny(a.reads) {
		return false
	}
	return true
}

// Merge folds b's access into a, used to accumulate a wave's combined
// pattern as systems are added to it.
func (a AccessPattern) Merge(b AccessPattern) AccessPattern {
	readIDs := append(append([]component.ID(nil), a.readIDs...), b.readIDs...)
	writeIDs := append(append([]component.ID(nil), a.writeIDs...), b.writeIDs...)
	return AccessPattern{
		WritesAll: a.WritesAll || b.WritesAll,
		ReadsAll:  a.ReadsAll || b.ReadsAll,
		readIDs:   readIDs,
		writeIDs:  writeIDs,
		reads:     buildMask(readIDs),
		writes:    buildMask(writeIDs),
	}
}
