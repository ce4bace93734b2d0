// Package cmdbuf lets systems running in parallel request structural
// mutations (create, clone, set, remove, destroy) without touching the
// live registry. Each Buffer is created explicitly with NewBuffer (the ecs
// package's NewWriter makes one per Writer) and is backed by a staging
// Registry used only to construct component values that
// will later be transferred; Flush runs on the main thread between
// schedule waves and replays every registered buffer's queue in
// registration order.
package cmdbuf
