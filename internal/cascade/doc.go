// Package cascade implements the selection logic of a cascading selector:
// a tree of options shown as one column per depth, where picking an option
// opens the next column and picking a leaf commits the whole path.
//
// The package has three parts:
//   - The navigator (MatchOptions, VisibleColumns, ActiveIndex) is a set of
//     pure functions over a Tree snapshot and a Path.
//   - Machine owns the committed value and the active (highlighted) path
//     and applies Select, SetValue, and SetVisible transitions. It emits
//     Commit and LoadRequest values through the callbacks in Config.
//   - Debouncer gates hover-driven expansion behind a single cancellable
//     pending action.
//
// Nothing here renders, blocks, or spawns goroutines. Lazy loading is the
// caller's job: on a LoadRequest it fetches children, builds a new snapshot
// with WithChildren, and hands it back through Machine.SetTree.
package cascade
