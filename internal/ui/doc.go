// Package ui contains the Bubble Tea program that renders the cascading
// picker inside a tmux popup. Model focuses on message orchestration while
// dedicated helpers own selection, input, rendering, and backend updates.
//
// Message flow:
//   - Bubble Tea invokes Model.Update, which routes each tea.Msg through a
//     typed handler registry.
//   - Mouse input (input.go) is hit-tested against the column layout built
//     in view.go. A click selects the option under the pointer; pointer
//     motion feeds the hover debouncer when the expand trigger is hover.
//   - Selection (navigation.go) goes through cascade.Machine. Its OnChange
//     and LoadData callbacks queue tea.Cmd values that Update returns once
//     Select has finished, so the machine never re-enters itself.
//
// State ownership:
//   - cascade.Machine owns the committed and active paths and the tree
//     snapshot. The model never edits the tree; new snapshots come from
//     the dispatcher.
//   - internal/ui/state.Column tracks per-column scroll position and keeps
//     the active option in view.
//   - Commit sinks, such as storing the path in a tmux buffer, run through
//     the internal/ui/command bus.
//
// Backend interactions:
//   - Lazy loads run through backend.Loads inside a tea.Cmd. The result is
//     applied by the dispatcher, which drops loads whose option has left
//     the tree.
//   - An optional backend.Watcher streams reloaded tree files; Update waits
//     for those events and swaps the snapshot in place.
package ui
