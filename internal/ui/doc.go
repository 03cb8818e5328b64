// Package ui holds the small amount of terminal interaction tracksheet needs.
//
// [PromptModel] is a single-field bubbletea program (Init/Update/View) that asks for a Spotify playlist
// URL when none is given on the command line. [Prompt] runs it against arbitrary reader/writer pairs so
// commands can be driven from tests. Enter submits; esc and ctrl+c abort with [ErrAborted].
//
// [Palette] is a lipgloss stylesheet bound to an output writer, so colors are dropped automatically when
// output is not a terminal.
package ui
