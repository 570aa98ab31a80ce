// Package ui implements an interactive terminal browser using bubbletea's Elm architecture.
//
// The TUI walks the current user's library through lazy pagers:
//  1. [PlaylistsView] : Browse the user's playlists
//  2. [TracksView] : Browse one playlist's tracks
//  3. [ExportView] : Monitor real-time progress of an export
//  4. [ResultView] : Display the export summary
//
// Lists are filled one batch at a time. Moving past the last loaded row (or pressing m) pulls the next
// batch from the pager, so a page is only requested when the user scrolls to it.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the tasks.Exporter, providing non-blocking status reporting during exports.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, m, e, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
