package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotkit/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsLoaded MsgKind = iota
	MsgTracksLoaded
	MsgProgressUpdate
	MsgExportComplete
)

type batch struct {
	items []list.Item
	done  bool
	err   error
}

type exportOutcome struct {
	result *tasks.BulkExportResult
	err    error
}

// playlistsLoadedMsg is the constructor for [MsgPlaylistsLoaded]
func playlistsLoadedMsg(items []list.Item, done bool, err error) Msg {
	return Msg{kind: MsgPlaylistsLoaded, data: batch{items, done, err}}
}

// tracksLoadedMsg is the constructor for [MsgTracksLoaded]
func tracksLoadedMsg(items []list.Item, done bool, err error) Msg {
	return Msg{kind: MsgTracksLoaded, data: batch{items, done, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(result *tasks.BulkExportResult, err error) Msg {
	return Msg{kind: MsgExportComplete, data: exportOutcome{result, err}}
}
