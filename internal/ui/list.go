package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.SimplifiedPlaylist] to implement [list.Item].
type playlistItem struct {
	playlist models.SimplifiedPlaylist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks • %s", i.playlist.Tracks.Total, shared.VisibilityString(i.playlist.Public))
	if d := shared.Deref(i.playlist.Description); d != "" {
		desc = fmt.Sprintf("%s • %s", desc, d)
	}
	return desc
}

// trackItem wraps [models.PlaylistTrack] to implement [list.Item]. Removed or
// unavailable tracks have no track object.
type trackItem struct {
	entry models.PlaylistTrack
}

func (i trackItem) FilterValue() string { return i.Title() }
func (i trackItem) Title() string {
	if i.entry.Track == nil {
		return "(unavailable)"
	}
	return i.entry.Track.Name
}
func (i trackItem) Description() string {
	t := i.entry.Track
	if t == nil {
		return ""
	}
	return shared.JoinNonEmpty(" • ",
		strings.Join(models.Names(t.Artists), ", "),
		t.Album.Name,
		shared.FormatDuration(t.DurationMS),
	)
}

func playlistItems(ps []models.SimplifiedPlaylist) []list.Item {
	items := make([]list.Item, len(ps))
	for i, p := range ps {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

func trackItems(ts []models.PlaylistTrack) []list.Item {
	items := make([]list.Item, len(ts))
	for i, t := range ts {
		items[i] = trackItem{entry: t}
	}
	return items
}
