package formatter

import (
	"strconv"
	"strings"

	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/shared"
)

// Columns flattens an item into a table row.
type Columns[T any] struct {
	Headers []string
	Row     func(T) []string
}

func artists(a []models.SimplifiedArtist) string {
	return strings.Join(models.Names(a), ", ")
}

var (
	TrackColumns = Columns[models.FullTrack]{
		Headers: []string{"Name", "Artists", "Album", "Duration", "ISRC", "URI"},
		Row: func(t models.FullTrack) []string {
			return []string{
				t.Name,
				artists(t.Artists),
				t.Album.Name,
				shared.FormatDuration(t.DurationMS),
				t.ExternalIDs["isrc"],
				t.URI,
			}
		},
	}

	SimplifiedTrackColumns = Columns[models.SimplifiedTrack]{
		Headers: []string{"Track", "Name", "Artists", "Duration", "URI"},
		Row: func(t models.SimplifiedTrack) []string {
			return []string{
				strconv.FormatUint(uint64(t.TrackNumber), 10),
				t.Name,
				artists(t.Artists),
				shared.FormatDuration(t.DurationMS),
				t.URI,
			}
		},
	}

	SavedTrackColumns = Columns[models.SavedTrack]{
		Headers: append([]string{"Added"}, TrackColumns.Headers...),
		Row: func(s models.SavedTrack) []string {
			return append([]string{s.AddedAt}, TrackColumns.Row(s.Track)...)
		},
	}

	PlaylistTrackColumns = Columns[models.PlaylistTrack]{
		Headers: append([]string{"Added"}, TrackColumns.Headers...),
		Row: func(p models.PlaylistTrack) []string {
			added := shared.Deref(p.AddedAt)
			if p.Track == nil {
				return append([]string{added}, make([]string, len(TrackColumns.Headers))...)
			}
			return append([]string{added}, TrackColumns.Row(*p.Track)...)
		},
	}

	AlbumColumns = Columns[models.SimplifiedAlbum]{
		Headers: []string{"Name", "Artists", "Type", "Released", "Tracks"},
		Row: func(a models.SimplifiedAlbum) []string {
			return []string{
				a.Name,
				artists(a.Artists),
				shared.Deref(a.AlbumType),
				shared.Deref(a.ReleaseDate),
				strconv.FormatUint(uint64(a.TotalTracks), 10),
			}
		},
	}

	SavedAlbumColumns = Columns[models.SavedAlbum]{
		Headers: []string{"Added", "Name", "Artists", "Label", "Released", "Tracks"},
		Row: func(s models.SavedAlbum) []string {
			return []string{
				s.AddedAt,
				s.Album.Name,
				artists(s.Album.Artists),
				s.Album.Label,
				s.Album.ReleaseDate,
				strconv.FormatUint(uint64(s.Album.TotalTracks), 10),
			}
		},
	}

	ArtistColumns = Columns[models.FullArtist]{
		Headers: []string{"Name", "Genres", "Followers", "Popularity", "URI"},
		Row: func(a models.FullArtist) []string {
			return []string{
				a.Name,
				strings.Join(a.Genres, ", "),
				strconv.FormatUint(uint64(a.Followers.Total), 10),
				strconv.FormatUint(uint64(a.Popularity), 10),
				a.URI,
			}
		},
	}

	PlaylistColumns = Columns[models.SimplifiedPlaylist]{
		Headers: []string{"Name", "Owner", "Tracks", "Visibility", "ID"},
		Row: func(p models.SimplifiedPlaylist) []string {
			owner := p.Owner.ID
			if p.Owner.DisplayName != nil {
				owner = *p.Owner.DisplayName
			}
			return []string{
				p.Name,
				owner,
				strconv.FormatUint(uint64(p.Tracks.Total), 10),
				shared.VisibilityString(p.Public),
				p.ID,
			}
		},
	}

	ShowColumns = Columns[models.SimplifiedShow]{
		Headers: []string{"Name", "Publisher", "Media", "ID"},
		Row: func(s models.SimplifiedShow) []string {
			return []string{s.Name, s.Publisher, s.MediaType, s.ID}
		},
	}

	SavedShowColumns = Columns[models.SavedShow]{
		Headers: append([]string{"Added"}, ShowColumns.Headers...),
		Row: func(s models.SavedShow) []string {
			return append([]string{s.AddedAt}, ShowColumns.Row(s.Show)...)
		},
	}

	EpisodeColumns = Columns[models.SimplifiedEpisode]{
		Headers: []string{"Released", "Name", "Duration", "ID"},
		Row: func(e models.SimplifiedEpisode) []string {
			return []string{e.ReleaseDate, e.Name, shared.FormatDuration(e.DurationMS), e.ID}
		},
	}

	CategoryColumns = Columns[models.Category]{
		Headers: []string{"Name", "ID"},
		Row: func(c models.Category) []string {
			return []string{c.Name, c.ID}
		},
	}
)
