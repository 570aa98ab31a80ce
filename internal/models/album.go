package models

import "github.com/desertthunder/spotkit/internal/pager"

// SimplifiedAlbum is the album object embedded in tracks and artist discographies.
type SimplifiedAlbum struct {
	AlbumGroup           *string            `json:"album_group,omitempty"`
	AlbumType            *string            `json:"album_type"`
	Artists              []SimplifiedArtist `json:"artists"`
	AvailableMarkets     []string           `json:"available_markets"`
	ExternalURLs         map[string]string  `json:"external_urls"`
	Href                 *string            `json:"href"`
	ID                   *string            `json:"id"`
	Images               []Image            `json:"images"`
	Name                 string             `json:"name"`
	ReleaseDate          *string            `json:"release_date"`
	ReleaseDatePrecision *string            `json:"release_date_precision"`
	TotalTracks          uint32             `json:"total_tracks"`
	Type                 Type               `json:"type"`
	URI                  *string            `json:"uri"`
}

// FullAlbum is the album object returned by album lookups. Tracks holds the first page.
type FullAlbum struct {
	AlbumType            AlbumType                   `json:"album_type"`
	Artists              []SimplifiedArtist          `json:"artists"`
	AvailableMarkets     []string                    `json:"available_markets"`
	Copyrights           []Copyright                 `json:"copyrights"`
	ExternalIDs          map[string]string           `json:"external_ids"`
	ExternalURLs         map[string]string           `json:"external_urls"`
	Genres               []string                    `json:"genres"`
	Href                 string                      `json:"href"`
	ID                   string                      `json:"id"`
	Images               []Image                     `json:"images"`
	Label                string                      `json:"label"`
	Name                 string                      `json:"name"`
	Popularity           uint32                      `json:"popularity"`
	ReleaseDate          string                      `json:"release_date"`
	ReleaseDatePrecision string                      `json:"release_date_precision"`
	TotalTracks          uint32                      `json:"total_tracks"`
	Tracks               pager.Page[SimplifiedTrack] `json:"tracks"`
	Type                 Type                        `json:"type"`
	URI                  string                      `json:"uri"`
}

// FullAlbums is a list of albums.
type FullAlbums struct {
	Albums []FullAlbum `json:"albums"`
}

// SavedAlbum is an album in the user's library.
type SavedAlbum struct {
	AddedAt string    `json:"added_at"`
	Album   FullAlbum `json:"album"`
}

// NewReleases wraps the page of newly released albums.
type NewReleases struct {
	Albums pager.Page[SimplifiedAlbum] `json:"albums"`
}
