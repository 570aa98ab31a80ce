package models

// SimplifiedTrack is the track object embedded in albums.
type SimplifiedTrack struct {
	Artists          []SimplifiedArtist `json:"artists"`
	AvailableMarkets []string           `json:"available_markets"`
	DiscNumber       int                `json:"disc_number"`
	DurationMS       uint32             `json:"duration_ms"`
	Explicit         bool               `json:"explicit"`
	ExternalURLs     map[string]string  `json:"external_urls"`
	Href             *string            `json:"href"`
	ID               *string            `json:"id"`
	IsLocal          bool               `json:"is_local"`
	Name             string             `json:"name"`
	PreviewURL       *string            `json:"preview_url"`
	TrackNumber      uint32             `json:"track_number"`
	Type             Type               `json:"type"`
	URI              string             `json:"uri"`
}

// FullTrack is the track object returned by track lookups and libraries.
type FullTrack struct {
	Album            SimplifiedAlbum    `json:"album"`
	Artists          []SimplifiedArtist `json:"artists"`
	AvailableMarkets []string           `json:"available_markets"`
	DiscNumber       int                `json:"disc_number"`
	DurationMS       uint32             `json:"duration_ms"`
	Explicit         bool               `json:"explicit"`
	ExternalIDs      map[string]string  `json:"external_ids"`
	ExternalURLs     map[string]string  `json:"external_urls"`
	Href             *string            `json:"href"`
	ID               *string            `json:"id"`
	IsLocal          bool               `json:"is_local"`
	IsPlayable       *bool              `json:"is_playable,omitempty"`
	Name             string             `json:"name"`
	Popularity       uint32             `json:"popularity"`
	PreviewURL       *string            `json:"preview_url"`
	Restrictions     *Restrictions      `json:"restrictions,omitempty"`
	TrackNumber      uint32             `json:"track_number"`
	Type             Type               `json:"type"`
	URI              string             `json:"uri"`
}

// FullTracks is a list of tracks.
type FullTracks struct {
	Tracks []FullTrack `json:"tracks"`
}

// SavedTrack is a track in the user's library.
type SavedTrack struct {
	AddedAt string    `json:"added_at"`
	Track   FullTrack `json:"track"`
}

// Simplify drops the album and catalog fields of a full track.
func (t FullTrack) Simplify() SimplifiedTrack {
	return SimplifiedTrack{
		Artists:          t.Artists,
		AvailableMarkets: t.AvailableMarkets,
		DiscNumber:       t.DiscNumber,
		DurationMS:       t.DurationMS,
		Explicit:         t.Explicit,
		ExternalURLs:     t.ExternalURLs,
		Href:             t.Href,
		ID:               t.ID,
		IsLocal:          t.IsLocal,
		Name:             t.Name,
		PreviewURL:       t.PreviewURL,
		TrackNumber:      t.TrackNumber,
		Type:             t.Type,
		URI:              t.URI,
	}
}
