package models

import "github.com/desertthunder/spotkit/internal/pager"

// SimplifiedShow is the podcast object used in lists.
type SimplifiedShow struct {
	AvailableMarkets   []string          `json:"available_markets"`
	Copyrights         []Copyright       `json:"copyrights"`
	Description        string            `json:"description"`
	Explicit           bool              `json:"explicit"`
	ExternalURLs       map[string]string `json:"external_urls"`
	Href               string            `json:"href"`
	ID                 string            `json:"id"`
	Images             []Image           `json:"images"`
	IsExternallyHosted *bool             `json:"is_externally_hosted"`
	Languages          []string          `json:"languages"`
	MediaType          string            `json:"media_type"`
	Name               string            `json:"name"`
	Publisher          string            `json:"publisher"`
	Type               Type              `json:"type"`
	URI                string            `json:"uri"`
}

// SimplifiedShows is a list of shows.
type SimplifiedShows struct {
	Shows []SimplifiedShow `json:"shows"`
}

// FullShow is a podcast with its first page of episodes.
type FullShow struct {
	SimplifiedShow
	Episodes pager.Page[SimplifiedEpisode] `json:"episodes"`
}

// SavedShow is a show in the user's library.
type SavedShow struct {
	AddedAt string         `json:"added_at"`
	Show    SimplifiedShow `json:"show"`
}

// SimplifiedEpisode is the episode object embedded in shows.
type SimplifiedEpisode struct {
	AudioPreviewURL      *string           `json:"audio_preview_url"`
	Description          string            `json:"description"`
	DurationMS           uint32            `json:"duration_ms"`
	Explicit             bool              `json:"explicit"`
	ExternalURLs         map[string]string `json:"external_urls"`
	Href                 string            `json:"href"`
	ID                   string            `json:"id"`
	Images               []Image           `json:"images"`
	IsExternallyHosted   bool              `json:"is_externally_hosted"`
	IsPlayable           bool              `json:"is_playable"`
	Languages            []string          `json:"languages"`
	Name                 string            `json:"name"`
	ReleaseDate          string            `json:"release_date"`
	ReleaseDatePrecision string            `json:"release_date_precision"`
	Type                 Type              `json:"type"`
	URI                  string            `json:"uri"`
}

// FullEpisode is an episode with its show.
type FullEpisode struct {
	SimplifiedEpisode
	Show SimplifiedShow `json:"show"`
}

// FullEpisodes is a list of episodes.
type FullEpisodes struct {
	Episodes []FullEpisode `json:"episodes"`
}
