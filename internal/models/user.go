package models

import "github.com/desertthunder/spotkit/internal/pager"

// PublicUser is the profile visible to any user.
type PublicUser struct {
	DisplayName  *string           `json:"display_name"`
	ExternalURLs map[string]string `json:"external_urls"`
	Followers    *Followers        `json:"followers,omitempty"`
	Href         string            `json:"href"`
	ID           string            `json:"id"`
	Images       []Image           `json:"images,omitempty"`
	Type         Type              `json:"type"`
	URI          string            `json:"uri"`
}

// PrivateUser is the current user's own profile.
type PrivateUser struct {
	Country      *string           `json:"country,omitempty"`
	DisplayName  *string           `json:"display_name"`
	Email        *string           `json:"email,omitempty"`
	ExternalURLs map[string]string `json:"external_urls"`
	Followers    *Followers        `json:"followers,omitempty"`
	Href         string            `json:"href"`
	ID           string            `json:"id"`
	Images       []Image           `json:"images,omitempty"`
	Product      *string           `json:"product,omitempty"` // premium, free, etc.
	Type         Type              `json:"type"`
	URI          string            `json:"uri"`
}

// PlaylistTracksRef points at a playlist's track collection.
type PlaylistTracksRef struct {
	Href  string `json:"href"`
	Total uint32 `json:"total"`
}

// SimplifiedPlaylist is the playlist object used in lists.
type SimplifiedPlaylist struct {
	Collaborative bool              `json:"collaborative"`
	Description   *string           `json:"description"`
	ExternalURLs  map[string]string `json:"external_urls"`
	Href          string            `json:"href"`
	ID            string            `json:"id"`
	Images        []Image           `json:"images"`
	Name          string            `json:"name"`
	Owner         PublicUser        `json:"owner"`
	Public        *bool             `json:"public"`
	SnapshotID    string            `json:"snapshot_id"`
	Tracks        PlaylistTracksRef `json:"tracks"`
	Type          Type              `json:"type"`
	URI           string            `json:"uri"`
}

// PlaylistTrack is one entry of a playlist. Track is nil for removed or unavailable content.
type PlaylistTrack struct {
	AddedAt *string     `json:"added_at"`
	AddedBy *PublicUser `json:"added_by"`
	IsLocal bool        `json:"is_local"`
	Track   *FullTrack  `json:"track"`
}

// FeaturedPlaylists wraps the page of editorially featured playlists.
type FeaturedPlaylists struct {
	Message   string                         `json:"message"`
	Playlists pager.Page[SimplifiedPlaylist] `json:"playlists"`
}

// Category is a browse category.
type Category struct {
	Href  string  `json:"href"`
	Icons []Image `json:"icons"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
}

// Categories wraps the page of browse categories.
type Categories struct {
	Categories pager.Page[Category] `json:"categories"`
}

// CategoryPlaylists wraps the page of playlists in a category.
type CategoryPlaylists struct {
	Playlists pager.Page[SimplifiedPlaylist] `json:"playlists"`
}
