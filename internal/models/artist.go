package models

import "github.com/desertthunder/spotkit/internal/pager"

// SimplifiedArtist is the artist object embedded in albums and tracks.
type SimplifiedArtist struct {
	ExternalURLs map[string]string `json:"external_urls"`
	Href         *string           `json:"href"`
	ID           *string           `json:"id"`
	Name         string            `json:"name"`
	Type         Type              `json:"type"`
	URI          *string           `json:"uri"`
}

// FullArtist is the artist object returned by artist lookups.
type FullArtist struct {
	ExternalURLs map[string]string `json:"external_urls"`
	Followers    Followers         `json:"followers"`
	Genres       []string          `json:"genres"`
	Href         string            `json:"href"`
	ID           string            `json:"id"`
	Images       []Image           `json:"images"`
	Name         string            `json:"name"`
	Popularity   uint32            `json:"popularity"`
	Type         Type              `json:"type"`
	URI          string            `json:"uri"`
}

// FullArtists is a list of artists. Unknown IDs decode as zero values.
type FullArtists struct {
	Artists []FullArtist `json:"artists"`
}

// FollowedArtists wraps the cursor page of artists the user follows.
type FollowedArtists struct {
	Artists pager.CursorBasedPage[FullArtist] `json:"artists"`
}

// Names joins simplified artist names for display.
func Names(artists []SimplifiedArtist) []string {
	out := make([]string, 0, len(artists))
	for _, a := range artists {
		out = append(out, a.Name)
	}
	return out
}
