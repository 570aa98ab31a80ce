package models

import (
	"fmt"

	"github.com/desertthunder/spotkit/internal/shared"
)

// AlbumType classifies an album.
type AlbumType string

const (
	AlbumTypeAlbum       AlbumType = "album"
	AlbumTypeSingle      AlbumType = "single"
	AlbumTypeAppearsOn   AlbumType = "appears_on"
	AlbumTypeCompilation AlbumType = "compilation"
)

// ParseAlbumType validates s as an album type or include_groups member.
func ParseAlbumType(s string) (AlbumType, error) {
	switch t := AlbumType(s); t {
	case AlbumTypeAlbum, AlbumTypeSingle, AlbumTypeAppearsOn, AlbumTypeCompilation:
		return t, nil
	}
	return "", fmt.Errorf("%w: unrecognized album type %q", shared.ErrInvalidArgument, s)
}

// Type is the object type of a Web API entity.
type Type string

const (
	TypeArtist   Type = "artist"
	TypeAlbum    Type = "album"
	TypeTrack    Type = "track"
	TypePlaylist Type = "playlist"
	TypeUser     Type = "user"
	TypeShow     Type = "show"
	TypeEpisode  Type = "episode"
)

// ParseType validates s as an object type.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeArtist, TypeAlbum, TypeTrack, TypePlaylist, TypeUser, TypeShow, TypeEpisode:
		return t, nil
	}
	return "", fmt.Errorf("%w: unrecognized object type %q", shared.ErrInvalidArgument, s)
}

// TimeRange is the window used for a user's top items.
type TimeRange string

const (
	TimeRangeLong   TimeRange = "long_term"
	TimeRangeMedium TimeRange = "medium_term"
	TimeRangeShort  TimeRange = "short_term"
)

// ParseTimeRange validates s as a time range.
func ParseTimeRange(s string) (TimeRange, error) {
	switch t := TimeRange(s); t {
	case TimeRangeLong, TimeRangeMedium, TimeRangeShort:
		return t, nil
	}
	return "", fmt.Errorf("%w: unrecognized time range %q", shared.ErrInvalidArgument, s)
}
