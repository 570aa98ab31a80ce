package api

import (
	"context"

	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
)

// Artist retrieves an artist by ID.
func (c *Client) Artist(ctx context.Context, id string) (models.FullArtist, error) {
	if err := requireID("artist", id); err != nil {
		return models.FullArtist{}, err
	}
	return get[models.FullArtist](ctx, c, "/artists/"+seg(id), nil)
}

// Artists retrieves up to 50 artists.
func (c *Client) Artists(ctx context.Context, ids []string) ([]models.FullArtist, error) {
	if err := requireIDs("artist", ids, 50); err != nil {
		return nil, err
	}
	out, err := get[models.FullArtists](ctx, c, "/artists", NewParams().SetJoined("ids", ids))
	return out.Artists, err
}

// ArtistAlbumsOptions filter an artist's discography.
type ArtistAlbumsOptions struct {
	IncludeGroups []models.AlbumType
	Country       string
	Limit         int
	Offset        int
}

func (o ArtistAlbumsOptions) params() *Params {
	groups := make([]string, 0, len(o.IncludeGroups))
	for _, g := range o.IncludeGroups {
		groups = append(groups, string(g))
	}
	return NewParams().
		SetJoined("include_groups", groups).
		Set("country", o.Country).
		SetInt("limit", o.Limit).
		SetInt("offset", o.Offset)
}

// ArtistAlbums retrieves the first page of an artist's albums.
func (c *Client) ArtistAlbums(ctx context.Context, id string, opts ArtistAlbumsOptions) (pager.Page[models.SimplifiedAlbum], error) {
	if err := requireID("artist", id); err != nil {
		return pager.Page[models.SimplifiedAlbum]{}, err
	}
	return get[pager.Page[models.SimplifiedAlbum]](ctx, c, "/artists/"+seg(id)+"/albums", opts.params())
}

// ArtistAlbumsPager streams an artist's whole discography.
func (c *Client) ArtistAlbumsPager(ctx context.Context, id string, opts ArtistAlbumsOptions) (*pager.Pager[models.SimplifiedAlbum], error) {
	page, err := c.ArtistAlbums(ctx, id, opts)
	return offsetPager(c, page, err)
}

// ArtistTopTracks retrieves an artist's most popular tracks in country.
func (c *Client) ArtistTopTracks(ctx context.Context, id, country string) ([]models.FullTrack, error) {
	if err := requireID("artist", id); err != nil {
		return nil, err
	}
	out, err := get[models.FullTracks](ctx, c, "/artists/"+seg(id)+"/top-tracks", NewParams().Set("country", country))
	return out.Tracks, err
}

// RelatedArtists retrieves artists similar to the given one.
func (c *Client) RelatedArtists(ctx context.Context, id string) ([]models.FullArtist, error) {
	if err := requireID("artist", id); err != nil {
		return nil, err
	}
	out, err := get[models.FullArtists](ctx, c, "/artists/"+seg(id)+"/related-artists", nil)
	return out.Artists, err
}
