package api

import (
	"context"

	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
)

// Album retrieves an album by ID.
func (c *Client) Album(ctx context.Context, id, market string) (models.FullAlbum, error) {
	if err := requireID("album", id); err != nil {
		return models.FullAlbum{}, err
	}
	return get[models.FullAlbum](ctx, c, "/albums/"+seg(id), NewParams().Set("market", market))
}

// Albums retrieves up to 20 albums.
func (c *Client) Albums(ctx context.Context, ids []string, market string) ([]models.FullAlbum, error) {
	if err := requireIDs("album", ids, 20); err != nil {
		return nil, err
	}
	out, err := get[models.FullAlbums](ctx, c, "/albums", NewParams().SetJoined("ids", ids).Set("market", market))
	return out.Albums, err
}

// AlbumTracks retrieves the first page of an album's tracks.
func (c *Client) AlbumTracks(ctx context.Context, id string, opts PageOptions) (pager.Page[models.SimplifiedTrack], error) {
	if err := requireID("album", id); err != nil {
		return pager.Page[models.SimplifiedTrack]{}, err
	}
	return get[pager.Page[models.SimplifiedTrack]](ctx, c, "/albums/"+seg(id)+"/tracks", opts.params())
}

// AlbumTracksPager streams every track of an album.
func (c *Client) AlbumTracksPager(ctx context.Context, id string, opts PageOptions) (*pager.Pager[models.SimplifiedTrack], error) {
	page, err := c.AlbumTracks(ctx, id, opts)
	return offsetPager(c, page, err)
}
