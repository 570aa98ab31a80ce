package api

import (
	"context"

	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
)

// TopOptions select the window and page of a user's top items.
type TopOptions struct {
	Limit     int
	Offset    int
	TimeRange models.TimeRange
}

func (o TopOptions) params() *Params {
	return NewParams().
		SetInt("limit", o.Limit).
		SetInt("offset", o.Offset).
		Set("time_range", string(o.TimeRange))
}

// TopTracks retrieves the first page of the user's most played tracks.
func (c *Client) TopTracks(ctx context.Context, opts TopOptions) (pager.Page[models.FullTrack], error) {
	return get[pager.Page[models.FullTrack]](ctx, c, "/me/top/tracks", opts.params())
}

// TopTracksPager streams the user's top tracks.
func (c *Client) TopTracksPager(ctx context.Context, opts TopOptions) (*pager.Pager[models.FullTrack], error) {
	page, err := c.TopTracks(ctx, opts)
	return offsetPager(c, page, err)
}

// TopArtists retrieves the first page of the user's most played artists.
func (c *Client) TopArtists(ctx context.Context, opts TopOptions) (pager.Page[models.FullArtist], error) {
	return get[pager.Page[models.FullArtist]](ctx, c, "/me/top/artists", opts.params())
}

// TopArtistsPager streams the user's top artists.
func (c *Client) TopArtistsPager(ctx context.Context, opts TopOptions) (*pager.Pager[models.FullArtist], error) {
	page, err := c.TopArtists(ctx, opts)
	return offsetPager(c, page, err)
}
