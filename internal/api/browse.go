package api

import (
	"context"

	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
)

// BrowseOptions localize browse results. Zero values are omitted.
type BrowseOptions struct {
	Country string
	Locale  string
	Limit   int
	Offset  int
}

func (o BrowseOptions) params() *Params {
	return NewParams().
		Set("country", o.Country).
		Set("locale", o.Locale).
		SetInt("limit", o.Limit).
		SetInt("offset", o.Offset)
}

// Category retrieves a single browse category.
func (c *Client) Category(ctx context.Context, id string, opts BrowseOptions) (models.Category, error) {
	if err := requireID("category", id); err != nil {
		return models.Category{}, err
	}
	p := NewParams().Set("country", opts.Country).Set("locale", opts.Locale)
	return get[models.Category](ctx, c, "/browse/categories/"+seg(id), p)
}

// Categories retrieves the first page of browse categories.
func (c *Client) Categories(ctx context.Context, opts BrowseOptions) (pager.Page[models.Category], error) {
	out, err := get[models.Categories](ctx, c, "/browse/categories", opts.params())
	return out.Categories, err
}

// CategoriesPager streams every browse category.
func (c *Client) CategoriesPager(ctx context.Context, opts BrowseOptions) (*pager.Pager[models.Category], error) {
	page, err := c.Categories(ctx, opts)
	if err != nil {
		return nil, err
	}
	return pager.FromPageWith(c.sender, page, pager.DecodePageIn[models.Category]("categories"))
}

// CategoryPlaylists retrieves the first page of playlists tagged with a category.
func (c *Client) CategoryPlaylists(ctx context.Context, id string, opts BrowseOptions) (pager.Page[models.SimplifiedPlaylist], error) {
	if err := requireID("category", id); err != nil {
		return pager.Page[models.SimplifiedPlaylist]{}, err
	}
	p := NewParams().Set("country", opts.Country).SetInt("limit", opts.Limit).SetInt("offset", opts.Offset)
	out, err := get[models.CategoryPlaylists](ctx, c, "/browse/categories/"+seg(id)+"/playlists", p)
	return out.Playlists, err
}

// FeaturedPlaylists retrieves editorially featured playlists. timestamp is ISO 8601 and optional.
func (c *Client) FeaturedPlaylists(ctx context.Context, opts BrowseOptions, timestamp string) (models.FeaturedPlaylists, error) {
	return get[models.FeaturedPlaylists](ctx, c, "/browse/featured-playlists", opts.params().Set("timestamp", timestamp))
}

// NewReleases retrieves the first page of new album releases.
func (c *Client) NewReleases(ctx context.Context, opts BrowseOptions) (pager.Page[models.SimplifiedAlbum], error) {
	p := NewParams().Set("country", opts.Country).SetInt("limit", opts.Limit).SetInt("offset", opts.Offset)
	out, err := get[models.NewReleases](ctx, c, "/browse/new-releases", p)
	return out.Albums, err
}

// NewReleasesPager streams new album releases. Each following page is wrapped in
// an "albums" object like the first.
func (c *Client) NewReleasesPager(ctx context.Context, opts BrowseOptions) (*pager.Pager[models.SimplifiedAlbum], error) {
	page, err := c.NewReleases(ctx, opts)
	if err != nil {
		return nil, err
	}
	return pager.FromPageWith(c.sender, page, pager.DecodePageIn[models.SimplifiedAlbum]("albums"))
}
