package api

import (
	"context"
	"net/http"

	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
)

// library is one saved-item collection under /me.
type library struct {
	path   string
	kind   string
	maxIDs int
}

var (
	tracksLibrary = library{path: "/me/tracks", kind: "track", maxIDs: 50}
	albumsLibrary = library{path: "/me/albums", kind: "album", maxIDs: 20}
	showsLibrary  = library{path: "/me/shows", kind: "show", maxIDs: 50}
)

func (c *Client) libraryContains(ctx context.Context, l library, ids []string) ([]bool, error) {
	if err := requireIDs(l.kind, ids, l.maxIDs); err != nil {
		return nil, err
	}
	return get[[]bool](ctx, c, l.path+"/contains", NewParams().SetJoined("ids", ids))
}

func (c *Client) libraryChange(ctx context.Context, method string, l library, ids []string) error {
	if err := requireIDs(l.kind, ids, l.maxIDs); err != nil {
		return err
	}
	return send(ctx, c, method, l.path, NewParams().SetJoined("ids", ids), nil)
}

// SavedTracks retrieves the first page of the user's saved tracks.
func (c *Client) SavedTracks(ctx context.Context, opts PageOptions) (pager.Page[models.SavedTrack], error) {
	return get[pager.Page[models.SavedTrack]](ctx, c, tracksLibrary.path, opts.params())
}

// SavedTracksPager streams the user's saved tracks.
func (c *Client) SavedTracksPager(ctx context.Context, opts PageOptions) (*pager.Pager[models.SavedTrack], error) {
	page, err := c.SavedTracks(ctx, opts)
	return offsetPager(c, page, err)
}

// SavedAlbums retrieves the first page of the user's saved albums.
func (c *Client) SavedAlbums(ctx context.Context, opts PageOptions) (pager.Page[models.SavedAlbum], error) {
	return get[pager.Page[models.SavedAlbum]](ctx, c, albumsLibrary.path, opts.params())
}

// SavedAlbumsPager streams the user's saved albums.
func (c *Client) SavedAlbumsPager(ctx context.Context, opts PageOptions) (*pager.Pager[models.SavedAlbum], error) {
	page, err := c.SavedAlbums(ctx, opts)
	return offsetPager(c, page, err)
}

// SavedShows retrieves the first page of the user's saved shows.
func (c *Client) SavedShows(ctx context.Context, opts PageOptions) (pager.Page[models.SavedShow], error) {
	return get[pager.Page[models.SavedShow]](ctx, c, showsLibrary.path, NewParams().SetInt("limit", opts.Limit).SetInt("offset", opts.Offset))
}

// SavedShowsPager streams the user's saved shows.
func (c *Client) SavedShowsPager(ctx context.Context, opts PageOptions) (*pager.Pager[models.SavedShow], error) {
	page, err := c.SavedShows(ctx, opts)
	return offsetPager(c, page, err)
}

// ContainsTracks reports, per ID, whether the track is saved.
func (c *Client) ContainsTracks(ctx context.Context, ids []string) ([]bool, error) {
	return c.libraryContains(ctx, tracksLibrary, ids)
}

// ContainsAlbums reports, per ID, whether the album is saved.
func (c *Client) ContainsAlbums(ctx context.Context, ids []string) ([]bool, error) {
	return c.libraryContains(ctx, albumsLibrary, ids)
}

// ContainsShows reports, per ID, whether the show is saved.
func (c *Client) ContainsShows(ctx context.Context, ids []string) ([]bool, error) {
	return c.libraryContains(ctx, showsLibrary, ids)
}

// SaveTracks adds up to 50 tracks to the library.
func (c *Client) SaveTracks(ctx context.Context, ids []string) error {
	return c.libraryChange(ctx, http.MethodPut, tracksLibrary, ids)
}

// SaveAlbums adds up to 20 albums to the library.
func (c *Client) SaveAlbums(ctx context.Context, ids []string) error {
	return c.libraryChange(ctx, http.MethodPut, albumsLibrary, ids)
}

// SaveShows adds up to 50 shows to the library.
func (c *Client) SaveShows(ctx context.Context, ids []string) error {
	return c.libraryChange(ctx, http.MethodPut, showsLibrary, ids)
}

// RemoveTracks removes up to 50 tracks from the library.
func (c *Client) RemoveTracks(ctx context.Context, ids []string) error {
	return c.libraryChange(ctx, http.MethodDelete, tracksLibrary, ids)
}

// RemoveAlbums removes up to 20 albums from the library.
func (c *Client) RemoveAlbums(ctx context.Context, ids []string) error {
	return c.libraryChange(ctx, http.MethodDelete, albumsLibrary, ids)
}

// RemoveShows removes up to 50 shows from the library.
func (c *Client) RemoveShows(ctx context.Context, ids []string) error {
	return c.libraryChange(ctx, http.MethodDelete, showsLibrary, ids)
}
