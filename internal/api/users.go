package api

import (
	"context"

	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
)

// CurrentUser retrieves the profile of the token's owner.
func (c *Client) CurrentUser(ctx context.Context) (models.PrivateUser, error) {
	return get[models.PrivateUser](ctx, c, "/me", nil)
}

// User retrieves a public profile.
func (c *Client) User(ctx context.Context, id string) (models.PublicUser, error) {
	if err := requireID("user", id); err != nil {
		return models.PublicUser{}, err
	}
	return get[models.PublicUser](ctx, c, "/users/"+seg(id), nil)
}

// CurrentUserPlaylists retrieves the first page of playlists owned or followed by the user.
func (c *Client) CurrentUserPlaylists(ctx context.Context, opts PageOptions) (pager.Page[models.SimplifiedPlaylist], error) {
	p := NewParams().SetInt("limit", opts.Limit).SetInt("offset", opts.Offset)
	return get[pager.Page[models.SimplifiedPlaylist]](ctx, c, "/me/playlists", p)
}

// CurrentUserPlaylistsPager streams the user's playlists.
func (c *Client) CurrentUserPlaylistsPager(ctx context.Context, opts PageOptions) (*pager.Pager[models.SimplifiedPlaylist], error) {
	page, err := c.CurrentUserPlaylists(ctx, opts)
	return offsetPager(c, page, err)
}

// PlaylistTracks retrieves the first page of a playlist's entries.
func (c *Client) PlaylistTracks(ctx context.Context, id string, opts PageOptions) (pager.Page[models.PlaylistTrack], error) {
	if err := requireID("playlist", id); err != nil {
		return pager.Page[models.PlaylistTrack]{}, err
	}
	return get[pager.Page[models.PlaylistTrack]](ctx, c, "/playlists/"+seg(id)+"/tracks", opts.params())
}

// PlaylistTracksPager streams every entry of a playlist.
func (c *Client) PlaylistTracksPager(ctx context.Context, id string, opts PageOptions) (*pager.Pager[models.PlaylistTrack], error) {
	page, err := c.PlaylistTracks(ctx, id, opts)
	return offsetPager(c, page, err)
}
