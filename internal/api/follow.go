package api

import (
	"context"
	"net/http"

	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
)

const maxFollowIDs = 50

func (c *Client) follows(ctx context.Context, kind models.Type, ids []string) ([]bool, error) {
	if err := requireIDs(string(kind), ids, maxFollowIDs); err != nil {
		return nil, err
	}
	return get[[]bool](ctx, c, "/me/following/contains", NewParams().Set("type", string(kind)).SetJoined("ids", ids))
}

func (c *Client) setFollow(ctx context.Context, method string, kind models.Type, ids []string) error {
	if err := requireIDs(string(kind), ids, maxFollowIDs); err != nil {
		return err
	}
	return send(ctx, c, method, "/me/following", NewParams().Set("type", string(kind)).SetJoined("ids", ids), nil)
}

// FollowsArtists reports, per ID, whether the user follows the artist.
func (c *Client) FollowsArtists(ctx context.Context, ids []string) ([]bool, error) {
	return c.follows(ctx, models.TypeArtist, ids)
}

// FollowsUsers reports, per ID, whether the user follows the user.
func (c *Client) FollowsUsers(ctx context.Context, ids []string) ([]bool, error) {
	return c.follows(ctx, models.TypeUser, ids)
}

// FollowArtists follows up to 50 artists.
func (c *Client) FollowArtists(ctx context.Context, ids []string) error {
	return c.setFollow(ctx, http.MethodPut, models.TypeArtist, ids)
}

// FollowUsers follows up to 50 users.
func (c *Client) FollowUsers(ctx context.Context, ids []string) error {
	return c.setFollow(ctx, http.MethodPut, models.TypeUser, ids)
}

// UnfollowArtists unfollows up to 50 artists.
func (c *Client) UnfollowArtists(ctx context.Context, ids []string) error {
	return c.setFollow(ctx, http.MethodDelete, models.TypeArtist, ids)
}

// UnfollowUsers unfollows up to 50 users.
func (c *Client) UnfollowUsers(ctx context.Context, ids []string) error {
	return c.setFollow(ctx, http.MethodDelete, models.TypeUser, ids)
}

// UsersFollowPlaylist reports, per user ID, whether that user follows the playlist.
func (c *Client) UsersFollowPlaylist(ctx context.Context, playlistID string, userIDs []string) ([]bool, error) {
	if err := requireID("playlist", playlistID); err != nil {
		return nil, err
	}
	if err := requireIDs("user", userIDs, 5); err != nil {
		return nil, err
	}
	return get[[]bool](ctx, c, "/playlists/"+seg(playlistID)+"/followers/contains", NewParams().SetJoined("ids", userIDs))
}

// FollowPlaylist follows a playlist. A nil public keeps the server default.
func (c *Client) FollowPlaylist(ctx context.Context, playlistID string, public *bool) error {
	if err := requireID("playlist", playlistID); err != nil {
		return err
	}
	var body any
	if public != nil {
		body = map[string]bool{"public": *public}
	}
	return send(ctx, c, http.MethodPut, "/playlists/"+seg(playlistID)+"/followers", nil, body)
}

// UnfollowPlaylist unfollows a playlist.
func (c *Client) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	if err := requireID("playlist", playlistID); err != nil {
		return err
	}
	return send(ctx, c, http.MethodDelete, "/playlists/"+seg(playlistID)+"/followers", nil, nil)
}

// FollowedArtists retrieves the first cursor page of artists the user follows.
// after is the last artist ID of the previous page; empty starts at the beginning.
func (c *Client) FollowedArtists(ctx context.Context, limit int, after string) (models.FollowedArtists, error) {
	p := NewParams().Set("type", string(models.TypeArtist)).SetInt("limit", limit).Set("after", after)
	return get[models.FollowedArtists](ctx, c, "/me/following", p)
}

// FollowedArtistsPager streams every followed artist. Each following page is wrapped
// in an "artists" object like the first.
func (c *Client) FollowedArtistsPager(ctx context.Context, limit int) (*pager.Pager[models.FullArtist], error) {
	out, err := c.FollowedArtists(ctx, limit, "")
	if err != nil {
		return nil, err
	}
	return pager.FromCursorPage(c.sender, out.Artists, pager.DecodeCursorPageIn[models.FullArtist]("artists"))
}
