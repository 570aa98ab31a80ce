package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotkit/internal/api"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/urfave/cli/v3"
)

// idsCall is a batch operation over resource ids.
type idsCall func(c *api.Client, ctx context.Context, ids []string) error

// containsCall reports membership for each id, in order.
type containsCall func(c *api.Client, ctx context.Context, ids []string) ([]bool, error)

var (
	librarySavers = map[string]idsCall{
		"tracks": (*api.Client).SaveTracks,
		"albums": (*api.Client).SaveAlbums,
		"shows":  (*api.Client).SaveShows,
	}
	libraryRemovers = map[string]idsCall{
		"tracks": (*api.Client).RemoveTracks,
		"albums": (*api.Client).RemoveAlbums,
		"shows":  (*api.Client).RemoveShows,
	}
	libraryContains = map[string]containsCall{
		"tracks": (*api.Client).ContainsTracks,
		"albums": (*api.Client).ContainsAlbums,
		"shows":  (*api.Client).ContainsShows,
	}

	followers = map[string]idsCall{
		"artist": (*api.Client).FollowArtists,
		"user":   (*api.Client).FollowUsers,
	}
	unfollowers = map[string]idsCall{
		"artist": (*api.Client).UnfollowArtists,
		"user":   (*api.Client).UnfollowUsers,
	}
	followContains = map[string]containsCall{
		"artist": (*api.Client).FollowsArtists,
		"user":   (*api.Client).FollowsUsers,
	}
)

// typedIDs splits "<type> <id>..." positional arguments and looks up the handler for type.
func typedIDs[F any](cmd *cli.Command, handlers map[string]F) (string, F, []string, error) {
	var zero F
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return "", zero, nil, fmt.Errorf("%w: expected <type> <id>...", shared.ErrMissingArgument)
	}

	h, ok := handlers[args[0]]
	if !ok {
		return "", zero, nil, fmt.Errorf("%w: unknown type %q", shared.ErrInvalidArgument, args[0])
	}
	return args[0], h, args[1:], nil
}

func (r *Runner) applyIDs(ctx context.Context, cmd *cli.Command, handlers map[string]idsCall, verb string) error {
	kind, call, ids, err := typedIDs(cmd, handlers)
	if err != nil {
		return err
	}
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	if err := call(c, ctx, ids); err != nil {
		return fmt.Errorf("failed to %s %s: %w", verb, kind, err)
	}
	r.logger.Info(verb, "type", kind, "count", len(ids))
	return r.writePlain("✓ %s %d %s\n", verb, len(ids), kind)
}

func (r *Runner) checkIDs(ctx context.Context, cmd *cli.Command, handlers map[string]containsCall) error {
	kind, call, ids, err := typedIDs(cmd, handlers)
	if err != nil {
		return err
	}
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	found, err := call(c, ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", kind, err)
	}

	if cmd.Bool("json") {
		out := make(map[string]bool, len(ids))
		for i, id := range ids {
			out[id] = i < len(found) && found[i]
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	for i, id := range ids {
		mark := "✗"
		if i < len(found) && found[i] {
			mark = "✓"
		}
		r.writePlain("%s %s\n", mark, id)
	}
	return nil
}

// LibrarySave saves tracks, albums or shows to the current user's library.
func (r *Runner) LibrarySave(ctx context.Context, cmd *cli.Command) error {
	return r.applyIDs(ctx, cmd, librarySavers, "saved")
}

// LibraryRemove removes tracks, albums or shows from the current user's library.
func (r *Runner) LibraryRemove(ctx context.Context, cmd *cli.Command) error {
	return r.applyIDs(ctx, cmd, libraryRemovers, "removed")
}

// LibraryContains reports which ids are in the current user's library.
func (r *Runner) LibraryContains(ctx context.Context, cmd *cli.Command) error {
	return r.checkIDs(ctx, cmd, libraryContains)
}

// FollowAdd follows artists or users.
func (r *Runner) FollowAdd(ctx context.Context, cmd *cli.Command) error {
	return r.applyIDs(ctx, cmd, followers, "followed")
}

// FollowRemove unfollows artists or users.
func (r *Runner) FollowRemove(ctx context.Context, cmd *cli.Command) error {
	return r.applyIDs(ctx, cmd, unfollowers, "unfollowed")
}

// FollowContains reports which artists or users the current user follows.
func (r *Runner) FollowContains(ctx context.Context, cmd *cli.Command) error {
	return r.checkIDs(ctx, cmd, followContains)
}

// FollowPlaylist follows a playlist, publicly unless --private is given.
func (r *Runner) FollowPlaylist(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	var public *bool
	if cmd.IsSet("private") {
		v := !cmd.Bool("private")
		public = &v
	}
	if err := c.FollowPlaylist(ctx, id, public); err != nil {
		return fmt.Errorf("failed to follow playlist: %w", err)
	}
	return r.writePlain("✓ Following playlist %s\n", id)
}

// UnfollowPlaylist unfollows a playlist.
func (r *Runner) UnfollowPlaylist(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	if err := c.UnfollowPlaylist(ctx, id); err != nil {
		return fmt.Errorf("failed to unfollow playlist: %w", err)
	}
	return r.writePlain("✓ Unfollowed playlist %s\n", id)
}
