package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotkit/internal/api"
	"github.com/desertthunder/spotkit/internal/formatter"
	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/urfave/cli/v3"
)

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// Me prints the current user's profile.
func (r *Runner) Me(ctx context.Context, cmd *cli.Command) error {
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	user, err := c.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlainHeader(shared.Deref(user.DisplayName))
	r.writePlain("ID:        %s\n", user.ID)
	r.writePlain("Email:     %s\n", shared.Deref(user.Email))
	r.writePlain("Country:   %s\n", shared.Deref(user.Country))
	r.writePlain("Product:   %s\n", shared.Deref(user.Product))
	if user.Followers != nil {
		r.writePlain("Followers: %d\n", user.Followers.Total)
	}
	return r.writePlain("URI:       %s\n", user.URI)
}

// AlbumGet prints one album with its first page of tracks.
func (r *Runner) AlbumGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	album, err := c.Album(ctx, id, cmd.String("market"))
	if err != nil {
		return fmt.Errorf("failed to fetch album: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlainHeader(album.Name)
	r.writePlain("Artists:  %s\n", strings.Join(models.Names(album.Artists), ", "))
	r.writePlain("Released: %s\n", album.ReleaseDate)
	r.writePlain("Type:     %s\n", album.AlbumType)
	r.writePlain("Label:    %s\n", album.Label)
	r.writePlain("Tracks:   %d\n", album.TotalTracks)
	r.writePlain("URI:      %s\n", album.URI)
	r.writePlainln("Tracks")
	for _, t := range album.Tracks.Items {
		r.writePlain("%2d. %s (%s)\n", t.TrackNumber, t.Name, shared.FormatDuration(t.DurationMS))
	}
	if album.Tracks.Next != nil {
		r.writePlain("… %d more, see 'spotkit albums tracks %s'\n", int(album.Tracks.Total)-len(album.Tracks.Items), album.ID)
	}
	return nil
}

// ArtistGet prints one artist.
func (r *Runner) ArtistGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	artist, err := c.Artist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch artist: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(artist.Name)
	r.writePlain("Genres:     %s\n", strings.Join(artist.Genres, ", "))
	r.writePlain("Followers:  %d\n", artist.Followers.Total)
	r.writePlain("Popularity: %d\n", artist.Popularity)
	return r.writePlain("URI:        %s\n", artist.URI)
}

// ArtistTopTracks prints an artist's top tracks in a country.
func (r *Runner) ArtistTopTracks(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	tracks, err := c.ArtistTopTracks(ctx, id, cmd.String("country"))
	if err != nil {
		return fmt.Errorf("failed to fetch top tracks: %w", err)
	}
	return printItems(ctx, r, cmd, "top tracks of "+id, formatter.TrackColumns, tracks)
}

// RelatedArtists prints artists similar to an artist.
func (r *Runner) RelatedArtists(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	artists, err := c.RelatedArtists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch related artists: %w", err)
	}
	return printItems(ctx, r, cmd, "related to "+id, formatter.ArtistColumns, artists)
}

// ShowGet prints one podcast show.
func (r *Runner) ShowGet(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	show, err := c.Show(ctx, id, cmd.String("market"))
	if err != nil {
		return fmt.Errorf("failed to fetch show: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(show, cmd.Bool("pretty"))
	}

	r.writePlainHeader(show.Name)
	r.writePlain("Publisher: %s\n", show.Publisher)
	r.writePlain("Languages: %s\n", strings.Join(show.Languages, ", "))
	r.writePlain("Episodes:  %d\n", show.Episodes.Total)
	r.writePlain("URI:       %s\n", show.URI)
	if show.Description != "" {
		r.writePlainln("%s", show.Description)
	}
	return nil
}

func browseOpts(cmd *cli.Command) api.BrowseOptions {
	return api.BrowseOptions{
		Country: cmd.String("country"),
		Locale:  cmd.String("locale"),
		Limit:   cmd.Int("page-size"),
	}
}

// BrowseCategories prints every browse category.
func (r *Runner) BrowseCategories(ctx context.Context, cmd *cli.Command) error {
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	p, err := c.CategoriesPager(ctx, browseOpts(cmd))
	if err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}
	return printPager(ctx, r, cmd, "categories", formatter.CategoryColumns, p)
}

// BrowseCategoryPlaylists prints the playlists tagged with a category.
func (r *Runner) BrowseCategoryPlaylists(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	page, err := c.CategoryPlaylists(ctx, id, browseOpts(cmd))
	if err != nil {
		return fmt.Errorf("failed to fetch category playlists: %w", err)
	}
	p, err := pager.FromPageWith(c.Sender(), page, pager.DecodePageIn[models.SimplifiedPlaylist]("playlists"))
	if err != nil {
		return err
	}
	return printPager(ctx, r, cmd, "category "+id, formatter.PlaylistColumns, p)
}

// BrowseFeatured prints the featured playlists and their editorial message.
func (r *Runner) BrowseFeatured(ctx context.Context, cmd *cli.Command) error {
	c, err := r.client(ctx)
	if err != nil {
		return err
	}

	featured, err := c.FeaturedPlaylists(ctx, browseOpts(cmd), "")
	if err != nil {
		return fmt.Errorf("failed to fetch featured playlists: %w", err)
	}
	p, err := pager.FromPageWith(c.Sender(), featured.Playlists, pager.DecodePageIn[models.SimplifiedPlaylist]("playlists"))
	if err != nil {
		return err
	}

	title := featured.Message
	if title == "" {
		title = "featured playlists"
	}
	return printPager(ctx, r, cmd, title, formatter.PlaylistColumns, p)
}
