// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/spotkit/internal/tasks"
	"github.com/urfave/cli/v3"
)

// listFlags are shared by every command that streams a paginated resource.
func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (text, json, csv, markdown)",
			Value:   "text",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of items to print (0 for all)",
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "Items requested per page",
			Value: 50,
		},
		&cli.StringFlag{
			Name:  "market",
			Usage: "ISO 3166-1 alpha-2 country code used for track relinking",
		},
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func idArg(name string) []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: name}}
}

// setupCommand handles setup operations for configuration and the export history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example configuration file",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the export history database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles the OAuth authorization code flow and the cached token.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify using the OAuth authorization code flow",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
					&cli.BoolFlag{
						Name:  "paste",
						Usage: "Paste the redirect URL instead of running the callback server",
					},
					&cli.BoolFlag{
						Name:  "show-dialog",
						Usage: "Force the consent dialog even if already approved",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the callback",
						Value: defaultAuthTimeout,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "refresh",
				Usage:  "Exchange the cached refresh token for a new access token",
				Action: r.AuthRefresh,
			},
			{
				Name:   "status",
				Usage:  "Show the cached token state",
				Flags:  jsonFlags(),
				Action: r.AuthStatus,
			},
		},
	}
}

func meCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "me",
		Usage:  "Show the current user's profile",
		Flags:  jsonFlags(),
		Action: r.Me,
	}
}

func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "albums",
		Usage: "Album catalog operations",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show an album",
				Arguments: idArg("id"),
				Flags: append(jsonFlags(), &cli.StringFlag{
					Name:  "market",
					Usage: "ISO 3166-1 alpha-2 country code",
				}),
				Action: r.AlbumGet,
			},
			{
				Name:      "tracks",
				Usage:     "List an album's tracks",
				Arguments: idArg("id"),
				Flags:     listFlags(),
				Action:    r.listAction(albumTracksJob),
			},
		},
	}
}

func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artists",
		Usage: "Artist catalog operations",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show an artist",
				Arguments: idArg("id"),
				Flags:     jsonFlags(),
				Action:    r.ArtistGet,
			},
			{
				Name:      "albums",
				Usage:     "List an artist's albums",
				Arguments: idArg("id"),
				Flags:     listFlags(),
				Action:    r.listAction(artistAlbumsJob),
			},
			{
				Name:      "top-tracks",
				Usage:     "List an artist's top tracks in a country",
				Arguments: idArg("id"),
				Flags: append(listFlags(), &cli.StringFlag{
					Name:  "country",
					Usage: "ISO 3166-1 alpha-2 country code",
					Value: "US",
				}),
				Action: r.ArtistTopTracks,
			},
			{
				Name:      "related",
				Usage:     "List artists similar to an artist",
				Arguments: idArg("id"),
				Flags:     listFlags(),
				Action:    r.RelatedArtists,
			},
		},
	}
}

func showsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "shows",
		Usage: "Podcast show operations",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show a podcast",
				Arguments: idArg("id"),
				Flags: append(jsonFlags(), &cli.StringFlag{
					Name:  "market",
					Usage: "ISO 3166-1 alpha-2 country code",
				}),
				Action: r.ShowGet,
			},
			{
				Name:      "episodes",
				Usage:     "List a show's episodes",
				Arguments: idArg("id"),
				Flags:     listFlags(),
				Action:    r.listAction(showEpisodesJob),
			},
		},
	}
}

// libraryCommand manages the saved tracks, albums and shows of the current user.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Saved tracks, albums and shows",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List saved items (tracks, albums or shows)",
				Arguments: idArg("type"),
				Flags:     listFlags(),
				Action:    r.listAction(libraryJob),
			},
			{
				Name:      "save",
				Usage:     "Save items: library save <type> <id>...",
				ArgsUsage: "<type> <id>...",
				Action:    r.LibrarySave,
			},
			{
				Name:      "remove",
				Usage:     "Remove saved items: library remove <type> <id>...",
				ArgsUsage: "<type> <id>...",
				Action:    r.LibraryRemove,
			},
			{
				Name:      "contains",
				Usage:     "Check whether items are saved: library contains <type> <id>...",
				ArgsUsage: "<type> <id>...",
				Flags:     jsonFlags(),
				Action:    r.LibraryContains,
			},
		},
	}
}

// followCommand manages followed artists, users and playlists.
func followCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "follow",
		Usage: "Followed artists, users and playlists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List followed artists",
				Flags:  listFlags(),
				Action: r.listAction(staticJob(tasks.FollowedArtists)),
			},
			{
				Name:      "add",
				Usage:     "Follow artists or users: follow add <artist|user> <id>...",
				ArgsUsage: "<artist|user> <id>...",
				Action:    r.FollowAdd,
			},
			{
				Name:      "remove",
				Usage:     "Unfollow artists or users: follow remove <artist|user> <id>...",
				ArgsUsage: "<artist|user> <id>...",
				Action:    r.FollowRemove,
			},
			{
				Name:      "contains",
				Usage:     "Check whether artists or users are followed",
				ArgsUsage: "<artist|user> <id>...",
				Flags:     jsonFlags(),
				Action:    r.FollowContains,
			},
			{
				Name:      "playlist",
				Usage:     "Follow a playlist",
				Arguments: idArg("id"),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "private",
						Usage: "Keep the playlist off the public profile",
					},
				},
				Action: r.FollowPlaylist,
			},
			{
				Name:      "unfollow-playlist",
				Usage:     "Unfollow a playlist",
				Arguments: idArg("id"),
				Action:    r.UnfollowPlaylist,
			},
		},
	}
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlists of the current user",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the current user's playlists",
				Flags:  listFlags(),
				Action: r.listAction(staticJob(tasks.Playlists)),
			},
			{
				Name:      "tracks",
				Usage:     "List a playlist's tracks",
				Arguments: idArg("id"),
				Flags:     listFlags(),
				Action:    r.listAction(playlistTracksJob),
			},
		},
	}
}

func browseCommand(r *Runner) *cli.Command {
	browseFlags := func() []cli.Flag {
		return append(listFlags(),
			&cli.StringFlag{Name: "country", Usage: "ISO 3166-1 alpha-2 country code"},
			&cli.StringFlag{Name: "locale", Usage: "ISO 639-1 language and ISO 3166-1 country, e.g. es_MX"},
		)
	}

	return &cli.Command{
		Name:  "browse",
		Usage: "Editorial content",
		Commands: []*cli.Command{
			{
				Name:   "new-releases",
				Usage:  "List new album releases",
				Flags:  browseFlags(),
				Action: r.listAction(staticJob(tasks.NewReleases)),
			},
			{
				Name:   "categories",
				Usage:  "List browse categories",
				Flags:  browseFlags(),
				Action: r.BrowseCategories,
			},
			{
				Name:      "category-playlists",
				Usage:     "List the playlists in a category",
				Arguments: idArg("id"),
				Flags:     browseFlags(),
				Action:    r.BrowseCategoryPlaylists,
			},
			{
				Name:   "featured",
				Usage:  "List featured playlists",
				Flags:  browseFlags(),
				Action: r.BrowseFeatured,
			},
		},
	}
}

func topCommand(r *Runner) *cli.Command {
	topFlags := func() []cli.Flag {
		return append(listFlags(), &cli.StringFlag{
			Name:  "range",
			Usage: "Time range (short_term, medium_term, long_term)",
			Value: "medium_term",
		})
	}

	return &cli.Command{
		Name:  "top",
		Usage: "The current user's top items",
		Commands: []*cli.Command{
			{
				Name:   "tracks",
				Usage:  "List top tracks",
				Flags:  topFlags(),
				Action: r.listAction(staticJob(tasks.TopTracks)),
			},
			{
				Name:   "artists",
				Usage:  "List top artists",
				Flags:  topFlags(),
				Action: r.listAction(staticJob(tasks.TopArtists)),
			},
		},
	}
}

// exportCommand bulk exports paginated resources to files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export resources to files, e.g. export saved-tracks playlist-tracks:<id>",
		ArgsUsage: "<kind[:id]>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, json, csv, markdown)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: spotify_export_{timestamp})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers (max 10)",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Jobs started per second",
				Value: 5,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum items per job (0 for all)",
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Items requested per page",
				Value: 50,
			},
			&cli.StringFlag{
				Name:  "market",
				Usage: "ISO 3166-1 alpha-2 country code",
			},
			&cli.StringFlag{
				Name:  "range",
				Usage: "Time range for top-tracks and top-artists",
				Value: "medium_term",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record runs in the export history",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress progress output",
			},
		},
		Action: r.Export,
	}
}

// historyCommand inspects recorded export runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Export history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded export runs, newest first",
				Flags: append(jsonFlags(),
					&cli.StringFlag{Name: "kind", Usage: "Only runs of this kind"},
					&cli.StringFlag{Name: "resource", Usage: "Only runs for this resource id"},
					&cli.BoolFlag{Name: "failed", Usage: "Only failed runs"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum runs to show", Value: 20},
				),
				Action: r.HistoryList,
			},
			{
				Name:      "show",
				Usage:     "Show one export run",
				Arguments: idArg("id"),
				Flags:     jsonFlags(),
				Action:    r.HistoryShow,
			},
			{
				Name:      "delete",
				Usage:     "Delete one export run record",
				Arguments: idArg("id"),
				Action:    r.HistoryDelete,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing and exporting playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format used from the TUI",
				Value: "markdown",
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "Export directory used from the TUI",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI is running",
				Value: "./tmp/spotkit-tui.log",
			},
		},
		Action: r.TUI,
	}
}
