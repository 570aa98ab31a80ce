package main

import (
	"context"
	"fmt"
	"iter"

	"github.com/desertthunder/spotkit/internal/formatter"
	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/tasks"
	"github.com/urfave/cli/v3"
)

// jobFunc builds the export job a list command streams.
type jobFunc func(cmd *cli.Command) (tasks.Job, error)

func staticJob(kind tasks.Kind) jobFunc {
	return func(*cli.Command) (tasks.Job, error) {
		return tasks.Job{Kind: kind}, nil
	}
}

func resourceJob(kind tasks.Kind, arg string) jobFunc {
	return func(cmd *cli.Command) (tasks.Job, error) {
		id := cmd.StringArg(arg)
		if id == "" {
			return tasks.Job{}, fmt.Errorf("%w: %s", shared.ErrMissingArgument, arg)
		}
		return tasks.Job{Kind: kind, ResourceID: id}, nil
	}
}

var (
	albumTracksJob    = resourceJob(tasks.AlbumTracks, "id")
	artistAlbumsJob   = resourceJob(tasks.ArtistAlbums, "id")
	showEpisodesJob   = resourceJob(tasks.ShowEpisodes, "id")
	playlistTracksJob = resourceJob(tasks.PlaylistTracks, "id")
)

func libraryJob(cmd *cli.Command) (tasks.Job, error) {
	switch t := cmd.StringArg("type"); t {
	case "tracks", "":
		return tasks.Job{Kind: tasks.SavedTracks}, nil
	case "albums":
		return tasks.Job{Kind: tasks.SavedAlbums}, nil
	case "shows":
		return tasks.Job{Kind: tasks.SavedShows}, nil
	default:
		return tasks.Job{}, fmt.Errorf("%w: library type %q (want tracks, albums or shows)", shared.ErrInvalidArgument, t)
	}
}

// exportOpts reads the list flags shared by list and export commands.
func exportOpts(cmd *cli.Command) (tasks.ExportOpts, error) {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return tasks.ExportOpts{}, err
	}

	opts := tasks.ExportOpts{
		Format:   format,
		Limit:    cmd.Int("limit"),
		PageSize: cmd.Int("page-size"),
		Market:   cmd.String("market"),
	}
	if opts.Market == "" {
		opts.Market = cmd.String("country")
	}
	if s := cmd.String("range"); s != "" {
		if opts.Range, err = models.ParseTimeRange(s); err != nil {
			return tasks.ExportOpts{}, err
		}
	}
	return opts, nil
}

// listAction streams the job built from the command line to the output in the chosen format.
func (r *Runner) listAction(build jobFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		job, err := build(cmd)
		if err != nil {
			return err
		}
		opts, err := exportOpts(cmd)
		if err != nil {
			return err
		}
		exporter, err := r.exporter(ctx, false)
		if err != nil {
			return err
		}

		n, err := exporter.Export(ctx, r.output, job, opts)
		r.logger.Debug("listed items", "job", job.String(), "items", n)
		return err
	}
}

// printPager writes every item of p, up to --limit, in the --format of cmd.
func printPager[T any](ctx context.Context, r *Runner, cmd *cli.Command, title string, cols formatter.Columns[T], p *pager.Pager[T]) error {
	n, err := printSeq(ctx, r, cmd, title, cols, p.All(ctx))
	r.logger.Debug("printed items", "title", title, "items", n, "requests", p.Fetches())
	return err
}

func printItems[T any](ctx context.Context, r *Runner, cmd *cli.Command, title string, cols formatter.Columns[T], items []T) error {
	_, err := printSeq(ctx, r, cmd, title, cols, sliceSeq(items))
	return err
}

func printSeq[T any](ctx context.Context, r *Runner, cmd *cli.Command, title string, cols formatter.Columns[T], seq iter.Seq2[T, error]) (int, error) {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return 0, err
	}
	if limit := cmd.Int("limit"); limit > 0 {
		seq = take(seq, limit)
	}
	return formatter.WriteAll(ctx, formatter.NewWriter(r.output, format, title, cols), seq)
}

func sliceSeq[T any](items []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

// take stops seq after n items, so a pager never fetches past the page holding the last one.
func take[T any](seq iter.Seq2[T, error], n int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		count := 0
		for item, err := range seq {
			if err != nil {
				yield(item, err)
				return
			}
			if !yield(item, nil) {
				return
			}
			count++
			if count >= n {
				return
			}
		}
	}
}
