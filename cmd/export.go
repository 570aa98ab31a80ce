package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotkit/internal/repositories"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/tasks"
	"github.com/urfave/cli/v3"
)

func parseJobs(args []string) ([]tasks.Job, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: at least one kind[:id] to export", shared.ErrMissingArgument)
	}

	jobs := make([]tasks.Job, 0, len(args))
	for _, arg := range args {
		job, err := tasks.ParseJob(arg)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Export runs a bulk export of every job given on the command line.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	jobs, err := parseJobs(cmd.Args().Slice())
	if err != nil {
		return err
	}
	opts, err := exportOpts(cmd)
	if err != nil {
		return err
	}

	exporter, err := r.exporter(ctx, !cmd.Bool("no-history"))
	if err != nil {
		return err
	}

	bulk := tasks.BulkExportOpts{
		ExportOpts: opts,
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}

	progress := make(chan tasks.ProgressUpdate, len(jobs)*2+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if !cmd.Bool("quiet") {
				r.writePlain("→ %s\n", update.Message)
			}
		}
	}()

	r.logger.Info("starting export", "jobs", len(jobs), "format", opts.Format)
	result, err := exporter.BulkExport(ctx, progress, jobs, bulk)
	close(progress)
	<-done

	if result != nil {
		r.writePlainln("Export summary")
		r.writePlain("✓ %d/%d jobs succeeded, %d items\n", result.SuccessfulJobs, result.TotalJobs, result.TotalItems)
		for _, res := range result.Results {
			if !res.Success() {
				r.writePlain("⚠ %s: %s\n", res.Job.String(), res.Reason)
			}
		}
		if result.ManifestPath != "" {
			r.writePlain("Manifest: %s\n", result.ManifestPath)
		}
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if result.FailedJobs > 0 {
		return fmt.Errorf("%w: %d of %d export jobs failed", shared.ErrAPIRequest, result.FailedJobs, result.TotalJobs)
	}
	return nil
}

// HistoryList prints recorded export runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.history(ctx)
	if err != nil {
		return err
	}

	criteria := map[string]any{
		"kind":        cmd.String("kind"),
		"resource_id": cmd.String("resource"),
		"limit":       cmd.Int("limit"),
	}
	if cmd.Bool("failed") {
		criteria["failed"] = true
	}

	runs, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		return r.writePlain("No export runs recorded\n")
	}

	r.writePlainHeader(fmt.Sprintf("Export history (%d)", len(runs)))
	for _, run := range runs {
		mark := "✓"
		if run.Failed() {
			mark = "✗"
		}
		target := run.Kind
		if run.ResourceID != "" {
			target += ":" + run.ResourceID
		}
		r.writePlain("%s #%d %s  %s  %d items  %s\n", mark, run.Sequence, run.Created.Local().Format(time.DateTime), target, run.ItemCount, run.RunID)
	}
	return nil
}

// HistoryShow prints one export run.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	repo, err := r.history(ctx)
	if err != nil {
		return err
	}

	run, err := repo.Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(run, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Export run #%d", run.Sequence))
	r.writePlain("ID:       %s\n", run.RunID)
	r.writePlain("Kind:     %s\n", run.Kind)
	if run.ResourceID != "" {
		r.writePlain("Resource: %s\n", run.ResourceID)
	}
	r.writePlain("Items:    %d\n", run.ItemCount)
	r.writePlain("File:     %s\n", run.FilePath)
	r.writePlain("Created:  %s\n", run.Created.Local().Format(time.RFC1123))
	if run.Failed() {
		r.writePlain("Error:    %s\n", run.Error)
	}
	return nil
}

// HistoryDelete removes one export run record. Exported files are left in place.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	repo, err := r.history(ctx)
	if err != nil {
		return err
	}

	if err := repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: no export run %s", shared.ErrInvalidArgument, id)
		}
		return err
	}
	return r.writePlain("✓ Deleted export run %s\n", id)
}
