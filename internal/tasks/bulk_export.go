package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/spotkit/internal/formatter"
	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk exports.
type BulkExportOpts struct {
	ExportOpts
	OutputDir  string  // Base output directory (default: spotify_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Jobs started per second (default: 5)
}

// JobResult is the outcome of one bulk export job.
type JobResult struct {
	Index  int      `json:"index"`
	Job    Job      `json:"job"`
	Items  int      `json:"items"`
	Files  []string `json:"files"`
	RunID  string   `json:"run_id,omitempty"`
	Err    error    `json:"-"`
	Reason string   `json:"error,omitempty"`
}

// Success reports whether the job completed.
func (r JobResult) Success() bool {
	return r.Err == nil
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	TotalJobs       int         `json:"total_jobs"`
	SuccessfulJobs  int         `json:"successful_jobs"`
	FailedJobs      int         `json:"failed_jobs"`
	TotalItems      int         `json:"total_items"`
	Format          string      `json:"format"`
	OutputDirectory string      `json:"output_directory"`
	ManifestPath    string      `json:"-"`
	Results         []JobResult `json:"results"`
}

type indexedJob struct {
	index int
	job   Job
}

// BulkExport exports jobs concurrently with rate limiting and progress tracking.
//
// Jobs are validated up front. Once running, a failed job is recorded in the result and the
// remaining jobs continue. Cancelling ctx stops dispatch; jobs never started are absent from the result.
func (e *Exporter) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, jobs []Job, opts BulkExportOpts) (*BulkExportResult, error) {
	for _, job := range jobs {
		if err := job.Validate(); err != nil {
			return nil, err
		}
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("spotify_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Format == "" {
		opts.Format = formatter.JSON
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalJobs:       len(jobs),
		Format:          string(opts.Format),
		OutputDirectory: opts.OutputDir,
		Results:         make([]JobResult, 0, len(jobs)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	queue := make(chan indexedJob)
	results := make(chan JobResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, queue, results, opts)
	}

	go func() {
		defer close(queue)
		for i, job := range jobs {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case queue <- indexedJob{index: i, job: job}:
				e.sendProgress(prog, dispatchUpdate(i+1, len(jobs), job))
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success() {
			result.SuccessfulJobs++
			result.TotalItems += res.Items
			e.sendProgress(prog, exportCompletedUpdate(completed, len(jobs), res))
		} else {
			result.FailedJobs++
			e.sendProgress(prog, exportFailedUpdate(completed, len(jobs), res))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].Index < result.Results[j].Index
	})

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// exportWorker is a worker goroutine that exports jobs from the queue.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	queue <-chan indexedJob,
	results chan<- JobResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for ij := range queue {
		res := e.exportJob(ctx, ij, opts)
		e.record(&res)
		results <- res
	}
}

// exportJob writes one job to {dir}/{basename}{ext}. A Markdown export of an album or show
// also saves the cover art when an image client is configured.
func (e *Exporter) exportJob(ctx context.Context, ij indexedJob, opts BulkExportOpts) JobResult {
	res := JobResult{Index: ij.index, Job: ij.job, Files: []string{}}
	logger := shared.WithLogger(e.logger, "job", ij.job.String())

	path := filepath.Join(opts.OutputDir, ij.job.Basename()+opts.Format.Extension())
	f, err := os.Create(path)
	if err != nil {
		res.fail(fmt.Errorf("failed to create output file: %w", err))
		return res
	}

	n, err := e.Export(ctx, f, ij.job, opts.ExportOpts)
	closeErr := f.Close()
	res.Items = n
	res.Files = append(res.Files, path)
	if err == nil {
		err = closeErr
	}
	if err != nil {
		logger.Warn("export failed", "items", n, "error", err)
		res.fail(err)
		return res
	}
	logger.Debug("export finished", "items", n, "file", path)

	if opts.Format == formatter.Markdown && e.images != nil {
		if cover, err := e.saveCover(ctx, ij.job, opts.OutputDir); err != nil {
			logger.Warn("failed to save cover image", "error", err)
		} else if cover != "" {
			res.Files = append(res.Files, cover)
		}
	}

	return res
}

func (e *Exporter) saveCover(ctx context.Context, job Job, dir string) (string, error) {
	url, err := e.CoverImageURL(ctx, job)
	if err != nil || url == "" {
		return "", err
	}

	data, err := formatter.DownloadImage(ctx, e.images, url)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, job.Basename()+"_cover.jpg")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save cover image: %w", err)
	}
	return path, nil
}

func (e *Exporter) record(res *JobResult) {
	if e.runs == nil {
		return
	}
	e.recordMu.Lock()
	defer e.recordMu.Unlock()

	run := &models.ExportRun{
		Kind:       string(res.Job.Kind),
		ResourceID: res.Job.ResourceID,
		ItemCount:  res.Items,
		Error:      res.Reason,
	}
	if len(res.Files) > 0 {
		run.FilePath = res.Files[0]
	}

	if err := e.runs.Create(run); err != nil {
		e.logger.Warn("failed to record export run", "job", res.Job.String(), "error", err)
		return
	}
	res.RunID = run.RunID
}

func (r *JobResult) fail(err error) {
	r.Err = err
	r.Reason = err.Error()
}
