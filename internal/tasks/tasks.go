// package tasks implements bulk export of paginated catalog resources.
package tasks

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/api"
	"github.com/desertthunder/spotkit/internal/formatter"
	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
	"github.com/desertthunder/spotkit/internal/shared"
)

// Kind names an exportable paginated resource.
type Kind string

const (
	SavedTracks     Kind = "saved-tracks"
	SavedAlbums     Kind = "saved-albums"
	SavedShows      Kind = "saved-shows"
	Playlists       Kind = "playlists"
	PlaylistTracks  Kind = "playlist-tracks"
	AlbumTracks     Kind = "album-tracks"
	ArtistAlbums    Kind = "artist-albums"
	ShowEpisodes    Kind = "show-episodes"
	FollowedArtists Kind = "followed-artists"
	TopTracks       Kind = "top-tracks"
	TopArtists      Kind = "top-artists"
	NewReleases     Kind = "new-releases"
)

// Kinds lists every supported kind.
var Kinds = []Kind{
	SavedTracks, SavedAlbums, SavedShows, Playlists, PlaylistTracks, AlbumTracks,
	ArtistAlbums, ShowEpisodes, FollowedArtists, TopTracks, TopArtists, NewReleases,
}

// NeedsResource reports whether the kind is scoped to one album, artist, playlist or show.
func (k Kind) NeedsResource() bool {
	switch k {
	case PlaylistTracks, AlbumTracks, ArtistAlbums, ShowEpisodes:
		return true
	}
	return false
}

// Job is one resource to export.
type Job struct {
	Kind       Kind   `json:"kind"`
	ResourceID string `json:"resource_id,omitempty"`
}

// ParseJob parses "kind" or "kind:id".
func ParseJob(s string) (Job, error) {
	kind, id, _ := strings.Cut(strings.TrimSpace(s), ":")
	job := Job{Kind: Kind(kind), ResourceID: id}
	return job, job.Validate()
}

// Validate checks the kind is known and the resource id is present exactly when needed.
func (j Job) Validate() error {
	if !slices.Contains(Kinds, j.Kind) {
		return fmt.Errorf("%w: unknown export kind %q", shared.ErrInvalidArgument, j.Kind)
	}
	if j.Kind.NeedsResource() && j.ResourceID == "" {
		return fmt.Errorf("%w: %s requires an id (%s:<id>)", shared.ErrMissingArgument, j.Kind, j.Kind)
	}
	if !j.Kind.NeedsResource() && j.ResourceID != "" {
		return fmt.Errorf("%w: %s does not take an id", shared.ErrInvalidArgument, j.Kind)
	}
	return nil
}

// String returns the job in ParseJob form.
func (j Job) String() string {
	if j.ResourceID == "" {
		return string(j.Kind)
	}
	return string(j.Kind) + ":" + j.ResourceID
}

// Basename is the output file name without extension.
func (j Job) Basename() string {
	if j.ResourceID == "" {
		return string(j.Kind)
	}
	return string(j.Kind) + "_" + j.ResourceID
}

// RunRecorder persists export history. repositories.ExportRunRepository satisfies it.
type RunRecorder interface {
	Create(run *models.ExportRun) error
}

// Exporter streams resources from the Web API into formatted output.
type Exporter struct {
	api    *api.Client
	runs   RunRecorder
	images formatter.Doer
	logger *log.Logger

	recordMu sync.Mutex // serializes run inserts from workers
}

// ExporterOption configures an [Exporter].
type ExporterOption func(*Exporter)

// WithRunRecorder records one [models.ExportRun] per bulk export job.
func WithRunRecorder(r RunRecorder) ExporterOption {
	return func(e *Exporter) { e.runs = r }
}

// WithImageClient enables cover art downloads for Markdown bulk exports.
func WithImageClient(d formatter.Doer) ExporterOption {
	return func(e *Exporter) { e.images = d }
}

// WithLogger sets the logger used for job-level events.
func WithLogger(l *log.Logger) ExporterOption {
	return func(e *Exporter) { e.logger = l }
}

// NewExporter creates an Exporter over c.
func NewExporter(c *api.Client, opts ...ExporterOption) *Exporter {
	e := &Exporter{api: c, logger: shared.DiscardLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Exporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ExportOpts controls a single export.
type ExportOpts struct {
	Format   formatter.Format
	Limit    int // stop after this many items; zero means all
	PageSize int // items requested per page; zero uses the API default
	Market   string
	Range    models.TimeRange
}

// Export streams job into w and returns the number of items written.
func (e *Exporter) Export(ctx context.Context, w io.Writer, job Job, opts ExportOpts) (int, error) {
	if err := job.Validate(); err != nil {
		return 0, err
	}

	page := api.PageOptions{Limit: opts.PageSize, Market: opts.Market}
	title := job.String()

	switch job.Kind {
	case SavedTracks:
		p, err := e.api.SavedTracksPager(ctx, page)
		return stream(ctx, w, opts, title, formatter.SavedTrackColumns, p, err)
	case SavedAlbums:
		p, err := e.api.SavedAlbumsPager(ctx, page)
		return stream(ctx, w, opts, title, formatter.SavedAlbumColumns, p, err)
	case SavedShows:
		p, err := e.api.SavedShowsPager(ctx, page)
		return stream(ctx, w, opts, title, formatter.SavedShowColumns, p, err)
	case Playlists:
		p, err := e.api.CurrentUserPlaylistsPager(ctx, page)
		return stream(ctx, w, opts, title, formatter.PlaylistColumns, p, err)
	case PlaylistTracks:
		p, err := e.api.PlaylistTracksPager(ctx, job.ResourceID, page)
		return stream(ctx, w, opts, title, formatter.PlaylistTrackColumns, p, err)
	case AlbumTracks:
		p, err := e.api.AlbumTracksPager(ctx, job.ResourceID, page)
		return stream(ctx, w, opts, title, formatter.SimplifiedTrackColumns, p, err)
	case ArtistAlbums:
		p, err := e.api.ArtistAlbumsPager(ctx, job.ResourceID, api.ArtistAlbumsOptions{Limit: opts.PageSize, Country: opts.Market})
		return stream(ctx, w, opts, title, formatter.AlbumColumns, p, err)
	case ShowEpisodes:
		p, err := e.api.ShowEpisodesPager(ctx, job.ResourceID, page)
		return stream(ctx, w, opts, title, formatter.EpisodeColumns, p, err)
	case FollowedArtists:
		p, err := e.api.FollowedArtistsPager(ctx, opts.PageSize)
		return stream(ctx, w, opts, title, formatter.ArtistColumns, p, err)
	case TopTracks:
		p, err := e.api.TopTracksPager(ctx, api.TopOptions{Limit: opts.PageSize, TimeRange: opts.Range})
		return stream(ctx, w, opts, title, formatter.TrackColumns, p, err)
	case TopArtists:
		p, err := e.api.TopArtistsPager(ctx, api.TopOptions{Limit: opts.PageSize, TimeRange: opts.Range})
		return stream(ctx, w, opts, title, formatter.ArtistColumns, p, err)
	case NewReleases:
		p, err := e.api.NewReleasesPager(ctx, api.BrowseOptions{Limit: opts.PageSize, Country: opts.Market})
		return stream(ctx, w, opts, title, formatter.AlbumColumns, p, err)
	}
	return 0, fmt.Errorf("%w: unknown export kind %q", shared.ErrInvalidArgument, job.Kind)
}

func stream[T any](ctx context.Context, w io.Writer, opts ExportOpts, title string, cols formatter.Columns[T], p *pager.Pager[T], err error) (int, error) {
	if err != nil {
		return 0, err
	}

	fw := formatter.NewWriter(w, opts.Format, title, cols)
	for item, err := range p.All(ctx) {
		if err != nil {
			return fw.Count(), err
		}
		if err := fw.Write(item); err != nil {
			return fw.Count(), err
		}
		if opts.Limit > 0 && fw.Count() >= opts.Limit {
			break
		}
	}
	return fw.Count(), fw.Close()
}

// CoverImageURL returns the largest image of an album or show job, or "" for kinds without one.
func (e *Exporter) CoverImageURL(ctx context.Context, job Job) (string, error) {
	var images []models.Image
	switch job.Kind {
	case AlbumTracks:
		album, err := e.api.Album(ctx, job.ResourceID, "")
		if err != nil {
			return "", err
		}
		images = album.Images
	case ShowEpisodes:
		show, err := e.api.Show(ctx, job.ResourceID, "")
		if err != nil {
			return "", err
		}
		images = show.Images
	}
	if len(images) == 0 {
		return "", nil
	}
	return images[0].URL, nil
}
