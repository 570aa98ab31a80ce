package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotkit/internal/api"
	"github.com/desertthunder/spotkit/internal/client"
	"github.com/desertthunder/spotkit/internal/clock"
	"github.com/desertthunder/spotkit/internal/oauth"
	"github.com/desertthunder/spotkit/internal/repositories"
	"github.com/desertthunder/spotkit/internal/shared"
	"github.com/desertthunder/spotkit/internal/tasks"
	"github.com/desertthunder/spotkit/internal/tokencache"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The token cache, API client and history database are opened lazily so commands that
// never talk to Spotify (setup, help) work without credentials.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	customHTTP bool
	clock      clock.Clock
	logger     *log.Logger
	output     io.Writer
	input      io.Reader

	cache     oauth.TokenCache
	exchanger *oauth.Exchanger
	api       *api.Client
	db        *sql.DB
	closers   []io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Clock      clock.Clock
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader

	// Cache replaces the configured token cache backend.
	Cache oauth.TokenCache
	// API replaces the client built from the configuration.
	API *api.Client
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	customHTTP := opts.HTTPClient != nil
	if !customHTTP {
		opts.HTTPClient = client.NewHTTPClient(opts.Config.HTTP)
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		customHTTP: customHTTP,
		clock:      opts.Clock,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		cache:      opts.Cache,
		api:        opts.API,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, meCommand, albumsCommand, artistsCommand, showsCommand,
		libraryCommand, followCommand, playlistsCommand, browseCommand, topCommand,
		exportCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// LoadConfig reads the configuration at path and applies its log level and HTTP settings.
// A missing file falls back to defaults unless required is set.
func (r *Runner) LoadConfig(path string, required bool) error {
	r.configPath = path

	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return err
		}
	} else if required {
		return fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	r.config = config
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(config.Log.Level))
	if !r.customHTTP {
		r.httpClient = client.NewHTTPClient(config.HTTP)
	}
	return nil
}

// SetLogger replaces the logger, e.g. to keep logs off the terminal while the TUI runs.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the token cache and database handles opened by commands.
func (r *Runner) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

func (r *Runner) credentials() (oauth.ClientCredentials, error) {
	s := r.config.Credentials.Spotify
	if err := s.Validate(); err != nil {
		return oauth.ClientCredentials{}, err
	}
	return oauth.ClientCredentials{ClientID: s.ClientID, ClientSecret: s.ClientSecret, RedirectURI: s.RedirectURI}, nil
}

func (r *Runner) tokenCache(ctx context.Context) (oauth.TokenCache, error) {
	if r.cache != nil {
		return r.cache, nil
	}

	c, err := tokencache.Open(ctx, r.config.Cache, r.logger)
	if err != nil {
		return nil, err
	}
	r.cache = c
	r.closers = append(r.closers, c)
	r.logger.Debug("token cache opened", "backend", c.Backend())
	return c, nil
}

func (r *Runner) oauthExchanger() (*oauth.Exchanger, error) {
	if r.exchanger != nil {
		return r.exchanger, nil
	}
	creds, err := r.credentials()
	if err != nil {
		return nil, err
	}
	r.exchanger = oauth.NewExchanger(r.httpClient, r.clock, creds)
	return r.exchanger, nil
}

// client returns the Web API client, refreshing an expired token first.
func (r *Runner) client(ctx context.Context) (*api.Client, error) {
	if r.api != nil {
		return r.api, nil
	}

	cache, err := r.tokenCache(ctx)
	if err != nil {
		return nil, err
	}
	exchanger, err := r.oauthExchanger()
	if err != nil {
		return nil, err
	}

	token := cache.Current()
	if token == nil {
		return nil, fmt.Errorf("%w: run 'spotkit auth login' first", shared.ErrMissingToken)
	}
	if token.Expired(r.clock) && token.RefreshToken != "" {
		r.logger.Debug("cached token expired, refreshing")
		fresh, err := exchanger.Refresh(ctx, *token)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh token: %w", err)
		}
		if err := cache.Update(ctx, fresh); err != nil {
			return nil, err
		}
	}

	d := client.New(r.httpClient, cache, client.WithLogger(r.logger))
	r.api = api.New(client.NewRefreshing(d, exchanger))
	return r.api, nil
}

// history opens the export history database.
func (r *Runner) history(ctx context.Context) (*repositories.ExportRunRepository, error) {
	if r.db == nil {
		db, err := shared.OpenDatabase(ctx, r.config.Database)
		if err != nil {
			return nil, err
		}
		r.db = db
		r.closers = append(r.closers, db)
	}
	return repositories.NewExportRunRepository(r.db), nil
}

func (r *Runner) exporter(ctx context.Context, record bool) (*tasks.Exporter, error) {
	c, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	opts := []tasks.ExporterOption{
		tasks.WithLogger(r.logger),
		tasks.WithImageClient(r.httpClient),
	}
	if record {
		repo, err := r.history(ctx)
		if err != nil {
			r.logger.Warn("export history unavailable", "error", err)
		} else {
			opts = append(opts, tasks.WithRunRecorder(repo))
		}
	}
	return tasks.NewExporter(c, opts...), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
