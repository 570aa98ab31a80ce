package ui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotkit/internal/api"
	"github.com/desertthunder/spotkit/internal/models"
	"github.com/desertthunder/spotkit/internal/pager"
	"github.com/desertthunder/spotkit/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistsView ViewState = iota
	TracksView
	ExportView
	ResultView
)

// DefaultBatchSize is the number of rows pulled from a pager per load.
const DefaultBatchSize = 50

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	api        *api.Client
	exporter   *tasks.Exporter
	exportOpts tasks.BulkExportOpts
	batchSize  int

	view   ViewState
	width  int
	height int

	playlists     list.Model
	playlistPager *pager.Pager[models.SimplifiedPlaylist]
	playlistsDone bool

	tracks     list.Model
	trackPager *pager.Pager[models.PlaylistTrack]
	tracksDone bool
	selected   models.SimplifiedPlaylist

	loading      bool
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.BulkExportResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model. Exports triggered from the TUI use opts.
func NewModel(ctx context.Context, c *api.Client, exporter *tasks.Exporter, opts tasks.BulkExportOpts) *Model {
	m := &Model{
		ctx:        ctx,
		api:        c,
		exporter:   exporter,
		exportOpts: opts,
		batchSize:  DefaultBatchSize,
		view:       PlaylistsView,
		help:       help.New(),
		keys:       newKeyMap(),
	}
	m.playlists = newList("Your Playlists")
	m.tracks = newList("Tracks")
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// Init loads the first batch of playlists.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.loadPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlists.SetSize(msg.Width-4, msg.Height-6)
		m.tracks.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistsView:
			return m.handlePlaylistKeys(msg)
		case TracksView:
			return m.handleTrackKeys(msg)
		case ExportView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsLoaded:
		b := msg.data.(batch)
		m.loading = false
		m.playlistsDone = b.done
		if b.err != nil {
			m.err = b.err
			return m, nil
		}
		cmd := m.playlists.SetItems(append(m.playlists.Items(), b.items...))
		return m, cmd

	case MsgTracksLoaded:
		b := msg.data.(batch)
		m.loading = false
		m.tracksDone = b.done
		if b.err != nil {
			m.err = b.err
			return m, nil
		}
		cmd := m.tracks.SetItems(append(m.tracks.Items(), b.items...))
		return m, cmd

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgExportComplete:
		out := msg.data.(exportOutcome)
		m.result = out.result
		m.err = out.err
		m.progressChan = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back, q to quit", m.err))
	}

	switch m.view {
	case PlaylistsView:
		return m.renderList(m.playlists, m.playlistsDone, m.keys.enter, m.keys.export, m.keys.more, m.keys.quit)
	case TracksView:
		return m.renderList(m.tracks, m.tracksDone, m.keys.export, m.keys.more, m.keys.back, m.keys.quit)
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m.handleErrorKeys(msg)
	}
	if m.playlists.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if pl, ok := m.playlists.SelectedItem().(playlistItem); ok {
			return m, m.openPlaylist(pl.playlist)
		}
		return m, nil
	case key.Matches(msg, m.keys.export):
		if pl, ok := m.playlists.SelectedItem().(playlistItem); ok {
			return m, m.startExport(pl.playlist)
		}
		return m, nil
	case key.Matches(msg, m.keys.more):
		return m, m.morePlaylists()
	}

	var cmd tea.Cmd
	m.playlists, cmd = m.playlists.Update(msg)
	if atEnd(m.playlists) {
		return m, tea.Batch(cmd, m.morePlaylists())
	}
	return m, cmd
}

func (m *Model) handleTrackKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m.handleErrorKeys(msg)
	}
	if m.tracks.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistsView
		return m, nil
	case key.Matches(msg, m.keys.export):
		return m, m.startExport(m.selected)
	case key.Matches(msg, m.keys.more):
		return m, m.moreTracks()
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	if atEnd(m.tracks) {
		return m, tea.Batch(cmd, m.moreTracks())
	}
	return m, cmd
}

func (m *Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.err = nil
		m.view = PlaylistsView
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart), key.Matches(msg, m.keys.back):
		m.view = PlaylistsView
		m.result = nil
		m.err = nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistsView:
		m.playlists, cmd = m.playlists.Update(msg)
	case TracksView:
		m.tracks, cmd = m.tracks.Update(msg)
	}
	return m, cmd
}

// atEnd reports whether the cursor sits on the last loaded row.
func atEnd(l list.Model) bool {
	n := len(l.Items())
	return n > 0 && l.Index() >= n-1
}

// loadBatch pulls up to n items. A short batch means the pager is exhausted.
func loadBatch[T any](ctx context.Context, p *pager.Pager[T], n int, conv func([]T) []list.Item) ([]list.Item, bool, error) {
	items, err := p.Collect(ctx, n)
	return conv(items), len(items) < n, err
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		if m.playlistPager == nil {
			p, err := m.api.CurrentUserPlaylistsPager(m.ctx, api.PageOptions{Limit: m.batchSize})
			if err != nil {
				return playlistsLoadedMsg(nil, true, err)
			}
			m.playlistPager = p
		}
		items, done, err := loadBatch(m.ctx, m.playlistPager, m.batchSize, playlistItems)
		return playlistsLoadedMsg(items, done, err)
	}
}

func (m *Model) morePlaylists() tea.Cmd {
	if m.loading || m.playlistsDone {
		return nil
	}
	m.loading = true
	return m.loadPlaylists()
}

func (m *Model) openPlaylist(pl models.SimplifiedPlaylist) tea.Cmd {
	m.selected = pl
	m.trackPager = nil
	m.tracksDone = false
	m.tracks.SetItems(nil)
	m.tracks.ResetSelected()
	m.tracks.Title = fmt.Sprintf("Tracks in '%s'", pl.Name)
	m.view = TracksView
	m.loading = true
	return m.loadTracks(pl.ID)
}

func (m *Model) loadTracks(id string) tea.Cmd {
	p := m.trackPager
	return func() tea.Msg {
		if p == nil {
			var err error
			p, err = m.api.PlaylistTracksPager(m.ctx, id, api.PageOptions{Limit: m.batchSize})
			if err != nil {
				return tracksLoadedMsg(nil, true, err)
			}
			m.trackPager = p
		}
		items, done, err := loadBatch(m.ctx, p, m.batchSize, trackItems)
		return tracksLoadedMsg(items, done, err)
	}
}

func (m *Model) moreTracks() tea.Cmd {
	if m.loading || m.tracksDone {
		return nil
	}
	m.loading = true
	return m.loadTracks(m.selected.ID)
}

func (m *Model) startExport(pl models.SimplifiedPlaylist) tea.Cmd {
	if m.exporter == nil {
		return nil
	}
	m.selected = pl
	m.view = ExportView
	m.progress = tasks.ProgressUpdate{Message: "Starting export..."}
	m.progressChan = make(chan tasks.ProgressUpdate, 16)

	ch := m.progressChan
	job := tasks.Job{Kind: tasks.PlaylistTracks, ResourceID: pl.ID}
	opts := m.exportOpts

	go func() {
		defer close(ch)
		result, err := m.exporter.BulkExport(m.ctx, ch, []tasks.Job{job}, opts)
		ch <- tasks.ProgressUpdate{Phase: tasks.Manifest, Data: exportOutcome{result, err}}
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return exportCompleteMsg(m.result, m.err)
		}
		for update := range ch {
			if out, ok := update.Data.(exportOutcome); ok {
				return exportCompleteMsg(out.result, out.err)
			}
			return progressUpdateMsg(update)
		}
		return exportCompleteMsg(nil, fmt.Errorf("export ended without a result"))
	}
}

func (m *Model) renderList(l list.Model, done bool, bindings ...key.Binding) string {
	status := fmt.Sprintf("%d loaded", len(l.Items()))
	switch {
	case m.loading:
		status += " • loading..."
	case done:
		status += " • all loaded"
	}
	return fmt.Sprintf("%s\n%s\n%s", l.View(), styles.status.Render(status), m.help.ShortHelpView(bindings))
}

func (m *Model) renderExport() string {
	title := styles.title.Render(fmt.Sprintf("Exporting '%s'", m.selected.Name))
	return fmt.Sprintf("%s\n\n[%s] %s", title, m.progress.Phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Export failed: %v", m.err)), helpView)
	}
	if m.result == nil || len(m.result.Results) == 0 {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	res := m.result.Results[0]
	if !res.Success() {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("✗ %s: %s", res.Job, res.Reason)), helpView)
	}

	title := styles.ok.Render("✓ Export Complete!")
	info := fmt.Sprintf("\nPlaylist: %s\nItems: %d\nFiles:", m.selected.Name, res.Items)
	for _, f := range res.Files {
		info += "\n  • " + f
	}
	if m.result.ManifestPath != "" {
		info += "\n" + styles.help.Render("Manifest: "+filepath.Base(m.result.ManifestPath))
	}

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
