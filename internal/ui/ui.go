package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackfetch/internal/models"
	"github.com/desertthunder/trackfetch/internal/services"
	"github.com/desertthunder/trackfetch/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TrackListView ViewState = iota
	DetailView
	QueryView
	SearchView
	ResultView
)

// TrackSource loads stored rows for display.
//
// Satisfied by repositories.TrackRepository.
type TrackSource interface {
	Rows(ctx context.Context) ([]models.StoredTrack, error)
}

// SearchRunner runs one search and reports progress on the channel.
//
// Satisfied by [tasks.Pipeline].
type SearchRunner interface {
	Run(ctx context.Context, query, token string, progress chan<- tasks.ProgressUpdate) (*tasks.RunResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	source       TrackSource
	runner       SearchRunner
	token        string
	width        int
	height       int
	trackList    list.Model
	tracks       []models.StoredTrack
	selected     *models.StoredTrack
	input        textinput.Model
	query        string
	progressChan chan tasks.ProgressUpdate
	done         chan searchComplete
	progress     tasks.ProgressUpdate
	result       *tasks.RunResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model.
//
// runner and token are optional; without both the new search key is disabled.
func NewModel(ctx context.Context, source TrackSource, runner SearchRunner, token string) *Model {
	input := textinput.New()
	input.Placeholder = "artist, track, album..."
	input.CharLimit = 200

	trackList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	trackList.Title = "Stored Tracks"

	keys := newKeyMap()
	keys.search.SetEnabled(runner != nil && token != "")

	return &Model{
		ctx:       ctx,
		view:      TrackListView,
		source:    source,
		runner:    runner,
		token:     token,
		trackList: trackList,
		input:     input,
		help:      help.New(),
		keys:      keys,
	}
}

// Init initializes the TUI by loading stored tracks.
func (m *Model) Init() tea.Cmd {
	return m.loadTracks()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case QueryView:
			return m.handleQueryKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case SearchView:
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			return m, nil
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgTracksLoaded:
		data := msg.data.(tracksLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		if m.view != ResultView {
			m.err = nil
		}
		m.tracks = data.tracks
		m.trackList.Title = fmt.Sprintf("Stored Tracks (%d)", len(data.tracks))
		return m, m.trackList.SetItems(trackItems(data.tracks))

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgSearchComplete:
		data := msg.data.(searchComplete)
		m.result = data.result
		m.err = data.err
		m.progressChan = nil
		m.done = nil
		m.view = ResultView
		return m, m.loadTracks()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case TrackListView:
		return m.renderTrackList()
	case DetailView:
		return m.renderDetail()
	case QueryView:
		return m.renderQuery()
	case SearchView:
		return m.renderSearch()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.trackList.SelectedItem().(trackItem); ok {
			track := item.track
			m.selected = &track
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.view = QueryView
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.reload):
		return m, m.loadTracks()
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = TrackListView
		m.selected = nil
	}
	return m, nil
}

func (m *Model) handleQueryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.Blur()
		m.view = TrackListView
		return m, nil
	case tea.KeyEnter:
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.input.Blur()
		m.query = query
		m.view = SearchView
		return m, m.startSearch(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = TrackListView
		m.result = nil
		m.err = nil
	}
	return m, nil
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	case QueryView:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadTracks() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.source.Rows(m.ctx)
		return tracksLoadedMsg(tracks, err)
	}
}

func (m *Model) startSearch(query string) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.done = make(chan searchComplete, 1)

	progress, done := m.progressChan, m.done
	go func() {
		result, err := m.runner.Run(m.ctx, query, m.token, progress)
		done <- searchComplete{result, err}
		close(progress)
	}()

	return m.waitForProgress()
}

// waitForProgress relays one update, or the search result once the progress channel is closed.
func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.done
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			c := <-done
			return searchCompleteMsg(c.result, c.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}

	t := m.selected
	title := styles.title.Render(t.Name)

	var artists []string
	for _, name := range models.SplitArtistNames(t.ArtistNames) {
		artists = append(artists, "  • "+name)
	}

	rows := []string{
		styles.label.Render("ID") + styles.value.Render(fmt.Sprintf("%d", t.ID)),
		styles.label.Render("Album") + styles.value.Render(t.AlbumName),
		styles.label.Render("Artists") + styles.value.Render(t.ArtistNames),
		strings.Join(artists, "\n"),
		styles.label.Render("URL") + styles.value.Render(t.SpotifyURL),
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, strings.Join(rows, "\n"), helpView)
}

func (m *Model) renderQuery() string {
	title := styles.title.Render("New Search")
	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		m.keys.back,
	})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), helpView)
}

func (m *Model) renderSearch() string {
	title := styles.title.Render(fmt.Sprintf("Searching for %q", m.query))

	var phase string
	switch m.progress.Phase {
	case tasks.EncodeQuery, tasks.SearchTracks:
		phase = "Waiting for the search API..."
	case tasks.DecodeResponse:
		phase = "Reading results..."
	case tasks.PersistTracks:
		phase = fmt.Sprintf("Saving tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.ReadBack, tasks.Report:
		phase = "Reloading stored tracks..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Search failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	var summary string
	switch m.result.Outcome.Kind {
	case services.OutcomeAuthFailure:
		summary = styles.warn.Render(tasks.TokenExpiredMessage)
	case services.OutcomeSuccess:
		if m.result.Search.Outcome == models.SearchShapeMismatch {
			summary = styles.warn.Render(tasks.ShapeMismatchMessage)
		} else {
			summary = styles.ok.Render(fmt.Sprintf("✓ Saved %d tracks (%d stored in total)", len(m.result.Fetched), len(m.result.Stored)))
		}
	default:
		summary = styles.err.Render(fmt.Sprintf("Search ended with %s", m.result.Outcome.Kind))
	}

	title := styles.title.Render(fmt.Sprintf("Results for %q", m.query))
	return fmt.Sprintf("%s\n%s\n\n%s", title, summary, helpView)
}
