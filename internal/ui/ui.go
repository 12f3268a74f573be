package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/freshcast/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunView ViewState = iota
	ResultView
)

const maxEventLines = 8

// Model represents the TUI application state for a curation run.
//
// The run executes in a background goroutine; result and err are written there and read
// from the event loop, so access goes through the mutex.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	view         ViewState
	engine       *tasks.CurateEngine
	dryRun       bool
	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	events       []string
	done         chan struct{}
	mu           sync.Mutex
	result       *tasks.CurationResult
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.quit}}
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.CurationResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.CurateEngine, dryRun bool) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title

	ctx, cancel := context.WithCancel(ctx)

	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		view:    RunView,
		engine:  engine,
		dryRun:  dryRun,
		spinner: sp,
		done:    make(chan struct{}),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Result returns the run's result and error, for callers that need the outcome after
// the program exits. When a run was started it cancels the run context and waits for
// the background goroutine, so an early quit still yields the settled outcome.
func (m *Model) Result() (*tasks.CurationResult, error) {
	if m.progressChan != nil {
		m.cancel()
		<-m.done
	}
	return m.outcome()
}

func (m *Model) outcome() (*tasks.CurationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result, m.err
}

func (m *Model) setOutcome(result *tasks.CurationResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = result
	m.err = err
}

// Init starts the curation run in the background and begins consuming progress.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			m.cancel()
			return m, tea.Quit
		}
		if m.view == ResultView {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		m.events = append(m.events, m.progress.Message)
		if len(m.events) > maxEventLines {
			m.events = m.events[len(m.events)-maxEventLines:]
		}
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.setOutcome(msg.result, msg.err)
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Run(m.ctx, m.progressChan, m.dryRun)
		m.setOutcome(result, err)
		close(m.progressChan)
		close(m.done)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			result, err := m.outcome()
			return runCompleteMsg{result: result, err: err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Curating playlist")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n\n", m.spinner.View(), m.progress.Message))

	for _, event := range m.events {
		b.WriteString(styles.help.Render(event))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderResult() string {
	result, err := m.outcome()

	if err != nil {
		return styles.err.Render(fmt.Sprintf("Run failed: %v\n\nPress any key to exit", err))
	}

	if result == nil {
		return styles.err.Render("No result available\n\nPress any key to exit")
	}

	var b strings.Builder

	if result.Written {
		b.WriteString(styles.ok.Render("✓ Playlist updated"))
	} else {
		b.WriteString(styles.warn.Render("Playlist left untouched"))
	}

	b.WriteString(fmt.Sprintf("\n\nPlaylist: %s (%s)\n", result.Playlist.Name, result.Playlist.ID))
	b.WriteString(fmt.Sprintf("Episodes selected: %d\n\n", len(result.EpisodeURIs)))

	for i, outcome := range result.Outcomes {
		switch outcome.Outcome {
		case tasks.Included:
			name := outcome.Query
			if outcome.Show != nil {
				name = outcome.Show.Name
			}
			b.WriteString(styles.ok.Render(fmt.Sprintf("%d. ✓ %s", i+1, name)))
		case tasks.Duplicate:
			b.WriteString(styles.warn.Render(fmt.Sprintf("%d. – %s (duplicate)", i+1, outcome.Query)))
		default:
			b.WriteString(styles.warn.Render(fmt.Sprintf("%d. ✗ %s (%s)", i+1, outcome.Query, outcome.Outcome)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.help.Render("Press any key to exit"))
	return b.String()
}
