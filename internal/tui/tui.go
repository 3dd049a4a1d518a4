// Package tui provides a Bubble Tea terminal user interface for crate.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zenone/crate/internal/config"
	"github.com/zenone/crate/internal/engine"
	"github.com/zenone/crate/internal/operation"
	"github.com/zenone/crate/internal/renamer"
	"github.com/zenone/crate/internal/undo"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxPlannedRows bounds the preview list so long batches stay readable.
const maxPlannedRows = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StatePreviewing
	StateConfirm
	StateRenaming
	StateComplete
	StateError
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	eng       *engine.Engine
	err       error

	// Batch context
	ctx    context.Context
	cancel context.CancelFunc

	// Preview and rename progress
	preview     *renamer.Status
	opID        string
	done        int
	total       int
	currentFile string
	final       *renamer.Status

	// Undo
	undoResult *undo.Result
	undoErr    error

	// Options
	recursive bool

	width  int
	height int
}

// NewModel creates a new TUI model around a configured engine.
func NewModel(eng *engine.Engine, settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/your/crate"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	if wd, err := os.Getwd(); err == nil {
		ti.SetValue(wd)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		eng:       eng,
		ctx:       ctx,
		cancel:    cancel,
		recursive: settings.Recursive,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// PreviewDoneMsg is sent when the dry-run pass completes.
	PreviewDoneMsg struct {
		Status *renamer.Status
		Err    error
	}

	// RenameStartedMsg carries the id of the launched batch.
	RenameStartedMsg struct {
		ID string
	}

	// PollTickMsg asks the model to poll the running batch.
	PollTickMsg struct{}

	// UndoDoneMsg is sent when an undo attempt finishes.
	UndoDoneMsg struct {
		Result *undo.Result
		Err    error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelBatch()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateConfirm {
				m.state = StateInput
				m.preview = nil
				m.textInput.Focus()
				return m, textinput.Blink
			}
			if m.state == StatePreviewing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}
			if m.state == StateRenaming {
				m.cancelBatch()
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StatePreviewing
				return m, tea.Batch(m.runPreview(), m.spinner.Tick)
			}
			if m.state == StateConfirm {
				m.state = StateRenaming
				return m, tea.Batch(m.startRename(), m.spinner.Tick)
			}

		case "y":
			if m.state == StateConfirm {
				m.state = StateRenaming
				return m, tea.Batch(m.startRename(), m.spinner.Tick)
			}

		case "n":
			if m.state == StateConfirm {
				m.state = StateInput
				m.preview = nil
				m.textInput.Focus()
				return m, textinput.Blink
			}

		case "r":
			if m.state == StateInput {
				m.recursive = !m.recursive
			}
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, textinput.Blink
			}

		case "u":
			if m.state == StateComplete && m.canUndo() {
				return m, m.runUndo()
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case PreviewDoneMsg:
		if m.state != StatePreviewing {
			// The user already backed out of this preview.
			break
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if msg.Status.Renamed == 0 {
			// Nothing would move, so there is nothing to confirm.
			m.final = msg.Status
			m.state = StateComplete
		} else {
			m.preview = msg.Status
			m.state = StateConfirm
		}

	case RenameStartedMsg:
		m.opID = msg.ID
		cmds = append(cmds, m.tickPoll())

	case PollTickMsg:
		if m.state == StateRenaming && m.opID != "" {
			cmds = append(cmds, m.pollBatch()...)
		}

	case UndoDoneMsg:
		if msg.Err != nil {
			m.undoErr = msg.Err
		} else {
			m.undoResult = msg.Result
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// pollBatch refreshes progress from the engine and decides whether the
// batch reached a terminal state.
func (m *Model) pollBatch() []tea.Cmd {
	op, ok := m.eng.Poll(m.opID)
	if !ok {
		m.state = StateError
		m.err = fmt.Errorf("operation %s is no longer tracked", m.opID)
		return nil
	}

	m.done = op.Progress
	m.total = op.Total
	m.currentFile = op.CurrentFile

	switch op.State {
	case operation.StateRunning:
		var percent float64
		if op.Total > 0 {
			percent = float64(op.Progress) / float64(op.Total)
		}
		return []tea.Cmd{m.progress.SetPercent(percent), m.tickPoll()}

	case operation.StateError:
		m.err = op.Err
		m.state = StateError
		m.eng.ClearOperation(m.opID)
		return nil

	default:
		// Completed or cancelled batches both carry a final status.
		m.final = op.Status
		m.state = StateComplete
		m.eng.ClearOperation(m.opID)
		return nil
	}
}

// tickPoll returns a command to poll the running batch.
func (m Model) tickPoll() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return PollTickMsg{}
	})
}

// cancelBatch requests cooperative cancellation of the running batch.
func (m *Model) cancelBatch() {
	m.cancel()
	if m.opID != "" {
		m.eng.CancelOperation(m.opID)
	}
}

// canUndo reports whether the finished batch still offers its one-shot
// undo.
func (m Model) canUndo() bool {
	return m.final != nil && m.final.UndoSessionID != "" && m.undoResult == nil
}

// reset prepares the model for another batch. The path survives so the
// same crate can be re-run after a template change.
func (m *Model) reset() {
	m.state = StateInput
	m.preview = nil
	m.final = nil
	m.opID = ""
	m.done = 0
	m.total = 0
	m.currentFile = ""
	m.undoResult = nil
	m.undoErr = nil
	m.err = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.Focus()
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎧 Crate"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Batch-rename audio files from their tags"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StatePreviewing:
		b.WriteString(m.viewPreviewing())
	case StateConfirm:
		b.WriteString(m.viewConfirm())
	case StateRenaming:
		b.WriteString(m.viewRenaming())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter crate directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	recursiveCheck := "[ ]"
	if m.recursive {
		recursiveCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Include subdirectories (r)\n", recursiveCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Template: %s", m.settings.DefaultTemplate)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewPreviewing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Reading tags and planning renames..."))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewConfirm() string {
	var b strings.Builder

	planned := m.preview.Moves()
	b.WriteString(successStyle.Render(fmt.Sprintf("%d file(s) will be renamed:", len(planned))))
	b.WriteString("\n")
	for i, mv := range planned {
		if i == maxPlannedRows {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  … and %d more", len(planned)-maxPlannedRows)))
			b.WriteString("\n")
			break
		}
		b.WriteString(fileStyle.Render(fmt.Sprintf("  ♪ %s → %s",
			filepath.Base(mv.Source), filepath.Base(mv.Destination))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.preview.Skipped > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d file(s) skipped", m.preview.Skipped)))
		b.WriteString("\n")
	}
	if m.preview.Errors > 0 {
		b.WriteString(warningStyle.Render(fmt.Sprintf("%d file(s) with unreadable tags:", m.preview.Errors)))
		b.WriteString("\n")
		shown := 0
		for _, res := range m.preview.Results {
			if res.Status != renamer.StatusError {
				continue
			}
			if shown == maxPlannedRows {
				break
			}
			b.WriteString(errorStyle.Render(fmt.Sprintf("  ✗ %s: %s", filepath.Base(res.Source), res.Message)))
			b.WriteString("\n")
			shown++
		}
	}

	return b.String()
}

func (m Model) viewRenaming() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Renaming..."))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.done, m.total)))
	b.WriteString("\n")
	if m.currentFile != "" {
		b.WriteString(dimStyle.Render(filepath.Base(m.currentFile)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	if m.final == nil {
		b.WriteString(successStyle.Render("Done."))
		return b.String()
	}

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Batch Complete!\n\n"+
			"Renamed: %d\n"+
			"Skipped: %d\n"+
			"Errors:  %d",
		m.final.Renamed,
		m.final.Skipped,
		m.final.Errors,
	))
	b.WriteString(box)
	b.WriteString("\n")

	if m.final.Renamed == 0 && !m.final.Cancelled {
		b.WriteString(dimStyle.Render("Nothing to rename."))
		b.WriteString("\n")
	}
	if m.final.Cancelled {
		b.WriteString(warningStyle.Render("Batch was cancelled before all files were processed."))
		b.WriteString("\n")
	}
	if m.undoResult != nil {
		b.WriteString(successStyle.Render(fmt.Sprintf(
			"↩ Restored %d of %d file(s)", m.undoResult.Restored, m.undoResult.Total)))
		b.WriteString("\n")
	}
	if m.undoErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Undo failed: %s", m.undoErr.Error())))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: preview • r: recursive • esc: quit"
	case StatePreviewing:
		return "esc: cancel"
	case StateConfirm:
		return "y/enter: rename • n/esc: back"
	case StateRenaming:
		return "esc: cancel"
	case StateComplete:
		if m.canUndo() {
			return "u: undo • r: new batch • q: quit"
		}
		return "r: new batch • q: quit"
	case StateError:
		return "r: new batch • q: quit"
	}
	return ""
}

// request builds the batch request from the current input state.
func (m Model) request() renamer.Request {
	return renamer.Request{
		Path:      strings.TrimSpace(m.textInput.Value()),
		Recursive: m.recursive,
	}
}

// runPreview performs the dry-run pass in the background.
func (m Model) runPreview() tea.Cmd {
	ctx := m.ctx
	eng := m.eng
	req := m.request()
	return func() tea.Msg {
		status, err := eng.Preview(ctx, req)
		return PreviewDoneMsg{Status: status, Err: err}
	}
}

// startRename launches the batch asynchronously.
func (m Model) startRename() tea.Cmd {
	eng := m.eng
	req := m.request()
	return func() tea.Msg {
		return RenameStartedMsg{ID: eng.StartAsync(req)}
	}
}

// runUndo reverses the finished batch.
func (m Model) runUndo() tea.Cmd {
	eng := m.eng
	sessionID := m.final.UndoSessionID
	return func() tea.Msg {
		res, err := eng.Undo(sessionID)
		return UndoDoneMsg{Result: res, Err: err}
	}
}

// Run starts the TUI application.
func Run() error {
	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}

	eng := engine.New(engine.Options{
		Executor:        renamer.New(settings.ToExecutorOptions()),
		DefaultTemplate: settings.DefaultTemplate,
		UndoTTL:         settings.UndoTTL(),
	})

	p := tea.NewProgram(NewModel(eng, settings), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
