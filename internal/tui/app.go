// Package tui renders a synthesis run in the terminal. It follows The Elm
// Architecture via bubbletea: the model holds the run state, Update reacts
// to messages, View draws the current stage. The engine runs inside a
// tea.Cmd so the UI stays responsive while phases execute.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ralvarado/sigma/internal/engine"
	"github.com/ralvarado/sigma/internal/phase"
)

type stage int

const (
	stageRunning stage = iota
	stageReport
	stageError
)

const (
	minViewportWidth   = 40
	horizontalPadding  = 4
	defaultViewportTop = 6
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	frameStyle  = lipgloss.NewStyle().Padding(0, 2)
)

type runFinishedMsg struct {
	record engine.RunRecord
}

// App is the bubbletea model for a synthesis run.
type App struct {
	eng *engine.Engine
	pc  *phase.Context

	stage    stage
	spinner  spinner.Model
	viewport viewport.Model
	record   engine.RunRecord

	width  int
	height int
	ready  bool
}

// NewApp builds a TUI bound to an engine and a prepared run context.
func NewApp(eng *engine.Engine, pc *phase.Context) *App {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return &App{
		eng:      eng,
		pc:       pc,
		stage:    stageRunning,
		spinner:  spin,
		viewport: vp,
	}
}

// Init starts the spinner and kicks off the run.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.runCmd())
}

func (a *App) runCmd() tea.Cmd {
	return func() tea.Msg {
		record := a.eng.Run(context.Background(), a.pc)
		return runFinishedMsg{record: record}
	}
}

// Update advances the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return a, tea.Quit
		}
		if a.stage == stageReport {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeViewport()
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		if a.stage != stageRunning {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case runFinishedMsg:
		a.record = msg.record
		if a.record.Status == engine.StatusFailed {
			a.stage = stageError
			return a, nil
		}
		a.stage = stageReport
		a.viewport.SetContent(a.reportContent())
		a.viewport.GotoTop()
		return a, nil
	}

	if a.stage == stageReport {
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View renders the current stage.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("sigma synthesis"))
	b.WriteString("\n\n")

	switch a.stage {
	case stageRunning:
		b.WriteString(fmt.Sprintf("%s running %s\n", a.spinner.View(), strings.Join(a.eng.Sequence(), " > ")))
		b.WriteString(statusStyle.Render("press q to abort"))
	case stageError:
		b.WriteString(errStyle.Render("run failed"))
		b.WriteString("\n\n")
		b.WriteString(wordwrap.String(a.record.Error, a.wrapWidth()))
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render("press q to exit"))
	case stageReport:
		b.WriteString(okStyle.Render(a.summaryLine()))
		b.WriteString("\n\n")
		b.WriteString(a.viewport.View())
		b.WriteString("\n")
		b.WriteString(statusStyle.Render("arrows/pgup/pgdn to scroll, q to exit"))
	}
	return frameStyle.Render(b.String())
}

func (a *App) summaryLine() string {
	return fmt.Sprintf("run %s completed: %d insights, %d consensus, %d divergences",
		a.record.RunID, a.record.InsightCount, len(a.record.Consensus), len(a.record.Divergences))
}

// reportContent loads the written report from disk; the record carries its
// path. Falls back to the summary if the file is unreadable.
func (a *App) reportContent() string {
	if a.record.ReportPath != "" {
		if data, err := os.ReadFile(a.record.ReportPath); err == nil {
			return wordwrap.String(string(data), a.wrapWidth())
		}
	}
	return wordwrap.String(a.summaryLine(), a.wrapWidth())
}

func (a *App) wrapWidth() int {
	width := a.width - horizontalPadding
	if width < minViewportWidth {
		width = minViewportWidth
	}
	return width
}

func (a *App) resizeViewport() {
	width := a.wrapWidth()
	height := a.height - defaultViewportTop
	if height < 5 {
		height = 5
	}
	a.viewport.Width = width
	a.viewport.Height = height
	if a.stage == stageReport {
		a.viewport.SetContent(a.reportContent())
	}
}

// Run drives the TUI to completion.
func Run(eng *engine.Engine, pc *phase.Context) error {
	program := tea.NewProgram(NewApp(eng, pc), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
