package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrDetached is returned by ShowProgress when the user closes the display
// with Ctrl+C. The operation itself keeps running.
var ErrDetached = errors.New("progress display closed; operation still running")

// Progress is one update from a bulk operation.
type Progress struct {
	Done  int
	Total int
}

// Reporter returns a callback that forwards updates to ch without ever
// blocking the operation. Updates are dropped while ch is full.
func Reporter(ch chan<- Progress) func(done, total int) {
	return func(done, total int) {
		select {
		case ch <- Progress{Done: done, Total: total}:
		default:
		}
	}
}

type progressMsg Progress

type closedMsg struct{}

type tickMsg time.Time

type progressModel struct {
	progress   progress.Model
	current    Progress
	label      string
	done       bool
	detached   bool
	progressCh <-chan Progress
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		waitForProgress(m.progressCh),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForProgress(ch <-chan Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return progressMsg(p)
	}
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.detached = true
			return m, tea.Quit
		}

	case tickMsg:
		if m.done {
			return m, tea.Quit
		}
		return m, tickCmd()

	case closedMsg:
		m.done = true
		return m, tea.Quit

	case progressMsg:
		m.current = Progress(msg)
		return m, waitForProgress(m.progressCh)

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		return m, nil
	}

	return m, nil
}

func (m progressModel) percent() float64 {
	if m.current.Total <= 0 {
		return 0
	}
	return float64(m.current.Done) / float64(m.current.Total)
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf(
		"%s\n%s\n%s\n",
		StyleHeader.Render(m.label),
		m.progress.ViewAs(m.percent()),
		StyleHelp.Render(fmt.Sprintf("%d / %d items (%.0f%%)", m.current.Done, m.current.Total, m.percent()*100)),
	)
}

// ShowProgress displays a progress bar fed by progressCh until the channel
// is closed.
func ShowProgress(label string, progressCh <-chan Progress) error {
	prog := progress.New(progress.WithDefaultGradient())

	m := progressModel{
		progress:   prog,
		label:      label,
		progressCh: progressCh,
	}

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(progressModel); ok && fm.detached {
		return ErrDetached
	}
	return nil
}
