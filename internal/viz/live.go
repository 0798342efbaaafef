package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nkrah/opengate-nils/internal/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	barDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88"))

	barRestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444466"))

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))
)

type progressMsg int

type doneMsg struct{}

type tickMsg time.Time

type liveModel struct {
	total    int
	done     int
	start    time.Time
	events   <-chan int
	finished <-chan struct{}
}

func (m liveModel) Init() tea.Cmd {
	return tea.Batch(m.waitEvent(), tick())
}

func (m liveModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case n, ok := <-m.events:
			if !ok {
				return nil
			}
			return progressMsg(n)
		case <-m.finished:
			return doneMsg{}
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.done = int(msg)
		return m, m.waitEvent()
	case doneMsg:
		m.done = m.total
		return m, tea.Quit
	case tickMsg:
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m liveModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("gate run"))
	sb.WriteString("\n\n")

	const width = 50
	frac := 0.0
	if m.total > 0 {
		frac = float64(m.done) / float64(m.total)
	}
	filled := int(frac * width)
	if filled > width {
		filled = width
	}
	sb.WriteString(barDoneStyle.Render(strings.Repeat("█", filled)))
	sb.WriteString(barRestStyle.Render(strings.Repeat("░", width-filled)))
	sb.WriteString(fmt.Sprintf(" %d/%d events\n\n", m.done, m.total))

	elapsed := time.Since(m.start).Truncate(100 * time.Millisecond)
	sb.WriteString(statStyle.Render(fmt.Sprintf("elapsed %v   press q to abort view", elapsed)))
	sb.WriteString("\n")
	return sb.String()
}

// RunLive executes the run with a terminal progress view. The run
// itself continues to completion in the background goroutine; the
// returned result is the run's.
func RunLive(ctx context.Context, rm *engine.RunManager) (*engine.Result, error) {
	events := make(chan int, 16)
	finished := make(chan struct{})
	rm.Progress = events

	// completion is signalled by closing finished, never by a value
	// send; the view's pending wait command and the drain below must
	// both observe it
	var result *engine.Result
	var runErr error
	go func() {
		result, runErr = rm.Run(ctx)
		close(finished)
	}()

	model := liveModel{
		total:    rm.TotalEvents(),
		start:    time.Now(),
		events:   events,
		finished: finished,
	}
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, err
	}
	// view quit early or on completion; either way the run finishes
	<-finished
	return result, runErr
}
