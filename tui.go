package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"splitkeys/beep"
	"splitkeys/clipboard"
	"splitkeys/hotkey"
	"splitkeys/log"
)

// TUI message types
type ActionMsg struct {
	Action  Action
	Key     hotkey.Key
	Outcome Outcome
	Snap    Snapshot
}
type StatusMsg struct{ Text string } // backend / hook status
type ErrorMsg struct{ Err error }
type tickMsg time.Time

type tuiModel struct {
	sw       *Stopwatch
	bindings Bindings

	snap          Snapshot
	lastAction    string
	status        string
	err           error
	copied        bool
	width, height int
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	timeStyles = map[Phase]lipgloss.Style{
		NotRunning: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
		Running:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Paused:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Ended:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
	}
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	splitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	copiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func NewTUIProgram(sw *Stopwatch, b Bindings) *tea.Program {
	m := tuiModel{sw: sw, bindings: b, snap: sw.Snapshot()}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// tuiSend delivers msg to the running TUI, if any.
func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// tuiSink forwards timer events to the TUI.
type tuiSink struct{}

func (tuiSink) Action(action Action, key hotkey.Key, outcome Outcome, snap Snapshot) {
	tuiSend(ActionMsg{Action: action, Key: key, Outcome: outcome, Snap: snap})
}

func (tuiSink) Status(text string) { tuiSend(StatusMsg{Text: text}) }

func (tuiSink) Error(err error) { tuiSend(ErrorMsg{Err: err}) }

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "c":
			if err := clipboard.Copy(splitsText(m.snap)); err != nil {
				log.Warnf("copy splits: %v", err)
				beep.Play(beep.Error)
				m.err = fmt.Errorf("copy splits: %w", err)
			} else {
				m.copied = true
			}
		}

	case tickMsg:
		if m.sw != nil {
			m.snap = m.sw.Snapshot()
		}
		return m, tuiTick()

	case ActionMsg:
		m.snap = msg.Snap
		m.copied = false
		m.lastAction = fmt.Sprintf("%s (%s): %s", msg.Action, msg.Key, msg.Outcome)

	case StatusMsg:
		m.status = msg.Text

	case ErrorMsg:
		m.err = msg.Err
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var lines []string

	timeStyle, ok := timeStyles[m.snap.Phase]
	if !ok {
		timeStyle = timeStyles[NotRunning]
	}
	lines = append(lines, timeStyle.Render(formatDuration(m.snap.Elapsed))+"  "+dimStyle.Render(phaseLabel(m.snap)))
	lines = append(lines, "")

	if len(m.snap.Splits) == 0 {
		lines = append(lines, dimStyle.Render("No splits yet"))
	} else {
		lines = append(lines, splitRows(m.snap, max(m.height-12, 3))...)
		if m.copied {
			lines = append(lines, copiedStyle.Render("[✓ copied]"))
		}
	}
	lines = append(lines, "")

	if m.lastAction != "" {
		lines = append(lines, dimStyle.Render("last: "+m.lastAction))
	}
	if m.status != "" {
		lines = append(lines, dimStyle.Render(m.status))
	}
	if m.err != nil {
		lines = append(lines, errStyle.Render("error: "+m.err.Error()))
	}
	lines = append(lines, "")

	var help []string
	for _, a := range actions {
		if k, ok := m.bindings[a]; ok {
			help = append(help, keyStyle.Render(k.String())+helpStyle.Render(" "+string(a)))
		}
	}
	lines = append(lines, strings.Join(help, helpStyle.Render("  ")))
	lines = append(lines, keyStyle.Render("c")+helpStyle.Render(" copy splits  ")+keyStyle.Render("q")+helpStyle.Render(" quit"))
	lines = append(lines, helpStyle.Render("splitkeys "+version))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		PaddingLeft(1).
		Render(strings.Join(lines, "\n"))
}

func phaseLabel(snap Snapshot) string {
	label := snap.Phase.String()
	if snap.Segments > 0 {
		label += fmt.Sprintf("  %d/%d", len(snap.Splits), snap.Segments)
	}
	if snap.Paused > 0 {
		label += "  paused " + formatDuration(snap.Paused)
	}
	return label
}

// splitRows renders the most recent splits that fit in limit rows.
func splitRows(snap Snapshot, limit int) []string {
	from := max(len(snap.Splits)-limit, 0)
	rows := make([]string, 0, len(snap.Splits)-from)
	for i := from; i < len(snap.Splits); i++ {
		s := snap.Splits[i]
		if s.Skipped {
			rows = append(rows, skipStyle.Render(fmt.Sprintf("%3d  %10s  %10s", i+1, "skipped", "-")))
			continue
		}
		seg, _ := snap.SegmentTime(i)
		rows = append(rows, splitStyle.Render(fmt.Sprintf("%3d  %10s  %10s", i+1, formatDuration(seg), formatDuration(s.At))))
	}
	return rows
}
