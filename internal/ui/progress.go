// Package ui renders batch compilation progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"hlrev/internal/batch"
)

const statusWidth = 10

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	cachedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

type rootItem struct {
	name   string
	status string
	weight float64
}

type progressModel struct {
	title    string
	events   <-chan batch.Event
	spinner  spinner.Model
	prog     progress.Model
	items    []rootItem
	index    map[string]int
	maxLines int
	width    int
	failed   int
	done     bool
}

type eventMsg batch.Event
type doneMsg struct{}

// NewProgressModel shows one line per root (names as produced by
// batch.FileNames) and an overall bar, fed from events until it closes.
func NewProgressModel(title string, names []string, events <-chan batch.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]rootItem, len(names))
	index := make(map[string]int, len(names))
	for i, name := range names {
		items[i] = rootItem{name: name, status: string(batch.StatusQueued)}
		index[name] = i
	}
	return &progressModel{
		title:    title,
		events:   events,
		spinner:  sp,
		prog:     prog,
		items:    items,
		index:    index,
		maxLines: 20,
		width:    80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(batch.Event(msg)), m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = max(msg.Width-4, 10)
		}
		if msg.Height > 0 {
			m.maxLines = max(msg.Height-6, 3)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.title
	if m.done {
		header = "done: " + header
		if m.failed > 0 {
			header += fmt.Sprintf(" (%d failed)", m.failed)
		}
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	for _, it := range m.visible() {
		status := styleStatus(it.status).Render(fmt.Sprintf("%*s", statusWidth, it.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(it.name, nameWidth))
	}
	if hidden := len(m.items) - len(m.visible()); hidden > 0 {
		fmt.Fprintf(&b, "  %*s %d more\n", statusWidth, "", hidden)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visible keeps unfinished roots on screen first once the list outgrows
// the terminal.
func (m *progressModel) visible() []rootItem {
	if len(m.items) <= m.maxLines {
		return m.items
	}
	out := make([]rootItem, 0, m.maxLines)
	for _, it := range m.items {
		if it.weight < 1 && len(out) < m.maxLines {
			out = append(out, it)
		}
	}
	for _, it := range m.items {
		if it.weight >= 1 && len(out) < m.maxLines {
			out = append(out, it)
		}
	}
	return out
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev batch.Event) tea.Cmd {
	idx, ok := m.index[ev.Name]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	it.status = statusLabel(ev)
	it.weight = stageWeight(ev)
	if ev.Status == batch.StatusError {
		m.failed++
	}

	total := 0.0
	for _, it := range m.items {
		total += it.weight
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func stageWeight(ev batch.Event) float64 {
	if ev.Terminal() {
		return 1
	}
	if ev.Status != batch.StatusWorking {
		return 0
	}
	switch ev.Stage {
	case batch.StageCache:
		return 0.1
	case batch.StageCompile:
		return 0.3
	case batch.StageWrite:
		return 0.8
	default:
		return 0
	}
}

func statusLabel(ev batch.Event) string {
	switch ev.Status {
	case batch.StatusWorking:
		switch ev.Stage {
		case batch.StageCache:
			return "lookup"
		case batch.StageCompile:
			return "compiling"
		case batch.StageWrite:
			return "writing"
		}
	}
	return string(ev.Status)
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case string(batch.StatusDone):
		return doneStyle
	case string(batch.StatusCached):
		return cachedStyle
	case string(batch.StatusError):
		return errorStyle
	case "lookup", "compiling", "writing":
		return workingStyle
	default:
		return idleStyle
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
