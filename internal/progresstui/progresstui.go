// Package progresstui renders a pipeline.Event stream as a bubbletea
// progress view, one row per spec §5 stage.
//
// Ported from vovakirdan-surge/internal/ui/progress.go's progressModel:
// the same spinner+title+per-item-status-rows+progress-bar layout,
// adapted from a per-file item list (known up front) to a fixed
// four-stage item list, since the compile driver has four named passes
// rather than an arbitrary file set. During StageMonomorphize, events
// additionally carry a drained work-queue item name rather than a new
// row — spec §5 step 1's queue isn't known in advance.
package progresstui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/siko-lang/sikoc/internal/pipeline"
)

var stages = []pipeline.Stage{
	pipeline.StageMonomorphize,
	pipeline.StageLegalize,
	pipeline.StageBoxProp,
	pipeline.StageMirPass,
}

type stageItem struct {
	stage  pipeline.Stage
	status string
}

type model struct {
	title     string
	events    <-chan pipeline.Event
	spinner   spinner.Model
	prog      progress.Model
	items     []stageItem
	index     map[pipeline.Stage]int
	lastItem  string
	itemCount int
	width     int
	done      bool
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewModel returns a bubbletea model rendering events as they arrive.
// The caller is expected to run the compile in its own goroutine,
// feeding events through a pipeline.ChannelSink wrapping the send side
// of the same channel.
func NewModel(title string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]stageItem, len(stages))
	index := make(map[pipeline.Stage]int, len(stages))
	for i, s := range stages {
		items[i] = stageItem{stage: s, status: "pending"}
		index[s] = i
	}
	return &model{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
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
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		m.prog = progModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		name := string(item.stage)
		if item.stage == pipeline.StageMonomorphize && m.itemCount > 0 {
			name = fmt.Sprintf("%s (%d: %s)", name, m.itemCount, truncate(m.lastItem, nameWidth-10))
		}
		name = truncate(name, nameWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, name))
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

func (m *model) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *model) applyEvent(ev pipeline.Event) tea.Cmd {
	if ev.Stage == pipeline.StageMonomorphize && ev.Item != "" && ev.Status != pipeline.StatusDone {
		m.itemCount++
		m.lastItem = ev.Item
	}
	idx, ok := m.index[ev.Stage]
	if ok {
		m.items[idx].status = string(ev.Status)
	}

	done := 0.0
	for i, s := range stages {
		if m.items[i].status == string(pipeline.StatusDone) {
			done++
			continue
		}
		if s == ev.Stage && ev.Status == pipeline.StatusWorking {
			done += 0.5 // partial credit for the in-progress stage
		}
	}
	return m.prog.SetPercent(done / float64(len(stages)))
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case string(pipeline.StatusDone):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case string(pipeline.StatusError):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case string(pipeline.StatusWorking):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
