package browse

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	infoColor  = lipgloss.Color("244")
	errorColor = lipgloss.Color("196")

	headerStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
	searchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	infoStyle     = lipgloss.NewStyle().Foreground(infoColor)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

const (
	leftWidth = 20
	midWidth  = 12
	// header, selected uri, status and help lines around the table
	chromeLines = 4
)

// DefaultTickInterval is the chord window used when none is configured.
const DefaultTickInterval = 500 * time.Millisecond

type completionMsg Completion

type tickMsg time.Time

// Model adapts a Controller to bubbletea.
type Model struct {
	ctl     *Controller
	keys    KeyMap
	table   table.Model
	spinner spinner.Model
	help    help.Model
	tick    time.Duration

	width  int
	height int
}

// NewModel wraps ctl. tick is the chord-clearing interval.
func NewModel(ctl *Controller, tick time.Duration) Model {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithHeight(20),
	)
	styles := table.DefaultStyles()
	styles.Selected = selectedStyle
	t.SetStyles(styles)

	return Model{
		ctl:     ctl,
		keys:    ctl.keys,
		table:   t,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		tick:    tick,
		width:   80,
		height:  24,
	}
}

func columns(width int) []table.Column {
	right := width - leftWidth - midWidth - 6
	if right < 10 {
		right = 10
	}
	return []table.Column{
		{Title: "Modified", Width: leftWidth},
		{Title: "Size", Width: midWidth},
		{Title: "Name", Width: right},
	}
}

// Controller returns the wrapped controller.
func (m Model) Controller() *Controller { return m.ctl }

// Init starts the completion, tick and spinner loops, issuing the first
// fetch unless the controller was already loaded.
func (m Model) Init() tea.Cmd {
	if !m.ctl.Started() {
		m.ctl.Start()
	}
	return tea.Batch(
		waitForCompletion(m.ctl.Completions()),
		tickCmd(m.tick),
		m.spinner.Tick,
	)
}

func waitForCompletion(ch <-chan Completion) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return completionMsg(c)
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update processes one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		if m.ctl.Mode() == ModeNormal && key.Matches(msg, m.keys.Help) {
			// any key between the two halves breaks a gg chord
			m.ctl.Tick()
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		}
		if m.ctl.HandleKey(msg) {
			return m, tea.Quit
		}
		m.sync()
		return m, nil
	case completionMsg:
		m.ctl.HandleCompletion(Completion(msg))
		m.sync()
		return m, waitForCompletion(m.ctl.Completions())
	case tickMsg:
		m.ctl.Tick()
		return m, tickCmd(m.tick)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) resize() {
	m.table.SetColumns(columns(m.width))
	m.table.SetWidth(m.width)
	helpLines := 1
	if m.help.ShowAll {
		helpLines = len(m.keys.FullHelp()[0])
	}
	h := m.height - chromeLines - helpLines
	if h < 3 {
		h = 3
	}
	m.table.SetHeight(h)
	m.help.Width = m.width
}

// sync copies the render projection into the table.
func (m *Model) sync() {
	rows, selected, ok := m.ctl.Stack().Render()
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		trows = append(trows, table.Row{r.Left, r.Mid, r.Right})
	}
	m.table.SetRows(trows)
	if ok {
		m.table.SetCursor(selected)
	}
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	header := headerStyle.Render(m.ctl.Header())
	if m.ctl.Loading() {
		header = fmt.Sprintf("%s %s", header, m.spinner.View())
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if uri := m.ctl.SelectedURI(); uri != "" {
		b.WriteString(selectedStyle.Render(uri))
	}
	b.WriteString("\n")

	switch status, isErr := m.ctl.Status(); {
	case m.ctl.Mode() == ModeSearch:
		b.WriteString(searchStyle.Render(m.ctl.Query()))
	case isErr:
		b.WriteString(errorStyle.Render(status))
	case status != "":
		b.WriteString(infoStyle.Render(status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
