package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-runner/internal/career"
	"github.com/vovakirdan/tui-runner/internal/race"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// Records layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the view sidebar
	sidebarWidth       = 20  // Width of the view sidebar
	maxArchived        = 100 // Max archived results to load
)

// recordView identifies one page of the records browser.
type recordView int

const (
	viewRecent recordView = iota
	viewBests
	viewCareer
)

var viewTitles = []string{"Recent Races", "Personal Bests", "Career Records"}

// RecordsKeyMap defines the key bindings for the records browser.
type RecordsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextView key.Binding
	PrevView key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RecordsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.PrevView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RecordsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Back, k.Quit},
	}
}

// DefaultRecordsKeyMap returns default key bindings.
func DefaultRecordsKeyMap() RecordsKeyMap {
	return RecordsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev view"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next view"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RecordsModel is the Bubble Tea model for the records browser.
type RecordsModel struct {
	store       *storage.Store
	stats       career.PlayerStats
	hasCareer   bool
	view        recordView
	table       table.Model
	empty       bool
	help        help.Model
	keys        RecordsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewRecordsModel creates a new records browser.
func NewRecordsModel(store *storage.Store, stats career.PlayerStats, hasCareer bool, width, height int) RecordsModel {
	h := help.New()
	h.ShowAll = false

	m := RecordsModel{
		store:       store,
		stats:       stats,
		hasCareer:   hasCareer,
		keys:        DefaultRecordsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.rebuildTable()
	return m
}

// rebuildTable recreates the table for the current view and dimensions.
func (m *RecordsModel) rebuildTable() {
	var columns []table.Column
	var rows []table.Row

	switch m.view {
	case viewRecent:
		columns = []table.Column{
			{Title: "Date", Width: 12},
			{Title: "Race", Width: 8},
			{Title: "Meet", Width: 22},
			{Title: "Time", Width: 9},
			{Title: "Place", Width: 6},
			{Title: "Score", Width: 6},
		}
		rows = m.recentRows()
	case viewBests:
		columns = []table.Column{
			{Title: "Race", Width: 8},
			{Title: "Time", Width: 9},
			{Title: "Meet", Width: 26},
			{Title: "Date", Width: 12},
		}
		rows = m.bestRows()
	case viewCareer:
		columns = []table.Column{
			{Title: "Race", Width: 8},
			{Title: "Time", Width: 9},
			{Title: "Place", Width: 6},
			{Title: "Set At", Width: 26},
		}
		rows = m.careerRows()
	}

	m.empty = len(rows) == 0

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m.table = t
}

// recentRows loads the newest archived results.
func (m *RecordsModel) recentRows() []table.Row {
	if m.store == nil {
		return nil
	}
	entries, err := m.store.Results(maxArchived)
	if err != nil {
		return nil
	}
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			formatArchiveDate(e.CreatedAt),
			e.RaceType,
			e.Meet,
			formatArchiveTime(e),
			formatArchivePlace(e),
			fmt.Sprintf("%d", e.Score),
		})
	}
	return rows
}

// bestRows loads the fastest finished result per discipline.
func (m *RecordsModel) bestRows() []table.Row {
	if m.store == nil {
		return nil
	}
	entries, err := m.store.BestResults()
	if err != nil {
		return nil
	}
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{
			e.RaceType,
			race.FormatTime(e.TimeSecs),
			e.Meet,
			formatArchiveDate(e.CreatedAt),
		})
	}
	return rows
}

// careerRows lists the career ledger's standing records.
func (m *RecordsModel) careerRows() []table.Row {
	if !m.hasCareer {
		return nil
	}
	var rows []table.Row
	for _, typ := range []race.Type{race.Sprint, race.Mile, race.Country} {
		rec, ok := m.stats.Records[typ]
		if !ok {
			continue
		}
		rows = append(rows, table.Row{
			string(typ),
			race.FormatTime(rec.Time),
			humanize.Ordinal(rec.Position),
			rec.Meet,
		})
	}
	return rows
}

func formatArchiveDate(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Format("Jan 02 15:04")
}

func formatArchiveTime(e storage.ResultEntry) string {
	if !e.Finished {
		return "DNF"
	}
	return race.FormatTime(e.TimeSecs)
}

func formatArchivePlace(e storage.ResultEntry) string {
	if !e.Finished {
		return "-"
	}
	return humanize.Ordinal(e.Position)
}

// Init initializes the records model.
func (m RecordsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records browser.
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView), key.Matches(msg, m.keys.Right):
			m.view = (m.view + 1) % recordView(len(viewTitles))
			m.rebuildTable()
			return m, nil

		case key.Matches(msg, m.keys.PrevView), key.Matches(msg, m.keys.Left):
			m.view--
			if m.view < 0 {
				m.view = recordView(len(viewTitles)) - 1
			}
			m.rebuildTable()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.rebuildTable()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the records browser.
func (m RecordsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("RECORDS - %s", viewTitles[m.view])
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the browser with a sidebar for view selection.
func (m RecordsModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Views\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, name := range viewTitles {
		cursor := "  "
		style := lipgloss.NewStyle()
		if recordView(i) == m.view {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	sidebarRendered := sidebarStyle.Render(sidebar.String())

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarRendered, "  ", tableRendered)
}

// renderNarrowLayout renders the browser with view tabs above the table.
func (m RecordsModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(viewTitles))
	for i, name := range viewTitles {
		if recordView(i) == m.view {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(" " + name + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if len(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", viewTitles[m.view])
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m RecordsModel) renderTableContent() string {
	if m.empty {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		if m.view == viewCareer && !m.hasCareer {
			return emptyStyle.Render("No career yet.\nRun a race to start one!")
		}
		return emptyStyle.Render("Nothing recorded yet.\nRun a race to fill the archive!")
	}

	return m.table.View()
}

// IsGoingBack returns true if the user backed out rather than quit.
func (m RecordsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the user wants to quit entirely.
func (m RecordsModel) IsQuitting() bool {
	return m.quitting
}

// RunRecords runs the records browser screen.
// Returns true if the user wants to go back rather than quit.
func RunRecords(store *storage.Store, stats career.PlayerStats, hasCareer bool, width, height int) (goBack bool, err error) {
	model := NewRecordsModel(store, stats, hasCareer, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(RecordsModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
