package main

import (
	"fmt"
	"strings"

	"sonar-report/cmd/sonar-report/report"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type browseState int

const (
	stateList browseState = iota
	stateDetail
)

var (
	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleOverlay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3).
			MarginLeft(2)

	styleKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	styleCritical = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	styleMajor    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	styleMinor    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
)

type browseModel struct {
	table      table.Model
	projectKey string
	result     report.Result
	state      browseState
}

func newBrowseModel(projectKey string, res report.Result) browseModel {
	columns := []table.Column{
		{Title: "SEVERITY", Width: 9},
		{Title: "RULE", Width: 22},
		{Title: "LINE", Width: 6},
		{Title: "COMPONENT", Width: 40},
		{Title: "CREATED", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(recordRows(res.Records)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return browseModel{
		table:      t,
		projectKey: projectKey,
		result:     res,
		state:      stateList,
	}
}

func recordRows(records []report.Record) []table.Row {
	rows := make([]table.Row, len(records))
	for i, r := range records {
		rows[i] = table.Row{r.Severity, r.Rule, r.Line, r.Component, r.CreationDate}
	}
	return rows
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateDetail:
		return m.updateDetail(msg)
	default:
		return m.updateList(msg)
	}
}

func (m browseModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if len(m.result.Records) > 0 {
				m.state = stateDetail
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "enter":
			m.state = stateList
		}
	}
	return m, nil
}

func (m browseModel) selected() (report.Record, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.result.Records) {
		return report.Record{}, false
	}
	return m.result.Records[idx], true
}

func (m browseModel) summary() string {
	c := m.result.Counts
	return fmt.Sprintf("%d issues  %s  %s  %s",
		c.Total(),
		styleCritical.Render(fmt.Sprintf("%d critical", c.Critical)),
		styleMajor.Render(fmt.Sprintf("%d major", c.Major)),
		styleMinor.Render(fmt.Sprintf("%d minor", c.Minor)),
	)
}

func (m browseModel) View() string {
	title := styleTitle.Render(m.projectKey+"  vulnerabilities") + " " + m.summary()
	tableView := styleBase.Render(m.table.View())

	if m.state == stateDetail {
		if r, ok := m.selected(); ok {
			var b strings.Builder
			fmt.Fprintf(&b, "%s %s\n\n", styleKey.Render(r.Severity), r.Message)
			fmt.Fprintf(&b, "Rule:      %s\n", r.Rule)
			fmt.Fprintf(&b, "Component: %s\n", r.Component)
			if r.Line != "" {
				fmt.Fprintf(&b, "Line:      %s\n", r.Line)
			}
			fmt.Fprintf(&b, "Status:    %s\n", r.Status)
			fmt.Fprintf(&b, "Created:   %s\n", r.CreationDate)
			fmt.Fprintf(&b, "Key:       %s", r.Key)
			help := styleHelp.Render("esc / enter  back    q  quit")
			return title + "\n" + tableView + "\n" + styleOverlay.Render(b.String()) + "\n" + help
		}
	}
	help := styleHelp.Render("↑/↓  navigate    enter  details    q  quit")
	return title + "\n" + tableView + "\n" + help
}
