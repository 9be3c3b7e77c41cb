// Package tui implements the read-only schema browser behind the inspect
// command: a table list with a per-table detail view of fields and resolved
// relationship accessors.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ormgen/ormgen/internal/resolve"
	"github.com/ormgen/ormgen/internal/schema"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	detailStyle = lipgloss.NewStyle().Padding(0, 2)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// BrowserModel is the bubbletea model for the schema browser.
type BrowserModel struct {
	schema *schema.Schema
	res    *resolve.Resolution
	list   table.Model

	showingDetail bool
	detail        string
}

// NewBrowserModel builds the browser for a validated schema and its
// resolved relationship views.
func NewBrowserModel(s *schema.Schema, res *resolve.Resolution) BrowserModel {
	columns := []table.Column{
		{Title: "Table", Width: 28},
		{Title: "Fields", Width: 8},
		{Title: "Indexes", Width: 8},
		{Title: "Relations", Width: 10},
	}

	rows := make([]table.Row, len(s.Tables))
	for i, t := range s.Tables {
		rows[i] = table.Row{
			t.Name,
			fmt.Sprintf("%d", len(t.Fields)),
			fmt.Sprintf("%d", len(t.Indexes)),
			fmt.Sprintf("%d", len(res.Views(t.Name))),
		}
	}

	list := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 16)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	list.SetStyles(styles)

	return BrowserModel{schema: s, res: res, list: list}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.showingDetail {
				m.showingDetail = false
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			if !m.showingDetail {
				if row := m.list.SelectedRow(); row != nil {
					m.detail = m.renderDetail(row[0])
					m.showingDetail = true
				}
				return m, nil
			}
		}
	}

	if m.showingDetail {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	if m.showingDetail {
		return m.detail + helpStyle.Render("esc: back · q: quit")
	}

	header := titleStyle.Render("Schema: " + m.schema.Name)
	if m.schema.Name == "" {
		header = titleStyle.Render("Schema")
	}
	return header + "\n" + m.list.View() + helpStyle.Render("enter: details · q: quit")
}

func (m BrowserModel) renderDetail(tableName string) string {
	t := m.schema.Table(tableName)
	if t == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Name) + "\n")
	if t.Description != "" {
		b.WriteString(labelStyle.Render(t.Description) + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("Fields") + "\n")
	for _, f := range t.Fields {
		var flags []string
		if f.IsPrimaryKey {
			flags = append(flags, "pk")
		}
		if f.IsUnique {
			flags = append(flags, "unique")
		}
		if f.IsNullable {
			flags = append(flags, "nullable")
		}
		if f.AutoIncrement {
			flags = append(flags, "auto")
		}
		line := fmt.Sprintf("%-24s %-10s %s", f.Name, f.Type, strings.Join(flags, ","))
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	if views := m.res.Views(t.Name); len(views) > 0 {
		b.WriteString("\n" + labelStyle.Render("Relationships") + "\n")
		for _, v := range views {
			b.WriteString(fmt.Sprintf("%-24s %-12s -> %s (%s)\n",
				v.Accessor, v.Cardinality, v.Table, v.Relationship))
		}
	}

	if len(t.Indexes) > 0 {
		b.WriteString("\n" + labelStyle.Render("Indexes") + "\n")
		for _, idx := range t.Indexes {
			b.WriteString(fmt.Sprintf("%-24s [%s]\n", idx.Name, strings.Join(idx.Fields, ", ")))
		}
	}

	return detailStyle.Render(b.String()) + "\n"
}

// Run starts the browser and blocks until the user quits.
func Run(s *schema.Schema, res *resolve.Resolution) error {
	p := tea.NewProgram(NewBrowserModel(s, res), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
