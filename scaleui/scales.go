// Package scaleui is a browsable table of the scale registry.
package scaleui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rapidmidiex/lambvoice/keymap"
	"github.com/rapidmidiex/lambvoice/pitch"
	"github.com/rapidmidiex/lambvoice/scale"
	"github.com/rapidmidiex/lambvoice/styles"
)

type (
	ScaleSelected struct {
		Name string
	}

	// Closed is sent when the browser is dismissed without a selection.
	Closed struct{}

	Model struct {
		scales     []scale.Scale
		scaleTable table.Model
		min, max   int
	}
)

func New(minPitch, maxPitch int) Model {
	m := Model{
		scales: scale.All(),
		min:    minPitch,
		max:    maxPitch,
	}
	m.scaleTable = makeScalesTable(m)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.scaleTable.SetWidth(msg.Width - 10)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keymap.DefaultMapping.Select):
			if row := m.scaleTable.SelectedRow(); row != nil {
				cmds = append(cmds, scaleSelect(row[0]))
			}
		case key.Matches(msg, keymap.DefaultMapping.GoBack), key.Matches(msg, keymap.DefaultMapping.Scales):
			cmds = append(cmds, closeBrowser)
		}
	}
	newTable, tCmd := m.scaleTable.Update(msg)
	m.scaleTable = newTable

	cmds = append(cmds, tCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	doc := strings.Builder{}
	doc.WriteString(styles.PanelTitle.Render("SCALES") + "\n")
	doc.WriteString(styles.BaseStyle.Render(m.scaleTable.View()))
	if row := m.scaleTable.SelectedRow(); row != nil {
		doc.WriteString("\n" + m.preview(row[0]))
	}
	return doc.String()
}

// Focus moves the cursor to name.
func (m Model) Focus(name string) Model {
	if i := scale.Index(name); i >= 0 {
		m.scaleTable.SetCursor(i)
	}
	return m
}

// preview lists the first notes of a lattice, accidentals dimmed.
func (m Model) preview(name string) string {
	s := scale.Get(name)
	if s.IsFree() {
		return styles.DimStyle.Render(fmt.Sprintf("continuous %.2f Hz and up", pitch.ToFrequency(m.min)))
	}
	notes := scale.Generate(s, m.min, m.max).Notes()
	parts := make([]string, 0, 16)
	for i, n := range notes {
		if i == 16 {
			parts = append(parts, "…")
			break
		}
		if n.IsAccidental {
			parts = append(parts, styles.DimStyle.Render(n.Name))
		} else {
			parts = append(parts, n.Name)
		}
	}
	return strings.Join(parts, " ")
}

func makeScalesTable(m Model) table.Model {
	columns := []table.Column{
		{Title: "Scale", Width: 12},
		{Title: "Intervals", Width: 18},
		{Title: "Notes", Width: 6},
		{Title: "Top", Width: 5},
	}

	rows := make([]table.Row, 0, len(m.scales))
	for _, s := range m.scales {
		if s.IsFree() {
			rows = append(rows, table.Row{s.Name, "-", "-", "-"})
			continue
		}
		l := scale.Generate(s, m.min, m.max)
		steps := make([]string, len(s.Intervals))
		for i, n := range s.Intervals {
			steps[i] = fmt.Sprint(n)
		}
		rows = append(rows, table.Row{
			s.Name,
			strings.Join(steps, " "),
			fmt.Sprintf("%d", l.Len()),
			pitch.Name(l.Top()),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func scaleSelect(name string) tea.Cmd {
	return func() tea.Msg {
		return ScaleSelected{name}
	}
}

func closeBrowser() tea.Msg {
	return Closed{}
}
