package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/jyotish/pkg/dasha"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listActiveStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// dashaBrowser - Interactive timeline navigation
// =============================================================================

// dashaBrowser is the bubbletea model for browsing a dasha tree one level
// at a time.
type dashaBrowser struct {
	tree *dasha.Tree
	now  time.Time

	path   []int // IDs of the periods descended into
	items  []dasha.Period
	cursor int
	offset int
	height int

	// cursors remembers the cursor of every level above the current one.
	cursors []int
}

func newDashaBrowser(t *dasha.Tree, now time.Time) dashaBrowser {
	m := dashaBrowser{tree: t, now: now, items: t.Mahas(), height: 15}
	for i, p := range m.items {
		if p.Contains(now) {
			m.cursor = i
		}
	}
	m.scroll()
	return m
}

func (m dashaBrowser) Init() tea.Cmd {
	return nil
}

func (m dashaBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", "right", "l":
			m = m.descend()
		case "backspace", "left", "h":
			m = m.ascend()
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-7, 5)
		m.scroll()
	}
	return m, nil
}

func (m dashaBrowser) descend() dashaBrowser {
	if len(m.items) == 0 {
		return m
	}
	p := m.items[m.cursor]
	children := m.tree.Children(p.ID)
	if len(children) == 0 {
		return m
	}
	m.path = append(append([]int(nil), m.path...), p.ID)
	m.cursors = append(append([]int(nil), m.cursors...), m.cursor)
	m.items = children
	m.cursor, m.offset = 0, 0
	return m
}

func (m dashaBrowser) ascend() dashaBrowser {
	if len(m.path) == 0 {
		return m
	}
	m.path = m.path[:len(m.path)-1]
	m.cursor = m.cursors[len(m.cursors)-1]
	m.cursors = m.cursors[:len(m.cursors)-1]
	if len(m.path) == 0 {
		m.items = m.tree.Mahas()
	} else {
		m.items = m.tree.Children(m.path[len(m.path)-1])
	}
	return m
}

// scroll keeps the cursor inside the visible window.
func (m *dashaBrowser) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// breadcrumb names the periods descended into.
func (m dashaBrowser) breadcrumb() string {
	parts := []string{titleCase(m.tree.System)}
	for _, id := range m.path {
		parts = append(parts, m.tree.Nodes[id].Name)
	}
	return strings.Join(parts, " › ")
}

func (m dashaBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.breadcrumb()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ sub-periods  ⌫ back  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.items))
	for i := m.offset; i < end; i++ {
		p := m.items[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-10s %s  %s  %s", cursor, p.Name,
			p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly), formatSpan(p.End.Sub(p.Start)))

		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case p.Contains(m.now):
			b.WriteString(listActiveStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.items))))
	return b.String()
}
