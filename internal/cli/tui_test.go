package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/jyotish/pkg/dasha"
)

func testTree(t *testing.T) *dasha.Tree {
	t.Helper()
	tree, err := dasha.Build(dasha.Vimshottari, time.Date(1990, 5, 17, 4, 30, 0, 0, time.UTC), 45, 120)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	return tree
}

func press(m dashaBrowser, keys ...tea.KeyType) dashaBrowser {
	for _, k := range keys {
		next, _ := m.Update(tea.KeyMsg{Type: k})
		m = next.(dashaBrowser)
	}
	return m
}

func TestDashaBrowserStartsAtActivePeriod(t *testing.T) {
	tree := testTree(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := newDashaBrowser(tree, now)

	if !m.items[m.cursor].Contains(now) {
		t.Errorf("cursor on %s, want the maha running at %v", m.items[m.cursor].Name, now)
	}
}

func TestDashaBrowserNavigation(t *testing.T) {
	tree := testTree(t)
	m := newDashaBrowser(tree, tree.Birth)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want first maha", m.cursor)
	}

	m = press(m, tea.KeyDown)
	second := m.items[1]
	m = press(m, tea.KeyEnter)
	if len(m.items) != second.Count || m.items[0].Parent != second.ID {
		t.Fatalf("enter did not descend into %s", second.Name)
	}
	if !strings.Contains(m.breadcrumb(), second.Name) {
		t.Errorf("breadcrumb %q missing %s", m.breadcrumb(), second.Name)
	}

	m = press(m, tea.KeyEnter)
	if m.items[0].Level != dasha.Pratyantar {
		t.Fatalf("second enter reached level %v", m.items[0].Level)
	}
	depth := len(m.path)
	m = press(m, tea.KeyEnter)
	if len(m.path) != depth {
		t.Error("enter descended below pratyantar")
	}

	m = press(m, tea.KeyBackspace, tea.KeyBackspace)
	if len(m.path) != 0 || m.cursor != 1 {
		t.Errorf("back to top: path %v cursor %d, want [] 1", m.path, m.cursor)
	}
	m = press(m, tea.KeyBackspace)
	if m.cursor != 1 {
		t.Error("backspace at top level moved the cursor")
	}
}

func TestDashaBrowserScroll(t *testing.T) {
	m := newDashaBrowser(testTree(t), time.Time{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = next.(dashaBrowser)
	if m.height != 5 {
		t.Fatalf("height = %d, want 5", m.height)
	}
	for i := 0; i < 7; i++ {
		m = press(m, tea.KeyDown)
	}
	if m.offset != 3 {
		t.Errorf("offset = %d, want 3 with cursor %d", m.offset, m.cursor)
	}
	if !strings.Contains(m.View(), "[8/") {
		t.Errorf("View() missing position indicator:\n%s", m.View())
	}
}

func TestTimelineRows(t *testing.T) {
	tree := testTree(t)
	mahas := len(tree.Mahas())

	if got := len(timelineRows(tree, dasha.Maha, time.Time{})); got != mahas {
		t.Errorf("maha rows = %d, want %d", got, mahas)
	}
	want := mahas
	for _, p := range tree.Mahas() {
		want += p.Count
	}
	rows := timelineRows(tree, dasha.Antar, time.Time{})
	if len(rows) != want {
		t.Errorf("antar rows = %d, want %d", len(rows), want)
	}
	if !strings.Contains(rows[1][0], "antar") {
		t.Errorf("second row %v is not the first antar", rows[1])
	}
}

func TestFormatSpan(t *testing.T) {
	const day = 24 * time.Hour
	tests := []struct {
		d    time.Duration
		want string
	}{
		{7305 * day, "20y 0m 0d"},
		{365*day + 6*time.Hour, "1y 0m 0d"},
		{45 * day, "0y 1m 14d"},
	}
	for _, tt := range tests {
		if got := formatSpan(tt.d); got != tt.want {
			t.Errorf("formatSpan(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := parseLevel("ANTAR"); err != nil || l != dasha.Antar {
		t.Errorf("parseLevel(ANTAR) = %v, %v", l, err)
	}
	if _, err := parseLevel("sookshma"); err == nil {
		t.Error("parseLevel(sookshma) accepted an unknown level")
	}
}
