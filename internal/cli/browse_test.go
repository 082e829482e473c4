package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coursegraph/coursegraph/pkg/export"
)

func testNodes() []export.Node {
	return []export.Node{
		{ID: 0, Name: "MATH 20A", Year: 0, Quarter: 0, Credits: 4, Blocking: 2, Delay: 3, Complexity: 5},
		{ID: 1, Name: "MATH 20B", Year: 0, Quarter: 1, Credits: 4, Blocking: 1, Delay: 2, Complexity: 3},
		{ID: 2, Name: "CSE 8A", Year: 0, Quarter: 0, Credits: 4, Blocking: 3, Delay: 1, Complexity: 4},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCourseListSortsByNameInitially(t *testing.T) {
	m := newCourseListModel("test.json", testNodes())
	if m.Nodes[0].Name != "CSE 8A" {
		t.Errorf("first node = %q, want CSE 8A", m.Nodes[0].Name)
	}
}

func TestCourseListSortCycle(t *testing.T) {
	m := newCourseListModel("test.json", testNodes())

	// First "s" switches to blocking, descending.
	next, _ := m.Update(keyMsg("s"))
	got := next.(courseListModel)
	if got.Nodes[0].Name != "CSE 8A" || got.Nodes[0].Blocking != 3 {
		t.Errorf("after sort by blocking, first = %q (%v)", got.Nodes[0].Name, got.Nodes[0].Blocking)
	}

	// Second "s" switches to delay.
	next, _ = got.Update(keyMsg("s"))
	got = next.(courseListModel)
	if got.Nodes[0].Name != "MATH 20A" {
		t.Errorf("after sort by delay, first = %q, want MATH 20A", got.Nodes[0].Name)
	}
	if got.Cursor != 0 {
		t.Errorf("cursor should reset on sort, got %d", got.Cursor)
	}
}

func TestCourseListNavigation(t *testing.T) {
	m := newCourseListModel("test.json", testNodes())

	next, _ := m.Update(keyMsg("j"))
	got := next.(courseListModel)
	if got.Cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", got.Cursor)
	}

	next, _ = got.Update(keyMsg("k"))
	got = next.(courseListModel)
	if got.Cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", got.Cursor)
	}

	// Cursor cannot move above the first row.
	next, _ = got.Update(keyMsg("k"))
	got = next.(courseListModel)
	if got.Cursor != 0 {
		t.Errorf("cursor should stay at 0, got %d", got.Cursor)
	}
}

func TestCourseListQuit(t *testing.T) {
	m := newCourseListModel("test.json", testNodes())
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
}

func TestCourseListView(t *testing.T) {
	m := newCourseListModel("test.json", testNodes())
	view := m.View()

	for _, want := range []string{"test.json", "3 courses", "MATH 20A", "CSE 8A", "Blocking"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
