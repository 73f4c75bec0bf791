package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
	"github.com/vanderheijden86/orgchart/pkg/view"
)

func fixtureForest() model.Forest {
	return orgtree.Build([]model.PersonRecord{
		{ID: "1", DisplayName: "김대표", Title: "CEO"},
		{ID: "100", DisplayName: "Acme Korea", ManagerID: "1"},
		{ID: "2", DisplayName: "Park Min-jun", Title: "Lead", Team: "Platform", ManagerID: "100", Email: "park@example.com"},
		{ID: "3", DisplayName: "Lee Ji-eun", Title: "Engineer", Team: "Platform", ManagerID: "2"},
		{ID: "103", DisplayName: "디자인팀", Team: "Design Studio", ManagerID: "1"},
		{ID: "4", DisplayName: "Sato Yuki", Title: "Designer", Team: "Design Studio", ManagerID: "103"},
		{ID: "5", DisplayName: "Choi Su-bin", Title: "CFO", ManagerID: "1", Email: "choi@example.com"},
	}, orgtree.DefaultOptions())
}

type recordingCopier struct {
	copied []string
	err    error
}

func (c *recordingCopier) Copy(text string) error {
	if c.err != nil {
		return c.err
	}
	c.copied = append(c.copied, text)
	return nil
}

func newTestModel(t *testing.T, copier view.Copier, opts Options) Model {
	t.Helper()
	s := view.NewSession(view.NewMaterializer(view.DefaultSections(), view.ExpandOnMatch), copier, view.SessionOptions{})
	s.SetForest(fixtureForest())
	opts.HideDetails = true
	return NewModel(s, opts)
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func rowIDs(m Model) []string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.node.ID
	}
	return ids
}

func assertRows(t *testing.T, m Model, want ...string) {
	t.Helper()
	got := rowIDs(m)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("rows = %v, want %v", got, want)
	}
}

func TestFlattenPrefixes(t *testing.T) {
	m := view.NewMaterializer(view.DefaultSections(), view.ExpandOnMatch)
	rows := flatten(m.Materialize(fixtureForest(), "", view.NewOpenSet("100")))

	want := []string{
		"",
		"├── ",
		"│   └── ",
		"│       └── ",
		"├── ",
		"└── ",
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, r := range rows {
		if r.prefix != want[i] {
			t.Errorf("row %d (%s): prefix %q, want %q", i, r.node.ID, r.prefix, want[i])
		}
	}
}

func TestMarkerAndSuffix(t *testing.T) {
	closed := view.Node{Section: view.SectionTeam, Hidden: 2}
	if marker(closed) != "▸ " || suffix(closed) != " (+2)" {
		t.Errorf("closed section: %q %q", marker(closed), suffix(closed))
	}
	open := view.Node{Section: view.SectionTeam, Open: true}
	if marker(open) != "▾ " || suffix(open) != "" {
		t.Errorf("open section: %q %q", marker(open), suffix(open))
	}
	if marker(view.Node{}) != "" {
		t.Error("people have no marker")
	}
}

func TestModel_SectionsStartCollapsed(t *testing.T) {
	m := newTestModel(t, nil, Options{})
	assertRows(t, m, "1", "100", "103", "5")
	if !strings.Contains(m.View(), "(+1)") {
		t.Error("collapsed sections should show hidden counts")
	}
}

func TestModel_EnterTogglesSection(t *testing.T) {
	m := newTestModel(t, nil, Options{})
	m = press(t, m, "j", "enter")
	assertRows(t, m, "1", "100", "2", "3", "103", "5")
	if n, _ := m.Selected(); n.ID != "100" {
		t.Errorf("cursor should stay on the toggled section, got %s", n.ID)
	}

	m = press(t, m, "enter")
	assertRows(t, m, "1", "100", "103", "5")
}

func TestModel_EnterCopiesEmail(t *testing.T) {
	c := &recordingCopier{}
	m := newTestModel(t, c, Options{})
	m = press(t, m, "G", "enter")

	if len(c.copied) != 1 || c.copied[0] != "choi@example.com" {
		t.Fatalf("copied = %v", c.copied)
	}
	if m.Status() != "copied choi@example.com" {
		t.Errorf("status = %q", m.Status())
	}
	assertRows(t, m, "1", "100", "103", "5")
}

func TestModel_CopyErrorShownInStatus(t *testing.T) {
	c := &recordingCopier{err: errors.New("no clipboard")}
	m := newTestModel(t, c, Options{})
	m = press(t, m, "G", "enter")
	if !m.statusErr || !strings.Contains(m.Status(), "no clipboard") {
		t.Errorf("expected error status, got %q", m.Status())
	}
}

func TestModel_Search(t *testing.T) {
	m := newTestModel(t, nil, Options{})
	m = press(t, m, "/", "p", "a", "r", "k")
	if !m.searching {
		t.Fatal("expected search mode")
	}
	assertRows(t, m, "1", "100", "2", "3")

	m = press(t, m, "enter")
	if m.searching {
		t.Error("enter should leave search mode")
	}
	assertRows(t, m, "1", "100", "2", "3")
	if !strings.Contains(m.View(), "1 matches") {
		t.Error("header should report matches")
	}

	m = press(t, m, "esc")
	assertRows(t, m, "1", "100", "103", "5")
}

func TestModel_SearchNoResults(t *testing.T) {
	m := newTestModel(t, nil, Options{})
	m = press(t, m, "/", "z", "z", "z")
	if len(m.rows) != 0 {
		t.Fatalf("expected no rows, got %v", rowIDs(m))
	}
	if !strings.Contains(m.View(), `No results for "zzz".`) {
		t.Errorf("expected no-results message in view")
	}
	if _, ok := m.Selected(); ok {
		t.Error("nothing should be selected")
	}
	// Enter on an empty view is a no-op.
	_ = press(t, m, "enter", "enter")
}

func TestModel_EmptyForest(t *testing.T) {
	s := view.NewSession(view.NewMaterializer(view.DefaultSections(), ""), nil, view.SessionOptions{})
	m := NewModel(s, Options{HideDetails: true})
	if !strings.Contains(m.View(), "Organization chart data is missing or not loaded.") {
		t.Error("expected no-data message")
	}
}

func TestModel_Navigation(t *testing.T) {
	m := newTestModel(t, nil, Options{})
	m = press(t, m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor should clamp at top, got %d", m.cursor)
	}
	m = press(t, m, "j", "j", "j", "j", "j")
	if m.cursor != 3 {
		t.Errorf("cursor should clamp at bottom, got %d", m.cursor)
	}
	m = press(t, m, "g")
	if m.cursor != 0 {
		t.Errorf("g should jump to top, got %d", m.cursor)
	}
}

func TestModel_ReloadMessages(t *testing.T) {
	reload := func(context.Context) (model.Forest, error) {
		return orgtree.Build([]model.PersonRecord{{ID: "9", DisplayName: "Solo"}}, orgtree.DefaultOptions()), nil
	}
	m := newTestModel(t, nil, Options{Reload: reload})

	next, _ := m.Update(ForestLoadedMsg{Err: errors.New("disk gone")})
	m = next.(Model)
	if !m.statusErr || !strings.Contains(m.Status(), "disk gone") {
		t.Errorf("status = %q", m.Status())
	}
	assertRows(t, m, "1", "100", "103", "5")

	msg := ReloadCmd(reload)()
	next, _ = m.Update(msg)
	m = next.(Model)
	assertRows(t, m, "9")
	if m.Status() != "reloaded 1 people" {
		t.Errorf("status = %q", m.Status())
	}

	_, cmd := m.Update(FileChangedMsg{})
	if cmd == nil {
		t.Error("file change should schedule a reload")
	}
	_, cmd = m.Update(key("r"))
	if cmd == nil {
		t.Error("r should schedule a reload")
	}
}

func TestModel_WindowResizeKeepsCursorVisible(t *testing.T) {
	m := newTestModel(t, nil, Options{})
	m = press(t, m, "j", "enter", "G")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 6})
	m = next.(Model)
	if m.cursor < m.offset || m.cursor >= m.offset+m.bodyHeight() {
		t.Errorf("cursor %d outside window [%d,%d)", m.cursor, m.offset, m.offset+m.bodyHeight())
	}
}

func TestModel_DetailPane(t *testing.T) {
	s := view.NewSession(view.NewMaterializer(view.DefaultSections(), ""), nil, view.SessionOptions{})
	s.SetForest(fixtureForest())
	m := NewModel(s, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(Model)
	if !strings.Contains(m.View(), "CEO") {
		t.Error("detail pane should describe the selected person")
	}
	m = press(t, m, "d")
	if m.showDetail {
		t.Error("d should hide the detail pane")
	}
}

func TestDetailMarkdown(t *testing.T) {
	md := detailMarkdown(view.Node{
		PersonRecord: model.PersonRecord{ID: "103", DisplayName: "디자인팀", Team: "Design Studio"},
		Section:      view.SectionTeam,
		Hidden:       4,
	})
	for _, want := range []string{"## 디자인팀", "**Team**: Design Studio", "team, collapsed", "4 direct reports"} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in\n%s", want, md)
		}
	}
}

func TestTruncateRunesHelper(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Park Min-jun", 20, "Park Min-jun"},
		{"Park Min-jun", 6, "Par..."},
		{"김대표이사", 5, "김..."},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateRunesHelper(tt.in, tt.width, "..."); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPadRightUsesCells(t *testing.T) {
	if got := padRight("김", 4); got != "김  " {
		t.Errorf("got %q", got)
	}
}
