// Package ui implements the interactive terminal org chart.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/orgchart/pkg/debug"
	"github.com/vanderheijden86/orgchart/pkg/metrics"
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
	"github.com/vanderheijden86/orgchart/pkg/view"
	"github.com/vanderheijden86/orgchart/pkg/watcher"
)

// FileChangedMsg is sent when the watched CSV changes on disk.
type FileChangedMsg struct{}

// ForestLoadedMsg carries the result of a reload.
type ForestLoadedMsg struct {
	Forest model.Forest
	Err    error
}

// ReloadFunc rebuilds the forest from its source.
type ReloadFunc func(ctx context.Context) (model.Forest, error)

// Options configures NewModel.
type Options struct {
	Title       string
	HideDetails bool
	Reload      ReloadFunc       // nil disables 'r' and file reloads
	Watcher     *watcher.Watcher // optional, started by the caller
}

const reloadTimeout = 10 * time.Second

// WatchFileCmd waits for the next change notification.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadCmd runs fn off the UI goroutine.
func ReloadCmd(fn ReloadFunc) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		forest, err := fn(ctx)
		return ForestLoadedMsg{Forest: forest, Err: err}
	}
}

// Model is the bubbletea model for the chart.
type Model struct {
	session *view.Session
	theme   Theme
	title   string
	reload  ReloadFunc
	watcher *watcher.Watcher

	input     textinput.Model
	searching bool

	rows   []row
	cursor int
	offset int

	width      int
	height     int
	showDetail bool
	md         *glamour.TermRenderer

	status    string
	statusErr bool
}

// NewModel wraps a session whose forest is already set.
func NewModel(session *view.Session, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "name, title or team"
	ti.CharLimit = 80
	ti.SetValue(session.Query())

	title := opts.Title
	if title == "" {
		title = "Organization Chart"
	}

	m := Model{
		session:    session,
		theme:      DefaultTheme(lipgloss.DefaultRenderer()),
		title:      title,
		reload:     opts.Reload,
		watcher:    opts.Watcher,
		input:      ti,
		width:      100,
		height:     30,
		showDetail: !opts.HideDetails,
	}
	m.rows = flatten(session.View())
	if m.showDetail {
		m.md = newMarkdownRenderer(m.paneWidth() - 4)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil && m.reload != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.md = newMarkdownRenderer(m.paneWidth() - 4)
		m.ensureVisible()
		return m, nil

	case FileChangedMsg:
		var cmds []tea.Cmd
		if m.reload != nil {
			m.setStatus("source changed, reloading…", false)
			cmds = append(cmds, ReloadCmd(m.reload))
		}
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case ForestLoadedMsg:
		if msg.Err != nil {
			debug.Log("ui: reload failed: %v", msg.Err)
			m.setStatus(fmt.Sprintf("reload failed: %v", msg.Err), true)
			return m, nil
		}
		m.refresh(m.session.SetForest(msg.Forest))
		m.setStatus(fmt.Sprintf("reloaded %d people", orgtree.CountNodes(msg.Forest)), false)
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.searching = false
		m.input.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.input.Blur()
		m.input.SetValue("")
		m.refresh(m.session.SetQuery(""))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.session.Query() {
		m.refresh(m.session.SetQuery(m.input.Value()))
	}
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "pgdown", "ctrl+d":
		m.move(m.bodyHeight())
	case "pgup", "ctrl+u":
		m.move(-m.bodyHeight())
	case "g", "home":
		m.cursor = 0
		m.ensureVisible()
	case "G", "end":
		m.cursor = len(m.rows) - 1
		m.ensureVisible()
	case "/":
		m.searching = true
		cmd := m.input.Focus()
		return m, cmd
	case "esc":
		if m.session.Query() != "" {
			m.input.SetValue("")
			m.refresh(m.session.SetQuery(""))
		}
	case "enter", " ":
		m.click()
	case "d":
		m.showDetail = !m.showDetail
	case "r":
		if m.reload != nil {
			m.setStatus("reloading…", false)
			return m, ReloadCmd(m.reload)
		}
	}
	return m, nil
}

// click toggles the selected section or copies the selected email.
func (m *Model) click() {
	n, ok := m.Selected()
	if !ok {
		return
	}
	res, err := m.session.Click(n.ID)
	switch {
	case err != nil:
		m.setStatus(err.Error(), true)
	case res == view.ClickToggled:
		m.refresh(m.session.View())
	case res == view.ClickCopied:
		m.setStatus(fmt.Sprintf("copied %s", n.Email), false)
	}
}

// refresh re-flattens tree keeping the cursor on the same id when it is
// still displayed.
func (m *Model) refresh(tree view.DisplayTree) {
	var selected string
	if n, ok := m.Selected(); ok {
		selected = n.ID
	}
	m.rows = flatten(tree)
	m.cursor = 0
	for i, r := range m.rows {
		if r.node.ID == selected {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
}

func (m *Model) move(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// bodyHeight is the number of chart rows that fit between header and
// footer.
func (m Model) bodyHeight() int {
	if h := m.height - 4; h > 1 {
		return h
	}
	return 1
}

// Selected returns the node under the cursor.
func (m Model) Selected() (view.Node, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return view.Node{}, false
	}
	return m.rows[m.cursor].node, true
}

// Status returns the current status line.
func (m Model) Status() string {
	return m.status
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	tree := m.session.View()
	var sb strings.Builder
	sb.WriteString(m.renderHeader(tree))
	sb.WriteString("\n")

	body := m.renderBody(tree)
	if m.showDetail && !tree.Empty() && m.width >= 80 {
		body = m.withDetail(body)
	}
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderHeader(tree view.DisplayTree) string {
	left := m.theme.Header.Render(m.title)
	var right string
	switch {
	case m.searching:
		right = m.input.View()
	case tree.Query != "":
		right = m.theme.MutedText.Render(fmt.Sprintf("/%s · %d matches", tree.Query, tree.Matches))
	default:
		right = m.theme.MutedText.Render(fmt.Sprintf("%d shown", tree.Count()))
	}
	return left + "  " + right
}

func (m Model) renderBody(tree view.DisplayTree) string {
	if tree.Empty() {
		return m.theme.Empty.Render(tree.Message())
	}

	width := m.width
	if m.showDetail && m.width >= 80 {
		width = m.chartWidth()
	}

	h := m.bodyHeight()
	end := m.offset + h
	if end > len(m.rows) {
		end = len(m.rows)
	}
	lines := make([]string, 0, h)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r row, selected bool, width int) string {
	n := r.node
	label := marker(n) + n.Label()
	detail := ""
	if n.Title != "" {
		detail = " · " + n.Title
	}
	detail += suffix(n)

	avail := width - len([]rune(r.prefix)) - 1
	label = truncateRunesHelper(label, avail, "…")
	detail = truncateRunesHelper(detail, avail-lipgloss.Width(label), "…")

	line := m.theme.Guide.Render(r.prefix) + m.theme.NodeStyle(n).Render(label) + m.theme.MutedText.Render(detail)
	if selected {
		return m.theme.Selected.Render(padRight(r.prefix+label+detail, width-1))
	}
	return line
}

// paneWidth is the width of the detail pane; the chart takes the rest.
func (m Model) paneWidth() int {
	return m.width - m.chartWidth() - 2
}

func (m Model) chartWidth() int {
	return m.width * 3 / 5
}

func (m Model) withDetail(body string) string {
	n, ok := m.Selected()
	if !ok {
		return body
	}
	pane := m.theme.Pane.Width(m.paneWidth()).Render(renderDetail(m.md, detailMarkdown(n)))
	left := lipgloss.NewStyle().Width(m.chartWidth()).Render(body)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, pane)
}

func (m Model) renderFooter() string {
	help := "j/k move · enter toggle/copy · / search · esc clear · d details · q quit"
	if m.reload != nil {
		help = "j/k move · enter toggle/copy · / search · esc clear · d details · r reload · q quit"
	}
	if m.status == "" {
		return m.theme.Status.Render(help)
	}
	if m.statusErr {
		return m.theme.Error.Render(m.status)
	}
	return m.theme.Status.Render(m.status)
}
