// Package tui is the interactive view over a session: a ranked task or list view with
// inline details, reordering, completion and filtering.
package tui

import (
	"fmt"
	"strings"
	"sync"

	"lista-cli/internal/filter"
	"lista-cli/internal/model"
	"lista-cli/internal/rank"
	"lista-cli/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type viewMode int

const (
	modeTasks viewMode = iota
	modeLists
)

// changeMsg arrives when the session changed outside a key handler, typically a deferred
// re-rank after completing something.
type changeMsg session.Change

type errMsg struct{ err error }

// Notifier turns session callbacks into tea messages. Pass its methods as
// session.Options.OnChange and OnError.
type Notifier struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan tea.Msg, 64), done: make(chan struct{})}
}

func (n *Notifier) OnChange(c session.Change) { n.send(changeMsg(c)) }
func (n *Notifier) OnError(err error)         { n.send(errMsg{err: err}) }

// send drops the message when the buffer is full: any later refresh reads the whole state.
func (n *Notifier) send(msg tea.Msg) {
	select {
	case n.ch <- msg:
	default:
	}
}

// Close releases a pending wait. Call it once the program has exited.
func (n *Notifier) Close() {
	n.once.Do(func() { close(n.done) })
}

func (n *Notifier) wait() tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg := <-n.ch:
			return msg
		case <-n.done:
			return nil
		}
	}
}

type appModel struct {
	sess   *session.Session
	notify *Notifier
	keys   keyMap
	help   help.Model
	md     *markdown

	width  int
	height int

	mode    viewMode
	filters model.LabelFilters
	search  textinput.Model
	typing  bool

	tasks []model.Task
	lists []model.List

	cursor     int
	offset     int
	selectedID string

	status    string
	statusErr bool
}

func newAppModel(sess *session.Session, n *Notifier) appModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search"
	ti.CharLimit = 200

	m := appModel{
		sess:   sess,
		notify: n,
		keys:   defaultKeyMap(),
		help:   help.New(),
		md:     newMarkdown(lipgloss.HasDarkBackground()),
		search: ti,
		width:  80,
		height: 24,
	}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until the user quits.
func Run(sess *session.Session, n *Notifier) error {
	applyColorProfilePreference()
	applyThemePreference()
	p := tea.NewProgram(newAppModel(sess, n), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m appModel) Init() tea.Cmd { return m.notify.wait() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampOffset()
		return m, nil

	case changeMsg:
		m.refresh()
		return m, m.notify.wait()

	case errMsg:
		m.setError(msg.err)
		return m, m.notify.wait()

	case tea.KeyMsg:
		if m.typing {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.typing = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.typing = false
		m.search.Blur()
		m.search.SetValue("")
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor, m.offset, m.selectedID = 0, 0, ""
	m.refresh()
	return m, cmd
}

func (m appModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.statusErr = "", false
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Up):
		m.setCursor(m.cursor - 1)
	case key.Matches(msg, k.Down):
		m.setCursor(m.cursor + 1)
	case key.Matches(msg, k.MoveUp):
		m.move(rank.Up)
	case key.Matches(msg, k.MoveDown):
		m.move(rank.Down)
	case key.Matches(msg, k.MoveTop):
		m.move(rank.Top)
	case key.Matches(msg, k.MoveBottom):
		m.move(rank.Bottom)
	case key.Matches(msg, k.Complete):
		m.toggleComplete()
	case key.Matches(msg, k.Archive):
		m.toggleArchive()
	case key.Matches(msg, k.Delete):
		m.delete()
	case key.Matches(msg, k.Expand):
		if id := m.currentID(); id != "" {
			m.sess.Toggle(id)
		}
	case key.Matches(msg, k.ExpandAll):
		m.sess.ExpandAll()
	case key.Matches(msg, k.CollapseAll):
		m.sess.CollapseAll()
	case key.Matches(msg, k.Search):
		m.typing = true
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, k.Clear):
		m.search.SetValue("")
		m.filters = nil
	case key.Matches(msg, k.Tab):
		if m.mode == modeTasks {
			tab := model.TabArchive
			if m.sess.Prefs().Tab == model.TabArchive {
				tab = model.TabTodos
			}
			m.sess.SetTab(tab)
			m.cursor, m.offset, m.selectedID = 0, 0, ""
		}
	case key.Matches(msg, k.Mode):
		if m.mode == modeTasks {
			m.mode = modeLists
		} else {
			m.mode = modeTasks
		}
		m.cursor, m.offset, m.selectedID = 0, 0, ""
	case key.Matches(msg, k.Sort):
		m.sess.SetSort(m.sess.Prefs().Sort.NextField())
	case key.Matches(msg, k.SortDir):
		spec := m.sess.Prefs().Sort
		spec.Direction = spec.Direction.Reverse()
		m.sess.SetSort(spec)
	case key.Matches(msg, k.Filter):
		ck := model.CompletedKey()
		m.filters = m.filters.Set(ck, m.filters.State(ck).Next())
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m *appModel) move(dir rank.Direction) {
	id := m.currentID()
	if id == "" {
		return
	}
	var err error
	if m.mode == modeTasks {
		_, err = m.sess.MoveTaskDirection(id, dir)
	} else {
		_, err = m.sess.MoveListDirection(id, dir)
	}
	if err != nil {
		m.setError(err)
	}
}

func (m *appModel) toggleComplete() {
	if m.mode != modeTasks {
		m.status = "lists complete through their items (lista lists items complete)"
		return
	}
	t, ok := m.currentTask()
	if !ok {
		return
	}
	if _, err := m.sess.SetTaskCompleted(t.ID, !t.Completed); err != nil {
		m.setError(err)
	}
}

func (m *appModel) toggleArchive() {
	t, ok := m.currentTask()
	if !ok || m.mode != modeTasks {
		return
	}
	if _, err := m.sess.SetTaskArchived(t.ID, !t.Archived); err != nil {
		m.setError(err)
		return
	}
	verb := "archived"
	if t.Archived {
		verb = "unarchived"
	}
	m.status = fmt.Sprintf("%s %q", verb, t.Title)
}

func (m *appModel) delete() {
	id := m.currentID()
	if id == "" {
		return
	}
	var err error
	if m.mode == modeTasks {
		_, err = m.sess.DeleteTask(id)
	} else {
		_, err = m.sess.DeleteList(id)
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.selectedID = ""
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *appModel) refresh() {
	q := filter.Query{Search: m.search.Value(), Filters: m.filters}
	if m.mode == modeTasks {
		m.tasks = m.sess.Tasks(q)
	} else {
		m.lists = m.sess.Lists(q)
	}
	// Keep the selection on the same entry when it moved.
	if m.selectedID != "" {
		for i, id := range m.ids() {
			if id == m.selectedID {
				m.cursor = i
				break
			}
		}
	}
	m.setCursor(m.cursor)
}

func (m *appModel) ids() []string {
	if m.mode == modeTasks {
		out := make([]string, len(m.tasks))
		for i, t := range m.tasks {
			out[i] = t.ID
		}
		return out
	}
	out := make([]string, len(m.lists))
	for i, l := range m.lists {
		out[i] = l.ID
	}
	return out
}

func (m *appModel) setCursor(i int) {
	n := len(m.ids())
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
	m.selectedID = m.currentID()
	m.clampOffset()
}

func (m *appModel) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m appModel) visibleRows() int {
	// Header, blank line, status and help.
	v := m.height - 5
	if v < 3 {
		v = 3
	}
	return v
}

func (m appModel) currentID() string {
	ids := m.ids()
	if m.cursor < 0 || m.cursor >= len(ids) {
		return ""
	}
	return ids[m.cursor]
}

func (m appModel) currentTask() (model.Task, bool) {
	if m.mode != modeTasks || m.cursor < 0 || m.cursor >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m appModel) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	body := m.viewRows()
	if len(body) == 0 {
		what := "tasks"
		if m.mode == modeLists {
			what = "lists"
		}
		body = []string{styleFaint.Render(fmt.Sprintf("No %s.", what))}
	}
	b.WriteString(strings.Join(body, "\n"))
	b.WriteString("\n")

	if m.typing || m.search.Value() != "" {
		b.WriteString("\n" + m.search.View())
	}
	if m.status != "" {
		st := styleStatus
		if m.statusErr {
			st = styleError
		}
		b.WriteString("\n" + st.Render(ansi.Truncate(m.status, m.width, "…")))
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m appModel) viewHeader() string {
	prefs := m.sess.Prefs()
	parts := []string{styleTitle.Render("lista")}
	if m.mode == modeTasks {
		parts = append(parts, styleTabActive.Render("Tasks"), styleTab.Render("Lists"))
		parts = append(parts, styleFaint.Render("["+string(prefs.Tab)+"]"))
	} else {
		parts = append(parts, styleTab.Render("Tasks"), styleTabActive.Render("Lists"))
	}
	parts = append(parts, styleFaint.Render("sort "+prefs.Sort.String()))
	if st := m.filters.State(model.CompletedKey()); st != model.ShowAll {
		parts = append(parts, styleFaint.Render("completed "+string(st)))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, "  "))
}

func (m appModel) viewRows() []string {
	var lines []string
	end := m.offset + m.visibleRows()
	if m.mode == modeTasks {
		for i := m.offset; i < len(m.tasks) && i < end; i++ {
			lines = append(lines, m.taskLines(m.tasks[i], i == m.cursor)...)
		}
		return lines
	}
	for i := m.offset; i < len(m.lists) && i < end; i++ {
		lines = append(lines, m.listLines(m.lists[i], i == m.cursor)...)
	}
	return lines
}

func (m appModel) taskLines(t model.Task, selected bool) []string {
	var meta []string
	if t.Size != "" {
		meta = append(meta, string(t.Size))
	}
	if t.DueDate != nil {
		meta = append(meta, "due "+t.DueDate.Format("2006-01-02"))
	}
	for _, l := range t.Labels {
		meta = append(meta, "#"+l)
	}
	if n := len(t.Subtasks); n > 0 {
		meta = append(meta, fmt.Sprintf("%d/%d", n-t.OpenSubtasks(), n))
	}
	lines := []string{m.row(t.Priority, t.Completed, t.Title, meta, selected)}

	if !m.sess.IsExpanded(t.ID) {
		return lines
	}
	if d := m.md.render(t.Description, m.width-6); d != "" {
		for _, l := range strings.Split(d, "\n") {
			lines = append(lines, "      "+l)
		}
	}
	for _, s := range t.Subtasks {
		lines = append(lines, "      "+checkbox(s.Completed)+" "+s.Title)
	}
	return lines
}

func (m appModel) listLines(l model.List, selected bool) []string {
	done := 0
	for _, it := range l.Items {
		if it.Completed {
			done++
		}
	}
	meta := []string{string(l.Type), fmt.Sprintf("%d/%d", done, len(l.Items))}
	for _, lb := range l.Labels {
		meta = append(meta, "#"+lb)
	}
	lines := []string{m.row(l.Priority, l.AllCompleted(), l.Title, meta, selected)}

	if !m.sess.IsExpanded(l.ID) {
		return lines
	}
	if d := m.md.render(l.Description, m.width-6); d != "" {
		for _, s := range strings.Split(d, "\n") {
			lines = append(lines, "      "+s)
		}
	}
	for i, it := range l.Items {
		bullet := checkbox(it.Completed)
		if l.Type == model.ListOrdered {
			bullet = fmt.Sprintf("%d. %s", i+1, bullet)
		}
		lines = append(lines, "      "+bullet+" "+it.Content)
	}
	return lines
}

func (m appModel) row(priority int, done bool, title string, meta []string, selected bool) string {
	cursor := "  "
	if selected {
		cursor = styleCursor.Render("› ")
	}
	titleStyle := styleRow
	if done {
		titleStyle = styleDone
	}
	line := fmt.Sprintf("%s%3d %s %s", cursor, priority, checkbox(done), titleStyle.Render(title))
	if len(meta) > 0 {
		line += "  " + styleFaint.Render(strings.Join(meta, " "))
	}
	return ansi.Truncate(line, m.width, "…")
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
