package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/beads-tui/pkg/config"
	"github.com/vanderheijden86/beads-tui/pkg/debug"
	"github.com/vanderheijden86/beads-tui/pkg/model"
	"github.com/vanderheijden86/beads-tui/pkg/watcher"
)

// errSuspend is returned by the key router to ask for a terminal suspend.
// It is never a failure.
var errSuspend = errors.New("suspend requested")

// pollInterval is the cadence of the refresh check.
const pollInterval = 100 * time.Millisecond

const pageSize = 10

// tickMsg drives the auto-refresh check.
type tickMsg time.Time

// FileChangedMsg is sent when the database changes on disk.
type FileChangedMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// WatchFileCmd waits for the next debounced change from w.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// Options configures a Model.
type Options struct {
	Loader   IssueLoader
	Backend  Mutator
	Watcher  *watcher.Watcher // nil disables live reload
	Renderer *lipgloss.Renderer
	Issues   []model.Issue // initial load

	RefreshInterval time.Duration // 0 disables periodic refresh
	UI              config.UIConfig
	Version         string
}

// Model is the whole interactive state. It has a single owner: the
// bubbletea loop that threads it through Update.
type Model struct {
	ctx      context.Context
	loader   IssueLoader
	backend  Mutator
	watcher  *watcher.Watcher
	keys     KeyMap
	renderer *lipgloss.Renderer
	markdown *markdownCache
	version  string

	issues []model.Issue

	selected     int
	filter       string
	hideClosed   bool
	showLabels   bool
	showDetail   bool
	focus        Focus
	split        int
	detailOffset int

	themeIndex int
	theme      Theme

	state    inputState
	showHelp bool
	dragging bool

	refreshInterval time.Duration
	lastRefresh     time.Time

	statusMsg     string
	statusIsError bool

	width  int
	height int

	err      error
	quitting bool
}

// NewModel returns a Model showing opts.Issues.
func NewModel(opts Options) Model {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	ui := opts.UI
	split := ui.SplitPercent
	if split == 0 {
		split = config.DefaultSplitPercent
	}
	idx := PaletteIndex(ui.Theme)

	return Model{
		ctx:             context.Background(),
		loader:          opts.Loader,
		backend:         opts.Backend,
		watcher:         opts.Watcher,
		keys:            DefaultKeyMap,
		renderer:        r,
		markdown:        newMarkdownCache(r.HasDarkBackground()),
		version:         opts.Version,
		issues:          opts.Issues,
		hideClosed:      ui.HideClosedOrDefault(),
		showLabels:      ui.ShowLabelsOrDefault(),
		focus:           FocusList,
		split:           clampSplit(split),
		themeIndex:      idx,
		theme:           NewTheme(r, Palettes[idx]),
		state:           normalMode{},
		refreshInterval: opts.RefreshInterval,
		lastRefresh:     time.Now(),
		width:           80,
		height:          24,
	}
}

// Init starts the refresh poll and the file watcher.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.refreshInterval > 0 {
		cmds = append(cmds, tickCmd())
	}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error { return m.err }

// Prefs returns the UI preferences as they stand now.
func (m Model) Prefs() config.UIConfig {
	return config.UIConfig{
		Theme:        Palettes[m.themeIndex].Name,
		SplitPercent: m.split,
		HideClosed:   config.Bool(m.hideClosed),
		ShowLabels:   config.Bool(m.showLabels),
	}
}

// Mode returns the current input mode.
func (m Model) Mode() InputMode { return m.state.Mode() }

// Focus returns the focused pane.
func (m Model) Focus() Focus { return m.focus }

// Selected returns the selected row index.
func (m Model) Selected() int { return m.selected }

// Filter returns the filter currently applied to the list.
func (m Model) Filter() string { return m.activeFilter() }

// DetailShown reports whether the detail pane is open.
func (m Model) DetailShown() bool { return m.showDetail }

// Split returns the list share of the body in percent.
func (m Model) Split() int { return m.split }

// StatusMessage returns the status bar text and whether it is an error.
func (m Model) StatusMessage() (string, bool) { return m.statusMsg, m.statusIsError }

// Entries returns the current list rows.
func (m Model) Entries() []ViewEntry { return m.viewOrder() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.refreshInterval <= 0 {
			return m, nil
		}
		if time.Time(msg).Sub(m.lastRefresh) >= m.refreshInterval {
			m.softReload("auto-refresh")
		}
		return m, tickCmd()

	case FileChangedMsg:
		m.softReload("watcher")
		if m.watcher != nil {
			return m, WatchFileCmd(m.watcher)
		}
		return m, nil

	case tea.ResumeMsg:
		m.softReload("resume")
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if msg.Paste {
			m.handlePaste(string(msg.Runes))
			return m, nil
		}
		cmd, err := m.handleKey(msg)
		if errors.Is(err, errSuspend) {
			return m, tea.Suspend
		}
		if err != nil {
			m.err = err
		}
		if m.err != nil {
			m.quitting = true
			return m, tea.Quit
		}
		return m, cmd

	case tea.MouseMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

// reload replaces the issue collection from the store and clamps the
// selection.
func (m *Model) reload() error {
	defer debug.Trace("reload")()
	m.lastRefresh = time.Now()
	if m.loader == nil {
		return nil
	}
	issues, err := m.loader.LoadAll(m.ctx)
	if err != nil {
		return fmt.Errorf("loading issues: %w", err)
	}
	m.issues = issues
	m.markdown.reset()
	m.clampSelection()
	return nil
}

// softReload reloads without ending the program on failure.
func (m *Model) softReload(source string) {
	if err := m.reload(); err != nil {
		debug.Log("%s reload: %v", source, err)
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

func (m *Model) activeFilter() string {
	if s, ok := m.state.(*searchMode); ok {
		return s.query.String()
	}
	return m.filter
}

func (m *Model) viewOrder() []ViewEntry {
	return BuildViewOrder(m.issues, m.hideClosed, m.activeFilter())
}

func (m *Model) selectedIssue() *model.Issue {
	entries := m.viewOrder()
	if m.selected < 0 || m.selected >= len(entries) {
		return nil
	}
	return entries[m.selected].Issue
}

func (m *Model) clampSelection() {
	n := len(m.viewOrder())
	switch {
	case n == 0:
		m.selected = 0
	case m.selected >= n:
		m.selected = n - 1
	case m.selected < 0:
		m.selected = 0
	}
}

func (m *Model) layout() Layout {
	return ComputeLayout(m.width, m.height, m.showDetail, m.split)
}

// listRows is the number of rows visible in the list pane.
func (m *Model) listRows() int {
	return max(m.layout().List.Height-2, 0)
}

// listOffset is the first visible row. It keeps the selection on the last
// visible line once it moves past the first screen.
func (m *Model) listOffset() int {
	rows := m.listRows()
	if rows <= 0 || m.selected < rows {
		return 0
	}
	return m.selected - rows + 1
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, error) {
	switch st := m.state.(type) {
	case *searchMode:
		m.handleSearchKey(st, msg)
		return nil, nil
	case *formMode:
		return nil, m.handleFormKey(st, msg)
	case *promptMode:
		return nil, m.handlePromptKey(st, msg)
	}
	return m.handleNormalKey(msg)
}

func (m *Model) handleSearchKey(st *searchMode, msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter = ""
		m.state = normalMode{}
		m.selected = 0
		return
	case tea.KeyEnter:
		m.filter = st.query.String()
		m.state = normalMode{}
		m.clampSelection()
		return
	}
	before := st.query.Len()
	st.query.HandleKey(msg, false)
	if st.query.Len() != before {
		m.selected = 0
	}
}

func (m *Model) handleFormKey(st *formMode, msg tea.KeyMsg) error {
	switch st.form.HandleKey(msg) {
	case FormCancelled:
		m.state = normalMode{}
	case FormSubmit:
		m.state = normalMode{}
		var err error
		if st.editing {
			err = m.updateIssue(st.original, &st.form)
		} else {
			err = m.createIssue(&st.form)
		}
		if err != nil {
			m.setStatus(err.Error(), true)
		}
	}
	return nil
}

func (m *Model) handlePromptKey(st *promptMode, msg tea.KeyMsg) error {
	switch st.handleKey(msg) {
	case promptCancel:
		m.state = normalMode{}
	case promptSubmit:
		m.state = normalMode{}
		text := st.text.String()
		var err error
		switch st.kind {
		case ModeClosingIssue:
			err = m.closeIssue(st.issueID, text)
		case ModeReopeningIssue:
			err = m.reopenIssue(st.issueID, text)
		case ModeAddingComment:
			err = m.addComment(st.issueID, text)
		}
		if err != nil {
			m.setStatus(err.Error(), true)
		}
	}
	return nil
}

func (m *Model) handlePaste(text string) {
	switch st := m.state.(type) {
	case *searchMode:
		before := st.query.Len()
		st.query.InsertString(flattenLines(text, " "))
		if st.query.Len() != before {
			m.selected = 0
		}
	case *formMode:
		st.form.HandlePaste(text)
	case *promptMode:
		st.text.InsertString(text)
	}
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Cmd, error) {
	k := m.keys
	m.statusMsg = ""
	m.statusIsError = false

	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return tea.Quit, nil
	case key.Matches(msg, k.Suspend):
		return nil, errSuspend
	case key.Matches(msg, k.Help):
		m.showHelp = true
	case key.Matches(msg, k.Search):
		if m.filter != "" {
			m.selected = 0
		}
		m.state = &searchMode{}
	case key.Matches(msg, k.Create):
		m.state = &formMode{form: NewCreateModal()}
	case key.Matches(msg, k.CycleTheme):
		m.themeIndex = (m.themeIndex + 1) % len(Palettes)
		m.theme = NewTheme(m.renderer, Palettes[m.themeIndex])
		m.setStatus("Theme: "+Palettes[m.themeIndex].Name, false)
	case key.Matches(msg, k.ToggleLabels):
		m.showLabels = !m.showLabels
	case key.Matches(msg, k.Refresh):
		if err := m.reload(); err != nil {
			return nil, err
		}
	case key.Matches(msg, k.CopyID):
		m.copySelectedID()
	case key.Matches(msg, k.FocusToggle):
		if m.showDetail && !m.layout().List.Empty() {
			m.setFocus(m.focus.Toggle())
		}
	case key.Matches(msg, k.SplitShrink):
		if m.showDetail {
			m.split = AdjustSplit(m.split, -SplitStep)
		}
	case key.Matches(msg, k.SplitGrow):
		if m.showDetail {
			m.split = AdjustSplit(m.split, SplitStep)
		}
	default:
		if m.focus == FocusDetail && m.showDetail {
			return nil, m.handleDetailKey(msg)
		}
		m.handleListKey(msg)
	}
	return nil, nil
}

func (m *Model) setFocus(f Focus) {
	if f == FocusDetail && m.focus != FocusDetail {
		m.detailOffset = 0
	}
	m.focus = f
}

func (m *Model) openDetail() {
	m.showDetail = true
	m.setFocus(FocusDetail)
	m.detailOffset = 0
}

func (m *Model) handleListKey(msg tea.KeyMsg) {
	k := m.keys
	n := len(m.viewOrder())

	switch {
	case key.Matches(msg, k.Down):
		if n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case key.Matches(msg, k.Up):
		if n > 0 {
			m.selected = (m.selected - 1 + n) % n
		}
	case key.Matches(msg, k.PageDown):
		m.selected = max(min(m.selected+pageSize, n-1), 0)
	case key.Matches(msg, k.PageUp):
		m.selected = max(m.selected-pageSize, 0)
	case key.Matches(msg, k.Home):
		m.selected = 0
	case key.Matches(msg, k.End):
		m.selected = max(n-1, 0)
	case key.Matches(msg, k.Open):
		if n > 0 {
			m.openDetail()
		}
	case key.Matches(msg, k.ClearFilter):
		if m.filter != "" {
			m.filter = ""
			m.clampSelection()
		}
	case key.Matches(msg, k.ToggleClosed):
		m.hideClosed = !m.hideClosed
		m.clampSelection()
	}
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) error {
	k := m.keys

	switch {
	case key.Matches(msg, k.Down):
		m.scrollDetail(1)
	case key.Matches(msg, k.Up):
		m.scrollDetail(-1)
	case key.Matches(msg, k.PageDown):
		m.scrollDetail(pageSize)
	case key.Matches(msg, k.PageUp):
		m.scrollDetail(-pageSize)
	case key.Matches(msg, k.Home):
		m.detailOffset = 0
	case key.Matches(msg, k.End):
		m.detailToBottom()
	case key.Matches(msg, k.Back):
		m.showDetail = false
		m.focus = FocusList
	case key.Matches(msg, k.Edit):
		if issue := m.selectedIssue(); issue != nil {
			m.state = &formMode{form: NewEditModal(*issue), original: *issue, editing: true}
		}
	case key.Matches(msg, k.CloseReopen):
		if issue := m.selectedIssue(); issue != nil {
			kind := ModeClosingIssue
			if issue.IsClosed() {
				kind = ModeReopeningIssue
			}
			m.state = &promptMode{kind: kind, issueID: issue.ID}
		}
	case key.Matches(msg, k.Comment):
		if issue := m.selectedIssue(); issue != nil {
			m.state = &promptMode{kind: ModeAddingComment, issueID: issue.ID}
		}
	case key.Matches(msg, k.ToggleDeferred):
		if issue := m.selectedIssue(); issue != nil {
			if err := m.toggleDeferred(issue); err != nil {
				m.setStatus(err.Error(), true)
			}
		}
	}
	return nil
}

func (m *Model) copySelectedID() {
	issue := m.selectedIssue()
	if issue == nil {
		m.setStatus("No issue selected", true)
		return
	}
	if err := clipboard.WriteAll(issue.ID); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus("Copied "+issue.ID, false)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.state.Mode() != ModeNormal {
		return
	}
	l := m.layout()

	switch msg.Action {
	case tea.MouseActionRelease:
		m.dragging = false
		return
	case tea.MouseActionMotion:
		if m.dragging {
			if p, ok := l.SplitFromMouseX(msg.X); ok {
				m.split = p
			}
		}
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		delta := 1
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -1
		}
		if l.Detail.Contains(msg.X, msg.Y) {
			m.scrollDetail(3 * delta)
			return
		}
		if l.List.Contains(msg.X, msg.Y) {
			n := len(m.viewOrder())
			m.selected = max(min(m.selected+delta, n-1), 0)
		}

	case tea.MouseButtonLeft:
		if l.OnSplitHandle(msg.X, msg.Y) {
			m.dragging = true
			return
		}
		if l.List.Contains(msg.X, msg.Y) {
			top := l.List.Y + 1
			if msg.Y < top || msg.Y >= top+m.listRows() {
				return
			}
			row := m.listOffset() + msg.Y - top
			if row < len(m.viewOrder()) {
				m.selected = row
				m.openDetail()
			}
			return
		}
		if l.Detail.Contains(msg.X, msg.Y) {
			m.setFocus(FocusDetail)
		}
	}
}
