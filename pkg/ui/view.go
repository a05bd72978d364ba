package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	helpWidth   = 50
	promptWidth = 60
)

// View renders the screen: body panes or an overlay, then the footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	l := m.layout()
	bodyH := l.Footer.Y

	var body string
	switch st := m.state.(type) {
	case *formMode:
		heading := "New Issue"
		if st.editing {
			heading = "Edit " + st.original.ID
		}
		body = st.form.View(m.theme, m.width, bodyH, heading, !st.editing)
	case *promptMode:
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, m.renderPrompt(st))
	default:
		if m.showHelp {
			body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, m.renderHelp())
		} else {
			body = m.renderPanes(l)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter(l.Footer.Width))
}

func (m *Model) renderPanes(l Layout) string {
	var panes []string
	if !l.List.Empty() {
		panes = append(panes, m.paneStyle(FocusList, l.List).Render(m.renderList(l.List)))
	}
	if !l.Detail.Empty() {
		panes = append(panes, m.paneStyle(FocusDetail, l.Detail).Render(m.detailViewport().View()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m *Model) paneStyle(f Focus, r Rect) lipgloss.Style {
	s := m.theme.Pane
	if m.focus == f {
		s = m.theme.FocusedPane
	}
	return s.Width(max(r.Width-2, 0)).Height(max(r.Height-2, 0))
}

func (m *Model) renderList(r Rect) string {
	innerW := max(r.Width-2, 0)
	rows := max(r.Height-2, 0)
	entries := m.viewOrder()
	if len(entries) == 0 {
		msg := "No issues"
		if m.activeFilter() != "" {
			msg = "No issues match the filter"
		}
		return m.theme.Muted.Render(truncate(msg, innerW))
	}

	offset := m.listOffset()
	end := min(offset+rows, len(entries))
	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		lines = append(lines, m.renderRow(entries[i], innerW, i == m.selected))
	}
	return strings.Join(lines, "\n")
}

// renderRow draws "indent icon P{n} id: title [label]...". The selected row
// is drawn unstyled inside the selection highlight.
func (m *Model) renderRow(e ViewEntry, width int, selected bool) string {
	issue := e.Issue
	t := m.theme
	indent := strings.Repeat("  ", e.Depth)
	prio := fmt.Sprintf("P%d", issue.Priority)

	var labels string
	if m.showLabels && len(issue.Labels) > 0 {
		labels = " [" + strings.Join(issue.Labels, "] [") + "]"
	}

	if selected {
		plain := fmt.Sprintf("%s%s %s %s: %s%s", indent, issue.Icon(), prio, issue.ID, issue.Title, labels)
		return t.Selected.Render(padRight(truncate(plain, width), width))
	}

	r := t.Renderer
	icon := r.NewStyle().Foreground(t.StatusColor(issue.Status)).Render(issue.Icon())
	p := r.NewStyle().Foreground(t.PriorityColor(issue.Priority)).Render(prio)
	title := t.Base.Render(issue.Title)
	if issue.IsClosed() || issue.IsDeferred() {
		title = t.Muted.Render(issue.Title)
	}
	line := fmt.Sprintf("%s%s %s %s %s%s", indent, icon, p, t.Muted.Render(issue.ID+":"), title, t.Accent.Render(labels))
	return truncateStyled(line, width)
}

func (m *Model) renderPrompt(p *promptMode) string {
	t := m.theme
	inner := promptWidth - 4

	var text string
	if p.text.IsEmpty() {
		text = t.Cursor.Render(" ") + t.Muted.Render(p.placeholder())
	} else {
		text = p.text.View(func(s string) string { return t.Cursor.Render(s) })
	}

	var b strings.Builder
	b.WriteString(t.ModalTitle.Render(" " + p.title() + " "))
	b.WriteString("\n\n")
	b.WriteString(t.Renderer.NewStyle().Width(inner).Render(text))
	b.WriteString("\n\n")
	b.WriteString(t.Muted.Render("Enter to confirm | Esc to cancel"))
	return t.Modal.Width(promptWidth - 2).Render(b.String())
}

func (m *Model) renderHelp() string {
	t := m.theme
	var b strings.Builder
	b.WriteString(t.ModalTitle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range m.keys.helpSections() {
		b.WriteString("\n")
		b.WriteString(t.SectionHeader.Render(sec.title))
		b.WriteString("\n")
		for _, kb := range sec.bindings {
			h := kb.Help()
			b.WriteString("  ")
			b.WriteString(t.FooterKey.Render(padRight(h.Key, 10)))
			b.WriteString(t.Base.Render(h.Desc))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(t.Muted.Render("Press any key to close"))
	return t.Modal.Width(helpWidth - 2).Render(b.String())
}

type hint struct{ key, desc string }

func (m *Model) footerHints() []hint {
	switch st := m.state.(type) {
	case *searchMode:
		return []hint{{"Esc", "cancel"}, {"Enter", "confirm"}}
	case *formMode:
		submit := "create"
		if st.editing {
			submit = "save"
		}
		return []hint{{"Esc", "cancel"}, {"Tab", "next field"}, {"C-s", submit}}
	case *promptMode:
		return []hint{{"Esc", "cancel"}, {"Enter", "confirm"}}
	}
	if m.focus == FocusDetail && m.showDetail {
		return []hint{
			{"j/k", "scroll"}, {"Esc/h", "close"}, {"e", "edit"}, {"x", "close/reopen"},
			{"c", "comment"}, {"?", "help"}, {"q", "quit"},
		}
	}
	return []hint{
		{"j/k", "nav"}, {"Enter/l", "open"}, {"a", "add"}, {"c", "show/hide closed"},
		{"/", "filter"}, {"?", "help"}, {"q", "quit"},
	}
}

func (m *Model) renderFooter(width int) string {
	t := m.theme

	var left string
	if m.statusMsg != "" {
		style := t.Footer
		if m.statusIsError {
			style = t.StatusError
		}
		left = style.Render(m.statusMsg)
	} else {
		parts := make([]string, 0, 8)
		for _, h := range m.footerHints() {
			parts = append(parts, t.FooterKey.Render(h.key)+t.Footer.Render(": "+h.desc))
		}
		left = strings.Join(parts, t.Footer.Render(" | "))
	}

	var right string
	if s, ok := m.state.(*searchMode); ok {
		right = t.Accent.Render("/") + s.query.View(func(c string) string { return t.Cursor.Render(c) })
	} else if m.filter != "" {
		right = t.Accent.Render("filter: " + m.filter)
	}

	ver := t.Muted.Render("beads-tui " + m.version)
	if width-lipgloss.Width(left)-lipgloss.Width(right)-lipgloss.Width(ver)-1 >= 5 {
		if right != "" {
			right += " "
		}
		right += ver
	}
	lw, rw := lipgloss.Width(left), lipgloss.Width(right)

	gap := width - lw - rw
	if gap < 1 {
		left = truncateStyled(left, max(width-rw-1, 0))
		gap = max(width-lipgloss.Width(left)-rw, 0)
	}
	return truncateStyled(left+strings.Repeat(" ", gap)+right, width)
}
