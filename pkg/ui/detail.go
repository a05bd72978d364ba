package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/beads-tui/pkg/debug"
	"github.com/vanderheijden86/beads-tui/pkg/model"
)

// markdownCache renders descriptions and comments with glamour. Renderers
// are kept per wrap width; results only for the last width used.
type markdownCache struct {
	style     string
	width     int
	renderers map[int]*glamour.TermRenderer
	rendered  map[markdownKey]string
}

type markdownKey struct {
	text  string
	width int
}

func newMarkdownCache(dark bool) *markdownCache {
	style := "dark"
	if !dark {
		style = "light"
	}
	return &markdownCache{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
		rendered:  make(map[markdownKey]string),
	}
}

// render returns text as terminal markdown wrapped to width, or the raw
// text if glamour fails.
func (c *markdownCache) render(text string, width int) string {
	if c == nil || width < 10 {
		return text
	}
	if width != c.width {
		c.reset()
		c.width = width
	}
	key := markdownKey{text, width}
	if out, ok := c.rendered[key]; ok {
		return out
	}

	r, ok := c.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(c.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			debug.Log("glamour renderer: %v", err)
			r = nil
		}
		c.renderers[width] = r
	}
	if r == nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		debug.Log("glamour render: %v", err)
		return text
	}
	out = strings.Trim(out, "\n")
	c.rendered[key] = out
	return out
}

// reset drops rendered results. Renderers are kept.
func (c *markdownCache) reset() {
	if c != nil {
		c.rendered = make(map[markdownKey]string)
	}
}

// detailContent builds the detail pane text for issue at the given width.
func (m *Model) detailContent(issue *model.Issue, width int) string {
	t := m.theme
	r := t.Renderer
	label := func(s string) string { return t.Muted.Render(padRight(s, 10)) }

	var b strings.Builder
	b.WriteString(t.Accent.Bold(true).Render(issue.ID))
	b.WriteString("\n")
	b.WriteString(t.Bold.Render(issue.Title))
	b.WriteString("\n\n")

	status := r.NewStyle().Foreground(t.StatusColor(issue.Status)).
		Render(issue.Status.Icon() + " " + issue.Status.Label())
	fmt.Fprintf(&b, "%s%s\n", label("Status"), status)
	fmt.Fprintf(&b, "%s%s %s\n", label("Type"), issue.Icon(), issue.IssueType)
	prio := r.NewStyle().Foreground(t.PriorityColor(issue.Priority)).Render(fmt.Sprintf("P%d", issue.Priority))
	fmt.Fprintf(&b, "%s%s\n", label("Priority"), prio)
	if len(issue.Labels) > 0 {
		fmt.Fprintf(&b, "%s%s\n", label("Labels"), strings.Join(issue.Labels, ", "))
	}
	if issue.Assignee != "" {
		fmt.Fprintf(&b, "%s%s\n", label("Assignee"), issue.Assignee)
	}
	if issue.CreatedBy != "" {
		fmt.Fprintf(&b, "%s%s\n", label("Author"), issue.CreatedBy)
	}

	if strings.TrimSpace(issue.Description) != "" {
		b.WriteString("\n")
		b.WriteString(t.SectionHeader.Render("Description"))
		b.WriteString("\n")
		b.WriteString(m.markdown.render(issue.Description, width))
		b.WriteString("\n")
	}

	m.writeRelations(&b, "Blocked by:", issue.BlockedBy)
	m.writeRelations(&b, "Blocks:", issue.Blocks)
	m.writeRelations(&b, "Part of:", issue.ParentIDs)

	if len(issue.Comments) > 0 {
		b.WriteString("\n")
		b.WriteString(t.SectionHeader.Render(fmt.Sprintf("Comments (%d)", len(issue.Comments))))
		b.WriteString("\n")
		for _, c := range issue.Comments {
			author := c.Author
			if author == "" {
				author = "unknown"
			}
			b.WriteString(t.Accent.Render(author))
			b.WriteString(t.Muted.Render(" · " + FormatTimeRel(c.CreatedAt)))
			b.WriteString("\n")
			b.WriteString(m.markdown.render(c.Text, width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s%s\n", label("Created"), formatTimestamp(issue.CreatedAt))
	fmt.Fprintf(&b, "%s%s\n", label("Updated"), formatTimestamp(issue.UpdatedAt))
	if issue.ClosedAt != nil {
		fmt.Fprintf(&b, "%s%s\n", label("Closed"), formatTimestamp(*issue.ClosedAt))
	}
	if issue.CloseReason != "" {
		fmt.Fprintf(&b, "%s%s\n", label("Reason"), issue.CloseReason)
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) writeRelations(b *strings.Builder, heading string, ids []string) {
	if len(ids) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(m.theme.SectionHeader.Render(heading))
	b.WriteString("\n")
	for _, id := range ids {
		line := "  └─ " + id
		if other := m.issueByID(id); other != nil {
			line += " " + m.theme.Muted.Render(other.Title)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m *Model) issueByID(id string) *model.Issue {
	for i := range m.issues {
		if m.issues[i].ID == id {
			return &m.issues[i]
		}
	}
	return nil
}

// detailInner returns the inner size of the detail pane.
func (m *Model) detailInner() (int, int) {
	r := m.layout().Detail
	return max(r.Width-2, 0), max(r.Height-2, 0)
}

// detailViewport returns a viewport over the selected issue's detail,
// scrolled to the current offset.
func (m *Model) detailViewport() viewport.Model {
	w, h := m.detailInner()
	vp := viewport.New(w, h)
	if issue := m.selectedIssue(); issue != nil {
		vp.SetContent(m.detailContent(issue, w))
	} else {
		vp.SetContent(m.theme.Muted.Render("No issue selected"))
	}
	vp.SetYOffset(m.detailOffset)
	return vp
}

// scrollDetail moves the detail view by delta lines, clamped to its content.
func (m *Model) scrollDetail(delta int) {
	vp := m.detailViewport()
	switch {
	case delta < 0:
		vp.LineUp(-delta)
	case delta > 0:
		vp.LineDown(delta)
	}
	m.detailOffset = vp.YOffset
}

func (m *Model) detailToBottom() {
	vp := m.detailViewport()
	vp.GotoBottom()
	m.detailOffset = vp.YOffset
}
