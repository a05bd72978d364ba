package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/beads-tui/pkg/model"
)

// FormField identifies the focused field of an EditModal.
type FormField int

const (
	FieldTitle FormField = iota
	FieldDescription
	FieldType
	FieldPriority
	FieldLabels

	formFieldCount
)

func (f FormField) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldDescription:
		return "description"
	case FieldType:
		return "type"
	case FieldPriority:
		return "priority"
	case FieldLabels:
		return "labels"
	}
	return "unknown"
}

// FormAction is the outcome of a key handled by the form.
type FormAction int

const (
	FormNone FormAction = iota
	FormSubmit
	FormCancelled
)

// EditModal is the five-field form used to create and edit issues.
type EditModal struct {
	Title       TextBuffer
	Description TextBuffer
	Labels      TextBuffer
	Type        model.IssueType
	Priority    int

	focus FormField
}

// NewCreateModal returns an empty form with task type and medium priority.
func NewCreateModal() EditModal {
	return EditModal{
		Type:     model.TypeTask,
		Priority: model.DefaultPriority,
	}
}

// NewEditModal returns a form pre-filled from issue. Labels are shown as a
// comma separated list.
func NewEditModal(issue model.Issue) EditModal {
	return EditModal{
		Title:       NewTextBuffer(issue.Title),
		Description: NewTextBuffer(issue.Description),
		Labels:      NewTextBuffer(strings.Join(issue.Labels, ", ")),
		Type:        issue.IssueType,
		Priority:    issue.Priority,
	}
}

// Focus returns the focused field.
func (m *EditModal) Focus() FormField { return m.focus }

// SetFocus moves focus to f.
func (m *EditModal) SetFocus(f FormField) {
	if f >= 0 && f < formFieldCount {
		m.focus = f
	}
}

// CanSubmit reports whether the title holds more than whitespace.
func (m *EditModal) CanSubmit() bool {
	return strings.TrimSpace(m.Title.String()) != ""
}

// TitleText returns the trimmed title used when creating.
func (m *EditModal) TitleText() string {
	return strings.TrimSpace(m.Title.String())
}

// DescriptionText returns the description, or "" when it is only whitespace.
func (m *EditModal) DescriptionText() string {
	if strings.TrimSpace(m.Description.String()) == "" {
		return ""
	}
	return m.Description.String()
}

// LabelList parses the labels field.
func (m *EditModal) LabelList() []string {
	return ParseLabels(m.Labels.String())
}

// ParseLabels splits a comma separated list, trimming entries and dropping
// empty ones.
func ParseLabels(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HandleKey applies a key to the form.
func (m *EditModal) HandleKey(msg tea.KeyMsg) FormAction {
	switch msg.String() {
	case "esc":
		return FormCancelled
	case "ctrl+s":
		if m.CanSubmit() {
			return FormSubmit
		}
		return FormNone
	case "tab":
		m.focus = (m.focus + 1) % formFieldCount
		return FormNone
	case "shift+tab":
		m.focus = (m.focus + formFieldCount - 1) % formFieldCount
		return FormNone
	}

	switch m.focus {
	case FieldTitle:
		if msg.Type == tea.KeyEnter && !msg.Alt {
			m.focus = FieldDescription
			return FormNone
		}
		m.Title.HandleKey(msg, true)
	case FieldDescription:
		if msg.Type == tea.KeyEnter {
			m.Description.Insert('\n')
			return FormNone
		}
		m.Description.HandleKey(msg, true)
	case FieldType:
		switch msg.String() {
		case "left", "h", "up", "k":
			m.cycleType(-1)
		case "right", "l", "down", "j":
			m.cycleType(1)
		}
	case FieldPriority:
		switch key := msg.String(); key {
		case "left", "h", "up", "k":
			m.Priority = max(m.Priority-1, model.MinPriority)
		case "right", "l", "down", "j":
			m.Priority = min(m.Priority+1, model.MaxPriority)
		case "0", "1", "2", "3", "4":
			m.Priority = int(key[0] - '0')
		}
	case FieldLabels:
		if msg.Type == tea.KeyEnter {
			return FormNone
		}
		m.Labels.HandleKey(msg, false)
	}
	return FormNone
}

func (m *EditModal) cycleType(delta int) {
	n := len(model.IssueTypes)
	i := (m.Type.Index() + delta + n) % n
	m.Type = model.IssueTypes[i]
}

// HandlePaste inserts pasted text into the focused text field. The title
// flattens lines to spaces and labels turn lines into list entries; the
// description keeps the text verbatim.
func (m *EditModal) HandlePaste(text string) {
	switch m.focus {
	case FieldTitle:
		m.Title.InsertString(flattenLines(text, " "))
	case FieldDescription:
		m.Description.InsertString(text)
	case FieldLabels:
		var parts []string
		for _, line := range strings.Split(flattenLines(text, "\n"), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				parts = append(parts, line)
			}
		}
		m.Labels.InsertString(strings.Join(parts, ", "))
	}
}

// View renders the form as a centered box inside width×height.
func (m *EditModal) View(theme Theme, width, height int, heading string, creating bool) string {
	r := theme.Renderer

	boxWidth := min(width-4, 80)
	boxHeight := min(height-4, 20)
	inner := max(boxWidth-4, 10)

	cursor := func(s string) string { return theme.Cursor.Render(s) }
	field := func(f FormField, buf *TextBuffer) string {
		if m.focus == f {
			return buf.View(cursor)
		}
		return buf.String()
	}
	label := func(f FormField, name string) string {
		if m.focus == f {
			return theme.FieldFocused.Render(name)
		}
		return theme.FieldLabel.Render(name)
	}
	hint := r.NewStyle().Foreground(ThemeFg(theme.Palette.Muted)).Italic(true)

	var b strings.Builder
	b.WriteString(theme.ModalTitle.Render(heading))
	b.WriteString("\n\n")

	b.WriteString(label(FieldTitle, "Title"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Width(inner).Render(field(FieldTitle, &m.Title)))
	b.WriteString("\n\n")

	b.WriteString(label(FieldDescription, "Description"))
	b.WriteString("  ")
	b.WriteString(hint.Render("Press <tab> to switch fields"))
	b.WriteString("\n")
	descLines := max(boxHeight-12, 3)
	desc := r.NewStyle().Width(inner).Render(field(FieldDescription, &m.Description))
	b.WriteString(tailLines(desc, descLines, m.focus == FieldDescription))
	b.WriteString("\n\n")

	b.WriteString(theme.SectionHeader.Render("Options"))
	b.WriteString("\n")
	typeVal := fmt.Sprintf("%s ▾", m.Type)
	prioVal := r.NewStyle().Foreground(theme.PriorityColor(m.Priority)).Render(fmt.Sprintf("P%d ▾", m.Priority))
	b.WriteString(label(FieldType, "Type: "))
	b.WriteString(typeVal)
	b.WriteString("   ")
	b.WriteString(label(FieldPriority, "Priority: "))
	b.WriteString(prioVal)
	b.WriteString("   ")
	b.WriteString(label(FieldLabels, "Labels: "))
	b.WriteString(field(FieldLabels, &m.Labels))
	b.WriteString("\n\n")

	submit := "Press <ctrl+s> to save"
	if creating {
		submit = "Press <ctrl+s> to create"
	}
	b.WriteString(hint.Render(submit))

	box := theme.Modal.Width(boxWidth - 2).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// tailLines limits s to n lines. When follow is set the last lines are kept
// so the cursor stays visible while typing.
func tailLines(s string, n int, follow bool) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	if follow {
		return strings.Join(lines[len(lines)-n:], "\n")
	}
	return strings.Join(lines[:n], "\n")
}
