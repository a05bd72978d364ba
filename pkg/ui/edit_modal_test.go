package ui

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/beads-tui/pkg/model"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeKey(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func altEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
}

func TestNewEditModal_PopulatesFromIssue(t *testing.T) {
	issue := model.Issue{
		ID:          "bd-1",
		Title:       "Test Issue",
		Description: "A test description",
		IssueType:   model.TypeBug,
		Priority:    1,
		Labels:      []string{"frontend", "urgent"},
	}

	m := NewEditModal(issue)

	if m.Title.String() != "Test Issue" {
		t.Errorf("expected title prefilled, got %q", m.Title.String())
	}
	if m.Description.String() != "A test description" {
		t.Errorf("expected description prefilled, got %q", m.Description.String())
	}
	if m.Labels.String() != "frontend, urgent" {
		t.Errorf("expected labels joined with comma, got %q", m.Labels.String())
	}
	if m.Type != model.TypeBug || m.Priority != 1 {
		t.Errorf("expected bug/P1, got %s/P%d", m.Type, m.Priority)
	}
	if m.Focus() != FieldTitle {
		t.Errorf("expected title focus, got %s", m.Focus())
	}
}

func TestNewCreateModal_HasDefaults(t *testing.T) {
	m := NewCreateModal()
	if m.Type != model.TypeTask {
		t.Errorf("expected task, got %s", m.Type)
	}
	if m.Priority != 2 {
		t.Errorf("expected P2, got P%d", m.Priority)
	}
	if m.CanSubmit() {
		t.Error("empty form must not be submittable")
	}
}

func TestEditModal_TabNavigation(t *testing.T) {
	m := NewCreateModal()
	order := []FormField{FieldDescription, FieldType, FieldPriority, FieldLabels, FieldTitle}
	for _, want := range order {
		m.HandleKey(typeKey(tea.KeyTab))
		if m.Focus() != want {
			t.Fatalf("expected %s after tab, got %s", want, m.Focus())
		}
	}

	m.HandleKey(typeKey(tea.KeyShiftTab))
	if m.Focus() != FieldLabels {
		t.Errorf("expected shift+tab to wrap to labels, got %s", m.Focus())
	}
}

func TestEditModal_EnterInTitleAdvances(t *testing.T) {
	m := NewCreateModal()
	m.HandleKey(runeKey("Fix"))
	m.HandleKey(typeKey(tea.KeyEnter))

	if m.Focus() != FieldDescription {
		t.Fatalf("expected enter to move to description, got %s", m.Focus())
	}
	if m.Title.String() != "Fix" {
		t.Errorf("expected title unchanged, got %q", m.Title.String())
	}
}

func TestEditModal_ShiftedEnterInsertsNewline(t *testing.T) {
	m := NewCreateModal()
	m.HandleKey(runeKey("a"))
	m.HandleKey(altEnter())
	m.HandleKey(runeKey("b"))
	if m.Title.String() != "a\nb" {
		t.Errorf("expected newline in title, got %q", m.Title.String())
	}

	m.SetFocus(FieldDescription)
	m.HandleKey(runeKey("x"))
	m.HandleKey(typeKey(tea.KeyEnter))
	m.HandleKey(runeKey("y"))
	if m.Description.String() != "x\ny" {
		t.Errorf("expected enter to insert newline in description, got %q", m.Description.String())
	}
}

func TestEditModal_TypeCycles(t *testing.T) {
	m := NewCreateModal()
	m.SetFocus(FieldType)

	m.HandleKey(typeKey(tea.KeyRight))
	if m.Type != model.TypeBug {
		t.Errorf("expected bug after right, got %s", m.Type)
	}
	m.HandleKey(runeKey("h"))
	m.HandleKey(runeKey("k"))
	if m.Type != model.TypeStory {
		t.Errorf("expected wrap to story, got %s", m.Type)
	}
	m.HandleKey(runeKey("j"))
	if m.Type != model.TypeTask {
		t.Errorf("expected wrap back to task, got %s", m.Type)
	}
}

func TestEditModal_PrioritySaturatesAndDigits(t *testing.T) {
	m := NewCreateModal()
	m.SetFocus(FieldPriority)

	for i := 0; i < 5; i++ {
		m.HandleKey(typeKey(tea.KeyLeft))
	}
	if m.Priority != 0 {
		t.Errorf("expected saturation at 0, got %d", m.Priority)
	}
	for i := 0; i < 7; i++ {
		m.HandleKey(runeKey("l"))
	}
	if m.Priority != 4 {
		t.Errorf("expected saturation at 4, got %d", m.Priority)
	}

	m.HandleKey(runeKey("1"))
	if m.Priority != 1 {
		t.Errorf("expected digit to set P1, got %d", m.Priority)
	}
	m.HandleKey(runeKey("9"))
	if m.Priority != 1 {
		t.Errorf("expected out-of-range digit ignored, got %d", m.Priority)
	}
}

func TestEditModal_SubmitAndCancel(t *testing.T) {
	m := NewCreateModal()
	if got := m.HandleKey(typeKey(tea.KeyCtrlS)); got != FormNone {
		t.Errorf("expected ctrl+s on empty title to be ignored, got %v", got)
	}

	m.HandleKey(runeKey("   "))
	if got := m.HandleKey(typeKey(tea.KeyCtrlS)); got != FormNone {
		t.Errorf("expected whitespace title to be rejected, got %v", got)
	}

	m.Title.SetText("Real title")
	if got := m.HandleKey(typeKey(tea.KeyCtrlS)); got != FormSubmit {
		t.Errorf("expected submit, got %v", got)
	}
	if got := m.HandleKey(typeKey(tea.KeyEsc)); got != FormCancelled {
		t.Errorf("expected cancel, got %v", got)
	}
}

func TestEditModal_LabelsIgnoreEnter(t *testing.T) {
	m := NewCreateModal()
	m.SetFocus(FieldLabels)
	m.HandleKey(runeKey("ui"))
	m.HandleKey(typeKey(tea.KeyEnter))
	if m.Labels.String() != "ui" || m.Focus() != FieldLabels {
		t.Errorf("expected enter ignored in labels, got %q focus %s", m.Labels.String(), m.Focus())
	}
}

func TestEditModal_Paste(t *testing.T) {
	m := NewCreateModal()

	m.HandlePaste("line one\nline two")
	if m.Title.String() != "line one line two" {
		t.Errorf("expected title paste flattened, got %q", m.Title.String())
	}

	m.SetFocus(FieldDescription)
	m.HandlePaste("para\n\nnext")
	if m.Description.String() != "para\n\nnext" {
		t.Errorf("expected description paste verbatim, got %q", m.Description.String())
	}

	m.SetFocus(FieldLabels)
	m.HandlePaste("bug\n  ui \n\nbackend")
	if m.Labels.String() != "bug, ui, backend" {
		t.Errorf("expected labels paste as list, got %q", m.Labels.String())
	}

	m.SetFocus(FieldType)
	m.HandlePaste("ignored")
	if m.Type != model.TypeTask {
		t.Errorf("expected paste into type to be ignored")
	}
}

func TestParseLabels(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{" a , b,,c ", []string{"a", "b", "c"}},
		{" , ", nil},
	}
	for _, tt := range tests {
		if got := ParseLabels(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseLabels(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEditModal_DescriptionText(t *testing.T) {
	m := NewCreateModal()
	m.Description.SetText("  \n ")
	if m.DescriptionText() != "" {
		t.Errorf("expected whitespace description to be empty, got %q", m.DescriptionText())
	}
	m.Description.SetText("keep  ")
	if m.DescriptionText() != "keep  " {
		t.Errorf("expected description kept, got %q", m.DescriptionText())
	}
}

func TestEditModal_ViewContainsSections(t *testing.T) {
	m := NewCreateModal()
	m.Title.SetText("My title")

	out := stripANSIForTest(m.View(TestTheme(), 100, 30, "New Issue", true))
	for _, want := range []string{"New Issue", "Title", "My title", "Description", "Options", "Type:", "Priority:", "P2", "Labels:", "ctrl+s> to create"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
