package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/beads-tui/pkg/model"
)

// InputMode names the state of the input state machine.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeSearch
	ModeCreating
	ModeEditing
	ModeClosingIssue
	ModeReopeningIssue
	ModeAddingComment
)

func (m InputMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSearch:
		return "search"
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	case ModeClosingIssue:
		return "closing"
	case ModeReopeningIssue:
		return "reopening"
	case ModeAddingComment:
		return "comment"
	}
	return "unknown"
}

// inputState is the active mode together with the buffers only that mode
// uses. Leaving a mode drops its buffers.
type inputState interface {
	Mode() InputMode
}

type normalMode struct{}

func (normalMode) Mode() InputMode { return ModeNormal }

// searchMode edits the live filter. The committed filter lives on the Model.
type searchMode struct {
	query TextBuffer
}

func (*searchMode) Mode() InputMode { return ModeSearch }

// formMode owns the create/edit form. original is the snapshot the edit
// started from and is zero while creating.
type formMode struct {
	form     EditModal
	original model.Issue
	editing  bool
}

func (f *formMode) Mode() InputMode {
	if f.editing {
		return ModeEditing
	}
	return ModeCreating
}

// promptMode is the single-buffer prompt used for close, reopen and comment.
// The target id is captured when the prompt opens.
type promptMode struct {
	kind    InputMode
	text    TextBuffer
	issueID string
}

func (p *promptMode) Mode() InputMode { return p.kind }

// promptAction is the outcome of a key handled by a prompt.
type promptAction int

const (
	promptNone promptAction = iota
	promptSubmit
	promptCancel
)

// handleKey edits the prompt text. A plain Enter commits; alt+enter and
// ctrl+j insert a newline.
func (p *promptMode) handleKey(msg tea.KeyMsg) promptAction {
	switch msg.Type {
	case tea.KeyEsc:
		return promptCancel
	case tea.KeyEnter:
		if !msg.Alt {
			return promptSubmit
		}
	}
	p.text.HandleKey(msg, true)
	return promptNone
}

func (p *promptMode) title() string {
	switch p.kind {
	case ModeClosingIssue:
		return "Close " + p.issueID
	case ModeReopeningIssue:
		return "Reopen " + p.issueID
	default:
		return "Comment on " + p.issueID
	}
}

func (p *promptMode) placeholder() string {
	switch p.kind {
	case ModeClosingIssue:
		return "Reason (optional)"
	case ModeReopeningIssue:
		return "Reason (optional)"
	default:
		return "Comment"
	}
}
