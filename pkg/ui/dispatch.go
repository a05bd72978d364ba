package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vanderheijden86/beads-tui/pkg/debug"
	"github.com/vanderheijden86/beads-tui/pkg/model"
	"github.com/vanderheijden86/beads-tui/pkg/writer"
)

// Mutator performs writes against the issue store. *writer.BrCLI is the
// production implementation.
type Mutator interface {
	Create(ctx context.Context, req writer.CreateRequest) (string, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	Close(ctx context.Context, id, reason string) error
	UpdateField(ctx context.Context, id, field, value string) error
	AddLabel(ctx context.Context, id, label string) error
	RemoveLabel(ctx context.Context, id, label string) error
	AddComment(ctx context.Context, id, text string) error
}

// IssueLoader returns the full issue collection, already sorted for display.
type IssueLoader interface {
	LoadAll(ctx context.Context) ([]model.Issue, error)
}

// ReopenCommentPrefix marks the comment that records a reopen reason.
const ReopenCommentPrefix = "Reopened: "

// Every dispatch below reloads after calling the backend, whether or not the
// call succeeded. The backend error is returned; a reload failure is stored
// in m.err and ends the program.

func (m *Model) reloadAfterMutation() {
	if err := m.reload(); err != nil {
		m.err = err
	}
}

// createIssue creates an issue from the form and attaches its labels one by
// one. Label failures are logged and skipped. The new issue is selected when
// it is visible, otherwise the first row is.
func (m *Model) createIssue(form *EditModal) error {
	req := writer.CreateRequest{
		Title:       form.TitleText(),
		Type:        form.Type,
		Priority:    form.Priority,
		Description: form.DescriptionText(),
	}
	debug.Log("create %q type=%s priority=%d", req.Title, req.Type, req.Priority)

	id, err := m.backend.Create(m.ctx, req)
	if err == nil && id != "" {
		for _, label := range form.LabelList() {
			if lerr := m.backend.AddLabel(m.ctx, id, label); lerr != nil {
				debug.Log("add label %q to %s: %v", label, id, lerr)
			}
		}
	}

	m.reloadAfterMutation()
	m.selectAfterCreate(id)
	if err != nil {
		return fmt.Errorf("creating issue: %w", err)
	}
	m.setStatus("Created "+id, false)
	return nil
}

func (m *Model) selectAfterCreate(id string) {
	if id != "" {
		if i := IndexOfIssue(m.viewOrder(), id); i >= 0 {
			m.selected = i
			return
		}
	}
	m.selected = 0
}

// updateIssue sends one call per field that differs from original and one
// per added or removed label. An unchanged form makes no calls and skips the
// reload.
func (m *Model) updateIssue(original model.Issue, form *EditModal) error {
	id := original.ID
	changes := fieldChanges(original, form)
	adds, removes := labelDiff(original.Labels, form.LabelList())
	if len(changes) == 0 && len(adds) == 0 && len(removes) == 0 {
		m.setStatus("No changes", false)
		return nil
	}

	err := m.applyUpdate(id, changes, adds, removes)
	m.reloadAfterMutation()
	if err != nil {
		return err
	}
	m.setStatus("Updated "+id, false)
	return nil
}

func (m *Model) applyUpdate(id string, changes []fieldChange, adds, removes []string) error {
	for _, c := range changes {
		debug.Log("update %s %s", id, c.field)
		if err := m.backend.UpdateField(m.ctx, id, c.field, c.value); err != nil {
			return fmt.Errorf("updating %s of %s: %w", c.field, id, err)
		}
	}
	for _, label := range adds {
		if err := m.backend.AddLabel(m.ctx, id, label); err != nil {
			return fmt.Errorf("adding label %q to %s: %w", label, id, err)
		}
	}
	for _, label := range removes {
		if err := m.backend.RemoveLabel(m.ctx, id, label); err != nil {
			return fmt.Errorf("removing label %q from %s: %w", label, id, err)
		}
	}
	return nil
}

type fieldChange struct {
	field string
	value string
}

// fieldChanges lists the scalar fields the form changed, in a fixed order.
func fieldChanges(original model.Issue, form *EditModal) []fieldChange {
	var out []fieldChange
	if title := form.Title.String(); title != original.Title {
		out = append(out, fieldChange{"title", title})
	}
	if form.Description.String() != original.Description {
		out = append(out, fieldChange{"description", form.DescriptionText()})
	}
	if form.Type != original.IssueType {
		out = append(out, fieldChange{"type", string(form.Type)})
	}
	if form.Priority != original.Priority {
		out = append(out, fieldChange{"priority", strconv.Itoa(form.Priority)})
	}
	return out
}

// labelDiff returns the labels to add (in updated order) and to remove (in
// old order).
func labelDiff(old, updated []string) (adds, removes []string) {
	oldSet := make(map[string]bool, len(old))
	for _, l := range old {
		oldSet[l] = true
	}
	newSet := make(map[string]bool, len(updated))
	for _, l := range updated {
		if !oldSet[l] && !newSet[l] {
			adds = append(adds, l)
		}
		newSet[l] = true
	}
	for _, l := range old {
		if !newSet[l] {
			removes = append(removes, l)
		}
	}
	return adds, removes
}

// closeIssue closes id. An empty reason is omitted.
func (m *Model) closeIssue(id, reason string) error {
	err := m.backend.Close(m.ctx, id, strings.TrimSpace(reason))
	m.reloadAfterMutation()
	if err != nil {
		return fmt.Errorf("closing %s: %w", id, err)
	}
	m.setStatus("Closed "+id, false)
	return nil
}

// reopenIssue sets id back to open and records a non-empty reason as a
// comment. A failed comment is logged only.
func (m *Model) reopenIssue(id, reason string) error {
	err := m.backend.UpdateStatus(m.ctx, id, model.StatusOpen)
	if err == nil {
		if r := strings.TrimSpace(reason); r != "" {
			if cerr := m.backend.AddComment(m.ctx, id, ReopenCommentPrefix+r); cerr != nil {
				debug.Log("reopen comment on %s: %v", id, cerr)
			}
		}
	}
	m.reloadAfterMutation()
	if err != nil {
		return fmt.Errorf("reopening %s: %w", id, err)
	}
	m.setStatus("Reopened "+id, false)
	return nil
}

// addComment comments on id. Blank text is dropped without a call.
func (m *Model) addComment(id, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	err := m.backend.AddComment(m.ctx, id, text)
	m.reloadAfterMutation()
	if err != nil {
		return fmt.Errorf("commenting on %s: %w", id, err)
	}
	m.setStatus("Commented on "+id, false)
	return nil
}

// toggleDeferred adds or removes the deferred label.
func (m *Model) toggleDeferred(issue *model.Issue) error {
	id := issue.ID
	var err error
	if issue.IsDeferred() {
		err = m.backend.RemoveLabel(m.ctx, id, model.DeferredLabel)
	} else {
		err = m.backend.AddLabel(m.ctx, id, model.DeferredLabel)
	}
	m.reloadAfterMutation()
	if err != nil {
		return fmt.Errorf("toggling deferred on %s: %w", id, err)
	}
	m.setStatus("Toggled deferred on "+id, false)
	return nil
}
