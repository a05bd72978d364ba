// Package model defines the issue data structures shown by bu.
package model

import (
	"sort"
	"strings"
	"time"
)

// DeferredLabel marks an issue as parked. Deferred issues keep their status
// but sink to the bottom of their sibling tier.
const DeferredLabel = "deferred"

// Priority bounds. 0 is the most urgent.
const (
	MinPriority     = 0
	MaxPriority     = 4
	DefaultPriority = 2
)

// Issue is an immutable snapshot of a tracked work item.
// A reload replaces the whole collection; fields are never patched in place.
type Issue struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    int       `json:"priority"` // No omitempty: 0 is valid (P0)
	IssueType   IssueType `json:"issue_type"`
	Labels      []string  `json:"labels,omitempty"`

	Assignee  string `json:"assignee,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	CloseReason string     `json:"close_reason,omitempty"`

	// Derived from dependency edges at load time.
	ParentIDs []string `json:"parent_ids,omitempty"`
	BlockedBy []string `json:"blocked_by,omitempty"`
	Blocks    []string `json:"blocks,omitempty"`

	Comments []*Comment `json:"comments,omitempty"`
}

// IsClosed reports whether the issue is closed.
func (i *Issue) IsClosed() bool {
	return i.Status == StatusClosed
}

// IsDeferred reports whether the issue carries the deferred label.
func (i *Issue) IsDeferred() bool {
	return i.HasLabel(DeferredLabel)
}

// HasLabel reports whether the issue carries label.
func (i *Issue) HasLabel(label string) bool {
	for _, l := range i.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Icon returns the list glyph for the issue, picked from its type and status.
func (i *Issue) Icon() string {
	return i.IssueType.Icon(i.Status)
}

// Status represents the current state of an issue.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusClosed     Status = "closed"
)

// ParseStatus maps a persisted status string to a Status.
// Unknown values fall back to StatusOpen instead of failing the load.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return StatusOpen
	case "in_progress", "in-progress", "inprogress":
		return StatusInProgress
	case "blocked":
		return StatusBlocked
	case "closed":
		return StatusClosed
	default:
		return StatusOpen
	}
}

// Rank orders statuses for display: in progress, open, blocked, closed.
func (s Status) Rank() int {
	switch s {
	case StatusInProgress:
		return 0
	case StatusOpen:
		return 1
	case StatusBlocked:
		return 2
	case StatusClosed:
		return 3
	default:
		return 1
	}
}

// Icon returns a plain unicode glyph for the status.
func (s Status) Icon() string {
	switch s {
	case StatusInProgress:
		return "●"
	case StatusBlocked:
		return "■"
	case StatusClosed:
		return "✓"
	default:
		return "○"
	}
}

// Label returns a human readable status name.
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "in progress"
	default:
		return string(s)
	}
}

// IssueType categorizes the kind of work.
type IssueType string

const (
	TypeTask    IssueType = "task"
	TypeBug     IssueType = "bug"
	TypeFeature IssueType = "feature"
	TypeEpic    IssueType = "epic"
	TypeStory   IssueType = "story"
)

// IssueTypes lists the types in form cycling order.
var IssueTypes = []IssueType{TypeTask, TypeBug, TypeFeature, TypeEpic, TypeStory}

// ParseIssueType maps a persisted type string to an IssueType.
// Unknown values fall back to TypeTask.
func ParseIssueType(s string) IssueType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bug":
		return TypeBug
	case "feature":
		return TypeFeature
	case "epic":
		return TypeEpic
	case "story":
		return TypeStory
	default:
		return TypeTask
	}
}

// Index returns the position of t in IssueTypes, or 0 if absent.
func (t IssueType) Index() int {
	for i, it := range IssueTypes {
		if it == t {
			return i
		}
	}
	return 0
}

// Icon returns the glyph for t. Open and blocked issues get an outline,
// in-progress issues a filled glyph and closed issues the closed variant.
func (t IssueType) Icon(status Status) string {
	switch status {
	case StatusInProgress:
		return typeIconsFilled[t.Index()]
	case StatusClosed:
		return typeIconsClosed[t.Index()]
	default:
		return typeIconsOutline[t.Index()]
	}
}

var (
	typeIconsOutline = [...]string{"▷", "⊘", "☆", "◇", "☰"}
	typeIconsFilled  = [...]string{"▶", "●", "★", "◆", "◤"}
	typeIconsClosed  = [...]string{"▶", "●", "★", "◆", "■"}
)

// DependencyType categorizes the relationship between two issues.
type DependencyType string

const (
	DepBlocks      DependencyType = "blocks"
	DepParentChild DependencyType = "parent-child"
	DepRelated     DependencyType = "related"
)

// ParseDependencyType maps a persisted edge kind to a DependencyType.
// Unknown values fall back to DepRelated, which never affects ordering.
func ParseDependencyType(s string) DependencyType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blocks":
		return DepBlocks
	case "parent-child", "parent_child":
		return DepParentChild
	default:
		return DepRelated
	}
}

// Dependency is a directed edge: IssueID depends on DependsOnID.
// For parent-child edges DependsOnID is the parent; for blocks edges it is
// the blocker.
type Dependency struct {
	IssueID     string         `json:"issue_id"`
	DependsOnID string         `json:"depends_on_id"`
	Type        DependencyType `json:"type"`
}

// Comment is a note attached to an issue.
type Comment struct {
	ID        int64     `json:"id"`
	IssueID   string    `json:"issue_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ApplyDependencies folds dependency edges into the derived relationship
// lists of issues. Existing relationship lists are replaced.
func ApplyDependencies(issues []Issue, deps []Dependency) {
	index := make(map[string]int, len(issues))
	for i := range issues {
		index[issues[i].ID] = i
		issues[i].ParentIDs = nil
		issues[i].BlockedBy = nil
		issues[i].Blocks = nil
	}

	for _, dep := range deps {
		switch dep.Type {
		case DepParentChild:
			if i, ok := index[dep.IssueID]; ok {
				issues[i].ParentIDs = append(issues[i].ParentIDs, dep.DependsOnID)
			}
		case DepBlocks:
			if i, ok := index[dep.IssueID]; ok {
				issues[i].BlockedBy = append(issues[i].BlockedBy, dep.DependsOnID)
			}
			if i, ok := index[dep.DependsOnID]; ok {
				issues[i].Blocks = append(issues[i].Blocks, dep.IssueID)
			}
		}
	}
}

// SortForDisplay orders issues the way the store hands them out:
// non-closed issues by status rank, priority and title, then closed issues
// most-recently-closed first.
func SortForDisplay(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		x, y := &issues[a], &issues[b]
		if x.IsClosed() != y.IsClosed() {
			return !x.IsClosed()
		}
		if x.IsClosed() {
			return closedTime(x).After(closedTime(y))
		}
		if rx, ry := x.Status.Rank(), y.Status.Rank(); rx != ry {
			return rx < ry
		}
		if x.Priority != y.Priority {
			return x.Priority < y.Priority
		}
		return x.Title < y.Title
	})
}

func closedTime(i *Issue) time.Time {
	if i.ClosedAt != nil {
		return *i.ClosedAt
	}
	return i.UpdatedAt
}
