package model

import (
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"open", StatusOpen},
		{"in_progress", StatusInProgress},
		{"in-progress", StatusInProgress},
		{"InProgress", StatusInProgress},
		{"blocked", StatusBlocked},
		{"CLOSED", StatusClosed},
		{"tombstone", StatusOpen},
		{"", StatusOpen},
	}
	for _, tt := range tests {
		if got := ParseStatus(tt.in); got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseIssueType(t *testing.T) {
	tests := []struct {
		in   string
		want IssueType
	}{
		{"task", TypeTask},
		{"Bug", TypeBug},
		{"feature", TypeFeature},
		{"epic", TypeEpic},
		{"story", TypeStory},
		{"chore", TypeTask},
		{"", TypeTask},
	}
	for _, tt := range tests {
		if got := ParseIssueType(tt.in); got != tt.want {
			t.Errorf("ParseIssueType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDependencyType(t *testing.T) {
	tests := []struct {
		in   string
		want DependencyType
	}{
		{"blocks", DepBlocks},
		{"parent-child", DepParentChild},
		{"parent_child", DepParentChild},
		{"related", DepRelated},
		{"discovered-from", DepRelated},
	}
	for _, tt := range tests {
		if got := ParseDependencyType(tt.in); got != tt.want {
			t.Errorf("ParseDependencyType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIssueIsDeferred(t *testing.T) {
	issue := Issue{Labels: []string{"ui", DeferredLabel}}
	if !issue.IsDeferred() {
		t.Error("Expected issue with deferred label to be deferred")
	}
	issue.Labels = []string{"ui"}
	if issue.IsDeferred() {
		t.Error("Expected issue without deferred label not to be deferred")
	}
}

func TestIssueTypeIcon(t *testing.T) {
	if got := TypeTask.Icon(StatusOpen); got != "▷" {
		t.Errorf("Expected outline task icon, got %q", got)
	}
	if got := TypeFeature.Icon(StatusInProgress); got != "★" {
		t.Errorf("Expected filled feature icon, got %q", got)
	}
	if got := TypeStory.Icon(StatusClosed); got != "■" {
		t.Errorf("Expected closed story icon, got %q", got)
	}
	if got := IssueType("unknown").Icon(StatusBlocked); got != "▷" {
		t.Errorf("Expected unknown type to use task outline, got %q", got)
	}
}

func TestApplyDependencies(t *testing.T) {
	issues := []Issue{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	deps := []Dependency{
		{IssueID: "b", DependsOnID: "a", Type: DepParentChild},
		{IssueID: "c", DependsOnID: "a", Type: DepBlocks},
		{IssueID: "c", DependsOnID: "b", Type: DepRelated},
		{IssueID: "zz", DependsOnID: "a", Type: DepParentChild},
	}

	ApplyDependencies(issues, deps)

	if len(issues[1].ParentIDs) != 1 || issues[1].ParentIDs[0] != "a" {
		t.Errorf("Expected b to have parent a, got %v", issues[1].ParentIDs)
	}
	if len(issues[2].BlockedBy) != 1 || issues[2].BlockedBy[0] != "a" {
		t.Errorf("Expected c to be blocked by a, got %v", issues[2].BlockedBy)
	}
	if len(issues[0].Blocks) != 1 || issues[0].Blocks[0] != "c" {
		t.Errorf("Expected a to block c, got %v", issues[0].Blocks)
	}
	if len(issues[2].ParentIDs) != 0 {
		t.Errorf("Related edges must not create parents, got %v", issues[2].ParentIDs)
	}
}

func TestSortForDisplay(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)
	issues := []Issue{
		{ID: "closed-old", Title: "A", Status: StatusClosed, ClosedAt: &early},
		{ID: "blocked", Title: "B", Status: StatusBlocked, Priority: 0},
		{ID: "open-p2", Title: "Z", Status: StatusOpen, Priority: 2},
		{ID: "closed-new", Title: "Z", Status: StatusClosed, ClosedAt: &late},
		{ID: "open-p1", Title: "Y", Status: StatusOpen, Priority: 1},
		{ID: "wip", Title: "X", Status: StatusInProgress, Priority: 3},
	}

	SortForDisplay(issues)

	want := []string{"wip", "open-p1", "open-p2", "blocked", "closed-new", "closed-old"}
	for i, id := range want {
		if issues[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, issues[i].ID)
		}
	}
}
