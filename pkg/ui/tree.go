// tree.go - dependency-aware display order for the issue list
package ui

import (
	"sort"
	"strings"

	"github.com/vanderheijden86/beads-tui/pkg/model"
)

// ViewEntry is one row of the list: an issue and its nesting depth.
// Entries are recomputed from the issue collection on every draw and are
// never persisted.
type ViewEntry struct {
	Issue *model.Issue
	Depth int
}

// BuildViewOrder turns a flat issue collection into the hierarchical list
// order. Non-closed issues are nested under their parents and under the
// issues that block them; closed issues follow flat at depth 0 in the order
// they arrived in. The result depends only on the arguments.
//
// filter is a case-insensitive substring matched against title or id; an
// empty filter keeps everything.
func BuildViewOrder(issues []model.Issue, hideClosed bool, filter string) []ViewEntry {
	needle := strings.ToLower(filter)

	// Step 1: Filter and partition
	var open, closed []*model.Issue
	for i := range issues {
		issue := &issues[i]
		if hideClosed && issue.IsClosed() {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(issue.Title), needle) &&
			!strings.Contains(strings.ToLower(issue.ID), needle) {
			continue
		}
		if issue.IsClosed() {
			closed = append(closed, issue)
		} else {
			open = append(open, issue)
		}
	}

	// Step 2: Register children under parents and blockers (non-closed only)
	present := make(map[string]bool, len(open))
	for _, issue := range open {
		present[issue.ID] = true
	}

	childrenOf := make(map[string][]*model.Issue)
	isChild := make(map[string]bool)
	register := func(parentID string, child *model.Issue) {
		if parentID == child.ID || !present[parentID] {
			return
		}
		childrenOf[parentID] = append(childrenOf[parentID], child)
		isChild[child.ID] = true
	}
	for _, issue := range open {
		for _, pid := range issue.ParentIDs {
			register(pid, issue)
		}
		for _, bid := range issue.BlockedBy {
			register(bid, issue)
		}
	}

	// Step 3: Roots, deferred last, then priority, then title
	var roots []*model.Issue
	for _, issue := range open {
		if !isChild[issue.ID] {
			roots = append(roots, issue)
		}
	}
	sortRoots(roots)

	// Step 4: Depth-first walk; the first time an issue is popped wins
	entries := make([]ViewEntry, 0, len(open)+len(closed))
	visited := make(map[string]bool, len(open))
	walk := func(root *model.Issue) {
		stack := []ViewEntry{{Issue: root, Depth: 0}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[top.Issue.ID] {
				continue
			}
			visited[top.Issue.ID] = true
			entries = append(entries, top)

			children := append([]*model.Issue(nil), childrenOf[top.Issue.ID]...)
			sortChildrenForStack(children)
			for _, child := range children {
				if !visited[child.ID] {
					stack = append(stack, ViewEntry{Issue: child, Depth: top.Depth + 1})
				}
			}
		}
	}
	for _, root := range roots {
		walk(root)
	}

	// Issues caught in a parent/blocker cycle have no root to hang from.
	// Surface them as extra roots so nothing silently disappears.
	if len(visited) < len(open) {
		var orphans []*model.Issue
		for _, issue := range open {
			if !visited[issue.ID] {
				orphans = append(orphans, issue)
			}
		}
		sortRoots(orphans)
		for _, issue := range orphans {
			walk(issue)
		}
	}

	// Step 5: Closed issues, flat, in load order
	for _, issue := range closed {
		entries = append(entries, ViewEntry{Issue: issue, Depth: 0})
	}

	return entries
}

func sortRoots(roots []*model.Issue) {
	sort.SliceStable(roots, func(i, j int) bool {
		a, b := roots[i], roots[j]
		if a.IsDeferred() != b.IsDeferred() {
			return !a.IsDeferred()
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.Title < b.Title
	})
}

// sortChildrenForStack orders children by descending priority then
// descending title, so that popping them off a stack yields ascending order.
func sortChildrenForStack(children []*model.Issue) {
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Title > b.Title
	})
}

// IndexOfIssue returns the position of id in entries, or -1.
func IndexOfIssue(entries []ViewEntry, id string) int {
	for i, e := range entries {
		if e.Issue.ID == id {
			return i
		}
	}
	return -1
}
