package ui

import (
	"testing"
)

func TestMarkdownCache_KeepsOnlyCurrentWidth(t *testing.T) {
	c := newMarkdownCache(true)

	c.render("# Heading\n\nbody", 40)
	c.render("other", 40)
	if len(c.rendered) != 2 {
		t.Fatalf("expected 2 cached results, got %d", len(c.rendered))
	}

	c.render("# Heading\n\nbody", 60)
	if len(c.rendered) != 1 {
		t.Errorf("expected cache reset on width change, got %d entries", len(c.rendered))
	}
	if len(c.renderers) != 2 {
		t.Errorf("expected renderers kept per width, got %d", len(c.renderers))
	}
}

func TestMarkdownCache_ResetOnReload(t *testing.T) {
	m, _, _ := newTestModel(testIssues())
	m.markdown.render("description", 40)
	if len(m.markdown.rendered) == 0 {
		t.Fatal("expected a cached render")
	}

	if err := m.reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(m.markdown.rendered) != 0 {
		t.Errorf("expected cache cleared by reload, got %d entries", len(m.markdown.rendered))
	}
}
