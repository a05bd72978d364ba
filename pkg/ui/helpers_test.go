package ui

import (
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
)

func TestFormatTimeRel(t *testing.T) {
	now := time.Now()
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Time{}, "unknown"},
		{now.Add(time.Hour), "now"},
		{now.Add(-30 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
		{now.Add(-15 * 24 * time.Hour), "2w ago"},
		{now.Add(-65 * 24 * time.Hour), "2mo ago"},
	}
	for _, tt := range tests {
		if got := FormatTimeRel(tt.in); got != tt.want {
			t.Errorf("FormatTimeRel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate_WideRunes(t *testing.T) {
	s := "日本語タイトル"
	got := truncate(s, 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("expected width <= 7, got %d (%q)", w, got)
	}
	if truncate("short", 10) != "short" {
		t.Error("short strings should be unchanged")
	}
	if truncate("anything", 0) != "" {
		t.Error("zero width should yield empty string")
	}
}

func TestTruncateStyled_KeepsEscapes(t *testing.T) {
	styled := "\x1b[31mhello world\x1b[0m"
	got := truncateStyled(styled, 5)
	if runewidth.StringWidth(stripANSIForTest(got)) > 5 {
		t.Errorf("expected visible width <= 5, got %q", got)
	}
}

func stripANSIForTest(s string) string {
	out := make([]rune, 0, len(s))
	inEsc := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			out = append(out, r)
		}
	}
	return string(out)
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("expected 'ab  ', got %q", got)
	}
	if got := padRight("日本", 5); runewidth.StringWidth(got) != 5 {
		t.Errorf("expected width 5, got %q", got)
	}
	if got := padRight("toolong", 3); got != "toolong" {
		t.Errorf("expected unchanged, got %q", got)
	}
}

func TestFlattenLines(t *testing.T) {
	if got := flattenLines("a\r\nb\nc", ", "); got != "a, b, c" {
		t.Errorf("unexpected %q", got)
	}
}
