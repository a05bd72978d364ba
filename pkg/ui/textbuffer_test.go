package ui

import (
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"pgregory.net/rapid"
)

func bufferAt(s string, cursor int) TextBuffer {
	b := NewTextBuffer(s)
	b.cursor = cursor
	return b
}

func TestTextBuffer_WordMovement(t *testing.T) {
	b := bufferAt("hello world", 0)

	b.MoveWordForward()
	if b.Cursor() != 6 {
		t.Fatalf("Expected cursor at 6 after word forward, got %d", b.Cursor())
	}

	b.MoveWordBackward()
	if b.Cursor() != 0 {
		t.Fatalf("Expected cursor at 0 after word backward, got %d", b.Cursor())
	}
}

func TestTextBuffer_DeleteWordBackward(t *testing.T) {
	b := NewTextBuffer("hello world")
	b.DeleteWordBackward()
	if b.String() != "hello " {
		t.Errorf("Expected %q, got %q", "hello ", b.String())
	}

	b = NewTextBuffer("hello   ")
	b.DeleteWordBackward()
	if b.String() != "" {
		t.Errorf("Expected trailing whitespace and word removed, got %q", b.String())
	}
}

func TestTextBuffer_InsertMultiByte(t *testing.T) {
	b := NewTextBuffer("")
	b.Insert('é')
	b.Insert('日')
	if b.Cursor() != len("é日") {
		t.Errorf("Expected cursor %d, got %d", len("é日"), b.Cursor())
	}

	b.MoveLeft()
	if b.Cursor() != len("é") {
		t.Errorf("Expected cursor on rune boundary %d, got %d", len("é"), b.Cursor())
	}

	b.DeleteBackward()
	if b.String() != "日" || b.Cursor() != 0 {
		t.Errorf("Expected %q with cursor 0, got %q cursor %d", "日", b.String(), b.Cursor())
	}
}

func TestTextBuffer_BoundaryNoops(t *testing.T) {
	b := NewTextBuffer("")
	b.MoveLeft()
	b.MoveRight()
	b.DeleteBackward()
	b.DeleteForward()
	b.DeleteWordBackward()
	b.MoveWordBackward()
	b.MoveWordForward()
	b.MoveUp()
	b.MoveDown()
	if b.String() != "" || b.Cursor() != 0 {
		t.Errorf("Expected empty buffer at 0, got %q at %d", b.String(), b.Cursor())
	}

	b = NewTextBuffer("abc")
	b.DeleteForward()
	b.MoveRight()
	if b.String() != "abc" || b.Cursor() != 3 {
		t.Errorf("Expected forward ops at end to be no-ops, got %q at %d", b.String(), b.Cursor())
	}
}

func TestTextBuffer_LineMovement(t *testing.T) {
	b := bufferAt("first line\nab\nthird line", len("first line\nab\nthi"))

	b.MoveUp()
	if want := len("first line\nab"); b.Cursor() != want {
		t.Fatalf("Expected cursor clamped to end of short line (%d), got %d", want, b.Cursor())
	}

	b.MoveUp()
	if want := 2; b.Cursor() != want {
		t.Fatalf("Expected cursor at column 2 of first line (%d), got %d", want, b.Cursor())
	}

	b.MoveUp()
	if b.Cursor() != 2 {
		t.Fatalf("Expected MoveUp on first line to be a no-op, got %d", b.Cursor())
	}

	b.MoveDown()
	b.MoveDown()
	if want := len("first line\nab\nth"); b.Cursor() != want {
		t.Fatalf("Expected cursor at column 2 of third line (%d), got %d", want, b.Cursor())
	}

	b.MoveLineStart()
	if want := len("first line\nab\n"); b.Cursor() != want {
		t.Errorf("Expected line start %d, got %d", want, b.Cursor())
	}
	b.MoveLineEnd()
	if b.Cursor() != b.Len() {
		t.Errorf("Expected line end %d, got %d", b.Len(), b.Cursor())
	}
}

func TestTextBuffer_MoveUpKeepsRuneColumn(t *testing.T) {
	b := bufferAt("日本語\nabc", len("日本語\nab"))
	b.MoveUp()
	if want := len("日本"); b.Cursor() != want {
		t.Errorf("Expected cursor after two runes (%d), got %d", want, b.Cursor())
	}
}

func TestTextBuffer_DeleteToLineBounds(t *testing.T) {
	b := bufferAt("one two\nthree", 4)
	b.DeleteToLineEnd()
	if b.String() != "one \nthree" {
		t.Errorf("Expected %q, got %q", "one \nthree", b.String())
	}
	b.DeleteToLineStart()
	if b.String() != "\nthree" || b.Cursor() != 0 {
		t.Errorf("Expected %q at 0, got %q at %d", "\nthree", b.String(), b.Cursor())
	}
}

func TestTextBuffer_HandleKey(t *testing.T) {
	b := NewTextBuffer("")
	b.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello")}, false)
	b.HandleKey(tea.KeyMsg{Type: tea.KeySpace}, false)
	b.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("world")}, false)
	if b.String() != "hello world" {
		t.Fatalf("Expected typed text, got %q", b.String())
	}

	b.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlA}, false)
	if b.Cursor() != 0 {
		t.Errorf("Expected ctrl+a to move to start, got %d", b.Cursor())
	}
	b.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}, Alt: true}, false)
	if b.Cursor() != 6 {
		t.Errorf("Expected alt+f to move to 6, got %d", b.Cursor())
	}
	b.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlE}, false)
	b.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlW}, false)
	if b.String() != "hello " {
		t.Errorf("Expected ctrl+w to delete last word, got %q", b.String())
	}

	if b.HandleKey(tea.KeyMsg{Type: tea.KeyUp}, false) {
		t.Error("Expected up to be unhandled in a single-line buffer")
	}
	if b.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, true) {
		t.Error("Expected plain enter to be left to the caller")
	}
	if !b.HandleKey(tea.KeyMsg{Type: tea.KeyEnter, Alt: true}, true) {
		t.Error("Expected alt+enter to insert a newline in a multi-line buffer")
	}
	if b.String() != "hello \n" {
		t.Errorf("Expected newline inserted, got %q", b.String())
	}
}

func TestTextBuffer_View(t *testing.T) {
	mark := func(s string) string { return "[" + s + "]" }

	b := bufferAt("abc", 1)
	if got := b.View(mark); got != "a[b]c" {
		t.Errorf("Expected a[b]c, got %q", got)
	}
	b.MoveLineEnd()
	if got := b.View(mark); got != "abc[ ]" {
		t.Errorf("Expected abc[ ], got %q", got)
	}
}

// TestTextBuffer_CursorBoundaryProperty drives random edit sequences over
// multi-byte text and checks the cursor invariant after every step.
func TestTextBuffer_CursorBoundaryProperty(t *testing.T) {
	alphabet := []rune{'a', 'b', ' ', '\n', 'é', '日', '🙂', '\t'}

	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.SliceOfN(rapid.SampledFrom(alphabet), 0, 20).Draw(t, "seed")
		b := NewTextBuffer(string(seed))

		ops := []func(){
			func() { b.Insert(rapid.SampledFrom(alphabet).Draw(t, "rune")) },
			b.DeleteBackward,
			b.DeleteForward,
			b.DeleteWordBackward,
			b.DeleteToLineStart,
			b.DeleteToLineEnd,
			b.MoveLeft,
			b.MoveRight,
			b.MoveWordBackward,
			b.MoveWordForward,
			b.MoveLineStart,
			b.MoveLineEnd,
			b.MoveUp,
			b.MoveDown,
			b.Clear,
		}

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			ops[rapid.IntRange(0, len(ops)-1).Draw(t, "op")]()

			if b.Cursor() < 0 || b.Cursor() > b.Len() {
				t.Fatalf("cursor %d out of range [0,%d]", b.Cursor(), b.Len())
			}
			if !utf8.ValidString(b.String()[:b.Cursor()]) || !utf8.ValidString(b.String()[b.Cursor():]) {
				t.Fatalf("cursor %d splits a rune in %q", b.Cursor(), b.String())
			}
		}
	})
}
