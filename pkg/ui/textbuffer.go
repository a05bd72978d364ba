package ui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// TextBuffer is an editable string with a byte-offset cursor.
// The cursor always sits on a rune boundary with 0 <= cursor <= len(text).
// Every movement or deletion at an exhausted boundary is a no-op.
type TextBuffer struct {
	text   string
	cursor int
}

// NewTextBuffer returns a buffer holding s with the cursor at the end.
func NewTextBuffer(s string) TextBuffer {
	return TextBuffer{text: s, cursor: len(s)}
}

// String returns the buffer contents.
func (b *TextBuffer) String() string { return b.text }

// Cursor returns the cursor as a byte offset.
func (b *TextBuffer) Cursor() int { return b.cursor }

// Len returns the content length in bytes.
func (b *TextBuffer) Len() int { return len(b.text) }

// IsEmpty reports whether the buffer holds no text.
func (b *TextBuffer) IsEmpty() bool { return b.text == "" }

// Clear resets the buffer to empty.
func (b *TextBuffer) Clear() {
	b.text = ""
	b.cursor = 0
}

// SetText replaces the contents and moves the cursor to the end.
func (b *TextBuffer) SetText(s string) {
	b.text = s
	b.cursor = len(s)
}

// Insert inserts r at the cursor and advances past it.
func (b *TextBuffer) Insert(r rune) {
	b.InsertString(string(r))
}

// InsertString inserts s at the cursor and advances past it.
func (b *TextBuffer) InsertString(s string) {
	if s == "" {
		return
	}
	b.text = b.text[:b.cursor] + s + b.text[b.cursor:]
	b.cursor += len(s)
}

// DeleteBackward removes the rune before the cursor.
func (b *TextBuffer) DeleteBackward() {
	if b.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(b.text[:b.cursor])
	b.text = b.text[:b.cursor-size] + b.text[b.cursor:]
	b.cursor -= size
}

// DeleteForward removes the rune after the cursor.
func (b *TextBuffer) DeleteForward() {
	if b.cursor >= len(b.text) {
		return
	}
	_, size := utf8.DecodeRuneInString(b.text[b.cursor:])
	b.text = b.text[:b.cursor] + b.text[b.cursor+size:]
}

// DeleteWordBackward removes trailing whitespace before the cursor and the
// run of non-whitespace preceding it.
func (b *TextBuffer) DeleteWordBackward() {
	start := b.wordStartBefore(b.cursor)
	if start == b.cursor {
		return
	}
	b.text = b.text[:start] + b.text[b.cursor:]
	b.cursor = start
}

// DeleteToLineStart removes everything between the line start and the cursor.
func (b *TextBuffer) DeleteToLineStart() {
	start := b.lineStart(b.cursor)
	b.text = b.text[:start] + b.text[b.cursor:]
	b.cursor = start
}

// DeleteToLineEnd removes everything between the cursor and the line end.
func (b *TextBuffer) DeleteToLineEnd() {
	end := b.lineEnd(b.cursor)
	b.text = b.text[:b.cursor] + b.text[end:]
}

// MoveLeft moves the cursor one rune to the left.
func (b *TextBuffer) MoveLeft() {
	if b.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(b.text[:b.cursor])
	b.cursor -= size
}

// MoveRight moves the cursor one rune to the right.
func (b *TextBuffer) MoveRight() {
	if b.cursor >= len(b.text) {
		return
	}
	_, size := utf8.DecodeRuneInString(b.text[b.cursor:])
	b.cursor += size
}

// MoveWordBackward moves to the start of the previous word.
func (b *TextBuffer) MoveWordBackward() {
	b.cursor = b.wordStartBefore(b.cursor)
}

// MoveWordForward moves to the start of the next word.
func (b *TextBuffer) MoveWordForward() {
	pos := b.cursor
	for pos < len(b.text) {
		r, size := utf8.DecodeRuneInString(b.text[pos:])
		if unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	for pos < len(b.text) {
		r, size := utf8.DecodeRuneInString(b.text[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	b.cursor = pos
}

// MoveLineStart moves to the start of the current line.
func (b *TextBuffer) MoveLineStart() {
	b.cursor = b.lineStart(b.cursor)
}

// MoveLineEnd moves to the end of the current line.
func (b *TextBuffer) MoveLineEnd() {
	b.cursor = b.lineEnd(b.cursor)
}

// MoveUp moves to the previous line, keeping the rune column when the
// target line is long enough and clamping to its end otherwise.
func (b *TextBuffer) MoveUp() {
	start := b.lineStart(b.cursor)
	if start == 0 {
		return
	}
	col := utf8.RuneCountInString(b.text[start:b.cursor])
	prevStart := b.lineStart(start - 1)
	b.cursor = b.offsetAtColumn(prevStart, start-1, col)
}

// MoveDown moves to the next line, keeping the rune column when possible.
func (b *TextBuffer) MoveDown() {
	end := b.lineEnd(b.cursor)
	if end >= len(b.text) {
		return
	}
	col := utf8.RuneCountInString(b.text[b.lineStart(b.cursor):b.cursor])
	nextStart := end + 1
	b.cursor = b.offsetAtColumn(nextStart, b.lineEnd(nextStart), col)
}

// LineCount returns the number of lines in the buffer.
func (b *TextBuffer) LineCount() int {
	return strings.Count(b.text, "\n") + 1
}

func (b *TextBuffer) lineStart(pos int) int {
	return strings.LastIndexByte(b.text[:pos], '\n') + 1
}

func (b *TextBuffer) lineEnd(pos int) int {
	if i := strings.IndexByte(b.text[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(b.text)
}

// offsetAtColumn returns the byte offset of rune column col within the line
// text[start:end], clamped to end.
func (b *TextBuffer) offsetAtColumn(start, end, col int) int {
	pos := start
	for i := 0; i < col && pos < end; i++ {
		_, size := utf8.DecodeRuneInString(b.text[pos:end])
		pos += size
	}
	return pos
}

func (b *TextBuffer) wordStartBefore(pos int) int {
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(b.text[:pos])
		if !unicode.IsSpace(r) {
			break
		}
		pos -= size
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(b.text[:pos])
		if unicode.IsSpace(r) {
			break
		}
		pos -= size
	}
	return pos
}

// HandleKey applies a terminal-style editing key to the buffer and reports
// whether the key was consumed. Vertical movement and newline insertion only
// apply when multiline is set; plain Enter is left to the caller.
func (b *TextBuffer) HandleKey(msg tea.KeyMsg, multiline bool) bool {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			if len(msg.Runes) != 1 {
				return false
			}
			switch msg.Runes[0] {
			case 'b':
				b.MoveWordBackward()
			case 'f':
				b.MoveWordForward()
			default:
				return false
			}
			return true
		}
		b.InsertString(string(msg.Runes))
	case tea.KeySpace:
		b.Insert(' ')
	case tea.KeyCtrlA, tea.KeyHome:
		b.MoveLineStart()
	case tea.KeyCtrlE, tea.KeyEnd:
		b.MoveLineEnd()
	case tea.KeyCtrlB, tea.KeyLeft:
		b.MoveLeft()
	case tea.KeyCtrlF, tea.KeyRight:
		b.MoveRight()
	case tea.KeyCtrlLeft:
		b.MoveWordBackward()
	case tea.KeyCtrlRight:
		b.MoveWordForward()
	case tea.KeyCtrlW:
		b.DeleteWordBackward()
	case tea.KeyCtrlU:
		b.DeleteToLineStart()
	case tea.KeyCtrlK:
		b.DeleteToLineEnd()
	case tea.KeyBackspace, tea.KeyCtrlH:
		if msg.Alt {
			b.DeleteWordBackward()
		} else {
			b.DeleteBackward()
		}
	case tea.KeyDelete, tea.KeyCtrlD:
		b.DeleteForward()
	case tea.KeyUp:
		if !multiline {
			return false
		}
		b.MoveUp()
	case tea.KeyDown:
		if !multiline {
			return false
		}
		b.MoveDown()
	case tea.KeyEnter:
		if !multiline || !msg.Alt {
			return false
		}
		b.Insert('\n')
	case tea.KeyCtrlJ:
		if !multiline {
			return false
		}
		b.Insert('\n')
	default:
		return false
	}
	return true
}

// View renders the buffer with the rune under the cursor passed through
// cursor. At a line end a highlighted space stands in for the rune.
func (b *TextBuffer) View(cursor func(string) string) string {
	if cursor == nil {
		return b.text
	}
	if b.cursor >= len(b.text) {
		return b.text + cursor(" ")
	}
	r, size := utf8.DecodeRuneInString(b.text[b.cursor:])
	if r == '\n' {
		return b.text[:b.cursor] + cursor(" ") + b.text[b.cursor:]
	}
	return b.text[:b.cursor] + cursor(b.text[b.cursor:b.cursor+size]) + b.text[b.cursor+size:]
}
