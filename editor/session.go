package editor

import (
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/width"

	"mathcanvas/expr"
	"mathcanvas/parser"
)

// Session is an in-progress edit of one board item: a rune buffer, a caret
// offset into it and the arenas of the last successful parse. Comment
// sessions hold plain text and never parse.
type Session struct {
	tool    Tool
	buf     []rune
	cursor  int
	history *History

	live []*expr.Arena
	err  error
}

// NewSession starts editing text with the caret at its end.
func NewSession(text string, tool Tool, historyLimit int) *Session {
	s := &Session{
		tool:    tool,
		buf:     []rune(text),
		history: NewHistory(historyLimit),
	}
	s.cursor = len(s.buf)
	s.history.Save(s.snapshot())
	s.reparse()
	return s
}

// Text returns the buffer contents.
func (s *Session) Text() string { return string(s.buf) }

// Cursor returns the caret offset in runes.
func (s *Session) Cursor() int { return s.cursor }

// Tool returns the kind of item being edited.
func (s *Session) Tool() Tool { return s.tool }

// Live returns the sides of the last buffer state that parsed, with a
// Cursor node at the caret. It is nil for comments.
func (s *Session) Live() []*expr.Arena { return s.live }

// Err returns the parse error of the current buffer, if any.
func (s *Session) Err() error { return s.err }

// History exposes the undo stack.
func (s *Session) History() *History { return s.history }

// Insert adds r at the caret. Full-width forms are folded to their ASCII
// counterparts; control characters are ignored. It reports whether the
// buffer changed.
func (s *Session) Insert(r rune) bool {
	r = fold(r)
	if !unicode.IsPrint(r) && r != ' ' {
		return false
	}
	s.buf = append(s.buf, 0)
	copy(s.buf[s.cursor+1:], s.buf[s.cursor:])
	s.buf[s.cursor] = r
	s.cursor++
	s.changed()
	return true
}

// InsertAt moves the caret to off and inserts r there.
func (s *Session) InsertAt(off int, r rune) bool {
	s.cursor = s.clamp(off)
	return s.Insert(r)
}

// Backspace removes the grapheme cluster before the caret. It is a no-op
// at the start of the buffer.
func (s *Session) Backspace() bool {
	if s.cursor == 0 {
		return false
	}
	n := lastClusterLen(s.buf[:s.cursor])
	s.buf = append(s.buf[:s.cursor-n], s.buf[s.cursor:]...)
	s.cursor -= n
	s.changed()
	return true
}

// DeleteAt moves the caret to off and removes the character before it.
func (s *Session) DeleteAt(off int) bool {
	s.cursor = s.clamp(off)
	return s.Backspace()
}

// DeleteWordBackward deletes back to the start of the previous word (Ctrl+W).
func (s *Session) DeleteWordBackward() bool {
	if s.cursor == 0 {
		return false
	}

	start := s.cursor

	// Skip spaces backward
	for start > 0 && s.buf[start-1] == ' ' {
		start--
	}

	// Delete word backward
	for start > 0 && s.buf[start-1] != ' ' {
		start--
	}

	s.buf = append(s.buf[:start], s.buf[s.cursor:]...)
	s.cursor = start
	s.changed()
	return true
}

// MoveCursor moves the caret by delta runes, clamped to the buffer. Moving
// the caret reparses so the live view follows it.
func (s *Session) MoveCursor(delta int) {
	s.setCursor(s.cursor + delta)
}

// Home moves the caret to the start of the buffer (Ctrl+A).
func (s *Session) Home() { s.setCursor(0) }

// End moves the caret to the end of the buffer (Ctrl+E).
func (s *Session) End() { s.setCursor(len(s.buf)) }

// Undo restores the previous buffer state.
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo()
	if ok {
		s.restore(snap)
	}
	return ok
}

// Redo re-applies an undone buffer state.
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo()
	if ok {
		s.restore(snap)
	}
	return ok
}

func (s *Session) setCursor(off int) {
	off = s.clamp(off)
	if off == s.cursor {
		return
	}
	s.cursor = off
	s.reparse()
}

func (s *Session) clamp(off int) int {
	return max(0, min(off, len(s.buf)))
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{Text: string(s.buf), Cursor: s.cursor}
}

func (s *Session) restore(snap Snapshot) {
	s.buf = []rune(snap.Text)
	s.cursor = s.clamp(snap.Cursor)
	s.reparse()
}

func (s *Session) changed() {
	s.history.Save(s.snapshot())
	s.reparse()
}

func (s *Session) reparse() {
	if s.tool != ToolEquation {
		return
	}
	sides, err := parser.ParseEquation(string(s.buf), s.cursor)
	if err != nil {
		logger.Printf("parse %q at %d: %v", string(s.buf), s.cursor, err)
		s.err = err
		return
	}
	s.live, s.err = sides, nil
}

// fold maps full-width and other width variants onto their canonical form.
func fold(r rune) rune {
	folded := []rune(width.Fold.String(string(r)))
	if len(folded) != 1 {
		return r
	}
	return folded[0]
}

func lastClusterLen(runes []rune) int {
	n := 1
	g := uniseg.NewGraphemes(string(runes))
	for g.Next() {
		n = len(g.Runes())
	}
	return n
}
