package editor

import (
	"errors"
	"strings"
	"testing"

	"mathcanvas/parser"
)

func typeText(s *Session, text string) {
	for _, r := range text {
		s.Insert(r)
	}
}

func TestSessionTyping(t *testing.T) {
	s := NewSession("", ToolEquation, 0)
	if got := s.Live()[0].String(); got != "Cursor" {
		t.Errorf("Empty session should show a lone cursor, got %s", got)
	}

	typeText(s, "2+3")
	if s.Text() != "2+3" || s.Cursor() != 3 {
		t.Fatalf("Got %q at %d", s.Text(), s.Cursor())
	}
	if s.Err() != nil {
		t.Fatalf("Unexpected error: %v", s.Err())
	}
	if got := s.Live()[0].String(); got != "Add(Num(2), Mul(Num(3), Cursor))" {
		t.Errorf("Live tree = %s", got)
	}

	typeText(s, "=y")
	if len(s.Live()) != 2 {
		t.Errorf("Expected two sides, got %d", len(s.Live()))
	}
}

func TestSessionFoldsInput(t *testing.T) {
	s := NewSession("", ToolEquation, 0)
	typeText(s, "１＋ｘ")
	if s.Text() != "1+x" {
		t.Errorf("Full-width input should fold to %q, got %q", "1+x", s.Text())
	}
	if s.Insert('\n') || s.Insert('\x1b') {
		t.Error("Control characters should be rejected")
	}
	if s.Text() != "1+x" {
		t.Errorf("Buffer changed to %q", s.Text())
	}
}

func TestSessionKeepsLastGoodParse(t *testing.T) {
	s := NewSession("1", ToolEquation, 0)
	before := s.Live()

	s.Insert(')')
	if !errors.Is(s.Err(), parser.ErrParse) {
		t.Fatalf("Expected a parse error, got %v", s.Err())
	}
	if len(s.Live()) != 1 || s.Live()[0] != before[0] {
		t.Error("A failing parse should keep the previous live arenas")
	}

	s.Backspace()
	if s.Err() != nil {
		t.Errorf("Error should clear once the buffer parses again: %v", s.Err())
	}
	if s.Live()[0] == before[0] {
		t.Error("A successful parse should replace the live arenas")
	}
}

func TestSessionBackspace(t *testing.T) {
	s := NewSession("xe\u0301", ToolComment, 0)
	if !s.Backspace() {
		t.Fatal("Backspace should remove the last cluster")
	}
	if s.Text() != "x" || s.Cursor() != 1 {
		t.Errorf("Expected the whole cluster removed, got %q at %d", s.Text(), s.Cursor())
	}

	s.Home()
	if s.Backspace() {
		t.Error("Backspace at the start should be a no-op")
	}
	if s.Live() != nil {
		t.Error("Comments should never parse")
	}
}

func TestSessionOffsets(t *testing.T) {
	s := NewSession("x", ToolEquation, 0)
	s.InsertAt(0, '-')
	if s.Text() != "-x" || s.Cursor() != 1 {
		t.Errorf("InsertAt: got %q at %d", s.Text(), s.Cursor())
	}

	s.DeleteAt(1)
	if s.Text() != "x" || s.Cursor() != 0 {
		t.Errorf("DeleteAt: got %q at %d", s.Text(), s.Cursor())
	}

	s.InsertAt(99, '2')
	if s.Text() != "x2" || s.Cursor() != 2 {
		t.Errorf("InsertAt past the end should append, got %q at %d", s.Text(), s.Cursor())
	}
}

func TestSessionCursorMovement(t *testing.T) {
	s := NewSession("2+3", ToolEquation, 0)
	before := s.Live()[0]

	s.MoveCursor(-1)
	if s.Cursor() != 2 {
		t.Fatalf("Expected caret at 2, got %d", s.Cursor())
	}
	if s.Live()[0] == before {
		t.Error("Moving the caret should reparse")
	}
	if !strings.Contains(s.Live()[0].String(), "Cursor") {
		t.Errorf("Live tree lost the cursor: %s", s.Live()[0])
	}

	s.MoveCursor(-10)
	if s.Cursor() != 0 {
		t.Errorf("Caret should clamp at 0, got %d", s.Cursor())
	}
	s.End()
	if s.Cursor() != 3 {
		t.Errorf("End: got %d", s.Cursor())
	}
	s.MoveCursor(5)
	if s.Cursor() != 3 {
		t.Errorf("Caret should clamp at the end, got %d", s.Cursor())
	}
	s.Home()
	if s.Cursor() != 0 {
		t.Errorf("Home: got %d", s.Cursor())
	}
}

func TestSessionCaretInsideToken(t *testing.T) {
	for _, text := range []string{"12.5", "x_12"} {
		s := NewSession(text, ToolEquation, 0)
		for s.Cursor() > 0 {
			s.MoveCursor(-1)
			if s.Err() != nil {
				t.Fatalf("%q with caret at %d: %v", text, s.Cursor(), s.Err())
			}
		}
	}

	s := NewSession("12.5", ToolEquation, 0)
	s.MoveCursor(-2)
	if got := s.Live()[0].String(); got != "Mul(Num(12.5), Cursor)" {
		t.Errorf("Caret inside a numeral split it: %s", got)
	}
	if v := s.Live()[0].Value(); v != 12.5 {
		t.Errorf("Preview value = %v, want 12.5", v)
	}
}

func TestDeleteWordBackward(t *testing.T) {
	tests := []struct {
		name           string
		initialText    string
		cursorPos      int
		expectedText   string
		expectedCursor int
	}{
		{
			name:           "delete single word",
			initialText:    "hello world",
			cursorPos:      11,
			expectedText:   "hello ",
			expectedCursor: 6,
		},
		{
			name:           "delete word with trailing space",
			initialText:    "hello world ",
			cursorPos:      12,
			expectedText:   "hello ",
			expectedCursor: 6,
		},
		{
			name:           "delete word in middle",
			initialText:    "one two three",
			cursorPos:      7,
			expectedText:   "one  three",
			expectedCursor: 4,
		},
		{
			name:           "delete at beginning does nothing",
			initialText:    "hello",
			cursorPos:      0,
			expectedText:   "hello",
			expectedCursor: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(tt.initialText, ToolComment, 0)
			s.MoveCursor(tt.cursorPos - s.Cursor())

			s.DeleteWordBackward()

			if s.Text() != tt.expectedText {
				t.Errorf("Expected text %q, got %q", tt.expectedText, s.Text())
			}
			if s.Cursor() != tt.expectedCursor {
				t.Errorf("Expected cursor at %d, got %d", tt.expectedCursor, s.Cursor())
			}
		})
	}
}

func TestSessionUndoRedo(t *testing.T) {
	s := NewSession("", ToolEquation, 0)
	typeText(s, "12")

	if !s.Undo() {
		t.Fatal("Undo failed")
	}
	if s.Text() != "1" || s.Cursor() != 1 {
		t.Errorf("After undo: %q at %d", s.Text(), s.Cursor())
	}
	if got := s.Live()[0].String(); !strings.Contains(got, "Num(1)") || strings.Contains(got, "12") {
		t.Errorf("Live tree should follow the undo, got %s", got)
	}

	if !s.Redo() || s.Text() != "12" {
		t.Errorf("After redo: %q", s.Text())
	}

	s.Undo()
	s.Undo()
	if s.Text() != "" {
		t.Errorf("Expected the initial empty buffer, got %q", s.Text())
	}
	if s.Undo() {
		t.Error("Undo past the first state should fail")
	}
}
