package canvas

import (
	"strings"
	"testing"
)

// TestValidator provides canvas assertions with readable diffs.
type TestValidator struct {
	t *testing.T
}

// NewTestValidator creates a validator for the given test.
func NewTestValidator(t *testing.T) *TestValidator {
	return &TestValidator{t: t}
}

// AssertCanvasEquals compares the canvas row by row, ignoring trailing
// spaces on each row and blank rows at the bottom.
func (v *TestValidator) AssertCanvasEquals(c *MatrixCanvas, expected ...string) {
	v.t.Helper()
	actual := normalize(strings.Split(c.String(), "\n"))
	expected = normalize(expected)

	if strings.Join(actual, "\n") == strings.Join(expected, "\n") {
		return
	}
	v.t.Errorf("Canvas output mismatch:\nExpected:\n%s\n\nActual:\n%s",
		strings.Join(expected, "\n"), strings.Join(actual, "\n"))

	for i := 0; i < len(expected) || i < len(actual); i++ {
		switch {
		case i >= len(expected):
			v.t.Errorf("Extra line %d: %q", i+1, actual[i])
		case i >= len(actual):
			v.t.Errorf("Missing line %d: %q", i+1, expected[i])
		case expected[i] != actual[i]:
			v.t.Errorf("Line %d differs:\n  Expected: %q\n  Actual:   %q", i+1, expected[i], actual[i])
		}
	}
}

// AssertCharAt verifies a character at a specific position.
func (v *TestValidator) AssertCharAt(c *MatrixCanvas, p Cell, expected rune) {
	v.t.Helper()
	if actual := c.Get(p); actual != expected {
		v.t.Errorf("Character at (%d,%d): expected %q, got %q", p.X, p.Y, expected, actual)
	}
}

func normalize(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(l, " ")
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func mustCanvas(t *testing.T, w, h int) *MatrixCanvas {
	t.Helper()
	c, err := NewMatrixCanvas(w, h)
	if err != nil {
		t.Fatalf("NewMatrixCanvas(%d, %d) failed: %v", w, h, err)
	}
	return c
}
