package layout

import (
	"math"
	"testing"
	"unicode/utf8"

	"mathcanvas/core"
	"mathcanvas/expr"
	"mathcanvas/parser"
)

// fakeMetrics gives every rune a 10x20 box at scale 1.
type fakeMetrics struct{}

func (fakeMetrics) MeasureText(text string, font core.Font, scale float64) core.Size {
	n := float64(utf8.RuneCountInString(text))
	return core.Size{Width: 10 * n * scale, Height: 20 * scale}
}

// drawOp is one recorded painter call.
type drawOp struct {
	kind  string // "text", "line" or "rect"
	text  string
	pos   core.Point
	to    core.Point
	size  core.Size
	scale float64
	color core.Color
}

// recorder is a core.Painter that remembers every call.
type recorder struct {
	ops []drawOp
}

func (r *recorder) DrawText(text string, pos core.Point, font core.Font, scale float64, color core.Color) {
	size := fakeMetrics{}.MeasureText(text, font, scale)
	r.ops = append(r.ops, drawOp{kind: "text", text: text, pos: pos, size: size, scale: scale, color: color})
}

func (r *recorder) DrawLine(from, to core.Point, thickness float64, color core.Color) {
	r.ops = append(r.ops, drawOp{kind: "line", pos: from, to: to, size: core.Size{Height: thickness}, color: color})
}

func (r *recorder) FillRect(rect core.Rect, color core.Color) {
	r.ops = append(r.ops, drawOp{kind: "rect", pos: rect.Min, size: rect.Size, color: color})
}

func (r *recorder) texts() []string {
	var out []string
	for _, op := range r.ops {
		if op.kind == "text" {
			out = append(out, op.text)
		}
	}
	return out
}

func (r *recorder) find(text string) (drawOp, bool) {
	for _, op := range r.ops {
		if op.kind == "text" && op.text == text {
			return op, true
		}
	}
	return drawOp{}, false
}

func newTestEngine() *Engine {
	return NewEngine(fakeMetrics{}, DefaultConfig())
}

func mustParse(t *testing.T, input string) *expr.Arena {
	t.Helper()
	a, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return a
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestValidator checks structural properties of measured and painted trees.
type TestValidator struct {
	t *testing.T
}

// NewTestValidator creates a validator for the given test.
func NewTestValidator(t *testing.T) *TestValidator {
	return &TestValidator{t: t}
}

// ValidateNodeSizes ensures every reachable node has a positive box.
func (v *TestValidator) ValidateNodeSizes(a *expr.Arena) {
	a.Walk(a.Root(), func(n *expr.TermNode) bool {
		if n.Layout == nil {
			v.t.Errorf("Node %d (%s) was not measured", n.ID, n.Term.Kind())
			return true
		}
		if n.Layout.Width <= 0 || n.Layout.Height <= 0 {
			v.t.Errorf("Node %d (%s) has invalid size %vx%v", n.ID, n.Term.Kind(), n.Layout.Width, n.Layout.Height)
		}
		return true
	})
}

// ValidateBounds ensures every painted operation lies inside the root box.
func (v *TestValidator) ValidateBounds(ops []drawOp, root expr.RenderData) {
	const eps = 1e-9
	for _, op := range ops {
		maxX, maxY := op.pos.X+op.size.Width, op.pos.Y+op.size.Height
		if op.kind == "line" {
			maxX, maxY = op.to.X, op.pos.Y+op.size.Height/2
		}
		if op.pos.X < -eps || op.pos.Y < -eps {
			v.t.Errorf("%s %q starts outside the box at %v", op.kind, op.text, op.pos)
		}
		if maxX > root.Width+eps || maxY > root.Height+eps {
			v.t.Errorf("%s %q ends at (%v, %v), outside %vx%v", op.kind, op.text, maxX, maxY, root.Width, root.Height)
		}
	}
}

// ValidateDeterminism ensures measuring again reproduces every box.
func (v *TestValidator) ValidateDeterminism(e *Engine, a *expr.Arena, scale float64) {
	first := make(map[expr.NodeRef]expr.RenderData)
	e.Measure(a, scale)
	a.Walk(a.Root(), func(n *expr.TermNode) bool {
		first[n.ID] = *n.Layout
		return true
	})

	e.Measure(a, scale)
	a.Walk(a.Root(), func(n *expr.TermNode) bool {
		if *n.Layout != first[n.ID] {
			v.t.Errorf("Node %d changed from %v to %v on remeasure", n.ID, first[n.ID], *n.Layout)
		}
		return true
	})
}
