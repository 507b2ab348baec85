package layout

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"mathcanvas/core"
	"mathcanvas/expr"
	"mathcanvas/parser"
)

func TestMeasureLeaves(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		input string
		want  expr.RenderData
		mid   float64
	}{
		{"12", expr.RenderData{Width: 20, Height: 20}, 10},
		{"x", expr.RenderData{Width: 10, Height: 20}, 10},
		{"-x", expr.RenderData{Width: 20, Height: 20}, 10},
		{"(a+b)", expr.RenderData{Width: 70, Height: 20}, 10},
		{"x_1", expr.RenderData{Width: 16, Height: 22}, 10},
		{"x^2", expr.RenderData{Width: 16, Height: 22}, 12},
		{"a/b", expr.RenderData{Width: 17, Height: 46}, 28},
		{"1+x^2", expr.RenderData{Width: 56, Height: 22}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a := mustParse(t, tt.input)
			got := e.Measure(a, 1)
			if !approx(got.Width, tt.want.Width) || !approx(got.Height, tt.want.Height) {
				t.Errorf("Measure(%q) = %vx%v, want %vx%v", tt.input, got.Width, got.Height, tt.want.Width, tt.want.Height)
			}
			if mid := e.Midline(a, a.Root(), 1); !approx(mid, tt.mid) {
				t.Errorf("Midline(%q) = %v, want %v", tt.input, mid, tt.mid)
			}
			NewTestValidator(t).ValidateNodeSizes(a)
		})
	}
}

func TestMidlineRules(t *testing.T) {
	e := newTestEngine()

	t.Run("Exponent midline is the exponent height", func(t *testing.T) {
		a := mustParse(t, "x^2")
		e.Measure(a, 1)
		x := a.Term(a.Root()).(expr.Exponentiation)
		if got, want := e.Midline(a, a.Root(), 1), a.Node(x.Exponent).Layout.Height; !approx(got, want) {
			t.Errorf("Expected midline %v, got %v", want, got)
		}
	})

	t.Run("Division midline sits above the denominator", func(t *testing.T) {
		a := mustParse(t, "(1+x)/(2+y^2)")
		root := e.Measure(a, 1)
		d := a.Term(a.Root()).(expr.Division)
		want := root.Height - a.Node(d.Denominator).Layout.Height
		if got := e.Midline(a, a.Root(), 1); !approx(got, want) {
			t.Errorf("Expected midline %v, got %v", want, got)
		}
	})

	t.Run("Subscript does not move the midline", func(t *testing.T) {
		a := mustParse(t, "θ_max")
		e.Measure(a, 1)
		if got := e.Midline(a, a.Root(), 1); !approx(got, 10) {
			t.Errorf("Expected base half height 10, got %v", got)
		}
	})

	t.Run("Sum takes the deepest child midline", func(t *testing.T) {
		a := mustParse(t, "1+a/b+x^2")
		e.Measure(a, 1)
		want := 0.0
		for _, c := range a.Children(a.Root()) {
			want = max(want, e.Midline(a, c, 1))
		}
		if got := e.Midline(a, a.Root(), 1); !approx(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})
}

func TestPaintSum(t *testing.T) {
	e := newTestEngine()
	a := mustParse(t, "2+3")
	e.Measure(a, 1)

	r := &recorder{}
	if err := e.Paint(r, a, 1, core.Point{}); err != nil {
		t.Fatalf("Paint failed: %v", err)
	}

	want := []drawOp{
		{kind: "text", text: "2", pos: core.Point{X: 0, Y: 0}},
		{kind: "text", text: " + ", pos: core.Point{X: 10, Y: 0}},
		{kind: "text", text: "3", pos: core.Point{X: 40, Y: 0}},
	}
	if len(r.ops) != len(want) {
		t.Fatalf("Expected %d ops, got %d: %v", len(want), len(r.ops), r.texts())
	}
	for i, w := range want {
		if r.ops[i].text != w.text || r.ops[i].pos != w.pos {
			t.Errorf("Op %d: expected %q at %v, got %q at %v", i, w.text, w.pos, r.ops[i].text, r.ops[i].pos)
		}
	}
}

func TestPaintFoldsNegativeIntoSeparator(t *testing.T) {
	e := newTestEngine()
	a := mustParse(t, "2-3")
	e.Measure(a, 1)

	r := &recorder{}
	if err := e.Paint(r, a, 1, core.Point{}); err != nil {
		t.Fatal(err)
	}
	if got, want := r.texts(), []string{"2", " - ", "3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}

	// The folded sign is not part of the measured width either.
	if got := a.Node(a.Root()).Layout.Width; !approx(got, 50) {
		t.Errorf("Expected width 50, got %v", got)
	}
}

func TestPaintProductDots(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		input  string
		cursor int
		want   []string
	}{
		{"2*3", -1, []string{"2", "·", "3"}},
		{"2x", -1, []string{"2", "x"}},
		{"x2", -1, []string{"x", "·", "2"}},
		{"2x^2", -1, []string{"2", "x", "2"}},
		{"3(x)", -1, []string{"3", "(", "x", ")"}},
		{"2x", 1, []string{"2", "|", "x"}},
		{"23", 1, []string{"23", "|"}},
	}

	e.Now = func() time.Time { return time.UnixMilli(0) }
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a, err := parser.ParseAt(tt.input, tt.cursor)
			if err != nil {
				t.Fatal(err)
			}
			e.Measure(a, 1)
			r := &recorder{}
			if err := e.Paint(r, a, 1, core.Point{}); err != nil {
				t.Fatal(err)
			}
			if got := r.texts(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPaintPositions(t *testing.T) {
	e := newTestEngine()

	t.Run("Exponent", func(t *testing.T) {
		a := mustParse(t, "x^2")
		e.Measure(a, 1)
		r := &recorder{}
		if err := e.Paint(r, a, 1, core.Point{X: 100, Y: 50}); err != nil {
			t.Fatal(err)
		}
		base, _ := r.find("x")
		exp, _ := r.find("2")
		if base.pos != (core.Point{X: 100, Y: 52}) {
			t.Errorf("Base at %v", base.pos)
		}
		if exp.pos != (core.Point{X: 110, Y: 50}) || !approx(exp.scale, 0.6) {
			t.Errorf("Exponent at %v scale %v", exp.pos, exp.scale)
		}
	})

	t.Run("Division", func(t *testing.T) {
		a := mustParse(t, "a/b")
		e.Measure(a, 1)
		r := &recorder{}
		if err := e.Paint(r, a, 1, core.Point{}); err != nil {
			t.Fatal(err)
		}
		num, _ := r.find("a")
		den, _ := r.find("b")
		if !approx(num.pos.X, 4) || num.pos.Y != 0 || !approx(num.scale, 0.9) {
			t.Errorf("Numerator at %v scale %v", num.pos, num.scale)
		}
		if !approx(den.pos.X, 4) || !approx(den.pos.Y, 28) {
			t.Errorf("Denominator at %v", den.pos)
		}
		var line *drawOp
		for i := range r.ops {
			if r.ops[i].kind == "line" {
				line = &r.ops[i]
			}
		}
		if line == nil {
			t.Fatal("No fraction bar drawn")
		}
		if !approx(line.pos.Y, 23) || !approx(line.to.X-line.pos.X, 17) || !approx(line.size.Height, 2) {
			t.Errorf("Unexpected bar %+v", *line)
		}
	})

	t.Run("Tall parentheses stretch", func(t *testing.T) {
		a := mustParse(t, "(a/b)")
		e.Measure(a, 1)
		r := &recorder{}
		if err := e.Paint(r, a, 1, core.Point{}); err != nil {
			t.Fatal(err)
		}
		open, _ := r.find("(")
		if !approx(open.scale, 2.3) {
			t.Errorf("Expected stretched glyph scale 2.3, got %v", open.scale)
		}
		if got := e.Midline(a, a.Root(), 1); !approx(got, 28) {
			t.Errorf("Parentheses should keep the child's midline 28, got %v", got)
		}
		if h := a.Node(a.Root()).Layout.Height; !approx(h, 46) {
			t.Errorf("Parentheses should be as tall as the fraction (46), got %v", h)
		}
	})

	t.Run("Minus sits on the bar", func(t *testing.T) {
		a := mustParse(t, "-a/b")
		root := e.Measure(a, 1)
		if !approx(root.Width, 27) || !approx(root.Height, 46) {
			t.Errorf("Measure = %vx%v, want 27x46", root.Width, root.Height)
		}
		if got := e.Midline(a, a.Root(), 1); !approx(got, 28) {
			t.Errorf("Negative should keep the child's midline 28, got %v", got)
		}
		r := &recorder{}
		if err := e.Paint(r, a, 1, core.Point{}); err != nil {
			t.Fatal(err)
		}
		minus, _ := r.find(MinusGlyph)
		if !approx(minus.pos.Y, 18) {
			t.Errorf("Minus at %v, want it centered on y=28", minus.pos)
		}
	})
}

func TestPaintStaysInsideBox(t *testing.T) {
	e := newTestEngine()
	inputs := []string{
		"3x^2-2x+1",
		"(a+b)^2/(c-d)",
		"x^a/b",
		"-(1/2)",
		"x_1^2+y_2",
		"2^3^4",
		"1/(1+1/(1+1/x))",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			a := mustParse(t, input)
			root := e.Measure(a, 1)
			r := &recorder{}
			if err := e.Paint(r, a, 1, core.Point{}); err != nil {
				t.Fatal(err)
			}
			v := NewTestValidator(t)
			v.ValidateNodeSizes(a)
			v.ValidateBounds(r.ops, root)
			v.ValidateDeterminism(e, a, 1)
		})
	}
}

func TestPaintRequiresMeasure(t *testing.T) {
	e := newTestEngine()
	a := mustParse(t, "1+2")

	r := &recorder{}
	err := e.Paint(r, a, 1, core.Point{})
	if !errors.Is(err, ErrNotMeasured) {
		t.Fatalf("Expected ErrNotMeasured, got %v", err)
	}
	var nm *NotMeasuredError
	if !errors.As(err, &nm) || nm.Node != a.Root() {
		t.Errorf("Expected the root to be reported, got %v", err)
	}
	if len(r.ops) != 0 {
		t.Errorf("Painter was called %d times for an unmeasured tree", len(r.ops))
	}

	// A tree whose layout was reset is unmeasured again.
	e.Measure(a, 1)
	a.ResetLayout()
	if err := e.Paint(r, a, 1, core.Point{}); !errors.Is(err, ErrNotMeasured) {
		t.Errorf("Expected ErrNotMeasured after reset, got %v", err)
	}
}

func TestCursorBlink(t *testing.T) {
	e := newTestEngine()
	a, err := parser.ParseAt("2+", 2)
	if err != nil {
		t.Fatal(err)
	}
	e.Measure(a, 1)

	tests := []struct {
		ms      int64
		visible bool
	}{
		{0, true},
		{499, true},
		{500, false},
		{999, false},
		{1000, true},
	}
	for _, tt := range tests {
		e.Now = func() time.Time { return time.UnixMilli(tt.ms) }
		r := &recorder{}
		if err := e.Paint(r, a, 1, core.Point{}); err != nil {
			t.Fatal(err)
		}
		_, drawn := r.find(CursorGlyph)
		if drawn != tt.visible {
			t.Errorf("At %dms expected visible=%v, got %v", tt.ms, tt.visible, drawn)
		}
	}

	cfg := DefaultConfig()
	cfg.BlinkInterval = 0
	steady := NewEngine(fakeMetrics{}, cfg)
	if !steady.CursorVisible(time.UnixMilli(500)) {
		t.Error("A zero interval should keep the cursor visible")
	}
}

func TestEquationAlignment(t *testing.T) {
	e := newTestEngine()
	sides, err := parser.ParseEquation("y=x^2", -1)
	if err != nil {
		t.Fatal(err)
	}

	size := e.MeasureEquation(sides, 1)
	if !approx(size.Width, 56) || !approx(size.Height, 22) {
		t.Errorf("Unexpected equation size %v", size)
	}
	if got := e.EquationMidline(sides, 1); !approx(got, 12) {
		t.Errorf("Expected shared midline 12, got %v", got)
	}

	r := &recorder{}
	if err := e.PaintEquation(r, sides, 1, core.Point{}); err != nil {
		t.Fatal(err)
	}
	checks := map[string]core.Point{
		"y":   {X: 0, Y: 2},
		" = ": {X: 10, Y: 2},
		"x":   {X: 40, Y: 2},
		"2":   {X: 50, Y: 0},
	}
	for text, want := range checks {
		op, ok := r.find(text)
		if !ok {
			t.Errorf("%q was not drawn", text)
			continue
		}
		if !approx(op.pos.X, want.X) || !approx(op.pos.Y, want.Y) {
			t.Errorf("%q at %v, want %v", text, op.pos, want)
		}
	}

	fresh, _ := parser.ParseEquation("a=b", -1)
	if err := e.PaintEquation(r, fresh, 1, core.Point{}); !errors.Is(err, ErrNotMeasured) {
		t.Errorf("Expected ErrNotMeasured, got %v", err)
	}
}
