// Package layout sizes and paints expression trees. Measure walks an arena
// bottom-up and caches a RenderData box on every node; Paint walks it
// top-down and issues drawing calls relative to an origin. The engine only
// talks to text measurement and drawing through the core interfaces, so the
// same layout drives terminal cells and raster images.
package layout

import (
	"errors"
	"fmt"
	"time"

	"mathcanvas/core"
	"mathcanvas/expr"
)

// Glyphs drawn by the engine itself.
const (
	PlaceholderGlyph = "0"
	CursorGlyph      = "|"
	MinusGlyph       = "-"
	DotGlyph         = "·"
	PlusSeparator    = " + "
	MinusSeparator   = " - "
	EqualsSeparator  = " = "
)

// ErrNotMeasured is matched by errors.Is for every NotMeasuredError.
var ErrNotMeasured = errors.New("layout: node painted before it was measured")

// NotMeasuredError reports the first reachable node without a RenderData.
// Painting an unmeasured tree is a programming error in the caller.
type NotMeasuredError struct {
	Node expr.NodeRef
	Kind expr.Kind
}

func (e *NotMeasuredError) Error() string {
	return fmt.Sprintf("layout: %s node %d painted before it was measured", e.Kind, e.Node)
}

func (e *NotMeasuredError) Is(target error) bool {
	return target == ErrNotMeasured
}

// Engine measures and paints arenas.
type Engine struct {
	metrics core.TextMetrics
	cfg     Config

	// Now drives cursor blinking. Tests replace it with a fixed clock.
	Now func() time.Time
}

// NewEngine creates an engine measuring text with m.
func NewEngine(m core.TextMetrics, cfg Config) *Engine {
	return &Engine{metrics: m, cfg: cfg, Now: time.Now}
}

// Config returns the engine settings.
func (e *Engine) Config() Config {
	return e.cfg
}

// CursorVisible reports the blink phase at now. The cursor shows during
// even intervals since the epoch; a non-positive interval disables blinking.
func (e *Engine) CursorVisible(now time.Time) bool {
	interval := e.cfg.BlinkInterval.Milliseconds()
	if interval <= 0 {
		return true
	}
	return (now.UnixMilli()/interval)%2 == 0
}

func (e *Engine) text(s string, font core.Font, scale float64) core.Size {
	return e.metrics.MeasureText(s, font, scale)
}

func (e *Engine) textHeight(scale float64) float64 {
	return e.text(PlaceholderGlyph, core.FontSymbol, scale).Height
}

func (e *Engine) spacing(v, scale float64) float64 {
	if e.cfg.CellGrid {
		return v
	}
	return v * scale
}

func layoutOf(a *expr.Arena, id expr.NodeRef) expr.RenderData {
	n := a.Node(id)
	if n.Layout == nil {
		panic(&NotMeasuredError{Node: id, Kind: n.Term.Kind()})
	}
	return *n.Layout
}

// Measure computes and caches the box of every node reachable from the
// root and returns the root box. Measuring twice yields the same boxes.
func (e *Engine) Measure(a *expr.Arena, scale float64) expr.RenderData {
	return e.measure(a, a.Root(), scale)
}

func (e *Engine) measure(a *expr.Arena, id expr.NodeRef, scale float64) expr.RenderData {
	var size core.Size

	switch t := a.Term(id).(type) {
	case expr.Empty:
		size = e.text(PlaceholderGlyph, core.FontSymbol, scale)

	case expr.Cursor:
		size = e.text(CursorGlyph, core.FontSymbol, scale)

	case expr.Numeral:
		size = e.text(t.String(), core.FontSymbol, scale)

	case expr.Variable:
		size = e.variableBox(t, scale).size

	case expr.Negative:
		e.measure(a, t.Child, scale)
		size = e.negativeBox(a, t, scale).size

	case expr.Parentheses:
		e.measure(a, t.Child, scale)
		size = e.parenBox(a, t, scale).size

	case expr.Multiplication, expr.Addition:
		for _, c := range expr.Children(t) {
			e.measure(a, c, scale)
		}
		size = rowSize(e.rowParts(a, id, scale))

	case expr.Division:
		inner := scale * e.cfg.DivisionScale
		e.measure(a, t.Numerator, inner)
		e.measure(a, t.Denominator, inner)
		size = e.divisionBox(a, t, scale).size

	case expr.Exponentiation:
		e.measure(a, t.Base, scale)
		e.measure(a, t.Exponent, scale*e.cfg.ExponentScale)
		size = e.exponentBox(a, t, scale).size
	}

	rd := expr.RenderData{Width: size.Width, Height: size.Height}
	a.Node(id).Layout = &rd
	return rd
}

// Midline returns the vertical offset of the node's visual center line
// from the top of its box. It reads cached boxes and is computed on demand.
func (e *Engine) Midline(a *expr.Arena, id expr.NodeRef, scale float64) float64 {
	rd := layoutOf(a, id)

	switch t := a.Term(id).(type) {
	case expr.Variable:
		if t.Subscript() != "" {
			return e.text(t.Base(), core.FontVariable, scale).Height / 2
		}
	case expr.Negative:
		return e.negativeBox(a, t, scale).mid
	case expr.Parentheses:
		return e.parenBox(a, t, scale).mid
	case expr.Multiplication, expr.Addition:
		return rowMid(e.rowParts(a, id, scale))
	case expr.Division:
		return rd.Height - layoutOf(a, t.Denominator).Height
	case expr.Exponentiation:
		return e.exponentBox(a, t, scale).mid
	}
	return rd.Height / 2
}

// Paint draws the measured tree with its top-left corner at origin. It
// refuses to draw anything when a reachable node has no RenderData.
func (e *Engine) Paint(p core.Painter, a *expr.Arena, scale float64, origin core.Point) error {
	if err := checkMeasured(a); err != nil {
		return err
	}
	e.paint(p, a, a.Root(), scale, origin, e.CursorVisible(e.Now()))
	return nil
}

func checkMeasured(a *expr.Arena) error {
	var err error
	a.Walk(a.Root(), func(n *expr.TermNode) bool {
		if err != nil {
			return false
		}
		if n.Layout == nil {
			err = &NotMeasuredError{Node: n.ID, Kind: n.Term.Kind()}
			return false
		}
		return true
	})
	return err
}

func (e *Engine) paint(p core.Painter, a *expr.Arena, id expr.NodeRef, scale float64, pos core.Point, cursor bool) {
	rd := layoutOf(a, id)
	fg := e.cfg.Foreground

	switch t := a.Term(id).(type) {
	case expr.Empty:
		p.FillRect(core.Rect{Min: pos, Size: core.Size{Width: rd.Width, Height: rd.Height}}, e.cfg.Placeholder)

	case expr.Cursor:
		if cursor {
			p.DrawText(CursorGlyph, pos, core.FontSymbol, scale, e.cfg.CursorColor)
		}

	case expr.Numeral:
		p.DrawText(t.String(), pos, core.FontSymbol, scale, fg)

	case expr.Variable:
		b := e.variableBox(t, scale)
		p.DrawText(t.Base(), pos, core.FontVariable, scale, fg)
		if sub := t.Subscript(); sub != "" {
			p.DrawText(sub, pos.Add(b.sub), core.FontVariable, scale*e.cfg.SubscriptScale, fg)
		}

	case expr.Negative:
		b := e.negativeBox(a, t, scale)
		p.DrawText(MinusGlyph, pos.Add(b.glyph), core.FontSymbol, scale, fg)
		e.paint(p, a, t.Child, scale, pos.Add(b.child), cursor)

	case expr.Parentheses:
		b := e.parenBox(a, t, scale)
		p.DrawText("(", pos.Add(b.open), core.FontSymbol, b.glyphScale, fg)
		e.paint(p, a, t.Child, scale, pos.Add(b.child), cursor)
		p.DrawText(")", pos.Add(b.close), core.FontSymbol, b.glyphScale, fg)

	case expr.Multiplication, expr.Addition:
		parts := e.rowParts(a, id, scale)
		mid := rowMid(parts)
		x := pos.X
		for _, part := range parts {
			at := core.Point{X: x, Y: pos.Y + mid - part.mid}
			if part.node == expr.NoNode {
				p.DrawText(part.text, at, core.FontSymbol, scale, fg)
			} else {
				e.paint(p, a, part.node, scale, at, cursor)
			}
			x += part.size.Width
		}

	case expr.Division:
		b := e.divisionBox(a, t, scale)
		inner := scale * e.cfg.DivisionScale
		e.paint(p, a, t.Numerator, inner, pos.Add(b.num), cursor)
		from := pos.Add(core.Point{Y: b.barY})
		to := from.Add(core.Point{X: rd.Width})
		p.DrawLine(from, to, b.bar, fg)
		e.paint(p, a, t.Denominator, inner, pos.Add(b.den), cursor)

	case expr.Exponentiation:
		b := e.exponentBox(a, t, scale)
		e.paint(p, a, t.Base, scale, pos.Add(b.base), cursor)
		e.paint(p, a, t.Exponent, scale*e.cfg.ExponentScale, pos.Add(b.exp), cursor)
	}
}
