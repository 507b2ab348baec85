package layout

import (
	"mathcanvas/core"
	"mathcanvas/expr"
)

type variableBox struct {
	size core.Size
	sub  core.Point
}

func (e *Engine) variableBox(v expr.Variable, scale float64) variableBox {
	base := e.text(v.Base(), core.FontVariable, scale)
	sub := v.Subscript()
	if sub == "" {
		return variableBox{size: base}
	}
	s := e.text(sub, core.FontVariable, scale*e.cfg.SubscriptScale)
	top := base.Height * e.cfg.SubscriptOffset
	return variableBox{
		size: core.Size{Width: base.Width + s.Width, Height: max(base.Height, top+s.Height)},
		sub:  core.Point{X: base.Width, Y: top},
	}
}

// Negative and Parentheses boxes keep the child's midline: their own
// midline is the child's offset plus the child's midline, and they grow
// only as far as their glyphs reach past the child.
type negativeBox struct {
	size  core.Size
	glyph core.Point
	child core.Point
	mid   float64
}

// The minus sign is centered on the child's midline, so -a/b puts it level
// with the fraction bar.
func (e *Engine) negativeBox(a *expr.Arena, n expr.Negative, scale float64) negativeBox {
	child := layoutOf(a, n.Child)
	mid := e.Midline(a, n.Child, scale)
	glyph := e.text(MinusGlyph, core.FontSymbol, scale)

	top := max(0, glyph.Height/2-mid)
	glyphY := top + mid - glyph.Height/2
	return negativeBox{
		size: core.Size{
			Width:  glyph.Width + child.Width,
			Height: max(top+child.Height, glyphY+glyph.Height),
		},
		glyph: core.Point{Y: glyphY},
		child: core.Point{X: glyph.Width, Y: top},
		mid:   top + mid,
	}
}

type parenBox struct {
	size        core.Size
	glyphScale  float64
	open, close core.Point
	child       core.Point
	mid         float64
}

// Brackets are stretched to the child's height and span its box; a bracket
// taller than a one-line child is centered on it.
func (e *Engine) parenBox(a *expr.Arena, p expr.Parentheses, scale float64) parenBox {
	child := layoutOf(a, p.Child)
	mid := e.Midline(a, p.Child, scale)

	// On a cell grid the scale does not size glyphs, so the stretch factor
	// is the glyph scale.
	gs := scale
	if h := e.text("(", core.FontSymbol, scale).Height; h > 0 && child.Height > h {
		gs = child.Height / h
		if !e.cfg.CellGrid {
			gs *= scale
		}
	}
	open := e.text("(", core.FontSymbol, gs)
	cl := e.text(")", core.FontSymbol, gs)

	h := max(child.Height, open.Height, cl.Height)
	top := (h - child.Height) / 2
	return parenBox{
		size:       core.Size{Width: open.Width + child.Width + cl.Width, Height: h},
		glyphScale: gs,
		open:       core.Point{Y: (h - open.Height) / 2},
		child:      core.Point{X: open.Width, Y: top},
		close:      core.Point{X: open.Width + child.Width, Y: (h - cl.Height) / 2},
		mid:        top + mid,
	}
}

type divisionBox struct {
	size     core.Size
	num, den core.Point
	barY     float64
	bar      float64
}

func (e *Engine) divisionBox(a *expr.Arena, d expr.Division, scale float64) divisionBox {
	num := layoutOf(a, d.Numerator)
	den := layoutOf(a, d.Denominator)
	pad := e.spacing(e.cfg.DivisionPadding, scale)
	bar := e.spacing(e.cfg.BarThickness, scale)

	w := max(num.Width, den.Width) + 2*pad
	denTop := num.Height + 2*pad + bar
	return divisionBox{
		size: core.Size{Width: w, Height: denTop + den.Height},
		num:  core.Point{X: (w - num.Width) / 2},
		den:  core.Point{X: (w - den.Width) / 2, Y: denTop},
		barY: num.Height + pad + bar/2,
		bar:  bar,
	}
}

type exponentBox struct {
	size      core.Size
	base, exp core.Point
	mid       float64
}

// The exponent's bottom edge sits ExponentOverlap text heights below the
// base's top edge, but never below the base's own midline. For a one-line
// base the resulting midline equals the exponent's height.
func (e *Engine) exponentBox(a *expr.Arena, x expr.Exponentiation, scale float64) exponentBox {
	base := layoutOf(a, x.Base)
	exp := layoutOf(a, x.Exponent)
	baseMid := e.Midline(a, x.Base, scale)

	depth := min(baseMid, e.cfg.ExponentOverlap*e.textHeight(scale))
	baseTop := max(0, exp.Height-depth)
	expTop := baseTop + depth - exp.Height

	return exponentBox{
		size: core.Size{
			Width:  base.Width + exp.Width,
			Height: max(expTop+exp.Height, baseTop+base.Height),
		},
		base: core.Point{Y: baseTop},
		exp:  core.Point{X: base.Width, Y: expTop},
		mid:  baseTop + baseMid,
	}
}

// rowPart is one element of a horizontal run: either a child node or a
// separator glyph drawn by the row itself.
type rowPart struct {
	node expr.NodeRef
	text string
	size core.Size
	mid  float64
}

func (e *Engine) nodePart(a *expr.Arena, id expr.NodeRef, scale float64) rowPart {
	rd := layoutOf(a, id)
	return rowPart{
		node: id,
		size: core.Size{Width: rd.Width, Height: rd.Height},
		mid:  e.Midline(a, id, scale),
	}
}

func (e *Engine) textPart(s string, scale float64) rowPart {
	size := e.text(s, core.FontSymbol, scale)
	return rowPart{node: expr.NoNode, text: s, size: size, mid: size.Height / 2}
}

// rowParts lays out products and sums. A product shows a dot before a
// factor that begins with a digit, unless a cursor is adjacent. A sum folds
// a negative term into its separator and draws the negated child directly.
func (e *Engine) rowParts(a *expr.Arena, id expr.NodeRef, scale float64) []rowPart {
	var parts []rowPart

	switch t := a.Term(id).(type) {
	case expr.Multiplication:
		for i, c := range t.Children {
			if i > 0 && needsDot(a, t.Children[i-1], c) {
				parts = append(parts, e.textPart(DotGlyph, scale))
			}
			parts = append(parts, e.nodePart(a, c, scale))
		}

	case expr.Addition:
		for i, c := range t.Children {
			neg, ok := a.Term(c).(expr.Negative)
			switch {
			case ok && i > 0:
				parts = append(parts, e.textPart(MinusSeparator, scale))
				parts = append(parts, e.nodePart(a, neg.Child, scale))
				continue
			case i > 0:
				parts = append(parts, e.textPart(PlusSeparator, scale))
			}
			parts = append(parts, e.nodePart(a, c, scale))
		}
	}
	return parts
}

func needsDot(a *expr.Arena, left, right expr.NodeRef) bool {
	if a.Term(left).Kind() == expr.KindCursor || a.Term(right).Kind() == expr.KindCursor {
		return false
	}
	return leadsWithDigit(a, right)
}

func leadsWithDigit(a *expr.Arena, id expr.NodeRef) bool {
	switch t := a.Term(id).(type) {
	case expr.Numeral, expr.Negative:
		return true
	case expr.Exponentiation:
		return leadsWithDigit(a, t.Base)
	case expr.Multiplication:
		return len(t.Children) > 0 && leadsWithDigit(a, t.Children[0])
	}
	return false
}

// A row aligns its parts on the deepest midline: the row midline is the
// largest part midline and the height adds the largest extent below it.
func rowMid(parts []rowPart) float64 {
	mid := 0.0
	for _, p := range parts {
		mid = max(mid, p.mid)
	}
	return mid
}

func rowSize(parts []rowPart) core.Size {
	mid := rowMid(parts)
	var w, below float64
	for _, p := range parts {
		w += p.size.Width
		below = max(below, p.size.Height-p.mid)
	}
	return core.Size{Width: w, Height: mid + below}
}
