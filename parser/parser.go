// Package parser turns the source text of an expression into an expr.Arena.
//
// The text is scanned once, left to right. At any point the parser either
// holds an empty slot (an Empty node waiting for the character that decides
// its kind) or an extension point (the most recently completed node, which
// the next character may extend, wrap or leave). Operator precedence is not
// looked up in a table: each operator walks up the parent links and
// restructures the tree, so the shape of the tree encodes binding strength.
package parser

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"mathcanvas/expr"
)

// CursorMarker is the rune that stands for the caret in source text.
const CursorMarker = '‸'

// MaxAscent bounds every upward walk. Arenas are acyclic so a walk can only
// exceed it for very deep expressions; the parse then fails instead of
// looping.
const MaxAscent = 512

// ErrParse matches every *ParseError through errors.Is.
var ErrParse = errors.New("parse error")

// ParseError reports the first character the parser could not place.
type ParseError struct {
	Pos    int  // rune offset into the source text
	Char   rune // offending character, 0 at end of input
	Reason string
}

func (e *ParseError) Error() string {
	if e.Char == 0 {
		return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Reason)
	}
	return fmt.Sprintf("parse error at %d (%q): %s", e.Pos, e.Char, e.Reason)
}

// Is makes errors.Is(err, ErrParse) true.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Parse parses text. A literal CursorMarker in the text produces a Cursor node.
func Parse(text string) (*expr.Arena, error) {
	return ParseAt(text, -1)
}

// ParseAt parses text with the caret at rune offset cursor, without the
// caret being part of the text. A negative cursor means no caret. A caret
// inside a numeral or a subscripted name is placed after that token, so
// moving the caret never changes how the text tokenizes.
func ParseAt(text string, cursor int) (*expr.Arena, error) {
	p := newState()
	runes := []rune(text)
	pending := false
	for i, r := range runes {
		if i == cursor {
			if p.continues(r) {
				pending = true
			} else if err := p.caret(i); err != nil {
				return nil, err
			}
		}
		p.pos, p.ch = i, r
		if err := p.feed(r); err != nil {
			return nil, err
		}
		if pending && (i+1 == len(runes) || !p.continues(runes[i+1])) {
			pending = false
			if err := p.caret(i + 1); err != nil {
				return nil, err
			}
		}
	}
	if cursor >= len(runes) {
		if err := p.caret(len(runes)); err != nil {
			return nil, err
		}
	}
	p.pos, p.ch = len(runes), 0
	if p.slot != expr.NoNode {
		return nil, p.fail("incomplete expression")
	}
	return p.a, nil
}

// ParseEquation splits text on '=' and parses every side. The caret, given
// as a rune offset into the full text, is routed to the side that contains
// it. Error positions are offsets into the full text.
func ParseEquation(text string, cursor int) ([]*expr.Arena, error) {
	runes := []rune(text)
	var sides []*expr.Arena
	start := 0
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && runes[i] != '=' {
			continue
		}
		local := -1
		if cursor >= start && cursor <= i {
			local = cursor - start
		}
		a, err := ParseAt(string(runes[start:i]), local)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Pos += start
			}
			return nil, err
		}
		sides = append(sides, a)
		start = i + 1
	}
	return sides, nil
}

type state struct {
	a       *expr.Arena
	slot    expr.NodeRef // active empty slot, or NoNode
	ext     expr.NodeRef // active extension point, or NoNode
	cursors int

	pos int
	ch  rune
}

func newState() *state {
	a := expr.NewArena()
	return &state{a: a, slot: a.Root(), ext: expr.NoNode}
}

func (p *state) fail(reason string) *ParseError {
	return &ParseError{Pos: p.pos, Char: p.ch, Reason: reason}
}

// wrapErr turns an arena error into a parse error. Arena errors only occur
// on an internal inconsistency, but they are reported rather than ignored.
func (p *state) wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return p.fail(err.Error())
}

func (p *state) caret(pos int) error {
	p.pos, p.ch = pos, CursorMarker
	return p.feed(CursorMarker)
}

// continues reports whether r would extend the token at the extension point
// in place: more digits or a point of a numeral, the '_' of a name, or the
// letters and digits of a subscript.
func (p *state) continues(r rune) bool {
	if p.slot != expr.NoNode || p.ext == expr.NoNode {
		return false
	}
	switch t := p.a.Term(p.ext).(type) {
	case expr.Numeral:
		return isDigit(r) || (r == '.' && !t.Point)
	case expr.Variable:
		if subscripted(t) {
			return isDigit(r) || isLetter(r)
		}
		return r == '_'
	}
	return false
}

func (p *state) toSlot(id expr.NodeRef) {
	p.slot, p.ext = id, expr.NoNode
}

func (p *state) toExt(id expr.NodeRef) {
	p.slot, p.ext = expr.NoNode, id
}

func (p *state) feed(r rune) error {
	if r == CursorMarker {
		p.cursors++
		if p.cursors > 1 {
			return p.fail("more than one cursor")
		}
	}
	if p.slot != expr.NoNode {
		return p.fill(r)
	}
	return p.extend(r)
}

// fill decides the kind of the node in the empty slot.
func (p *state) fill(r rune) error {
	s := p.slot
	switch {
	case isDigit(r):
		if err := p.a.Set(s, expr.Numeral{Value: uint64(r - '0')}); err != nil {
			return p.wrapErr(err)
		}
		p.toExt(s)
	case isLetter(r):
		if err := p.a.Set(s, expr.Variable{Name: string(r)}); err != nil {
			return p.wrapErr(err)
		}
		p.toExt(s)
	case r == '(':
		child := p.a.NewEmpty(s)
		if err := p.a.Set(s, expr.Parentheses{Child: child}); err != nil {
			return p.wrapErr(err)
		}
		p.toSlot(child)
	case isMinus(r):
		child := p.a.NewEmpty(s)
		if err := p.a.Set(s, expr.Negative{Child: child}); err != nil {
			return p.wrapErr(err)
		}
		p.toSlot(child)
	case r == CursorMarker:
		if err := p.a.Set(s, expr.Cursor{}); err != nil {
			return p.wrapErr(err)
		}
		p.toExt(s)
	default:
		return p.fail("expected a number, a variable, '(' or '-'")
	}
	return nil
}

// extend handles a character arriving after a completed node.
func (p *state) extend(r rune) error {
	e := p.ext
	t := p.a.Term(e)

	switch {
	case isDigit(r):
		switch n := t.(type) {
		case expr.Numeral:
			return p.appendDigit(e, n, r)
		case expr.Variable:
			if subscripted(n) {
				n.Name += string(r)
				return p.wrapErr(p.a.Set(e, n))
			}
		}
		id, err := p.multiply(expr.Numeral{Value: uint64(r - '0')})
		if err != nil {
			return err
		}
		p.toExt(id)

	case r == '.':
		n, ok := t.(expr.Numeral)
		if !ok || n.Point {
			return p.fail("unexpected decimal point")
		}
		n.Point = true
		return p.wrapErr(p.a.Set(e, n))

	case r == '_':
		v, ok := t.(expr.Variable)
		if !ok || subscripted(v) {
			return p.fail("unexpected subscript")
		}
		v.Name += "_"
		return p.wrapErr(p.a.Set(e, v))

	case isLetter(r):
		if v, ok := t.(expr.Variable); ok && subscripted(v) {
			v.Name += string(r)
			return p.wrapErr(p.a.Set(e, v))
		}
		id, err := p.multiply(expr.Variable{Name: string(r)})
		if err != nil {
			return err
		}
		p.toExt(id)

	case r == CursorMarker:
		id, err := p.multiply(expr.Cursor{})
		if err != nil {
			return err
		}
		p.toExt(id)

	case r == '(':
		id, err := p.multiply(expr.Empty{})
		if err != nil {
			return err
		}
		child := p.a.NewEmpty(id)
		if err := p.a.Set(id, expr.Parentheses{Child: child}); err != nil {
			return p.wrapErr(err)
		}
		p.toSlot(child)

	case isTimes(r):
		id, err := p.multiply(expr.Empty{})
		if err != nil {
			return err
		}
		p.toSlot(id)

	case r == '^':
		return p.exponent(e)

	case isDivide(r):
		return p.divide(e)

	case r == '+' || isMinus(r):
		return p.add(e, isMinus(r))

	case r == ' ':
		return p.escape(e)

	case r == ')':
		return p.closeParen(e)

	default:
		return p.fail("unexpected character")
	}
	return nil
}

func (p *state) appendDigit(id expr.NodeRef, n expr.Numeral, r rune) error {
	d := uint64(r - '0')
	if n.Value > (math.MaxUint64-d)/10 {
		return p.fail("numeral too large")
	}
	n.Value = n.Value*10 + d
	if n.Point {
		n.Decimals++
	}
	return p.wrapErr(p.a.Set(id, n))
}

// multiply appends t as the next factor after the extension point. If the
// extension point already sits in a product, t joins it; otherwise the
// extension point is wrapped into a new two-factor product.
func (p *state) multiply(t expr.Term) (expr.NodeRef, error) {
	e := p.ext
	if parent := p.a.Parent(e); parent != expr.NoNode {
		if _, ok := p.a.Term(parent).(expr.Multiplication); ok {
			id, err := p.a.Append(parent, t)
			return id, p.wrapErr(err)
		}
	}
	low, err := p.a.Lower(e)
	if err != nil {
		return expr.NoNode, p.wrapErr(err)
	}
	id := p.a.NewLeaf(e, t)
	if err := p.a.Set(e, expr.Multiplication{Children: []expr.NodeRef{low, id}}); err != nil {
		return expr.NoNode, p.wrapErr(err)
	}
	return id, nil
}

// exponent wraps the extension point as the base of a new power.
func (p *state) exponent(e expr.NodeRef) error {
	low, err := p.a.Lower(e)
	if err != nil {
		return p.wrapErr(err)
	}
	exp := p.a.NewEmpty(e)
	if err := p.a.Set(e, expr.Exponentiation{Base: low, Exponent: exp}); err != nil {
		return p.wrapErr(err)
	}
	p.toSlot(exp)
	return nil
}

// divide absorbs the whole preceding product into a numerator. Coming out of
// a denominator continues upward, so a/b/c groups as (a/b)/c.
func (p *state) divide(e expr.NodeRef) error {
	top, err := p.climb(e, func(child, parent expr.NodeRef) bool {
		switch t := p.a.Term(parent).(type) {
		case expr.Multiplication:
			return true
		case expr.Division:
			return t.Denominator == child
		}
		return false
	})
	if err != nil {
		return err
	}
	low, err := p.a.Lower(top)
	if err != nil {
		return p.wrapErr(err)
	}
	den := p.a.NewEmpty(top)
	if err := p.a.Set(top, expr.Division{Numerator: low, Denominator: den}); err != nil {
		return p.wrapErr(err)
	}
	p.toSlot(den)
	return nil
}

// add climbs to the level of the nearest sum, stopping at a group boundary,
// and opens a new term there.
func (p *state) add(e expr.NodeRef, negate bool) error {
	top, err := p.climb(e, func(_, parent expr.NodeRef) bool {
		k := p.a.Term(parent).Kind()
		return k != expr.KindAddition && k != expr.KindParentheses
	})
	if err != nil {
		return err
	}

	var term expr.NodeRef
	parent := p.a.Parent(top)
	if parent != expr.NoNode && p.a.Term(parent).Kind() == expr.KindAddition {
		term, err = p.a.Append(parent, expr.Empty{})
		if err != nil {
			return p.wrapErr(err)
		}
	} else {
		low, err := p.a.Lower(top)
		if err != nil {
			return p.wrapErr(err)
		}
		term = p.a.NewEmpty(top)
		if err := p.a.Set(top, expr.Addition{Children: []expr.NodeRef{low, term}}); err != nil {
			return p.wrapErr(err)
		}
	}

	if !negate {
		p.toSlot(term)
		return nil
	}
	child := p.a.NewEmpty(term)
	if err := p.a.Set(term, expr.Negative{Child: child}); err != nil {
		return p.wrapErr(err)
	}
	p.toSlot(child)
	return nil
}

// escape leaves the innermost numerator, denominator or exponent. It does
// not cross an open parenthesis.
func (p *state) escape(e expr.NodeRef) error {
	anc, err := p.ancestor(e, "nothing to leave", func(id expr.NodeRef) (bool, bool) {
		switch p.a.Term(id).Kind() {
		case expr.KindDivision, expr.KindExponentiation:
			return true, false
		case expr.KindParentheses:
			return false, true
		}
		return false, false
	})
	if err != nil {
		return err
	}
	p.toExt(anc)
	return nil
}

// closeParen resumes at the nearest enclosing group.
func (p *state) closeParen(e expr.NodeRef) error {
	anc, err := p.ancestor(e, "unmatched ')'", func(id expr.NodeRef) (bool, bool) {
		return p.a.Term(id).Kind() == expr.KindParentheses, false
	})
	if err != nil {
		return err
	}
	p.toExt(anc)
	return nil
}

// climb walks from start toward the root while keep(child, parent) holds and
// returns the highest node reached.
func (p *state) climb(start expr.NodeRef, keep func(child, parent expr.NodeRef) bool) (expr.NodeRef, error) {
	c := start
	for steps := 0; ; steps++ {
		if steps > MaxAscent {
			return expr.NoNode, p.fail("expression nested too deeply")
		}
		parent := p.a.Parent(c)
		if parent == expr.NoNode || !keep(c, parent) {
			return c, nil
		}
		c = parent
	}
}

// ancestor returns the nearest proper ancestor of start for which match
// reports found. A reported barrier, or reaching the root, fails with
// reason.
func (p *state) ancestor(start expr.NodeRef, reason string, match func(id expr.NodeRef) (found, barrier bool)) (expr.NodeRef, error) {
	c := start
	for steps := 0; ; steps++ {
		if steps > MaxAscent {
			return expr.NoNode, p.fail("expression nested too deeply")
		}
		c = p.a.Parent(c)
		if c == expr.NoNode {
			return expr.NoNode, p.fail(reason)
		}
		found, barrier := match(c)
		if found {
			return c, nil
		}
		if barrier {
			return expr.NoNode, p.fail(reason)
		}
	}
}

func subscripted(v expr.Variable) bool {
	return strings.ContainsRune(v.Name, '_')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return r != CursorMarker && (unicode.IsLetter(r) || r == '∞')
}

func isMinus(r rune) bool {
	return r == '-' || r == '−'
}

func isTimes(r rune) bool {
	return r == '*' || r == '×' || r == '·' || r == '∙'
}

func isDivide(r rune) bool {
	return r == '/' || r == '÷'
}
