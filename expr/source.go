package expr

import (
	"strings"
	"unicode"
)

// Source renders the subtree back into text that parses to the same tree.
// Products are written by juxtaposition where that is unambiguous and
// with '*' otherwise; a space leaves a fraction or exponent before the
// next factor or operator. Cursor nodes are dropped, so only complete
// trees without Empty nodes round-trip.
func Source(a *Arena, id NodeRef) string {
	w := &sourceWriter{a: a, ext: NoNode}
	w.write(id)
	return w.sb.String()
}

// sourceWriter tracks the node a parser reading the text so far would
// extend next, which decides the spaces needed between terms.
type sourceWriter struct {
	a   *Arena
	sb  strings.Builder
	ext NodeRef
}

func (w *sourceWriter) write(id NodeRef) {
	switch t := w.a.Term(id).(type) {
	case Numeral:
		w.sb.WriteString(t.String())
		w.ext = id
	case Variable:
		w.sb.WriteString(t.Name)
		w.ext = id
	case Negative:
		w.sb.WriteByte('-')
		w.write(t.Child)
	case Parentheses:
		w.sb.WriteByte('(')
		w.write(t.Child)
		w.sb.WriteByte(')')
		w.ext = id
	case Multiplication:
		first := true
		for _, c := range t.Children {
			if w.a.Term(c).Kind() == KindCursor {
				continue
			}
			if !first {
				w.close(w.prev(t.Children, c))
				next := Source(w.a, c)
				if !w.juxtaposes(next) {
					w.sb.WriteByte('*')
				}
			}
			w.write(c)
			first = false
		}
	case Addition:
		first := true
		for _, c := range t.Children {
			if w.a.Term(c).Kind() == KindCursor {
				continue
			}
			if _, neg := w.a.Term(c).(Negative); !neg && !first {
				w.sb.WriteByte('+')
			}
			w.write(c)
			first = false
		}
	case Division:
		w.write(t.Numerator)
		w.close(t.Numerator)
		w.sb.WriteByte('/')
		w.write(t.Denominator)
	case Exponentiation:
		w.write(t.Base)
		w.close(t.Base)
		w.sb.WriteByte('^')
		w.write(t.Exponent)
	}
}

// prev returns the factor written before c, skipping cursors. With NoNode
// it returns the last factor.
func (w *sourceWriter) prev(children []NodeRef, c NodeRef) NodeRef {
	p := NoNode
	for _, x := range children {
		if x == c {
			break
		}
		if w.a.Term(x).Kind() != KindCursor {
			p = x
		}
	}
	return p
}

// close writes the spaces that bring the extension point back up to id, so
// a following operator applies to the whole of it. A product is closed at
// its last factor.
func (w *sourceWriter) close(id NodeRef) {
	switch t := w.a.Term(id).(type) {
	case Division, Exponentiation:
		for w.ext != id && w.ext != NoNode {
			w.sb.WriteByte(' ')
			w.ext = w.escape(w.ext)
		}
	case Multiplication:
		if last := w.prev(t.Children, NoNode); last != NoNode {
			w.close(last)
		}
	}
}

// escape returns the nearest fraction or exponent above id.
func (w *sourceWriter) escape(id NodeRef) NodeRef {
	for p := w.a.Parent(id); p != NoNode; p = w.a.Parent(p) {
		switch w.a.Term(p).Kind() {
		case KindDivision, KindExponentiation:
			return p
		}
	}
	return NoNode
}

// juxtaposes reports whether next can follow the extension point without
// '*': it must open with a letter or '(', and a letter must not run into a
// subscripted name.
func (w *sourceWriter) juxtaposes(next string) bool {
	for _, r := range next {
		if r == '(' {
			return true
		}
		if !unicode.IsLetter(r) {
			return false
		}
		if w.ext == NoNode {
			return true
		}
		v, ok := w.a.Term(w.ext).(Variable)
		return !ok || !strings.ContainsRune(v.Name, '_')
	}
	return false
}
