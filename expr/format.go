package expr

import "strings"

// Format writes the subtree at id as a compact S-expression, for example
// Add(Num(2), Mul(Num(3), Num(4))). It is used by tests and the -tree flag.
func Format(a *Arena, id NodeRef) string {
	var sb strings.Builder
	format(&sb, a, id)
	return sb.String()
}

// String formats the whole arena from its root.
func (a *Arena) String() string {
	return Format(a, a.Root())
}

func format(sb *strings.Builder, a *Arena, id NodeRef) {
	t := a.Term(id)
	sb.WriteString(t.Kind().String())
	switch t := t.(type) {
	case Empty, Cursor:
		return
	case Numeral:
		sb.WriteByte('(')
		sb.WriteString(t.String())
		sb.WriteByte(')')
		return
	case Variable:
		sb.WriteByte('(')
		sb.WriteString(t.Name)
		sb.WriteByte(')')
		return
	}
	sb.WriteByte('(')
	for i, c := range t.children() {
		if i > 0 {
			sb.WriteString(", ")
		}
		format(sb, a, c)
	}
	sb.WriteByte(')')
}
