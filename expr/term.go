// Package expr holds the expression tree model: a flat arena of term nodes
// addressed by index, plus helpers to dump and evaluate it.
package expr

import (
	"strconv"
	"strings"
)

// NodeRef addresses a node inside an Arena.
type NodeRef int

// NoNode is the parent of the root.
const NoNode NodeRef = -1

// Kind identifies a Term variant.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindCursor
	KindNumeral
	KindVariable
	KindNegative
	KindParentheses
	KindMultiplication
	KindAddition
	KindDivision
	KindExponentiation
)

// String returns the short name used by Format.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindCursor:
		return "Cursor"
	case KindNumeral:
		return "Num"
	case KindVariable:
		return "Var"
	case KindNegative:
		return "Neg"
	case KindParentheses:
		return "Paren"
	case KindMultiplication:
		return "Mul"
	case KindAddition:
		return "Add"
	case KindDivision:
		return "Div"
	case KindExponentiation:
		return "Exp"
	default:
		return "Unknown"
	}
}

// Term is one of the variant structs below.
type Term interface {
	Kind() Kind
	// children returns the referenced nodes in positional order.
	children() []NodeRef
}

// Empty is a placeholder awaiting its defining character.
type Empty struct{}

// Cursor marks the caret position. It only exists while editing.
type Cursor struct{}

// Numeral is an integer digit accumulator. The represented value is
// Value / 10^Decimals. Point records that a decimal point was typed, so
// "3." keeps its point while still having zero decimals.
type Numeral struct {
	Value    uint64
	Decimals int
	Point    bool
}

// Variable is a named symbol. Names with an underscore render the part after
// the underscore as a subscript.
type Variable struct {
	Name string
}

// Negative negates its child.
type Negative struct {
	Child NodeRef
}

// Parentheses groups its child.
type Parentheses struct {
	Child NodeRef
}

// Multiplication is an ordered product.
type Multiplication struct {
	Children []NodeRef
}

// Addition is an ordered sum. Subtraction is a Negative child.
type Addition struct {
	Children []NodeRef
}

// Division is a fraction.
type Division struct {
	Numerator   NodeRef
	Denominator NodeRef
}

// Exponentiation raises Base to Exponent.
type Exponentiation struct {
	Base     NodeRef
	Exponent NodeRef
}

func (Empty) Kind() Kind          { return KindEmpty }
func (Cursor) Kind() Kind         { return KindCursor }
func (Numeral) Kind() Kind        { return KindNumeral }
func (Variable) Kind() Kind       { return KindVariable }
func (Negative) Kind() Kind       { return KindNegative }
func (Parentheses) Kind() Kind    { return KindParentheses }
func (Multiplication) Kind() Kind { return KindMultiplication }
func (Addition) Kind() Kind       { return KindAddition }
func (Division) Kind() Kind       { return KindDivision }
func (Exponentiation) Kind() Kind { return KindExponentiation }

func (Empty) children() []NodeRef            { return nil }
func (Cursor) children() []NodeRef           { return nil }
func (Numeral) children() []NodeRef          { return nil }
func (Variable) children() []NodeRef         { return nil }
func (t Negative) children() []NodeRef       { return []NodeRef{t.Child} }
func (t Parentheses) children() []NodeRef    { return []NodeRef{t.Child} }
func (t Multiplication) children() []NodeRef { return t.Children }
func (t Addition) children() []NodeRef       { return t.Children }
func (t Division) children() []NodeRef       { return []NodeRef{t.Numerator, t.Denominator} }
func (t Exponentiation) children() []NodeRef { return []NodeRef{t.Base, t.Exponent} }

// Children returns the nodes referenced by t. The slice must not be modified.
func Children(t Term) []NodeRef {
	return t.children()
}

// String renders the numeral the way it was typed, minus leading zeros.
func (n Numeral) String() string {
	digits := strconv.FormatUint(n.Value, 10)
	if !n.Point {
		return digits
	}
	if len(digits) <= n.Decimals {
		digits = strings.Repeat("0", n.Decimals-len(digits)+1) + digits
	}
	cut := len(digits) - n.Decimals
	return digits[:cut] + "." + digits[cut:]
}

// Float decodes the numeral.
func (n Numeral) Float() float64 {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// Base returns the first character of the name.
func (v Variable) Base() string {
	for _, r := range v.Name {
		return string(r)
	}
	return ""
}

// Subscript returns the part of the name rendered below the baseline, with
// the separating underscore removed.
func (v Variable) Subscript() string {
	base := v.Base()
	rest := v.Name[len(base):]
	return strings.TrimPrefix(rest, "_")
}
