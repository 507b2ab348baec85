package expr

import "math"

// VariableValue is the constant every variable evaluates to. There is no
// variable binding.
const VariableValue = 1.0

// Evaluate reduces the subtree at id to a number. Division by zero and other
// domain errors produce Inf or NaN and propagate; Evaluate never fails.
// Empty and lone Cursor nodes are NaN; a Cursor inside a sum or product is
// skipped.
func Evaluate(a *Arena, id NodeRef) float64 {
	switch t := a.Term(id).(type) {
	case Numeral:
		return t.Float()
	case Variable:
		return VariableValue
	case Negative:
		return -Evaluate(a, t.Child)
	case Parentheses:
		return Evaluate(a, t.Child)
	case Addition:
		sum := 0.0
		for _, c := range t.Children {
			if a.Term(c).Kind() == KindCursor {
				continue
			}
			sum += Evaluate(a, c)
		}
		return sum
	case Multiplication:
		product := 1.0
		for _, c := range t.Children {
			if a.Term(c).Kind() == KindCursor {
				continue
			}
			product *= Evaluate(a, c)
		}
		return product
	case Division:
		return Evaluate(a, t.Numerator) / Evaluate(a, t.Denominator)
	case Exponentiation:
		return math.Pow(Evaluate(a, t.Base), Evaluate(a, t.Exponent))
	default:
		return math.NaN()
	}
}

// Value evaluates the whole arena.
func (a *Arena) Value() float64 {
	return Evaluate(a, a.Root())
}
