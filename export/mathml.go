package export

import (
	"html"
	"strings"

	"mathcanvas/expr"
)

const mathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// MathMLExporter exports expressions to presentation MathML
type MathMLExporter struct {
	// Display selects block rather than inline rendering.
	Display bool
}

// NewMathMLExporter creates a new MathML exporter
func NewMathMLExporter() *MathMLExporter {
	return &MathMLExporter{}
}

// Export wraps the sides in a single <math> element
func (e *MathMLExporter) Export(sides []*expr.Arena) (string, error) {
	if err := checkSides(sides); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(`<math xmlns="` + mathMLNamespace + `"`)
	if e.Display {
		sb.WriteString(` display="block"`)
	}
	sb.WriteString("><mrow>")
	for i, a := range sides {
		if i > 0 {
			sb.WriteString("<mo>=</mo>")
		}
		e.write(&sb, a, a.Root())
	}
	sb.WriteString("</mrow></math>")
	return sb.String(), nil
}

func element(sb *strings.Builder, tag, text string) {
	sb.WriteString("<" + tag + ">" + html.EscapeString(text) + "</" + tag + ">")
}

func (e *MathMLExporter) write(sb *strings.Builder, a *expr.Arena, id expr.NodeRef) {
	switch t := a.Term(id).(type) {
	case expr.Empty:
		element(sb, "mi", "□")
	case expr.Cursor:
	case expr.Numeral:
		element(sb, "mn", t.String())
	case expr.Variable:
		sub := t.Subscript()
		if sub == "" {
			element(sb, "mi", t.Base())
			return
		}
		sb.WriteString("<msub>")
		element(sb, "mi", t.Base())
		if strings.Trim(sub, "0123456789") == "" {
			element(sb, "mn", sub)
		} else {
			element(sb, "mi", sub)
		}
		sb.WriteString("</msub>")
	case expr.Negative:
		sb.WriteString("<mrow>")
		element(sb, "mo", "-")
		e.write(sb, a, t.Child)
		sb.WriteString("</mrow>")
	case expr.Parentheses:
		sb.WriteString("<mrow>")
		element(sb, "mo", "(")
		e.write(sb, a, t.Child)
		element(sb, "mo", ")")
		sb.WriteString("</mrow>")
	case expr.Multiplication:
		sb.WriteString("<mrow>")
		for i, c := range t.Children {
			if i > 0 {
				if leadsWithDigit(a, c) {
					element(sb, "mo", "\u22c5")
				} else {
					element(sb, "mo", "\u2062") // invisible times
				}
			}
			e.write(sb, a, c)
		}
		sb.WriteString("</mrow>")
	case expr.Addition:
		sb.WriteString("<mrow>")
		for i, c := range t.Children {
			if neg, ok := a.Term(c).(expr.Negative); ok && i > 0 {
				element(sb, "mo", "-")
				e.write(sb, a, neg.Child)
				continue
			}
			if i > 0 {
				element(sb, "mo", "+")
			}
			e.write(sb, a, c)
		}
		sb.WriteString("</mrow>")
	case expr.Division:
		sb.WriteString("<mfrac><mrow>")
		e.write(sb, a, t.Numerator)
		sb.WriteString("</mrow><mrow>")
		e.write(sb, a, t.Denominator)
		sb.WriteString("</mrow></mfrac>")
	case expr.Exponentiation:
		sb.WriteString("<msup><mrow>")
		e.write(sb, a, t.Base)
		sb.WriteString("</mrow><mrow>")
		e.write(sb, a, t.Exponent)
		sb.WriteString("</mrow></msup>")
	}
}

// GetFileExtension returns the file extension for MathML
func (e *MathMLExporter) GetFileExtension() string {
	return ".mml"
}

// GetFormatName returns the format name
func (e *MathMLExporter) GetFormatName() string {
	return "MathML"
}
