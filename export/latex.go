package export

import (
	"strings"

	"mathcanvas/expr"
)

// LaTeXExporter exports expressions to LaTeX math markup
type LaTeXExporter struct{}

// NewLaTeXExporter creates a new LaTeX exporter
func NewLaTeXExporter() *LaTeXExporter {
	return &LaTeXExporter{}
}

// Export writes the sides joined by " = ", without math delimiters
func (e *LaTeXExporter) Export(sides []*expr.Arena) (string, error) {
	if err := checkSides(sides); err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, a := range sides {
		if i > 0 {
			sb.WriteString(" = ")
		}
		e.write(&sb, a, a.Root())
	}
	return sb.String(), nil
}

func (e *LaTeXExporter) write(sb *strings.Builder, a *expr.Arena, id expr.NodeRef) {
	switch t := a.Term(id).(type) {
	case expr.Empty:
		sb.WriteString(`\square`)
	case expr.Cursor:
	case expr.Numeral:
		sb.WriteString(t.String())
	case expr.Variable:
		sb.WriteString(t.Base())
		if sub := t.Subscript(); sub != "" {
			sb.WriteString("_{" + sub + "}")
		}
	case expr.Negative:
		sb.WriteByte('-')
		e.write(sb, a, t.Child)
	case expr.Parentheses:
		sb.WriteString(`\left(`)
		e.write(sb, a, t.Child)
		sb.WriteString(`\right)`)
	case expr.Multiplication:
		for i, c := range t.Children {
			if i > 0 && leadsWithDigit(a, c) {
				sb.WriteString(` \cdot `)
			}
			e.write(sb, a, c)
		}
	case expr.Addition:
		for i, c := range t.Children {
			if neg, ok := a.Term(c).(expr.Negative); ok && i > 0 {
				sb.WriteString(" - ")
				e.write(sb, a, neg.Child)
				continue
			}
			if i > 0 {
				sb.WriteString(" + ")
			}
			e.write(sb, a, c)
		}
	case expr.Division:
		sb.WriteString(`\frac{`)
		e.write(sb, a, t.Numerator)
		sb.WriteString("}{")
		e.write(sb, a, t.Denominator)
		sb.WriteString("}")
	case expr.Exponentiation:
		sb.WriteString("{")
		e.write(sb, a, t.Base)
		sb.WriteString("}^{")
		e.write(sb, a, t.Exponent)
		sb.WriteString("}")
	}
}

// GetFileExtension returns the file extension for LaTeX
func (e *LaTeXExporter) GetFileExtension() string {
	return ".tex"
}

// GetFormatName returns the format name
func (e *LaTeXExporter) GetFormatName() string {
	return "LaTeX"
}
