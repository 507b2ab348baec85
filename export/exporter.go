// Package export provides functionality to export expressions to various text-based formats
package export

import (
	"errors"
	"fmt"

	"mathcanvas/expr"
)

// Format represents an export format
type Format string

const (
	// FormatASCII exports to Unicode text art
	FormatASCII Format = "ascii"
	// FormatLaTeX exports to LaTeX math markup
	FormatLaTeX Format = "latex"
	// FormatMathML exports to presentation MathML
	FormatMathML Format = "mathml"
	// FormatJSON exports the expression trees as JSON
	FormatJSON Format = "json"
)

// ErrNoSides is returned when there is nothing to export.
var ErrNoSides = errors.New("nothing to export")

// Exporter interface for different export formats
type Exporter interface {
	// Export converts the sides of an equation to the target format
	Export(sides []*expr.Arena) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(), nil
	case FormatLaTeX:
		return NewLaTeXExporter(), nil
	case FormatMathML:
		return NewMathMLExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "latex", "tex":
		return FormatLaTeX, nil
	case "mathml", "mml":
		return FormatMathML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatLaTeX,
		FormatMathML,
		FormatJSON,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII:  "Unicode text art",
		FormatLaTeX:  "LaTeX math markup",
		FormatMathML: "Presentation MathML",
		FormatJSON:   "Expression trees as JSON",
	}
}

// leadsWithDigit reports whether the subtree at id starts with a numeral
// when written out, so a product needs an explicit dot before it.
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

func checkSides(sides []*expr.Arena) error {
	if len(sides) == 0 {
		return ErrNoSides
	}
	for i, a := range sides {
		if a == nil {
			return fmt.Errorf("side %d is nil", i)
		}
	}
	return nil
}
