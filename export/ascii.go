package export

import (
	"fmt"

	"mathcanvas/canvas"
	"mathcanvas/expr"
	"mathcanvas/layout"
	"mathcanvas/validation"
)

// ASCIIExporter exports expressions to Unicode text art
type ASCIIExporter struct {
	renderer *canvas.Renderer

	// Validate rejects art with broken bracket stacks or fraction rules.
	Validate bool
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter() *ASCIIExporter {
	return &ASCIIExporter{
		renderer: canvas.NewRenderer(layout.CellConfig()),
	}
}

// Export typesets the sides as text art
func (e *ASCIIExporter) Export(sides []*expr.Arena) (string, error) {
	if err := checkSides(sides); err != nil {
		return "", err
	}

	c, err := e.renderer.RenderEquation(sides)
	if err != nil {
		return "", fmt.Errorf("failed to render expression: %w", err)
	}
	art := c.TrimmedString()
	if e.Validate {
		v := validation.NewArtValidator()
		v.SetStrictMode(true)
		if errs := v.Validate(art); len(errs) > 0 {
			return "", fmt.Errorf("malformed art: %w", errs[0])
		}
	}
	return art, nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "Unicode Text Art"
}
