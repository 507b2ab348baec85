package canvas

import (
	"math"

	"mathcanvas/core"
	"mathcanvas/expr"
	"mathcanvas/layout"
	"mathcanvas/parser"
)

// Renderer typesets arenas onto freshly sized character grids.
type Renderer struct {
	Engine *layout.Engine
}

// NewRenderer creates a renderer measuring with CellMetrics.
func NewRenderer(cfg layout.Config) *Renderer {
	return &Renderer{Engine: layout.NewEngine(CellMetrics{}, cfg)}
}

// Render typesets a single expression.
func (r *Renderer) Render(a *expr.Arena) (*MatrixCanvas, error) {
	return r.RenderEquation([]*expr.Arena{a})
}

// RenderEquation typesets the sides of an equation on one grid just large
// enough to hold them.
func (r *Renderer) RenderEquation(sides []*expr.Arena) (*MatrixCanvas, error) {
	size := r.Engine.MeasureEquation(sides, 1)
	w := max(1, int(math.Ceil(size.Width)))
	h := max(1, int(math.Ceil(size.Height)))

	c, err := NewMatrixCanvas(w, h)
	if err != nil {
		return nil, err
	}
	if err := r.Engine.PaintEquation(NewCellPainter(c), sides, 1, core.Point{}); err != nil {
		return nil, err
	}
	return c, nil
}

// RenderExpression parses text, which may be an equation, and returns it
// as text art without trailing spaces.
func (r *Renderer) RenderExpression(text string) (string, error) {
	sides, err := parser.ParseEquation(text, -1)
	if err != nil {
		return "", err
	}
	c, err := r.RenderEquation(sides)
	if err != nil {
		return "", err
	}
	return c.TrimmedString(), nil
}
