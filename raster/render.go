package raster

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"mathcanvas/core"
	"mathcanvas/expr"
	"mathcanvas/layout"
)

// Renderer typesets arenas into images.
type Renderer struct {
	Engine *layout.Engine
	Fonts  *FontBank

	Padding    int
	Background core.Color
}

// NewRenderer creates a renderer on a white background.
func NewRenderer(fonts *FontBank, cfg layout.Config) *Renderer {
	return &Renderer{
		Engine:     layout.NewEngine(Metrics{Fonts: fonts}, cfg),
		Fonts:      fonts,
		Padding:    8,
		Background: colorful.Color{R: 1, G: 1, B: 1},
	}
}

// Render typesets a single expression.
func (r *Renderer) Render(a *expr.Arena, scale float64) (*image.RGBA, error) {
	return r.RenderEquation([]*expr.Arena{a}, scale)
}

// RenderEquation typesets the sides of an equation on an image sized to
// fit them plus the padding on every edge.
func (r *Renderer) RenderEquation(sides []*expr.Arena, scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}
	size := r.Engine.MeasureEquation(sides, scale)
	w := int(math.Ceil(size.Width)) + 2*r.Padding
	h := int(math.Ceil(size.Height)) + 2*r.Padding

	img := image.NewRGBA(image.Rect(0, 0, max(1, w), max(1, h)))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.Background.Clamped()), image.Point{}, draw.Src)

	origin := core.Point{X: float64(r.Padding), Y: float64(r.Padding)}
	if err := r.Engine.PaintEquation(NewPainter(img, r.Fonts), sides, scale, origin); err != nil {
		return nil, err
	}
	return img, nil
}

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
