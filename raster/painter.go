package raster

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"mathcanvas/core"
)

func toPixels(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Metrics implements core.TextMetrics with the faces of a FontBank.
// Height is the face's ascent plus descent so stacked boxes never clip.
type Metrics struct {
	Fonts *FontBank
}

// MeasureText implements core.TextMetrics.
func (m Metrics) MeasureText(text string, f core.Font, scale float64) core.Size {
	face := m.Fonts.Face(f, scale)
	fm := face.Metrics()
	return core.Size{
		Width:  toPixels(font.MeasureString(face, text)),
		Height: toPixels(fm.Ascent + fm.Descent),
	}
}

// Painter implements core.Painter on an RGBA image.
type Painter struct {
	Image *image.RGBA
	Fonts *FontBank
}

// NewPainter paints onto img with faces from fonts.
func NewPainter(img *image.RGBA, fonts *FontBank) *Painter {
	return &Painter{Image: img, Fonts: fonts}
}

// DrawText implements core.Painter. pos is the top-left of the text box.
func (p *Painter) DrawText(text string, pos core.Point, f core.Font, scale float64, color core.Color) {
	face := p.Fonts.Face(f, scale)
	d := font.Drawer{
		Dst:  p.Image,
		Src:  image.NewUniform(color.Clamped()),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(math.Round(pos.X * 64)),
			Y: fixed.Int26_6(math.Round(pos.Y*64)) + face.Metrics().Ascent,
		},
	}
	d.DrawString(text)
}

// DrawLine implements core.Painter for horizontal and vertical rules. The
// line is centered on the segment and thickness pixels wide.
func (p *Painter) DrawLine(from, to core.Point, thickness float64, color core.Color) {
	half := thickness / 2
	r := core.Rect{
		Min: core.Point{X: math.Min(from.X, to.X), Y: math.Min(from.Y, to.Y) - half},
		Size: core.Size{
			Width:  math.Abs(to.X - from.X),
			Height: math.Abs(to.Y-from.Y) + thickness,
		},
	}
	if from.X == to.X {
		r.Min = core.Point{X: from.X - half, Y: math.Min(from.Y, to.Y)}
		r.Size = core.Size{Width: thickness, Height: math.Abs(to.Y - from.Y)}
	}
	p.FillRect(r, color)
}

// FillRect implements core.Painter.
func (p *Painter) FillRect(r core.Rect, color core.Color) {
	end := r.Max()
	rect := image.Rect(
		int(math.Round(r.Min.X)), int(math.Round(r.Min.Y)),
		int(math.Round(end.X)), int(math.Round(end.Y)),
	)
	draw.Draw(p.Image, rect, image.NewUniform(color.Clamped()), image.Point{}, draw.Over)
}
