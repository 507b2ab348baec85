// Package raster typesets expressions into RGBA images using the Go fonts.
package raster

import (
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"mathcanvas/core"
)

// DefaultFontSize is the point size of unscaled text at 72 DPI.
const DefaultFontSize = 24

type fontKey struct {
	font  core.Font
	scale int // scale × 1000
}

// FontBank hands out cached faces: Go Regular for symbols and Go Italic
// for variables. When a font cannot be parsed it falls back to basicfont.
type FontBank struct {
	size    float64
	regular *opentype.Font
	italic  *opentype.Font

	mu    sync.Mutex
	cache map[fontKey]font.Face
}

// NewFontBank parses the embedded fonts for the given point size.
func NewFontBank(size float64) *FontBank {
	bank := &FontBank{size: size, cache: map[fontKey]font.Face{}}
	if reg, err := opentype.Parse(goregular.TTF); err == nil {
		bank.regular = reg
	}
	if ita, err := opentype.Parse(goitalic.TTF); err == nil {
		bank.italic = ita
	}
	return bank
}

// Size returns the unscaled point size.
func (b *FontBank) Size() float64 {
	return b.size
}

// Face returns the face for f at the given scale.
func (b *FontBank) Face(f core.Font, scale float64) font.Face {
	key := fontKey{font: f, scale: int(math.Round(scale * 1000))}

	b.mu.Lock()
	defer b.mu.Unlock()
	if face, ok := b.cache[key]; ok {
		return face
	}

	base := b.regular
	if f == core.FontVariable && b.italic != nil {
		base = b.italic
	}
	if base == nil || scale <= 0 {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(base, &opentype.FaceOptions{
		Size:    b.size * scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	if b.cache == nil {
		b.cache = map[fontKey]font.Face{}
	}
	b.cache[key] = face
	return face
}
