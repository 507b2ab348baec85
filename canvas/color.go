package canvas

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"mathcanvas/core"
)

// ANSI control codes
const (
	ColorReset = "\033[0m"
	StyleBold  = "\033[1m"
	StyleDim   = "\033[2m"
)

var namedColors = map[string]string{
	"black":   "#000000",
	"red":     "#cd3131",
	"green":   "#0dbc79",
	"yellow":  "#e5e510",
	"blue":    "#2472c8",
	"magenta": "#bc3fbc",
	"cyan":    "#11a8cd",
	"white":   "#e5e5e5",
	"gray":    "#808080",
}

// ParseColor accepts a color name or a #rrggbb hex string.
func ParseColor(s string) (core.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return core.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// Foreground returns the 24-bit ANSI escape selecting c as text color.
func Foreground(c core.Color) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
}
