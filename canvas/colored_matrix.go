package canvas

import (
	"strings"

	"mathcanvas/core"
)

// ColoredString returns the canvas with ANSI true color escapes around
// every run of equally colored cells.
func (c *MatrixCanvas) ColoredString() string {
	var sb strings.Builder

	for y := 0; y < c.height; y++ {
		var current *core.Color
		for x := 0; x < c.width; x++ {
			char := c.matrix[y][x]
			if char == continuation {
				continue
			}
			color := c.colors[y][x]

			if !sameColor(color, current) {
				if current != nil {
					sb.WriteString(ColorReset)
				}
				if color != nil {
					sb.WriteString(Foreground(*color))
				}
				current = color
			}
			sb.WriteRune(char)
		}

		if current != nil {
			sb.WriteString(ColorReset)
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

func sameColor(a, b *core.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return Foreground(*a) == Foreground(*b)
}
