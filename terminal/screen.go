package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"mathcanvas/canvas"
	"mathcanvas/core"
)

// Color converts a layout color to a 24-bit terminal color.
func Color(c core.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// blit copies the canvas cells onto the screen. Continuation cells of wide
// glyphs are skipped; tcell advances past them itself.
func (a *App) blit(c *canvas.MatrixCanvas) {
	w, h := c.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := canvas.Cell{X: x, Y: y}
			r := c.Get(p)
			if r == 0 || r == ' ' {
				continue
			}
			style := a.style
			if col, ok := c.ColorAt(p); ok {
				style = style.Foreground(Color(col))
			}
			a.screen.SetContent(x, y, r, nil, style)
		}
	}
}

func (a *App) drawStatus(w, y int) {
	b := a.board
	left := fmt.Sprintf(" %s  %s ", b.Mode(), b.Tool())
	right := " Enter commit  Tab tool  ^Z undo  q quit "
	if b.Session() != nil {
		right = " Enter commit  ^G cancel  ^Z/^Y undo/redo "
	}

	bar := a.style.Reverse(true)
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, bar)
	}
	x := drawString(a.screen, 0, y, w, left, bar.Bold(true))
	if a.status != "" {
		x = drawString(a.screen, x+1, y, w, a.status, bar.Foreground(tcell.ColorRed))
	}
	if rw := runewidth.StringWidth(right); w-rw > x {
		drawString(a.screen, w-rw, y, w, right, bar)
	}
}

// drawString writes s from column x, clipped at limit, and returns the
// column after the last cell written.
func drawString(s tcell.Screen, x, y, limit int, text string, style tcell.Style) int {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if x+rw > limit {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}
