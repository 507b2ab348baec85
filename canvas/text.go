package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// StringWidth returns the display width of a string in terminal cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth cuts s at a grapheme boundary so it fits in maxWidth
// cells. A wide cluster that would straddle the limit is dropped.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	width := 0
	end := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := runewidth.StringWidth(g.Str())
		if width+w > maxWidth {
			break
		}
		width += w
		_, end = g.Positions()
	}
	return s[:end]
}

// FitText truncates text to fit within maxWidth, adding ellipsis if needed.
func FitText(text string, maxWidth int, ellipsis string) string {
	if StringWidth(text) <= maxWidth {
		return text
	}

	ellipsisWidth := StringWidth(ellipsis)
	if maxWidth <= ellipsisWidth {
		return TruncateToWidth(text, maxWidth)
	}
	return TruncateToWidth(text, maxWidth-ellipsisWidth) + ellipsis
}

// WrapText wraps text at word boundaries to fit within maxWidth. Words
// longer than a line are kept whole on their own line.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}

	var lines []string
	var current strings.Builder
	currentWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := StringWidth(word)
		if currentWidth > 0 && currentWidth+1+wordWidth > maxWidth {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			current.WriteRune(' ')
			currentWidth++
		}
		current.WriteString(word)
		currentWidth += wordWidth
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
