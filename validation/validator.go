// Package validation checks typeset cell art for malformed glyph stacks.
package validation

import (
	"fmt"
	"strings"
)

// Glyph pieces drawn by the cell renderer.
const (
	openTop     = '⎛'
	openMiddle  = '⎜'
	openBottom  = '⎝'
	closeTop    = '⎞'
	closeMiddle = '⎟'
	closeBottom = '⎠'
	rule        = '─'
)

// ArtValidator validates that rendered equations are well formed: stretched
// brackets are closed stacks and every fraction rule has something above
// and below it.
type ArtValidator struct {
	errors []ValidationError

	// strictMode also rejects brackets whose left and right stacks differ
	// in height on the same rows.
	strictMode bool
}

// ValidationError represents a validation error with location information.
type ValidationError struct {
	X, Y    int
	Char    rune
	Context string
	Message string
}

// NewArtValidator creates a validator with default settings.
func NewArtValidator() *ArtValidator {
	return &ArtValidator{}
}

// SetStrictMode enables or disables strict validation.
func (v *ArtValidator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

// Validate checks rendered art. Rows are split on newlines and indexed by
// rune, so the art must not contain wide characters.
func (v *ArtValidator) Validate(art string) []ValidationError {
	v.errors = nil

	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	grid := make([][]rune, len(lines))
	for i, line := range lines {
		grid[i] = []rune(line)
	}

	for y := 0; y < len(grid); y++ {
		for x := 0; x < len(grid[y]); x++ {
			switch grid[y][x] {
			case openTop, openMiddle, openBottom:
				v.checkBracket(grid, x, y, openTop, openMiddle, openBottom)
			case closeTop, closeMiddle, closeBottom:
				v.checkBracket(grid, x, y, closeTop, closeMiddle, closeBottom)
			case rule:
				if x == 0 || getChar(grid, x-1, y) != rule {
					v.checkRule(grid, x, y)
				}
			}
		}
	}

	if v.strictMode {
		v.checkPairs(grid)
	}
	return v.errors
}

// checkBracket validates one piece of a bracket stack against its
// neighbours in the same column.
func (v *ArtValidator) checkBracket(grid [][]rune, x, y int, top, middle, bottom rune) {
	char := grid[y][x]
	north := getChar(grid, x, y-1)
	south := getChar(grid, x, y+1)

	switch char {
	case top:
		if south != middle && south != bottom {
			v.addError(x, y, char, fmt.Sprintf("south=%c", south),
				"Bracket top must continue downwards")
		}
	case middle:
		if north != top && north != middle {
			v.addError(x, y, char, fmt.Sprintf("north=%c", north),
				"Bracket extension has no top")
		}
		if south != middle && south != bottom {
			v.addError(x, y, char, fmt.Sprintf("south=%c", south),
				"Bracket extension has no bottom")
		}
	case bottom:
		if north != top && north != middle {
			v.addError(x, y, char, fmt.Sprintf("north=%c", north),
				"Bracket bottom must continue upwards")
		}
	}
}

// checkRule validates the run of rule glyphs starting at (x, y). A fraction
// needs ink on the row above and the row below somewhere over the run.
func (v *ArtValidator) checkRule(grid [][]rune, x, y int) {
	end := x
	for getChar(grid, end, y) == rule {
		end++
	}
	if !inked(grid, x, end, y-1) {
		v.addError(x, y, rule, fmt.Sprintf("columns %d-%d", x, end-1),
			"Fraction rule has no numerator")
	}
	if !inked(grid, x, end, y+1) {
		v.addError(x, y, rule, fmt.Sprintf("columns %d-%d", x, end-1),
			"Fraction rule has no denominator")
	}
}

// checkPairs matches every opening stack with its closing stack on the same
// top row, skipping nested pairs that share the row.
func (v *ArtValidator) checkPairs(grid [][]rune) {
	for y := range grid {
		for x, char := range grid[y] {
			if char != openTop {
				continue
			}
			want := stackHeight(grid, x, y, openMiddle, openBottom)
			found := false
			depth := 0
			for cx := x + 1; cx < len(grid[y]); cx++ {
				switch grid[y][cx] {
				case openTop:
					depth++
					continue
				case closeTop:
					if depth > 0 {
						depth--
						continue
					}
				default:
					continue
				}
				found = true
				if got := stackHeight(grid, cx, y, closeMiddle, closeBottom); got != want {
					v.addError(cx, y, closeTop, fmt.Sprintf("open=%d close=%d", want, got),
						"Closing bracket height differs from its opening bracket")
				}
				break
			}
			if !found {
				v.addError(x, y, char, "", "Opening bracket is never closed")
			}
		}
	}
}

func stackHeight(grid [][]rune, x, y int, middle, bottom rune) int {
	h := 1
	for {
		c := getChar(grid, x, y+h)
		if c == middle {
			h++
			continue
		}
		if c == bottom {
			h++
		}
		return h
	}
}

func inked(grid [][]rune, from, to, y int) bool {
	for x := from; x < to; x++ {
		if getChar(grid, x, y) != ' ' {
			return true
		}
	}
	return false
}

// getChar safely gets a character from the grid.
func getChar(grid [][]rune, x, y int) rune {
	if y < 0 || y >= len(grid) {
		return ' '
	}
	if x < 0 || x >= len(grid[y]) {
		return ' '
	}
	return grid[y][x]
}

func (v *ArtValidator) addError(x, y int, char rune, context, format string, args ...interface{}) {
	v.errors = append(v.errors, ValidationError{
		X:       x,
		Y:       y,
		Char:    char,
		Context: context,
		Message: fmt.Sprintf(format, args...),
	})
}

// String formats validation errors as a string.
func (e ValidationError) String() string {
	return fmt.Sprintf("(%d,%d) '%c' [%s]: %s", e.X, e.Y, e.Char, e.Context, e.Message)
}

// Error implements error so a failed validation can be returned directly.
func (e ValidationError) Error() string {
	return e.String()
}
