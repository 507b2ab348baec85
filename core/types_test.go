package core

import (
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{Min: Point{X: 10, Y: 5}, Size: Size{Width: 4, Height: 2}}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"top-left corner", Point{10, 5}, true},
		{"inside", Point{12, 6}, true},
		{"right edge is exclusive", Point{14, 6}, false},
		{"bottom edge is exclusive", Point{12, 7}, false},
		{"left of rect", Point{9.5, 6}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 3, Y: 4}
	if got := p.Add(Point{1, 1}); got != (Point{4, 5}) {
		t.Errorf("Expected (4,5), got %v", got)
	}
	if got := p.Sub(Point{3, 4}); got != (Point{}) {
		t.Errorf("Expected origin, got %v", got)
	}
	if d := p.Distance(Point{}); d != 5 {
		t.Errorf("Expected distance 5, got %v", d)
	}
}

func TestFontString(t *testing.T) {
	if FontSymbol.String() != "symbol" {
		t.Errorf("Expected 'symbol', got %s", FontSymbol.String())
	}
	if FontVariable.String() != "variable" {
		t.Errorf("Expected 'variable', got %s", FontVariable.String())
	}
	if Font(42).String() != "unknown" {
		t.Errorf("Expected 'unknown', got %s", Font(42).String())
	}
}
