// Package canvas provides a colored character grid and the cell painter
// and metrics that let the layout engine typeset expressions in text.
package canvas

// Cell addresses one character position. Origin (0,0) is top-left.
type Cell struct {
	X, Y int
}
