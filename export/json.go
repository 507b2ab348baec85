package export

import (
	"encoding/json"

	"mathcanvas/expr"
)

// Node is the JSON form of one expression node.
type Node struct {
	Kind     string `json:"kind"`
	Value    string `json:"value,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Document is the JSON form of an equation.
type Document struct {
	Sides  []Node    `json:"sides"`
	Values []float64 `json:"values,omitempty"`
}

// JSONExporter exports expression trees to JSON format
type JSONExporter struct {
	// WithValues adds the value of every side. NaN and infinite values
	// cannot be encoded and make Export fail.
	WithValues bool
}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts the expression trees to JSON
func (e *JSONExporter) Export(sides []*expr.Arena) (string, error) {
	if err := checkSides(sides); err != nil {
		return "", err
	}

	doc := Document{Sides: make([]Node, len(sides))}
	for i, a := range sides {
		doc.Sides[i] = toNode(a, a.Root())
		if e.WithValues {
			doc.Values = append(doc.Values, a.Value())
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func toNode(a *expr.Arena, id expr.NodeRef) Node {
	t := a.Term(id)
	n := Node{Kind: t.Kind().String()}
	switch t := t.(type) {
	case expr.Numeral:
		n.Value = t.String()
	case expr.Variable:
		n.Value = t.Name
	}
	for _, c := range expr.Children(t) {
		n.Children = append(n.Children, toNode(a, c))
	}
	return n
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
