package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"mathcanvas/export"
	"mathcanvas/markdown"
	"mathcanvas/parser"
)

// fenceLang is the code fence tag for rendered blocks of each format.
var fenceLang = map[export.Format]string{
	export.FormatASCII:  "text",
	export.FormatLaTeX:  "latex",
	export.FormatMathML: "html",
	export.FormatJSON:   "json",
}

// typesetter exports one line of math in the given format. Text art is
// validated before it is written into a document.
func typesetter(format export.Format) (markdown.Typesetter, error) {
	e, err := export.NewExporter(format)
	if err != nil {
		return nil, err
	}
	if a, ok := e.(*export.ASCIIExporter); ok {
		a.Validate = true
	}
	return func(line string) (string, error) {
		sides, err := parser.ParseEquation(line, -1)
		if err != nil {
			return "", err
		}
		return e.Export(sides)
	}, nil
}

// runMarkdown typesets the math blocks of a markdown file. With a block
// index (1-based) only that block's equations are written; otherwise the
// whole document is written with every math block rendered in place.
func runMarkdown(w io.Writer, filename string, blockIndex int, format export.Format) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading markdown file: %w", err)
	}
	if format == "" {
		format = export.FormatASCII
	}
	typeset, err := typesetter(format)
	if err != nil {
		return err
	}

	if blockIndex <= 0 {
		out, err := markdown.Render(string(content), fenceLang[format], typeset)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}

	blocks := markdown.NewScanner(string(content)).FindMathBlocks()
	if len(blocks) == 0 {
		return fmt.Errorf("no math blocks found in %s", filename)
	}
	if blockIndex > len(blocks) {
		return fmt.Errorf("block index %d is out of range (found %d blocks)", blockIndex, len(blocks))
	}

	block := blocks[blockIndex-1]
	var parts []string
	for _, eq := range block.Equations() {
		out, err := typeset(eq)
		if err != nil {
			return fmt.Errorf("%s: %w", markdown.FormatBlockInfo(block, blockIndex-1), err)
		}
		parts = append(parts, out)
	}
	_, err = fmt.Fprintln(w, strings.Join(parts, "\n\n"))
	return err
}
