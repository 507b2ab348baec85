package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"mathcanvas/canvas"
	"mathcanvas/demo"
	"mathcanvas/editor"
	"mathcanvas/export"
	"mathcanvas/expr"
	"mathcanvas/layout"
	"mathcanvas/parser"
	"mathcanvas/raster"
)

// blinkEnv overrides the cursor blink interval in milliseconds.
const blinkEnv = "MATHCANVAS_BLINK_MS"

type options struct {
	eval     bool
	tree     bool
	source   bool
	color    bool
	fg       string
	format   export.Format
	scale    float64
	fontSize float64
	pngPath  string
}

func main() {
	var (
		interactive = flag.Bool("i", false, "Interactive board")
		repl        = flag.Bool("repl", false, "Read expressions at a prompt")
		eval        = flag.Bool("eval", false, "Print the value of every side")
		tree        = flag.Bool("tree", false, "Print the expression tree of every side")
		source      = flag.Bool("source", false, "Print the normalized input of every side")
		format      = flag.String("format", "ascii", "Output format: ascii, latex, mathml, json")
		pngPath     = flag.String("png", "", "Write the typeset expression to a PNG file")
		mdFile      = flag.String("markdown", "", "Typeset the math blocks of a markdown file")
		block       = flag.Int("block", 0, "Only output this math block of -markdown (1-based)")
		scale       = flag.Float64("scale", 1, "Scale of PNG output")
		fontSize    = flag.Float64("font-size", raster.DefaultFontSize, "Font size of PNG output in points")
		color       = flag.String("color", "auto", "Colored output: auto, always or never")
		fg          = flag.String("fg", "", "Foreground color of colored output (name or #rrggbb)")
		verbose     = flag.Bool("v", false, "Log editor diagnostics to stderr")
		help        = flag.Bool("help", false, "Show help")

		// Demo mode flags
		demoScript  = flag.String("demo", "", "Replay a demo script in the board (\"-\" types stdin lines)")
		demoExample = flag.Bool("demo-example", false, "Print an example demo script")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [expression]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Typesets math expressions as text art, PNG images or on an interactive board.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                        # Start the interactive board\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s 'y=(x+1)^2/3'          # Print as text art\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -eval '2+3*4'          # Print the value\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -png out.png 'a/b'     # Render to an image\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -format latex 'x^2/2'  # Print LaTeX markup\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -markdown notes.md     # Render every ```math block\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  echo '1/2' | %s           # Batch mode, one expression per line\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if *verbose {
		editor.SetLogOutput(os.Stderr)
	}
	if *demoExample {
		fmt.Println(demo.GenerateExample())
		os.Exit(0)
	}

	blink, err := blinkInterval()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive || *demoScript != "" {
		if err := runInteractive(*demoScript, blink); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	opts := options{
		eval:     *eval,
		tree:     *tree,
		source:   *source,
		fg:       *fg,
		scale:    *scale,
		fontSize: *fontSize,
		pngPath:  *pngPath,
	}
	if opts.format, err = export.ParseFormat(*format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	opts.color, err = colorMode(*color)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	renderer, err := newTextRenderer(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	switch {
	case *mdFile != "":
		if err := runMarkdown(os.Stdout, *mdFile, *block, opts.format); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case *repl:
		os.Exit(runREPL(renderer, opts))

	case len(args) > 0:
		if err := process(os.Stdout, strings.Join(args, " "), renderer, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case !term.IsTerminal(int(os.Stdin.Fd())):
		if opts.pngPath != "" {
			fmt.Fprintf(os.Stderr, "Error: -png needs a single expression argument\n")
			os.Exit(1)
		}
		if failed := runBatch(os.Stdin, os.Stdout, os.Stderr, renderer, opts); failed > 0 {
			os.Exit(1)
		}

	default:
		if err := runInteractive("", blink); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// blinkInterval reads the blink override from the environment, falling
// back to the layout default.
func blinkInterval() (time.Duration, error) {
	v := os.Getenv(blinkEnv)
	if v == "" {
		return layout.CellConfig().BlinkInterval, nil
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", blinkEnv, v, err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func colorMode(mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return term.IsTerminal(int(os.Stdout.Fd())), nil
	}
	return false, fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
}

func newTextRenderer(opts options) (*canvas.Renderer, error) {
	cfg := layout.CellConfig()
	if opts.fg != "" {
		c, err := canvas.ParseColor(opts.fg)
		if err != nil {
			return nil, err
		}
		cfg.Foreground = c
	}
	return canvas.NewRenderer(cfg), nil
}

// process parses one line and writes everything the options ask for.
func process(w io.Writer, line string, r *canvas.Renderer, opts options) error {
	sides, err := parser.ParseEquation(line, -1)
	if err != nil {
		return err
	}

	if opts.tree {
		for _, a := range sides {
			fmt.Fprintln(w, a)
		}
	}
	if opts.source {
		fmt.Fprintln(w, formatSources(sides))
	}

	if opts.format == "" || opts.format == export.FormatASCII {
		c, err := r.RenderEquation(sides)
		if err != nil {
			return err
		}
		if opts.color {
			fmt.Fprintln(w, c.ColoredString())
		} else {
			fmt.Fprintln(w, c.TrimmedString())
		}
	} else {
		e, err := export.NewExporter(opts.format)
		if err != nil {
			return err
		}
		out, err := e.Export(sides)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
	}

	if opts.eval {
		fmt.Fprintln(w, formatValues(sides))
	}

	if opts.pngPath != "" {
		if err := writePNG(opts.pngPath, sides, opts); err != nil {
			return err
		}
	}
	return nil
}

// formatValues prints the value of every side, separated like the sides.
func formatValues(sides []*expr.Arena) string {
	values := make([]string, len(sides))
	for i, a := range sides {
		values[i] = strconv.FormatFloat(a.Value(), 'g', -1, 64)
	}
	return strings.Join(values, " = ")
}

// formatSources prints every side back as typeable text.
func formatSources(sides []*expr.Arena) string {
	src := make([]string, len(sides))
	for i, a := range sides {
		src[i] = expr.Source(a, a.Root())
	}
	return strings.Join(src, "=")
}

func writePNG(path string, sides []*expr.Arena, opts options) error {
	r := raster.NewRenderer(raster.NewFontBank(opts.fontSize), layout.DefaultConfig())
	img, err := r.RenderEquation(sides, opts.scale)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := raster.EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// runBatch processes every non-blank line of in and returns the number of
// lines that failed. Errors are reported with their line number.
func runBatch(in io.Reader, out, errOut io.Writer, r *canvas.Renderer, opts options) int {
	failed := 0
	scanner := bufio.NewScanner(in)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := process(out, line, r, opts); err != nil {
			fmt.Fprintf(errOut, "line %d: %v\n", n, err)
			failed++
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintf(errOut, "reading input: %v\n", err)
		failed++
	}
	return failed
}
