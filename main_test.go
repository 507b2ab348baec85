package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func trimLines(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  options
		want  string
	}{
		{
			name:  "fraction",
			input: "1+a/b",
			want:  "    a\n1 + ─\n    b",
		},
		{
			name:  "eval",
			input: "2+3*4",
			opts:  options{eval: true},
			want:  "2 + 3·4\n14",
		},
		{
			name:  "equation values",
			input: "8/4=2",
			opts:  options{eval: true},
			want:  "8\n─ = 2\n4\n2 = 2",
		},
		{
			name:  "latex",
			input: "x^2/2",
			opts:  options{format: "latex"},
			want:  `{x}^{\frac{2}{2}}`,
		},
		{
			name:  "tree",
			input: "x^2",
			opts:  options{tree: true},
			want:  "Exp(Var(x), Num(2))\n 2\nx",
		},
		{
			name:  "source",
			input: "a+b=c",
			opts:  options{source: true},
			want:  "a+b=c\na + b = c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := newTextRenderer(tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			var out bytes.Buffer
			if err := process(&out, tt.input, r, tt.opts); err != nil {
				t.Fatalf("process(%q) failed: %v", tt.input, err)
			}
			if got := trimLines(out.String()); got != tt.want {
				t.Errorf("Got\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestProcessColor(t *testing.T) {
	opts := options{color: true, fg: "#ff0000"}
	r, err := newTextRenderer(opts)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := process(&out, "7", r, opts); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "\033[38;2;255;0;0m7") {
		t.Errorf("Expected a red 7, got %q", out.String())
	}

	if _, err := newTextRenderer(options{fg: "not-a-color"}); err == nil {
		t.Error("An unknown color should be rejected")
	}
}

func TestRunBatch(t *testing.T) {
	r, _ := newTextRenderer(options{})
	in := strings.NewReader("1+1\n\n2)\nx\n")
	var out, errOut bytes.Buffer

	failed := runBatch(in, &out, &errOut, r, options{})
	if failed != 1 {
		t.Errorf("Expected one failure, got %d", failed)
	}
	if !strings.HasPrefix(errOut.String(), "line 3:") {
		t.Errorf("Error should name the line: %q", errOut.String())
	}
	if got := trimLines(out.String()); got != "1 + 1\nx" {
		t.Errorf("Got %q", got)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	opts := options{pngPath: path, scale: 1, fontSize: 24}
	r, _ := newTextRenderer(opts)

	var out bytes.Buffer
	if err := process(&out, "y=x^2", r, opts); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("Output is not a PNG: %v", err)
	}
}

func TestReplCommands(t *testing.T) {
	var opts options
	if replCommand(":eval", &opts) || !opts.eval {
		t.Error(":eval should toggle values on")
	}
	if replCommand(":tree", &opts) || !opts.tree {
		t.Error(":tree should toggle trees on")
	}
	if replCommand(":source", &opts) || !opts.source {
		t.Error(":source should toggle sources on")
	}
	if !replCommand(":quit", &opts) {
		t.Error(":quit should exit")
	}
}

func TestColorModeAndBlink(t *testing.T) {
	if on, err := colorMode("always"); !on || err != nil {
		t.Errorf("always: %v %v", on, err)
	}
	if on, err := colorMode("never"); on || err != nil {
		t.Errorf("never: %v %v", on, err)
	}
	if _, err := colorMode("sometimes"); err == nil {
		t.Error("Unknown color modes should fail")
	}

	t.Setenv(blinkEnv, "250")
	if d, err := blinkInterval(); err != nil || d.Milliseconds() != 250 {
		t.Errorf("blinkInterval = %v, %v", d, err)
	}
	t.Setenv(blinkEnv, "fast")
	if _, err := blinkInterval(); err == nil {
		t.Error("A non-numeric interval should fail")
	}
}

func TestRunMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	doc := "Intro\n\n```math\ny=1/x\n```\n\n```eq\nx^2\n2)\n```\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runMarkdown(&out, path, 1, "latex"); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "y = \\frac{1}{x}\n" {
		t.Errorf("Block 1 as LaTeX = %q", got)
	}

	out.Reset()
	err := runMarkdown(&out, path, 0, "")
	if err == nil || !strings.Contains(err.Error(), "eq (line 7)") {
		t.Errorf("Expected the broken block to be named, got %v", err)
	}

	fixed := strings.Replace(doc, "2)\n", "", 1)
	if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := runMarkdown(&out, path, 0, ""); err != nil {
		t.Fatal(err)
	}
	want := "Intro\n\n```text\n    1\ny = ─\n    x\n```\n\n```text\n 2\nx\n```\n"
	if out.String() != want {
		t.Errorf("Got\n%s\nwant\n%s", out.String(), want)
	}

	if err := runMarkdown(&out, path, 3, ""); err == nil {
		t.Error("An out of range block should fail")
	}
}
