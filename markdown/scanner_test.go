package markdown

import (
	"errors"
	"strings"
	"testing"
)

const doc = "# Notes\n" +
	"\n" +
	"```math\n" +
	"y=1/x\n" +
	"\n" +
	"a+b\n" +
	"```\n" +
	"\n" +
	"```go\n" +
	"x := 1\n" +
	"```\n" +
	"\n" +
	"  ```eq\n" +
	"  x^2\n" +
	"  ```\n"

func TestFindMathBlocks(t *testing.T) {
	blocks := NewScanner(doc).FindMathBlocks()
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 math blocks, got %d", len(blocks))
	}

	first := blocks[0]
	if first.Lang != "math" || first.StartLine != 2 || first.EndLine != 6 {
		t.Errorf("Unexpected first block %+v", first)
	}
	if got := first.Equations(); strings.Join(got, ",") != "y=1/x,a+b" {
		t.Errorf("Equations = %q", got)
	}

	second := blocks[1]
	if second.Indent != "  " || second.Content != "x^2" {
		t.Errorf("Indented block not dedented: %+v", second)
	}
	if got := FormatBlockInfo(second, 1); got != "2. eq (line 13): x^2" {
		t.Errorf("FormatBlockInfo = %q", got)
	}
}

func TestUnclosedBlockIgnored(t *testing.T) {
	if blocks := NewScanner("```math\n1+1\n").FindMathBlocks(); len(blocks) != 0 {
		t.Errorf("Expected no blocks, got %+v", blocks)
	}
}

func TestReplaceBlock(t *testing.T) {
	s := NewScanner(doc)
	blocks := s.FindMathBlocks()

	if err := s.ValidateBlockUnchanged(blocks[1]); err != nil {
		t.Fatalf("Fresh block reported as changed: %v", err)
	}

	updated, err := s.ReplaceBlock(blocks[1], "text", " 2\nx")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(updated, "  ```text\n   2\n  x\n  ```\n") {
		t.Errorf("Unexpected replacement:\n%s", updated)
	}

	s.UpdateContent(strings.Replace(doc, "a+b", "a-b", 1))
	if err := s.ValidateBlockUnchanged(blocks[0]); err == nil {
		t.Error("Edited block should fail validation")
	}

	s.UpdateContent("short")
	if _, err := s.ReplaceBlock(blocks[0], "", "z"); err == nil {
		t.Error("Out of range block should fail")
	}
}

func TestRender(t *testing.T) {
	upper := func(line string) (string, error) { return strings.ToUpper(line), nil }
	got, err := Render(doc, "text", upper)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"```text\nY=1/X\n\nA+B\n```", "  ```text\n  X^2\n  ```", "```go\nx := 1\n```"} {
		if !strings.Contains(got, want) {
			t.Errorf("Rendered document missing %q:\n%s", want, got)
		}
	}

	boom := errors.New("boom")
	_, err = Render(doc, "text", func(string) (string, error) { return "", boom })
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "eq (line 13)") {
		t.Errorf("Expected the last block's error first, got %v", err)
	}
}
