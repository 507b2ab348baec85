// Package markdown finds fenced math blocks in markdown documents and
// replaces their contents.
package markdown

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// MathBlock represents a math code block found in markdown
type MathBlock struct {
	Lang        string // math, equation or eq
	Content     string // One expression or equation per line
	StartLine   int    // Line number of the opening fence (0-based)
	EndLine     int    // Line number of the closing fence
	Indent      string // Indentation before the code fence
	ContentHash string // SHA256 hash of the original content for validation
}

// Equations returns the non-blank lines of the block.
func (b MathBlock) Equations() []string {
	var out []string
	for _, line := range strings.Split(b.Content, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

// Scanner finds and extracts math blocks from markdown content
type Scanner struct {
	content string
	lines   []string
}

// NewScanner creates a new markdown scanner
func NewScanner(content string) *Scanner {
	return &Scanner{
		content: content,
		lines:   strings.Split(content, "\n"),
	}
}

// UpdateContent updates the scanner's internal content after a successful replacement
func (s *Scanner) UpdateContent(newContent string) {
	s.content = newContent
	s.lines = strings.Split(newContent, "\n")
}

// FindMathBlocks finds all math code blocks in the markdown. An unclosed
// block at the end of the document is ignored.
func (s *Scanner) FindMathBlocks() []MathBlock {
	var blocks []MathBlock
	var current *MathBlock
	var body []string

	for i, line := range s.lines {
		trimmed := strings.TrimLeft(line, " \t")
		if current == nil {
			if !strings.HasPrefix(trimmed, "```") {
				continue
			}
			lang := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			if isMathLanguage(lang) {
				current = &MathBlock{
					Lang:      lang,
					StartLine: i,
					Indent:    line[:len(line)-len(trimmed)],
				}
				body = nil
			}
			continue
		}

		if strings.HasPrefix(trimmed, "```") {
			current.EndLine = i
			current.Content = strings.Join(body, "\n")
			current.ContentHash = hashContent(current.Content)
			blocks = append(blocks, *current)
			current = nil
			continue
		}
		body = append(body, strings.TrimPrefix(line, current.Indent))
	}

	return blocks
}

// ValidateBlockUnchanged checks if a block's content matches its original hash
func (s *Scanner) ValidateBlockUnchanged(block MathBlock) error {
	if block.StartLine < 0 || block.EndLine >= len(s.lines) || block.StartLine >= block.EndLine {
		return fmt.Errorf("invalid block boundaries")
	}

	body := make([]string, 0, block.EndLine-block.StartLine-1)
	for i := block.StartLine + 1; i < block.EndLine; i++ {
		body = append(body, strings.TrimPrefix(s.lines[i], block.Indent))
	}
	if hashContent(strings.Join(body, "\n")) != block.ContentHash {
		return fmt.Errorf("block content has been modified externally (hash mismatch)")
	}
	return nil
}

// ReplaceBlock replaces a math block's content in the markdown and, when
// lang is not empty, retags its opening fence. Returns the new markdown
// content and an error if validation fails.
func (s *Scanner) ReplaceBlock(block MathBlock, lang, newContent string) (string, error) {
	if block.StartLine < 0 || block.EndLine >= len(s.lines) || block.StartLine >= block.EndLine {
		return "", fmt.Errorf("invalid block boundaries: start=%d, end=%d, total lines=%d",
			block.StartLine, block.EndLine, len(s.lines))
	}

	trimmedStart := strings.TrimLeft(s.lines[block.StartLine], " \t")
	if !strings.HasPrefix(trimmedStart, "```"+block.Lang) {
		return "", fmt.Errorf("block start marker has changed at line %d: expected '```%s', found '%s'",
			block.StartLine+1, block.Lang, trimmedStart)
	}
	trimmedEnd := strings.TrimLeft(s.lines[block.EndLine], " \t")
	if !strings.HasPrefix(trimmedEnd, "```") {
		return "", fmt.Errorf("block end marker has changed at line %d: expected '```', found '%s'",
			block.EndLine+1, trimmedEnd)
	}

	fence := s.lines[block.StartLine]
	if lang != "" {
		fence = block.Indent + "```" + lang
	}

	newLines := make([]string, 0, len(s.lines))
	newLines = append(newLines, s.lines[:block.StartLine]...)
	newLines = append(newLines, fence)
	for _, line := range strings.Split(newContent, "\n") {
		if line == "" {
			newLines = append(newLines, "")
			continue
		}
		newLines = append(newLines, block.Indent+line)
	}
	newLines = append(newLines, s.lines[block.EndLine:]...)

	return strings.Join(newLines, "\n"), nil
}

// GetContent returns the current markdown content
func (s *Scanner) GetContent() string {
	return s.content
}

func isMathLanguage(lang string) bool {
	switch strings.ToLower(lang) {
	case "math", "equation", "eq":
		return true
	default:
		return false
	}
}

func hashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// FormatBlockInfo returns a human-readable description of a block
func FormatBlockInfo(block MathBlock, index int) string {
	preview := ""
	if eqs := block.Equations(); len(eqs) > 0 {
		preview = eqs[0]
		if len(preview) > 50 {
			preview = preview[:47] + "..."
		}
	}
	return fmt.Sprintf("%d. %s (line %d): %s", index+1, block.Lang, block.StartLine+1, preview)
}
