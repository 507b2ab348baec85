package markdown

import (
	"fmt"
	"strings"
)

// Typesetter turns one line of math into its rendered form.
type Typesetter func(line string) (string, error)

// Render typesets every math block of content and retags the block as
// lang. The equations of a block are separated by a blank line. Blocks are
// replaced from the bottom up so earlier line numbers stay valid.
func Render(content, lang string, typeset Typesetter) (string, error) {
	s := NewScanner(content)
	blocks := s.FindMathBlocks()

	for i := len(blocks) - 1; i >= 0; i-- {
		block := blocks[i]
		var parts []string
		for _, eq := range block.Equations() {
			art, err := typeset(eq)
			if err != nil {
				return "", fmt.Errorf("block %s: %w", FormatBlockInfo(block, i), err)
			}
			parts = append(parts, art)
		}

		updated, err := s.ReplaceBlock(block, lang, strings.Join(parts, "\n\n"))
		if err != nil {
			return "", err
		}
		s.UpdateContent(updated)
	}
	return s.GetContent(), nil
}
