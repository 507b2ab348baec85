package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"mathcanvas/canvas"
	"mathcanvas/demo"
	"mathcanvas/editor"
	"mathcanvas/layout"
	"mathcanvas/terminal"
)

// runInteractive launches the board on a tcell screen, optionally replaying
// a demo script. A script path of "-" types the lines read from stdin.
func runInteractive(demoScript string, blink time.Duration) error {
	var script *demo.Script
	switch demoScript {
	case "":
	case "-":
		lines, err := readLines(os.Stdin)
		if err != nil {
			return err
		}
		script = demo.TextScript(lines, 2, 1)
	default:
		data, err := os.ReadFile(demoScript)
		if err != nil {
			return fmt.Errorf("failed to read demo script: %w", err)
		}
		if script, err = demo.ParseScript(data); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}

	cfg := layout.CellConfig()
	cfg.BlinkInterval = blink
	board := editor.NewBoard(canvas.CellMetrics{}, cfg, editor.CellOptions())

	app := terminal.NewApp(screen, board)
	if script != nil {
		app.Replay(script)
	}
	return app.Run()
}

func readLines(f *os.File) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading demo input: %w", err)
	}
	return lines, nil
}
