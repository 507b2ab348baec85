package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"mathcanvas/canvas"
)

const (
	historyFile = ".mathcanvas_history"
	prompt      = "» "
)

// runREPL reads expressions at a prompt and prints them typeset. Lines
// starting with ':' are commands.
func runREPL(r *canvas.Renderer, opts options) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(line, ":") {
			if done := replCommand(line, &opts); done {
				return 0
			}
			continue
		}

		if err := process(os.Stdout, line, r, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
}

// replCommand handles :quit, :eval, :tree, :source and :help.
func replCommand(line string, opts *options) (exit bool) {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ":quit", ":q":
		return true
	case ":eval":
		opts.eval = !opts.eval
		fmt.Printf("eval %v\n", onOff(opts.eval))
	case ":tree":
		opts.tree = !opts.tree
		fmt.Printf("tree %v\n", onOff(opts.tree))
	case ":source":
		opts.source = !opts.source
		fmt.Printf("source %v\n", onOff(opts.source))
	case ":help":
		fmt.Println(":eval  toggle values")
		fmt.Println(":tree  toggle expression trees")
		fmt.Println(":source  toggle normalized input")
		fmt.Println(":quit  leave")
	default:
		fmt.Println("unknown command. Type :help for commands.")
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
