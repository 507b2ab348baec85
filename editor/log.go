package editor

import (
	"io"
	"log"
)

var logger = log.New(io.Discard, "editor: ", log.LstdFlags|log.Lmsgprefix)

// SetLogOutput directs editor diagnostics to w. Output is discarded by default.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}
