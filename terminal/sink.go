package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// keyNames maps demo script key names to tcell keys.
var keyNames = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"esc":       tcell.KeyEscape,
	"backspace": tcell.KeyBackspace2,
	"tab":       tcell.KeyTab,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"undo":      tcell.KeyCtrlZ,
	"redo":      tcell.KeyCtrlY,
	"cancel":    tcell.KeyCtrlG,
}

// Rune implements demo.Sink by posting a key event.
func (a *App) Rune(r rune) {
	a.screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

// Key implements demo.Sink.
func (a *App) Key(name string) error {
	k, ok := keyNames[name]
	if !ok {
		return fmt.Errorf("unknown key %q", name)
	}
	return a.screen.PostEvent(tcell.NewEventKey(k, 0, tcell.ModNone))
}

// Click implements demo.Sink with a press and release of the first button.
func (a *App) Click(x, y int) {
	a.screen.PostEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	a.screen.PostEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}
