// Package terminal hosts the board in a tcell screen: the mouse places and
// reopens equations, the keyboard edits them, and a ticker keeps the cursor
// blinking.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"mathcanvas/canvas"
	"mathcanvas/core"
	"mathcanvas/demo"
	"mathcanvas/editor"
)

// App runs a board on a tcell screen.
type App struct {
	screen tcell.Screen
	board  *editor.Board
	player *demo.Player

	// Now drives cursor blinking.
	Now func() time.Time

	style   tcell.Style
	status  string
	pressed bool
}

// NewApp creates an app drawing board on screen. The screen is initialized
// by Run; tests may initialize it themselves and drive HandleEvent.
func NewApp(screen tcell.Screen, board *editor.Board) *App {
	return &App{
		screen: screen,
		board:  board,
		Now:    time.Now,
		style:  tcell.StyleDefault,
	}
}

// Board returns the board being edited.
func (a *App) Board() *editor.Board { return a.board }

// Status returns the message shown on the status line.
func (a *App) Status() string { return a.status }

// Replay plays s into the app once Run starts.
func (a *App) Replay(s *demo.Script) {
	a.player = demo.NewPlayer(a)
	a.player.SetScript(s)
}

// Run initializes the screen and processes events until the user quits.
func (a *App) Run() error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer a.screen.Fini()

	a.screen.SetStyle(a.style)
	a.screen.EnableMouse()
	a.screen.HideCursor()

	done := make(chan struct{})
	defer close(done)
	go a.tick(done)

	if a.player != nil {
		if err := a.player.Play(); err != nil {
			return fmt.Errorf("start demo: %w", err)
		}
		defer a.player.Stop()
	}

	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.HandleEvent(ev) {
			return nil
		}
		a.Draw()
	}
}

// tick wakes the event loop so the cursor blinks without input.
func (a *App) tick(done <-chan struct{}) {
	interval := a.board.Engine().Config().BlinkInterval
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case now := <-t.C:
			a.screen.PostEvent(tcell.NewEventInterrupt(now))
		}
	}
}

// HandleEvent applies one event and reports whether the app keeps running.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventInterrupt:
		// Redraw for the blink phase.
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return false
	}

	if s := a.board.Session(); s != nil {
		a.handleEditKey(s, ev)
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		return false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'c':
			a.toggleTool()
		}
	case tcell.KeyTab:
		a.toggleTool()
	case tcell.KeyEnter:
		w, h := a.screen.Size()
		a.board.Begin(a.board.ToWorld(core.Point{X: float64(w / 4), Y: float64(h / 2)}))
	case tcell.KeyLeft:
		a.board.Pan(-2, 0)
	case tcell.KeyRight:
		a.board.Pan(2, 0)
	case tcell.KeyUp:
		a.board.Pan(0, -1)
	case tcell.KeyDown:
		a.board.Pan(0, 1)
	}
	return true
}

func (a *App) handleEditKey(s *editor.Session, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		s.Insert(ev.Rune())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		s.Backspace()
	case tcell.KeyLeft:
		s.MoveCursor(-1)
	case tcell.KeyRight:
		s.MoveCursor(1)
	case tcell.KeyHome, tcell.KeyCtrlA:
		s.Home()
	case tcell.KeyEnd, tcell.KeyCtrlE:
		s.End()
	case tcell.KeyCtrlW:
		s.DeleteWordBackward()
	case tcell.KeyCtrlZ:
		s.Undo()
	case tcell.KeyCtrlY:
		s.Redo()
	case tcell.KeyCtrlG:
		a.board.Discard()
		a.status = ""
		return
	case tcell.KeyEnter, tcell.KeyEscape:
		a.setError(a.board.Commit())
		return
	}
	a.setError(s.Err())
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := core.Point{X: float64(x), Y: float64(y)}

	switch btn := ev.Buttons(); {
	case btn&tcell.Button1 != 0:
		if a.pressed {
			a.board.Drag(pos)
			return
		}
		if _, h := a.screen.Size(); y >= h-1 {
			return // status line
		}
		a.pressed = true
		a.setError(a.board.Press(pos))
	case btn&tcell.WheelUp != 0:
		a.board.Pan(0, -3)
	case btn&tcell.WheelDown != 0:
		a.board.Pan(0, 3)
	case btn == tcell.ButtonNone && a.pressed:
		a.pressed = false
		a.board.Release(pos)
	}
}

func (a *App) toggleTool() {
	if a.board.Tool() == editor.ToolEquation {
		a.board.SetTool(editor.ToolComment)
	} else {
		a.board.SetTool(editor.ToolEquation)
	}
}

func (a *App) setError(err error) {
	if err != nil {
		a.status = err.Error()
	} else {
		a.status = ""
	}
}

// Draw renders the board and the status line. A layout contract violation
// is a programming error and panics.
func (a *App) Draw() {
	a.screen.Clear()
	w, h := a.screen.Size()
	if w <= 0 || h <= 1 {
		a.screen.Show()
		return
	}

	a.board.SetViewport(core.Size{Width: float64(w), Height: float64(h - 1)})
	c, err := canvas.NewMatrixCanvas(w, h-1)
	if err != nil {
		a.screen.Show()
		return
	}
	if err := a.board.Draw(canvas.NewCellPainter(c), a.Now()); err != nil {
		panic(err)
	}
	a.blit(c)
	a.drawStatus(w, h-1)
	a.screen.Show()
}
