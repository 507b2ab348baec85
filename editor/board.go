// Package editor implements the interactive board: committed equations and
// comments at world positions, a camera, and the edit session that turns
// keystrokes into live, reparsed expressions.
package editor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"mathcanvas/core"
	"mathcanvas/expr"
	"mathcanvas/layout"
	"mathcanvas/parser"
)

// Item is a committed object on the board.
type Item struct {
	Kind Tool
	Pos  core.Point // world position of the top-left corner
	Text string

	// Sides are the arenas of the last successful commit. They are nil for
	// comments and for equations that have never parsed.
	Sides []*expr.Arena
	// Err is the parse error of the last commit, nil when Text matches Sides.
	Err  error
	Size core.Size
}

// Bounds returns the world rectangle the item occupies.
func (it *Item) Bounds() core.Rect {
	return core.Rect{Min: it.Pos, Size: it.Size}
}

// Board holds the items of a canvas and the state of the current gesture.
type Board struct {
	engine  *layout.Engine
	metrics core.TextMetrics
	opts    Options

	items    []*Item
	session  *Session
	target   *Item      // item being edited, nil for a new one
	anchor   core.Point // world position of the session
	camera   core.Point
	viewport core.Size
	mode     Mode
	tool     Tool

	pressAt     core.Point
	pressCamera core.Point
}

// NewBoard creates an empty board laying out text with m.
func NewBoard(m core.TextMetrics, cfg layout.Config, opts Options) *Board {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Board{
		engine:  layout.NewEngine(m, cfg),
		metrics: m,
		opts:    opts,
	}
}

// Engine returns the layout engine used for every item.
func (b *Board) Engine() *layout.Engine { return b.engine }

// Options returns the board settings.
func (b *Board) Options() Options { return b.opts }

// Mode returns the current mode.
func (b *Board) Mode() Mode { return b.mode }

// Tool returns the kind of item a click on empty space creates.
func (b *Board) Tool() Tool { return b.tool }

// SetTool changes the kind of item new clicks create.
func (b *Board) SetTool(t Tool) { b.tool = t }

// Items returns the committed items in creation order.
func (b *Board) Items() []*Item { return b.items }

// Session returns the active edit, or nil.
func (b *Board) Session() *Session { return b.session }

// Editing returns the item the session edits; nil while a new item is
// being written or when nothing is being edited.
func (b *Board) Editing() *Item { return b.target }

// Camera returns the world position shown at the screen origin.
func (b *Board) Camera() core.Point { return b.camera }

// SetViewport sets the screen size used to draw the grid.
func (b *Board) SetViewport(s core.Size) { b.viewport = s }

// Pan moves the camera by the given screen distance.
func (b *Board) Pan(dx, dy float64) {
	b.camera = b.camera.Add(core.Point{X: dx, Y: dy})
}

// ToWorld converts a screen position to world coordinates.
func (b *Board) ToWorld(screen core.Point) core.Point {
	return screen.Add(b.camera)
}

// ToScreen converts a world position to screen coordinates.
func (b *Board) ToScreen(world core.Point) core.Point {
	return world.Sub(b.camera)
}

// ItemAt returns the topmost item containing the world position.
func (b *Board) ItemAt(world core.Point) *Item {
	for i := len(b.items) - 1; i >= 0; i-- {
		if b.items[i].Bounds().Contains(world) {
			return b.items[i]
		}
	}
	return nil
}

// Press starts a pointer gesture. Any active session is committed first
// and its error returned; the gesture proceeds either way.
func (b *Board) Press(screen core.Point) error {
	err := b.Commit()
	b.mode = ModePanning
	b.pressAt = screen
	b.pressCamera = b.camera
	return err
}

// Drag moves the camera with the pointer during a gesture.
func (b *Board) Drag(screen core.Point) {
	if b.mode != ModePanning {
		return
	}
	b.camera = b.pressCamera.Sub(screen.Sub(b.pressAt))
}

// Release ends a gesture. When the camera barely moved the gesture is a
// click: it edits the item under the pointer or starts a new one there.
func (b *Board) Release(screen core.Point) {
	if b.mode != ModePanning {
		return
	}
	b.Drag(screen)
	b.mode = ModeNormal
	if b.camera.Distance(b.pressCamera) >= b.opts.ClickDistance {
		return
	}
	b.camera = b.pressCamera
	world := b.ToWorld(screen)
	if it := b.ItemAt(world); it != nil {
		b.Edit(it)
		return
	}
	b.Begin(world)
}

// Click is a press and release at the same position.
func (b *Board) Click(screen core.Point) error {
	err := b.Press(screen)
	b.Release(screen)
	return err
}

// Begin starts writing a new item of the current tool at a world position.
func (b *Board) Begin(world core.Point) {
	b.Discard()
	b.session = NewSession("", b.tool, b.opts.HistoryLimit)
	b.anchor = world
	b.mode = ModeEditing
}

// Edit reopens a committed item with the caret at the end of its text.
func (b *Board) Edit(it *Item) {
	b.Discard()
	b.session = NewSession(it.Text, it.Kind, b.opts.HistoryLimit)
	b.target = it
	b.anchor = it.Pos
	b.mode = ModeEditing
}

// Discard abandons the session. A new item vanishes and an edited item
// keeps its committed state.
func (b *Board) Discard() {
	b.session = nil
	b.target = nil
	if b.mode == ModeEditing {
		b.mode = ModeNormal
	}
}

// Commit ends the session and stores its text. An empty buffer removes
// the item. An equation that fails to parse is kept with its previous
// arenas and the parse error is returned.
func (b *Board) Commit() error {
	s, it := b.session, b.target
	if s == nil {
		return nil
	}
	b.Discard()

	text := s.Text()
	if strings.TrimSpace(text) == "" {
		if it != nil {
			b.remove(it)
			logger.Printf("removed empty item at %v", it.Pos)
		}
		return nil
	}

	if it == nil {
		it = &Item{Kind: s.Tool(), Pos: b.anchor}
		b.items = append(b.items, it)
	}
	it.Text = text

	if it.Kind == ToolComment {
		it.Size = b.metrics.MeasureText(text, core.FontSymbol, b.opts.Scale)
		return nil
	}

	sides, err := parser.ParseEquation(text, -1)
	if err != nil {
		it.Err = err
		if it.Sides == nil {
			it.Size = b.metrics.MeasureText(text, core.FontSymbol, b.opts.Scale)
		}
		logger.Printf("commit %q: %v", text, err)
		return fmt.Errorf("commit %q: %w", text, err)
	}
	it.Sides, it.Err = sides, nil
	it.Size = b.engine.MeasureEquation(sides, b.opts.Scale)
	logger.Printf("committed %q at %v", text, it.Pos)
	return nil
}

func (b *Board) remove(it *Item) {
	for i, x := range b.items {
		if x == it {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// Draw paints the grid, every committed item and the live session. The
// cursor blink phase is taken from now.
func (b *Board) Draw(p core.Painter, now time.Time) error {
	b.engine.Now = func() time.Time { return now }
	scale := b.opts.Scale

	b.drawGrid(p)

	for _, it := range b.items {
		if it == b.target {
			continue
		}
		pos := b.ToScreen(it.Pos)
		switch {
		case it.Kind == ToolComment:
			p.DrawText(it.Text, pos, core.FontSymbol, scale, b.opts.CommentColor)
		case it.Sides == nil:
			p.DrawText(it.Text, pos, core.FontSymbol, scale, b.opts.ErrorColor)
		default:
			if err := b.engine.PaintEquation(p, it.Sides, scale, pos); err != nil {
				return err
			}
		}
	}

	if b.session == nil {
		return nil
	}
	pos := b.ToScreen(b.anchor)
	if b.session.Tool() == ToolComment {
		text := b.session.Text()
		if b.engine.CursorVisible(now) {
			runes := []rune(text)
			c := b.session.Cursor()
			text = string(runes[:c]) + layout.CursorGlyph + string(runes[c:])
		}
		p.DrawText(text, pos, core.FontSymbol, scale, b.opts.CommentColor)
		return nil
	}
	live := b.session.Live()
	if live == nil {
		return nil
	}
	b.engine.MeasureEquation(live, scale)
	return b.engine.PaintEquation(p, live, scale, pos)
}

func (b *Board) drawGrid(p core.Painter) {
	step := b.opts.GridSpacing
	if step <= 0 || b.viewport.Width <= 0 || b.viewport.Height <= 0 {
		return
	}
	w, h := b.viewport.Width, b.viewport.Height
	for x := step - math.Mod(b.camera.X, step); x < w; x += step {
		if x >= 0 {
			p.DrawLine(core.Point{X: x}, core.Point{X: x, Y: h}, 1, b.opts.GridColor)
		}
	}
	for y := step - math.Mod(b.camera.Y, step); y < h; y += step {
		if y >= 0 {
			p.DrawLine(core.Point{Y: y}, core.Point{X: w, Y: y}, 1, b.opts.GridColor)
		}
	}
}
