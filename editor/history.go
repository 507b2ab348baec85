package editor

// Snapshot is one state of an edit buffer.
type Snapshot struct {
	Text   string
	Cursor int
}

// History manages undo/redo over buffer snapshots. Saving after an undo
// drops the redo tail; the oldest state is dropped once max is exceeded.
type History struct {
	states  []Snapshot
	current int // Current position in history
	max     int // Maximum number of states to keep
}

// NewHistory creates a history keeping at most max states.
func NewHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{
		states:  make([]Snapshot, 0, max),
		current: -1,
		max:     max,
	}
}

// Save records a new state. Saving the current state again is a no-op.
func (h *History) Save(s Snapshot) {
	if h.current >= 0 && h.states[h.current] == s {
		return
	}

	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}

	h.states = append(h.states, s)

	if len(h.states) > h.max {
		h.states = h.states[1:]
	} else {
		h.current++
	}
}

// CanUndo returns true if we can undo
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo returns true if we can redo
func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}

// Undo goes back one state.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.current--
	return h.states[h.current], true
}

// Redo goes forward one state.
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.current++
	return h.states[h.current], true
}

// Clear clears all history
func (h *History) Clear() {
	h.states = h.states[:0]
	h.current = -1
}

// Stats returns current position and total states
func (h *History) Stats() (current, total int) {
	return h.current + 1, len(h.states)
}
