package editor

// Mode represents what the board is doing with pointer and key input.
type Mode int

const (
	ModeNormal  Mode = iota // Nothing is being edited
	ModeEditing             // A session owns the keyboard
	ModePanning             // A drag is moving the camera
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModePanning:
		return "PAN"
	default:
		return "UNKNOWN"
	}
}

// Tool selects what a click on empty board space creates.
type Tool int

const (
	ToolEquation Tool = iota
	ToolComment
)

// String returns the tool name for display
func (t Tool) String() string {
	switch t {
	case ToolEquation:
		return "EQUATION"
	case ToolComment:
		return "COMMENT"
	default:
		return "UNKNOWN"
	}
}
