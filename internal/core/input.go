package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - move the active piece left
	ActionRight          // D, Right arrow - move the active piece right
	ActionDrop           // S, Down, Space - release the active piece
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionDrop:
		return "Drop"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Phase distinguishes the press and release edges of a key.
type Phase int

const (
	PhasePress Phase = iota
	PhaseRelease
)

func (p Phase) String() string {
	if p == PhaseRelease {
		return "release"
	}
	return "press"
}

// KeyEvent is a single press or release edge for a bound action.
type KeyEvent struct {
	Action Action
	Phase  Phase
}

// InputFrame represents the input for a single simulation tick.
type InputFrame struct {
	// Actions holds one-shot actions triggered this frame (pause, restart).
	Actions map[Action]bool

	// Keys holds press/release edges in arrival order.
	Keys []KeyEvent

	// Expression is the latest classifier label delivered this frame,
	// or empty if none arrived.
	Expression string
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Press records a key-down edge.
func (f *InputFrame) Press(a Action) {
	f.Keys = append(f.Keys, KeyEvent{Action: a, Phase: PhasePress})
}

// Release records a key-up edge.
func (f *InputFrame) Release(a Action) {
	f.Keys = append(f.Keys, KeyEvent{Action: a, Phase: PhaseRelease})
}

// Clear resets all input for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Keys = f.Keys[:0]
	f.Expression = ""
}
