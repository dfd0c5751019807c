package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // move the cursor up
	ActionDown           // move the cursor down
	ActionLeft           // move the cursor left
	ActionRight          // move the cursor right
	ActionPlace          // put the next pipe under the cursor
	ActionUndo           // take back the last placement
	ActionSkip           // discard the next pipe
	ActionStart          // open the valve: start the countdown
	ActionPause          // pause or resume the flow
	ActionConfirm        // confirm a menu selection
	ActionBack           // leave the game for the level picker
	ActionRestart        // replay the current level
	ActionNext           // go to the next level
	ActionExport         // write the current map to the map directory
	ActionQuit           // exit the session

	// Level editor actions.
	ActionTool       // cycle the paint tool
	ActionRotate     // turn the termination under the cursor clockwise
	ActionGrowRows   // add a row
	ActionShrinkRows // drop the last row
	ActionGrowCols   // add a column
	ActionShrinkCols // drop the last column
	ActionMoreDelay  // lengthen the delay before the first flow
	ActionLessDelay  // shorten it
)

var actionNames = map[Action]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionPlace:   "Place",
	ActionUndo:    "Undo",
	ActionSkip:    "Skip",
	ActionStart:   "Start",
	ActionPause:   "Pause",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionNext:    "Next",
	ActionExport:  "Export",
	ActionQuit:    "Quit",

	ActionTool:       "Tool",
	ActionRotate:     "Rotate",
	ActionGrowRows:   "GrowRows",
	ActionShrinkRows: "ShrinkRows",
	ActionGrowCols:   "GrowCols",
	ActionShrinkCols: "ShrinkCols",
	ActionMoreDelay:  "MoreDelay",
	ActionLessDelay:  "LessDelay",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame holds the actions triggered between two game steps.
type InputFrame struct {
	Actions map[Action]bool
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
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
