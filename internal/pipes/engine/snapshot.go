package engine

import "github.com/vovakirdan/tui-pipes/internal/pipes/core"

// Snapshot is a consistent copy of the session taken on the executor.
// It shares nothing with the engine.
type Snapshot struct {
	State    State
	Paused   bool
	Distance int
	Ticks    int
	Moves    int
	Undos    int
	Skips    int
	Delay    int
	Grid     *core.Grid
	Queue    []core.Pipe
	Path     []core.Coord
	Reached  bool
	Filled   map[core.Coord]bool
	CanUndo  bool
}

// IsFilled reports whether water has passed through c.
func (s Snapshot) IsFilled(c core.Coord) bool {
	return s.Filled[c]
}

// Snapshot returns the current session. After Close it returns a snapshot
// with only State set to StateQuit.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{State: StateQuit}
	e.do(func() {
		snap = Snapshot{
			State:    e.state,
			Paused:   e.paused,
			Distance: e.distance,
			Ticks:    e.ticks,
			Moves:    e.moves,
			Undos:    e.undos,
			Skips:    e.skips,
			Delay:    e.props.Delay,
			Grid:     e.grid.Clone(),
			Queue:    e.queue.Pipes(),
			Path:     append([]core.Coord(nil), e.trace.Path...),
			Reached:  e.trace.Reached,
			Filled:   e.trace.Filled(e.distance),
			CanUndo:  e.history.Len() > 0,
		}
	})
	return snap
}
