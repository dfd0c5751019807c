package core

// Messages reported by CheckValidity.
const (
	MsgMissingSource = "Source tile is missing!"
	MsgMissingSink   = "Sink tile is missing!"
	MsgBadDims       = "Map size must be at least 2x2!"
	MsgBadDelay      = "Delay must be a positive value!"
	MsgSourceToWall  = "Source tile is blocked by a wall!"
	MsgSinkToWall    = "Sink tile is blocked by a wall!"
	MsgTermPlacement = "Source and sink tiles must sit on the border, away from the corners!"
)

// CheckValidity returns the first rule the map violates, or nil.
// Checks, in order:
//   - a source and a sink are present
//   - the map is at least 2x2
//   - the delay is at least 1
//   - the cell each termination opens onto is not a wall
//   - every termination sits on the border and not in a corner
func CheckValidity(p GameProperties) *ValidationError {
	if p.Grid == nil {
		return &ValidationError{Code: "MISSING_SOURCE", Message: MsgMissingSource}
	}
	src, hasSource := p.Grid.Source()
	if !hasSource {
		return &ValidationError{Code: "MISSING_SOURCE", Message: MsgMissingSource}
	}
	sinks := p.Grid.Sinks()
	if len(sinks) == 0 {
		return &ValidationError{Code: "MISSING_SINK", Message: MsgMissingSink}
	}
	if p.Rows < 2 || p.Cols < 2 || p.Grid.Rows < 2 || p.Grid.Cols < 2 {
		return &ValidationError{Code: "BAD_DIMS", Message: MsgBadDims}
	}
	if p.Delay < 1 {
		return &ValidationError{Code: "BAD_DELAY", Message: MsgBadDelay}
	}
	if blocked(p.Grid, src) {
		return &ValidationError{Code: "SOURCE_BLOCKED", Message: MsgSourceToWall}
	}
	for _, sink := range sinks {
		if blocked(p.Grid, sink) {
			return &ValidationError{Code: "SINK_BLOCKED", Message: MsgSinkToWall}
		}
	}
	for _, term := range append([]Cell{src}, sinks...) {
		if !p.Grid.IsBorder(term.Coord) || p.Grid.IsCorner(term.Coord) {
			return &ValidationError{Code: "TERMINATION_PLACEMENT", Message: MsgTermPlacement}
		}
	}
	return nil
}

// blocked reports whether a termination opens onto a wall or off the grid.
func blocked(g *Grid, term Cell) bool {
	next, ok := g.CellAt(term.Coord.Step(term.PointingTo))
	return !ok || next.IsWall()
}
