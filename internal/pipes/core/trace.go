package core

// Trace is the water path from the source through connected pipes.
type Trace struct {
	// Path lists the traced cells in flow order, starting at the source.
	// A cross pipe may appear twice when the path crosses itself.
	Path []Coord
	// Reached is true when the path ends in a sink entered through its opening.
	Reached bool
}

// Len returns the number of traced cells.
func (t Trace) Len() int {
	return len(t.Path)
}

// Filled returns the set of cells water has passed once distance cells of
// the path are filled.
func (t Trace) Filled(distance int) map[Coord]bool {
	if distance > len(t.Path) {
		distance = len(t.Path)
	}
	filled := make(map[Coord]bool, max(distance, 0))
	for i := 0; i < distance; i++ {
		filled[t.Path[i]] = true
	}
	return filled
}

type traceStep struct {
	at  Coord
	dir Dir
}

// Trace walks from the source along placed pipes.
//
// Rules:
//  1. Water leaves the source through its PointingTo side.
//  2. The next cell must hold a pipe open on the side facing the water.
//     The water then leaves through the pipe's other opening.
//  3. A sink ends the walk; it counts as reached only when its opening
//     faces the incoming water.
//  4. The walk halts on anything else: empty cell, wall, edge of the grid,
//     closed pipe side, or a state already visited.
//
// Without a source the trace is empty.
func (g *Grid) Trace() Trace {
	src, ok := g.Source()
	if !ok {
		return Trace{}
	}

	tr := Trace{Path: []Coord{src.Coord}}
	seen := map[traceStep]bool{}
	at, dir := src.Coord, src.PointingTo

	for {
		next := at.Step(dir)
		cell, ok := g.CellAt(next)
		if !ok {
			return tr
		}
		entry := dir.Opposite()

		switch {
		case cell.IsSink():
			if cell.PointingTo == entry {
				tr.Path = append(tr.Path, next)
				tr.Reached = true
			}
			return tr
		case cell.HasPipe():
			exit, open := cell.Pipe.Shape.Exit(entry)
			if !open {
				return tr
			}
			step := traceStep{at: next, dir: exit}
			if seen[step] {
				return tr
			}
			seen[step] = true
			tr.Path = append(tr.Path, next)
			at, dir = next, exit
		default:
			return tr
		}
	}
}
