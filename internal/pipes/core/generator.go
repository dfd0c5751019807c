package core

import (
	"errors"
	"math/rand"
)

// ErrGridTooSmallToGenerate is returned when no non-corner border cell
// exists for the terminations.
var ErrGridTooSmallToGenerate = errors.New("generated maps need at least 3x3 cells")

// GenParams configures the random map generator.
type GenParams struct {
	Rows  int
	Cols  int
	Delay int
	Seed  int64

	// WallDensity is the chance for each interior cell to become a wall.
	WallDensity float64
	// MaxAttempts bounds how many wall layouts are tried before falling
	// back to an open interior.
	MaxAttempts int
}

// DefaultGenParams returns the defaults used for "<generate>" levels.
func DefaultGenParams() GenParams {
	return GenParams{
		Rows:        8,
		Cols:        8,
		Delay:       10,
		WallDensity: 0.15,
		MaxAttempts: 20,
	}
}

// Generate builds a random, valid map: wall border, one source and one
// sink on distinct non-corner border cells, and scattered interior walls
// that always leave a route between the two.
func Generate(p GenParams) (GameProperties, error) {
	if p.Rows < 3 || p.Cols < 3 {
		return GameProperties{}, ErrGridTooSmallToGenerate
	}
	if p.Delay < 1 {
		p.Delay = 1
	}
	rng := rand.New(rand.NewSource(p.Seed))

	edges := borderSlots(p.Rows, p.Cols)
	si := rng.Intn(len(edges))
	ki := rng.Intn(len(edges) - 1)
	if ki >= si {
		ki++
	}
	src, snk := edges[si], edges[ki]

	attempts := max(p.MaxAttempts, 1)
	for attempt := 0; attempt <= attempts; attempt++ {
		density := p.WallDensity
		if attempt == attempts {
			density = 0
		}
		g := NewWalledGrid(p.Rows, p.Cols)
		// SetCell cannot fail here: fresh grid, distinct in-bounds cells.
		_ = g.SetCell(Source(src.at, src.dir))
		_ = g.SetCell(Sink(snk.at, snk.dir))

		start, goal := src.at.Step(src.dir), snk.at.Step(snk.dir)
		for r := 1; r < p.Rows-1; r++ {
			for c := 1; c < p.Cols-1; c++ {
				at := C(r, c)
				if at == start || at == goal {
					continue
				}
				if rng.Float64() < density {
					_ = g.SetCell(Wall(at))
				}
			}
		}

		if reachable(g, start, goal) {
			return GameProperties{Rows: p.Rows, Cols: p.Cols, Delay: p.Delay, Grid: g}, nil
		}
	}
	// The open interior is always connected, so this is unreachable.
	panic("core: generator failed to connect source and sink")
}

type borderSlot struct {
	at  Coord
	dir Dir // inward
}

// borderSlots lists the non-corner border cells with their inward direction.
func borderSlots(rows, cols int) []borderSlot {
	slots := make([]borderSlot, 0, 2*(rows+cols))
	for c := 1; c < cols-1; c++ {
		slots = append(slots, borderSlot{at: C(0, c), dir: DirDown})
		slots = append(slots, borderSlot{at: C(rows-1, c), dir: DirUp})
	}
	for r := 1; r < rows-1; r++ {
		slots = append(slots, borderSlot{at: C(r, 0), dir: DirRight})
		slots = append(slots, borderSlot{at: C(r, cols-1), dir: DirLeft})
	}
	return slots
}

// reachable runs a BFS over fillable cells from start to goal.
func reachable(g *Grid, start, goal Coord) bool {
	seen := map[Coord]bool{start: true}
	queue := []Coord{start}
	for qi := 0; qi < len(queue); qi++ {
		at := queue[qi]
		if at == goal {
			return true
		}
		for _, d := range AllDirs {
			next := at.Step(d)
			cell, ok := g.CellAt(next)
			if !ok || seen[next] || cell.Kind != KindFillable {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return false
}
