package core

import "fmt"

// Grid is the rectangular board. Cells are stored in row-major order:
// index = row*Cols + col. Every position always holds a cell.
type Grid struct {
	Rows  int
	Cols  int
	cells []Cell
	// source is the index of the source cell, -1 when absent.
	source int
}

// NewGrid creates a grid with every cell fillable and empty.
// Dimensions below 1x1 are a programming error.
func NewGrid(rows, cols int) *Grid {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("core: invalid grid size %dx%d", rows, cols))
	}
	g := &Grid{
		Rows:   rows,
		Cols:   cols,
		cells:  make([]Cell, rows*cols),
		source: -1,
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.cells[g.index(C(r, c))] = Fillable(C(r, c))
		}
	}
	return g
}

// NewWalledGrid creates a grid with a wall border and an empty interior.
func NewWalledGrid(rows, cols int) *Grid {
	g := NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if g.IsBorder(C(r, c)) {
				g.cells[g.index(C(r, c))] = Wall(C(r, c))
			}
		}
	}
	return g
}

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Row*g.Cols + c.Col
}

// Dims returns (rows, cols).
func (g *Grid) Dims() (int, int) {
	return g.Rows, g.Cols
}

// InBounds returns true if the coordinate is within the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// IsBorder reports whether c lies on the outer ring of the grid.
func (g *Grid) IsBorder(c Coord) bool {
	return c.Row == 0 || c.Col == 0 || c.Row == g.Rows-1 || c.Col == g.Cols-1
}

// IsCorner reports whether c is one of the four corners.
func (g *Grid) IsCorner(c Coord) bool {
	return (c.Row == 0 || c.Row == g.Rows-1) && (c.Col == 0 || c.Col == g.Cols-1)
}

// CellAt returns the cell at c. ok is false when c is out of bounds.
func (g *Grid) CellAt(c Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{}, false
	}
	return g.cells[g.index(c)], true
}

// SetCell replaces the cell at cell.Coord.
// A termination cell is never overwritten and only one source may exist.
func (g *Grid) SetCell(cell Cell) error {
	if !g.InBounds(cell.Coord) {
		return fmt.Errorf("set %v: %w", cell.Coord, ErrOutOfBounds)
	}
	i := g.index(cell.Coord)
	if g.cells[i].Kind == KindTermination {
		return fmt.Errorf("set %v: %w", cell.Coord, ErrTerminationLocked)
	}
	if cell.IsSource() {
		if g.source >= 0 {
			return fmt.Errorf("set %v: %w", cell.Coord, ErrDuplicateSource)
		}
		g.source = i
	}
	g.cells[i] = cell
	return nil
}

// Erase turns the cell at c back into an empty fillable cell, whatever it
// held. Terminations can only be replaced after an Erase.
func (g *Grid) Erase(c Coord) error {
	if !g.InBounds(c) {
		return fmt.Errorf("erase %v: %w", c, ErrOutOfBounds)
	}
	i := g.index(c)
	if i == g.source {
		g.source = -1
	}
	g.cells[i] = Fillable(c)
	return nil
}

// Source returns the source cell, if any.
func (g *Grid) Source() (Cell, bool) {
	if g.source < 0 {
		return Cell{}, false
	}
	return g.cells[g.source], true
}

// Sinks returns all sink cells in row-major order.
func (g *Grid) Sinks() []Cell {
	sinks := make([]Cell, 0, 1)
	for _, cell := range g.cells {
		if cell.IsSink() {
			sinks = append(sinks, cell)
		}
	}
	return sinks
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{
		Rows:   g.Rows,
		Cols:   g.Cols,
		cells:  cells,
		source: g.source,
	}
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.Rows != other.Rows || g.Cols != other.Cols {
		return false
	}
	for i, cell := range g.cells {
		if !cell.Equal(other.cells[i]) {
			return false
		}
	}
	return true
}

// String renders the grid using map file codes, one row per line.
func (g *Grid) String() string {
	buf := make([]rune, 0, (g.Cols+1)*g.Rows)
	for r := 0; r < g.Rows; r++ {
		for _, cell := range g.cells[r*g.Cols : (r+1)*g.Cols] {
			buf = append(buf, cell.Code())
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
