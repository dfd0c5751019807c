package core

// Kind tags the Cell variant.
type Kind uint8

const (
	KindWall Kind = iota
	KindFillable
	KindTermination
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindWall:
		return "Wall"
	case KindFillable:
		return "Fillable"
	case KindTermination:
		return "Termination"
	default:
		return "Unknown"
	}
}

// Term distinguishes the two termination tiles.
type Term uint8

const (
	TermSource Term = iota
	TermSink
)

// String returns "Source" or "Sink".
func (t Term) String() string {
	if t == TermSink {
		return "Sink"
	}
	return "Source"
}

// Cell is a grid tile. Which fields are meaningful depends on Kind:
//   - KindFillable: Pipe, nil while the cell is empty.
//   - KindTermination: Term and PointingTo, the side that opens into the grid.
type Cell struct {
	Kind       Kind
	Coord      Coord
	Pipe       *Pipe
	Term       Term
	PointingTo Dir
}

// Wall returns a wall cell.
func Wall(c Coord) Cell {
	return Cell{Kind: KindWall, Coord: c}
}

// Fillable returns an empty fillable cell.
func Fillable(c Coord) Cell {
	return Cell{Kind: KindFillable, Coord: c}
}

// FillableWith returns a fillable cell holding p.
func FillableWith(c Coord, p Pipe) Cell {
	return Cell{Kind: KindFillable, Coord: c, Pipe: &p}
}

// Source returns a source cell whose opening faces d.
func Source(c Coord, d Dir) Cell {
	return Cell{Kind: KindTermination, Coord: c, Term: TermSource, PointingTo: d}
}

// Sink returns a sink cell whose opening faces d.
func Sink(c Coord, d Dir) Cell {
	return Cell{Kind: KindTermination, Coord: c, Term: TermSink, PointingTo: d}
}

// IsWall reports whether the cell is a wall.
func (c Cell) IsWall() bool { return c.Kind == KindWall }

// IsSource reports whether the cell is the source.
func (c Cell) IsSource() bool { return c.Kind == KindTermination && c.Term == TermSource }

// IsSink reports whether the cell is a sink.
func (c Cell) IsSink() bool { return c.Kind == KindTermination && c.Term == TermSink }

// HasPipe reports whether a pipe occupies the cell.
func (c Cell) HasPipe() bool { return c.Kind == KindFillable && c.Pipe != nil }

// Equal compares two cells by value; pipes compare by shape only.
func (c Cell) Equal(other Cell) bool {
	if c.Kind != other.Kind || c.Coord != other.Coord {
		return false
	}
	switch c.Kind {
	case KindFillable:
		if c.HasPipe() != other.HasPipe() {
			return false
		}
		return !c.HasPipe() || c.Pipe.Shape == other.Pipe.Shape
	case KindTermination:
		return c.Term == other.Term && c.PointingTo == other.PointingTo
	default:
		return true
	}
}

// Sprite returns the image and rotation used to draw the cell.
func (c Cell) Sprite() Sprite {
	switch c.Kind {
	case KindWall:
		return Sprite{Image: ImageWall}
	case KindFillable:
		if c.Pipe != nil {
			return c.Pipe.Sprite()
		}
		return Sprite{Image: ImageEmpty}
	case KindTermination:
		img := ImageSource
		if c.Term == TermSink {
			img = ImageSink
		}
		return Sprite{Image: img, Rotation: c.PointingTo.Degrees()}
	default:
		return Sprite{}
	}
}

var (
	sourceCodes = [...]rune{DirUp: '^', DirRight: '>', DirDown: 'v', DirLeft: '<'}
	sinkCodes   = [...]rune{DirUp: 'U', DirRight: 'R', DirDown: 'D', DirLeft: 'L'}
)

// Code returns the single-character map file code of the cell.
// Pipes are runtime state and are not part of the code: a fillable cell
// is always '.'.
func (c Cell) Code() rune {
	switch c.Kind {
	case KindWall:
		return 'W'
	case KindFillable:
		return '.'
	case KindTermination:
		if c.Term == TermSink {
			return sinkCodes[c.PointingTo%4]
		}
		return sourceCodes[c.PointingTo%4]
	default:
		return '?'
	}
}

// CellFromCode builds the cell at coord for a map file code.
func CellFromCode(r rune, coord Coord) (Cell, bool) {
	switch r {
	case 'W':
		return Wall(coord), true
	case '.':
		return Fillable(coord), true
	}
	for d, code := range sourceCodes {
		if code == r {
			return Source(coord, Dir(d)), true
		}
	}
	for d, code := range sinkCodes {
		if code == r {
			return Sink(coord, Dir(d)), true
		}
	}
	return Cell{}, false
}
