// Package core holds the pipe puzzle model: cells, pipes, the grid, the
// pipe queue, undo history and the flow trace.
// It is UI-agnostic and deterministic for a given seed.
package core

import "fmt"

// Coord is a (row, col) position on the grid.
// Rows grow downward, columns grow to the right.
type Coord struct {
	Row int
	Col int
}

// C is a convenience constructor for Coord.
func C(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Add returns the coordinate offset by another coordinate.
func (c Coord) Add(offset Coord) Coord {
	return Coord{Row: c.Row + offset.Row, Col: c.Col + offset.Col}
}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Dir) Coord {
	return c.Add(d.Offset())
}

// Dir is one of the four grid directions.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// AllDirs lists the directions in clockwise order starting from Up.
var AllDirs = [...]Dir{DirUp, DirRight, DirDown, DirLeft}

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Offset returns the unit vector for one step in this direction.
func (d Dir) Offset() Coord {
	switch d {
	case DirUp:
		return Coord{Row: -1}
	case DirRight:
		return Coord{Col: 1}
	case DirDown:
		return Coord{Row: 1}
	case DirLeft:
		return Coord{Col: -1}
	default:
		return Coord{}
	}
}

// Opposite returns the opposite direction.
func (d Dir) Opposite() Dir {
	return (d + 2) % 4
}

// Clockwise returns the direction rotated 90 degrees clockwise.
func (d Dir) Clockwise() Dir {
	return (d + 1) % 4
}

// Degrees returns the rotation of d relative to Up, in degrees.
func (d Dir) Degrees() int {
	return int(d%4) * 90
}
