package core

// GameProperties is the serializable description of a map. Runtime state
// (placed pipes, flow, history) is not part of it.
type GameProperties struct {
	Rows  int
	Cols  int
	Delay int // seconds before the first flow
	Grid  *Grid
	// Pipes are queued before any random pipe. May be empty.
	Pipes []Shape
}

// Clone returns a deep copy of the properties.
func (p GameProperties) Clone() GameProperties {
	out := p
	if p.Grid != nil {
		out.Grid = p.Grid.Clone()
	}
	out.Pipes = append([]Shape(nil), p.Pipes...)
	return out
}

// Equal compares dimensions, delay, grid contents and the pipe list.
func (p GameProperties) Equal(other GameProperties) bool {
	if p.Rows != other.Rows || p.Cols != other.Cols || p.Delay != other.Delay {
		return false
	}
	if (p.Grid == nil) != (other.Grid == nil) {
		return false
	}
	if p.Grid != nil && !p.Grid.Equal(other.Grid) {
		return false
	}
	if len(p.Pipes) != len(other.Pipes) {
		return false
	}
	for i := range p.Pipes {
		if p.Pipes[i] != other.Pipes[i] {
			return false
		}
	}
	return true
}
