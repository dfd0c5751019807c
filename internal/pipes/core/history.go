package core

// Move records one committed placement.
type Move struct {
	Coord    Coord
	Placed   Pipe
	Previous Cell // cell content before the placement
}

// History is the undo stack, oldest move first.
type History struct {
	moves []Move
}

// Push records a move.
func (h *History) Push(m Move) {
	h.moves = append(h.moves, m)
}

// Peek returns the most recent move without removing it.
func (h *History) Peek() (Move, bool) {
	if len(h.moves) == 0 {
		return Move{}, false
	}
	return h.moves[len(h.moves)-1], true
}

// Pop removes and returns the most recent move.
func (h *History) Pop() (Move, bool) {
	m, ok := h.Peek()
	if ok {
		h.moves = h.moves[:len(h.moves)-1]
	}
	return m, ok
}

// Len returns the number of recorded moves.
func (h *History) Len() int {
	return len(h.moves)
}
