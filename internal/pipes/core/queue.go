package core

import "math/rand"

// DefaultQueueSize is the number of upcoming pipes shown to the player.
const DefaultQueueSize = 5

// PipeQueue is the fixed-length list of upcoming pipes. Index 0 is the
// next pipe to place. Every consumed pipe is replaced by a random one at
// the back, so the queue never runs dry.
type PipeQueue struct {
	pipes  []Pipe
	size   int
	rng    *rand.Rand
	nextID uint64
}

// NewPipeQueue creates a queue of the given size seeded with seed.
// initial shapes are queued first; the rest is filled at random. If more
// initial shapes than size are given the queue grows to hold them all.
func NewPipeQueue(size int, seed int64, initial []Shape) *PipeQueue {
	if size < 1 {
		size = DefaultQueueSize
	}
	if len(initial) > size {
		size = len(initial)
	}
	q := &PipeQueue{
		pipes:  make([]Pipe, 0, size+1),
		size:   size,
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 1,
	}
	for _, s := range initial {
		q.pipes = append(q.pipes, q.newPipe(s))
	}
	for len(q.pipes) < size {
		q.pipes = append(q.pipes, q.randomPipe())
	}
	return q
}

func (q *PipeQueue) newPipe(s Shape) Pipe {
	p := Pipe{ID: q.nextID, Shape: s}
	q.nextID++
	return p
}

func (q *PipeQueue) randomPipe() Pipe {
	return q.newPipe(Shapes[q.rng.Intn(len(Shapes))])
}

// Len returns the queue length. It is constant for the queue's lifetime.
func (q *PipeQueue) Len() int {
	return len(q.pipes)
}

// Peek returns the next pipe without consuming it.
func (q *PipeQueue) Peek() Pipe {
	return q.pipes[0]
}

// Pop consumes the front pipe and appends a fresh random one.
func (q *PipeQueue) Pop() Pipe {
	front := q.pipes[0]
	q.pipes = append(q.pipes[1:], q.randomPipe())
	return front
}

// Skip discards the front pipe. It is replenished like Pop.
func (q *PipeQueue) Skip() Pipe {
	return q.Pop()
}

// PushFront puts p back at the front and drops the last pipe, which keeps
// the length constant. Used by undo.
func (q *PipeQueue) PushFront(p Pipe) {
	pipes := make([]Pipe, 0, q.size+1)
	pipes = append(pipes, p)
	pipes = append(pipes, q.pipes[:len(q.pipes)-1]...)
	q.pipes = pipes
}

// Pipes returns a copy of the queue, front first.
func (q *PipeQueue) Pipes() []Pipe {
	out := make([]Pipe, len(q.pipes))
	copy(out, q.pipes)
	return out
}
