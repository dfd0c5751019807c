package pipes

import (
	"sync"

	"github.com/charmbracelet/log"

	platformcore "github.com/vovakirdan/tui-pipes/internal/core"
)

// cue is a status line message produced by an engine event.
type cue struct {
	text  string
	color platformcore.Color
}

// cueBox collects engine events. The engine calls its hooks on its own
// goroutine; the game drains them on the next step.
type cueBox struct {
	logger *log.Logger

	mu      sync.Mutex
	pending []cue
}

func newCueBox(logger *log.Logger) *cueBox {
	return &cueBox{logger: logger}
}

func (b *cueBox) push(c cue) {
	b.mu.Lock()
	b.pending = append(b.pending, c)
	b.mu.Unlock()
}

// OnMove has no message; the board redraw is cue enough.
func (b *cueBox) OnMove() {
	b.logger.Debug("cue", "event", "move")
}

func (b *cueBox) OnWin() {
	b.logger.Debug("cue", "event", "win")
	b.push(cue{text: "The water reached the sink!", color: platformcore.ColorWin})
}

func (b *cueBox) OnLose() {
	b.logger.Debug("cue", "event", "lose")
	b.push(cue{text: "The water spilled!", color: platformcore.ColorLose})
}

// drain returns and clears the pending cues.
func (b *cueBox) drain() []cue {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}
