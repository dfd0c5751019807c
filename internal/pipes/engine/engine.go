// Package engine runs one pipe puzzle session: placement, undo, skip,
// flow advancement and win/loss detection.
//
// Player calls and clock firings are serialized on a single executor
// goroutine, so a flow step never interleaves with a placement.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pipes/internal/logging"
	"github.com/vovakirdan/tui-pipes/internal/pipes/clock"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/mapfile"
)

var (
	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("engine: closed")

	// ErrWrongState is returned when an operation is not allowed in the
	// current state, e.g. starting a countdown twice.
	ErrWrongState = errors.New("engine: operation not allowed in current state")
)

// State is the session state.
type State int

const (
	StateReady State = iota
	StateFlowing
	StateWon
	StateLost
	StateQuit
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateFlowing:
		return "Flowing"
	case StateWon:
		return "Won"
	case StateLost:
		return "Lost"
	case StateQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the session is over.
func (s State) Terminal() bool {
	return s == StateWon || s == StateLost || s == StateQuit
}

// Scheduler drives the tick and flow firings. *clock.FlowClock implements it.
type Scheduler interface {
	Start(delay time.Duration, onTick, onFlow clock.Handler)
	Stop()
}

// Options configures an Engine. Zero values get defaults.
type Options struct {
	Seed      int64
	QueueSize int
	// DelayUnit scales GameProperties.Delay. Defaults to one second.
	DelayUnit time.Duration
	// Clock sets the periods of the default scheduler. Clock.FlowEvery
	// also times the next flow when the clock restarts mid-session.
	Clock     clock.Config
	Scheduler Scheduler
	Hooks     Hooks
	Logger    *log.Logger
}

// Engine owns the grid, the pipe queue, the undo history and the clock
// for one play session. All methods are safe for concurrent use.
type Engine struct {
	ops       chan func()
	done      chan struct{}
	closeOnce sync.Once

	sched  Scheduler
	hooks  Hooks
	logger *log.Logger
	opts   Options

	// Owned by the executor goroutine.
	props    core.GameProperties
	grid     *core.Grid
	queue    *core.PipeQueue
	history  core.History
	trace    core.Trace
	state    State
	paused   bool
	epoch    uint64
	distance int
	ticks    int
	moves    int
	undos    int
	skips    int
}

// New creates an engine in the Ready state for the given map.
// The engine keeps its own copy of props. Call Close when done.
func New(props core.GameProperties, opts Options) *Engine {
	if opts.DelayUnit <= 0 {
		opts.DelayUnit = time.Second
	}
	if opts.Clock.TickEvery <= 0 {
		opts.Clock.TickEvery = clock.DefaultConfig().TickEvery
	}
	if opts.Clock.FlowEvery <= 0 {
		opts.Clock.FlowEvery = clock.DefaultConfig().FlowEvery
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Hooks == nil {
		opts.Hooks = HookFuncs{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = clock.New(opts.Clock, opts.Logger)
	}

	e := &Engine{
		ops:    make(chan func(), 64),
		done:   make(chan struct{}),
		sched:  opts.Scheduler,
		hooks:  opts.Hooks,
		logger: opts.Logger,
		opts:   opts,
	}
	e.reset(props)
	go e.loop()
	return e
}

// loop is the executor: the only goroutine touching session state.
func (e *Engine) loop() {
	for {
		select {
		case op := <-e.ops:
			op()
		case <-e.done:
			return
		}
	}
}

// do runs fn on the executor and waits for it. It returns false once the
// engine is closed.
func (e *Engine) do(fn func()) bool {
	finished := make(chan struct{})
	op := func() {
		defer close(finished)
		fn()
	}
	select {
	case e.ops <- op:
	case <-e.done:
		return false
	}
	select {
	case <-finished:
		return true
	case <-e.done:
		return false
	}
}

// post queues fn without waiting. Clock firings use it so the clock never
// blocks on the executor; a stopped clock abandons the send.
func (e *Engine) post(ctx context.Context, fn func()) {
	select {
	case e.ops <- fn:
	case <-ctx.Done():
	case <-e.done:
	}
}

// reset installs a fresh session for props. Executor only (or before loop).
func (e *Engine) reset(props core.GameProperties) {
	if props.Grid == nil {
		panic("engine: game properties without a grid")
	}
	e.props = props.Clone()
	e.grid = e.props.Grid.Clone()
	e.queue = core.NewPipeQueue(e.opts.QueueSize, e.opts.Seed, e.props.Pipes)
	e.history = core.History{}
	e.trace = e.grid.Trace()
	e.state = StateReady
	e.paused = false
	e.distance = 0
	e.ticks = 0
	e.moves = 0
	e.undos = 0
	e.skips = 0
}

// StartCountdown moves Ready to Flowing and starts the clock.
func (e *Engine) StartCountdown() error {
	var err error
	if !e.do(func() {
		if e.state != StateReady {
			err = fmt.Errorf("start countdown in %s: %w", e.state, ErrWrongState)
			return
		}
		e.state = StateFlowing
		delay := e.nextFlowDelay()
		e.startClock(delay)
		e.logger.Debug("countdown started", "delay", delay)
	}) {
		return ErrClosed
	}
	return err
}

// StopCountdown cancels the clock. A flowing session returns to Ready;
// finished sessions keep their state.
func (e *Engine) StopCountdown() {
	e.do(func() {
		e.stopClock()
		e.paused = false
		if e.state == StateFlowing {
			e.state = StateReady
		}
	})
}

// Pause halts the clock without ending the session. Moves are rejected
// while paused.
func (e *Engine) Pause() error {
	var err error
	if !e.do(func() {
		if e.state != StateFlowing || e.paused {
			err = fmt.Errorf("pause in %s: %w", e.state, ErrWrongState)
			return
		}
		e.stopClock()
		e.paused = true
	}) {
		return ErrClosed
	}
	return err
}

// Resume restarts the clock after Pause. The next flow comes after the
// full initial delay if nothing has flowed yet, otherwise after one flow
// period.
func (e *Engine) Resume() error {
	var err error
	if !e.do(func() {
		if e.state != StateFlowing || !e.paused {
			err = fmt.Errorf("resume in %s: %w", e.state, ErrWrongState)
			return
		}
		e.paused = false
		e.startClock(e.nextFlowDelay())
	}) {
		return ErrClosed
	}
	return err
}

// Quit ends the session from outside. Finished sessions keep their state.
func (e *Engine) Quit() {
	e.do(func() {
		e.stopClock()
		if !e.state.Terminal() {
			e.state = StateQuit
		}
	})
}

// Close quits the session and stops the executor.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.Quit()
		close(e.done)
	})
}

// startClock bumps the epoch and starts the scheduler. Firings carry the
// epoch they were scheduled under; stale ones are dropped.
func (e *Engine) startClock(delay time.Duration) {
	e.epoch++
	epoch := e.epoch
	e.sched.Start(delay,
		func(ctx context.Context) { e.post(ctx, func() { e.tick(epoch) }) },
		func(ctx context.Context) { e.post(ctx, func() { e.advanceFlow(epoch) }) },
	)
}

// nextFlowDelay is the wait before the next flow step when the clock
// (re)starts: the map's delay until water has moved, one flow period after.
func (e *Engine) nextFlowDelay() time.Duration {
	if e.distance > 0 {
		return e.opts.Clock.FlowEvery
	}
	return time.Duration(e.props.Delay) * e.opts.DelayUnit
}

func (e *Engine) stopClock() {
	e.epoch++
	e.sched.Stop()
}

func (e *Engine) live(epoch uint64) bool {
	return e.state == StateFlowing && !e.paused && epoch == e.epoch
}

// tick counts one elapsed second.
func (e *Engine) tick(epoch uint64) {
	if !e.live(epoch) {
		return
	}
	e.ticks++
}

// advanceFlow moves the water one cell and decides the outcome.
//
// After the step, distance cells are filled. The session is won when the
// trace reaches the sink within distance+1 cells, and lost when the trace
// cannot supply the next cell.
func (e *Engine) advanceFlow(epoch uint64) {
	if !e.live(epoch) {
		return
	}
	e.distance++
	e.trace = e.grid.Trace()
	need := e.distance + 1

	switch {
	case e.trace.Reached && e.trace.Len() <= need:
		e.distance = e.trace.Len()
		e.finish(StateWon)
	case e.trace.Len() < need:
		e.distance = min(e.distance, e.trace.Len())
		e.finish(StateLost)
	default:
		e.logger.Debug("flow advanced", "distance", e.distance, "path", e.trace.Len())
	}
}

func (e *Engine) finish(s State) {
	e.state = s
	e.stopClock()
	e.logger.Info("session finished",
		"state", s,
		"distance", e.distance,
		"moves", e.moves,
		"undos", e.undos,
		"ticks", e.ticks,
	)
	if s == StateWon {
		e.hooks.OnWin()
	} else {
		e.hooks.OnLose()
	}
}

// filled reports whether water has passed through c.
func (e *Engine) filled(c core.Coord) bool {
	n := min(e.distance, e.trace.Len())
	for i := 0; i < n; i++ {
		if e.trace.Path[i] == c {
			return true
		}
	}
	return false
}

// movable checks that player moves are accepted right now.
func (e *Engine) movable() error {
	if e.state != StateFlowing {
		return fmt.Errorf("game is %s: %w", e.state, core.ErrInvalidPlacement)
	}
	if e.paused {
		return fmt.Errorf("game is paused: %w", core.ErrInvalidPlacement)
	}
	return nil
}

// PlacePipe puts the front pipe of the queue at (row, col).
// Rejected moves return an error wrapping core.ErrInvalidPlacement and
// leave the session unchanged.
func (e *Engine) PlacePipe(row, col int) error {
	var err error
	if !e.do(func() { err = e.placePipe(core.C(row, col)) }) {
		return ErrClosed
	}
	return err
}

func (e *Engine) placePipe(at core.Coord) error {
	if err := e.movable(); err != nil {
		return err
	}
	cell, ok := e.grid.CellAt(at)
	if !ok {
		return fmt.Errorf("place at %v: out of range: %w", at, core.ErrInvalidPlacement)
	}
	if cell.Kind != core.KindFillable {
		return fmt.Errorf("place at %v: %s cell: %w", at, cell.Kind, core.ErrInvalidPlacement)
	}
	if e.filled(at) {
		return fmt.Errorf("place at %v: water already passed: %w", at, core.ErrInvalidPlacement)
	}

	pipe := e.queue.Pop()
	if err := e.grid.SetCell(core.FillableWith(at, pipe)); err != nil {
		// Fillable cells are never locked; reaching this is a bug.
		panic(fmt.Sprintf("engine: set fillable cell: %v", err))
	}
	e.history.Push(core.Move{Coord: at, Placed: pipe, Previous: cell})
	e.moves++
	e.trace = e.grid.Trace()
	e.logger.Debug("pipe placed", "at", at, "pipe", pipe)
	e.hooks.OnMove()
	return nil
}

// UndoStep reverts the most recent placement and returns its pipe to the
// front of the queue. The cell must not have been reached by water.
func (e *Engine) UndoStep() error {
	var err error
	if !e.do(func() { err = e.undoStep() }) {
		return ErrClosed
	}
	return err
}

func (e *Engine) undoStep() error {
	if err := e.movable(); err != nil {
		return err
	}
	m, ok := e.history.Peek()
	if !ok {
		return core.ErrNothingToUndo
	}
	if e.filled(m.Coord) {
		return fmt.Errorf("undo at %v: water already passed: %w", m.Coord, core.ErrInvalidPlacement)
	}
	e.history.Pop()
	if err := e.grid.SetCell(m.Previous); err != nil {
		panic(fmt.Sprintf("engine: restore cell: %v", err))
	}
	e.queue.PushFront(m.Placed)
	e.undos++
	e.trace = e.grid.Trace()
	e.logger.Debug("move undone", "at", m.Coord, "pipe", m.Placed)
	return nil
}

// SkipPipe discards the front pipe of the queue.
func (e *Engine) SkipPipe() error {
	var err error
	if !e.do(func() {
		if err = e.movable(); err != nil {
			return
		}
		p := e.queue.Skip()
		e.skips++
		e.logger.Debug("pipe skipped", "pipe", p)
	}) {
		return ErrClosed
	}
	return err
}

// State returns the current session state.
func (e *Engine) State() State {
	s := StateQuit
	e.do(func() { s = e.state })
	return s
}

// Props returns a copy of the map the session was built from.
func (e *Engine) Props() core.GameProperties {
	var p core.GameProperties
	e.do(func() { p = e.props.Clone() })
	return p
}

// LoadFromFile replaces the session with the map at path. The new session
// starts in Ready. The current session is untouched on error.
func (e *Engine) LoadFromFile(path string) error {
	props, err := mapfile.ParseFile(path)
	if err != nil {
		return err
	}
	if verr := core.CheckValidity(props); verr != nil {
		return fmt.Errorf("load %s: %w", path, verr)
	}
	if !e.do(func() {
		e.stopClock()
		e.reset(props)
	}) {
		return ErrClosed
	}
	e.logger.Info("map loaded", "path", path, "rows", props.Rows, "cols", props.Cols)
	return nil
}

// ExportToFile writes the session's map to path. Invalid maps are refused.
func (e *Engine) ExportToFile(path string) error {
	props := e.Props()
	if props.Grid == nil {
		return ErrClosed
	}
	if verr := core.CheckValidity(props); verr != nil {
		return fmt.Errorf("export %s: %w", path, verr)
	}
	return mapfile.WriteFile(path, props)
}
