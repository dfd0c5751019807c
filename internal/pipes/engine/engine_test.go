package engine_test

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pipes/internal/pipes/clock"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/engine"
	"github.com/vovakirdan/tui-pipes/internal/pipes/mapfile"
)

// manualClock fires handlers only when the test asks it to.
type manualClock struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	onTick clock.Handler
	onFlow clock.Handler
	starts int
	delays []time.Duration
}

func (m *manualClock) Start(delay time.Duration, onTick, onFlow clock.Handler) {
	m.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.onTick, m.onFlow = onTick, onFlow
	m.starts++
	m.delays = append(m.delays, delay)
}

func (m *manualClock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel, m.onTick, m.onFlow = nil, nil, nil
}

func (m *manualClock) handlers() (context.Context, clock.Handler, clock.Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx, m.onTick, m.onFlow
}

func (m *manualClock) Flow() {
	ctx, _, onFlow := m.handlers()
	if onFlow != nil {
		onFlow(ctx)
	}
}

func (m *manualClock) Tick() {
	ctx, onTick, _ := m.handlers()
	if onTick != nil {
		onTick(ctx)
	}
}

// row builds a 3-row map with a straight corridor on row 1: source on the
// left edge, sink on the right edge and cols-2 fillable cells between.
func row(t *testing.T, cols int, pipes ...core.Shape) core.GameProperties {
	t.Helper()
	g := core.NewWalledGrid(3, cols)
	for c := 1; c < cols-1; c++ {
		require.NoError(t, g.SetCell(core.Fillable(core.C(1, c))))
	}
	require.NoError(t, g.SetCell(core.Source(core.C(1, 0), core.DirRight)))
	require.NoError(t, g.SetCell(core.Sink(core.C(1, cols-1), core.DirLeft)))
	return core.GameProperties{Rows: 3, Cols: cols, Delay: 1, Grid: g, Pipes: pipes}
}

func newEngine(t *testing.T, props core.GameProperties, hooks engine.Hooks) (*engine.Engine, *manualClock) {
	t.Helper()
	m := &manualClock{}
	e := engine.New(props, engine.Options{Seed: 1, Scheduler: m, Hooks: hooks})
	t.Cleanup(e.Close)
	return e, m
}

func TestWinScenario(t *testing.T) {
	var wins, losses, moves atomic.Int32
	hooks := engine.HookFuncs{
		Move: func() { moves.Add(1) },
		Win:  func() { wins.Add(1) },
		Lose: func() { losses.Add(1) },
	}
	e, m := newEngine(t, row(t, 3, core.ShapeHorizontal), hooks)

	require.NoError(t, e.StartCountdown())
	require.NoError(t, e.PlacePipe(1, 1))

	m.Flow()
	assert.Equal(t, engine.StateFlowing, e.State())
	m.Flow()
	assert.Equal(t, engine.StateWon, e.State())

	snap := e.Snapshot()
	assert.Equal(t, 3, snap.Distance)
	assert.True(t, snap.Reached)
	assert.True(t, snap.IsFilled(core.C(1, 2)))
	assert.Equal(t, 1, snap.Moves)

	assert.Equal(t, int32(1), moves.Load())
	assert.Equal(t, int32(1), wins.Load())
	assert.Zero(t, losses.Load())
}

func TestLoseScenario(t *testing.T) {
	var losses atomic.Int32
	e, m := newEngine(t, row(t, 3), engine.HookFuncs{Lose: func() { losses.Add(1) }})

	require.NoError(t, e.StartCountdown())
	m.Flow()
	m.Flow()
	assert.Equal(t, engine.StateLost, e.State())
	assert.Equal(t, int32(1), losses.Load())

	err := e.PlacePipe(1, 1)
	assert.ErrorIs(t, err, core.ErrInvalidPlacement)
}

func TestPlacementRejections(t *testing.T) {
	e, _ := newEngine(t, row(t, 4), nil)

	assert.ErrorIs(t, e.PlacePipe(1, 1), core.ErrInvalidPlacement, "not started")
	require.NoError(t, e.StartCountdown())
	assert.ErrorIs(t, e.StartCountdown(), engine.ErrWrongState)

	before := e.Snapshot()
	for _, at := range []core.Coord{core.C(0, 0), core.C(1, 0), core.C(1, 3), core.C(9, 9), core.C(-1, 1)} {
		assert.ErrorIs(t, e.PlacePipe(at.Row, at.Col), core.ErrInvalidPlacement, "at %v", at)
	}
	after := e.Snapshot()
	assert.Equal(t, before.Queue, after.Queue)
	assert.Zero(t, after.Moves)
	assert.False(t, after.CanUndo)
}

func TestPlaceReplacesUnfilledPipe(t *testing.T) {
	e, _ := newEngine(t, row(t, 4, core.ShapeVertical, core.ShapeHorizontal), nil)
	require.NoError(t, e.StartCountdown())

	require.NoError(t, e.PlacePipe(1, 1))
	require.NoError(t, e.PlacePipe(1, 1))

	snap := e.Snapshot()
	cell, _ := snap.Grid.CellAt(core.C(1, 1))
	require.True(t, cell.HasPipe())
	assert.Equal(t, core.ShapeHorizontal, cell.Pipe.Shape)

	// Undo brings the vertical pipe back.
	require.NoError(t, e.UndoStep())
	snap = e.Snapshot()
	cell, _ = snap.Grid.CellAt(core.C(1, 1))
	require.True(t, cell.HasPipe())
	assert.Equal(t, core.ShapeVertical, cell.Pipe.Shape)
	assert.Equal(t, core.ShapeHorizontal, snap.Queue[0].Shape)
}

func TestUndoRestoresExactPipe(t *testing.T) {
	e, _ := newEngine(t, row(t, 4), nil)
	require.NoError(t, e.StartCountdown())

	assert.ErrorIs(t, e.UndoStep(), core.ErrNothingToUndo)

	before := e.Snapshot()
	require.NoError(t, e.PlacePipe(1, 2))
	require.NoError(t, e.UndoStep())
	after := e.Snapshot()

	assert.Equal(t, before.Queue, after.Queue, "queue restored with the same instances")
	assert.Len(t, after.Queue, len(before.Queue))
	cell, _ := after.Grid.CellAt(core.C(1, 2))
	assert.False(t, cell.HasPipe())
	assert.Equal(t, 1, after.Undos)
	assert.ErrorIs(t, e.UndoStep(), core.ErrNothingToUndo)
}

func TestFilledCellsAreImmutable(t *testing.T) {
	e, m := newEngine(t, row(t, 5, core.ShapeHorizontal, core.ShapeHorizontal), nil)
	require.NoError(t, e.StartCountdown())
	require.NoError(t, e.PlacePipe(1, 1))
	require.NoError(t, e.PlacePipe(1, 2))

	m.Flow()
	m.Flow()
	snap := e.Snapshot()
	require.Equal(t, engine.StateFlowing, snap.State)
	require.Equal(t, 2, snap.Distance)
	assert.True(t, snap.IsFilled(core.C(1, 1)))
	assert.False(t, snap.IsFilled(core.C(1, 2)))

	assert.ErrorIs(t, e.PlacePipe(1, 1), core.ErrInvalidPlacement)

	// The newest move is still dry and may be undone; the one before is not.
	require.NoError(t, e.UndoStep())
	assert.ErrorIs(t, e.UndoStep(), core.ErrInvalidPlacement)

	cell, _ := e.Snapshot().Grid.CellAt(core.C(1, 1))
	assert.True(t, cell.HasPipe())
}

func TestSkipPipe(t *testing.T) {
	e, _ := newEngine(t, row(t, 4, core.ShapeCross), nil)
	assert.ErrorIs(t, e.SkipPipe(), core.ErrInvalidPlacement)
	require.NoError(t, e.StartCountdown())

	before := e.Snapshot().Queue
	require.NoError(t, e.SkipPipe())
	after := e.Snapshot()
	assert.Equal(t, before[1:], after.Queue[:len(after.Queue)-1])
	assert.Len(t, after.Queue, len(before))
	assert.Equal(t, 1, after.Skips)
}

func TestTicksCount(t *testing.T) {
	e, m := newEngine(t, row(t, 4), nil)
	m.Tick()
	require.NoError(t, e.StartCountdown())
	m.Tick()
	m.Tick()
	assert.Equal(t, 2, e.Snapshot().Ticks)
}

func TestStopCountdownDropsStaleFirings(t *testing.T) {
	e, m := newEngine(t, row(t, 4), nil)
	require.NoError(t, e.StartCountdown())

	ctx, _, staleFlow := m.handlers()
	e.StopCountdown()
	assert.Equal(t, engine.StateReady, e.State())

	// A firing that raced with Stop is dropped.
	staleFlow(context.WithoutCancel(ctx))
	assert.Equal(t, 0, e.Snapshot().Distance)

	// It stays dropped after a restart: new epoch.
	require.NoError(t, e.StartCountdown())
	staleFlow(context.WithoutCancel(ctx))
	snap := e.Snapshot()
	assert.Equal(t, engine.StateFlowing, snap.State)
	assert.Equal(t, 0, snap.Distance)
	assert.Equal(t, 2, m.starts)
}

func TestStopCountdownKeepsTerminalState(t *testing.T) {
	e, m := newEngine(t, row(t, 3), nil)
	require.NoError(t, e.StartCountdown())
	m.Flow()
	require.Equal(t, engine.StateLost, e.State())

	e.StopCountdown()
	e.Quit()
	assert.Equal(t, engine.StateLost, e.State())
}

func TestQuit(t *testing.T) {
	e, m := newEngine(t, row(t, 4), nil)
	require.NoError(t, e.StartCountdown())
	e.Quit()
	assert.Equal(t, engine.StateQuit, e.State())
	m.Flow()
	assert.Equal(t, 0, e.Snapshot().Distance)
	assert.ErrorIs(t, e.PlacePipe(1, 1), core.ErrInvalidPlacement)
}

func TestPauseResume(t *testing.T) {
	e, m := newEngine(t, row(t, 5), nil)
	assert.ErrorIs(t, e.Pause(), engine.ErrWrongState)
	require.NoError(t, e.StartCountdown())

	require.NoError(t, e.Pause())
	assert.True(t, e.Snapshot().Paused)
	assert.ErrorIs(t, e.PlacePipe(1, 1), core.ErrInvalidPlacement)
	m.Flow()
	assert.Equal(t, 0, e.Snapshot().Distance)

	require.NoError(t, e.Resume())
	assert.ErrorIs(t, e.Resume(), engine.ErrWrongState)
	require.NoError(t, e.PlacePipe(1, 1))
	assert.Equal(t, []time.Duration{time.Second, time.Second}, m.delays)
}

func TestRestartDelayAfterFlow(t *testing.T) {
	m := &manualClock{}
	e := engine.New(row(t, 5, core.ShapeHorizontal), engine.Options{
		Seed:      1,
		Scheduler: m,
		Clock:     clock.Config{TickEvery: time.Second, FlowEvery: 3 * time.Second},
	})
	t.Cleanup(e.Close)

	require.NoError(t, e.StartCountdown())
	require.NoError(t, e.PlacePipe(1, 1))
	m.Flow()
	require.Equal(t, 1, e.Snapshot().Distance)

	require.NoError(t, e.Pause())
	require.NoError(t, e.Resume())

	e.StopCountdown()
	require.NoError(t, e.StartCountdown())

	assert.Equal(t, []time.Duration{time.Second, 3 * time.Second, 3 * time.Second}, m.delays)
}

func TestClosedEngine(t *testing.T) {
	e, _ := newEngine(t, row(t, 4), nil)
	e.Close()
	e.Close()
	assert.ErrorIs(t, e.PlacePipe(1, 1), engine.ErrClosed)
	assert.ErrorIs(t, e.StartCountdown(), engine.ErrClosed)
	assert.Equal(t, engine.StateQuit, e.State())
}

func TestLoadAndExport(t *testing.T) {
	dir := t.TempDir()
	e, _ := newEngine(t, row(t, 4, core.ShapeCross), nil)

	out := filepath.Join(dir, "nested", "level.map")
	require.NoError(t, e.ExportToFile(out))

	parsed, err := mapfile.ParseFile(out)
	require.NoError(t, err)
	assert.True(t, e.Props().Equal(parsed))

	other := row(t, 6)
	other.Delay = 3
	otherPath := filepath.Join(dir, "other.map")
	require.NoError(t, mapfile.WriteFile(otherPath, other))

	require.NoError(t, e.StartCountdown())
	require.NoError(t, e.LoadFromFile(otherPath))
	snap := e.Snapshot()
	assert.Equal(t, engine.StateReady, snap.State)
	assert.Equal(t, 3, snap.Delay)
	assert.Equal(t, 6, snap.Grid.Cols)

	err = e.LoadFromFile(filepath.Join(dir, "missing.map"))
	assert.ErrorIs(t, err, mapfile.ErrFileNotFound)
	assert.Equal(t, 6, e.Snapshot().Grid.Cols, "failed load leaves the session alone")
}

func TestExportRefusesInvalidMap(t *testing.T) {
	props := row(t, 4)
	props.Delay = 0
	e, _ := newEngine(t, props, nil)

	err := e.ExportToFile(filepath.Join(t.TempDir(), "bad.map"))
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, core.MsgBadDelay, verr.Message)
}

func TestRealClockRunsToLoss(t *testing.T) {
	c := clock.New(clock.Config{TickEvery: time.Millisecond, FlowEvery: 2 * time.Millisecond}, nil)
	e := engine.New(row(t, 6), engine.Options{
		Seed:      3,
		Scheduler: c,
		DelayUnit: time.Millisecond,
		Clock:     clock.Config{TickEvery: time.Millisecond, FlowEvery: 2 * time.Millisecond},
	})
	defer e.Close()

	require.NoError(t, e.StartCountdown())

	// Hammer the engine from several goroutines while the clock runs.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = e.UndoStep()
				_ = e.SkipPipe()
				_ = e.Snapshot()
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return e.State().Terminal() }, 2*time.Second, time.Millisecond)
	assert.Equal(t, engine.StateLost, e.State())
	assert.False(t, c.Running())
}
