package pipes_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pipes/internal/config"
	platformcore "github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes"
	"github.com/vovakirdan/tui-pipes/internal/pipes/clock"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/engine"
	"github.com/vovakirdan/tui-pipes/internal/pipes/levels"
	"github.com/vovakirdan/tui-pipes/internal/pipes/mapfile"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

// handClock fires the flow only when the test asks it to.
type handClock struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	onTick clock.Handler
	onFlow clock.Handler
}

func (h *handClock) Start(_ time.Duration, onTick, onFlow clock.Handler) {
	h.Stop()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctx, h.cancel = context.WithCancel(context.Background())
	h.onTick, h.onFlow = onTick, onFlow
}

func (h *handClock) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
	}
	h.cancel, h.onTick, h.onFlow = nil, nil, nil
}

func (h *handClock) Flow() {
	h.mu.Lock()
	ctx, fn := h.ctx, h.onFlow
	h.mu.Unlock()
	if fn != nil {
		fn(ctx)
	}
}

func (h *handClock) Tick() {
	h.mu.Lock()
	ctx, fn := h.ctx, h.onTick
	h.mu.Unlock()
	if fn != nil {
		fn(ctx)
	}
}

type memRecorder struct {
	results []storage.Result
}

func (m *memRecorder) SaveResult(r storage.Result) (int64, error) {
	m.results = append(m.results, r)
	return int64(len(m.results)), nil
}

// corridor is a 3x5 map: source on the left, sink on the right and three
// fillable cells between them on row 1. The queue starts with three
// horizontal pipes.
func corridor(t *testing.T) core.GameProperties {
	t.Helper()
	g := core.NewWalledGrid(3, 5)
	for c := 1; c < 4; c++ {
		require.NoError(t, g.SetCell(core.Fillable(core.C(1, c))))
	}
	require.NoError(t, g.SetCell(core.Source(core.C(1, 0), core.DirRight)))
	require.NoError(t, g.SetCell(core.Sink(core.C(1, 4), core.DirLeft)))
	return core.GameProperties{
		Rows: 3, Cols: 5, Delay: 2, Grid: g,
		Pipes: []core.Shape{core.ShapeHorizontal, core.ShapeHorizontal, core.ShapeHorizontal},
	}
}

type harness struct {
	game  *pipes.Game
	clock *handClock
	rec   *memRecorder
	mgr   *levels.Manager
	dir   string
}

func newHarness(t *testing.T, level string, maps ...string) *harness {
	t.Helper()
	dir := t.TempDir()
	for _, name := range maps {
		require.NoError(t, mapfile.WriteFile(filepath.Join(dir, name), corridor(t)))
	}
	settings := config.DefaultSettings()
	mgr, err := levels.NewManager(dir, settings.GenParams(7))
	require.NoError(t, err)
	if level != "" {
		require.NoError(t, mgr.SetLevel(level))
	}

	h := &harness{clock: &handClock{}, rec: &memRecorder{}, mgr: mgr, dir: dir}
	h.game = pipes.New(pipes.Options{
		Settings:     settings,
		Levels:       mgr,
		Recorder:     h.rec,
		Player:       "tester",
		SessionID:    "session-1",
		NewScheduler: func() engine.Scheduler { return h.clock },
	})
	h.game.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	t.Cleanup(h.game.Close)
	return h
}

func (h *harness) step(actions ...platformcore.Action) platformcore.GameState {
	f := platformcore.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return h.game.Step(f).State
}

// solve lays the three horizontal pipes from left to right.
func (h *harness) solve() {
	h.step(platformcore.ActionLeft)
	h.step(platformcore.ActionPlace)
	h.step(platformcore.ActionRight)
	h.step(platformcore.ActionPlace)
	h.step(platformcore.ActionRight)
	h.step(platformcore.ActionPlace)
}

func TestResetPicksFirstMap(t *testing.T) {
	h := newHarness(t, "", "02.map", "01.map")

	st := h.step()
	assert.Equal(t, "01.map", st.Level)
	assert.False(t, st.Over)
	assert.Equal(t, engine.StateReady, h.game.Snapshot().State)
	assert.Equal(t, core.C(1, 2), h.game.Cursor())
}

func TestResetWithoutMapsGenerates(t *testing.T) {
	h := newHarness(t, "")

	st := h.step()
	assert.Equal(t, levels.Generate, st.Level)
	assert.False(t, st.Over)
	assert.Equal(t, engine.StateReady, h.game.Snapshot().State)
	assert.NotNil(t, h.game.Snapshot().Grid)
}

func TestPlayToWin(t *testing.T) {
	h := newHarness(t, "", "01.map")
	h.solve()

	snap := h.game.Snapshot()
	require.Equal(t, engine.StateFlowing, snap.State, "placing opens the valve")
	assert.Equal(t, 3, snap.Moves)
	assert.True(t, snap.Reached)

	h.clock.Tick()
	for range 4 {
		h.clock.Flow()
	}
	st := h.step()
	assert.True(t, st.Over)
	assert.True(t, st.Won)
	assert.Equal(t, "The water reached the sink!", h.game.Status())

	require.Len(t, h.rec.results, 1)
	r := h.rec.results[0]
	assert.Equal(t, storage.OutcomeWon, r.Outcome)
	assert.Equal(t, "01.map", r.Level)
	assert.Equal(t, "tester", r.Player)
	assert.Equal(t, "session-1", r.SessionID)
	assert.Equal(t, 3, r.Moves)
	assert.Equal(t, 1, r.Seconds)

	// Finished sessions ignore moves and are recorded once.
	h.step(platformcore.ActionUndo)
	h.step()
	assert.Equal(t, "The water reached the sink!", h.game.Status())
	assert.Len(t, h.rec.results, 1)
}

func TestLoseAndRestart(t *testing.T) {
	h := newHarness(t, "", "01.map")

	h.step(platformcore.ActionStart)
	assert.Contains(t, h.game.Status(), "Valve open")
	h.clock.Flow()
	st := h.step()
	require.True(t, st.Over)
	assert.False(t, st.Won)
	assert.Equal(t, "The water spilled!", h.game.Status())
	require.Len(t, h.rec.results, 1)
	assert.Equal(t, storage.OutcomeLost, h.rec.results[0].Outcome)

	st = h.step(platformcore.ActionRestart)
	assert.False(t, st.Over)
	assert.Equal(t, engine.StateReady, h.game.Snapshot().State)
	assert.Equal(t, "Level restarted", h.game.Status())
	assert.Len(t, h.rec.results, 1, "a restart after a loss records nothing new")
}

func TestRejectedMoves(t *testing.T) {
	h := newHarness(t, "", "01.map")

	h.step(platformcore.ActionUndo)
	assert.Equal(t, "Nothing to undo", h.game.Status())

	h.step(platformcore.ActionUp)
	assert.Equal(t, core.C(0, 2), h.game.Cursor())
	h.step(platformcore.ActionPlace)
	assert.Equal(t, "Can't place a pipe there", h.game.Status())
	assert.Zero(t, h.game.Snapshot().Moves)
}

func TestUndoAndSkip(t *testing.T) {
	h := newHarness(t, "", "01.map")

	h.step(platformcore.ActionPlace)
	h.step(platformcore.ActionUndo)
	assert.Equal(t, "Undone", h.game.Status())
	snap := h.game.Snapshot()
	assert.Equal(t, 1, snap.Undos)
	assert.False(t, snap.CanUndo)

	h.step(platformcore.ActionSkip)
	assert.Equal(t, "Pipe skipped", h.game.Status())
	assert.Equal(t, 1, h.game.Snapshot().Skips)
}

func TestPauseToggle(t *testing.T) {
	h := newHarness(t, "", "01.map")

	h.step(platformcore.ActionStart)
	st := h.step(platformcore.ActionPause)
	assert.True(t, st.Paused)
	h.step(platformcore.ActionPlace)
	assert.Equal(t, "Paused: press P to continue", h.game.Status())
	assert.Zero(t, h.game.Snapshot().Moves)

	st = h.step(platformcore.ActionPause)
	assert.False(t, st.Paused)
	assert.Equal(t, "Resumed", h.game.Status())
}

func TestCursorStaysOnBoard(t *testing.T) {
	h := newHarness(t, "", "01.map")
	for range 10 {
		h.step(platformcore.ActionUp, platformcore.ActionLeft)
	}
	assert.Equal(t, core.C(0, 0), h.game.Cursor())
	for range 10 {
		h.step(platformcore.ActionDown, platformcore.ActionRight)
	}
	assert.Equal(t, core.C(2, 4), h.game.Cursor())
}

func TestNextWalksMapsThenGenerates(t *testing.T) {
	h := newHarness(t, "", "01.map", "02.map")

	st := h.step(platformcore.ActionNext)
	assert.Equal(t, "02.map", st.Level)

	st = h.step(platformcore.ActionNext)
	assert.Equal(t, levels.Generate, st.Level)
	assert.Equal(t, "No more maps: here is a generated one", h.game.Status())
	assert.False(t, st.Over)
}

func TestCloseRecordsAbandonedSession(t *testing.T) {
	h := newHarness(t, "", "01.map")
	h.step(platformcore.ActionPlace)

	h.game.Close()
	require.Len(t, h.rec.results, 1)
	assert.Equal(t, storage.OutcomeQuit, h.rec.results[0].Outcome)
	assert.Equal(t, 1, h.rec.results[0].Moves)
}

func TestUntouchedLevelIsNotRecorded(t *testing.T) {
	h := newHarness(t, "", "01.map", "02.map")
	h.step(platformcore.ActionNext)
	h.game.Close()
	assert.Empty(t, h.rec.results)
}

func TestMissingMap(t *testing.T) {
	h := newHarness(t, "gone.map", "01.map")

	st := h.step(platformcore.ActionPlace)
	assert.True(t, st.Over)
	assert.Contains(t, h.game.Status(), "Cannot load gone.map")

	screen := platformcore.NewScreen(60, 20)
	h.game.Render(screen)
	assert.Contains(t, screen.String(), "No playable map")

	st = h.step(platformcore.ActionNext)
	assert.Equal(t, levels.Generate, st.Level)
	assert.False(t, st.Over)
}

func TestExportGeneratedMap(t *testing.T) {
	h := newHarness(t, levels.Generate)

	h.step(platformcore.ActionExport)
	assert.True(t, strings.HasPrefix(h.game.Status(), "Saved as generated-"), h.game.Status())

	names := h.mgr.Names()
	require.Len(t, names, 1)
	props, err := mapfile.ParseFile(filepath.Join(h.dir, names[0]))
	require.NoError(t, err)
	assert.Nil(t, core.CheckValidity(props))
}

func TestExportRefusesFileMaps(t *testing.T) {
	h := newHarness(t, "", "01.map")
	h.step(platformcore.ActionExport)
	assert.Equal(t, "Only generated maps can be exported", h.game.Status())

	entries, err := os.ReadDir(h.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRender(t *testing.T) {
	h := newHarness(t, "", "01.map")
	h.step(platformcore.ActionPlace)

	screen := platformcore.NewScreen(60, 20)
	h.game.Render(screen)

	assert.Contains(t, screen.Row(0), "PIPES")
	assert.Contains(t, screen.Row(0), "01.map")
	assert.Contains(t, screen.Row(0), "moves 1")
	assert.Contains(t, screen.Row(3), "NEXT")

	// Board origin is column 3, row 4; the source sits on board row 1.
	assert.Equal(t, '▶', screen.Get(4, 5))
	assert.Equal(t, platformcore.ColorSource, screen.GetCell(4, 5).Color)
	// Cursor brackets around the placed pipe at board (1, 2).
	assert.Equal(t, '[', screen.Get(9, 5))
	assert.Equal(t, '─', screen.Get(10, 5))
	assert.Equal(t, ']', screen.Get(11, 5))
	assert.Equal(t, platformcore.ColorPipe, screen.GetCell(10, 5).Color)
	// Walls fill the top board row.
	assert.Equal(t, '▓', screen.Get(3, 4))
}

func TestRenderTooSmall(t *testing.T) {
	h := newHarness(t, "", "01.map")
	screen := platformcore.NewScreen(30, 6)
	h.game.Render(screen)
	assert.Contains(t, screen.String(), "Window too small")
}
