// Package pipes adapts the puzzle engine to the terminal platform. It owns
// the cursor, turns player actions into engine calls, draws the board and
// records finished sessions.
package pipes

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pipes/internal/config"
	platformcore "github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/logging"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/engine"
	"github.com/vovakirdan/tui-pipes/internal/pipes/levels"
	"github.com/vovakirdan/tui-pipes/internal/pipes/mapfile"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

// Recorder stores finished sessions. *storage.Store implements it.
type Recorder interface {
	SaveResult(r storage.Result) (int64, error)
}

// Options configures a Game.
type Options struct {
	Settings  config.Settings
	Levels    *levels.Manager
	Recorder  Recorder // nil disables result recording
	Logger    *log.Logger
	Player    string
	SessionID string

	// NewScheduler replaces the real flow clock, for tests.
	NewScheduler func() engine.Scheduler
}

// Game is one player's pipes session across levels.
// It is driven from a single goroutine (the UI loop).
type Game struct {
	opts   Options
	logger *log.Logger
	rng    *rand.Rand
	cues   *cueBox

	engine   *engine.Engine
	props    core.GameProperties
	level    string
	snap     engine.Snapshot
	cursor   core.Coord
	recorded bool

	status      string
	statusColor platformcore.Color

	screenW int
	screenH int
}

// New creates a game. Call Reset before the first Step.
func New(opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.SessionID == "" {
		opts.SessionID = storage.NewSessionID()
	}
	return &Game{
		opts:   opts,
		logger: opts.Logger,
		cues:   newCueBox(opts.Logger),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "pipes"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Pipes"
}

// Reset loads the current level, picking the first map (or a generated
// one) when none is selected.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH

	if g.opts.Levels.Current() == "" {
		first := levels.Generate
		if names := g.opts.Levels.Names(); len(names) > 0 {
			first = names[0]
		}
		// SetLevel only fails on blank names.
		_ = g.opts.Levels.SetLevel(first)
	}
	g.loadLevel()
}

// Resize updates the screen size used for layout.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
}

// loadLevel reads the manager's current level and starts a fresh engine.
func (g *Game) loadLevel() {
	name := g.opts.Levels.Current()
	props, err := g.opts.Levels.Load()
	if err != nil {
		g.closeEngine()
		g.level = name
		g.setStatus(fmt.Sprintf("Cannot load %s: %v", name, err), platformcore.ColorLose)
		g.logger.Error("level load failed", "level", name, "error", err)
		return
	}
	if verr := core.CheckValidity(props); verr != nil {
		g.closeEngine()
		g.level = name
		g.setStatus(fmt.Sprintf("%s is not playable: %s", name, verr.Message), platformcore.ColorLose)
		g.logger.Warn("invalid level", "level", name, "error", verr)
		return
	}
	g.level = name
	g.start(props)
	g.setStatus("Place pipes, then press enter to open the valve", platformcore.ColorMuted)
}

// start replaces the running engine with a new one for props.
func (g *Game) start(props core.GameProperties) {
	g.closeEngine()

	s := g.opts.Settings
	opts := engine.Options{
		Seed:      g.rng.Int63(),
		QueueSize: s.QueueSize,
		Clock:     s.ClockConfig(),
		Hooks:     g.cues,
		Logger:    g.logger.With("level", g.level),
	}
	if g.opts.NewScheduler != nil {
		opts.Scheduler = g.opts.NewScheduler()
	}

	g.props = props
	g.engine = engine.New(props, opts)
	g.recorded = false
	g.cues.drain()
	g.snap = g.engine.Snapshot()
	g.cursor = core.C(props.Rows/2, props.Cols/2)
	g.logger.Info("level started", "level", g.level, "rows", props.Rows, "cols", props.Cols, "delay", props.Delay)
}

// closeEngine stops the running engine, recording an abandoned session.
func (g *Game) closeEngine() {
	if g.engine == nil {
		return
	}
	snap := g.engine.Snapshot()
	if !g.recorded && !snap.State.Terminal() && (snap.Moves > 0 || snap.State == engine.StateFlowing) {
		g.record(storage.OutcomeQuit, snap)
	}
	g.engine.Close()
	g.engine = nil
	g.snap = engine.Snapshot{}
}

// Close ends the session. The game must not be used afterwards.
func (g *Game) Close() {
	g.closeEngine()
}

// Step applies the frame's actions and refreshes the snapshot.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	switch {
	case in.Has(platformcore.ActionRestart):
		g.restart()
	case in.Has(platformcore.ActionNext):
		g.next()
	case in.Has(platformcore.ActionExport):
		g.export()
	}
	if g.engine == nil {
		return platformcore.StepResult{State: g.State()}
	}
	if g.snap.State.Terminal() {
		// Only restart and next make sense once the water has settled.
		return platformcore.StepResult{State: g.State()}
	}

	g.moveCursor(in)
	if in.Has(platformcore.ActionStart) {
		g.openValve()
	}
	if in.Has(platformcore.ActionPause) {
		g.togglePause()
	}
	if in.Has(platformcore.ActionPlace) {
		g.place()
	}
	if in.Has(platformcore.ActionUndo) {
		g.undo()
	}
	if in.Has(platformcore.ActionSkip) {
		g.skip()
	}

	g.snap = g.engine.Snapshot()
	for _, c := range g.cues.drain() {
		g.setStatus(c.text, c.color)
	}
	switch g.snap.State {
	case engine.StateWon:
		g.finish(storage.OutcomeWon)
	case engine.StateLost:
		g.finish(storage.OutcomeLost)
	}
	return platformcore.StepResult{State: g.State()}
}

// State returns the platform view of the session.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Level:  g.level,
		Moves:  g.snap.Moves,
		Over:   g.engine == nil || g.snap.State.Terminal(),
		Won:    g.snap.State == engine.StateWon,
		Paused: g.snap.Paused,
	}
}

// Snapshot returns the last engine snapshot taken by Step.
func (g *Game) Snapshot() engine.Snapshot {
	return g.snap
}

// Cursor returns the board cell under the cursor.
func (g *Game) Cursor() core.Coord {
	return g.cursor
}

// Status returns the status line text.
func (g *Game) Status() string {
	return g.status
}

func (g *Game) setStatus(text string, c platformcore.Color) {
	g.status = text
	g.statusColor = c
}

func (g *Game) moveCursor(in platformcore.InputFrame) {
	if in.Has(platformcore.ActionUp) {
		g.cursor.Row--
	}
	if in.Has(platformcore.ActionDown) {
		g.cursor.Row++
	}
	if in.Has(platformcore.ActionLeft) {
		g.cursor.Col--
	}
	if in.Has(platformcore.ActionRight) {
		g.cursor.Col++
	}
	g.cursor.Row = platformcore.Clamp(g.cursor.Row, 0, g.props.Rows-1)
	g.cursor.Col = platformcore.Clamp(g.cursor.Col, 0, g.props.Cols-1)
}

// openValve starts the countdown if it has not started yet.
func (g *Game) openValve() {
	if g.engine.State() != engine.StateReady {
		return
	}
	if err := g.engine.StartCountdown(); err != nil {
		g.logger.Debug("start countdown", "error", err)
		return
	}
	g.setStatus(fmt.Sprintf("Valve open: water flows in %ds", g.props.Delay), platformcore.ColorWarn)
}

func (g *Game) togglePause() {
	snap := g.engine.Snapshot()
	var err error
	if snap.Paused {
		err = g.engine.Resume()
		if err == nil {
			g.setStatus("Resumed", platformcore.ColorMuted)
		}
	} else {
		err = g.engine.Pause()
		if err == nil {
			g.setStatus("Paused", platformcore.ColorWarn)
		}
	}
	if err != nil {
		g.logger.Debug("toggle pause", "error", err)
	}
}

// paused reports whether moves are on hold, saying so in the status line.
func (g *Game) paused() bool {
	if !g.engine.Snapshot().Paused {
		return false
	}
	g.setStatus("Paused: press P to continue", platformcore.ColorWarn)
	return true
}

// place puts the next pipe under the cursor. The first placement also
// opens the valve.
func (g *Game) place() {
	g.openValve()
	if g.paused() {
		return
	}
	err := g.engine.PlacePipe(g.cursor.Row, g.cursor.Col)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrInvalidPlacement):
		g.setStatus("Can't place a pipe there", platformcore.ColorWarn)
		g.logger.Debug("placement rejected", "at", g.cursor, "error", err)
	default:
		g.setStatus(err.Error(), platformcore.ColorLose)
	}
}

func (g *Game) undo() {
	if g.paused() {
		return
	}
	if g.engine.State() == engine.StateReady {
		g.setStatus("Nothing to undo", platformcore.ColorWarn)
		return
	}
	err := g.engine.UndoStep()
	switch {
	case err == nil:
		g.setStatus("Undone", platformcore.ColorMuted)
	case errors.Is(err, core.ErrNothingToUndo):
		g.setStatus("Nothing to undo", platformcore.ColorWarn)
	case errors.Is(err, core.ErrInvalidPlacement):
		g.setStatus("Water already passed there", platformcore.ColorWarn)
	default:
		g.setStatus(err.Error(), platformcore.ColorLose)
	}
}

func (g *Game) skip() {
	if g.paused() {
		return
	}
	if err := g.engine.SkipPipe(); err != nil {
		g.setStatus("Can't skip now", platformcore.ColorWarn)
		g.logger.Debug("skip rejected", "error", err)
		return
	}
	g.setStatus("Pipe skipped", platformcore.ColorMuted)
}

// restart replays the current map from scratch. Generated maps keep their
// layout.
func (g *Game) restart() {
	if g.engine == nil {
		g.loadLevel()
		return
	}
	g.start(g.props)
	g.setStatus("Level restarted", platformcore.ColorMuted)
}

// next moves to the following map. After the last map, or from a
// generated one, a new map is generated.
func (g *Game) next() {
	mgr := g.opts.Levels
	current := mgr.Current()
	if current != levels.Generate && slices.Contains(mgr.Names(), current) {
		if mgr.Next() == "" {
			_ = mgr.SetLevel(levels.Generate)
		}
	} else {
		_ = mgr.SetLevel(levels.Generate)
	}
	g.loadLevel()
	if mgr.Current() == levels.Generate && current != levels.Generate {
		g.setStatus("No more maps: here is a generated one", platformcore.ColorMuted)
	}
}

// export writes a generated map into the map directory so it can be
// replayed as a regular level.
func (g *Game) export() {
	if g.engine == nil {
		return
	}
	if g.level != levels.Generate {
		g.setStatus("Only generated maps can be exported", platformcore.ColorWarn)
		return
	}
	name := "generated-" + time.Now().Format("20060102-150405") + mapfile.Ext
	path := filepath.Join(g.opts.Levels.Dir(), name)
	if err := g.engine.ExportToFile(path); err != nil {
		g.setStatus("Export failed: "+err.Error(), platformcore.ColorLose)
		g.logger.Error("export failed", "path", path, "error", err)
		return
	}
	if err := g.opts.Levels.Reload(); err != nil {
		g.logger.Warn("reload levels", "error", err)
	}
	g.setStatus("Saved as "+name, platformcore.ColorWin)
	g.logger.Info("map exported", "path", path)
}

// finish records a terminal session once.
func (g *Game) finish(outcome storage.Outcome) {
	if g.recorded {
		return
	}
	g.record(outcome, g.snap)
}

func (g *Game) record(outcome storage.Outcome, snap engine.Snapshot) {
	g.recorded = true
	if g.opts.Recorder == nil {
		return
	}
	r := storage.Result{
		SessionID: g.opts.SessionID,
		Player:    g.opts.Player,
		Level:     g.level,
		Outcome:   outcome,
		Moves:     snap.Moves,
		Undos:     snap.Undos,
		Skips:     snap.Skips,
		Seconds:   snap.Ticks,
	}
	if _, err := g.opts.Recorder.SaveResult(r); err != nil {
		g.logger.Error("could not save result", "level", g.level, "error", err)
		return
	}
	g.logger.Info("result saved", "level", g.level, "outcome", outcome, "moves", snap.Moves, "seconds", snap.Ticks)
}
