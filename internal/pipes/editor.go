package pipes

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-pipes/internal/config"
	platformcore "github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/logging"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/mapfile"
)

// Editor limits.
const (
	MinEditSize = 3
	MaxEditSize = 30
	MaxDelay    = 99
)

// Tool is what the editor paints under the cursor.
type Tool int

const (
	ToolWall Tool = iota
	ToolCell
	ToolSource
	ToolSink
	toolCount
)

func (t Tool) String() string {
	switch t {
	case ToolWall:
		return "Wall"
	case ToolCell:
		return "Cell"
	case ToolSource:
		return "Source"
	case ToolSink:
		return "Sink"
	default:
		return "Unknown"
	}
}

// sample is the cell drawn for the tool in the palette.
func (t Tool) sample() core.Cell {
	switch t {
	case ToolCell:
		return core.Fillable(core.C(0, 0))
	case ToolSource:
		return core.Source(core.C(0, 0), core.DirRight)
	case ToolSink:
		return core.Sink(core.C(0, 0), core.DirLeft)
	default:
		return core.Wall(core.C(0, 0))
	}
}

// Editor status messages.
const (
	MsgCornerCell   = "Corners can only hold walls"
	MsgTermBorder   = "Sources and sinks go on the border, away from the corners"
	MsgRotateTarget = "Only sources and sinks rotate"
)

// EditorOptions configures an Editor.
type EditorOptions struct {
	// Path is the map file to edit. It is created on the first save.
	Path     string
	Settings config.Settings
	Logger   *log.Logger
}

// Editor is a level editor for one map file. Like Game it is driven from
// the UI loop and implements the platform game interface.
type Editor struct {
	opts   EditorOptions
	logger *log.Logger

	props  core.GameProperties
	cursor core.Coord
	tool   Tool
	dirty  bool

	status      string
	statusColor platformcore.Color

	screenW int
	screenH int
}

// NewEditor creates an editor. Call Reset before the first Step.
func NewEditor(opts EditorOptions) *Editor {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Editor{
		opts:   opts,
		logger: opts.Logger.With("map", filepath.Base(opts.Path)),
	}
}

// ID returns the game identifier.
func (e *Editor) ID() string {
	return "pipes-editor"
}

// Title returns the display name.
func (e *Editor) Title() string {
	return "Pipes editor"
}

// Reset loads the map file, or starts a blank map when it does not exist.
func (e *Editor) Reset(cfg platformcore.RuntimeConfig) {
	e.screenW = cfg.ScreenW
	e.screenH = cfg.ScreenH
	e.tool = ToolWall
	e.load()
}

// Resize updates the screen size used for layout.
func (e *Editor) Resize(w, h int) {
	e.screenW = w
	e.screenH = h
}

// Close ends the editing session. Unsaved changes are dropped.
func (e *Editor) Close() {
	if e.dirty {
		e.logger.Warn("unsaved changes discarded")
	}
}

// load reads the map file into the editor.
func (e *Editor) load() {
	name := e.name()
	props, err := mapfile.ParseFile(e.opts.Path)
	switch {
	case err == nil:
		e.setStatus("Editing "+name, platformcore.ColorMuted)
		e.logger.Info("map loaded", "rows", props.Rows, "cols", props.Cols)
	case errors.Is(err, mapfile.ErrFileNotFound):
		props = e.blank()
		e.setStatus("New map: place a source and a sink", platformcore.ColorMuted)
	default:
		props = e.blank()
		e.setStatus(fmt.Sprintf("Cannot load %s: %v", name, err), platformcore.ColorLose)
		e.logger.Error("map load failed", "error", err)
	}
	e.props = props
	e.dirty = false
	e.cursor = core.C(props.Rows/2, props.Cols/2)
}

// blank is a walled map sized by the settings.
func (e *Editor) blank() core.GameProperties {
	s := e.opts.Settings
	rows := platformcore.Clamp(s.Rows, MinEditSize, MaxEditSize)
	cols := platformcore.Clamp(s.Cols, MinEditSize, MaxEditSize)
	return core.GameProperties{
		Rows:  rows,
		Cols:  cols,
		Delay: platformcore.Clamp(s.Delay, 1, MaxDelay),
		Grid:  core.NewWalledGrid(rows, cols),
	}
}

// Step applies the frame's actions.
func (e *Editor) Step(in platformcore.InputFrame) platformcore.StepResult {
	if in.Has(platformcore.ActionRestart) {
		e.load()
		e.setStatus("Reloaded "+e.name(), platformcore.ColorMuted)
		return platformcore.StepResult{State: e.State()}
	}

	e.moveCursor(in)
	if in.Has(platformcore.ActionTool) {
		e.tool = (e.tool + 1) % toolCount
		e.setStatus("Tool: "+e.tool.String(), platformcore.ColorMuted)
	}
	if in.Has(platformcore.ActionPlace) {
		e.paint()
	}
	if in.Has(platformcore.ActionRotate) {
		e.rotate()
	}

	rows, cols := e.props.Rows, e.props.Cols
	if in.Has(platformcore.ActionGrowRows) {
		rows++
	}
	if in.Has(platformcore.ActionShrinkRows) {
		rows--
	}
	if in.Has(platformcore.ActionGrowCols) {
		cols++
	}
	if in.Has(platformcore.ActionShrinkCols) {
		cols--
	}
	if rows != e.props.Rows || cols != e.props.Cols {
		e.resize(rows, cols)
	}

	delay := e.props.Delay
	if in.Has(platformcore.ActionMoreDelay) {
		delay++
	}
	if in.Has(platformcore.ActionLessDelay) {
		delay--
	}
	if delay != e.props.Delay {
		e.setDelay(delay)
	}

	if in.Has(platformcore.ActionExport) {
		e.save()
	}
	return platformcore.StepResult{State: e.State()}
}

// State returns the platform view of the editor. Editing never ends on
// its own.
func (e *Editor) State() platformcore.GameState {
	return platformcore.GameState{Level: e.name()}
}

// Props returns the map being edited.
func (e *Editor) Props() core.GameProperties {
	return e.props
}

// Cursor returns the board cell under the cursor.
func (e *Editor) Cursor() core.Coord {
	return e.cursor
}

// Tool returns the current paint tool.
func (e *Editor) Tool() Tool {
	return e.tool
}

// Dirty reports whether there are unsaved changes.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// Status returns the status line text.
func (e *Editor) Status() string {
	return e.status
}

func (e *Editor) name() string {
	return filepath.Base(e.opts.Path)
}

func (e *Editor) setStatus(text string, c platformcore.Color) {
	e.status = text
	e.statusColor = c
}

func (e *Editor) moveCursor(in platformcore.InputFrame) {
	if in.Has(platformcore.ActionUp) {
		e.cursor.Row--
	}
	if in.Has(platformcore.ActionDown) {
		e.cursor.Row++
	}
	if in.Has(platformcore.ActionLeft) {
		e.cursor.Col--
	}
	if in.Has(platformcore.ActionRight) {
		e.cursor.Col++
	}
	e.clampCursor()
}

func (e *Editor) clampCursor() {
	e.cursor.Row = platformcore.Clamp(e.cursor.Row, 0, e.props.Rows-1)
	e.cursor.Col = platformcore.Clamp(e.cursor.Col, 0, e.props.Cols-1)
}

// inward is the side of a border cell that faces the inside of the grid.
func (e *Editor) inward(at core.Coord) core.Dir {
	switch {
	case at.Row == 0:
		return core.DirDown
	case at.Row == e.props.Rows-1:
		return core.DirUp
	case at.Col == 0:
		return core.DirRight
	default:
		return core.DirLeft
	}
}

// paint puts the current tool's tile under the cursor. Terminations only
// go on non-corner border cells and open inward; placing a source where
// another already is moves it.
func (e *Editor) paint() {
	grid := e.props.Grid
	at := e.cursor
	var cell core.Cell
	switch e.tool {
	case ToolWall:
		cell = core.Wall(at)
	case ToolCell:
		if grid.IsCorner(at) {
			e.setStatus(MsgCornerCell, platformcore.ColorWarn)
			return
		}
		cell = core.Fillable(at)
	case ToolSource, ToolSink:
		if !grid.IsBorder(at) || grid.IsCorner(at) {
			e.setStatus(MsgTermBorder, platformcore.ColorWarn)
			return
		}
		if e.tool == ToolSink {
			cell = core.Sink(at, e.inward(at))
			break
		}
		cell = core.Source(at, e.inward(at))
		if old, ok := grid.Source(); ok && old.Coord != at {
			// The old source spot is on the border, so it becomes a wall.
			e.replace(core.Wall(old.Coord))
			e.setStatus(fmt.Sprintf("Source moved from %v", old.Coord), platformcore.ColorMuted)
		}
	}
	e.replace(cell)
}

// replace overwrites whatever is at cell.Coord.
func (e *Editor) replace(cell core.Cell) {
	grid := e.props.Grid
	if err := grid.Erase(cell.Coord); err != nil {
		e.logger.Debug("erase", "at", cell.Coord, "error", err)
		return
	}
	if err := grid.SetCell(cell); err != nil {
		e.setStatus(err.Error(), platformcore.ColorLose)
		e.logger.Warn("paint rejected", "at", cell.Coord, "error", err)
		return
	}
	e.dirty = true
}

// rotate turns the termination under the cursor a quarter clockwise.
func (e *Editor) rotate() {
	cell, _ := e.props.Grid.CellAt(e.cursor)
	if cell.Kind != core.KindTermination {
		e.setStatus(MsgRotateTarget, platformcore.ColorWarn)
		return
	}
	cell.PointingTo = cell.PointingTo.Clockwise()
	e.replace(cell)
	e.setStatus(fmt.Sprintf("%s opens %s", cell.Term, cell.PointingTo), platformcore.ColorMuted)
}

// resize rebuilds the grid at the new size, keeping the cells that still
// fit. New border cells are walls.
func (e *Editor) resize(rows, cols int) {
	rows = platformcore.Clamp(rows, MinEditSize, MaxEditSize)
	cols = platformcore.Clamp(cols, MinEditSize, MaxEditSize)
	if rows == e.props.Rows && cols == e.props.Cols {
		e.setStatus(fmt.Sprintf("Maps are %d to %d cells a side", MinEditSize, MaxEditSize), platformcore.ColorWarn)
		return
	}

	old := e.props.Grid
	grid := core.NewWalledGrid(rows, cols)
	for r := 0; r < min(rows, old.Rows); r++ {
		for c := 0; c < min(cols, old.Cols); c++ {
			cell, _ := old.CellAt(core.C(r, c))
			// Both calls are in bounds and the old grid has one source at most.
			_ = grid.Erase(cell.Coord)
			_ = grid.SetCell(cell)
		}
	}
	e.props.Rows, e.props.Cols, e.props.Grid = rows, cols, grid
	e.dirty = true
	e.clampCursor()
	e.setStatus(fmt.Sprintf("Size %dx%d", rows, cols), platformcore.ColorMuted)
}

func (e *Editor) setDelay(delay int) {
	delay = platformcore.Clamp(delay, 1, MaxDelay)
	if delay == e.props.Delay {
		return
	}
	e.props.Delay = delay
	e.dirty = true
	e.setStatus(fmt.Sprintf("Delay %ds", delay), platformcore.ColorMuted)
}

// save writes the map once it passes the validity check.
func (e *Editor) save() {
	if verr := core.CheckValidity(e.props); verr != nil {
		e.setStatus("Not saved: "+verr.Message, platformcore.ColorLose)
		e.logger.Debug("save refused", "code", verr.Code)
		return
	}
	if err := mapfile.WriteFile(e.opts.Path, e.props); err != nil {
		e.setStatus(err.Error(), platformcore.ColorLose)
		e.logger.Error("map save failed", "error", err)
		return
	}
	e.dirty = false
	e.setStatus("Saved "+e.name(), platformcore.ColorWin)
	e.logger.Info("map saved", "path", e.opts.Path, "rows", e.props.Rows, "cols", e.props.Cols)
}
