package pipes

import (
	"fmt"

	platformcore "github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/engine"
)

// Layout, in terminal cells.
const (
	hudHeight  = 3
	boardX     = 3
	panelGap   = 3
	panelWidth = 10
	toolsWidth = 14
)

// Render draws the session into dst.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	if g.engine == nil {
		g.renderStatus(dst, hudHeight+1)
		g.renderOverlay(dst, "No playable map", "N: next map  Q: quit", platformcore.ColorLose)
		return
	}

	rows, cols := g.props.Rows, g.props.Cols
	if dst.Width() < boardX+cols*cellW+panelGap+panelWidth || dst.Height() < hudHeight+rows+5 {
		g.renderOverlay(dst, "Window too small", "Resize to continue", platformcore.ColorWarn)
		return
	}

	boardY := hudHeight + 1
	g.renderBoard(dst, boardY)
	g.renderQueue(dst, boardX+cols*cellW+panelGap, boardY)
	g.renderFlow(dst, boardY+rows+1)
	g.renderStatus(dst, boardY+rows+2)

	switch {
	case g.snap.State == engine.StateWon:
		g.renderOverlay(dst, "Connected!", "N: next map  R: replay", platformcore.ColorWin)
	case g.snap.State == engine.StateLost:
		g.renderOverlay(dst, "Spilled!", "R: retry  N: next map", platformcore.ColorLose)
	case g.snap.Paused:
		g.renderOverlay(dst, "Paused", "Press P to continue", platformcore.ColorWarn)
	}
}

func (g *Game) renderHUD(dst *platformcore.Screen) {
	hud := fmt.Sprintf(" PIPES │ map: %s │ time %s │ moves %d │ undos %d │ skips %d",
		g.level, clockText(g.snap.Ticks), g.snap.Moves, g.snap.Undos, g.snap.Skips)
	dst.DrawTextWithColor(0, 0, hud, platformcore.ColorTitle)
	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorMuted)
}

// renderBoard draws the grid with water, the cursor and placed pipes.
func (g *Game) renderBoard(dst *platformcore.Screen, y0 int) {
	drawGrid(dst, g.snap.Grid, y0, g.cursor, g.snap.IsFilled)
}

// drawGrid draws grid inside a frame at boardX, y0 with cursor brackets
// around the cursor cell. filled reports which cells hold water and may
// be nil.
func drawGrid(dst *platformcore.Screen, grid *core.Grid, y0 int, cursor core.Coord, filled func(core.Coord) bool) {
	rows, cols := grid.Dims()
	dst.DrawBox(platformcore.NewRect(boardX-1, y0-1, cols*cellW+2, rows+2), platformcore.ColorMuted)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			at := core.C(r, c)
			cell, _ := grid.CellAt(at)
			sprite := cell.Sprite()
			gl := spriteGlyph(sprite)
			color := spriteColor(sprite, filled != nil && filled(at))
			x := boardX + c*cellW
			for i, ch := range gl {
				dst.SetWithColor(x+i, y0+r, ch, color)
			}
			if at == cursor {
				dst.SetWithColor(x, y0+r, '[', platformcore.ColorCursor)
				dst.SetWithColor(x+cellW-1, y0+r, ']', platformcore.ColorCursor)
			}
		}
	}
}

// renderQueue draws the upcoming pipes, next one first.
func (g *Game) renderQueue(dst *platformcore.Screen, x, y int) {
	dst.DrawTextWithColor(x, y-1, "NEXT", platformcore.ColorTitle)
	for i, p := range g.snap.Queue {
		color := platformcore.ColorPipe
		marker := ' '
		if i == 0 {
			color = platformcore.ColorCursor
			marker = '▶'
		}
		dst.SetWithColor(x, y+i, marker, platformcore.ColorCursor)
		for j, ch := range spriteGlyph(p.Sprite()) {
			dst.SetWithColor(x+2+j, y+i, ch, color)
		}
		dst.DrawTextWithColor(x+3+cellW, y+i, p.Shape.Code(), platformcore.ColorMuted)
	}
}

// renderFlow draws the valve and water progress line.
func (g *Game) renderFlow(dst *platformcore.Screen, y int) {
	var text string
	color := platformcore.ColorMuted
	switch {
	case g.snap.State == engine.StateReady:
		text = fmt.Sprintf("Valve closed. Water starts %ds after it opens.", g.props.Delay)
	case g.snap.State == engine.StateFlowing && g.snap.Distance == 0:
		text = fmt.Sprintf("Water in %ds", max(g.props.Delay-g.snap.Ticks, 0))
		color = platformcore.ColorWarn
	case g.snap.State == engine.StateFlowing:
		text = fmt.Sprintf("Water has filled %d of %d traced cells", g.snap.Distance, len(g.snap.Path))
		color = platformcore.ColorWater
	case g.snap.State == engine.StateWon:
		text = fmt.Sprintf("Water reached the sink through %d cells", g.snap.Distance)
		color = platformcore.ColorWin
	case g.snap.State == engine.StateLost:
		text = fmt.Sprintf("Water spilled after %d cells", g.snap.Distance)
		color = platformcore.ColorLose
	default:
		text = "Session over"
	}
	dst.DrawTextWithColor(boardX-1, y, text, color)
}

func (g *Game) renderStatus(dst *platformcore.Screen, y int) {
	if g.status == "" {
		return
	}
	dst.DrawTextWithColor(boardX-1, y, g.status, g.statusColor)
}

func (g *Game) renderOverlay(dst *platformcore.Screen, title, hint string, color platformcore.Color) {
	drawOverlay(dst, title, hint, color)
}

// drawOverlay draws a centered two-line message box.
func drawOverlay(dst *platformcore.Screen, title, hint string, color platformcore.Color) {
	w := max(len([]rune(title)), len([]rune(hint))) + 4
	box := dst.Bounds().Centered(w, 5)
	dst.DrawRect(box, ' ', platformcore.ColorDefault)
	dst.DrawBox(box, color)
	dst.DrawTextWithColor(box.X+(w-len([]rune(title)))/2, box.Y+1, title, color)
	dst.DrawTextWithColor(box.X+(w-len([]rune(hint)))/2, box.Y+3, hint, platformcore.ColorMuted)
}

// Render draws the editor into dst.
func (e *Editor) Render(dst *platformcore.Screen) {
	dst.Clear()
	modified := ""
	if e.dirty {
		modified = " │ modified"
	}
	hud := fmt.Sprintf(" PIPES EDITOR │ %s │ %dx%d │ delay %ds │ tool %s%s",
		e.name(), e.props.Rows, e.props.Cols, e.props.Delay, e.tool, modified)
	dst.DrawTextWithColor(0, 0, hud, platformcore.ColorTitle)
	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorMuted)

	rows, cols := e.props.Rows, e.props.Cols
	if dst.Width() < boardX+cols*cellW+panelGap+toolsWidth || dst.Height() < hudHeight+rows+5 {
		drawOverlay(dst, "Window too small", "Resize or shrink the map", platformcore.ColorWarn)
		return
	}

	boardY := hudHeight + 1
	drawGrid(dst, e.props.Grid, boardY, e.cursor, nil)
	e.renderTools(dst, boardX+cols*cellW+panelGap, boardY)

	check, color := "Map is valid", platformcore.ColorWin
	if verr := core.CheckValidity(e.props); verr != nil {
		check, color = verr.Message, platformcore.ColorWarn
	}
	dst.DrawTextWithColor(boardX-1, boardY+rows+1, check, color)
	if e.status != "" {
		dst.DrawTextWithColor(boardX-1, boardY+rows+2, e.status, e.statusColor)
	}
}

// renderTools draws the tool palette with the current tool marked.
func (e *Editor) renderTools(dst *platformcore.Screen, x, y int) {
	dst.DrawTextWithColor(x, y-1, "TOOLS", platformcore.ColorTitle)
	for t := ToolWall; t < toolCount; t++ {
		if t == e.tool {
			dst.SetWithColor(x, y+int(t), '▶', platformcore.ColorCursor)
		}
		sprite := t.sample().Sprite()
		for j, ch := range spriteGlyph(sprite) {
			dst.SetWithColor(x+2+j, y+int(t), ch, spriteColor(sprite, false))
		}
		dst.DrawTextWithColor(x+3+cellW, y+int(t), t.String(), platformcore.ColorMuted)
	}
}

// clockText formats seconds as m:ss.
func clockText(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
