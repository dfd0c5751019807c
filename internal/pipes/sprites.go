package pipes

import (
	platformcore "github.com/vovakirdan/tui-pipes/internal/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
)

// cellW is the width of one board cell in terminal columns.
const cellW = 3

// glyph is the drawing of one board cell.
type glyph [cellW]rune

// spriteGlyph maps a sprite to box-drawing runes. Rotations are clockwise
// from the sprite's upright image.
func spriteGlyph(s core.Sprite) glyph {
	switch s.Image {
	case core.ImageWall:
		return glyph{'▓', '▓', '▓'}
	case core.ImageEmpty:
		return glyph{' ', '·', ' '}
	case core.ImagePipeStraight:
		if s.Rotation%180 == 0 {
			return glyph{' ', '│', ' '}
		}
		return glyph{'─', '─', '─'}
	case core.ImagePipeBend:
		switch s.Rotation % 360 {
		case 0:
			return glyph{' ', '└', '─'}
		case 90:
			return glyph{' ', '┌', '─'}
		case 180:
			return glyph{'─', '┐', ' '}
		default:
			return glyph{'─', '┘', ' '}
		}
	case core.ImagePipeCross:
		return glyph{'─', '┼', '─'}
	case core.ImageSource:
		return withArm(s.Rotation, [4]rune{'▲', '▶', '▼', '◀'})
	case core.ImageSink:
		return withArm(s.Rotation, [4]rune{'◎', '◎', '◎', '◎'})
	default:
		return glyph{'?', '?', '?'}
	}
}

// withArm draws a termination: a center mark plus a pipe stub on the side
// it opens to, when that side is horizontal.
func withArm(rotation int, marks [4]rune) glyph {
	d := (rotation % 360) / 90
	g := glyph{' ', marks[d], ' '}
	switch core.Dir(d) {
	case core.DirRight:
		g[2] = '─'
	case core.DirLeft:
		g[0] = '─'
	}
	return g
}

// spriteColor returns the color role of a sprite. filled marks cells water
// has already passed through.
func spriteColor(s core.Sprite, filled bool) platformcore.Color {
	switch s.Image {
	case core.ImageWall:
		return platformcore.ColorWall
	case core.ImageEmpty:
		return platformcore.ColorEmpty
	case core.ImageSource:
		return platformcore.ColorSource
	case core.ImageSink:
		if filled {
			return platformcore.ColorWater
		}
		return platformcore.ColorSink
	default:
		if filled {
			return platformcore.ColorWater
		}
		return platformcore.ColorPipe
	}
}
