package core

// Color is the foreground role of a screen cell. The platform maps each
// role to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorWall
	ColorEmpty
	ColorPipe
	ColorWater
	ColorSource
	ColorSink
	ColorCursor
	ColorTitle
	ColorMuted
	ColorWin
	ColorLose
	ColorWarn
)

// String returns the role name.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorWall:
		return "wall"
	case ColorEmpty:
		return "empty"
	case ColorPipe:
		return "pipe"
	case ColorWater:
		return "water"
	case ColorSource:
		return "source"
	case ColorSink:
		return "sink"
	case ColorCursor:
		return "cursor"
	case ColorTitle:
		return "title"
	case ColorMuted:
		return "muted"
	case ColorWin:
		return "win"
	case ColorLose:
		return "lose"
	case ColorWarn:
		return "warn"
	default:
		return "unknown"
	}
}
