package core

import (
	"fmt"
	"strings"
)

// Shape is one entry of the fixed pipe catalogue.
type Shape uint8

const (
	ShapeHorizontal Shape = iota
	ShapeVertical
	ShapeTopLeft
	ShapeTopRight
	ShapeBottomLeft
	ShapeBottomRight
	ShapeCross
)

// Shapes is the full catalogue, used for uniform random selection.
var Shapes = [...]Shape{
	ShapeHorizontal,
	ShapeVertical,
	ShapeTopLeft,
	ShapeTopRight,
	ShapeBottomLeft,
	ShapeBottomRight,
	ShapeCross,
}

var shapeCodes = map[Shape]string{
	ShapeHorizontal:  "HZ",
	ShapeVertical:    "VT",
	ShapeTopLeft:     "TL",
	ShapeTopRight:    "TR",
	ShapeBottomLeft:  "BL",
	ShapeBottomRight: "BR",
	ShapeCross:       "CR",
}

// Code returns the two-letter map file code of the shape.
func (s Shape) Code() string {
	if code, ok := shapeCodes[s]; ok {
		return code
	}
	return "??"
}

// String returns the shape code.
func (s Shape) String() string {
	return s.Code()
}

// ParseShape parses a two-letter shape code (case-insensitive).
func ParseShape(code string) (Shape, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for s, c := range shapeCodes {
		if c == code {
			return s, true
		}
	}
	return 0, false
}

// Openings returns the sides of the tile the shape connects.
func (s Shape) Openings() []Dir {
	switch s {
	case ShapeHorizontal:
		return []Dir{DirLeft, DirRight}
	case ShapeVertical:
		return []Dir{DirUp, DirDown}
	case ShapeTopLeft:
		return []Dir{DirUp, DirLeft}
	case ShapeTopRight:
		return []Dir{DirUp, DirRight}
	case ShapeBottomLeft:
		return []Dir{DirDown, DirLeft}
	case ShapeBottomRight:
		return []Dir{DirDown, DirRight}
	case ShapeCross:
		return []Dir{DirUp, DirRight, DirDown, DirLeft}
	default:
		return nil
	}
}

// Opens reports whether the shape has an opening on side d.
func (s Shape) Opens(d Dir) bool {
	for _, o := range s.Openings() {
		if o == d {
			return true
		}
	}
	return false
}

// Exit returns the side water leaves through when it enters on side entry.
// A cross passes water straight through. ok is false when entry is closed.
func (s Shape) Exit(entry Dir) (exit Dir, ok bool) {
	if !s.Opens(entry) {
		return 0, false
	}
	if s == ShapeCross {
		return entry.Opposite(), true
	}
	for _, o := range s.Openings() {
		if o != entry {
			return o, true
		}
	}
	return 0, false
}

// Pipe is a placeable connector. Pipes are immutable; ID identifies the
// instance so that undo can hand back exactly the pipe it removed.
type Pipe struct {
	ID    uint64
	Shape Shape
}

// String returns a short description such as "TL#12".
func (p Pipe) String() string {
	return fmt.Sprintf("%s#%d", p.Shape.Code(), p.ID)
}

// Sprite returns the image reference and rotation used to draw the pipe.
// Straight pipes share one image, elbows share another.
func (p Pipe) Sprite() Sprite {
	switch p.Shape {
	case ShapeVertical:
		return Sprite{Image: ImagePipeStraight, Rotation: 0}
	case ShapeHorizontal:
		return Sprite{Image: ImagePipeStraight, Rotation: 90}
	case ShapeTopRight:
		return Sprite{Image: ImagePipeBend, Rotation: 0}
	case ShapeBottomRight:
		return Sprite{Image: ImagePipeBend, Rotation: 90}
	case ShapeBottomLeft:
		return Sprite{Image: ImagePipeBend, Rotation: 180}
	case ShapeTopLeft:
		return Sprite{Image: ImagePipeBend, Rotation: 270}
	case ShapeCross:
		return Sprite{Image: ImagePipeCross, Rotation: 0}
	default:
		return Sprite{}
	}
}

// Image names a tile image. Renderers map these to whatever they draw.
type Image string

const (
	ImageWall         Image = "wall"
	ImageEmpty        Image = "empty"
	ImageSource       Image = "source"
	ImageSink         Image = "sink"
	ImagePipeStraight Image = "pipe-straight"
	ImagePipeBend     Image = "pipe-bend"
	ImagePipeCross    Image = "pipe-cross"
)

// Sprite is an image reference plus a clockwise rotation in degrees.
type Sprite struct {
	Image    Image
	Rotation int
}
