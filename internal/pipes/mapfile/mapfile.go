// Package mapfile reads and writes the plain text map format.
//
// A map file lists, in order, the row count, the column count, the delay
// before the first flow, the grid (one line per row, one code per cell) and
// an optional comma separated list of pipes queued at the start. Blank
// lines and lines starting with '#' are ignored, so the section labels
// written by Serialize are only for people.
package mapfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
)

// Ext is the extension of map files.
const Ext = ".map"

// Section labels written by Serialize.
const (
	LabelRows  = "# rows"
	LabelCols  = "# cols"
	LabelDelay = "# delay before first flow"
	LabelMap   = "# map"
	LabelPipes = "# optional: list of pipes to start with"
	LabelCodes = "# HZ: Horizontal, VT: Vertical, TR: Top-Right, TL: Top-Left, BL: Bottom-Left, BR: Bottom-Right, CR: Cross"
)

// ErrFileNotFound is returned by ParseFile when the map file does not exist.
var ErrFileNotFound = errors.New("mapfile: file not found")

// InvalidMapError describes malformed map content.
type InvalidMapError struct {
	Line   int // 1-based; 0 when the error is not tied to a line
	Reason string
}

func (e *InvalidMapError) Error() string {
	if e.Line == 0 {
		return "mapfile: invalid map: " + e.Reason
	}
	return fmt.Sprintf("mapfile: invalid map at line %d: %s", e.Line, e.Reason)
}

func invalid(line int, format string, args ...any) error {
	return &InvalidMapError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

type line struct {
	num  int
	text string
}

// Parse reads a map from r.
func Parse(r io.Reader) (core.GameProperties, error) {
	var lines []line
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, line{num: n, text: text})
	}
	if err := sc.Err(); err != nil {
		return core.GameProperties{}, fmt.Errorf("mapfile: read: %w", err)
	}

	p := &parser{lines: lines}
	rows, err := p.int("rows")
	if err != nil {
		return core.GameProperties{}, err
	}
	cols, err := p.int("cols")
	if err != nil {
		return core.GameProperties{}, err
	}
	delay, err := p.int("delay")
	if err != nil {
		return core.GameProperties{}, err
	}
	if rows < 1 || cols < 1 {
		return core.GameProperties{}, invalid(0, "dimensions %dx%d must be positive", rows, cols)
	}

	// The header is checked against the lines actually present before the
	// grid is allocated, so rows*cols is bounded by the input size.
	if left := p.remaining(); rows > left {
		return core.GameProperties{}, invalid(p.lastLine(), "expected %d map rows, got %d", rows, left)
	}
	rowLines := p.lines[p.pos : p.pos+rows]
	p.pos += rows
	for r, ln := range rowLines {
		if n := len([]rune(ln.text)); n != cols {
			return core.GameProperties{}, invalid(ln.num, "row %d has %d cells, want %d", r, n, cols)
		}
	}

	grid := core.NewGrid(rows, cols)
	for r, ln := range rowLines {
		for c, code := range []rune(ln.text) {
			cell, ok := core.CellFromCode(code, core.C(r, c))
			if !ok {
				return core.GameProperties{}, invalid(ln.num, "unknown cell code %q", code)
			}
			if err := grid.SetCell(cell); err != nil {
				if errors.Is(err, core.ErrDuplicateSource) {
					return core.GameProperties{}, invalid(ln.num, "more than one source")
				}
				return core.GameProperties{}, invalid(ln.num, "%v", err)
			}
		}
	}

	var pipes []core.Shape
	for {
		ln, ok := p.next()
		if !ok {
			break
		}
		for _, field := range strings.Split(ln.text, ",") {
			code := strings.TrimSpace(field)
			if code == "" {
				continue
			}
			shape, ok := core.ParseShape(strings.ToUpper(code))
			if !ok {
				return core.GameProperties{}, invalid(ln.num, "unknown pipe code %q", code)
			}
			pipes = append(pipes, shape)
		}
	}

	return core.GameProperties{
		Rows:  rows,
		Cols:  cols,
		Delay: delay,
		Grid:  grid,
		Pipes: pipes,
	}, nil
}

type parser struct {
	lines []line
	pos   int
}

func (p *parser) next() (line, bool) {
	if p.pos >= len(p.lines) {
		return line{}, false
	}
	ln := p.lines[p.pos]
	p.pos++
	return ln, true
}

func (p *parser) remaining() int {
	return len(p.lines) - p.pos
}

func (p *parser) lastLine() int {
	if len(p.lines) == 0 {
		return 0
	}
	return p.lines[len(p.lines)-1].num
}

func (p *parser) int(what string) (int, error) {
	ln, ok := p.next()
	if !ok {
		return 0, invalid(p.lastLine(), "missing %s", what)
	}
	v, err := strconv.Atoi(ln.text)
	if err != nil {
		return 0, invalid(ln.num, "%s: %q is not an integer", what, ln.text)
	}
	return v, nil
}

// ParseFile reads the map at path.
func ParseFile(path string) (core.GameProperties, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.GameProperties{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return core.GameProperties{}, fmt.Errorf("mapfile: open %s: %w", path, err)
	}
	defer f.Close()

	props, err := Parse(f)
	if err != nil {
		return core.GameProperties{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return props, nil
}

// Serialize renders props in the map file format. Parse(Serialize(p))
// yields a map equal to p.
func Serialize(props core.GameProperties) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%d\n", LabelRows, props.Rows)
	fmt.Fprintf(&b, "%s\n%d\n", LabelCols, props.Cols)
	fmt.Fprintf(&b, "%s\n%d\n", LabelDelay, props.Delay)
	b.WriteString(LabelMap + "\n")
	if props.Grid != nil {
		b.WriteString(props.Grid.String())
	}
	if len(props.Pipes) > 0 {
		b.WriteString("\n" + LabelPipes + "\n" + LabelCodes + "\n")
		codes := make([]string, len(props.Pipes))
		for i, s := range props.Pipes {
			codes[i] = s.Code()
		}
		b.WriteString(strings.Join(codes, ", ") + "\n")
	}
	return b.String()
}

// WriteFile serializes props to path, creating parent directories.
func WriteFile(path string, props core.GameProperties) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mapfile: create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Serialize(props)), 0o644); err != nil {
		return fmt.Errorf("mapfile: write %s: %w", path, err)
	}
	return nil
}
