package mapfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/mapfile"
)

const sample = `# rows
4
# cols
5
# delay before first flow
10
# map
WvWWW
W...L
W.W.W
WWWWW

# optional: list of pipes to start with
# HZ: Horizontal, VT: Vertical, TR: Top-Right, TL: Top-Left, BL: Bottom-Left, BR: Bottom-Right, CR: Cross
TR, TL, bl, CR
`

func TestParse(t *testing.T) {
	props, err := mapfile.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 4, props.Rows)
	assert.Equal(t, 5, props.Cols)
	assert.Equal(t, 10, props.Delay)
	assert.Equal(t, []core.Shape{core.ShapeTopRight, core.ShapeTopLeft, core.ShapeBottomLeft, core.ShapeCross}, props.Pipes)

	src, ok := props.Grid.Source()
	require.True(t, ok)
	assert.Equal(t, core.C(0, 1), src.Coord)
	assert.Equal(t, core.DirDown, src.PointingTo)

	sinks := props.Grid.Sinks()
	require.Len(t, sinks, 1)
	assert.Equal(t, core.C(1, 4), sinks[0].Coord)
	assert.Equal(t, core.DirLeft, sinks[0].PointingTo)

	cell, _ := props.Grid.CellAt(core.C(2, 2))
	assert.True(t, cell.IsWall())
}

func TestRoundTrip(t *testing.T) {
	props, err := mapfile.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	text := mapfile.Serialize(props)
	again, err := mapfile.Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.True(t, props.Equal(again))
	assert.Equal(t, text, mapfile.Serialize(again))
}

func TestRoundTripGenerated(t *testing.T) {
	params := core.DefaultGenParams()
	for seed := int64(0); seed < 10; seed++ {
		params.Seed = seed
		props, err := core.Generate(params)
		require.NoError(t, err)

		again, err := mapfile.Parse(strings.NewReader(mapfile.Serialize(props)))
		require.NoError(t, err)
		assert.True(t, props.Equal(again), "seed %d", seed)
	}
}

func TestSerializeLayout(t *testing.T) {
	g := core.NewGrid(2, 2)
	require.NoError(t, g.SetCell(core.Source(core.C(0, 0), core.DirDown)))
	require.NoError(t, g.SetCell(core.Sink(core.C(0, 1), core.DirDown)))
	text := mapfile.Serialize(core.GameProperties{Rows: 2, Cols: 2, Delay: 3, Grid: g})

	want := "# rows\n2\n# cols\n2\n# delay before first flow\n3\n# map\nvD\n..\n"
	assert.Equal(t, want, text)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"empty", "", 0},
		{"bad rows", "x\n2\n1\n", 1},
		{"missing delay", "# rows\n2\n# cols\n2\n", 4},
		{"short row", "2\n2\n1\n^.\n.\n", 5},
		{"missing row", "2\n2\n1\n^D\n", 4},
		{"unknown cell", "2\n2\n1\n^D\n.?\n", 5},
		{"two sources", "2\n2\n1\n^^\n..\n", 4},
		{"unknown pipe", "2\n2\n1\n^D\n..\nHZ, QQ\n", 6},
		{"zero rows", "0\n2\n1\n", 0},
		{"huge header", "# rows\n3037000499\n# cols\n3037000499\n# delay\n1\n# map\nW.W\n", 8},
		{"header larger than body", "100000\n100000\n1\n^D\n..\n", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapfile.Parse(strings.NewReader(tt.in))
			var invalid *mapfile.InvalidMapError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.line, invalid.Line, invalid.Error())
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.map")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	props, err := mapfile.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, props.Rows)

	_, err = mapfile.ParseFile(filepath.Join(dir, "nope.map"))
	assert.True(t, errors.Is(err, mapfile.ErrFileNotFound))

	bad := filepath.Join(dir, "bad.map")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o644))
	_, err = mapfile.ParseFile(bad)
	var invalid *mapfile.InvalidMapError
	assert.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), "bad.map")
}

func TestWriteFile(t *testing.T) {
	props, err := mapfile.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "copy.map")
	require.NoError(t, mapfile.WriteFile(path, props))

	again, err := mapfile.ParseFile(path)
	require.NoError(t, err)
	assert.True(t, props.Equal(again))
}
