package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
)

// corridor builds the 3x3 map: walls around, source at (1,0) facing right,
// sink at (1,2) facing left.
func corridor(t *testing.T) core.GameProperties {
	t.Helper()
	g := core.NewWalledGrid(3, 3)
	require.NoError(t, g.SetCell(core.Fillable(core.C(1, 1))))
	require.NoError(t, g.SetCell(core.Source(core.C(1, 0), core.DirRight)))
	require.NoError(t, g.SetCell(core.Sink(core.C(1, 2), core.DirLeft)))
	return core.GameProperties{Rows: 3, Cols: 3, Delay: 1, Grid: g}
}

func TestDirections(t *testing.T) {
	for _, d := range core.AllDirs {
		assert.Equal(t, d, d.Opposite().Opposite(), "opposite of opposite of %s", d)
		assert.Equal(t, core.C(0, 0), core.C(0, 0).Step(d).Step(d.Opposite()))
	}
	assert.Equal(t, core.DirRight, core.DirUp.Clockwise())
	assert.Equal(t, core.DirUp, core.DirLeft.Clockwise())
	assert.Equal(t, core.C(2, 3), core.C(1, 3).Step(core.DirDown))
	assert.Equal(t, 270, core.DirLeft.Degrees())
}

func TestShapeExits(t *testing.T) {
	exit, ok := core.ShapeTopLeft.Exit(core.DirLeft)
	require.True(t, ok)
	assert.Equal(t, core.DirUp, exit)

	_, ok = core.ShapeTopLeft.Exit(core.DirDown)
	assert.False(t, ok)

	for _, d := range core.AllDirs {
		exit, ok := core.ShapeCross.Exit(d)
		require.True(t, ok)
		assert.Equal(t, d.Opposite(), exit)
	}

	for _, s := range core.Shapes {
		parsed, ok := core.ParseShape(s.Code())
		require.True(t, ok, s.Code())
		assert.Equal(t, s, parsed)
	}
	_, ok = core.ParseShape("XX")
	assert.False(t, ok)
}

func TestCellCodes(t *testing.T) {
	for _, code := range "W.^>v<URDL" {
		cell, ok := core.CellFromCode(code, core.C(0, 0))
		require.True(t, ok, string(code))
		assert.Equal(t, code, cell.Code())
	}
	_, ok := core.CellFromCode('x', core.C(0, 0))
	assert.False(t, ok)

	src, _ := core.CellFromCode('>', core.C(0, 0))
	assert.True(t, src.IsSource())
	assert.Equal(t, core.DirRight, src.PointingTo)

	filled := core.FillableWith(core.C(0, 0), core.Pipe{ID: 3, Shape: core.ShapeCross})
	assert.Equal(t, '.', filled.Code())
	assert.Equal(t, core.ImagePipeCross, filled.Sprite().Image)
}

func TestGridSetCell(t *testing.T) {
	g := core.NewGrid(3, 4)
	assert.Equal(t, 3, g.Rows)
	assert.Equal(t, 4, g.Cols)

	require.NoError(t, g.SetCell(core.Source(core.C(0, 1), core.DirDown)))
	assert.ErrorIs(t, g.SetCell(core.Source(core.C(2, 1), core.DirUp)), core.ErrDuplicateSource)
	assert.ErrorIs(t, g.SetCell(core.Wall(core.C(0, 1))), core.ErrTerminationLocked)
	assert.ErrorIs(t, g.SetCell(core.Wall(core.C(3, 0))), core.ErrOutOfBounds)

	_, ok := g.CellAt(core.C(-1, 0))
	assert.False(t, ok)

	src, ok := g.Source()
	require.True(t, ok)
	assert.Equal(t, core.C(0, 1), src.Coord)
	assert.Empty(t, g.Sinks())
}

func TestGridEraseUnlocksTerminations(t *testing.T) {
	g := core.NewGrid(3, 4)
	require.NoError(t, g.SetCell(core.Source(core.C(0, 1), core.DirDown)))
	require.NoError(t, g.SetCell(core.Sink(core.C(2, 1), core.DirUp)))

	require.NoError(t, g.Erase(core.C(0, 1)))
	_, ok := g.Source()
	assert.False(t, ok)
	cell, _ := g.CellAt(core.C(0, 1))
	assert.Equal(t, core.KindFillable, cell.Kind)
	assert.False(t, cell.HasPipe())

	// The source can move once the old one is gone.
	require.NoError(t, g.SetCell(core.Source(core.C(1, 0), core.DirRight)))
	require.NoError(t, g.Erase(core.C(2, 1)))
	require.NoError(t, g.SetCell(core.Wall(core.C(2, 1))))
	assert.Empty(t, g.Sinks())

	assert.ErrorIs(t, g.Erase(core.C(5, 5)), core.ErrOutOfBounds)
}

func TestGridCloneIsIndependent(t *testing.T) {
	g := corridor(t).Grid
	clone := g.Clone()
	require.True(t, g.Equal(clone))

	require.NoError(t, clone.SetCell(core.Wall(core.C(1, 1))))
	assert.False(t, g.Equal(clone))
	cell, _ := g.CellAt(core.C(1, 1))
	assert.Equal(t, core.KindFillable, cell.Kind)
}

func TestQueueLengthIsConstant(t *testing.T) {
	q := core.NewPipeQueue(5, 42, []core.Shape{core.ShapeCross, core.ShapeVertical})
	require.Equal(t, 5, q.Len())
	assert.Equal(t, core.ShapeCross, q.Peek().Shape)

	first := q.Pop()
	assert.Equal(t, core.ShapeCross, first.Shape)
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, core.ShapeVertical, q.Peek().Shape)

	q.Skip()
	assert.Equal(t, 5, q.Len())

	q.PushFront(first)
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, first, q.Peek())
}

func TestQueueIsSeeded(t *testing.T) {
	a := core.NewPipeQueue(5, 7, nil)
	b := core.NewPipeQueue(5, 7, nil)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Pop(), b.Pop())
	}
}

func TestQueueIDsAreUnique(t *testing.T) {
	q := core.NewPipeQueue(3, 1, nil)
	seen := map[uint64]bool{}
	for i := 0; i < 50; i++ {
		p := q.Pop()
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}
}

func TestHistory(t *testing.T) {
	var h core.History
	_, ok := h.Pop()
	assert.False(t, ok)

	h.Push(core.Move{Coord: core.C(0, 0)})
	h.Push(core.Move{Coord: core.C(1, 1)})
	assert.Equal(t, 2, h.Len())

	m, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, core.C(1, 1), m.Coord)
	assert.Equal(t, 1, h.Len())
}

func TestTraceReachesSink(t *testing.T) {
	g := corridor(t).Grid
	require.NoError(t, g.SetCell(core.FillableWith(core.C(1, 1), core.Pipe{ID: 1, Shape: core.ShapeHorizontal})))

	tr := g.Trace()
	assert.True(t, tr.Reached)
	assert.Equal(t, []core.Coord{core.C(1, 0), core.C(1, 1), core.C(1, 2)}, tr.Path)
	assert.Equal(t, tr, g.Trace(), "trace is deterministic")

	filled := tr.Filled(2)
	assert.True(t, filled[core.C(1, 1)])
	assert.False(t, filled[core.C(1, 2)])
}

func TestTraceStopsAtMismatch(t *testing.T) {
	g := corridor(t).Grid

	tr := g.Trace()
	assert.False(t, tr.Reached)
	assert.Equal(t, []core.Coord{core.C(1, 0)}, tr.Path)

	require.NoError(t, g.SetCell(core.FillableWith(core.C(1, 1), core.Pipe{ID: 1, Shape: core.ShapeVertical})))
	tr = g.Trace()
	assert.False(t, tr.Reached)
	assert.Equal(t, 1, tr.Len())
}

func TestTraceSinkFacingAway(t *testing.T) {
	g := core.NewWalledGrid(3, 3)
	require.NoError(t, g.SetCell(core.FillableWith(core.C(1, 1), core.Pipe{Shape: core.ShapeHorizontal})))
	require.NoError(t, g.SetCell(core.Source(core.C(1, 0), core.DirRight)))
	require.NoError(t, g.SetCell(core.Sink(core.C(1, 2), core.DirUp)))

	tr := g.Trace()
	assert.False(t, tr.Reached)
	assert.Equal(t, 2, tr.Len())
}

func TestTraceCrossesItself(t *testing.T) {
	// A ring of elbows entered and left through the same cross.
	g := core.NewGrid(4, 4)
	require.NoError(t, g.SetCell(core.Source(core.C(1, 0), core.DirRight)))
	pipes := map[core.Coord]core.Shape{
		core.C(1, 1): core.ShapeCross,
		core.C(1, 2): core.ShapeBottomLeft,
		core.C(2, 2): core.ShapeTopLeft,
		core.C(2, 1): core.ShapeTopRight,
	}
	for at, s := range pipes {
		require.NoError(t, g.SetCell(core.FillableWith(at, core.Pipe{Shape: s})))
	}

	tr := g.Trace()
	assert.False(t, tr.Reached)
	// source, cross, right elbow, lower elbows, cross again heading up
	assert.Equal(t, []core.Coord{
		core.C(1, 0), core.C(1, 1), core.C(1, 2), core.C(2, 2), core.C(2, 1), core.C(1, 1),
	}, tr.Path)
}

func TestCheckValidity(t *testing.T) {
	props := corridor(t)
	assert.Nil(t, core.CheckValidity(props))

	props.Delay = 0
	err := core.CheckValidity(props)
	require.NotNil(t, err)
	assert.Equal(t, core.MsgBadDelay, err.Message)
	assert.Equal(t, "[BAD_DELAY] "+core.MsgBadDelay, err.Error())

	props.Delay = 1
	assert.Nil(t, core.CheckValidity(props))
}

func TestCheckValidityMissingTerminations(t *testing.T) {
	g := core.NewWalledGrid(3, 3)
	props := core.GameProperties{Rows: 3, Cols: 3, Delay: 5, Grid: g}
	assert.Equal(t, core.MsgMissingSource, core.CheckValidity(props).Message)

	require.NoError(t, g.SetCell(core.Source(core.C(1, 0), core.DirRight)))
	assert.Equal(t, core.MsgMissingSink, core.CheckValidity(props).Message)
}

func TestCheckValidityBlocked(t *testing.T) {
	props := corridor(t)
	require.NoError(t, props.Grid.SetCell(core.Wall(core.C(1, 1))))
	assert.Equal(t, core.MsgSourceToWall, core.CheckValidity(props).Message)

	g := core.NewGrid(2, 3)
	require.NoError(t, g.SetCell(core.Source(core.C(0, 1), core.DirDown)))
	require.NoError(t, g.SetCell(core.Sink(core.C(1, 0), core.DirLeft)))
	props = core.GameProperties{Rows: 2, Cols: 3, Delay: 1, Grid: g}
	assert.Equal(t, core.MsgSinkToWall, core.CheckValidity(props).Message)
}

func TestCheckValidityTerminationPlacement(t *testing.T) {
	tests := []struct {
		name         string
		source, sink core.Cell
	}{
		{"interior source", core.Source(core.C(1, 1), core.DirRight), core.Sink(core.C(3, 2), core.DirUp)},
		{"corner sink", core.Source(core.C(0, 1), core.DirDown), core.Sink(core.C(0, 0), core.DirDown)},
		{"interior sink", core.Source(core.C(0, 1), core.DirDown), core.Sink(core.C(2, 2), core.DirUp)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := core.NewGrid(4, 4)
			require.NoError(t, g.SetCell(tt.source))
			require.NoError(t, g.SetCell(tt.sink))
			err := core.CheckValidity(core.GameProperties{Rows: 4, Cols: 4, Delay: 1, Grid: g})
			require.NotNil(t, err)
			assert.Equal(t, "TERMINATION_PLACEMENT", err.Code)
			assert.Equal(t, core.MsgTermPlacement, err.Message)
		})
	}

	g := core.NewGrid(4, 4)
	require.NoError(t, g.SetCell(core.Source(core.C(0, 1), core.DirDown)))
	require.NoError(t, g.SetCell(core.Sink(core.C(3, 2), core.DirUp)))
	assert.Nil(t, core.CheckValidity(core.GameProperties{Rows: 4, Cols: 4, Delay: 1, Grid: g}))
}

func TestGenerateIsValidAndSeeded(t *testing.T) {
	params := core.DefaultGenParams()
	for seed := int64(0); seed < 25; seed++ {
		params.Seed = seed
		props, err := core.Generate(params)
		require.NoError(t, err)
		assert.Nil(t, core.CheckValidity(props), "seed %d", seed)

		again, err := core.Generate(params)
		require.NoError(t, err)
		assert.True(t, props.Equal(again), "seed %d not deterministic", seed)
	}
}

func TestGenerateTooSmall(t *testing.T) {
	_, err := core.Generate(core.GenParams{Rows: 2, Cols: 5, Delay: 1})
	assert.ErrorIs(t, err, core.ErrGridTooSmallToGenerate)
}
