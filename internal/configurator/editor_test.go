package configurator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GlassQuote/internal/catalog"
	"github.com/piwi3910/GlassQuote/internal/model"
)

func newEditor(t *testing.T) *Editor {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	e, err := New(cat, model.DefaultStructure(), "standard-shower")
	require.NoError(t, err)
	return e
}

func TestNewRejectsBadInput(t *testing.T) {
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)

	bad := model.DefaultStructure()
	bad.Depth = -1
	_, err = New(cat, bad, "standard-shower")
	assert.ErrorIs(t, err, model.ErrInvalidDimension)

	_, err = New(cat, model.DefaultStructure(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSetDimensionRejectsAndKeepsPrior(t *testing.T) {
	e := newEditor(t)
	var changes []Change
	e.Subscribe(func(c Change) { changes = append(changes, c) })

	for _, v := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		err := e.SetDimension(model.AxisWidth, v)
		assert.ErrorIs(t, err, model.ErrInvalidDimension)
	}
	assert.Equal(t, 1200.0, e.Config().Width)
	assert.Empty(t, changes, "rejected edits emit nothing")

	require.NoError(t, e.SetDimension(model.AxisHeight, 2100))
	assert.Equal(t, 2100.0, e.Config().Height)
	require.Len(t, changes, 1)
	assert.Equal(t, 2100.0, changes[0].Config.Height)
}

func TestSetWallFlagsIncomplete(t *testing.T) {
	e := newEditor(t)
	var last Change
	e.Subscribe(func(c Change) { last = c })

	require.NoError(t, e.SetWall(model.SideLeft, true))
	assert.False(t, e.Incomplete())

	require.NoError(t, e.SetWall(model.SideRight, true))
	assert.True(t, e.Incomplete(), "all three walls leaves nothing to glaze")
	assert.True(t, last.Incomplete)

	require.NoError(t, e.SetWall(model.SideRight, false))
	assert.False(t, e.Incomplete())
}

func TestSetWallFrontRejected(t *testing.T) {
	e := newEditor(t)
	err := e.SetWall(model.SideFront, true)
	assert.ErrorIs(t, err, model.ErrInvalidSide)
	assert.False(t, e.CanUndo())
}

func TestNoOpEditIsSilent(t *testing.T) {
	e := newEditor(t)
	calls := 0
	e.Subscribe(func(Change) { calls++ })

	require.NoError(t, e.SetWall(model.SideBack, true)) // already walled
	require.NoError(t, e.SetDimension(model.AxisWidth, 1200))
	assert.Zero(t, calls)
	assert.False(t, e.CanUndo())
}

func TestSelectPackage(t *testing.T) {
	e := newEditor(t)
	assert.ErrorIs(t, e.SelectPackage("nope"), model.ErrNotFound)
	assert.Equal(t, "standard-shower", e.PackageID())

	require.NoError(t, e.SelectPackage("door-shower"))
	assert.Equal(t, "door-shower", e.PackageID())
}

func TestUndoRedoEdits(t *testing.T) {
	e := newEditor(t)
	require.NoError(t, e.SetDimension(model.AxisWidth, 1500))
	require.NoError(t, e.SetWall(model.SideLeft, true))

	require.True(t, e.Undo())
	assert.False(t, e.Config().HasLeftWall)
	assert.Equal(t, 1500.0, e.Config().Width)

	require.True(t, e.Undo())
	assert.Equal(t, 1200.0, e.Config().Width)
	assert.False(t, e.Undo())

	require.True(t, e.Redo())
	assert.Equal(t, 1500.0, e.Config().Width)
}

func TestUndoRedoLabels(t *testing.T) {
	e := newEditor(t)
	assert.Empty(t, e.UndoLabel())

	var labels []string
	e.Subscribe(func(ch Change) { labels = append(labels, ch.Label) })

	require.NoError(t, e.SetDimension(model.AxisWidth, 1500))
	require.NoError(t, e.SetWall(model.SideLeft, true))
	assert.Equal(t, "Add left wall", e.UndoLabel())

	require.True(t, e.Undo())
	assert.Equal(t, "Set width", e.UndoLabel())
	assert.Equal(t, "Add left wall", e.RedoLabel())
	require.True(t, e.Redo())

	assert.Equal(t, []string{"Set width", "Add left wall", "Undo Add left wall", "Redo Add left wall"}, labels)
}

func TestLoadTemplate(t *testing.T) {
	e := newEditor(t)
	cfg := model.StructureConfig{Width: 900, Depth: 900, Height: 1950, HasLeftWall: true, HasBackWall: true}
	tmpl := model.NewDesignTemplate("Corner", "", "door-shower", cfg)

	require.NoError(t, e.Load(tmpl))
	assert.Equal(t, cfg, e.Config())
	assert.Equal(t, "door-shower", e.PackageID())

	require.True(t, e.Undo())
	assert.Equal(t, model.DefaultStructure(), e.Config())
	assert.Equal(t, "standard-shower", e.PackageID())

	bad := model.NewDesignTemplate("Bad", "", "ghost", cfg)
	assert.ErrorIs(t, e.Load(bad), model.ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	e := newEditor(t)
	calls := 0
	unsub := e.Subscribe(func(Change) { calls++ })
	require.NoError(t, e.SetDimension(model.AxisDepth, 1000))
	unsub()
	require.NoError(t, e.SetDimension(model.AxisDepth, 1100))
	assert.Equal(t, 1, calls)
}
