package engine

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GlassQuote/internal/catalog"
	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/pricing"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	return cat
}

func mustPackage(t *testing.T, cat *catalog.Catalog, id string) model.Package {
	t.Helper()
	pkg, err := cat.GetPackage(id)
	require.NoError(t, err)
	return pkg
}

func hardwareOf(g model.GeometryInstance, componentID string) []model.HardwareInstance {
	var out []model.HardwareInstance
	for _, h := range g.Hardware {
		if h.ComponentID == componentID {
			out = append(out, h)
		}
	}
	return out
}

func leftWallShower() model.StructureConfig {
	return model.StructureConfig{Width: 1200, Depth: 900, Height: 2000, HasLeftWall: true}
}

func TestDerive_LeftWallStandardShower(t *testing.T) {
	cat := loadCatalog(t)
	geom, err := New(cat).Derive(leftWallShower(), mustPackage(t, cat, "standard-shower"))
	require.NoError(t, err)

	require.Len(t, geom.Panels, 2, "walk-in front: only back and right are glazed")
	back, right := geom.Panels[0], geom.Panels[1]

	assert.Equal(t, model.SideBack, back.Side)
	assert.Equal(t, model.PanelFixed, back.Kind)
	assert.InDelta(t, 1190.0, back.Width, 1e-9, "5 mm wall clearance + 5 mm half corner")
	assert.InDelta(t, 1990.0, back.Height, 1e-9)
	assert.Equal(t, model.Vec3{X: 5, Y: 10, Z: 900}, back.Position)
	assert.Equal(t, 0.0, back.Orientation)

	assert.Equal(t, model.SideRight, right.Side)
	assert.InDelta(t, 895.0, right.Width, 1e-9, "free front end, half corner at the back")
	assert.Equal(t, model.Vec3{X: 1200, Y: 10, Z: 0}, right.Position)
	assert.Equal(t, 90.0, right.Orientation)

	profiles := hardwareOf(geom, "wall-profile-u")
	require.Len(t, profiles, 1, "one panel edge meets the left wall")
	assert.InDelta(t, 1.99, profiles[0].Quantity, 1e-9)
	assert.Equal(t, back.ID, profiles[0].PanelID)

	clamps := hardwareOf(geom, "corner-clamp")
	require.Len(t, clamps, 2, "one back/right corner, two clamps, attributed once")
	for _, c := range clamps {
		assert.Equal(t, back.ID, c.PanelID, "corner belongs to the side first in canonical order")
		assert.InDelta(t, 1195.0, c.Position.X, 1e-9)
	}
	assert.InDelta(t, 507.5, clamps[0].Position.Y, 1e-9)
	assert.InDelta(t, 1502.5, clamps[1].Position.Y, 1e-9)

	seals := hardwareOf(geom, "bottom-seal")
	require.Len(t, seals, 2)
	assert.InDelta(t, 1.19, seals[0].Quantity, 1e-9)
	assert.InDelta(t, 0.895, seals[1].Quantity, 1e-9)

	bars := hardwareOf(geom, "stabilizer-bar")
	require.Len(t, bars, 1)
	assert.Equal(t, model.Vec3{X: 600, Y: 2000, Z: 900}, bars[0].Position)

	require.Len(t, geom.Walls, 1)
	assert.Equal(t, model.SideLeft, geom.Walls[0].Side)
}

func TestDerive_LeftWallScenarioQuote(t *testing.T) {
	cat := loadCatalog(t)
	geom, err := New(cat).Derive(leftWallShower(), mustPackage(t, cat, "standard-shower"))
	require.NoError(t, err)

	q, err := pricing.Price(geom, cat)
	require.NoError(t, err)

	ids := make([]string, len(q.Lines))
	for i, l := range q.Lines {
		ids[i] = l.ComponentID
	}
	assert.Equal(t, []string{"glass-8mm-clear", "wall-profile-u", "corner-clamp", "bottom-seal", "stabilizer-bar"}, ids,
		"one line per distinct component in order of first appearance")

	// panel areas x unit price plus hardware quantity x unit price
	expectGlass := (1.190*1.990 + 0.895*1.990) * 145
	glassLine := q.FindLine("glass-8mm-clear")
	require.NotNil(t, glassLine)
	assert.InDelta(t, expectGlass, glassLine.LineTotal.InexactFloat64(), 0.005)
	assert.Equal(t, "4.14915", glassLine.Quantity.String())

	assert.Equal(t, "601.63", glassLine.LineTotal.StringFixed(2))
	assert.Equal(t, "35.82", q.FindLine("wall-profile-u").LineTotal.StringFixed(2))
	assert.Equal(t, "24.80", q.FindLine("corner-clamp").LineTotal.StringFixed(2))
	assert.Equal(t, "19.81", q.FindLine("bottom-seal").LineTotal.StringFixed(2))
	assert.Equal(t, "49.00", q.FindLine("stabilizer-bar").LineTotal.StringFixed(2))
	assert.True(t, q.GrandTotal.Equal(decimal.RequireFromString("731.06")), "got %s", q.GrandTotal)
	assert.True(t, q.GrandTotal.Equal(q.SumLines()))
}

func TestDerive_DoorSplit(t *testing.T) {
	cat := loadCatalog(t)
	cfg := model.StructureConfig{Width: 1200, Depth: 900, Height: 2000, HasLeftWall: true, HasBackWall: true}
	geom, err := New(cat).Derive(cfg, mustPackage(t, cat, "door-shower"))
	require.NoError(t, err)

	require.Len(t, geom.Panels, 3)
	assert.Equal(t, "right-fixed", geom.Panels[0].ID)
	assert.InDelta(t, 890.0, geom.Panels[0].Width, 1e-9)

	fixed, door := geom.Panels[1], geom.Panels[2]
	assert.Equal(t, "front-fixed", fixed.ID)
	assert.Equal(t, "front-door", door.ID)
	assert.InDelta(t, 486.0, fixed.Width, 1e-9)
	assert.InDelta(t, 700.0, door.Width, 1e-9)
	assert.InDelta(t, 495.0, door.Position.X, 1e-9, "door starts after the fixed panel and the gap")

	hinges := hardwareOf(geom, "hinge-glass")
	require.Len(t, hinges, 2)
	for _, h := range hinges {
		assert.Equal(t, door.ID, h.PanelID)
		assert.InDelta(t, 495.0, h.Position.X, 1e-9, "hinges sit on the hinge edge")
	}

	handles := hardwareOf(geom, "handle-pull")
	require.Len(t, handles, 1)
	assert.InDelta(t, 1195.0, handles[0].Position.X, 1e-9)
	assert.InDelta(t, 1005.0, handles[0].Position.Y, 1e-9, "handle at door mid height")

	assert.Len(t, hardwareOf(geom, "glass-clamp"), 4, "two clamps on each fixed panel")
	assert.Len(t, hardwareOf(geom, "wall-profile-u"), 2, "right panel to back wall, front fixed to left wall")
	clamps := hardwareOf(geom, "corner-clamp")
	require.Len(t, clamps, 2, "right/front corner counted once")
	assert.Equal(t, "right-fixed", clamps[0].PanelID)
}

func TestDerive_NarrowFrontIsAllDoor(t *testing.T) {
	cat := loadCatalog(t)
	cfg := model.StructureConfig{Width: 900, Depth: 900, Height: 2000, HasLeftWall: true, HasBackWall: true}
	geom, err := New(cat).Derive(cfg, mustPackage(t, cat, "door-shower"))
	require.NoError(t, err)

	front := geom.FindPanelByID("front-door")
	require.NotNil(t, front)
	assert.InDelta(t, 890.0, front.Width, 1e-9)
	assert.Nil(t, geom.FindPanelByID("front-fixed"))
	assert.Equal(t, 1, geom.CountPanels(model.PanelDoor))
}

func TestDerive_AllWallsIncomplete(t *testing.T) {
	cat := loadCatalog(t)
	cfg := model.StructureConfig{Width: 1200, Depth: 900, Height: 2000, HasLeftWall: true, HasRightWall: true, HasBackWall: true}
	for _, pkg := range cat.ListPackages() {
		_, err := New(cat).Derive(cfg, pkg)
		assert.ErrorIs(t, err, model.ErrIncomplete, pkg.ID)
	}
}

func TestDerive_Infeasible(t *testing.T) {
	cat := loadCatalog(t)
	std := mustPackage(t, cat, "standard-shower")

	narrow := model.StructureConfig{Width: 8, Depth: 900, Height: 2000, HasLeftWall: true}
	geom, err := New(cat).Derive(narrow, std)
	assert.ErrorIs(t, err, model.ErrGeometryInfeasible)
	assert.Empty(t, geom.Panels, "no partial result")

	low := model.StructureConfig{Width: 1200, Depth: 900, Height: 10, HasLeftWall: true}
	_, err = New(cat).Derive(low, std)
	assert.ErrorIs(t, err, model.ErrGeometryInfeasible)

	bad := leftWallShower()
	bad.Width = -1
	_, err = New(cat).Derive(bad, std)
	assert.ErrorIs(t, err, model.ErrInvalidDimension)
}

func configGrid() []model.StructureConfig {
	var out []model.StructureConfig
	for _, w := range []float64{300, 800, 1200, 1750} {
		for _, d := range []float64{300, 900, 1400} {
			for mask := 0; mask < 7; mask++ { // 7 = all walls, excluded
				out = append(out, model.StructureConfig{
					Width: w, Depth: d, Height: 2000,
					HasLeftWall:  mask&1 != 0,
					HasBackWall:  mask&2 != 0,
					HasRightWall: mask&4 != 0,
				})
			}
		}
	}
	return out
}

func TestDerive_Deterministic(t *testing.T) {
	cat := loadCatalog(t)
	dv := New(cat)
	for _, pkg := range cat.ListPackages() {
		for _, cfg := range configGrid() {
			first, err1 := dv.Derive(cfg, pkg)
			second, err2 := New(cat).Derive(cfg, pkg)
			require.Equal(t, err1, err2)
			if !assert.Equal(t, first, second) {
				t.Logf("config %+v package %s\n%s", cfg, pkg.ID, spew.Sdump(first))
			}
		}
	}
}

func TestDerive_ValidConfigHasPanel(t *testing.T) {
	cat := loadCatalog(t)
	dv := New(cat)
	for _, pkg := range cat.ListPackages() {
		for _, cfg := range configGrid() {
			require.NoError(t, cfg.Validate())
			geom, err := dv.Derive(cfg, pkg)
			require.NoError(t, err, "%s %+v", pkg.ID, cfg)
			assert.NotEmpty(t, geom.Panels)
			for _, p := range geom.Panels {
				assert.Greater(t, p.Width, 0.0)
				assert.Greater(t, p.Height, 0.0)
			}
		}
	}
}

func TestDerive_CornersNeverDoubleCounted(t *testing.T) {
	cat := loadCatalog(t)
	// no walls, door front: four glazed sides, four corners
	cfg := model.StructureConfig{Width: 1400, Depth: 1000, Height: 2000}
	geom, err := New(cat).Derive(cfg, mustPackage(t, cat, "door-shower"))
	require.NoError(t, err)
	assert.Len(t, hardwareOf(geom, "corner-clamp"), 4*2)
	assert.Empty(t, hardwareOf(geom, "wall-profile-u"))

	// no walls, walk-in: left/back and back/right corners only
	geom, err = New(cat).Derive(cfg, mustPackage(t, cat, "standard-shower"))
	require.NoError(t, err)
	assert.Len(t, hardwareOf(geom, "corner-clamp"), 2*2)
}

func TestDerive_WallToggleIdempotent(t *testing.T) {
	cat := loadCatalog(t)
	pkg := mustPackage(t, cat, "door-shower")
	dv := New(cat)

	before := leftWallShower()
	g0, err := dv.Derive(before, pkg)
	require.NoError(t, err)
	q0, err := pricing.Price(g0, cat)
	require.NoError(t, err)

	toggled := before
	toggled.HasBackWall = true
	g1, err := dv.Derive(toggled, pkg)
	require.NoError(t, err)
	assert.NotEqual(t, g0, g1)

	toggled.HasBackWall = false
	g2, err := dv.Derive(toggled, pkg)
	require.NoError(t, err)
	q2, err := pricing.Price(g2, cat)
	require.NoError(t, err)

	assert.Equal(t, g0, g2)
	assert.Equal(t, q0, q2)
}

func TestDerive_HardwareIDsUnique(t *testing.T) {
	cat := loadCatalog(t)
	geom, err := New(cat).Derive(model.StructureConfig{Width: 1400, Depth: 1000, Height: 2000}, mustPackage(t, cat, "frosted-privacy"))
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, h := range geom.Hardware {
		assert.False(t, seen[h.ID], "duplicate id %s", h.ID)
		seen[h.ID] = true
		assert.NotNil(t, geom.FindPanelByID(h.PanelID), "hardware %s references a derived panel", h.ID)
	}
}
