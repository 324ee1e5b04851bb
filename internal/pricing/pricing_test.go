package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GlassQuote/internal/catalog"
	"github.com/piwi3910/GlassQuote/internal/engine"
	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/pricing"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.Document{
		Currency: model.Currency{Code: "EUR", MinorUnits: 2},
		Components: []model.Component{
			{ID: "glass", Name: "Glass", Category: model.CategoryPanel, UnitPrice: 100, Unit: model.UnitSquareMeter},
			{ID: "strip", Name: "Glass strip", Category: model.CategoryPanel, UnitPrice: 10, Unit: model.UnitLinearMeter},
			{ID: "sheet", Name: "Glass sheet", Category: model.CategoryPanel, UnitPrice: 75, Unit: model.UnitItem},
			{ID: "hinge", Name: "Hinge", Category: model.CategoryHinge, UnitPrice: 0.125, Unit: model.UnitItem},
		},
	})
	require.NoError(t, err)
	return cat
}

func TestPrice_GroupsByComponent(t *testing.T) {
	cat := testCatalog(t)
	geom := model.GeometryInstance{
		PackageID: "p",
		Panels: []model.PanelPlacement{
			{ID: "a", ComponentID: "glass", Width: 1000, Height: 2000},
			{ID: "b", ComponentID: "glass", Width: 500, Height: 2000},
		},
		Hardware: []model.HardwareInstance{
			{ID: "h1", ComponentID: "hinge", Quantity: 1},
			{ID: "h2", ComponentID: "hinge", Quantity: 1},
			{ID: "h3", ComponentID: "hinge", Quantity: 1},
		},
	}

	q, err := pricing.Price(geom, cat)
	require.NoError(t, err)
	require.Len(t, q.Lines, 2)

	assert.Equal(t, "glass", q.Lines[0].ComponentID)
	assert.Equal(t, "3", q.Lines[0].Quantity.String())
	assert.Equal(t, "300.00", q.Lines[0].LineTotal.StringFixed(2))

	hinge := q.Lines[1]
	assert.Equal(t, "hinge", hinge.ComponentID)
	assert.Equal(t, "3", hinge.Quantity.String())
	// 3 x 0.125 = 0.375 rounds half-up to 0.38
	assert.Equal(t, "0.38", hinge.LineTotal.StringFixed(2))
	assert.Equal(t, "300.38", q.GrandTotal.StringFixed(2))
	assert.Equal(t, "p", q.PackageID)
	assert.Empty(t, q.ID, "pricing does not stamp ids")
}

func TestPrice_PanelUnits(t *testing.T) {
	cat := testCatalog(t)
	geom := model.GeometryInstance{
		Panels: []model.PanelPlacement{
			{ID: "s", ComponentID: "strip", Width: 1500, Height: 2000},
			{ID: "x", ComponentID: "sheet", Width: 1500, Height: 2000},
		},
	}
	q, err := pricing.Price(geom, cat)
	require.NoError(t, err)
	assert.Equal(t, "15.00", q.FindLine("strip").LineTotal.StringFixed(2), "1.5 m x 10")
	assert.Equal(t, "75.00", q.FindLine("sheet").LineTotal.StringFixed(2), "one sheet per panel")
}

func TestPrice_UnresolvedComponent(t *testing.T) {
	cat := testCatalog(t)

	_, err := pricing.Price(model.GeometryInstance{
		Panels: []model.PanelPlacement{{ID: "a", ComponentID: "ghost", Width: 1, Height: 1}},
	}, cat)
	assert.ErrorIs(t, err, model.ErrPricingUnresolvedComponent)

	_, err = pricing.Price(model.GeometryInstance{
		Panels:   []model.PanelPlacement{{ID: "a", ComponentID: "glass", Width: 1, Height: 1}},
		Hardware: []model.HardwareInstance{{ID: "x", ComponentID: "ghost", Quantity: 1}},
	}, cat)
	assert.ErrorIs(t, err, model.ErrPricingUnresolvedComponent)
}

func TestRoundMoney(t *testing.T) {
	eur := model.Currency{Code: "EUR", MinorUnits: 2}
	jpy := model.Currency{Code: "JPY", MinorUnits: 0}
	assert.Equal(t, "1.01", pricing.RoundMoney(decimal.RequireFromString("1.005"), eur).StringFixed(2))
	assert.Equal(t, "1.00", pricing.RoundMoney(decimal.RequireFromString("1.0049"), eur).StringFixed(2))
	assert.Equal(t, "13", pricing.RoundMoney(decimal.RequireFromString("12.5"), jpy).String())
}

func TestPrice_GrandTotalEqualsSumOfLines(t *testing.T) {
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	dv := engine.New(cat)

	for _, pkg := range cat.ListPackages() {
		for _, w := range []float64{333.3, 1200, 1777.7} {
			for _, d := range []float64{450.5, 900, 1234.5} {
				cfg := model.StructureConfig{Width: w, Depth: d, Height: 2011.1, HasLeftWall: true}
				geom, err := dv.Derive(cfg, pkg)
				require.NoError(t, err)
				q, err := pricing.Price(geom, cat)
				require.NoError(t, err)

				assert.True(t, q.GrandTotal.Equal(q.SumLines()), "%s %+v", pkg.ID, cfg)
				half := decimal.New(5, -3) // half a cent
				for _, l := range q.Lines {
					exact := l.Quantity.Mul(l.UnitPrice)
					assert.True(t, l.LineTotal.Sub(exact).Abs().LessThanOrEqual(half),
						"line %s: %s vs %s", l.ComponentID, l.LineTotal, exact)
				}
			}
		}
	}
}
