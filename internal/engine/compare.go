package engine

import (
	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/pricing"
)

// Catalog is what package comparison needs. *catalog.Catalog satisfies it.
type Catalog interface {
	pricing.Catalog
	ListPackages() []model.Package
}

// ComparisonResult holds the derived geometry, quote and summary statistics
// for one package. Err is set when the package cannot build the structure.
type ComparisonResult struct {
	Package       model.Package
	Geometry      model.GeometryInstance
	Quote         model.Quote
	PanelCount    int
	DoorCount     int
	HardwareCount int
	Err           error
}

// OK reports whether the package produced a quote.
func (r ComparisonResult) OK() bool {
	return r.Err == nil
}

// ComparePackages derives and prices one configuration under every package
// in catalog order. This enables side-by-side comparison of alternatives.
func ComparePackages(cat Catalog, cfg model.StructureConfig) []ComparisonResult {
	dv := New(cat)
	pkgs := cat.ListPackages()
	results := make([]ComparisonResult, 0, len(pkgs))

	for _, pkg := range pkgs {
		res := ComparisonResult{Package: pkg}
		geom, err := dv.Derive(cfg, pkg)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		quote, err := pricing.Price(geom, cat)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		res.Geometry = geom
		res.Quote = quote
		res.PanelCount = len(geom.Panels)
		res.DoorCount = geom.CountPanels(model.PanelDoor)
		for _, h := range geom.Hardware {
			if h.Category != model.CategoryProfile {
				res.HardwareCount++
			}
		}
		results = append(results, res)
	}

	return results
}

// Cheapest returns the successful result with the lowest grand total, or nil.
// Ties keep catalog order.
func Cheapest(results []ComparisonResult) *ComparisonResult {
	var best *ComparisonResult
	for i := range results {
		r := &results[i]
		if !r.OK() {
			continue
		}
		if best == nil || r.Quote.GrandTotal.LessThan(best.Quote.GrandTotal) {
			best = r
		}
	}
	return best
}
