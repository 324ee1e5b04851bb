// Package pricing turns a derived GeometryInstance into a priced Quote.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// quantityPlaces trims float noise from derived measurements before summing.
const quantityPlaces = 6

// Catalog is the slice of the catalog pricing needs. *catalog.Catalog satisfies it.
type Catalog interface {
	GetComponent(id string) (model.Component, error)
	Currency() model.Currency
}

// Price walks every panel and hardware instance and aggregates them into
// one line per component, in order of first appearance. Each line total is
// rounded half-up to the currency's minor unit and the grand total is the
// exact sum of the rounded lines. A component missing from the catalog is an
// internal fault and fails with model.ErrPricingUnresolvedComponent.
func Price(geom model.GeometryInstance, cat Catalog) (model.Quote, error) {
	cur := cat.Currency()
	var order []string
	qty := make(map[string]decimal.Decimal)
	comps := make(map[string]model.Component)

	add := func(id string, q float64) error {
		comp, ok := comps[id]
		if !ok {
			var err error
			comp, err = cat.GetComponent(id)
			if err != nil {
				return fmt.Errorf("%w: %s (%v)", model.ErrPricingUnresolvedComponent, id, err)
			}
			comps[id] = comp
			order = append(order, id)
			qty[id] = decimal.Zero
		}
		qty[id] = qty[id].Add(decimal.NewFromFloat(q).Round(quantityPlaces))
		return nil
	}

	for _, p := range geom.Panels {
		comp, err := cat.GetComponent(p.ComponentID)
		if err != nil {
			return model.Quote{}, fmt.Errorf("%w: panel %s glass %s", model.ErrPricingUnresolvedComponent, p.ID, p.ComponentID)
		}
		if err := add(p.ComponentID, PanelQuantity(p, comp.Unit)); err != nil {
			return model.Quote{}, err
		}
	}
	for _, h := range geom.Hardware {
		if err := add(h.ComponentID, h.Quantity); err != nil {
			return model.Quote{}, err
		}
	}

	q := model.Quote{
		PackageID:  geom.PackageID,
		Lines:      make([]model.QuoteLine, 0, len(order)),
		GrandTotal: decimal.Zero,
		Currency:   cur,
	}
	for _, id := range order {
		comp := comps[id]
		unitPrice := decimal.NewFromFloat(comp.UnitPrice)
		total := RoundMoney(qty[id].Mul(unitPrice), cur)
		q.Lines = append(q.Lines, model.QuoteLine{
			ComponentID: id,
			Name:        comp.Name,
			Category:    comp.Category,
			Unit:        comp.Unit,
			Quantity:    qty[id],
			UnitPrice:   unitPrice,
			LineTotal:   total,
		})
		q.GrandTotal = q.GrandTotal.Add(total)
	}
	return q, nil
}

// PanelQuantity measures a glass panel in the unit its component is priced in.
func PanelQuantity(p model.PanelPlacement, unit model.Unit) float64 {
	switch unit {
	case model.UnitSquareMeter:
		return p.Area()
	case model.UnitLinearMeter:
		return p.Width / 1000
	default:
		return 1
	}
}

// RoundMoney rounds half-up to the currency's minor unit. Amounts are never
// negative here, so half-away-from-zero and half-up agree.
func RoundMoney(d decimal.Decimal, cur model.Currency) decimal.Decimal {
	return d.Round(cur.MinorUnits)
}
