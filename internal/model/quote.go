package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteLine is one priced component. Repeated instances of a component
// collapse into a single line with summed quantity.
type QuoteLine struct {
	ComponentID string          `json:"component_id"`
	Name        string          `json:"name"`
	Category    Category        `json:"category"`
	Unit        Unit            `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Quote is the priced breakdown of one GeometryInstance. Pricing leaves ID
// and CreatedAt empty so equal inputs give equal quotes; Issue stamps them
// when a quote leaves the session.
type Quote struct {
	ID         string          `json:"id"`
	PackageID  string          `json:"package_id"`
	Lines      []QuoteLine     `json:"lines"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Currency   Currency        `json:"currency"`
	CreatedAt  string          `json:"created_at"`
}

// SumLines adds the line totals without further rounding.
func (q Quote) SumLines() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range q.Lines {
		sum = sum.Add(l.LineTotal)
	}
	return sum
}

// FindLine returns the line for a component, or nil.
func (q *Quote) FindLine(componentID string) *QuoteLine {
	for i := range q.Lines {
		if q.Lines[i].ComponentID == componentID {
			return &q.Lines[i]
		}
	}
	return nil
}

// FormatMoney renders an amount with the quote's currency precision.
func (q Quote) FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(q.Currency.MinorUnits) + " " + q.Currency.Code
}

// Clone returns a deep copy. decimal.Decimal values are immutable.
func (q Quote) Clone() Quote {
	cp := q
	cp.Lines = append([]QuoteLine(nil), q.Lines...)
	return cp
}

// Issue returns a copy stamped with a fresh ID and creation time.
func (q Quote) Issue(now time.Time) Quote {
	cp := q.Clone()
	cp.ID = uuid.New().String()[:8]
	cp.CreatedAt = now.UTC().Format(time.RFC3339)
	return cp
}
