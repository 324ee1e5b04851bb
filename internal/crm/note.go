package crm

import (
	"fmt"
	"strings"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// NoteText summarizes a quote for the lead's activity feed.
func NoteText(q model.Quote) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Glass structure quote %s", q.ID)
	if q.PackageID != "" {
		fmt.Fprintf(&sb, " (package %s)", q.PackageID)
	}
	sb.WriteString("\n")
	for _, l := range q.Lines {
		fmt.Fprintf(&sb, "- %s %s %s @ %s = %s\n",
			l.Quantity.String(), l.Unit.Symbol(), l.Name,
			l.UnitPrice.StringFixed(q.Currency.MinorUnits),
			q.FormatMoney(l.LineTotal))
	}
	fmt.Fprintf(&sb, "Total: %s", q.FormatMoney(q.GrandTotal))
	return sb.String()
}

// ProductLines maps quote lines one to one onto lead products.
func ProductLines(q model.Quote) []ProductLine {
	out := make([]ProductLine, len(q.Lines))
	for i, l := range q.Lines {
		out[i] = ProductLine{
			ComponentID: l.ComponentID,
			Name:        l.Name,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.LineTotal,
			Currency:    q.Currency.Code,
		}
	}
	return out
}
