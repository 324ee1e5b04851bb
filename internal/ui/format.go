package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/session"
)

// parseDimension reads a millimetre value typed by the user. A decimal comma
// is accepted.
func parseDimension(axis model.Axis, text string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	s = strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(s, "mm")), " ")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number: %w", axis, text, model.ErrInvalidDimension)
	}
	if err := model.ValidateDimension(axis, v); err != nil {
		return 0, err
	}
	return v, nil
}

func formatDimension(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// quoteRow is one line of the on-screen quote table.
type quoteRow struct {
	Name      string
	Quantity  string
	UnitPrice string
	Total     string
}

func quoteRows(q model.Quote) []quoteRow {
	rows := make([]quoteRow, 0, len(q.Lines))
	for _, l := range q.Lines {
		qty := l.Quantity.StringFixed(2)
		if l.Unit == model.UnitItem {
			qty = l.Quantity.String()
		}
		rows = append(rows, quoteRow{
			Name:      l.Name,
			Quantity:  qty + " " + l.Unit.Symbol(),
			UnitPrice: l.UnitPrice.StringFixed(q.Currency.MinorUnits),
			Total:     q.FormatMoney(l.LineTotal),
		})
	}
	return rows
}

// statusText explains why the current result cannot be committed, or what
// the quote totals.
func statusText(res session.Result, online bool) string {
	switch {
	case res.Err != nil && errors.Is(res.Err, model.ErrIncomplete):
		return "Every side is walled: remove a wall to get a quote."
	case res.Err != nil && errors.Is(res.Err, model.ErrGeometryInfeasible):
		return "This package cannot build these dimensions. Showing the last valid quote."
	case res.Err != nil && model.IsUserError(res.Err):
		return res.Err.Error()
	case res.Err != nil:
		return "The quote could not be calculated. Showing the last valid quote."
	case !res.Valid:
		return "Enter the structure dimensions."
	case !online:
		return "Total " + res.Quote.FormatMoney(res.Quote.GrandTotal) + " (no host CRM, commit disabled)"
	}
	return "Total " + res.Quote.FormatMoney(res.Quote.GrandTotal)
}

// commitSummary describes a finished commit for a dialog.
func commitSummary(res session.CommitResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quote %s sent to lead %s.\n\n", res.Quote.ID, res.Ack.LeadID)
	if res.Ack.NoteAdded {
		b.WriteString("Summary note added.\n")
	}
	fmt.Fprintf(&b, "%d product lines added.\n", res.Ack.ProductsAdded)
	switch {
	case res.Ack.AttachmentAdded:
		b.WriteString("PDF quote attached.\n")
	case res.Ack.AttachmentError != "":
		b.WriteString("PDF quote could not be attached: " + res.Ack.AttachmentError + "\n")
	}
	return b.String()
}
