package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/session"
)

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1200", 1200, true},
		{" 900.5 ", 900.5, true},
		{"900,5", 900.5, true},
		{"2000 mm", 2000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
		{"-5", 0, false},
	}
	for _, tt := range tests {
		got, err := parseDimension(model.AxisWidth, tt.in)
		if tt.ok {
			if err != nil {
				t.Errorf("parseDimension(%q): unexpected error %v", tt.in, err)
			} else if got != tt.want {
				t.Errorf("parseDimension(%q) = %v, want %v", tt.in, got, tt.want)
			}
			continue
		}
		if !errors.Is(err, model.ErrInvalidDimension) {
			t.Errorf("parseDimension(%q): expected ErrInvalidDimension, got %v", tt.in, err)
		}
	}
}

func testQuote() model.Quote {
	return model.Quote{
		ID:       "q1",
		Currency: model.Currency{Code: "EUR", MinorUnits: 2},
		Lines: []model.QuoteLine{
			{Name: "Clear glass 8mm", Unit: model.UnitSquareMeter, Quantity: decimal.RequireFromString("3.51"),
				UnitPrice: decimal.RequireFromString("120"), LineTotal: decimal.RequireFromString("421.2")},
			{Name: "Wall hinge", Unit: model.UnitItem, Quantity: decimal.NewFromInt(2),
				UnitPrice: decimal.RequireFromString("35.5"), LineTotal: decimal.RequireFromString("71")},
		},
		GrandTotal: decimal.RequireFromString("492.2"),
	}
}

func TestQuoteRows(t *testing.T) {
	rows := quoteRows(testQuote())
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Quantity != "3.51 m²" {
		t.Errorf("area quantity: got %q", rows[0].Quantity)
	}
	if rows[0].Total != "421.20 EUR" {
		t.Errorf("area total: got %q", rows[0].Total)
	}
	if rows[1].Quantity != "2 pc" {
		t.Errorf("item quantity: got %q", rows[1].Quantity)
	}
	if rows[1].UnitPrice != "35.50" {
		t.Errorf("unit price: got %q", rows[1].UnitPrice)
	}
}

func TestStatusText(t *testing.T) {
	q := testQuote()
	valid := session.Result{Valid: true, Quote: q}

	if got := statusText(valid, true); got != "Total 492.20 EUR" {
		t.Errorf("online: got %q", got)
	}
	if got := statusText(valid, false); !strings.Contains(got, "commit disabled") {
		t.Errorf("offline: got %q", got)
	}

	incomplete := valid
	incomplete.Stale = true
	incomplete.Err = fmt.Errorf("derive: %w", model.ErrIncomplete)
	if got := statusText(incomplete, true); !strings.Contains(got, "remove a wall") {
		t.Errorf("incomplete: got %q", got)
	}

	internal := valid
	internal.Err = model.ErrPricingUnresolvedComponent
	if got := statusText(internal, true); strings.Contains(got, "unresolved") {
		t.Errorf("internal faults must stay generic: got %q", got)
	}
}

func TestCommitSummary(t *testing.T) {
	res := session.CommitResult{
		Quote: model.Quote{ID: "ab12cd34"},
		Ack: model.SyncAck{
			LeadID:          "L-9",
			NoteAdded:       true,
			ProductsAdded:   4,
			AttachmentError: "file too large",
		},
	}
	got := commitSummary(res)
	for _, want := range []string{"ab12cd34", "L-9", "Summary note added", "4 product lines", "file too large"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}
