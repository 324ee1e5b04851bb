package export

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/GlassQuote/internal/model"
)

func TestExportQuoteXLSX(t *testing.T) {
	q, geom := buildTestQuote(t)
	path := filepath.Join(t.TempDir(), "quote.xlsx")

	if err := ExportQuoteXLSX(path, q, geom); err != nil {
		t.Fatalf("ExportQuoteXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(quoteSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// header, lines, blank, total
	if len(rows) != len(q.Lines)+3 {
		t.Fatalf("expected %d rows, got %d", len(q.Lines)+3, len(rows))
	}
	if rows[1][0] != q.Lines[0].ComponentID {
		t.Errorf("first line component = %q, want %q", rows[1][0], q.Lines[0].ComponentID)
	}
	last := rows[len(rows)-1]
	total, err := strconv.ParseFloat(last[len(last)-1], 64)
	if err != nil {
		t.Fatalf("total cell not numeric: %v", err)
	}
	if want := q.GrandTotal.InexactFloat64(); total != want {
		t.Errorf("total = %v, want %v", total, want)
	}

	panels, err := f.GetRows(panelSheet)
	if err != nil {
		t.Fatalf("GetRows panels: %v", err)
	}
	if len(panels) != len(geom.Panels)+1 {
		t.Errorf("expected %d panel rows, got %d", len(geom.Panels)+1, len(panels))
	}
}

func TestExportQuoteXLSX_Empty(t *testing.T) {
	if err := ExportQuoteXLSX(filepath.Join(t.TempDir(), "x.xlsx"), model.Quote{}, model.GeometryInstance{}); err == nil {
		t.Fatal("expected error for empty quote")
	}
}
