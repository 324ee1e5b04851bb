package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/piwi3910/GlassQuote/internal/catalog"
	"github.com/piwi3910/GlassQuote/internal/engine"
	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/pricing"
)

// buildTestQuote derives and prices a door shower with a left wall.
func buildTestQuote(t *testing.T) (model.Quote, model.GeometryInstance) {
	t.Helper()
	cat, err := catalog.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	pkg, err := cat.GetPackage("door-shower")
	if err != nil {
		t.Fatalf("GetPackage: %v", err)
	}
	cfg := model.StructureConfig{Width: 1200, Depth: 900, Height: 2000, HasLeftWall: true}
	geom, err := engine.New(cat).Derive(cfg, pkg)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	q, err := pricing.Price(geom, cat)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	return q.Issue(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)), geom
}

func TestExportQuotePDF_CreatesFile(t *testing.T) {
	q, geom := buildTestQuote(t)
	path := filepath.Join(t.TempDir(), "quote.pdf")

	doc := QuoteDocument{
		Quote:    q,
		Geometry: geom,
		Lead:     model.Lead{ID: "L-1", Name: "Bathroom", Contact: model.Contact{Name: "Ana", Phone: "+34 600"}},
	}
	if err := ExportQuotePDF(path, doc); err != nil {
		t.Fatalf("ExportQuotePDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	// Two pages with an embedded preview and QR code
	if info.Size() < 2000 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestQuotePDF_Attachment(t *testing.T) {
	q, geom := buildTestQuote(t)

	data, name, err := QuotePDF(q, geom)
	if err != nil {
		t.Fatalf("QuotePDF returned error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("attachment is not a PDF")
	}
	if name != "quote-"+q.ID+".pdf" {
		t.Errorf("filename = %q", name)
	}
}

func TestExportQuotePDF_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportQuotePDF(path, QuoteDocument{}); err == nil {
		t.Fatal("expected error for empty quote, got nil")
	}

	q, _ := buildTestQuote(t)
	if err := ExportQuotePDF(path, QuoteDocument{Quote: q}); err == nil {
		t.Fatal("expected error for quote without panels, got nil")
	}
}

func TestNewQRPayload(t *testing.T) {
	q, geom := buildTestQuote(t)
	p := NewQRPayload(QuoteDocument{Quote: q, Geometry: geom, Lead: model.Lead{ID: "L-9"}})

	if p.QuoteID != q.ID || p.LeadID != "L-9" || p.PackageID != "door-shower" {
		t.Errorf("unexpected payload ids: %+v", p)
	}
	if p.Panels != len(geom.Panels) {
		t.Errorf("Panels = %d, want %d", p.Panels, len(geom.Panels))
	}
	if strings.Count(p.Total, ".") != 1 || len(p.Total[strings.Index(p.Total, ".")+1:]) != 2 {
		t.Errorf("Total %q not printed with two decimals", p.Total)
	}
}

func TestQuoteFilename(t *testing.T) {
	if got := QuoteFilename(model.Quote{}, "xlsx"); got != "quote-draft.xlsx" {
		t.Errorf("QuoteFilename = %q", got)
	}
}
