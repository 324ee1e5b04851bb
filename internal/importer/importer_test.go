package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/GlassQuote/internal/catalog"
	"github.com/piwi3910/GlassQuote/internal/model"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	cases := map[rune]string{
		',':  "component,price\nhinge-glass,38.5\nhandle-pull,29.9\n",
		';':  "component;price\nhinge-glass;38,5\nhandle-pull;29,9\n",
		'\t': "component\tprice\nhinge-glass\t38.5\nhandle-pull\t29.9\n",
		'|':  "component|price\nhinge-glass|38.5\nhandle-pull|29.9\n",
	}
	for want, data := range cases {
		if got := DetectCSVDelimiter([]byte(data)); got != want {
			t.Errorf("expected %q delimiter, got %q", want, got)
		}
	}
}

// ─── Column Detection Tests ────────────────────────────────

func TestDetectColumns_PriceHeaders(t *testing.T) {
	mapping, isHeader := detectColumns([]string{"UOM", "SKU", "Unit Price"}, priceColumns)
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Index(roleComponent) != 1 || mapping.Index(rolePrice) != 2 || mapping.Index(roleUnit) != 0 {
		t.Errorf("unexpected mapping %v", mapping)
	}
}

func TestDetectColumns_Positional(t *testing.T) {
	mapping, isHeader := detectColumns([]string{"hinge-glass", "38.5"}, priceColumns)
	if isHeader {
		t.Error("data row detected as header")
	}
	if mapping.Index(roleComponent) != 0 || mapping.Index(rolePrice) != 1 {
		t.Errorf("unexpected positional mapping %v", mapping)
	}
}

// ─── Price Import Tests ────────────────────────────────────

func TestImportPricesFromReader(t *testing.T) {
	data := "Component;Price;Unit\nhinge-glass;€ 41,00;pc\nbottom-seal;10.25;lm\nghost;;pc\nhandle-pull;32;crate\n\n"
	res := ImportPricesFromReader(strings.NewReader(data), ';')

	if len(res.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d (%v)", len(res.Rows), res.Errors)
	}
	if res.Rows[0].UnitPrice != 41 || res.Rows[0].Unit != model.UnitItem {
		t.Errorf("row 0 = %+v", res.Rows[0])
	}
	if res.Rows[1].Unit != model.UnitLinearMeter {
		t.Errorf("row 1 unit = %q", res.Rows[1].Unit)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "Line 4") {
		t.Errorf("expected one error on line 4, got %v", res.Errors)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "crate") {
		t.Errorf("expected unit warning, got %v", res.Warnings)
	}
}

func TestImportPriceRows_MissingColumns(t *testing.T) {
	res := ImportPriceRows([][]string{{"Component", "Unit"}, {"hinge-glass", "pc"}})
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "Price") {
		t.Errorf("expected missing Price error, got %v", res.Errors)
	}
}

func TestImportPriceRows_NegativePrice(t *testing.T) {
	res := ImportPriceRows([][]string{{"hinge-glass", "-1"}})
	if len(res.Rows) != 0 || len(res.Errors) != 1 {
		t.Errorf("expected negative price rejected, got rows=%v errors=%v", res.Rows, res.Errors)
	}
}

func TestImportPrices_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte("sku\tcost\nglass-8mm-clear\t150\n"), 0644); err != nil {
		t.Fatal(err)
	}
	res := ImportPrices(path)
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if got := res.Prices()["glass-8mm-clear"]; got != 150 {
		t.Errorf("price = %v, want 150", got)
	}
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "tab") {
		t.Errorf("expected delimiter warning, got %v", res.Warnings)
	}
}

func TestImportPrices_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.xlsx")
	f := excelize.NewFile()
	rows := [][]any{{"Code", "Price"}, {"corner-clamp", 13.1}, {"glass-clamp", 10}}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	res := ImportPrices(path)
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d (%v)", len(res.Rows), res.Errors)
	}
	if res.Rows[0].ComponentID != "corner-clamp" || res.Rows[0].UnitPrice != 13.1 {
		t.Errorf("row 0 = %+v", res.Rows[0])
	}
}

func TestImportPrices_MissingFile(t *testing.T) {
	res := ImportPrices(filepath.Join(t.TempDir(), "nope.csv"))
	if len(res.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestApplyPrices(t *testing.T) {
	cat, err := catalog.LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	imp := PriceImport{Rows: []PriceRow{
		{ComponentID: "hinge-glass", UnitPrice: 40, Unit: model.UnitItem},
		{ComponentID: "bottom-seal", UnitPrice: 99, Unit: model.UnitItem},
		{ComponentID: "unknown-part", UnitPrice: 1},
	}}

	next, warnings, err := ApplyPrices(cat, imp)
	if err != nil {
		t.Fatalf("ApplyPrices: %v", err)
	}
	hinge, _ := next.GetComponent("hinge-glass")
	if hinge.UnitPrice != 40 {
		t.Errorf("hinge price = %v, want 40", hinge.UnitPrice)
	}
	seal, _ := next.GetComponent("bottom-seal")
	if seal.UnitPrice == 99 {
		t.Error("price with mismatched unit was applied")
	}
	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}
	orig, _ := cat.GetComponent("hinge-glass")
	if orig.UnitPrice == 40 {
		t.Error("original catalog was mutated")
	}
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]model.Unit{"PCS": model.UnitItem, "m²": model.UnitSquareMeter, " lm ": model.UnitLinearMeter} {
		got, ok := ParseUnit(in)
		if !ok || got != want {
			t.Errorf("ParseUnit(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseUnit("barrel"); ok {
		t.Error("unknown unit accepted")
	}
}

// ─── Piece Import Tests ────────────────────────────────────

func TestImportPieceRows(t *testing.T) {
	rows := [][]string{
		{"Name", "Length", "Depth", "Qty"},
		{"Island", "2400", "900", "1"},
		{"", "1200", "600", "2"},
		{"Bad", "x", "600", "1"},
		{"Zero", "1000", "600", "0"},
	}
	res := ImportPieceRows(rows)
	if len(res.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d (%v)", len(res.Pieces), res.Errors)
	}
	if res.Pieces[1].Label != "Piece 2" {
		t.Errorf("default label = %q", res.Pieces[1].Label)
	}
	if len(res.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", res.Errors)
	}
}

func TestImportPieceRows_MissingColumns(t *testing.T) {
	res := ImportPieceRows([][]string{{"Name", "Length"}})
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "Depth, Quantity") {
		t.Errorf("unexpected errors %v", res.Errors)
	}
}

func TestImportPieceRows_Positional(t *testing.T) {
	res := ImportPieceRows([][]string{{"Run", "3000", "620", "1"}})
	if len(res.Pieces) != 1 || res.Pieces[0].Length != 3000 {
		t.Errorf("unexpected pieces %+v", res.Pieces)
	}
}
