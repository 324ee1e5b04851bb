// Package importer reads price sheets and countertop piece lists from CSV and
// Excel files. It detects the delimiter and maps columns by case-insensitive
// header aliases.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/GlassQuote/internal/catalog"
	"github.com/piwi3910/GlassQuote/internal/model"
)

// PriceRow is one component price read from a price sheet.
type PriceRow struct {
	ComponentID string
	UnitPrice   float64
	Unit        model.Unit // empty when the sheet has no unit column
}

// PriceImport holds the result of reading a price sheet.
type PriceImport struct {
	Rows     []PriceRow
	Errors   []string
	Warnings []string
}

// Prices returns the imported prices keyed by component ID. Later rows win.
func (p PriceImport) Prices() map[string]float64 {
	out := make(map[string]float64, len(p.Rows))
	for _, r := range p.Rows {
		out[r.ComponentID] = r.UnitPrice
	}
	return out
}

// PieceImport holds the result of reading a countertop piece list.
type PieceImport struct {
	Pieces   []model.CountertopPiece
	Errors   []string
	Warnings []string
}

// role names one semantic column.
type role string

const (
	roleComponent role = "component"
	rolePrice     role = "price"
	roleUnit      role = "unit"
	roleLabel     role = "label"
	roleLength    role = "length"
	roleDepth     role = "depth"
	roleQuantity  role = "quantity"
)

// ColumnMapping maps column roles to their indices. Missing roles are absent.
type ColumnMapping map[role]int

// Index returns the column for r, or -1.
func (m ColumnMapping) Index(r role) int {
	if i, ok := m[r]; ok {
		return i
	}
	return -1
}

type column struct {
	role    role
	aliases []string
}

var priceColumns = []column{
	{roleComponent, []string{"component", "component id", "id", "sku", "code", "article"}},
	{rolePrice, []string{"price", "unit price", "unit_price", "cost", "eur", "amount"}},
	{roleUnit, []string{"unit", "uom", "unit of measure"}},
}

var pieceColumns = []column{
	{roleLabel, []string{"label", "name", "piece", "description", "desc", "item"}},
	{roleLength, []string{"length", "len", "l", "width", "w"}},
	{roleDepth, []string{"depth", "d", "height", "h"}},
	{roleQuantity, []string{"quantity", "qty", "count", "pcs", "pieces"}},
}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and pipe
// that gives the most consistent multi-column rows.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}
		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}
	return bestDelimiter
}

// detectColumns matches a header row against columns. When nothing matches it
// returns the positional mapping (columns in order) and false.
func detectColumns(row []string, columns []column) (ColumnMapping, bool) {
	mapping := ColumnMapping{}
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, col := range columns {
			if _, taken := mapping[col.role]; taken {
				continue
			}
			for _, alias := range col.aliases {
				if normalized == alias {
					mapping[col.role] = i
					break
				}
			}
		}
	}
	if len(mapping) > 0 {
		return mapping, true
	}
	for i, col := range columns {
		mapping[col.role] = i
	}
	return mapping, false
}

// ParseUnit accepts the spellings price sheets use for catalog units.
func ParseUnit(s string) (model.Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pc", "pcs", "item", "ea", "each", "stk":
		return model.UnitItem, true
	case "m", "lm", "m1", "linear_meter", "linear meter":
		return model.UnitLinearMeter, true
	case "m2", "m²", "sqm", "square_meter", "square meter":
		return model.UnitSquareMeter, true
	}
	return "", false
}

// parseNumber reads a number that may use a decimal comma or carry a
// currency sign.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "€$£ ")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ReadRows loads every row of a CSV or Excel file, choosing the reader by
// extension. Warnings describe non-default parsing decisions.
func ReadRows(path string) (rows [][]string, warnings []string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		rows, err = readExcel(path)
		return rows, nil, err
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open file: %w", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil, fmt.Errorf("file is empty")
		}
		delimiter := DetectCSVDelimiter(data)
		if delimiter != ',' {
			name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
			warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
		}
		rows, err = readCSV(bytes.NewReader(data), delimiter)
		return rows, warnings, err
	}
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	return records, nil
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read Excel data: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}
	return rows, nil
}

// ImportPrices reads a price sheet from a CSV or Excel file.
func ImportPrices(path string) PriceImport {
	rows, warnings, err := ReadRows(path)
	if err != nil {
		return PriceImport{Errors: []string{err.Error()}}
	}
	res := ImportPriceRows(rows)
	res.Warnings = append(warnings, res.Warnings...)
	return res
}

// ImportPricesFromReader reads a CSV price sheet with a known delimiter.
func ImportPricesFromReader(r io.Reader, delimiter rune) PriceImport {
	rows, err := readCSV(r, delimiter)
	if err != nil {
		return PriceImport{Errors: []string{err.Error()}}
	}
	return ImportPriceRows(rows)
}

// ImportPriceRows parses component prices from rows. Columns are found by
// header; without a header they are component, price, unit.
func ImportPriceRows(rows [][]string) PriceImport {
	var res PriceImport
	mapping, hasHeader := detectColumns(rows[0], priceColumns)
	start := 0
	if hasHeader {
		start = 1
		var missing []string
		if mapping.Index(roleComponent) < 0 {
			missing = append(missing, "Component")
		}
		if mapping.Index(rolePrice) < 0 {
			missing = append(missing, "Price")
		}
		if len(missing) > 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return res
		}
	} else if _, err := parseNumber(getCell(rows[0], 1)); err != nil {
		start = 1
		res.Warnings = append(res.Warnings, "Detected header row, skipping")
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		line := fmt.Sprintf("Line %d", i+1)

		id := getCell(row, mapping.Index(roleComponent))
		if id == "" {
			res.Errors = append(res.Errors, line+": Missing component id")
			continue
		}
		priceStr := getCell(row, mapping.Index(rolePrice))
		price, err := parseNumber(priceStr)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: Invalid price '%s'", line, priceStr))
			continue
		}
		if price < 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: Price must not be negative", line))
			continue
		}

		pr := PriceRow{ComponentID: id, UnitPrice: price}
		if unitStr := getCell(row, mapping.Index(roleUnit)); unitStr != "" {
			if u, ok := ParseUnit(unitStr); ok {
				pr.Unit = u
			} else {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: Unknown unit '%s', ignored", line, unitStr))
			}
		}
		res.Rows = append(res.Rows, pr)
	}
	return res
}

// ApplyPrices returns a copy of cat with the imported prices. Unknown
// component IDs and unit mismatches are reported as warnings; prices whose
// unit disagrees with the catalog are skipped.
func ApplyPrices(cat *catalog.Catalog, imp PriceImport) (*catalog.Catalog, []string, error) {
	var warnings []string
	prices := make(map[string]float64, len(imp.Rows))
	for _, r := range imp.Rows {
		if r.Unit != "" {
			if c, err := cat.GetComponent(r.ComponentID); err == nil && c.Unit != r.Unit {
				warnings = append(warnings, fmt.Sprintf("%s: sheet unit %s does not match catalog unit %s, skipped", r.ComponentID, r.Unit, c.Unit))
				continue
			}
		}
		prices[r.ComponentID] = r.UnitPrice
	}
	next, unknown, err := cat.WithPrices(prices)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to apply prices: %w", err)
	}
	for _, id := range unknown {
		warnings = append(warnings, fmt.Sprintf("%s: not in catalog, ignored", id))
	}
	return next, warnings, nil
}

// ImportPieces reads a countertop piece list from a CSV or Excel file.
func ImportPieces(path string) PieceImport {
	rows, warnings, err := ReadRows(path)
	if err != nil {
		return PieceImport{Errors: []string{err.Error()}}
	}
	res := ImportPieceRows(rows)
	res.Warnings = append(warnings, res.Warnings...)
	return res
}

// ImportPieceRows parses countertop pieces. Without a header the columns are
// label, length, depth, quantity.
func ImportPieceRows(rows [][]string) PieceImport {
	var res PieceImport
	mapping, hasHeader := detectColumns(rows[0], pieceColumns)
	start := 0
	if hasHeader {
		start = 1
		var missing []string
		for _, r := range []role{roleLength, roleDepth, roleQuantity} {
			if mapping.Index(r) < 0 {
				missing = append(missing, strings.ToUpper(string(r[:1]))+string(r[1:]))
			}
		}
		if len(missing) > 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return res
		}
	} else if _, err := parseNumber(getCell(rows[0], 1)); err != nil {
		start = 1
		res.Warnings = append(res.Warnings, "Detected header row, skipping")
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		line := fmt.Sprintf("Line %d", i+1)

		label := getCell(row, mapping.Index(roleLabel))
		if label == "" {
			label = fmt.Sprintf("Piece %d", len(res.Pieces)+1)
		}
		length, err := parseNumber(getCell(row, mapping.Index(roleLength)))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: Invalid length '%s'", line, getCell(row, mapping.Index(roleLength))))
			continue
		}
		depth, err := parseNumber(getCell(row, mapping.Index(roleDepth)))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: Invalid depth '%s'", line, getCell(row, mapping.Index(roleDepth))))
			continue
		}
		qty, err := strconv.Atoi(getCell(row, mapping.Index(roleQuantity)))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: Invalid quantity '%s'", line, getCell(row, mapping.Index(roleQuantity))))
			continue
		}
		if length <= 0 || depth <= 0 || qty <= 0 {
			res.Errors = append(res.Errors, line+": Length, depth, and quantity must be positive")
			continue
		}
		res.Pieces = append(res.Pieces, model.NewCountertopPiece(label, length, depth, qty))
	}
	return res
}
