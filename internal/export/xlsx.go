package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/GlassQuote/internal/model"
)

const (
	quoteSheet = "Quote"
	panelSheet = "Panels"
)

// ExportQuoteXLSX writes the quote lines and the panel cut list to an XLSX
// workbook. Money columns are written as numbers with the currency's
// precision so spreadsheets can sum them.
func ExportQuoteXLSX(path string, q model.Quote, g model.GeometryInstance) error {
	if len(q.Lines) == 0 {
		return fmt.Errorf("no quote lines to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", quoteSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	headers := []any{"Component ID", "Name", "Category", "Quantity", "Unit", "Unit price", "Line total"}
	if err := f.SetSheetRow(quoteSheet, "A1", &headers); err != nil {
		return err
	}
	for i, l := range q.Lines {
		row := []any{
			l.ComponentID,
			l.Name,
			string(l.Category),
			l.Quantity.InexactFloat64(),
			l.Unit.Symbol(),
			l.UnitPrice.InexactFloat64(),
			l.LineTotal.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(quoteSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write line %s: %w", l.ComponentID, err)
		}
	}

	totalRow := len(q.Lines) + 3
	labelCell, _ := excelize.CoordinatesToCellName(6, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(7, totalRow)
	if err := f.SetCellValue(quoteSheet, labelCell, "Total "+q.Currency.Code); err != nil {
		return err
	}
	if err := f.SetCellValue(quoteSheet, totalCell, q.GrandTotal.InexactFloat64()); err != nil {
		return err
	}
	if err := f.SetCellStyle(quoteSheet, "A1", "G1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(quoteSheet, labelCell, totalCell, bold); err != nil {
		return err
	}
	if err := f.SetColWidth(quoteSheet, "A", "B", 28); err != nil {
		return err
	}

	if _, err := f.NewSheet(panelSheet); err != nil {
		return fmt.Errorf("failed to add panel sheet: %w", err)
	}
	panelHeaders := []any{"Panel", "Side", "Kind", "Component", "Width mm", "Height mm", "Area m2"}
	if err := f.SetSheetRow(panelSheet, "A1", &panelHeaders); err != nil {
		return err
	}
	for i, p := range g.Panels {
		row := []any{p.ID, p.Side.String(), string(p.Kind), p.ComponentID, p.Width, p.Height, p.Area()}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(panelSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write panel %s: %w", p.ID, err)
		}
	}
	if err := f.SetCellStyle(panelSheet, "A1", "G1", bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
