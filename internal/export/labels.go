package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/GlassQuote/internal/model"
)

// PanelLabel is stuck on each cut glass panel so the installer can match it
// to the drawing. It is also the QR payload.
type PanelLabel struct {
	QuoteID     string  `json:"quote"`
	PanelID     string  `json:"panel"`
	Side        string  `json:"side"`
	Kind        string  `json:"kind"`
	ComponentID string  `json:"component"`
	Width       float64 `json:"width_mm"`
	Height      float64 `json:"height_mm"`
	Hardware    int     `json:"hardware"`
}

// Avery 5160-compatible layout: 3 columns x 10 rows on US Letter.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectPanelLabels returns one label per panel in derivation order.
func CollectPanelLabels(quoteID string, g model.GeometryInstance) []PanelLabel {
	hw := make(map[string]int)
	for _, h := range g.Hardware {
		if h.PanelID != "" && h.Category != model.CategoryProfile {
			hw[h.PanelID]++
		}
	}
	labels := make([]PanelLabel, 0, len(g.Panels))
	for _, p := range g.Panels {
		labels = append(labels, PanelLabel{
			QuoteID:     quoteID,
			PanelID:     p.ID,
			Side:        p.Side.String(),
			Kind:        string(p.Kind),
			ComponentID: p.ComponentID,
			Width:       p.Width,
			Height:      p.Height,
			Hardware:    hw[p.ID],
		})
	}
	return labels
}

// ExportPanelLabels writes a sheet of QR-coded panel labels to path.
func ExportPanelLabels(path, quoteID string, g model.GeometryInstance) error {
	labels := CollectPanelLabels(quoteID, g)
	if len(labels) == 0 {
		return fmt.Errorf("no panels to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderPanelLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.PanelID, err)
		}
	}
	return pdf.OutputFileAndClose(path)
}

func renderPanelLabel(pdf *fpdf.Fpdf, x, y float64, info PanelLabel) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	imgName := "qr_" + info.QuoteID + "_" + info.PanelID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2,
		qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, info.PanelID, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%.0f x %.0f mm", info.Width, info.Height), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, info.ComponentID, "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Quote %s | %d fittings", orDash(info.QuoteID), info.Hardware), "", 0, "L", false, 0, "")

	if info.Kind == string(model.PanelDoor) {
		pdf.SetXY(textX, y+labelPadding+16)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Door leaf", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}
