// Package export writes committed quotes and their geometry to PDF, DXF and
// XLSX files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/view"
)

// rgb is a fill or stroke colour.
type rgb struct {
	R, G, B int
}

// Colours match the on-screen plan view.
var (
	wallColor  = rgb{R: 150, G: 150, B: 150}
	panelColor = rgb{R: 33, G: 150, B: 243}
	doorColor  = rgb{R: 255, G: 152, B: 0}
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 12.0

	previewAngle = 30.0
	previewPx    = 900
)

// QuoteDocument is everything printed on a quote.
type QuoteDocument struct {
	Quote    model.Quote
	Geometry model.GeometryInstance
	Lead     model.Lead
}

// QRPayload is the summary encoded in the quote's QR code.
type QRPayload struct {
	QuoteID   string `json:"quote"`
	PackageID string `json:"package"`
	LeadID    string `json:"lead,omitempty"`
	Total     string `json:"total"`
	Currency  string `json:"currency"`
	Panels    int    `json:"panels"`
}

// NewQRPayload summarizes doc for the QR code.
func NewQRPayload(doc QuoteDocument) QRPayload {
	return QRPayload{
		QuoteID:   doc.Quote.ID,
		PackageID: doc.Quote.PackageID,
		LeadID:    doc.Lead.ID,
		Total:     doc.Quote.GrandTotal.StringFixed(doc.Quote.Currency.MinorUnits),
		Currency:  doc.Quote.Currency.Code,
		Panels:    len(doc.Geometry.Panels),
	}
}

// ExportQuotePDF writes the quote document to path.
func ExportQuotePDF(path string, doc QuoteDocument) error {
	pdf, err := buildQuotePDF(doc)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteQuotePDF writes the quote document to w.
func WriteQuotePDF(w io.Writer, doc QuoteDocument) error {
	pdf, err := buildQuotePDF(doc)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// QuotePDF renders a quote without lead details. Its signature matches the
// CRM adapter's attachment renderer.
func QuotePDF(q model.Quote, g model.GeometryInstance) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := WriteQuotePDF(&buf, QuoteDocument{Quote: q, Geometry: g}); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), QuoteFilename(q, "pdf"), nil
}

// QuoteFilename names an exported quote file.
func QuoteFilename(q model.Quote, ext string) string {
	id := q.ID
	if id == "" {
		id = "draft"
	}
	return fmt.Sprintf("quote-%s.%s", id, ext)
}

func buildQuotePDF(doc QuoteDocument) (*fpdf.Fpdf, error) {
	if len(doc.Quote.Lines) == 0 {
		return nil, fmt.Errorf("no quote lines to export")
	}
	if len(doc.Geometry.Panels) == 0 {
		return nil, fmt.Errorf("no panels to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderDrawingPage(pdf, doc)
	if err := renderPreview(pdf, doc.Geometry); err != nil {
		return nil, err
	}

	pdf.AddPage()
	if err := renderQuotePage(pdf, doc); err != nil {
		return nil, err
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to build PDF: %w", err)
	}
	return pdf, nil
}

// renderDrawingPage draws the title block and the top-down plan on the left
// half of the page.
func renderDrawingPage(pdf *fpdf.Fpdf, doc QuoteDocument) {
	q := doc.Quote
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Glass structure %s: %.0f x %.0f x %.0f mm",
		q.PackageID, doc.Geometry.Bounds.X, doc.Geometry.Bounds.Z, doc.Geometry.Bounds.Y)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	info := fmt.Sprintf("Quote %s | %s | Panels: %d | Doors: %d | Total: %s",
		orDash(q.ID), orDash(q.CreatedAt), len(doc.Geometry.Panels),
		doc.Geometry.CountPanels(model.PanelDoor), q.FormatMoney(q.GrandTotal))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, info, "", 0, "L", false, 0, "")
	if doc.Lead.ID != "" {
		pdf.SetXY(marginLeft, marginTop+headerHeight+5)
		lead := fmt.Sprintf("Lead %s: %s (%s, %s)", doc.Lead.ID, doc.Lead.Name, doc.Lead.Contact.Name, doc.Lead.Contact.Phone)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, lead, "", 0, "L", false, 0, "")
	}

	drawW := (pageWidth-marginLeft-marginRight)/2 - 5
	drawH := pageHeight - drawAreaTop - marginBottom - 10
	drawPlan(pdf, doc.Geometry, marginLeft, drawAreaTop, drawW, drawH)
}

// drawPlan draws walls and panels seen from above, front edge at the bottom.
func drawPlan(pdf *fpdf.Fpdf, g model.GeometryInstance, x, y, w, h float64) {
	width, depth := g.Bounds.X, g.Bounds.Z
	if width <= 0 || depth <= 0 {
		return
	}
	scale := math.Min(w/width, h/depth)
	cw, ch := width*scale, depth*scale
	ox := x + (w-cw)/2
	oy := y

	toPage := func(v model.Vec3) (float64, float64) {
		return ox + v.X*scale, oy + (depth-v.Z)*scale
	}

	// Footprint outline
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)
	pdf.Rect(ox, oy, cw, ch, "D")

	pdf.SetDrawColor(wallColor.R, wallColor.G, wallColor.B)
	pdf.SetLineWidth(2.0)
	for _, wall := range g.Walls {
		x1, y1 := toPage(wall.From)
		x2, y2 := toPage(wall.To)
		pdf.Line(x1, y1, x2, y2)
	}

	pdf.SetFont("Helvetica", "", 7)
	for _, p := range g.Panels {
		col := panelColor
		if p.Kind == model.PanelDoor {
			col = doorColor
		}
		c := p.Corners()
		x1, y1 := toPage(c[0])
		x2, y2 := toPage(c[1])
		pdf.SetDrawColor(col.R, col.G, col.B)
		pdf.SetLineWidth(1.0)
		pdf.Line(x1, y1, x2, y2)

		label := fmt.Sprintf("%s %.0f", p.ID, p.Width)
		lw := pdf.GetStringWidth(label)
		pdf.SetTextColor(col.R, col.G, col.B)
		pdf.SetXY((x1+x2)/2-lw/2, (y1+y2)/2-5)
		pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)

	drawDimensionAnnotations(pdf, width, depth, ox, oy, cw, ch)
}

// drawDimensionAnnotations labels the footprint's width below and depth to the left.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, width, depth, ox, oy, cw, ch float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(ox+(cw-wLabelW)/2, oy+ch+2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	depthLabel := fmt.Sprintf("%.0f mm", depth)
	pdf.TransformBegin()
	pdf.TransformRotate(90, ox-3, oy+ch/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(ox-3-dLabelW/2, oy+ch/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// renderPreview places a rendered 3D view on the right half of the page.
func renderPreview(pdf *fpdf.Fpdf, g model.GeometryInstance) error {
	scene := view.Project(g, previewAngle, view.FitCamera(g))
	png, err := view.RenderPNG(scene, previewPx, previewPx*3/4)
	if err != nil {
		return fmt.Errorf("failed to render preview: %w", err)
	}
	pdf.RegisterImageOptionsReader("preview", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))

	half := (pageWidth - marginLeft - marginRight) / 2
	x := marginLeft + half + 5
	w := half - 5
	pdf.ImageOptions("preview", x, drawAreaTop, w, w*3/4, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

// renderQuotePage prints the line table, total and QR summary.
func renderQuotePage(pdf *fpdf.Fpdf, doc QuoteDocument) error {
	q := doc.Quote
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Quote "+orDash(q.ID), "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	colWidths := []float64{70, 35, 25, 20, 35, 35}
	headers := []string{"Component", "Category", "Quantity", "Unit", "Unit price", "Line total"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, l := range q.Lines {
		row := []string{
			l.Name,
			string(l.Category),
			l.Quantity.String(),
			pdfUnit(l.Unit),
			l.UnitPrice.StringFixed(q.Currency.MinorUnits),
			l.LineTotal.StringFixed(q.Currency.MinorUnits),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			align := "R"
			if j < 2 {
				align = "L"
			}
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, align, true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	y += 4
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft, y)
	tableW := 0.0
	for _, w := range colWidths {
		tableW += w
	}
	pdf.CellFormat(tableW, 7, "Grand total: "+q.FormatMoney(q.GrandTotal), "", 0, "R", false, 0, "")

	payload, err := json.Marshal(NewQRPayload(doc))
	if err != nil {
		return fmt.Errorf("failed to marshal QR payload: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("quote_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	const qrMM = 40.0
	pdf.ImageOptions("quote_qr", pageWidth-marginRight-qrMM, marginTop+18, qrMM, qrMM, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by GlassQuote", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// pdfUnit spells units in the core fonts' character set.
func pdfUnit(u model.Unit) string {
	switch u {
	case model.UnitSquareMeter:
		return "m2"
	case model.UnitLinearMeter:
		return "m"
	default:
		return "pc"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
