package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/GlassQuote/internal/importer"
	"github.com/piwi3910/GlassQuote/internal/model"
)

// slabSettings are the inputs of the slab estimate besides the pieces.
type slabSettings struct {
	SlabLength   float64
	SlabDepth    float64
	CutAllowance float64
	WastePercent float64
	PricePerSlab float64
}

func defaultSlabSettings() slabSettings {
	return slabSettings{
		SlabLength:   3200,
		SlabDepth:    1600,
		CutAllowance: 5,
		WastePercent: 15,
		PricePerSlab: 850,
	}
}

// countertopPanel estimates how many stone slabs a kitchen needs.
type countertopPanel struct {
	app      *App
	pieces   []model.CountertopPiece
	settings slabSettings

	piecesBox *fyne.Container
	resultBox *fyne.Container
}

func newCountertopPanel(a *App) *countertopPanel {
	return &countertopPanel{app: a, settings: defaultSlabSettings()}
}

func (c *countertopPanel) build() fyne.CanvasObject {
	c.piecesBox = container.NewVBox()
	c.resultBox = container.NewVBox()
	c.refreshPieces()
	c.refreshEstimate()

	addBtn := widget.NewButtonWithIcon("Add Piece", theme.ContentAddIcon(), func() {
		c.showPieceDialog(-1)
	})
	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), c.importPieces)
	clearBtn := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		c.pieces = nil
		c.refreshPieces()
		c.refreshEstimate()
	})

	piecesPanel := container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Countertop Pieces", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			importBtn, clearBtn, addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(c.piecesBox),
	)

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil && v >= 0 {
				*val = v
				c.refreshEstimate()
			}
		}
		return e
	}
	s := &c.settings
	settingsCard := widget.NewCard("Slab", "", container.NewGridWithColumns(2,
		widget.NewLabel("Slab Length (mm)"), floatEntry(&s.SlabLength),
		widget.NewLabel("Slab Depth (mm)"), floatEntry(&s.SlabDepth),
		widget.NewLabel("Cut Allowance (mm)"), floatEntry(&s.CutAllowance),
		widget.NewLabel("Waste (%)"), floatEntry(&s.WastePercent),
		widget.NewLabel("Price per Slab"), floatEntry(&s.PricePerSlab),
	))
	resultCard := widget.NewCard("Estimate", "", c.resultBox)

	split := container.NewHSplit(piecesPanel, container.NewVScroll(container.NewVBox(settingsCard, resultCard)))
	split.SetOffset(0.6)
	return split
}

func (c *countertopPanel) refreshPieces() {
	c.piecesBox.RemoveAll()

	if len(c.pieces) == 0 {
		c.piecesBox.Add(widget.NewLabel("No pieces added yet. Click 'Add Piece' to begin."))
		return
	}

	bold := fyne.TextStyle{Bold: true}
	c.piecesBox.Add(container.NewGridWithColumns(6,
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Length (mm)", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Depth (mm)", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Qty", fyne.TextAlignLeading, bold),
		widget.NewLabel(""),
		widget.NewLabel(""),
	))
	c.piecesBox.Add(widget.NewSeparator())

	for i := range c.pieces {
		idx := i
		p := c.pieces[idx]
		c.piecesBox.Add(container.NewGridWithColumns(6,
			widget.NewLabel(p.Label),
			widget.NewLabel(fmt.Sprintf("%.1f", p.Length)),
			widget.NewLabel(fmt.Sprintf("%.1f", p.Depth)),
			widget.NewLabel(fmt.Sprintf("%d", p.Quantity)),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				c.showPieceDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				c.pieces = append(c.pieces[:idx], c.pieces[idx+1:]...)
				c.refreshPieces()
				c.refreshEstimate()
			}),
		))
	}
}

// showPieceDialog adds a piece when idx is negative, otherwise edits it.
func (c *countertopPanel) showPieceDialog(idx int) {
	labelEntry := widget.NewEntry()
	lengthEntry := widget.NewEntry()
	lengthEntry.SetPlaceHolder("Length in mm")
	depthEntry := widget.NewEntry()
	depthEntry.SetPlaceHolder("Depth in mm")
	qtyEntry := widget.NewEntry()

	title, confirm := "Add Piece", "Add"
	if idx >= 0 {
		p := c.pieces[idx]
		title, confirm = "Edit Piece", "Save"
		labelEntry.SetText(p.Label)
		lengthEntry.SetText(fmt.Sprintf("%.1f", p.Length))
		depthEntry.SetText(fmt.Sprintf("%.1f", p.Depth))
		qtyEntry.SetText(fmt.Sprintf("%d", p.Quantity))
	} else {
		labelEntry.SetText(fmt.Sprintf("Piece %d", len(c.pieces)+1))
		qtyEntry.SetText("1")
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("Length (mm)", lengthEntry),
			widget.NewFormItem("Depth (mm)", depthEntry),
			widget.NewFormItem("Quantity", qtyEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			l, _ := strconv.ParseFloat(strings.TrimSpace(lengthEntry.Text), 64)
			d, _ := strconv.ParseFloat(strings.TrimSpace(depthEntry.Text), 64)
			q, _ := strconv.Atoi(strings.TrimSpace(qtyEntry.Text))
			if l <= 0 || d <= 0 || q <= 0 {
				dialog.ShowError(fmt.Errorf("length, depth, and quantity must be > 0"), c.app.window)
				return
			}
			if idx >= 0 {
				c.pieces[idx].Label = labelEntry.Text
				c.pieces[idx].Length = l
				c.pieces[idx].Depth = d
				c.pieces[idx].Quantity = q
			} else {
				c.pieces = append(c.pieces, model.NewCountertopPiece(labelEntry.Text, l, d, q))
			}
			c.refreshPieces()
			c.refreshEstimate()
		},
		c.app.window,
	)
	form.Resize(fyne.NewSize(400, 300))
	form.Show()
}

func (c *countertopPanel) estimate() model.SlabEstimate {
	s := c.settings
	return model.CalculateSlabEstimate(c.pieces, s.SlabLength, s.SlabDepth, s.CutAllowance, s.WastePercent, s.PricePerSlab)
}

func (c *countertopPanel) refreshEstimate() {
	if c.resultBox == nil {
		return
	}
	c.resultBox.RemoveAll()
	for _, line := range estimateLines(c.estimate(), len(c.pieces)) {
		c.resultBox.Add(widget.NewLabel(line))
	}
	c.resultBox.Refresh()
}

// estimateLines formats an estimate for display.
func estimateLines(e model.SlabEstimate, pieces int) []string {
	if pieces == 0 {
		return []string{"Add pieces to estimate the slabs needed."}
	}
	if e.SlabArea <= 0 {
		return []string{"Enter the slab size."}
	}
	lines := []string{
		fmt.Sprintf("Piece area: %.2f m² (with %.0f mm cut allowance)", e.TotalSquareMeter, e.CutAllowance),
		fmt.Sprintf("Slab area: %.2f m²", e.SlabArea/1e6),
		fmt.Sprintf("Slabs needed: %d (%.2f exact)", e.SlabsNeededMin, e.SlabsNeededExact),
		fmt.Sprintf("Slabs with %.0f%% waste: %d", e.WastePercent, e.SlabsWithWaste),
		fmt.Sprintf("Estimated cost: %.2f", e.EstimatedCost),
	}
	if len(e.OversizePieces) > 0 {
		lines = append(lines, "Larger than a slab: "+strings.Join(e.OversizePieces, ", "))
	}
	return lines
}

func (c *countertopPanel) importPieces() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importer.ImportPieces(reader.URI().Path())
		if len(result.Errors) > 0 {
			dialog.ShowError(fmt.Errorf("errors encountered during import:\n\n%s",
				strings.Join(result.Errors, "\n")), c.app.window)
		}
		if len(result.Warnings) > 0 {
			c.app.log.Warn().Strs("warnings", result.Warnings).Msg("piece import warnings")
		}
		if len(result.Pieces) == 0 {
			return
		}
		c.pieces = append(c.pieces, result.Pieces...)
		c.refreshPieces()
		c.refreshEstimate()

		msg := fmt.Sprintf("Successfully imported %d pieces.", len(result.Pieces))
		if len(result.Errors) > 0 {
			msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
		}
		dialog.ShowInformation("Import Complete", msg, c.app.window)
	}, c.app.window)
}
