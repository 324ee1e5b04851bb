package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/piwi3910/GlassQuote/internal/engine"
	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/session"
	"github.com/piwi3910/GlassQuote/internal/ui/widgets"
	"github.com/piwi3910/GlassQuote/internal/view"
)

// rotateNudge is the angle applied by the rotate buttons, in degrees.
const rotateNudge = 15.0

// glassPanel is the glass structure configurator tab.
type glassPanel struct {
	app     *App
	session *session.Session

	widthEntry  *widget.Entry
	depthEntry  *widget.Entry
	heightEntry *widget.Entry
	leftCheck   *widget.Check
	backCheck   *widget.Check
	rightCheck  *widget.Check
	pkgSelect   *widget.Select
	packages    []model.Package

	status    *widget.Label
	quoteBox  *fyne.Container
	planBox   *fyne.Container
	preview   *widgets.StructurePreview
	plan      *widgets.PlanCanvas
	playBtn   *ttwidget.Button
	undoBtn   *ttwidget.Button
	redoBtn   *ttwidget.Button
	commitBtn *widget.Button
	leadLabel *widget.Label

	lead    model.Lead
	syncing bool
	// set while widgets are being synced from the editor so their callbacks
	// do not record edits
	updating bool
}

// newGlassPanel starts a session on the configured defaults. If the saved
// default package is missing from the catalog the first package is used.
func newGlassPanel(a *App) (*glassPanel, error) {
	p := &glassPanel{app: a}
	pkgID := p.validPackage(a.config.DefaultPackageID)
	if err := p.start(a.config.DefaultStructure, pkgID); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *glassPanel) validPackage(id string) string {
	if _, err := p.app.cat.GetPackage(id); err == nil {
		return id
	}
	if pkgs := p.app.cat.ListPackages(); len(pkgs) > 0 {
		p.app.log.Warn().Str("package", id).Str("fallback", pkgs[0].ID).Msg("default package not in catalog")
		return pkgs[0].ID
	}
	return id
}

// start opens a session and subscribes the panel to it.
func (p *glassPanel) start(cfg model.StructureConfig, pkgID string) error {
	s, err := session.New(p.app.cat, cfg, pkgID, p.app.adapter, session.Options{
		Ticks:      view.IntervalTicks{Interval: p.app.config.RotateInterval()},
		RotateStep: p.app.config.RotateStep,
		Log:        p.app.log,
	})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	s.OnResult(func(session.Result) {
		fyne.Do(func() {
			if p.session == s {
				p.refresh()
			}
		})
	})
	s.View().OnChange(func(model.ViewState) {
		fyne.Do(func() {
			if p.session == s {
				p.refreshPreview()
			}
		})
	})
	p.session = s
	p.packages = p.app.cat.ListPackages()
	return nil
}

func (p *glassPanel) build() fyne.CanvasObject {
	p.widthEntry = p.dimensionEntry(model.AxisWidth)
	p.depthEntry = p.dimensionEntry(model.AxisDepth)
	p.heightEntry = p.dimensionEntry(model.AxisHeight)
	applyBtn := widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), p.applyDimensions)
	p.undoBtn = newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", p.undo)
	p.redoBtn = newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", p.redo)

	p.leftCheck = p.wallCheck("Left wall", model.SideLeft)
	p.backCheck = p.wallCheck("Back wall", model.SideBack)
	p.rightCheck = p.wallCheck("Right wall", model.SideRight)

	p.pkgSelect = widget.NewSelect(nil, func(string) {
		if p.updating {
			return
		}
		idx := p.pkgSelect.SelectedIndex()
		if idx < 0 || idx >= len(p.packages) {
			return
		}
		p.report(p.session.Editor().SelectPackage(p.packages[idx].ID))
	})

	p.status = widget.NewLabel("")
	p.status.Wrapping = fyne.TextWrapWord
	p.leadLabel = widget.NewLabel("")
	p.leadLabel.Wrapping = fyne.TextWrapWord
	p.commitBtn = widget.NewButtonWithIcon("Commit to Lead", theme.MailSendIcon(), p.commit)
	p.commitBtn.Importance = widget.HighImportance

	structureCard := widget.NewCard("Structure", "Dimensions in mm", container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("Width"), p.widthEntry,
			widget.NewLabel("Depth"), p.depthEntry,
			widget.NewLabel("Height"), p.heightEntry,
		),
		container.NewHBox(p.undoBtn, p.redoBtn, layout.NewSpacer(), applyBtn),
	))
	wallsCard := widget.NewCard("Walls", "The front is always open",
		container.NewVBox(p.leftCheck, p.backCheck, p.rightCheck))
	packageCard := widget.NewCard("Package", "", container.NewVBox(
		p.pkgSelect,
		widget.NewButtonWithIcon("Compare Packages", theme.ListIcon(), p.showCompareDialog),
	))
	crmCard := widget.NewCard("Host CRM", "", container.NewVBox(p.leadLabel, p.commitBtn))

	left := container.NewVScroll(container.NewVBox(structureCard, wallsCard, packageCard, crmCard))

	p.preview = widgets.NewStructurePreview(480, 360)
	p.playBtn = newIconButtonWithTooltip(theme.MediaPlayIcon(), "Auto-rotate", func() {
		p.session.View().Toggle()
	})
	toolbar := container.NewHBox(
		p.playBtn,
		newIconButtonWithTooltip(theme.NavigateBackIcon(), "Rotate left", func() {
			p.session.View().Rotate(-rotateNudge)
		}),
		newIconButtonWithTooltip(theme.NavigateNextIcon(), "Rotate right", func() {
			p.session.View().Rotate(rotateNudge)
		}),
		newIconButtonWithTooltip(theme.ViewRestoreIcon(), "Reset view", func() {
			p.session.View().Reset()
		}),
	)
	previewTab := container.NewBorder(toolbar, nil, nil, nil, p.preview)

	p.plan = widgets.NewPlanCanvas(model.GeometryInstance{}, 420, 320)
	p.planBox = container.NewVBox()
	p.quoteBox = container.NewVBox()

	views := container.NewAppTabs(
		container.NewTabItem("3D Preview", previewTab),
		container.NewTabItem("Plan", container.NewVScroll(p.planBox)),
	)
	quote := container.NewBorder(
		widget.NewLabelWithStyle("Quote", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.status, nil, nil,
		container.NewVScroll(p.quoteBox),
	)

	right := container.NewVSplit(views, quote)
	right.SetOffset(0.6)
	split := container.NewHSplit(left, right)
	split.SetOffset(0.28)

	p.refresh()
	p.loadLead()
	return split
}

func (p *glassPanel) dimensionEntry(axis model.Axis) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder(axis.String() + " in mm")
	e.OnSubmitted = func(text string) {
		v, err := parseDimension(axis, text)
		if err != nil {
			p.report(err)
			return
		}
		p.report(p.session.Editor().SetDimension(axis, v))
	}
	return e
}

// applyDimensions submits all three entries. Each valid value is one
// undoable edit.
func (p *glassPanel) applyDimensions() {
	entries := []struct {
		axis  model.Axis
		entry *widget.Entry
	}{
		{model.AxisWidth, p.widthEntry},
		{model.AxisDepth, p.depthEntry},
		{model.AxisHeight, p.heightEntry},
	}
	values := make([]float64, len(entries))
	for i, e := range entries {
		v, err := parseDimension(e.axis, e.entry.Text)
		if err != nil {
			p.report(err)
			return
		}
		values[i] = v
	}
	for i, e := range entries {
		if err := p.session.Editor().SetDimension(e.axis, values[i]); err != nil {
			p.report(err)
			return
		}
	}
}

func (p *glassPanel) wallCheck(label string, side model.Side) *widget.Check {
	return widget.NewCheck(label, func(present bool) {
		if p.updating {
			return
		}
		p.report(p.session.Editor().SetWall(side, present))
	})
}

// report shows an edit error in the status line. Rejected edits leave the
// configuration unchanged, so the widgets are synced back.
func (p *glassPanel) report(err error) {
	if err == nil {
		return
	}
	p.app.log.Debug().Err(err).Msg("edit rejected")
	p.refresh()
	if model.IsUserError(err) || errors.Is(err, model.ErrNotFound) {
		p.status.SetText(err.Error())
		return
	}
	dialog.ShowError(err, p.app.window)
}

// refresh syncs every widget with the editor and the latest result.
func (p *glassPanel) refresh() {
	if p.status == nil {
		return
	}
	ed := p.session.Editor()
	cfg := ed.Config()
	res := p.session.Result()

	p.updating = true
	p.widthEntry.SetText(formatDimension(cfg.Width))
	p.depthEntry.SetText(formatDimension(cfg.Depth))
	p.heightEntry.SetText(formatDimension(cfg.Height))
	p.leftCheck.SetChecked(cfg.HasLeftWall)
	p.backCheck.SetChecked(cfg.HasBackWall)
	p.rightCheck.SetChecked(cfg.HasRightWall)

	names := make([]string, len(p.packages))
	selected := -1
	for i, pkg := range p.packages {
		names[i] = pkg.Name
		if pkg.ID == ed.PackageID() {
			selected = i
		}
	}
	p.pkgSelect.SetOptions(names)
	if selected >= 0 {
		p.pkgSelect.SetSelectedIndex(selected)
	}
	p.updating = false

	p.status.SetText(statusText(res, p.session.CRM().Online()))
	p.refreshQuote(res)
	p.refreshPlan(res)
	p.refreshPreview()
	p.refreshHistory()
	p.refreshCommit()
}

func (p *glassPanel) refreshHistory() {
	ed := p.session.Editor()
	historyButton(p.undoBtn, "Undo", ed.UndoLabel())
	historyButton(p.redoBtn, "Redo", ed.RedoLabel())
}

func historyButton(btn *ttwidget.Button, verb, label string) {
	if label == "" {
		btn.SetToolTip("Nothing to " + strings.ToLower(verb))
		btn.Disable()
		return
	}
	btn.SetToolTip(verb + " " + strings.ToLower(label))
	btn.Enable()
}

func (p *glassPanel) refreshQuote(res session.Result) {
	p.quoteBox.RemoveAll()
	if !res.Valid {
		p.quoteBox.Add(widget.NewLabel("No quote yet."))
		p.quoteBox.Refresh()
		return
	}
	bold := fyne.TextStyle{Bold: true}
	p.quoteBox.Add(container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("Component", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Quantity", fyne.TextAlignTrailing, bold),
		widget.NewLabelWithStyle("Unit Price", fyne.TextAlignTrailing, bold),
		widget.NewLabelWithStyle("Total", fyne.TextAlignTrailing, bold),
	))
	p.quoteBox.Add(widget.NewSeparator())
	for _, row := range quoteRows(res.Quote) {
		p.quoteBox.Add(container.NewGridWithColumns(4,
			widget.NewLabel(row.Name),
			widget.NewLabelWithStyle(row.Quantity, fyne.TextAlignTrailing, fyne.TextStyle{}),
			widget.NewLabelWithStyle(row.UnitPrice, fyne.TextAlignTrailing, fyne.TextStyle{}),
			widget.NewLabelWithStyle(row.Total, fyne.TextAlignTrailing, fyne.TextStyle{}),
		))
	}
	p.quoteBox.Add(widget.NewSeparator())
	total := widget.NewLabelWithStyle("Grand total "+res.Quote.FormatMoney(res.Quote.GrandTotal),
		fyne.TextAlignTrailing, bold)
	if res.Stale {
		total.SetText(total.Text + " (outdated)")
	}
	p.quoteBox.Add(total)
	p.quoteBox.Refresh()
}

func (p *glassPanel) refreshPlan(res session.Result) {
	p.planBox.RemoveAll()
	if !res.Valid {
		p.planBox.Add(widget.NewLabel("No structure derived yet."))
		p.planBox.Refresh()
		return
	}
	p.plan.SetGeometry(res.Geometry, res.Stale)
	p.planBox.Add(widgets.RenderPanelSummary(p.plan, res.Geometry))
	p.planBox.Refresh()
}

func (p *glassPanel) refreshPreview() {
	if p.preview == nil {
		return
	}
	if p.session.View().State().IsPlaying {
		setButtonState(p.playBtn, theme.MediaPauseIcon(), "Stop rotating")
	} else {
		setButtonState(p.playBtn, theme.MediaPlayIcon(), "Auto-rotate")
	}
	scene, ok := p.session.Scene(view.FitCamera(p.session.Result().Geometry))
	if !ok {
		p.preview.Clear()
		return
	}
	p.preview.SetScene(scene, p.session.Result().Stale)
}

func (p *glassPanel) refreshCommit() {
	if p.syncing || p.lead.ID == "" || !p.session.CanCommit() {
		p.commitBtn.Disable()
		return
	}
	p.commitBtn.Enable()
}

// loadLead fetches the host's current lead in the background.
func (p *glassPanel) loadLead() {
	adapter := p.session.CRM()
	if !adapter.Online() {
		p.leadLabel.SetText("No host CRM configured. Quotes can be exported but not committed.")
		return
	}
	p.leadLabel.SetText("Loading lead...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.app.config.CrmTimeout())
		defer cancel()
		lead, err := adapter.Lead(ctx)
		fyne.Do(func() {
			if err != nil {
				p.lead = model.Lead{}
				p.leadLabel.SetText("Could not load the lead: " + err.Error())
			} else {
				p.lead = lead
				text := "Lead " + lead.ID
				if lead.Name != "" {
					text += ": " + lead.Name
				}
				if lead.Contact.Name != "" {
					text += "\n" + lead.Contact.Name
				}
				p.leadLabel.SetText(text)
			}
			p.refreshCommit()
		})
	}()
}

func (p *glassPanel) commit() {
	if p.syncing {
		return
	}
	s := p.session
	err := s.CommitAsync(p.lead.ID, func(res session.CommitResult) {
		fyne.Do(func() {
			p.syncing = false
			p.refreshCommit()
			p.commitDone(res)
		})
	})
	if err != nil {
		p.report(err)
		return
	}
	p.syncing = true
	p.commitBtn.Disable()
	p.status.SetText("Sending quote to the host CRM...")
}

func (p *glassPanel) commitDone(res session.CommitResult) {
	p.status.SetText(statusText(p.session.Result(), p.session.CRM().Online()))
	if res.Err != nil {
		p.app.log.Warn().Err(res.Err).Str("quote", res.Quote.ID).Msg("commit failed")
		msg := res.Err.Error()
		if res.Quote.ID != "" {
			msg = commitSummary(res) + "\n" + msg
		}
		dialog.ShowError(errors.New(msg), p.app.window)
		return
	}
	p.app.log.Info().Str("quote", res.Quote.ID).Str("lead", res.Ack.LeadID).Msg("quote committed")
	dialog.ShowInformation("Quote Committed", commitSummary(res), p.app.window)
}

// showCompareDialog prices the current configuration under every package.
func (p *glassPanel) showCompareDialog() {
	if p == nil {
		return
	}
	results := p.session.Compare()
	cheapest := engine.Cheapest(results)
	bold := fyne.TextStyle{Bold: true}

	rows := container.NewVBox(container.NewGridWithColumns(6,
		widget.NewLabelWithStyle("Package", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Panels", fyne.TextAlignTrailing, bold),
		widget.NewLabelWithStyle("Doors", fyne.TextAlignTrailing, bold),
		widget.NewLabelWithStyle("Hardware", fyne.TextAlignTrailing, bold),
		widget.NewLabelWithStyle("Total", fyne.TextAlignTrailing, bold),
		widget.NewLabel(""),
	), widget.NewSeparator())

	var d dialog.Dialog
	for _, r := range results {
		name := r.Package.Name
		if cheapest != nil && cheapest.Package.ID == r.Package.ID {
			name += " (cheapest)"
		}
		if !r.OK() {
			reason := "not available"
			if model.IsUserError(r.Err) {
				reason = r.Err.Error()
			}
			rows.Add(container.NewGridWithColumns(2, widget.NewLabel(name), widget.NewLabel(reason)))
			continue
		}
		id := r.Package.ID
		use := widget.NewButton("Use", func() {
			p.report(p.session.Editor().SelectPackage(id))
			d.Hide()
		})
		if id == p.session.Editor().PackageID() {
			use.Disable()
		}
		rows.Add(container.NewGridWithColumns(6,
			widget.NewLabel(name),
			widget.NewLabelWithStyle(fmt.Sprintf("%d", r.PanelCount), fyne.TextAlignTrailing, fyne.TextStyle{}),
			widget.NewLabelWithStyle(fmt.Sprintf("%d", r.DoorCount), fyne.TextAlignTrailing, fyne.TextStyle{}),
			widget.NewLabelWithStyle(fmt.Sprintf("%d", r.HardwareCount), fyne.TextAlignTrailing, fyne.TextStyle{}),
			widget.NewLabelWithStyle(r.Quote.FormatMoney(r.Quote.GrandTotal), fyne.TextAlignTrailing, fyne.TextStyle{}),
			use,
		))
	}

	d = dialog.NewCustom("Compare Packages", "Close", container.NewVScroll(rows), p.app.window)
	d.Resize(fyne.NewSize(760, 420))
	d.Show()
}

func (p *glassPanel) reset() {
	if p == nil {
		return
	}
	t := model.NewDesignTemplate("new configuration", "", p.validPackage(p.app.config.DefaultPackageID),
		p.app.config.DefaultStructure)
	p.report(p.session.Editor().Load(t))
}

func (p *glassPanel) undo() {
	if p == nil {
		return
	}
	if !p.session.Editor().Undo() {
		p.status.SetText("Nothing to undo.")
	}
}

func (p *glassPanel) redo() {
	if p == nil {
		return
	}
	if !p.session.Editor().Redo() {
		p.status.SetText("Nothing to redo.")
	}
}

// restart reopens the session on the current catalog, keeping the
// configuration. Edit history starts over.
func (p *glassPanel) restart() error {
	if p == nil {
		return nil
	}
	old := p.session
	ed := old.Editor()
	if err := p.start(ed.Config(), p.validPackage(ed.PackageID())); err != nil {
		return err
	}
	old.Close()
	p.refresh()
	return nil
}

func (p *glassPanel) close() {
	if p == nil {
		return
	}
	p.session.Close()
}
