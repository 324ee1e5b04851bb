package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/GlassQuote/internal/export"
	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/project"
)

var errNothingToExport = errors.New("there is no current quote to export; fix the configuration first")

// currentQuote returns an issued copy of the on-screen quote, its geometry
// and the host lead. Stale quotes are not exported.
func (a *App) currentQuote() (model.Quote, model.GeometryInstance, model.Lead, error) {
	if a.glass == nil {
		return model.Quote{}, model.GeometryInstance{}, model.Lead{}, errNothingToExport
	}
	res := a.glass.session.Result()
	if !res.Valid || res.Stale || res.Err != nil {
		return model.Quote{}, model.GeometryInstance{}, model.Lead{}, errNothingToExport
	}
	return res.Quote.Issue(time.Now()), res.Geometry.Clone(), a.glass.lead, nil
}

// saveExport asks for a destination and runs write against it.
func (a *App) saveExport(title, filename string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if err := write(path); err != nil {
			a.log.Error().Err(err).Str("path", path).Msg("export failed")
			dialog.ShowError(err, a.window)
			return
		}
		a.config.AddRecentExport(path)
		if err := a.saveConfig(); err != nil {
			a.log.Warn().Err(err).Msg("failed to record recent export")
		}
		a.log.Info().Str("path", path).Msg("exported " + strings.ToLower(title))
		dialog.ShowInformation("Export Complete", fmt.Sprintf("%s saved to %s", title, path), a.window)
	}, a.window)
	d.SetFileName(filename)
	d.Show()
}

func (a *App) exportQuotePDF() {
	q, g, lead, err := a.currentQuote()
	if err != nil {
		dialog.ShowInformation("No quote", err.Error(), a.window)
		return
	}
	a.saveExport("Quote PDF", export.QuoteFilename(q, "pdf"), func(path string) error {
		return export.ExportQuotePDF(path, export.QuoteDocument{Quote: q, Geometry: g, Lead: lead})
	})
}

func (a *App) exportQuoteXLSX() {
	q, g, _, err := a.currentQuote()
	if err != nil {
		dialog.ShowInformation("No quote", err.Error(), a.window)
		return
	}
	a.saveExport("Quote spreadsheet", export.QuoteFilename(q, "xlsx"), func(path string) error {
		return export.ExportQuoteXLSX(path, q, g)
	})
}

func (a *App) exportPlanDXF() {
	q, g, _, err := a.currentQuote()
	if err != nil {
		dialog.ShowInformation("No quote", err.Error(), a.window)
		return
	}
	a.saveExport("Plan drawing", export.QuoteFilename(q, "dxf"), func(path string) error {
		return export.ExportPlanDXF(path, g)
	})
}

func (a *App) exportPanelLabels() {
	q, g, _, err := a.currentQuote()
	if err != nil {
		dialog.ShowInformation("No quote", err.Error(), a.window)
		return
	}
	if len(g.Panels) == 0 {
		dialog.ShowInformation("No panels", "The structure has no glass panels to label.", a.window)
		return
	}
	a.saveExport("Panel labels", fmt.Sprintf("labels-%s.pdf", q.ID), func(path string) error {
		return export.ExportPanelLabels(path, q.ID, g)
	})
}

// ─── Templates ─────────────────────────────────────────────

func (a *App) showSaveTemplateDialog() {
	if a.glass == nil {
		return
	}
	ed := a.glass.session.Editor()

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Template name")
	descEntry := widget.NewMultiLineEntry()
	descEntry.SetPlaceHolder("Optional description")

	form := dialog.NewForm("Save as Template", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("template name must not be empty"), a.window)
				return
			}
			t := model.NewDesignTemplate(name, descEntry.Text, ed.PackageID(), ed.Config())
			save := func() {
				a.templates.Upsert(t)
				if err := project.SaveDefaultTemplates(a.templates); err != nil {
					dialog.ShowError(fmt.Errorf("failed to save templates: %w", err), a.window)
				}
			}
			if a.templates.FindByName(name) != nil {
				dialog.ShowConfirm("Replace Template",
					fmt.Sprintf("A template named %q already exists. Replace it?", name),
					func(replace bool) {
						if replace {
							save()
						}
					}, a.window)
				return
			}
			save()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 260))
	form.Show()
}

func (a *App) showLoadTemplateDialog() {
	if a.glass == nil {
		return
	}
	if len(a.templates.Templates) == 0 {
		dialog.ShowInformation("No templates", "Save a configuration as a template first.", a.window)
		return
	}

	list := container.NewVBox()
	var d dialog.Dialog
	var refresh func()
	refresh = func() {
		list.RemoveAll()
		for _, t := range a.templates.Templates {
			tmpl := t
			info := fmt.Sprintf("%s  (%s x %s x %s mm, %s)", tmpl.Name,
				formatDimension(tmpl.Structure.Width), formatDimension(tmpl.Structure.Depth),
				formatDimension(tmpl.Structure.Height), tmpl.PackageID)
			list.Add(container.NewBorder(nil, nil, nil,
				container.NewHBox(
					widget.NewButton("Load", func() {
						if err := a.glass.session.Editor().Load(tmpl); err != nil {
							dialog.ShowError(err, a.window)
							return
						}
						d.Hide()
					}),
					widget.NewButton("Delete", func() {
						a.templates.Remove(tmpl.ID)
						if err := project.SaveDefaultTemplates(a.templates); err != nil {
							dialog.ShowError(fmt.Errorf("failed to save templates: %w", err), a.window)
						}
						refresh()
					}),
				),
				widget.NewLabel(info),
			))
		}
		list.Refresh()
	}
	refresh()

	d = dialog.NewCustom("Load Template", "Close", container.NewVScroll(list), a.window)
	d.Resize(fyne.NewSize(620, 400))
	d.Show()
}
