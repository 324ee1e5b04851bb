package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/GlassQuote/internal/importer"
	"github.com/piwi3910/GlassQuote/internal/project"
)

// showCatalogDialog lists the loaded components and packages.
func (a *App) showCatalogDialog() {
	cur := a.cat.Currency()
	bold := fyne.TextStyle{Bold: true}

	components := container.NewVBox(container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Category", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Unit", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Price ("+cur.Code+")", fyne.TextAlignTrailing, bold),
	), widget.NewSeparator())
	for _, c := range a.cat.ListComponents() {
		components.Add(container.NewGridWithColumns(5,
			widget.NewLabel(c.ID),
			widget.NewLabel(c.Name),
			widget.NewLabel(string(c.Category)),
			widget.NewLabel(c.Unit.Symbol()),
			widget.NewLabelWithStyle(fmt.Sprintf("%.*f", cur.MinorUnits, c.UnitPrice), fyne.TextAlignTrailing, fyne.TextStyle{}),
		))
	}

	packages := container.NewVBox(container.NewGridWithColumns(4,
		widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Front", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Components", fyne.TextAlignLeading, bold),
	), widget.NewSeparator())
	for _, p := range a.cat.ListPackages() {
		ids := make([]string, len(p.Items))
		for i, it := range p.Items {
			ids[i] = it.ComponentID
		}
		packages.Add(container.NewGridWithColumns(4,
			widget.NewLabel(p.ID),
			widget.NewLabel(p.Name),
			widget.NewLabel(string(p.Front)),
			widget.NewLabel(strings.Join(ids, ", ")),
		))
	}

	tabs := container.NewAppTabs(
		container.NewTabItem(fmt.Sprintf("Components (%d)", len(a.cat.ListComponents())), container.NewVScroll(components)),
		container.NewTabItem(fmt.Sprintf("Packages (%d)", len(a.cat.ListPackages())), container.NewVScroll(packages)),
	)

	d := dialog.NewCustom("Catalog", "Close", tabs, a.window)
	d.Resize(fyne.NewSize(820, 520))
	d.Show()
}

// importPriceSheet updates unit prices from a CSV or Excel price sheet.
func (a *App) importPriceSheet() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		imp := importer.ImportPrices(reader.URI().Path())
		if len(imp.Rows) == 0 {
			msg := "No prices found in the sheet."
			if len(imp.Errors) > 0 {
				msg += "\n\n" + strings.Join(imp.Errors, "\n")
			}
			dialog.ShowError(fmt.Errorf("%s", msg), a.window)
			return
		}

		next, warnings, err := importer.ApplyPrices(a.cat, imp)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if err := a.setCatalog(next); err != nil {
			dialog.ShowError(err, a.window)
			return
		}

		warnings = append(imp.Warnings, warnings...)
		if len(warnings) > 0 {
			a.log.Warn().Strs("warnings", warnings).Msg("price import warnings")
		}
		msg := fmt.Sprintf("Updated %d prices.", len(imp.Rows))
		if n := len(imp.Errors) + len(warnings); n > 0 {
			msg += fmt.Sprintf("\n\n%d rows were skipped or need attention:\n%s", n,
				strings.Join(append(append([]string{}, imp.Errors...), warnings...), "\n"))
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}, a.window)
}

// importCatalog merges components and packages from another catalog file.
func (a *App) importCatalog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		before := len(a.cat.ListComponents()) + len(a.cat.ListPackages())
		merged, err := project.ImportCatalog(reader.URI().Path(), a.cat)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if err := a.setCatalog(merged); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		added := len(merged.ListComponents()) + len(merged.ListPackages()) - before
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Added %d components and packages. Entries with existing IDs were kept.", added), a.window)
	}, a.window)
}

// exportCatalog writes the loaded catalog as YAML.
func (a *App) exportCatalog() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if err := project.SaveCatalog(path, a.cat); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Catalog saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("glassquote-catalog.yaml")
	d.Show()
}
