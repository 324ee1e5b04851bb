package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config
	cfg.RecentExports = append([]string(nil), a.config.RecentExports...)

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
				*val = v
			}
		}
		return e
	}

	stringEntry := func(val *string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(*val)
		e.OnChanged = func(text string) { *val = strings.TrimSpace(text) }
		return e
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	pkgs := a.cat.ListPackages()
	pkgNames := make([]string, len(pkgs))
	for i, p := range pkgs {
		pkgNames[i] = p.Name
	}
	pkgSelect := widget.NewSelect(pkgNames, nil)
	pkgSelect.OnChanged = func(string) {
		if i := pkgSelect.SelectedIndex(); i >= 0 {
			cfg.DefaultPackageID = pkgs[i].ID
		}
	}
	for i, p := range pkgs {
		if p.ID == cfg.DefaultPackageID {
			pkgSelect.SetSelectedIndex(i)
		}
	}

	s := &cfg.DefaultStructure
	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Package", pkgSelect),
		widget.NewFormItem("Default Width (mm)", floatEntry(&s.Width)),
		widget.NewFormItem("Default Depth (mm)", floatEntry(&s.Depth)),
		widget.NewFormItem("Default Height (mm)", floatEntry(&s.Height)),
		widget.NewFormItem("Default Walls", container.NewHBox(
			wallCheckFor("Left", &s.HasLeftWall),
			wallCheckFor("Back", &s.HasBackWall),
			wallCheckFor("Right", &s.HasRightWall),
		)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Rotate Step (deg)", floatEntry(&cfg.RotateStep)),
		widget.NewFormItem("Rotate Interval (ms)", intEntry(&cfg.RotateIntervalMs)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Host CRM URL", stringEntry(&cfg.CrmBaseURL)),
		widget.NewFormItem("Lead ID", stringEntry(&cfg.CrmLeadID)),
		widget.NewFormItem("CRM Timeout (s)", intEntry(&cfg.CrmTimeoutSeconds)),
	}
	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if err := validateSettings(cfg); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			crmChanged := cfg.CrmBaseURL != a.config.CrmBaseURL ||
				cfg.CrmLeadID != a.config.CrmLeadID ||
				cfg.CrmTimeoutSeconds != a.config.CrmTimeoutSeconds
			a.config = cfg
			a.theme.SetPreference(cfg.Theme)
			a.app.Settings().SetTheme(a.theme)
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
				return
			}
			msg := "Application settings have been saved."
			if crmChanged {
				msg += "\n\nHost CRM changes apply after a restart."
			}
			dialog.ShowInformation("Settings Saved", msg, a.window)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(520, 620))
	d.Show()
}

func wallCheckFor(label string, val *bool) *widget.Check {
	c := widget.NewCheck(label, func(b bool) { *val = b })
	c.SetChecked(*val)
	return c
}

// validateSettings rejects defaults a new session could not start from.
func validateSettings(cfg model.AppConfig) error {
	if err := cfg.DefaultStructure.Validate(); err != nil {
		return fmt.Errorf("default structure: %w", err)
	}
	if cfg.RotateStep <= 0 || cfg.RotateStep >= 360 {
		return fmt.Errorf("rotate step must be between 0 and 360 degrees")
	}
	if cfg.RotateIntervalMs < 10 {
		return fmt.Errorf("rotate interval must be at least 10 ms")
	}
	if cfg.CrmTimeoutSeconds < 0 {
		return fmt.Errorf("crm timeout must not be negative")
	}
	return nil
}

// showImportExportDialog displays the backup and restore dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, a.modes.Load(), a.templates); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("All application data exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("glassquote-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your settings and design templates.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					if err := a.applyBackup(backup); err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export settings, the selected mode and design templates to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Backup and Restore", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// applyBackup replaces settings, templates and the persisted mode.
func (a *App) applyBackup(backup project.BackupData) error {
	a.config = backup.Config
	a.theme.SetPreference(a.config.Theme)
	a.app.Settings().SetTheme(a.theme)
	if err := a.saveConfig(); err != nil {
		return fmt.Errorf("failed to save imported settings: %w", err)
	}
	a.templates = backup.Templates
	if err := project.SaveDefaultTemplates(a.templates); err != nil {
		return fmt.Errorf("failed to save imported templates: %w", err)
	}
	if err := a.modes.Save(backup.Mode); err != nil {
		return fmt.Errorf("failed to save imported mode: %w", err)
	}
	if a.tabs != nil {
		a.tabs.SelectIndex(modeIndex(backup.Mode))
	}
	return nil
}
