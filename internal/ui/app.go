package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/piwi3910/GlassQuote/internal/catalog"
	"github.com/piwi3910/GlassQuote/internal/crm"
	"github.com/piwi3910/GlassQuote/internal/export"
	"github.com/piwi3910/GlassQuote/internal/model"
	"github.com/piwi3910/GlassQuote/internal/project"
)

// App holds all application state and UI references.
type App struct {
	app    fyne.App
	window fyne.Window
	log    zerolog.Logger
	theme  *GlassQuoteTheme

	config      model.AppConfig
	configPath  string
	cat         *catalog.Catalog
	catalogPath string
	templates   model.TemplateStore
	modes       *project.ModeStore
	adapter     *crm.Adapter

	tabs       *container.AppTabs
	glass      *glassPanel
	countertop *countertopPanel

	// startup problems shown once the window is up
	startupErrors []string
}

// NewApp loads preferences, the catalog and templates, and detects the host CRM.
// Load failures fall back to defaults and are reported after the window opens.
func NewApp(application fyne.App, window fyne.Window, log zerolog.Logger) *App {
	a := &App{
		app:         application,
		window:      window,
		log:         log.With().Str("component", "ui").Logger(),
		configPath:  project.DefaultConfigPath(),
		catalogPath: project.DefaultCatalogPath(),
		modes:       project.NewModeStore(project.DefaultUIStatePath()),
	}

	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		a.reportStartup("settings", err)
	}
	a.config = cfg
	a.theme = NewGlassQuoteTheme(cfg.Theme)
	application.Settings().SetTheme(a.theme)

	cat, err := project.LoadCatalog(a.catalogPath)
	if cat == nil {
		a.reportStartup("catalog", err)
		if cat, err = catalog.LoadDefault(); err != nil {
			a.log.Fatal().Err(err).Msg("embedded catalog is invalid")
		}
	} else if err != nil {
		a.reportStartup("catalog", err)
	}
	a.cat = cat

	templates, err := project.LoadDefaultTemplates()
	if err != nil {
		a.reportStartup("templates", err)
		templates = model.NewTemplateStore()
	}
	a.templates = templates

	a.adapter = crm.NewAdapter(crm.Detect(a.crmConfig(), a.log), export.QuotePDF, a.log)
	return a
}

func (a *App) reportStartup(what string, err error) {
	a.log.Warn().Err(err).Str("what", what).Msg("failed to load, using defaults")
	a.startupErrors = append(a.startupErrors, fmt.Sprintf("%s: %v", what, err))
}

// crmConfig overlays the saved settings on the environment.
func (a *App) crmConfig() crm.Config {
	cfg := crm.ConfigFromEnv()
	if a.config.CrmBaseURL != "" {
		cfg.BaseURL = a.config.CrmBaseURL
	}
	if a.config.CrmLeadID != "" {
		cfg.LeadID = a.config.CrmLeadID
	}
	if a.config.CrmTimeoutSeconds > 0 {
		cfg.Timeout = a.config.CrmTimeout()
	}
	return cfg
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Configuration", func() {
			a.glass.reset()
		}),
		fyne.NewMenuItem("Load Template...", func() {
			a.showLoadTemplateDialog()
		}),
		fyne.NewMenuItem("Save as Template...", func() {
			a.showSaveTemplateDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Quote PDF...", func() {
			a.exportQuotePDF()
		}),
		fyne.NewMenuItem("Export Quote Spreadsheet...", func() {
			a.exportQuoteXLSX()
		}),
		fyne.NewMenuItem("Export Plan DXF...", func() {
			a.exportPlanDXF()
		}),
		fyne.NewMenuItem("Export Panel Labels...", func() {
			a.exportPanelLabels()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup and Restore...", func() {
			a.showImportExportDialog()
		}),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() {
			a.glass.undo()
		}),
		fyne.NewMenuItem("Redo", func() {
			a.glass.redo()
		}),
	)

	catalogMenu := fyne.NewMenu("Catalog",
		fyne.NewMenuItem("Browse Catalog...", func() {
			a.showCatalogDialog()
		}),
		fyne.NewMenuItem("Compare Packages...", func() {
			a.glass.showCompareDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Price Sheet...", func() {
			a.importPriceSheet()
		}),
		fyne.NewMenuItem("Import Catalog...", func() {
			a.importCatalog()
		}),
		fyne.NewMenuItem("Export Catalog...", func() {
			a.exportCatalog()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, catalogMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	status := "offline"
	if a.adapter.Online() {
		status = "connected"
	}
	dialog.ShowInformation(
		"About GlassQuote",
		"GlassQuote: glass structure configurator and quoting\n\n"+
			"Configure showers and glass enclosures, price them from the\n"+
			"catalog and commit quotes to the host CRM.\n\n"+
			"Host CRM: "+status+"\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the mode tabs and restores the persisted mode.
func (a *App) Build() fyne.CanvasObject {
	glass, err := newGlassPanel(a)
	if err != nil {
		a.log.Error().Err(err).Msg("failed to start configurator")
		a.startupErrors = append(a.startupErrors, fmt.Sprintf("configurator: %v", err))
	}
	a.glass = glass
	a.countertop = newCountertopPanel(a)

	items := make([]*container.TabItem, 0, len(model.Modes))
	for _, m := range model.Modes {
		items = append(items, container.NewTabItem(m.Title(), a.buildModeContent(m)))
	}
	a.tabs = container.NewAppTabs(items...)
	a.tabs.SetTabLocation(container.TabLocationTop)

	a.tabs.SelectIndex(modeIndex(a.modes.Load()))
	a.tabs.OnSelected = func(item *container.TabItem) {
		mode := model.Modes[a.tabs.SelectedIndex()]
		if err := a.modes.Save(mode); err != nil {
			a.log.Warn().Err(err).Str("mode", string(mode)).Msg("failed to persist mode")
		}
	}

	a.window.SetCloseIntercept(func() {
		a.Close()
		a.window.Close()
	})
	return a.tabs
}

// ShowStartupErrors reports anything that fell back to defaults.
func (a *App) ShowStartupErrors() {
	if len(a.startupErrors) == 0 {
		return
	}
	dialog.ShowError(fmt.Errorf("some data could not be loaded and defaults are in use:\n\n%s",
		strings.Join(a.startupErrors, "\n")), a.window)
}

// Close stops background work.
func (a *App) Close() {
	if a.glass != nil {
		a.glass.close()
	}
}

func (a *App) buildModeContent(m model.Mode) fyne.CanvasObject {
	switch m {
	case model.ModeGlass:
		if a.glass == nil {
			return widget.NewLabel("The configurator could not start. Check the catalog.")
		}
		return a.glass.build()
	case model.ModeCountertop:
		return a.countertop.build()
	default:
		return container.NewCenter(widget.NewLabel("Clinic scheduling is not available in this edition."))
	}
}

func modeIndex(m model.Mode) int {
	for i, mm := range model.Modes {
		if mm == m {
			return i
		}
	}
	return modeIndex(model.DefaultMode)
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.configPath, a.config)
}

// setCatalog swaps in a new catalog, persists it and restarts the
// configurator on the same configuration.
func (a *App) setCatalog(cat *catalog.Catalog) error {
	if err := project.SaveCatalog(a.catalogPath, cat); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	a.cat = cat
	if a.glass != nil {
		if err := a.glass.restart(); err != nil {
			return err
		}
	}
	return nil
}
