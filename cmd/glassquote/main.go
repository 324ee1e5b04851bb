// GlassQuote desktop: glass structure configurator and quoting
//
// Configure showers and glass enclosures, preview them in 3D, price them
// from the catalog and commit the quote to the host CRM lead.
//
// Build:
//   go build -o glassquote ./cmd/glassquote
//
// Using fyne-cross for packaging:
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/GlassQuote/internal/logging"
	"github.com/piwi3910/GlassQuote/internal/ui"
)

func main() {
	log := logging.New(os.Stderr, os.Getenv("GLASSQUOTE_LOG_LEVEL"), logging.FormatConsole)

	application := app.NewWithID("com.piwi3910.glassquote")
	window := application.NewWindow("GlassQuote")

	appUI := ui.NewApp(application, window, log)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1400, 860))
	window.CenterOnScreen()

	log.Info().Msg("starting desktop app")
	appUI.ShowStartupErrors()
	window.ShowAndRun()
}
