// ShelfPlan - Planogram Editor for Promo Racks
//
// A cross-platform desktop application for placing catalog products on
// the shelves of a promo rack and exporting planograms and shelf labels.
//
// Build:
//   go build -o shelfplan ./cmd/shelfplan
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/charmbracelet/log"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/ShelfPlan/internal/project"
	"github.com/piwi3910/ShelfPlan/internal/ui"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Prefix:          "shelfplan",
	})
	if os.Getenv("SHELFPLAN_DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	}

	application := app.NewWithID("com.piwi3910.shelfplan")
	window := application.NewWindow("ShelfPlan - Planogram Editor")

	appUI := ui.NewApp(application, window, logger, project.DefaultConfigDir())
	application.Settings().SetTheme(appUI.Theme())
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
