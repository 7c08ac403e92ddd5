package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// NewSplashContent is what the splash window shows while startup work runs.
func NewSplashContent(appName string) fyne.CanvasObject {
	title := widget.NewLabelWithStyle(appName, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	status := widget.NewLabelWithStyle("Initializing...", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	progress := widget.NewProgressBarInfinite()

	return container.NewVBox(
		layout.NewSpacer(),
		title,
		status,
		progress,
		layout.NewSpacer(),
	)
}
