package gui

import "fyne.io/fyne/v2"

type MenuActions struct {
	SubmitData        func()
	CloseSplashscreen func()
	Quit              func()
}

func NewMainMenu(actions MenuActions) *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Submit Data", actions.SubmitData),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", actions.Quit),
	)
	// Fyne adds its own Quit to the first menu unless one is flagged.
	fileMenu.Items[2].IsQuit = true

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Close Splash Screen", actions.CloseSplashscreen),
	)

	return fyne.NewMainMenu(fileMenu, viewMenu)
}
