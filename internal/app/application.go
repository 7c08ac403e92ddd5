package app

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"flexile-tracker/internal/config"
	"flexile-tracker/internal/gui"
	"flexile-tracker/internal/logger"
	"flexile-tracker/internal/shutdown"
	"flexile-tracker/internal/splash"
	"flexile-tracker/internal/tracker"
	"flexile-tracker/internal/windows"
)

const AppVersion = "1.0.0"

type Application struct {
	cfg     config.Config
	fyneApp fyne.App
	logger  logger.Logger

	splashWindow fyne.Window
	mainWindow   fyne.Window
	registry     *windows.Registry
	bootstrapper *splash.Bootstrapper

	journal  *tracker.Journal
	client   *tracker.Client
	mainView *gui.MainView

	shutdown  *shutdown.Manager
	lifecycle *Lifecycle
}

func NewApplication(cfg config.Config, log logger.Logger) (*Application, error) {
	app.SetMetadata(fyne.AppMetadata{
		ID:      cfg.AppID,
		Name:    cfg.AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(cfg.AppID)
	return newApplication(fyneApp, cfg, log)
}

func newApplication(fyneApp fyne.App, cfg config.Config, log logger.Logger) (*Application, error) {
	log.Info("Application", "starting application", map[string]interface{}{
		"version":        AppVersion,
		"splash_delay":   cfg.SplashDelay.String(),
		"tasks_endpoint": cfg.TasksEndpoint,
	})

	a := &Application{
		cfg:      cfg,
		fyneApp:  fyneApp,
		logger:   log,
		registry: windows.NewRegistry(),
		journal:  tracker.NewJournal(tracker.NewPreferencesStore(fyneApp.Preferences())),
		client:   tracker.NewClient(cfg.TasksEndpoint, cfg.HTTPTimeout),
		shutdown: shutdown.NewManager(log),
	}

	a.mainView = gui.NewMainView(gui.MainViewDeps{
		AppName:   cfg.AppName,
		Journal:   a.journal,
		Stopwatch: tracker.NewStopwatch(nil),
		Syncer:    a.client,
		Logger:    log,
		Context:   a.shutdown.Context(),
	})

	a.splashWindow = a.newSplashWindow()
	a.mainWindow = a.newMainWindow()

	if err := a.registry.RegisterFyne(windows.Splash, a.splashWindow); err != nil {
		return nil, fmt.Errorf("register splash window: %w", err)
	}
	if err := a.registry.RegisterFyne(windows.Main, a.mainWindow); err != nil {
		return nil, fmt.Errorf("register main window: %w", err)
	}

	bootstrapper, err := splash.New(a.registry,
		splash.WithDelay(cfg.SplashDelay),
		splash.WithLogger(log),
		splash.WithStep("load-tasks", a.loadTasks),
		splash.WithStep("fetch-tasks", a.mainView.Sync),
	)
	if err != nil {
		return nil, err
	}
	a.bootstrapper = bootstrapper

	a.shutdown.Register("tracker-client", a.client)
	a.shutdown.Register("main-view", a.mainView)
	a.lifecycle = NewLifecycle(a)

	log.Info("Application", "initialization complete", nil)
	return a, nil
}

func (a *Application) newSplashWindow() fyne.Window {
	var w fyne.Window
	if drv, ok := a.fyneApp.Driver().(desktop.Driver); ok {
		w = drv.CreateSplashWindow()
		w.SetTitle(a.cfg.Splash.Title)
	} else {
		w = a.fyneApp.NewWindow(a.cfg.Splash.Title)
	}

	w.SetContent(gui.NewSplashContent(a.cfg.AppName))
	w.Resize(fyne.NewSize(a.cfg.Splash.Width, a.cfg.Splash.Height))
	w.CenterOnScreen()
	return w
}

func (a *Application) newMainWindow() fyne.Window {
	w := a.fyneApp.NewWindow(a.cfg.Main.Title)
	w.SetContent(a.mainView.Content())
	w.SetMainMenu(gui.NewMainMenu(gui.MenuActions{
		SubmitData:        a.mainView.SubmitAsync,
		CloseSplashscreen: a.CloseSplashscreen,
		Quit:              a.fyneApp.Quit,
	}))
	w.Resize(fyne.NewSize(a.cfg.Main.Width, a.cfg.Main.Height))
	w.CenterOnScreen()
	w.SetMaster()

	w.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		a.lifecycle.Shutdown()
		w.Close()
	})
	return w
}

// CloseSplashscreen is the action the UI layer invokes to swap windows early.
func (a *Application) CloseSplashscreen() {
	a.bootstrapper.CloseSplashscreen()
}

// Run shows the splash window and blocks in the Fyne event loop.
func (a *Application) Run() error {
	a.lifecycle.Attach()
	a.shutdown.Listen(a.fyneApp.Quit)

	a.splashWindow.Show()
	a.logger.Info("Application", "splash displayed", nil)

	a.fyneApp.Run()

	a.lifecycle.Shutdown()
	return nil
}
