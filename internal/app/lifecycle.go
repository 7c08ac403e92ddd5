package app

import (
	"context"
	"sync"
)

// Lifecycle ties startup work and teardown to the Fyne app lifecycle.
type Lifecycle struct {
	app          *Application
	startOnce    sync.Once
	shutdownOnce sync.Once
}

func NewLifecycle(a *Application) *Lifecycle {
	return &Lifecycle{app: a}
}

func (l *Lifecycle) Attach() {
	l.app.fyneApp.Lifecycle().SetOnStarted(l.Started)
	l.app.fyneApp.Lifecycle().SetOnStopped(l.Shutdown)
}

// Started runs once the event loop is live.
func (l *Lifecycle) Started() {
	l.startOnce.Do(func() {
		a := l.app
		ctx := a.shutdown.Context()

		a.bootstrapper.Start(ctx)
		a.mainView.Start(ctx)

		if a.cfg.CloseOnReady {
			a.logger.Debug("Lifecycle", "main view ready, closing splash", nil)
			a.CloseSplashscreen()
		}
	})
}

func (l *Lifecycle) Shutdown() {
	l.shutdownOnce.Do(func() {
		l.app.logger.Info("Lifecycle", "shutdown sequence initiated", nil)
		l.app.shutdown.Shutdown()
	})
}

func (a *Application) loadTasks(context.Context) error {
	return a.journal.Load()
}
