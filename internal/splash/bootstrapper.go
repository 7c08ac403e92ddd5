// Package splash swaps the splash window for the main window once startup
// work is done, either after the deferred initialization task or on demand.
package splash

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flexile-tracker/internal/logger"
	"flexile-tracker/internal/windows"
)

const (
	component    = "Bootstrapper"
	DefaultDelay = 2 * time.Second
)

// Step is a unit of startup work run while the splash window is up.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

type Option func(*Bootstrapper)

func WithDelay(d time.Duration) Option {
	return func(b *Bootstrapper) { b.delay = d }
}

func WithLogger(l logger.Logger) Option {
	return func(b *Bootstrapper) { b.logger = l }
}

func WithStep(name string, run func(ctx context.Context) error) Option {
	return func(b *Bootstrapper) {
		b.steps = append(b.steps, Step{Name: name, Run: run})
	}
}

type Bootstrapper struct {
	windows *windows.Registry
	delay   time.Duration
	logger  logger.Logger
	steps   []Step

	once sync.Once
	done chan struct{}
}

// New checks that both the splash and the main window are registered.
// A missing window is a startup error.
func New(reg *windows.Registry, opts ...Option) (*Bootstrapper, error) {
	b := &Bootstrapper{
		windows: reg,
		delay:   DefaultDelay,
		logger:  logger.NewNop(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.delay < 0 {
		return nil, fmt.Errorf("startup: negative splash delay %s", b.delay)
	}
	for _, name := range []string{windows.Splash, windows.Main} {
		if _, err := reg.Lookup(name); err != nil {
			return nil, fmt.Errorf("startup: %w", err)
		}
	}
	return b, nil
}

// Start schedules the deferred initialization task. Only the first call has
// any effect. ctx ends the wait early when the application is shutting down.
func (b *Bootstrapper) Start(ctx context.Context) {
	b.once.Do(func() {
		go b.run(ctx)
	})
}

// Done is closed once the deferred task has finished.
func (b *Bootstrapper) Done() <-chan struct{} {
	return b.done
}

// CloseSplashscreen closes the splash window and shows the main window.
// Missing windows are logged, never fatal, and repeated calls are no-ops.
func (b *Bootstrapper) CloseSplashscreen() {
	_ = b.reveal("action")
}

func (b *Bootstrapper) run(ctx context.Context) {
	defer close(b.done)

	b.logger.Info(component, "Initializing...", map[string]interface{}{
		"delay": b.delay.String(),
		"steps": len(b.steps),
	})

	timer := time.NewTimer(b.delay)
	defer timer.Stop()

	for _, step := range b.steps {
		start := time.Now()
		if err := step.Run(ctx); err != nil {
			b.logger.Warning(component, "startup step failed", map[string]interface{}{
				"step":  step.Name,
				"error": err.Error(),
			})
			continue
		}
		b.logger.Debug(component, "startup step completed", map[string]interface{}{
			"step":     step.Name,
			"duration": time.Since(start).String(),
		})
	}

	select {
	case <-timer.C:
	case <-ctx.Done():
		b.logger.Info(component, "initialization abandoned", map[string]interface{}{
			"reason": ctx.Err().Error(),
		})
		return
	}

	b.logger.Info(component, "Done initializing.", nil)

	if err := b.reveal("deferred"); err != nil {
		b.logger.Error(component, err, map[string]interface{}{"source": "deferred"})
	}
}

// reveal attempts both halves of the swap regardless of whether the other
// half found its window.
func (b *Bootstrapper) reveal(source string) error {
	var errs []error
	fields := map[string]interface{}{"source": source}

	closed, err := b.windows.Close(windows.Splash)
	switch {
	case err != nil:
		b.logger.Warning(component, "Splashscreen window not found.", fields)
		errs = append(errs, err)
	case closed:
		b.logger.Info(component, "Splashscreen closed.", fields)
	default:
		b.logger.Debug(component, "splashscreen already closed", fields)
	}

	shown, err := b.windows.Show(windows.Main)
	switch {
	case err != nil:
		b.logger.Warning(component, "Main window not found.", fields)
		errs = append(errs, err)
	case shown:
		b.logger.Info(component, "Main window shown.", fields)
	case b.windows.IsClosed(windows.Main):
		b.logger.Warning(component, "main window was closed before it could be shown", fields)
	default:
		b.logger.Debug(component, "main window already visible", fields)
	}

	return errors.Join(errs...)
}
