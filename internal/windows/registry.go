// Package windows tracks the named top-level windows the application owns.
package windows

import (
	"errors"
	"fmt"
	"sync"
)

const (
	Splash = "splashscreen"
	Main   = "main"
)

var ErrWindowMissing = errors.New("window not found")

// Window is the subset of fyne.Window the registry drives.
type Window interface {
	Show()
	Close()
}

type state int

const (
	stateHidden state = iota
	stateShown
	stateClosed
)

type entry struct {
	window Window
	state  state
}

// Registry maps names to window handles. A closed handle is dropped and its
// name is never bound again.
type Registry struct {
	mu      sync.Mutex
	windows map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{windows: make(map[string]*entry)}
}

func (r *Registry) Register(name string, w Window) error {
	if w == nil {
		return fmt.Errorf("register %q: nil window", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.windows[name]; ok {
		if existing.state == stateClosed {
			return fmt.Errorf("register %q: name belongs to a closed window", name)
		}
		return fmt.Errorf("register %q: already registered", name)
	}
	r.windows[name] = &entry{window: w}
	return nil
}

// Lookup returns the live handle for name.
func (r *Registry) Lookup(name string) (Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.windows[name]
	if !ok || e.state == stateClosed {
		return nil, fmt.Errorf("%w: %q", ErrWindowMissing, name)
	}
	return e.window, nil
}

// Close closes the named window once. It reports whether this call closed it;
// closing an already closed window is a no-op, an unknown name is ErrWindowMissing.
func (r *Registry) Close(name string) (bool, error) {
	w, err := r.transition(name, stateClosed)
	if err != nil || w == nil {
		return false, err
	}
	w.Close()
	return true, nil
}

// Show shows the named window once, with the same reporting as Close.
func (r *Registry) Show(name string) (bool, error) {
	w, err := r.transition(name, stateShown)
	if err != nil || w == nil {
		return false, err
	}
	w.Show()
	return true, nil
}

// MarkClosed records a close that happened outside the registry, e.g. the
// user dismissing the window.
func (r *Registry) MarkClosed(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.windows[name]; ok {
		e.state = stateClosed
		e.window = nil
	}
}

func (r *Registry) IsClosed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.windows[name]
	return ok && e.state == stateClosed
}

func (r *Registry) IsShown(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.windows[name]
	return ok && e.state == stateShown
}

// transition moves name into target and hands back the window the caller must
// act on, or nil when the transition already happened.
func (r *Registry) transition(name string, target state) (Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.windows[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWindowMissing, name)
	}
	if e.state == stateClosed || e.state == target {
		return nil, nil
	}

	w := e.window
	e.state = target
	if target == stateClosed {
		e.window = nil
	}
	return w, nil
}
