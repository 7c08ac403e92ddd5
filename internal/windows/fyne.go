package windows

import "fyne.io/fyne/v2"

// uiWindow hops every call onto the Fyne UI goroutine so the registry can be
// driven from any goroutine.
type uiWindow struct {
	window fyne.Window
}

func (u uiWindow) Show() {
	fyne.Do(u.window.Show)
}

func (u uiWindow) Close() {
	fyne.Do(u.window.Close)
}

// RegisterFyne registers a Fyne window under name and keeps the registry in
// step when the user closes it directly.
func (r *Registry) RegisterFyne(name string, w fyne.Window) error {
	if w == nil {
		return r.Register(name, nil)
	}
	if err := r.Register(name, uiWindow{window: w}); err != nil {
		return err
	}
	w.SetOnClosed(func() {
		r.MarkClosed(name)
	})
	return nil
}
