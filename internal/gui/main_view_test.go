package gui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flexile-tracker/internal/tracker"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeSyncer struct {
	contexts  chan context.Context
	submitErr error
	fetchErr  error
	remote    []tracker.Task
	submitted [][]tracker.Task
}

func (f *fakeSyncer) Submit(ctx context.Context, tasks []tracker.Task) error {
	if f.contexts != nil {
		f.contexts <- ctx
		return ctx.Err()
	}
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, tasks)
	f.remote = append([]tracker.Task(nil), tasks...)
	return nil
}

func (f *fakeSyncer) Fetch(context.Context) ([]tracker.Task, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.remote, nil
}

type harness struct {
	// ui serialises dispatched work with test reads, standing in for the UI goroutine
	ui      sync.Mutex
	view    *MainView
	clock   *fakeClock
	store   *tracker.MemoryStore
	journal *tracker.Journal
	syncer  *fakeSyncer
}

func newHarness(t *testing.T, opts ...func(*MainViewDeps)) *harness {
	t.Helper()
	test.NewTempApp(t)

	h := &harness{
		clock:  &fakeClock{now: time.Date(2024, 7, 1, 9, 0, 0, 0, time.Local)},
		store:  &tracker.MemoryStore{},
		syncer: &fakeSyncer{},
	}
	h.journal = tracker.NewJournal(h.store)

	deps := MainViewDeps{
		AppName:   "Flexile Time Tracker",
		Journal:   h.journal,
		Stopwatch: tracker.NewStopwatch(h.clock.Now),
		Syncer:    h.syncer,
		Now:       h.clock.Now,
		Dispatch: func(fn func()) {
			h.ui.Lock()
			defer h.ui.Unlock()
			fn()
		},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	h.view = NewMainView(deps)
	t.Cleanup(h.view.Shutdown)

	w := test.NewWindow(h.view.Content())
	w.Resize(fyne.NewSize(480, 640))
	t.Cleanup(w.Close)

	return h
}

func (h *harness) text(l *widget.Label) string {
	h.ui.Lock()
	defer h.ui.Unlock()
	return l.Text
}

func (h *harness) track(t *testing.T, name string, d time.Duration) {
	t.Helper()
	test.Type(h.view.taskEntry, name)
	test.Tap(h.view.toggleButton)
	require.True(t, h.view.stopwatch.Running())
	h.clock.Advance(d)
	test.Tap(h.view.toggleButton)
}

func TestStartWithoutNameShowsError(t *testing.T) {
	h := newHarness(t)

	test.Tap(h.view.toggleButton)

	assert.True(t, h.view.errorLabel.Visible())
	assert.Equal(t, emptyTaskMessage, h.view.errorLabel.Text)
	assert.False(t, h.view.stopwatch.Running())

	test.Type(h.view.taskEntry, "x")
	assert.False(t, h.view.errorLabel.Visible(), "typing clears the error")
}

func TestTrackingRecordsTask(t *testing.T) {
	h := newHarness(t)

	test.Type(h.view.taskEntry, "design review")
	test.Tap(h.view.toggleButton)
	assert.Equal(t, "Stop", h.view.toggleButton.Text)

	h.clock.Advance(65 * time.Second)
	test.Tap(h.view.toggleButton)

	assert.Equal(t, "Start", h.view.toggleButton.Text)
	assert.Empty(t, h.view.taskEntry.Text)
	assert.Equal(t, "00:00:00", h.view.elapsedLabel.Text)
	assert.Equal(t, "Task saved", h.view.feedbackLabel.Text)

	require.Equal(t, 1, h.journal.Len())
	assert.Equal(t, "design review", h.journal.Tasks()[0].Name)
	assert.Equal(t, 1, h.view.taskList.Length())
	assert.Equal(t, "00:01:05", h.view.totalLabel.Text)
	assert.Equal(t, 1, h.store.Saves())
}

func TestStopRecordsNameAsEditedWhileRunning(t *testing.T) {
	h := newHarness(t)

	test.Type(h.view.taskEntry, "draft")
	test.Tap(h.view.toggleButton)
	h.view.taskEntry.SetText("final report")
	h.clock.Advance(40 * time.Second)
	test.Tap(h.view.toggleButton)

	require.Equal(t, 1, h.journal.Len())
	assert.Equal(t, "final report", h.journal.Tasks()[0].Name)
}

func TestStopWithClearedNameKeepsElapsed(t *testing.T) {
	h := newHarness(t)

	test.Type(h.view.taskEntry, "draft")
	test.Tap(h.view.toggleButton)
	h.view.taskEntry.SetText("")
	h.clock.Advance(40 * time.Second)
	test.Tap(h.view.toggleButton)

	assert.Zero(t, h.journal.Len())
	assert.Equal(t, "00:00:40", h.view.elapsedLabel.Text)
}

func TestDeleteTask(t *testing.T) {
	h := newHarness(t)
	h.track(t, "a", 30*time.Second)
	h.clock.Advance(time.Second)
	h.track(t, "b", 90*time.Second)
	require.Equal(t, 2, h.journal.Len())

	h.view.deleteTask(h.journal.Tasks()[0].ID)

	require.Equal(t, 1, h.journal.Len())
	assert.Equal(t, "b", h.journal.Tasks()[0].Name)
	assert.Equal(t, "00:01:30", h.view.totalLabel.Text)
	assert.Equal(t, "Task deleted", h.view.feedbackLabel.Text)
}

func TestSubmitAdoptsServerCopy(t *testing.T) {
	h := newHarness(t)
	h.track(t, "ship it", 10*time.Second)

	h.view.Submit(context.Background())

	require.Len(t, h.syncer.submitted, 1)
	assert.Equal(t, "ship it", h.syncer.submitted[0][0].Name)
	assert.Equal(t, submittedMessage, h.view.submissionLabel.Text)
	assert.Equal(t, 1, h.journal.Len())
}

func TestSubmitFailure(t *testing.T) {
	h := newHarness(t)
	h.syncer.submitErr = errors.New("connection refused")

	h.view.Submit(context.Background())

	assert.Equal(t, submitFailMessage, h.view.submissionLabel.Text)
}

func TestSubmitButtonUsesViewContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHarness(t, func(d *MainViewDeps) { d.Context = ctx })
	h.syncer.contexts = make(chan context.Context, 1)

	test.Tap(h.view.submitButton)

	select {
	case got := <-h.syncer.contexts:
		assert.ErrorIs(t, got.Err(), context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("submit never reached the syncer")
	}

	assert.Eventually(t, func() bool {
		return h.text(h.view.submissionLabel) == submitFailMessage
	}, 5*time.Second, 5*time.Millisecond)
}

func TestFlashKeepsOnePendingClearPerLabel(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 5; i++ {
		h.view.flash(h.view.feedbackLabel, "Task saved")
	}
	assert.Equal(t, 1, h.view.pendingFlashes())

	h.view.flash(h.view.submissionLabel, submittedMessage)
	assert.Equal(t, 2, h.view.pendingFlashes())
}

func TestFlashClearsAndForgetsTimer(t *testing.T) {
	h := newHarness(t)
	h.view.feedbackTimeout = 10 * time.Millisecond

	h.ui.Lock()
	h.view.flash(h.view.feedbackLabel, "Task deleted")
	h.ui.Unlock()

	assert.Eventually(t, func() bool {
		return h.view.pendingFlashes() == 0 && h.text(h.view.feedbackLabel) == ""
	}, 5*time.Second, 5*time.Millisecond)
}

func TestSyncReplacesJournal(t *testing.T) {
	h := newHarness(t)
	h.syncer.remote = []tracker.Task{{ID: 1, Name: "from server", Duration: 3600}}

	require.NoError(t, h.view.Sync(context.Background()))

	assert.Equal(t, 1, h.view.taskList.Length())
	assert.Equal(t, "01:00:00", h.view.totalLabel.Text)
}

func TestClockShowsCurrentTime(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "Mon, 01 Jul 2024", h.view.dateLabel.Text)
	assert.Equal(t, "09:00:00", h.view.timeLabel.Text)
}

func TestStartAndShutdown(t *testing.T) {
	h := newHarness(t)
	h.view.Start(context.Background())
	h.view.Start(context.Background())
	h.view.Shutdown()
}

func TestMainMenuWiring(t *testing.T) {
	var closed, submitted bool
	menu := NewMainMenu(MenuActions{
		SubmitData:        func() { submitted = true },
		CloseSplashscreen: func() { closed = true },
		Quit:              func() {},
	})

	require.Len(t, menu.Items, 2)
	menu.Items[0].Items[0].Action()
	menu.Items[1].Items[0].Action()

	assert.True(t, submitted)
	assert.True(t, closed)
	assert.True(t, menu.Items[0].Items[2].IsQuit)
}

func TestSplashContent(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewWindow(NewSplashContent("Flexile"))
	defer w.Close()
	assert.NotNil(t, w.Content())
}
