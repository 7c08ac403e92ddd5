package gui

import (
	"context"
	"errors"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"flexile-tracker/internal/logger"
	"flexile-tracker/internal/tracker"
)

const (
	component = "MainView"

	emptyTaskMessage  = "Please enter a task name before starting the timer."
	submittedMessage  = "Data submitted successfully"
	submitFailMessage = "Failed to submit data"

	DefaultFeedbackTimeout = 3 * time.Second
)

// TaskSyncer is the task server as seen by the view.
type TaskSyncer interface {
	Submit(ctx context.Context, tasks []tracker.Task) error
	Fetch(ctx context.Context) ([]tracker.Task, error)
}

type MainViewDeps struct {
	AppName   string
	Journal   *tracker.Journal
	Stopwatch *tracker.Stopwatch
	Syncer    TaskSyncer
	Logger    logger.Logger

	// Context bounds work the view starts on its own, such as a submit
	// from the button. Context, Now and Dispatch default to
	// context.Background, time.Now and fyne.Do.
	Context  context.Context
	Now      func() time.Time
	Dispatch func(func())
}

// MainView is the time tracker shown in the main window.
type MainView struct {
	journal   *tracker.Journal
	stopwatch *tracker.Stopwatch
	syncer    TaskSyncer
	logger    logger.Logger
	ctx       context.Context
	now       func() time.Time
	dispatch  func(func())

	feedbackTimeout time.Duration

	content         fyne.CanvasObject
	dateLabel       *widget.Label
	timeLabel       *widget.Label
	taskEntry       *widget.Entry
	errorLabel      *widget.Label
	toggleButton    *widget.Button
	elapsedLabel    *widget.Label
	taskList        *widget.List
	totalLabel      *widget.Label
	submitButton    *widget.Button
	feedbackLabel   *widget.Label
	submissionLabel *widget.Label

	// tasks is the list's view of the journal, touched only on the UI goroutine.
	tasks []tracker.Task

	mu sync.Mutex
	// one pending clear per label; a new flash replaces it
	flashTimers map[*widget.Label]*time.Timer
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

func NewMainView(deps MainViewDeps) *MainView {
	v := &MainView{
		journal:         deps.Journal,
		stopwatch:       deps.Stopwatch,
		syncer:          deps.Syncer,
		logger:          deps.Logger,
		ctx:             deps.Context,
		now:             deps.Now,
		dispatch:        deps.Dispatch,
		feedbackTimeout: DefaultFeedbackTimeout,
		flashTimers:     make(map[*widget.Label]*time.Timer),
	}
	if v.ctx == nil {
		v.ctx = context.Background()
	}
	if v.logger == nil {
		v.logger = logger.NewNop()
	}
	if v.now == nil {
		v.now = time.Now
	}
	if v.dispatch == nil {
		v.dispatch = fyne.Do
	}

	v.createComponents()
	v.buildLayout(deps.AppName)

	v.tasks = v.journal.Tasks()
	v.journal.OnChange(func(tasks []tracker.Task) {
		v.dispatch(func() { v.setTasks(tasks) })
	})
	v.refreshTotals()
	v.refreshClock()

	return v
}

func (v *MainView) createComponents() {
	v.dateLabel = widget.NewLabel("")
	v.timeLabel = widget.NewLabel("")

	v.taskEntry = widget.NewEntry()
	v.taskEntry.SetPlaceHolder("Enter task name")
	v.taskEntry.OnChanged = func(string) {
		if v.errorLabel.Visible() {
			v.errorLabel.Hide()
		}
	}

	v.errorLabel = widget.NewLabel(emptyTaskMessage)
	v.errorLabel.Importance = widget.DangerImportance
	v.errorLabel.Hide()

	v.toggleButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), v.toggleTracking)
	v.toggleButton.Importance = widget.SuccessImportance

	v.elapsedLabel = widget.NewLabelWithStyle(tracker.FormatDuration(0), fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true})

	v.taskList = widget.NewList(
		func() int { return len(v.tasks) },
		func() fyne.CanvasObject { return newTaskRow() },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(v.tasks) {
				return
			}
			task := v.tasks[id]
			obj.(*taskRow).bind(task, func() { v.deleteTask(task.ID) })
		},
	)

	v.totalLabel = widget.NewLabelWithStyle(tracker.FormatDuration(0), fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true})

	v.submitButton = widget.NewButtonWithIcon("Submit Data", theme.UploadIcon(), v.SubmitAsync)
	v.submitButton.Importance = widget.HighImportance

	v.feedbackLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	v.feedbackLabel.Importance = widget.SuccessImportance
	v.submissionLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
}

func (v *MainView) buildLayout(appName string) {
	title := widget.NewLabelWithStyle(appName, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	clock := container.NewVBox(v.dateLabel, v.timeLabel)
	header := container.NewBorder(nil, nil, nil, clock, title)

	entry := container.NewVBox(v.taskEntry, v.errorLabel)
	controls := container.NewBorder(nil, nil, v.toggleButton, nil, v.elapsedLabel)

	listHeading := widget.NewLabelWithStyle("Today's Tasks", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	total := container.NewHBox(
		widget.NewLabelWithStyle("Total Time:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		v.totalLabel,
	)

	top := container.NewVBox(header, entry, controls, listHeading)
	bottom := container.NewVBox(total, v.submitButton, v.feedbackLabel, v.submissionLabel)

	v.content = container.NewBorder(top, bottom, nil, nil, v.taskList)
}

func (v *MainView) Content() fyne.CanvasObject {
	return v.content
}

// Start runs the once-a-second clock and stopwatch refresh until ctx ends
// or Shutdown is called.
func (v *MainView) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	v.mu.Lock()
	if v.cancel != nil {
		v.mu.Unlock()
		cancel()
		return
	}
	v.cancel = cancel
	v.mu.Unlock()

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				v.dispatch(func() {
					v.refreshClock()
					v.elapsedLabel.SetText(tracker.FormatDuration(v.stopwatch.Elapsed()))
				})
			}
		}
	}()
}

func (v *MainView) Shutdown() {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	for label, t := range v.flashTimers {
		t.Stop()
		delete(v.flashTimers, label)
	}
	v.mu.Unlock()

	v.wg.Wait()
	v.logger.Debug(component, "stopped", nil)
}

func (v *MainView) toggleTracking() {
	if v.stopwatch.Running() {
		v.stopTracking()
		return
	}

	if err := v.stopwatch.Start(v.taskEntry.Text); err != nil {
		if errors.Is(err, tracker.ErrEmptyTaskName) {
			v.errorLabel.Show()
			return
		}
		v.logger.Error(component, err, nil)
		return
	}

	v.errorLabel.Hide()
	v.toggleButton.SetText("Stop")
	v.toggleButton.SetIcon(theme.MediaStopIcon())
	v.toggleButton.Importance = widget.DangerImportance
	v.toggleButton.Refresh()
	v.logger.Debug(component, "tracking started", map[string]interface{}{"task": v.taskEntry.Text})
}

func (v *MainView) stopTracking() {
	task, recorded := v.stopwatch.Stop(v.taskEntry.Text)

	v.toggleButton.SetText("Start")
	v.toggleButton.SetIcon(theme.MediaPlayIcon())
	v.toggleButton.Importance = widget.SuccessImportance
	v.toggleButton.Refresh()

	if !recorded {
		v.elapsedLabel.SetText(tracker.FormatDuration(v.stopwatch.Elapsed()))
		return
	}

	if err := v.journal.Add(task); err != nil {
		v.logger.Error(component, err, map[string]interface{}{"task": task.Name})
	}
	v.logger.Info(component, "task saved", map[string]interface{}{
		"task":     task.Name,
		"duration": tracker.FormatDuration(task.Duration),
	})

	v.taskEntry.SetText("")
	v.elapsedLabel.SetText(tracker.FormatDuration(0))
	v.flash(v.feedbackLabel, "Task saved")
}

func (v *MainView) deleteTask(id int64) {
	removed, err := v.journal.Delete(id)
	if err != nil {
		v.logger.Error(component, err, map[string]interface{}{"task_id": id})
	}
	if removed {
		v.flash(v.feedbackLabel, "Task deleted")
	}
}

// SubmitAsync runs Submit on its own goroutine under the view's context.
func (v *MainView) SubmitAsync() {
	go v.Submit(v.ctx)
}

// Submit posts the journal to the task server and then adopts the server's
// copy. It blocks, so UI callbacks run it on its own goroutine.
func (v *MainView) Submit(ctx context.Context) {
	tasks := v.journal.Tasks()
	v.logger.Info(component, "submitting tasks", map[string]interface{}{"count": len(tasks)})

	if err := v.syncer.Submit(ctx, tasks); err != nil {
		v.logger.Error(component, err, map[string]interface{}{"count": len(tasks)})
		v.dispatch(func() {
			v.submissionLabel.Importance = widget.DangerImportance
			v.flash(v.submissionLabel, submitFailMessage)
		})
		return
	}

	v.dispatch(func() {
		v.submissionLabel.Importance = widget.SuccessImportance
		v.flash(v.submissionLabel, submittedMessage)
	})

	if err := v.Sync(ctx); err != nil {
		v.logger.Warning(component, "refresh after submit failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Sync replaces the journal with the task server's list.
func (v *MainView) Sync(ctx context.Context) error {
	tasks, err := v.syncer.Fetch(ctx)
	if err != nil {
		return err
	}
	return v.journal.Replace(tasks)
}

func (v *MainView) setTasks(tasks []tracker.Task) {
	v.tasks = tasks
	v.taskList.Refresh()
	v.refreshTotals()
}

func (v *MainView) refreshTotals() {
	v.totalLabel.SetText(tracker.FormatDuration(tracker.TotalDuration(v.tasks)))
}

func (v *MainView) refreshClock() {
	now := v.now()
	v.dateLabel.SetText(now.Format("Mon, 02 Jan 2006"))
	v.timeLabel.SetText(now.Format("15:04:05"))
}

// flash shows text on label and clears it after the feedback timeout unless
// something else was written in the meantime.
func (v *MainView) flash(label *widget.Label, text string) {
	label.SetText(text)

	v.mu.Lock()
	defer v.mu.Unlock()

	if pending, ok := v.flashTimers[label]; ok {
		pending.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(v.feedbackTimeout, func() {
		v.mu.Lock()
		if v.flashTimers[label] == timer {
			delete(v.flashTimers, label)
		}
		v.mu.Unlock()

		v.dispatch(func() {
			if label.Text == text {
				label.SetText("")
			}
		})
	})
	v.flashTimers[label] = timer
}

func (v *MainView) pendingFlashes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.flashTimers)
}

type taskRow struct {
	widget.BaseWidget

	name     *widget.Label
	duration *widget.Label
	remove   *widget.Button
}

func newTaskRow() *taskRow {
	row := &taskRow{
		name:     widget.NewLabel(""),
		duration: widget.NewLabelWithStyle("", fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true}),
		remove:   widget.NewButtonWithIcon("", theme.DeleteIcon(), nil),
	}
	row.name.Truncation = fyne.TextTruncateEllipsis
	row.remove.Importance = widget.DangerImportance
	row.ExtendBaseWidget(row)
	return row
}

func (r *taskRow) bind(task tracker.Task, onDelete func()) {
	r.name.SetText(task.Name)
	r.duration.SetText(tracker.FormatDuration(task.Duration))
	r.remove.OnTapped = onDelete
}

func (r *taskRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(
		container.NewBorder(nil, nil, nil, container.NewHBox(r.duration, r.remove), r.name),
	)
}
