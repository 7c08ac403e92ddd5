package tracker

import (
	"fmt"
	"sync"
)

// Store persists the day's tasks between runs.
type Store interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
}

// Journal is the ordered list of today's tasks. Every change is written
// through to the store.
type Journal struct {
	mu       sync.RWMutex
	store    Store
	tasks    []Task
	onChange []func([]Task)
}

func NewJournal(store Store) *Journal {
	return &Journal{store: store}
}

// Load replaces the in-memory list with whatever the store holds.
func (j *Journal) Load() error {
	tasks, err := j.store.Load()
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	j.mu.Lock()
	j.tasks = tasks
	j.mu.Unlock()

	j.notify()
	return nil
}

// OnChange registers fn to be called with a snapshot after every change.
func (j *Journal) OnChange(fn func([]Task)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.onChange = append(j.onChange, fn)
}

func (j *Journal) Add(task Task) error {
	return j.mutate(func(tasks []Task) ([]Task, bool) {
		return append(tasks, task), true
	})
}

// Delete removes the task with id and reports whether one was removed.
func (j *Journal) Delete(id int64) (bool, error) {
	removed := false
	err := j.mutate(func(tasks []Task) ([]Task, bool) {
		kept := tasks[:0:0]
		for _, t := range tasks {
			if t.ID == id {
				removed = true
				continue
			}
			kept = append(kept, t)
		}
		return kept, removed
	})
	return removed, err
}

// Replace swaps the whole list, e.g. for the server's copy after a sync.
func (j *Journal) Replace(tasks []Task) error {
	return j.mutate(func([]Task) ([]Task, bool) {
		return append([]Task(nil), tasks...), true
	})
}

func (j *Journal) Tasks() []Task {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]Task(nil), j.tasks...)
}

func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.tasks)
}

func (j *Journal) Total() int64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return TotalDuration(j.tasks)
}

func (j *Journal) mutate(fn func([]Task) ([]Task, bool)) error {
	j.mu.Lock()
	next, changed := fn(j.tasks)
	if !changed {
		j.mu.Unlock()
		return nil
	}
	j.tasks = next
	snapshot := append([]Task(nil), next...)
	j.mu.Unlock()

	j.notify()
	if err := j.store.Save(snapshot); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (j *Journal) notify() {
	j.mu.RLock()
	listeners := make([]func([]Task), len(j.onChange))
	copy(listeners, j.onChange)
	snapshot := append([]Task(nil), j.tasks...)
	j.mu.RUnlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
