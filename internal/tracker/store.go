package tracker

import (
	"encoding/json"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
)

// PreferencesKey is where the day's tasks live in the app preferences.
const PreferencesKey = "currentDayTasks"

// PreferencesStore keeps tasks as a JSON document in Fyne preferences.
type PreferencesStore struct {
	prefs fyne.Preferences
	key   string
}

func NewPreferencesStore(prefs fyne.Preferences) *PreferencesStore {
	return &PreferencesStore{prefs: prefs, key: PreferencesKey}
}

func (s *PreferencesStore) Load() ([]Task, error) {
	raw := s.prefs.String(s.key)
	if raw == "" {
		return nil, nil
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return tasks, nil
}

func (s *PreferencesStore) Save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	s.prefs.SetString(s.key, string(data))
	return nil
}

// MemoryStore is a Store for tests and for running without preferences.
type MemoryStore struct {
	mu    sync.Mutex
	tasks []Task
	saves int
}

func (m *MemoryStore) Load() ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Task(nil), m.tasks...), nil
}

func (m *MemoryStore) Save(tasks []Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append([]Task(nil), tasks...)
	m.saves++
	return nil
}

func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
