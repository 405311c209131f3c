package task

import (
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"

	"github.com/pdxmph/tasklist/internal/kv"
)

// DefaultKey is the key the task list is persisted under
const DefaultKey = "tasks"

// Store owns the task list and mirrors every change to a kv.Store.
//
// Each mutation is applied to a copy, written out as a full snapshot, and only
// then committed to memory, so the list returned by Tasks always matches the
// persisted record after a successful call.
type Store struct {
	mu     sync.RWMutex
	kv     kv.Store
	key    string
	clock  Clock
	tasks  []Task
	lastID int64
}

// Option configures a Store
type Option func(*Store)

// WithKey persists the list under key instead of DefaultKey
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the clock ids are derived from
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewStore creates an empty store on top of backend. Call Load to hydrate it.
func NewStore(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:    backend,
		key:   DefaultKey,
		clock: RealClock{},
		tasks: []Task{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the key the list is persisted under
func (s *Store) Key() string {
	return s.key
}

// Tasks returns a copy of the list in insertion order
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Get returns the task with the given id
func (s *Store) Get(id int64) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return s.tasks[i], nil
}

// Create appends a new task and persists the list.
// An empty title is rejected with a *ValidationError and nothing is written.
func (s *Store) Create(title, summary string, state State, deadline string) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, &ValidationError{Field: "title"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:       s.nextIDLocked(),
		Title:    title,
		Summary:  summary,
		State:    state,
		Deadline: deadline,
	}

	next := append(slices.Clone(s.tasks), t)
	if err := s.writeLocked(next); err != nil {
		return Task{}, err
	}

	s.tasks = next
	s.lastID = t.ID
	return t, nil
}

// Update replaces the mutable fields of the task with the given id, keeping
// its position, and persists the list.
func (s *Store) Update(id int64, title, summary string, state State, deadline string) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, &ValidationError{Field: "title"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	next := slices.Clone(s.tasks)
	next[i].Title = title
	next[i].Summary = summary
	next[i].State = state
	next[i].Deadline = deadline

	if err := s.writeLocked(next); err != nil {
		return Task{}, err
	}

	s.tasks = next
	return next[i], nil
}

// Delete removes the task with the given id and persists the list.
// An unknown id leaves the list untouched and is not an error.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil
	}

	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	if err := s.writeLocked(next); err != nil {
		return err
	}

	s.tasks = next
	return nil
}

// Load replaces the in-memory list with the persisted one and returns it.
// A missing or unreadable record yields an empty list; only a failure of the
// backend itself is returned as an error.
func (s *Store) Load() ([]Task, error) {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	loaded := []Task{}
	if ok {
		var parsed []Task
		if err := json.Unmarshal(raw, &parsed); err != nil {
			log.Printf("Ignoring malformed task record %q: %v", s.key, err)
		} else if parsed != nil {
			loaded = parsed
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = loaded
	s.lastID = 0
	for _, t := range loaded {
		s.lastID = max(s.lastID, t.ID)
	}
	return slices.Clone(loaded), nil
}

// Persist overwrites the persisted record with tasks and makes them the
// in-memory list.
func (s *Store) Persist(tasks []Task) error {
	next := slices.Clone(tasks)
	if next == nil {
		next = []Task{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked(next); err != nil {
		return err
	}

	s.tasks = next
	for _, t := range next {
		s.lastID = max(s.lastID, t.ID)
	}
	return nil
}

func (s *Store) writeLocked(tasks []Task) error {
	b, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	if err := s.kv.Set(s.key, b); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

func (s *Store) indexLocked(id int64) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// nextIDLocked derives an id from the clock in milliseconds, stepping past
// the last issued id when the clock has not moved on.
func (s *Store) nextIDLocked() int64 {
	id := s.clock.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}
