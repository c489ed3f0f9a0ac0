package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskapi/internal/models"
	"taskapi/internal/storage"
)

// Store keeps all tasks in a map guarded by a mutex. Ids come from a
// counter that only moves forward, so a deleted id is never reissued.
type Store struct {
	mu     sync.RWMutex
	tasks  map[int64]models.Task
	nextID int64
}

// NewStore returns an empty store whose first task will get id 1.
func NewStore() *Store {
	return &Store{
		tasks:  make(map[int64]models.Task),
		nextID: 1,
	}
}

// Create validates the input, assigns the next id and the creation
// timestamp, and inserts the record.
func (s *Store) Create(_ context.Context, input models.TaskCreate) (models.Task, error) {
	if err := input.Validate(); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := models.Task{
		ID:          s.nextID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextID++
	s.tasks[t.ID] = t
	return t, nil
}

// List returns every task in ascending id order, which is insertion
// order since ids are monotonic.
func (s *Store) List(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get fetches a single task by id.
func (s *Store) Get(_ context.Context, id int64) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrTaskNotFound
	}
	return t, nil
}

// Update merges the supplied fields onto the existing record. The id
// and creation timestamp are never touched. Existence is checked
// before field validation.
func (s *Store) Update(_ context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrTaskNotFound
	}
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}

	s.tasks[id] = t
	return t, nil
}

// Delete removes a task permanently. The freed id is not reused.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return storage.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

// Close is a no-op; the store holds no external resources.
func (s *Store) Close() error {
	return nil
}
