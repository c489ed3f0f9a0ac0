package storage

import (
	"context"
	"errors"

	"taskapi/internal/models"
)

// ErrTaskNotFound reports a lookup for an id the store has never held
// or has already deleted.
var ErrTaskNotFound = errors.New("task not found")

// Store owns every task record and the id counter. Implementations
// validate inputs before mutating anything, so a failed operation
// leaves the store exactly as it was.
type Store interface {
	Create(ctx context.Context, input models.TaskCreate) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}
