package repo

import (
	"context"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

// TaskRepository is the persistence contract for tasks and their tags.
// Soft-deleted tasks are invisible to every method.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task, tags []string) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	List(ctx context.Context, f model.TaskFilter) ([]model.Task, int, error)
	Update(ctx context.Context, id int64, patch model.TaskUpdate) (model.Task, error)
	SoftDelete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (Stats, error)
}
