package model

import (
	"time"

	"github.com/BuzzLyutic/task-tracker-api/pkg/optional"
)

// TaskCreate is the POST /tasks request body. Duplicate tag names are not an
// error; they are deduplicated before persistence.
type TaskCreate struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description *string  `json:"description"`
	Priority    int      `json:"priority" validate:"required,gte=1,lte=5"`
	DueDate     Date     `json:"due_date"`
	Tags        []string `json:"tags"`
}

// TaskUpdate is the PATCH /tasks/{id} request body. Scalar fields track
// presence so that an omitted field is left unchanged while an explicit null
// is rejected for everything except description. Tags is a plain optional
// list; when non-nil it fully replaces the task's tag set.
type TaskUpdate struct {
	Title       optional.Value[string] `json:"title"`
	Description optional.Value[string] `json:"description"`
	Priority    optional.Value[int]    `json:"priority"`
	DueDate     optional.Value[Date]   `json:"due_date"`
	Completed   optional.Value[bool]   `json:"completed"`
	Tags        []string               `json:"tags"`
}

// TaskRead is the response shape for a single task.
type TaskRead struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Priority    int       `json:"priority"`
	DueDate     Date      `json:"due_date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Tags        []string  `json:"tags"`
}

// TaskList is the GET /tasks response. Total counts every matching task
// before pagination is applied.
type TaskList struct {
	Total int        `json:"total"`
	Tasks []TaskRead `json:"tasks"`
}

// Read converts a Task row to its response shape. Tags always marshal as a
// list, never null.
func (t Task) Read() TaskRead {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskRead{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     NewDate(t.DueDate),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Tags:        tags,
	}
}
