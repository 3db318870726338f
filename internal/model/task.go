package model

import "time"

// Task is the persisted task row. Tags holds the resolved tag names for the
// task and is loaded from the join table, not a column.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    int        `json:"priority"`
	DueDate     time.Time  `json:"due_date"`
	Completed   bool       `json:"completed"`
	DeletedAt   *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Tags        []string   `json:"tags"`
}

// Tag names are unique and case-sensitive. Tags are created lazily on first
// reference and never garbage-collected.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskTagLink is a row of the task_tags join table, composite key
// (task_id, tag_id).
type TaskTagLink struct {
	TaskID int64
	TagID  int64
}

// TaskFilter carries the list query. Nil pointer fields mean "no filter".
// Tags matches tasks carrying ANY of the listed names.
type TaskFilter struct {
	Completed *bool
	Priority  *int
	Tags      []string
	Limit     int
	Offset    int
}
