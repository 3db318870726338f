package service

import (
	"context"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
	"github.com/BuzzLyutic/task-tracker-api/internal/validation"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type TaskService struct {
	repo      repo.TaskRepository
	validator *validation.Validator
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{
		repo:      repo,
		validator: validation.New(),
	}
}

func (s *TaskService) Create(ctx context.Context, in model.TaskCreate) (model.TaskRead, error) {
	if err := s.validator.Create(in); err != nil {
		return model.TaskRead{}, err
	}

	task := model.Task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate.Time,
	}

	created, err := s.repo.Create(ctx, task, dedupe(in.Tags))
	if err != nil {
		return model.TaskRead{}, err
	}
	return created.Read(), nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.TaskRead, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.TaskRead{}, err
	}
	return task.Read(), nil
}

func (s *TaskService) List(ctx context.Context, f model.TaskFilter) (model.TaskList, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	tasks, total, err := s.repo.List(ctx, f)
	if err != nil {
		return model.TaskList{}, err
	}

	out := model.TaskList{
		Total: total,
		Tasks: make([]model.TaskRead, 0, len(tasks)),
	}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, t.Read())
	}
	return out, nil
}

func (s *TaskService) Update(ctx context.Context, id int64, in model.TaskUpdate) (model.TaskRead, error) {
	if err := s.validator.Update(in); err != nil {
		return model.TaskRead{}, err
	}
	if in.Tags != nil {
		in.Tags = dedupe(in.Tags)
	}

	task, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return model.TaskRead{}, err
	}
	return task.Read(), nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *TaskService) Stats(ctx context.Context) (repo.Stats, error) {
	return s.repo.Stats(ctx)
}

// dedupe drops repeated tag names, case-sensitively, keeping first-seen
// order. Duplicates in the request are not an error.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
