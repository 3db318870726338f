// internal/repo/task_test.go
package repo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/pkg/optional"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatal(err)
	}

	pool.Exec(context.Background(), "TRUNCATE tasks, tags, task_tags RESTART IDENTITY CASCADE")

	return pool
}

func testTask(title string) model.Task {
	return model.Task{
		Title:    title,
		Priority: 3,
		DueDate:  time.Now().AddDate(0, 0, 7),
	}
}

func TestTaskRepo_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)

	created, err := repo.Create(context.Background(), testTask("Test"), []string{"work", "urgent"})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if created.Completed {
		t.Error("expected completed=false by default")
	}
	if len(created.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", created.Tags)
	}

	fetched, err := repo.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Title != "Test" {
		t.Errorf("expected title=Test, got %s", fetched.Title)
	}
	if len(fetched.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", fetched.Tags)
	}
}

func TestTaskRepo_TagReuse(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	if _, err := repo.Create(ctx, testTask("First"), []string{"work"}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Create(ctx, testTask("Second"), []string{"work"}); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM tags WHERE name = 'work'").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected a single shared tag row, got %d", count)
	}
}

func TestTaskRepo_SoftDelete(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, testTask("To delete"), nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.SoftDelete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.Get(ctx, created.ID); !errors.Is(err, ErrorNotFound) {
		t.Errorf("expected ErrorNotFound after soft delete, got %v", err)
	}

	// Delete is not idempotent: the hidden row reports not found.
	if err := repo.SoftDelete(ctx, created.ID); !errors.Is(err, ErrorNotFound) {
		t.Errorf("expected ErrorNotFound on second delete, got %v", err)
	}

	var stillThere int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks WHERE id = $1", created.ID).Scan(&stillThere); err != nil {
		t.Fatal(err)
	}
	if stillThere != 1 {
		t.Error("soft-deleted row must stay in storage")
	}
}

func TestTaskRepo_ListTotalAndFilters(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		task := testTask("Task")
		task.Priority = (i % 5) + 1
		tags := []string{"misc"}
		if i == 0 {
			tags = []string{"work"}
		}
		if _, err := repo.Create(ctx, task, tags); err != nil {
			t.Fatal(err)
		}
	}

	tasks, total, err := repo.List(ctx, model.TaskFilter{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 {
		t.Errorf("expected total=5 before pagination, got %d", total)
	}
	if len(tasks) != 2 {
		t.Errorf("expected a page of 2, got %d", len(tasks))
	}

	priority := 5
	tasks, total, err = repo.List(ctx, model.TaskFilter{Priority: &priority, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(tasks) != 1 || tasks[0].Priority != 5 {
		t.Errorf("priority filter failed: total=%d tasks=%v", total, tasks)
	}

	tasks, total, err = repo.List(ctx, model.TaskFilter{Tags: []string{"work"}, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(tasks) != 1 {
		t.Errorf("tag filter failed: total=%d tasks=%v", total, tasks)
	}
}

func TestTaskRepo_StatsExcludesDeleted(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	keep := testTask("Keep")
	if _, err := repo.Create(ctx, keep, nil); err != nil {
		t.Fatal(err)
	}

	gone := testTask("Gone")
	gone.Priority = 5
	created, err := repo.Create(ctx, gone, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.SoftDelete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalTasks != 1 {
		t.Errorf("expected soft-deleted task excluded, got total=%d", stats.TotalTasks)
	}
	if stats.ByPriority[5] != 0 {
		t.Errorf("expected no priority-5 count, got %d", stats.ByPriority[5])
	}
	if stats.ByPriority[3] != 1 {
		t.Errorf("expected one priority-3 task, got %d", stats.ByPriority[3])
	}
}

func TestTaskRepo_UpdateMasksFields(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewTaskRepo(pool)
	ctx := context.Background()

	created, err := repo.Create(ctx, testTask("Original"), []string{"work"})
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)
	updated, err := repo.Update(ctx, created.ID, model.TaskUpdate{
		Title: optional.Of("Updated"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Updated" {
		t.Errorf("expected title=Updated, got %s", updated.Title)
	}
	if updated.Priority != created.Priority {
		t.Error("priority must be unchanged")
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "work" {
		t.Errorf("tags must be unchanged, got %v", updated.Tags)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("updated_at must advance")
	}

	// A set tags list fully replaces the old set.
	updated, err = repo.Update(ctx, created.ID, model.TaskUpdate{
		Tags: []string{"urgent", "personal"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Tags) != 2 {
		t.Errorf("expected replaced tag set, got %v", updated.Tags)
	}
	for _, name := range updated.Tags {
		if name == "work" {
			t.Error("old tag must not survive replacement")
		}
	}
}
