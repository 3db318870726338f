package repo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

var ErrorNotFound = errors.New("not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const taskColumns = "id, title, description, priority, due_date, completed, created_at, updated_at"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so tag loading can
// run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		pool: pool,
	}
}

// Create inserts the task and attaches its tags in one transaction. The tag
// list must already be deduplicated.
func (r *TaskRepo) Create(ctx context.Context, t model.Task, tags []string) (model.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO tasks (title, description, priority, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns+`
	`, t.Title, t.Description, t.Priority, t.DueDate).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return t, err
	}

	t.Tags, err = r.attachTags(ctx, tx, t.ID, tags)
	if err != nil {
		return t, err
	}

	return t, tx.Commit(ctx)
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, err
	}

	t.Tags, err = r.tagsFor(ctx, r.pool, t.ID)
	return t, err
}

// List returns one page of matching tasks plus the total match count before
// pagination. Filters are conjunctive; the tag filter matches tasks carrying
// any of the listed names.
func (r *TaskRepo) List(ctx context.Context, f model.TaskFilter) ([]model.Task, int, error) {
	base := psql.Select().From("tasks t").Where("t.deleted_at IS NULL")
	if f.Completed != nil {
		base = base.Where(sq.Eq{"t.completed": *f.Completed})
	}
	if f.Priority != nil {
		base = base.Where(sq.Eq{"t.priority": *f.Priority})
	}
	if len(f.Tags) > 0 {
		base = base.
			Join("task_tags tt ON tt.task_id = t.id").
			Join("tags tg ON tg.id = tt.tag_id").
			Where(sq.Eq{"tg.name": f.Tags})
	}

	countSQL, countArgs, err := base.Columns("COUNT(DISTINCT t.id)").ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageSQL, pageArgs, err := base.
		Columns(
			"DISTINCT t.id", "t.title", "t.description", "t.priority",
			"t.due_date", "t.completed", "t.created_at", "t.updated_at",
		).
		OrderBy("t.created_at DESC", "t.id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0, f.Limit)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadTags(ctx, tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update applies only the fields present in the patch and always refreshes
// updated_at, so a tag-only patch still bumps the timestamp. A non-nil tag
// list replaces the task's entire tag set.
func (r *TaskRepo) Update(ctx context.Context, id int64, patch model.TaskUpdate) (model.Task, error) {
	var t model.Task

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer tx.Rollback(ctx)

	q := psql.Update("tasks").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + taskColumns)

	if patch.Title.Set {
		q = q.Set("title", patch.Title.V)
	}
	if patch.Description.Set {
		if patch.Description.Valid {
			q = q.Set("description", patch.Description.V)
		} else {
			q = q.Set("description", nil)
		}
	}
	if patch.Priority.Set {
		q = q.Set("priority", patch.Priority.V)
	}
	if patch.DueDate.Set {
		q = q.Set("due_date", patch.DueDate.V.Time)
	}
	if patch.Completed.Set {
		q = q.Set("completed", patch.Completed.V)
	}

	updateSQL, args, err := q.ToSql()
	if err != nil {
		return t, err
	}

	err = tx.QueryRow(ctx, updateSQL, args...).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	if err != nil {
		return t, err
	}

	if patch.Tags != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1`, id); err != nil {
			return t, err
		}
		t.Tags, err = r.attachTags(ctx, tx, id, patch.Tags)
	} else {
		t.Tags, err = r.tagsFor(ctx, tx, id)
	}
	if err != nil {
		return t, err
	}

	return t, tx.Commit(ctx)
}

// SoftDelete hides the task from all further reads. Deleting an already
// soft-deleted task reports not found.
func (r *TaskRepo) SoftDelete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

// findOrCreateTag resolves a tag by exact name, inserting it on first use.
// The upsert form keeps RETURNING populated when a concurrent insert wins
// the race on the unique name constraint, so neither side errors.
func (r *TaskRepo) findOrCreateTag(ctx context.Context, tx pgx.Tx, name string) (model.Tag, error) {
	var tag model.Tag
	err := tx.QueryRow(ctx, `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, name).Scan(&tag.ID, &tag.Name)
	return tag, err
}

func (r *TaskRepo) attachTags(ctx context.Context, tx pgx.Tx, taskID int64, names []string) ([]string, error) {
	attached := make([]string, 0, len(names))
	for _, name := range names {
		tag, err := r.findOrCreateTag(ctx, tx, name)
		if err != nil {
			return nil, err
		}

		link := model.TaskTagLink{TaskID: taskID, TagID: tag.ID}
		if _, err := tx.Exec(ctx, `
			INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2)
			ON CONFLICT (task_id, tag_id) DO NOTHING
		`, link.TaskID, link.TagID); err != nil {
			return nil, err
		}
		attached = append(attached, tag.Name)
	}
	return attached, nil
}

func (r *TaskRepo) tagsFor(ctx context.Context, q querier, taskID int64) ([]string, error) {
	rows, err := q.Query(ctx, `
		SELECT tg.name
		FROM task_tags tt
		JOIN tags tg ON tg.id = tt.tag_id
		WHERE tt.task_id = $1
		ORDER BY tg.name
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0, 4)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// loadTags fills Tags for a page of tasks with a single query.
func (r *TaskRepo) loadTags(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}

	tagSQL, args, err := psql.
		Select("tt.task_id", "tg.name").
		From("task_tags tt").
		Join("tags tg ON tg.id = tt.tag_id").
		Where(sq.Eq{"tt.task_id": ids}).
		OrderBy("tg.name").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := r.pool.Query(ctx, tagSQL, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	byTask := make(map[int64][]string, len(tasks))
	for rows.Next() {
		var link model.TaskTagLink
		var name string
		if err := rows.Scan(&link.TaskID, &name); err != nil {
			return err
		}
		byTask[link.TaskID] = append(byTask[link.TaskID], name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range tasks {
		tasks[i].Tags = byTask[tasks[i].ID]
	}
	return nil
}
