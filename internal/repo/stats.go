package repo

import "context"

// Stats summarizes the active (non-deleted) task set.
type Stats struct {
	TotalTasks int         `json:"total_tasks"`
	Completed  int         `json:"completed"`
	ByPriority map[int]int `json:"by_priority"`
}

func (r *TaskRepo) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByPriority: make(map[int]int)}

	rows, err := r.pool.Query(ctx, `
		SELECT priority, completed, COUNT(*)
		FROM tasks
		WHERE deleted_at IS NULL
		GROUP BY priority, completed
	`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			priority  int
			completed bool
			count     int
		)
		if err := rows.Scan(&priority, &completed, &count); err != nil {
			return stats, err
		}
		stats.TotalTasks += count
		stats.ByPriority[priority] += count
		if completed {
			stats.Completed += count
		}
	}
	return stats, rows.Err()
}
