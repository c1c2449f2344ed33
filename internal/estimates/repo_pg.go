package estimates

import (
	"context"
	"database/sql"
	"fmt"

	"cost-estimator/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateBatch inserts every row in one transaction and commits once.
func (r *PGRepo) CreateBatch(ctx context.Context, rows []CostEstimate) error {
	if len(rows) == 0 {
		return nil
	}
	const query = `
INSERT INTO cost_estimates (
    project_id,
    task,
    task_position,
    subtask,
    development_hours,
    comments
) VALUES ($1, $2, $3, $4, $5, $6)`

	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for i, row := range rows {
			if _, err := tx.ExecContext(ctx, query,
				row.ProjectID,
				row.Task,
				row.TaskPosition,
				nullString(row.Subtask),
				row.DevelopmentHours,
				nullString(row.Comments),
			); err != nil {
				return fmt.Errorf("insert cost estimate %d: %w", i, err)
			}
		}
		return nil
	})
}

// ListByProject returns a project's estimates in insertion order.
func (r *PGRepo) ListByProject(ctx context.Context, projectID int64) ([]CostEstimate, error) {
	const query = `
SELECT estimate_id, project_id, task, task_position, subtask, development_hours, comments, created_at
FROM cost_estimates
WHERE project_id = $1
ORDER BY estimate_id ASC`

	rows, err := r.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CostEstimate{}
	for rows.Next() {
		var ce CostEstimate
		var subtask sql.NullString
		var comments sql.NullString
		if err := rows.Scan(
			&ce.ID,
			&ce.ProjectID,
			&ce.Task,
			&ce.TaskPosition,
			&subtask,
			&ce.DevelopmentHours,
			&comments,
			&ce.CreatedAt,
		); err != nil {
			return nil, err
		}
		if subtask.Valid {
			ce.Subtask = subtask.String
		}
		if comments.Valid {
			ce.Comments = comments.String
		}
		out = append(out, ce)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
