package projects

import (
	"context"
	"database/sql"
	"errors"

	"cost-estimator/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts the project in its own transaction. A failed insert is
// rolled back before the error is returned.
func (r *PGRepo) Create(ctx context.Context, p Project) (Project, error) {
	const query = `
INSERT INTO projects (
    project_name,
    project_size,
    budget,
    timeline,
    industry,
    additional_info,
    document_content,
    attachment_name,
    attachment_key
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING project_id, created_at`

	var timeline sql.NullInt64
	if p.Timeline != nil {
		timeline = sql.NullInt64{Int64: int64(*p.Timeline), Valid: true}
	}

	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		return tx.QueryRowContext(
			ctx,
			query,
			p.Name,
			p.Size,
			p.Budget,
			timeline,
			p.Industry,
			p.AdditionalInfo,
			p.DocumentContent,
			nullString(p.AttachmentName),
			nullString(p.AttachmentKey),
		).Scan(&p.ID, &p.CreatedAt)
	})
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

const selectColumns = `project_id, project_name, project_size, budget, timeline, industry, additional_info, document_content, attachment_name, attachment_key, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	var timeline sql.NullInt64
	var industry, additionalInfo, documentContent, attachmentName, attachmentKey sql.NullString
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Size,
		&p.Budget,
		&timeline,
		&industry,
		&additionalInfo,
		&documentContent,
		&attachmentName,
		&attachmentKey,
		&p.CreatedAt,
	); err != nil {
		return Project{}, err
	}
	if timeline.Valid {
		t := int(timeline.Int64)
		p.Timeline = &t
	}
	p.Industry = industry.String
	p.AdditionalInfo = additionalInfo.String
	p.DocumentContent = documentContent.String
	p.AttachmentName = attachmentName.String
	p.AttachmentKey = attachmentKey.String
	return p, nil
}

// GetByID fetches a project by identifier.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Project, error) {
	query := `SELECT ` + selectColumns + ` FROM projects WHERE project_id = $1`
	p, err := scanProject(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return p, nil
}

// List returns projects newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Project, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + selectColumns + ` FROM projects ORDER BY created_at DESC, project_id DESC LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
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
