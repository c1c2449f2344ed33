package projects

import "context"

// Repo defines persistence operations for projects.
type Repo interface {
	// Create inserts the project and returns its assigned identifier.
	Create(ctx context.Context, p Project) (Project, error)
	GetByID(ctx context.Context, id int64) (Project, error)
	List(ctx context.Context, limit, offset int) ([]Project, error)
}
