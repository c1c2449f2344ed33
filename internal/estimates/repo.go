package estimates

import "context"

// Repo defines persistence operations for cost estimates.
type Repo interface {
	// CreateBatch stores all rows atomically: either every row is written or none.
	CreateBatch(ctx context.Context, rows []CostEstimate) error
	ListByProject(ctx context.Context, projectID int64) ([]CostEstimate, error)
}
