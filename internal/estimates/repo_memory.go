package estimates

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64][]CostEstimate // projectID -> estimates
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[int64][]CostEstimate),
	}
}

// CreateBatch stores all rows under a single lock.
func (r *MemoryRepo) CreateBatch(ctx context.Context, rows []CostEstimate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.nextID++
		row.ID = r.nextID
		row.CreatedAt = now
		r.data[row.ProjectID] = append(r.data[row.ProjectID], row)
	}
	return nil
}

// ListByProject returns a copy of a project's estimates in insertion order.
func (r *MemoryRepo) ListByProject(ctx context.Context, projectID int64) ([]CostEstimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CostEstimate, len(r.data[projectID]))
	copy(out, r.data[projectID])
	return out, nil
}

// Count returns the number of stored rows across all projects.
func (r *MemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rows := range r.data {
		n += len(rows)
	}
	return n
}

var _ Repo = (*MemoryRepo)(nil)
