package repositories

import (
	"context"
	"sync"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/models"
)

// MemoryDatasetRepository is an in-memory implementation of DatasetRepository. Data is lost when
// the process exits.
type MemoryDatasetRepository struct {
	ds *models.Dataset
	mu sync.RWMutex
}

// NewMemoryDatasetRepository creates a new instance of MemoryDatasetRepository.
func NewMemoryDatasetRepository() *MemoryDatasetRepository {
	return &MemoryDatasetRepository{
		ds: models.NewDataset(),
	}
}

// Read returns a copy of the current dataset.
func (r *MemoryDatasetRepository) Read(_ context.Context) (*models.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ds.Clone(), nil
}

// Write stores a copy of ds.
func (r *MemoryDatasetRepository) Write(_ context.Context, ds *models.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ds == nil {
		ds = models.NewDataset()
	}
	next := ds.Clone()
	next.Normalize()
	r.ds = next
	return nil
}

// Update applies fn to a copy and keeps it only when fn succeeds.
func (r *MemoryDatasetRepository) Update(_ context.Context, fn func(ds *models.Dataset) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.ds.Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.Normalize()
	r.ds = next
	return nil
}
