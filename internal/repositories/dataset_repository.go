package repositories

import (
	"context"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/models"
)

// DatasetRepository loads and saves the whole dataset.
//
// Update runs read, mutate and write as one serialized unit: concurrent callers on the same
// repository never observe each other's intermediate state, so no update is lost. If fn returns an
// error nothing is written and the error is returned unchanged.
type DatasetRepository interface {
	Read(ctx context.Context) (*models.Dataset, error)
	Write(ctx context.Context, ds *models.Dataset) error
	Update(ctx context.Context, fn func(ds *models.Dataset) error) error
}
