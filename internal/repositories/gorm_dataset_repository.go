package repositories

import (
	"context"
	"sync"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/apperr"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/models"

	"gorm.io/gorm"
)

// GORMDatasetRepository stores the dataset in relational tables. Update runs inside one
// transaction, so a failure leaves the previous state intact.
type GORMDatasetRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewGORMDatasetRepository creates a new instance of GORMDatasetRepository.
func NewGORMDatasetRepository(db *gorm.DB) *GORMDatasetRepository {
	return &GORMDatasetRepository{
		db: db,
	}
}

// AutoMigrate creates the users, collection_requests and coupons tables when missing.
func (r *GORMDatasetRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&models.User{}, &models.CollectionRequest{}, &models.Coupon{}); err != nil {
		return apperr.Store(err, "failed to migrate tables")
	}
	return nil
}

// Read loads every table into a dataset.
func (r *GORMDatasetRepository) Read(ctx context.Context) (*models.Dataset, error) {
	return load(r.db.WithContext(ctx))
}

// Write replaces the content of every table with ds.
func (r *GORMDatasetRepository) Write(ctx context.Context, ds *models.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replace(tx, ds)
	})
}

// Update loads, mutates and rewrites the dataset in a single transaction.
func (r *GORMDatasetRepository) Update(ctx context.Context, fn func(ds *models.Dataset) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ds, err := load(tx)
		if err != nil {
			return err
		}
		if err := fn(ds); err != nil {
			return err
		}
		return replace(tx, ds)
	})
}

func load(db *gorm.DB) (*models.Dataset, error) {
	ds := models.NewDataset()
	if err := db.Order("id").Find(&ds.Users).Error; err != nil {
		return nil, apperr.Store(err, "failed to load users")
	}
	if err := db.Order("id").Find(&ds.CollectionRequests).Error; err != nil {
		return nil, apperr.Store(err, "failed to load collection requests")
	}
	if err := db.Order("id").Find(&ds.Coupons).Error; err != nil {
		return nil, apperr.Store(err, "failed to load coupons")
	}
	ds.Normalize()
	return ds, nil
}

func replace(tx *gorm.DB, ds *models.Dataset) error {
	if ds == nil {
		ds = models.NewDataset()
	}
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := all.Delete(&models.Coupon{}).Error; err != nil {
		return apperr.Store(err, "failed to clear coupons")
	}
	if err := all.Delete(&models.CollectionRequest{}).Error; err != nil {
		return apperr.Store(err, "failed to clear collection requests")
	}
	if err := all.Delete(&models.User{}).Error; err != nil {
		return apperr.Store(err, "failed to clear users")
	}

	if len(ds.Users) > 0 {
		if err := tx.Create(&ds.Users).Error; err != nil {
			return apperr.Store(err, "failed to save users")
		}
	}
	if len(ds.CollectionRequests) > 0 {
		if err := tx.Create(&ds.CollectionRequests).Error; err != nil {
			return apperr.Store(err, "failed to save collection requests")
		}
	}
	if len(ds.Coupons) > 0 {
		if err := tx.Create(&ds.Coupons).Error; err != nil {
			return apperr.Store(err, "failed to save coupons")
		}
	}
	return nil
}
