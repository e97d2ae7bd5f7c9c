package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/apperr"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// JSONFileRepository keeps the dataset in a single pretty-printed JSON document.
//
// The mutex only serializes callers inside this process. Two processes pointed at the same file
// can still overwrite each other's changes.
type JSONFileRepository struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewJSONFileRepository creates a repository backed by path on fs. The file is created lazily.
func NewJSONFileRepository(fs afero.Fs, path string) *JSONFileRepository {
	return &JSONFileRepository{
		fs:   fs,
		path: path,
	}
}

// Path returns the location of the backing file.
func (r *JSONFileRepository) Path() string {
	return r.path
}

// Read loads the dataset from disk.
func (r *JSONFileRepository) Read(ctx context.Context) (*models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureFile(); err != nil {
		return nil, err
	}
	return r.read()
}

// Write replaces the file content with ds.
func (r *JSONFileRepository) Write(ctx context.Context, ds *models.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.write(ds)
}

// Update reads the dataset, applies fn and writes the result back while holding the lock.
func (r *JSONFileRepository) Update(ctx context.Context, fn func(ds *models.Dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureFile(); err != nil {
		return err
	}
	ds, err := r.read()
	if err != nil {
		return err
	}
	if err := fn(ds); err != nil {
		return err
	}
	return r.write(ds)
}

func (r *JSONFileRepository) ensureFile() error {
	exists, err := afero.Exists(r.fs, r.path)
	if err != nil {
		return apperr.Store(err, "failed to stat data file")
	}
	if exists {
		return nil
	}
	if dir := filepath.Dir(r.path); dir != "." && dir != "" {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return apperr.Store(err, "failed to create data directory")
		}
	}
	log.Info().Str("path", r.path).Msg("creating empty data file")
	return r.write(models.NewDataset())
}

func (r *JSONFileRepository) read() (*models.Dataset, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		return nil, apperr.Store(err, "failed to read data file")
	}

	ds := models.NewDataset()
	if len(bytes.TrimSpace(data)) == 0 {
		return ds, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperr.Store(err, "failed to parse data file")
	}

	if ds.Users, err = decodeSequence[models.User](doc, "users"); err != nil {
		return nil, err
	}
	if ds.CollectionRequests, err = decodeSequence[models.CollectionRequest](doc, "collectionRequests"); err != nil {
		return nil, err
	}
	if ds.Coupons, err = decodeSequence[models.Coupon](doc, "coupons"); err != nil {
		return nil, err
	}
	if raw, ok := doc["sequences"]; ok && isJSONKind(raw, '{') {
		// A malformed counter block is rebuilt from the records by Normalize.
		if err := json.Unmarshal(raw, &ds.Sequences); err != nil {
			ds.Sequences = models.Sequences{}
		}
	}

	ds.Normalize()
	return ds, nil
}

func (r *JSONFileRepository) write(ds *models.Dataset) error {
	doc := models.NewDataset()
	if ds != nil {
		doc = ds.Clone()
	}
	doc.Normalize()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperr.Store(err, "failed to encode dataset")
	}

	tmp := r.path + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, 0o644); err != nil {
		return apperr.Store(err, "failed to write data file")
	}
	if err := r.fs.Rename(tmp, r.path); err != nil {
		return apperr.Store(err, "failed to replace data file")
	}
	return nil
}

// decodeSequence returns the array stored under key. Missing keys and values that are not arrays
// yield an empty slice; an array holding malformed records is a parse failure.
func decodeSequence[T any](doc map[string]json.RawMessage, key string) ([]T, error) {
	raw, ok := doc[key]
	if !ok || !isJSONKind(raw, '[') {
		return []T{}, nil
	}
	out := []T{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperr.Store(err, fmt.Sprintf("failed to parse %s", key))
	}
	return out, nil
}

func isJSONKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open
}
