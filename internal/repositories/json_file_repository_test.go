package repositories_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/apperr"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/models"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/repositories"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataPath = "data/db.json"

func newJSONRepo(t *testing.T, content string) (*repositories.JSONFileRepository, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	if content != "" {
		require.NoError(t, afero.WriteFile(fs, dataPath, []byte(content), 0o644))
	}
	return repositories.NewJSONFileRepository(fs, dataPath), fs
}

func TestJSONFileRepository_CreatesFileOnFirstRead(t *testing.T) {
	repo, fs := newJSONRepo(t, "")

	ds, err := repo.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Users)
	assert.Empty(t, ds.CollectionRequests)
	assert.Empty(t, ds.Coupons)

	content, err := afero.ReadFile(fs, dataPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"users": []`)
	assert.Contains(t, string(content), `"collectionRequests": []`)
	assert.Contains(t, string(content), `"coupons": []`)
}

func TestJSONFileRepository_BlankFileIsEmptyDataset(t *testing.T) {
	repo, _ := newJSONRepo(t, "   \n\t ")

	ds, err := repo.Read(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ds.Users)
	assert.Empty(t, ds.Users)
}

func TestJSONFileRepository_SanitizesTopLevelFields(t *testing.T) {
	repo, _ := newJSONRepo(t, `{
  "users": {"not": "a list"},
  "coupons": null,
  "collectionRequests": [{"id": 4, "userId": 1, "address": "Calle 1", "status": "pending"}]
}`)

	ds, err := repo.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Users)
	assert.Empty(t, ds.Coupons)
	require.Len(t, ds.CollectionRequests, 1)
	assert.Equal(t, 4, ds.Sequences.CollectionRequests)
}

func TestJSONFileRepository_ParseFailureIsStoreError(t *testing.T) {
	repo, _ := newJSONRepo(t, `{"users": [`)

	_, err := repo.Read(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeStore))
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
}

func TestJSONFileRepository_MalformedRecordIsStoreError(t *testing.T) {
	repo, _ := newJSONRepo(t, `{"users": [{"id": "one"}]}`)

	_, err := repo.Read(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeStore))
}

func TestJSONFileRepository_RoundTrip(t *testing.T) {
	repo, fs := newJSONRepo(t, "")
	ctx := context.Background()

	want := &models.Dataset{
		Users: []models.User{
			{ID: 1, Name: "Ana", Email: "ana@x.com", Password: "p1", Points: 30},
		},
		CollectionRequests: []models.CollectionRequest{
			{ID: 1, UserID: 1, Address: "Calle 1", Status: models.StatusCompleted},
		},
		Coupons: []models.Coupon{
			{ID: 1, UserID: 1, Type: "descuento", PointsRedeemed: models.CouponCost},
		},
		Sequences: models.Sequences{Users: 1, CollectionRequests: 1, Coupons: 1},
	}
	require.NoError(t, repo.Write(ctx, want))

	got, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	content, err := afero.ReadFile(fs, dataPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "{\n  \"users\": [\n    {"), "expected two-space indentation, got %q", content)
}

func TestJSONFileRepository_WriteLeavesCallerDatasetUntouched(t *testing.T) {
	repo, _ := newJSONRepo(t, "")
	ctx := context.Background()

	ds := &models.Dataset{
		Users: []models.User{{ID: 4, Name: "Ana", Email: "ana@x.com", Password: "p1"}},
	}
	require.NoError(t, repo.Write(ctx, ds))

	assert.Nil(t, ds.CollectionRequests)
	assert.Nil(t, ds.Coupons)
	assert.Equal(t, models.Sequences{}, ds.Sequences)

	stored, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Sequences.Users)
	assert.Equal(t, []models.Coupon{}, stored.Coupons)
}

func TestJSONFileRepository_SequencesSurviveMissingCounters(t *testing.T) {
	repo, _ := newJSONRepo(t, `{"users": [{"id": 1}, {"id": 2}], "collectionRequests": [], "coupons": []}`)

	var id int
	err := repo.Update(context.Background(), func(ds *models.Dataset) error {
		id = ds.NextUserID()
		ds.Users = append(ds.Users, models.User{ID: id})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestJSONFileRepository_UpdateErrorSkipsWrite(t *testing.T) {
	repo, _ := newJSONRepo(t, "")
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.Update(ctx, func(ds *models.Dataset) error {
		ds.Users = append(ds.Users, models.User{ID: 1, Email: "ana@x.com"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	ds, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, ds.Users)
}

func TestJSONFileRepository_ConcurrentUpdatesKeepEveryRecord(t *testing.T) {
	repo, _ := newJSONRepo(t, "")
	ctx := context.Background()

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Update(ctx, func(ds *models.Dataset) error {
				ds.Users = append(ds.Users, models.User{ID: ds.NextUserID()})
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ds, err := repo.Read(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Users, writers)
	seen := map[int]bool{}
	for _, u := range ds.Users {
		assert.False(t, seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
	}
}

func TestJSONFileRepository_ReadOnlyFilesystemIsStoreError(t *testing.T) {
	repo := repositories.NewJSONFileRepository(afero.NewReadOnlyFs(afero.NewMemMapFs()), dataPath)

	_, err := repo.Read(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeStore))
}
