package services_test

import (
	"context"
	"testing"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/apperr"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/metrics"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/models"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/repositories"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo repositories.DatasetRepository, points int) models.User {
	t.Helper()
	var user models.User
	err := repo.Update(context.Background(), func(ds *models.Dataset) error {
		user = models.User{ID: ds.NextUserID(), Name: "Ana", Email: "ana@x.com", Password: "p1", Points: points}
		ds.Users = append(ds.Users, user)
		return nil
	})
	require.NoError(t, err)
	return user
}

func pointsOf(t *testing.T, repo repositories.DatasetRepository, userID int) int {
	t.Helper()
	ds, err := repo.Read(context.Background())
	require.NoError(t, err)
	user := ds.FindUserByID(userID)
	require.NotNil(t, user)
	return user.Points
}

func TestCollectionService_CreateRequest(t *testing.T) {
	repo := repositories.NewMemoryDatasetRepository()
	service := services.NewCollectionService(repo, nil, nil)
	user := seedUser(t, repo, 0)
	ctx := context.Background()

	req, err := service.CreateRequest(ctx, services.CreateCollectionInput{UserID: "1", Address: "Calle 1"})
	require.NoError(t, err)
	assert.Equal(t, 1, req.ID)
	assert.Equal(t, user.ID, req.UserID)
	assert.Equal(t, "Calle 1", req.Address)
	assert.Equal(t, models.StatusPending, req.Status)

	// Test unknown user
	_, err = service.CreateRequest(ctx, services.CreateCollectionInput{UserID: "42", Address: "Calle 2"})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	// Test invalid ids and missing fields
	for _, in := range []services.CreateCollectionInput{
		{UserID: "abc", Address: "Calle 1"},
		{UserID: "0", Address: "Calle 1"},
		{UserID: "-3", Address: "Calle 1"},
		{UserID: "1.5", Address: "Calle 1"},
		{UserID: "1"},
		{Address: "Calle 1"},
	} {
		_, err = service.CreateRequest(ctx, in)
		assert.True(t, apperr.IsCode(err, apperr.CodeInvalidInput), "input %+v gave %v", in, err)
	}
}

func TestCollectionService_UpdateStatusAwardsPointsOnce(t *testing.T) {
	repo := repositories.NewMemoryDatasetRepository()
	m := metrics.New()
	service := services.NewCollectionService(repo, nil, m)
	user := seedUser(t, repo, 0)
	ctx := context.Background()

	_, err := service.CreateRequest(ctx, services.CreateCollectionInput{UserID: "1", Address: "Calle 1"})
	require.NoError(t, err)

	updated, err := service.UpdateStatus(ctx, services.UpdateStatusInput{ID: "1", Status: "completada"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, 10, pointsOf(t, repo, user.ID))

	// Re-setting completed does not award again
	_, err = service.UpdateStatus(ctx, services.UpdateStatusInput{ID: "1", Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, 10, pointsOf(t, repo, user.ID))

	// Leaving and re-entering completed awards again
	_, err = service.UpdateStatus(ctx, services.UpdateStatusInput{ID: "1", Status: "pending"})
	require.NoError(t, err)
	_, err = service.UpdateStatus(ctx, services.UpdateStatusInput{ID: "1", Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, 20, pointsOf(t, repo, user.ID))
}

func TestCollectionService_UpdateStatusSkipsMissingOwner(t *testing.T) {
	repo := repositories.NewMemoryDatasetRepository()
	service := services.NewCollectionService(repo, nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Write(ctx, &models.Dataset{
		CollectionRequests: []models.CollectionRequest{{ID: 1, UserID: 9, Address: "Calle 1", Status: models.StatusInProgress}},
	}))

	updated, err := service.UpdateStatus(ctx, services.UpdateStatusInput{ID: "1", Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
}

func TestCollectionService_UpdateStatusErrors(t *testing.T) {
	repo := repositories.NewMemoryDatasetRepository()
	service := services.NewCollectionService(repo, nil, nil)
	seedUser(t, repo, 0)
	ctx := context.Background()

	_, err := service.UpdateStatus(ctx, services.UpdateStatusInput{ID: "1", Status: "completed"})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	_, err = service.UpdateStatus(ctx, services.UpdateStatusInput{ID: "1", Status: "shipped"})
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidInput))
	assert.Contains(t, err.Error(), "pending, in_progress, completed, cancelled")

	_, err = service.UpdateStatus(ctx, services.UpdateStatusInput{ID: "1"})
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidInput))

	_, err = service.UpdateStatus(ctx, services.UpdateStatusInput{ID: "x", Status: "completed"})
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidInput))
}

func TestCollectionService_UpdateStatusPublishesEvents(t *testing.T) {
	repo := repositories.NewMemoryDatasetRepository()
	publisher := new(MockPublisher)
	service := services.NewCollectionService(repo, publisher, nil)
	seedUser(t, repo, 0)
	ctx := context.Background()

	publisher.On("Publish", services.EventCollectionCreated, mock.Anything).Return(nil).Once()
	publisher.On("Publish", services.EventCollectionStatusChanged, mock.Anything).Return(nil).Once()
	publisher.On("Publish", services.EventPointsAwarded, mock.Anything).Return(nil).Once()

	_, err := service.CreateRequest(ctx, services.CreateCollectionInput{UserID: "1", Address: "Calle 1"})
	require.NoError(t, err)
	_, err = service.UpdateStatus(ctx, services.UpdateStatusInput{ID: "1", Status: "completed"})
	require.NoError(t, err)

	publisher.AssertExpectations(t)
}
