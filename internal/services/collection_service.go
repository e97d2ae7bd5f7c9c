package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/apperr"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/metrics"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/models"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/repositories"

	"github.com/rs/zerolog/log"
)

// CreateCollectionInput carries a new pickup request. UserID is kept as text so that both JSON
// numbers and numeric strings are accepted.
type CreateCollectionInput struct {
	UserID  string `json:"userId" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// UpdateStatusInput carries a status change for the request identified by ID.
type UpdateStatusInput struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// CollectionService handles collection request creation and lifecycle updates.
type CollectionService struct {
	repo      repositories.DatasetRepository
	publisher Publisher
	metrics   *metrics.Metrics
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(repo repositories.DatasetRepository, publisher Publisher, m *metrics.Metrics) *CollectionService {
	return &CollectionService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
	}
}

// CreateRequest stores a pending collection request for an existing user.
func (s *CollectionService) CreateRequest(ctx context.Context, in CreateCollectionInput) (*models.CollectionRequest, error) {
	in.Address = strings.TrimSpace(in.Address)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	userID, err := parseID("userId", in.UserID)
	if err != nil {
		return nil, err
	}

	var created models.CollectionRequest
	err = s.repo.Update(ctx, func(ds *models.Dataset) error {
		if ds.FindUserByID(userID) == nil {
			return apperr.NotFound(fmt.Sprintf("user with ID %d not found", userID))
		}
		created = models.CollectionRequest{
			ID:      ds.NextCollectionRequestID(),
			UserID:  userID,
			Address: in.Address,
			Status:  models.StatusPending,
		}
		ds.CollectionRequests = append(ds.CollectionRequests, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("request_id", created.ID).Int("user_id", userID).Msg("collection request created")
	s.metrics.CollectionRequestCreated()
	publishEvent(s.publisher, EventCollectionCreated, created)
	return &created, nil
}

// UpdateStatus sets the status of a request. Any transition is allowed. The owner earns
// models.PointsPerCompletedRequest only when the request moves into completed from another state.
func (s *CollectionService) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*models.CollectionRequest, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	id, err := parseID("id", in.ID)
	if err != nil {
		return nil, err
	}
	status, ok := models.ParseCollectionStatus(in.Status)
	if !ok {
		allowed := make([]string, len(models.CollectionStatuses))
		for i, st := range models.CollectionStatuses {
			allowed[i] = string(st)
		}
		return nil, apperr.Newf(apperr.CodeInvalidInput, "invalid status %q, allowed values: %s", in.Status, strings.Join(allowed, ", ")).
			WithDetails(map[string]any{"allowed": allowed})
	}

	var (
		updated  models.CollectionRequest
		previous models.CollectionStatus
		owner    *models.User
	)
	err = s.repo.Update(ctx, func(ds *models.Dataset) error {
		req := ds.FindCollectionRequestByID(id)
		if req == nil {
			return apperr.NotFound(fmt.Sprintf("collection request with ID %d not found", id))
		}
		previous = req.Status
		req.Status = status
		if previous != models.StatusCompleted && status == models.StatusCompleted {
			// Owners that no longer resolve are skipped without failing the update.
			if u := ds.FindUserByID(req.UserID); u != nil {
				u.Points += models.PointsPerCompletedRequest
				awarded := *u
				owner = &awarded
			}
		}
		updated = *req
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("request_id", id).Str("from", string(previous)).Str("to", string(status)).Msg("collection request status updated")
	s.metrics.StatusUpdated(string(status))
	publishEvent(s.publisher, EventCollectionStatusChanged, map[string]any{
		"id":     updated.ID,
		"userId": updated.UserID,
		"from":   previous,
		"to":     updated.Status,
	})
	if owner != nil {
		s.metrics.PointsAwarded(models.PointsPerCompletedRequest)
		publishEvent(s.publisher, EventPointsAwarded, map[string]any{
			"userId":    owner.ID,
			"requestId": updated.ID,
			"points":    models.PointsPerCompletedRequest,
			"balance":   owner.Points,
		})
	}
	return &updated, nil
}
