package services

import (
	"context"
	"fmt"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/apperr"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/models"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/repositories"
)

// UserService serves read-only views of a user and what they own.
type UserService struct {
	repo repositories.DatasetRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.DatasetRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, rawID string) (*models.User, error) {
	_, user, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListCollectionRequests returns the user's collection requests in creation order.
func (s *UserService) ListCollectionRequests(ctx context.Context, rawID string) ([]models.CollectionRequest, error) {
	ds, user, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	out := []models.CollectionRequest{}
	for _, r := range ds.CollectionRequests {
		if r.UserID == user.ID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListCoupons returns the user's coupons in creation order.
func (s *UserService) ListCoupons(ctx context.Context, rawID string) ([]models.Coupon, error) {
	ds, user, err := s.load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	out := []models.Coupon{}
	for _, c := range ds.Coupons {
		if c.UserID == user.ID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *UserService) load(ctx context.Context, rawID string) (*models.Dataset, *models.User, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, nil, err
	}
	ds, err := s.repo.Read(ctx)
	if err != nil {
		return nil, nil, err
	}
	user := ds.FindUserByID(id)
	if user == nil {
		return nil, nil, apperr.NotFound(fmt.Sprintf("user with ID %d not found", id))
	}
	found := *user
	return ds, &found, nil
}
