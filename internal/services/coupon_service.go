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

// RedeemInput identifies the user spending points and the kind of coupon requested.
type RedeemInput struct {
	UserID string `json:"userId" validate:"required"`
	Type   string `json:"type" validate:"required"`
}

// CouponService exchanges points for coupons.
type CouponService struct {
	repo      repositories.DatasetRepository
	publisher Publisher
	metrics   *metrics.Metrics
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repositories.DatasetRepository, publisher Publisher, m *metrics.Metrics) *CouponService {
	return &CouponService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
	}
}

// RedeemCoupon deducts models.CouponCost points from the user and records the coupon.
func (s *CouponService) RedeemCoupon(ctx context.Context, in RedeemInput) (*models.Coupon, error) {
	in.Type = strings.TrimSpace(in.Type)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	userID, err := parseID("userId", in.UserID)
	if err != nil {
		return nil, err
	}

	var (
		created models.Coupon
		balance int
	)
	err = s.repo.Update(ctx, func(ds *models.Dataset) error {
		user := ds.FindUserByID(userID)
		if user == nil {
			return apperr.NotFound(fmt.Sprintf("user with ID %d not found", userID))
		}
		if user.Points < models.CouponCost {
			return apperr.Newf(apperr.CodeInsufficientPoints, "insufficient points: %d available, %d required", user.Points, models.CouponCost).
				WithDetails(map[string]int{"available": user.Points, "required": models.CouponCost})
		}
		user.Points -= models.CouponCost
		balance = user.Points
		created = models.Coupon{
			ID:             ds.NextCouponID(),
			UserID:         userID,
			Type:           in.Type,
			PointsRedeemed: models.CouponCost,
		}
		ds.Coupons = append(ds.Coupons, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("coupon_id", created.ID).Int("user_id", userID).Int("balance", balance).Msg("coupon redeemed")
	s.metrics.CouponRedeemed(models.CouponCost)
	publishEvent(s.publisher, EventCouponRedeemed, map[string]any{
		"coupon":  created,
		"balance": balance,
	})
	return &created, nil
}
