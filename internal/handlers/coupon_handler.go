package handlers

import (
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CouponHandler handles coupon redemption.
type CouponHandler struct {
	service *services.CouponService
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service *services.CouponService) *CouponHandler {
	return &CouponHandler{
		service: service,
	}
}

// RegisterRoutes registers the coupon routes.
func (h *CouponHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/canjear-cupon", h.HandleRedeem)
}

type redeemRequest struct {
	UserID flexibleID `json:"userId"`
	Type   string     `json:"type"`
	Tipo   string     `json:"tipo"`
}

// HandleRedeem spends points on a coupon.
func (h *CouponHandler) HandleRedeem(c *fiber.Ctx) error {
	var req redeemRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	couponType := req.Type
	if couponType == "" {
		couponType = req.Tipo
	}

	coupon, err := h.service.RedeemCoupon(c.UserContext(), services.RedeemInput{
		UserID: string(req.UserID),
		Type:   couponType,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(coupon)
}
