package handlers

import (
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves read-only user views.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the user routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/usuarios")
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Get("/:id/recolecciones", h.HandleListCollectionRequests)
	userRoutes.Get("/:id/cupones", h.HandleListCoupons)
}

// HandleGetUser returns a user, including the current points balance.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleListCollectionRequests(c *fiber.Ctx) error {
	requests, err := h.service.ListCollectionRequests(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

func (h *UserHandler) HandleListCoupons(c *fiber.Ctx) error {
	coupons, err := h.service.ListCoupons(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(coupons)
}
