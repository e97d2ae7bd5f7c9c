package handlers

import (
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CollectionHandler handles HTTP requests for collection requests.
type CollectionHandler struct {
	service *services.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(service *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		service: service,
	}
}

// RegisterRoutes registers the collection request routes.
func (h *CollectionHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/recoleccion", h.HandleCreateRequest)
	router.Put("/recoleccion/:id", h.HandleUpdateStatus)
}

type createCollectionRequest struct {
	UserID  flexibleID `json:"userId"`
	Address string     `json:"address"`
}

// HandleCreateRequest creates a pending collection request.
func (h *CollectionHandler) HandleCreateRequest(c *fiber.Ctx) error {
	var req createCollectionRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	created, err := h.service.CreateRequest(c.UserContext(), services.CreateCollectionInput{
		UserID:  string(req.UserID),
		Address: req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// updateStatusRequest accepts the status under its English or Spanish name.
type updateStatusRequest struct {
	Status string `json:"status"`
	Estado string `json:"estado"`
}

// HandleUpdateStatus sets the status of an existing collection request.
func (h *CollectionHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	status := req.Status
	if status == "" {
		status = req.Estado
	}

	updated, err := h.service.UpdateStatus(c.UserContext(), services.UpdateStatusInput{
		ID:     c.Params("id"),
		Status: status,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(updated)
}
