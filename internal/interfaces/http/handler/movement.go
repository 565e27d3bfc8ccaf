package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/application/inventory"
)

// MovementHandler handles movement log API endpoints
type MovementHandler struct {
	BaseHandler
	movementService *inventoryapp.MovementService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(movementService *inventoryapp.MovementService) *MovementHandler {
	return &MovementHandler{
		movementService: movementService,
	}
}

// Get retrieves a movement by ID
func (h *MovementHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	movement, err := h.movementService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movement)
}

// List retrieves a paginated movement history with optional filtering
func (h *MovementHandler) List(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	movements, total, err := h.movementService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// ListByVariant retrieves the movement history for a variant
func (h *MovementHandler) ListByVariant(c *gin.Context) {
	variantID, ok := h.uuidParam(c, "variant_id")
	if !ok {
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	movements, total, err := h.movementService.ListByVariant(c.Request.Context(), variantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// ListByLocation retrieves the movement history at a location
func (h *MovementHandler) ListByLocation(c *gin.Context) {
	locationID, ok := h.uuidParam(c, "location_id")
	if !ok {
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	movements, total, err := h.movementService.ListByLocation(c.Request.Context(), locationID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// ListByOrder retrieves every movement recorded against an order
func (h *MovementHandler) ListByOrder(c *gin.Context) {
	orderID, ok := h.uuidParam(c, "order_id")
	if !ok {
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	movements, total, err := h.movementService.ListByOrder(c.Request.Context(), orderID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

func (h *MovementHandler) bindFilter(c *gin.Context) (inventoryapp.MovementListFilter, bool) {
	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return filter, false
	}
	normalizePage(&filter.Page, &filter.PageSize)
	return filter, true
}
