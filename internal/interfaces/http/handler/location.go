package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/application/inventory"
)

// LocationHandler handles fulfillment location API endpoints
type LocationHandler struct {
	BaseHandler
	locationService *inventoryapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(svc *inventoryapp.LocationService) *LocationHandler {
	return &LocationHandler{locationService: svc}
}

// Create registers a new fulfillment location
func (h *LocationHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateLocationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	location, err := h.locationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, location)
}

// Update changes a location's name or type
func (h *LocationHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateLocationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	location, err := h.locationService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, location)
}

// Get retrieves a location by ID
func (h *LocationHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	location, err := h.locationService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, location)
}

// List retrieves a paginated list of locations with optional filtering
func (h *LocationHandler) List(c *gin.Context) {
	var filter inventoryapp.LocationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	locations, total, err := h.locationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, locations, total, filter.Page, filter.PageSize)
}

// GetWithInventory retrieves a location together with its stock entries
func (h *LocationHandler) GetWithInventory(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.locationService.GetWithInventory(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Activate makes a location eligible for stock operations again
func (h *LocationHandler) Activate(c *gin.Context) {
	h.transition(c, h.locationService.Activate)
}

// Deactivate takes a location out of service for new stock operations
func (h *LocationHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.locationService.Deactivate)
}

// Delete removes a location that holds no stock
func (h *LocationHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.locationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// transition runs an id-keyed state change and renders the updated location.
func (h *LocationHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*inventoryapp.LocationResponse, error)) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	location, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, location)
}
