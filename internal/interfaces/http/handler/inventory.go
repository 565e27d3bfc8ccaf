package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/application/inventory"
	"github.com/shopspring/decimal"
)

// InventoryHandler handles stock ledger and reservation API endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(svc *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: svc}
}

// CheckAvailabilityRequest asks whether a quantity is fulfillable for a variant
type CheckAvailabilityRequest struct {
	VariantID uuid.UUID       `json:"variant_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// ReconcileRequest identifies the ledger pair to verify
type ReconcileRequest struct {
	VariantID  uuid.UUID `json:"variant_id" binding:"required"`
	LocationID uuid.UUID `json:"location_id" binding:"required"`
}

// ReconcileResponse reports whether movements and the entry balance agree
type ReconcileResponse struct {
	VariantID    uuid.UUID       `json:"variant_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	Consistent   bool            `json:"consistent"`
	EntryBalance decimal.Decimal `json:"entry_balance"`
	MovementSum  decimal.Decimal `json:"movement_sum"`
}

// VariantTotalsResponse aggregates a variant's position across locations
type VariantTotalsResponse struct {
	VariantID      uuid.UUID       `json:"variant_id"`
	TotalQuantity  decimal.Decimal `json:"total_quantity"`
	TotalAvailable decimal.Decimal `json:"total_available"`
}

// BestLocationResponse names the location an allocation strategy picked
type BestLocationResponse struct {
	VariantID  uuid.UUID       `json:"variant_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// GetEntry retrieves the ledger entry for a variant-location pair.
// An unwritten pair reads as a zero position.
func (h *InventoryHandler) GetEntry(c *gin.Context) {
	variantID, ok := h.uuidQuery(c, "variant_id")
	if !ok {
		return
	}
	locationID, ok := h.uuidQuery(c, "location_id")
	if !ok {
		return
	}

	entry, err := h.inventoryService.Ledger().GetEntry(c.Request.Context(), variantID, locationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entry)
}

// ListEntries retrieves a paginated list of stock entries with optional filtering
func (h *InventoryHandler) ListEntries(c *gin.Context) {
	var filter inventoryapp.StockEntryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	entries, total, err := h.inventoryService.Ledger().List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// ListByVariant retrieves a variant's stock entries across all locations
func (h *InventoryHandler) ListByVariant(c *gin.Context) {
	variantID, ok := h.uuidParam(c, "variant_id")
	if !ok {
		return
	}

	entries, err := h.inventoryService.GetInventoryByVariant(c.Request.Context(), variantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// ListByLocation retrieves all stock entries held at a location
func (h *InventoryHandler) ListByLocation(c *gin.Context) {
	locationID, ok := h.uuidParam(c, "location_id")
	if !ok {
		return
	}

	entries, err := h.inventoryService.GetInventoryByLocation(c.Request.Context(), locationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// GetVariantTotals aggregates on-hand and available quantity for a variant
func (h *InventoryHandler) GetVariantTotals(c *gin.Context) {
	variantID, ok := h.uuidParam(c, "variant_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	totalQuantity, err := h.inventoryService.Ledger().TotalQuantity(ctx, variantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	totalAvailable, err := h.inventoryService.Ledger().TotalAvailable(ctx, variantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, VariantTotalsResponse{
		VariantID:      variantID,
		TotalQuantity:  totalQuantity,
		TotalAvailable: totalAvailable,
	})
}

// CheckAvailability reports whether a required quantity is fulfillable for a
// variant, with the per-location breakdown
func (h *InventoryHandler) CheckAvailability(c *gin.Context) {
	var req CheckAvailabilityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.inventoryService.CheckAvailability(c.Request.Context(), req.VariantID, req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// FindBestLocation picks the location the allocation strategy would fulfill from
func (h *InventoryHandler) FindBestLocation(c *gin.Context) {
	variantID, ok := h.uuidParam(c, "variant_id")
	if !ok {
		return
	}
	quantity, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		h.BadRequest(c, "invalid quantity format")
		return
	}

	locationID, err := h.inventoryService.FindBestLocationForFulfillment(c.Request.Context(), variantID, quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, BestLocationResponse{
		VariantID:  variantID,
		LocationID: locationID,
		Quantity:   quantity,
	})
}

// AdjustStock applies a signed on-hand quantity change for a variant-location pair
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req inventoryapp.AdjustInventoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.inventoryService.AdjustInventory(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entry)
}

// TransferStock moves on-hand quantity between two locations atomically
func (h *InventoryHandler) TransferStock(c *gin.Context) {
	var req inventoryapp.TransferInventoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.inventoryService.TransferInventory(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ReserveStock reserves a batch of items atomically. Either every item is
// reserved or none are.
func (h *InventoryHandler) ReserveStock(c *gin.Context) {
	var req inventoryapp.ReserveStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.inventoryService.ReserveStock(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ReleaseStock returns previously reserved items to availability
func (h *InventoryHandler) ReleaseStock(c *gin.Context) {
	var req inventoryapp.ReleaseStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.inventoryService.ReleaseStock(c.Request.Context(), req); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// FulfillStock converts a reservation into a permanent stock decrement
func (h *InventoryHandler) FulfillStock(c *gin.Context) {
	var req inventoryapp.FulfillStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.inventoryService.FulfillReservedStock(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entry)
}

// Reconcile verifies that the movement log sums to the ledger balance for a pair
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	consistent, balance, sum, err := h.inventoryService.Ledger().Reconcile(c.Request.Context(), req.VariantID, req.LocationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ReconcileResponse{
		VariantID:    req.VariantID,
		LocationID:   req.LocationID,
		Consistent:   consistent,
		EntryBalance: balance,
		MovementSum:  sum,
	})
}
