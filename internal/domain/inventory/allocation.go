package inventory

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LocationCandidate is one location's standing in an allocation decision
type LocationCandidate struct {
	LocationID uuid.UUID       `json:"location_id"`
	Available  decimal.Decimal `json:"available"`
}

// AllocationService selects the fulfillment location for a variant.
// It is a stateless domain service; callers load the candidate entries.
type AllocationService struct{}

// NewAllocationService creates a new allocation service
func NewAllocationService() *AllocationService {
	return &AllocationService{}
}

// RankCandidates filters entries that can cover the required quantity on
// their own and orders them by available quantity descending, with the
// lower location ID winning ties so the ranking is deterministic.
func (s *AllocationService) RankCandidates(entries []StockEntry, required decimal.Decimal) []LocationCandidate {
	candidates := make([]LocationCandidate, 0, len(entries))
	for _, entry := range entries {
		available := entry.Available()
		if available.GreaterThanOrEqual(required) {
			candidates = append(candidates, LocationCandidate{
				LocationID: entry.LocationID,
				Available:  available,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		cmp := candidates[i].Available.Cmp(candidates[j].Available)
		if cmp != 0 {
			return cmp > 0
		}
		return strings.Compare(candidates[i].LocationID.String(), candidates[j].LocationID.String()) < 0
	})

	return candidates
}

// FindBestLocation picks the single location with the largest available
// quantity that can cover the full required amount. Splitting an allocation
// across locations is not supported; when no single location fits, the
// variant is reported as not fulfillable.
func (s *AllocationService) FindBestLocation(entries []StockEntry, required decimal.Decimal) (uuid.UUID, error) {
	if required.LessThanOrEqual(decimal.Zero) {
		return uuid.Nil, shared.NewDomainError("INVALID_QUANTITY", "Required quantity must be positive")
	}

	candidates := s.RankCandidates(entries, required)
	if len(candidates) == 0 {
		return uuid.Nil, shared.ErrNotFound
	}

	return candidates[0].LocationID, nil
}
