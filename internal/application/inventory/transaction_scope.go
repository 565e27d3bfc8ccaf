package inventory

import (
	"context"

	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/inventory"
)

// TransactionScope provides transactional access to the inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Batch reservations and transfers depend on this.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// EntryRepo returns the stock entry repository scoped to the current transaction
	EntryRepo() inventory.StockEntryRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
	// LocationRepo returns the location repository scoped to the current transaction
	LocationRepo() inventory.LocationRepository
}

// NoOpTransactionScope runs the scoped function directly against the given
// repositories without a real transaction. Useful for tests.
type NoOpTransactionScope struct {
	entryRepo    inventory.StockEntryRepository
	movementRepo inventory.MovementRepository
	locationRepo inventory.LocationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	entryRepo inventory.StockEntryRepository,
	movementRepo inventory.MovementRepository,
	locationRepo inventory.LocationRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		entryRepo:    entryRepo,
		movementRepo: movementRepo,
		locationRepo: locationRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// EntryRepo returns the stock entry repository
func (s *NoOpTransactionScope) EntryRepo() inventory.StockEntryRepository {
	return s.entryRepo
}

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// LocationRepo returns the location repository
func (s *NoOpTransactionScope) LocationRepo() inventory.LocationRepository {
	return s.locationRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
