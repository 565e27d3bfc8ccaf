package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/domain/shared"
)

const (
	// DefaultTxTimeout bounds every store transaction started by the services
	DefaultTxTimeout = 5 * time.Second

	// maxConflictRetries bounds the optimistic-lock retry loop. Conflicts past
	// this point surface to the caller as retryable.
	maxConflictRetries = 3
)

// withTxTimeout derives a bounded context for one store transaction
func withTxTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTxTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// mapStoreError normalizes transaction-expiry errors into the retryable
// store-timeout error; every other error passes through unchanged
func mapStoreError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return shared.ErrStoreTimeout
	}
	return err
}

// retryOnConflict re-runs fn when it loses an optimistic-lock race. Each
// attempt reloads current state, so a bounded number of retries converges
// unless contention is pathological; the final conflict is surfaced as-is.
func retryOnConflict(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}
