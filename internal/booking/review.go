package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hetulpatel/Randex/internal/domain"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
)

// Review records a customer's single review of a business. The customer
// needs a confirmed or completed appointment there dated before today.
func (e *Engine) Review(ctx context.Context, customerID, businessID int64, rating int, comment string) (*domain.Review, error) {
	r, err := domain.ParseRating(rating)
	if err != nil {
		return nil, err
	}
	user, err := e.Store.GetUser(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleCustomer {
		return nil, fmt.Errorf("%w: only customers can review", domain.ErrForbidden)
	}

	review := &domain.Review{BusinessID: businessID, CustomerID: customerID, Rating: r, Comment: strings.TrimSpace(comment)}
	err = e.Store.InTx(ctx, func(tx *sqlite.Store) error {
		if _, err := tx.GetBusiness(ctx, businessID); err != nil {
			return err
		}
		ok, err := tx.HasQualifyingAppointment(ctx, customerID, businessID, e.Today())
		if err != nil {
			return err
		}
		if !ok {
			return ErrNoQualifyingAppointment
		}
		reviewed, err := tx.HasReview(ctx, businessID, customerID)
		if err != nil {
			return err
		}
		if reviewed {
			return ErrAlreadyReviewed
		}
		return tx.CreateReview(ctx, review)
	})
	if err != nil {
		return nil, err
	}
	return e.Store.GetReview(ctx, review.ID)
}

// Cleanup deletes appointments dated before yesterday, whatever their status.
func (e *Engine) Cleanup(ctx context.Context) (int64, error) {
	cutoff := domain.FormatDate(e.now().AddDate(0, 0, -1))
	n, err := e.Store.DeleteAppointmentsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logging.Infof("[booking] cleanup removed %d appointments before %s", n, cutoff)
	}
	return n, nil
}

// RunCleanup runs Cleanup now and then every interval until ctx is done.
// Failures are logged and retried on the next tick.
func (e *Engine) RunCleanup(ctx context.Context, every time.Duration) {
	run := func() {
		if _, err := e.Cleanup(ctx); err != nil && ctx.Err() == nil {
			logging.Errorf("[booking] cleanup: %v", err)
		}
	}
	run()
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
