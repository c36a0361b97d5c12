package booking

import (
	"context"
	"fmt"

	"github.com/hetulpatel/Randex/internal/domain"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/models"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
)

// UpdateStatus moves an appointment to status on behalf of userID. Customers
// reach only their own appointments and may only cancel them; owners reach
// the appointments of their businesses. Appointments the user cannot reach
// are reported as not found.
func (e *Engine) UpdateStatus(ctx context.Context, userID, appointmentID int64, status string) (*domain.Appointment, error) {
	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	user, err := e.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		a        *domain.Appointment
		previous domain.AppointmentStatus
	)
	err = e.Store.InTx(ctx, func(tx *sqlite.Store) error {
		a, err = tx.GetAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if err := canReach(ctx, tx, user, a); err != nil {
			return err
		}
		if user.Role == domain.RoleCustomer && next != domain.StatusCancelled && next != a.Status {
			return fmt.Errorf("%w: customers can only cancel appointments", domain.ErrForbidden)
		}
		if !a.Status.CanTransition(next) {
			return fmt.Errorf("%w: %s -> %s", ErrTransition, a.Status, next)
		}
		previous = a.Status
		if previous == next {
			return nil
		}
		if err := tx.UpdateAppointmentStatus(ctx, a.ID, next); err != nil {
			return err
		}
		a.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	if previous == next {
		logging.Debugf("[booking] appointment #%d already %s", a.ID, next)
		return a, nil
	}

	ev := models.NewAppointmentEvent(models.EventStatusChanged, a, e.now())
	ev.PreviousStatus = previous
	e.publish(ctx, ev)
	return a, nil
}

func canReach(ctx context.Context, store *sqlite.Store, user *domain.User, a *domain.Appointment) error {
	denied := fmt.Errorf("%w: appointment %d", domain.ErrNotFound, a.ID)
	switch user.Role {
	case domain.RoleCustomer:
		if a.CustomerID == nil || *a.CustomerID != user.ID {
			return denied
		}
		return nil
	case domain.RoleBusinessOwner:
		b, err := store.GetBusiness(ctx, a.BusinessID)
		if err != nil {
			return err
		}
		if b.OwnerID != user.ID {
			return denied
		}
		return nil
	}
	return denied
}

// Appointments lists a customer's own appointments, or for an owner those of
// all their businesses, latest first.
func (e *Engine) Appointments(ctx context.Context, userID int64) ([]domain.AppointmentDetail, error) {
	user, err := e.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleBusinessOwner {
		return e.Store.ListOwnerAppointments(ctx, user.ID)
	}
	return e.Store.ListCustomerAppointments(ctx, user.ID)
}
