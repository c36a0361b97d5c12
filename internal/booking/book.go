package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/hetulpatel/Randex/internal/domain"
	"github.com/hetulpatel/Randex/internal/models"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
)

// Request books one service. UserID is the acting account: a customer books
// for themselves, an owner enters a walk-in and must supply the customer's
// name and phone.
type Request struct {
	UserID        int64
	BusinessID    int64
	ServiceID     int64
	Date          string
	StartTime     string
	Notes         string
	CustomerName  string
	CustomerPhone string
}

// Book validates the slot and assigns the first free eligible staff member
// inside one immediate transaction, so two bookings cannot both take the
// last free staff member.
func (e *Engine) Book(ctx context.Context, req Request) (*domain.Appointment, error) {
	if req.BusinessID <= 0 || req.ServiceID <= 0 || req.Date == "" || req.StartTime == "" {
		return nil, fmt.Errorf("%w: business, service, date and start time are required", domain.ErrInvalid)
	}
	start, err := domain.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, err
	}
	user, err := e.Store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	a := &domain.Appointment{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Notes:      strings.TrimSpace(req.Notes),
	}
	switch user.Role {
	case domain.RoleCustomer:
		a.CustomerID = &user.ID
		a.Status = domain.StatusPending
		a.Source = domain.SourceCustomer
	case domain.RoleBusinessOwner:
		a.CustomerName = strings.TrimSpace(req.CustomerName)
		a.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
		if a.CustomerName == "" || a.CustomerPhone == "" {
			return nil, fmt.Errorf("%w: owners book walk-ins and must give the customer's name and phone", domain.ErrInvalid)
		}
		a.Status = domain.StatusConfirmed
		a.Source = domain.SourceOwnerManual
	default:
		return nil, fmt.Errorf("%w: role %q cannot book", domain.ErrForbidden, user.Role)
	}

	err = e.Store.InTx(ctx, func(tx *sqlite.Store) error {
		r, err := e.loadRules(ctx, tx, req.BusinessID, req.ServiceID, req.Date)
		if err != nil {
			return err
		}
		if user.Role == domain.RoleBusinessOwner && r.business.OwnerID != user.ID {
			return fmt.Errorf("%w: business %d is not owned by user %d", domain.ErrForbidden, req.BusinessID, user.ID)
		}
		end, err := r.check(start)
		if err != nil {
			return err
		}

		staff, err := tx.EligibleStaff(ctx, req.BusinessID, req.ServiceID)
		if err != nil {
			return err
		}
		bookings, err := tx.ListStaffBookings(ctx, req.BusinessID, domain.FormatDate(r.day))
		if err != nil {
			return err
		}
		free := freeStaff(staff, bookings, start, end)
		if len(free) == 0 {
			return fmt.Errorf("%w: %s %s", ErrNoStaffAvailable, req.Date, start)
		}

		a.StaffID = &free[0]
		a.AppointmentDate = domain.FormatDate(r.day)
		a.AppointmentTime = start.String()
		a.StartTime = start.String()
		a.EndTime = end.String()
		return tx.CreateAppointment(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, models.NewAppointmentEvent(models.EventBooked, a, e.now()))
	return a, nil
}
