// Package booking turns business hours, staff and settings into bookable
// slots and books, updates and reviews appointments against them.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/hetulpatel/Randex/internal/domain"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/models"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
)

var (
	ErrOutsideWindow           = fmt.Errorf("date outside booking window: %w", domain.ErrInvalid)
	ErrNotAligned              = fmt.Errorf("start time not aligned to slot grid: %w", domain.ErrInvalid)
	ErrOutsideHours            = fmt.Errorf("service exceeds business hours: %w", domain.ErrInvalid)
	ErrMinNotice               = fmt.Errorf("min notice not satisfied: %w", domain.ErrInvalid)
	ErrNoStaffAvailable        = fmt.Errorf("no available staff for this slot: %w", domain.ErrConflict)
	ErrTransition              = fmt.Errorf("status change not allowed: %w", domain.ErrConflict)
	ErrAlreadyReviewed         = fmt.Errorf("business already reviewed: %w", domain.ErrConflict)
	ErrNoQualifyingAppointment = fmt.Errorf("no confirmed past appointment at this business: %w", domain.ErrForbidden)
)

// Publisher receives appointment events after their transaction commits.
type Publisher interface {
	Publish(ctx context.Context, events ...models.AppointmentEvent) error
}

// Engine applies the booking rules. Business hours and dates are read in
// Location; a nil Location means UTC.
type Engine struct {
	Store     *sqlite.Store
	Publisher Publisher
	Location  *time.Location
	Now       func() time.Time
}

func (e *Engine) now() time.Time {
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	if e.Now != nil {
		return e.Now().In(loc)
	}
	return time.Now().In(loc)
}

// Today is the current calendar day in the engine's location.
func (e *Engine) Today() string {
	return domain.FormatDate(e.now())
}

func (e *Engine) publish(ctx context.Context, ev models.AppointmentEvent) {
	if e.Publisher == nil {
		return
	}
	if err := e.Publisher.Publish(ctx, ev); err != nil {
		logging.Warnf("[booking] publish %s for appointment #%d: %v", ev.Type, ev.AppointmentID, err)
	}
}

// rules holds what every slot check needs for one business, service and day.
type rules struct {
	business *domain.Business
	service  *domain.Service
	settings domain.BusinessSettings
	open     domain.TimeOfDay
	close    domain.TimeOfDay
	day      time.Time
	earliest time.Time
}

func (e *Engine) loadRules(ctx context.Context, store *sqlite.Store, businessID, serviceID int64, date string) (*rules, error) {
	business, err := store.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	service, err := store.GetBusinessService(ctx, businessID, serviceID)
	if err != nil {
		return nil, err
	}
	settings, err := store.GetSettings(ctx, businessID)
	if err != nil {
		return nil, err
	}
	open, closeAt, err := business.Hours()
	if err != nil {
		return nil, err
	}
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	now := e.now()
	today, _ := domain.ParseDate(domain.FormatDate(now))
	diff := int(day.Sub(today).Hours() / 24)
	if diff < 0 || diff > settings.BookingWindowDays {
		return nil, fmt.Errorf("%w: %s is %d days from %s, window is %d", ErrOutsideWindow,
			date, diff, domain.FormatDate(today), settings.BookingWindowDays)
	}
	return &rules{
		business: business,
		service:  service,
		settings: settings,
		open:     open,
		close:    closeAt,
		day:      day,
		earliest: now.Add(time.Duration(settings.MinNoticeMinutes) * time.Minute),
	}, nil
}

func (r *rules) loc() *time.Location {
	return r.earliest.Location()
}

// check validates a start time against the grid, opening hours and notice.
func (r *rules) check(start domain.TimeOfDay) (domain.TimeOfDay, error) {
	end := start.Add(r.service.Duration)
	if (start-r.open)%domain.TimeOfDay(r.settings.SlotIntervalMinutes) != 0 {
		return 0, fmt.Errorf("%w: %s with %d minute slots from %s", ErrNotAligned, start, r.settings.SlotIntervalMinutes, r.open)
	}
	if start < r.open || end > r.close {
		return 0, fmt.Errorf("%w: %s-%s outside %s-%s", ErrOutsideHours, start, end, r.open, r.close)
	}
	if start.On(r.day, r.loc()).Before(r.earliest) {
		return 0, fmt.Errorf("%w: %s needs %d minutes notice", ErrMinNotice, start, r.settings.MinNoticeMinutes)
	}
	return end, nil
}

// freeStaff returns the eligible staff not booked during [start, end), in
// assignment order.
func freeStaff(staff []domain.Staff, bookings []sqlite.StaffBooking, start, end domain.TimeOfDay) []int64 {
	busy := make(map[int64]bool)
	for _, b := range bookings {
		if b.Overlaps(start, end) {
			busy[b.StaffID] = true
		}
	}
	var out []int64
	for _, st := range staff {
		if !busy[st.ID] {
			out = append(out, st.ID)
		}
	}
	return out
}
