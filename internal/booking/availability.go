package booking

import (
	"context"

	"github.com/hetulpatel/Randex/internal/domain"
)

type Slot struct {
	Time           string `json:"time"`
	AvailableCount int    `json:"available_count"`
}

type Availability struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Availability lists the start times on date where at least one active staff
// member linked to the service is free for the whole service duration. Slots
// step by the business's slot interval from opening time and drop those
// inside the minimum notice.
func (e *Engine) Availability(ctx context.Context, businessID, serviceID int64, date string) (*Availability, error) {
	r, err := e.loadRules(ctx, e.Store, businessID, serviceID, date)
	if err != nil {
		return nil, err
	}
	out := &Availability{Date: domain.FormatDate(r.day), Slots: []Slot{}}

	staff, err := e.Store.EligibleStaff(ctx, businessID, serviceID)
	if err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return out, nil
	}
	bookings, err := e.Store.ListStaffBookings(ctx, businessID, out.Date)
	if err != nil {
		return nil, err
	}

	step := r.settings.SlotIntervalMinutes
	for t := r.open; t.Add(r.service.Duration) <= r.close; t = t.Add(step) {
		end, err := r.check(t)
		if err != nil {
			continue
		}
		if n := len(freeStaff(staff, bookings, t, end)); n > 0 {
			out.Slots = append(out.Slots, Slot{Time: t.String(), AvailableCount: n})
		}
	}
	return out, nil
}
