package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hetulpatel/Randex/internal/domain"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/models"
)

const defaultSeenLimit = 4096

// AppointmentLookup is the store read the processor needs.
type AppointmentLookup interface {
	GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
}

// Processor logs each appointment event once. Kafka delivers at least once,
// so repeated event ids are skipped. An id is recorded only once its
// appointment lookup succeeded, so a redelivery after a failed lookup is retried. Events whose appointment is gone (cleaned
// up or its business deleted) are logged as stale.
type Processor struct {
	store AppointmentLookup
	limit int

	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

func NewProcessor(store AppointmentLookup) *Processor {
	return &Processor{store: store, limit: defaultSeenLimit, seen: make(map[string]struct{})}
}

func (p *Processor) Handle(ctx context.Context, ev *models.AppointmentEvent) error {
	if ev == nil || ev.ID == "" {
		return fmt.Errorf("%w: event without id", domain.ErrInvalid)
	}
	if p.seenBefore(ev.ID) {
		logging.Debugf("[appointment-events] duplicate %s skipped", ev.ID)
		return nil
	}

	if p.store != nil {
		current, err := p.store.GetAppointment(ctx, ev.AppointmentID)
		if errors.Is(err, domain.ErrNotFound) {
			p.remember(ev.ID)
			logging.Warnf("[appointment-events] %s for missing appointment #%d", ev.Type, ev.AppointmentID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load appointment %d: %w", ev.AppointmentID, err)
		}
		if !p.remember(ev.ID) {
			return nil
		}
		if current.Status != ev.Status {
			logging.Infof("[appointment-events] appointment #%d moved on to %s since %s", ev.AppointmentID, current.Status, ev.ID)
		}
	} else if !p.remember(ev.ID) {
		return nil
	}

	switch ev.Type {
	case models.EventBooked:
		logging.Infof("[appointment-events] booked #%d business=%d staff=%s %s %s-%s source=%s",
			ev.AppointmentID, ev.BusinessID, idString(ev.StaffID), ev.Date, ev.StartTime, ev.EndTime, ev.Source)
	case models.EventStatusChanged:
		logging.Infof("[appointment-events] #%d %s -> %s", ev.AppointmentID, ev.PreviousStatus, ev.Status)
	default:
		logging.Warnf("[appointment-events] unknown event type %q (%s)", ev.Type, ev.ID)
	}
	return nil
}

func (p *Processor) seenBefore(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.seen[id]
	return ok
}

// remember records id and reports whether it was new. The oldest ids are
// forgotten past the limit.
func (p *Processor) remember(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.seen[id]; ok {
		return false
	}
	p.seen[id] = struct{}{}
	p.order = append(p.order, id)
	if p.limit > 0 && len(p.order) > p.limit {
		delete(p.seen, p.order[0])
		p.order = p.order[1:]
	}
	return true
}

func idString(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *id)
}
