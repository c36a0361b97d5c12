package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hetulpatel/Randex/internal/domain"
)

type EventType string

const (
	EventBooked        EventType = "appointment.booked"
	EventStatusChanged EventType = "appointment.status_changed"
)

// AppointmentEvent is the payload placed on the appointments topic.
type AppointmentEvent struct {
	ID             string                   `json:"id"`
	Type           EventType                `json:"type"`
	AppointmentID  int64                    `json:"appointment_id"`
	BusinessID     int64                    `json:"business_id"`
	ServiceID      int64                    `json:"service_id"`
	StaffID        *int64                   `json:"staff_id,omitempty"`
	CustomerID     *int64                   `json:"customer_id,omitempty"`
	Date           string                   `json:"date"`
	StartTime      string                   `json:"start_time"`
	EndTime        string                   `json:"end_time,omitempty"`
	Status         domain.AppointmentStatus `json:"status"`
	PreviousStatus domain.AppointmentStatus `json:"previous_status,omitempty"`
	Source         domain.Source            `json:"source"`
	OccurredAt     time.Time                `json:"occurred_at"`
}

// NewAppointmentEvent snapshots a so later edits to it do not leak into the event.
func NewAppointmentEvent(typ EventType, a *domain.Appointment, occurredAt time.Time) AppointmentEvent {
	start := a.StartTime
	if start == "" {
		start = a.AppointmentTime
	}
	return AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          typ,
		AppointmentID: a.ID,
		BusinessID:    a.BusinessID,
		ServiceID:     a.ServiceID,
		StaffID:       copyID(a.StaffID),
		CustomerID:    copyID(a.CustomerID),
		Date:          a.AppointmentDate,
		StartTime:     start,
		EndTime:       a.EndTime,
		Status:        a.Status,
		Source:        a.Source,
		OccurredAt:    occurredAt.UTC(),
	}
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
