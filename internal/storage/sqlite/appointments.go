package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hetulpatel/Randex/internal/domain"
)

const appointmentColumns = `a.id, a.business_id, a.service_id, a.customer_id,
	CAST(a.appointment_date AS TEXT), a.appointment_time,
	COALESCE(a.start_time, ''), COALESCE(a.end_time, ''), a.staff_id, a.status,
	COALESCE(a.customer_name, ''), COALESCE(a.customer_phone, ''),
	COALESCE(a.source, 'customer'), COALESCE(a.notes, ''),
	COALESCE(CAST(a.created_at AS TEXT), '')`

// StaffBooking is the busy interval of one non-cancelled appointment.
type StaffBooking struct {
	AppointmentID int64
	StaffID       int64
	Start         domain.TimeOfDay
	End           domain.TimeOfDay
}

// Overlaps reports whether [start, end) intersects the booking.
func (b StaffBooking) Overlaps(start, end domain.TimeOfDay) bool {
	return start < b.End && b.Start < end
}

// CreateAppointment inserts a and sets a.ID. Empty status and source take
// their column defaults.
func (s *Store) CreateAppointment(ctx context.Context, a *domain.Appointment) error {
	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	if a.Source == "" {
		a.Source = domain.SourceCustomer
	}
	if err := a.Validate(); err != nil {
		return err
	}
	res, err := s.q.ExecContext(ctx, `
INSERT INTO appointments (
	business_id, service_id, customer_id, appointment_date, appointment_time,
	start_time, end_time, staff_id, status, customer_name, customer_phone, source, notes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.BusinessID, a.ServiceID, nullInt(a.CustomerID), a.AppointmentDate, a.AppointmentTime,
		nullString(a.StartTime), nullString(a.EndTime), nullInt(a.StaffID), string(a.Status),
		nullString(a.CustomerName), nullString(a.CustomerPhone), string(a.Source), nullString(a.Notes),
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", classify(err))
	}
	a.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = ?`, id)
	a, err := scanAppointment(row)
	if err != nil {
		return nil, notFound(err, "appointment", id)
	}
	return a, nil
}

// ListStaffBookings returns the busy intervals of staffed, non-cancelled
// appointments of a business on date. Rows without start/end fall back to
// appointment_time plus the service duration; unreadable times are skipped.
func (s *Store) ListStaffBookings(ctx context.Context, businessID int64, date string) ([]StaffBooking, error) {
	rows, err := s.q.QueryContext(ctx, `
SELECT a.id, a.staff_id, a.appointment_time, COALESCE(a.start_time, ''), COALESCE(a.end_time, ''), s.duration
FROM appointments a
JOIN services s ON s.id = a.service_id
WHERE a.business_id = ? AND a.appointment_date = ? AND a.status != 'cancelled' AND a.staff_id IS NOT NULL
ORDER BY a.staff_id, a.id`, businessID, date)
	if err != nil {
		return nil, fmt.Errorf("list bookings for business %d on %s: %w", businessID, date, err)
	}
	defer rows.Close()

	var out []StaffBooking
	for rows.Next() {
		var (
			b        StaffBooking
			a        domain.Appointment
			duration int
		)
		if err := rows.Scan(&b.AppointmentID, &b.StaffID, &a.AppointmentTime, &a.StartTime, &a.EndTime, &duration); err != nil {
			return nil, err
		}
		b.Start, b.End, err = a.Interval(duration)
		if err != nil {
			continue
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

const appointmentDetailQuery = `SELECT ` + appointmentColumns + `,
	b.name, s.name, s.duration, s.price,
	COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.phone, '')
FROM appointments a
JOIN businesses b ON a.business_id = b.id
JOIN services s ON a.service_id = s.id
LEFT JOIN users u ON a.customer_id = u.id`

// ListCustomerAppointments returns a customer's appointments, latest first.
func (s *Store) ListCustomerAppointments(ctx context.Context, customerID int64) ([]domain.AppointmentDetail, error) {
	return s.queryAppointmentDetails(ctx, appointmentDetailQuery+`
WHERE a.customer_id = ?
ORDER BY a.appointment_date DESC, a.appointment_time DESC, a.id DESC`, customerID)
}

// ListOwnerAppointments returns appointments across all of an owner's businesses, latest first.
func (s *Store) ListOwnerAppointments(ctx context.Context, ownerID int64) ([]domain.AppointmentDetail, error) {
	return s.queryAppointmentDetails(ctx, appointmentDetailQuery+`
WHERE b.owner_id = ?
ORDER BY a.appointment_date DESC, a.appointment_time DESC, a.id DESC`, ownerID)
}

func (s *Store) queryAppointmentDetails(ctx context.Context, query string, args ...any) ([]domain.AppointmentDetail, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []domain.AppointmentDetail
	for rows.Next() {
		var d domain.AppointmentDetail
		a, err := scanAppointment(rows,
			&d.BusinessName, &d.ServiceName, &d.ServiceDuration, &d.ServicePrice,
			&d.AccountName, &d.AccountEmail, &d.AccountPhone)
		if err != nil {
			return nil, err
		}
		d.Appointment = *a
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateAppointmentStatus writes status without checking the transition; callers do that.
func (s *Store) UpdateAppointmentStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: appointment status %q", domain.ErrInvalid, status)
	}
	res, err := s.q.ExecContext(ctx, `UPDATE appointments SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update appointment %d: %w", id, classify(err))
	}
	return expectRow(res, "appointment", id)
}

// DeleteAppointmentsBefore removes appointments dated strictly before date and
// returns how many were removed.
func (s *Store) DeleteAppointmentsBefore(ctx context.Context, date string) (int64, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return 0, err
	}
	res, err := s.q.ExecContext(ctx, `DELETE FROM appointments WHERE appointment_date < ?`, date)
	if err != nil {
		return 0, fmt.Errorf("delete appointments before %s: %w", date, classify(err))
	}
	return res.RowsAffected()
}

// HasQualifyingAppointment reports whether the customer has a confirmed or
// completed appointment at the business dated before the given day.
func (s *Store) HasQualifyingAppointment(ctx context.Context, customerID, businessID int64, before string) (bool, error) {
	var one int
	err := s.q.QueryRowContext(ctx, `
SELECT 1 FROM appointments
WHERE customer_id = ? AND business_id = ? AND status IN ('confirmed', 'completed') AND appointment_date < ?
LIMIT 1`, customerID, businessID, before).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check appointments of customer %d: %w", customerID, err)
	}
	return true, nil
}

func scanAppointment(row scanner, extra ...any) (*domain.Appointment, error) {
	var (
		a          domain.Appointment
		customerID sql.NullInt64
		staffID    sql.NullInt64
		status     string
		source     string
		createdAt  string
	)
	dest := []any{
		&a.ID, &a.BusinessID, &a.ServiceID, &customerID,
		&a.AppointmentDate, &a.AppointmentTime,
		&a.StartTime, &a.EndTime, &staffID, &status,
		&a.CustomerName, &a.CustomerPhone, &source, &a.Notes, &createdAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	a.CustomerID = intPtr(customerID)
	a.StaffID = intPtr(staffID)
	a.Status = domain.AppointmentStatus(status)
	a.Source = domain.Source(source)
	a.CreatedAt = parseTimestamp(createdAt)
	return &a, nil
}
