package domain

import (
	"fmt"
	"strings"
	"time"
)

// Optional text columns use the empty string for NULL.

type User struct {
	ID        int64
	Email     string
	Password  string // bcrypt hash
	Name      string
	Phone     string
	Role      Role
	CreatedAt time.Time
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" || strings.TrimSpace(u.Name) == "" || u.Password == "" {
		return fmt.Errorf("%w: user email, name and password are required", ErrInvalid)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalid, u.Role)
	}
	return nil
}

// Business is owned by exactly one business_owner user.
type Business struct {
	ID          int64
	OwnerID     int64
	Name        string
	Type        string // category, e.g. kuafor
	Description string
	City        string
	District    string
	Address     string
	Phone       string
	ImageURL    string
	OpeningTime string
	ClosingTime string
	CreatedAt   time.Time
}

const (
	DefaultOpeningTime = "09:00"
	DefaultClosingTime = "18:00"
)

func (b *Business) Validate() error {
	if strings.TrimSpace(b.Name) == "" || strings.TrimSpace(b.Type) == "" {
		return fmt.Errorf("%w: business name and type are required", ErrInvalid)
	}
	if b.OwnerID <= 0 {
		return fmt.Errorf("%w: business owner is required", ErrInvalid)
	}
	opening, closing, err := b.Hours()
	if err != nil {
		return err
	}
	if closing <= opening {
		return fmt.Errorf("%w: closing time %s is not after opening time %s", ErrInvalid, closing, opening)
	}
	return nil
}

// Hours returns opening and closing time, defaulting to 09:00-18:00.
func (b *Business) Hours() (TimeOfDay, TimeOfDay, error) {
	openStr, closeStr := b.OpeningTime, b.ClosingTime
	if openStr == "" {
		openStr = DefaultOpeningTime
	}
	if closeStr == "" {
		closeStr = DefaultClosingTime
	}
	opening, err := ParseTimeOfDay(openStr)
	if err != nil {
		return 0, 0, fmt.Errorf("opening time: %w", err)
	}
	closing, err := ParseTimeOfDay(closeStr)
	if err != nil {
		return 0, 0, fmt.Errorf("closing time: %w", err)
	}
	return opening, closing, nil
}

// BusinessSummary is a business with its review aggregate.
type BusinessSummary struct {
	Business
	AverageRating float64
	ReviewCount   int
}

type Service struct {
	ID          int64
	BusinessID  int64
	Name        string
	Description string
	Price       float64
	Duration    int // minutes
	CreatedAt   time.Time
}

func (s *Service) Validate() error {
	if s.BusinessID <= 0 || strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: service business and name are required", ErrInvalid)
	}
	if s.Price < 0 {
		return fmt.Errorf("%w: service price %.2f is negative", ErrInvalid, s.Price)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("%w: service duration %d must be positive", ErrInvalid, s.Duration)
	}
	return nil
}

type Staff struct {
	ID         int64
	BusinessID int64
	Name       string
	Active     bool
	CreatedAt  time.Time
}

func (s *Staff) Validate() error {
	if s.BusinessID <= 0 || strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: staff business and name are required", ErrInvalid)
	}
	return nil
}

// BusinessSettings tunes how a business accepts bookings.
type BusinessSettings struct {
	BusinessID          int64
	SlotIntervalMinutes int
	MinNoticeMinutes    int
	BookingWindowDays   int
}

// DefaultSettings applies when a business has no settings row.
func DefaultSettings(businessID int64) BusinessSettings {
	return BusinessSettings{
		BusinessID:          businessID,
		SlotIntervalMinutes: 15,
		MinNoticeMinutes:    60,
		BookingWindowDays:   30,
	}
}

// OrDefaults replaces values no booking rule can use with the defaults.
// Rows written outside UpsertSettings (dumps, the sqlite3 shell) are not
// validated.
func (s BusinessSettings) OrDefaults() BusinessSettings {
	def := DefaultSettings(s.BusinessID)
	if s.SlotIntervalMinutes <= 0 {
		s.SlotIntervalMinutes = def.SlotIntervalMinutes
	}
	if s.MinNoticeMinutes < 0 {
		s.MinNoticeMinutes = def.MinNoticeMinutes
	}
	if s.BookingWindowDays < 0 {
		s.BookingWindowDays = def.BookingWindowDays
	}
	return s
}

func (s *BusinessSettings) Validate() error {
	if s.BusinessID <= 0 {
		return fmt.Errorf("%w: settings business is required", ErrInvalid)
	}
	if s.SlotIntervalMinutes <= 0 || s.MinNoticeMinutes < 0 || s.BookingWindowDays < 0 {
		return fmt.Errorf("%w: settings interval=%d notice=%d window=%d", ErrInvalid,
			s.SlotIntervalMinutes, s.MinNoticeMinutes, s.BookingWindowDays)
	}
	return nil
}

type Appointment struct {
	ID              int64
	BusinessID      int64
	ServiceID       int64
	CustomerID      *int64 // nil for walk-ins entered by the owner
	AppointmentDate string // YYYY-MM-DD
	AppointmentTime string // HH:MM
	StartTime       string
	EndTime         string
	StaffID         *int64
	Status          AppointmentStatus
	CustomerName    string
	CustomerPhone   string
	Source          Source
	Notes           string
	CreatedAt       time.Time
}

func (a *Appointment) Validate() error {
	if a.BusinessID <= 0 || a.ServiceID <= 0 {
		return fmt.Errorf("%w: appointment business and service are required", ErrInvalid)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: appointment status %q", ErrInvalid, a.Status)
	}
	if !a.Source.Valid() {
		return fmt.Errorf("%w: appointment source %q", ErrInvalid, a.Source)
	}
	if _, err := ParseDate(a.AppointmentDate); err != nil {
		return err
	}
	if _, err := ParseTimeOfDay(a.AppointmentTime); err != nil {
		return err
	}
	for _, t := range []string{a.StartTime, a.EndTime} {
		if t == "" {
			continue
		}
		if _, err := ParseTimeOfDay(t); err != nil {
			return err
		}
	}
	return nil
}

// Interval returns the minutes the appointment occupies. Rows without explicit
// start/end fall back to appointment_time plus the service duration.
func (a *Appointment) Interval(serviceDuration int) (TimeOfDay, TimeOfDay, error) {
	startStr := a.StartTime
	if startStr == "" {
		startStr = a.AppointmentTime
	}
	start, err := ParseTimeOfDay(startStr)
	if err != nil {
		return 0, 0, err
	}
	if a.EndTime == "" {
		return start, start.Add(serviceDuration), nil
	}
	end, err := ParseTimeOfDay(a.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

type Review struct {
	ID           int64
	BusinessID   int64
	CustomerID   int64
	Rating       Rating
	Comment      string
	CustomerName string // joined from users on reads
	CreatedAt    time.Time
}

func (r *Review) Validate() error {
	if r.BusinessID <= 0 || r.CustomerID <= 0 {
		return fmt.Errorf("%w: review business and customer are required", ErrInvalid)
	}
	if !r.Rating.Valid() {
		return fmt.Errorf("%w: rating %d must be between %d and %d", ErrInvalid, r.Rating, MinRating, MaxRating)
	}
	return nil
}

type Favorite struct {
	ID         int64
	CustomerID int64
	BusinessID int64
	CreatedAt  time.Time
}

// AppointmentDetail is an appointment joined with its business, service and
// (when registered) customer account.
type AppointmentDetail struct {
	Appointment
	BusinessName    string
	ServiceName     string
	ServiceDuration int
	ServicePrice    float64
	AccountName     string
	AccountEmail    string
	AccountPhone    string
}
