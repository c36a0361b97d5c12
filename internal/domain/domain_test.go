package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	for _, in := range []string{"customer", "business_owner", " customer "} {
		if _, err := ParseRole(in); err != nil {
			t.Fatalf("ParseRole(%q) unexpected error: %v", in, err)
		}
	}
	for _, in := range []string{"", "admin", "Customer"} {
		_, err := ParseRole(in)
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("ParseRole(%q) expected ErrInvalid, got %v", in, err)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusCompleted, true},
		{StatusPending, AppointmentStatus("done"), false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestParseRating(t *testing.T) {
	for n := 1; n <= 5; n++ {
		if _, err := ParseRating(n); err != nil {
			t.Fatalf("rating %d rejected: %v", n, err)
		}
	}
	for _, n := range []int{0, 6, -1} {
		if _, err := ParseRating(n); !errors.Is(err, ErrInvalid) {
			t.Fatalf("rating %d expected ErrInvalid, got %v", n, err)
		}
	}
}

func TestParseSourceDefaultsToCustomer(t *testing.T) {
	src, err := ParseSource("")
	if err != nil || src != SourceCustomer {
		t.Fatalf("expected customer source, got %q err=%v", src, err)
	}
	if _, err := ParseSource("walk_in"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for unknown source, got %v", err)
	}
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tod != 570 || tod.String() != "09:30" {
		t.Fatalf("expected 09:30 (570), got %s (%d)", tod, int(tod))
	}
	if got := tod.Add(45).String(); got != "10:15" {
		t.Fatalf("expected 10:15, got %s", got)
	}
	for _, in := range []string{"9:30", "9:30:00", " 09:30:59 "} {
		if got, err := ParseTimeOfDay(in); err != nil || got != 570 {
			t.Fatalf("%q: got %d err=%v", in, int(got), err)
		}
	}
	if _, err := ParseTimeOfDay("9am"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	loc := time.FixedZone("GMT+3", 3*60*60)
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	at := tod.On(day, loc)
	if at.Hour() != 9 || at.Minute() != 30 || at.Location() != loc || at.Day() != 14 {
		t.Fatalf("unexpected instant %s", at)
	}
}

func TestBusinessValidate(t *testing.T) {
	b := Business{OwnerID: 1, Name: "Parla Kuaför", Type: "kuafor", OpeningTime: "09:00", ClosingTime: "20:00"}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid business rejected: %v", err)
	}
	b.ClosingTime = "08:00"
	if err := b.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for inverted hours, got %v", err)
	}
	open, closeAt, err := (&Business{}).Hours()
	if err != nil || open.String() != "09:00" || closeAt.String() != "18:00" {
		t.Fatalf("expected default hours, got %s-%s err=%v", open, closeAt, err)
	}
}

func TestServiceValidate(t *testing.T) {
	s := Service{BusinessID: 1, Name: "Fön", Price: 0, Duration: 30}
	if err := s.Validate(); err != nil {
		t.Fatalf("free service rejected: %v", err)
	}
	s.Price = -1
	if err := s.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for negative price, got %v", err)
	}
	s.Price = 10
	s.Duration = 0
	if err := s.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for zero duration, got %v", err)
	}
}

func TestAppointmentInterval(t *testing.T) {
	a := Appointment{AppointmentTime: "10:00"}
	start, end, err := a.Interval(45)
	if err != nil || start.String() != "10:00" || end.String() != "10:45" {
		t.Fatalf("fallback interval: %s-%s err=%v", start, end, err)
	}
	a.StartTime, a.EndTime = "11:00", "11:30"
	start, end, err = a.Interval(45)
	if err != nil || start.String() != "11:00" || end.String() != "11:30" {
		t.Fatalf("explicit interval: %s-%s err=%v", start, end, err)
	}
}

func TestAppointmentValidate(t *testing.T) {
	a := Appointment{
		BusinessID: 1, ServiceID: 1,
		AppointmentDate: "2026-01-02", AppointmentTime: "10:00",
		Status: StatusPending, Source: SourceCustomer,
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("valid appointment rejected: %v", err)
	}
	a.Status = "waiting"
	if err := a.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for status, got %v", err)
	}
	a.Status = StatusPending
	a.AppointmentDate = "02/01/2026"
	if err := a.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for date, got %v", err)
	}
}
