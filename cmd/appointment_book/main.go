package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hetulpatel/Randex/internal/booking"
	"github.com/hetulpatel/Randex/internal/config"
	"github.com/hetulpatel/Randex/internal/logging"
)

func main() {
	if err := config.Load(); err != nil {
		logging.Warnf("[appointment-book] %v", err)
	}
	logging.InitFromEnv()

	var req booking.Request
	dbPath := flag.String("db-path", "", "database file (default SQLITE_PATH)")
	flag.Int64Var(&req.UserID, "user", 0, "acting user id (customer, or owner for walk-ins)")
	flag.Int64Var(&req.BusinessID, "business", 0, "business id")
	flag.Int64Var(&req.ServiceID, "service", 0, "service id")
	flag.StringVar(&req.Date, "date", "", "YYYY-MM-DD")
	flag.StringVar(&req.StartTime, "start", "", "HH:MM")
	flag.StringVar(&req.Notes, "notes", "", "optional notes")
	flag.StringVar(&req.CustomerName, "customer-name", "", "walk-in customer name (owners)")
	flag.StringVar(&req.CustomerPhone, "customer-phone", "", "walk-in customer phone (owners)")
	flag.Parse()

	if req.UserID == 0 {
		fmt.Fprintln(os.Stderr, "appointment_book: -user is required")
		os.Exit(2)
	}

	engine, release, err := booking.FromEnv(*dbPath)
	if err != nil {
		logging.Fatalf("[appointment-book] %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	a, err := engine.Book(ctx, req)
	if err != nil {
		release()
		logging.Fatalf("[appointment-book] %v", err)
	}
	logging.Infof("[appointment-book] booked #%d with staff %d, %s %s-%s (%s)", a.ID, *a.StaffID, a.AppointmentDate, a.StartTime, a.EndTime, a.Status)
	out, _ := json.MarshalIndent(map[string]any{
		"appointment_id": a.ID,
		"staff_id":       *a.StaffID,
		"start_time":     a.StartTime,
		"end_time":       a.EndTime,
		"status":         a.Status,
		"source":         a.Source,
	}, "", "  ")
	fmt.Println(string(out))
}
