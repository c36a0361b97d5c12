package main

import (
	"context"
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
		logging.Warnf("[appointment-status] %v", err)
	}
	logging.InitFromEnv()

	dbPath := flag.String("db-path", "", "database file (default SQLITE_PATH)")
	userID := flag.Int64("user", 0, "acting user id")
	appointmentID := flag.Int64("id", 0, "appointment id")
	status := flag.String("status", "", "pending, confirmed, cancelled or completed")
	list := flag.Bool("list", false, "list the user's appointments instead")
	flag.Parse()

	if *userID == 0 || (!*list && (*appointmentID == 0 || *status == "")) {
		fmt.Fprintln(os.Stderr, "appointment_status: -user with -id and -status, or -user with -list")
		os.Exit(2)
	}

	engine, release, err := booking.FromEnv(*dbPath)
	if err != nil {
		logging.Fatalf("[appointment-status] %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if *list {
		appts, err := engine.Appointments(ctx, *userID)
		if err != nil {
			release()
			logging.Fatalf("[appointment-status] %v", err)
		}
		for _, a := range appts {
			who := a.AccountName
			if who == "" {
				who = a.CustomerName
			}
			fmt.Printf("#%d\t%s %s\t%s\t%s\t%s\t%s\n", a.ID, a.AppointmentDate, a.AppointmentTime, a.Status, a.BusinessName, a.ServiceName, who)
		}
		return
	}

	a, err := engine.UpdateStatus(ctx, *userID, *appointmentID, *status)
	if err != nil {
		release()
		logging.Fatalf("[appointment-status] %v", err)
	}
	logging.Infof("[appointment-status] appointment #%d is %s", a.ID, a.Status)
}
