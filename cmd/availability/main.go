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
		logging.Warnf("[availability] %v", err)
	}
	logging.InitFromEnv()

	dbPath := flag.String("db-path", "", "database file (default SQLITE_PATH)")
	businessID := flag.Int64("business", 0, "business id")
	serviceID := flag.Int64("service", 0, "service id")
	date := flag.String("date", "", "day to list, YYYY-MM-DD (default today)")
	flag.Parse()

	if *businessID == 0 || *serviceID == 0 {
		fmt.Fprintln(os.Stderr, "availability: -business and -service are required")
		os.Exit(2)
	}

	engine, release, err := booking.FromEnv(*dbPath)
	if err != nil {
		logging.Fatalf("[availability] %v", err)
	}
	defer release()

	day := *date
	if day == "" {
		day = engine.Today()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slots, err := engine.Availability(ctx, *businessID, *serviceID, day)
	if err != nil {
		release()
		logging.Fatalf("[availability] %v", err)
	}
	out, _ := json.MarshalIndent(slots, "", "  ")
	fmt.Println(string(out))
}
