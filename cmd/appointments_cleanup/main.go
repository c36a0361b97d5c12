package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/hetulpatel/Randex/internal/booking"
	"github.com/hetulpatel/Randex/internal/config"
	"github.com/hetulpatel/Randex/internal/logging"
)

func main() {
	if err := config.Load(); err != nil {
		logging.Warnf("[cleanup] %v", err)
	}
	logging.InitFromEnv()

	dbPath := flag.String("db-path", "", "database file (default SQLITE_PATH)")
	every := flag.Duration("every", 0, "repeat interval, e.g. 24h; 0 runs once")
	flag.Parse()

	engine, release, err := booking.FromEnv(*dbPath)
	if err != nil {
		logging.Fatalf("[cleanup] %v", err)
	}
	defer release()

	if *every <= 0 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := engine.Cleanup(ctx)
		if err != nil {
			release()
			logging.Fatalf("[cleanup] %v", err)
		}
		logging.Infof("[cleanup] removed %d appointments", n)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logging.Infof("[cleanup] running every %s", *every)
	engine.RunCleanup(ctx, *every)
}
