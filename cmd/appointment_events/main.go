package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/hetulpatel/Randex/internal/config"
	"github.com/hetulpatel/Randex/internal/kafka"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
	"github.com/hetulpatel/Randex/internal/workers"
)

func main() {
	if err := config.Load(); err != nil {
		logging.Warnf("[appointment-events] %v", err)
	}
	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	brokers := kafka.Brokers()
	topic := kafka.AppointmentsTopic()
	group := config.String("APPOINTMENT_EVENTS_GROUP", "appointment-events")
	workerCount := config.Int("APPOINTMENT_EVENTS_WORKERS", 2)

	waitCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	if err := kafka.WaitForBroker(waitCtx, brokers); err != nil {
		logging.Fatalf("[appointment-events] wait for broker: %v", err)
	}
	cancel()

	ensureCtx, cancelEnsure := context.WithTimeout(ctx, 30*time.Second)
	if err := kafka.EnsureTopic(ensureCtx, brokers, topic); err != nil {
		logging.Warnf("[appointment-events] ensure topic warning: %v", err)
	}
	cancelEnsure()

	path := config.SQLitePath()
	store, err := sqlite.Open(path)
	if err != nil {
		logging.Fatalf("[appointment-events] open sqlite %s: %v", path, err)
	}
	defer store.Close()

	processor := workers.NewProcessor(store)
	logging.Infof("[appointment-events] consuming %s with group %s (%d workers)", topic, group, workerCount)
	workers.Run(ctx, brokers, topic, group, workerCount, processor.Handle)
}
