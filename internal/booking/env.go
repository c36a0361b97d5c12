package booking

import (
	"fmt"

	"github.com/hetulpatel/Randex/internal/config"
	"github.com/hetulpatel/Randex/internal/kafka"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/queue"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
)

// FromEnv opens the engine the cmds share: the store at dbPath (SQLITE_PATH
// when empty), BOOKING_TIMEZONE, and a Kafka publisher when KAFKA_BROKERS is
// set. The returned func releases all of it.
func FromEnv(dbPath string) (*Engine, func(), error) {
	if dbPath == "" {
		dbPath = config.SQLitePath()
	}
	loc, err := config.Location()
	if err != nil {
		return nil, nil, err
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	engine := &Engine{Store: store, Location: loc}
	closers := []func() error{store.Close}

	if config.String("KAFKA_BROKERS", "") != "" {
		writer := kafka.NewWriter(kafka.Brokers(), kafka.AppointmentsTopic())
		engine.Publisher = queue.NewPublisher(writer)
		closers = append([]func() error{writer.Close}, closers...)
		logging.Debugf("[booking] publishing events to %s", writer.Topic)
	}

	release := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logging.Warnf("[booking] close: %v", err)
			}
		}
	}
	return engine, release, nil
}
