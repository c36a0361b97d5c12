package workers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/hetulpatel/Randex/internal/kafka"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/models"
)

// readRetryDelay spaces out reads after a broker error.
var readRetryDelay = time.Second

type Handler func(context.Context, *models.AppointmentEvent) error

// MessageReader is the part of *kafka.Reader a worker uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Close() error
}

// Run starts workerCount consumers in one group and blocks until ctx is done.
func Run(ctx context.Context, brokers []string, topic, group string, workerCount int, handler Handler) {
	RunWith(ctx, func() MessageReader { return kafka.NewReader(brokers, topic, group) }, workerCount, handler)
}

func RunWith(ctx context.Context, newReader func() MessageReader, workerCount int, handler Handler) {
	if workerCount <= 0 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			reader := newReader()
			defer reader.Close()
			logging.Debugf("[appointment-events] worker %d started", id)
			consume(ctx, reader, handler)
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
}

func consume(ctx context.Context, reader MessageReader, handler Handler) {
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.Errorf("[appointment-events] read error: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(readRetryDelay):
			}
			continue
		}

		var ev models.AppointmentEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			logging.Errorf("[appointment-events] unmarshal error at offset %d: %v", msg.Offset, err)
			continue
		}

		if handler != nil {
			if err := handler(ctx, &ev); err != nil {
				logging.Errorf("[appointment-events] handler error for %s: %v", ev.ID, err)
			}
		}
	}
}
