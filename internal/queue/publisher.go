package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/hetulpatel/Randex/internal/models"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher puts appointment events on Kafka, keyed by business id so each
// business's events stay ordered on one partition. A nil writer drops events.
type Publisher struct {
	Writer MessageWriter
}

func NewPublisher(w MessageWriter) *Publisher {
	return &Publisher{Writer: w}
}

func (p *Publisher) Publish(ctx context.Context, events ...models.AppointmentEvent) error {
	if p == nil || p.Writer == nil || len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", ev.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(ev.BusinessID, 10)),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(ev.Type)},
				{Key: "event_id", Value: []byte(ev.ID)},
			},
			Time: ev.OccurredAt,
		})
	}
	return p.Writer.WriteMessages(ctx, msgs...)
}
