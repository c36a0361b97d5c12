package kafka

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

func TestBrokersFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")
	if got, want := Brokers(), []string{"kafka-1:9092", "kafka-2:9092"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("brokers = %v, want %v", got, want)
	}
	t.Setenv("KAFKA_BROKERS", "")
	if got := Brokers(); !reflect.DeepEqual(got, []string{DefaultBroker}) {
		t.Fatalf("expected default broker, got %v", got)
	}
}

func TestAppointmentsTopic(t *testing.T) {
	t.Setenv("APPOINTMENTS_KAFKA_TOPIC", "")
	if got := AppointmentsTopic(); got != "randex.appointments" {
		t.Fatalf("default topic = %s", got)
	}
	t.Setenv("APPOINTMENTS_KAFKA_TOPIC", "dev.appointments")
	if got := AppointmentsTopic(); got != "dev.appointments" {
		t.Fatalf("topic = %s", got)
	}
}

func TestWaitForBrokerRequiresBrokers(t *testing.T) {
	if err := WaitForBroker(context.Background(), nil); err == nil {
		t.Fatalf("expected error without brokers")
	}
	if err := EnsureTopic(context.Background(), nil, "t"); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

func TestWaitForBrokerHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := WaitForBroker(ctx, []string{"127.0.0.1:1"}); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestNewWriterKeysByHash(t *testing.T) {
	w := NewWriter([]string{"a:9092"}, "randex.appointments")
	defer w.Close()
	if _, ok := w.Balancer.(*kafka.Hash); !ok {
		t.Fatalf("expected hash balancer, got %T", w.Balancer)
	}
	if w.Topic != "randex.appointments" {
		t.Fatalf("topic = %s", w.Topic)
	}
}
