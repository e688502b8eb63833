package events

import (
	"context"
	"testing"
)

func TestNewKafkaProducerRequiresBrokersAndTopic(t *testing.T) {
	if p := NewKafkaProducer(nil, "sessions"); p != nil {
		t.Error("expected nil producer with no brokers")
	}
	if p := NewKafkaProducer([]string{"localhost:9092"}, ""); p != nil {
		t.Error("expected nil producer with no topic")
	}
}

func TestNilProducerIsSafe(t *testing.T) {
	var p *KafkaProducer
	if err := p.Emit(context.Background(), &Event{Type: TypeSessionCreated}); err != nil {
		t.Errorf("nil producer Emit: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("nil producer Close: %v", err)
	}
}
