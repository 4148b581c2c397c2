package notify

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryPublish(t *testing.T) {
	n := NewInMemory()
	ctx := context.Background()
	e := Event{Subject: "heartbeat", Message: "alive", Instance: "host-a", Time: time.Now()}
	if err := n.Publish(ctx, e); err != nil {
		t.Fatalf("publish: %v", err)
	}
	events := n.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Subject != "heartbeat" || events[0].Instance != "host-a" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestInMemoryPublishCancelledContext(t *testing.T) {
	n := NewInMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Publish(ctx, Event{Subject: "x"}); err == nil {
		t.Fatal("expected context error")
	}
	if len(n.Events()) != 0 {
		t.Fatal("event recorded despite cancelled context")
	}
}
