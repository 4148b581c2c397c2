package notify

import (
	"context"
	"os"
	"testing"

	sarama "github.com/IBM/sarama"
	"github.com/google/uuid"
)

func newKafkaNotifier(t *testing.T) (*KafkaNotifier, string) {
	t.Helper()
	addr := os.Getenv("ELECT_TEST_KAFKA_ADDR")
	if addr == "" {
		t.Skip("ELECT_TEST_KAFKA_ADDR not set, skipping Kafka integration tests")
	}
	t.Logf("using real Kafka at %s", addr)

	topic := "elect-test-" + uuid.NewString()
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true

	n, err := NewKafkaNotifier([]string{addr}, topic, cfg)
	if err != nil {
		t.Fatalf("NewKafkaNotifier: %v", err)
	}
	t.Cleanup(func() { _ = n.Close() })
	return n, topic
}

func TestKafkaNotifierPublish(t *testing.T) {
	n, _ := newKafkaNotifier(t)
	ctx := context.Background()
	if err := n.Publish(ctx, Event{Subject: "leader_success", Message: "done"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
}
