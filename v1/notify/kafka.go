package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// KafkaNotifier implements Notifier using a Kafka sync producer.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaNotifier creates a notifier producing to topic on the given brokers.
func NewKafkaNotifier(brokers []string, topic string, cfg *sarama.Config) (*KafkaNotifier, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	if !cfg.Producer.Return.Successes {
		cfg.Producer.Return.Successes = true
	}
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &KafkaNotifier{producer: producer, topic: topic}, nil
}

// NewKafkaNotifierFromProducer wraps an existing sync producer.
func NewKafkaNotifierFromProducer(producer sarama.SyncProducer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

// Publish implements Notifier.Publish.
func (n *KafkaNotifier) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(e.Subject),
		Value: sarama.ByteEncoder(data),
	}
	_, _, err = n.producer.SendMessage(msg)
	return err
}

// Close shuts down the underlying producer.
func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}
