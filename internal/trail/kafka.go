package trail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultTopic is the Kafka topic compliance events are produced to.
const DefaultTopic = "compliance.trail"

// KafkaSink produces events to a Kafka topic as JSON, keyed by tenant so
// a tenant's trail stays ordered within a partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

type KafkaOption func(*KafkaSink)

func WithTopic(topic string) KafkaOption {
	return func(s *KafkaSink) {
		s.topic = topic
	}
}

func NewKafkaSink(brokers []string, opts ...KafkaOption) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	s := &KafkaSink{client: client, topic: DefaultTopic}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal trail event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.TenantID.String()),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce trail event: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() {
	s.client.Close()
}
