package repository

import (
	"context"
	"fmt"

	"TapeReader/internal/domain/models"
	drepo "TapeReader/internal/domain/repository"
	pkgkafka "TapeReader/pkg/kafka"
)

// KafkaPublisher fans decision cycles out to a Kafka topic, keyed by pair so
// downstream consumers see one partition per instrument.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	pair     string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic, pair string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, pair: pair}
}

func (p *KafkaPublisher) PublishDecision(ctx context.Context, e models.HistoryEntry) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(p.pair), e); err != nil {
		return fmt.Errorf("publish decision: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

var _ drepo.Publisher = (*KafkaPublisher)(nil)
