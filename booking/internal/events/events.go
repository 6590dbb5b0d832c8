// Package events publishes reservation lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/service"
	"github.com/ruelucas/booking-service/pkg/circuit_breaker"
)

type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

var _ service.EventPublisher = (*Publisher)(nil)

func NewPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(10, 30*time.Second, 0.5, 3),
		log:      log.Named("events"),
	}
}

func (p *Publisher) Publish(ctx context.Context, e model.ReservationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.Code),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(e.Type)},
		},
	}
	return p.cb.Call(func() error {
		partition, offset, err := p.producer.SendMessage(msg)
		if err != nil {
			return errors.Wrap(err, "kafka send")
		}
		p.log.Debug("event published",
			zap.String("type", string(e.Type)),
			zap.String("code", e.Code),
			zap.Int32("partition", partition),
			zap.Int64("offset", offset))
		return nil
	})
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
