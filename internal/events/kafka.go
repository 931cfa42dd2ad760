package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher mirrors workflow events onto a kafka topic for downstream
// consumers (reporting, notifications). Writes happen off the request
// goroutine; failures are logged and dropped.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn("kafka publish: marshal failed", zap.String("topic", topic), zap.Error(err))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(topic),
			Value: data,
			Headers: []kafka.Header{
				{Key: "topic", Value: []byte(topic)},
			},
		})
		if err != nil {
			p.logger.Warn("kafka publish failed", zap.String("topic", topic), zap.Error(err))
		}
	}()
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
