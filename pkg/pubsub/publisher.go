package pubsub

import (
	"context"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, key string, headers map[string]string, message []byte) error
	Close()
}

type kafkaPublisher struct {
	logger   *logrus.Logger
	producer *kafka.Producer
}

func PublisherFromConfluentKafkaProducer(logger *logrus.Logger, producer *kafka.Producer) Publisher {
	return &kafkaPublisher{
		logger:   logger,
		producer: producer,
	}
}

// Publish implements Publisher. It waits for the broker acknowledgment so the
// caller can tie the publish into its own transaction boundary.
func (p *kafkaPublisher) Publish(ctx context.Context, topic string, key string, headers map[string]string, message []byte) error {
	kafkaHeaders := make([]kafka.Header, 0, len(headers))
	for k, v := range headers {
		kafkaHeaders = append(kafkaHeaders, kafka.Header{Key: k, Value: []byte(v)})
	}

	deliveryChan := make(chan kafka.Event, 1)

	err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          message,
		Headers:        kafkaHeaders,
	}, deliveryChan)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).Error()
		return err
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return nil
		}
		if m.TopicPartition.Error != nil {
			p.logger.WithContext(ctx).WithError(m.TopicPartition.Error).Error()
			return m.TopicPartition.Error
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// Close implements Publisher.
func (p *kafkaPublisher) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}
