package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
)

type Message struct {
	Topic   string
	Key     string
	Headers map[string]string
	Value   []byte
}

type EventHandler func(ctx context.Context, message Message) error

type Subscriber interface {
	Subscribe(topic string, handler EventHandler)
	Start(ctx context.Context) error
	Close()
}

type kafkaSubscriber struct {
	logger   *logrus.Logger
	consumer *kafka.Consumer
	handlers map[string]EventHandler
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func SubscriberFromConfluentKafkaConsumer(logger *logrus.Logger, consumer *kafka.Consumer) Subscriber {
	return &kafkaSubscriber{
		logger:   logger,
		consumer: consumer,
		handlers: make(map[string]EventHandler),
	}
}

// Subscribe implements Subscriber.
func (s *kafkaSubscriber) Subscribe(topic string, handler EventHandler) {
	s.handlers[topic] = handler
}

// Start implements Subscriber. It polls the broker and commits an offset only
// after the registered handler returns nil, so a failed application is
// redelivered by the broker.
func (s *kafkaSubscriber) Start(ctx context.Context) error {
	topics := make([]string, 0, len(s.handlers))
	for topic := range s.handlers {
		topics = append(topics, topic)
	}

	if err := s.consumer.SubscribeTopics(topics, nil); err != nil {
		s.logger.WithError(err).Error()
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			if s.stopped.Load() || ctx.Err() != nil {
				return
			}

			msg, err := s.consumer.ReadMessage(time.Second)
			if err != nil {
				kerr, ok := err.(kafka.Error)
				if ok && kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				s.logger.WithError(err).Error()
				continue
			}

			s.dispatch(ctx, msg)
		}
	}()

	return nil
}

func (s *kafkaSubscriber) dispatch(ctx context.Context, msg *kafka.Message) {
	handler, ok := s.handlers[*msg.TopicPartition.Topic]
	if !ok {
		return
	}

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}

	message := Message{
		Topic:   *msg.TopicPartition.Topic,
		Key:     string(msg.Key),
		Headers: headers,
		Value:   msg.Value,
	}

	if err := handler(ctx, message); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("topic", message.Topic).Error("message handling failed, offset is not committed")
		return
	}

	if _, err := s.consumer.CommitMessage(msg); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error()
	}
}

// Close implements Subscriber. It signals the poll goroutine, waits for it to
// exit, then releases the consumer.
func (s *kafkaSubscriber) Close() {
	s.stopped.Store(true)
	s.wg.Wait()
	s.consumer.Close()
}
