package kafka

import (
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/cityline-transit/ct-ticket/config"
)

func NewProducer() *kafka.Producer {
	c := config.Get()

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": c.Kafka.Brokers,
		"acks":              "all",
	})
	if err != nil {
		panic(err)
	}

	return producer
}

// NewConsumer builds a consumer with auto commit disabled. Offsets are
// committed by pkg/pubsub only after the handler has applied the message.
func NewConsumer(groupID string) *kafka.Consumer {
	c := config.Get()

	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  c.Kafka.Brokers,
		"group.id":           groupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		panic(err)
	}

	return consumer
}
