package queue

import (
	"context"
	"fmt"
	"strconv"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/emrgen/linkset/internal/compress"
	"github.com/sirupsen/logrus"
)

// Producer is the part of *kafka.Producer used for publishing.
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

var _ Publisher = (*KafkaPublisher)(nil)

type KafkaPublisher struct {
	producer Producer
	topic    string
	encoder  compress.Compress
}

func NewKafkaPublisher(producer Producer, topic string, encoder compress.Compress) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, encoder: encoder}
}

// NewKafkaProducer connects a confluent producer to brokers.
func NewKafkaProducer(brokers string) (*kafka.Producer, error) {
	return kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  brokers,
		"enable.idempotence": true,
		"acks":               "all",
	})
}

// MessageKey keeps every change of one source on the same partition.
func MessageKey(change *LinkChange) string {
	return change.Relation + ":" + strconv.FormatUint(uint64(change.SourceID), 10)
}

// Publish blocks until the broker acknowledged the message or ctx is done.
func (k *KafkaPublisher) Publish(ctx context.Context, change *LinkChange) error {
	payload, err := Encode(k.encoder, change)
	if err != nil {
		return err
	}

	delivery := make(chan kafka.Event, 1)
	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(MessageKey(change)),
		Value:          payload,
		Headers: []kafka.Header{
			{Key: "relation", Value: []byte(change.Relation)},
			{Key: "change-id", Value: []byte(change.ID.String())},
		},
	}, delivery)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-delivery:
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected kafka event %v", e)
		}
		if msg.TopicPartition.Error != nil {
			return msg.TopicPartition.Error
		}

		logrus.Debugf("delivered %s change %s to %v", change.Relation, change.ID, msg.TopicPartition)
		return nil
	}
}

func (k *KafkaPublisher) Close() error {
	if left := k.producer.Flush(5000); left > 0 {
		logrus.Warnf("%d kafka messages were not delivered before close", left)
	}
	k.producer.Close()
	return nil
}
