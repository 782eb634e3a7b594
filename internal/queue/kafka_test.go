package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/emrgen/linkset/internal/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	messages []*kafka.Message
	failWith error
	closed   bool
}

func (f *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	f.messages = append(f.messages, msg)

	report := *msg
	report.TopicPartition.Error = f.failWith
	deliveryChan <- &report
	return nil
}

func (f *fakeProducer) Flush(timeoutMs int) int {
	return 0
}

func (f *fakeProducer) Close() {
	f.closed = true
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &fakeProducer{}
	publisher := NewKafkaPublisher(producer, "link-changes", compress.NewLZ4())

	change := NewLinkChange("video-tags", 42, []uint{4}, []uint{1}, nil)
	require.NoError(t, publisher.Publish(context.TODO(), change))

	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, "link-changes", *msg.TopicPartition.Topic)
	assert.Equal(t, "video-tags:42", string(msg.Key))

	got, err := Decode(compress.NewLZ4(), msg.Value)
	require.NoError(t, err)
	assert.Equal(t, change.ID, got.ID)

	require.NoError(t, publisher.Close())
	assert.True(t, producer.closed)
}

func TestKafkaPublisher_DeliveryFailure(t *testing.T) {
	producer := &fakeProducer{failWith: errors.New("broker down")}
	publisher := NewKafkaPublisher(producer, "link-changes", compress.NewNop())

	err := publisher.Publish(context.TODO(), NewLinkChange("video-tags", 1, []uint{2}, nil, nil))
	assert.EqualError(t, err, "broker down")
}
