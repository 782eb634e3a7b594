package config

import (
	"fmt"

	"github.com/emrgen/linkset/internal/compress"
	"github.com/emrgen/linkset/internal/queue"
	redis "github.com/redis/go-redis/v9"
)

// NewPublisher builds the link change publisher selected by events.backend.
func NewPublisher(cfg *Config) (queue.Publisher, error) {
	codec, err := compress.FromName(cfg.Events.Compression)
	if err != nil {
		return nil, err
	}

	switch cfg.Events.Backend {
	case "", "nop":
		return queue.NewNop(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Protocol: 2,
		})
		return queue.NewRedisPublisher(client, cfg.Redis.Channel, codec), nil
	case "kafka":
		producer, err := queue.NewKafkaProducer(cfg.Kafka.Brokers)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return queue.NewKafkaPublisher(producer, cfg.Kafka.Topic, codec), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}
}
