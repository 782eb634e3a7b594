package queue

import (
	"context"
	"strconv"

	"github.com/emrgen/linkset/internal/compress"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ Publisher = (*RedisPublisher)(nil)

// RedisPublisher publishes changes on <channel>:<relation> and bumps a
// per-source counter in the hash <channel>:version:<relation>.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	encoder compress.Compress
}

func NewRedisPublisher(client *redis.Client, channel string, encoder compress.Compress) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, encoder: encoder}
}

func (r *RedisPublisher) RelationChannel(relation string) string {
	return r.channel + ":" + relation
}

func (r *RedisPublisher) VersionHash(relation string) string {
	return r.channel + ":version:" + relation
}

func (r *RedisPublisher) Publish(ctx context.Context, change *LinkChange) error {
	payload, err := Encode(r.encoder, change)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if err := p.Publish(ctx, r.RelationChannel(change.Relation), payload).Err(); err != nil {
			return err
		}

		return p.HIncrBy(ctx, r.VersionHash(change.Relation), strconv.FormatUint(uint64(change.SourceID), 10), 1).Err()
	})
	if err != nil {
		return err
	}

	logrus.Debugf("published %s change %s for source %d", change.Relation, change.ID, change.SourceID)

	return nil
}

// Version returns how many changes were published for the source so far.
func (r *RedisPublisher) Version(ctx context.Context, relation string, sourceID uint) (int64, error) {
	res := r.client.HGet(ctx, r.VersionHash(relation), strconv.FormatUint(uint64(sourceID), 10))
	if res.Err() == redis.Nil {
		return 0, nil
	}

	return res.Int64()
}

// Subscribe streams decoded changes for relation until ctx is done.
func (r *RedisPublisher) Subscribe(ctx context.Context, relation string) (<-chan *LinkChange, error) {
	sub := r.client.Subscribe(ctx, r.RelationChannel(relation))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	changes := make(chan *LinkChange)
	go func() {
		defer close(changes)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				change, err := Decode(r.encoder, []byte(msg.Payload))
				if err != nil {
					logrus.Errorf("failed to decode link change on %s: %v", msg.Channel, err)
					continue
				}

				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return changes, nil
}

func (r *RedisPublisher) Close() error {
	return r.client.Close()
}
