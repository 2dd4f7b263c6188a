package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStream appends events to a Redis stream for the notification service to consume.
type RedisStream struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisStream(redisURL, stream string) (*RedisStream, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStream{client: client, stream: stream, maxLen: 100_000}, nil
}

func (r *RedisStream) Close() error {
	return r.client.Close()
}

func (r *RedisStream) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return err
	}
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: streamValues(ev, payload),
	}).Err()
}

func streamValues(ev Event, payload []byte) map[string]any {
	return map[string]any{
		"id":            ev.ID,
		"type":          string(ev.Type),
		"team_id":       strconv.FormatInt(ev.TeamID, 10),
		"owner_user_id": ev.OwnerUserID,
		"payload":       string(payload),
		"timestamp":     ev.OccurredAt.Unix(),
	}
}
