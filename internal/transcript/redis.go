package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightsmile-dental/voice-assistant/internal/flow"
)

// RedisStore persists transcripts as Redis lists, one list per
// session, expiring after the configured TTL.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore builds a Redis-backed transcript store.
func NewRedisStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("transcript: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if tracer == nil {
		tracer = otel.Tracer("voiceassistant.internal.transcript")
	}
	return &RedisStore{redis: client, ttl: ttl, tracer: tracer}
}

func transcriptKey(sessionID string) string {
	return fmt.Sprintf("transcript:%s", sessionID)
}

// Append pushes the event onto the session list and refreshes the TTL.
func (s *RedisStore) Append(ctx context.Context, event flow.Event) error {
	ctx, span := s.tracer.Start(ctx, "transcript.append")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("transcript: failed to marshal event: %w", err)
	}
	key := transcriptKey(event.SessionID)
	if err := s.redis.RPush(ctx, key, data).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("transcript: failed to persist event: %w", err)
	}
	if err := s.redis.Expire(ctx, key, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("transcript: failed to refresh ttl: %w", err)
	}
	return nil
}

// List loads the session's events in append order. Unknown sessions
// yield an empty transcript, not an error.
func (s *RedisStore) List(ctx context.Context, sessionID string) ([]flow.Event, error) {
	ctx, span := s.tracer.Start(ctx, "transcript.list")
	defer span.End()

	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("transcript: failed to load events: %w", err)
	}
	events := make([]flow.Event, 0, len(raw))
	for _, item := range raw {
		var event flow.Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("transcript: failed to decode event: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}
