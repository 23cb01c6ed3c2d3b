package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/atlas-engine/pkg/explorer"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeNotice   EventType = "surveyor.notice"
	EventTypeSnapshot EventType = "surveyor.snapshot"
)

// Event is the envelope published on a session channel.
type Event struct {
	Type      EventType          `json:"type"`
	SessionID string             `json:"session_id"`
	Notice    *explorer.Notice   `json:"notice,omitempty"`
	Snapshot  *explorer.Snapshot `json:"snapshot,omitempty"`
}

// Channel returns the pub/sub channel carrying a session's events.
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("atlas-events:%s", sessionID.String())
}

// RedisSink publishes events to Redis Pub/Sub for remote viewers. It keeps no state in
// Redis.
type RedisSink struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewRedisSink connects to redisURL and verifies the connection.
func NewRedisSink(ctx context.Context, redisURL string, logger *slog.Logger) (*RedisSink, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to Redis for event publishing", "url", redisURL)

	return &RedisSink{
		rdb:    rdb,
		logger: logger,
	}, nil
}

func (r *RedisSink) Notices(ctx context.Context, snap *explorer.Snapshot, notices []explorer.Notice) error {
	for i := range notices {
		event := Event{
			Type:      EventTypeNotice,
			SessionID: snap.SessionID.String(),
			Notice:    &notices[i],
		}
		if err := r.publish(ctx, snap.SessionID, event); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisSink) Snapshot(ctx context.Context, snap *explorer.Snapshot) error {
	return r.publish(ctx, snap.SessionID, Event{
		Type:      EventTypeSnapshot,
		SessionID: snap.SessionID.String(),
		Snapshot:  snap,
	})
}

// Close closes the Redis connection
func (r *RedisSink) Close() error {
	return r.rdb.Close()
}

func (r *RedisSink) publish(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := r.rdb.Publish(ctx, channel, data).Err(); err != nil {
		r.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	r.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
