// Package notify carries semantic game events out of the core. Delivery (persisted
// inbox, push) belongs to whoever consumes the stream.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	FinancialWarning Type = "FINANCIAL_WARNING"
	Restructuring    Type = "RESTRUCTURING"
	GameOver         Type = "GAME_OVER"
	MatchResult      Type = "MATCH_RESULT"
)

type Event struct {
	ID          string         `json:"id"`
	Type        Type           `json:"type"`
	TeamID      int64          `json:"team_id"`
	OwnerUserID string         `json:"owner_user_id,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

func NewEvent(t Type, teamID int64, ownerUserID string, payload map[string]any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		TeamID:      teamID,
		OwnerUserID: ownerUserID,
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	}
}

type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// Log writes events to the structured log. It is the fallback sink when no stream is configured.
type Log struct {
	log *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{log: logger}
}

func (l *Log) Publish(ctx context.Context, ev Event) error {
	l.log.InfoContext(ctx, "game event",
		"event_id", ev.ID,
		"event_type", ev.Type,
		"team_id", ev.TeamID,
		"owner_user_id", ev.OwnerUserID,
		"payload", ev.Payload,
	)
	return nil
}

// Multi publishes to every sink and joins their errors.
type Multi []Notifier

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open returns the log sink, plus a Redis stream sink when redisURL is set. The returned
// close func is always safe to call.
func Open(redisURL, stream string, logger *slog.Logger) (Notifier, func(), error) {
	logSink := NewLog(logger)
	if redisURL == "" {
		return logSink, func() {}, nil
	}
	rs, err := NewRedisStream(redisURL, stream)
	if err != nil {
		return nil, nil, err
	}
	return Multi{logSink, rs}, func() { _ = rs.Close() }, nil
}
