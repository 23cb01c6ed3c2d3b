// Package sink delivers surveyor notices and snapshots to presentation consumers.
package sink

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jwebster45206/atlas-engine/pkg/explorer"
)

// Sink consumes simulation output. Implementations never mutate what they receive.
type Sink interface {
	Notices(ctx context.Context, snap *explorer.Snapshot, notices []explorer.Notice) error
	Snapshot(ctx context.Context, snap *explorer.Snapshot) error
	Close() error
}

// Fanout forwards to every sink and joins their errors.
type Fanout []Sink

func (f Fanout) Notices(ctx context.Context, snap *explorer.Snapshot, notices []explorer.Notice) error {
	var errs []error
	for _, s := range f {
		errs = append(errs, s.Notices(ctx, snap, notices))
	}
	return errors.Join(errs...)
}

func (f Fanout) Snapshot(ctx context.Context, snap *explorer.Snapshot) error {
	var errs []error
	for _, s := range f {
		errs = append(errs, s.Snapshot(ctx, snap))
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, s := range f {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// LogSink writes notices to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink that logs notices at info and snapshots at debug.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (l *LogSink) Notices(ctx context.Context, snap *explorer.Snapshot, notices []explorer.Notice) error {
	for _, n := range notices {
		attrs := []any{
			"session_id", snap.SessionID.String(),
			"kind", string(n.Kind),
			"elapsed", n.Elapsed,
		}
		if n.Subject != "" {
			attrs = append(attrs, "subject", n.Subject)
		}
		if n.Title != "" {
			attrs = append(attrs, "title", n.Title)
		}
		if n.Text != "" {
			attrs = append(attrs, "text", n.Text)
		}
		if n.IsNew {
			attrs = append(attrs, "is_new", true)
		}
		l.logger.InfoContext(ctx, "Surveyor notice", attrs...)
	}
	return nil
}

func (l *LogSink) Snapshot(ctx context.Context, snap *explorer.Snapshot) error {
	l.logger.DebugContext(ctx, "Surveyor snapshot",
		"session_id", snap.SessionID.String(),
		"phase", string(snap.Phase),
		"status", snap.Status,
		"x", snap.X,
		"y", snap.Y,
		"total_collected", snap.TotalCollected,
		"zone", snap.Zone,
		"dormant", len(snap.Dormant))
	return nil
}

func (l *LogSink) Close() error { return nil }
