// Package runner drives a surveyor session in real time and feeds its output to sinks.
package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/atlas-engine/internal/logger"
	"github.com/jwebster45206/atlas-engine/internal/sink"
	"github.com/jwebster45206/atlas-engine/pkg/explorer"
)

const publishTimeout = 2 * time.Second

// Runner steps one surveyor State from a ticker. Only the loop goroutine touches the
// State; Reset stops that goroutine before building the next one.
type Runner struct {
	engine        *explorer.Engine
	sink          sink.Sink
	log           *slog.Logger
	frame         time.Duration
	snapshotEvery int

	mu      sync.Mutex
	parent  context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	session uuid.UUID
}

// New creates a runner ticking frameRate times per second and publishing a snapshot
// every snapshotEvery frames.
func New(engine *explorer.Engine, s sink.Sink, log *slog.Logger, frameRate, snapshotEvery int) *Runner {
	if frameRate < 1 {
		frameRate = 60
	}
	if snapshotEvery < 1 {
		snapshotEvery = 1
	}
	return &Runner{
		engine:        engine,
		sink:          s,
		log:           log,
		frame:         time.Second / time.Duration(frameRate),
		snapshotEvery: snapshotEvery,
	}
}

// Start begins a new session. It is a no-op while a session is running.
func (r *Runner) Start(ctx context.Context) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startLocked(ctx)
	return r.session
}

// Stop cancels the running session and waits for its loop to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// Reset replaces the running session with a fresh surveyor.
func (r *Runner) Reset() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent := r.parent
	if parent == nil {
		parent = context.Background()
	}
	r.stopLocked()
	r.startLocked(parent)
	return r.session
}

// Session returns the current session ID.
func (r *Runner) Session() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Done is closed when the current session's loop exits.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return r.done
}

func (r *Runner) startLocked(parent context.Context) {
	if r.cancel != nil {
		select {
		case <-r.done:
			// The loop already exited on its own, usually because its parent was cancelled.
			r.cancel()
			r.cancel = nil
		default:
			return
		}
	}
	st := r.engine.NewState()
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	r.parent, r.cancel, r.done, r.session = parent, cancel, done, st.ID

	log := logger.WithSession(r.log, st.ID.String())
	log.Info("Surveyor session started", "frame", r.frame.String())

	go func() {
		defer close(done)
		r.loop(ctx, st, log)
		log.Info("Surveyor session stopped", "elapsed", st.Elapsed, "total_collected", st.TotalCollected)
	}()
}

func (r *Runner) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
}

func (r *Runner) loop(ctx context.Context, st *explorer.State, log *slog.Logger) {
	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()

	last := time.Now()
	frames := 0
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.engine.Step(st, now.Sub(last).Seconds())
			last = now
			frames++
			r.publish(ctx, st, frames, log)
		}
	}
}

func (r *Runner) publish(ctx context.Context, st *explorer.State, frame int, log *slog.Logger) {
	notices := st.DrainNotices()
	if len(notices) == 0 && frame%r.snapshotEvery != 0 {
		return
	}
	snap := r.engine.Snapshot(st)

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if len(notices) > 0 {
		if err := r.sink.Notices(pubCtx, &snap, notices); err != nil {
			// Don't stop the simulation just because a viewer is unreachable
			logger.WithError(log, err).Warn("Failed to publish notices", "count", len(notices))
		}
	}
	if frame%r.snapshotEvery == 0 {
		if err := r.sink.Snapshot(pubCtx, &snap); err != nil {
			logger.WithError(log, err).Warn("Failed to publish snapshot")
		}
	}
}
