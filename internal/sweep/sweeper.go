// Package sweep runs the periodic maintenance job: resetting long-idle
// sessions to the main menu and purging stale dedup ledger entries.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/akagera/motobot/internal/metrics"
	"github.com/akagera/motobot/internal/store"
)

// Policy controls the sweeper's timing.
type Policy struct {
	Interval       time.Duration
	SessionIdleTTL time.Duration
	DedupRetention time.Duration
}

// Start runs a background goroutine that sweeps on every tick until the
// context is cancelled. The sweeper is independent of the live request
// path: a failed sweep only logs and waits for the next tick.
func Start(ctx context.Context, repo store.Repository, p Policy) {
	ticker := time.NewTicker(p.Interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Sweeper started", "interval", p.Interval, "session_idle_ttl", p.SessionIdleTTL)

		for {
			select {
			case <-ticker.C:
				sweep(ctx, repo, p)
			case <-ctx.Done():
				slog.Info("Sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweep(ctx context.Context, repo store.Repository, p Policy) {
	idle, err := repo.GetIdleSessions(ctx, p.SessionIdleTTL)
	if err != nil {
		slog.Error("Sweeper failed to query idle sessions", "error", err)
		return
	}

	for _, sess := range idle {
		// Reset, never delete: the user-identity row must survive so the
		// profile linkage does.
		if err := repo.ResetSession(ctx, sess.UserID); err != nil {
			slog.Warn("Sweeper failed to reset session", "user_id", sess.UserID, "error", err)
			continue
		}
		metrics.SweeperResets.Inc()
		slog.Info("Idle session reset to main menu", "user_id", sess.UserID, "stuck_state", sess.State)
	}

	purged, err := repo.PurgeProcessedBefore(ctx, p.DedupRetention)
	if err != nil {
		slog.Error("Sweeper failed to purge dedup ledger", "error", err)
		return
	}
	if purged > 0 || len(idle) > 0 {
		slog.Info("Sweep completed", "sessions_reset", len(idle), "dedup_purged", purged)
	}
}
