package bot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"pkdindustries/helpbot/internal/config"
	"pkdindustries/helpbot/internal/core"
	"pkdindustries/helpbot/internal/metrics"
)

// ErrGaveUp is returned once a platform has failed too many times in a row
var ErrGaveUp = errors.New("too many failed connection attempts")

var errSessionEnded = errors.New("session ended")

// Backoff is the wait before retry number attempt (zero based):
// 1s, 2s, 4s, ... capped at maxWait.
func Backoff(attempt int, maxWait time.Duration) time.Duration {
	if attempt > 30 {
		attempt = 30
	}
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if maxWait > 0 && backoff > maxWait {
		backoff = maxWait
	}
	return backoff
}

// Reconnect runs session until ctx ends, restarting it whenever it returns.
// A session that became ready resets the failure count. After
// conn.MaxReconnects consecutive failures Reconnect returns ErrGaveUp.
func Reconnect(ctx context.Context, platform string, conn *config.ConnectionConfig, m *metrics.Metrics, session core.SessionFunc) error {
	logger := zap.S().With("platform", platform)
	failures := 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		var ready atomic.Bool
		err := session(ctx, func() {
			if ready.CompareAndSwap(false, true) {
				logger.Info("Session ready")
			}
		})
		if ctx.Err() != nil {
			return nil
		}

		if err == nil {
			err = errSessionEnded
		}
		if ready.Load() {
			failures = 0
		}
		failures++
		logger.Warnw("Session ended", "error", err, "failures", failures, "max", conn.MaxReconnects)

		if failures >= conn.MaxReconnects {
			return fmt.Errorf("%s: %w (%d): %w", platform, ErrGaveUp, failures, err)
		}

		wait := Backoff(failures-1, conn.ReconnectBackoff)
		logger.Infof("Reconnecting in %s (attempt %d/%d)", wait, failures+1, conn.MaxReconnects)

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil
		}
		m.Reconnected(platform)
	}
}
