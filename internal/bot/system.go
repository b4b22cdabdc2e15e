package bot

import (
	"go.uber.org/zap"

	"pkdindustries/helpbot/internal/config"
	"pkdindustries/helpbot/internal/core"
	"pkdindustries/helpbot/internal/metrics"
	"pkdindustries/helpbot/internal/store"
)

// NewSystem builds the metrics registry and loads the store. A store that
// cannot be read is logged and the bot starts with empty defaults.
func NewSystem(c *config.Configuration) *core.SystemImpl {
	s := core.SystemImpl{}
	s.Metrics = metrics.New()

	s.Store = store.New(c.Bot.StorePath, zap.S(), s.Metrics)
	if err := s.Store.Load(); err != nil {
		zap.S().Warnw("Failed to load store, starting empty", "error", err)
	}
	zap.S().Infow("Initialized store", "path", c.Bot.StorePath, "topics", len(s.Store.Topics()))

	return &s
}
