package bot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pkdindustries/helpbot/internal/commands"
	"pkdindustries/helpbot/internal/config"
	"pkdindustries/helpbot/internal/core"
	"pkdindustries/helpbot/internal/discord"
	"pkdindustries/helpbot/internal/irc"
)

// Run starts the bot on the configured platform and blocks until ctx ends
// or the connection cannot be re-established.
func Run(ctx context.Context, cfg *config.Configuration) error {
	core.InitLogger(cfg.Bot.Verbose)
	defer zap.L().Sync()

	if cfg.Bot.Verbose {
		cfg.PrintConfig()
	}

	sys := NewSystem(cfg)
	registry := commands.NewDefaultRegistry()

	session, err := NewSession(cfg, sys, registry)
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			zap.S().Infow("Serving metrics", "addr", cfg.Metrics.Addr)
			if err := sys.Metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				zap.S().Errorw("Metrics server failed", "error", err)
			}
		}()
	}

	return Reconnect(ctx, cfg.Bot.Platform, cfg.Connection, sys.Metrics, session)
}

// NewSession picks the connection for the configured platform
func NewSession(cfg *config.Configuration, sys core.System, dispatcher core.Dispatcher) (core.SessionFunc, error) {
	switch cfg.Bot.Platform {
	case config.PlatformDiscord:
		return discord.Session(cfg, sys, dispatcher), nil
	case config.PlatformIRC:
		return irc.Session(cfg, sys, dispatcher), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownPlatform, cfg.Bot.Platform)
	}
}

var errUnknownPlatform = errors.New("unknown platform")
