package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"pkdindustries/helpbot/internal/config"
	"pkdindustries/helpbot/internal/core"
)

// ErrDisconnected is returned when the gateway drops a session we did not ask to stop
var ErrDisconnected = errors.New("discord: disconnected")

const intents = discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// Session returns a core.SessionFunc that runs one gateway connection and
// feeds every MessageCreate to dispatcher. discordgo's own reconnect is
// disabled; the caller owns retries.
func Session(cfg *config.Configuration, sys core.System, dispatcher core.Dispatcher) core.SessionFunc {
	return func(ctx context.Context, onReady func()) error {
		dg, err := newSession(cfg)
		if err != nil {
			return err
		}

		disconnected := make(chan struct{}, 1)

		dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
			zap.S().Infow("Discord session ready", "user", r.User.Username, "guilds", len(r.Guilds))
			onReady()
		})

		dg.AddHandler(func(s *discordgo.Session, d *discordgo.Disconnect) {
			select {
			case disconnected <- struct{}{}:
			default:
			}
		})

		dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
			if m.Author == nil {
				return
			}
			chatctx, cancel := NewChatContext(ctx, cfg, sys, s, m)
			defer cancel()
			dispatcher.Dispatch(chatctx)
		})

		zap.S().Info("Connecting to discord")
		if err := dg.Open(); err != nil {
			return fmt.Errorf("open discord session: %w", err)
		}
		defer func() {
			if err := dg.Close(); err != nil {
				zap.S().Warnw("Failed to close discord session", "error", err)
			}
		}()

		select {
		case <-ctx.Done():
			zap.S().Info("Discord session closed")
			return nil
		case <-disconnected:
			if ctx.Err() != nil {
				return nil
			}
			return ErrDisconnected
		}
	}
}

// newSession builds a gateway session without discordgo's own reconnect.
// Events run synchronously so messages are dispatched in arrival order.
func newSession(cfg *config.Configuration) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	dg.ShouldReconnectOnError = false
	dg.SyncEvents = true
	dg.Identify.Intents = intents
	return dg, nil
}
