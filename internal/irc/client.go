package irc

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/lrstanley/girc"
	"go.uber.org/zap"

	"pkdindustries/helpbot/internal/config"
	"pkdindustries/helpbot/internal/core"
)

// ErrDisconnected is returned when the server ends a session we did not ask to stop
var ErrDisconnected = errors.New("irc: disconnected")

// NewClient builds a girc client from the server configuration
func NewClient(cfg *config.Configuration) *girc.Client {
	client := girc.New(girc.Config{
		Server:    cfg.Server.Server,
		Port:      cfg.Server.Port,
		Nick:      cfg.Server.Nick,
		User:      "helpbot",
		Name:      "helpbot",
		SSL:       cfg.Server.SSL,
		TLSConfig: &tls.Config{
			ServerName:         cfg.Server.Server,
			InsecureSkipVerify: cfg.Server.TLSInsecure,
		},
	})

	if cfg.Server.SASLNick != "" && cfg.Server.SASLPass != "" {
		client.Config.SASL = &girc.SASLPlain{
			User: cfg.Server.SASLNick,
			Pass: cfg.Server.SASLPass,
		}
	}
	return client
}

// Session returns a core.SessionFunc that runs one IRC connection and feeds
// every PRIVMSG to dispatcher.
func Session(cfg *config.Configuration, sys core.System, dispatcher core.Dispatcher) core.SessionFunc {
	return func(ctx context.Context, onReady func()) error {
		client := NewClient(cfg)

		registerHandlers(ctx, client, cfg, sys, dispatcher, onReady)

		stop := context.AfterFunc(ctx, func() {
			client.Quit("Shutting down...")
			zap.S().Info("IRC client closed")
		})
		defer stop()

		zap.S().Infow("Connecting to server",
			"server", client.Config.Server,
			"port", client.Config.Port,
			"tls", client.Config.SSL,
			"sasl", client.Config.SASL != nil,
		)

		err := client.Connect()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("irc connection: %w", err)
		}
		return ErrDisconnected
	}
}

// registerHandlers wires the session's event handlers. PRIVMSG runs in the
// foreground so messages reach the dispatcher in the order they arrived.
func registerHandlers(ctx context.Context, client *girc.Client, cfg *config.Configuration, sys core.System, dispatcher core.Dispatcher, onReady func()) {
	client.Handlers.AddBg(girc.CONNECTED, func(c *girc.Client, e girc.Event) {
		zap.S().Infof("Joining channel: %s", cfg.Server.Channel)
		c.Cmd.Join(cfg.Server.Channel)
		onReady()
	})

	client.Handlers.Add(girc.PRIVMSG, func(c *girc.Client, e girc.Event) {
		chatctx, cancel := NewChatContext(ctx, cfg, sys, c, &e)
		defer cancel()
		dispatcher.Dispatch(chatctx)
	})
}
