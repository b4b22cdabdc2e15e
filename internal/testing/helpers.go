package testing

import (
	"path/filepath"
	"time"

	"pkdindustries/helpbot/internal/config"
	"pkdindustries/helpbot/internal/core"
	"pkdindustries/helpbot/internal/metrics"
	"pkdindustries/helpbot/internal/store"
)

// DefaultTestConfig returns a minimal configuration for testing
func DefaultTestConfig() *config.Configuration {
	return &config.Configuration{
		Bot: &config.BotConfig{
			Platform:  config.PlatformDiscord,
			Prefix:    ".",
			StorePath: "db.json",
			Verbose:   false,
			Timeout:   time.Second * 30,
		},
		Discord: &config.DiscordConfig{
			Token: "test-token",
		},
		Server: &config.ServerConfig{
			Nick:     "testbot",
			Server:   "irc.test.local",
			Port:     6667,
			Channel:  "#test",
			ChunkMax: 350,
		},
		Connection: &config.ConnectionConfig{
			MaxReconnects:    3,
			ReconnectBackoff: time.Millisecond,
		},
		Metrics: &config.MetricsConfig{},
	}
}

// NewTestSystem returns a system backed by a fresh store file in dir.
func NewTestSystem(dir string) *core.SystemImpl {
	m := metrics.New()
	st := store.New(filepath.Join(dir, "db.json"), nil, m)
	if err := st.Load(); err != nil {
		panic(err)
	}
	return &core.SystemImpl{Store: st, Metrics: m}
}
