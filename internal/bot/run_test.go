package bot

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"pkdindustries/helpbot/internal/commands"
	mocktest "pkdindustries/helpbot/internal/testing"
)

func TestNewSession_SelectsPlatform(t *testing.T) {
	sys := mocktest.NewTestSystem(t.TempDir())
	registry := commands.NewDefaultRegistry()

	for _, platform := range []string{"discord", "irc"} {
		cfg := mocktest.DefaultTestConfig()
		cfg.Bot.Platform = platform
		session, err := NewSession(cfg, sys, registry)
		if err != nil || session == nil {
			t.Errorf("NewSession(%s) = %v, %v", platform, session, err)
		}
	}

	cfg := mocktest.DefaultTestConfig()
	cfg.Bot.Platform = "slack"
	if _, err := NewSession(cfg, sys, registry); !errors.Is(err, errUnknownPlatform) {
		t.Errorf("expected errUnknownPlatform, got %v", err)
	}
}

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestGetBanner_IncludesVersion(t *testing.T) {
	plain := ansi.ReplaceAllString(GetBanner(Version), "")
	if !strings.Contains(plain, "[v"+Version+"]") {
		t.Error("banner should carry the version")
	}
}
