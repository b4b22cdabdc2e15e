package irc

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lrstanley/girc"
	"go.uber.org/zap"

	"pkdindustries/helpbot/internal/config"
	"pkdindustries/helpbot/internal/core"
)

type ChatContext struct {
	context.Context
	Sys      core.System
	Config   *config.Configuration
	client   *girc.Client
	event    *girc.Event
	args     []string
	mentions []core.User
	logger   *zap.SugaredLogger
}

var _ core.ChatContextInterface = (*ChatContext)(nil)

func NewChatContext(parentctx context.Context, cfg *config.Configuration, system core.System, ircclient *girc.Client, e *girc.Event) (core.ChatContextInterface, context.CancelFunc) {
	timedctx, cancel := context.WithTimeout(parentctx, cfg.Bot.Timeout)

	if e.Source == nil {
		e.Source = &girc.Source{Name: cfg.Server.Channel}
	}

	ctx := &ChatContext{
		Context: timedctx,
		Config:  cfg,
		Sys:     system,
		client:  ircclient,
		event:   e,
		args:    strings.Fields(e.Last()),
	}
	ctx.mentions = ResolveMentions(ctx.args, ctx.lookupUser)
	ctx.logger = core.WithChatContext(zap.S(), uuid.NewString(), config.PlatformIRC, ctx.GetChannel(), ctx.GetAuthor())
	return ctx, cancel
}

// ResolveMentions turns the nick-like tokens of a message into users the
// client knows about. Unknown nicks are skipped.
func ResolveMentions(args []string, lookup func(nick string) (core.User, bool)) []core.User {
	var users []core.User
	for _, nick := range MentionCandidates(args) {
		if u, ok := lookup(nick); ok {
			users = append(users, u)
		}
	}
	return users
}

func (c *ChatContext) lookupUser(nick string) (core.User, bool) {
	user := c.client.LookupUser(nick)
	if user == nil {
		return core.User{}, false
	}
	return core.User{ID: Hostmask(user.Nick, user.Ident, user.Host), Name: user.Nick}, true
}

func (c *ChatContext) GetSystem() core.System {
	return c.Sys
}

func (c *ChatContext) GetConfig() *config.Configuration {
	return c.Config
}

func (c *ChatContext) GetLogger() *zap.SugaredLogger {
	return c.logger
}

func (c *ChatContext) IsBot() bool {
	return strings.EqualFold(c.event.Source.Name, c.client.GetNick())
}

func (c *ChatContext) GetAuthor() core.User {
	return core.User{ID: c.event.Source.String(), Name: c.event.Source.Name}
}

func (c *ChatContext) GetMentions() []core.User {
	return c.mentions
}

// IRC has no markup, so the raw and the clean text are the same.
func (c *ChatContext) GetContent() string {
	return c.event.Last()
}

func (c *ChatContext) GetCleanContent() string {
	return c.event.Last()
}

func (c *ChatContext) GetArgs() []string {
	return c.args
}

func (c *ChatContext) GetChannel() string {
	if len(c.event.Params) == 0 || CheckPrivate(c.event.Params[0]) {
		return c.event.Source.Name
	}
	return c.event.Params[0]
}

func (c *ChatContext) GetPlatform() string {
	return config.PlatformIRC
}

func (c *ChatContext) Reply(message string) {
	for _, line := range SplitLines(message, c.Config.Server.ChunkMax) {
		c.client.Cmd.Reply(*c.event, line)
	}
}
