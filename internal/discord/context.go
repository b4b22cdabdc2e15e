package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pkdindustries/helpbot/internal/config"
	"pkdindustries/helpbot/internal/core"
)

// MaxMessageLength is the longest message discord accepts
const MaxMessageLength = 2000

// messageSender is the part of *discordgo.Session used to answer a message
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type ChatContext struct {
	context.Context
	Sys    core.System
	Config *config.Configuration
	sender messageSender
	msg    *discordgo.Message
	clean  string
	args   []string
	logger *zap.SugaredLogger
}

var _ core.ChatContextInterface = (*ChatContext)(nil)

func NewChatContext(parentctx context.Context, cfg *config.Configuration, system core.System, s *discordgo.Session, m *discordgo.MessageCreate) (core.ChatContextInterface, context.CancelFunc) {
	return newChatContext(parentctx, cfg, system, s, m.Message, cleanContent(s, m.Message))
}

func newChatContext(parentctx context.Context, cfg *config.Configuration, system core.System, sender messageSender, m *discordgo.Message, clean string) (*ChatContext, context.CancelFunc) {
	timedctx, cancel := context.WithTimeout(parentctx, cfg.Bot.Timeout)

	ctx := &ChatContext{
		Context: timedctx,
		Config:  cfg,
		Sys:     system,
		sender:  sender,
		msg:     m,
		clean:   clean,
		args:    strings.Fields(clean),
	}
	ctx.logger = core.WithChatContext(zap.S(), uuid.NewString(), config.PlatformDiscord, m.ChannelID, ctx.GetAuthor())
	return ctx, cancel
}

// cleanContent renders mentions as readable names, falling back to the
// state-free replacement when the channel is not cached.
func cleanContent(s *discordgo.Session, m *discordgo.Message) string {
	if content, err := m.ContentWithMoreMentionsReplaced(s); err == nil {
		return content
	}
	return m.ContentWithMentionsReplaced()
}

// displayName prefers the guild nickname, then the global display name.
func displayName(u *discordgo.User, member *discordgo.Member) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
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
	return c.msg.Author != nil && c.msg.Author.Bot
}

func (c *ChatContext) GetAuthor() core.User {
	if c.msg.Author == nil {
		return core.User{}
	}
	return core.User{ID: c.msg.Author.ID, Name: displayName(c.msg.Author, c.msg.Member)}
}

func (c *ChatContext) GetMentions() []core.User {
	var users []core.User
	for _, u := range c.msg.Mentions {
		if u == nil {
			continue
		}
		users = append(users, core.User{ID: u.ID, Name: displayName(u, nil)})
	}
	return users
}

func (c *ChatContext) GetContent() string {
	return c.msg.Content
}

func (c *ChatContext) GetCleanContent() string {
	return c.clean
}

func (c *ChatContext) GetArgs() []string {
	return c.args
}

func (c *ChatContext) GetChannel() string {
	return c.msg.ChannelID
}

func (c *ChatContext) GetPlatform() string {
	return config.PlatformDiscord
}

func (c *ChatContext) Reply(message string) {
	for _, chunk := range core.SplitMessage(message, MaxMessageLength) {
		if _, err := c.sender.ChannelMessageSend(c.msg.ChannelID, chunk); err != nil {
			c.logger.Warnw("Failed to send message", "error", err)
			return
		}
	}
}
