package testing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"pkdindustries/helpbot/internal/config"
	"pkdindustries/helpbot/internal/core"
)

// MockChatContext implements core.ChatContextInterface for testing
type MockChatContext struct {
	context.Context

	// Configurable return values
	Bot          bool
	Author       core.User
	Mentions     []core.User
	Content      string
	CleanContent string
	Channel      string
	Platform     string

	// Recorded calls (for assertions)
	Replies []string

	// Injected dependencies
	cfg    *config.Configuration
	sys    core.System
	logger *zap.SugaredLogger
}

var _ core.ChatContextInterface = (*MockChatContext)(nil)

// NewMockContext creates a new MockChatContext with sensible defaults
func NewMockContext() *MockChatContext {
	return &MockChatContext{
		Context:  context.Background(),
		Author:   core.User{ID: "1000", Name: "testuser"},
		Channel:  "general",
		Platform: "mock",
		Replies:  []string{},
		cfg:      DefaultTestConfig(),
		logger:   zap.NewNop().Sugar(),
	}
}

// Builder methods for fluent test setup

// WithContext sets a custom context (for timeout/cancellation testing)
func (m *MockChatContext) WithContext(ctx context.Context) *MockChatContext {
	m.Context = ctx
	return m
}

// WithText sets both the raw and the clean message text
func (m *MockChatContext) WithText(text string) *MockChatContext {
	m.Content = text
	m.CleanContent = text
	return m
}

// WithRaw overrides the raw text only, for platforms that mark up mentions
func (m *MockChatContext) WithRaw(text string) *MockChatContext {
	m.Content = text
	return m
}

// WithAuthor sets the message author
func (m *MockChatContext) WithAuthor(id, name string) *MockChatContext {
	m.Author = core.User{ID: id, Name: name}
	return m
}

// WithBot marks the author as an automated account
func (m *MockChatContext) WithBot(bot bool) *MockChatContext {
	m.Bot = bot
	return m
}

// WithMentions sets the users mentioned in the message
func (m *MockChatContext) WithMentions(users ...core.User) *MockChatContext {
	m.Mentions = users
	return m
}

// WithConfig sets the configuration
func (m *MockChatContext) WithConfig(cfg *config.Configuration) *MockChatContext {
	m.cfg = cfg
	return m
}

// WithSystem sets the system
func (m *MockChatContext) WithSystem(sys core.System) *MockChatContext {
	m.sys = sys
	return m
}

// WithLogger sets the logger
func (m *MockChatContext) WithLogger(logger *zap.SugaredLogger) *MockChatContext {
	m.logger = logger
	return m
}

// Event methods

func (m *MockChatContext) IsBot() bool {
	return m.Bot
}

func (m *MockChatContext) GetAuthor() core.User {
	return m.Author
}

func (m *MockChatContext) GetMentions() []core.User {
	return m.Mentions
}

func (m *MockChatContext) GetContent() string {
	return m.Content
}

func (m *MockChatContext) GetCleanContent() string {
	return m.CleanContent
}

func (m *MockChatContext) GetArgs() []string {
	return strings.Fields(m.CleanContent)
}

func (m *MockChatContext) GetChannel() string {
	return m.Channel
}

func (m *MockChatContext) GetPlatform() string {
	return m.Platform
}

// Responder methods

func (m *MockChatContext) Reply(msg string) {
	m.Replies = append(m.Replies, msg)
}

// Runtime methods

func (m *MockChatContext) GetConfig() *config.Configuration {
	return m.cfg
}

func (m *MockChatContext) GetSystem() core.System {
	return m.sys
}

func (m *MockChatContext) GetLogger() *zap.SugaredLogger {
	return m.logger
}

// Assertion helpers

// HasReply checks if any reply contains the given substring
func (m *MockChatContext) HasReply(substring string) bool {
	for _, r := range m.Replies {
		if strings.Contains(r, substring) {
			return true
		}
	}
	return false
}

// LastReply returns the last reply, or empty string if none
func (m *MockChatContext) LastReply() string {
	if len(m.Replies) == 0 {
		return ""
	}
	return m.Replies[len(m.Replies)-1]
}

// ReplyCount returns the number of replies
func (m *MockChatContext) ReplyCount() int {
	return len(m.Replies)
}
