package core

import (
	"context"

	"go.uber.org/zap"

	"pkdindustries/helpbot/internal/config"
	"pkdindustries/helpbot/internal/metrics"
	"pkdindustries/helpbot/internal/store"
)

type Event interface {
	IsBot() bool
	GetAuthor() User
	GetMentions() []User
	GetContent() string
	GetCleanContent() string
	GetArgs() []string
	GetChannel() string
	GetPlatform() string
}

type Responder interface {
	Reply(string)
}

type Runtime interface {
	GetConfig() *config.Configuration
	GetSystem() System
	GetLogger() *zap.SugaredLogger
}

// ChatContextInterface provides all context needed for handling one chat message
type ChatContextInterface interface {
	context.Context
	Event
	Responder
	Runtime
}

type System interface {
	GetStore() *store.Store
	GetMetrics() *metrics.Metrics
}

// Dispatcher routes one message to the command handlers
type Dispatcher interface {
	Dispatch(ChatContextInterface) bool
}

// SessionFunc runs one connection to a chat platform until it drops or ctx
// ends. onReady is called once the session can receive messages.
type SessionFunc func(ctx context.Context, onReady func()) error
