package commands

import (
	"strings"
	"time"

	"pkdindustries/helpbot/internal/core"
)

// Handler is one group of commands. Handle reports whether the message was
// consumed; false lets the registry try the next handler. Consumed does not
// imply that anything changed.
type Handler interface {
	Name() string
	Handle(ctx core.ChatContextInterface, command string) bool
}

// Registry routes messages through its handlers in registration order and
// hands anything left over to the default handler.
type Registry struct {
	handlers       []Handler
	defaultHandler Handler
	lock           *core.RequestLock
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{lock: core.NewRequestLock()}
}

// NewDefaultRegistry wires the admin, help-editing and lookup handlers in
// their fixed priority order.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&AdminHandler{})
	r.Register(&HelpHandler{})
	r.RegisterDefault(&LookupHandler{})
	return r
}

// Register appends a handler; earlier handlers take priority
func (r *Registry) Register(h Handler) {
	r.handlers = append(r.handlers, h)
}

// RegisterDefault sets the handler used when no other handler consumes a message
func (r *Registry) RegisterDefault(h Handler) {
	r.defaultHandler = h
}

// ParseCommand extracts the command token from a message. It returns false
// when the text does not start with prefix or the token is empty.
func ParseCommand(text, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return "", false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	command := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(fields[0], prefix)))
	return command, command != ""
}

// Dispatch routes one message. Messages are processed one at a time per
// registry so that a handler's check-then-mutate sequence against
// the store cannot interleave with another message.
// Returns true if a handler consumed the message.
func (r *Registry) Dispatch(ctx core.ChatContextInterface) bool {
	metrics := ctx.GetSystem().GetMetrics()

	if ctx.IsBot() {
		metrics.Dispatched("ignored")
		return false
	}
	command, ok := ParseCommand(ctx.GetCleanContent(), ctx.GetConfig().Bot.Prefix)
	if !ok {
		metrics.Dispatched("ignored")
		return false
	}

	handled := false
	r.lock.Do(ctx, command, func() {
		defer core.LogDuration(ctx.GetLogger(), command, time.Now())
		ctx.GetLogger().Infof(">> %s", ctx.GetCleanContent())

		for _, h := range r.handlers {
			if r.try(ctx, h, command) {
				metrics.Dispatched(h.Name())
				handled = true
				return
			}
		}
		if r.defaultHandler != nil && r.try(ctx, r.defaultHandler, command) {
			metrics.Dispatched(r.defaultHandler.Name())
			handled = true
		}
	}, func() {
		ctx.GetLogger().Warnw("Dropped message waiting for previous command", "command", command)
	})
	return handled
}

// try runs a handler and turns a panic into "not handled".
func (r *Registry) try(ctx core.ChatContextInterface, h Handler, command string) (handled bool) {
	defer func() {
		if rec := recover(); rec != nil {
			ctx.GetLogger().Errorw("Command handler failed",
				"handler", h.Name(),
				"command", command,
				"panic", rec,
			)
			handled = false
		}
	}()
	return h.Handle(ctx, command)
}

// Handlers returns the prioritized handlers (excluding default)
func (r *Registry) Handlers() []Handler {
	return append([]Handler(nil), r.handlers...)
}
