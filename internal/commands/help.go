package commands

import (
	"fmt"
	"strings"
	"unicode"

	"pkdindustries/helpbot/internal/core"
	"pkdindustries/helpbot/internal/store"
)

// HelpHandler edits help topics. Only admins may use it; for anyone else a
// recognized command is consumed silently so it never turns into a lookup.
type HelpHandler struct{}

func (c *HelpHandler) Name() string { return "help" }

func (c *HelpHandler) Handle(ctx core.ChatContextInterface, command string) bool {
	var op string
	switch command {
	case "newhelp", "addhelp":
		op = "add"
	case "updatehelp", "edithelp":
		op = "update"
	case "removehelp", "deletehelp":
		op = "remove"
	default:
		return false
	}

	st := ctx.GetSystem().GetStore()
	if !st.IsAdmin(ctx.GetAuthor().ID) {
		ctx.GetLogger().Debugw("Ignoring help edit from non-admin", "command", command)
		return true
	}

	prefix := ctx.GetConfig().Bot.Prefix
	// topic and response are cut from the same raw text so they never disagree
	fields := strings.Fields(ctx.GetContent())
	if len(fields) < 2 {
		ctx.Reply(helpUsage(prefix, command, op))
		return true
	}
	topic := store.NormalizeTopic(fields[1])
	response := strings.TrimSpace(afterFields(ctx.GetContent(), 2))

	switch op {
	case "add":
		if st.AddTopic(topic, response) {
			ctx.Reply(fmt.Sprintf("Added help topic %s%s", prefix, topic))
		}
	case "update":
		if st.UpdateTopic(topic, response) {
			ctx.Reply(fmt.Sprintf("Updated help topic %s%s", prefix, topic))
		}
	case "remove":
		if st.RemoveTopic(topic) {
			ctx.Reply(fmt.Sprintf("Removed help topic %s%s", prefix, topic))
		}
	}
	return true
}

func helpUsage(prefix, command, op string) string {
	if op == "remove" {
		return fmt.Sprintf("Usage: %s%s <topic>", prefix, command)
	}
	return fmt.Sprintf("Usage: %s%s <topic> <response>", prefix, command)
}

// afterFields returns s with its first n whitespace-delimited fields cut off.
// Whatever follows is returned untouched, including newlines and markup.
func afterFields(s string, n int) string {
	rest := s
	for range n {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		idx := strings.IndexFunc(rest, unicode.IsSpace)
		if idx < 0 {
			return ""
		}
		rest = rest[idx:]
	}
	return rest
}
