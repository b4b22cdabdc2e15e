package commands

import (
	"fmt"
	"strings"

	"pkdindustries/helpbot/internal/core"
)

// LookupHandler answers "help" with the topic list and any other command
// with the matching topic. It always consumes the message.
type LookupHandler struct{}

func (c *LookupHandler) Name() string { return "lookup" }

func (c *LookupHandler) Handle(ctx core.ChatContextInterface, command string) bool {
	st := ctx.GetSystem().GetStore()

	if command == "help" {
		prefix := ctx.GetConfig().Bot.Prefix
		var sb strings.Builder
		sb.WriteString("List of help commands: ")
		for _, topic := range st.Topics() {
			fmt.Fprintf(&sb, "`%s%s` ", prefix, topic)
		}
		ctx.Reply(sb.String())
		return true
	}

	if response, ok := st.Topic(command); ok {
		ctx.Reply(response)
		return true
	}

	ctx.Reply(fmt.Sprintf("Unknown help topic '%s'", command))
	return true
}
