package commands

import (
	"fmt"
	"strings"

	"pkdindustries/helpbot/internal/core"
)

// AdminHandler manages the admin set: adminhelp, newadmin/addadmin and
// removeadmin/deleteadmin.
type AdminHandler struct{}

func (c *AdminHandler) Name() string { return "admin" }

func (c *AdminHandler) Handle(ctx core.ChatContextInterface, command string) bool {
	switch command {
	case "adminhelp":
		ctx.Reply(adminHelpText(ctx.GetConfig().Bot.Prefix))
		return true
	case "newadmin", "addadmin":
		c.addAdmins(ctx)
		return true
	case "removeadmin", "deleteadmin":
		c.removeAdmins(ctx)
		return true
	}
	return false
}

func (c *AdminHandler) addAdmins(ctx core.ChatContextInterface) {
	st := ctx.GetSystem().GetStore()
	author := ctx.GetAuthor()

	if st.Bootstrap(author.ID) {
		ctx.GetLogger().Infow("Bootstrapped first admin", "admin", author.ID)
		ctx.Reply(fmt.Sprintf("Added %s as first admin", author.Name))
		return
	}
	if !st.IsAdmin(author.ID) {
		ctx.GetLogger().Debug("Ignoring addadmin from non-admin")
		return
	}

	mentions := ctx.GetMentions()
	added := st.AddAdmins(userIDs(mentions)...)
	for _, user := range usersByID(mentions, added) {
		ctx.Reply(fmt.Sprintf("Added %s as admin", user.Name))
	}
	ctx.GetLogger().With("added", added).Debug("Admin list updated")
}

func (c *AdminHandler) removeAdmins(ctx core.ChatContextInterface) {
	st := ctx.GetSystem().GetStore()
	if !st.IsAdmin(ctx.GetAuthor().ID) {
		ctx.GetLogger().Debug("Ignoring removeadmin from non-admin")
		return
	}

	mentions := ctx.GetMentions()
	removed := st.RemoveAdmins(userIDs(mentions)...)
	for _, user := range usersByID(mentions, removed) {
		ctx.Reply(fmt.Sprintf("Removed %s as admin", user.Name))
	}
	ctx.GetLogger().With("removed", removed).Debug("Admin list updated")
}

func userIDs(users []core.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

// usersByID returns the first user for each id, in ids order.
func usersByID(users []core.User, ids []string) []core.User {
	out := make([]core.User, 0, len(ids))
	for _, id := range ids {
		for _, u := range users {
			if u.ID == id {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

type catalogEntry struct {
	usage       string
	description string
}

func adminCatalog(prefix string) []catalogEntry {
	return []catalogEntry{
		{"newadmin <user>", "Add a new admin. If no admin exists the person invoking this command will become the first admin. If admins do already exist then only they can add new admins."},
		{"removeadmin <user>", "Remove admin <user>."},
		{"newhelp <command> <response>", "Add a new command that will return the `<response>` when `" + prefix + "<command>` is called"},
		{"updatehelp <command> <response>", "Update existing `<command>` with new `<response>`"},
		{"removehelp <command>", "Delete existing `<command>`"},
	}
}

func adminHelpText(prefix string) string {
	var sb strings.Builder
	for _, entry := range adminCatalog(prefix) {
		fmt.Fprintf(&sb, "**%s:** %s\n", entry.usage, entry.description)
	}
	return sb.String()
}
