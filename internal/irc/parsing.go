package irc

import (
	"strings"

	"pkdindustries/helpbot/internal/core"
)

// MentionCandidates returns the nicks a message may be mentioning: every
// token after the command, with a leading '@' and trailing ':' or ','
// removed. Duplicates are dropped, first occurrence wins.
func MentionCandidates(args []string) []string {
	if len(args) < 2 {
		return nil
	}
	var nicks []string
	seen := make(map[string]bool)
	for _, arg := range args[1:] {
		nick := strings.TrimRight(strings.TrimPrefix(arg, "@"), ":,")
		key := strings.ToLower(nick)
		if nick == "" || seen[key] {
			continue
		}
		seen[key] = true
		nicks = append(nicks, nick)
	}
	return nicks
}

// Hostmask formats the identity stored in the admin set for an IRC user.
func Hostmask(nick, ident, host string) string {
	return nick + "!" + ident + "@" + host
}

// CheckPrivate returns true if target is not a channel (doesn't start with #).
func CheckPrivate(target string) bool {
	return !strings.HasPrefix(target, "#")
}

// SplitLines breaks a reply into IRC-sized lines. IRC has no multi-line
// messages, so every newline starts a new line.
func SplitLines(text string, maxLen int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, core.SplitMessage(line, maxLen)...)
	}
	return out
}
