package irc

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"pkdindustries/helpbot/internal/core"
)

func TestResolveMentions(t *testing.T) {
	known := map[string]core.User{
		"bob":   {ID: "bob!b@host", Name: "bob"},
		"carol": {ID: "carol!c@host", Name: "carol"},
	}
	lookup := func(nick string) (core.User, bool) {
		u, ok := known[nick]
		return u, ok
	}

	got := ResolveMentions([]string{".newadmin", "bob:", "stranger", "@carol"}, lookup)
	want := []core.User{known["bob"], known["carol"]}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveMentions mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveMentions_NoArgs(t *testing.T) {
	called := false
	lookup := func(string) (core.User, bool) {
		called = true
		return core.User{}, false
	}

	if got := ResolveMentions([]string{".removeadmin"}, lookup); got != nil {
		t.Errorf("expected no mentions, got %v", got)
	}
	if called {
		t.Error("lookup should not run without candidate nicks")
	}
}
