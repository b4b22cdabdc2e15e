package commands

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookupHandler_KnownTopic(t *testing.T) {
	ctx := newContext(t, ".ping")
	ctx.GetSystem().GetStore().AddTopic("ping", "pong")

	if !(&LookupHandler{}).Handle(ctx, "ping") {
		t.Fatal("lookup always handles")
	}
	if ctx.LastReply() != "pong" {
		t.Errorf("reply = %q, want pong", ctx.LastReply())
	}
}

func TestLookupHandler_UnknownTopic(t *testing.T) {
	ctx := newContext(t, ".nothing")
	before := ctx.GetSystem().GetStore().Snapshot()

	if !(&LookupHandler{}).Handle(ctx, "nothing") {
		t.Fatal("lookup always handles")
	}
	if ctx.LastReply() != "Unknown help topic 'nothing'" {
		t.Errorf("unexpected reply %q", ctx.LastReply())
	}
	if diff := cmp.Diff(before, ctx.GetSystem().GetStore().Snapshot()); diff != "" {
		t.Errorf("lookup must not mutate the store (-before +after):\n%s", diff)
	}
}

func TestLookupHandler_HelpListsTopics(t *testing.T) {
	ctx := newContext(t, ".help")
	st := ctx.GetSystem().GetStore()
	st.AddTopic("rules", "be nice")
	st.AddTopic("faq", "read the docs")

	(&LookupHandler{}).Handle(ctx, "help")

	want := "List of help commands: `.faq` `.rules` "
	if ctx.LastReply() != want {
		t.Errorf("reply = %q, want %q", ctx.LastReply(), want)
	}
}

func TestLookupHandler_HelpWithNoTopics(t *testing.T) {
	ctx := newContext(t, ".help")

	(&LookupHandler{}).Handle(ctx, "help")

	if ctx.LastReply() != "List of help commands: " {
		t.Errorf("unexpected reply %q", ctx.LastReply())
	}
}
