package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"pkdindustries/helpbot/internal/metrics"
)

func newTestStore(t *testing.T) (*Store, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	s := New(filepath.Join(t.TempDir(), "db.json"), nil, m)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s, m
}

func readDocument(t *testing.T, path string) Document {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return doc
}

func writes(m *metrics.Metrics, result string) float64 {
	return testutil.ToFloat64(m.StoreWrites.WithLabelValues(result))
}

func TestLoad_MissingFileCreatesEmptyDocument(t *testing.T) {
	s, m := newTestStore(t)

	got := readDocument(t, s.Path())
	if diff := cmp.Diff(emptyDocument(), got); diff != "" {
		t.Errorf("persisted document mismatch (-want +got):\n%s", diff)
	}
	if writes(m, "ok") != 1 {
		t.Errorf("expected exactly one write on first load, got %v", writes(m, "ok"))
	}
}

func TestLoad_MalformedFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(path, nil, nil)
	if err := s.Load(); err == nil {
		t.Fatal("expected decode error")
	}

	if diff := cmp.Diff(emptyDocument(), s.Snapshot()); diff != "" {
		t.Errorf("in-memory document should stay empty (-want +got):\n%s", diff)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Error("a malformed store file must not be overwritten on load")
	}
}

func TestLoad_NormalizesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	raw := `{"admins":["1","1","2"],"helpCommands":{" Ping ":"  pong  "}}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(path, nil, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Document{
		Admins:       []string{"1", "2"},
		HelpCommands: map[string]string{"ping": "pong"},
	}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_NullFieldsBecomeEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(path, nil, nil)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.AddTopic("ping", "pong") != true {
		t.Error("adding a topic to a store loaded from {} should work")
	}
}

func TestBootstrap_OnlyFirstAdmin(t *testing.T) {
	s, _ := newTestStore(t)

	if !s.Bootstrap("alice") {
		t.Fatal("first bootstrap should succeed")
	}
	if s.Bootstrap("bob") {
		t.Error("second bootstrap should be refused")
	}
	if diff := cmp.Diff([]string{"alice"}, s.Admins()); diff != "" {
		t.Errorf("admins mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"alice"}, readDocument(t, s.Path()).Admins); diff != "" {
		t.Errorf("persisted admins mismatch (-want +got):\n%s", diff)
	}
}

func TestAddAdmins_SkipsDuplicatesAndPersistsOnce(t *testing.T) {
	s, m := newTestStore(t)
	s.Bootstrap("alice")
	before := writes(m, "ok")

	added := s.AddAdmins("bob", "alice", "carol", "bob")

	if diff := cmp.Diff([]string{"bob", "carol"}, added); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"alice", "bob", "carol"}, s.Admins()); diff != "" {
		t.Errorf("admins mismatch (-want +got):\n%s", diff)
	}
	if got := writes(m, "ok") - before; got != 1 {
		t.Errorf("expected one write for the batch, got %v", got)
	}
}

func TestAddAdmins_NothingNewDoesNotPersist(t *testing.T) {
	s, m := newTestStore(t)
	s.Bootstrap("alice")
	before := writes(m, "ok")

	if added := s.AddAdmins("alice"); len(added) != 0 {
		t.Errorf("expected nothing added, got %v", added)
	}
	if writes(m, "ok") != before {
		t.Error("a no-op add must not rewrite the store")
	}
}

func TestRemoveAdmins(t *testing.T) {
	s, m := newTestStore(t)
	s.Bootstrap("alice")
	s.AddAdmins("bob", "carol")
	before := writes(m, "ok")

	removed := s.RemoveAdmins("bob", "dave", "carol")

	if diff := cmp.Diff([]string{"bob", "carol"}, removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"alice"}, s.Admins()); diff != "" {
		t.Errorf("admins mismatch (-want +got):\n%s", diff)
	}
	if got := writes(m, "ok") - before; got != 1 {
		t.Errorf("expected one write for the batch, got %v", got)
	}
}

func TestTopics_CaseInsensitive(t *testing.T) {
	s, _ := newTestStore(t)

	if !s.AddTopic("Foo", "  bar  ") {
		t.Fatal("AddTopic should succeed")
	}

	for _, name := range []string{"Foo", "foo", "FOO "} {
		got, ok := s.Topic(name)
		if !ok || got != "bar" {
			t.Errorf("Topic(%q) = %q, %v; want %q, true", name, got, ok, "bar")
		}
	}
}

func TestTopics_Lifecycle(t *testing.T) {
	s, _ := newTestStore(t)

	if s.UpdateTopic("ping", "pong") {
		t.Error("update of a missing topic should be refused")
	}
	if s.AddTopic("ping", "   ") {
		t.Error("add with an empty response should be refused")
	}
	if !s.AddTopic("ping", "pong") {
		t.Fatal("add should succeed")
	}
	if s.AddTopic("ping", "other") {
		t.Error("add of an existing topic should be refused")
	}
	if !s.UpdateTopic("PING", "pong2") {
		t.Error("update of an existing topic should succeed")
	}
	if got, _ := s.Topic("ping"); got != "pong2" {
		t.Errorf("Topic(ping) = %q, want pong2", got)
	}
	if !s.RemoveTopic("ping") {
		t.Error("remove of an existing topic should succeed")
	}
	if s.RemoveTopic("ping") {
		t.Error("second remove should be refused")
	}
	if _, ok := s.Topic("ping"); ok {
		t.Error("topic should be gone")
	}
}

func TestTopics_Sorted(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTopic("zeta", "z")
	s.AddTopic("alpha", "a")
	s.AddTopic("mid", "m")

	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, s.Topics()); diff != "" {
		t.Errorf("topics mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistence_ReloadReproducesState(t *testing.T) {
	s, _ := newTestStore(t)
	s.Bootstrap("alice")
	s.AddAdmins("bob")
	s.AddTopic("ping", "pong")
	s.AddTopic("docs", "see <https://example.com>")
	s.RemoveAdmins("bob")
	s.UpdateTopic("ping", "PONG")

	reloaded := New(s.Path(), nil, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(s.Snapshot(), reloaded.Snapshot()); diff != "" {
		t.Errorf("reloaded document mismatch (-want +got):\n%s", diff)
	}
}

func TestPersist_FailureIsLoggedNotFatal(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	m := metrics.New()
	// parent "directory" is a regular file, so every write fails
	s := New(filepath.Join(blocker, "db.json"), nil, m)

	if !s.AddTopic("ping", "pong") {
		t.Error("in-memory mutation should still succeed")
	}
	if got, ok := s.Topic("ping"); !ok || got != "pong" {
		t.Error("topic should be readable after a failed write")
	}
	if writes(m, "error") != 1 {
		t.Errorf("expected one failed write, got %v", writes(m, "error"))
	}
	if err := s.Persist(); err == nil {
		t.Error("Persist should report the failure")
	}
}

func TestPersist_KeepsFileMode(t *testing.T) {
	tests := []struct {
		name     string
		existing os.FileMode
		want     os.FileMode
	}{
		{"new file", 0, 0o644},
		{"world readable", 0o644, 0o644},
		{"owner only", 0o600, 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "db.json")
			if tt.existing != 0 {
				if err := os.WriteFile(path, []byte(`{}`), tt.existing); err != nil {
					t.Fatal(err)
				}
				// WriteFile is subject to umask
				if err := os.Chmod(path, tt.existing); err != nil {
					t.Fatal(err)
				}
			}

			s := New(path, nil, nil)
			if err := s.Load(); err != nil {
				t.Fatalf("Load: %v", err)
			}
			s.AddTopic("ping", "pong")

			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if got := info.Mode().Perm(); got != tt.want {
				t.Errorf("mode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConcurrentMutationsAreNotLost(t *testing.T) {
	s, _ := newTestStore(t)
	s.Bootstrap("root")

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddAdmins(fmt.Sprintf("user-%d", i))
			s.AddTopic(fmt.Sprintf("topic-%d", i), "text")
		}()
	}
	wg.Wait()

	reloaded := New(s.Path(), nil, nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	doc := reloaded.Snapshot()
	if len(doc.Admins) != 21 {
		t.Errorf("expected 21 admins on disk, got %d", len(doc.Admins))
	}
	if len(doc.HelpCommands) != 20 {
		t.Errorf("expected 20 topics on disk, got %d", len(doc.HelpCommands))
	}
}
