package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"pkdindustries/helpbot/internal/metrics"
)

// Document is the on-disk shape of the store.
type Document struct {
	Admins       []string          `json:"admins"`
	HelpCommands map[string]string `json:"helpCommands"`
}

func emptyDocument() Document {
	return Document{
		Admins:       []string{},
		HelpCommands: map[string]string{},
	}
}

// Store keeps the admin set and the help topics in memory and rewrites the
// backing file after every mutation. Mutate-then-persist runs under one
// mutex so concurrent callers never lose updates or interleave writes.
type Store struct {
	mu      sync.Mutex
	path    string
	doc     Document
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
}

// New returns an empty store bound to path. Call Load to read the file.
func New(path string, logger *zap.SugaredLogger, m *metrics.Metrics) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{
		path:    path,
		doc:     emptyDocument(),
		logger:  logger.With("store", path),
		metrics: m,
	}
}

// NormalizeTopic is the canonical form of a topic name.
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the backing file. A missing file is created from the current
// (empty) document. A read or decode failure is returned and the in-memory
// defaults are left untouched.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("Store file does not exist, creating a new one")
		return s.persistLocked()
	}
	if err != nil {
		return fmt.Errorf("read store %s: %w", s.path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode store %s: %w", s.path, err)
	}
	s.doc = normalize(doc)
	s.logger.Infow("Loaded store", "admins", len(s.doc.Admins), "topics", len(s.doc.HelpCommands))
	return nil
}

// normalize dedupes admins and canonicalizes topics read from disk.
func normalize(doc Document) Document {
	out := emptyDocument()
	for _, id := range doc.Admins {
		if id != "" && !slices.Contains(out.Admins, id) {
			out.Admins = append(out.Admins, id)
		}
	}
	for topic, response := range doc.HelpCommands {
		if key := NormalizeTopic(topic); key != "" {
			out.HelpCommands[key] = strings.TrimSpace(response)
		}
	}
	return out
}

// Persist writes the whole document to the backing file.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() (err error) {
	defer func() { s.metrics.StoreWritten(err) }()

	data, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpName)
		}
	}()

	// CreateTemp uses 0600; keep the mode of the file being replaced
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	renamed = true
	return nil
}

// save persists after a mutation. Failures are logged and never retried.
func (s *Store) save() {
	if err := s.persistLocked(); err != nil {
		s.logger.Errorw("Failed to persist store", "error", err)
	}
}

func (s *Store) IsAdmin(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.doc.Admins, id)
}

func (s *Store) HasAdmins() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.doc.Admins) > 0
}

func (s *Store) Admins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.doc.Admins)
}

// Bootstrap makes id the first admin if, and only if, there are no admins.
func (s *Store) Bootstrap(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.doc.Admins) > 0 || id == "" {
		return false
	}
	s.doc.Admins = append(s.doc.Admins, id)
	s.save()
	return true
}

// AddAdmins adds every id that is not an admin yet and persists once.
// It returns the ids that were added, in argument order.
func (s *Store) AddAdmins(ids ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []string
	for _, id := range ids {
		if id == "" || slices.Contains(s.doc.Admins, id) {
			continue
		}
		s.doc.Admins = append(s.doc.Admins, id)
		added = append(added, id)
	}
	if len(added) > 0 {
		s.save()
	}
	return added
}

// RemoveAdmins removes every id that is an admin and persists once.
// It returns the ids that were removed, in argument order.
func (s *Store) RemoveAdmins(ids ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for _, id := range ids {
		idx := slices.Index(s.doc.Admins, id)
		if idx == -1 {
			continue
		}
		s.doc.Admins = slices.Delete(s.doc.Admins, idx, idx+1)
		removed = append(removed, id)
	}
	if len(removed) > 0 {
		s.save()
	}
	return removed
}

func (s *Store) Topic(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	response, ok := s.doc.HelpCommands[NormalizeTopic(name)]
	return response, ok
}

// Topics returns all topic names, sorted.
func (s *Store) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	topics := make([]string, 0, len(s.doc.HelpCommands))
	for topic := range s.doc.HelpCommands {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// AddTopic inserts a new topic. Existing topics and empty responses are left alone.
func (s *Store) AddTopic(topic, response string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, response = NormalizeTopic(topic), strings.TrimSpace(response)
	if topic == "" || response == "" {
		return false
	}
	if _, exists := s.doc.HelpCommands[topic]; exists {
		return false
	}
	s.doc.HelpCommands[topic] = response
	s.save()
	return true
}

// UpdateTopic overwrites an existing topic. Unknown topics and empty responses are left alone.
func (s *Store) UpdateTopic(topic, response string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, response = NormalizeTopic(topic), strings.TrimSpace(response)
	if response == "" {
		return false
	}
	if _, exists := s.doc.HelpCommands[topic]; !exists {
		return false
	}
	s.doc.HelpCommands[topic] = response
	s.save()
	return true
}

func (s *Store) RemoveTopic(topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic = NormalizeTopic(topic)
	if _, exists := s.doc.HelpCommands[topic]; !exists {
		return false
	}
	delete(s.doc.HelpCommands, topic)
	s.save()
	return true
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := Document{
		Admins:       slices.Clone(s.doc.Admins),
		HelpCommands: make(map[string]string, len(s.doc.HelpCommands)),
	}
	for k, v := range s.doc.HelpCommands {
		doc.HelpCommands[k] = v
	}
	return doc
}
