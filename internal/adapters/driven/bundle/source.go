package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorSource = (*Source)(nil)

// bundleFile is the on-disk format: one JSON object per file mapping
// document ids to their embedding vectors, with optional provenance.
type bundleFile struct {
	Model   string               `json:"model,omitempty"`
	Vectors map[string][]float32 `json:"vectors"`
}

// Source serves pre-computed embeddings from a directory of JSON
// bundle files. Files are parsed once and memoized; a parse failure in
// one file never blocks the others. A directory watcher flags the memo
// stale so the next lookup reloads.
type Source struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	vectors map[string][]float32
	loaded  bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Config holds configuration for a bundle Source.
type Config struct {
	// Dir is the directory scanned for *.json bundle files
	Dir string

	// Watch enables reload on filesystem events in Dir
	Watch bool

	Logger *slog.Logger
}

// New creates a bundle Source. With cfg.Watch the directory is watched
// and edits invalidate the memoized vectors.
func New(cfg Config) (*Source, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: bundle directory is required", domain.ErrConfiguration)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Source{
		dir:    cfg.Dir,
		logger: logger,
		done:   make(chan struct{}),
	}

	if cfg.Watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create bundle watcher: %w", err)
		}
		if err := watcher.Add(cfg.Dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", cfg.Dir, err)
		}
		s.watcher = watcher
		go s.watch()
	}

	return s, nil
}

// GetVector returns the vector stored for id.
// Returns domain.ErrNotFound when the id is unknown.
func (s *Source) GetVector(_ context.Context, id string) ([]float32, error) {
	s.mu.RLock()
	loaded := s.loaded
	vector, ok := s.vectors[id]
	s.mu.RUnlock()

	if !loaded {
		if err := s.load(); err != nil {
			return nil, err
		}
		s.mu.RLock()
		vector, ok = s.vectors[id]
		s.mu.RUnlock()
	}

	if !ok {
		return nil, domain.ErrNotFound
	}
	return vector, nil
}

// Refresh discards the memoized vectors; the next lookup re-reads the
// bundle directory.
func (s *Source) Refresh(_ context.Context) error {
	s.mu.Lock()
	s.loaded = false
	s.vectors = nil
	s.mu.Unlock()
	return nil
}

// Name identifies the source for logging
func (s *Source) Name() string {
	return "bundle"
}

// Close stops the directory watcher
func (s *Source) Close() error {
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// load reads every *.json file in the bundle directory. Unreadable or
// malformed files are skipped with a warning.
func (s *Source) load() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read bundle directory %s: %w", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	// Deterministic precedence: later files win on duplicate ids.
	sort.Strings(names)

	vectors := make(map[string][]float32)
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		if err := mergeBundle(path, vectors); err != nil {
			s.logger.Warn("skipping bundle file", "path", path, "error", err)
		}
	}

	s.mu.Lock()
	s.vectors = vectors
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("bundle loaded", "dir", s.dir, "files", len(names), "vectors", len(vectors))
	return nil
}

func mergeBundle(path string, into map[string][]float32) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file bundleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("invalid bundle: %w", err)
	}
	if file.Vectors == nil {
		return fmt.Errorf("bundle has no vectors field")
	}

	for id, vector := range file.Vectors {
		if len(vector) == 0 {
			continue
		}
		into[id] = vector
	}
	return nil
}

// watch flags the memo stale on any event under the bundle directory
func (s *Source) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.logger.Debug("bundle changed", "path", event.Name)
				_ = s.Refresh(context.Background())
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("bundle watcher error", "error", err)
		}
	}
}
