package lexicon

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tailorkit/internal/errors"
)

// Store holds the current lexicon and hands out immutable snapshots. A
// reload swaps the pointer; an in-flight analysis keeps the snapshot it
// started with, so hot reloads are never observable mid-request.
type Store struct {
	mu      sync.RWMutex
	current *Lexicon
	path    string // empty when running on compiled-in defaults

	// watcher state
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer
	stopChan      chan struct{}
	running       bool

	logger *errors.Logger
}

// NewStore creates a store over the compiled-in defaults
func NewStore(logger *errors.Logger) *Store {
	return &Store{
		current:       Default(),
		debounceDelay: time.Second,
		stopChan:      make(chan struct{}),
		logger:        logger,
	}
}

// NewStoreFromFile creates a store backed by an external lexicon file
func NewStoreFromFile(path string, logger *errors.Logger) (*Store, error) {
	lex, err := LoadFile(path)
	if err != nil {
		return nil, errors.NewLexiconError(errors.ErrCodeLexiconLoadFailed,
			"failed to load lexicon tables", err).WithContext("path", path)
	}
	s := &Store{
		current:       lex,
		path:          path,
		debounceDelay: time.Second,
		stopChan:      make(chan struct{}),
		logger:        logger,
	}
	return s, nil
}

// Snapshot returns the current lexicon. The returned value is immutable;
// callers keep using it for the duration of one analysis.
func (s *Store) Snapshot() *Lexicon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Version returns the version of the current tables
func (s *Store) Version() string {
	return s.Snapshot().Version
}

// Reload re-reads the backing file and swaps the tables in. A failed reload
// keeps the previous tables; serving a stale lexicon beats serving none.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	lex, err := LoadFile(s.path)
	if err != nil {
		if s.logger != nil {
			s.logger.LogError(err, "Lexicon reload failed, keeping previous tables",
				"path", s.path)
		}
		return errors.NewLexiconError(errors.ErrCodeLexiconLoadFailed,
			"failed to reload lexicon tables", err).WithContext("path", s.path)
	}

	s.mu.Lock()
	old := s.current.Version
	s.current = lex
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("Lexicon tables reloaded",
			"path", s.path,
			"old_version", old,
			"new_version", lex.Version)
	}
	return nil
}

// Watch starts watching the backing file for changes and reloads on write,
// debounced so editors that write in bursts trigger one reload. A store on
// compiled-in defaults has nothing to watch.
func (s *Store) Watch() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("lexicon watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create lexicon watcher: %w", err)
	}
	if err := watcher.Add(s.path); err != nil {
		if closeErr := watcher.Close(); closeErr != nil && s.logger != nil {
			s.logger.LogError(closeErr, "Failed to close lexicon watcher during cleanup")
		}
		return fmt.Errorf("failed to watch lexicon file %s: %w", s.path, err)
	}

	s.fsWatcher = watcher
	s.running = true
	go s.watchLoop()

	if s.logger != nil {
		s.logger.Info("Lexicon file watcher started", "path", s.path)
	}
	return nil
}

func (s *Store) watchLoop() {
	for {
		select {
		case event, ok := <-s.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.scheduleReload()
			}
		case err, ok := <-s.fsWatcher.Errors:
			if !ok {
				return
			}
			if s.logger != nil {
				s.logger.LogError(err, "Lexicon watcher error")
			}
		case <-s.stopChan:
			return
		}
	}
}

// scheduleReload debounces rapid successive file events into one reload
func (s *Store) scheduleReload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounceDelay, func() {
		_ = s.Reload() // already logged inside
	})
}

// Close stops the watcher goroutine if one is running
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopChan)
	if s.fsWatcher != nil {
		if err := s.fsWatcher.Close(); err != nil && s.logger != nil {
			s.logger.LogError(err, "Failed to close lexicon watcher")
		}
	}
	s.running = false
}
