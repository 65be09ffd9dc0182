// Package indexer maintains the directory listing snapshot the catalog
// builder consumes. It walks the configured media roots once at startup
// and keeps watching them for changes.
package indexer

import (
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sourcegraph/conc"
)

// ErrNoRoots reports that the service was constructed without any media
// root directories.
var ErrNoRoots = errors.New("indexer: no root directories configured")

// Collection maps a directory path to the sorted names of its child
// files. Directory entries and dotfiles are never listed.
type Collection map[string][]string

// Service scans and watches a fixed set of media root directories.
type Service struct {
	roots []string

	mu         sync.RWMutex
	collection Collection

	watcher   *fsnotify.Watcher
	wg        conc.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
}

// NewService creates an indexer over the given root directories. Empty
// root paths are ignored.
func NewService(roots ...string) (*Service, error) {
	kept := make([]string, 0, len(roots))
	for _, r := range roots {
		if strings.TrimSpace(r) != "" {
			kept = append(kept, filepath.Clean(r))
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoRoots
	}

	return &Service{
		roots:      kept,
		collection: make(Collection),
		done:       make(chan struct{}),
	}, nil
}

// Scan rebuilds the whole collection from disk. Roots that do not exist
// are logged and skipped.
func (s *Service) Scan() error {
	fresh := make(Collection)

	for _, root := range s.roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if isHidden(d.Name()) && path != root {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				files, err := listFiles(path)
				if err != nil {
					return err
				}
				fresh[path] = files
			}
			return nil
		})
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[indexer] root %s does not exist, skipping", root)
			continue
		}
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.collection = fresh
	s.mu.Unlock()

	log.Printf("[indexer] initial scan complete: %d directories", len(fresh))
	return nil
}

// Watch starts the background watcher over every known directory.
// Events refresh the affected directory's listing; catalog regeneration
// stays a full rebuild triggered separately.
func (s *Service) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = w

	s.mu.RLock()
	for dir := range s.collection {
		if err := w.Add(dir); err != nil {
			slog.Warn("watch directory failed", "dir", dir, "error", err)
		}
	}
	s.mu.RUnlock()

	s.wg.Go(s.watchLoop)
	return nil
}

func (s *Service) watchLoop() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func (s *Service) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if isHidden(name) {
		return
	}

	slog.Info("library change observed",
		"op", event.Op.String(),
		"path", event.Name,
	)

	dir := filepath.Dir(event.Name)
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Op.Has(fsnotify.Create) {
			if err := s.watcher.Add(event.Name); err != nil {
				slog.Warn("watch new directory failed", "dir", event.Name, "error", err)
			}
		}
		dir = event.Name
	}

	s.refreshDir(dir)
}

// refreshDir re-lists a single directory, removing it from the collection
// when it no longer exists.
func (s *Service) refreshDir(dir string) {
	files, err := listFiles(dir)

	s.mu.Lock()
	defer s.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		delete(s.collection, dir)
		return
	}
	if err != nil {
		slog.Warn("refresh directory failed", "dir", dir, "error", err)
		return
	}
	s.collection[dir] = files
}

// Snapshot returns a deep copy of the current directory listing. Callers
// own the returned value; it never changes under them.
func (s *Service) Snapshot() Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(Collection, len(s.collection))
	for dir, files := range s.collection {
		copied := make([]string, len(files))
		copy(copied, files)
		snap[dir] = copied
	}
	return snap
}

// Close stops the watcher and waits for the event loop to exit.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
		s.wg.Wait()
	})
	return err
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
