package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"agentmarket/src/core/catalog"
	"agentmarket/src/core/logger"
)

// manifestDebounceDelay coalesces bursts of filesystem events for the
// same manifest (editors typically emit several writes per save).
const manifestDebounceDelay = 500 * time.Millisecond

// LoadManifestDir validates and registers every listing manifest found in
// dir. A malformed manifest is logged and skipped; only a missing or
// unreadable directory is an error. This is also the restore path for
// snapshots taken by an external persistence layer: re-registering every
// listing rebuilds the catalog.
func (s *Server) LoadManifestDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read manifest directory %s: %w", dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !isManifest(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		listing, err := decodeManifest(path)
		if err != nil {
			s.log.Warning("Skipping manifest %s: %v", path, err)
			continue
		}
		s.RegisterListing(listing)
		loaded++
	}

	s.log.Info("Loaded %d listing manifest(s) from %s", loaded, dir)
	return nil
}

// decodeManifest parses a JSON or YAML listing manifest and runs it
// through listing construction, so a manifest gets exactly the same
// validation and defaulting as a published payload.
func decodeManifest(path string) (catalog.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Listing{}, err
	}

	var in catalog.Listing
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &in); err != nil {
			return catalog.Listing{}, fmt.Errorf("invalid JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &in); err != nil {
			return catalog.Listing{}, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return catalog.Listing{}, fmt.Errorf("unsupported manifest extension %q", filepath.Ext(path))
	}

	return catalog.NewListing(in)
}

func isManifest(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// ManifestWatcher re-registers listing manifests as they appear or change
// in a directory.
type ManifestWatcher struct {
	dir      string
	server   *Server
	log      *logger.Logger
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// NewManifestWatcher creates a watcher for dir feeding the given server.
func NewManifestWatcher(dir string, srv *Server, log *logger.Logger) *ManifestWatcher {
	return &ManifestWatcher{
		dir:      dir,
		server:   srv,
		log:      log,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start begins watching. It returns once the watch is established; event
// handling runs in a background goroutine until Stop is called.
func (w *ManifestWatcher) Start() error {
	var err error
	w.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create manifest watcher: %w", err)
	}

	if err := w.watcher.Add(w.dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	go w.run()
	w.log.Info("Watching %s for listing manifests", w.dir)
	return nil
}

// Stop terminates the watch loop and waits for it to drain.
func (w *ManifestWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()
		<-w.doneChan
	})
}

func (w *ManifestWatcher) run() {
	defer close(w.doneChan)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isManifest(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(manifestDebounceDelay)
				timerC = timer.C
			} else {
				// Stop and drain before Reset. The timer may have fired
				// between the event arriving and this select picking it up;
				// resetting without the drain leaves that stale tick in the
				// channel and collapses the debounce window.
				if !timer.Stop() {
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(manifestDebounceDelay)
			}

		case <-timerC:
			for path := range pending {
				w.load(path)
			}
			pending = make(map[string]struct{})
			timer = nil
			timerC = nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warning("Manifest watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *ManifestWatcher) load(path string) {
	listing, err := decodeManifest(path)
	if err != nil {
		w.log.Warning("Ignoring manifest %s: %v", path, err)
		return
	}
	w.server.RegisterListing(listing)
	w.log.Info("Registered agent '%s' from manifest %s", listing.AgentID, filepath.Base(path))
}
