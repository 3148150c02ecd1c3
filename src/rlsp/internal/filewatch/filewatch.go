// Package filewatch honors workspace/didChangeWatchedFiles registrations on behalf of
// sessions whose file watching is delegated to the daemon.
package filewatch

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/uuid"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// EventSink receives the change notifications produced for one registration.
type EventSink func(ctx context.Context, params *protocol.DidChangeWatchedFilesParams)

// Watcher tracks server issued watcher registrations and reports matching
// filesystem changes to the registration's sink.
type Watcher interface {
	Register(ctx context.Context, id uuid.UUID, registrationID string, dir string, watchers []protocol.FileSystemWatcher, sink EventSink) error
	Unregister(ctx context.Context, id uuid.UUID, registrationID string) error
	// EndSession removes all registrations belonging to a session.
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Params define values to be used by the Watcher.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
}

type registration struct {
	dir      string
	watchers []protocol.FileSystemWatcher
	sink     EventSink
}

type watcher struct {
	fsWatcher     *fsnotify.Watcher
	logger        *zap.SugaredLogger
	registrations map[uuid.UUID]map[string]*registration
	mu            sync.Mutex
	closeCh       chan struct{}
	wg            sync.WaitGroup
}

// New creates a Watcher and begins handling filesystem events.
func New(p Params) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &watcher{
		fsWatcher:     fsw,
		logger:        p.Logger.With("module", "filewatch"),
		registrations: make(map[uuid.UUID]map[string]*registration),
		closeCh:       make(chan struct{}),
	}

	w.wg.Add(1)
	go w.run()

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			close(w.closeCh)
			err := w.fsWatcher.Close()
			w.wg.Wait()
			return err
		},
	})

	return w, nil
}

func (w *watcher) Register(ctx context.Context, id uuid.UUID, registrationID string, dir string, watchers []protocol.FileSystemWatcher, sink EventSink) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.registrations[id]; !ok {
		w.registrations[id] = make(map[string]*registration)
	}
	w.registrations[id][registrationID] = &registration{
		dir:      dir,
		watchers: watchers,
		sink:     sink,
	}

	// Watch the directory tree as of registration time. Directories created later are
	// added when their create events arrive.
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if addErr := w.fsWatcher.Add(p); addErr != nil {
			w.logger.Warnf("watching %q: %s", p, addErr)
		}
		return nil
	})
}

func (w *watcher) Unregister(ctx context.Context, id uuid.UUID, registrationID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if regs, ok := w.registrations[id]; ok {
		delete(regs, registrationID)
		if len(regs) == 0 {
			delete(w.registrations, id)
		}
	}
	return nil
}

func (w *watcher) EndSession(ctx context.Context, id uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.registrations, id)
	return nil
}

func (w *watcher) run() {
	defer w.wg.Done()
	ctx := context.Background()
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("failure in file watcher: %v", err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	changeType, ok := eventChangeType(event)
	if !ok {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsWatcher.Add(event.Name); err != nil {
				w.logger.Warnf("watching new directory %q: %s", event.Name, err)
			}
			return
		}
	}

	w.mu.Lock()
	dispatches := make([]*registration, 0)
	for _, regs := range w.registrations {
		for _, reg := range regs {
			if reg.matches(event.Name) {
				dispatches = append(dispatches, reg)
			}
		}
	}
	w.mu.Unlock()

	for _, reg := range dispatches {
		reg.sink(ctx, &protocol.DidChangeWatchedFilesParams{
			Changes: []*protocol.FileEvent{{
				URI:  uri.File(event.Name),
				Type: changeType,
			}},
		})
	}
}

func (r *registration) matches(name string) bool {
	rel, err := filepath.Rel(r.dir, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	for _, fw := range r.watchers {
		if matchGlob(fw.GlobPattern, filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

// matchGlob performs the subset of glob matching the server relies on: a leading "**/"
// segment matches any directory prefix, and the remainder is matched with path.Match
// against the final path segments.
func matchGlob(pattern, rel string) bool {
	pattern = filepath.ToSlash(pattern)
	if suffix, ok := strings.CutPrefix(pattern, "**/"); ok {
		if matched, err := path.Match(suffix, path.Base(rel)); err == nil && matched {
			return true
		}
		matched, err := path.Match(suffix, rel)
		return err == nil && matched
	}
	matched, err := path.Match(pattern, rel)
	return err == nil && matched
}

func eventChangeType(event fsnotify.Event) (protocol.FileChangeType, bool) {
	switch {
	case event.Has(fsnotify.Create):
		return protocol.FileChangeTypeCreated, true
	case event.Has(fsnotify.Write):
		return protocol.FileChangeTypeChanged, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return protocol.FileChangeTypeDeleted, true
	default:
		return 0, false
	}
}
