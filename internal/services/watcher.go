package services

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/alexparks333/AlexPipeline/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

const defaultWatchDebounce = 2 * time.Second

// WorkspaceWatcher enqueues a scan when project folders appear under
// <root>/Projects. Bursts of events (a whole tree being copied in) collapse
// into one scan once the directory has been quiet for the debounce period.
type WorkspaceWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	root        string
	projectsDir string
	queue       TaskQueue
	debounceDur time.Duration
	timer       *time.Timer
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

func NewWorkspaceWatcher(root string, queue TaskQueue) (*WorkspaceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &WorkspaceWatcher{
		watcher:     watcher,
		root:        root,
		projectsDir: filepath.Join(root, ProjectsDirName),
		queue:       queue,
		debounceDur: defaultWatchDebounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet period; call before Start.
func (w *WorkspaceWatcher) SetDebounce(d time.Duration) {
	w.debounceDur = d
}

// Start watches <root>/Projects. When the folder cannot be watched the
// watcher is released and cannot be started again.
func (w *WorkspaceWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	if err := w.watcher.Add(w.projectsDir); err != nil {
		w.mu.Unlock()
		w.watcher.Close()
		return err
	}
	w.running = true
	w.mu.Unlock()

	logger.Infof("[Watch] Watching %s", w.projectsDir)
	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and releases the watcher
func (w *WorkspaceWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logger.Errorf("[Watch] Error closing watcher: %v", err)
	}
}

func (w *WorkspaceWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("[Watch] watcher error: %v", err)
		}
	}
}

func (w *WorkspaceWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("[Watch] change detected")

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDur, w.fire)
}

func (w *WorkspaceWatcher) fire() {
	if err := w.queue.Enqueue(&ScanTask{Root: w.root, Reason: "watch"}); err != nil {
		logger.Errorf("[Watch] Failed to enqueue scan: %v", err)
	}
}
