package operation

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const UPCLI_DISABLE_CONFIG_HOT_RELOADING_ENV = "UPCLI_DISABLE_CONFIG_HOT_RELOADING"

var (
	defaultWatcher        *configWatcher
	onceForDefaultWatcher sync.Once
)

// configWatcher watches the parent directories of a set of files and calls
// onChange when one of those files is written or created. fsnotify watches
// directories so that editors replacing a file are still noticed.
type configWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]int
	onChange func(path string)
	done     chan struct{}
}

func globalWatcher() *configWatcher {
	onceForDefaultWatcher.Do(func() {
		defaultWatcher = newConfigWatcher(func(string) { reloadCurrentConfig() })
	})
	return defaultWatcher
}

func newConfigWatcher(onChange func(path string)) *configWatcher {
	return &configWatcher{
		files:    make(map[string]struct{}),
		dirs:     make(map[string]int),
		onChange: onChange,
	}
}

// start lazily creates the fsnotify watcher; callers hold w.mu.
func (w *configWatcher) start() error {
	if w.watcher != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher
	w.done = make(chan struct{})
	go w.loop(watcher)
	return nil
}

func (w *configWatcher) loop(watcher *fsnotify.Watcher) {
	defer close(w.done)
	const writeOrCreateMask = fsnotify.Write | fsnotify.Create
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&writeOrCreateMask == 0 {
				continue
			}
			pathChanged := filepath.Clean(event.Name)
			w.mu.Lock()
			_, watched := w.files[pathChanged]
			w.mu.Unlock()
			if watched {
				w.onChange(pathChanged)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			elog.Warn("config watcher error:", err)
		}
	}
}

// ensureWatches makes the watched set equal to paths. The first error is
// returned after every path has been tried.
func (w *configWatcher) ensureWatches(paths []string) error {
	if os.Getenv(UPCLI_DISABLE_CONFIG_HOT_RELOADING_ENV) != "" {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	toWatch := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		toWatch[filepath.Clean(path)] = struct{}{}
	}
	if len(toWatch) > 0 {
		if err := w.start(); err != nil {
			return err
		}
	}

	var firstError error
	for path := range toWatch {
		if err := w.add(path); err != nil && firstError == nil {
			firstError = err
		}
	}
	for path := range w.files {
		if _, keep := toWatch[path]; !keep {
			if err := w.remove(path); err != nil && firstError == nil {
				firstError = err
			}
		}
	}
	return firstError
}

func (w *configWatcher) add(path string) error {
	if _, exists := w.files[path]; exists {
		return nil
	}
	dir := filepath.Dir(path)
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			elog.Warn("add watch error:", dir, err)
			return err
		}
	}
	w.dirs[dir]++
	w.files[path] = struct{}{}
	return nil
}

func (w *configWatcher) remove(path string) (err error) {
	delete(w.files, path)
	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err = w.watcher.Remove(dir); err != nil {
			elog.Warn("remove watch error:", dir, err)
		}
	}
	return
}

// close stops the event loop.
func (w *configWatcher) close() error {
	w.mu.Lock()
	watcher, done := w.watcher, w.done
	w.watcher = nil
	w.files = make(map[string]struct{})
	w.dirs = make(map[string]int)
	w.mu.Unlock()

	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	<-done
	return err
}

func (w *configWatcher) isWatchingFile(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[filepath.Clean(path)]
	return ok
}

func (w *configWatcher) isWatchingDir(dir string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirs[filepath.Clean(dir)] > 0
}
