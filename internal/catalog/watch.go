package catalog

import (
	"os"
	"sync"
	"time"
)

// FileWatcher polls catalog files and calls onChange with the path of any
// file whose modification time moved forward.
type FileWatcher struct {
	paths    []string
	interval time.Duration
	onChange func(path string)

	seen map[string]time.Time
	done chan struct{}
	once sync.Once
}

func NewFileWatcher(paths []string, interval time.Duration, onChange func(path string)) *FileWatcher {
	return &FileWatcher{
		paths:    paths,
		interval: interval,
		onChange: onChange,
		seen:     make(map[string]time.Time, len(paths)),
		done:     make(chan struct{}),
	}
}

// Start records the current mtimes synchronously, so edits made right after
// Start returns are not missed, then polls until Stop.
func (w *FileWatcher) Start() {
	w.poll(false)
	go func() {
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			select {
			case <-w.done:
				return
			case <-t.C:
				w.poll(true)
			}
		}
	}()
}

func (w *FileWatcher) Stop() {
	w.once.Do(func() { close(w.done) })
}

// poll compares every path against its last seen mtime. A path that did not
// exist at Start is reported as soon as it shows up.
func (w *FileWatcher) poll(notify bool) {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		mtime := info.ModTime()
		prev, known := w.seen[path]
		w.seen[path] = mtime
		if !notify || (known && !mtime.After(prev)) {
			continue
		}
		if w.onChange != nil {
			w.onChange(path)
		}
	}
}
