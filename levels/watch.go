package levels

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the directory must stay quiet before a batch
// of changed level files is reported.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports level files that changed on disk. Writes are coalesced:
// every level file touched during a burst is delivered once, sorted, in a
// single batch after the burst has been quiet for the debounce window.
type Watcher struct {
	watcher  *fsnotify.Watcher
	Events   chan []string
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
	debounce time.Duration
	log      *zap.Logger
}

type WatchOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger receives watch errors the consumer was too slow to take.
func WithWatchLogger(log *zap.Logger) WatchOption {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

func NewWatcher(dirs []string, opts ...WatchOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		watcher:  fw,
		Events:   make(chan []string, 4),
		Errors:   make(chan error, 4),
		closeCh:  make(chan struct{}),
		debounce: DefaultDebounce,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isLevelFile(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			batch := slices.Sorted(maps.Keys(pending))
			clear(pending)
			select {
			case w.Events <- batch:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-w.closeCh:
			return
		}
	}
}

// report hands err to the consumer, logging it when the buffer is full.
func (w *Watcher) report(err error) {
	select {
	case w.Errors <- err:
	default:
		w.log.Warn("level watch error dropped", zap.Error(err))
	}
}
