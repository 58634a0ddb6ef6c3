package filestore

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

// Watcher calls onChange once per burst of writes to a single file. It
// watches the parent directory so editors that replace the file by rename
// are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(ctx context.Context)
	watcher  *fsnotify.Watcher
	log      *logger.Logger

	stopOnce sync.Once
	done     chan struct{}
}

func NewWatcher(path string, debounce time.Duration, onChange func(ctx context.Context), baseLog *logger.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		watcher:  fw,
		log:      baseLog.With("component", "FamilyFileWatcher", "path", abs),
		done:     make(chan struct{}),
	}, nil
}

// Run blocks until ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				// the file may come back under the same name; the parent dir watch covers that
				w.log.Debug("family file moved or removed", "op", ev.Op.String())
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerCh = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", "error", err)
		case <-timerCh:
			timerCh = nil
			w.onChange(ctx)
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
