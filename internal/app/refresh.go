package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/vamshavali-backend/internal/clients/redis"
	"github.com/yungbote/vamshavali-backend/internal/data/filestore"
	"github.com/yungbote/vamshavali-backend/internal/kinship"
)

func (a *App) refresh(ctx context.Context, reason string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Cfg.Refresh.Timeout.Duration)
	defer cancel()

	snap, changed, err := a.Engine.Refresh(ctx)
	if err != nil {
		a.Log.Warn("refresh failed", "reason", reason, "error", err)
		return false, err
	}
	if changed {
		a.Log.Info("refresh applied", "reason", reason, "version", snap.Version, "revision", snap.Revision)
	} else {
		a.Log.Debug("refresh skipped, revision unchanged", "reason", reason, "revision", snap.Revision)
	}
	return changed, nil
}

// announce tells other replicas that the relation set moved.
func (a *App) announce(snap *kinship.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := a.Clients.Bus.Publish(ctx, redis.Invalidation{
		Origin:   a.Clients.Bus.Origin(),
		Revision: snap.Revision,
		Version:  snap.Version,
		At:       snap.BuiltAt,
	})
	if err != nil {
		a.Log.Warn("publish invalidation failed", "error", err, "revision", snap.Revision)
	}
}

func (a *App) runLoops(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.Server.Run(ctx) })

	if a.fileStore != nil && a.Cfg.Store.Watch {
		w, err := filestore.NewWatcher(a.fileStore.Path(), a.Cfg.Store.WatchDebounce.Duration, func(ctx context.Context) {
			_, _ = a.refresh(ctx, "file_changed")
		}, a.Log)
		if err != nil {
			a.Log.Warn("family file watcher disabled", "error", err)
		} else {
			g.Go(func() error {
				defer w.Close()
				w.Run(ctx)
				return nil
			})
		}
	}

	if every := a.Cfg.Refresh.Interval.Duration; every > 0 {
		g.Go(func() error {
			t := time.NewTicker(every)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-t.C:
					_, _ = a.refresh(ctx, "interval")
				}
			}
		})
	}

	if bus := a.Clients.Bus; bus != nil {
		err := bus.Subscribe(ctx, func(m redis.Invalidation) {
			if cur := a.Engine.Snapshot(); cur != nil && m.Revision != "" && cur.Revision == m.Revision {
				return
			}
			_, _ = a.refresh(ctx, "invalidation")
		})
		if err != nil {
			a.Log.Warn("invalidation subscribe failed", "error", err)
		}
	}

	return g.Wait()
}
