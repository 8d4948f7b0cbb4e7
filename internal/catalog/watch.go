package catalog

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch invalidates the cached listing whenever the game root changes,
// so new or removed games show up before the TTL elapses. The watcher
// runs until ctx is done. Watching is best effort; when it cannot be
// started the TTL alone keeps the catalog eventually fresh.
func (c *Catalog) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(c.root.Dir()); err != nil {
		_ = w.Close()
		return err
	}
	go c.watchLoop(ctx, w)
	return nil
}

func (c *Catalog) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	defer func() { _ = w.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
				c.log.Debug("game root changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
				c.Invalidate()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			c.log.Warn("game root watcher", zap.Error(err))
		}
	}
}
