package registry

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates cached extracted schemas when template files change on
// disk, so an administrative template replacement is picked up without a
// restart. Blocks until ctx is done; run it in its own goroutine.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	r.mu.RLock()
	dir := r.templatesDir
	r.mu.RUnlock()
	if err := watcher.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			r.invalidateByTemplateFile(filepath.Base(event.Name))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("template watcher error", "error", err)
		}
	}
}

// invalidateByTemplateFile drops cache entries for every action bound to the
// given template file name.
func (r *Registry) invalidateByTemplateFile(fileName string) {
	if !strings.HasSuffix(strings.ToLower(fileName), ".docx") {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for slug, a := range r.actions {
		if a.Template == fileName {
			if _, cached := r.metaCache[slug]; cached {
				r.logger.Info("template changed, invalidating extracted schema",
					"slug", slug, "template", fileName)
				delete(r.metaCache, slug)
			}
		}
	}
}
