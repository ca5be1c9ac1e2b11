package importer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch re-imports dir whenever something under it changes, until ctx is
// done. Bursts of events are coalesced into one import.
func (im *Importer) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			im.log.Printf("Error walking %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				im.log.Printf("Failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
		runs  sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			runs.Done()
		}
		mu.Unlock()
		runs.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			im.log.Printf("Change detected: %s (%s)", event.Name, event.Op.String())
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					im.log.Printf("Error adding new directory %s to watcher: %v", event.Name, err)
				}
			}

			mu.Lock()
			if timer != nil && timer.Stop() {
				runs.Done()
			}
			runs.Add(1)
			timer = time.AfterFunc(im.debounce, func() {
				defer runs.Done()
				res, err := im.ImportDir(ctx, dir)
				if err != nil {
					im.log.Printf("Error during re-import: %v", err)
					return
				}
				im.log.Printf("Re-imported %s: %d created, %d updated, %d failed", dir, res.Created, res.Updated, len(res.Failed))
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			im.log.Printf("Watcher error: %v", err)
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
