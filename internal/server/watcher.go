package server

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after a manifest file changes on disk.
// kind is "updated" or "removed".
type EventCallback func(kind string, path string)

// IsManifest reports whether a filename is one of the pipeline's JSON
// manifests.
func IsManifest(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, "-meta.json") ||
		strings.HasSuffix(base, "-data.json") ||
		base == "galleryData.json"
}

// Watch starts an fsnotify watcher on the asset root and reports
// manifest file changes until ctx is cancelled. Media files churn
// constantly while a fetch cycle runs, so only manifest writes are
// surfaced; they mark a content type as complete.
//
// New directories created at runtime (fetchers create their subdirs on
// first run) are automatically added to the watch list.
func Watch(ctx context.Context, assetRoot string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, assetRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", assetRoot))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					continue
				}
			}

			if !IsManifest(absPath) {
				continue
			}

			rel, relErr := filepath.Rel(assetRoot, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				logger.Debug("watcher: manifest updated", slog.String("path", rel))
				if cb != nil {
					cb("updated", rel)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("watcher: manifest removed", slog.String("path", rel))
				if cb != nil {
					cb("removed", rel)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
