// Package manifest implements the cached-metadata protocol every content
// fetcher follows: in cache-only modes a previously written manifest is
// the source of truth, in development the CMS is queried live and the
// result persisted for later cache-only builds.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/veeti-k/sivupaja/internal/assets"
	"github.com/veeti-k/sivupaja/internal/envmode"
)

// Env carries what every fetcher needs to resolve a manifest.
type Env struct {
	Mode   envmode.Mode
	Store  *assets.Store
	Logger *slog.Logger
}

// Run resolves the manifest named by rel (a path relative to the asset
// root). In cache-only modes it reads and decodes the stored file,
// returning empty when none exists. Otherwise it calls live: a CMS
// failure is logged and yields empty, ok=false yields empty without
// writing, and a successful result is written back pretty-printed.
//
// A corrupt stored manifest or a write failure is returned as an error;
// the caller decides whether that stops the build.
func Run[T any](ctx context.Context, env Env, rel string, empty T, live func(context.Context) (T, bool, error)) (T, error) {
	if env.Mode.CacheOnly() {
		data, err := env.Store.Read(rel)
		if errors.Is(err, fs.ErrNotExist) {
			env.Logger.Warn("manifest missing in cache-only mode",
				slog.String("manifest", rel),
				slog.String("mode", env.Mode.String()))
			return empty, nil
		}
		if err != nil {
			return empty, fmt.Errorf("manifest: read %s: %w", rel, err)
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return empty, fmt.Errorf("manifest: decode %s: %w", rel, err)
		}
		return v, nil
	}

	v, ok, err := live(ctx)
	if err != nil {
		env.Logger.Error("content fetch failed",
			slog.String("manifest", rel),
			slog.String("error", err.Error()))
		return empty, nil
	}
	if !ok {
		return empty, nil
	}

	if err := write(env.Store, rel, v); err != nil {
		return empty, err
	}
	env.Logger.Info("manifest written", slog.String("manifest", rel))
	return v, nil
}

// write persists v as indented JSON with a trailing newline so the
// files diff cleanly under version control.
func write(store *assets.Store, rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: encode %s: %w", rel, err)
	}
	if err := store.Write(rel, append(data, '\n')); err != nil {
		return fmt.Errorf("manifest: write %s: %w", rel, err)
	}
	return nil
}
