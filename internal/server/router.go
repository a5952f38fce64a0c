package server

import (
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/veeti-k/sivupaja/internal/apperr"
	"github.com/veeti-k/sivupaja/internal/assets"
	"github.com/veeti-k/sivupaja/internal/ledger"
)

// ManifestInfo describes one manifest file on disk.
type ManifestInfo struct {
	Path     string    `json:"path"`
	Bytes    int64     `json:"bytes"`
	Modified time.Time `json:"modified"`
}

// NewRouter creates the API subrouter: manifest listing, ledger
// inspection, and the SSE event stream.
func NewRouter(store *assets.Store, db ledger.AssetLedger, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/manifests", func(w http.ResponseWriter, _ *http.Request) {
		infos, err := listManifests(store)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, infos)
	})

	r.Get("/assets", func(w http.ResponseWriter, _ *http.Request) {
		summary, err := db.Summary()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, summary)
	})

	r.Get("/assets/{type}", func(w http.ResponseWriter, req *http.Request) {
		rows, err := db.List(chi.URLParam(req, "type"))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, rows)
	})

	r.Get("/asset/*", func(w http.ResponseWriter, req *http.Request) {
		row, err := db.Get(chi.URLParam(req, "*"))
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("asset not found"))
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, row)
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// listManifests walks the asset root collecting manifest files.
func listManifests(store *assets.Store) ([]ManifestInfo, error) {
	root := store.Root()
	infos := []ManifestInfo{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !IsManifest(path) {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		fi, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		infos = append(infos, ManifestInfo{
			Path:     filepath.ToSlash(rel),
			Bytes:    fi.Size(),
			Modified: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}
