package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/veeti-k/sivupaja/internal/server"
)

// Serve runs the development inspection server: it serves the public
// asset root, exposes the manifest and ledger endpoints under /api, and
// streams manifest change events over SSE so a frontend dev server can
// reload when a fetch cycle (running in another terminal) completes.
func Serve(ctx context.Context, opts ...Option) error {
	_, rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	broker := server.NewBroker(2 * time.Second)
	defer broker.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", server.NewRouter(rt.store, rt.db, broker))

	// Everything else is the asset root itself.
	r.Handle("/*", http.FileServer(http.Dir(rt.store.Root())))

	httpServer := &http.Server{
		Addr:    rt.cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Watch(gCtx, rt.store.Root(), rt.logger, func(kind, path string) {
			broker.PublishManifestEvent(kind, path)
		})
	})

	g.Go(func() error {
		rt.logger.Info("server starting", slog.String("address", rt.cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			rt.logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			rt.logger.Info("context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			rt.logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		rt.logger.Error("server error", slog.String("error", err.Error()))
		return err
	}

	rt.logger.Info("server stopped")
	return nil
}
