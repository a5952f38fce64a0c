// Package internal provides the main application initialization and
// runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/veeti-k/sivupaja/internal/assets"
	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/envmode"
	"github.com/veeti-k/sivupaja/internal/fetch"
	"github.com/veeti-k/sivupaja/internal/ledger"
	"github.com/veeti-k/sivupaja/internal/media"
)

// fetcherStep is one content type in the fetch cycle.
type fetcherStep struct {
	name string
	run  func(context.Context, *fetch.Pipeline) error
}

// fetchOrder is the sequential fetch cycle. Fetchers share subdirs
// (supporters and memberships both write under support/) so the cycle
// is deliberately not parallel.
var fetchOrder = []fetcherStep{
	{"gallery", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchGallery(ctx)
		return err
	}},
	{"favicon", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchFavicon(ctx)
		return err
	}},
	{"supporters", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchSupporters(ctx)
		return err
	}},
	{"social", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchSocial(ctx)
		return err
	}},
	{"personnel", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchPersonnel(ctx)
		return err
	}},
	{"address", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchAddress(ctx)
		return err
	}},
	{"welcome", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchWelcome(ctx)
		return err
	}},
	{"background", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchBackground(ctx)
		return err
	}},
	{"logo", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchLogo(ctx)
		return err
	}},
	{"memberships", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchMemberships(ctx)
		return err
	}},
	{"navbar", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchNavbar(ctx)
		return err
	}},
	{"banner", func(ctx context.Context, p *fetch.Pipeline) error {
		_, err := p.FetchBanner(ctx)
		return err
	}},
}

// FetcherNames lists the fetchers in cycle order, for flag help.
func FetcherNames() []string {
	names := make([]string, len(fetchOrder))
	for i, step := range fetchOrder {
		names[i] = step.name
	}
	return names
}

// runtime is the shared state every command boots from.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	mode   envmode.Mode
	store  *assets.Store
	db     *ledger.DB
}

func newRuntime(opts []Option) (*application, *runtime, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	mode := envmode.Resolve(app.mode, os.Getenv(envmode.EnvVar), cfg.App.Mode)

	logger.Info("configuration loaded",
		slog.String("mode", mode.String()),
		slog.String("cms_base_url", cfg.CMS.BaseURL),
		slog.String("public_dir", cfg.Assets.PublicDir),
		slog.String("ledger_path", cfg.Ledger.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Assets.PublicDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create public dir: %w", err)
	}
	store, err := assets.NewStore(cfg.Assets.PublicDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init asset store: %w", err)
	}
	db, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init ledger: %w", err)
	}

	return app, &runtime{cfg: cfg, logger: logger, mode: mode, store: store, db: db}, nil
}

// newPipeline wires the fetch pipeline onto the runtime.
func newPipeline(rt *runtime) *fetch.Pipeline {
	client := cms.New(rt.cfg.CMS.BaseURL, rt.cfg.CMS.SiteURL)
	converter := media.NewConverter(
		&media.ImagingTranscoder{},
		media.NewFFmpegTranscoder(rt.cfg.Tools.FFmpeg),
		rt.logger)
	prober := media.NewFFprobe(rt.cfg.Tools.FFprobe)

	return &fetch.Pipeline{
		Mode:       rt.mode,
		Client:     client,
		Store:      rt.store,
		Downloader: assets.NewDownloader(rt.store, client, prober, rt.db, rt.logger),
		Images:     converter,
		Vectors:    media.NewSVGOptimizer(rt.logger),
		Videos:     media.NewProcessor(rt.cfg.Tools.FFmpeg, rt.logger),
		Logger:     rt.logger,
	}
}

// Fetch runs the fetch cycle: every fetcher in order, or the subset
// selected with WithOnly. A failing fetcher is logged and the cycle
// continues; only wiring problems abort the run.
func Fetch(ctx context.Context, opts ...Option) error {
	app, rt, err := newRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	for _, name := range app.only {
		if !slices.ContainsFunc(fetchOrder, func(s fetcherStep) bool { return s.name == name }) {
			return fmt.Errorf("unknown fetcher %q", name)
		}
	}

	pipeline := newPipeline(rt)

	ran, failed := 0, 0
	for _, step := range fetchOrder {
		if len(app.only) > 0 && !slices.Contains(app.only, step.name) {
			continue
		}
		ran++
		rt.logger.Info("fetcher starting", slog.String("fetcher", step.name))
		if err := step.run(ctx, pipeline); err != nil {
			failed++
			rt.logger.Error("fetcher failed",
				slog.String("fetcher", step.name),
				slog.String("error", err.Error()))
			continue
		}
		rt.logger.Info("fetcher finished", slog.String("fetcher", step.name))
	}

	rt.logger.Info("fetch cycle complete",
		slog.Int("ran", ran),
		slog.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d of %d fetchers failed", failed, ran)
	}
	return nil
}
