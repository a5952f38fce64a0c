package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/veeti-k/sivupaja/internal/checksum"
	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/ledger"
)

// Prober reads pixel dimensions from a downloaded video file.
type Prober interface {
	Probe(ctx context.Context, absPath string) (width, height int, err error)
}

// Recorder persists per-asset bookkeeping rows. It is advisory only:
// recording failures are logged and never fail a download.
type Recorder interface {
	Record(a ledger.Asset) error
}

// VideoAsset is a downloaded video with its probed dimensions. The
// resolution is also encoded in the filename (<width>x<height><ext>) so
// responsive sources can be selected without a manifest lookup; consumers
// should still prefer the typed fields over parsing the path.
type VideoAsset struct {
	Path   string
	Width  int
	Height int
}

// Downloader retrieves remote media into the public asset root.
type Downloader struct {
	store  *Store
	client *cms.Client
	prober Prober
	ledger Recorder
	logger *slog.Logger
}

// NewDownloader wires a Downloader. prober and rec may be nil when video
// probing or ledger bookkeeping is not needed.
func NewDownloader(store *Store, client *cms.Client, prober Prober, rec Recorder, logger *slog.Logger) *Downloader {
	return &Downloader{store: store, client: client, prober: prober, ledger: rec, logger: logger}
}

// FetchAsset GETs url and writes the body to <subdir>/<filename> under the
// asset root, overwriting any previous copy: every fetch cycle
// re-downloads. It returns the root-relative path.
func (d *Downloader) FetchAsset(ctx context.Context, url, filename, subdir string) (string, error) {
	if err := d.store.EnsureDir(subdir); err != nil {
		return "", err
	}
	rel := path.Join(subdir, filename)

	res, err := d.client.Download(ctx, url)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	sum := checksum.New()
	n, err := d.store.WriteFrom(rel, io.TeeReader(res.Body, sum))
	if err != nil {
		return "", err
	}

	d.logger.Info("downloaded asset",
		slog.String("url", url),
		slog.String("path", rel),
		slog.Int64("bytes", n))
	d.record(ledger.Asset{
		Path:        rel,
		ContentType: subdir,
		SourceURL:   url,
		Checksum:    sum.Sum(),
		Bytes:       n,
		FetchedAt:   time.Now(),
	})
	return rel, nil
}

// FetchVideoAsset downloads like FetchAsset, probes the file for pixel
// dimensions, and renames it so the basename becomes <width>x<height><ext>.
func (d *Downloader) FetchVideoAsset(ctx context.Context, url, filename, subdir string) (VideoAsset, error) {
	rel, err := d.FetchAsset(ctx, url, filename, subdir)
	if err != nil {
		return VideoAsset{}, err
	}

	abs, err := d.store.Abs(rel)
	if err != nil {
		return VideoAsset{}, err
	}
	w, h, err := d.prober.Probe(ctx, abs)
	if err != nil {
		return VideoAsset{}, fmt.Errorf("assets: probe %s: %w", rel, err)
	}

	sized := path.Join(subdir, fmt.Sprintf("%dx%d%s", w, h, path.Ext(filename)))
	if err := d.store.Rename(rel, sized); err != nil {
		return VideoAsset{}, err
	}

	d.logger.Info("probed video",
		slog.String("path", sized),
		slog.Int("width", w),
		slog.Int("height", h))
	d.record(ledger.Asset{
		Path:        sized,
		ContentType: subdir,
		SourceURL:   url,
		Width:       w,
		Height:      h,
		FetchedAt:   time.Now(),
	})
	return VideoAsset{Path: sized, Width: w, Height: h}, nil
}

func (d *Downloader) record(a ledger.Asset) {
	if d.ledger == nil {
		return
	}
	if err := d.ledger.Record(a); err != nil {
		d.logger.Warn("ledger record failed",
			slog.String("path", a.Path),
			slog.String("error", err.Error()))
	}
}
