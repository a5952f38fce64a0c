// Package fetch implements the per-content-type fetchers. Each one
// resolves a CMS collection into a JSON manifest under the public asset
// root, downloading and transforming the referenced media on the way.
package fetch

import (
	"context"
	"encoding/base64"
	"log/slog"
	"path"
	"strings"

	"github.com/veeti-k/sivupaja/internal/assets"
	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/envmode"
	"github.com/veeti-k/sivupaja/internal/manifest"
	"github.com/veeti-k/sivupaja/internal/media"
)

// inlineLimit is the size below which a logo file is embedded as a data
// URL instead of referenced by path, saving a request on every page.
const inlineLimit = 21 * 1024

// ImageConverter produces raster variants. Conversion failures are
// handled inside the converter (logged, output absent).
type ImageConverter interface {
	Convert(ctx context.Context, inputPath, outputPath string, opts media.ConvertOptions)
}

// VectorOptimizer minifies an SVG in place, best effort.
type VectorOptimizer interface {
	Optimize(path string)
}

// VideoProcessor transcodes videos and extracts poster thumbnails.
type VideoProcessor interface {
	TranscodeToWeb(ctx context.Context, inputPath, outputPath string) error
	ExtractThumbnail(ctx context.Context, inputPath, outputPath string, atSeconds float64) error
}

// Pipeline holds the shared machinery every fetcher runs on.
type Pipeline struct {
	Mode       envmode.Mode
	Client     *cms.Client
	Store      *assets.Store
	Downloader *assets.Downloader
	Images     ImageConverter
	Vectors    VectorOptimizer
	Videos     VideoProcessor
	Logger     *slog.Logger
}

func (p *Pipeline) env() manifest.Env {
	return manifest.Env{Mode: p.Mode, Store: p.Store, Logger: p.Logger}
}

// iconAsset downloads one media reference into subdir and normalizes it:
// vectors are minified in place, rasters get a sibling .webp variant.
// The returned path is the one the manifest should reference.
func (p *Pipeline) iconAsset(ctx context.Context, ref cms.MediaRef, subdir string, opts media.ConvertOptions) (string, error) {
	local, err := p.Downloader.FetchAsset(ctx, p.Client.FileURL(ref.URL), ref.Filename(), subdir)
	if err != nil {
		return "", err
	}
	abs, err := p.Store.Abs(local)
	if err != nil {
		return "", err
	}
	if ref.IsVector() {
		p.Vectors.Optimize(abs)
		return local, nil
	}
	p.Images.Convert(ctx, abs, abs+".webp", opts)
	return local + ".webp", nil
}

// inlineSmallAsset returns a base64 data URL for rel when the file is
// small enough, falling back to the given URL otherwise.
func (p *Pipeline) inlineSmallAsset(rel, mime, fallbackURL string) string {
	info, err := p.Store.Stat(rel)
	if err != nil || info.Size() >= inlineLimit {
		return fallbackURL
	}
	data, err := p.Store.Read(rel)
	if err != nil {
		return fallbackURL
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// stripExt drops the file extension from a root-relative asset path.
// Manifest URLs for gallery variants omit the extension so the frontend
// can negotiate the format.
func stripExt(rel string) string {
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// htmlLines wraps each line of s in the given tag. Lines are kept as-is,
// empty ones included, to mirror what editors see in the CMS.
func htmlLines(s, tag string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		b.WriteString("<" + tag + ">")
		b.WriteString(line)
		b.WriteString("</" + tag + ">")
	}
	return b.String()
}

// htmlList renders a multiline CMS field as <li> items.
func htmlList(s string) string {
	return htmlLines(strings.TrimSpace(s), "li")
}
