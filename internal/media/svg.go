package media

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

const (
	svgMime = "image/svg+xml"
	// Minification converges quickly; further passes stop paying off.
	svgMaxPasses = 3
)

// SVGOptimizer shrinks SVG files in place. Failures are logged and
// non-fatal: the original file stays usable unoptimized.
type SVGOptimizer struct {
	m      *minify.M
	logger *slog.Logger
}

// NewSVGOptimizer creates an optimizer.
func NewSVGOptimizer(logger *slog.Logger) *SVGOptimizer {
	m := minify.New()
	m.AddFunc(svgMime, svg.Minify)
	return &SVGOptimizer{m: m, logger: logger}
}

// Optimize runs a multipass size reduction and overwrites path in place.
func (o *SVGOptimizer) Optimize(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		o.logger.Warn("svg optimize: read failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}

	before := len(data)
	for i := 0; i < svgMaxPasses; i++ {
		out, err := o.m.Bytes(svgMime, data)
		if err != nil {
			o.logger.Warn("svg optimize failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return
		}
		if len(out) >= len(data) {
			break
		}
		data = out
	}

	if err := writeInPlace(path, data); err != nil {
		o.logger.Warn("svg optimize: write failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	o.logger.Info("optimized svg",
		slog.String("path", path),
		slog.Int("bytes_before", before),
		slog.Int("bytes_after", len(data)))
}

// writeInPlace overwrites path atomically via a sibling temp file.
func writeInPlace(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sivupaja-svg-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
