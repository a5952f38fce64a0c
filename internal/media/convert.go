package media

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/veeti-k/sivupaja/internal/apperr"
)

// Transcoder converts one raster image file into another.
type Transcoder interface {
	Convert(ctx context.Context, inputPath, outputPath string, opts ConvertOptions) error
}

// FallbackTranscoder is a Transcoder that can additionally rescue inputs
// the primary decoder cannot read by producing a PNG intermediate.
type FallbackTranscoder interface {
	Transcoder
	ToPNG(ctx context.Context, inputPath, outputPath string) error
}

// Converter runs the primary transcoder with a one-shot fallback chain.
// A failed conversion is never fatal to the caller's batch: the error is
// logged and the output file is simply absent, which callers must treat
// as "this variant is unavailable".
type Converter struct {
	primary  Transcoder
	fallback FallbackTranscoder
	logger   *slog.Logger
}

// NewConverter wires the fallback chain.
func NewConverter(primary Transcoder, fallback FallbackTranscoder, logger *slog.Logger) *Converter {
	return &Converter{primary: primary, fallback: fallback, logger: logger}
}

// Convert converts inputPath into outputPath.
//
// Missing input is logged and skipped. When the primary transcoder cannot
// encode the requested format at all, the fallback tool converts
// directly. When the primary fails to decode the source and the input is
// not already a PNG, the fallback produces a PNG intermediate, the
// primary is retried against it, and the intermediate is removed whether
// or not the retry succeeds.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string, opts ConvertOptions) {
	if _, err := os.Stat(inputPath); err != nil {
		c.logger.Warn("convert skipped: input missing",
			slog.String("input", inputPath),
			slog.String("error", err.Error()))
		return
	}

	err := c.primary.Convert(ctx, inputPath, outputPath, opts)
	if err == nil {
		c.logger.Info("converted image",
			slog.String("input", inputPath),
			slog.String("output", outputPath),
			slog.String("format", string(opts.format())))
		return
	}

	// Formats the primary encoder does not support go straight to the
	// fallback tool; a PNG intermediate would not help.
	if errors.Is(err, apperr.ErrUnsupportedFormat) {
		if ferr := c.fallback.Convert(ctx, inputPath, outputPath, opts); ferr != nil {
			c.logger.Error("fallback conversion failed",
				slog.String("input", inputPath),
				slog.String("error", ferr.Error()))
			return
		}
		c.logger.Info("converted image via fallback tool",
			slog.String("input", inputPath),
			slog.String("output", outputPath),
			slog.String("format", string(opts.format())))
		return
	}

	if strings.EqualFold(filepath.Ext(inputPath), ".png") {
		c.logger.Error("conversion failed for png input, no fallback",
			slog.String("input", inputPath),
			slog.String("error", err.Error()))
		return
	}

	c.logger.Warn("primary decode failed, trying png intermediate",
		slog.String("input", inputPath),
		slog.String("error", err.Error()))

	intermediate := inputPath + ".fallback.png"
	defer os.Remove(intermediate)

	if ferr := c.fallback.ToPNG(ctx, inputPath, intermediate); ferr != nil {
		c.logger.Error("fallback to png failed",
			slog.String("input", inputPath),
			slog.String("error", ferr.Error()))
		return
	}
	if rerr := c.primary.Convert(ctx, intermediate, outputPath, opts); rerr != nil {
		c.logger.Error("retry after png intermediate failed",
			slog.String("input", inputPath),
			slog.String("error", rerr.Error()))
		return
	}
	c.logger.Info("converted image via png intermediate",
		slog.String("input", inputPath),
		slog.String("output", outputPath))
}
