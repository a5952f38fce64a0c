package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Processor transcodes videos to a web-efficient container and extracts
// poster-frame thumbnails, shelling out to ffmpeg.
type Processor struct {
	Bin    string
	logger *slog.Logger
}

// NewProcessor returns a Processor using the given ffmpeg binary
// ("ffmpeg" when empty).
func NewProcessor(bin string, logger *slog.Logger) *Processor {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Processor{Bin: bin, logger: logger}
}

// TranscodeToWeb re-encodes input to VP9/Opus WebM, scaled to a 720p
// height ceiling with aspect ratio preserved. Encoder errors are fatal
// for the asset.
func (p *Processor) TranscodeToWeb(ctx context.Context, inputPath, outputPath string) error {
	if err := runTool(ctx, p.Bin, webmArgs(inputPath, outputPath)); err != nil {
		return err
	}
	p.logger.Info("transcoded video to webm",
		slog.String("input", inputPath),
		slog.String("output", outputPath))
	return nil
}

// webmArgs mirrors the VP9 settings the site was tuned with: 1M video
// bitrate at up to 720p, Opus audio, and row/tile parallelism for
// tolerable encode times on build machines.
func webmArgs(inputPath, outputPath string) []string {
	return []string{
		"-y", "-i", inputPath,
		"-c:v", "libvpx-vp9",
		"-b:v", "1.0M",
		"-vf", "scale=-1:720",
		"-c:a", "libopus",
		"-b:a", "128k",
		"-threads", "3",
		"-row-mt", "1",
		"-deadline", "good",
		"-cpu-used", "2",
		"-tile-columns", "4",
		"-frame-parallel", "1",
		"-auto-alt-ref", "1",
		"-lag-in-frames", "25",
		outputPath,
	}
}

// ExtractThumbnail captures one frame at atSeconds into a temporary PNG,
// converts it to WebP at outputPath, and removes the PNG whether or not
// the conversion succeeds. A capture error is fatal; a WebP conversion
// error is logged and leaves no thumbnail.
func (p *Processor) ExtractThumbnail(ctx context.Context, inputPath, outputPath string, atSeconds float64) error {
	pngPath := thumbnailPNGPath(outputPath)
	defer os.Remove(pngPath)

	if err := runTool(ctx, p.Bin, captureArgs(inputPath, pngPath, atSeconds)); err != nil {
		return fmt.Errorf("media: capture frame: %w", err)
	}

	if err := runTool(ctx, p.Bin, thumbWebPArgs(pngPath, outputPath)); err != nil {
		p.logger.Error("thumbnail webp conversion failed",
			slog.String("input", inputPath),
			slog.String("error", err.Error()))
		return nil
	}
	p.logger.Info("extracted video thumbnail",
		slog.String("input", inputPath),
		slog.String("output", outputPath))
	return nil
}

// thumbnailPNGPath derives the temporary frame path next to the target.
func thumbnailPNGPath(outputPath string) string {
	base := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	return filepath.Join(filepath.Dir(outputPath), base+".png")
}

// captureArgs grabs a single 240px-wide frame, height following the
// aspect ratio (-2 keeps it encoder-friendly even).
func captureArgs(inputPath, pngPath string, atSeconds float64) []string {
	return []string{
		"-y",
		"-ss", strconv.FormatFloat(atSeconds, 'f', -1, 64),
		"-i", inputPath,
		"-frames:v", "1",
		"-vf", "scale=240:-2",
		pngPath,
	}
}

func thumbWebPArgs(pngPath, outputPath string) []string {
	return []string{
		"-y", "-i", pngPath,
		"-vcodec", "libwebp",
		"-lossless", "0",
		"-qscale", "75",
		"-preset", "default",
		"-an",
		"-vsync", "0",
		outputPath,
	}
}
