package media

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/veeti-k/sivupaja/internal/apperr"
)

// ImagingTranscoder is the primary in-process transcoder. It decodes with
// disintegration/imaging (EXIF orientation applied before any resize) and
// encodes WebP through libwebp and JPEG through the standard encoder,
// which always writes 4:2:0 chroma subsampling. AVIF has no in-process
// encoder and is reported as unsupported so the chain falls through to
// the external tool.
type ImagingTranscoder struct{}

// Convert implements Transcoder.
func (t *ImagingTranscoder) Convert(_ context.Context, inputPath, outputPath string, opts ConvertOptions) error {
	if opts.format() == FormatAVIF {
		return fmt.Errorf("media: avif encode: %w", apperr.ErrUnsupportedFormat)
	}

	img, err := imaging.Open(inputPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("media: decode %s: %w", inputPath, err)
	}
	img = resizeToFit(img, opts.MaxWidth, opts.MaxHeight)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("media: mkdir: %w", err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("media: create %s: %w", outputPath, err)
	}
	defer out.Close()

	switch opts.format() {
	case FormatJPEG:
		if err := jpeg.Encode(out, img, &jpeg.Options{Quality: opts.quality()}); err != nil {
			return fmt.Errorf("media: encode jpeg: %w", err)
		}
	default:
		// Lossy WebP applies the quality value to color and alpha alike.
		wopts := &webp.Options{
			Lossless: opts.Lossless,
			Quality:  float32(opts.quality()),
		}
		if err := webp.Encode(out, img, wopts); err != nil {
			return fmt.Errorf("media: encode webp: %w", err)
		}
	}
	return nil
}

// resizeToFit bounds img to maxW x maxH (zero means unbounded),
// preserving aspect ratio and never enlarging.
func resizeToFit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := fitSize(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
