package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// FFmpegTranscoder shells out to ffmpeg. It backs the AVIF path (no
// in-process encoder exists) and rescues sources the primary decoder
// cannot read.
type FFmpegTranscoder struct {
	Bin string
}

// NewFFmpegTranscoder returns a transcoder using the given ffmpeg binary
// ("ffmpeg" when empty).
func NewFFmpegTranscoder(bin string) *FFmpegTranscoder {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpegTranscoder{Bin: bin}
}

// Convert implements Transcoder.
func (t *FFmpegTranscoder) Convert(ctx context.Context, inputPath, outputPath string, opts ConvertOptions) error {
	args := convertArgs(inputPath, outputPath, opts)
	return runTool(ctx, t.Bin, args)
}

// ToPNG implements FallbackTranscoder: a plain decode to a PNG
// intermediate, no scaling.
func (t *FFmpegTranscoder) ToPNG(ctx context.Context, inputPath, outputPath string) error {
	return runTool(ctx, t.Bin, []string{"-y", "-i", inputPath, outputPath})
}

// convertArgs builds the ffmpeg argument list for a raster conversion.
// The scale expressions cap the box without enlarging: min() pins each
// axis to the source size, force_original_aspect_ratio keeps the ratio.
func convertArgs(inputPath, outputPath string, opts ConvertOptions) []string {
	args := []string{"-y", "-i", inputPath}

	if opts.MaxWidth > 0 || opts.MaxHeight > 0 {
		w, h := "iw", "ih"
		if opts.MaxWidth > 0 {
			w = fmt.Sprintf("min(iw\\,%d)", opts.MaxWidth)
		}
		if opts.MaxHeight > 0 {
			h = fmt.Sprintf("min(ih\\,%d)", opts.MaxHeight)
		}
		args = append(args, "-vf",
			fmt.Sprintf("scale=%s:%s:force_original_aspect_ratio=decrease", w, h))
	}

	q := opts.quality()
	switch opts.format() {
	case FormatAVIF:
		// libaom takes crf 0 (best) .. 63 (worst); map the 0..100 scale.
		crf := 63 - (q*63)/100
		args = append(args, "-c:v", "libaom-av1", "-crf", strconv.Itoa(crf), "-still-picture", "1")
	case FormatJPEG:
		// mjpeg takes q:v 2 (best) .. 31 (worst).
		qv := 2 + ((100-q)*29)/100
		args = append(args, "-q:v", strconv.Itoa(qv))
	default:
		args = append(args, "-c:v", "libwebp", "-quality", strconv.Itoa(q))
		if opts.Lossless {
			args = append(args, "-lossless", "1")
		}
	}

	return append(args, "-frames:v", "1", outputPath)
}

// runTool executes an external transcoder and folds stderr into the error.
func runTool(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("media: %s %v: %w: %s", bin, args, err, lastLine(stderr.Bytes()))
	}
	return nil
}

func lastLine(b []byte) string {
	b = bytes.TrimSpace(b)
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}
	return string(b)
}
