package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/veeti-k/sivupaja/internal/apperr"
)

// FFprobe reads stream metadata from media files.
type FFprobe struct {
	Bin string
}

// NewFFprobe returns a prober using the given ffprobe binary ("ffprobe"
// when empty).
func NewFFprobe(bin string) *FFprobe {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFprobe{Bin: bin}
}

// Probe returns the pixel dimensions of the first video stream that
// carries both. A file without such a stream is an ErrNoVideoStream.
func (p *FFprobe) Probe(ctx context.Context, absPath string) (int, int, error) {
	cmd := exec.CommandContext(ctx, p.Bin,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		absPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, 0, fmt.Errorf("media: ffprobe %s: %w: %s", absPath, err, lastLine(stderr.Bytes()))
	}
	return parseProbeOutput(stdout.Bytes())
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func parseProbeOutput(data []byte) (int, int, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, 0, fmt.Errorf("media: parse probe output: %w", err)
	}
	for _, s := range out.Streams {
		if s.CodecType == "video" && s.Width > 0 && s.Height > 0 {
			return s.Width, s.Height, nil
		}
	}
	return 0, 0, apperr.ErrNoVideoStream
}
