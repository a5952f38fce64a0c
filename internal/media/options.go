// Package media transcodes pipeline assets: raster images, SVGs, and
// videos.
package media

// Format is a raster output format.
type Format string

const (
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
	FormatJPEG Format = "jpeg"
)

// DefaultQuality is used when ConvertOptions.Quality is left at zero.
const DefaultQuality = 80

// ConvertOptions control a raster conversion.
//
// Quality is on the usual 0..100 scale; zero means DefaultQuality and
// out-of-range values are clamped, never rejected. MaxWidth/MaxHeight,
// when set, bound the output box: the image is fit inside preserving
// aspect ratio and is never enlarged. Lossless is honored by WebP only.
type ConvertOptions struct {
	Quality   int
	MaxWidth  int
	MaxHeight int
	Format    Format
	Lossless  bool
}

func (o ConvertOptions) format() Format {
	if o.Format == "" {
		return FormatWebP
	}
	return o.Format
}

func (o ConvertOptions) quality() int {
	q := o.Quality
	if q == 0 {
		q = DefaultQuality
	}
	if q < 0 {
		q = 0
	}
	if q > 100 {
		q = 100
	}
	return q
}

// fitSize returns the dimensions of srcW x srcH fit inside maxW x maxH
// (zero means unbounded), preserving aspect ratio and never enlarging.
func fitSize(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return srcW, srcH
	}
	if (maxW <= 0 || srcW <= maxW) && (maxH <= 0 || srcH <= maxH) {
		return srcW, srcH
	}

	scale := 1.0
	if maxW > 0 {
		scale = float64(maxW) / float64(srcW)
	}
	if maxH > 0 {
		if s := float64(maxH) / float64(srcH); maxW <= 0 || s < scale {
			scale = s
		}
	}

	w := int(float64(srcW)*scale + 0.5)
	h := int(float64(srcH)*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
