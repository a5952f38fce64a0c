package fetch

import (
	"context"
	"path"
	"strings"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
	"github.com/veeti-k/sivupaja/internal/media"
)

// BackgroundGraphic is one decorative background image.
type BackgroundGraphic struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type backgroundManifest struct {
	BackgroundGraphics []BackgroundGraphic `json:"backgroundGraphics"`
}

type backgroundEntry struct {
	Grafiikka []cms.MediaRef `json:"grafiikka"`
}

// FetchBackground resolves decorative background graphics into
// background/background-meta.json. SVGs are minified in place. Rasters
// are renamed to <hash>_bitmap<ext> and a 250x250 WebP is written back
// to the original path, so the manifest URL keeps the uploaded name.
// An empty collection writes nothing.
func (p *Pipeline) FetchBackground(ctx context.Context) ([]BackgroundGraphic, error) {
	m, err := manifest.Run(ctx, p.env(), "background/background-meta.json",
		backgroundManifest{BackgroundGraphics: []BackgroundGraphic{}},
		func(ctx context.Context) (backgroundManifest, bool, error) {
			res, err := cms.Get[backgroundEntry](ctx, p.Client, "/api/taustat?populate=grafiikka")
			if err != nil {
				return backgroundManifest{}, false, err
			}
			if len(res.Data) == 0 {
				return backgroundManifest{}, false, nil
			}

			out := backgroundManifest{BackgroundGraphics: []BackgroundGraphic{}}
			for _, graphic := range res.Data[0].Grafiikka {
				local, err := p.Downloader.FetchAsset(ctx,
					p.Client.FileURL(graphic.URL), graphic.Filename(), "background")
				if err != nil {
					return backgroundManifest{}, false, err
				}
				abs, err := p.Store.Abs(local)
				if err != nil {
					return backgroundManifest{}, false, err
				}

				if graphic.IsVector() {
					p.Vectors.Optimize(abs)
				} else {
					ext := path.Ext(local)
					bitmapRel := strings.TrimSuffix(local, ext) + "_bitmap" + ext
					if err := p.Store.Rename(local, bitmapRel); err != nil {
						return backgroundManifest{}, false, err
					}
					bitmapAbs, err := p.Store.Abs(bitmapRel)
					if err != nil {
						return backgroundManifest{}, false, err
					}
					p.Images.Convert(ctx, bitmapAbs, abs, media.ConvertOptions{
						Quality:   80,
						MaxWidth:  250,
						MaxHeight: 250,
					})
				}

				out.BackgroundGraphics = append(out.BackgroundGraphics, BackgroundGraphic{
					URL: local,
					Alt: graphic.Alt(),
				})
			}
			return out, true, nil
		})
	return m.BackgroundGraphics, err
}
