package fetch

import (
	"context"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
)

type faviconManifest struct {
	FP string `json:"fp"`
}

type faviconEntry struct {
	Favicon cms.MediaRef `json:"favicon"`
}

// FetchFavicon resolves the favicon into favicon/favicon-meta.json.
// SVG favicons are minified in place. An empty collection writes
// nothing.
func (p *Pipeline) FetchFavicon(ctx context.Context) (string, error) {
	m, err := manifest.Run(ctx, p.env(), "favicon/favicon-meta.json",
		faviconManifest{},
		func(ctx context.Context) (faviconManifest, bool, error) {
			res, err := cms.Get[faviconEntry](ctx, p.Client, "/api/logot?populate=favicon")
			if err != nil {
				return faviconManifest{}, false, err
			}
			if len(res.Data) == 0 || !res.Data[0].Favicon.Valid() {
				p.Logger.Warn("favicon reference missing or incomplete")
				return faviconManifest{}, false, nil
			}
			favicon := res.Data[0].Favicon

			local, err := p.Downloader.FetchAsset(ctx,
				p.Client.FileURL(favicon.URL), favicon.Filename(), "favicon")
			if err != nil {
				return faviconManifest{}, false, err
			}
			if favicon.IsVector() {
				abs, err := p.Store.Abs(local)
				if err != nil {
					return faviconManifest{}, false, err
				}
				p.Vectors.Optimize(abs)
			}
			return faviconManifest{FP: local}, true, nil
		})
	return m.FP, err
}
