package fetch

import (
	"context"
	"strings"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
	"github.com/veeti-k/sivupaja/internal/media"
)

type logoManifest struct {
	LogoURL string `json:"logoUrl"`
}

type logoEntry struct {
	Logo *cms.MediaRef `json:"logo"`
}

// losslessExts are raster formats whose logo conversion keeps lossless
// WebP; uploads in these formats are typically flat graphics.
var losslessExts = map[string]bool{
	".png":  true,
	".bmp":  true,
	".tiff": true,
}

// FetchLogo resolves the site logo into logo/logo-meta.json. SVG logos
// are minified in place; rasters are converted to WebP at up to 512px
// wide, lossless for flat-graphic formats. A result under 21KiB is
// embedded as a base64 data URL instead of a path.
func (p *Pipeline) FetchLogo(ctx context.Context) (string, error) {
	m, err := manifest.Run(ctx, p.env(), "logo/logo-meta.json",
		logoManifest{},
		func(ctx context.Context) (logoManifest, bool, error) {
			res, err := cms.Get[logoEntry](ctx, p.Client, "/api/tervetuloas?populate=logo")
			if err != nil {
				return logoManifest{}, false, err
			}
			if len(res.Data) == 0 || res.Data[0].Logo == nil || !res.Data[0].Logo.Valid() {
				p.Logger.Warn("logo reference missing or incomplete")
				return logoManifest{}, false, nil
			}
			logo := *res.Data[0].Logo

			ext := strings.ToLower(logo.Ext)
			local, err := p.Downloader.FetchAsset(ctx,
				p.Client.FileURL(logo.URL), logo.Hash+ext, "logo")
			if err != nil {
				return logoManifest{}, false, err
			}
			abs, err := p.Store.Abs(local)
			if err != nil {
				return logoManifest{}, false, err
			}

			var logoURL string
			if logo.IsVector() {
				p.Vectors.Optimize(abs)
				logoURL = p.inlineSmallAsset(local, "image/svg+xml", p.Client.SiteURL()+local)
			} else {
				webpRel := "logo/" + logo.Hash + ".webp"
				absOut, err := p.Store.Abs(webpRel)
				if err != nil {
					return logoManifest{}, false, err
				}
				p.Images.Convert(ctx, abs, absOut, media.ConvertOptions{
					Quality:  80,
					MaxWidth: 512,
					Lossless: losslessExts[ext],
				})
				logoURL = p.inlineSmallAsset(webpRel, "image/webp", p.Client.SiteURL()+webpRel)
			}
			return logoManifest{LogoURL: logoURL}, true, nil
		})
	return m.LogoURL, err
}
