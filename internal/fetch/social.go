package fetch

import (
	"context"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
)

// SocialLink is one social media channel with its icon.
type SocialLink struct {
	IconURL string `json:"iconUrl"`
	URL     string `json:"url"`
}

type socialManifest struct {
	Some []SocialLink `json:"some"`
}

type socialEntry struct {
	Linkki string       `json:"linkki"`
	Kuvaus string       `json:"kuvaus"`
	Kuvake cms.MediaRef `json:"kuvake"`
}

// FetchSocial resolves the social media channels into some/some-meta.json.
// Icons are downloaded into some/; SVG icons are minified, rasters are
// kept as uploaded. Icon URLs are absolute against the public site base.
func (p *Pipeline) FetchSocial(ctx context.Context) ([]SocialLink, error) {
	m, err := manifest.Run(ctx, p.env(), "some/some-meta.json",
		socialManifest{Some: []SocialLink{}},
		func(ctx context.Context) (socialManifest, bool, error) {
			res, err := cms.Get[socialEntry](ctx, p.Client, "/api/somet?populate=kuvake")
			if err != nil {
				return socialManifest{}, false, err
			}
			out := socialManifest{Some: []SocialLink{}}
			for _, entry := range res.Data {
				local, err := p.Downloader.FetchAsset(ctx,
					p.Client.FileURL(entry.Kuvake.URL), entry.Kuvake.Filename(), "some")
				if err != nil {
					return socialManifest{}, false, err
				}
				if entry.Kuvake.IsVector() {
					abs, err := p.Store.Abs(local)
					if err != nil {
						return socialManifest{}, false, err
					}
					p.Vectors.Optimize(abs)
				}
				out.Some = append(out.Some, SocialLink{
					IconURL: p.Client.SiteURL() + local,
					URL:     entry.Linkki,
				})
			}
			return out, true, nil
		})
	return m.Some, err
}
