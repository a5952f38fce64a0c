package fetch

import (
	"context"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
	"github.com/veeti-k/sivupaja/internal/media"
)

// Supporter is one partner logo with its link, as the frontend consumes
// it.
type Supporter struct {
	ImgURL string `json:"imgUrl"`
	Title  string `json:"title"`
	Link   string `json:"link"`
}

type supportersManifest struct {
	Supporters []Supporter `json:"supporters"`
}

type membershipsManifest struct {
	Memberships []Supporter `json:"memberships"`
}

// partnerEntry is the CMS shape shared by the tukijat and jasenyydet
// collections.
type partnerEntry struct {
	Nimi   string         `json:"nimi"`
	Linkki string         `json:"linkki"`
	Kuvake []cms.MediaRef `json:"kuvake"`
}

// FetchSupporters resolves the supporter logos into
// support/supporters-meta.json. Logos are downloaded into support/,
// SVGs minified and rasters boxed to 256x80 WebP.
func (p *Pipeline) FetchSupporters(ctx context.Context) ([]Supporter, error) {
	m, err := manifest.Run(ctx, p.env(), "support/supporters-meta.json",
		supportersManifest{Supporters: []Supporter{}},
		func(ctx context.Context) (supportersManifest, bool, error) {
			items, err := p.partnerItems(ctx, "/api/tukijat?populate=kuvake",
				media.ConvertOptions{Quality: 256, MaxWidth: 256, MaxHeight: 80})
			if err != nil {
				return supportersManifest{}, false, err
			}
			return supportersManifest{Supporters: items}, true, nil
		})
	return m.Supporters, err
}

// FetchMemberships resolves organization membership logos into
// support/memberships-meta.json, boxed to 256x256 WebP.
func (p *Pipeline) FetchMemberships(ctx context.Context) ([]Supporter, error) {
	m, err := manifest.Run(ctx, p.env(), "support/memberships-meta.json",
		membershipsManifest{Memberships: []Supporter{}},
		func(ctx context.Context) (membershipsManifest, bool, error) {
			items, err := p.partnerItems(ctx, "/api/jasenyydet?populate=kuvake",
				media.ConvertOptions{Quality: 80, MaxWidth: 256, MaxHeight: 256})
			if err != nil {
				return membershipsManifest{}, false, err
			}
			return membershipsManifest{Memberships: items}, true, nil
		})
	return m.Memberships, err
}

func (p *Pipeline) partnerItems(ctx context.Context, endpoint string, opts media.ConvertOptions) ([]Supporter, error) {
	res, err := cms.Get[partnerEntry](ctx, p.Client, endpoint)
	if err != nil {
		return nil, err
	}
	items := []Supporter{}
	for _, entry := range res.Data {
		for _, ref := range entry.Kuvake {
			local, err := p.iconAsset(ctx, ref, "support", opts)
			if err != nil {
				return nil, err
			}
			items = append(items, Supporter{
				ImgURL: local,
				Title:  entry.Nimi,
				Link:   entry.Linkki,
			})
		}
	}
	return items, nil
}
