package fetch

import (
	"context"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
	"github.com/veeti-k/sivupaja/internal/media"
)

// Page is one navigation entry.
type Page struct {
	Nimi string `json:"nimi"`
	Sivu string `json:"sivu"`
}

// NavbarData is the navigation manifest, stored bare (no wrapper key)
// at navbar/navbar-data.json.
type NavbarData struct {
	Sivut   []Page `json:"sivut"`
	LogoURL string `json:"logoUrl"`
}

type navbarEntry struct {
	Sivut []Page       `json:"sivut"`
	Logo  cms.MediaRef `json:"logo"`
}

func emptyNavbar() NavbarData {
	return NavbarData{Sivut: []Page{}}
}

// FetchNavbar resolves the navigation structure and its logo. SVG logos
// are minified and, when under 21KiB, inlined as a data URL; rasters
// get a 100x100 WebP variant. An empty collection yields the empty
// structure and writes nothing.
func (p *Pipeline) FetchNavbar(ctx context.Context) (NavbarData, error) {
	return manifest.Run(ctx, p.env(), "navbar/navbar-data.json",
		emptyNavbar(),
		func(ctx context.Context) (NavbarData, bool, error) {
			res, err := cms.Get[navbarEntry](ctx, p.Client, "/api/navigaatiot?populate=logo")
			if err != nil {
				return emptyNavbar(), false, err
			}
			if len(res.Data) == 0 {
				return emptyNavbar(), false, nil
			}
			item := res.Data[0]

			local, err := p.Downloader.FetchAsset(ctx,
				p.Client.FileURL(item.Logo.URL), item.Logo.Filename(), "navbar")
			if err != nil {
				return emptyNavbar(), false, err
			}
			abs, err := p.Store.Abs(local)
			if err != nil {
				return emptyNavbar(), false, err
			}

			var logoURL string
			if item.Logo.IsVector() {
				p.Vectors.Optimize(abs)
				logoURL = p.inlineSmallAsset(local, "image/svg+xml", local)
			} else {
				p.Images.Convert(ctx, abs, abs+".webp", media.ConvertOptions{
					Quality:   82,
					MaxWidth:  100,
					MaxHeight: 100,
				})
				logoURL = local + ".webp"
			}

			sivut := item.Sivut
			if sivut == nil {
				sivut = []Page{}
			}
			return NavbarData{Sivut: sivut, LogoURL: logoURL}, true, nil
		})
}
