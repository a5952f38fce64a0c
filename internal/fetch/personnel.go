package fetch

import (
	"context"
	"path"
	"strings"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
	"github.com/veeti-k/sivupaja/internal/media"
)

// Worker is one staff member as the frontend consumes it. Field names
// follow the CMS schema; Email stays nullable because the frontend
// renders the mailto link conditionally.
type Worker struct {
	Nimi      string      `json:"nimi"`
	Nimike    string      `json:"nimike"`
	Kuvaus    string      `json:"kuvaus"`
	Tervehdys string      `json:"tervehdys"`
	Puhelin   string      `json:"puhelin"`
	Email     *string     `json:"email"`
	Kuva      WorkerImage `json:"kuva"`
}

// WorkerImage is the processed portrait reference.
type WorkerImage struct {
	URL string `json:"url"`
}

type personnelManifest struct {
	Personal []Worker `json:"personal"`
}

type personnelEntry struct {
	Nimi      string       `json:"nimi"`
	Nimike    string       `json:"nimike"`
	Kuvaus    string       `json:"kuvaus"`
	Tervehdys string       `json:"tervehdys"`
	Puhelin   string       `json:"puhelin"`
	Email     *string      `json:"email"`
	Kuva      cms.MediaRef `json:"kuva"`
}

// FetchPersonnel resolves the staff listing into
// henkilo/personnel-meta.json. Portraits are downloaded into henkilo/
// and converted to 300x300 WebP variants named <hash>_img.webp; the
// manifest URL is absolute against the public site base.
func (p *Pipeline) FetchPersonnel(ctx context.Context) ([]Worker, error) {
	m, err := manifest.Run(ctx, p.env(), "henkilo/personnel-meta.json",
		personnelManifest{Personal: []Worker{}},
		func(ctx context.Context) (personnelManifest, bool, error) {
			res, err := cms.Get[personnelEntry](ctx, p.Client, "/api/tyontekijat?populate=kuva")
			if err != nil {
				return personnelManifest{}, false, err
			}
			out := personnelManifest{Personal: []Worker{}}
			for _, person := range res.Data {
				local, err := p.Downloader.FetchAsset(ctx,
					p.Client.FileURL(person.Kuva.URL), person.Kuva.Filename(), "henkilo")
				if err != nil {
					return personnelManifest{}, false, err
				}
				webpRel := strings.TrimSuffix(local, path.Ext(local)) + "_img.webp"

				absIn, err := p.Store.Abs(local)
				if err != nil {
					return personnelManifest{}, false, err
				}
				absOut, err := p.Store.Abs(webpRel)
				if err != nil {
					return personnelManifest{}, false, err
				}
				p.Images.Convert(ctx, absIn, absOut, media.ConvertOptions{
					Quality:   85,
					MaxWidth:  300,
					MaxHeight: 300,
				})

				out.Personal = append(out.Personal, Worker{
					Nimi:      person.Nimi,
					Nimike:    person.Nimike,
					Kuvaus:    person.Kuvaus,
					Tervehdys: person.Tervehdys,
					Puhelin:   person.Puhelin,
					Email:     person.Email,
					Kuva:      WorkerImage{URL: p.Client.SiteURL() + webpRel},
				})
			}
			return out, true, nil
		})
	return m.Personal, err
}
