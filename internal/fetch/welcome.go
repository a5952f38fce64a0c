package fetch

import (
	"context"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
)

// Welcome is the landing page content. The multiline CMS fields are
// pre-rendered to HTML fragments here so templates can inject them
// directly: tavoitteet, tyopajatoiminta and yksilovalmennuskuvaus as
// <li> items, kuvaus as <p> paragraphs.
type Welcome struct {
	Otsikko               string     `json:"otsikko"`
	Kuvaus                string     `json:"kuvaus"`
	Tavoitteet            string     `json:"tavoitteet"`
	OtsikkoTavoitteet     string     `json:"otsikkoTavoitteet"`
	Tyopaja               string     `json:"tyopaja"`
	Tyopajatoiminta       string     `json:"tyopajatoiminta"`
	Yksilovalmennus       string     `json:"yksilovalmennus"`
	Yksilovalmennuskuvaus string     `json:"yksilovalmennuskuvaus"`
	Hakemukseen           string     `json:"hakemukseen"`
	Info                  []InfoCard `json:"info"`
}

// InfoCard is one title/description pair on the landing page.
type InfoCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type welcomeManifest struct {
	Tervetuloa *Welcome `json:"tervetuloa"`
}

// FetchWelcome resolves the landing page content into
// tervetuloa/tervetuloa-meta.json. Only the first collection entry is
// used; an empty collection yields nil and writes nothing.
func (p *Pipeline) FetchWelcome(ctx context.Context) (*Welcome, error) {
	m, err := manifest.Run(ctx, p.env(), "tervetuloa/tervetuloa-meta.json",
		welcomeManifest{},
		func(ctx context.Context) (welcomeManifest, bool, error) {
			res, err := cms.Get[Welcome](ctx, p.Client, "/api/tervetuloas?populate=info&populate=logo")
			if err != nil {
				return welcomeManifest{}, false, err
			}
			if len(res.Data) == 0 {
				return welcomeManifest{}, false, nil
			}
			item := res.Data[0]
			item.Tavoitteet = htmlList(item.Tavoitteet)
			item.Tyopajatoiminta = htmlList(item.Tyopajatoiminta)
			item.Yksilovalmennuskuvaus = htmlList(item.Yksilovalmennuskuvaus)
			item.Kuvaus = htmlLines(item.Kuvaus, "p")
			return welcomeManifest{Tervetuloa: &item}, true, nil
		})
	return m.Tervetuloa, err
}
