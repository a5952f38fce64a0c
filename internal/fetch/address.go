package fetch

import (
	"context"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
)

// Address is the street address block shown in the site footer. The CMS
// schema capitalizes these fields.
type Address struct {
	Katuosoite  string `json:"Katuosoite"`
	Postinumero string `json:"Postinumero"`
	Toimipaikka string `json:"Toimipaikka"`
	Lisatiedot  string `json:"Lisatiedot"`
}

type addressManifest struct {
	Address *Address `json:"address"`
}

// FetchAddress resolves the contact address into cache/address-meta.json.
// The collection is expected to hold a single entry; extras are ignored.
// An empty collection yields nil and writes nothing.
func (p *Pipeline) FetchAddress(ctx context.Context) (*Address, error) {
	m, err := manifest.Run(ctx, p.env(), "cache/address-meta.json",
		addressManifest{},
		func(ctx context.Context) (addressManifest, bool, error) {
			res, err := cms.Get[Address](ctx, p.Client, "/api/osoittet")
			if err != nil {
				return addressManifest{}, false, err
			}
			if len(res.Data) == 0 {
				return addressManifest{}, false, nil
			}
			return addressManifest{Address: &res.Data[0]}, true, nil
		})
	return m.Address, err
}
