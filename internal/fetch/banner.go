package fetch

import (
	"context"
	"path"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
)

// VideoInfo is one banner video source. Width comes from probing the
// downloaded file so the frontend can pick a source without loading it.
type VideoInfo struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Format string `json:"format"`
}

// BannerData is the hero banner manifest, stored bare at
// banner/banner-data.json.
type BannerData struct {
	Videot    []VideoInfo `json:"videot"`
	Tekstuuri string      `json:"tekstuuri"`
	Posteri   string      `json:"posteri"`
}

type bannerEntry struct {
	Videot    []cms.MediaRef `json:"videot"`
	Tekstuuri cms.MediaRef   `json:"tekstuuri"`
	Posteri   cms.MediaRef   `json:"posteri"`
}

func emptyBanner() BannerData {
	return BannerData{Videot: []VideoInfo{}}
}

// FetchBanner resolves the hero banner into banner/banner-data.json.
// Videos are downloaded and probed (not transcoded; the CMS carries
// them in their delivery formats already), the texture and poster
// images are downloaded as-is. An empty collection yields the empty
// structure and writes nothing.
func (p *Pipeline) FetchBanner(ctx context.Context) (BannerData, error) {
	return manifest.Run(ctx, p.env(), "banner/banner-data.json",
		emptyBanner(),
		func(ctx context.Context) (BannerData, bool, error) {
			res, err := cms.Get[bannerEntry](ctx, p.Client, "/api/bannerit?populate=*")
			if err != nil {
				return emptyBanner(), false, err
			}
			if len(res.Data) == 0 {
				return emptyBanner(), false, nil
			}
			item := res.Data[0]

			out := emptyBanner()
			for _, vid := range item.Videot {
				va, err := p.Downloader.FetchVideoAsset(ctx,
					p.Client.FileURL(vid.URL), vid.Filename(), "banner")
				if err != nil {
					return emptyBanner(), false, err
				}
				out.Videot = append(out.Videot, VideoInfo{
					URL:    va.Path,
					Width:  va.Width,
					Format: "video/" + mediaExt(va.Path),
				})
			}

			if item.Tekstuuri.Valid() {
				rel, err := p.Downloader.FetchAsset(ctx,
					p.Client.FileURL(item.Tekstuuri.URL), item.Tekstuuri.Filename(), "banner")
				if err != nil {
					return emptyBanner(), false, err
				}
				out.Tekstuuri = rel
			}
			if item.Posteri.Valid() {
				rel, err := p.Downloader.FetchAsset(ctx,
					p.Client.FileURL(item.Posteri.URL), item.Posteri.Filename(), "banner")
				if err != nil {
					return emptyBanner(), false, err
				}
				out.Posteri = rel
			}
			return out, true, nil
		})
}

// mediaExt returns the extension without the dot, for MIME suffixes.
func mediaExt(rel string) string {
	ext := path.Ext(rel)
	if ext == "" {
		return ""
	}
	return ext[1:]
}
