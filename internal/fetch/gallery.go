package fetch

import (
	"context"

	"github.com/veeti-k/sivupaja/internal/cms"
	"github.com/veeti-k/sivupaja/internal/manifest"
	"github.com/veeti-k/sivupaja/internal/media"
)

const (
	galleryThumbSize = 240
	galleryMaxWidth  = 2200
	galleryMaxHeight = 1800
	thumbnailAt      = 1 // seconds into the video
)

// ImgInfo is one gallery item. Original and Thumbnail are extensionless
// asset paths: the frontend appends .webp, .avif or .jpg depending on
// what the browser accepts.
type ImgInfo struct {
	Original    string `json:"original"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// GallerySection is one named group of gallery items.
type GallerySection struct {
	Description string    `json:"description"`
	Images      []ImgInfo `json:"images"`
}

type galleryEntry struct {
	Osat []gallerySectionEntry `json:"osat"`
}

type gallerySectionEntry struct {
	Nimi string             `json:"Nimi"`
	Kuva []galleryItemEntry `json:"kuva"`
}

type galleryItemEntry struct {
	Kuvaus string        `json:"kuvaus"`
	Kuva   *cms.MediaRef `json:"kuva"`
}

// galleryVariants are the raster outputs produced for every gallery
// image, with per-format view and thumbnail qualities.
var galleryVariants = []struct {
	format media.Format
	ext    string
	view   int
	thumb  int
}{
	{media.FormatWebP, ".webp", 85, 70},
	{media.FormatAVIF, ".avif", 60, 40},
	{media.FormatJPEG, ".jpg", 90, 75},
}

// FetchGallery resolves the image gallery into gallery/galleryData.json
// (a bare section array). Videos become a 720p WebM plus a WebP poster
// thumbnail; images get view and thumbnail variants in WebP, AVIF and
// JPEG. Sections without any usable item are dropped.
func (p *Pipeline) FetchGallery(ctx context.Context) ([]GallerySection, error) {
	return manifest.Run(ctx, p.env(), "gallery/galleryData.json",
		[]GallerySection{},
		func(ctx context.Context) ([]GallerySection, bool, error) {
			res, err := cms.Get[galleryEntry](ctx, p.Client,
				"/api/galleriat?populate[osat][populate][kuva][populate]=*")
			if err != nil {
				return nil, false, err
			}

			sections := []GallerySection{}
			for _, galleria := range res.Data {
				for _, osa := range galleria.Osat {
					section := GallerySection{Description: osa.Nimi, Images: []ImgInfo{}}
					for _, item := range osa.Kuva {
						if item.Kuva == nil || item.Kuva.URL == "" {
							continue
						}
						info, err := p.galleryItem(ctx, *item.Kuva, item.Kuvaus)
						if err != nil {
							return nil, false, err
						}
						section.Images = append(section.Images, info)
					}
					if len(section.Images) > 0 {
						sections = append(sections, section)
					}
				}
			}
			return sections, true, nil
		})
}

func (p *Pipeline) galleryItem(ctx context.Context, ref cms.MediaRef, kuvaus string) (ImgInfo, error) {
	local, err := p.Downloader.FetchAsset(ctx,
		p.Client.FileURL(ref.URL), ref.Filename(), "gallery")
	if err != nil {
		return ImgInfo{}, err
	}
	abs, err := p.Store.Abs(local)
	if err != nil {
		return ImgInfo{}, err
	}

	base := stripExt(local)

	if ref.IsVideo() {
		webmAbs, err := p.Store.Abs(base + ".webm")
		if err != nil {
			return ImgInfo{}, err
		}
		if err := p.Videos.TranscodeToWeb(ctx, abs, webmAbs); err != nil {
			return ImgInfo{}, err
		}
		thumbAbs, err := p.Store.Abs(base + "_thumb.webp")
		if err != nil {
			return ImgInfo{}, err
		}
		if err := p.Videos.ExtractThumbnail(ctx, abs, thumbAbs, thumbnailAt); err != nil {
			return ImgInfo{}, err
		}
		return ImgInfo{
			Original:    base,
			Thumbnail:   base + "_thumb",
			Description: kuvaus,
			Type:        "video",
		}, nil
	}

	for _, v := range galleryVariants {
		viewAbs, err := p.Store.Abs(base + "_img" + v.ext)
		if err != nil {
			return ImgInfo{}, err
		}
		p.Images.Convert(ctx, abs, viewAbs, media.ConvertOptions{
			Format:    v.format,
			Quality:   v.view,
			MaxWidth:  galleryMaxWidth,
			MaxHeight: galleryMaxHeight,
		})

		thumbAbs, err := p.Store.Abs(base + "_thumb" + v.ext)
		if err != nil {
			return ImgInfo{}, err
		}
		p.Images.Convert(ctx, abs, thumbAbs, media.ConvertOptions{
			Format:    v.format,
			Quality:   v.thumb,
			MaxWidth:  galleryThumbSize,
			MaxHeight: galleryThumbSize,
		})
	}

	return ImgInfo{
		Original:    base + "_img",
		Thumbnail:   base + "_thumb",
		Description: kuvaus,
		Type:        "image",
	}, nil
}
