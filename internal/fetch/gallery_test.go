package fetch

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/veeti-k/sivupaja/internal/envmode"
	"github.com/veeti-k/sivupaja/internal/media"
)

func galleryCMS() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/galleriat", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{"osat":[
			{"Nimi":"Kuvat","kuva":[
				{"kuvaus":"talvi","kuva":{"hash":"img1","ext":".jpg","mime":"image/jpeg","url":"/uploads/img1.jpg"}},
				{"kuvaus":"tyhja","kuva":null}
			]},
			{"Nimi":"Videot","kuva":[
				{"kuvaus":"leike","kuva":{"hash":"vid1","ext":".mp4","mime":"video/mp4","url":"/uploads/vid1.mp4"}}
			]},
			{"Nimi":"Tyhja osa","kuva":[]}
		]}],"meta":{"pagination":{}}}`))
	})
	mux.HandleFunc("/uploads/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("media bytes"))
	})
	return mux
}

func TestFetchGallery_SectionsAndVariants(t *testing.T) {
	p, fakes := newTestPipeline(t, envmode.Development, galleryCMS())

	got, err := p.FetchGallery(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("sections = %d, want 2 (empty one dropped)", len(got))
	}

	imgs := got[0]
	if imgs.Description != "Kuvat" || len(imgs.Images) != 1 {
		t.Fatalf("image section = %+v", imgs)
	}
	item := imgs.Images[0]
	if item.Original != "gallery/img1_img" || item.Thumbnail != "gallery/img1_thumb" {
		t.Errorf("image urls = %+v", item)
	}
	if item.Type != "image" || item.Description != "talvi" {
		t.Errorf("image meta = %+v", item)
	}

	vids := got[1]
	if len(vids.Images) != 1 {
		t.Fatalf("video section = %+v", vids)
	}
	v := vids.Images[0]
	if v.Original != "gallery/vid1" || v.Thumbnail != "gallery/vid1_thumb" || v.Type != "video" {
		t.Errorf("video urls = %+v", v)
	}

	// 3 formats x view+thumb for the one raster.
	if len(fakes.images.calls) != 6 {
		t.Fatalf("convert calls = %d, want 6", len(fakes.images.calls))
	}
	byOut := map[string]media.ConvertOptions{}
	for _, c := range fakes.images.calls {
		byOut[c.out[strings.LastIndex(c.out, "/")+1:]] = c.opts
	}
	if o := byOut["img1_img.webp"]; o.Quality != 85 || o.MaxWidth != 2200 || o.MaxHeight != 1800 {
		t.Errorf("webp view opts = %+v", o)
	}
	if o := byOut["img1_thumb.avif"]; o.Quality != 40 || o.MaxWidth != 240 {
		t.Errorf("avif thumb opts = %+v", o)
	}
	if o := byOut["img1_img.jpg"]; o.Quality != 90 || o.Format != media.FormatJPEG {
		t.Errorf("jpeg view opts = %+v", o)
	}

	if len(fakes.videos.transcoded) != 1 || !strings.HasSuffix(fakes.videos.transcoded[0], "vid1.webm") {
		t.Errorf("transcoded = %v", fakes.videos.transcoded)
	}
	if len(fakes.videos.thumbs) != 1 || !strings.HasSuffix(fakes.videos.thumbs[0], "vid1_thumb.webp") {
		t.Errorf("thumbs = %v", fakes.videos.thumbs)
	}

	if !p.Store.Exists("gallery/galleryData.json") {
		t.Error("manifest not written")
	}
}

func TestFetchGallery_ManifestIsBareArray(t *testing.T) {
	p, _ := newTestPipeline(t, envmode.Development, galleryCMS())
	if _, err := p.FetchGallery(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, err := p.Store.Read("gallery/galleryData.json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "[") {
		t.Errorf("manifest should be a bare array, got %q", string(data[:1]))
	}
}

func TestFetchGallery_CacheOnly(t *testing.T) {
	p, _ := newTestPipeline(t, envmode.Preview, nil)
	if err := p.Store.Write("gallery/galleryData.json",
		[]byte(`[{"description":"Kuvat","images":[{"original":"gallery/a_img","thumbnail":"gallery/a_thumb","description":"","type":"image"}]}]`)); err != nil {
		t.Fatal(err)
	}
	got, err := p.FetchGallery(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Description != "Kuvat" {
		t.Errorf("sections = %v", got)
	}
}
