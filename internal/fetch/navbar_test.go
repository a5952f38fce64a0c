package fetch

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/veeti-k/sivupaja/internal/envmode"
)

func TestFetchNavbar_RasterLogo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/navigaatiot", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{
			"sivut":[{"nimi":"Etusivu","sivu":"/"},{"nimi":"Galleria","sivu":"/galleria"}],
			"logo":{"hash":"nav1","ext":".png","mime":"image/png","url":"/uploads/nav1.png"}
		}],"meta":{"pagination":{}}}`))
	})
	mux.HandleFunc("/uploads/nav1.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("png bytes"))
	})

	p, fakes := newTestPipeline(t, envmode.Development, mux)
	got, err := p.FetchNavbar(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.LogoURL != "navbar/nav1.png.webp" {
		t.Errorf("logoUrl = %q", got.LogoURL)
	}
	if len(got.Sivut) != 2 || got.Sivut[1].Sivu != "/galleria" {
		t.Errorf("sivut = %v", got.Sivut)
	}
	if len(fakes.images.calls) != 1 {
		t.Fatalf("convert calls = %d", len(fakes.images.calls))
	}
	opts := fakes.images.calls[0].opts
	if opts.Quality != 82 || opts.MaxWidth != 100 || opts.MaxHeight != 100 {
		t.Errorf("convert opts = %+v", opts)
	}
}

func TestFetchNavbar_SmallSVGInlined(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/navigaatiot", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{
			"sivut":[],
			"logo":{"hash":"nav2","ext":".svg","mime":"image/svg+xml","url":"/uploads/nav2.svg"}
		}],"meta":{"pagination":{}}}`))
	})
	mux.HandleFunc("/uploads/nav2.svg", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<svg/>"))
	})

	p, _ := newTestPipeline(t, envmode.Development, mux)
	got, err := p.FetchNavbar(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got.LogoURL, "data:image/svg+xml;base64,") {
		t.Errorf("logoUrl = %q, want data URL", got.LogoURL)
	}
}

func TestFetchNavbar_EmptyCollectionWritesNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/navigaatiot", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[],"meta":{"pagination":{}}}`))
	})

	p, _ := newTestPipeline(t, envmode.Development, mux)
	got, err := p.FetchNavbar(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Sivut) != 0 || got.LogoURL != "" {
		t.Errorf("navbar = %+v, want empty", got)
	}
	if p.Store.Exists("navbar/navbar-data.json") {
		t.Error("manifest written for empty collection")
	}
}

func TestFetchNavbar_ManifestIsBare(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/navigaatiot", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{
			"sivut":[{"nimi":"Etusivu","sivu":"/"}],
			"logo":{"hash":"nav3","ext":".png","mime":"image/png","url":"/uploads/nav3.png"}
		}],"meta":{"pagination":{}}}`))
	})
	mux.HandleFunc("/uploads/nav3.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("png bytes"))
	})

	p, _ := newTestPipeline(t, envmode.Development, mux)
	if _, err := p.FetchNavbar(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, err := p.Store.Read("navbar/navbar-data.json")
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.HasPrefix(s, "{\n  \"sivut\"") {
		t.Errorf("manifest should be a bare object, got %q", s)
	}
}
