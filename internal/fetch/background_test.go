package fetch

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/veeti-k/sivupaja/internal/envmode"
)

func TestFetchBackground_RasterRenamedAndConverted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/taustat", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{"grafiikka":[
			{"name":"tausta.png","alternativeText":"Taustakuvio","hash":"bg1","ext":".png","mime":"image/png","url":"/uploads/bg1.png"}
		]}],"meta":{"pagination":{}}}`))
	})
	mux.HandleFunc("/uploads/bg1.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("png bytes"))
	})

	p, fakes := newTestPipeline(t, envmode.Development, mux)
	got, err := p.FetchBackground(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("graphics = %v", got)
	}
	if got[0].URL != "background/bg1.png" || got[0].Alt != "Taustakuvio" {
		t.Errorf("graphic = %+v", got[0])
	}

	if !p.Store.Exists("background/bg1_bitmap.png") {
		t.Error("original not renamed to _bitmap")
	}
	if len(fakes.images.calls) != 1 {
		t.Fatalf("convert calls = %d", len(fakes.images.calls))
	}
	c := fakes.images.calls[0]
	if !strings.HasSuffix(c.in, "bg1_bitmap.png") || !strings.HasSuffix(c.out, "bg1.png") {
		t.Errorf("convert %q -> %q", c.in, c.out)
	}
	if c.opts.Quality != 80 || c.opts.MaxWidth != 250 || c.opts.MaxHeight != 250 {
		t.Errorf("opts = %+v", c.opts)
	}
}

func TestFetchBackground_AltFallsBackToName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/taustat", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{"grafiikka":[
			{"name":"kuvio.svg","alternativeText":null,"hash":"bg2","ext":".svg","mime":"image/svg+xml","url":"/uploads/bg2.svg"}
		]}],"meta":{"pagination":{}}}`))
	})
	mux.HandleFunc("/uploads/bg2.svg", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<svg/>"))
	})

	p, fakes := newTestPipeline(t, envmode.Development, mux)
	got, err := p.FetchBackground(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Alt != "kuvio.svg" || got[0].URL != "background/bg2.svg" {
		t.Errorf("graphic = %+v", got)
	}
	if len(fakes.vectors.paths) != 1 {
		t.Errorf("svg optimizer ran %d times", len(fakes.vectors.paths))
	}
}

func TestFetchBackground_EmptyCollection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/taustat", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[],"meta":{"pagination":{}}}`))
	})

	p, _ := newTestPipeline(t, envmode.Development, mux)
	got, err := p.FetchBackground(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("graphics = %v, want empty", got)
	}
	if p.Store.Exists("background/background-meta.json") {
		t.Error("manifest written for empty collection")
	}
}
