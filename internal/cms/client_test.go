package cms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/veeti-k/sivupaja/internal/apperr"
)

type fakeItem struct {
	Nimi   string   `json:"nimi"`
	Linkki string   `json:"linkki"`
	Kuvake MediaRef `json:"kuvake"`
}

func TestGet_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/somet" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [{"nimi": "Acme", "linkki": "https://example.org",
				"kuvake": {"hash": "abc123", "ext": ".png", "mime": "image/png", "url": "/uploads/abc123.png"}}],
			"meta": {"pagination": {"page": 1, "pageSize": 25, "pageCount": 1, "total": 1}}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	resp, err := Get[fakeItem](context.Background(), c, "/api/somet?populate=kuvake")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(resp.Data))
	}
	if resp.Data[0].Nimi != "Acme" || resp.Data[0].Kuvake.Hash != "abc123" {
		t.Errorf("item = %+v", resp.Data[0])
	}
	if resp.Meta.Pagination.Total != 1 {
		t.Errorf("total = %d", resp.Meta.Pagination.Total)
	}
}

func TestGet_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Get[fakeItem](context.Background(), New(srv.URL, ""), "/api/somet")
	if !errors.Is(err, apperr.ErrBadStatus) {
		t.Fatalf("err = %v, want ErrBadStatus", err)
	}
}

func TestGet_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": [`))
	}))
	defer srv.Close()

	if _, err := Get[fakeItem](context.Background(), New(srv.URL, ""), "/api/somet"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFileURL(t *testing.T) {
	c := New("https://cms.example.fi/", "")
	if got := c.FileURL("/uploads/a.png"); got != "https://cms.example.fi/uploads/a.png" {
		t.Errorf("FileURL = %q", got)
	}
	if got := c.FileURL("https://cdn.example.fi/a.png"); got != "https://cdn.example.fi/a.png" {
		t.Errorf("absolute FileURL = %q", got)
	}
}

func TestMediaRef_Helpers(t *testing.T) {
	svg := MediaRef{Hash: "h", Ext: ".svg", Mime: "image/svg+xml", URL: "/uploads/h.svg"}
	if !svg.IsVector() || svg.IsVideo() {
		t.Error("svg should be vector, not video")
	}
	if svg.Filename() != "h.svg" {
		t.Errorf("Filename = %q", svg.Filename())
	}
	vid := MediaRef{Hash: "v", Ext: ".MP4", URL: "/uploads/v.mp4"}
	if !vid.IsVideo() {
		t.Error(".MP4 should be video")
	}
	if (MediaRef{Hash: "x"}).Valid() {
		t.Error("ref without url/ext should be invalid")
	}
	if alt := (MediaRef{Name: "logo.png"}).Alt(); alt != "logo.png" {
		t.Errorf("Alt fallback = %q", alt)
	}
}
