package fetch

import (
	"context"
	"net/http"
	"testing"

	"github.com/veeti-k/sivupaja/internal/envmode"
)

func TestFetchWelcome_RendersHTMLFragments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tervetuloas", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[{
			"otsikko":"Tervetuloa",
			"kuvaus":"eka\ntoka",
			"tavoitteet":"  yksi\nkaksi\n",
			"otsikkoTavoitteet":"Tavoitteet",
			"tyopaja":"Paja",
			"tyopajatoiminta":"a\nb",
			"yksilovalmennus":"Valmennus",
			"yksilovalmennuskuvaus":"x",
			"hakemukseen":"https://haku.fi",
			"info":[{"title":"T","description":"D"}]
		}],"meta":{"pagination":{}}}`))
	})

	p, _ := newTestPipeline(t, envmode.Development, mux)
	got, err := p.FetchWelcome(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("welcome is nil")
	}
	if got.Tavoitteet != "<li>yksi</li><li>kaksi</li>" {
		t.Errorf("tavoitteet = %q", got.Tavoitteet)
	}
	if got.Kuvaus != "<p>eka</p><p>toka</p>" {
		t.Errorf("kuvaus = %q", got.Kuvaus)
	}
	if got.Tyopajatoiminta != "<li>a</li><li>b</li>" {
		t.Errorf("tyopajatoiminta = %q", got.Tyopajatoiminta)
	}
	if len(got.Info) != 1 || got.Info[0].Title != "T" {
		t.Errorf("info = %v", got.Info)
	}
	if !p.Store.Exists("tervetuloa/tervetuloa-meta.json") {
		t.Error("manifest not written")
	}
}

func TestFetchWelcome_EmptyCollection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tervetuloas", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[],"meta":{"pagination":{}}}`))
	})

	p, _ := newTestPipeline(t, envmode.Development, mux)
	got, err := p.FetchWelcome(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("welcome = %+v, want nil", got)
	}
	if p.Store.Exists("tervetuloa/tervetuloa-meta.json") {
		t.Error("manifest written for empty collection")
	}
}

func TestFetchAddress_FirstEntryWins(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/osoittet", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[
			{"Katuosoite":"Pajakatu 1","Postinumero":"33100","Toimipaikka":"Tampere","Lisatiedot":"2. krs"},
			{"Katuosoite":"Toinen 2"}
		],"meta":{"pagination":{}}}`))
	})

	p, _ := newTestPipeline(t, envmode.Development, mux)
	got, err := p.FetchAddress(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Katuosoite != "Pajakatu 1" || got.Postinumero != "33100" {
		t.Errorf("address = %+v", got)
	}
	if !p.Store.Exists("cache/address-meta.json") {
		t.Error("manifest not written")
	}
}

func TestFetchAddress_EmptyCollection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/osoittet", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[],"meta":{"pagination":{}}}`))
	})

	p, _ := newTestPipeline(t, envmode.Development, mux)
	got, err := p.FetchAddress(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("address = %+v, want nil", got)
	}
	if p.Store.Exists("cache/address-meta.json") {
		t.Error("manifest written for empty collection")
	}
}
