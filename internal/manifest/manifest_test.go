package manifest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/veeti-k/sivupaja/internal/assets"
	"github.com/veeti-k/sivupaja/internal/envmode"
)

type meta struct {
	Items []string `json:"items"`
}

func testEnv(t *testing.T, mode envmode.Mode) Env {
	t.Helper()
	store, err := assets.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return Env{
		Mode:   mode,
		Store:  store,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRun_LiveWritesManifest(t *testing.T) {
	env := testEnv(t, envmode.Development)
	got, err := Run(context.Background(), env, "support/meta.json", meta{Items: []string{}},
		func(context.Context) (meta, bool, error) {
			return meta{Items: []string{"a", "b"}}, true, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %v", got.Items)
	}

	data, err := env.Store.Read("support/meta.json")
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"items\": [\n    \"a\",\n    \"b\"\n  ]\n}\n"
	if string(data) != want {
		t.Errorf("manifest = %q, want %q", data, want)
	}
}

func TestRun_CacheOnlyReadsManifest(t *testing.T) {
	env := testEnv(t, envmode.Production)
	if err := env.Store.Write("support/meta.json", []byte(`{"items":["cached"]}`)); err != nil {
		t.Fatal(err)
	}

	called := false
	got, err := Run(context.Background(), env, "support/meta.json", meta{},
		func(context.Context) (meta, bool, error) {
			called = true
			return meta{}, true, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("live fetch must not run in cache-only mode")
	}
	if len(got.Items) != 1 || got.Items[0] != "cached" {
		t.Errorf("items = %v, want [cached]", got.Items)
	}
}

func TestRun_CacheOnlyMissingManifestIsEmpty(t *testing.T) {
	env := testEnv(t, envmode.Preview)
	got, err := Run(context.Background(), env, "support/meta.json", meta{Items: []string{}},
		func(context.Context) (meta, bool, error) {
			t.Fatal("live fetch must not run")
			return meta{}, false, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if got.Items == nil || len(got.Items) != 0 {
		t.Errorf("got %v, want empty fallback", got)
	}
}

func TestRun_CacheOnlyCorruptManifestFails(t *testing.T) {
	env := testEnv(t, envmode.Production)
	if err := env.Store.Write("support/meta.json", []byte("{broken")); err != nil {
		t.Fatal(err)
	}
	_, err := Run(context.Background(), env, "support/meta.json", meta{},
		func(context.Context) (meta, bool, error) { return meta{}, true, nil })
	if err == nil {
		t.Error("corrupt manifest should be an error")
	}
}

func TestRun_LiveErrorYieldsEmpty(t *testing.T) {
	env := testEnv(t, envmode.Development)
	got, err := Run(context.Background(), env, "support/meta.json", meta{Items: []string{}},
		func(context.Context) (meta, bool, error) {
			return meta{}, false, errors.New("cms unreachable")
		})
	if err != nil {
		t.Fatalf("fetch errors must not propagate, got %v", err)
	}
	if len(got.Items) != 0 {
		t.Errorf("got %v, want empty", got)
	}
	if env.Store.Exists("support/meta.json") {
		t.Error("manifest should not be written on fetch failure")
	}
}

func TestRun_NotOKSkipsWrite(t *testing.T) {
	env := testEnv(t, envmode.Development)
	_, err := Run(context.Background(), env, "support/meta.json", meta{},
		func(context.Context) (meta, bool, error) {
			return meta{}, false, nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if env.Store.Exists("support/meta.json") {
		t.Error("manifest should not be written when fetch declines")
	}
}

func TestRun_IdempotentBytes(t *testing.T) {
	env := testEnv(t, envmode.Development)
	live := func(context.Context) (meta, bool, error) {
		return meta{Items: []string{"x"}}, true, nil
	}
	if _, err := Run(context.Background(), env, "m.json", meta{}, live); err != nil {
		t.Fatal(err)
	}
	first, err := env.Store.Read("m.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(context.Background(), env, "m.json", meta{}, live); err != nil {
		t.Fatal(err)
	}
	second, err := env.Store.Read("m.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("repeated runs must produce identical manifest bytes")
	}
}
