package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestWriteAndRead(t *testing.T) {
	s := tempStore(t)
	content := []byte(`{"supporters":[]}`)
	if err := s.Write("support/meta.json", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("support/meta.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempStore(t)
	if err := s.Write("a/b/c.json", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("a/b/c.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	s := tempStore(t)
	if err := s.Write("gallery/a.webp", []byte("img")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(s.Root(), "gallery"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".sivupaja-tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteFrom(t *testing.T) {
	s := tempStore(t)
	n, err := s.WriteFrom("banner/v.mp4", strings.NewReader("video bytes"))
	if err != nil {
		t.Fatalf("WriteFrom: %v", err)
	}
	if n != int64(len("video bytes")) {
		t.Errorf("n = %d", n)
	}
	got, err := s.Read("banner/v.mp4")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "video bytes" {
		t.Errorf("content = %q", got)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempStore(t)
	cases := []string{"../evil.json", "a/../../evil.json", "/etc/passwd"}
	for _, rel := range cases {
		if err := s.Write(rel, []byte("x")); err == nil {
			t.Errorf("Write(%q) should fail", rel)
		}
		if _, err := s.Read(rel); err == nil {
			t.Errorf("Read(%q) should fail", rel)
		}
	}
}

func TestRename(t *testing.T) {
	s := tempStore(t)
	if err := s.Write("banner/v.mp4", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := s.Rename("banner/v.mp4", "banner/1280x720.mp4"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if s.Exists("banner/v.mp4") {
		t.Error("old path still present")
	}
	if !s.Exists("banner/1280x720.mp4") {
		t.Error("new path missing")
	}
}

func TestRemoveMissingIsOK(t *testing.T) {
	s := tempStore(t)
	if err := s.Remove("nope/absent.webp"); err != nil {
		t.Errorf("Remove missing: %v", err)
	}
}

func TestNewStoreRejectsMissingRoot(t *testing.T) {
	if _, err := NewStore(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing root")
	}
}
