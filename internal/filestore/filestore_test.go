package filestore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fieldbook/internal/logging"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "images"), logging.Discard())
}

func writeFile(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("photo"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveEmptySourceIsNoop(t *testing.T) {
	s := newStore(t)
	got, err := s.Resolve("", PhaseBefore)
	if err != nil || got != "" {
		t.Fatalf("Resolve(\"\") = %q, %v", got, err)
	}
	if _, err := os.Stat(s.Dir(PhaseBefore)); !os.IsNotExist(err) {
		t.Fatal("empty resolve should not create the phase directory")
	}
}

func TestResolveCopiesExternalSource(t *testing.T) {
	s := newStore(t)
	src := writeFile(t, filepath.Join(t.TempDir(), "site_photo.jpg"))

	stored, err := s.Resolve(src, PhaseDuring)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !s.Owns(stored, PhaseDuring) {
		t.Fatalf("stored path %q not owned by during dir", stored)
	}
	base := filepath.Base(stored)
	if !strings.HasPrefix(base, "site_photo_") || !strings.HasSuffix(base, ".jpg") {
		t.Fatalf("stored name %q should keep stem and extension", base)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source must remain untouched: %v", err)
	}
}

func TestResolveReusesOwnedPath(t *testing.T) {
	s := newStore(t)
	src := writeFile(t, filepath.Join(t.TempDir(), "a.jpg"))

	first, err := s.Resolve(src, PhaseBefore)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Resolve(first, PhaseBefore)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Fatalf("owned path should be reused unchanged: %q vs %q", second, first)
	}

	entries, err := os.ReadDir(s.Dir(PhaseBefore))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("reuse must not copy a second file, have %d", len(entries))
	}
}

func TestResolveUniqueNamesForSameBase(t *testing.T) {
	s := newStore(t)
	dir := t.TempDir()
	src1 := writeFile(t, filepath.Join(dir, "one", "x.jpg"))
	src2 := writeFile(t, filepath.Join(dir, "two", "x.jpg"))

	p1, err := s.Resolve(src1, PhaseAfter)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := s.Resolve(src2, PhaseAfter)
	if err != nil {
		t.Fatal(err)
	}
	if p1 == p2 {
		t.Fatalf("colliding basenames must map to distinct stored files: %q", p1)
	}
}

func TestResolveMissingSource(t *testing.T) {
	s := newStore(t)
	_, err := s.Resolve(filepath.Join(t.TempDir(), "gone.jpg"), PhaseTesting)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("want ErrSourceNotFound, got %v", err)
	}
}

func TestResolveRejectsUnknownPhase(t *testing.T) {
	s := newStore(t)
	src := writeFile(t, filepath.Join(t.TempDir(), "a.jpg"))
	if _, err := s.Resolve(src, Phase("sideways")); err == nil {
		t.Fatal("expected error for unknown phase")
	}
}

func TestReleaseToleratesMissingAndEmpty(t *testing.T) {
	s := newStore(t)

	removed, err := s.Release("")
	if err != nil || removed {
		t.Fatalf("Release(\"\") = %v, %v", removed, err)
	}

	removed, err = s.Release(filepath.Join(t.TempDir(), "never-existed.jpg"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if removed {
		t.Fatal("nothing should have been removed")
	}
}

func TestReleaseDeletesStoredFile(t *testing.T) {
	s := newStore(t)
	src := writeFile(t, filepath.Join(t.TempDir(), "a.jpg"))
	stored, err := s.Resolve(src, PhaseBefore)
	if err != nil {
		t.Fatal(err)
	}

	removed, err := s.Release(stored)
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Fatal("expected removal")
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Fatal("stored file should be gone")
	}
}
