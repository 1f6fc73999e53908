package image

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

var storedNamePattern = regexp.MustCompile(`^[a-z0-9.-]+$`)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveSanitizesFilename(t *testing.T) {
	s := newTestStore(t)

	name, err := s.Save("Mango Tree!.JPG", "image/jpeg", 12, strings.NewReader("fake jpg data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if name != "mango-tree-.jpg" {
		t.Errorf("stored name = %q", name)
	}
	if !storedNamePattern.MatchString(name) {
		t.Errorf("stored name %q contains unsafe characters", name)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), name)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestSaveRejectsBadUploads(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Save("notes.txt", "text/plain", 10, strings.NewReader("hi")); err != ErrNotAnImage {
		t.Errorf("expected ErrNotAnImage, got %v", err)
	}
	if _, err := s.Save("big.jpg", "image/jpeg", MaxFileSize+1, strings.NewReader("")); err != ErrTooLarge {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if _, err := s.Save("....", "image/png", 5, strings.NewReader("x")); err != ErrInvalidFilename {
		t.Errorf("expected ErrInvalidFilename, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)

	older := filepath.Join(s.Dir(), "older.jpg")
	newer := filepath.Join(s.Dir(), "newer.jpg")
	if err := os.WriteFile(older, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newer, []byte("bb"), 0o644); err != nil {
		t.Fatal(err)
	}
	// ReadDir mtime resolution can be coarse, pin the order explicitly
	if err := os.Chtimes(older, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	files, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].Name != "newer.jpg" || files[1].Name != "older.jpg" {
		t.Errorf("unexpected order: %q then %q", files[0].Name, files[1].Name)
	}
	if files[0].URL != "/images/newer.jpg" {
		t.Errorf("url = %q", files[0].URL)
	}
	if files[1].Size != 1 {
		t.Errorf("size = %d", files[1].Size)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Save("mango.jpg", "image/jpeg", 4, strings.NewReader("data")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("mango.jpg"); err != nil {
		t.Errorf("delete: %v", err)
	}
	if err := s.Delete("mango.jpg"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// traversal names must be rejected before touching the filesystem
func TestDeleteRejectsTraversal(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"../secret", "..", "a/b.jpg", `a\b.jpg`, ""} {
		if err := s.Delete(name); err != ErrInvalidFilename {
			t.Errorf("Delete(%q) = %v, want ErrInvalidFilename", name, err)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Mango Tree!.JPG": "mango-tree-.jpg",
		"photo.png":       "photo.png",
		"über fröhlich":   "-ber-fr-hlich",
		"....":            "",
		"---":             "",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
