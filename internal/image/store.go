package image

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const MaxFileSize = 50 << 20 // 50 MiB

var (
	ErrNotFound        = errors.New("image not found")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrNotAnImage      = errors.New("not an image file")
	ErrTooLarge        = errors.New("file too large (max 50MB)")
)

// FileInfo describes one stored image.
type FileInfo struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store keeps uploaded images in a single directory served under /images.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:      entry.Name(),
			URL:       "/images/" + entry.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].CreatedAt.After(files[j].CreatedAt) })
	return files, nil
}

// Save validates and writes one uploaded file, returning the stored name.
func (s *Store) Save(filename, contentType string, size int64, r io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}
	if size > MaxFileSize {
		return "", ErrTooLarge
	}

	name := SanitizeFilename(filename)
	if name == "" {
		return "", ErrInvalidFilename
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, MaxFileSize+1)); err != nil {
		return "", err
	}
	return name, nil
}

// Delete removes a stored image by name. Traversal-looking names are
// rejected before any filesystem access.
func (s *Store) Delete(filename string) error {
	if !SafeFilename(filename) {
		return ErrInvalidFilename
	}

	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return os.Remove(path)
}

// SafeFilename rejects anything that could escape the images directory.
func SafeFilename(name string) bool {
	if name == "" {
		return false
	}
	return !strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}

// SanitizeFilename lowercases the name and reduces it to [a-z0-9.-].
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := b.String()
	if strings.Trim(out, ".-") == "" {
		return ""
	}
	// a sanitized name can still smuggle ".." via replaced runes
	if !SafeFilename(out) {
		return ""
	}
	return out
}
