// Package uploads stores gift images on the local filesystem.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const timestampLayout = "20060102150405"

var (
	ErrInvalidName      = errors.New("invalid image name")
	ErrExtensionRefused = errors.New("file type not allowed")
)

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"webp": {},
}

// ImageStore keeps uploaded images flat in a single directory.
type ImageStore struct {
	dir string
	now func() time.Time
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}
	return &ImageStore{dir: dir, now: time.Now}, nil
}

func (s *ImageStore) Dir() string {
	return s.dir
}

// Allowed reports whether filename has an accepted image extension.
func Allowed(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[i+1:])]
	return ok
}

// Save writes r under a timestamped, sanitized name and returns that name.
// An existing file with the same name is replaced.
func (s *ImageStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if !Allowed(originalName) {
		return "", ErrExtensionRefused
	}

	secure := SecureFilename(originalName)
	if secure == "" {
		secure = "image"
	}
	name := s.now().Format(timestampLayout) + "_" + secure

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("write image file: %w", err)
	}

	slog.DebugContext(ctx, "Image stored", "name", name, "bytes", n)
	return name, nil
}

// Remove deletes a stored image. A file that is already gone is not an error.
func (s *ImageStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image %s: %w", name, err)
	}
	return nil
}

// Path resolves a stored name to its file, refusing anything that could
// escape the images directory.
func (s *ImageStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// SecureFilename reduces a client supplied filename to a safe ASCII name:
// accents are folded, path separators and whitespace become underscores and
// every other character outside [A-Za-z0-9._-] is dropped. Leading and
// trailing dots and underscores are trimmed.
func SecureFilename(name string) string {
	var ascii strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < unicode.MaxASCII {
			ascii.WriteRune(r)
		}
	}

	s := strings.NewReplacer("/", " ", `\`, " ").Replace(ascii.String())
	s = strings.Join(strings.Fields(s), "_")

	var out strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '-':
			out.WriteRune(r)
		}
	}
	return strings.Trim(out.String(), "._")
}
