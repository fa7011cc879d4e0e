// Package blob stores image payloads on disk, addressed by content hash.
package blob

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/stormlightlabs/clipstash/internal/errs"
)

const (
	dirName      = "img"
	ext          = ".png"
	minHashLen   = 16
	thumbnailTag = "_thumbnail"
)

// Store writes blobs under <root>/img.
type Store struct {
	root string
	hash func([]byte) string
}

// New creates a store rooted at the application data directory.
func New(root string) *Store {
	return &Store{root: root, hash: Hash}
}

// Root returns the data directory the store writes under.
func (s *Store) Root() string {
	return s.root
}

// Hash returns the hex 128-bit content hash, right-padded with zeros to at
// least 16 characters.
func Hash(data []byte) string {
	sum := xxh3.Hash128(data).Bytes()
	h := hex.EncodeToString(sum[:])
	if len(h) < minHashLen {
		h += strings.Repeat("0", minHashLen-len(h))
	}
	return h
}

// Put stores data and returns its path. existed is true when an identical
// blob was already on disk. Blobs whose hash collides with different bytes
// get a numeric suffix.
func (s *Store) Put(data []byte) (path string, existed bool, err error) {
	h := s.hash(data)
	if len(h) < minHashLen {
		h += strings.Repeat("0", minHashLen-len(h))
	}
	dir := filepath.Join(s.root, dirName, h[0:2], h[2:4])
	rest := h[4:]

	for n := 0; ; n++ {
		name := rest
		if n > 0 {
			name += "-" + strconv.Itoa(n)
		}
		path = filepath.Join(dir, name+ext)

		current, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		if err != nil {
			return "", false, errs.E(errs.Path, "read blob", err)
		}
		if bytes.Equal(current, data) {
			return path, true, nil
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, errs.E(errs.Path, "create blob dir", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", false, errs.E(errs.Path, "write blob", err)
	}
	return path, false, nil
}

// Read returns the bytes stored at path.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.E(errs.Path, "read blob", err)
	}
	return data, nil
}

// ThumbnailPath maps foo.png to foo_thumbnail.png.
func ThumbnailPath(imgPath string) string {
	e := filepath.Ext(imgPath)
	return strings.TrimSuffix(imgPath, e) + thumbnailTag + e
}

// Remove deletes a blob and every *_thumbnail.* sibling. Missing files are
// not an error.
func Remove(imgPath string) error {
	if err := os.Remove(imgPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errs.E(errs.Path, "remove blob", err)
	}

	dir := filepath.Dir(imgPath)
	prefix := strings.TrimSuffix(filepath.Base(imgPath), filepath.Ext(imgPath)) + thumbnailTag + "."
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errs.E(errs.Path, "list blob dir", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errs.E(errs.Path, "remove thumbnail", err)
		}
	}
	return nil
}
