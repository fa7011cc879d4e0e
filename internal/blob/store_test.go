package blob

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPutDeduplicates(t *testing.T) {
	s := New(t.TempDir())
	data := []byte{0x00, 0x01, 0x02}

	first, existed, err := s.Put(data)
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if existed {
		t.Error("first Put() existed = true, want false")
	}

	second, existed, err := s.Put(data)
	if err != nil {
		t.Fatalf("second Put() error: %v", err)
	}
	if !existed {
		t.Error("second Put() existed = false, want true")
	}
	if first != second {
		t.Errorf("paths differ: %s vs %s", first, second)
	}

	var files int
	_ = filepath.WalkDir(filepath.Join(s.Root(), dirName), func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files++
		}
		return nil
	})
	if files != 1 {
		t.Errorf("found %d blob files, want 1", files)
	}
}

func TestPutLayout(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	data := []byte("png bytes")
	h := Hash(data)

	path, _, err := s.Put(data)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "img", h[0:2], h[2:4], h[4:]+".png")
	if path != want {
		t.Errorf("Put() path = %s, want %s", path, want)
	}
}

func TestPutCollision(t *testing.T) {
	s := New(t.TempDir())
	s.hash = func([]byte) string { return "abcdef" }

	a, _, err := s.Put([]byte("first"))
	if err != nil {
		t.Fatal(err)
	}
	b, existed, err := s.Put([]byte("second"))
	if err != nil {
		t.Fatal(err)
	}
	c, _, err := s.Put([]byte("third"))
	if err != nil {
		t.Fatal(err)
	}

	if existed {
		t.Error("colliding Put() existed = true, want false")
	}
	if a == b || b == c || a == c {
		t.Fatalf("colliding blobs share a path: %s %s %s", a, b, c)
	}
	if !strings.HasSuffix(a, "ef0000000000.png") {
		t.Errorf("short hash not padded: %s", a)
	}
	if !strings.HasSuffix(b, "-1.png") || !strings.HasSuffix(c, "-2.png") {
		t.Errorf("suffixes = %s, %s; want -1, -2", b, c)
	}

	again, existed, err := s.Put([]byte("second"))
	if err != nil {
		t.Fatal(err)
	}
	if !existed || again != b {
		t.Errorf("re-Put(second) = %s (existed %v), want %s", again, existed, b)
	}

	got, err := Read(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("Read() = %q, want second", got)
	}
}

func TestThumbnailPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/data/img/ab/cd/ef.png", "/data/img/ab/cd/ef_thumbnail.png"},
		{"img/ab/cd/ef-1.png", "img/ab/cd/ef-1_thumbnail.png"},
		{"noext", "noext_thumbnail"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ThumbnailPath(tt.input); got != tt.expected {
				t.Errorf("ThumbnailPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	s := New(t.TempDir())
	path, _, err := s.Put([]byte("image"))
	if err != nil {
		t.Fatal(err)
	}
	thumb := ThumbnailPath(path)
	jpegThumb := strings.TrimSuffix(path, ".png") + "_thumbnail.jpg"
	other := strings.TrimSuffix(path, ".png") + "-1.png"
	for _, p := range []string{thumb, jpegThumb, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := Remove(path); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	for _, p := range []string{path, thumb, jpegThumb} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists", p)
		}
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("unrelated blob removed: %v", err)
	}

	if err := Remove(path); err != nil {
		t.Errorf("second Remove() error: %v", err)
	}
}
