package db

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stormlightlabs/clipstash/internal/blob"
	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/errs"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "database"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Init(context.Background(), MigrateOptions{}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	return s
}

func addText(t *testing.T, s *Store, text string, ts int64) int64 {
	t.Helper()
	id, err := s.NewClip(context.Background(), clip.Clip{Type: clip.Text, Data: []byte(text), SearchText: text, Timestamp: ts}, false)
	if err != nil {
		t.Fatalf("NewClip(%q) error: %v", text, err)
	}
	return id
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); !errs.Is(err, errs.OpenDatabase) {
		t.Errorf("Open(\"\") error = %v, want OpenDatabase", err)
	}
}

func TestLabelTable(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"pinned", "label_OBUW43TFMQ______"},
		{"favourite", "label_MZQXM33VOJUXIZI_"},
		{"a", "label_ME______"},
	}
	for _, tt := range tests {
		if got := LabelTable(tt.label); got != tt.want {
			t.Errorf("LabelTable(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

// TestNewClipPositions checks insertion order against the position helpers
func TestNewClipPositions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := addText(t, s, "a", 1)
	b := addText(t, s, "b", 2)
	c := addText(t, s, "c", 3)

	count, err := s.CountClips(ctx)
	if err != nil || count != 3 {
		t.Fatalf("CountClips() = %d, %v; want 3", count, err)
	}

	for pos, want := range []int64{a, b, c} {
		id, ok, err := s.IDAtPos(ctx, pos)
		if err != nil || !ok || id != want {
			t.Errorf("IDAtPos(%d) = %d, %v, %v; want %d", pos, id, ok, err, want)
		}
		got, ok, err := s.PosOfID(ctx, want)
		if err != nil || !ok || got != pos {
			t.Errorf("PosOfID(%d) = %d, %v, %v; want %d", want, got, ok, err, pos)
		}
	}

	if _, ok, _ := s.IDAtPos(ctx, 3); ok {
		t.Error("IDAtPos(3) found an id past the end")
	}
	if _, ok, _ := s.PosOfID(ctx, 99); ok {
		t.Error("PosOfID(99) found a missing id")
	}

	latest, ok, err := s.LatestClipID(ctx)
	if err != nil || !ok || latest != c {
		t.Errorf("LatestClipID() = %d, %v, %v; want %d", latest, ok, err, c)
	}
}

func TestGetClipRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	in := clip.Clip{Type: clip.HTML, Data: []byte("<p>hello</p>"), SearchText: "hello", Timestamp: 42}
	id, err := s.NewClip(ctx, in, false)
	if err != nil {
		t.Fatal(err)
	}

	var raw []byte
	if err := s.DB().QueryRow(`SELECT data FROM clips WHERE id = ?`, id).Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if string(raw) == string(in.Data) {
		t.Error("html payload stored uncompressed")
	}

	s.clips.Clear()
	got, ok, err := s.GetClip(ctx, id)
	if err != nil || !ok {
		t.Fatalf("GetClip() = %v, %v", ok, err)
	}
	if !got.Same(in) || got.SearchText != "hello" || got.Timestamp != 42 {
		t.Errorf("GetClip() = %+v", got)
	}

	if _, ok, err := s.GetClip(ctx, id+1); ok || err != nil {
		t.Errorf("GetClip(missing) = %v, %v", ok, err)
	}
}

func TestNewClipAutoDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	addText(t, s, "dup", 1)
	addText(t, s, "other", 2)
	if _, err := s.NewClip(ctx, clip.Clip{Type: clip.Text, Data: []byte("dup"), SearchText: "dup", Timestamp: 3}, true); err != nil {
		t.Fatal(err)
	}

	count, _ := s.CountClips(ctx)
	if count != 2 {
		t.Errorf("CountClips() = %d, want 2", count)
	}

	if _, err := s.NewClip(ctx, clip.Clip{Type: clip.Text, Data: []byte("other"), SearchText: "other", Timestamp: 4}, false); err != nil {
		t.Fatal(err)
	}
	count, _ = s.CountClips(ctx)
	if count != 3 {
		t.Errorf("CountClips() without auto delete = %d, want 3", count)
	}
}

// TestLabelCascade pins a clip, deletes it and expects the membership gone
func TestLabelCascade(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	addText(t, s, "one", 1)
	id := addText(t, s, "two", 2)

	if err := s.ChangeClipLabel(ctx, id, clip.LabelPinned, true); err != nil {
		t.Fatal(err)
	}
	if err := s.ChangeClipLabel(ctx, id, "work", true); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.LabelClipCount(ctx, clip.LabelPinned); n != 1 {
		t.Fatalf("LabelClipCount(pinned) = %d, want 1", n)
	}

	if err := s.DeleteClip(ctx, id); err != nil {
		t.Fatal(err)
	}
	for _, label := range []string{clip.LabelPinned, "work"} {
		if n, _ := s.LabelClipCount(ctx, label); n != 0 {
			t.Errorf("LabelClipCount(%s) after delete = %d, want 0", label, n)
		}
	}

	if err := s.DeleteClip(ctx, id); err != nil {
		t.Errorf("second DeleteClip() error: %v", err)
	}
}

func TestChangeClipLabel(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := addText(t, s, "a", 1)
	b := addText(t, s, "b", 2)

	if err := s.ChangeClipLabel(ctx, 99, "work", true); !errs.Is(err, errs.ClipNotFound) {
		t.Errorf("label missing clip error = %v, want ClipNotFound", err)
	}
	if err := s.ChangeClipLabel(ctx, a, "nope", false); err != nil {
		t.Errorf("removing unknown label error: %v", err)
	}

	for _, id := range []int64{b, a} {
		if err := s.ChangeClipLabel(ctx, id, clip.LabelFavourite, true); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.ChangeClipLabel(ctx, a, clip.LabelFavourite, true); err != nil {
		t.Errorf("re-adding label error: %v", err)
	}

	id, ok, err := s.LabelClipIDAtPos(ctx, clip.LabelFavourite, 0)
	if err != nil || !ok || id != a {
		t.Errorf("LabelClipIDAtPos(0) = %d, %v, %v; want %d", id, ok, err, a)
	}
	if _, ok, _ := s.LabelClipIDAtPos(ctx, clip.LabelFavourite, 2); ok {
		t.Error("LabelClipIDAtPos(2) found an id past the end")
	}

	labels, err := s.ClipLabels(ctx, a)
	if err != nil || len(labels) != 1 || labels[0] != clip.LabelFavourite {
		t.Errorf("ClipLabels() = %v, %v", labels, err)
	}

	if err := s.ChangeClipLabel(ctx, a, clip.LabelFavourite, false); err != nil {
		t.Fatal(err)
	}
	if has, _ := s.ClipHasLabel(ctx, a, clip.LabelFavourite); has {
		t.Error("label still present after removal")
	}
	if has, _ := s.ClipHasLabel(ctx, a, "unknown"); has {
		t.Error("ClipHasLabel(unknown) = true")
	}

	all, err := s.Labels(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"favourite", "pinned"}
	if len(all) != len(want) || all[0] != want[0] || all[1] != want[1] {
		t.Errorf("Labels() = %v, want %v", all, want)
	}
}

func TestDeleteImageRemovesBlob(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	blobs := blob.New(t.TempDir())

	path, _, err := blobs.Put([]byte{0x00, 0x01, 0x02})
	if err != nil {
		t.Fatal(err)
	}
	thumb := blob.ThumbnailPath(path)
	if err := os.WriteFile(thumb, []byte("thumb"), 0o644); err != nil {
		t.Fatal(err)
	}

	img := clip.Clip{Type: clip.Image, Data: []byte(path), Timestamp: 1}
	first, err := s.NewClip(ctx, img, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.NewClip(ctx, img, false)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteClip(ctx, first); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("blob removed while still referenced: %v", err)
	}

	if err := s.DeleteClip(ctx, second); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{path, thumb} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists after last reference deleted", p)
		}
	}
}

func TestCreateLabel(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.CreateLabel(ctx, "later"); err != nil {
		t.Fatalf("CreateLabel() error: %v", err)
	}
	if err := s.CreateLabel(ctx, "later"); err != nil {
		t.Fatalf("second CreateLabel() error: %v", err)
	}
	labels, err := s.Labels(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(labels, ",") != "favourite,later,pinned" {
		t.Errorf("Labels() = %v", labels)
	}
	if n, err := s.LabelClipCount(ctx, "later"); err != nil || n != 0 {
		t.Errorf("LabelClipCount() = %d, %v; want 0", n, err)
	}
}

func TestVacuumShrinksFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "database")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Init(ctx, MigrateOptions{}); err != nil {
		t.Fatal(err)
	}

	big := strings.Repeat("x", 64<<10)
	var ids []int64
	for i := range 32 {
		ids = append(ids, addText(t, s, big+strconv.Itoa(i), int64(i)))
	}
	for _, id := range ids {
		if err := s.DeleteClip(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Vacuum(ctx); err != nil {
		t.Fatalf("Vacuum() error: %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if after.Size() >= before.Size() {
		t.Errorf("size after vacuum = %d, want below %d", after.Size(), before.Size())
	}
}
