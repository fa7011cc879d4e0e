package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stormlightlabs/clipstash/internal/clip"
)

func TestClipPlain(t *testing.T) {
	files, err := clip.EncodeFiles([]string{"file:///tmp/a", "file:///tmp/b"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		c    clip.Clip
		want string
	}{
		{"text", clip.Clip{Type: clip.Text, Data: []byte("one\r\ntwo")}, "one\ntwo"},
		{"html", clip.Clip{Type: clip.HTML, Data: []byte("<p>Hello <strong>there</strong></p>")}, "**there**"},
		{"rtf", clip.Clip{Type: clip.RTF, Data: []byte(`{\rtf1\ansi Hello}`)}, "Hello"},
		{"files", clip.Clip{Type: clip.File, Data: files}, "• file:///tmp/b\n"},
		{"missing image", clip.Clip{Type: clip.Image, Data: []byte("/nowhere.png")}, "(missing)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clip(tt.c, Options{Plain: true})
			if err != nil {
				t.Fatalf("Clip() error: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Clip() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestClipWraps(t *testing.T) {
	c := clip.Clip{Type: clip.Text, Data: []byte(strings.Repeat("word ", 40))}
	got, err := Clip(c, Options{Width: 20, Plain: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 20 {
			t.Errorf("line %q wider than 20", line)
		}
	}
}

func TestImageWithText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Clip(clip.Clip{Type: clip.Image, Data: []byte(path), SearchText: "recognised"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "(3 bytes)") || !strings.Contains(got, "recognised") {
		t.Errorf("Clip() = %q", got)
	}
}

func TestMarkdownStyled(t *testing.T) {
	for _, dark := range []bool{false, true} {
		out, err := Markdown("# Title\n\nbody", Options{Dark: dark, Width: 40})
		if err != nil {
			t.Fatalf("Markdown(dark=%v) error: %v", dark, err)
		}
		if !strings.Contains(out, "Title") || !strings.Contains(out, "body") {
			t.Errorf("Markdown(dark=%v) = %q", dark, out)
		}
	}
}

func TestHighlightSource(t *testing.T) {
	src := "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n"
	for _, dark := range []bool{false, true} {
		out, ok := Highlight(src, Options{Dark: dark})
		if !ok {
			t.Fatalf("Highlight(dark=%v) did not recognise Go source", dark)
		}
		if !strings.Contains(out, "\x1b[") || !strings.Contains(out, "Println") {
			t.Errorf("Highlight(dark=%v) = %q", dark, out)
		}
	}

	got, err := Clip(clip.Clip{Type: clip.Text, Data: []byte(src)}, Options{Plain: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "\x1b[") {
		t.Errorf("plain output carries escapes: %q", got)
	}
}
