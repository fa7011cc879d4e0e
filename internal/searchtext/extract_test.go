package searchtext

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/errs"
)

type lineEngine []string

func (e lineEngine) Recognize(ctx context.Context, image []byte) ([]string, error) {
	return e, nil
}

func resetEngine(t *testing.T) {
	t.Helper()
	engineMu.Lock()
	engine = nil
	engineMu.Unlock()
	t.Cleanup(func() {
		engineMu.Lock()
		engine = nil
		engineMu.Unlock()
	})
}

func TestBound(t *testing.T) {
	long := strings.Repeat("a", 999) + "é" + "tail"
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trim", "  hello \n", "hello"},
		{"empty", "   ", ""},
		{"exact", strings.Repeat("x", MaxLen), strings.Repeat("x", MaxLen)},
		{"codepoint boundary", long, strings.Repeat("a", 999)},
		{"invalid utf8", "ok\xffok", "okok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bound(tt.input)
			if got != tt.want {
				t.Errorf("Bound(%.20q) = %.20q (len %d), want %.20q (len %d)", tt.input, got, len(got), tt.want, len(tt.want))
			}
			if len(got) > MaxLen || !utf8.ValidString(got) {
				t.Errorf("Bound(%.20q) violates bound: len %d, valid %v", tt.input, len(got), utf8.ValidString(got))
			}
		})
	}
}

func TestBoundMultibyte(t *testing.T) {
	for _, unit := range []string{"é", "€", "😀"} {
		got := Bound(strings.Repeat(unit, 600))
		if len(got) > MaxLen || !utf8.ValidString(got) {
			t.Errorf("Bound(%q x600) len %d valid %v", unit, len(got), utf8.ValidString(got))
		}
		if MaxLen-len(got) >= len(unit) {
			t.Errorf("Bound(%q x600) cut too early: len %d", unit, len(got))
		}
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"paragraphs", "<p>Hello <b>world</b></p><p>Second</p>", "Hello world\nSecond"},
		{"br", "one<br>two", "one\ntwo"},
		{"script dropped", "<html><head><style>p{}</style></head><body><script>x()</script>visible</body></html>", "visible"},
		{"list", "<ul><li>a</li><li>b</li></ul>", "a\nb"},
		{"whitespace collapsed", "<div>  lots   of\n\tspace </div>", "lots of space"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTMLToText(tt.input)
			if err != nil {
				t.Fatalf("HTMLToText() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("HTMLToText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHTMLToTextWraps(t *testing.T) {
	input := "<p>" + strings.Repeat("word ", 40) + "</p>"
	got, err := HTMLToText(input)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(got, "\n") {
		if len(line) > LineWidth {
			t.Errorf("line longer than %d: %q", LineWidth, line)
		}
	}
	if !strings.Contains(got, "\n") {
		t.Error("expected wrapped output")
	}
}

func TestRTFToText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"basic",
			`{\rtf1\ansi{\fonttbl\f0\fswiss Helvetica;}\f0\pard Hello {\b world}\par Second line\'e9\u8364?}`,
			"Hello world\nSecond lineé€",
		},
		{"escapes", `{\rtf1 a\{b\}c\\d}`, `a{b}c\d`},
		{"ignorable destination", `{\rtf1{\*\generator Riched20;}text}`, "text"},
		{"tab", `{\rtf1 a\tab b}`, "a\tb"},
		{"unicode skip count", `{\rtf1\uc2\u21253??x}`, "包x"},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RTFToText(tt.input); got != tt.want {
				t.Errorf("RTFToText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		typ     clip.Type
		payload string
		want    string
	}{
		{"text", clip.Text, "  copied  ", "copied"},
		{"file", clip.File, `["file:///tmp/a.txt"]`, `["file:///tmp/a.txt"]`},
		{"html", clip.HTML, "<p>Hi <i>there</i></p>", "Hi there"},
		{"rtf", clip.RTF, `{\rtf1 plain}`, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(context.Background(), tt.typ, []byte(tt.payload))
			if err != nil {
				t.Fatalf("Extract() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract(%s, %q) = %q, want %q", tt.typ, tt.payload, got, tt.want)
			}
		})
	}
}

func TestExtractImageRequiresEngine(t *testing.T) {
	resetEngine(t)

	_, err := Extract(context.Background(), clip.Image, []byte{0, 1, 2})
	if !errs.Is(err, errs.OcrNotInitialised) {
		t.Fatalf("Extract(image) error = %v, want OcrNotInitialised", err)
	}

	if err := InitEngine(lineEngine{"first line", "second"}); err != nil {
		t.Fatalf("InitEngine() error: %v", err)
	}
	got, err := Extract(context.Background(), clip.Image, []byte{0, 1, 2})
	if err != nil {
		t.Fatalf("Extract(image) error: %v", err)
	}
	if got != "first line\nsecond" {
		t.Errorf("Extract(image) = %q", got)
	}
}

func TestInitEngineOnce(t *testing.T) {
	resetEngine(t)

	if err := InitEngine(lineEngine{}); err != nil {
		t.Fatalf("first InitEngine() error: %v", err)
	}
	if !Initialised() {
		t.Error("Initialised() = false after InitEngine")
	}
	err := InitEngine(lineEngine{})
	if !errs.Is(err, errs.OcrEngineFull) {
		t.Errorf("second InitEngine() error = %v, want OcrEngineFull", err)
	}
}

func TestInitMissingModels(t *testing.T) {
	resetEngine(t)
	if err := Init("/nonexistent/det.cfg", "/nonexistent/eng.traineddata"); !errs.Is(err, errs.Path) {
		t.Errorf("Init() error = %v, want Path", err)
	}
}
