package searchtext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/stormlightlabs/clipstash/internal/errs"
)

// Engine recognises text lines in an image.
type Engine interface {
	Recognize(ctx context.Context, image []byte) ([]string, error)
}

var (
	engineMu sync.RWMutex
	engine   Engine
)

// Init loads the OCR engine from its detection and recognition model
// files. It succeeds at most once per process.
func Init(detection, recognition string) error {
	e, err := NewTesseract(detection, recognition)
	if err != nil {
		return err
	}
	return InitEngine(e)
}

// InitEngine installs e as the process-wide OCR engine. A second call fails
// with OcrEngineFull.
func InitEngine(e Engine) error {
	engineMu.Lock()
	defer engineMu.Unlock()
	if engine != nil {
		return errs.E(errs.OcrEngineFull, "init ocr", nil)
	}
	engine = e
	return nil
}

// Initialised reports whether an engine has been installed.
func Initialised() bool {
	engineMu.RLock()
	defer engineMu.RUnlock()
	return engine != nil
}

func recognize(ctx context.Context, image []byte) ([]string, error) {
	engineMu.RLock()
	e := engine
	engineMu.RUnlock()
	if e == nil {
		return nil, errs.E(errs.OcrNotInitialised, "extract image text", nil)
	}
	return e.Recognize(ctx, image)
}

// Tesseract runs the tesseract CLI. The recognition model is a
// .traineddata file; the detection model is a tesseract config file
// controlling page segmentation.
type Tesseract struct {
	Binary      string
	Detection   string
	Recognition string
}

// NewTesseract checks that both model files exist and that the binary is
// on PATH.
func NewTesseract(detection, recognition string) (*Tesseract, error) {
	for _, p := range []string{detection, recognition} {
		if _, err := os.Stat(p); err != nil {
			return nil, errs.E(errs.Path, "ocr model", err)
		}
	}
	bin, err := exec.LookPath("tesseract")
	if err != nil {
		return nil, fmt.Errorf("tesseract not found: %w", err)
	}
	return &Tesseract{Binary: bin, Detection: detection, Recognition: recognition}, nil
}

// Recognize pipes the image through tesseract and returns the non-empty
// output lines.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]string, error) {
	lang := strings.TrimSuffix(filepath.Base(t.Recognition), ".traineddata")
	args := []string{"stdin", "stdout", "--tessdata-dir", filepath.Dir(t.Recognition), "-l", lang, t.Detection}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.Binary, args...)
	cmd.Stdin = bytes.NewReader(image)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var lines []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
