package clipboard

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"golang.design/x/clipboard"

	"github.com/stormlightlabs/clipstash/internal/errs"
)

var (
	initOnce sync.Once
	initErr  error
)

// System is the OS clipboard. Only text and PNG images are exposed by the
// platform layer, so the file, HTML and RTF readers never report data.
type System struct{}

// NewSystem initialises the platform clipboard.
func NewSystem() (*System, error) {
	initOnce.Do(func() { initErr = clipboard.Init() })
	if initErr != nil {
		return nil, errs.E(errs.ClipboardRead, "init clipboard", initErr)
	}
	return &System{}, nil
}

func (s *System) ReadImage(ctx context.Context) ([]byte, bool, error) {
	b := clipboard.Read(clipboard.FmtImage)
	return b, len(b) > 0, nil
}

func (s *System) ReadFiles(ctx context.Context) ([]string, bool, error) { return nil, false, nil }
func (s *System) ReadHTML(ctx context.Context) (string, bool, error)    { return "", false, nil }
func (s *System) ReadRTF(ctx context.Context) (string, bool, error)     { return "", false, nil }

func (s *System) ReadText(ctx context.Context) (string, bool, error) {
	b := clipboard.Read(clipboard.FmtText)
	return string(b), b != nil, nil
}

func (s *System) WriteText(ctx context.Context, text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (s *System) WriteImage(ctx context.Context, png []byte) error {
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}

// Changes merges the text and image watchers of the platform layer.
func (s *System) Changes(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	texts := clipboard.Watch(ctx, clipboard.FmtText)
	images := clipboard.Watch(ctx, clipboard.FmtImage)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-texts:
				if !ok {
					texts = nil
					continue
				}
			case _, ok := <-images:
				if !ok {
					images = nil
					continue
				}
			}
			select {
			case out <- struct{}{}:
			default:
				log.Debug("clipboard change coalesced")
			}
		}
	}()
	return out
}
