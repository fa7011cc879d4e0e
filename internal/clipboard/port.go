// Package clipboard abstracts the OS clipboard behind a small port so the
// intake pipeline can run against a real board or an in-memory one.
package clipboard

import "context"

// Port reads and writes the system clipboard. Each Read method reports
// ok=false when the board holds nothing of that format.
type Port interface {
	ReadImage(ctx context.Context) ([]byte, bool, error)
	ReadFiles(ctx context.Context) ([]string, bool, error)
	ReadHTML(ctx context.Context) (string, bool, error)
	ReadRTF(ctx context.Context) (string, bool, error)
	ReadText(ctx context.Context) (string, bool, error)

	WriteText(ctx context.Context, text string) error
	WriteImage(ctx context.Context, png []byte) error

	// Changes fires once per clipboard change until ctx ends.
	Changes(ctx context.Context) <-chan struct{}
}
