package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/tray"
)

// Backend is the subset of the clipboard manager the browser drives.
type Backend interface {
	Tray(ctx context.Context) (tray.View, error)
	TurnPage(ctx context.Context, delta int) (tray.View, error)
	FirstPage(ctx context.Context) (tray.View, error)
	SearchClips(ctx context.Context, cs []clip.Constraint) ([]clip.Clip, error)
	Clip(ctx context.Context, id int64) (clip.Clip, error)
	CopyClipToClipboard(ctx context.Context, id int64) error
	SwitchPinned(ctx context.Context, id int64) (bool, error)
	ChangeFavourite(ctx context.Context, id int64, favourite bool) error
	DeleteClip(ctx context.Context, id int64) error
}

type Options struct {
	// SearchLimit caps result lists. Zero leaves it to the backend.
	SearchLimit int
	// ResultWidth trims search result rows.
	ResultWidth int
	// PreviewWidth is the wrap width of the preview pane.
	PreviewWidth int
	Dark         bool
	// Refresh delivers a signal whenever the store changed underneath the
	// browser, typically from the event bus.
	Refresh <-chan struct{}
}

// Run starts the Bubble Tea program until the user quits or ctx ends.
func Run(ctx context.Context, b Backend, opts Options) error {
	p := tea.NewProgram(NewRootModel(ctx, b, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if opts.Refresh != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-opts.Refresh:
					if !ok {
						return
					}
					p.Send(refreshMsg{})
				}
			}
		}()
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
