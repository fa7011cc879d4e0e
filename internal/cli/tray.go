package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/clipstash/internal/event"
	"github.com/stormlightlabs/clipstash/internal/tui"
)

func newTrayCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "tray",
		Short: "Browse the clipboard history interactively",
		Long: `Launch the interactive clip browser: the tray menu's pinned, favourite and
recent sections, paging, search and preview.

With --watch the browser also records clipboard changes while it is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, openOptions{board: true, optional: !watch})
			if err != nil {
				return err
			}
			defer a.Close()

			// the browser owns the terminal
			log.SetOutput(io.Discard)

			refresh := make(chan struct{}, 1)
			notify := func(e event.Event) {
				if e.Kind != event.RebuildTrayMenu && e.Kind != event.PinnedClipsChanged {
					return
				}
				select {
				case refresh <- struct{}{}:
				default:
				}
			}

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			if watch {
				go func() {
					if err := a.Run(runCtx, notify); err != nil {
						log.Error("monitor stopped", "err", err)
					}
				}()
			} else {
				go a.Drain(runCtx, notify)
			}

			snap := a.Config().Snapshot()
			return tui.Run(ctx, a, tui.Options{
				SearchLimit:  snap.SearchClipPerBatch * 10,
				ResultWidth:  snap.SearchPageClipMaxShowLength,
				PreviewWidth: 100,
				Dark:         snap.DarkMode,
				Refresh:      refresh,
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", true, "Record clipboard changes while browsing")
	return cmd
}
