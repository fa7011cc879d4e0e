package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/clipstash/internal/cache"
	"github.com/stormlightlabs/clipstash/internal/event"
	"github.com/stormlightlabs/clipstash/internal/logging"
)

func newDaemonCommand() *cobra.Command {
	var detection, recognition string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Watch the clipboard and record every change",
		Long: `Run the clipboard monitor in the foreground. Every new clipboard value is
stored, deduplicated against the current clip, and indexed for search.

Image clips are indexed with the tesseract CLI. Pass --detection with a
tesseract config file (page segmentation) and --recognition with a
.traineddata language model to enable it.`,
		Example: `  clipstash daemon
  clipstash daemon --detection psm6.config --recognition eng.traineddata`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, openOptions{board: true, detection: detection, recognition: recognition})
			if err != nil {
				return err
			}
			defer a.Close()

			closer, err := logging.Setup(cache.LogPath(a.DataDir()), a.Config().Snapshot().LogLevel)
			if err != nil {
				return err
			}
			defer closer.Close()
			if verbose {
				log.SetLevel(log.DebugLevel)
			}

			log.Info("watching clipboard", "data_dir", a.DataDir())
			return a.Run(ctx, func(e event.Event) {
				log.Debug("event", "kind", e.Kind, "id", e.ID)
			})
		},
	}

	cmd.Flags().StringVar(&detection, "detection", "", "tesseract config file controlling page segmentation")
	cmd.Flags().StringVar(&recognition, "recognition", "", "tesseract .traineddata language model")
	return cmd
}
