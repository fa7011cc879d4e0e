package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stormlightlabs/clipstash/internal/web"
)

var webAddr string

func newWebCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Browse the clip history in a web browser",
		Long: `Serve a local web page for searching and viewing clips. Copying from the
page needs a clipboard; without one the rest of the view still works.

The server has no authentication. Keep it on a loopback address.`,
		Example: "clipstash web --addr 127.0.0.1:7410",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, openOptions{board: true, optional: true})
			if err != nil {
				return err
			}
			defer a.Close()
			go a.Drain(ctx, nil)

			p.PrintInfo("Serving http://" + webAddr)
			return web.NewServer(a, webAddr).Start(ctx)
		},
	}
	cmd.Flags().StringVarP(&webAddr, "addr", "a", "127.0.0.1:7410", "Address to listen on")
	return cmd
}
