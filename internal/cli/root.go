// Package cli wires the clipstash commands.
package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/clipstash/internal/app"
	"github.com/stormlightlabs/clipstash/internal/clipboard"
	"github.com/stormlightlabs/clipstash/internal/db"
)

// Version is the application version. It matches the schema version the
// store migrates to.
const Version = db.CurrentVersion

var (
	dataDir    string
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
)

var p = NewPrinter()

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "clipstash",
		Short: "A clipboard history manager",
		Long: `Clipstash records everything you copy, keeps it searchable and lets you
pin, label and re-copy past clips from the terminal, a tray browser or an
MCP-speaking agent.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			p.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&dataDir, "data-dir", "D", "", "Data directory (default: $XDG_DATA_HOME/clipstash)")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: config.json in the data directory)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newDaemonCommand(),
		newSearchCommand(),
		newShowCommand(),
		newCopyCommand(),
		newDeleteCommand(),
		newFavouriteCommand(),
		newPinCommand(),
		newPinnedCommand(),
		newLabelsCommand(),
		newLabelCommand(),
		newExportCommand(),
		newImportCommand(),
		newConfigCommand(),
		newTrayCommand(),
		newMCPCommand(),
		newWebCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

type openOptions struct {
	// board attaches the system clipboard. When optional is set a missing
	// clipboard only logs a warning.
	board    bool
	optional bool

	detection   string
	recognition string
}

// openApp opens the store for a command. The log level follows the
// configuration unless --verbose was given.
func openApp(ctx context.Context, opts openOptions) (*app.App, error) {
	o := app.Options{
		DataDir:     dataDir,
		ConfigPath:  configPath,
		Detection:   opts.detection,
		Recognition: opts.recognition,
	}
	if opts.board {
		board, err := clipboard.NewSystem()
		switch {
		case err == nil:
			o.Board = board
		case opts.optional:
			log.Warn("clipboard unavailable", "err", err)
		default:
			return nil, err
		}
	}

	a, err := app.Open(ctx, o)
	if err != nil {
		return nil, err
	}
	if !verbose {
		log.SetLevel(a.Config().Snapshot().LogLevel.Charm())
	}
	return a, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid clip id %q", s)
	}
	return id, nil
}
