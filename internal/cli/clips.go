package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/errs"
)

var (
	copyHold        bool
	favouriteRemove bool
	labelRemove     bool
	pinnedFormat    string
)

func newCopyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a stored clip back to the clipboard",
		Long: `Copy a stored clip back to the clipboard and make it the current clip.

On X11 the clipboard is owned by the writing process, so --hold keeps
clipstash running until interrupted. A running daemon does not need it.`,
		Args: cobra.ExactArgs(1),
		RunE: runCopy,
	}
	cmd.Flags().BoolVar(&copyHold, "hold", false, "Keep serving the clipboard until interrupted")
	return cmd
}

func runCopy(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, openOptions{board: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.CopyClipToClipboard(ctx, id); err != nil {
		return err
	}
	p.PrintSuccess(fmt.Sprintf("Copied clip %d", id))

	if copyHold {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		p.PrintInfo("Holding the clipboard, press Ctrl-C to release")
		<-ctx.Done()
	}
	return nil
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete clips",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, len(args))
			for i, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids[i] = id
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, openOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			for _, id := range ids {
				if err := a.DeleteClip(ctx, id); err != nil {
					return err
				}
				p.PrintSuccess(fmt.Sprintf("Deleted clip %d", id))
			}
			return nil
		},
	}
}

func newFavouriteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favourite <id>",
		Aliases: []string{"fav"},
		Short:   "Mark a clip as favourite",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, openOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ChangeFavourite(ctx, id, !favouriteRemove); err != nil {
				return err
			}
			if favouriteRemove {
				p.PrintSuccess(fmt.Sprintf("Clip %d is no longer a favourite", id))
			} else {
				p.PrintSuccess(fmt.Sprintf("Clip %d marked as favourite", id))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&favouriteRemove, "remove", false, "Remove the favourite mark")
	return cmd
}

func newPinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Toggle the pinned state of a clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, openOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.Clip(ctx, id); err != nil {
				return err
			}
			pinned, err := a.SwitchPinned(ctx, id)
			if err != nil {
				return err
			}
			if pinned {
				p.PrintSuccess(fmt.Sprintf("Pinned clip %d", id))
			} else {
				p.PrintSuccess(fmt.Sprintf("Unpinned clip %d", id))
			}
			return nil
		},
	}
}

func newPinnedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pinned",
		Short: "List pinned clips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, openOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			ids, err := a.Store().LabelClipIDs(ctx, clip.LabelPinned)
			if err != nil {
				return err
			}
			if len(ids) == 0 && (pinnedFormat == "table" || pinnedFormat == "") {
				p.PrintInfo("No pinned clips")
				return nil
			}

			clips := make([]clip.Clip, 0, len(ids))
			for _, id := range ids {
				c, err := a.Clip(ctx, id)
				if errs.Is(err, errs.ClipNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				clips = append(clips, c)
			}

			rows, err := newClipRows(cmd, a, clips, a.Config().Snapshot().ClipMaxShowLength)
			if err != nil {
				return err
			}
			return writeRows(cmd.OutOrStdout(), pinnedFormat, rows)
		},
	}
	cmd.Flags().StringVarP(&pinnedFormat, "format", "f", "table", "Output format (table, json, yaml, ids)")
	return cmd
}

func newLabelsCommand() *cobra.Command {
	var create []string

	cmd := &cobra.Command{
		Use:     "labels",
		Short:   "List labels with their clip counts",
		Example: "  clipstash labels\n  clipstash labels --create work --create later",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, openOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			for _, name := range create {
				if err := a.CreateLabel(ctx, name); err != nil {
					return err
				}
				if !quiet {
					p.PrintSuccess("Created label " + name)
				}
			}
			if len(create) > 0 {
				return nil
			}

			labels, err := a.Labels(ctx)
			if err != nil {
				return err
			}
			for _, l := range labels {
				n, err := a.Store().LabelClipCount(ctx, l)
				if err != nil {
					return err
				}
				p.PrintListItem(l, fmt.Sprintf("%d", n))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&create, "create", "c", nil, "create an empty label")
	return cmd
}

func newLabelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label <id> <name>",
		Short: "Add or remove a label on a clip",
		Long: `Attach a label to a clip, creating the label when it does not exist.
Use --remove to detach it again.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[1])
			if name == "" {
				return fmt.Errorf("label name must not be empty")
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, openOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ChangeLabel(ctx, id, name, !labelRemove); err != nil {
				return err
			}
			if labelRemove {
				p.PrintSuccess(fmt.Sprintf("Removed %s from clip %d", p.FormatLabel(name), id))
			} else {
				p.PrintSuccess(fmt.Sprintf("Labelled clip %d %s", id, p.FormatLabel(name)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&labelRemove, "remove", false, "Remove the label instead")
	return cmd
}
