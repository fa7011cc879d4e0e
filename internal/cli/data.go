package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	exportDir     string
	importRestore bool
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export clips and configuration to an archive",
		Long: `Write every clip, its labels and the current configuration to a
gzip-compressed archive named copy_clip_data.gz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, openOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			path, err := a.ExportData(ctx, exportDir)
			if err != nil {
				return err
			}
			p.PrintSuccess("Exported to " + p.FormatPath(path))
			return nil
		},
	}
	cmd.Flags().StringVarP(&exportDir, "dir", "o", "", "Directory to write the archive to (default: data directory)")
	return cmd
}

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <archive>",
		Short: "Import clips from an archive",
		Long: `Add the clips of an exported archive to the store. Imported clips get
new ids. The archived configuration is only applied with --restore-config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, openOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.ImportData(ctx, args[0], importRestore)
			if err != nil {
				return err
			}
			p.PrintSuccess(fmt.Sprintf("Imported %d clips from %s", n, p.FormatPath(args[0])))
			if importRestore {
				p.PrintInfo("Configuration restored")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&importRestore, "restore-config", false, "Replace the configuration with the archived one")
	return cmd
}
