package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/clipstash/internal/cache"
	"github.com/stormlightlabs/clipstash/internal/config"
)

var configFormat string

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage the clipstash configuration file.

Configuration is stored as JSON in the data directory. CLIPSTASH_CONFIG or
--config point at another file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigEditCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigPathCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE:  runConfigShow,
	}
	cmd.Flags().StringVarP(&configFormat, "format", "f", "yaml", "Output format (yaml, json)")
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.Config().Snapshot()
	out := cmd.OutOrStdout()
	switch configFormat {
	case "json":
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	case "yaml", "":
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# Configuration file: %s\n\n", a.Config().Path())
		_, err = out.Write(b)
		return err
	default:
		return fmt.Errorf("unknown format %q (use yaml or json)", configFormat)
	}
	return nil
}

func newConfigEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open configuration in editor",
		RunE:  runConfigEdit,
	}
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.DefaultConfig().Save(path); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	editCmd := exec.Command(editor, path)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := config.Parse(data); err != nil {
		p.PrintWarning(fmt.Sprintf("%s does not parse, defaults will be used: %v", path, err))
	}
	return nil
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: fmt.Sprintf(`Set a configuration value. The value is validated before it is
written.

Keys: %s`, strings.Join(config.Keys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	a, err := openApp(cmd.Context(), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.SetConfig(cmd.Context(), key, value); err != nil {
		return err
	}

	if !quiet {
		got, _ := a.GetConfig(key)
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, got)
	}
	return nil
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigGet,
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	value, err := a.GetConfig(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func configFilePath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	dir, err := cache.EnsureDataDir(dataDir)
	if err != nil {
		return "", err
	}
	return cache.ConfigPath(dir), nil
}
