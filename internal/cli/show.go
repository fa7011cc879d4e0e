package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/render"
)

var (
	showFormat string
	showRaw    bool
	showWidth  int
)

func newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored clip",
		Long: `Show one clip. Text is wrapped to the terminal width, HTML is rendered
as markdown and file lists are printed one URI per line.

--raw writes the stored payload bytes unchanged, which is how image clips
are extracted.`,
		Example: `  clipstash show 42
  clipstash show 42 -f yaml
  clipstash show 7 --raw > shot.png`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().StringVarP(&showFormat, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&showRaw, "raw", false, "Write the raw payload")
	cmd.Flags().IntVarP(&showWidth, "width", "w", 80, "Wrap width for text output")

	return cmd
}

// clipDetail is the structured form of a clip. Binary payloads are left
// out; Text carries the searchable text instead.
type clipDetail struct {
	ID        int64    `json:"id" yaml:"id"`
	Type      string   `json:"type" yaml:"type"`
	Timestamp int64    `json:"timestamp" yaml:"timestamp"`
	Copied    string   `json:"copied" yaml:"copied"`
	Labels    []string `json:"labels" yaml:"labels"`
	Files     []string `json:"files,omitempty" yaml:"files,omitempty"`
	Text      string   `json:"text" yaml:"text"`
}

func newClipDetail(c clip.Clip) clipDetail {
	d := clipDetail{
		ID:        c.ID,
		Type:      c.Type.String(),
		Timestamp: c.Timestamp,
		Copied:    time.Unix(c.Timestamp, 0).Format(time.RFC3339),
		Labels:    c.Labels,
		Text:      c.SearchText,
	}
	if d.Labels == nil {
		d.Labels = []string{}
	}
	switch c.Type {
	case clip.File:
		d.Files, _ = c.Files()
	case clip.Text, clip.HTML, clip.RTF:
		d.Text = c.Text()
	}
	return d
}

func runShow(cmd *cobra.Command, args []string) error {
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

	c, err := a.Clip(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showRaw {
		_, err := out.Write(c.Data)
		return err
	}

	switch showFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(newClipDetail(c))
	case "yaml":
		b, err := yaml.Marshal(newClipDetail(c))
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	case "text", "":
		opts := render.Options{Width: showWidth, Dark: a.Config().Snapshot().DarkMode, Plain: noColor}.Detect()
		return writeClipText(out, c, opts)
	default:
		return fmt.Errorf("unknown format %q (use text, json or yaml)", showFormat)
	}
}

func writeClipText(w io.Writer, c clip.Clip, opts render.Options) error {
	body, err := render.Clip(c, opts)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("#%d %s  %s", c.ID, c.Type, time.Unix(c.Timestamp, 0).Format(timeLayout))
	fmt.Fprintln(w, p.Styles.Header.Render(header))
	if len(c.Labels) > 0 {
		labels := make([]string, len(c.Labels))
		for i, l := range c.Labels {
			labels[i] = p.FormatLabel(l)
		}
		fmt.Fprintln(w, strings.Join(labels, " "))
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, body)
	if !strings.HasSuffix(body, "\n") {
		fmt.Fprintln(w)
	}
	return nil
}
