package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stormlightlabs/clipstash/internal/app"
	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/shared"
	"github.com/stormlightlabs/clipstash/internal/tray"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	searchRegex       string
	searchFuzzy       string
	searchLabels      []string
	searchNotLabels   []string
	searchAfter       string
	searchBefore      string
	searchLimit       int
	searchFormat      string
	searchConstraints string
)

func newSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search the clipboard history",
		Long: `Search stored clips. Text arguments must appear in the clip; the other
filters combine with it. Results are newest first, except that a fuzzy
pattern ranks by match score.

Times accept unix seconds, RFC 3339, a date (2006-01-02) or a duration
before now (36h).`,
		Example: `  clipstash search hello
  clipstash search -z hlo -L favourite
  clipstash search -r '^https?://' --after 24h -f json
  echo '[{"type":"textContains","data":"x"}]' | clipstash search --constraints -`,
		RunE: runSearch,
	}

	cmd.Flags().StringVarP(&searchRegex, "regex", "r", "", "Regular expression the text must match")
	cmd.Flags().StringVarP(&searchFuzzy, "fuzzy", "z", "", "Fuzzy pattern, ranks results by score")
	cmd.Flags().StringSliceVarP(&searchLabels, "label", "L", nil, "Require a label (repeatable)")
	cmd.Flags().StringSliceVar(&searchNotLabels, "not-label", nil, "Exclude a label (repeatable)")
	cmd.Flags().StringVar(&searchAfter, "after", "", "Only clips copied after this time")
	cmd.Flags().StringVar(&searchBefore, "before", "", "Only clips copied before this time")
	cmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Maximum number of results (0 uses search_clip_per_batch)")
	cmd.Flags().StringVarP(&searchFormat, "format", "f", "table", "Output format (table, json, yaml, ids)")
	cmd.Flags().StringVar(&searchConstraints, "constraints", "", "Read a JSON constraint list from a file, or - for stdin")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cs, err := searchConstraintsFromFlags(cmd, args, time.Now())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	clips, err := a.SearchClips(ctx, cs)
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		if !quiet {
			p.PrintError("No results found")
		}
		return nil
	}

	rows, err := newClipRows(cmd, a, clips, a.Config().Snapshot().SearchPageClipMaxShowLength)
	if err != nil {
		return err
	}
	return writeRows(cmd.OutOrStdout(), searchFormat, rows)
}

func searchConstraintsFromFlags(cmd *cobra.Command, args []string, now time.Time) ([]clip.Constraint, error) {
	var cs []clip.Constraint
	if searchConstraints != "" {
		loaded, err := readConstraints(cmd.InOrStdin(), searchConstraints)
		if err != nil {
			return nil, err
		}
		cs = append(cs, loaded...)
	}

	if text := strings.Join(args, " "); text != "" {
		cs = append(cs, clip.Contains(text))
	}
	if searchRegex != "" {
		cs = append(cs, clip.Regex(searchRegex))
	}
	if searchFuzzy != "" {
		cs = append(cs, clip.Fuzzy(searchFuzzy))
	}
	for _, l := range searchLabels {
		cs = append(cs, clip.WithLabel(l))
	}
	for _, l := range searchNotLabels {
		cs = append(cs, clip.WithoutLabel(l))
	}
	if searchAfter != "" {
		ts, err := parseTime(searchAfter, now)
		if err != nil {
			return nil, fmt.Errorf("--after: %w", err)
		}
		cs = append(cs, clip.After(ts))
	}
	if searchBefore != "" {
		ts, err := parseTime(searchBefore, now)
		if err != nil {
			return nil, fmt.Errorf("--before: %w", err)
		}
		cs = append(cs, clip.Before(ts))
	}
	if searchLimit > 0 {
		cs = append(cs, clip.MaxResults(int64(searchLimit)))
	}
	return cs, nil
}

func readConstraints(stdin io.Reader, src string) ([]clip.Constraint, error) {
	var (
		data []byte
		err  error
	)
	if src == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("read constraints: %w", err)
	}
	var cs []clip.Constraint
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("parse constraints: %w", err)
	}
	return cs, nil
}

// parseTime reads a point in time as unix seconds.
func parseTime(s string, now time.Time) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t.Unix(), nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d).Unix(), nil
	}
	return 0, fmt.Errorf("unrecognised time %q", s)
}

// clipRow is the listing form of a clip shared by the search and pinned
// commands.
type clipRow struct {
	ID        int64    `json:"id" yaml:"id"`
	Type      string   `json:"type" yaml:"type"`
	Timestamp int64    `json:"timestamp" yaml:"timestamp"`
	Labels    []string `json:"labels" yaml:"labels"`
	Text      string   `json:"text" yaml:"text"`
}

func newClipRows(cmd *cobra.Command, a *app.App, clips []clip.Clip, width int) ([]clipRow, error) {
	rows := make([]clipRow, len(clips))
	for i, c := range clips {
		labels, err := a.Store().ClipLabels(cmd.Context(), c.ID)
		if err != nil {
			return nil, err
		}
		if labels == nil {
			labels = []string{}
		}
		rows[i] = clipRow{
			ID:        c.ID,
			Type:      c.Type.String(),
			Timestamp: c.Timestamp,
			Labels:    labels,
			Text:      tray.Trim(shared.OneLine(c.SearchText), width),
		}
	}
	return rows, nil
}

func writeRows(w io.Writer, format string, rows []clipRow) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		b, err := yaml.Marshal(rows)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case "ids":
		for _, r := range rows {
			fmt.Fprintln(w, r.ID)
		}
		return nil
	case "table", "":
		writeRowsTable(w, rows)
		return nil
	default:
		return fmt.Errorf("unknown format %q (use table, json, yaml or ids)", format)
	}
}

func writeRowsTable(w io.Writer, rows []clipRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Type", "Copied", "Labels", "Text"})

	for _, r := range rows {
		labels := make([]string, len(r.Labels))
		for i, l := range r.Labels {
			labels[i] = p.FormatLabel(l)
		}
		t.AppendRow(table.Row{
			r.ID,
			shared.Capitalize(r.Type),
			time.Unix(r.Timestamp, 0).Format(timeLayout),
			strings.Join(labels, ", "),
			r.Text,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
