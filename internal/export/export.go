// Package export writes and reads the portable archive of clips, labels,
// schema history and configuration.
package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/codec"
	"github.com/stormlightlabs/clipstash/internal/config"
	"github.com/stormlightlabs/clipstash/internal/db"
	"github.com/stormlightlabs/clipstash/internal/errs"
)

// FileName is the archive name written into an export directory.
const FileName = "copy_clip_data.gz"

const sep = ":"

// Source is the store side of an export.
type Source interface {
	Versions(ctx context.Context) ([]db.VersionRow, error)
	ClipIDs(ctx context.Context) ([]int64, error)
	GetClip(ctx context.Context, id int64) (clip.Clip, bool, error)
	ClipLabels(ctx context.Context, id int64) ([]string, error)
}

// Sink is the store side of an import.
type Sink interface {
	NewClip(ctx context.Context, c clip.Clip, autoDelete bool) (int64, error)
	ChangeClipLabel(ctx context.Context, id int64, label string, add bool) error
}

// Archive is a decoded export.
type Archive struct {
	Config   *config.Config
	Versions []db.VersionRow
	Clips    []clip.Clip
}

// Export writes the archive of src to w: gzip over colon-terminated base64
// blocks of the config, the version history and then every clip in
// ascending id order.
func Export(ctx context.Context, w io.Writer, src Source, cfg config.Config) error {
	var body bytes.Buffer
	block := func(v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		body.WriteString(base64.StdEncoding.EncodeToString(b))
		body.WriteString(sep)
		return nil
	}

	if err := block(cfg); err != nil {
		return errs.E(errs.Export, "encode config", err)
	}

	versions, err := src.Versions(ctx)
	if err != nil {
		return err
	}
	pairs := make([][2]any, len(versions))
	for i, v := range versions {
		pairs[i] = [2]any{v.ID, v.Version}
	}
	if err := block(pairs); err != nil {
		return errs.E(errs.Export, "encode versions", err)
	}

	ids, err := src.ClipIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, ok, err := src.GetClip(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if c.Labels, err = src.ClipLabels(ctx, id); err != nil {
			return err
		}
		if err := block(c); err != nil {
			return errs.E(errs.Export, fmt.Sprintf("encode clip %d", id), err)
		}
	}

	if err := codec.GzipTo(w, body.Bytes()); err != nil {
		return errs.E(errs.Export, "compress", err)
	}
	log.Info("exported clips", "count", len(ids))
	return nil
}

// ExportFile writes the archive as FileName inside dir and returns its path.
func ExportFile(ctx context.Context, dir string, src Source, cfg config.Config) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.E(errs.Path, "create export dir", err)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", errs.E(errs.Path, "create export file", err)
	}
	if err := Export(ctx, f, src, cfg); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errs.E(errs.Path, "close export file", err)
	}
	return path, nil
}

// Decode parses an archive.
func Decode(compressed []byte) (*Archive, error) {
	raw, err := codec.Gunzip(compressed)
	if err != nil {
		return nil, errs.E(errs.Export, "decompress", err)
	}

	blocks := strings.Split(string(raw), sep)
	if len(blocks) < 3 || blocks[len(blocks)-1] != "" {
		return nil, errs.Errorf(errs.Export, "decode", "malformed archive")
	}
	blocks = blocks[:len(blocks)-1]

	decode := func(i int, v any) error {
		b, err := base64.StdEncoding.DecodeString(blocks[i])
		if err != nil {
			return err
		}
		return json.Unmarshal(b, v)
	}

	var cfgJSON json.RawMessage
	if err := decode(0, &cfgJSON); err != nil {
		return nil, errs.E(errs.Export, "decode config", err)
	}
	cfg, err := config.Parse(cfgJSON)
	if err != nil {
		return nil, err
	}
	a := &Archive{Config: cfg}

	var pairs [][2]json.RawMessage
	if err := decode(1, &pairs); err != nil {
		return nil, errs.E(errs.Export, "decode versions", err)
	}
	for _, p := range pairs {
		var v db.VersionRow
		if err := json.Unmarshal(p[0], &v.ID); err != nil {
			return nil, errs.E(errs.Export, "decode versions", err)
		}
		if err := json.Unmarshal(p[1], &v.Version); err != nil {
			return nil, errs.E(errs.Export, "decode versions", err)
		}
		a.Versions = append(a.Versions, v)
	}

	for i := 2; i < len(blocks); i++ {
		var c clip.Clip
		if err := decode(i, &c); err != nil {
			return nil, errs.E(errs.Export, fmt.Sprintf("decode clip block %d", i-2), err)
		}
		a.Clips = append(a.Clips, c)
	}
	return a, nil
}

// Import stores every clip of an archive with fresh ids and its labels,
// and returns the archived configuration.
func Import(ctx context.Context, r io.Reader, dst Sink) (*Archive, error) {
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.E(errs.Path, "read archive", err)
	}
	a, err := Decode(compressed)
	if err != nil {
		return nil, err
	}

	for _, c := range a.Clips {
		id, err := dst.NewClip(ctx, clip.Clip{Type: c.Type, Data: c.Data, SearchText: c.SearchText, Timestamp: c.Timestamp}, false)
		if err != nil {
			return nil, err
		}
		for _, label := range c.Labels {
			if err := dst.ChangeClipLabel(ctx, id, label, true); err != nil {
				return nil, err
			}
		}
	}
	log.Info("imported clips", "count", len(a.Clips))
	return a, nil
}

// ImportFile imports the archive at path.
func ImportFile(ctx context.Context, path string, dst Sink) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.E(errs.Path, "open archive", err)
	}
	defer f.Close()
	return Import(ctx, f, dst)
}
