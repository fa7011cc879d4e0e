package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"

	"github.com/stormlightlabs/clipstash/internal/blob"
	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/config"
	"github.com/stormlightlabs/clipstash/internal/errs"
	"github.com/stormlightlabs/clipstash/internal/searchtext"
)

const firstLaunch = "0.0.0"

// MigrateOptions configures Migrate. Version defaults to CurrentVersion.
type MigrateOptions struct {
	// ConfigPath is rewritten by the 0.3.3 step. Empty skips it.
	ConfigPath string
	Version    string
}

// VersionRow is one entry of the version history.
type VersionRow struct {
	ID      int64
	Version string
}

type migration struct {
	target string
	run    func(ctx context.Context, tx *sql.Tx) error
	// file steps run outside any transaction
	file func() error
}

func (s *Store) migrations(opts MigrateOptions) []migration {
	return []migration{
		{target: "0.3.0", run: migrateFTS},
		{target: "0.3.3", file: func() error {
			if opts.ConfigPath == "" {
				return nil
			}
			return config.RenameLegacyKeys(opts.ConfigPath)
		}},
		{target: "0.3.5", run: migrateFavourite},
		{target: "0.3.7", run: widenPinned},
		{target: "0.3.8", run: mergePinned},
		{target: "0.3.9", run: migrateLabels},
		{target: "0.3.10", run: migrateData},
	}
}

// Migrate brings the database schema from its recorded version to
// opts.Version. A fresh database only records the version.
func (s *Store) Migrate(ctx context.Context, opts MigrateOptions) error {
	if opts.Version == "" {
		opts.Version = CurrentVersion
	}
	target, err := parseVersion(opts.Version)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, versionTable); err != nil {
		return errs.E(errs.SchemaVersionWrite, "create version table", err)
	}
	raw, err := s.SavedVersion(ctx)
	if err != nil {
		return err
	}
	saved, err := parseVersion(raw)
	if err != nil {
		return err
	}

	switch c := semver.Compare(saved, target); {
	case raw == firstLaunch:
		log.Info("initialising database", "version", opts.Version)
		return s.recordVersion(ctx, opts.Version)
	case c == 0:
		return nil
	case c > 0:
		log.Warn("database is newer than this build", "saved", raw, "current", opts.Version)
		return s.recordVersion(ctx, opts.Version)
	}

	log.Info("migrating database", "from", raw, "to", opts.Version)
	if _, err := s.db.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
		return errs.E(errs.Migration, "disable foreign keys", err)
	}
	defer func() {
		if _, err := s.db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON`); err != nil {
			log.Error("failed to re-enable foreign keys", "error", err)
		}
	}()

	for _, m := range s.migrations(opts) {
		v := "v" + m.target
		if semver.Compare(saved, v) >= 0 || semver.Compare(v, target) > 0 {
			continue
		}
		log.Debug("running migration", "target", m.target)
		if m.file != nil {
			err = m.file()
		} else {
			err = s.WithTx(ctx, func(tx *sql.Tx) error { return m.run(ctx, tx) })
		}
		if err != nil {
			return errs.E(errs.Migration, m.target, err)
		}
	}
	s.clips.Clear()
	if err := s.recordVersion(ctx, opts.Version); err != nil {
		return err
	}
	// The rebuilds leave the pages of dropped tables behind.
	return s.Vacuum(ctx)
}

// SavedVersion returns the latest recorded schema version, or 0.0.0 when
// none has been written.
func (s *Store) SavedVersion(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT version FROM version ORDER BY id DESC LIMIT 1`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return firstLaunch, nil
	}
	if err != nil {
		return "", errs.E(errs.SchemaVersionRead, "read version", err)
	}
	return v, nil
}

// Versions returns the full version history in insertion order.
func (s *Store) Versions(ctx context.Context) ([]VersionRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, version FROM version ORDER BY id ASC`)
	if err != nil {
		return nil, errs.E(errs.SchemaVersionRead, "list versions", err)
	}
	defer rows.Close()

	var out []VersionRow
	for rows.Next() {
		var r VersionRow
		if err := rows.Scan(&r.ID, &r.Version); err != nil {
			return nil, errs.E(errs.SchemaVersionRead, "list versions", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.E(errs.SchemaVersionRead, "list versions", err)
	}
	return out, nil
}

func (s *Store) recordVersion(ctx context.Context, v string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO version (version) VALUES (?)`, v); err != nil {
		return errs.E(errs.SchemaVersionWrite, "record version", err)
	}
	return nil
}

// parseVersion accepts only plain M.m.p and returns it in semver form.
func parseVersion(s string) (string, error) {
	v := "v" + s
	if !semver.IsValid(v) || semver.Canonical(v) != v || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return "", errs.Errorf(errs.SchemaVersionParse, "parse version", "invalid version %q", s)
	}
	return v, nil
}

func tableColumns(ctx context.Context, q queryer, table string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", firstWords(stmt), err)
		}
	}
	return nil
}

func firstWords(stmt string) string {
	f := strings.Fields(stmt)
	if len(f) > 4 {
		f = f[:4]
	}
	return strings.Join(f, " ")
}

// migrateFTS rebuilds the pre-0.3.0 clips table as a plain table.
func migrateFTS(ctx context.Context, tx *sql.Tx) error {
	cols, err := tableColumns(ctx, tx, "clips")
	if err != nil || !cols["favorite"] {
		return err
	}
	return execAll(ctx, tx,
		`CREATE TABLE IF NOT EXISTS clips_fts (id INTEGER PRIMARY KEY, text TEXT, timestamp INTEGER, favorite INTEGER)`,
		`INSERT OR IGNORE INTO clips_fts (id, text, timestamp, favorite) SELECT id, text, timestamp, favorite FROM clips`,
		`DROP TABLE clips`,
		`ALTER TABLE clips_fts RENAME TO clips`,
	)
}

// migrateFavourite renames the favorite column to favourite.
func migrateFavourite(ctx context.Context, tx *sql.Tx) error {
	cols, err := tableColumns(ctx, tx, "clips")
	if err != nil || !cols["favorite"] {
		return err
	}
	return execAll(ctx, tx,
		`CREATE TABLE IF NOT EXISTS clips_new (id INTEGER PRIMARY KEY, text TEXT, timestamp INTEGER, favourite INTEGER)`,
		`INSERT OR IGNORE INTO clips_new (id, text, timestamp, favourite) SELECT id, text, timestamp, favorite FROM clips`,
		`DROP TABLE clips`,
		`ALTER TABLE clips_new RENAME TO clips`,
	)
}

// widenPinned turns pinned_clips(id) into pinned_clips(id, text, timestamp)
// filled from clips. It leaves an already wide table alone.
func widenPinned(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS pinned_clips (id INTEGER PRIMARY KEY)`); err != nil {
		return err
	}
	cols, err := tableColumns(ctx, tx, "pinned_clips")
	if err != nil || cols["text"] {
		return err
	}
	clips, err := tableColumns(ctx, tx, "clips")
	if err != nil {
		return err
	}
	stmts := []string{`CREATE TABLE IF NOT EXISTS pinned_clips_new (id INTEGER PRIMARY KEY, text TEXT, timestamp INTEGER)`}
	if clips["text"] {
		stmts = append(stmts, `INSERT OR IGNORE INTO pinned_clips_new (id, text, timestamp)
			SELECT id, text, timestamp FROM clips WHERE id IN (SELECT id FROM pinned_clips)`)
	}
	stmts = append(stmts, `DROP TABLE pinned_clips`, `ALTER TABLE pinned_clips_new RENAME TO pinned_clips`)
	return execAll(ctx, tx, stmts...)
}

// mergePinned folds pinned_clips into clips as a pinned column. Clip ids
// are kept; pinned rows missing from clips are appended.
func mergePinned(ctx context.Context, tx *sql.Tx) error {
	if err := widenPinned(ctx, tx); err != nil {
		return err
	}
	cols, err := tableColumns(ctx, tx, "clips")
	if err != nil || len(cols) == 0 || cols["pinned"] {
		return err
	}
	return execAll(ctx, tx,
		`CREATE TABLE IF NOT EXISTS clips_new (id INTEGER PRIMARY KEY, text TEXT, timestamp INTEGER, favourite INTEGER DEFAULT 0, pinned INTEGER DEFAULT 0)`,
		`INSERT OR IGNORE INTO clips_new (id, text, timestamp, favourite, pinned)
			SELECT id, text, timestamp, favourite, id IN (SELECT id FROM pinned_clips) FROM clips`,
		`INSERT OR IGNORE INTO clips_new (id, text, timestamp, favourite, pinned)
			SELECT id, text, timestamp, 0, 1 FROM pinned_clips WHERE id NOT IN (SELECT id FROM clips)`,
		`DROP TABLE clips`,
		`DROP TABLE pinned_clips`,
		`ALTER TABLE clips_new RENAME TO clips`,
	)
}

// migrateLabels adds the type column and moves the favourite and pinned
// flags into label tables.
func migrateLabels(ctx context.Context, tx *sql.Tx) error {
	cols, err := tableColumns(ctx, tx, "clips")
	if err != nil || len(cols) == 0 || cols["type"] {
		return err
	}
	if err := execAll(ctx, tx,
		`CREATE TABLE IF NOT EXISTS clips_new (id INTEGER PRIMARY KEY AUTOINCREMENT, type INTEGER DEFAULT 0, text TEXT, timestamp INTEGER)`,
		`INSERT OR IGNORE INTO clips_new (id, type, text, timestamp) SELECT id, 0, text, timestamp FROM clips`,
		`ALTER TABLE clips RENAME TO clips_old`,
		`ALTER TABLE clips_new RENAME TO clips`,
		`CREATE TABLE IF NOT EXISTS labels (name TEXT PRIMARY KEY)`,
	); err != nil {
		return err
	}
	for _, label := range []string{clip.LabelPinned, clip.LabelFavourite} {
		if err := ensureLabel(ctx, tx, label); err != nil {
			return err
		}
		stmt := fmt.Sprintf(`INSERT OR IGNORE INTO %s (id) SELECT id FROM clips_old WHERE %s = 1`, LabelTable(label), label)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return execAll(ctx, tx, `DROP TABLE clips_old`)
}

type legacyClip struct {
	id        int64
	typ       clip.Type
	text      string
	timestamp int64
}

// migrateData moves clips to the data/search_text layout, computing the
// search text of every row and keeping label memberships.
func migrateData(ctx context.Context, tx *sql.Tx) error {
	cols, err := tableColumns(ctx, tx, "clips")
	if err != nil || len(cols) == 0 || cols["search_text"] {
		return err
	}
	if _, err := tx.ExecContext(ctx, createClipsTable("clips_new")); err != nil {
		return err
	}

	var legacy []legacyClip
	rows, err := tx.QueryContext(ctx, `SELECT id, type, text, timestamp FROM clips`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			c    legacyClip
			typ  sql.NullInt64
			text sql.NullString
			ts   sql.NullInt64
		)
		if err := rows.Scan(&c.id, &typ, &text, &ts); err != nil {
			rows.Close()
			return err
		}
		c.typ, c.text, c.timestamp = clip.Type(typ.Int64), text.String, ts.Int64
		legacy = append(legacy, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range legacy {
		data, err := encodeData(c.typ, []byte(c.text))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clips_new (id, type, data, search_text, timestamp) VALUES (?, ?, ?, ?, ?)`,
			c.id, int(c.typ), data, legacySearchText(ctx, c), c.timestamp,
		); err != nil {
			return err
		}
	}

	var names []string
	nameRows, err := tx.QueryContext(ctx, `SELECT name FROM labels`)
	if err != nil {
		return err
	}
	for nameRows.Next() {
		var name string
		if err := nameRows.Scan(&name); err != nil {
			nameRows.Close()
			return err
		}
		names = append(names, name)
	}
	nameRows.Close()
	if err := nameRows.Err(); err != nil {
		return err
	}

	members := map[string][]int64{}
	for _, name := range names {
		ids, err := idsWhere(ctx, tx, `SELECT id FROM `+LabelTable(name))
		if err != nil {
			return err
		}
		members[name] = ids
	}

	if err := execAll(ctx, tx, `DROP TABLE clips`, `ALTER TABLE clips_new RENAME TO clips`); err != nil {
		return err
	}
	for name, ids := range members {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO `+LabelTable(name)+` (id) VALUES (?)`, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func legacySearchText(ctx context.Context, c legacyClip) string {
	if c.typ != clip.Image {
		text, err := searchtext.Extract(ctx, c.typ, []byte(c.text))
		if err == nil {
			return text
		}
		log.Warn("search text extraction failed", "id", c.id, "error", err)
		return searchtext.Bound(c.text)
	}
	img, err := blob.Read(c.text)
	if err == nil {
		var text string
		if text, err = searchtext.Extract(ctx, c.typ, img); err == nil {
			return text
		}
	}
	log.Warn("no search text for image clip", "id", c.id, "error", err)
	return ""
}
