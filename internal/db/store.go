package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/stormlightlabs/clipstash/internal/cache"
	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/errs"
)

// Store is the clip database. It holds a single connection, so concurrent
// callers are serialised on it.
type Store struct {
	db    *sql.DB
	clips *cache.Clips
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errs.E(errs.OpenDatabase, "open", errors.New("db path is required"))
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errs.E(errs.OpenDatabase, "open", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errs.E(errs.OpenDatabase, "ping", err)
	}
	return &Store{db: db, clips: cache.NewClips(cache.DefaultCapacity)}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init brings the schema up to CurrentVersion and creates any missing
// tables. It must run before any other method.
func (s *Store) Init(ctx context.Context, opts MigrateOptions) error {
	if err := s.Migrate(ctx, opts); err != nil {
		return err
	}
	return s.EnsureSchema(ctx)
}

// EnsureSchema creates the current tables if absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createClipsTable("clips")); err != nil {
		return errs.E(errs.DatabaseWrite, "init clips table", err)
	}
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return errs.E(errs.DatabaseWrite, "init labels table", err)
	}
	labels, err := s.Labels(ctx)
	if err != nil {
		return err
	}
	for _, label := range labels {
		if _, err := s.db.ExecContext(ctx, createLabelTable(label)); err != nil {
			return errs.E(errs.DatabaseWrite, fmt.Sprintf("init label table %q", label), err)
		}
	}
	return nil
}

func (s *Store) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// DB returns the underlying SQL database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Vacuum compacts the database file.
func (s *Store) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `VACUUM`)
	if err != nil {
		return errs.E(errs.DatabaseWrite, "vacuum", err)
	}
	log.Debug("database vacuumed")
	return nil
}

func scanClip(row interface{ Scan(...any) error }) (clip.Clip, error) {
	var c clip.Clip
	var typ int
	if err := row.Scan(&c.ID, &typ, &c.Data, &c.SearchText, &c.Timestamp); err != nil {
		return clip.Clip{}, err
	}
	c.Type = clip.Type(typ)
	data, err := decodeData(c.Type, c.Data)
	if err != nil {
		return clip.Clip{}, fmt.Errorf("decode clip %d: %w", c.ID, err)
	}
	c.Data = data
	return c, nil
}
