// Package app is the clipboard manager core: it owns the store, the intake
// pipeline and the tray state, and exposes the operations front ends call.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/stormlightlabs/clipstash/internal/blob"
	"github.com/stormlightlabs/clipstash/internal/cache"
	"github.com/stormlightlabs/clipstash/internal/clipboard"
	"github.com/stormlightlabs/clipstash/internal/config"
	"github.com/stormlightlabs/clipstash/internal/db"
	"github.com/stormlightlabs/clipstash/internal/event"
	"github.com/stormlightlabs/clipstash/internal/intake"
	"github.com/stormlightlabs/clipstash/internal/searchtext"
)

type Options struct {
	// DataDir defaults to cache.DataDir().
	DataDir string
	// ConfigPath defaults to config.json inside DataDir.
	ConfigPath string
	// Detection and Recognition are the OCR model files. When both are
	// empty image clips cannot be stored.
	Detection   string
	Recognition string
	// Board is the clipboard. Nil disables intake and copying.
	Board clipboard.Port
}

type App struct {
	dataDir string
	store   *db.Store
	blobs   *blob.Store
	cfg     *config.Guard
	board   clipboard.Port
	events  *event.Bus
	current *intake.Selection
	intake  *intake.Pipeline

	mu   sync.Mutex
	page int
}

// Open resolves the data directory, loads the configuration and brings the
// database to the current schema. Any failure here is fatal to startup.
func Open(ctx context.Context, opts Options) (*App, error) {
	dir, err := cache.EnsureDataDir(opts.DataDir)
	if err != nil {
		return nil, err
	}
	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = cache.ConfigPath(dir)
	}

	if opts.Detection != "" || opts.Recognition != "" {
		if err := searchtext.Init(opts.Detection, opts.Recognition); err != nil {
			return nil, err
		}
	}

	store, err := db.Open(cache.DatabasePath(dir))
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx, db.MigrateOptions{ConfigPath: cfgPath}); err != nil {
		_ = store.Close()
		return nil, err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := &App{
		dataDir: dir,
		store:   store,
		blobs:   blob.New(dir),
		cfg:     config.NewGuard(cfg, cfgPath),
		board:   opts.Board,
		events:  event.NewBus(),
		current: &intake.Selection{},
	}
	if a.board != nil {
		a.intake = intake.New(store, a.blobs, a.board, a.cfg, a.events, a.current)
	}
	log.Debug("app opened", "data_dir", dir, "config", cfgPath)
	return a, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) DataDir() string { return a.dataDir }

// Store exposes the clip store to front ends that read it directly.
func (a *App) Store() *db.Store { return a.store }

func (a *App) Config() *config.Guard { return a.cfg }

// Events is the notification stream. Exactly one front end should drain it.
func (a *App) Events() <-chan event.Event { return a.events.Events() }

func (a *App) notify(ctx context.Context, kind event.Kind, id int64) {
	if err := a.events.Send(ctx, event.Event{Kind: kind, ID: id}); err != nil {
		log.Warn("event dropped", "kind", kind, "err", err)
	}
}

// Run drives intake from the clipboard until ctx ends, handing each
// notification to handle. Run is the single consumer of Events.
func (a *App) Run(ctx context.Context, handle func(event.Event)) error {
	if a.intake == nil {
		return errors.New("no clipboard attached")
	}

	errc := make(chan error, 1)
	go func() { errc <- a.intake.Run(ctx, a.board.Changes(ctx)) }()

	for {
		select {
		case e := <-a.events.Events():
			if e.Kind == event.SaveConfig {
				if err := a.persistConfig(); err != nil {
					log.Error("saving config failed", "err", err)
				}
			}
			if handle != nil {
				handle(e)
			}
		case err := <-errc:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// Drain consumes notifications until ctx ends, for front ends that do not
// run the monitor.
func (a *App) Drain(ctx context.Context, handle func(event.Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-a.events.Events():
			if handle != nil {
				handle(e)
			}
		}
	}
}

// HandleClipboard runs intake once, outside the monitor loop.
func (a *App) HandleClipboard(ctx context.Context) (int64, bool, error) {
	if a.intake == nil {
		return 0, false, errors.New("no clipboard attached")
	}
	return a.intake.Handle(ctx)
}

func (a *App) persistConfig() error {
	if a.cfg.Path() == "" {
		return nil
	}
	snap := a.cfg.Snapshot()
	if err := snap.Save(a.cfg.Path()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
