// Package app wires slowly together: configuration, logging, the single
// instance lock, the store, the mirrored domain model, the completion engine,
// the quote selector and desktop notifications. Every shell (TUI, CLI, HTTP)
// goes through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dori/slowly/internal/completion"
	"github.com/dori/slowly/internal/config"
	"github.com/dori/slowly/internal/db"
	"github.com/dori/slowly/internal/mirror"
	"github.com/dori/slowly/internal/notify"
	"github.com/dori/slowly/internal/quote"
	"github.com/dori/slowly/internal/store"
	"github.com/gofrs/flock"
)

var (
	// ErrPersist wraps every failed store write
	ErrPersist = errors.New("could not save")
	// ErrLocked is returned when another shell holds the data directory
	ErrLocked = errors.New("another instance of slowly is already running")
	// ErrNotCompletable is returned when a completion draft cannot be opened
	ErrNotCompletable = errors.New("nothing to complete")
)

// Options controls how the application is assembled
type Options struct {
	Config     *config.Config
	ConfigPath string // where quote settings are saved, empty to never save
	Lock       bool   // take the single instance lock
	Memory     bool   // use an in-memory store instead of SQLite
	Logger     *slog.Logger
}

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Store    store.Store
	DB       *db.DB // nil with the memory store
	Mirror   *mirror.Mirror
	Engine   *completion.Engine
	Quotes   *quote.Selector
	Notifier *notify.Notifier
	Log      *slog.Logger
	Location *time.Location

	configPath string
	lockFile   *flock.Flock
	logFile    io.Closer
	now        func() time.Time

	mu      sync.Mutex
	editing string // task id of the open edit draft
}

// New creates a new application instance
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	mode, err := quote.ParseMode(cfg.Quote.Mode)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		Mirror:     mirror.New(),
		Quotes:     quote.NewSelector(mode, cfg.Quote.FixedIndex),
		Notifier:   notify.NewNotifier(cfg.Notifications),
		Location:   loc,
		configPath: opts.ConfigPath,
		now:        time.Now,
	}

	app.Log = opts.Logger
	if app.Log == nil {
		logger, closer, err := NewLogger(cfg)
		if err != nil {
			return nil, err
		}
		app.Log, app.logFile = logger, closer
	}

	if opts.Lock {
		if err := app.acquireLock(); err != nil {
			app.closeLog()
			return nil, err
		}
	}

	if opts.Memory {
		app.Store = store.NewMemoryStore(app.Log)
	} else {
		database, err := db.Open(cfg.DatabasePath(), app.Log)
		if err != nil {
			app.releaseLock()
			app.closeLog()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		app.DB = database
		app.Store = database
	}

	app.Engine = completion.New(app.Mirror, app.Store, app.Log)
	app.Quotes.Recompute(nil)

	app.Log.Info("app started", "data_dir", cfg.DataDir, "memory", opts.Memory)
	return app, nil
}

// NewLogger returns a debug file logger when cfg.Debug is set (SLOWLY_DEBUG=1
// sets it too), otherwise a logger that drops everything.
func NewLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	if !cfg.Debug {
		return slog.New(slog.DiscardHandler), nil, nil
	}

	f, err := os.OpenFile(cfg.DebugLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), f, nil
}

// SetClock replaces the clock used for new records, drafts and history
func (a *App) SetClock(now func() time.Time) {
	a.now = now
	a.Engine.SetClock(now)
	if m, ok := a.Store.(*store.MemoryStore); ok {
		m.SetClock(now)
	}
}

// Now returns the application clock
func (a *App) Now() time.Time {
	return a.now()
}

// Sync loads every collection once into the mirror. One-shot CLI commands
// use it instead of Start.
func (a *App) Sync(ctx context.Context) error {
	for _, c := range store.Collections {
		snap, err := a.Store.Load(ctx, c)
		if err != nil {
			return fmt.Errorf("load %s: %w", c, err)
		}
		a.Mirror.Apply(snap)
		a.afterApply(snap.Collection)
	}
	return nil
}

// afterApply keeps derived state in step with the mirror
func (a *App) afterApply(c store.Collection) {
	if c == store.CollectionQuotes {
		a.Quotes.Recompute(a.Mirror.Quotes())
	}
}

// Start follows the store until ctx is done. onChange, if set, runs after
// every snapshot is applied. With SQLite, writes from other processes are
// picked up every poll_interval.
func (a *App) Start(ctx context.Context, onChange func(store.Collection)) {
	go func() {
		err := a.Mirror.Run(ctx, a.Store, a.Log, func(c store.Collection) {
			a.afterApply(c)
			if onChange != nil {
				onChange(c)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			a.Log.Error("subscription ended", "err", err)
		}
	}()

	if a.DB != nil {
		go a.DB.Watch(ctx, a.Config.PollInterval)
	}
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	a.lockFile = flock.New(a.Config.LockPath())

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrLocked
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

func (a *App) closeLog() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	a.releaseLock()
	a.closeLog()

	return errors.Join(errs...)
}

// persistErr logs a failed write, raises a desktop notice and wraps it
func (a *App) persistErr(action string, err error) error {
	if err == nil {
		return nil
	}
	a.Log.Error("write failed", "action", action, "err", err)
	wrapped := fmt.Errorf("%w: %s: %w", ErrPersist, action, err)
	if nerr := a.Notifier.SendFailure(wrapped.Error()); nerr != nil {
		a.Log.Debug("notification failed", "err", nerr)
	}
	return wrapped
}
