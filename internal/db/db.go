package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dori/slowly/internal/store"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/tidwall/gjson"
)

//go:embed migrations/*.sql
var migrations embed.FS

// timeFormat is fixed width so stored timestamps sort lexically
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps the SQL database connection and implements store.Store
type DB struct {
	*sql.DB
	broker *store.Broker
	log    *slog.Logger
	now    func() time.Time
}

var _ store.Store = (*DB)(nil)

// Open opens a database connection and runs migrations
func Open(dbPath string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// WAL lets a quick CLI write land while a shell holds the database open
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", dbPath)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(1) // SQLite only supports one writer
	sqlDB.SetMaxIdleConns(1)

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: sqlDB, log: logger, now: time.Now}
	db.broker = store.NewBroker(db.Load, logger)

	// Run migrations
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// migrate runs database migrations using embedded SQL files
func (db *DB) migrate() error {
	// Silence goose logging (it corrupts TUI output)
	goose.SetLogger(log.New(io.Discard, "", 0))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes subscriptions and the database connection
func (db *DB) Close() error {
	db.broker.Close()
	return db.DB.Close()
}

// Transaction executes a function within a transaction
func (db *DB) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Subscribe implements store.Subscriber
func (db *DB) Subscribe(ctx context.Context, c store.Collection) (<-chan store.Snapshot, error) {
	return db.broker.Subscribe(ctx, c)
}

// Load implements store.Loader
func (db *DB) Load(ctx context.Context, c store.Collection) (store.Snapshot, error) {
	snap := store.Snapshot{Collection: c}
	var err error
	switch c {
	case store.CollectionTasks:
		snap.Tasks, err = db.ListTasks(ctx)
	case store.CollectionTags:
		snap.Tags, err = db.ListTags(ctx)
	case store.CollectionQuotes:
		snap.Quotes, err = db.ListQuotes(ctx)
	default:
		return snap, store.ErrUnknownCollection
	}
	return snap, err
}

// Watch polls SQLite's data_version and republishes every collection when
// another connection (a quick add from the CLI, say) commits a change.
// It returns when ctx is done.
func (db *DB) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	last, err := db.dataVersion(ctx)
	if err != nil {
		db.log.Warn("watch disabled", "err", err)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v, err := db.dataVersion(ctx)
			if err != nil {
				db.log.Debug("data_version poll failed", "err", err)
				continue
			}
			if v != last {
				last = v
				db.log.Debug("external change detected", "data_version", v)
				db.broker.PublishAll(ctx)
			}
		}
	}
}

func (db *DB) dataVersion(ctx context.Context) (int64, error) {
	var v int64
	err := db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v)
	return v, err
}

// Helper functions

type scanner interface {
	Scan(dest ...interface{}) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s *string) *time.Time {
	if s == nil {
		return nil
	}
	return store.ParseTimePtr(gjson.Result{Type: gjson.String, Str: *s})
}

func intPtrValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
