package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// Default timeout for store operations
const defaultTimeout = 5 * time.Second

// Sentinel errors surfaced by store lookups.
var (
	// ErrNotFound reports an unknown asset id or slug.
	ErrNotFound = errors.New("asset not found")
	// ErrAmbiguousSlug reports a slug prefix matching more than one asset.
	ErrAmbiguousSlug = errors.New("slug prefix is ambiguous")
	// ErrUnavailable reports a transient engine failure (busy, locked,
	// or timed out). Callers may retry.
	ErrUnavailable = errors.New("store unavailable")
)

// Store manages all persistence for the media catalog.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New creates a Store backed by the SQLite database at dbPath. The
// parent directory must already exist and be writable; pass ":memory:"
// for an ephemeral store in tests.
func New(ctx context.Context, dbPath string) (*Store, error) {
	logging.Info("Store path: %s", dbPath)

	// WAL mode plus a busy timeout to ride out concurrent writers.
	// foreign_keys is needed for ON DELETE CASCADE on the join tables.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after schema failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	metrics.StoreConnectionsOpen.Set(float64(db.Stats().OpenConnections))
	logging.Info("Store initialized at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	schema := `
	-- Asset records
	CREATE TABLE IF NOT EXISTS assets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		medium TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		stamp INTEGER,
		width INTEGER,
		height INTEGER,
		duration REAL,
		latitude REAL,
		longitude REAL,
		filters TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_assets_slug ON assets(slug);
	CREATE INDEX IF NOT EXISTS idx_assets_stamp ON assets(stamp);
	CREATE INDEX IF NOT EXISTS idx_assets_medium ON assets(medium);

	-- Tags table
	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE INDEX IF NOT EXISTS idx_tags_name ON tags(name);

	-- Asset-Tag relationship table
	CREATE TABLE IF NOT EXISTS asset_tags (
		asset_id INTEGER NOT NULL,
		tag_id INTEGER NOT NULL,
		FOREIGN KEY (asset_id) REFERENCES assets(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE,
		UNIQUE(asset_id, tag_id)
	);

	CREATE INDEX IF NOT EXISTS idx_asset_tags_asset ON asset_tags(asset_id);
	CREATE INDEX IF NOT EXISTS idx_asset_tags_tag ON asset_tags(tag_id);

	-- Perceptual hashes; (flavor, nibbles) is the bucket index used by
	-- content-similarity candidate retrieval.
	CREATE TABLE IF NOT EXISTS hashes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset_id INTEGER NOT NULL,
		flavor TEXT NOT NULL,
		nibbles TEXT NOT NULL,
		time REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (asset_id) REFERENCES assets(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_hashes_bucket ON hashes(flavor, nibbles);
	CREATE INDEX IF NOT EXISTS idx_hashes_asset ON hashes(asset_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// observeQuery records per-operation metrics. Call the returned func
// with the operation's final error.
func observeQuery(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.StoreQueryTotal.WithLabelValues(operation, status).Inc()
		metrics.StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// mapErr converts engine-level transient failures into ErrUnavailable
// so callers can distinguish "retry later" from hard errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		if se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return err
}
