package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"media-catalog/internal/filters"
	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/metrics"
	"media-catalog/internal/simhash"
)

// Insert persists a new asset record, assigning its ID. Tags and
// hashes are written in the same transaction as the record itself.
func (s *Store) Insert(ctx context.Context, a *Asset) error {
	done := observeQuery("insert_asset")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filterJSON, err := json.Marshal(emptyIfNil(a.Filters))
	if err != nil {
		done(err)
		return fmt.Errorf("failed to encode filters: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		done(err)
		return mapErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("rollback failed: %v", rbErr)
			}
		}
	}()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO assets (slug, medium, path, stamp, width, height, duration, latitude, longitude, filters)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Slug, string(a.Medium), a.Path, stampValue(a.Stamp),
		nullableInt(a.Width), nullableInt(a.Height), nullableFloat(a.Duration),
		nullableFloat(a.Latitude), nullableFloat(a.Longitude),
		string(filterJSON))
	if err != nil {
		done(err)
		return mapErr(err)
	}

	a.ID, _ = result.LastInsertId()

	if err := s.writeTags(ctx, tx, a.ID, a.Tags); err != nil {
		done(err)
		return mapErr(err)
	}
	if err := s.writeHashes(ctx, tx, a.ID, a.Hashes); err != nil {
		done(err)
		return mapErr(err)
	}

	if err := tx.Commit(); err != nil {
		done(err)
		return mapErr(err)
	}
	committed = true

	metrics.StoreAssets.Inc()
	done(nil)
	return nil
}

// Get returns the asset with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*Asset, error) {
	done := observeQuery("get_asset")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	a, err := s.scanOne(ctx, `
		SELECT id, slug, medium, path, stamp, width, height, duration, latitude, longitude, filters
		FROM assets WHERE id = ?
	`, id)
	done(err)
	return a, err
}

// GetBySlug resolves an asset by slug or unique slug prefix. Returns
// ErrNotFound when nothing matches and ErrAmbiguousSlug when the
// prefix matches more than one asset.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*Asset, error) {
	done := observeQuery("get_asset_by_slug")

	if !validSlugPrefix(slug) {
		done(ErrNotFound)
		return nil, fmt.Errorf("%w: slug %q", ErrNotFound, slug)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, slug, medium, path, stamp, width, height, duration, latitude, longitude, filters
		FROM assets WHERE slug LIKE ? || '%' ORDER BY slug LIMIT 2
	`, slug)
	if err != nil {
		err = mapErr(err)
		done(err)
		return nil, err
	}
	assets, err := s.collect(ctx, rows)
	if err != nil {
		done(err)
		return nil, err
	}

	switch len(assets) {
	case 0:
		done(ErrNotFound)
		return nil, fmt.Errorf("%w: slug %q", ErrNotFound, slug)
	case 1:
		done(nil)
		return assets[0], nil
	default:
		done(ErrAmbiguousSlug)
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousSlug, slug)
	}
}

// Update replaces the persisted record for the asset as a whole:
// scalar columns, tag set, and hashes in one transaction.
func (s *Store) Update(ctx context.Context, a *Asset) error {
	done := observeQuery("update_asset")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filterJSON, err := json.Marshal(emptyIfNil(a.Filters))
	if err != nil {
		done(err)
		return fmt.Errorf("failed to encode filters: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		done(err)
		return mapErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("rollback failed: %v", rbErr)
			}
		}
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE assets
		SET stamp = ?, width = ?, height = ?, duration = ?,
		    latitude = ?, longitude = ?, filters = ?,
		    updated_at = strftime('%s', 'now')
		WHERE id = ?
	`, stampValue(a.Stamp), nullableInt(a.Width), nullableInt(a.Height),
		nullableFloat(a.Duration), nullableFloat(a.Latitude),
		nullableFloat(a.Longitude), string(filterJSON), a.ID)
	if err != nil {
		done(err)
		return mapErr(err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		done(ErrNotFound)
		return fmt.Errorf("%w: id %d", ErrNotFound, a.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM asset_tags WHERE asset_id = ?", a.ID); err != nil {
		done(err)
		return mapErr(err)
	}
	if err := s.writeTags(ctx, tx, a.ID, a.Tags); err != nil {
		done(err)
		return mapErr(err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM hashes WHERE asset_id = ?", a.ID); err != nil {
		done(err)
		return mapErr(err)
	}
	if err := s.writeHashes(ctx, tx, a.ID, a.Hashes); err != nil {
		done(err)
		return mapErr(err)
	}

	if err := tx.Commit(); err != nil {
		done(err)
		return mapErr(err)
	}
	committed = true
	done(nil)
	return nil
}

// Delete removes an asset and all its associations. Returns
// ErrNotFound if the id is unknown or already deleted.
func (s *Store) Delete(ctx context.Context, id int64) error {
	done := observeQuery("delete_asset")

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		err = mapErr(err)
		done(err)
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		done(ErrNotFound)
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	metrics.StoreAssets.Dec()
	done(nil)
	return nil
}

// ExistsPath reports whether an asset has already been imported from
// the given path.
func (s *Store) ExistsPath(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM assets WHERE path = ?", path,
	).Scan(&count)
	if err != nil {
		return false, mapErr(err)
	}
	return count > 0, nil
}

// Count returns the number of assets in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	done := observeQuery("count_assets")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets").Scan(&count)
	if err != nil {
		err = mapErr(err)
		done(err)
		return 0, err
	}
	done(nil)
	return count, nil
}

// writeTags inserts the asset's tag associations, creating tag rows as
// needed. Caller owns the transaction.
func (s *Store) writeTags(ctx context.Context, tx *sql.Tx, assetID int64, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		var tagID int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", name).Scan(&tagID)
		if errors.Is(err, sql.ErrNoRows) {
			result, createErr := tx.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name)
			if createErr != nil {
				return fmt.Errorf("failed to create tag %q: %w", name, createErr)
			}
			tagID, _ = result.LastInsertId()
		} else if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO asset_tags (asset_id, tag_id) VALUES (?, ?)",
			assetID, tagID,
		); err != nil {
			return err
		}
	}
	return nil
}

// writeHashes inserts the asset's perceptual hashes. Caller owns the
// transaction.
func (s *Store) writeHashes(ctx context.Context, tx *sql.Tx, assetID int64, hashes []simhash.Hash) error {
	for _, h := range hashes {
		if h.Nibbles == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO hashes (asset_id, flavor, nibbles, time) VALUES (?, ?, ?, ?)",
			assetID, string(h.Flavor), h.Nibbles, h.Time,
		); err != nil {
			return err
		}
	}
	return nil
}

// scanOne runs a single-row asset query and loads its relations.
func (s *Store) scanOne(ctx context.Context, query string, args ...interface{}) (*Asset, error) {
	row := s.db.QueryRowContext(ctx, query, args...)
	a, err := scanAsset(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w", ErrNotFound)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	if err := s.loadRelations(ctx, a); err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

// collect drains an asset rowset and loads relations for each record.
func (s *Store) collect(ctx context.Context, rows *sql.Rows) ([]*Asset, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("error closing rows: %v", err)
		}
	}()

	var assets []*Asset
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, mapErr(err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}

	for _, a := range assets {
		if err := s.loadRelations(ctx, a); err != nil {
			return nil, mapErr(err)
		}
	}
	return assets, nil
}

// validSlugPrefix reports whether s could be the prefix of a slug.
// Slugs are lowercase hex, so anything else (notably the LIKE
// wildcards % and _) cannot match and is rejected before the query.
func validSlugPrefix(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func scanAsset(scan func(...interface{}) error) (*Asset, error) {
	var (
		a        Asset
		medium   string
		stamp    sql.NullInt64
		width    sql.NullInt64
		height   sql.NullInt64
		duration sql.NullFloat64
		lat      sql.NullFloat64
		lng      sql.NullFloat64
		filtJSON string
	)
	if err := scan(&a.ID, &a.Slug, &medium, &a.Path, &stamp, &width, &height, &duration, &lat, &lng, &filtJSON); err != nil {
		return nil, err
	}
	a.Medium = mediatypes.Medium(medium)
	if stamp.Valid {
		a.Stamp = time.Unix(stamp.Int64, 0).UTC()
	}
	if width.Valid {
		a.Width = int(width.Int64)
	}
	if height.Valid {
		a.Height = int(height.Int64)
	}
	if duration.Valid {
		a.Duration = duration.Float64
	}
	if lat.Valid {
		a.Latitude = lat.Float64
	}
	if lng.Valid {
		a.Longitude = lng.Float64
	}
	if err := json.Unmarshal([]byte(filtJSON), &a.Filters); err != nil {
		return nil, fmt.Errorf("corrupt filter column for asset %d: %w", a.ID, err)
	}
	return &a, nil
}

// loadRelations populates Tags and Hashes. Caller must hold at least a
// read lock.
func (s *Store) loadRelations(ctx context.Context, a *Asset) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name
		FROM tags t
		INNER JOIN asset_tags at ON t.id = at.tag_id
		WHERE at.asset_id = ?
		ORDER BY t.name
	`, a.ID)
	if err != nil {
		return err
	}
	a.Tags = nil
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			a.Tags = append(a.Tags, name)
		}
	}
	if err := rows.Close(); err != nil {
		logging.Error("error closing rows: %v", err)
	}

	hashRows, err := s.db.QueryContext(ctx, `
		SELECT flavor, nibbles, time
		FROM hashes WHERE asset_id = ? ORDER BY flavor, time, nibbles
	`, a.ID)
	if err != nil {
		return err
	}
	a.Hashes = nil
	for hashRows.Next() {
		var h simhash.Hash
		var flavor string
		if err := hashRows.Scan(&flavor, &h.Nibbles, &h.Time); err == nil {
			h.Flavor = simhash.Flavor(flavor)
			a.Hashes = append(a.Hashes, h)
		}
	}
	if err := hashRows.Close(); err != nil {
		logging.Error("error closing rows: %v", err)
	}
	return nil
}

func emptyIfNil(fs []filters.Filter) []filters.Filter {
	if fs == nil {
		return []filters.Filter{}
	}
	return fs
}

func stampValue(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}

func nullableInt(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

func nullableFloat(v float64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
