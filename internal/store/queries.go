package store

import (
	"context"
	"fmt"
	"strings"

	"media-catalog/internal/logging"
	"media-catalog/internal/simhash"
)

// FindByTags returns assets carrying every named tag, newest first
// with id as the tiebreak so pagination stays stable across calls.
// An empty tag list matches the whole catalog.
func (s *Store) FindByTags(ctx context.Context, tags []string, offset, limit int) ([]*Asset, error) {
	done := observeQuery("find_by_tags")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var sb strings.Builder
	args := make([]interface{}, 0, len(tags)+2)

	sb.WriteString(`
		SELECT a.id, a.slug, a.medium, a.path, a.stamp, a.width, a.height, a.duration, a.latitude, a.longitude, a.filters
		FROM assets a
	`)
	// One join per tag gives set intersection without GROUP BY.
	for i, tag := range tags {
		fmt.Fprintf(&sb, `
		INNER JOIN asset_tags at%d ON a.id = at%d.asset_id
		INNER JOIN tags t%d ON at%d.tag_id = t%d.id AND t%d.name = ?
		`, i, i, i, i, i, i)
		args = append(args, tag)
	}
	sb.WriteString(" ORDER BY a.stamp DESC, a.id DESC LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		err = mapErr(err)
		done(err)
		return nil, err
	}
	assets, err := s.collect(ctx, rows)
	done(err)
	return assets, err
}

// FindByHashBucket returns assets claiming any of the given hash
// values under a flavor, excluding the asset the probe came from. Used
// for neighborhood lookups where the candidate values are the Hamming
// ball around a probe hash.
func (s *Store) FindByHashBucket(ctx context.Context, flavor simhash.Flavor, nibbles []string, excludeID int64) ([]*Asset, error) {
	done := observeQuery("find_by_hash_bucket")

	if len(nibbles) == 0 {
		done(nil)
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	placeholders := strings.Repeat("?,", len(nibbles))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, 0, len(nibbles)+2)
	args = append(args, string(flavor))
	for _, n := range nibbles {
		args = append(args, n)
	}
	args = append(args, excludeID)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT DISTINCT a.id, a.slug, a.medium, a.path, a.stamp, a.width, a.height, a.duration, a.latitude, a.longitude, a.filters
		FROM assets a
		INNER JOIN hashes h ON a.id = h.asset_id
		WHERE h.flavor = ? AND h.nibbles IN (%s) AND a.id != ?
	`, placeholders), args...)
	if err != nil {
		err = mapErr(err)
		done(err)
		return nil, err
	}
	assets, err := s.collect(ctx, rows)
	done(err)
	return assets, err
}

// FindSharingTags returns every asset that shares at least one tag
// with the given asset. Candidates for tag-overlap scoring.
func (s *Store) FindSharingTags(ctx context.Context, assetID int64) ([]*Asset, error) {
	done := observeQuery("find_sharing_tags")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT a.id, a.slug, a.medium, a.path, a.stamp, a.width, a.height, a.duration, a.latitude, a.longitude, a.filters
		FROM assets a
		INNER JOIN asset_tags at ON a.id = at.asset_id
		WHERE at.tag_id IN (SELECT tag_id FROM asset_tags WHERE asset_id = ?)
		  AND a.id != ?
	`, assetID, assetID)
	if err != nil {
		err = mapErr(err)
		done(err)
		return nil, err
	}
	assets, err := s.collect(ctx, rows)
	done(err)
	return assets, err
}

// TagCounts returns every tag in use together with the number of
// assets carrying it, most used first.
func (s *Store) TagCounts(ctx context.Context) ([]TagCount, error) {
	done := observeQuery("tag_counts")

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name, COUNT(at.asset_id) AS uses
		FROM tags t
		INNER JOIN asset_tags at ON t.id = at.tag_id
		GROUP BY t.id
		ORDER BY uses DESC, t.name ASC
	`)
	if err != nil {
		err = mapErr(err)
		done(err)
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.Error("error closing rows: %v", err)
		}
	}()

	var counts []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			err = mapErr(err)
			done(err)
			return nil, err
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		err = mapErr(err)
		done(err)
		return nil, err
	}
	done(nil)
	return counts, nil
}
