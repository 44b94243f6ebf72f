// Package store persists core/pb.Frontier personal-bests per
// (player, chart, ruleset) key to a local SQLite database, grounded on the
// danser-go's use of github.com/mattn/go-sqlite3 and its plain database/sql
// access style.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wieku/notecore/core/pb"
	"github.com/wieku/notecore/internal/applog"
)

// Store is a handle on a notecore personal-bests database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and migrates it
// to the current schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("store: creating schema_version: %w", err)
	}

	var version int
	row := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`)
	switch err := row.Scan(&version); err {
	case sql.ErrNoRows:
		version = 0
	case nil:
		// fall through with version set
	default:
		return fmt.Errorf("store: reading schema_version: %w", err)
	}

	if version >= 2 {
		return nil
	}

	if version == 0 {
		if err := s.migrateV1ToV2(); err != nil {
			return err
		}
	}

	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS frontier_points (
		player TEXT NOT NULL,
		chart_hash TEXT NOT NULL,
		ruleset TEXT NOT NULL,
		rate REAL NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (player, chart_hash, ruleset, rate)
	)`); err != nil {
		return fmt.Errorf("store: creating frontier_points: %w", err)
	}

	if _, err := s.db.Exec(`DELETE FROM schema_version`); err != nil {
		return fmt.Errorf("store: clearing schema_version: %w", err)
	}
	if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (2)`); err != nil {
		return fmt.Errorf("store: writing schema_version: %w", err)
	}

	return nil
}

// migrateV1ToV2 carries rows from the legacy v1 shape — one row per key
// holding both a best (rate, value) pair and a fastest (rate, value) pair,
// no frontier — into frontier_points. Each legacy row is replayed through
// two pb.Frontier.Update calls against a fresh, empty frontier (best first,
// then fastest), exactly as a live v1 database would have accumulated them
// one result at a time, and the resulting points are what gets persisted. A
// v1 database has no personal_bests table at all if it was never created by
// an old build, which is not an error.
func (s *Store) migrateV1ToV2() error {
	var exists int
	err := s.db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='personal_bests'`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("store: checking for legacy personal_bests table: %w", err)
	}
	if exists == 0 {
		return nil
	}

	rows, err := s.db.Query(
		`SELECT player, chart_hash, ruleset, best_value, best_rate, fastest_value, fastest_rate FROM personal_bests`,
	)
	if err != nil {
		return fmt.Errorf("store: reading legacy personal_bests: %w", err)
	}
	defer rows.Close()

	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS frontier_points (
		player TEXT NOT NULL,
		chart_hash TEXT NOT NULL,
		ruleset TEXT NOT NULL,
		rate REAL NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (player, chart_hash, ruleset, rate)
	)`); err != nil {
		return fmt.Errorf("store: creating frontier_points: %w", err)
	}

	type legacyRow struct {
		player, chartHash, rulesetName                 string
		bestValue, bestRate, fastestValue, fastestRate float64
	}
	var legacy []legacyRow
	for rows.Next() {
		var l legacyRow
		if err := rows.Scan(&l.player, &l.chartHash, &l.rulesetName, &l.bestValue, &l.bestRate, &l.fastestValue, &l.fastestRate); err != nil {
			return fmt.Errorf("store: scanning legacy row: %w", err)
		}
		legacy = append(legacy, l)
	}
	rows.Close()

	migrated := 0
	for _, l := range legacy {
		var f pb.Frontier
		f, _ = f.Update(l.bestValue, l.bestRate)
		f, _ = f.Update(l.fastestValue, l.fastestRate)

		for _, p := range f.Points {
			if _, err := s.db.Exec(
				`INSERT OR REPLACE INTO frontier_points (player, chart_hash, ruleset, rate, value) VALUES (?, ?, ?, ?, ?)`,
				l.player, l.chartHash, l.rulesetName, p.Rate, p.Value,
			); err != nil {
				return fmt.Errorf("store: migrating legacy row: %w", err)
			}
		}
		migrated++
	}

	applog.Infof("store: migrated %d legacy v1 personal-bests rows to v2 frontiers", migrated)

	return nil
}

// LoadFrontier returns the frontier on record for a (player, chart,
// ruleset) key, or an empty Frontier if none exists yet.
func (s *Store) LoadFrontier(player, chartHash, rulesetName string) (pb.Frontier, error) {
	rows, err := s.db.Query(
		`SELECT rate, value FROM frontier_points WHERE player = ? AND chart_hash = ? AND ruleset = ? ORDER BY rate ASC`,
		player, chartHash, rulesetName,
	)
	if err != nil {
		return pb.Frontier{}, fmt.Errorf("store: loading frontier: %w", err)
	}
	defer rows.Close()

	var f pb.Frontier
	for rows.Next() {
		var p pb.Point
		if err := rows.Scan(&p.Rate, &p.Value); err != nil {
			return pb.Frontier{}, fmt.Errorf("store: scanning frontier point: %w", err)
		}
		f.Points = append(f.Points, p)
	}

	return f, nil
}

// SaveFrontier replaces every point on record for a (player, chart,
// ruleset) key with f's points.
func (s *Store) SaveFrontier(player, chartHash, rulesetName string, f pb.Frontier) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: saving frontier: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM frontier_points WHERE player = ? AND chart_hash = ? AND ruleset = ?`,
		player, chartHash, rulesetName,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("store: clearing old frontier: %w", err)
	}

	for _, p := range f.Points {
		if _, err := tx.Exec(
			`INSERT INTO frontier_points (player, chart_hash, ruleset, rate, value) VALUES (?, ?, ?, ?, ?)`,
			player, chartHash, rulesetName, p.Rate, p.Value,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("store: inserting frontier point: %w", err)
		}
	}

	return tx.Commit()
}
