// Package store persists the search index in sqlite so a restart within the
// cache window can skip the full scan.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/justyntemme/twinpane/internal/fs"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	metaIndexedAt = "indexed_at"
	metaRoots     = "roots"
)

// DB is the index cache.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// Open creates or opens the cache at dbPath.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// one writer; the indexer serialises access anyway
	conn.SetMaxOpenConns(1)

	stmts := []string{
		// WAL lets the search path read while a scan writes
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS entries (
			path       TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			extension  TEXT NOT NULL DEFAULT '',
			size       INTEGER,
			modified   INTEGER,
			is_dir     INTEGER NOT NULL,
			is_hidden  INTEGER NOT NULL,
			is_symlink INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := conn.Exec(s); err != nil {
			conn.Close()
			return nil, fmt.Errorf("store: init: %w", err)
		}
	}
	return &DB{conn: conn, now: time.Now}, nil
}

// DefaultPath returns the cache location under the user cache directory.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "twinpane", "index.db")
}

// SaveIndex replaces the whole cache with entries scanned from roots.
func (d *DB) SaveIndex(roots []string, entries []fs.Entry) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return err
	}
	if err := insertEntries(tx, entries); err != nil {
		return err
	}
	meta := map[string]string{
		metaIndexedAt: strconv.FormatInt(d.now().Unix(), 10),
		metaRoots:     strings.Join(roots, "\n"),
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Upsert adds or refreshes individual entries without touching the timestamp.
func (d *DB) Upsert(entries []fs.Entry) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := insertEntries(tx, entries); err != nil {
		return err
	}
	return tx.Commit()
}

// Remove deletes path and everything below it.
func (d *DB) Remove(path string) error {
	prefix := strings.TrimSuffix(path, string(filepath.Separator)) + string(filepath.Separator)
	_, err := d.conn.Exec("DELETE FROM entries WHERE path = ? OR substr(path, 1, ?) = ?", path, len(prefix), prefix)
	return err
}

func insertEntries(tx *sql.Tx, entries []fs.Entry) error {
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO entries
		(path, name, extension, size, modified, is_dir, is_hidden, is_symlink)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.Exec(e.Path, e.Name, e.Extension, nullInt(e.Size), nullInt(e.Modified),
			e.IsDir, e.IsHidden, e.IsSymlink); err != nil {
			return err
		}
	}
	return nil
}

// LoadIndex returns the cached entries and roots when the cache is younger
// than maxAge. fresh is false for a stale or empty cache.
func (d *DB) LoadIndex(maxAge time.Duration) (entries []fs.Entry, roots []string, fresh bool, err error) {
	var at, rootList string
	err = d.conn.QueryRow("SELECT value FROM meta WHERE key = ?", metaIndexedAt).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, false, nil
	}
	if err != nil {
		return nil, nil, false, err
	}
	secs, err := strconv.ParseInt(at, 10, 64)
	if err != nil || d.now().Sub(time.Unix(secs, 0)) > maxAge {
		return nil, nil, false, nil
	}
	if err := d.conn.QueryRow("SELECT value FROM meta WHERE key = ?", metaRoots).Scan(&rootList); err == nil && rootList != "" {
		roots = strings.Split(rootList, "\n")
	}

	rows, err := d.conn.Query(`SELECT path, name, extension, size, modified, is_dir, is_hidden, is_symlink
		FROM entries ORDER BY path`)
	if err != nil {
		return nil, nil, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			e        fs.Entry
			size, mt sql.NullInt64
		)
		if err := rows.Scan(&e.Path, &e.Name, &e.Extension, &size, &mt, &e.IsDir, &e.IsHidden, &e.IsSymlink); err != nil {
			return nil, nil, false, err
		}
		if size.Valid {
			e.Size = &size.Int64
		}
		if mt.Valid {
			e.Modified = &mt.Int64
		}
		entries = append(entries, e)
	}
	return entries, roots, true, rows.Err()
}

// Clear drops every cached entry and the timestamp.
func (d *DB) Clear() error {
	if _, err := d.conn.Exec("DELETE FROM entries"); err != nil {
		return err
	}
	_, err := d.conn.Exec("DELETE FROM meta")
	return err
}

func (d *DB) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}
