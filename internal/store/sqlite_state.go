package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Local is the SQLite backend of a workspace: one row per collection kind.
type Local struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

var _ Repository = (*Local)(nil)

// Open opens (and creates, if needed) the workspace database.
func (s Store) Open(ctx context.Context) (*Local, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	l := &Local{path: s.SQLitePath()}
	if _, err := l.conn(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Local) conn(ctx context.Context) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db != nil {
		return l.db, nil
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", l.path)
	if err != nil {
		return nil, err
	}
	// One connection keeps the pragmas below in effect and serializes writers.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	l.db = db
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS collections (
			kind TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', '1');`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (l *Local) LoadCollection(ctx context.Context, kind Kind) (Collection, error) {
	db, err := l.conn(ctx)
	if err != nil {
		return Collection{}, err
	}
	var (
		raw string
		ms  int64
	)
	err = db.QueryRowContext(ctx, `SELECT json, updated_at_unixms FROM collections WHERE kind = ?`, string(kind)).Scan(&raw, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultCollection(kind), nil
	}
	if err != nil {
		return Collection{}, err
	}
	return Collection{Kind: kind, Data: []byte(raw), UpdatedAt: time.UnixMilli(ms).UTC()}, nil
}

func (l *Local) SaveCollection(ctx context.Context, kind Kind, c Collection) error {
	db, err := l.conn(ctx)
	if err != nil {
		return err
	}
	data := c.Data
	if len(data) == 0 {
		data = DefaultCollection(kind).Data
	}
	at := c.UpdatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO collections(kind, json, updated_at_unixms) VALUES(?, ?, ?)`,
		string(kind), string(data), at.UnixMilli())
	return err
}

// SavedKinds lists the kinds that have a stored row, in Kinds order.
func (l *Local) SavedKinds(ctx context.Context) ([]Kind, error) {
	db, err := l.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT kind FROM collections`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	have := map[Kind]bool{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		have[Kind(k)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := []Kind{}
	for _, k := range Kinds {
		if have[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}
