// SPDX-License-Identifier: Apache-2.0
/*
 * hasher
 * Copyright (C) 2026 The Hasher Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package store is hasher's record store: a single-file SQLite-backed table
// with one row per hashed path and one nullable blob column per algorithm in
// the closed catalog. database/sql plus a blank mattn/go-sqlite3 import,
// with an explicit open/close-per-batch lifecycle instead of a long-lived
// pool.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" database/sql driver

	"github.com/meemo/hasher/internal/digestset"
)

// identifierRe validates a table name before it is ever concatenated into
// SQL text; user data is always bound, never concatenated.
var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const (
	busyRetries = 3
	busyBackoff = 100 * time.Millisecond
)

// Store is a single-file SQLite-backed record store, held open for the
// duration of one batch command.
type Store struct {
	db        *sql.DB
	tableName string
}

// Open opens (creating if absent) the SQLite database at path and returns a
// Store bound to tableName. tableName is validated against
// ^[A-Za-z_][A-Za-z0-9_]*$ before any SQL text is built from it.
func Open(path, tableName string, wal bool) (*Store, error) {
	if !identifierRe.MatchString(tableName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, tableName)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}

	s := &Store{db: db, tableName: tableName}
	if err := s.init(wal); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// init creates the table if it doesn't already exist and, if wal is set,
// switches the database's journal mode to write-ahead logging.
func (s *Store) init(wal bool) error {
	if wal {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("enable wal: %w", err)
		}
	}

	var cols strings.Builder
	cols.WriteString("file_path TEXT NOT NULL, file_size NUMERIC NOT NULL")
	for _, alg := range digestset.Algorithms() {
		fmt.Fprintf(&cols, ", %s BLOB", string(alg))
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", s.tableName, cols.String())
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create table %s: %w", s.tableName, err)
	}
	return nil
}

// Close releases the underlying database handle. If wal was requested at
// Open, the journal mode is reverted to the default first so WAL's sidecar
// files (-wal, -shm) are cleaned up.
func (s *Store) Close(wal bool) error {
	if wal {
		if _, err := s.db.Exec("PRAGMA journal_mode=DELETE"); err != nil {
			return fmt.Errorf("revert wal: %w", err)
		}
	}
	return s.db.Close()
}

// Row is one record to persist: a path, its size, and the digests produced
// for it (only the enabled algorithms are bound; unlisted columns are left
// NULL by SQLite's default).
type Row struct {
	Path    string
	Size    int64
	Digests map[digestset.Algorithm][]byte
}

// Insert adds row as a new row. The store enforces no uniqueness on
// file_path; repeated inserts for the same path are additive. On
// SQLITE_BUSY, the insert is retried up to 3 times with a 100ms backoff
// before surfacing ErrDbLocked.
func (s *Store) Insert(row Row) error {
	cols := []string{"file_path", "file_size"}
	placeholders := []string{"?", "?"}
	args := []any{row.Path, row.Size}

	// Deterministic column order, independent of map iteration, so two
	// inserts built from the same enabled set produce identical SQL text.
	for _, alg := range digestset.Algorithms() {
		b, ok := row.Digests[alg]
		if !ok {
			continue
		}
		cols = append(cols, string(alg))
		placeholders = append(placeholders, "?")
		args = append(args, b)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.tableName, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	var lastErr error
	for attempt := 0; attempt <= busyRetries; attempt++ {
		_, err := s.db.Exec(stmt, args...)
		if err == nil {
			return nil
		}
		if !isBusy(err) {
			return fmt.Errorf("insert into %s: %w", s.tableName, err)
		}
		lastErr = err
		time.Sleep(busyBackoff)
	}
	return fmt.Errorf("%w: %v", ErrDbLocked, lastErr)
}

// isBusy reports whether err is SQLite's SQLITE_BUSY, including go-sqlite3's
// wrapped form. go-sqlite3 exposes this as sqlite3.Error with an ErrBusy
// code, but matching on the text keeps this package independent of that
// driver's exact error type, which is useful if the driver is swapped later.
func isBusy(err error) bool {
	return strings.Contains(err.Error(), "database is locked") ||
		strings.Contains(err.Error(), "SQLITE_BUSY")
}

// Digest is one stored (algorithm, size, bytes) entry returned by Lookup.
type Digest struct {
	Algorithm digestset.Algorithm
	Size      int64
	Bytes     []byte
}

// Lookup returns every non-null, non-empty digest column of the first row
// matching path, in insertion order of the underlying scan (i.e. canonical
// algorithm order). It returns ErrNotFound if no row matches path.
func (s *Store) Lookup(path string) ([]Digest, error) {
	cols := digestset.Algorithms()
	selectCols := make([]string, 0, len(cols)+1)
	selectCols = append(selectCols, "file_size")
	for _, alg := range cols {
		selectCols = append(selectCols, string(alg))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE file_path = ? LIMIT 1",
		strings.Join(selectCols, ", "), s.tableName)

	// sql.RawBytes is not permitted with Row.Scan, so scan into plain
	// []byte slices; a NULL column scans as a nil slice.
	dest := make([]any, len(selectCols))
	var size int64
	dest[0] = &size
	blobs := make([][]byte, len(cols))
	for i := range cols {
		dest[i+1] = &blobs[i]
	}

	row := s.db.QueryRow(query, path)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("lookup %s: %w", path, err)
	}

	var out []Digest
	for i, alg := range cols {
		if len(blobs[i]) == 0 {
			continue
		}
		out = append(out, Digest{Algorithm: alg, Size: size, Bytes: blobs[i]})
	}
	return out, nil
}

// EnumeratePaths returns every file_path value in the table, in storage
// (insertion) order.
func (s *Store) EnumeratePaths() ([]string, error) {
	query := fmt.Sprintf("SELECT file_path FROM %s ORDER BY rowid", s.tableName)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("enumerate paths: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate paths: %w", err)
	}
	return out, nil
}
