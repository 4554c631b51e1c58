/*
 * backend.go, part of gomeld.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package vault

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//backend stores blobs under slash-separated keys.
type backend interface {
	put(key string, data []byte) error
	get(key string) ([]byte, error) //wraps ErrNotFound if the key doesn't exist
	exists() (bool, error)          //true if the store holds any data
	reset(owned []string) error     //removes the given keys, or prefixes ending in "/"
	keys() ([]string, error)
	close() error
}

//dirBackend keeps each blob as a file under root.
type dirBackend struct {
	root string
}

func newDirBackend(root string) (*dirBackend, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: empty store path", ErrBackend)
	}
	return &dirBackend{root: filepath.Clean(root)}, nil
}

func (D *dirBackend) path(key string) string {
	return filepath.Join(D.root, filepath.FromSlash(key))
}

//put writes to a temporary file and renames it, so a blob is either
//completely written or not there.
func (D *dirBackend) put(key string, data []byte) error {
	p := D.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-"+filepath.Base(p))
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (D *dirBackend) get(key string) ([]byte, error) {
	b, err := os.ReadFile(D.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return b, err
}

func (D *dirBackend) exists() (bool, error) {
	entries, err := os.ReadDir(D.root)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

//reset only removes what the store owns. Other files in the directory are left alone.
func (D *dirBackend) reset(owned []string) error {
	if err := os.MkdirAll(D.root, 0o755); err != nil {
		return err
	}
	for _, k := range owned {
		if err := os.RemoveAll(D.path(strings.TrimSuffix(k, "/"))); err != nil {
			return err
		}
	}
	return nil
}

func (D *dirBackend) keys() ([]string, error) {
	var ret []string
	err := filepath.WalkDir(D.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(D.root, p)
		if err != nil {
			return err
		}
		ret = append(ret, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	sort.Strings(ret)
	return ret, err
}

func (D *dirBackend) close() error { return nil }

//sqliteBackend keeps all the blobs in one table of a SQLite database.
type sqliteBackend struct {
	db *sql.DB
}

const blobSchema = `CREATE TABLE IF NOT EXISTS blobs (
	key  TEXT PRIMARY KEY,
	data BLOB NOT NULL
)`

//newSQLiteBackend opens the database at path. If create is false, the file must exist.
func newSQLiteBackend(path string, create bool) (*sqliteBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty store path", ErrBackend)
	}
	clean := filepath.Clean(path)
	if _, err := os.Stat(clean); err != nil {
		if !create || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, clean, err)
		}
		if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackend, err)
		}
	}
	db, err := sql.Open("sqlite", clean+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite db: %v", ErrBackend, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite db: %v", ErrBackend, err)
	}
	if _, err := db.Exec(blobSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", ErrBackend, err)
	}
	return &sqliteBackend{db: db}, nil
}

func (S *sqliteBackend) put(key string, data []byte) error {
	_, err := S.db.Exec(`INSERT INTO blobs (key, data) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data`, key, data)
	return err
}

func (S *sqliteBackend) get(key string) ([]byte, error) {
	var data []byte
	err := S.db.QueryRow(`SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, err
}

func (S *sqliteBackend) exists() (bool, error) {
	var n int
	if err := S.db.QueryRow(`SELECT COUNT(*) FROM blobs`).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (S *sqliteBackend) reset(owned []string) error {
	tx, err := S.db.Begin()
	if err != nil {
		return err
	}
	for _, k := range owned {
		if strings.HasSuffix(k, "/") {
			_, err = tx.Exec(`DELETE FROM blobs WHERE substr(key, 1, ?) = ?`, len(k), k)
		} else {
			_, err = tx.Exec(`DELETE FROM blobs WHERE key = ?`, k)
		}
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

//keys returns all the keys in the database, sorted.
func (S *sqliteBackend) keys() ([]string, error) {
	rows, err := S.db.Query(`SELECT key FROM blobs ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ret []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		ret = append(ret, k)
	}
	return ret, rows.Err()
}

func (S *sqliteBackend) close() error {
	if S == nil || S.db == nil {
		return nil
	}
	return S.db.Close()
}
