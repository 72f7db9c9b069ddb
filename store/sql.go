/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_store (
	k TEXT PRIMARY KEY,
	v BYTEA NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// SQLStore keeps keys in a single kv_store table. The same statements run
// on sqlite3 and postgres; sqlx rebinds the placeholders per driver.
type SQLStore struct {
	db  *sqlx.DB
	ctx context.Context
}

func OpenSQL(ctx context.Context, driver string, dsn string) (*SQLStore, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store.sql: failed to open %v: %w", driver, err)
	}
	if driver == "sqlite3" {
		// sqlite allows one writer at a time
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.sql: failed to ping %v: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.sql: failed to create table: %w", err)
	}

	return &SQLStore{db: db, ctx: ctx}, nil
}

func (s *SQLStore) Get(key string) ([]byte, bool) {
	var data []byte
	err := s.db.GetContext(s.ctx, &data,
		s.db.Rebind(`SELECT v FROM kv_store WHERE k = ?`), key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("store.sql.get: %v: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

func (s *SQLStore) Set(key string, data []byte) {
	_, err := s.db.ExecContext(s.ctx, s.db.Rebind(`INSERT INTO kv_store (k, v, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`),
		key, data, time.Now().UTC())
	if err != nil {
		log.Printf("store.sql.set: %v: %v", key, err)
	}
}

func (s *SQLStore) Delete(key string) {
	_, err := s.db.ExecContext(s.ctx,
		s.db.Rebind(`DELETE FROM kv_store WHERE k = ?`), key)
	if err != nil {
		log.Printf("store.sql.delete: %v: %v", key, err)
	}
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
