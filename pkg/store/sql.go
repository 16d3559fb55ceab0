package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const createEntitiesTable = `CREATE TABLE IF NOT EXISTS entities (
	entity_key   TEXT PRIMARY KEY,
	entity_value TEXT NOT NULL
)`

type txKey struct{}

// SQLStore keeps entities in a single two-column table. It runs on SQLite and
// PostgreSQL; queries are written with '?' and rebound for the driver.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(ctx context.Context, db *sqlx.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, createEntitiesTable); err != nil {
		return nil, fmt.Errorf("failed to create entities table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.db
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	query := s.db.Rebind(`SELECT entity_value FROM entities WHERE entity_key = ?`)
	if err := sqlx.GetContext(ctx, s.ext(ctx), &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	query := s.db.Rebind(`INSERT INTO entities (entity_key, entity_value) VALUES (?, ?)
		ON CONFLICT (entity_key) DO UPDATE SET entity_value = excluded.entity_value`)
	if _, err := s.ext(ctx).ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM entities WHERE entity_key = ?`)
	if _, err := s.ext(ctx).ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	var rows []string
	query := s.db.Rebind(`SELECT entity_value FROM entities WHERE entity_key LIKE ? ESCAPE '\' ORDER BY entity_key`)
	if err := sqlx.SelectContext(ctx, s.ext(ctx), &rows, query, escapeLike(prefix)+"%"); err != nil {
		return nil, fmt.Errorf("failed to scan prefix %s: %w", prefix, err)
	}

	values := make([][]byte, 0, len(rows))
	for _, r := range rows {
		values = append(values, []byte(r))
	}
	return values, nil
}

func (s *SQLStore) CompareAndSet(ctx context.Context, key string, expected, value []byte) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if expected == nil {
		query := s.db.Rebind(`INSERT INTO entities (entity_key, entity_value) VALUES (?, ?) ON CONFLICT (entity_key) DO NOTHING`)
		res, err = s.ext(ctx).ExecContext(ctx, query, key, string(value))
	} else {
		query := s.db.Rebind(`UPDATE entities SET entity_value = ? WHERE entity_key = ? AND entity_value = ?`)
		res, err = s.ext(ctx).ExecContext(ctx, query, string(value), key, string(expected))
	}
	if err != nil {
		return false, fmt.Errorf("failed to compare-and-set %s: %w", key, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows for %s: %w", key, err)
	}
	return n == 1, nil
}

func (s *SQLStore) WithTransaction(ctx context.Context, fn TxFunc) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close(context.Context) error {
	return s.db.Close()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
