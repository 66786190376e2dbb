// Package sqlite provides a SQLite-backed chain state store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/blockberries/frame/store"
	"github.com/blockberries/frame/store/sqlite/migrations"
	"github.com/blockberries/frame/types"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrBusy is returned when the database stays locked by another
// connection past the busy timeout.
var ErrBusy = errors.New("sqlite: database busy")

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store persists chain state in SQLite: one row of chain metadata and
// one row per account.
type Store struct {
	sqlDB *sql.DB
}

const defaultBusyTimeout = 5 * time.Second

type options struct {
	busyTimeout time.Duration
}

// Option configures Open.
type Option func(*options)

// WithBusyTimeout sets how long a statement waits on a lock held by
// another connection before failing with ErrBusy.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	o := options{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(FULL)",
		filepath.Clean(path), o.busyTimeout.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single writer keeps Save transactions from contending.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load reads the committed state. ok is false if Save was never
// called.
func (s *Store) Load(ctx context.Context) (types.State, bool, error) {
	if err := ctx.Err(); err != nil {
		return types.State{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return types.State{}, false, fmt.Errorf("storage is not configured")
	}

	var st types.State
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT block_number FROM chain_meta WHERE id = 1`,
	).Scan(&st.BlockNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return types.State{}, false, nil
	}
	if err != nil {
		return types.State{}, false, fmt.Errorf("load chain meta: %w", wrapBusy(err))
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT account_id, balance, nonce FROM accounts ORDER BY account_id`,
	)
	if err != nil {
		return types.State{}, false, fmt.Errorf("load accounts: %w", wrapBusy(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a       types.AccountState
			balance string
		)
		if err := rows.Scan(&a.ID, &balance, &a.Nonce); err != nil {
			return types.State{}, false, fmt.Errorf("scan account: %w", err)
		}
		if a.Balance, err = types.ParseBalance(balance); err != nil {
			return types.State{}, false, fmt.Errorf("account %s: %w", a.ID, err)
		}
		st.Accounts = append(st.Accounts, a)
	}
	if err := rows.Err(); err != nil {
		return types.State{}, false, fmt.Errorf("iterate accounts: %w", err)
	}
	return st, true, nil
}

// Save replaces the stored state with state in one transaction.
func (s *Store) Save(ctx context.Context, state types.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", wrapBusy(err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chain_meta (id, block_number) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET block_number = excluded.block_number`,
		state.BlockNumber,
	); err != nil {
		return fmt.Errorf("save chain meta: %w", wrapBusy(err))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", wrapBusy(err))
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO accounts (account_id, balance, nonce) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare account insert: %w", err)
	}
	defer stmt.Close()
	for _, a := range state.Accounts {
		if _, err := stmt.ExecContext(ctx, string(a.ID), a.Balance.String(), a.Nonce); err != nil {
			return fmt.Errorf("save account %s: %w", a.ID, wrapBusy(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", wrapBusy(err))
	}
	return nil
}

func wrapBusy(err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		// Extended codes carry the primary code in the low byte.
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return fmt.Errorf("%w: %w", ErrBusy, err)
		}
	}
	return err
}
