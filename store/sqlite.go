package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/tradebook/ledger"
)

type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, storageErr("open", err)
	}
	// One writer; also keeps ":memory:" databases on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, storageErr("schema", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context, identity string) ([]ledger.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, date, pair, strategy, outcome, amount, notes, attachment
		FROM trades
		WHERE identity = ?
		ORDER BY seq ASC`, identity)
	if err != nil {
		return nil, storageErr("load trades", err)
	}
	defer rows.Close()

	out := []ledger.Trade{}
	for rows.Next() {
		var (
			t       ledger.Trade
			date    string
			outcome string
		)
		if err := rows.Scan(
			&t.ID,
			&date,
			&t.Pair,
			&t.Strategy,
			&outcome,
			&t.Amount,
			&t.Notes,
			&t.Attachment,
		); err != nil {
			return nil, storageErr("load trades", err)
		}
		if t.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, storageErr("load trades", fmt.Errorf("trade %s: %w", t.ID, err))
		}
		t.Outcome = ledger.Outcome(outcome)
		if !t.Outcome.Valid() {
			return nil, storageErr("load trades", fmt.Errorf("trade %s: bad outcome %q", t.ID, outcome))
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("load trades", err)
	}
	return out, nil
}

func (s *SQLite) Save(ctx context.Context, identity string, trades []ledger.Trade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("save trades", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE identity = ?`, identity); err != nil {
		return storageErr("save trades", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades
		(identity, seq, trade_id, date, pair, strategy, outcome, amount, notes, attachment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return storageErr("save trades", err)
	}
	defer stmt.Close()

	for i, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			identity, i, t.ID, t.Date.Format(time.RFC3339Nano), t.Pair, t.Strategy,
			string(t.Outcome), t.Amount.String(), t.Notes, t.Attachment,
		); err != nil {
			return storageErr("save trades", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("save trades", err)
	}
	return nil
}

func (s *SQLite) FindByIdentity(ctx context.Context, identity string) (Profile, error) {
	var p Profile

	row := s.db.QueryRowContext(ctx, `
		SELECT identity, password_hash, initial_balance, currency
		FROM users
		WHERE identity = ?`, identity)

	err := row.Scan(&p.Identity, &p.PasswordHash, &p.InitialBalance, &p.Currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, fmt.Errorf("profile %q: %w", identity, ErrNotFound)
		}
		return Profile{}, storageErr("find profile", err)
	}
	return p, nil
}

func (s *SQLite) Exists(ctx context.Context, identity string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE identity = ?`, identity).Scan(&n)
	if err != nil {
		return false, storageErr("exists", err)
	}
	return n > 0, nil
}

func (s *SQLite) Create(ctx context.Context, p Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (identity, password_hash, initial_balance, currency)
		VALUES (?, ?, ?, ?)`,
		p.Identity, p.PasswordHash, p.InitialBalance.String(), p.Currency,
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("profile %q: %w", p.Identity, ErrDuplicateIdentity)
		}
		return storageErr("create profile", err)
	}
	return nil
}

func (s *SQLite) Upsert(ctx context.Context, p Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (identity, password_hash, initial_balance, currency)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET
			password_hash = excluded.password_hash,
			initial_balance = excluded.initial_balance,
			currency = excluded.currency`,
		p.Identity, p.PasswordHash, p.InitialBalance.String(), p.Currency,
	)
	if err != nil {
		return storageErr("upsert profile", err)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identity, password_hash, initial_balance, currency
		FROM users
		ORDER BY identity ASC`)
	if err != nil {
		return nil, storageErr("list profiles", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.Identity, &p.PasswordHash, &p.InitialBalance, &p.Currency); err != nil {
			return nil, storageErr("list profiles", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list profiles", err)
	}
	return out, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
