// Package store persists profiles and trade lists, partitioned by identity.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/tradebook/ledger"
	"github.com/shopspring/decimal"
)

var (
	// ErrStorage wraps every failure of the underlying medium.
	ErrStorage = errors.New("storage error")

	ErrNotFound          = errors.New("not found")
	ErrDuplicateIdentity = errors.New("identity already exists")
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Profile is a user's ledger configuration.
type Profile struct {
	Identity       string
	PasswordHash   string
	InitialBalance decimal.Decimal
	Currency       string
}

// NewProfile returns a profile with the registration defaults.
func NewProfile(identity string) Profile {
	return Profile{
		Identity:       identity,
		InitialBalance: decimal.Zero,
		Currency:       ledger.DefaultCurrency,
	}
}

// TradeStore holds one ordered trade list per identity.
type TradeStore interface {
	// Load returns the trades of identity in insertion order; an identity
	// with no trades yields an empty list.
	Load(ctx context.Context, identity string) ([]ledger.Trade, error)
	// Save replaces the whole list of identity.
	Save(ctx context.Context, identity string, trades []ledger.Trade) error
}

// ProfileStore holds one Profile per identity.
type ProfileStore interface {
	FindByIdentity(ctx context.Context, identity string) (Profile, error)
	Exists(ctx context.Context, identity string) (bool, error)
	// Create inserts a new profile and fails with ErrDuplicateIdentity if
	// the identity is taken.
	Create(ctx context.Context, p Profile) error
	// Upsert inserts or replaces p.
	Upsert(ctx context.Context, p Profile) error
	List(ctx context.Context) ([]Profile, error)
}

// Store is a medium holding both partitions.
type Store interface {
	TradeStore
	ProfileStore
	Close() error
}

// Open opens a store of the given kind ("sqlite" or "yaml") at path.
func Open(kind, path string) (Store, error) {
	switch kind {
	case "sqlite":
		return NewSQLite(path)
	case "yaml":
		return NewFile(path)
	default:
		return nil, fmt.Errorf("unknown storage type %q", kind)
	}
}
