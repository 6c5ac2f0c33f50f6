// Package session holds the logged-in identity and its in-memory ledger.
//
// Every mutation is validated, persisted and only then applied to memory, so
// once a mutating call returns without error the stores and the session
// agree. Queries never touch storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rustyeddy/tradebook/attachment"
	"github.com/rustyeddy/tradebook/ledger"
	"github.com/rustyeddy/tradebook/store"
	"github.com/shopspring/decimal"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrAlreadyLoggedIn = errors.New("already logged in")
)

// Verifier checks a credential for an identity. auth.Service implements it.
type Verifier interface {
	Verify(ctx context.Context, identity, password string) error
}

type Session struct {
	trades   store.TradeStore
	profiles store.ProfileStore
	verifier Verifier
	locks    *Locker
	labels   ledger.Labels
	log      *slog.Logger
	now      func() time.Time
	states   *cache.Cache

	mu       sync.Mutex
	identity string
	profile  store.Profile
	list     []ledger.Trade
}

type Option func(*Session)

// WithLocker shares per-identity mutation locks between sessions.
func WithLocker(l *Locker) Option {
	return func(s *Session) { s.locks = l }
}

func WithLabels(l ledger.Labels) Option {
	return func(s *Session) { s.labels = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithClock sets the clock used to stamp new trade IDs.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New returns a logged-out session.
func New(trades store.TradeStore, profiles store.ProfileStore, v Verifier, opts ...Option) *Session {
	s := &Session{
		trades:   trades,
		profiles: profiles,
		verifier: v,
		labels:   ledger.DefaultLabels,
		log:      slog.Default(),
		now:      time.Now,
		states:   cache.New(cache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.locks == nil {
		s.locks = NewLocker()
	}
	return s
}

// Identity returns the logged-in identity, or false when logged out.
func (s *Session) Identity() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.identity != ""
}

// Login verifies the credential and loads the identity's profile and trades.
func (s *Session) Login(ctx context.Context, identity, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity != "" {
		return ErrAlreadyLoggedIn
	}
	identity = strings.TrimSpace(identity)
	if err := s.verifier.Verify(ctx, identity, password); err != nil {
		s.log.Info("login rejected", "identity", identity)
		return err
	}

	p, err := s.profiles.FindByIdentity(ctx, identity)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	list, err := s.trades.Load(ctx, identity)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}

	s.identity = identity
	s.profile = p
	s.list = list
	s.states.Delete(identity)
	s.log.Info("logged in", "identity", identity, "trades", len(list))
	return nil
}

// Logout discards the in-memory ledger. Nothing needs flushing.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == "" {
		return
	}
	s.log.Info("logged out", "identity", s.identity)
	s.identity = ""
	s.profile = store.Profile{}
	s.list = nil
	s.states.Flush()
}

// Query returns the ledger state computed from memory.
func (s *Session) Query() (ledger.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == "" {
		return ledger.State{}, ErrNotLoggedIn
	}
	if v, ok := s.states.Get(s.identity); ok {
		return cloneState(v.(ledger.State)), nil
	}
	st := ledger.ComputeLabeled(s.labels, s.profile.InitialBalance, s.profile.Currency, s.list)
	s.states.Set(s.identity, st, cache.NoExpiration)
	return cloneState(st), nil
}

// Trades returns a copy of the trade list in insertion order.
func (s *Session) Trades() ([]ledger.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == "" {
		return nil, ErrNotLoggedIn
	}
	return slices.Clone(s.list), nil
}

// Profile returns the logged-in profile.
func (s *Session) Profile() (store.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == "" {
		return store.Profile{}, ErrNotLoggedIn
	}
	return s.profile, nil
}

// AddTrade validates c, appends it and persists the new list. An invalid
// candidate is rejected before storage is touched.
func (s *Session) AddTrade(ctx context.Context, c ledger.Candidate) (ledger.Trade, error) {
	id, ok := s.Identity()
	if !ok {
		return ledger.Trade{}, ErrNotLoggedIn
	}
	t, err := ledger.NewTrade(c, s.now())
	if err != nil {
		s.log.Debug("add trade rejected", "identity", id, "field", ledger.FieldOf(err))
		return ledger.Trade{}, err
	}

	err = s.mutate(ctx, "add trade", func(p store.Profile, list []ledger.Trade) (store.Profile, []ledger.Trade, error) {
		next := ledger.Append(list, t)
		if err := s.trades.Save(ctx, p.Identity, next); err != nil {
			return p, nil, err
		}
		return p, next, nil
	})
	if err != nil {
		return ledger.Trade{}, err
	}
	return t, nil
}

// AddTradeWithAttachment waits for a pending attachment and then adds the
// trade with it. A failed encoding adds nothing.
func (s *Session) AddTradeWithAttachment(ctx context.Context, c ledger.Candidate, p *attachment.Pending) (ledger.Trade, error) {
	blob, err := p.Wait(ctx)
	if err != nil {
		return ledger.Trade{}, fmt.Errorf("attachment: %w", err)
	}
	c.Attachment = blob
	return s.AddTrade(ctx, c)
}

// SetInitialBalance changes the starting balance of the ledger.
func (s *Session) SetInitialBalance(ctx context.Context, balance decimal.Decimal) error {
	return s.mutate(ctx, "set initial balance", func(p store.Profile, list []ledger.Trade) (store.Profile, []ledger.Trade, error) {
		p.InitialBalance = balance
		if err := s.profiles.Upsert(ctx, p); err != nil {
			return p, nil, err
		}
		return p, list, nil
	})
}

// SetCurrency changes the display currency. See ledger.CurrencySymbol.
func (s *Session) SetCurrency(ctx context.Context, currency string) error {
	sym, err := ledger.CurrencySymbol(currency)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "set currency", func(p store.Profile, list []ledger.Trade) (store.Profile, []ledger.Trade, error) {
		p.Currency = sym
		if err := s.profiles.Upsert(ctx, p); err != nil {
			return p, nil, err
		}
		return p, list, nil
	})
}

type mutation func(p store.Profile, list []ledger.Trade) (store.Profile, []ledger.Trade, error)

// mutate runs fn under the identity lock against the stored ledger and
// swaps memory only when fn, which does its own persisting, succeeds.
func (s *Session) mutate(ctx context.Context, op string, fn mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == "" {
		return ErrNotLoggedIn
	}
	identity := s.identity

	unlock := s.locks.Lock(identity)
	defer unlock()

	// Another session on the same identity may have written since login.
	p, list, err := s.reload(ctx, identity)
	if err != nil {
		s.log.Error(op+" failed", "identity", identity, "error", err)
		return err
	}

	p, list, err = fn(p, list)
	if err != nil {
		if errors.Is(err, ledger.ErrValidation) {
			s.log.Debug(op+" rejected", "identity", identity, "field", ledger.FieldOf(err))
		} else {
			s.log.Error(op+" failed", "identity", identity, "error", err)
		}
		return err
	}

	s.profile = p
	s.list = list
	s.states.Delete(identity)
	s.log.Info(op, "identity", identity, "trades", len(list))
	return nil
}

func (s *Session) reload(ctx context.Context, identity string) (store.Profile, []ledger.Trade, error) {
	p, err := s.profiles.FindByIdentity(ctx, identity)
	if err != nil {
		return store.Profile{}, nil, fmt.Errorf("load profile: %w", err)
	}
	list, err := s.trades.Load(ctx, identity)
	if err != nil {
		return store.Profile{}, nil, fmt.Errorf("load trades: %w", err)
	}
	return p, list, nil
}

func cloneState(st ledger.State) ledger.State {
	st.Equity = slices.Clone(st.Equity)
	st.Labels = slices.Clone(st.Labels)
	return st
}
