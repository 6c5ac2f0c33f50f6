package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/tradebook/ledger"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File keeps both partitions in a single YAML document, rewritten on every
// save. The document is the source of truth; nothing is cached between calls.
type File struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*File)(nil)

type document struct {
	Users  []profileRecord          `yaml:"users"`
	Trades map[string][]tradeRecord `yaml:"trades"`
}

type profileRecord struct {
	Username       string `yaml:"username"`
	PasswordHash   string `yaml:"password_hash,omitempty"`
	InitialBalance string `yaml:"initial_balance"`
	Currency       string `yaml:"currency"`
}

type tradeRecord struct {
	ID         string `yaml:"id"`
	Date       string `yaml:"date"`
	Pair       string `yaml:"pair"`
	Strategy   string `yaml:"strategy"`
	Type       string `yaml:"type"`
	Amount     string `yaml:"amount"`
	Notes      string `yaml:"notes,omitempty"`
	Attachment string `yaml:"ss,omitempty"`
}

// NewFile opens the document at path, creating its directory if needed. A
// missing file is an empty store; an unreadable one is an error.
func NewFile(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, storageErr("open", err)
		}
	}
	f := &File{path: path}
	if _, err := f.read(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) read() (*document, error) {
	doc := &document{}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			doc.Trades = map[string][]tradeRecord{}
			return doc, nil
		}
		return nil, storageErr("read", err)
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, storageErr("read", fmt.Errorf("%s: %w", f.path, err))
	}
	if doc.Trades == nil {
		doc.Trades = map[string][]tradeRecord{}
	}
	return doc, nil
}

func (f *File) write(doc *document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return storageErr("write", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".tradebook-*.yaml")
	if err != nil {
		return storageErr("write", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageErr("write", err)
	}
	if err := tmp.Close(); err != nil {
		return storageErr("write", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return storageErr("write", err)
	}
	return nil
}

func (f *File) Load(ctx context.Context, identity string) ([]ledger.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}

	recs := doc.Trades[identity]
	out := make([]ledger.Trade, 0, len(recs))
	for _, r := range recs {
		t, err := r.trade()
		if err != nil {
			return nil, storageErr("load trades", err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *File) Save(ctx context.Context, identity string, trades []ledger.Trade) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}

	recs := make([]tradeRecord, len(trades))
	for i, t := range trades {
		recs[i] = newTradeRecord(t)
	}
	doc.Trades[identity] = recs
	return f.write(doc)
}

func (f *File) FindByIdentity(ctx context.Context, identity string) (Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return Profile{}, err
	}
	i := doc.index(identity)
	if i < 0 {
		return Profile{}, fmt.Errorf("profile %q: %w", identity, ErrNotFound)
	}
	p, err := doc.Users[i].profile()
	if err != nil {
		return Profile{}, storageErr("find profile", err)
	}
	return p, nil
}

func (f *File) Exists(ctx context.Context, identity string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return false, err
	}
	return doc.index(identity) >= 0, nil
}

func (f *File) Create(ctx context.Context, p Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	if doc.index(p.Identity) >= 0 {
		return fmt.Errorf("profile %q: %w", p.Identity, ErrDuplicateIdentity)
	}
	doc.Users = append(doc.Users, newProfileRecord(p))
	return f.write(doc)
}

func (f *File) Upsert(ctx context.Context, p Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	if i := doc.index(p.Identity); i >= 0 {
		doc.Users[i] = newProfileRecord(p)
	} else {
		doc.Users = append(doc.Users, newProfileRecord(p))
	}
	return f.write(doc)
}

func (f *File) List(ctx context.Context) ([]Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(doc.Users))
	for _, r := range doc.Users {
		p, err := r.profile()
		if err != nil {
			return nil, storageErr("list profiles", err)
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Profile) int { return strings.Compare(a.Identity, b.Identity) })
	return out, nil
}

func (f *File) Close() error {
	return nil
}

func (d *document) index(identity string) int {
	return slices.IndexFunc(d.Users, func(r profileRecord) bool { return r.Username == identity })
}

func newProfileRecord(p Profile) profileRecord {
	return profileRecord{
		Username:       p.Identity,
		PasswordHash:   p.PasswordHash,
		InitialBalance: p.InitialBalance.String(),
		Currency:       p.Currency,
	}
}

func (r profileRecord) profile() (Profile, error) {
	bal, err := decimal.NewFromString(r.InitialBalance)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %q: initial_balance: %w", r.Username, err)
	}
	return Profile{
		Identity:       r.Username,
		PasswordHash:   r.PasswordHash,
		InitialBalance: bal,
		Currency:       r.Currency,
	}, nil
}

func newTradeRecord(t ledger.Trade) tradeRecord {
	return tradeRecord{
		ID:         t.ID,
		Date:       t.Date.Format(time.RFC3339Nano),
		Pair:       t.Pair,
		Strategy:   t.Strategy,
		Type:       string(t.Outcome),
		Amount:     t.Amount.String(),
		Notes:      t.Notes,
		Attachment: t.Attachment,
	}
}

func (r tradeRecord) trade() (ledger.Trade, error) {
	date, err := time.Parse(time.RFC3339Nano, r.Date)
	if err != nil {
		return ledger.Trade{}, fmt.Errorf("trade %s: date: %w", r.ID, err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return ledger.Trade{}, fmt.Errorf("trade %s: amount: %w", r.ID, err)
	}
	outcome := ledger.Outcome(r.Type)
	if !outcome.Valid() {
		return ledger.Trade{}, fmt.Errorf("trade %s: bad type %q", r.ID, r.Type)
	}
	return ledger.Trade{
		ID:         r.ID,
		Date:       date,
		Pair:       r.Pair,
		Strategy:   r.Strategy,
		Outcome:    outcome,
		Amount:     amount,
		Notes:      r.Notes,
		Attachment: r.Attachment,
	}, nil
}
