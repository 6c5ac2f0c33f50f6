// Package ledger folds an ordered list of trades into a running balance.
//
// Everything here is a pure function of its arguments. Loading and saving
// trades is the job of the store and session packages.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is the direction a trade moved the balance.
type Outcome string

const (
	Profit Outcome = "Profit"
	Loss   Outcome = "Loss"
)

// ParseOutcome accepts "Profit" or "Loss" (any case).
func ParseOutcome(s string) (Outcome, error) {
	switch {
	case strings.EqualFold(s, string(Profit)):
		return Profit, nil
	case strings.EqualFold(s, string(Loss)):
		return Loss, nil
	default:
		return "", fmt.Errorf("unknown outcome %q", s)
	}
}

func (o Outcome) Valid() bool {
	return o == Profit || o == Loss
}

// Trade is one journaled trade. Amount is always a non-negative magnitude;
// the sign comes from Outcome.
type Trade struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	Pair       string          `json:"pair"`
	Strategy   string          `json:"strategy"`
	Outcome    Outcome         `json:"outcome"`
	Amount     decimal.Decimal `json:"amount"`
	Notes      string          `json:"notes,omitempty"`
	Attachment string          `json:"attachment,omitempty"`
}

// Signed returns the trade's effect on the balance.
func (t Trade) Signed() decimal.Decimal {
	if t.Outcome == Profit {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Candidate holds the raw, unvalidated fields of a trade being added.
type Candidate struct {
	Date     string
	Pair     string
	Strategy string
	Outcome  string
	Amount   string
	Notes    string

	// Attachment must already be fully encoded. See the attachment package.
	Attachment string

	// Location is used for dates without a zone. Nil means time.Local.
	Location *time.Location
}

// NewestFirst returns a copy of trades in reverse insertion order.
func NewestFirst(trades []Trade) []Trade {
	out := make([]Trade, len(trades))
	for i, t := range trades {
		out[len(trades)-1-i] = t
	}
	return out
}
