package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rustyeddy/tradebook/id"
	"github.com/shopspring/decimal"
)

// Fields reported by ValidationError.
const (
	FieldPair     = "pair"
	FieldAmount   = "amount"
	FieldDate     = "date"
	FieldOutcome  = "outcome"
	FieldCurrency = "currency"
	FieldBalance  = "balance"
)

// ErrValidation matches every *ValidationError with errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError rejects a single field of a mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// FieldOf returns the rejected field of a validation error, or "".
func FieldOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

var dateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses s as RFC3339 or one of the zone-less layouts in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid(FieldDate, "required")
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid(FieldDate, fmt.Sprintf("cannot parse %q", s))
}

// Amounts and balances must stay below maxMagnitude and carry at most
// maxScale decimal places.
const (
	maxExponent = 15
	maxScale    = 10
)

var maxMagnitude = decimal.New(1, maxExponent)

func parseDecimal(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, invalid(field, "required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid(field, fmt.Sprintf("%q is not a number", s))
	}
	// Exponent is checked first; comparing 1e50000000 would expand it.
	if exp := d.Exponent(); exp > maxExponent || exp < -maxScale {
		return decimal.Zero, invalid(field, "out of range")
	}
	if d.Abs().GreaterThanOrEqual(maxMagnitude) {
		return decimal.Zero, invalid(field, "out of range")
	}
	return d, nil
}

// ParseAmount parses a non-negative decimal magnitude below 10^15 with at
// most ten decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(FieldAmount, s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, invalid(FieldAmount, "must not be negative")
	}
	return d, nil
}

// ParseBalance parses a signed starting balance with the same bounds as
// ParseAmount.
func ParseBalance(s string) (decimal.Decimal, error) {
	return parseDecimal(FieldBalance, s)
}

// NewTrade validates c and builds a Trade whose ID is stamped with created.
func NewTrade(c Candidate, created time.Time) (Trade, error) {
	pair := strings.TrimSpace(c.Pair)
	if pair == "" {
		return Trade{}, invalid(FieldPair, "required")
	}

	amount, err := ParseAmount(c.Amount)
	if err != nil {
		return Trade{}, err
	}

	date, err := ParseDate(c.Date, c.Location)
	if err != nil {
		return Trade{}, err
	}

	if strings.TrimSpace(c.Outcome) == "" {
		return Trade{}, invalid(FieldOutcome, "required")
	}
	outcome, err := ParseOutcome(strings.TrimSpace(c.Outcome))
	if err != nil {
		return Trade{}, invalid(FieldOutcome, err.Error())
	}

	return Trade{
		ID:         id.NewAt(created),
		Date:       date,
		Pair:       pair,
		Strategy:   strings.TrimSpace(c.Strategy),
		Outcome:    outcome,
		Amount:     amount,
		Notes:      c.Notes,
		Attachment: c.Attachment,
	}, nil
}

// AddTrade validates c and returns a new list with the trade appended. The
// input slice is never modified, so a rejected or unpersisted add leaves the
// caller's list exactly as it was.
func AddTrade(trades []Trade, c Candidate, created time.Time) ([]Trade, Trade, error) {
	t, err := NewTrade(c, created)
	if err != nil {
		return trades, Trade{}, err
	}
	return Append(trades, t), t, nil
}

// Append returns a copy of trades with t added at the end.
func Append(trades []Trade, t Trade) []Trade {
	out := slices.Clone(trades)
	return append(out, t)
}
