// Package journal renders a ledger for people and spreadsheets: CSV exports
// and Org-mode blocks. It only formats; every number comes from the ledger
// package.
package journal

import (
	"github.com/rustyeddy/tradebook/ledger"
)

// Row is one line of the trade export.
type Row struct {
	Date     string
	Day      string
	Pair     string
	Strategy string
	Result   string
	Amount   string
	Notes    string
}

// TradeHeader is the column order of the trade export.
var TradeHeader = []string{"Date", "Day", "Pair", "Strategy", "Result", "Amount", "Notes"}

// Rows converts trades, in insertion order, into export rows.
func Rows(l ledger.Labels, trades []ledger.Trade) []Row {
	out := make([]Row, len(trades))
	for i, t := range trades {
		out[i] = Row{
			Date:     t.Date.Format(dateLayout),
			Day:      l.Day(t.Date),
			Pair:     t.Pair,
			Strategy: t.Strategy,
			Result:   string(t.Outcome),
			Amount:   t.Amount.String(),
			Notes:    t.Notes,
		}
	}
	return out
}

func (r Row) fields() []string {
	return []string{r.Date, r.Day, r.Pair, r.Strategy, r.Result, r.Amount, r.Notes}
}

const dateLayout = "2006-01-02T15:04"
