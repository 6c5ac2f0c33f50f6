package ledger

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EquitySeries folds trades in insertion order starting from initial. The
// result has len(trades)+1 entries; entry 0 is initial and entry i+1 is the
// balance after trade i.
func EquitySeries(initial decimal.Decimal, trades []Trade) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(trades)+1)
	balance := initial
	out = append(out, balance)
	for _, t := range trades {
		balance = balance.Add(t.Signed())
		out = append(out, balance)
	}
	return out
}

// Stats summarizes a ledger.
type Stats struct {
	StartBalance decimal.Decimal `json:"start_balance"`
	FinalBalance decimal.Decimal `json:"final_balance"`

	TradeCount int     `json:"trade_count"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRate    float64 `json:"win_rate"` // 0..1, 0 when there are no trades

	GrossProfit  decimal.Decimal `json:"gross_profit"`
	GrossLoss    decimal.Decimal `json:"gross_loss"`
	NetPL        decimal.Decimal `json:"net_pl"`
	ProfitFactor float64         `json:"profit_factor"` // 0 when GrossLoss is 0
	ReturnPct    float64         `json:"return_pct"`    // 0 unless StartBalance > 0

	MaxDrawdown    decimal.Decimal `json:"max_drawdown"`
	MaxDrawdownPct float64         `json:"max_drawdown_pct"`
}

// Statistics computes Stats from an equity series and the trades that
// produced it. series must come from EquitySeries(…, trades).
func Statistics(series []decimal.Decimal, trades []Trade) Stats {
	var s Stats
	if len(series) == 0 {
		return s
	}

	s.StartBalance = series[0]
	s.FinalBalance = series[len(series)-1]
	s.TradeCount = len(trades)

	for _, t := range trades {
		if t.Outcome == Profit {
			s.Wins++
			s.GrossProfit = s.GrossProfit.Add(t.Amount)
		} else {
			s.Losses++
			s.GrossLoss = s.GrossLoss.Add(t.Amount)
		}
	}
	s.NetPL = s.GrossProfit.Sub(s.GrossLoss)

	if s.TradeCount > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TradeCount)
	}
	if s.GrossLoss.IsPositive() {
		s.ProfitFactor = s.GrossProfit.Div(s.GrossLoss).InexactFloat64()
	}
	if s.StartBalance.IsPositive() {
		s.ReturnPct = s.NetPL.Div(s.StartBalance).Mul(hundred).InexactFloat64()
	}

	peak := series[0]
	for _, b := range series[1:] {
		if b.GreaterThan(peak) {
			peak = b
			continue
		}
		dd := peak.Sub(b)
		if dd.GreaterThan(s.MaxDrawdown) {
			s.MaxDrawdown = dd
			if peak.IsPositive() {
				s.MaxDrawdownPct = dd.Div(peak).Mul(hundred).InexactFloat64()
			}
		}
	}
	return s
}

// State is everything derived from a ledger. It is never stored; it is
// recomputed from the trades and profile whenever it is asked for.
type State struct {
	Currency string            `json:"currency"`
	Equity   []decimal.Decimal `json:"equity"`
	Labels   []string          `json:"labels"`
	Stats    Stats             `json:"stats"`
}

// Point is one labeled entry of the equity series.
type Point struct {
	Label   string
	Balance decimal.Decimal
}

// Points pairs each equity value with its label.
func (s State) Points() []Point {
	out := make([]Point, len(s.Equity))
	for i, b := range s.Equity {
		out[i] = Point{Balance: b}
		if i < len(s.Labels) {
			out[i].Label = s.Labels[i]
		}
	}
	return out
}

// Compute derives the State of a ledger using DefaultLabels.
func Compute(initial decimal.Decimal, currency string, trades []Trade) State {
	return ComputeLabeled(DefaultLabels, initial, currency, trades)
}

// ComputeLabeled is Compute with a custom label table.
func ComputeLabeled(l Labels, initial decimal.Decimal, currency string, trades []Trade) State {
	series := EquitySeries(initial, trades)
	return State{
		Currency: currency,
		Equity:   series,
		Labels:   l.Series(trades),
		Stats:    Statistics(series, trades),
	}
}
