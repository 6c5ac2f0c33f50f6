package journal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rustyeddy/tradebook/ledger"
)

// FormatTradeOrg renders a trade as an Org-mode heading with its facts in a
// PROPERTIES drawer and the notes as the body.
func FormatTradeOrg(t ledger.Trade, l ledger.Labels, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s %s (%s)\n", t.Pair, t.Outcome, ledger.FormatAmount(currency, t.Amount), shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":DATE: %s\n", t.Date.Format(time.RFC3339))
	fmt.Fprintf(&b, ":DAY: %s\n", l.Day(t.Date))
	fmt.Fprintf(&b, ":PAIR: %s\n", t.Pair)
	if t.Strategy != "" {
		fmt.Fprintf(&b, ":STRATEGY: %s\n", t.Strategy)
	}
	fmt.Fprintf(&b, ":RESULT: %s\n", t.Outcome)
	fmt.Fprintf(&b, ":AMOUNT: %s\n", t.Amount.StringFixed(2))
	if t.Attachment != "" {
		fmt.Fprintf(&b, ":ATTACHMENT: yes\n")
	}
	b.WriteString(":END:\n")
	if t.Notes != "" {
		b.WriteString("\n")
		b.WriteString(t.Notes)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTradesOrg renders trades newest first, separated by blank lines.
func FormatTradesOrg(trades []ledger.Trade, l ledger.Labels, currency string) string {
	var b strings.Builder
	for i, t := range ledger.NewestFirst(trades) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t, l, currency))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}

// Summary is the input of the Org summary template.
type Summary struct {
	Identity string
	Created  time.Time
	State    ledger.State
}

var summaryFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var summaryTmpl = template.Must(template.New("summary").Funcs(summaryFuncs).Parse(SummaryOrgTemplate))

type summaryView struct {
	Summary
	Points  []ledger.Point
	Balance string
}

// FormatSummaryOrg renders the ledger statistics and equity curve.
func FormatSummaryOrg(s Summary) (string, error) {
	v := summaryView{
		Summary: s,
		Points:  s.State.Points(),
		Balance: ledger.FormatAmount(s.State.Currency, s.State.Stats.FinalBalance),
	}
	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const SummaryOrgTemplate = `* LEDGER: {{.Identity}}
:PROPERTIES:
:CURRENCY:    {{.State.Currency}}
:START_BAL:   {{.State.Stats.StartBalance.StringFixed 2}}
:END_BAL:     {{.State.Stats.FinalBalance.StringFixed 2}}
:NET_PL:      {{.State.Stats.NetPL.StringFixed 2}}
:RETURN_PCT:  {{printf "%.2f" .State.Stats.ReturnPct}}
:MAX_DD:      {{.State.Stats.MaxDrawdown.StringFixed 2}}
:MAX_DD_PCT:  {{printf "%.2f" .State.Stats.MaxDrawdownPct}}
:TRADES:      {{.State.Stats.TradeCount}}
:WINS:        {{.State.Stats.Wins}}
:LOSSES:      {{.State.Stats.Losses}}
:WIN_RATE:    {{printf "%.3f" .State.Stats.WinRate}}
:PROFIT_FAC:  {{if ne .State.Stats.ProfitFactor 0.0}}{{printf "%.2f" .State.Stats.ProfitFactor}}{{else}}(profit-factor?){{end}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Balance:          *{{.Balance}}*
- Win Rate:         *{{printf "%.1f" (mul100 .State.Stats.WinRate)}}%*
- Gross Profit:     *{{.State.Stats.GrossProfit.StringFixed 2}}*
- Gross Loss:       *{{.State.Stats.GrossLoss.StringFixed 2}}*

** Equity Curve
| # | Label | Balance |
|---+-------+---------|
{{- range $i, $p := .Points }}
| {{$i}} | {{$p.Label}} | {{$p.Balance.StringFixed 2}} |
{{- end }}
`
