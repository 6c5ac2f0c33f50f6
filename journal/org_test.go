package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/tradebook/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	tr := sampleTrades()[0]
	tr.Attachment = "data:image/png;base64,AAAA"
	result := FormatTradeOrg(tr, ledger.DefaultLabels, "$")

	assert.Contains(t, result, "** EUR_USD Profit $200.00 (TRADE001)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":ID: 01HV00000000000000TRADE001")
	assert.Contains(t, result, ":DATE: 2024-03-15T10:30:00Z")
	assert.Contains(t, result, ":DAY: Jumat")
	assert.Contains(t, result, ":PAIR: EUR_USD")
	assert.Contains(t, result, ":STRATEGY: trend-following")
	assert.Contains(t, result, ":RESULT: Profit")
	assert.Contains(t, result, ":AMOUNT: 200.00")
	assert.Contains(t, result, ":ATTACHMENT: yes")
	assert.Contains(t, result, ":END:")
	assert.True(t, strings.HasSuffix(result, "held, then \"scaled\" out\n"))
}

func TestFormatTradeOrgShortID(t *testing.T) {
	t.Parallel()

	tr := sampleTrades()[1]
	tr.ID = "short"
	result := FormatTradeOrg(tr, ledger.DefaultLabels, "€")

	assert.Contains(t, result, "** XAUUSD Loss €50.50 (short)")
	assert.NotContains(t, result, ":STRATEGY: \n")
	assert.NotContains(t, result, ":ATTACHMENT:")
}

func TestFormatTradesOrgNewestFirst(t *testing.T) {
	t.Parallel()

	result := FormatTradesOrg(sampleTrades(), ledger.DefaultLabels, "$")

	first := strings.Index(result, "XAUUSD")
	second := strings.Index(result, "EUR_USD")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second)
	assert.Equal(t, 2, strings.Count(result, ":PROPERTIES:"))

	assert.Empty(t, FormatTradesOrg(nil, ledger.DefaultLabels, "$"))
}

func TestFormatSummaryOrg(t *testing.T) {
	t.Parallel()

	st := ledger.Compute(decimal.NewFromInt(1000), "$", sampleTrades())
	result, err := FormatSummaryOrg(Summary{
		Identity: "alice",
		Created:  time.Date(2024, 3, 17, 9, 0, 0, 0, time.UTC),
		State:    st,
	})
	require.NoError(t, err)

	assert.Contains(t, result, "* LEDGER: alice")
	assert.Contains(t, result, ":START_BAL:   1000.00")
	assert.Contains(t, result, ":END_BAL:     1149.50")
	assert.Contains(t, result, ":NET_PL:      149.50")
	assert.Contains(t, result, ":TRADES:      2")
	assert.Contains(t, result, ":WINS:        1")
	assert.Contains(t, result, ":LOSSES:      1")
	assert.Contains(t, result, ":WIN_RATE:    0.500")
	assert.Contains(t, result, ":PROFIT_FAC:  3.96")
	assert.Contains(t, result, ":CREATED:     [2024-03-17 Sun 09:00]")
	assert.Contains(t, result, "- Balance:          *$1,149.50*")
	assert.Contains(t, result, "- Win Rate:         *50.0%*")
	assert.Contains(t, result, "| 0 | Start | 1000.00 |")
	assert.Contains(t, result, "| 2 | Sabtu | 1149.50 |")
}

func TestFormatSummaryOrgEmpty(t *testing.T) {
	t.Parallel()

	result, err := FormatSummaryOrg(Summary{
		Identity: "bob",
		State:    ledger.Compute(decimal.Zero, "$", nil),
	})
	require.NoError(t, err)
	assert.Contains(t, result, ":TRADES:      0")
	assert.Contains(t, result, ":WIN_RATE:    0.000")
	assert.Contains(t, result, ":PROFIT_FAC:  (profit-factor?)")
	assert.Contains(t, result, "| 0 | Start | 0.00 |")
}
