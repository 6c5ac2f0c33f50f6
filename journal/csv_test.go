package journal

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/tradebook/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrades() []ledger.Trade {
	return []ledger.Trade{
		{
			ID:       "01HV00000000000000TRADE001",
			Date:     time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), // Friday
			Pair:     "EUR_USD",
			Strategy: "trend-following",
			Outcome:  ledger.Profit,
			Amount:   decimal.RequireFromString("200"),
			Notes:    "held, then \"scaled\" out",
		},
		{
			ID:       "01HV00000000000000TRADE002",
			Date:     time.Date(2024, 3, 16, 14, 20, 0, 0, time.UTC), // Saturday
			Pair:     "XAUUSD",
			Strategy: "breakout",
			Outcome:  ledger.Loss,
			Amount:   decimal.RequireFromString("50.5"),
		},
	}
}

func TestWriteTradesCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, ledger.DefaultLabels, sampleTrades()))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Date", "Day", "Pair", "Strategy", "Result", "Amount", "Notes"}, rows[0])
	assert.Equal(t, []string{"2024-03-15T10:30", "Jumat", "EUR_USD", "trend-following", "Profit", "200", "held, then \"scaled\" out"}, rows[1])
	assert.Equal(t, []string{"2024-03-16T14:20", "Sabtu", "XAUUSD", "breakout", "Loss", "50.5", ""}, rows[2])
}

func TestWriteTradesCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTradesCSV(&buf, ledger.DefaultLabels, nil))
	assert.Equal(t, "Date,Day,Pair,Strategy,Result,Amount,Notes\n", buf.String())
}

func TestWriteEquityCSV(t *testing.T) {
	t.Parallel()

	st := ledger.Compute(decimal.NewFromInt(1000), "$", sampleTrades())

	var buf bytes.Buffer
	require.NoError(t, WriteEquityCSV(&buf, st))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	want := [][]string{
		{"point", "label", "balance"},
		{"0", "Start", "1000.00"},
		{"1", "Jumat", "1200.00"},
		{"2", "Sabtu", "1149.50"},
	}
	assert.Equal(t, want, rows)
}

func TestCreateFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	err := CreateFile(path, func(w io.Writer) error {
		return WriteTradesCSV(w, ledger.DefaultLabels, sampleTrades())
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,Day,Pair"))

	err = CreateFile(filepath.Join(t.TempDir(), "missing", "x.csv"), func(io.Writer) error { return nil })
	assert.Error(t, err)
}
