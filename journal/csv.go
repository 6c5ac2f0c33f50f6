package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rustyeddy/tradebook/ledger"
)

// WriteTradesCSV writes the trade export with a header row.
func WriteTradesCSV(w io.Writer, l ledger.Labels, trades []ledger.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TradeHeader); err != nil {
		return err
	}
	for _, r := range Rows(l, trades) {
		if err := cw.Write(r.fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EquityHeader is the column order of the equity export.
var EquityHeader = []string{"point", "label", "balance"}

// WriteEquityCSV writes one row per point of the equity series.
func WriteEquityCSV(w io.Writer, st ledger.State) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EquityHeader); err != nil {
		return err
	}
	for i, p := range st.Points() {
		if err := cw.Write([]string{strconv.Itoa(i), p.Label, p.Balance.StringFixed(2)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CreateFile writes an export to path through fn.
func CreateFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
