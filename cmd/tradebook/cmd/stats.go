package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rustyeddy/tradebook/journal"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show balance, win rate and equity curve",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades or the equity curve as CSV",
	Long: `Export ledger data as CSV.

Subcommands:
  trades - Date, Day, Pair, Strategy, Result, Amount, Notes
  equity - point, label, balance

Examples:
  tradebook export trades -u alice -o trades.csv
  tradebook export equity -u alice`,
}

var exportTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Export the trade list",
	Args:  cobra.NoArgs,
	RunE:  runExportTrades,
}

var exportEquityCmd = &cobra.Command{
	Use:   "equity",
	Short: "Export the equity curve",
	Args:  cobra.NoArgs,
	RunE:  runExportEquity,
}

var (
	statsJSON bool
	exportOut string
)

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportTradesCmd)
	exportCmd.AddCommand(exportEquityCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the ledger state as JSON")
	exportCmd.PersistentFlags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")
}

func runStats(cmd *cobra.Command, args []string) error {
	s, a, err := login(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := s.Query()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	id, _ := s.Identity()
	org, err := journal.FormatSummaryOrg(journal.Summary{
		Identity: id,
		Created:  time.Now(),
		State:    st,
	})
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	fmt.Fprint(out, org)
	return nil
}

func runExportTrades(cmd *cobra.Command, args []string) error {
	s, a, err := login(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	trades, err := s.Trades()
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		return fmt.Errorf("no trades to export")
	}
	return writeExport(cmd, func(w io.Writer) error {
		return journal.WriteTradesCSV(w, cfg.Labels.Ledger(), trades)
	})
}

func runExportEquity(cmd *cobra.Command, args []string) error {
	s, a, err := login(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	st, err := s.Query()
	if err != nil {
		return err
	}
	return writeExport(cmd, func(w io.Writer) error {
		return journal.WriteEquityCSV(w, st)
	})
}

func writeExport(cmd *cobra.Command, fn func(io.Writer) error) error {
	if exportOut == "-" {
		return fn(cmd.OutOrStdout())
	}
	if err := journal.CreateFile(exportOut, fn); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", exportOut)
	return nil
}
