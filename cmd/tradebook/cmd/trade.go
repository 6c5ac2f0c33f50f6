package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rustyeddy/tradebook/attachment"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/ledger"
	"github.com/spf13/cobra"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Add and list trades",
	Long: `Journal trades and list them.

Subcommands:
  add  - Record a new trade
  list - List trades, newest first

Examples:
  tradebook trade add -u alice --pair EURUSD --outcome Profit --amount 200
  tradebook trade list -u alice`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new trade",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var (
	tradePair       string
	tradeStrategy   string
	tradeOutcome    string
	tradeAmount     string
	tradeDate       string
	tradeNotes      string
	tradeAttachment string
	tradeMaxSize    int64

	listFormat string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd)
	tradeCmd.AddCommand(tradeListCmd)

	tradeAddCmd.Flags().StringVar(&tradePair, "pair", "", "instrument, e.g. EURUSD (required)")
	tradeAddCmd.Flags().StringVar(&tradeStrategy, "strategy", "", "strategy label")
	tradeAddCmd.Flags().StringVar(&tradeOutcome, "outcome", string(ledger.Profit), "Profit or Loss")
	tradeAddCmd.Flags().StringVar(&tradeAmount, "amount", "", "non-negative amount (required)")
	tradeAddCmd.Flags().StringVar(&tradeDate, "date", "", "trade time, e.g. 2024-01-15T14:30 (default now)")
	tradeAddCmd.Flags().StringVar(&tradeNotes, "notes", "", "free text notes")
	tradeAddCmd.Flags().StringVar(&tradeAttachment, "attach", "", "screenshot or other file to embed")
	tradeAddCmd.Flags().Int64Var(&tradeMaxSize, "max-attach", attachment.DefaultMaxSize, "largest attachment in bytes")

	tradeListCmd.Flags().StringVarP(&listFormat, "format", "f", "org", "output format: org or json")
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Encoding runs while we log in; the trade is only built after Wait.
	pending := attachment.Start(tradeAttachment, tradeMaxSize)

	s, a, err := login(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	date := tradeDate
	if date == "" {
		date = time.Now().Format(time.RFC3339)
	}

	t, err := s.AddTradeWithAttachment(ctx, ledger.Candidate{
		Date:     date,
		Pair:     tradePair,
		Strategy: tradeStrategy,
		Outcome:  tradeOutcome,
		Amount:   tradeAmount,
		Notes:    tradeNotes,
	}, pending)
	if err != nil {
		return fmt.Errorf("add trade: %w", err)
	}

	p, err := s.Profile()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s %s %s (%s)\n",
		t.Pair, t.Outcome, ledger.FormatAmount(p.Currency, t.Amount), t.ID)
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	s, a, err := login(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	trades, err := s.Trades()
	if err != nil {
		return err
	}
	p, err := s.Profile()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch listFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ledger.NewestFirst(trades))
	case "org":
		fmt.Fprint(out, journal.FormatTradesOrg(trades, cfg.Labels.Ledger(), p.Currency))
		return nil
	default:
		return fmt.Errorf("unknown format %q", listFormat)
	}
}
