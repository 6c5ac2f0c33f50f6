package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradebook/ledger"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <amount>",
	Short: "Set the starting balance",
	Long: `Set the balance the equity curve starts from. Negative values are allowed.

Example:
  tradebook balance 1000 -u alice`,
	Args: cobra.ExactArgs(1),
	RunE: runBalance,
}

var currencyCmd = &cobra.Command{
	Use:   "currency <symbol|ISO code>",
	Short: "Set the display currency",
	Long: `Set the symbol shown next to amounts. ISO codes such as EUR are turned
into their symbol; anything else is used as given. Amounts are never converted.

Example:
  tradebook currency EUR -u alice`,
	Args: cobra.ExactArgs(1),
	RunE: runCurrency,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(currencyCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	bal, err := ledger.ParseBalance(args[0])
	if err != nil {
		return err
	}

	s, a, err := login(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := s.SetInitialBalance(cmd.Context(), bal); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	p, err := s.Profile()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Starting balance %s\n", ledger.FormatAmount(p.Currency, p.InitialBalance))
	return nil
}

func runCurrency(cmd *cobra.Command, args []string) error {
	s, a, err := login(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := s.SetCurrency(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("set currency: %w", err)
	}
	p, err := s.Profile()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Currency %s\n", p.Currency)
	return nil
}
