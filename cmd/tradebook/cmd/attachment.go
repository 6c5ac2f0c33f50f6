package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/tradebook/attachment"
	"github.com/rustyeddy/tradebook/ledger"
	"github.com/spf13/cobra"
)

var tradeAttachmentCmd = &cobra.Command{
	Use:   "attachment <trade-id>",
	Short: "Save a trade's attachment to a file",
	Long: `Write the file embedded in a trade back to disk. The trade may be named
by its full ID or by the short ID shown in "trade list".

Example:
  tradebook trade attachment 7Q2M4K1Z -u alice -o entry.png`,
	Args: cobra.ExactArgs(1),
	RunE: runTradeAttachment,
}

var attachmentOut string

func init() {
	tradeCmd.AddCommand(tradeAttachmentCmd)
	tradeAttachmentCmd.Flags().StringVarP(&attachmentOut, "out", "o", "", "output file (default <trade-id><ext>)")
}

func runTradeAttachment(cmd *cobra.Command, args []string) error {
	s, a, err := login(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	trades, err := s.Trades()
	if err != nil {
		return err
	}

	t, err := findTrade(trades, args[0])
	if err != nil {
		return err
	}
	if t.Attachment == "" {
		return fmt.Errorf("trade %s has no attachment", t.ID)
	}
	_, data, err := attachment.Decode(t.Attachment)
	if err != nil {
		return fmt.Errorf("trade %s: %w", t.ID, err)
	}
	out := attachmentOut
	if out == "" {
		out = t.ID + attachment.Extension(t.Attachment)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write attachment: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%d bytes)\n", out, len(data))
	return nil
}

// findTrade resolves a full ID, or an ID suffix that matches exactly one trade.
func findTrade(trades []ledger.Trade, ref string) (ledger.Trade, error) {
	want := strings.ToUpper(strings.TrimSpace(ref))
	if want == "" {
		return ledger.Trade{}, fmt.Errorf("empty trade id")
	}

	var matches []ledger.Trade
	for _, t := range trades {
		if t.ID == want {
			return t, nil
		}
		if strings.HasSuffix(t.ID, want) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return ledger.Trade{}, fmt.Errorf("no trade matching %q", ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, t := range matches {
			ids[i] = t.ID
		}
		return ledger.Trade{}, fmt.Errorf("%q is ambiguous, it matches %s", ref, strings.Join(ids, ", "))
	}
}
