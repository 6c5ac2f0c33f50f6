package cmd

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/tradebook/store"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new user",
	Long: `Create a user with a starting balance of 0 and currency "$".

Example:
  tradebook register -u alice -p s3cret`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change a user's password",
	Args:  cobra.NoArgs,
	RunE:  runPasswd,
}

var passwdNew string

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(passwdCmd)

	passwdCmd.Flags().StringVar(&passwdNew, "new", "", "new password (required)")
	passwdCmd.MarkFlagRequired("new")
}

func runRegister(cmd *cobra.Command, args []string) error {
	user, pass, err := credentials()
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.auth.Register(cmd.Context(), user, pass); err != nil {
		if errors.Is(err, store.ErrDuplicateIdentity) {
			return fmt.Errorf("user %q already exists", user)
		}
		return fmt.Errorf("register: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered %s\n", user)
	return nil
}

func runPasswd(cmd *cobra.Command, args []string) error {
	user, pass, err := credentials()
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.auth.ChangePassword(cmd.Context(), user, pass, passwdNew); err != nil {
		return fmt.Errorf("passwd: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Password changed for %s\n", user)
	return nil
}
