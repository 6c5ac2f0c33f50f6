package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rustyeddy/tradebook/config"
	"github.com/rustyeddy/tradebook/logger"
	"github.com/spf13/cobra"
)

// EnvPassword is read when --password is not given.
const EnvPassword = "TRADEBOOK_PASSWORD"

var rootCmd = &cobra.Command{
	Use:   "tradebook",
	Short: "A personal trading journal with a running equity curve",
	Long: `Tradebook records profit and loss trades against a starting balance
and keeps a running equity curve and summary statistics per user.

It provides tools for:
  - Registering users and keeping their ledgers apart
  - Journaling trades with notes and screenshots
  - Computing the equity curve, win rate, profit factor and drawdown
  - Exporting trades and equity to CSV or Org-mode`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgPath  string
	envPath  string
	userFlag string
	passFlag string

	cfg *config.Config
	log *slog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "optional .env file with TRADEBOOK_* overrides")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "username")
	rootCmd.PersistentFlags().StringVarP(&passFlag, "password", "p", "", "password (default $"+EnvPassword+")")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFromFile(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Default()
	}
	if err := cfg.ApplyEnv(envPath); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	log = logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	return nil
}

func credentials() (string, string, error) {
	pass := passFlag
	if pass == "" {
		pass = os.Getenv(EnvPassword)
	}
	if userFlag == "" || pass == "" {
		return "", "", fmt.Errorf("--user and --password (or $%s) are required", EnvPassword)
	}
	return userFlag, pass, nil
}
