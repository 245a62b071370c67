package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// rootOptions is shared by every subcommand.
type rootOptions struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}
	config.SetDefaults(opts.v)

	rootCmd := &cobra.Command{
		Use:   "ledger",
		Short: "📒 Personal income, expense, and budget tracker",
		Long: `ledger records income, expenses, and debts, groups them by category,
and tracks spending against monthly budgets.

Run "ledger ui" for the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(opts)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: $HOME/.config/ledger/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = opts.v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = opts.v.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(transactionsCmd(opts))
	rootCmd.AddCommand(categoriesCmd(opts))
	rootCmd.AddCommand(budgetCmd(opts))
	rootCmd.AddCommand(dashboardCmd(opts))
	rootCmd.AddCommand(importCmd(opts))
	rootCmd.AddCommand(exportCmd(opts))
	rootCmd.AddCommand(seedCmd(opts))
	rootCmd.AddCommand(uiCmd(opts))
	rootCmd.AddCommand(checkpointCmd(opts))
	rootCmd.AddCommand(migrateCmd(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to load .env:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, common.UserMessage(err))
		os.Exit(1)
	}
}

func initConfig(opts *rootOptions) error {
	v := opts.v
	if opts.cfgFile != "" {
		v.SetConfigFile(opts.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".config", "ledger"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// LEDGER_DATABASE_PATH overrides database.path.
	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := common.SetupLogger(v.GetString("logging.level"), v.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	slog.Debug("configuration loaded", "file", v.ConfigFileUsed())
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ledger %s\n", version)
		},
	}
}
