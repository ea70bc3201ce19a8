// Command catalog validates, seeds and publishes the country policy-facts
// dataset, and runs the engine locally against it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/utils"
)

var (
	factsFile string
	cfg       *config.Config
	rootCmd   = &cobra.Command{
		Use:   "catalog",
		Short: "Manage the nomad visa policy catalog",
		Long: `catalog manages the country policy-facts dataset used by the
recommendation engine: validate it, seed it into Postgres, publish it to S3
and run recommendations against it locally.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&factsFile, "file", "", "policy-facts JSON file (default: embedded dataset)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(recommendCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	utils.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = cfg.LogLevel
	}
	return utils.InitLogger(level)
}
