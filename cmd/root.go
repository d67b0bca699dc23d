package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tradesphere/quote-engine/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "quote-engine",
	Short: "Landscaping quote generation pipeline",
	Long:  "Turns free-text customer messages into recognized services and priced quotes: normalization, synonym recognition, parameter collection, and two-tier pricing.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
