package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pontoedu/apostila-review/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "apostila-review",
	Short: "Automated review pipeline for educational booklets",
	Long:  "Extracts text from apostila documents, verifies external links through tiered content sources, and evaluates quality criteria via a generative model.",
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
