package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sdr-ops/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sdr-ops",
	Short: "Sales lead qualification platform",
	Long:  "Manages sales leads, scores them against the SDR playbook, drafts outreach emails via Claude, and screens output through governance rules before anything reaches a prospect.",
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
