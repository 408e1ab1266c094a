package main

import (
	"fmt"
	"os"

	"github.com/aggarwalComputronix/website/config"
	"github.com/aggarwalComputronix/website/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg        *config.Config
	logger     *zap.Logger
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "computronix",
	Short: "Aggarwal Computronix storefront backend",
	Long: `Serves the storefront catalog API and runs catalog maintenance tasks.

With no subcommand the HTTP server is started.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err = logging.New(cfg.Log)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./config.yaml, ./config/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
