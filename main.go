package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tim-martinez/node-form/internal/config"
	"github.com/tim-martinez/node-form/internal/logging"
)

const skipSetup = "skip-setup"

var (
	// Global flags
	cfgPath string
	verbose bool

	cfg        *config.Config
	logger     *zap.Logger
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "node-form",
	Short: "Multi-section questionnaire with a JSON submission store",
	Long: `node-form serves a questionnaire and stores completed submissions.

Run "node-form serve" to start the submission store and
"node-form fill" to complete the questionnaire in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] == "true" {
			return nil
		}
		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		// fill owns the terminal and builds its own file logger.
		if cmd.Name() == "fill" {
			return nil
		}
		logger, logCleanup, err = logging.New(cfg.Log, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			logCleanup()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/node-form/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(submissionsCmd)
	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
