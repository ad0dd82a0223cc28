// Package cli implements the flexin operator commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devinpereira/Flexin/internal/config"
	"github.com/devinpereira/Flexin/internal/logger"
)

var (
	configPath string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "flexin",
	Short: "Weekly workout schedule tooling",
	Long:  "Generate schedules offline, inspect and publish the model vocabulary, import the exercise catalog and mint access tokens.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "Directory containing config.yaml")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")
}

func loadConfig() config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	return cfg
}

func newLogger(cfg config.Config) *logger.Logger {
	if !verbose {
		return logger.Nop()
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		exitErr("init logger", err)
	}
	return log
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
