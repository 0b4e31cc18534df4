package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weather-outfit/config"
	"weather-outfit/internal/bootstrap"
	"weather-outfit/internal/models"
	"weather-outfit/pkg/logger"
)

type envKey struct{}

// env is built once per invocation by the root command.
type env struct {
	cfg  *config.Config
	app  *bootstrap.App
	unit models.Unit
	l    *logger.Logger
}

var (
	configPath string
	relayURL   string
	deferred   bool
	direct     bool
	unitFlag   string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "outfitctl",
	Short: "outfitctl - weather and outfit suggestions from the terminal",
	Long: `outfitctl looks up the weather for a place and suggests an outfit for it,
either by calling the generative providers directly or through a relay.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if e, ok := cmd.Context().Value(envKey{}).(*env); ok {
			_ = e.app.Close()
			_ = e.l.Stop()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultConfigPath, "path to the YAML configuration")
	flags.StringVar(&relayURL, "relay", "", "relay base url, overrides generative.relay_url")
	flags.BoolVar(&deferred, "deferred", false, "ask the relay for a job and poll it")
	flags.BoolVar(&direct, "direct", false, "call the generative providers directly even if a relay is configured")
	flags.StringVar(&unitFlag, "unit", "metric", "display unit: metric or imperial")
	flags.StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
}

func setup(cmd *cobra.Command, args []string) error {
	unit, err := models.ParseUnit(unitFlag)
	if err != nil {
		return err
	}

	cfg, err := config.NewConfigWithProvider(config.NewFileConfigProvider(configPath))
	if err != nil {
		return err
	}
	if relayURL != "" {
		cfg.Generative.RelayURL = relayURL
	}
	if deferred {
		cfg.Generative.RelayDeferred = true
	}

	mode := bootstrap.ClientAuto
	if direct {
		mode = bootstrap.ClientDirect
	}

	l := logger.NewZapLogger(cfg.App.Name, os.Stderr)
	l.SetLevel(logLevel)

	app, err := bootstrap.New(cmd.Context(), cfg, mode, l)
	if err != nil {
		return err
	}

	cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, &env{cfg: cfg, app: app, unit: unit, l: l}))
	return nil
}

func envFrom(cmd *cobra.Command) *env {
	return cmd.Context().Value(envKey{}).(*env)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
