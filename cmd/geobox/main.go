package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1F47E/geobox/pkg/geobox"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envLocal = "local"
	envDev   = "development"

	envConfigPath = "GEOBOX_CONFIG"
	envLogFlavour = "GEOBOX_ENV"
)

// app carries the state shared by all subcommands
type app struct {
	configPath string
	env        string
	verbose    bool

	cfg    geobox.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "geobox",
		Short: "Fixed-precision geobox identifiers for storing and searching points",
		Long: `Computes grid-aligned bounding box identifiers for a coordinate at several scopes.
Points are stored under every box they fall in plus the neighbouring boxes near an edge.
Searches use the single box around the query point at the nearest scope.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Grid config file (YAML), defaults to $"+envConfigPath)
	rootCmd.PersistentFlags().StringVar(&a.env, "env", "", "Log format: local, development, production; defaults to $"+envLogFlavour)
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(
		a.storageCmd(),
		a.searchCmd(),
		a.decodeCmd(),
		a.demoCmd(),
		a.benchCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads .env, the logger and the grid config before any subcommand runs
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	if !cmd.Flags().Changed("config") {
		a.configPath = os.Getenv(envConfigPath)
	}
	if !cmd.Flags().Changed("env") {
		a.env = os.Getenv(envLogFlavour)
	}
	a.logger = setupLogger(cmd.ErrOrStderr(), a.env, a.verbose)

	a.cfg = geobox.DefaultConfig()
	if a.configPath != "" {
		cfg, err := geobox.LoadConfigFile(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a.cfg = cfg
	}
	a.cfg.Logger = a.logger

	a.logger.Debug("config loaded",
		"path", a.configPath,
		"scopes", len(a.cfg.Scopes),
		"margin", a.cfg.Margin.String(),
		"all_corners", a.cfg.AllCorners)
	return nil
}

// setupLogger picks the handler for the environment. Logs go to w so stdout
// stays reserved for identifiers.
func setupLogger(w io.Writer, env string, verbose bool) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	case envDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel(slog.LevelInfo, verbose)}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel(slog.LevelWarn, verbose)}))
	}
}

func logLevel(base slog.Level, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return base
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
