// Package main provides the CLI entrypoint for soundboard.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/soundboard/internal/board"
	"github.com/jmylchreest/soundboard/internal/config"
	"github.com/jmylchreest/soundboard/internal/media"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	logger     *slog.Logger
	globalOpts struct {
		verbose    bool
		configPath string
		path       string
	}

	// soundBoard is the global board instance, built on first use.
	soundBoard *board.Board
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "soundboard",
	Short: "Named sound clip player with per-sound playback options",
	Long: `soundboard manages playback of a fixed set of named sound clips.

Sounds are declared in a TOML config file with per-sound playback options
(loop, volume, muted, autoplay, preload). soundboard negotiates a playable
audio format for each sound, prepares a media element for it, and exposes
play/pause/stop controls.

Running soundboard without a subcommand launches the interactive TUI.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if globalOpts.path != "" {
			cfg.Path = globalOpts.path
		}
		return nil
	},
	// Default to TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/soundboard/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.path, "path", "",
		"Sound file path prefix (overrides config)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// getBoard builds the board from the loaded config on first use.
func getBoard() (*board.Board, error) {
	if soundBoard != nil {
		return soundBoard, nil
	}

	defaults := cfg.Defaults()
	b, err := board.New(board.Config{
		Sounds:   cfg.Sounds,
		Path:     cfg.Path,
		Defaults: &defaults,
		Driver:   media.NewBeepDriver(logger),
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build soundboard: %w", err)
	}

	soundBoard = b
	return b, nil
}
