package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/soundboard/internal/board"
	"github.com/jmylchreest/soundboard/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive soundboard",
	Long: `Launch the interactive terminal soundboard.

Key bindings:
  j/k, ↑/↓    Navigate sounds
  enter/space Play selected sound
  p           Pause selected sound
  s           Stop selected sound (rewinds to start)
  S           Stop all sounds
  r           Reload selected sound from disk
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := b.Wait(ctx); err != nil {
		return fmt.Errorf("soundboard not ready: %w", err)
	}

	// Reload sounds whose files change while the TUI is up.
	if watcher, err := board.NewWatcher(b, logger); err != nil {
		logger.Warn("failed to create source watcher", "error", err)
	} else {
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("failed to start source watcher", "error", err)
		}
		defer func() { _ = watcher.Stop() }()
	}

	return tui.Run(b)
}
