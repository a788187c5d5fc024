package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var playOpts struct {
	duration time.Duration
	stopAll  bool
}

var playCmd = &cobra.Command{
	Use:   "play <name>...",
	Short: "Play one or more named sounds",
	Long: `Play the named sounds and keep the process alive while they sound.

Playback is fire-and-forget: unknown names and undecodable files are
reported as warnings and skipped. The command exits after --for elapses.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().DurationVar(&playOpts.duration, "for", 5*time.Second,
		"How long to keep playing before exiting")
	playCmd.Flags().BoolVar(&playOpts.stopAll, "stop-all", true,
		"Stop all sounds before exiting")
}

func runPlay(cmd *cobra.Command, args []string) error {
	b, err := getBoard()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := b.Wait(ctx); err != nil {
		return fmt.Errorf("soundboard not ready: %w", err)
	}

	for _, name := range args {
		if !b.HasSound(name) {
			logger.Warn("unknown sound", "sound", name)
			continue
		}
		b.Play(ctx, name)
	}

	select {
	case <-time.After(playOpts.duration):
	case <-ctx.Done():
	}

	if playOpts.stopAll {
		b.StopAll(context.Background())
	}
	return nil
}
