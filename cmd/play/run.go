package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/playpool/billiards/internal/audio"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/play"
	"github.com/playpool/billiards/internal/storage"
	"github.com/spf13/cobra"
)

var desktopCmd = &cobra.Command{
	Use:   "desktop",
	Short: "Play in a window",
	Long: `Open a window and play with the mouse.

Keys: r rack again, m mute, q or Esc quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, cleanup, err := newLocal()
		if err != nil {
			return err
		}
		defer cleanup()
		return play.RunDesktop(l, flagFPS)
	},
}

var terminalCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Play in the terminal",
	Long: `Play inside the terminal. Needs a terminal with mouse support.

Keys: r rack again, m mute, q quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// logs would tear the alternate screen
		log.SetOutput(io.Discard)
		l, cleanup, err := newLocal()
		if err != nil {
			return err
		}
		defer cleanup()
		return play.RunTerminal(l, flagFPS)
	},
}

// newLocal wires profile, score store and speaker into a Local table.
// A missing store or speaker degrades the game, it does not stop it.
func newLocal() (*play.Local, func(), error) {
	profile, err := config.LoadProfile(flagProfile)
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}

	store, err := storage.OpenLocal(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: scores will not be saved: %v\n", err)
		store = nil
	}

	var sound *audio.Player
	if !flagMute {
		sound = audio.NewPlayer()
		if err := sound.Initialize(); err != nil {
			sound = nil
		}
	}

	l, err := play.NewLocal(profile, flagPlayer, store, sound)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, fmt.Errorf("rack table: %w", err)
	}

	cleanup := func() {
		if sound != nil {
			sound.Close()
		}
		if store != nil {
			store.Close()
		}
	}
	return l, cleanup, nil
}
