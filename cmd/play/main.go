// play runs a billiards table locally.
//
// Usage:
//
//	play desktop           - Play in a window
//	play terminal          - Play in the terminal with the mouse
//	play scores            - Show local high scores
//
// Global flags:
//
//	--fps <rate>       - Frames per second (default: 60)
//	--profile <path>   - Session profile YAML (default: embedded)
//	--player <name>    - Name stored with scores
//	--db <path>        - Scores database (default: ~/.billiards/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagFPS     int
	flagProfile string
	flagPlayer  string
	flagDBPath  string
	flagMute    bool
	flagDebug   bool
)

func main() {
	godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "play",
	Short: "Play billiards locally",
	Long: `Rack a table and pot all fifteen balls.

Drag away from a ball and release to strike it; the further the drag, the
harder the shot. Pocketing the cue ball returns it to its spot.

Examples:
  play desktop
  play terminal --fps 30
  play scores`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagDebug {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frames per second")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", os.Getenv("PROFILE_PATH"), "Path to a session profile YAML")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", os.Getenv("USER"), "Player name stored with scores")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.billiards/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().BoolVar(&flagMute, "mute", false, "Disable sound")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Verbose logging")

	rootCmd.AddCommand(desktopCmd)
	rootCmd.AddCommand(terminalCmd)
	rootCmd.AddCommand(scoresCmd)
}
