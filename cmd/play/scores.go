package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/playpool/billiards/internal/storage"
	"github.com/spf13/cobra"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show local high scores",
	Long: `Display the best finished tables, highest score first and fewest
shots breaking ties.

Examples:
  play scores
  play scores --limit 20`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to show")
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.OpenLocal(flagDBPath)
	if err != nil {
		return fmt.Errorf("open scores database: %w", err)
	}
	defer store.Close()

	scores, err := store.TopScores(context.Background(), flagLimit)
	if err != nil {
		return fmt.Errorf("retrieve scores: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("High Scores"))
	fmt.Fprintln(out)

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'play desktop' or 'play terminal' to set the first one!")
		return nil
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("  %-4s  %-16s  %-5s  %-5s  %s", "Rank", "Player", "Score", "Shots", "Date")))
	for i, e := range scores {
		date := e.EndedAt.Local().Format("2006-01-02 15:04")
		fmt.Fprintf(out, "  %-4d  %-16s  %-5d  %-5d  %s\n", i+1, e.PlayerName, e.Score, e.Shots, date)
	}
	return nil
}
