package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/race"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var careerCmd = &cobra.Command{
	Use:   "career",
	Short: "Show the career summary",
	Long: `Display the saved career: season, stats, records and highlights.

Examples:
  runner career
  runner career --db ./runner.db`,
	Run: runCareer,
}

func runCareer(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening career database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close() //nolint:errcheck

	stats, found := loadCareerStats(store)
	if !found {
		fmt.Println("No career saved yet.")
		fmt.Println()
		fmt.Println("Run 'runner race sprint' to start one.")
		return
	}

	fmt.Printf("Career - %s\n", stats.Season)
	fmt.Println()
	fmt.Printf("  Age %d, Level %d (%d/%d XP)\n",
		stats.Age, stats.Level, stats.Experience, stats.Level*100)
	fmt.Printf("  Speed %d  Endurance %d  Technique %d  Strength %d\n",
		stats.Speed, stats.Endurance, stats.Technique, stats.Strength)
	fmt.Printf("  Races %d, Wins %d\n", stats.TotalRaces, stats.Wins)
	fmt.Println()

	fmt.Println("Records:")
	for _, typ := range []race.Type{race.Sprint, race.Mile, race.Country} {
		rec, ok := stats.Records[typ]
		if !ok {
			continue
		}
		fmt.Printf("  %-8s %9s  %s at %s\n",
			typ, race.FormatTime(rec.Time), humanize.Ordinal(rec.Position), rec.Meet)
	}

	if len(stats.CareerHighlights) > 0 {
		fmt.Println()
		fmt.Println("Highlights:")
		// Newest last, show up to the ten most recent
		start := 0
		if len(stats.CareerHighlights) > 10 {
			start = len(stats.CareerHighlights) - 10
		}
		for _, h := range stats.CareerHighlights[start:] {
			fmt.Printf("  %s - %s\n", h.Season, h.Event)
		}
	}

	if len(stats.SeasonResults) > 0 {
		fmt.Println()
		fmt.Printf("This season: %d races\n", len(stats.SeasonResults))
	}
}
