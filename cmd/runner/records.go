package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-runner/internal/career"
	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Browse the results archive",
	Long: `Open the interactive records browser.

Views:
  Recent Races    - The newest archived results
  Personal Bests  - The fastest finished run per discipline
  Career Records  - The career ledger's standing records

Examples:
  runner records
  runner records --db ./runner.db`,
	Run: runRecords,
}

func runRecords(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening career database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close() //nolint:errcheck

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	stats, hasCareer := loadCareerStats(store)

	if _, err := tui.RunRecords(store, stats, hasCareer, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadCareerStats reads the persisted career for display purposes.
func loadCareerStats(store *storage.Store) (career.PlayerStats, bool) {
	if store == nil {
		return career.PlayerStats{}, false
	}
	stats, found, err := store.LoadCareer()
	if err != nil || !found {
		return career.PlayerStats{}, false
	}
	return stats, true
}
