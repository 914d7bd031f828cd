// runner is a terminal track-and-field career game.
//
// Usage:
//
//	runner list              - List available race modes
//	runner race <mode>       - Run a race
//	runner menu              - Pick races interactively
//	runner career            - Show the career summary
//	runner records           - Browse the results archive
//	runner serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible races
//	--db <path>     - Set database path (default: ~/.runner/runner.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import game to register the race modes
	_ "github.com/vovakirdan/tui-runner/internal/game"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Rob The Runner - a track career in your terminal",
	Long: `Rob The Runner is a terminal game about a runner working through a
track-and-field career, from high school meets to the Olympics.

Available commands:
  list     - Show all race modes
  race     - Run a specific race directly
  menu     - Interactive race picker menu
  career   - Show the career summary
  records  - Browse the results archive
  serve    - Start SSH server for remote play

Examples:
  runner list
  runner race sprint
  runner race country --difficulty easy
  runner menu
  runner serve --ssh :2222
  runner records`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.runner/runner.db", "Path to career database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(raceCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(careerCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(serveCmd)
}
