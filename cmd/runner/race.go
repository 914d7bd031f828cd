package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-runner/internal/career"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/game"
	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/spectate"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagPractice   bool
	flagSpectate   string
)

var raceCmd = &cobra.Command{
	Use:   "race <mode>",
	Short: "Run a race",
	Long: `Start the specified race.

Controls:
  A/B        - Alternate to build speed
  Space      - Jump (cross country obstacles)
  P          - Pause
  Esc        - Abandon the race
  R          - Restart (after the race is over)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Stronger starting stats
  normal - Default starting stats
  hard   - Weaker starting stats
  fixed  - Default stats, field strength does not scale with the meet

Examples:
  runner race sprint
  runner race country --difficulty easy
  runner race mile --practice
  runner race sprint --config ./my-races.yaml
  runner race sprint --spectate :8080`,
	Args: cobra.ExactArgs(1),
	Run:  runRace,
}

func init() {
	raceCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom race config YAML")
	raceCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	raceCmd.Flags().BoolVar(&flagPractice, "practice", false, "Practice run: nothing is saved to the career")
	raceCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a live WebSocket spectator feed on this address (e.g. :8080)")
}

func runRace(cmd *cobra.Command, args []string) {
	modeID := args[0]

	if !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown race %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'runner list' to see available races.")
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	game.SetConfigPath(flagConfig)
	game.SetDifficultyPreset(flagDifficulty)

	// Open the career database
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open career database: %v\n", err)
		// Continue without storage - the race still works
		store = nil
	}
	if store != nil && !flagPractice {
		setupCareer(store, config.DifficultyPreset(flagDifficulty))
	}

	hub := startSpectateFeed(flagSpectate)

	mode, err := registry.Create(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating race: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(mode, hub, cfg)

	if store != nil {
		store.Close() //nolint:errcheck
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running race: %v\n", runErr)
		os.Exit(1)
	}
}

// setupCareer loads the persisted career and wires it into the game layer.
// A corrupt save is reported and replaced by a fresh career. The difficulty
// preset seeds the stats of a fresh career; an existing save keeps its own.
func setupCareer(store *storage.Store, preset config.DifficultyPreset) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	stats, found, err := store.LoadCareer()
	var ledger *career.Ledger
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Warning: career save unreadable, starting fresh: %v\n", err)
		ledger = career.NewLedgerWithStats(config.StartingStats(preset), rng)
	case found:
		ledger = career.NewLedgerFromStats(stats, rng)
	default:
		ledger = career.NewLedgerWithStats(config.StartingStats(preset), rng)
	}

	ledger.Attach(store)
	game.SetCareer(ledger)
	game.SetArchive(store)
}

// startSpectateFeed launches the WebSocket spectator feed if an address
// was given. Returns nil when the feed is disabled.
func startSpectateFeed(addr string) *spectate.Hub {
	if addr == "" {
		return nil
	}
	hub := spectate.NewHub()
	go hub.Run()
	go func() {
		if err := spectate.ListenAndServe(addr, hub); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: spectator feed stopped: %v\n", err)
		}
	}()
	return hub
}
