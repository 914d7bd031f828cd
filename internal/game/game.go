// Package game implements the playable race modes: the three career
// disciplines and the duel. Modes contain pure logic; the platform layer
// owns the terminal.
package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/tui-runner/internal/anim"
	"github.com/vovakirdan/tui-runner/internal/career"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/race"
	"github.com/vovakirdan/tui-runner/internal/registry"
	"github.com/vovakirdan/tui-runner/internal/storage"
	"github.com/vovakirdan/tui-runner/internal/track"
)

// pxPerCell converts the pixel-scale jump arc to screen rows.
const pxPerCell = 12.0

// stumbleDuration pins the fall frame after an obstacle hit, in seconds.
const stumbleDuration = 0.5

// Package-level wiring set by the CLI before any mode is created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	sharedLedger     *career.Ledger
	sharedArchive    *storage.Store
)

// SetConfigPath sets the custom race config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

var (
	loadConfigOnce sync.Once
	racesConf      config.RacesConfig
)

// loadRacesConfig resolves the race configuration once per process. Reset
// runs on session goroutines under the SSH server, so the shared race
// tables must not be rewritten per race.
func loadRacesConfig() config.RacesConfig {
	loadConfigOnce.Do(func() {
		cfg, err := config.LoadRaces(configPath)
		if err != nil {
			cfg = config.DefaultRacesConfig()
		}
		config.Apply(cfg)
		racesConf = cfg
	})
	return racesConf
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = "" // Use config default
	}
}

// SetCareer attaches the career ledger race results feed into. A nil ledger
// means practice: races run against a throwaway career and persist nothing.
func SetCareer(l *career.Ledger) {
	sharedLedger = l
}

// SetArchive attaches the results archive.
func SetArchive(s *storage.Store) {
	sharedArchive = s
}

// Game implements one career race discipline.
type Game struct {
	typ   race.Type
	title string

	runtime core.RuntimeConfig
	physics config.PhysicsConfig
	rng     *rand.Rand

	ledger  *career.Ledger
	archive *storage.Store

	ctrl    *race.Controller
	machine *anim.Machine
	course  *track.Course

	raceTitle  string
	targetTime float64

	// Vertical jump model, pixel scale: negative velocity rises.
	jumpY    float64
	velY     float64
	airborne bool

	stumbleTimer float64

	score     int
	gameOver  bool
	paused    bool
	recorded  bool
	outcome   race.Result
	newRecord bool
	initErr   error
}

// New creates a race mode for one discipline.
func New(typ race.Type, title string) *Game {
	return &Game{typ: typ, title: title}
}

// ID returns the unique identifier for this mode.
func (g *Game) ID() string {
	return string(g.typ)
}

// Title returns the display name for this mode.
func (g *Game) Title() string {
	return g.title
}

// Reset initializes or restarts the race.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))

	g.physics = loadRacesConfig().Physics

	g.ledger = sharedLedger
	g.archive = sharedArchive
	if g.ledger == nil {
		// Practice career: same field generation, nothing persisted.
		// The difficulty preset shapes the throwaway athlete's stats.
		g.ledger = career.NewLedgerWithStats(config.StartingStats(difficultyPreset), g.rng)
	}
	if difficultyPreset != "" {
		g.ledger.SetFixedFields(config.IsFixedPreset(difficultyPreset))
	}

	details := g.ledger.CompetitionDetails(g.typ)
	g.raceTitle = details.Title
	g.targetTime = details.TargetTime

	ctrl, err := race.NewController(g.typ, g.ledger.RaceStats(), details.Entries, g.ledger.LowestTier(), g.rng)
	if err != nil {
		g.initErr = err
		g.gameOver = true
		return
	}
	g.ctrl = ctrl
	g.machine = anim.NewMachine()

	g.course = nil
	if cfg := ctrl.Config(); cfg.Obstacles {
		g.course = track.Generate(cfg, seed)
	}

	g.jumpY = 0
	g.velY = 0
	g.airborne = false
	g.stumbleTimer = 0
	g.score = 0
	g.gameOver = false
	g.paused = false
	g.recorded = false
	g.outcome = race.Result{}
	g.newRecord = false
	g.initErr = nil

	g.ctrl.Start()
}

// Step advances the race by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionBack) {
		g.ctrl.Abandon()
	}

	dt := core.ClampDelta(g.runtime.Delta())

	// Jump input only matters mid-race and on the ground.
	if in.Has(core.ActionJump) && !g.airborne && g.ctrl.Phase() == race.PhaseRunning {
		g.velY = -g.physics.JumpImpulse
		g.airborne = true
		g.ctrl.Jump()
		g.machine.Set(anim.StateJumping) //nolint:errcheck // locked one-shots keep playing
	}

	g.stepJump(dt)

	if g.stumbleTimer > 0 {
		g.stumbleTimer -= dt
		if g.stumbleTimer <= 0 && g.machine.State() == anim.StateFalling {
			g.machine.Force(anim.StateRunning) //nolint:errcheck
		}
	}

	g.ctrl.Tick(dt, race.TickInput{
		MashA: in.Has(core.ActionMashA),
		MashB: in.Has(core.ActionMashB),
	})

	snap := g.ctrl.Snapshot()

	if g.course != nil && g.ctrl.Phase() == race.PhaseRunning {
		if ev, ok := g.course.Advance(snap.Distance, g.airborne); ok && !ev.Cleared {
			g.ctrl.Stumble()
			g.machine.Force(anim.StateFalling) //nolint:errcheck
			g.stumbleTimer = stumbleDuration
		}
	}

	g.machine.Advance(dt, anim.Physics{
		VelY:     g.velY,
		JumpPeak: g.physics.JumpImpulse,
		Pace:     snap.Pace,
		BasePace: g.ctrl.Pace().BasePace(),
	})

	if g.ctrl.Phase().Terminal() && !g.recorded {
		g.finalize()
	}

	return core.StepResult{State: g.State()}
}

// stepJump advances the vertical impulse-and-gravity arc. Velocities are on
// the original pixel scale, integrated per 60Hz frame.
func (g *Game) stepJump(dt float64) {
	if !g.airborne {
		return
	}
	g.velY += g.physics.Gravity * dt * 60
	g.jumpY += g.velY * dt * 60
	if g.jumpY >= 0 {
		g.jumpY = 0
		g.velY = 0
		g.airborne = false
		if g.machine.State() == anim.StateJumping {
			g.machine.Force(anim.StateRunning) //nolint:errcheck
		}
	}
}

// finalize runs once when the race reaches a terminal phase: pick the
// closing animation, fold the result into the career, archive it.
func (g *Game) finalize() {
	res, ok := g.ctrl.Result()
	if !ok {
		return
	}
	g.recorded = true
	g.gameOver = true
	g.outcome = res
	g.score = res.Score

	switch {
	case res.Finished && res.Position == 1:
		g.machine.Force(anim.StateFlex) //nolint:errcheck
	case res.Finished:
		g.machine.Force(anim.StateHeadScratch) //nolint:errcheck
	default:
		g.machine.Force(anim.StateCrying) //nolint:errcheck
	}

	meet := g.ledger.MeetName()
	season := g.ledger.SeasonLabel()

	// Persistence is best-effort from inside the tick; the career screen
	// reads the authoritative state back from storage.
	if sharedLedger != nil {
		out, err := g.ledger.RecordRaceResult(res)
		if err == nil {
			g.newRecord = out.IsNewRecord
		}
		if res.Finished {
			g.ledger.AdvanceToNextMeet() //nolint:errcheck
		}
	}
	if g.archive != nil {
		g.archive.SaveResult(res, meet, season) //nolint:errcheck
	}
}

// RaceSnapshot exposes the live race state for the spectator feed.
func (g *Game) RaceSnapshot() race.Snapshot {
	if g.ctrl == nil {
		return race.Snapshot{}
	}
	return g.ctrl.Snapshot()
}

// State returns the current mode state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Register the career disciplines with the registry
func init() {
	registry.Register("sprint", func() registry.Mode { return New(race.Sprint, "100m Sprint") })
	registry.Register("mile", func() registry.Mode { return New(race.Mile, "Mile Run") })
	registry.Register("country", func() registry.Mode { return New(race.Country, "Cross Country") })
}
