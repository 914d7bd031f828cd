package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-runner/internal/anim"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/race"
	"github.com/vovakirdan/tui-runner/internal/registry"
)

// duelCourseLength is the rival's course on its own internal speed scale,
// tuned so a difficulty-1 rival finishes in roughly the sprint's expected
// time. Player and rival are compared by progress, never raw distance.
const duelCourseLength = 500.0

// Duel is the alternate single-rival mode: a 100m ladder against
// increasingly fast opponents with rubber-band AI. Duels are exhibition
// races; the career ledger is never touched.
type Duel struct {
	runtime core.RuntimeConfig
	physics config.PhysicsConfig
	rng     *rand.Rand

	ctrl    *race.Controller
	opp     *race.DuelOpponent
	machine *anim.Machine

	// wins survives Reset so a victory promotes to the next rival.
	wins        int
	oppFinished bool
	oppTime     float64
	won         bool

	score    int
	gameOver bool
	paused   bool
	initErr  error
}

// NewDuel creates the duel mode.
func NewDuel() *Duel {
	return &Duel{}
}

// ID returns the unique identifier for this mode.
func (d *Duel) ID() string {
	return "duel"
}

// Title returns the display name for this mode.
func (d *Duel) Title() string {
	return "Duel Ladder"
}

// Reset initializes or restarts the duel. The win count is kept so the
// ladder carries across restarts within a session.
func (d *Duel) Reset(runtime core.RuntimeConfig) {
	d.runtime = runtime

	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d.rng = rand.New(rand.NewSource(seed))

	d.physics = loadRacesConfig().Physics

	stats := config.StartingStats(difficultyPreset)
	if sharedLedger != nil {
		stats = sharedLedger.RaceStats()
	}

	ctrl, err := race.NewController(race.Sprint, stats, nil, false, d.rng)
	if err != nil {
		d.initErr = err
		d.gameOver = true
		return
	}
	d.ctrl = ctrl
	d.opp = race.NewDuelOpponent(race.RivalForWins(d.wins), duelCourseLength, d.rng)
	d.machine = anim.NewMachine()

	d.oppFinished = false
	d.oppTime = 0
	d.won = false
	d.score = 0
	d.gameOver = false
	d.paused = false
	d.initErr = nil

	d.ctrl.Start()
}

// Step advances the duel by one tick.
func (d *Duel) Step(in core.InputFrame) core.StepResult {
	if d.gameOver {
		return core.StepResult{State: d.State()}
	}
	if in.Has(core.ActionPause) {
		d.paused = !d.paused
	}
	if d.paused {
		return core.StepResult{State: d.State()}
	}
	if in.Has(core.ActionBack) {
		d.ctrl.Abandon()
	}

	dt := core.ClampDelta(d.runtime.Delta())

	d.ctrl.Tick(dt, race.TickInput{
		MashA: in.Has(core.ActionMashA),
		MashB: in.Has(core.ActionMashB),
	})

	snap := d.ctrl.Snapshot()

	if d.ctrl.Phase() == race.PhaseRunning {
		d.opp.Update(dt, snap.Progress*duelCourseLength)
		if !d.oppFinished && d.opp.Progress >= 1 {
			d.oppFinished = true
			d.oppTime = snap.Time
		}
	}

	d.machine.Advance(dt, anim.Physics{
		Pace:     snap.Pace,
		BasePace: d.ctrl.Pace().BasePace(),
	})

	if d.ctrl.Phase().Terminal() {
		d.finalize()
	}

	return core.StepResult{State: d.State()}
}

// finalize decides the duel: the player wins by crossing the line before
// the rival. A win promotes to the next rung of the ladder.
func (d *Duel) finalize() {
	res, ok := d.ctrl.Result()
	if !ok || d.gameOver {
		return
	}
	d.gameOver = true
	d.score = res.Score
	d.won = res.Finished && (!d.oppFinished || res.Time <= d.oppTime)

	if d.won {
		d.wins++
		d.machine.Force(anim.StateFlex) //nolint:errcheck
	} else {
		d.machine.Force(anim.StateCrying) //nolint:errcheck
	}
}

// Render draws the duel state to the screen.
func (d *Duel) Render(dst *core.Screen) {
	dst.Clear()

	if d.initErr != nil {
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("cannot start duel: %v", d.initErr))
		return
	}

	snap := d.ctrl.Snapshot()
	rival := d.opp.Rival

	dst.DrawText(2, 0, fmt.Sprintf(" Duel vs %s (x%.1f) ", rival.Name, rival.Difficulty))
	clock := fmt.Sprintf(" %s ", race.FormatTime(snap.Time))
	dst.DrawTextColored(dst.Width()-len(clock)-2, 0, clock, core.ColorBrightYellow)

	// Two lanes: rival above, player below, one finish line across both.
	laneW := dst.Width() - 4
	dst.DrawHLine(2, 3, laneW, LaneChar)
	dst.DrawHLine(2, 5, laneW, LaneChar)
	dst.DrawVLine(2+laneW-1, 3, 3, FinishChar)
	rx := 2 + int(core.ClampF(d.opp.Progress, 0, 1)*float64(laneW-1))
	px := 2 + int(core.ClampF(snap.Progress, 0, 1)*float64(laneW-1))
	dst.SetColored(rx, 3, RivalMark, core.ColorBrightRed)
	dst.SetColored(px, 5, PlayerMark, core.ColorBrightGreen)

	groundY := dst.Height() - 5
	dst.DrawHLine(0, groundY, dst.Width(), GroundChar)
	frame := d.machine.Frame()
	head, torso, legs := runnerPose(d.machine.State(), frame)
	dst.DrawTextColored(runnerX, groundY-3, head, core.ColorBrightWhite)
	dst.DrawTextColored(runnerX, groundY-2, torso, core.ColorBrightWhite)
	dst.DrawTextColored(runnerX, groundY-1, legs, core.ColorBrightWhite)

	y := dst.Height() - 2
	drawMeter(dst, 2, y, "STAMINA", snap.Stamina/race.StaminaMax, core.ColorBrightGreen)
	drawMeter(dst, dst.Width()/2+2, y, "BOOST  ", snap.Boost/5, core.ColorBrightRed)

	switch {
	case snap.Phase == race.PhaseCountdown.String():
		dst.DrawTextCentered(dst.Height()/2-3, fmt.Sprintf("%d", snap.Countdown))
	case d.paused:
		dst.DrawTextCentered(dst.Height()/2, "PAUSED")
	case d.gameOver && d.won:
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("VICTORY! %d on the ladder | Press R for the next rival", d.wins))
	case d.gameOver:
		dst.DrawTextCentered(dst.Height()/2, "DEFEATED | Press R for a rematch")
	}
}

// RaceSnapshot exposes the live race state for the spectator feed.
func (d *Duel) RaceSnapshot() race.Snapshot {
	if d.ctrl == nil {
		return race.Snapshot{}
	}
	return d.ctrl.Snapshot()
}

// State returns the current mode state.
func (d *Duel) State() core.GameState {
	return core.GameState{
		Score:    d.score,
		GameOver: d.gameOver,
		Paused:   d.paused,
	}
}

func init() {
	registry.Register("duel", func() registry.Mode { return NewDuel() })
}
