package game

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-runner/internal/anim"
	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/race"
	"github.com/vovakirdan/tui-runner/internal/registry"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     12345,
	}
}

// stepUntilOver drives the mode until the race ends.
func stepUntilOver(t *testing.T, m interface {
	Step(core.InputFrame) core.StepResult
	State() core.GameState
}, mash bool, maxTicks int) {
	t.Helper()
	in := core.NewInputFrame()
	for i := 0; i < maxTicks; i++ {
		in.Clear()
		if mash {
			// Drum both keys: only alternations count toward boost.
			if i%4 == 0 {
				in.Set(core.ActionMashA)
			} else if i%4 == 2 {
				in.Set(core.ActionMashB)
			}
		}
		m.Step(in)
		if m.State().GameOver {
			return
		}
	}
	t.Fatal("race never ended")
}

func TestSprintRunsToFinish(t *testing.T) {
	g := New(race.Sprint, "100m Sprint")
	g.Reset(testRuntime())

	if g.State().GameOver {
		t.Fatal("race over before it began")
	}

	// Countdown (3s) plus a sprint (~11-16s) fits well inside 60s of ticks.
	stepUntilOver(t, g, false, 60*60)

	if !g.outcome.Finished {
		t.Errorf("unmashed sprint should still finish, outcome %+v", g.outcome)
	}
	if g.State().Score != g.outcome.Score {
		t.Errorf("mode score %d != race score %d", g.State().Score, g.outcome.Score)
	}
	st := g.machine.State()
	if st != anim.StateFlex && st != anim.StateHeadScratch {
		t.Errorf("finished race should strike a closing pose, got %v", st)
	}
}

func TestDeterminism(t *testing.T) {
	// Two modes with the same seed and inputs should produce identical races
	cfg := testRuntime()

	run := func() race.Snapshot {
		g := New(race.Country, "Cross Country")
		g.Reset(cfg)
		in := core.NewInputFrame()
		for i := 0; i < 60*30; i++ {
			in.Clear()
			if i%10 == 0 {
				in.Set(core.ActionMashA)
			} else if i%10 == 5 {
				in.Set(core.ActionMashB)
			}
			if i%200 == 0 {
				in.Set(core.ActionJump)
			}
			g.Step(in)
		}
		return g.ctrl.Snapshot()
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("same seed diverged:\n%+v\n%+v", a, b)
	}
}

func TestJumpArcReturnsToGround(t *testing.T) {
	g := New(race.Country, "Cross Country")
	g.Reset(testRuntime())

	in := core.NewInputFrame()
	// Burn through the countdown.
	for i := 0; i < 60*4; i++ {
		g.Step(in)
	}
	if g.ctrl.Phase() != race.PhaseRunning {
		t.Fatal("race should be running after the countdown")
	}

	in.Set(core.ActionJump)
	g.Step(in)
	if !g.airborne {
		t.Fatal("jump input should leave the ground")
	}
	if g.machine.State() != anim.StateJumping {
		t.Errorf("airborne state = %v, want jumping", g.machine.State())
	}

	in.Clear()
	landed := false
	for i := 0; i < 60*3; i++ {
		g.Step(in)
		if !g.airborne {
			landed = true
			break
		}
	}
	if !landed {
		t.Fatal("jump arc never came down")
	}
	if g.machine.State() != anim.StateRunning {
		t.Errorf("landing should resume running, got %v", g.machine.State())
	}
}

func TestBackAbandonsRace(t *testing.T) {
	g := New(race.Mile, "Mile Run")
	g.Reset(testRuntime())

	in := core.NewInputFrame()
	for i := 0; i < 60*5; i++ {
		g.Step(in)
	}

	in.Set(core.ActionBack)
	g.Step(in)

	if !g.State().GameOver {
		t.Fatal("abandoning should end the mode")
	}
	if g.ctrl.Phase() != race.PhaseAbandoned {
		t.Errorf("phase = %v, want abandoned", g.ctrl.Phase())
	}
	if g.State().Score != 0 {
		t.Errorf("abandoned race score = %d, want 0", g.State().Score)
	}
}

func TestPauseFreezesRace(t *testing.T) {
	g := New(race.Sprint, "100m Sprint")
	g.Reset(testRuntime())

	in := core.NewInputFrame()
	for i := 0; i < 60*5; i++ {
		g.Step(in)
	}
	before := g.ctrl.Snapshot()

	in.Set(core.ActionPause)
	g.Step(in)
	if !g.State().Paused {
		t.Fatal("pause input ignored")
	}

	in.Clear()
	for i := 0; i < 60; i++ {
		g.Step(in)
	}
	after := g.ctrl.Snapshot()
	if after.Time != before.Time || after.Distance != before.Distance {
		t.Error("paused race kept advancing")
	}
}

func TestRenderSmoke(t *testing.T) {
	g := New(race.Country, "Cross Country")
	g.Reset(testRuntime())

	in := core.NewInputFrame()
	for i := 0; i < 60*6; i++ {
		g.Step(in)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	out := screen.String()
	if !strings.Contains(out, "Cross Country") {
		t.Error("HUD title missing from render")
	}
	if !strings.Contains(out, "STAMINA") {
		t.Error("stamina meter missing from render")
	}
}

func TestDuelPromotesOnWin(t *testing.T) {
	d := NewDuel()
	d.Reset(testRuntime())

	if d.opp.Rival.Name != race.RivalForWins(0).Name {
		t.Fatalf("fresh ladder should open against the first rival, got %q", d.opp.Rival.Name)
	}

	// Mash hard: against the slowest rival the player should take the duel.
	stepUntilOver(t, d, true, 60*30)

	if d.won {
		if d.wins != 1 {
			t.Errorf("win count = %d, want 1", d.wins)
		}
		d.Reset(testRuntime())
		if d.opp.Rival.Name != race.RivalForWins(1).Name {
			t.Errorf("a win should promote to the next rival, got %q", d.opp.Rival.Name)
		}
	} else {
		// A loss keeps the same rung.
		d.Reset(testRuntime())
		if d.opp.Rival.Name != race.RivalForWins(0).Name {
			t.Errorf("a loss should not promote, got %q", d.opp.Rival.Name)
		}
	}
}

func TestPracticeCareerUsesDifficultyPreset(t *testing.T) {
	SetDifficultyPreset("easy")
	defer SetDifficultyPreset("")

	g := New(race.Sprint, "100m Sprint")
	g.Reset(testRuntime())

	want := config.StartingStats(config.DifficultyEasy)
	if got := g.ledger.RaceStats(); got != want {
		t.Errorf("practice athlete stats = %+v, want easy preset %+v", got, want)
	}

	SetDifficultyPreset("hard")
	g.Reset(testRuntime())
	want = config.StartingStats(config.DifficultyHard)
	if got := g.ledger.RaceStats(); got != want {
		t.Errorf("practice athlete stats = %+v, want hard preset %+v", got, want)
	}
}

func TestRegistryListsAllModes(t *testing.T) {
	want := []string{"country", "duel", "mile", "sprint"}
	got := make(map[string]bool)
	for _, info := range registry.List() {
		got[info.ID] = true
	}
	for _, id := range want {
		if !got[id] {
			t.Errorf("mode %q not registered", id)
		}
	}
}
