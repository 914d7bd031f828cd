package race

import (
	"errors"
	"math/rand"
	"testing"
)

const testDT = 1.0 / 60.0

func testEntries() []Entry {
	return []Entry{
		{Name: "Alex Smith", Skill: 5},
		{Name: "Jamie Lee", Skill: 6},
		{Name: "Taylor Brown", Skill: 4},
	}
}

func newTestController(t *testing.T, typ Type, stats Stats, entries []Entry) *Controller {
	t.Helper()
	c, err := NewController(typ, stats, entries, false, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// runToTerminal drives the controller until it reaches a terminal phase.
func runToTerminal(t *testing.T, c *Controller, in TickInput) {
	t.Helper()
	c.Start()
	for i := 0; i < 60*60*30; i++ { // generous cap
		c.Tick(testDT, in)
		if c.Phase().Terminal() {
			return
		}
	}
	t.Fatal("race never reached a terminal phase")
}

func TestUnknownRaceTypeRejected(t *testing.T) {
	_, err := NewController(Type("marathon"), baselineStats(), nil, false, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestCountdownTakesThreeSeconds(t *testing.T) {
	c := newTestController(t, Sprint, baselineStats(), nil)

	if c.Phase() != PhaseNotStarted {
		t.Fatalf("fresh controller should be NotStarted, got %v", c.Phase())
	}

	c.Start()
	if c.Phase() != PhaseCountdown {
		t.Fatalf("Start should enter Countdown, got %v", c.Phase())
	}

	// After 2.5 seconds of ticks, still counting down.
	for i := 0; i < 150; i++ {
		c.Tick(testDT, TickInput{})
	}
	if c.Phase() != PhaseCountdown {
		t.Errorf("countdown should still be running at 2.5s, got %v", c.Phase())
	}

	// Past 3 seconds it goes green.
	for i := 0; i < 40; i++ {
		c.Tick(testDT, TickInput{})
	}
	if c.Phase() != PhaseRunning {
		t.Errorf("countdown should hand over to Running, got %v", c.Phase())
	}
}

func TestBaselineSprintScenario(t *testing.T) {
	// Reference scenario: 100m, expected 11s, all stats at 5 and no mashing.
	c := newTestController(t, Sprint, baselineStats(), nil)

	wantPace := 100.0 / 11.0
	if got := c.Pace().BasePace(); got < wantPace-1e-9 || got > wantPace+1e-9 {
		t.Fatalf("base pace = %f, want %f", got, wantPace)
	}

	runToTerminal(t, c, TickInput{})

	res, ok := c.Result()
	if !ok || !res.Finished {
		t.Fatalf("baseline sprint should finish, phase %v", c.Phase())
	}
	// One discrete tick of slack past the ideal 11.0s.
	if res.Time < 11.0 || res.Time > 11.0+2*testDT {
		t.Errorf("finish time = %f, want about 11.0", res.Time)
	}
	// Empty field: position 1, no time bonus (11.0x is not under 11).
	if res.Position != 1 {
		t.Errorf("position = %d, want 1", res.Position)
	}
	if res.Score != 900 {
		t.Errorf("score = %d, want 900 (1000 - 1*100, no bonus)", res.Score)
	}
}

func TestProgressMonotoneAndFrozenAfterFinish(t *testing.T) {
	c := newTestController(t, Sprint, baselineStats(), testEntries())
	c.Start()

	prev := 0.0
	prevField := make(map[string]float64)
	for i := 0; i < 60*30 && !c.Phase().Terminal(); i++ {
		c.Tick(testDT, TickInput{})
		s := c.Snapshot()
		if s.Progress < prev {
			t.Fatalf("player progress went backwards: %f -> %f", prev, s.Progress)
		}
		if s.Progress < 0 || s.Progress > 1 {
			t.Fatalf("player progress %f out of [0,1]", s.Progress)
		}
		prev = s.Progress
		for _, comp := range c.Field().Competitors() {
			if comp.Progress < prevField[comp.Name] {
				t.Fatalf("%s progress went backwards", comp.Name)
			}
			if comp.Progress < 0 || comp.Progress > 1 {
				t.Fatalf("%s progress %f out of [0,1]", comp.Name, comp.Progress)
			}
			prevField[comp.Name] = comp.Progress
		}
	}

	if !c.Phase().Terminal() {
		t.Fatal("sprint should have finished within 30s")
	}

	// Terminal states are absorbing: further ticks change nothing.
	snap := c.Snapshot()
	for i := 0; i < 120; i++ {
		c.Tick(testDT, TickInput{MashA: i%2 == 0, MashB: i%2 == 1})
	}
	after := c.Snapshot()
	if after.Distance != snap.Distance || after.Time != snap.Time || after.Phase != snap.Phase {
		t.Errorf("terminal state mutated: %+v -> %+v", snap, after)
	}
}

func TestRankingIsTotalOrder(t *testing.T) {
	c := newTestController(t, Sprint, baselineStats(), testEntries())
	c.Start()

	for i := 0; i < 60*8 && !c.Phase().Terminal(); i++ {
		c.Tick(testDT, TickInput{})

		s := c.Snapshot()
		n := len(c.Field().Competitors()) + 1
		if s.Position < 1 || s.Position > n {
			t.Fatalf("player position %d outside [1, %d]", s.Position, n)
		}

		// Rank 1 must hold the maximum distance.
		maxDist := s.Distance
		for _, comp := range c.Field().Competitors() {
			if comp.Distance > maxDist {
				maxDist = comp.Distance
			}
		}
		if s.Position == 1 && s.Distance < maxDist {
			t.Fatalf("player ranked 1 but trails at %f < %f", s.Distance, maxDist)
		}
	}
}

func TestRankTieBrokenByInputOrder(t *testing.T) {
	cfg, err := ConfigFor(Sprint)
	if err != nil {
		t.Fatal(err)
	}
	f := NewField(cfg, testEntries(), rand.New(rand.NewSource(7)))

	// Freeze everyone at the same distance: the player is first in input
	// order, so the tie resolves in their favor.
	for _, comp := range f.Competitors() {
		comp.Distance = 50
	}
	if pos := f.Rank(50); pos != 1 {
		t.Errorf("tie at equal distance should rank the player first, got %d", pos)
	}
	if pos := f.Rank(49); pos != 4 {
		t.Errorf("trailing player should rank last, got %d", pos)
	}
}

func TestDidNotFinish(t *testing.T) {
	// A discipline whose entry-level cap makes the expected time
	// unreachable: pace is clamped to finish in 30s but the limit is 15s.
	SetConfig(Type("testdnf"), Config{
		Distance:        100,
		ExpectedTime:    10,
		SpeedFactor:     1,
		EnduranceFactor: 1,
		TechFactor:      1,
		MashDecay:       0.02,
		Terrain:         "track",
		MinEntryTime:    30,
		EnforceMinTime:  true,
	})
	defer ResetConfigs()

	c, err := NewController(Type("testdnf"), baselineStats(), nil, true, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}

	runToTerminal(t, c, TickInput{})

	if c.Phase() != PhaseDidNotFinish {
		t.Fatalf("expected DNF, got %v", c.Phase())
	}
	res, ok := c.Result()
	if !ok {
		t.Fatal("terminal race should expose a result")
	}
	if res.Finished {
		t.Error("DNF result should not be marked finished")
	}
	if res.Score != 0 {
		t.Errorf("DNF score = %d, want 0", res.Score)
	}
	if res.Time != 0 {
		t.Errorf("DNF should not record a time, got %f", res.Time)
	}
}

func TestAbandonIsTerminal(t *testing.T) {
	c := newTestController(t, Mile, baselineStats(), testEntries())
	c.Start()
	for i := 0; i < 60*5; i++ {
		c.Tick(testDT, TickInput{})
	}

	c.Abandon()
	if c.Phase() != PhaseAbandoned {
		t.Fatalf("expected Abandoned, got %v", c.Phase())
	}

	res, ok := c.Result()
	if !ok || res.Finished || res.Score != 0 {
		t.Errorf("abandoned race should yield a zero, unfinished result: %+v", res)
	}

	// Absorbing: a later finish cannot resurrect the race.
	snap := c.Snapshot()
	for i := 0; i < 60*60; i++ {
		c.Tick(testDT, TickInput{MashA: i%2 == 0, MashB: i%2 == 1})
	}
	if c.Phase() != PhaseAbandoned || c.Snapshot().Distance != snap.Distance {
		t.Error("abandoned race mutated after the fact")
	}
}

func TestSimulationDeterminism(t *testing.T) {
	run := func() Snapshot {
		c, err := NewController(Country, baselineStats(), testEntries(), false, rand.New(rand.NewSource(99)))
		if err != nil {
			t.Fatal(err)
		}
		c.Start()
		for i := 0; i < 60*20; i++ {
			c.Tick(testDT, TickInput{MashA: i%14 == 0, MashB: i%14 == 7})
		}
		return c.Snapshot()
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("same seed and inputs should reproduce the race:\n%+v\n%+v", a, b)
	}
}
