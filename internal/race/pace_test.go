package race

import (
	"math"
	"testing"
)

func baselineStats() Stats {
	return Stats{Speed: 5, Endurance: 5, Technique: 5, Strength: 5}
}

// mashSideFor alternates A and B like a player drumming both keys.
func mashSideFor(i int) MashSide {
	if i%2 == 0 {
		return MashA
	}
	return MashB
}

func TestBasePaceBaseline(t *testing.T) {
	cfg, err := ConfigFor(Sprint)
	if err != nil {
		t.Fatal(err)
	}

	// All stats at 5 gives statFactor 5 and exactly the expected pace.
	pace := BasePace(cfg, baselineStats(), false)
	want := 100.0 / 11.0
	if math.Abs(pace-want) > 1e-9 {
		t.Errorf("baseline sprint pace = %f, want %f", pace, want)
	}
}

func TestBasePaceMonotonicInStats(t *testing.T) {
	for _, typ := range Types() {
		cfg, err := ConfigFor(typ)
		if err != nil {
			t.Fatal(err)
		}

		vary := []func(s *Stats, v int){
			func(s *Stats, v int) { s.Speed = v },
			func(s *Stats, v int) { s.Endurance = v },
			func(s *Stats, v int) { s.Technique = v },
		}
		names := []string{"speed", "endurance", "technique"}

		for i, set := range vary {
			prev := -1.0
			for v := 1; v <= 10; v++ {
				stats := baselineStats()
				set(&stats, v)
				pace := BasePace(cfg, stats, false)
				if pace < prev {
					t.Errorf("%s: pace not monotone in %s at %d: %f < %f", typ, names[i], v, pace, prev)
				}
				prev = pace
			}
		}
	}
}

func TestBasePaceEntryLevelClamp(t *testing.T) {
	cfg, err := ConfigFor(Sprint)
	if err != nil {
		t.Fatal(err)
	}

	elite := Stats{Speed: 10, Endurance: 10, Technique: 10, Strength: 10}

	unclamped := BasePace(cfg, elite, false)
	clamped := BasePace(cfg, elite, true)

	maxPace := cfg.Distance / cfg.MinEntryTime
	if unclamped <= maxPace {
		t.Skip("elite stats did not exceed the entry-level cap")
	}
	if clamped != maxPace {
		t.Errorf("entry-level pace = %f, want cap %f", clamped, maxPace)
	}
}

func TestStaminaBounds(t *testing.T) {
	cfg, err := ConfigFor(Country)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPaceModel(cfg, baselineStats(), false)
	dt := 1.0 / 60.0
	clock := 0.0

	// Mash relentlessly: stamina must hold the floor of 10, never 0.
	for i := 0; i < 60*120; i++ {
		clock += dt
		p.Press(clock, mashSideFor(i))
		p.CurrentPace(clock, dt, math.Min(1, clock/cfg.ExpectedTime))
		if p.Stamina() < StaminaMin || p.Stamina() > StaminaMax {
			t.Fatalf("stamina %f escaped [%f, %f]", p.Stamina(), StaminaMin, StaminaMax)
		}
	}
	if p.Stamina() != StaminaMin {
		t.Errorf("relentless mashing should pin stamina at the floor, got %f", p.Stamina())
	}

	// Stop mashing: stamina recovers but never exceeds 100.
	for i := 0; i < 60*300; i++ {
		clock += dt
		p.CurrentPace(clock, dt, 1)
		if p.Stamina() > StaminaMax {
			t.Fatalf("stamina %f exceeded max", p.Stamina())
		}
	}
	if p.Stamina() != StaminaMax {
		t.Errorf("idle stamina should recover to max, got %f", p.Stamina())
	}
}

func TestMashBoostBuildsAndDecays(t *testing.T) {
	cfg, err := ConfigFor(Sprint)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPaceModel(cfg, baselineStats(), false)

	// Rapid alternating presses inside the window build the combo.
	clock := 0.0
	for i := 0; i < 40; i++ {
		clock += 0.1
		p.Press(clock, mashSideFor(i))
	}
	if p.Boost() != maxBoost {
		t.Errorf("sustained mashing should cap boost at %f, got %f", maxBoost, p.Boost())
	}

	// Boost multiplies pace.
	boosted := p.CurrentPace(clock, 1.0/60.0, 0)
	if boosted <= p.BasePace() {
		t.Errorf("boosted pace %f should exceed base %f", boosted, p.BasePace())
	}

	// With no presses the boost decays to zero.
	for i := 0; i < 60*30; i++ {
		clock += 1.0 / 60.0
		p.CurrentPace(clock, 1.0/60.0, 0)
	}
	if p.Boost() != 0 {
		t.Errorf("boost should decay to zero, got %f", p.Boost())
	}

	// A slow press restarts the combo at one.
	clock += 10
	p.Press(clock, MashA)
	if p.Boost() != boostPerPress {
		t.Errorf("stale press should restart combo, boost = %f", p.Boost())
	}
}

func TestMashRequiresAlternation(t *testing.T) {
	cfg, err := ConfigFor(Sprint)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPaceModel(cfg, baselineStats(), false)

	// Hammering one key counts only the first press.
	clock := 0.0
	for i := 0; i < 40; i++ {
		clock += 0.1
		p.Press(clock, MashA)
	}
	if p.Boost() != boostPerPress {
		t.Errorf("single-key mashing built boost %f, want %f", p.Boost(), boostPerPress)
	}

	// Switching sides resumes the combo.
	clock += 0.1
	p.Press(clock, MashB)
	if p.Boost() != 2*boostPerPress {
		t.Errorf("alternation should count, boost = %f", p.Boost())
	}

	// After an obstacle reset the same side counts again.
	p.ResetBoost()
	clock += 0.1
	p.Press(clock, MashB)
	if p.Boost() != boostPerPress {
		t.Errorf("post-reset press should count, boost = %f", p.Boost())
	}
}

func TestFormatTime(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{10.42, "10.42"},
		{59.99, "59.99"},
		{60, "1:00.00"},
		{225.22, "3:45.22"},
		{312.7, "5:12.70"},
	}
	for _, c := range cases {
		if got := FormatTime(c.in); got != c.want {
			t.Errorf("FormatTime(%f) = %q, want %q", c.in, got, c.want)
		}
	}
}
