package race

import (
	"math/rand"
	"testing"
)

func TestFieldDeterministicUnderSeed(t *testing.T) {
	cfg, err := ConfigFor(Mile)
	if err != nil {
		t.Fatal(err)
	}

	run := func() []float64 {
		f := NewField(cfg, testEntries(), rand.New(rand.NewSource(12)))
		clock := 0.0
		for i := 0; i < 60*30; i++ {
			clock += testDT
			f.Update(clock, testDT)
		}
		out := make([]float64, 0, len(f.Competitors()))
		for _, c := range f.Competitors() {
			out = append(out, c.Distance)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("competitor %d diverged under the same seed: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestHigherSkillMeansFasterBasePace(t *testing.T) {
	cfg, err := ConfigFor(Sprint)
	if err != nil {
		t.Fatal(err)
	}

	f := NewField(cfg, []Entry{
		{Name: "Slow", Skill: 2},
		{Name: "Mid", Skill: 5},
		{Name: "Fast", Skill: 9},
	}, rand.New(rand.NewSource(1)))

	cs := f.Competitors()
	if !(cs[0].BasePace < cs[1].BasePace && cs[1].BasePace < cs[2].BasePace) {
		t.Errorf("base pace should rise with skill: %f, %f, %f",
			cs[0].BasePace, cs[1].BasePace, cs[2].BasePace)
	}
}

func TestFinalizeEstimatesUnfinished(t *testing.T) {
	cfg, err := ConfigFor(Sprint)
	if err != nil {
		t.Fatal(err)
	}

	f := NewField(cfg, testEntries(), rand.New(rand.NewSource(5)))
	clock := 0.0
	for i := 0; i < 60*5; i++ { // 5s in, nobody is done
		clock += testDT
		f.Update(clock, testDT)
	}

	f.Finalize(clock)
	for _, c := range f.Competitors() {
		if c.Progress >= 1 {
			t.Fatalf("%s finished a 100m in 5s, pace is broken", c.Name)
		}
		if c.FinishTime <= clock {
			t.Errorf("%s estimated finish %f should lie past the clock %f", c.Name, c.FinishTime, clock)
		}
	}
}

func TestDuelLadderClamped(t *testing.T) {
	first := RivalForWins(0)
	if first.Difficulty != duelLadder[0].Difficulty {
		t.Errorf("zero wins should face the first rival, got %+v", first)
	}
	if RivalForWins(-3) != first {
		t.Error("negative wins should clamp to the first rival")
	}
	last := duelLadder[len(duelLadder)-1]
	if RivalForWins(1000) != last {
		t.Errorf("a long streak should clamp to the final rival %q", last.Name)
	}

	// Difficulty is non-decreasing up the ladder.
	for i := 1; i < len(duelLadder); i++ {
		if duelLadder[i].Difficulty < duelLadder[i-1].Difficulty {
			t.Errorf("ladder difficulty dips at %d: %f < %f",
				i, duelLadder[i].Difficulty, duelLadder[i-1].Difficulty)
		}
	}
}

func TestDuelOpponentRubberBands(t *testing.T) {
	const raceLength = 100.0

	// A big player lead triggers the catch-up surge: the opponent covers
	// more ground than when the duel is level.
	runFor := func(playerDistance float64) float64 {
		o := NewDuelOpponent(RivalForWins(0), raceLength, rand.New(rand.NewSource(4)))
		for i := 0; i < 60*10; i++ {
			o.Update(testDT, playerDistance)
		}
		return o.Distance
	}

	level := runFor(0)
	chasing := runFor(raceLength * 0.5)
	if chasing <= level {
		t.Errorf("opponent should speed up when far behind: level %f, chasing %f", level, chasing)
	}
}

func TestDuelOpponentDeterministic(t *testing.T) {
	run := func() float64 {
		o := NewDuelOpponent(RivalForWins(2), 100, rand.New(rand.NewSource(21)))
		for i := 0; i < 60*15; i++ {
			o.Update(testDT, float64(i)*0.02)
		}
		return o.Distance
	}
	if a, b := run(), run(); a != b {
		t.Errorf("same seed should reproduce the duel: %f vs %f", a, b)
	}
}
