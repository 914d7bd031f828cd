package race

import (
	"math"
	"math/rand"
)

// DuelRival is one rung of the duel difficulty ladder.
type DuelRival struct {
	Name       string
	Difficulty float64
}

// duelLadder indexes rivals by races won so far: each win promotes the
// player to a faster opponent.
var duelLadder = []DuelRival{
	{Name: "ZORBLAXIAN", Difficulty: 1},
	{Name: "QUANTUM RUNNER", Difficulty: 1.2},
	{Name: "WARP STRIDER", Difficulty: 1.5},
	{Name: "VOID DASHER", Difficulty: 1.8},
	{Name: "COSMIC SPRINTER", Difficulty: 2.2},
}

// RivalForWins picks the duel rival for a player with the given win count.
func RivalForWins(wins int) DuelRival {
	idx := wins
	if idx >= len(duelLadder) {
		idx = len(duelLadder) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return duelLadder[idx]
}

// DuelOpponent is the alternate, single-rival AI model: a sinusoidal base
// speed with random bursts and rubber-banding that scales inversely with
// difficulty. It is a deliberately simpler strategy than the full Field
// simulator and is offered per race mode, not unified with it.
type DuelOpponent struct {
	Rival    DuelRival
	Distance float64
	Progress float64

	raceLength float64
	speed      float64 // 0-100 internal speed scale
	elapsed    float64
	rng        *rand.Rand
}

// NewDuelOpponent creates a duel opponent for a course of the given length.
func NewDuelOpponent(rival DuelRival, raceLength float64, rng *rand.Rand) *DuelOpponent {
	return &DuelOpponent{
		Rival:      rival,
		raceLength: raceLength,
		rng:        rng,
	}
}

// Update advances the opponent by dt seconds given the player's distance.
func (d *DuelOpponent) Update(dt, playerDistance float64) {
	d.elapsed += dt

	// Oscillating base speed pattern.
	pattern := math.Sin(d.elapsed)*0.5 + 0.5
	baseSpeed := 0.3 + pattern*0.4
	rivalSpeed := baseSpeed * d.Rival.Difficulty

	// Occasional random burst.
	if d.rng.Float64() < 0.05 {
		d.speed = math.Min(100, d.speed+10)
	}

	// Rubber-banding: a proportional catch-up boost when trailing, reduced
	// for harder rivals.
	lead := playerDistance - d.Distance
	catchUp := 0.0
	switch {
	case lead > d.raceLength*0.1:
		catchUp = 0.4
	case lead > d.raceLength*0.05:
		catchUp = 0.2
	}
	catchUp /= d.Rival.Difficulty

	// Smooth toward the target speed.
	target := rivalSpeed*100 + catchUp*50
	d.speed += (target - d.speed) * 0.1

	d.Distance += (d.speed / 100) * 1.5 * dt * 60
	d.Progress = d.Distance / d.raceLength
	if d.Progress > 1 {
		d.Progress = 1
	}
}
