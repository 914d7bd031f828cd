package race

import (
	"math/rand"
	"sort"
)

// Entry is one rival on the start list, produced by the career system from
// the current competition tier and meet importance.
type Entry struct {
	Name  string
	Skill float64 // roughly 1-10
}

// Competitor is a simulated rival during a race.
type Competitor struct {
	Name     string
	Skill    float64
	Distance float64
	Progress float64

	BasePace    float64
	CurrentPace float64

	variation      float64 // pace variation fraction, 10-30%
	changeInterval float64 // seconds between pace resamples, 5-15
	lastChange     float64
	stamina        float64 // end-sprint reserve, 80-100

	FinishTime float64 // set when the race ends; estimated if not across the line
}

// Field simulates the full set of rivals for one race.
type Field struct {
	cfg         Config
	rng         *rand.Rand
	competitors []*Competitor
}

// NewField creates a field from the start list. All random draws (variation,
// change interval, stamina reserve) come from the injected rng so races are
// reproducible under a fixed seed.
func NewField(cfg Config, entries []Entry, rng *rand.Rand) *Field {
	f := &Field{cfg: cfg, rng: rng}
	for _, e := range entries {
		skillRatio := e.Skill / 10

		// Higher skill means a lower time multiplier (faster).
		targetTime := cfg.ExpectedTime * (1.2 - skillRatio*0.4)
		basePace := cfg.Distance / targetTime

		f.competitors = append(f.competitors, &Competitor{
			Name:           e.Name,
			Skill:          e.Skill,
			BasePace:       basePace,
			CurrentPace:    basePace,
			variation:      0.1 + rng.Float64()*0.2,
			changeInterval: 5 + rng.Float64()*10,
			stamina:        80 + rng.Float64()*20,
		})
	}
	return f
}

// Competitors returns the field in start-list order.
func (f *Field) Competitors() []*Competitor {
	return f.competitors
}

// Update advances every competitor by dt seconds of race time. When a
// competitor's pace-change interval elapses, its pace is resampled within
// the variation band, with a late-race sprint once progress passes 75%.
func (f *Field) Update(raceClock, dt float64) {
	for _, c := range f.competitors {
		if raceClock-c.lastChange > c.changeInterval {
			variationFactor := 1 - c.variation + f.rng.Float64()*c.variation*2

			progressFactor := 1.0
			if c.Progress > 0.75 {
				progressFactor = 1 + (c.Progress-0.75)*4*(c.stamina/100)
			}

			c.CurrentPace = c.BasePace * variationFactor * progressFactor
			c.lastChange = raceClock
		}

		c.Distance += c.CurrentPace * dt
		c.Progress = c.Distance / f.cfg.Distance
		if c.Progress > 1 {
			c.Progress = 1
		}
	}
}

// Rank returns the player's 1-based position: all participants sorted by
// strict descending distance, ties broken by stable input order with the
// player first.
func (f *Field) Rank(playerDistance float64) int {
	type participant struct {
		player   bool
		distance float64
	}

	all := make([]participant, 0, len(f.competitors)+1)
	all = append(all, participant{player: true, distance: playerDistance})
	for _, c := range f.competitors {
		all = append(all, participant{distance: c.Distance})
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].distance > all[j].distance
	})

	for i, p := range all {
		if p.player {
			return i + 1
		}
	}
	return 1
}

// Finalize sets every competitor's finish time at race end: actual if it
// crossed the line, else a linear extrapolation from its current pace.
func (f *Field) Finalize(raceClock float64) {
	for _, c := range f.competitors {
		if c.Progress < 1 {
			remaining := f.cfg.Distance - c.Distance
			pace := c.CurrentPace
			if pace <= 0 {
				pace = c.BasePace
			}
			c.FinishTime = raceClock + remaining/pace
		} else {
			c.FinishTime = c.Distance / c.BasePace
		}
	}
}
