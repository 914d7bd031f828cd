package race

// Stats are the athlete's trained attributes, each roughly 1-10.
type Stats struct {
	Speed     int
	Endurance int
	Technique int
	Strength  int
}

// Mash tuning constants.
const (
	mashWindow    = 0.3 // seconds between presses to keep the combo alive
	boostPerPress = 0.2 // boost gained per counted press
	maxBoost      = 5.0
)

// Stamina bounds. The floor is 10, not 0: a runner never fully stalls.
const (
	StaminaMin = 10.0
	StaminaMax = 100.0
)

// BasePace converts stats into an unboosted race pace in meters/second.
// A weighted stat factor of 5 yields exactly the expected pace; each point
// above or below shifts pace by 5%. At the lowest competition tier a race
// may enforce a minimum plausible time, capping the pace.
func BasePace(cfg Config, stats Stats, lowestTier bool) float64 {
	weightSum := cfg.SpeedFactor + cfg.EnduranceFactor + cfg.TechFactor
	if weightSum <= 0 {
		return cfg.Distance / cfg.ExpectedTime
	}

	statFactor := (float64(stats.Speed)*cfg.SpeedFactor +
		float64(stats.Endurance)*cfg.EnduranceFactor +
		float64(stats.Technique)*cfg.TechFactor) / weightSum

	multiplier := 1 + (statFactor-5)*0.05
	pace := (cfg.Distance / cfg.ExpectedTime) * multiplier

	if cfg.EnforceMinTime && cfg.MinEntryTime > 0 && lowestTier {
		maxPace := cfg.Distance / cfg.MinEntryTime
		if pace > maxPace {
			pace = maxPace
		}
	}
	return pace
}

// PaceModel computes the athlete's instantaneous velocity from the base
// pace, the live button-mash boost, and the stamina reserve.
type PaceModel struct {
	cfg      Config
	stats    Stats
	basePace float64

	boost      float64
	pressCount int
	lastPress  float64  // race clock seconds of the last counted press
	lastSide   MashSide // side of the last counted press

	stamina float64
}

// NewPaceModel builds a model with full stamina and no boost.
func NewPaceModel(cfg Config, stats Stats, lowestTier bool) *PaceModel {
	return &PaceModel{
		cfg:      cfg,
		stats:    stats,
		basePace: BasePace(cfg, stats, lowestTier),
		stamina:  StaminaMax,
	}
}

// BasePace returns the unboosted pace.
func (p *PaceModel) BasePace() float64 {
	return p.basePace
}

// Boost returns the current mash boost, [0, maxBoost].
func (p *PaceModel) Boost() float64 {
	return p.boost
}

// Stamina returns the current stamina reserve, [10, 100].
func (p *PaceModel) Stamina() float64 {
	return p.stamina
}

// MashSide identifies which of the two mash actions was pressed.
type MashSide int

const (
	MashNone MashSide = iota
	MashA
	MashB
)

// Press records a mash press at the given race clock. Only alternating
// sides count: hammering one key holds the combo where it is. Presses
// inside the rolling window build the combo; a slow press restarts it
// at one.
func (p *PaceModel) Press(raceClock float64, side MashSide) {
	if side == MashNone || side == p.lastSide {
		return
	}
	p.lastSide = side

	if raceClock-p.lastPress < mashWindow {
		p.pressCount++
	} else {
		p.pressCount = 1
	}
	p.lastPress = raceClock

	p.boost = float64(p.pressCount) * boostPerPress
	if p.boost > maxBoost {
		p.boost = maxBoost
	}
}

// ResetBoost drops the mash combo entirely, e.g. after an obstacle hit.
func (p *PaceModel) ResetBoost() {
	p.boost = 0
	p.pressCount = 0
	p.lastSide = MashNone
}

// CurrentPace advances stamina and boost decay by dt and returns the pace
// for this instant: basePace x staminaFactor x (1 + boost/5).
// The stamina factor never drops below 0.5.
func (p *PaceModel) CurrentPace(raceClock, dt, progress float64) float64 {
	// Boost decays at the race's mash decay rate while no press lands.
	if raceClock-p.lastPress > mashWindow && p.boost > 0 {
		p.boost -= p.cfg.MashDecay * 100 * dt
		if p.boost <= 0 {
			p.boost = 0
			p.pressCount = 0
		}
	}

	p.updateStamina(dt, progress)

	staminaFactor := p.stamina / StaminaMax
	if staminaFactor < 0.5 {
		staminaFactor = 0.5
	}
	return p.basePace * staminaFactor * (1 + p.boost/5)
}

// updateStamina applies recovery (endurance), mash drain (boost) and the
// natural depletion that grows with race progress, clamped to [10, 100].
func (p *PaceModel) updateStamina(dt, progress float64) {
	recovery := 2 + float64(p.stats.Endurance)*0.3
	mashDrain := p.boost * p.cfg.MashDecay * 100
	natural := progress * 0.5

	p.stamina += (recovery - mashDrain - natural) * dt
	if p.stamina < StaminaMin {
		p.stamina = StaminaMin
	}
	if p.stamina > StaminaMax {
		p.stamina = StaminaMax
	}
}
