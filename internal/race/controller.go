package race

import (
	"math"
	"math/rand"
)

// Phase is the race controller's state machine position.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseCountdown
	PhaseRunning
	PhaseFinished
	PhaseDidNotFinish
	PhaseAbandoned
)

// String returns a display name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseCountdown:
		return "countdown"
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	case PhaseDidNotFinish:
		return "DNF"
	case PhaseAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase is absorbing: no transition leaves it
// within a single race instance.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseDidNotFinish || p == PhaseAbandoned
}

// countdownSeconds is the fixed 3-2-1-GO lead-in, one second per step.
const countdownSeconds = 3.0

// jumpEffectWindow is how long a cleared jump modifies pace, in seconds.
const jumpEffectWindow = 1.0

// TickInput carries the per-tick input signals the controller consumes.
// The two mash actions are kept apart so only alternations build boost.
type TickInput struct {
	MashA bool // the A mash action landed this tick
	MashB bool // the B mash action landed this tick
}

// Snapshot is the per-tick race state exposed to the HUD and spectators.
type Snapshot struct {
	Type          Type    `json:"type"`
	Phase         string  `json:"phase"`
	Countdown     int     `json:"countdown,omitempty"`
	Time          float64 `json:"time"`
	Distance      float64 `json:"distance"`
	TotalDistance float64 `json:"totalDistance"`
	Progress      float64 `json:"progress"`
	Position      int     `json:"position"`
	Pace          float64 `json:"pace"`
	Stamina       float64 `json:"stamina"`
	Boost         float64 `json:"boost"`
}

// Result is the race outcome handed to the career ledger and the results
// screen. Time is only meaningful when Finished is true: a DNF or abandoned
// race never records a time.
type Result struct {
	Type     Type
	Finished bool
	Time     float64
	Position int
	Score    int
}

// Controller orchestrates a single race: countdown, per-tick simulation of
// the athlete and the field, and the finish / time-limit exit conditions.
type Controller struct {
	typ   Type
	cfg   Config
	pace  *PaceModel
	field *Field

	phase     Phase
	countdown float64

	time        float64
	distance    float64
	progress    float64
	position    int
	currentPace float64
	jumpTimer   float64

	result Result
}

// NewController validates the race type and builds a controller. A config
// lookup miss fails here, before any state is created.
func NewController(typ Type, stats Stats, entries []Entry, lowestTier bool, rng *rand.Rand) (*Controller, error) {
	cfg, err := ConfigFor(typ)
	if err != nil {
		return nil, err
	}
	return &Controller{
		typ:      typ,
		cfg:      cfg,
		pace:     NewPaceModel(cfg, stats, lowestTier),
		field:    NewField(cfg, entries, rng),
		phase:    PhaseNotStarted,
		position: 1,
	}, nil
}

// Config returns the race configuration in use.
func (c *Controller) Config() Config {
	return c.cfg
}

// Phase returns the current controller phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Field exposes the competitor field for presentation.
func (c *Controller) Field() *Field {
	return c.field
}

// Pace exposes the pacing model for presentation.
func (c *Controller) Pace() *PaceModel {
	return c.pace
}

// Start begins the countdown. Only valid from NotStarted; otherwise a no-op.
func (c *Controller) Start() {
	if c.phase != PhaseNotStarted {
		return
	}
	c.phase = PhaseCountdown
	c.countdown = countdownSeconds
}

// Abandon moves the race to its abandoned terminal state. The career ledger
// is never updated for an abandoned race.
func (c *Controller) Abandon() {
	if c.phase.Terminal() {
		return
	}
	c.phase = PhaseAbandoned
	c.result = Result{Type: c.typ, Position: c.position}
}

// Jump applies the race's jump effect: for the next second, pace is scaled
// by (1 + jumpEffect). On country terrain that helps; on the track it costs.
func (c *Controller) Jump() {
	if c.phase != PhaseRunning {
		return
	}
	c.jumpTimer = jumpEffectWindow
}

// Stumble is called when the athlete hits an obstacle: the mash combo is
// lost outright.
func (c *Controller) Stumble() {
	c.pace.ResetBoost()
}

// Tick advances the race by dt seconds (already clamped by the caller).
func (c *Controller) Tick(dt float64, in TickInput) {
	switch c.phase {
	case PhaseCountdown:
		c.countdown -= dt
		if c.countdown <= 0 {
			c.phase = PhaseRunning
			c.currentPace = c.pace.BasePace()
		}

	case PhaseRunning:
		c.tickRunning(dt, in)
	}
}

func (c *Controller) tickRunning(dt float64, in TickInput) {
	c.time += dt

	if in.MashA {
		c.pace.Press(c.time, MashA)
	}
	if in.MashB {
		c.pace.Press(c.time, MashB)
	}

	c.currentPace = c.pace.CurrentPace(c.time, dt, c.progress)

	effective := c.currentPace
	if c.jumpTimer > 0 {
		effective *= 1 + c.cfg.JumpEffect
		c.jumpTimer -= dt
	}

	c.distance += effective * dt
	c.progress = c.distance / c.cfg.Distance
	if c.progress > 1 {
		c.progress = 1
	}

	c.field.Update(c.time, dt)
	c.position = c.field.Rank(c.distance)

	if c.distance >= c.cfg.Distance {
		c.finish(false)
		return
	}
	if c.time >= c.cfg.TimeLimit() {
		c.finish(true)
	}
}

// finish enters a terminal state and computes the result. A DNF forces
// score 0 and records no time.
func (c *Controller) finish(didNotFinish bool) {
	c.field.Finalize(c.time)

	if didNotFinish {
		c.phase = PhaseDidNotFinish
		c.result = Result{Type: c.typ, Position: c.position}
		return
	}

	c.phase = PhaseFinished
	score := 1000 - c.position*100
	if c.time < c.cfg.ExpectedTime {
		score += int(math.Floor((c.cfg.ExpectedTime - c.time) * 10))
	}
	c.result = Result{
		Type:     c.typ,
		Finished: true,
		Time:     c.time,
		Position: c.position,
		Score:    score,
	}
}

// Result returns the race outcome. Valid only once the phase is terminal.
func (c *Controller) Result() (Result, bool) {
	if !c.phase.Terminal() {
		return Result{}, false
	}
	return c.result, true
}

// Snapshot captures the race state for this instant.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Type:          c.typ,
		Phase:         c.phase.String(),
		Time:          c.time,
		Distance:      c.distance,
		TotalDistance: c.cfg.Distance,
		Progress:      c.progress,
		Position:      c.position,
		Pace:          c.currentPace,
		Stamina:       c.pace.Stamina(),
		Boost:         c.pace.Boost(),
	}
	if c.phase == PhaseCountdown {
		s.Countdown = int(math.Ceil(c.countdown))
	}
	return s
}
