package anim

// Physics carries the per-tick signals the machine needs to derive
// physics-driven frames (the long jump) and pace-driven frame timing.
type Physics struct {
	VelY     float64 // vertical velocity, negative while ascending
	JumpPeak float64 // reference peak velocity magnitude for jump progress
	Pace     float64 // current horizontal pace, meters/second
	BasePace float64 // unboosted pace, meters/second
}

// Frame is the sprite sheet cursor consumed by the drawing layer.
type Frame struct {
	Row    int
	Column int
}

// Machine drives a single character's animation state.
// Exactly one state is active at a time; one-shot states refuse normal
// pre-emption until their final frame has played.
type Machine struct {
	state    State
	column   int
	timer    float64 // seconds accumulated toward the next frame advance
	elapsed  float64 // total seconds, drives idle chatter loops
	complete bool
}

// NewMachine creates a machine in the running state.
func NewMachine() *Machine {
	m := &Machine{}
	m.apply(StateRunning)
	return m
}

// State returns the active animation state.
func (m *Machine) State() State {
	return m.state
}

// Complete reports whether a one-shot animation has played to its final
// frame. Always false for looping states.
func (m *Machine) Complete() bool {
	return m.complete
}

// Frame returns the current sprite sheet cursor.
func (m *Machine) Frame() Frame {
	return Frame{Row: specs[m.state].row, Column: m.column}
}

// Set requests a normal transition. Transitioning to the current state is a
// no-op. A normal transition cannot pre-empt an unfinished one-shot state
// and returns ErrLocked; unknown states return ErrInvalidState with the
// machine untouched.
func (m *Machine) Set(next State) error {
	return m.transition(next, Normal)
}

// Force applies a forced transition, pre-empting any state including
// unfinished one-shots. Reserved for terminal events (crash, race end).
func (m *Machine) Force(next State) error {
	return m.transition(next, Forced)
}

func (m *Machine) transition(next State, t Transition) error {
	if !next.Valid() {
		return ErrInvalidState
	}
	if next == m.state {
		return nil
	}
	if t == Normal && m.state.IsOneShot() && !m.complete {
		return ErrLocked
	}
	m.apply(next)
	return nil
}

// apply enters a state: the column rewinds to the state's first frame
// (falling jumps straight to its terminal frame) and the complete flag
// clears.
func (m *Machine) apply(next State) {
	m.state = next
	m.column = specs[next].start
	m.timer = 0
	m.complete = false
}

// frameDelay returns seconds per frame for the active state. Running speeds
// up with pace so the stride matches the ground scroll.
func (m *Machine) frameDelay(p Physics) float64 {
	if m.state == StateRunning && p.BasePace > 0 {
		d := 0.1 - (p.Pace-p.BasePace)*0.01
		if d < 0.03 {
			d = 0.03
		}
		return d
	}
	return 0.08
}

// Advance moves the animation forward by dt seconds.
func (m *Machine) Advance(dt float64, p Physics) {
	m.elapsed += dt
	sp := specs[m.state]

	switch {
	case m.state == StateJumping:
		m.column = jumpColumn(p)
		return

	case m.state == StateFalling, m.state == StateIdle:
		// Single fixed frame.
		return

	case sp.chatter:
		// Idle loops cycle on elapsed time, one frame per 200ms.
		step := int(m.elapsed/0.2) % sp.count
		m.column = sp.start + step
		return
	}

	m.timer += dt
	if m.timer < m.frameDelay(p) {
		return
	}
	m.timer = 0

	if sp.oneShot || m.state == StateWalkToCrouch {
		if m.column < sp.start+sp.count-1 {
			m.column++
		}
		if m.column == sp.start+sp.count-1 {
			m.complete = true
		}
		return
	}

	// Looping states wrap modulo their frame count.
	m.column = sp.start + (m.column-sp.start+1)%sp.count
}

// jumpColumn derives the long jump frame from vertical velocity: the first
// half of the row plays on the way up, the second half on the way down, each
// progress ratio clamped against the configured peak velocity.
func jumpColumn(p Physics) int {
	half := FramesLongJump / 2
	peak := p.JumpPeak
	if peak <= 0 {
		peak = 1
	}

	if p.VelY < 0 {
		rise := -p.VelY / (peak / 2)
		if rise > 1 {
			rise = 1
		}
		col := int(rise * float64(half))
		if col > half-1 {
			col = half - 1
		}
		return col
	}

	fall := p.VelY / (peak / 2)
	if fall > 1 {
		fall = 1
	}
	col := half + int(fall*float64(half))
	if col > FramesLongJump-1 {
		col = FramesLongJump - 1
	}
	return col
}
