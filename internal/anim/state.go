// Package anim implements the sprite-sheet animation state machine that
// drives the runner character. It is pure logic: callers feed it ticks and
// physics signals, and read back a (row, column) frame cursor to draw.
package anim

import "errors"

// State identifies one animation on the sprite sheet.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateJumping
	StateFalling
	StateWalkToCrouch
	StateThrow
	StateHammerThrow
	StateFosburyFlop
	StateFlex
	StateHeadScratch
	StateCrying
)

// String returns the animation name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateJumping:
		return "jumping"
	case StateFalling:
		return "falling"
	case StateWalkToCrouch:
		return "walkToCrouch"
	case StateThrow:
		return "throw"
	case StateHammerThrow:
		return "hammerThrow"
	case StateFosburyFlop:
		return "fosburyFlop"
	case StateFlex:
		return "flex"
	case StateHeadScratch:
		return "headScratch"
	case StateCrying:
		return "crying"
	default:
		return "unknown"
	}
}

// Sprite sheet row indices.
const (
	RowWalkToCrouch = 0
	RowRunningFall  = 1 // running stride plus the terminal fall frame
	RowLongJump     = 2
	RowThrow        = 3
	RowHammerThrow  = 4
	RowMixed        = 5 // fosbury flop, flex, head scratch, crying
)

// Frame counts per animation.
const (
	FramesWalkToCrouch = 13
	FramesRunning      = 6
	FramesLongJump     = 9
	FramesThrow        = 12
	FramesHammerThrow  = 8
	FramesFosburyFlop  = 4
	FramesFlex         = 2
	FramesHeadScratch  = 2
	FramesCrying       = 2
)

// FallColumn is the terminal fall frame within the running row.
const FallColumn = FramesRunning

// Starting columns for the animations packed into the mixed row.
const (
	MixedFosburyFlopStart = 0
	MixedFlexStart        = 4
	MixedHeadScratchStart = 6
	MixedCryingStart      = 8
)

// Transition tags how a state change was requested. Normal transitions
// respect one-shot protection; Forced transitions pre-empt anything and are
// reserved for terminal events such as an obstacle crash.
type Transition int

const (
	Normal Transition = iota
	Forced
)

// ErrInvalidState is returned when a transition names an animation the
// sprite sheet does not have.
var ErrInvalidState = errors.New("anim: invalid animation state")

// ErrLocked is returned when a normal transition would pre-empt a one-shot
// animation that has not finished playing.
var ErrLocked = errors.New("anim: one-shot animation in progress")

// spec describes one animation's sprite sheet binding.
type spec struct {
	row     int
	start   int // first column within the row
	count   int // number of frames
	oneShot bool
	chatter bool // idle loop keyed off elapsed time, not the frame timer
}

var specs = map[State]spec{
	StateIdle:         {row: RowRunningFall, start: 0, count: 1},
	StateRunning:      {row: RowRunningFall, start: 0, count: FramesRunning},
	StateJumping:      {row: RowLongJump, start: 0, count: FramesLongJump},
	StateFalling:      {row: RowRunningFall, start: FallColumn, count: 1},
	StateWalkToCrouch: {row: RowWalkToCrouch, start: 0, count: FramesWalkToCrouch},
	StateThrow:        {row: RowThrow, start: 0, count: FramesThrow, oneShot: true},
	StateHammerThrow:  {row: RowHammerThrow, start: 0, count: FramesHammerThrow, oneShot: true},
	StateFosburyFlop:  {row: RowMixed, start: MixedFosburyFlopStart, count: FramesFosburyFlop, oneShot: true},
	StateFlex:         {row: RowMixed, start: MixedFlexStart, count: FramesFlex, chatter: true},
	StateHeadScratch:  {row: RowMixed, start: MixedHeadScratchStart, count: FramesHeadScratch, chatter: true},
	StateCrying:       {row: RowMixed, start: MixedCryingStart, count: FramesCrying, chatter: true},
}

// IsOneShot reports whether the state plays to completion exactly once.
func (s State) IsOneShot() bool {
	sp, ok := specs[s]
	return ok && sp.oneShot
}

// Valid reports whether the state exists on the sprite sheet.
func (s State) Valid() bool {
	_, ok := specs[s]
	return ok
}
