// Package track generates the course for a race: a noise-derived elevation
// profile and, on cross-country terrain, the obstacles the runner must jump.
package track

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/vovakirdan/tui-runner/internal/race"
)

// ObstacleKind is one of the three obstacle varieties.
type ObstacleKind int

const (
	Hurdle ObstacleKind = iota
	WaterJump
	HighHurdle
)

// String returns the obstacle's display name.
func (k ObstacleKind) String() string {
	switch k {
	case Hurdle:
		return "hurdle"
	case WaterJump:
		return "water jump"
	case HighHurdle:
		return "high hurdle"
	default:
		return "obstacle"
	}
}

// Obstacle sits at a fixed position along the course. Width only matters
// for rendering; the clear-or-stumble call is made at the position itself.
type Obstacle struct {
	Position float64 // meters from the start line
	Kind     ObstacleKind
	Width    float64 // meters
}

// Event reports the runner meeting an obstacle: cleared in the air, or hit.
type Event struct {
	Obstacle Obstacle
	Cleared  bool
}

// Obstacle spacing. The first stretch is clean so the runner can settle in.
const (
	firstObstacleAt = 150.0
	minGap          = 60.0
	maxGap          = 140.0
)

// Course is one generated race course. Obstacle resolution is stateful:
// each obstacle produces exactly one Event as the runner crosses it.
type Course struct {
	Distance  float64
	Obstacles []Obstacle

	elevation opensimplex.Noise
	next      int // first unresolved obstacle
}

// Generate builds the course for a race. Obstacles appear only on terrain
// that calls for them; the elevation profile is generated for every course.
// The same seed always yields the same course.
func Generate(cfg race.Config, seed int64) *Course {
	c := &Course{
		Distance:  cfg.Distance,
		elevation: opensimplex.NewNormalized(seed),
	}
	if !cfg.Obstacles {
		return c
	}

	rng := rand.New(rand.NewSource(seed))
	pos := firstObstacleAt
	for pos < cfg.Distance-minGap {
		c.Obstacles = append(c.Obstacles, Obstacle{
			Position: pos,
			Kind:     c.kindAt(pos),
			Width:    widthOf(c.kindAt(pos)),
		})
		pos += minGap + rng.Float64()*(maxGap-minGap)
	}
	return c
}

// kindAt derives the obstacle variety from the local elevation: low ground
// collects water, high ground gets the taller hurdle.
func (c *Course) kindAt(pos float64) ObstacleKind {
	e := c.ElevationAt(pos)
	switch {
	case e < 0.35:
		return WaterJump
	case e > 0.7:
		return HighHurdle
	default:
		return Hurdle
	}
}

func widthOf(k ObstacleKind) float64 {
	if k == WaterJump {
		return 3.0
	}
	return 1.5
}

// ElevationAt samples the course height at a position, normalized to [0, 1].
// Multiple octaves keep the profile rolling rather than jittery.
func (c *Course) ElevationAt(pos float64) float64 {
	const octaves = 3
	frequency := 0.008
	amplitude := 1.0
	total, totalAmp := 0.0, 0.0
	for i := 0; i < octaves; i++ {
		total += c.elevation.Eval2(pos*frequency, float64(i)) * amplitude
		totalAmp += amplitude
		frequency *= 2
		amplitude *= 0.5
	}
	return total / totalAmp
}

// Upcoming returns the nearest unresolved obstacle, if any.
func (c *Course) Upcoming() (Obstacle, bool) {
	if c.next >= len(c.Obstacles) {
		return Obstacle{}, false
	}
	return c.Obstacles[c.next], true
}

// Advance resolves obstacles the runner has reached since the last call:
// airborne clears, grounded hits. Each obstacle fires exactly once.
func (c *Course) Advance(pos float64, airborne bool) (Event, bool) {
	if c.next >= len(c.Obstacles) {
		return Event{}, false
	}
	ob := c.Obstacles[c.next]
	if pos < ob.Position {
		return Event{}, false
	}
	c.next++
	return Event{Obstacle: ob, Cleared: airborne}, true
}

// Reset rewinds obstacle resolution for a rerun of the same course.
func (c *Course) Reset() {
	c.next = 0
}
