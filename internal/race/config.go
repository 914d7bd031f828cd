// Package race implements the race simulation engine: the pacing/stamina
// model, the AI competitor field, and the controller state machine that
// drives a single race from countdown to the finish line.
package race

import (
	"errors"
	"fmt"
	"sync"
)

// Type identifies a race discipline.
type Type string

const (
	Sprint  Type = "sprint"  // 100m dash
	Mile    Type = "mile"    // 1600m
	Country Type = "country" // 3000m cross country with obstacles
)

// Types lists all known race types in display order.
func Types() []Type {
	return []Type{Sprint, Mile, Country}
}

// ErrConfigNotFound is returned when a race type has no configuration.
// It fails a startRace call before any state is mutated; no default race
// type is ever silently substituted.
var ErrConfigNotFound = errors.New("race: config not found")

// Config holds the immutable parameters of one race discipline.
// Defined at process start (builtin or YAML override), read-only thereafter.
type Config struct {
	Distance     float64 // meters
	ExpectedTime float64 // baseline finish time in seconds for average stats

	// Stat weighting: how much each stat contributes to base pace.
	SpeedFactor     float64
	EnduranceFactor float64
	TechFactor      float64

	// MashDecay controls both boost decay and mash stamina drain.
	MashDecay float64

	Terrain   string  // "track" or "country", a visual tag
	Obstacles bool    // whether the course spawns obstacles
	JumpEffect float64 // pace effect of a cleared jump (negative slows)

	// MinEntryTime, when EnforceMinTime is set and the athlete competes at
	// the lowest tier, caps base pace so Distance/basePace >= MinEntryTime.
	MinEntryTime   float64
	EnforceMinTime bool
}

// TimeLimit is the DNF horizon: 1.5x the expected time.
func (c Config) TimeLimit() float64 {
	return c.ExpectedTime * 1.5
}

// builtin holds the reference race configurations, matching the published
// game balance. YAML overrides replace entries wholesale.
var builtin = map[Type]Config{
	Sprint: {
		Distance:        100,
		ExpectedTime:    11,
		SpeedFactor:     0.8,
		EnduranceFactor: 0.2,
		TechFactor:      0.4,
		MashDecay:       0.02,
		Terrain:         "track",
		Obstacles:       false,
		JumpEffect:      -0.05,
		MinEntryTime:    10.5,
		EnforceMinTime:  true,
	},
	Mile: {
		Distance:        1600,
		ExpectedTime:    300,
		SpeedFactor:     0.4,
		EnduranceFactor: 0.8,
		TechFactor:      0.5,
		MashDecay:       0.08,
		Terrain:         "track",
		Obstacles:       false,
		JumpEffect:      -0.15,
	},
	Country: {
		Distance:        3000,
		ExpectedTime:    720,
		SpeedFactor:     0.3,
		EnduranceFactor: 0.7,
		TechFactor:      0.7,
		MashDecay:       0.12,
		Terrain:         "country",
		Obstacles:       true,
		JumpEffect:      0.05,
	},
}

// configMu guards configs. The SSH server resets games from concurrent
// session goroutines, so lookups and overrides must not race.
var (
	configMu sync.RWMutex
	configs  = cloneConfigs(builtin)
)

func cloneConfigs(src map[Type]Config) map[Type]Config {
	dst := make(map[Type]Config, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// ConfigFor returns the configuration for a race type.
func ConfigFor(t Type) (Config, error) {
	configMu.RLock()
	cfg, ok := configs[t]
	configMu.RUnlock()
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrConfigNotFound, t)
	}
	return cfg, nil
}

// SetConfig installs an override for a race type. Called once at process
// start by the config loader, never during a race.
func SetConfig(t Type, cfg Config) {
	configMu.Lock()
	configs[t] = cfg
	configMu.Unlock()
}

// ResetConfigs restores the builtin configurations. Test helper.
func ResetConfigs() {
	configMu.Lock()
	configs = cloneConfigs(builtin)
	configMu.Unlock()
}
