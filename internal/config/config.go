// Package config provides YAML-based race configuration loading and
// difficulty presets for the runner.
package config

import (
	"github.com/vovakirdan/tui-runner/internal/race"
)

// RacesConfig is the full race configuration document: per-discipline
// parameters plus the shared jump physics.
type RacesConfig struct {
	Races   map[string]RaceParams `yaml:"races"`
	Physics PhysicsConfig         `yaml:"physics"`
}

// RaceParams mirrors race.Config in YAML form.
type RaceParams struct {
	Distance        float64 `yaml:"distance"`
	ExpectedTime    float64 `yaml:"expected_time"`
	SpeedFactor     float64 `yaml:"speed_factor"`
	EnduranceFactor float64 `yaml:"endurance_factor"`
	TechFactor      float64 `yaml:"tech_factor"`
	MashDecay       float64 `yaml:"mash_decay"`
	Terrain         string  `yaml:"terrain"`
	Obstacles       bool    `yaml:"obstacles"`
	JumpEffect      float64 `yaml:"jump_effect"`
	MinEntryTime    float64 `yaml:"min_entry_time"`
	EnforceMinTime  bool    `yaml:"enforce_min_time"`
}

// PhysicsConfig defines the vertical jump model shared by every race.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	JumpImpulse float64 `yaml:"jump_impulse"`
}

// Apply installs every configured race into the race package's table,
// overriding builtins of the same name.
func Apply(cfg RacesConfig) {
	for name, p := range cfg.Races {
		race.SetConfig(race.Type(name), race.Config{
			Distance:        p.Distance,
			ExpectedTime:    p.ExpectedTime,
			SpeedFactor:     p.SpeedFactor,
			EnduranceFactor: p.EnduranceFactor,
			TechFactor:      p.TechFactor,
			MashDecay:       p.MashDecay,
			Terrain:         p.Terrain,
			Obstacles:       p.Obstacles,
			JumpEffect:      p.JumpEffect,
			MinEntryTime:    p.MinEntryTime,
			EnforceMinTime:  p.EnforceMinTime,
		})
	}
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// StartingStats returns the career's starting attributes for a preset.
// Normal and fixed share the reference stat line.
func StartingStats(preset DifficultyPreset) race.Stats {
	base := race.Stats{Speed: 5, Endurance: 3, Technique: 4, Strength: 3}
	switch preset {
	case DifficultyEasy:
		return race.Stats{
			Speed:     base.Speed + 2,
			Endurance: base.Endurance + 2,
			Technique: base.Technique + 2,
			Strength:  base.Strength + 2,
		}
	case DifficultyHard:
		return race.Stats{
			Speed:     base.Speed - 1,
			Endurance: base.Endurance - 1,
			Technique: base.Technique - 1,
			Strength:  base.Strength - 1,
		}
	default:
		return base
	}
}

// IsFixedPreset returns true if the preset freezes field scaling by meet
// importance.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
