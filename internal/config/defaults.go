package config

import (
	_ "embed"
)

//go:embed defaults/races.yaml
var defaultRacesYAML []byte

// DefaultRacesConfig returns the default race configuration.
func DefaultRacesConfig() RacesConfig {
	return RacesConfig{
		Races: map[string]RaceParams{
			"sprint": {
				Distance:        100,
				ExpectedTime:    11,
				SpeedFactor:     0.8,
				EnduranceFactor: 0.2,
				TechFactor:      0.4,
				MashDecay:       0.02,
				Terrain:         "track",
				JumpEffect:      -0.05,
				MinEntryTime:    10.5,
				EnforceMinTime:  true,
			},
			"mile": {
				Distance:        1600,
				ExpectedTime:    300,
				SpeedFactor:     0.4,
				EnduranceFactor: 0.8,
				TechFactor:      0.5,
				MashDecay:       0.08,
				Terrain:         "track",
				JumpEffect:      -0.15,
			},
			"country": {
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
		},
		Physics: PhysicsConfig{
			Gravity:     0.8,
			JumpImpulse: 15,
		},
	}
}
