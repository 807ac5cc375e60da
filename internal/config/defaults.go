package config

import (
	_ "embed"
)

//go:embed defaults/suika.yaml
var defaultSuikaYAML []byte

// DefaultSuikaConfig returns hardcoded defaults, used if the embedded YAML
// cannot be parsed.
func DefaultSuikaConfig() SuikaConfig {
	return SuikaConfig{
		Container: ContainerConfig{
			Width:         620,
			Height:        850,
			WallThickness: 30,
			FloorY:        790,
			LeftBound:     30,
			RightBound:    590,
			TopLineY:      150,
		},
		Spawn: SpawnConfig{
			X:    300,
			Y:    50,
			Pool: 5,
		},
		Timing: TimingConfig{
			DropDelayMs:    1000,
			MoveIntervalMs: 4,
		},
		Controls: ControlsConfig{
			KeyStep:        1.0,
			ExpressionStep: 0.5,
			ReleaseAfterMs: 250,
		},
		Physics: PhysicsConfig{
			Gravity:     1000,
			Substeps:    4,
			Iterations:  4,
			AirFriction: 0.6,
			Restitution: 0.2,
		},
		DefaultTheme: "base",
		Themes: map[string]ThemeConfig{
			"base": {
				Title: "Suika",
				Tiers: []TierConfig{
					{Name: "cherry", Radius: 33, Glyph: "c", Color: "red", Score: 1},
					{Name: "strawberry", Radius: 48, Glyph: "s", Color: "bright_red", Score: 3},
					{Name: "grape", Radius: 61, Glyph: "g", Color: "purple", Score: 6},
					{Name: "gyool", Radius: 69, Glyph: "o", Color: "orange", Score: 10},
					{Name: "orange", Radius: 89, Glyph: "O", Color: "yellow", Score: 15},
					{Name: "apple", Radius: 114, Glyph: "a", Color: "red", Score: 21},
					{Name: "pear", Radius: 129, Glyph: "p", Color: "bright_yellow", Score: 28},
					{Name: "peach", Radius: 156, Glyph: "h", Color: "pink", Score: 36},
					{Name: "pineapple", Radius: 177, Glyph: "P", Color: "bright_yellow", Score: 45},
					{Name: "melon", Radius: 220, Glyph: "m", Color: "bright_green", Score: 55},
					{Name: "watermelon", Radius: 259, Glyph: "W", Color: "green", Score: 66},
				},
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultSuikaYAML
}
