// Package config provides YAML-based game configuration loading for the
// fruit merge game, plus environment overrides for runtime settings.
package config

// SuikaConfig contains all configuration for the fruit merge game.
type SuikaConfig struct {
	Container    ContainerConfig        `yaml:"container"`
	Spawn        SpawnConfig            `yaml:"spawn"`
	Timing       TimingConfig           `yaml:"timing"`
	Controls     ControlsConfig         `yaml:"controls"`
	Physics      PhysicsConfig          `yaml:"physics"`
	DefaultTheme string                 `yaml:"default_theme"`
	Themes       map[string]ThemeConfig `yaml:"themes"`
}

// ContainerConfig describes the play field in world units (y grows downward).
type ContainerConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	WallThickness float64 `yaml:"wall_thickness"`
	FloorY        float64 `yaml:"floor_y"`     // Top surface of the floor
	LeftBound     float64 `yaml:"left_bound"`  // Inner face of the left wall
	RightBound    float64 `yaml:"right_bound"` // Inner face of the right wall
	TopLineY      float64 `yaml:"top_line_y"`  // Game over sensor line
}

// SpawnConfig controls where and what new pieces spawn.
type SpawnConfig struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Pool int     `yaml:"pool"` // Spawn picks uniformly from the first Pool tiers
}

// TimingConfig holds the controller's timer settings.
type TimingConfig struct {
	DropDelayMs    int `yaml:"drop_delay_ms"`    // Drop to next spawn
	MoveIntervalMs int `yaml:"move_interval_ms"` // Continuous move timer period
}

// ControlsConfig holds per-input movement rates.
type ControlsConfig struct {
	KeyStep        float64 `yaml:"key_step"`         // Displacement per move tick from the keyboard
	ExpressionStep float64 `yaml:"expression_step"`  // Displacement per move tick from expressions
	ReleaseAfterMs int     `yaml:"release_after_ms"` // Synthesized key-up after this long without repeat
}

// PhysicsConfig tunes the physics world.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Substeps    int     `yaml:"substeps"`
	Iterations  int     `yaml:"iterations"`
	AirFriction float64 `yaml:"air_friction"`
	Restitution float64 `yaml:"restitution"` // Applied to spawned pieces
}

// ThemeConfig is a named tier table.
type ThemeConfig struct {
	Title string       `yaml:"title"`
	Tiers []TierConfig `yaml:"tiers"`
}

// TierConfig is one entry of a tier table, smallest first.
type TierConfig struct {
	Name   string  `yaml:"name"`
	Radius float64 `yaml:"radius"`
	Glyph  string  `yaml:"glyph"`
	Color  string  `yaml:"color"`
	Score  int     `yaml:"score"` // Points for creating this tier by merge
}

// Theme returns the named theme, falling back to the default theme.
func (c SuikaConfig) Theme(name string) (ThemeConfig, bool) {
	if name == "" {
		name = c.DefaultTheme
	}
	t, ok := c.Themes[name]
	return t, ok
}
