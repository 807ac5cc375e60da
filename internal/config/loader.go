package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name looked up in the config directories.
const ConfigFile = "suika.yaml"

// LoadSuika loads the fruit merge configuration.
// Search order: customPath -> ~/.suika/configs/suika.yaml -> ./configs/suika.yaml -> embedded default.
// A custom path that fails to read, parse or validate is an error; the
// other locations are skipped silently when unusable.
func LoadSuika(customPath string) (SuikaConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return SuikaConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return SuikaConfig{}, fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath(ConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", ConfigFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := Parse(defaultSuikaYAML)
	if err != nil {
		return DefaultSuikaConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of the hardcoded defaults and validates the result.
// Omitted sections keep their default values.
func Parse(data []byte) (SuikaConfig, error) {
	cfg := DefaultSuikaConfig()
	// Themes are replaced wholesale rather than merged key by key.
	cfg.Themes = nil

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SuikaConfig{}, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if cfg.Themes == nil {
		cfg.Themes = DefaultSuikaConfig().Themes
	}
	if err := cfg.Validate(); err != nil {
		return SuikaConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the game cannot run with.
// All problems are reported together.
func (c SuikaConfig) Validate() error {
	var errs []error

	ct := c.Container
	if ct.LeftBound >= ct.RightBound {
		errs = append(errs, fmt.Errorf("container: left_bound %.1f must be below right_bound %.1f", ct.LeftBound, ct.RightBound))
	}
	if ct.TopLineY >= ct.FloorY {
		errs = append(errs, fmt.Errorf("container: top_line_y %.1f must be above floor_y %.1f", ct.TopLineY, ct.FloorY))
	}
	if ct.Width <= 0 || ct.Height <= 0 {
		errs = append(errs, errors.New("container: width and height must be positive"))
	}
	if c.Spawn.Pool < 1 {
		errs = append(errs, fmt.Errorf("spawn: pool must be at least 1, got %d", c.Spawn.Pool))
	}
	if c.Spawn.X < ct.LeftBound || c.Spawn.X > ct.RightBound {
		errs = append(errs, fmt.Errorf("spawn: x %.1f is outside the container", c.Spawn.X))
	}
	if c.Timing.DropDelayMs <= 0 {
		errs = append(errs, errors.New("timing: drop_delay_ms must be positive"))
	}
	if c.Timing.MoveIntervalMs <= 0 {
		errs = append(errs, errors.New("timing: move_interval_ms must be positive"))
	}
	if c.Controls.KeyStep <= 0 || c.Controls.ExpressionStep <= 0 {
		errs = append(errs, errors.New("controls: move steps must be positive"))
	}
	if c.Physics.Substeps < 1 || c.Physics.Iterations < 1 {
		errs = append(errs, errors.New("physics: substeps and iterations must be at least 1"))
	}

	if len(c.Themes) == 0 {
		errs = append(errs, errors.New("themes: at least one theme is required"))
	}
	if _, ok := c.Themes[c.DefaultTheme]; !ok && len(c.Themes) > 0 {
		errs = append(errs, fmt.Errorf("default_theme %q is not defined", c.DefaultTheme))
	}
	for name, theme := range c.Themes {
		if err := theme.validate(); err != nil {
			errs = append(errs, fmt.Errorf("theme %s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

func (t ThemeConfig) validate() error {
	if len(t.Tiers) == 0 {
		return errors.New("tier table is empty")
	}
	for i, tier := range t.Tiers {
		if tier.Name == "" {
			return fmt.Errorf("tier %d has no name", i)
		}
		if tier.Radius <= 0 {
			return fmt.Errorf("tier %s: radius must be positive", tier.Name)
		}
		if i > 0 && tier.Radius <= t.Tiers[i-1].Radius {
			return fmt.Errorf("tier %s: radius %.1f must exceed the previous tier", tier.Name, tier.Radius)
		}
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".suika", "configs", filename)
}
