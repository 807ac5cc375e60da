package suika

import (
	"fmt"

	"github.com/vovakirdan/tui-suika/internal/config"
	"github.com/vovakirdan/tui-suika/internal/core"
)

// Tier is one immutable rank of the merge ladder. Index 0 is the smallest.
type Tier struct {
	Index   int
	Name    string
	Radius  float64
	Texture string // sprite identifier, e.g. "03_gyool"
	Glyph   rune
	Color   core.Color
	Score   int // points for producing this tier by merge
}

// NewTiers builds a tier table from a theme. Missing glyphs fall back to the
// first letter of the name, missing scores to triangular numbers.
func NewTiers(theme config.ThemeConfig) []Tier {
	tiers := make([]Tier, len(theme.Tiers))
	for i, tc := range theme.Tiers {
		glyph := '●'
		if r := []rune(tc.Glyph); len(r) > 0 {
			glyph = r[0]
		} else if r := []rune(tc.Name); len(r) > 0 {
			glyph = r[0]
		}

		color, ok := core.ParseColor(tc.Color)
		if !ok {
			color = core.ColorWhite
		}

		score := tc.Score
		if score <= 0 {
			score = (i + 1) * (i + 2) / 2
		}

		tiers[i] = Tier{
			Index:   i,
			Name:    tc.Name,
			Radius:  tc.Radius,
			Texture: fmt.Sprintf("%02d_%s", i, tc.Name),
			Glyph:   glyph,
			Color:   color,
			Score:   score,
		}
	}
	return tiers
}

// TierNames returns the tier names of a theme, smallest first.
func TierNames(cfg config.SuikaConfig, theme string) []string {
	t, ok := cfg.Theme(theme)
	if !ok {
		return nil
	}
	names := make([]string, len(t.Tiers))
	for i, tc := range t.Tiers {
		names[i] = tc.Name
	}
	return names
}
