package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightMagenta
	ColorOrange
	ColorPink
	ColorPurple
	ColorBrown
	ColorGray
)

var colorNames = map[string]Color{
	"default":        ColorDefault,
	"red":            ColorRed,
	"green":          ColorGreen,
	"yellow":         ColorYellow,
	"blue":           ColorBlue,
	"magenta":        ColorMagenta,
	"cyan":           ColorCyan,
	"white":          ColorWhite,
	"bright_red":     ColorBrightRed,
	"bright_green":   ColorBrightGreen,
	"bright_yellow":  ColorBrightYellow,
	"bright_magenta": ColorBrightMagenta,
	"orange":         ColorOrange,
	"pink":           ColorPink,
	"purple":         ColorPurple,
	"brown":          ColorBrown,
	"gray":           ColorGray,
}

// ParseColor looks up a color by its config name.
// Unknown names return ColorDefault and false.
func ParseColor(name string) (Color, bool) {
	c, ok := colorNames[name]
	return c, ok
}
