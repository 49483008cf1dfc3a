// Package theme loads color palettes from TOML files and resolves them
// into styles for the view tree. A palette maps semantic roles (view
// text, titles, highlight) to colors; views that take a style delta can
// be fed from a theme without knowing where the colors came from.
package theme

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/mimame/cursive"
)

// Role names one semantic color slot in a palette.
type Role string

const (
	Background        Role = "background"
	Shadow            Role = "shadow"
	View              Role = "view"
	Primary           Role = "primary"
	Secondary         Role = "secondary"
	Tertiary          Role = "tertiary"
	TitlePrimary      Role = "title_primary"
	TitleSecondary    Role = "title_secondary"
	Highlight         Role = "highlight"
	HighlightInactive Role = "highlight_inactive"
)

var roles = []Role{
	Background, Shadow, View, Primary, Secondary, Tertiary,
	TitlePrimary, TitleSecondary, Highlight, HighlightInactive,
}

// Theme is a resolved palette.
type Theme struct {
	palette map[Role]cursive.Color
}

// Default returns the built-in palette, usable on any 16-color terminal.
func Default() *Theme {
	return &Theme{palette: map[Role]cursive.Color{
		Background:        cursive.Blue,
		Shadow:            cursive.Black,
		View:              cursive.DefaultColor(),
		Primary:           cursive.DefaultColor(),
		Secondary:         cursive.Cyan,
		Tertiary:          cursive.White,
		TitlePrimary:      cursive.Red,
		TitleSecondary:    cursive.Yellow,
		Highlight:         cursive.Red,
		HighlightInactive: cursive.Blue,
	}}
}

// Color returns the color bound to the role, or the terminal default
// for roles the palette does not define.
func (t *Theme) Color(r Role) cursive.Color {
	if c, ok := t.palette[r]; ok {
		return c
	}
	return cursive.DefaultColor()
}

// Set rebinds one role.
func (t *Theme) Set(r Role, c cursive.Color) {
	t.palette[r] = c
}

// ViewStyle returns the base style for view content: primary text over
// the view background.
func (t *Theme) ViewStyle() cursive.Style {
	return cursive.Style{FG: t.Color(Primary), BG: t.Color(View)}
}

// TitleStyle returns the style for box titles.
func (t *Theme) TitleStyle() cursive.Style {
	return cursive.Style{FG: t.Color(TitlePrimary), BG: t.Color(View)}
}

// HighlightStyle returns the style for the focused selection.
func (t *Theme) HighlightStyle() cursive.Style {
	return cursive.Style{FG: t.Color(View), BG: t.Color(Highlight)}
}

// file mirrors the TOML document shape.
type file struct {
	Colors map[string]string `toml:"colors"`
}

// Load reads and parses a TOML theme file. Roles absent from the file
// keep their Default binding, so a theme may override a single color.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}

// Parse parses a TOML theme document.
func Parse(data []byte) (*Theme, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	t := Default()
	for name, value := range f.Colors {
		role, err := roleNamed(name)
		if err != nil {
			return nil, err
		}
		c, err := ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("color %q: %w", name, err)
		}
		t.palette[role] = c
	}
	return t, nil
}

func roleNamed(name string) (Role, error) {
	for _, r := range roles {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown color role %q", name)
}

var namedColors = map[string]cursive.Color{
	"default":        cursive.DefaultColor(),
	"black":          cursive.Black,
	"red":            cursive.Red,
	"green":          cursive.Green,
	"yellow":         cursive.Yellow,
	"blue":           cursive.Blue,
	"magenta":        cursive.Magenta,
	"cyan":           cursive.Cyan,
	"white":          cursive.White,
	"bright_black":   cursive.BrightBlack,
	"bright_red":     cursive.BrightRed,
	"bright_green":   cursive.BrightGreen,
	"bright_yellow":  cursive.BrightYellow,
	"bright_blue":    cursive.BrightBlue,
	"bright_magenta": cursive.BrightMagenta,
	"bright_cyan":    cursive.BrightCyan,
	"bright_white":   cursive.BrightWhite,
}

// ParseColor resolves a color value from a theme file: a named ANSI
// color, "#rrggbb" or "#rgb" hex, or "256:n" for a palette index.
func ParseColor(s string) (cursive.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if n, ok := strings.CutPrefix(s, "256:"); ok {
		var idx int
		if _, err := fmt.Sscanf(n, "%d", &idx); err != nil || idx < 0 || idx > 255 {
			return cursive.Color{}, fmt.Errorf("bad palette index %q", n)
		}
		return cursive.PaletteColor(uint8(idx)), nil
	}
	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			s = fmt.Sprintf("#%c%c%c%c%c%c", s[1], s[1], s[2], s[2], s[3], s[3])
		}
		hc, err := colorful.Hex(s)
		if err != nil {
			return cursive.Color{}, fmt.Errorf("bad hex color %q: %w", s, err)
		}
		r, g, b := hc.RGB255()
		return cursive.RGB(r, g, b), nil
	}
	return cursive.Color{}, fmt.Errorf("unknown color %q", s)
}
