package terminal

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"typeline/surface"
)

// styleSheet holds the root pass-through properties. It is a plain value so
// Redraw can snapshot it under the content lock and use it lock-free.
type styleSheet struct {
	fg     tcell.Color
	bg     tcell.Color
	accent tcell.Color
	margin int
}

func defaultStyles() styleSheet {
	return styleSheet{
		fg:     tcell.NewRGBColor(192, 202, 245),
		bg:     tcell.NewRGBColor(26, 27, 38),
		accent: tcell.NewRGBColor(255, 165, 0),
		margin: 1,
	}
}

// apply merges one pass-through property. Unknown properties and
// unparseable values are ignored.
func (s *styleSheet) apply(property, value string) {
	switch property {
	case "color":
		if c, ok := parseColor(value); ok {
			s.fg = c
		}
	case "background":
		if c, ok := parseColor(value); ok {
			s.bg = c
		}
	case "accent":
		if c, ok := parseColor(value); ok {
			s.accent = c
		}
	case "margin", "padding":
		if n, err := strconv.Atoi(value); err == nil && n >= 0 && n <= 16 {
			s.margin = n
		}
	}
}

func (s styleSheet) base() tcell.Style {
	return tcell.StyleDefault.Foreground(s.fg).Background(s.bg)
}

// Animation periods for the dynamic effects.
const (
	cueBlinkPeriod = 500 * time.Millisecond
	blinkPeriod    = 400 * time.Millisecond
	glowPeriod     = 1200 * time.Millisecond
	wavePeriod     = 600 * time.Millisecond
	shakePeriod    = 90 * time.Millisecond
)

// resolve maps an effect tag to a drawing style at one instant. It returns
// the style, a horizontal jitter offset and whether the cell is visible in
// the current animation phase. Unknown tags fall back to the base style, so
// a marker the palette does not know still renders its content.
func (s styleSheet) resolve(effect string, now time.Time, column int) (tcell.Style, int, bool) {
	base := s.base()
	switch effect {
	case "":
		return base, 0, true
	case surface.EffectCue:
		on := (now.UnixMilli()/cueBlinkPeriod.Milliseconds())%2 == 0
		return base.Foreground(s.accent).Bold(true), 0, on
	case "blink":
		on := (now.UnixMilli()/blinkPeriod.Milliseconds())%2 == 0
		return base, 0, on
	case "glow":
		phase := float64(now.UnixMilli()%glowPeriod.Milliseconds()) / float64(glowPeriod.Milliseconds())
		lift := 0.35 - 0.35*math.Cos(2*math.Pi*phase)
		return base.Foreground(blend(s.accent, tcell.NewRGBColor(255, 255, 255), lift)).Bold(true), 0, true
	case "wave":
		phase := float64(now.UnixMilli())/float64(wavePeriod.Milliseconds()) - float64(column)*0.18
		mix := 0.5 + 0.5*math.Sin(2*math.Pi*phase)
		return base.Foreground(blend(s.fg, s.accent, mix)), 0, true
	case "shake":
		seed := now.UnixNano()/shakePeriod.Nanoseconds() + int64(column)*31
		return base.Foreground(s.accent), int(seed%3) - 1, true
	default:
		if c, ok := parseColor(effect); ok {
			return base.Foreground(c), 0, true
		}
		return base, 0, true
	}
}

// namedColors is the fixed palette reachable from effect tags and style
// values. Hex literals keep the table greppable.
var namedColors = map[string]string{
	"white":   "#ffffff",
	"gray":    "#b4b4b4",
	"red":     "#ff5050",
	"green":   "#32c832",
	"blue":    "#6496ff",
	"yellow":  "#ffd700",
	"gold":    "#ffff00",
	"orange":  "#ffa500",
	"cyan":    "#00c8c8",
	"magenta": "#d75fd7",
}

// parseColor accepts "#rrggbb" or a palette name.
func parseColor(value string) (tcell.Color, bool) {
	hex := value
	if !strings.HasPrefix(value, "#") {
		named, ok := namedColors[strings.ToLower(value)]
		if !ok {
			return 0, false
		}
		hex = named
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, false
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), true
}

// blend mixes two colors in RGB space, t in [0, 1].
func blend(a, b tcell.Color, t float64) tcell.Color {
	m := toColorful(a).BlendRgb(toColorful(b), t)
	r, g, bb := m.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(bb))
}

func toColorful(c tcell.Color) colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
