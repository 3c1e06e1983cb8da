package svgdraw

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/benoitkugler/censuspie/census"
)

// Neutral is used for codes missing from a palette.
var Neutral = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

// Palette maps each years in business bucket to its color.
type Palette map[census.YearsCode]color.NRGBA

// DefaultPalette returns the colors of the six buckets,
// from the youngest to the oldest businesses.
func DefaultPalette() Palette {
	out := make(Palette, len(census.YearsBuckets))
	for i, hex := range [...]string{"#98abc5", "#8a89a6", "#7b6888", "#a05d56", "#d0743c", "#ff8c00"} {
		out[census.YearsBuckets[i]], _ = ParseHex(hex)
	}
	return out
}

// Color returns the color of `code`, or Neutral.
func (p Palette) Color(code census.YearsCode) color.NRGBA {
	if c, ok := p[code]; ok {
		return c
	}
	return Neutral
}

// Override returns a copy of the palette, where the codes
// of `colors` are replaced by the given hexadecimal colors.
func (p Palette) Override(colors map[string]string) (Palette, error) {
	out := make(Palette, len(p)+len(colors))
	for code, c := range p {
		out[code] = c
	}
	for code, hex := range colors {
		c, err := ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("color of %s: %w", code, err)
		}
		out[census.YearsCode(code)] = c
	}
	return out, nil
}

// ParseHex parses colors written as #rgb or #rrggbb
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Hex returns the #rrggbb representation of `c`, ignoring its alpha channel.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
