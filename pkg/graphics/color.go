package graphics

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseColor parses a #rgb or #rrggbb hex color. Anything unparsable
// comes back opaque black, which keeps a bad script visible instead of
// crashing the frame.
func ParseColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		r := hexNibble(s[0])
		g := hexNibble(s[1])
		b := hexNibble(s[2])
		return color.RGBA{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b, A: 0xff}
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return color.RGBA{A: 0xff}
		}
		return color.RGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 0xff,
		}
	default:
		return color.RGBA{A: 0xff}
	}
}

func hexNibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// WithAlpha returns the color with its alpha channel set to the given
// fraction, clamped to [0, 1].
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(alpha * 255)
	return c
}
