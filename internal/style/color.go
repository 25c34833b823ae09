// Package style resolves page-level visual parameters (margins, font sizes,
// colours) and applies them to a document's base styles.
package style

import (
	"fmt"
	"strconv"
	"strings"
)

// darkThreshold is the perceived-luminance cut-off below which a background
// counts as dark.
const darkThreshold = 140

// RGB is an sRGB colour.
type RGB struct {
	R, G, B uint8
}

var (
	White = RGB{255, 255, 255}
	Black = RGB{0, 0, 0}
)

// ParseHexColor parses "RRGGBB" or "#RRGGBB". Anything else is rejected.
func ParseHexColor(s string) (RGB, bool) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(v) != 6 {
		return RGB{}, false
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, true
}

// Hex returns the colour as six upper-case hex digits without '#'.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Luminance is the Rec. 709 weighted sum of the channels, in 0..255.
func (c RGB) Luminance() float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

// IsDark reports whether c reads as a dark background.
func (c RGB) IsDark() bool {
	return c.Luminance() < darkThreshold
}

// AutoContrast returns white text for dark backgrounds and black otherwise.
func AutoContrast(bg RGB) RGB {
	if bg.IsDark() {
		return White
	}
	return Black
}

// Pick takes the first non-empty value and normalizes it to a backend colour
// ("RRGGBB"). An unparseable first value yields "" rather than falling through.
func Pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if c, ok := ParseHexColor(v); ok {
			return c.Hex()
		}
		return ""
	}
	return ""
}
