package vinyl

import "math/rand/v2"

// newHitColor draws random opaque colors until one is usable: not black,
// not the background and not already used. taken is keyed by rgbKey.
// There is no retry cap; with a 24-bit space and a few hundred shapes the
// loop practically always ends on the first draw.
func newHitColor(r *rand.Rand, background Color, taken func(key uint32) bool) Color {
	for {
		v := r.Uint32()
		c := Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
		if c.SameRGB(ColorBlack) || c.SameRGB(background) || taken(c.rgbKey()) {
			continue
		}
		return c
	}
}
