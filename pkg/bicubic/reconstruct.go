package bicubic

import "fmt"

// AlphaMode selects how the alpha channel of an output pixel is produced.
// Alpha is never interpolated.
type AlphaMode int

const (
	// AlphaOpaque makes every output pixel fully opaque.
	AlphaOpaque AlphaMode = iota
	// AlphaCopy copies alpha from the window's anchor sample, the source
	// pixel the destination pixel maps onto.
	AlphaCopy
)

func (m AlphaMode) String() string {
	switch m {
	case AlphaOpaque:
		return "opaque"
	case AlphaCopy:
		return "copy"
	default:
		return fmt.Sprintf("AlphaMode(%d)", int(m))
	}
}

// ParseAlphaMode parses "opaque" or "copy". The empty string is AlphaOpaque.
func ParseAlphaMode(s string) (AlphaMode, error) {
	switch s {
	case "", "opaque":
		return AlphaOpaque, nil
	case "copy", "passthrough":
		return AlphaCopy, nil
	default:
		return AlphaOpaque, fmt.Errorf("unknown alpha mode %q (want opaque or copy)", s)
	}
}

// anchorIndex is the window slot of sample (base+1, base+1).
const anchorIndex = 1*4 + 1

// Reconstruct combines the window into one color with the separable 2-D
// kernel. Each of R, G and B is summed in float64, clamped to [0,255] and
// truncated.
func Reconstruct(w *Window, alpha AlphaMode) Color {
	wx := Weights(w.FracX)
	wy := Weights(w.FracY)
	var r, g, b float64
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			c := w.Colors[j*4+i]
			r += float64(c.R) * wx[i] * wy[j]
			g += float64(c.G) * wx[i] * wy[j]
			b += float64(c.B) * wx[i] * wy[j]
		}
	}
	out := Color{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b), A: 0xff}
	if alpha == AlphaCopy {
		out.A = w.Colors[anchorIndex].A
	}
	return out
}

// clampChannel truncates v into a channel value. NaN maps to 0.
func clampChannel(v float64) uint8 {
	switch {
	case v > 255:
		return 255
	case v >= 0:
		return uint8(v)
	default:
		return 0
	}
}
