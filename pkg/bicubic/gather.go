package bicubic

// ScaleRatios maps destination pixel coordinates onto source coordinates.
type ScaleRatios struct {
	X, Y float64
}

// NewScaleRatios returns (srcW-1)/dstW and (srcH-1)/dstH. The sizes are
// validated first so a zero target never reaches the division.
func NewScaleRatios(srcW, srcH, dstW, dstH int) (ScaleRatios, error) {
	if srcW <= 0 || srcH <= 0 {
		return ScaleRatios{}, invalidInput("ratios", "empty source %dx%d", srcW, srcH)
	}
	if dstW <= 0 {
		return ScaleRatios{}, invalidInput("ratios", "target width must be positive, got %d", dstW)
	}
	if dstH <= 0 {
		return ScaleRatios{}, invalidInput("ratios", "target height must be positive, got %d", dstH)
	}
	return ScaleRatios{
		X: float64(srcW-1) / float64(dstW),
		Y: float64(srcH-1) / float64(dstH),
	}, nil
}

// Window is the 4x4 neighborhood gathered for one destination pixel.
//
// Colors is row-major (index j*4+i). FracX and FracY are the offsets of the
// mapped coordinate from the window's top-left sample and lie in [1,2).
type Window struct {
	Colors       [16]Color
	FracX, FracY float64
}

// anchor returns the top-left sample position of the window for mapped
// coordinate p and the offset of p from it.
func anchor(p float64) (base int, frac float64) {
	base = int(p) - 1
	return base, p - float64(base)
}

// clampCoord replicates the border for coordinates outside [0,n).
func clampCoord(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Gather maps destination pixel (dstX, dstY) into the source and collects
// the clamped 4x4 window around it.
func Gather(dstX, dstY int, r ScaleRatios, src Source) (Window, error) {
	var w Window
	if err := gatherInto(&w, dstX, dstY, r, src, src.Width(), src.Height()); err != nil {
		return Window{}, err
	}
	return w, nil
}

func gatherInto(w *Window, dstX, dstY int, r ScaleRatios, src Source, width, height int) error {
	baseX, fracX := anchor(float64(dstX) * r.X)
	baseY, fracY := anchor(float64(dstY) * r.Y)
	w.FracX, w.FracY = fracX, fracY
	for j := 0; j < 4; j++ {
		y := clampCoord(baseY+j, height)
		for i := 0; i < 4; i++ {
			x := clampCoord(baseX+i, width)
			c, err := src.PixelAt(x, y)
			if err != nil {
				return sourceAccess(x, y, err)
			}
			w.Colors[j*4+i] = c
		}
	}
	return nil
}
