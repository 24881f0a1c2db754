package stdimg

import (
	"fmt"
	"image"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
)

// FitSize resolves a requested width x height against a sw x sh source.
// A zero on one side is derived from the other so the aspect ratio is kept.
// Both zero yields the source size.
func FitSize(sw, sh, width, height int) (int, int, error) {
	if width < 0 || height < 0 {
		return 0, 0, fmt.Errorf("fit size must not be negative, got %dx%d", width, height)
	}
	if sw <= 0 || sh <= 0 {
		return 0, 0, fmt.Errorf("source is empty (%dx%d)", sw, sh)
	}
	w, h := width, height
	switch {
	case w == 0 && h == 0:
		return sw, sh, nil
	case w == 0:
		w = int(float64(sw) * float64(h) / float64(sh))
	case h == 0:
		h = int(float64(sh) * float64(w) / float64(sw))
	}
	return max(w, 1), max(h, 1), nil
}

// AdaptiveResize resizes img to width x height with the bicubic resampler.
// If width or height is 0 the aspect ratio is preserved. If both are 0 a
// copy of the source is returned without resampling.
func AdaptiveResize(img image.Image, width, height int, p *bicubic.Processor) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	b := img.Bounds()
	if width == 0 && height == 0 {
		return ToNRGBA(img), nil
	}
	w, h, err := FitSize(b.Dx(), b.Dy(), width, height)
	if err != nil {
		return nil, err
	}
	return Resample(img, w, h, p)
}
