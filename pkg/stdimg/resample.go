package stdimg

import (
	"fmt"
	"image"
	"math"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
)

// Resample resizes img to dstW x dstH with bicubic cubic convolution on p.
// A nil processor runs on a fresh sequential one.
func Resample(img image.Image, dstW, dstH int, p *bicubic.Processor) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	if p == nil {
		p = bicubic.NewProcessor()
	}
	r, err := p.Resample(NewSource(img), dstW, dstH)
	if err != nil {
		return nil, err
	}
	return RasterToNRGBA(r), nil
}

// ScaledSize multiplies w and h by factor, rounding to the nearest pixel and
// never returning less than 1.
func ScaledSize(w, h int, factor float64) (int, int, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return 0, 0, fmt.Errorf("scale factor must be a positive number, got %v", factor)
	}
	sw := int(math.Round(float64(w) * factor))
	sh := int(math.Round(float64(h) * factor))
	return max(sw, 1), max(sh, 1), nil
}

// Scale resizes img by a uniform factor (2 doubles each side, 0.5 halves it).
func Scale(img image.Image, factor float64, p *bicubic.Processor) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	b := img.Bounds()
	w, h, err := ScaledSize(b.Dx(), b.Dy(), factor)
	if err != nil {
		return nil, err
	}
	return Resample(img, w, h, p)
}
