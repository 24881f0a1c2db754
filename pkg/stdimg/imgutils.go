package stdimg

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
)

// ToNRGBA converts any image.Image to a fresh *image.NRGBA whose bounds start
// at the origin.
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			si := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()*4], n.Pix[si:si+b.Dx()*4])
		}
		return out
	}
	if r, ok := src.(*bicubic.Raster); ok {
		return RasterToNRGBA(r)
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// RasterToNRGBA copies a resampled raster into an *image.NRGBA without
// reordering channels.
func RasterToNRGBA(r *bicubic.Raster) *image.NRGBA {
	if r == nil {
		return nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i, c := range r.Pix {
		o := i * 4
		out.Pix[o+0] = c.R
		out.Pix[o+1] = c.G
		out.Pix[o+2] = c.B
		out.Pix[o+3] = c.A
	}
	return out
}

// imageSource reads pixels straight from an image.Image.
type imageSource struct {
	img   image.Image
	nrgba *image.NRGBA
	min   image.Point
	w, h  int
}

// NewSource wraps img as a bicubic.Source. Coordinates are relative to the
// image's bounds minimum. A *Bitmap is returned as is, *image.NRGBA is read
// directly, and other image types go through the NRGBA color model.
func NewSource(img image.Image) bicubic.Source {
	if bm, ok := img.(*Bitmap); ok {
		return bm
	}
	b := img.Bounds()
	s := &imageSource{img: img, min: b.Min, w: b.Dx(), h: b.Dy()}
	if n, ok := img.(*image.NRGBA); ok {
		s.nrgba = n
	}
	return s
}

func (s *imageSource) Width() int  { return s.w }
func (s *imageSource) Height() int { return s.h }

func (s *imageSource) PixelAt(x, y int) (bicubic.Color, error) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return bicubic.Color{}, fmt.Errorf("%w: (%d,%d) not in %dx%d image", bicubic.ErrOutOfBounds, x, y, s.w, s.h)
	}
	if s.nrgba != nil {
		i := s.nrgba.PixOffset(s.min.X+x, s.min.Y+y)
		p := s.nrgba.Pix[i : i+4 : i+4]
		return bicubic.Color{R: p[0], G: p[1], B: p[2], A: p[3]}, nil
	}
	c := color.NRGBAModel.Convert(s.img.At(s.min.X+x, s.min.Y+y)).(color.NRGBA)
	return bicubic.Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}
