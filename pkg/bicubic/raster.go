package bicubic

import (
	"image"
	"image/color"
)

// Pixel is one reconstructed destination pixel.
type Pixel struct {
	X, Y  int
	Color Color
}

// Raster is the destination of a resampling call: Width x Height colors in
// row-major order. It implements image.Image.
type Raster struct {
	Width, Height int
	Pix           []Color
}

var _ image.Image = (*Raster)(nil)

func newRaster(w, h int) *Raster {
	return &Raster{Width: w, Height: h, Pix: make([]Color, w*h)}
}

// ColorAt returns the color at (x, y), or the zero Color outside the raster.
func (r *Raster) ColorAt(x, y int) Color {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return Color{}
	}
	return r.Pix[y*r.Width+x]
}

// Row returns the colors of row y. The slice aliases the raster.
func (r *Raster) Row(y int) []Color {
	return r.Pix[y*r.Width : (y+1)*r.Width]
}

func (r *Raster) put(p Pixel) {
	r.Pix[p.Y*r.Width+p.X] = p.Color
}

func (r *Raster) ColorModel() color.Model { return ColorModel }

func (r *Raster) Bounds() image.Rectangle { return image.Rect(0, 0, r.Width, r.Height) }

func (r *Raster) At(x, y int) color.Color { return r.ColorAt(x, y) }

// Equal reports whether both rasters have the same size and identical pixels.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Width != o.Width || r.Height != o.Height || len(r.Pix) != len(o.Pix) {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}
