package stdimg

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
)

// Bitmap is a flat pixel buffer in the layout of a device-independent
// bitmap: rows of Stride bytes, pixels of BytesPerPixel bytes stored as
// B, G, R and, for 4-byte pixels, A. Rows are padded to a multiple of 4 bytes.
//
// Bitmap implements bicubic.Source. It is read-only after construction and
// safe for concurrent use.
type Bitmap struct {
	Pix           []byte
	Stride        int
	BytesPerPixel int
	W, H          int
}

var _ bicubic.Source = (*Bitmap)(nil)

// NewBitmap extracts img into a Bitmap with 3 (BGR) or 4 (BGRA) bytes per pixel.
func NewBitmap(img image.Image, bytesPerPixel int) (*Bitmap, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	if bytesPerPixel != 3 && bytesPerPixel != 4 {
		return nil, fmt.Errorf("unsupported bytes per pixel %d (want 3 or 4)", bytesPerPixel)
	}
	src := ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	stride := (w*bytesPerPixel + 3) &^ 3
	bm := &Bitmap{
		Pix:           make([]byte, stride*h),
		Stride:        stride,
		BytesPerPixel: bytesPerPixel,
		W:             w,
		H:             h,
	}
	for y := 0; y < h; y++ {
		si := y * src.Stride
		di := y * stride
		for x := 0; x < w; x++ {
			bm.Pix[di+0] = src.Pix[si+2]
			bm.Pix[di+1] = src.Pix[si+1]
			bm.Pix[di+2] = src.Pix[si+0]
			if bytesPerPixel == 4 {
				bm.Pix[di+3] = src.Pix[si+3]
			}
			si += 4
			di += bytesPerPixel
		}
	}
	return bm, nil
}

func (b *Bitmap) Width() int  { return b.W }
func (b *Bitmap) Height() int { return b.H }

// PixelAt decodes the pixel at (x, y). Three-byte pixels are opaque.
func (b *Bitmap) PixelAt(x, y int) (bicubic.Color, error) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return bicubic.Color{}, fmt.Errorf("%w: (%d,%d) not in %dx%d bitmap", bicubic.ErrOutOfBounds, x, y, b.W, b.H)
	}
	i := y*b.Stride + x*b.BytesPerPixel
	if i < 0 || i+b.BytesPerPixel > len(b.Pix) {
		return bicubic.Color{}, fmt.Errorf("bitmap buffer truncated: pixel (%d,%d) at offset %d, have %d bytes", x, y, i, len(b.Pix))
	}
	c := bicubic.Color{R: b.Pix[i+2], G: b.Pix[i+1], B: b.Pix[i], A: 0xff}
	if b.BytesPerPixel == 4 {
		c.A = b.Pix[i+3]
	}
	return c, nil
}

// Image decodes the bitmap into an *image.NRGBA. It fails if the buffer
// is shorter than W x H pixels at the given stride.
func (b *Bitmap) Image() (*image.NRGBA, error) {
	out := image.NewNRGBA(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			c, err := b.PixelAt(x, y)
			if err != nil {
				return nil, err
			}
			out.SetNRGBA(x, y, c.NRGBA())
		}
	}
	return out, nil
}

// Bitmap also implements image.Image so it can travel through the same
// paths as decoded images. NewSource hands it to the resampler unchanged.
var _ image.Image = (*Bitmap)(nil)

func (b *Bitmap) ColorModel() color.Model { return color.NRGBAModel }

func (b *Bitmap) Bounds() image.Rectangle { return image.Rect(0, 0, b.W, b.H) }

// At returns the zero color for coordinates PixelAt rejects, like the
// standard library images do outside their bounds.
func (b *Bitmap) At(x, y int) color.Color {
	c, err := b.PixelAt(x, y)
	if err != nil {
		return color.NRGBA{}
	}
	return c.NRGBA()
}

// SourceLayout selects how a decoded image is presented to the resampler.
type SourceLayout int

const (
	// LayoutImage reads the decoded image directly.
	LayoutImage SourceLayout = iota
	// LayoutBGR extracts a 3-byte B,G,R bitmap; alpha reads as opaque.
	LayoutBGR
	// LayoutBGRA extracts a 4-byte B,G,R,A bitmap.
	LayoutBGRA
)

func (l SourceLayout) String() string {
	switch l {
	case LayoutImage:
		return "image"
	case LayoutBGR:
		return "bgr"
	case LayoutBGRA:
		return "bgra"
	}
	return fmt.Sprintf("SourceLayout(%d)", int(l))
}

// ParseSourceLayout accepts "image", "bgr" and "bgra" ("bitmap" is bgra).
// The empty string selects LayoutImage.
func ParseSourceLayout(s string) (SourceLayout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "image":
		return LayoutImage, nil
	case "bgr", "bitmap24":
		return LayoutBGR, nil
	case "bgra", "bitmap", "bitmap32":
		return LayoutBGRA, nil
	}
	return LayoutImage, fmt.Errorf("unknown source layout %q (want image, bgr or bgra)", s)
}

// Prepare converts img into the layout. LayoutImage returns img as is;
// the bitmap layouts return a *Bitmap.
func (l SourceLayout) Prepare(img image.Image) (image.Image, error) {
	switch l {
	case LayoutImage:
		return img, nil
	case LayoutBGR:
		return NewBitmap(img, 3)
	case LayoutBGRA:
		return NewBitmap(img, 4)
	}
	return nil, fmt.Errorf("unknown source layout %v", l)
}
