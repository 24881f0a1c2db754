package bicubic

// Source is a read-only view over a source raster.
//
// PixelAt must be safe for concurrent use and must succeed for every
// 0 <= x < Width() and 0 <= y < Height(). The resampler never asks for a
// coordinate outside that range; an error returned for an in-range coordinate
// fails the whole call.
type Source interface {
	Width() int
	Height() int
	PixelAt(x, y int) (Color, error)
}

// SourceFunc adapts a plain accessor function into a Source.
type SourceFunc struct {
	W, H int
	Fn   func(x, y int) (Color, error)
}

var _ Source = SourceFunc{}

func (s SourceFunc) Width() int  { return s.W }
func (s SourceFunc) Height() int { return s.H }

func (s SourceFunc) PixelAt(x, y int) (Color, error) {
	return s.Fn(x, y)
}

// Grid is an in-memory Source backed by a row-major slice of colors.
type Grid struct {
	W, H int
	Pix  []Color
}

var _ Source = (*Grid)(nil)

// NewGrid returns a w x h grid filled with the zero Color.
func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Grid{W: w, H: h, Pix: make([]Color, w*h)}
}

func (g *Grid) Width() int  { return g.W }
func (g *Grid) Height() int { return g.H }

// Set stores c at (x, y). Out-of-range coordinates are ignored.
func (g *Grid) Set(x, y int, c Color) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return
	}
	g.Pix[y*g.W+x] = c
}

func (g *Grid) PixelAt(x, y int) (Color, error) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H || y*g.W+x >= len(g.Pix) {
		return Color{}, outOfRange(x, y, g.W, g.H)
	}
	return g.Pix[y*g.W+x], nil
}
