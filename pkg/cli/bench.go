package cli

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
	"github.com/Fepozopo/bicubic/pkg/stdimg"
)

// benchCase is one timing scenario: a synthetic SrcW x SrcH source
// resampled to DstW x DstH.
type benchCase struct {
	SrcW, SrcH int
	DstW, DstH int
}

var defaultBenchCases = []string{
	"500x500:1500x1500",
	"1000x1000:2000x2000",
	"2000x2000:2000x2000",
	"500x500:4000x4000",
}

func (c benchCase) String() string {
	return fmt.Sprintf("%dx%d:%dx%d", c.SrcW, c.SrcH, c.DstW, c.DstH)
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.TrimSpace(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want <w>x<h>", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("size %q: invalid width", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("size %q: invalid height", s)
	}
	return w, h, nil
}

// parseBenchCase parses "<srcW>x<srcH>:<dstW>x<dstH>".
func parseBenchCase(s string) (benchCase, error) {
	src, dst, ok := strings.Cut(s, ":")
	if !ok {
		return benchCase{}, fmt.Errorf("bench case %q: want <w>x<h>:<w>x<h>", s)
	}
	var c benchCase
	var err error
	if c.SrcW, c.SrcH, err = parseSize(src); err != nil {
		return benchCase{}, err
	}
	if c.DstW, c.DstH, err = parseSize(dst); err != nil {
		return benchCase{}, err
	}
	return c, nil
}

func parseBenchCases(specs []string) ([]benchCase, error) {
	if len(specs) == 0 {
		specs = defaultBenchCases
	}
	cases := make([]benchCase, 0, len(specs))
	for _, s := range specs {
		c, err := parseBenchCase(s)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func parseStrategies(specs []string) ([]bicubic.Strategy, error) {
	if len(specs) == 0 {
		return bicubic.Strategies(), nil
	}
	out := make([]bicubic.Strategy, 0, len(specs))
	for _, s := range specs {
		st, err := bicubic.ParseStrategy(s)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// synthSource builds an in-memory source. "blank" is opaque black;
// "gradient" varies every channel so resampling does real work.
func synthSource(w, h int, pattern string) (*bicubic.Grid, error) {
	g := bicubic.NewGrid(w, h)
	switch pattern {
	case "blank":
		for i := range g.Pix {
			g.Pix[i] = bicubic.RGB(0, 0, 0)
		}
	case "gradient", "":
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g.Set(x, y, bicubic.RGB(uint8(x*255/max(w-1, 1)), uint8(y*255/max(h-1, 1)), uint8((x+y)%256)))
			}
		}
	default:
		return nil, fmt.Errorf("unknown bench pattern %q (want blank or gradient)", pattern)
	}
	return g, nil
}

// sourceFor presents g to the resampler in the given layout.
func sourceFor(g *bicubic.Grid, layout stdimg.SourceLayout) (bicubic.Source, error) {
	if layout == stdimg.LayoutImage {
		return g, nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c, err := g.PixelAt(x, y)
			if err != nil {
				return nil, err
			}
			img.SetNRGBA(x, y, c.NRGBA())
		}
	}
	prepared, err := layout.Prepare(img)
	if err != nil {
		return nil, err
	}
	return stdimg.NewSource(prepared), nil
}

type benchOptions struct {
	cases      []benchCase
	strategies []bicubic.Strategy
	pattern    string
	layout     stdimg.SourceLayout
	verify     bool
}

// runBench times every case under every strategy on p and prints a table.
// With verify set, all strategies must produce identical rasters per case.
func runBench(out io.Writer, p *bicubic.Processor, logger *slog.Logger, opts benchOptions) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tSTRATEGY\tWORKERS\tELAPSED")
	for _, c := range opts.cases {
		g, err := synthSource(c.SrcW, c.SrcH, opts.pattern)
		if err != nil {
			return err
		}
		src, err := sourceFor(g, opts.layout)
		if err != nil {
			return err
		}
		var ref *bicubic.Raster
		var refStrategy bicubic.Strategy
		for _, s := range opts.strategies {
			start := time.Now()
			r, err := p.ResampleWith(src, c.DstW, c.DstH, s)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("bench %s %s: %w", c, s, err)
			}
			workers := 1
			if s == bicubic.Parallel {
				workers = p.Workers()
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c, s, workers, elapsed.Round(time.Microsecond))
			logger.Debug("bench case done", "case", c.String(), "strategy", s.String(), "elapsed", elapsed)
			if !opts.verify {
				continue
			}
			if ref == nil {
				ref, refStrategy = r, s
			} else if !ref.Equal(r) {
				tw.Flush()
				return fmt.Errorf("bench %s: %s and %s outputs differ", c, refStrategy, s)
			}
		}
	}
	return tw.Flush()
}
