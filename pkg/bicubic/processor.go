package bicubic

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	goerrors "github.com/go-errors/errors"
	"golang.org/x/sync/errgroup"
)

// Processor latch states.
const (
	stateIdle int32 = iota
	stateInUse
)

// Processor resamples rasters. It may be reused for any number of calls but
// runs only one at a time: a call made while another is in flight fails
// with ErrReentrantUse instead of waiting. Use one Processor per goroutine
// for concurrent resampling.
type Processor struct {
	state    atomic.Int32
	strategy Strategy
	workers  int
	alpha    AlphaMode
	logger   *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithStrategy sets the strategy used by Resample. The default is Sequential.
func WithStrategy(s Strategy) Option {
	return func(p *Processor) { p.strategy = s }
}

// WithWorkers bounds the number of rows computed at once by the Parallel
// strategy. Values <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(p *Processor) { p.workers = n }
}

// WithAlpha sets how output alpha is produced. The default is AlphaOpaque.
func WithAlpha(m AlphaMode) Option {
	return func(p *Processor) { p.alpha = m }
}

// WithLogger sets the logger for this processor instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// NewProcessor returns an idle Processor.
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{strategy: Sequential, alpha: AlphaOpaque}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers <= 0 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	return p
}

// Strategy returns the strategy used by Resample.
func (p *Processor) Strategy() Strategy { return p.strategy }

// Workers returns the row concurrency of the Parallel strategy.
func (p *Processor) Workers() int { return p.workers }

// Busy reports whether a call is in flight.
func (p *Processor) Busy() bool { return p.state.Load() == stateInUse }

func (p *Processor) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return Logger()
}

// Resample resamples src to dstW x dstH with the processor's strategy.
func (p *Processor) Resample(src Source, dstW, dstH int) (*Raster, error) {
	return p.ResampleWith(src, dstW, dstH, p.strategy)
}

// ResampleWith resamples src to dstW x dstH with strategy s. On error the
// returned raster is nil; a partially computed raster is never exposed.
func (p *Processor) ResampleWith(src Source, dstW, dstH int, s Strategy) (*Raster, error) {
	if !p.state.CompareAndSwap(stateIdle, stateInUse) {
		return nil, reentrantUse("resample")
	}
	defer p.state.Store(stateIdle)

	c, err := newCall(src, dstW, dstH, p.alpha)
	if err != nil {
		p.log().Warn("resample rejected", slog.Any("error", err))
		return nil, err
	}
	if s != Sequential && s != Parallel {
		err = invalidInput("resample", "unknown strategy %v", s)
		p.log().Warn("resample rejected", slog.Any("error", err))
		return nil, err
	}

	logger := p.log()
	start := time.Now()
	logger.Debug("resample start",
		slog.Int("src_width", c.width), slog.Int("src_height", c.height),
		slog.Int("dst_width", dstW), slog.Int("dst_height", dstH),
		slog.Float64("ratio_x", c.ratios.X), slog.Float64("ratio_y", c.ratios.Y),
		slog.String("strategy", s.String()))

	c.dst = newRaster(dstW, dstH)
	if s == Parallel {
		err = c.parallel(p.workers)
	} else {
		err = c.sequential()
	}
	if err != nil {
		logger.Warn("resample failed", slog.String("strategy", s.String()), slog.Any("error", err))
		return nil, err
	}
	logger.Debug("resample done", slog.String("strategy", s.String()), slog.Duration("duration", time.Since(start)))
	return c.dst, nil
}

// Resample resamples src with strategy s on a fresh Processor.
func Resample(src Source, dstW, dstH int, s Strategy) (*Raster, error) {
	return NewProcessor(WithStrategy(s)).Resample(src, dstW, dstH)
}

// call holds everything one resampling call needs. It is built per call and
// dropped when the call returns.
type call struct {
	src           Source
	width, height int
	ratios        ScaleRatios
	alpha         AlphaMode
	dst           *Raster
}

func newCall(src Source, dstW, dstH int, alpha AlphaMode) (*call, error) {
	if src == nil {
		return nil, invalidInput("resample", "nil source")
	}
	w, h := src.Width(), src.Height()
	ratios, err := NewScaleRatios(w, h, dstW, dstH)
	if err != nil {
		return nil, err
	}
	return &call{src: src, width: w, height: h, ratios: ratios, alpha: alpha}, nil
}

func (c *call) pixel(x, y int, w *Window) (Pixel, error) {
	if err := gatherInto(w, x, y, c.ratios, c.src, c.width, c.height); err != nil {
		return Pixel{}, err
	}
	return Pixel{X: x, Y: y, Color: Reconstruct(w, c.alpha)}, nil
}

// row fills destination row y. Only the cells of that row are written.
func (c *call) row(y int) error {
	var w Window
	for x := 0; x < c.dst.Width; x++ {
		px, err := c.pixel(x, y, &w)
		if err != nil {
			return err
		}
		c.dst.put(px)
	}
	return nil
}

func (c *call) sequential() error {
	for y := 0; y < c.dst.Height; y++ {
		if err := c.row(y); err != nil {
			return err
		}
	}
	return nil
}

// parallel runs one unit per destination row, at most workers at a time,
// and joins them all before returning. The first failure cancels rows that
// have not started yet and becomes the call's error.
func (c *call) parallel(workers int) error {
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for y := 0; y < c.dst.Height; y++ {
		if ctx.Err() != nil {
			break
		}
		y := y
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = taskFailure(y, goerrors.Wrap(r, 2))
				}
			}()
			if ctx.Err() != nil {
				return nil
			}
			if err := c.row(y); err != nil {
				return taskFailure(y, err)
			}
			return nil
		})
	}
	return g.Wait()
}
