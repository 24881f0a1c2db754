package bicubic

import (
	"fmt"
	"strings"
)

// Strategy selects how a Processor walks the destination raster.
type Strategy int

const (
	// Sequential computes every pixel on the calling goroutine, row by row.
	Sequential Strategy = iota
	// Parallel fans rows out to a bounded set of goroutines and waits for
	// all of them before returning.
	Parallel
)

func (s Strategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "sequential"/"sync" and "parallel"/"async",
// case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential", "seq", "sync":
		return Sequential, nil
	case "parallel", "par", "async":
		return Parallel, nil
	default:
		return Sequential, fmt.Errorf("unknown strategy %q (want sequential or parallel)", s)
	}
}

// Strategies lists every strategy in a stable order.
func Strategies() []Strategy { return []Strategy{Sequential, Parallel} }
