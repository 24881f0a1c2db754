package bicubic

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrInvalidInput reports a nil or empty source or a non-positive target
	// dimension. It is returned before anything is allocated.
	ErrInvalidInput = errors.New("invalid input")
	// ErrReentrantUse reports a call on a Processor that is already running one.
	ErrReentrantUse = errors.New("processor is already in use")
	// ErrSourceAccess reports a Source that failed for an in-bounds coordinate.
	ErrSourceAccess = errors.New("source access failed")
	// ErrTaskFailure reports a failed unit of work in the parallel strategy.
	ErrTaskFailure = errors.New("parallel task failed")
)

// ErrOutOfBounds is returned by the sources in this package for coordinates
// outside the raster.
var ErrOutOfBounds = errors.New("coordinate out of bounds")

// Error is the error type returned by Processor and Gather.
type Error struct {
	Kind error  // one of the Err* kinds above
	Op   string // operation that failed, e.g. "resample" or "gather"
	X, Y int    // pixel involved, -1 when not pixel specific
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("bicubic: ")
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.X >= 0 && e.Y >= 0 {
		fmt.Fprintf(&sb, " at (%d,%d)", e.X, e.Y)
	} else if e.Y >= 0 {
		fmt.Fprintf(&sb, " in row %d", e.Y)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidInput(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Op: op, X: -1, Y: -1, Err: fmt.Errorf(format, args...)}
}

func reentrantUse(op string) error {
	return &Error{Kind: ErrReentrantUse, Op: op, X: -1, Y: -1}
}

func sourceAccess(x, y int, err error) error {
	return &Error{Kind: ErrSourceAccess, Op: "gather", X: x, Y: y, Err: err}
}

func taskFailure(row int, err error) error {
	return &Error{Kind: ErrTaskFailure, Op: "resample", X: -1, Y: row, Err: err}
}

func outOfRange(x, y, w, h int) error {
	return fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrOutOfBounds, x, y, w, h)
}
