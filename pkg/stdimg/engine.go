package stdimg

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
)

// ApplyCommand runs a registry command against img on processor p and
// returns the new image. identify returns a nil image; callers print the
// info themselves. Arguments are positional, as listed in Commands.
func ApplyCommand(p *bicubic.Processor, img image.Image, commandName string, args []string) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	if p == nil {
		p = bicubic.NewProcessor()
	}
	switch commandName {
	case "resize":
		if len(args) < 2 || len(args) > 3 {
			return nil, fmt.Errorf("resize requires 2 or 3 args: width height [strategy]")
		}
		w, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid width: %w", err)
		}
		h, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid height: %w", err)
		}
		s, err := strategyArg(p, args, 2)
		if err != nil {
			return nil, err
		}
		r, err := p.ResampleWith(NewSource(img), w, h, s)
		if err != nil {
			return nil, err
		}
		return RasterToNRGBA(r), nil

	case "scale":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("scale requires 1 or 2 args: factor [strategy]")
		}
		f, err := parseFactor(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid factor: %w", err)
		}
		s, err := strategyArg(p, args, 1)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		w, h, err := ScaledSize(b.Dx(), b.Dy(), f)
		if err != nil {
			return nil, err
		}
		r, err := p.ResampleWith(NewSource(img), w, h, s)
		if err != nil {
			return nil, err
		}
		return RasterToNRGBA(r), nil

	case "adaptiveResize":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("adaptiveResize requires 1 or 2 args: width [height]")
		}
		w, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid width: %w", err)
		}
		h := 0
		if len(args) == 2 && args[1] != "" {
			h, err = strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("invalid height: %w", err)
			}
		}
		return AdaptiveResize(img, w, h, p)

	case "identify":
		return nil, nil

	case "strip":
		// re-encoding at save time drops metadata
		return ToNRGBA(img), nil

	default:
		return nil, fmt.Errorf("unsupported command: %s", commandName)
	}
}

func strategyArg(p *bicubic.Processor, args []string, i int) (bicubic.Strategy, error) {
	if i >= len(args) || strings.TrimSpace(args[i]) == "" {
		return p.Strategy(), nil
	}
	return bicubic.ParseStrategy(args[i])
}

// parseFactor accepts a plain number or a percentage ("150%").
func parseFactor(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return 0, err
		}
		return v / 100, nil
	}
	return strconv.ParseFloat(s, 64)
}
