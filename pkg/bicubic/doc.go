// Package bicubic resamples rasters with cubic convolution.
//
// Every destination pixel is reconstructed from a 4x4 window of source
// pixels. The window is anchored one pixel above and to the left of the
// mapped source coordinate and clamped to the source borders, so edge pixels
// are replicated rather than mirrored or wrapped. The kernel is the
// Catmull-Rom member of the cubic convolution family (a = -0.5).
//
// A Processor runs one resampling call at a time, either sequentially or as a
// row-parallel fan-out. Both strategies share the per-pixel code and produce
// identical rasters:
//
//	p := bicubic.NewProcessor(bicubic.WithStrategy(bicubic.Parallel))
//	dst, err := p.Resample(src, 1500, 1500)
//	if err != nil {
//	    return err
//	}
//	png.Encode(w, dst)
//
// The package never touches pixel-format byte layouts. Callers provide a
// Source, which only has to report its size and return the color at an
// in-bounds coordinate.
package bicubic
