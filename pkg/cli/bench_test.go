package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
	"github.com/Fepozopo/bicubic/pkg/stdimg"
)

func TestParseBenchCase(t *testing.T) {
	c, err := parseBenchCase("500x400:1500x1200")
	require.NoError(t, err)
	assert.Equal(t, benchCase{SrcW: 500, SrcH: 400, DstW: 1500, DstH: 1200}, c)
	assert.Equal(t, "500x400:1500x1200", c.String())

	for _, bad := range []string{"500x500", "500:1500x1500", "0x5:5x5", "5x5:5x-1", "axb:1x1"} {
		_, err := parseBenchCase(bad)
		assert.Error(t, err, bad)
	}
}

func TestDefaultBenchCases(t *testing.T) {
	cases, err := parseBenchCases(nil)
	require.NoError(t, err)
	require.Len(t, cases, 4)
	assert.Equal(t, benchCase{500, 500, 1500, 1500}, cases[0])
	assert.Equal(t, benchCase{500, 500, 4000, 4000}, cases[3])
}

func TestParseStrategies(t *testing.T) {
	ss, err := parseStrategies(nil)
	require.NoError(t, err)
	assert.Equal(t, []bicubic.Strategy{bicubic.Sequential, bicubic.Parallel}, ss)
	ss, err = parseStrategies([]string{"async"})
	require.NoError(t, err)
	assert.Equal(t, []bicubic.Strategy{bicubic.Parallel}, ss)
	_, err = parseStrategies([]string{"gpu"})
	assert.Error(t, err)
}

func TestSynthSource(t *testing.T) {
	g, err := synthSource(3, 2, "blank")
	require.NoError(t, err)
	c, err := g.PixelAt(2, 1)
	require.NoError(t, err)
	assert.Equal(t, bicubic.RGB(0, 0, 0), c)

	g, err = synthSource(3, 2, "gradient")
	require.NoError(t, err)
	c, err = g.PixelAt(2, 1)
	require.NoError(t, err)
	assert.Equal(t, bicubic.RGB(255, 255, 3), c)

	_, err = synthSource(3, 2, "noise")
	assert.Error(t, err)
}

func TestRunBenchVerify(t *testing.T) {
	var out bytes.Buffer
	p := bicubic.NewProcessor(bicubic.WithWorkers(3))
	err := runBench(&out, p, bicubic.Logger(), benchOptions{
		cases:      []benchCase{{16, 12, 40, 30}, {20, 20, 7, 9}},
		strategies: bicubic.Strategies(),
		pattern:    "gradient",
		verify:     true,
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "CASE"))
	assert.Contains(t, lines[1], "16x12:40x30")
	assert.Contains(t, lines[1], "sequential")
	assert.Contains(t, lines[2], "parallel")
	assert.False(t, p.Busy())
}

func TestSourceForLayouts(t *testing.T) {
	g, err := synthSource(9, 6, "gradient")
	require.NoError(t, err)

	src, err := sourceFor(g, stdimg.LayoutImage)
	require.NoError(t, err)
	assert.Same(t, g, src)

	want, err := bicubic.Resample(g, 20, 11, bicubic.Sequential)
	require.NoError(t, err)
	for _, l := range []stdimg.SourceLayout{stdimg.LayoutBGR, stdimg.LayoutBGRA} {
		src, err := sourceFor(g, l)
		require.NoError(t, err)
		require.IsType(t, &stdimg.Bitmap{}, src)
		got, err := bicubic.Resample(src, 20, 11, bicubic.Parallel)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "layout %s", l)
	}
}

func TestRunBenchBitmapLayout(t *testing.T) {
	var out bytes.Buffer
	p := bicubic.NewProcessor(bicubic.WithWorkers(2))
	err := runBench(&out, p, bicubic.Logger(), benchOptions{
		cases:      []benchCase{{12, 10, 30, 25}},
		strategies: bicubic.Strategies(),
		pattern:    "gradient",
		layout:     stdimg.LayoutBGR,
		verify:     true,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "12x10:30x25")
}
