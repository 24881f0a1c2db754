package cli

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	clearConfigEnv(t)
	chdir(t, t.TempDir())
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, SaveImage(path, testImage(w, h)))
	return path
}

func loadSize(t *testing.T, path string) image.Point {
	t.Helper()
	img, _, err := LoadImage(path)
	require.NoError(t, err)
	return img.Bounds().Size()
}

func TestResizeCommand(t *testing.T) {
	in := writeTestPNG(t, 8, 6)
	outDir := t.TempDir()
	for _, strategy := range []string{"sequential", "parallel"} {
		out := filepath.Join(outDir, strategy+".png")
		stdout, _, err := runCLI(t, "resize", in, out, "--width", "20", "--height", "9", "--strategy", strategy, "--workers", "2")
		require.NoError(t, err)
		assert.Contains(t, stdout, "(20x9)")
		assert.Equal(t, image.Pt(20, 9), loadSize(t, out))
	}
	seq, err := os.ReadFile(filepath.Join(outDir, "sequential.png"))
	require.NoError(t, err)
	par, err := os.ReadFile(filepath.Join(outDir, "parallel.png"))
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestResizeCommandBitmapSource(t *testing.T) {
	in := writeTestPNG(t, 9, 7)
	outDir := t.TempDir()
	outputs := map[string][]byte{}
	for _, source := range []string{"image", "bgr", "bgra"} {
		out := filepath.Join(outDir, source+".png")
		_, _, err := runCLI(t, "resize", in, out, "--width", "17", "--height", "12", "--source", source)
		require.NoError(t, err)
		outputs[source], err = os.ReadFile(out)
		require.NoError(t, err)
	}
	assert.Equal(t, outputs["image"], outputs["bgr"])
	assert.Equal(t, outputs["image"], outputs["bgra"])

	_, _, err := runCLI(t, "resize", in, filepath.Join(outDir, "x.png"), "--width", "2", "--height", "2", "--source", "yuv")
	assert.ErrorContains(t, err, "unknown source layout")
}

func TestSourceLayoutFromEnv(t *testing.T) {
	in := writeTestPNG(t, 6, 5)
	want := filepath.Join(t.TempDir(), "want.png")
	_, _, err := runCLI(t, "scale", in, want, "--factor", "2")
	require.NoError(t, err)

	got := filepath.Join(t.TempDir(), "got.png")
	root := NewRootCmd()
	clearConfigEnv(t)
	t.Setenv(EnvSource, "bitmap")
	root.SetOut(io.Discard)
	root.SetArgs([]string{"scale", in, got, "--factor", "2"})
	require.NoError(t, root.Execute())

	a, err := os.ReadFile(want)
	require.NoError(t, err)
	b, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResizeCommandRequiresSize(t *testing.T) {
	in := writeTestPNG(t, 4, 4)
	_, _, err := runCLI(t, "resize", in, filepath.Join(t.TempDir(), "o.png"), "--width", "4")
	assert.Error(t, err)

	_, _, err = runCLI(t, "resize", in, filepath.Join(t.TempDir(), "o.png"), "--width", "0", "--height", "4")
	assert.ErrorContains(t, err, "invalid input")
}

func TestScaleAndFitCommands(t *testing.T) {
	in := writeTestPNG(t, 10, 4)
	dir := t.TempDir()

	_, _, err := runCLI(t, "scale", in, filepath.Join(dir, "s.bmp"), "--factor", "150%")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(15, 6), loadSize(t, filepath.Join(dir, "s.bmp")))

	_, _, err = runCLI(t, "fit", in, filepath.Join(dir, "f.tiff"), "--width", "5")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(5, 2), loadSize(t, filepath.Join(dir, "f.tiff")))
}

func TestApplyAndCommandsCommands(t *testing.T) {
	in := writeTestPNG(t, 6, 6)
	out := filepath.Join(t.TempDir(), "a.png")
	_, _, err := runCLI(t, "apply", in, out, "resize", "3", "2", "parallel")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(3, 2), loadSize(t, out))

	stdout, _, err := runCLI(t, "apply", in, out, "identify")
	require.NoError(t, err)
	assert.Equal(t, "Format: PNG, Width: 6, Height: 6\n", stdout)

	_, _, err = runCLI(t, "apply", in, out, "sepia")
	assert.ErrorContains(t, err, "unknown command")

	stdout, _, err = runCLI(t, "commands")
	require.NoError(t, err)
	assert.Contains(t, stdout, "adaptiveResize")
	stdout, _, err = runCLI(t, "commands", "scale")
	require.NoError(t, err)
	assert.Contains(t, stdout, "factor (percent, required)")
}

func TestIdentifyAndVersionCommands(t *testing.T) {
	in := writeTestPNG(t, 3, 5)
	stdout, _, err := runCLI(t, "identify", in)
	require.NoError(t, err)
	assert.Equal(t, "Format: PNG, Width: 3, Height: 5\n", stdout)

	stdout, _, err = runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", stdout)
}

func TestBenchCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "bench", "--case", "12x12:30x20", "--case", "9x9:4x4", "--verify", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "12x12:30x20")
	assert.Contains(t, stdout, "9x9:4x4")
	assert.Equal(t, 5, strings.Count(strings.TrimSpace(stdout), "\n")+1)

	_, _, err = runCLI(t, "bench", "--case", "oops")
	assert.Error(t, err)
}

func TestDebugPrintsStack(t *testing.T) {
	_, stderr, err := runCLI(t, "--debug", "identify", filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.Contains(t, stderr, "cmds.go")
}

func TestLogLevelFlag(t *testing.T) {
	in := writeTestPNG(t, 4, 4)
	_, stderr, err := runCLI(t, "--log-level", "debug", "resize", in, filepath.Join(t.TempDir(), "o.png"), "--width", "2", "--height", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "msg=resample")

	_, _, err = runCLI(t, "--log-level", "chatty", "version")
	assert.Error(t, err)
}

func TestEnvFileFlag(t *testing.T) {
	env := filepath.Join(t.TempDir(), "bicubic.env")
	require.NoError(t, os.WriteFile(env, []byte("BICUBIC_LOG_LEVEL=info\n"), 0o644))
	in := writeTestPNG(t, 4, 4)
	_, stderr, err := runCLI(t, "--env-file", env, "resize", in, filepath.Join(t.TempDir(), "o.png"), "--width", "2", "--height", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=INFO")
	assert.NotContains(t, stderr, "level=DEBUG")
}

func TestAlphaFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < 4; i++ {
		img.SetNRGBA(i%2, i/2, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	}
	require.NoError(t, SaveImage(path, img))
	dir := t.TempDir()

	_, _, err := runCLI(t, "resize", path, filepath.Join(dir, "opaque.png"), "--width", "3", "--height", "3")
	require.NoError(t, err)
	_, _, err = runCLI(t, "resize", path, filepath.Join(dir, "copy.png"), "--width", "3", "--height", "3", "--alpha", "copy")
	require.NoError(t, err)

	opaque, _, err := LoadImage(filepath.Join(dir, "opaque.png"))
	require.NoError(t, err)
	copied, _, err := LoadImage(filepath.Join(dir, "copy.png"))
	require.NoError(t, err)
	assert.Equal(t, uint8(255), color.NRGBAModel.Convert(opaque.At(1, 1)).(color.NRGBA).A)
	assert.Equal(t, uint8(128), color.NRGBAModel.Convert(copied.At(1, 1)).(color.NRGBA).A)
}

// chdir changes the working directory for the duration of the test,
// restoring the previous one on cleanup (equivalent to testing.T.Chdir).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
