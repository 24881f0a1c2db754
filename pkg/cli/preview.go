package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
	"github.com/Fepozopo/bicubic/pkg/stdimg"
)

// Terminal preview for kitty and iTerm2-style inline-image terminals, with
// chafa as a character-cell fallback.
//
// Backend order when PREVIEW_BACKEND is unset: inline, kitty, chafa.
// Images larger than the preview area are first downscaled with the
// bicubic resampler.

// Previewer renders images to a terminal.
type Previewer struct {
	Out       io.Writer
	Backend   string // "", "kitty", "inline", "chafa"
	Logger    *slog.Logger
	Processor *bicubic.Processor
}

func (p *Previewer) log() *slog.Logger {
	if p.Logger != nil {
		return p.Logger.With("component", "preview")
	}
	return bicubic.Logger()
}

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	// ghostty implements the kitty graphics protocol
	if strings.Contains(term, "kitty") || strings.Contains(term, "ghostty") {
		return true
	}
	return os.Getenv("KONSOLE_VERSION") != ""
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby", "Bobcat":
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "wezterm") || strings.Contains(term, "warp") || strings.Contains(term, "tabby") ||
		strings.Contains(term, "vscode") {
		return true
	}
	return os.Getenv("ITERM_SESSION_ID") != ""
}

func hasChafa() bool {
	if os.Getenv("NO_CHAFA") == "1" {
		return false
	}
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewSupported reports whether the environment likely supports a preview.
func PreviewSupported() bool {
	return isKitty() || isInlineImageCapable() || hasChafa()
}

// postImageNewlines returns how many lines to emit after an image so the
// next output lands below it.
func postImageNewlines(requestedRows int) int {
	switch {
	case requestedRows <= 2:
		return 1
	case requestedRows <= 6:
		return 2
	case requestedRows <= 20:
		return 3
	}
	return 4
}

// PreviewSize conveys a target placement for terminal preview backends.
type PreviewSize struct {
	Cols        int // terminal character columns
	Rows        int // terminal character rows
	PixelWidth  int // approximate pixel width (Cols * cellWidth)
	PixelHeight int // approximate pixel height (Rows * cellHeight)
}

// computePreviewSize maps pixel dimensions into a clamped character cell area.
func computePreviewSize(w, h int) PreviewSize {
	const (
		charW   = 8
		charH   = 16
		minCols = 6
		minRows = 3
		maxCols = 80
		maxRows = 40
	)
	scale := math.Min(1.0, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	cols := int(math.Round(float64(w) * scale / charW))
	rows := int(math.Round(float64(h) * scale / charH))
	cols = min(max(cols, minCols), maxCols)
	rows = min(max(rows, minRows), maxRows)
	return PreviewSize{Cols: cols, Rows: rows, PixelWidth: cols * charW, PixelHeight: rows * charH}
}

// previewImage downscales img to fit the preview area. Images that already
// fit are returned unchanged.
func (p *Previewer) previewImage(img image.Image, size PreviewSize) (image.Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size.PixelWidth && h <= size.PixelHeight {
		return img, nil
	}
	scale := math.Min(float64(size.PixelWidth)/float64(w), float64(size.PixelHeight)/float64(h))
	tw := max(int(math.Round(float64(w)*scale)), 1)
	th := max(int(math.Round(float64(h)*scale)), 1)
	p.log().Debug("downscaling preview", "from", fmt.Sprintf("%dx%d", w, h), "to", fmt.Sprintf("%dx%d", tw, th))
	return stdimg.Resample(img, tw, th, p.Processor)
}

// Preview encodes img as PNG and sends it to the terminal.
func (p *Previewer) Preview(img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("empty image")
	}
	size := computePreviewSize(b.Dx(), b.Dy())
	small, err := p.previewImage(img, size)
	if err != nil {
		return fmt.Errorf("preview downscale: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, small); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	return p.previewBytes(buf.Bytes(), size)
}

func (p *Previewer) previewBytes(blob []byte, size PreviewSize) error {
	log := p.log()
	switch p.Backend {
	case "":
	case "kitty":
		return p.sendKittyImage(blob, size)
	case "inline", "iterm", "wezterm":
		return p.sendInlineImage(blob, size)
	case "chafa":
		return p.sendChafaImage(blob, size)
	default:
		log.Warn("unknown preview backend, detecting", "backend", p.Backend)
	}

	if isInlineImageCapable() {
		log.Debug("attempting inline protocol")
		return p.sendInlineImage(blob, size)
	}
	if isKitty() {
		log.Debug("attempting kitty protocol")
		return p.sendKittyImage(blob, size)
	}
	if hasChafa() {
		log.Debug("attempting chafa")
		return p.sendChafaImage(blob, size)
	}
	return fmt.Errorf("no preview protocol matched")
}

// sendKittyImage writes PNG bytes with the kitty graphics protocol, chunked
// into base64 pieces of at most 4096 bytes. The first chunk carries the
// placement (c=cols, r=rows); q=2 suppresses terminal responses.
func (p *Previewer) sendKittyImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096
	var sb strings.Builder
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := "0"
		if end < len(enc) {
			more = "1"
		}
		if pos == 0 {
			fmt.Fprintf(&sb, "\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;", size.Cols, size.Rows, more)
		} else {
			sb.WriteString("\x1b_Gm=" + more + ";")
		}
		sb.WriteString(enc[pos:end])
		sb.WriteString("\x1b\\")
	}
	sb.WriteString(strings.Repeat("\n", postImageNewlines(size.Rows)))
	_, err := io.WriteString(p.Out, sb.String())
	return err
}

// sendInlineImage emits the iTerm2-style OSC 1337 inline file sequence.
func (p *Previewer) sendInlineImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=preview.png;inline=1;" + meta + ":" + base64.StdEncoding.EncodeToString(data) + "\a"
	seq += strings.Repeat("\n", postImageNewlines(0))
	_, err := io.WriteString(p.Out, seq)
	return err
}

// sendChafaImage pipes the image through chafa.
func (p *Previewer) sendChafaImage(data []byte, size PreviewSize) error {
	if !hasChafa() {
		return fmt.Errorf("chafa not available")
	}
	fill, symbols := "block", "block"
	if f := os.Getenv("CHAFA_FILL"); f != "" {
		fill = f
	}
	if s := os.Getenv("CHAFA_SYMBOLS"); s != "" {
		symbols = s
	}
	cmd := exec.Command("chafa", "--fill="+fill, "--symbols="+symbols, "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = p.Out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("chafa failed: %w", err)
	}
	_, err := io.WriteString(p.Out, strings.Repeat("\n", postImageNewlines(size.Rows)))
	return err
}
