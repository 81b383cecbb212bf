package render

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/go-fitz"

	"github.com/slidesmith/slidesmith-mcp/internal/config"
	"github.com/slidesmith/slidesmith-mcp/internal/deck"
	"github.com/slidesmith/slidesmith-mcp/internal/logger"
	"github.com/slidesmith/slidesmith-mcp/internal/pptx"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

var log = logger.ForComponent("render")

// sofficeNames are the converter binaries probed on PATH when no explicit
// path is configured.
var sofficeNames = []string{"soffice", "libreoffice"}

const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// Options select what to render and where the page images go.
type Options struct {
	// Indices are 0-based slide indices; empty renders every slide.
	Indices []int
	// Format is png or jpeg (jpg accepted); default png.
	Format string
	// Width in pixels; when set it overrides the configured DPI.
	Width int
	// OutDir receives the page images.
	OutDir string
	// Prefix names the files <prefix>_<n>.<ext> with 1-based slide numbers.
	Prefix string
}

// Page is one rendered slide image.
type Page struct {
	SlideIndex int    `json:"slide_index"`
	Path       string `json:"path"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// Renderer converts decks to page images via LibreOffice and MuPDF.
type Renderer struct {
	cfg     config.RenderConfig
	timeout time.Duration
	circuit *CircuitBreaker

	lookupOnce sync.Once
	binPath    string
	binErr     error
}

func New(cfg config.RenderConfig, timeout time.Duration) *Renderer {
	cc := DefaultCircuitConfig()
	if cfg.FailureThreshold > 0 {
		cc.FailureThreshold = cfg.FailureThreshold
	}
	if cfg.CooldownS > 0 {
		cc.OpenTimeout = time.Duration(cfg.CooldownS) * time.Second
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Renderer{
		cfg:     cfg,
		timeout: timeout,
		circuit: NewCircuitBreaker(cc),
	}
}

// Available reports whether the converter binary can be found and the
// circuit admits calls. Used by health checks and as the fast-fail gate.
func (r *Renderer) Available() error {
	if _, err := r.soffice(); err != nil {
		return err
	}
	if r.circuit.State() == CircuitOpen {
		stats := r.circuit.Stats()
		return tools.NewRendererUnavailable(
			"renderer disabled after %d consecutive failures; retrying after cooldown", stats.Failures)
	}
	return nil
}

// CircuitStats exposes breaker state for health reporting.
func (r *Renderer) CircuitStats() CircuitStats {
	return r.circuit.Stats()
}

func (r *Renderer) soffice() (string, error) {
	r.lookupOnce.Do(func() {
		if r.cfg.SofficePath != "" {
			if _, err := os.Stat(r.cfg.SofficePath); err != nil {
				r.binErr = tools.NewRendererUnavailable("configured converter %s not found", r.cfg.SofficePath)
				return
			}
			r.binPath = r.cfg.SofficePath
			return
		}
		for _, name := range sofficeNames {
			if p, err := exec.LookPath(name); err == nil {
				r.binPath = p
				return
			}
		}
		r.binErr = tools.NewRendererUnavailable(
			"no slide converter found: install LibreOffice or set render.soffice_path")
	})
	return r.binPath, r.binErr
}

func normalizeFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatJPEG, "jpg":
		return FormatJPEG, nil
	default:
		return "", tools.NewBadArgument("invalid image format %q: expected png or jpeg", format)
	}
}

// RenderDeck renders the selected slides and returns one page per slide in
// request order.
func (r *Renderer) RenderDeck(ctx context.Context, d *deck.Deck, opts Options) ([]Page, error) {
	format, err := normalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	indices := opts.Indices
	if len(indices) == 0 {
		indices = make([]int, d.SlideCount())
		for i := range indices {
			indices[i] = i
		}
	}
	for _, idx := range indices {
		if idx < 0 || idx >= d.SlideCount() {
			return nil, tools.NewIndexOutOfRange("slide index %d out of range [0, %d)", idx, d.SlideCount())
		}
	}
	if len(indices) == 0 {
		return nil, tools.NewInvalidState("presentation has no slides to render")
	}

	bin, err := r.soffice()
	if err != nil {
		return nil, err
	}
	if !r.circuit.Allow() {
		stats := r.circuit.Stats()
		return nil, tools.NewRendererUnavailable(
			"renderer disabled after %d consecutive failures; retrying after cooldown", stats.Failures)
	}

	pdfPath, cleanupFn, err := r.convertToPDF(ctx, bin, d)
	if err != nil {
		r.circuit.RecordFailure()
		return nil, err
	}
	defer cleanupFn()

	pages, err := r.rasterize(ctx, d, pdfPath, indices, format, opts)
	if err != nil {
		// Rasterization failures are output problems, not converter health.
		return nil, err
	}
	r.circuit.RecordSuccess()
	return pages, nil
}

// convertToPDF saves the deck to a scratch dir and runs the converter
// headless. The returned cleanup removes the scratch dir.
func (r *Renderer) convertToPDF(ctx context.Context, bin string, d *deck.Deck) (string, func(), error) {
	scratch, err := os.MkdirTemp("", "slidesmith-render-*")
	if err != nil {
		return "", nil, tools.NewIOError(err, "creating scratch directory")
	}
	cleanupFn := func() { os.RemoveAll(scratch) }

	deckPath := filepath.Join(scratch, "deck.pptx")
	if err := pptx.Write(d, deckPath); err != nil {
		cleanupFn()
		return "", nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, bin,
		"--headless", "--norestore", "--convert-to", "pdf", "--outdir", scratch, deckPath)
	// Isolated profile dir so parallel conversions do not fight over the
	// default user profile lock.
	cmd.Env = append(os.Environ(), "HOME="+scratch)
	output, err := cmd.CombinedOutput()
	if err != nil {
		cleanupFn()
		if runCtx.Err() == context.DeadlineExceeded {
			return "", nil, tools.NewRendererUnavailable("slide conversion timed out after %s", r.timeout)
		}
		log.Error("converter failed", "error", err, "output", strings.TrimSpace(string(output)))
		return "", nil, tools.NewRendererUnavailable("slide conversion failed: %v", err)
	}

	pdfPath := filepath.Join(scratch, "deck.pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		cleanupFn()
		return "", nil, tools.NewRendererUnavailable("converter produced no PDF output")
	}
	return pdfPath, cleanupFn, nil
}

func (r *Renderer) rasterize(ctx context.Context, d *deck.Deck, pdfPath string, indices []int, format string, opts Options) ([]Page, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, tools.NewIOError(err, "opening rendered PDF")
	}
	defer doc.Close()

	dpi := float64(r.cfg.DPI)
	if dpi <= 0 {
		dpi = 150
	}
	if opts.Width > 0 {
		widthIn := deck.ToInches(d.SlideWidth)
		if widthIn > 0 {
			dpi = float64(opts.Width) / widthIn
		}
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, tools.NewIOError(err, "creating output directory %s", outDir)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "slide"
	}
	ext := "png"
	if format == FormatJPEG {
		ext = "jpg"
	}

	pages := make([]Page, len(indices))
	pool := newEncodePool(ctx, r.cfg.Workers)
	for i, slideIdx := range indices {
		if slideIdx >= doc.NumPage() {
			pool.wait()
			return nil, tools.NewIndexOutOfRange(
				"slide %d not present in converter output (%d pages)", slideIdx, doc.NumPage())
		}
		img, err := doc.ImageDPI(slideIdx, dpi)
		if err != nil {
			pool.wait()
			return nil, tools.NewIOError(err, "rasterizing slide %d", slideIdx)
		}
		outPath := filepath.Join(outDir, fmt.Sprintf("%s_%d.%s", prefix, slideIdx+1, ext))
		bounds := img.Bounds()
		pages[i] = Page{
			SlideIndex: slideIdx,
			Path:       outPath,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		}
		if !pool.submit(func() error { return encodeImage(img, outPath, format) }) {
			break
		}
	}
	if err := pool.wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, tools.NewIOError(err, "rendering canceled")
	}
	return pages, nil
}

func encodeImage(img image.Image, outPath, format string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return tools.NewIOError(err, "creating %s", outPath)
	}
	defer f.Close()
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return tools.NewIOError(err, "encoding %s", outPath)
	}
	return nil
}
