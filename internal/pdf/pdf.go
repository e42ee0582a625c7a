// Package pdf writes HTML documents to PDF files through an external
// rendering engine.
package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// Renderer turns an HTML document into a PDF file at outputPath.
type Renderer interface {
	Render(html, outputPath string) error
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(html, outputPath string) error

func (f RendererFunc) Render(html, outputPath string) error {
	return f(html, outputPath)
}

// Options configures the wkhtmltopdf renderer. Zero values keep the engine
// defaults.
type Options struct {
	PageSize  string
	DPI       uint
	Grayscale bool
	// Stderr receives the engine's diagnostic output; nil discards it.
	Stderr io.Writer
}

// WKHTMLToPDF renders through the wkhtmltopdf binary.
type WKHTMLToPDF struct {
	opts Options
}

// SetBinaryPath overrides the wkhtmltopdf lookup on PATH. The setting is
// process-wide and applies to every WKHTMLToPDF renderer, so call it once at
// startup.
func SetBinaryPath(path string) {
	wkhtmltopdf.SetPath(path)
}

// NewWKHTMLToPDF creates a renderer with the given options.
func NewWKHTMLToPDF(opts Options) *WKHTMLToPDF {
	return &WKHTMLToPDF{opts: opts}
}

// Render runs one wkhtmltopdf invocation. It blocks until the process exits.
func (w *WKHTMLToPDF) Render(html, outputPath string) error {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return fmt.Errorf("wkhtmltopdf unavailable: %w", err)
	}

	if w.opts.PageSize != "" {
		pdfg.PageSize.Set(w.opts.PageSize)
	}
	if w.opts.DPI > 0 {
		pdfg.Dpi.Set(w.opts.DPI)
	}
	pdfg.Grayscale.Set(w.opts.Grayscale)
	pdfg.Quiet.Set(true)
	if w.opts.Stderr != nil {
		pdfg.SetStderr(w.opts.Stderr)
	}

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.Encoding.Set("utf-8")
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return fmt.Errorf("wkhtmltopdf failed: %w", err)
	}
	if err := pdfg.WriteFile(outputPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}
