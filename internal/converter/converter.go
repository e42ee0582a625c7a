// Package converter drives the message-to-PDF pipeline for single files and
// whole directories.
package converter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/felo/eml2pdf/internal/db"
	"github.com/felo/eml2pdf/internal/naming"
	"github.com/felo/eml2pdf/internal/parser"
	"github.com/felo/eml2pdf/internal/pdf"
	"github.com/felo/eml2pdf/internal/render"
	"github.com/felo/eml2pdf/internal/scanner"
)

// Per-file failure kinds. Errors returned by ConvertFile wrap exactly one.
var (
	ErrInputRead = errors.New("input read error")
	ErrRender    = errors.New("render error")
	ErrOutput    = errors.New("output write error")
)

// Journal records conversions. *db.DB implements it.
type Journal interface {
	RecordConversion(ctx context.Context, c *db.Conversion) error
	LastConversionTo(ctx context.Context, outputPath string) (*db.Conversion, error)
}

// Document is the HTML intermediate for one message file
type Document struct {
	Source     string
	OutputName string
	Subject    string
	HTML       string
}

// SHA256 returns the hex digest of the HTML
func (d *Document) SHA256() string {
	sum := sha256.Sum256([]byte(d.HTML))
	return hex.EncodeToString(sum[:])
}

// Prepare loads, selects, renders and names one message file. s may be nil
// to keep bodies verbatim.
func Prepare(path string, s *render.Sanitizer) (*Document, error) {
	msg, err := parser.ParseEMLFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInputRead, path, err)
	}

	html, err := render.Message(msg, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRender, path, err)
	}

	return &Document{
		Source:     path,
		OutputName: naming.OutputName(msg.Date(), msg.Subject()),
		Subject:    msg.Subject(),
		HTML:       html,
	}, nil
}

// Options configures a Converter
type Options struct {
	OutputDir string
	// KeepHTML writes the HTML intermediate next to each PDF
	KeepHTML bool
	// Sanitizer, when set, cleans bodies before rendering
	Sanitizer *render.Sanitizer
	// Journal, when set, receives one entry per attempted file
	Journal Journal
	// Out receives one confirmation line per converted file
	Out    io.Writer
	Logger *slog.Logger
}

// Converter converts message files one at a time
type Converter struct {
	renderer pdf.Renderer
	opts     Options
	runID    string

	// output path -> source path, for the current converter's lifetime
	written map[string]string
}

// New creates a converter writing PDFs through r
func New(r pdf.Renderer, opts Options) *Converter {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Converter{
		renderer: r,
		opts:     opts,
		runID:    uuid.New().String(),
		written:  make(map[string]string),
	}
}

// RunID identifies this converter's journal entries
func (c *Converter) RunID() string {
	return c.runID
}

// BatchResult contains statistics about a directory conversion
type BatchResult struct {
	TotalFound  int
	Converted   int
	Failed      int
	Overwritten int
	PDFBytes    int64
	FailedFiles []string
}

// HasFailures reports whether any file failed
func (r *BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertDir converts every .eml file in inputDir. Per-file failures are
// logged and counted; only directory-level failures are returned.
func (c *Converter) ConvertDir(ctx context.Context, inputDir string, recursive bool) (*BatchResult, error) {
	files, err := scanner.NewScanner(inputDir, recursive).Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan for files: %w", err)
	}

	if err := os.MkdirAll(c.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BatchResult{
		TotalFound:  len(files),
		FailedFiles: make([]string, 0),
	}
	c.opts.Logger.Debug("found message files", "dir", inputDir, "count", len(files))

	for _, file := range files {
		out, err := c.convert(ctx, file)
		if err != nil {
			c.opts.Logger.Error("conversion failed", "file", file, "err", err)
			result.Failed++
			result.FailedFiles = append(result.FailedFiles, file)
			continue
		}
		result.Converted++
		result.PDFBytes += out.size
		if out.overwrote {
			result.Overwritten++
		}
	}

	return result, nil
}

// ConvertFile converts one message file and returns the PDF path
func (c *Converter) ConvertFile(ctx context.Context, path string) (string, error) {
	out, err := c.convert(ctx, path)
	if err != nil {
		return "", err
	}
	return out.path, nil
}

type output struct {
	path      string
	size      int64
	overwrote bool
}

func (c *Converter) convert(ctx context.Context, path string) (output, error) {
	entry := &db.Conversion{
		RunID:      c.runID,
		SourcePath: absPath(path),
		Status:     db.StatusFailed,
	}
	defer c.record(ctx, entry)

	out, err := c.convertDocument(ctx, path, entry)
	if err != nil {
		entry.Error = err.Error()
		return out, err
	}
	entry.Status = db.StatusConverted
	return out, nil
}

func (c *Converter) convertDocument(ctx context.Context, path string, entry *db.Conversion) (output, error) {
	doc, err := Prepare(path, c.opts.Sanitizer)
	if err != nil {
		return output{}, err
	}

	out := output{path: filepath.Join(c.opts.OutputDir, doc.OutputName)}
	entry.OutputPath = absPath(out.path)
	entry.HTMLSHA256 = doc.SHA256()
	out.overwrote = c.checkCollision(ctx, entry)

	// The HTML goes first so it remains for inspection when rendering fails
	if c.opts.KeepHTML {
		htmlPath := strings.TrimSuffix(out.path, naming.Extension) + ".html"
		if err := os.WriteFile(htmlPath, []byte(doc.HTML), 0o644); err != nil {
			return out, fmt.Errorf("%w: %s: %w", ErrOutput, htmlPath, err)
		}
	}

	if err := c.renderer.Render(doc.HTML, out.path); err != nil {
		return out, fmt.Errorf("%w: %s: %w", ErrRender, path, err)
	}
	c.written[entry.OutputPath] = entry.SourcePath

	if info, err := os.Stat(out.path); err == nil {
		out.size = info.Size()
		entry.PDFSize = out.size
	}

	fmt.Fprintf(c.opts.Out, "Converted '%s' to '%s'\n", path, out.path)
	return out, nil
}

// checkCollision warns when the target was already written from another
// source. The write still goes ahead.
func (c *Converter) checkCollision(ctx context.Context, entry *db.Conversion) bool {
	previous, ok := c.written[entry.OutputPath]
	if !ok && c.opts.Journal != nil {
		last, err := c.opts.Journal.LastConversionTo(ctx, entry.OutputPath)
		if err != nil {
			c.opts.Logger.Warn("journal lookup failed", "output", entry.OutputPath, "err", err)
		} else if last != nil {
			previous, ok = last.SourcePath, true
		}
	}
	if !ok || previous == entry.SourcePath {
		return false
	}
	c.opts.Logger.Warn("overwriting output written from another message",
		"output", entry.OutputPath, "previous", previous, "file", entry.SourcePath)
	return true
}

func (c *Converter) record(ctx context.Context, entry *db.Conversion) {
	if c.opts.Journal == nil {
		return
	}
	if err := c.opts.Journal.RecordConversion(ctx, entry); err != nil {
		c.opts.Logger.Warn("failed to record conversion", "file", entry.SourcePath, "err", err)
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
