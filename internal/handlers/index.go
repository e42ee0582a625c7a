package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/felo/eml2pdf/internal/converter"
	"github.com/felo/eml2pdf/internal/scanner"
)

type messageRow struct {
	Name       string
	Subject    string
	OutputName string
	Err        string
}

// Index lists the message files in the input directory
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	files, err := scanner.NewScanner(h.inputDir, false).Scan()
	if err != nil {
		slog.Error("failed to list messages", "dir", h.inputDir, "err", err)
		http.Error(w, "Failed to list messages", http.StatusInternalServerError)
		return
	}

	rows := make([]messageRow, 0, len(files))
	for _, file := range files {
		row := messageRow{Name: filepath.Base(file)}
		doc, err := converter.Prepare(file, nil)
		if err != nil {
			row.Err = err.Error()
		} else {
			row.Subject = doc.Subject
			row.OutputName = doc.OutputName
		}
		rows = append(rows, row)
	}

	data := map[string]interface{}{
		"PageTitle": "eml2pdf preview",
		"Dir":       h.inputDir,
		"Messages":  rows,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.Error("template error", "err", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
