package handlers

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/felo/eml2pdf/internal/converter"
	"github.com/felo/eml2pdf/internal/scanner"
)

var (
	errBadName  = errors.New("invalid message name")
	errNotFound = errors.New("message not found")
)

// ViewMessage renders the document a message would be converted from, with
// its body sanitized for the browser
func (h *Handlers) ViewMessage(w http.ResponseWriter, r *http.Request) {
	path, ok := h.resolve(w, r)
	if !ok {
		return
	}

	doc, err := converter.Prepare(path, h.sanitizer)
	if err != nil {
		slog.Warn("failed to prepare message", "file", path, "err", err)
		http.Error(w, "Failed to parse message", http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Output-Name", doc.OutputName)
	if _, err := w.Write([]byte(doc.HTML)); err != nil {
		slog.Warn("failed to write response", "err", err)
	}
}

// RawMessage serves the message file as plain text
func (h *Handlers) RawMessage(w http.ResponseWriter, r *http.Request) {
	path, ok := h.resolve(w, r)
	if !ok {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read message", "file", path, "err", err)
		http.Error(w, "Failed to read message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

// resolve maps the {name} URL parameter onto a file in the input directory,
// writing the error response itself when it fails
func (h *Handlers) resolve(w http.ResponseWriter, r *http.Request) (string, bool) {
	path, err := h.messagePath(chi.URLParam(r, "name"))
	switch {
	case errors.Is(err, errBadName):
		http.Error(w, "Invalid message name", http.StatusBadRequest)
		return "", false
	case errors.Is(err, errNotFound):
		http.Error(w, "Message not found", http.StatusNotFound)
		return "", false
	case err != nil:
		slog.Error("failed to resolve message", "err", err)
		http.Error(w, "Failed to load message", http.StatusInternalServerError)
		return "", false
	}
	return path, true
}

func (h *Handlers) messagePath(name string) (string, error) {
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." || !scanner.IsEML(name) {
		return "", errBadName
	}

	path := filepath.Join(h.inputDir, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", errNotFound
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errNotFound
	}
	return path, nil
}
