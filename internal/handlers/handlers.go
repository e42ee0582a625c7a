package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/felo/eml2pdf/internal/render"
)

// Handlers holds all HTTP handlers of the preview server and their dependencies
type Handlers struct {
	inputDir  string
	sanitizer *render.Sanitizer
	templates *template.Template
}

// New creates a new Handlers instance serving messages from inputDir
func New(inputDir string) *Handlers {
	return &Handlers{
		inputDir:  inputDir,
		sanitizer: render.NewSanitizer(),
	}
}

// LoadTemplates loads HTML templates from embedded filesystem
func (h *Handlers) LoadTemplates(embeddedFiles embed.FS) error {
	tmpl, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return err
	}
	h.templates = tmpl
	return nil
}

// Routes returns the preview router
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.Index)
	r.Get("/message/{name}", h.ViewMessage)
	r.Get("/message/{name}/raw", h.RawMessage)

	return r
}
