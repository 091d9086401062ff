package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eugenenazirov/treemap-grid/internal/treemap"
)

// maxFormBytes bounds a submission: 50 items with 50 character names fit comfortably.
const maxFormBytes = 64 << 10

// FormHandler serves the treemap form and renders submissions.
type FormHandler struct {
	generator treemap.Generator
	tmpl      *template.Template
	logger    *zap.Logger
}

// NewFormHandler parses the page template and returns a handler for the form page.
func NewFormHandler(gen treemap.Generator, templatePath string, logger *zap.Logger) (*FormHandler, error) {
	tmpl, err := template.New(filepath.Base(templatePath)).Funcs(template.FuncMap{
		"cellClass": cellClass,
	}).ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("parse form template: %w", err)
	}

	return &FormHandler{
		generator: gen,
		tmpl:      tmpl,
		logger:    logger,
	}, nil
}

func (h *FormHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.render(w, FormState{})
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "unable to parse form submission", http.StatusBadRequest)
			return
		}

		state := NewFormState(
			r.PostFormValue(treemap.FieldTreemapJSON),
			r.PostFormValue(treemap.FieldRowNumber),
		).Submit(h.generator)

		h.logger.Debug("treemap form submitted",
			zap.Bool("valid", state.Valid()),
			zap.Int("treemap_errors", len(state.Errors.TreemapJSON)),
			zap.Int("row_number_errors", len(state.Errors.RowNumber)),
			zap.Int("rows", len(state.Rows)),
		)
		h.render(w, state)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *FormHandler) render(w http.ResponseWriter, state FormState) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, state); err != nil {
		h.logger.Error("render form template", zap.Error(err))
		http.Error(w, "unable to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func cellClass(item treemap.PlacedItem) string {
	if item.Positive() {
		return "rect green"
	}
	return "rect red"
}
