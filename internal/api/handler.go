package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/eugenenazirov/treemap-grid/internal/treemap"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// maxRequestBytes bounds JSON request bodies.
const maxRequestBytes = 64 << 10

// Handler wires the treemap generator into HTTP handlers.
type Handler struct {
	generator treemap.Generator

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(gen treemap.Generator, opts ...HandlerOption) *Handler {
	h := &Handler{
		generator: gen,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleLimits(w http.ResponseWriter, r *http.Request) {
	_ = r
	writeJSON(w, http.StatusOK, limitsResponse{
		MaxItems:      treemap.MaxItems,
		MaxNameLength: treemap.MaxNameLength,
		MaxRowWeight:  treemap.MaxRowWeight,
		GridColumns:   treemap.GridColumns,
	})
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTreemapRequest(w, r)
	if !ok {
		return
	}

	errs := h.generator.Validate(req.TreemapJSON, req.RowNumber.String())
	writeJSON(w, http.StatusOK, validateResponse{
		Valid:  errs.Valid(),
		Errors: errs,
	})
}

func (h *Handler) handleTreemap(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeTreemapRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	errs, rows := h.generator.Generate(req.TreemapJSON, req.RowNumber.String())
	elapsed := time.Since(start)

	if !errs.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, invalidInputResponse{
			Error:  "Invalid input",
			Errors: errs,
		})
		return
	}

	if rows == nil {
		rows = []treemap.Row{}
	}
	totalItems := 0
	for _, row := range rows {
		totalItems += len(row.Items)
	}

	rowNumber, _ := treemap.ParseRowNumber(req.RowNumber.String())
	writeJSON(w, http.StatusOK, treemapResponse{
		RowNumber:         rowNumber,
		Rows:              rows,
		TotalItems:        totalItems,
		CalculationTimeMs: elapsed.Milliseconds(),
	})
}

func decodeTreemapRequest(w http.ResponseWriter, r *http.Request) (treemapRequest, bool) {
	var req treemapRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload",
			`expected a body such as {"treemapJson": "[{\"name\":\"A\",\"weight\":2,\"value\":0.1}]", "rowNumber": "1"}`)
		return treemapRequest{}, false
	}
	return req, true
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// rowNumberField accepts the row number either as a JSON string, exactly as
// typed into the form, or as a JSON number.
type rowNumberField string

func (f *rowNumberField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = rowNumberField(s)
		return nil
	}
	*f = rowNumberField(strings.TrimSpace(string(data)))
	return nil
}

func (f rowNumberField) String() string {
	return string(f)
}

type treemapRequest struct {
	TreemapJSON string         `json:"treemapJson"`
	RowNumber   rowNumberField `json:"rowNumber"`
}

type validateResponse struct {
	Valid  bool             `json:"valid"`
	Errors treemap.ErrorSet `json:"errors"`
}

type treemapResponse struct {
	RowNumber         int           `json:"rowNumber"`
	Rows              []treemap.Row `json:"rows"`
	TotalItems        int           `json:"totalItems"`
	CalculationTimeMs int64         `json:"calculationTimeMs"`
}

type invalidInputResponse struct {
	Error  string           `json:"error"`
	Errors treemap.ErrorSet `json:"errors"`
}

type limitsResponse struct {
	MaxItems      int `json:"maxItems"`
	MaxNameLength int `json:"maxNameLength"`
	MaxRowWeight  int `json:"maxRowWeight"`
	GridColumns   int `json:"gridColumns"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
