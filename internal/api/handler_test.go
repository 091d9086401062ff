package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/treemap-grid/internal/treemap"
)

const sampleTreemap = `[{"name":"A","weight":4,"value":0.5},{"name":"B","weight":3,"value":0.2},{"name":"C","weight":5,"value":-0.1}]`

func setupTestRouter(t *testing.T) (http.Handler, time.Time) {
	t.Helper()

	now := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	handler := NewHandler(treemap.New(), WithClock(func() time.Time { return now }))
	logger := zaptest.NewLogger(t)
	router := NewRouter(handler, logger, WithLogging(false))

	return router, now
}

func postJSON(t *testing.T, router http.Handler, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	if got := requestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty request id, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router, now := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(now) {
		t.Fatalf("expected timestamp %s, got %s", now, body.Timestamp)
	}
}

func TestLimitsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/limits", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body limitsResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.MaxItems != 50 || body.MaxNameLength != 50 || body.MaxRowWeight != 6 || body.GridColumns != 12 {
		t.Fatalf("unexpected limits: %+v", body)
	}
}

func TestValidateEndpointValidInput(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/validate", map[string]any{
		"treemapJson": sampleTreemap,
		"rowNumber":   "3",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Valid  bool `json:"valid"`
		Errors struct {
			TreemapJSON []treemap.Violation `json:"treemapJson"`
			RowNumber   []treemap.Violation `json:"rowNumber"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Valid {
		t.Fatalf("expected input to be valid, got errors %+v", body.Errors)
	}
	if body.Errors.TreemapJSON == nil || len(body.Errors.TreemapJSON) != 0 {
		t.Fatalf("expected empty treemapJson errors, got %v", body.Errors.TreemapJSON)
	}
}

func TestValidateEndpointReportsEveryError(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/validate", map[string]any{
		"treemapJson": `[{"name":"A","weight":0},{"weight":1.5}]`,
		"rowNumber":   5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body validateResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Valid {
		t.Fatalf("expected input to be invalid")
	}
	wantTreemap := []string{"property weight is required!", "property name is required!", "weight must be an integer!"}
	got := body.Errors.Messages(treemap.FieldTreemapJSON)
	if len(got) != len(wantTreemap) {
		t.Fatalf("expected %v, got %v", wantTreemap, got)
	}
	for i := range wantTreemap {
		if got[i] != wantTreemap[i] {
			t.Fatalf("expected %q at %d, got %q", wantTreemap[i], i, got[i])
		}
	}
	if len(body.Errors.RowNumber) != 1 || body.Errors.RowNumber[0].Kind != treemap.KindRangeViolation {
		t.Fatalf("expected a single range violation, got %+v", body.Errors.RowNumber)
	}
}

func TestTreemapEndpointSuccess(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/treemap", map[string]any{
		"treemapJson": sampleTreemap,
		"rowNumber":   "2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		RowNumber  int `json:"rowNumber"`
		TotalItems int `json:"totalItems"`
		Rows       []struct {
			Row   int `json:"row"`
			Items []struct {
				Name   string `json:"name"`
				Weight int    `json:"weight"`
				Value  string `json:"value"`
				Row    int    `json:"row"`
			} `json:"items"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.RowNumber != 2 {
		t.Fatalf("expected rowNumber 2, got %d", body.RowNumber)
	}
	if len(body.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(body.Rows))
	}
	if body.TotalItems != 2 {
		t.Fatalf("expected 2 placed items, got %d", body.TotalItems)
	}
	if got := body.Rows[0].Items[0]; got.Name != "C" || got.Value != "-10.00" || got.Row != 0 {
		t.Fatalf("unexpected first row item: %+v", got)
	}
	if got := body.Rows[1].Items[0]; got.Name != "A" || got.Value != "50.00" || got.Row != 1 {
		t.Fatalf("unexpected second row item: %+v", got)
	}
}

func TestTreemapEndpointRejectsInvalidInput(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/treemap", map[string]any{
		"treemapJson": `{"name":"A"}`,
		"rowNumber":   "1",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var body invalidInputResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error == "" || len(body.Errors.TreemapJSON) != 1 {
		t.Fatalf("unexpected error body: %+v", body)
	}
	if body.Errors.TreemapJSON[0].Kind != treemap.KindSchemaViolation {
		t.Fatalf("expected schema violation, got %s", body.Errors.TreemapJSON[0].Kind)
	}
}

func TestTreemapEndpointRejectsMalformedBody(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/treemap", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Suggestion == "" {
		t.Fatalf("expected suggestion to be populated")
	}
}

func TestRowNumberFieldAcceptsStringsAndNumbers(t *testing.T) {
	tests := map[string]string{
		`{"rowNumber":"2"}`:  "2",
		`{"rowNumber":2}`:    "2",
		`{"rowNumber":2.5}`:  "2.5",
		`{"rowNumber":null}`: "",
		`{}`:                 "",
	}
	for input, want := range tests {
		var req treemapRequest
		if err := json.Unmarshal([]byte(input), &req); err != nil {
			t.Fatalf("unmarshal %s: %v", input, err)
		}
		if got := req.RowNumber.String(); got != want {
			t.Fatalf("expected %q for %s, got %q", want, input, got)
		}
	}
}

func TestCorsPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/treemap", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected Access-Control-Allow-Origin header to be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "test-request-id" {
		t.Fatalf("expected X-Request-ID header to be echoed, got %s", got)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Fatalf("expected generated UUID request id, got %q", got)
	}
}
