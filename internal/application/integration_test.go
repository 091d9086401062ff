package application

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	app, err := New(baseTestConfig(":0"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	handler := app.Server().Handler

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	rec = performRequest(t, handler, http.MethodGet, "/static/styles.css", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for stylesheet, got %d", rec.Code)
	}

	treemapJSON := `[{"name":"A","weight":4,"value":0.5},{"name":"B","weight":3,"value":0.2},{"name":"C","weight":5,"value":-0.1}]`

	payload, _ := json.Marshal(map[string]any{"treemapJson": treemapJSON, "rowNumber": "4"})
	rec = performRequest(t, handler, http.MethodPost, "/api/validate", payload, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from validate, got %d", rec.Code)
	}
	var validation struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&validation); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if validation.Valid {
		t.Fatalf("expected row number above array length to be invalid")
	}

	payload, _ = json.Marshal(map[string]any{"treemapJson": treemapJSON, "rowNumber": "3"})
	rec = performRequest(t, handler, http.MethodPost, "/api/treemap", payload, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from treemap, got %d", rec.Code)
	}
	var response struct {
		TotalItems int `json:"totalItems"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.TotalItems != 3 {
		t.Fatalf("unexpected total items %d", response.TotalItems)
	}

	form := url.Values{"treemapJson": {treemapJSON}, "rowNumber": {"3"}}
	rec = performRequest(t, handler, http.MethodPost, "/", []byte(form.Encode()), map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from form submission, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Result:") {
		t.Fatalf("expected rendered grid in form response")
	}
}
