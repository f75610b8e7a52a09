package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Ensure NewHealthHandler constructs without args and CheckHealth responds
// with 200 regardless of service state; the body carries the verdict.
func TestHealthHandler_CheckHealth(t *testing.T) {
	prev := serviceIsHealthy
	defer BindServiceHealth(prev)

	h := NewHealthHandler()

	check := func(want string) {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		w := httptest.NewRecorder()
		h.CheckHealth(w, req)
		if code := w.Result().StatusCode; code != http.StatusOK {
			t.Fatalf("unexpected status code: %d", code)
		}
		var body struct {
			Status    string `json:"status"`
			Timestamp string `json:"timestamp"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Status != want {
			t.Fatalf("status = %q, want %q", body.Status, want)
		}
		if body.Timestamp == "" {
			t.Fatal("timestamp missing")
		}
	}

	BindServiceHealth(func() bool { return true })
	check("healthy")

	BindServiceHealth(func() bool { return false })
	check("unhealthy")
}
