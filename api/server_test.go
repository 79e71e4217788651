package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"genquote/core/engine"
	"genquote/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	o, err := engine.New(cfg, engine.WithDistanceProvider(engine.StaticDistanceProvider(40)))
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	return NewServer(o, cfg)
}

func postJSON(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

const calculateBody = `{
	"generators": [{"kw": 80, "quantity": 1}],
	"services": ["A", "J"],
	"contract_months": 12,
	"customer": {"state": "CA", "zip": "94107"}
}`

func TestCalculateEndpoint(t *testing.T) {
	rec := postJSON(t, testServer(t), "/api/calculate", calculateBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		RequestID string `json:"request_id"`
		Result    struct {
			GrandTotal string `json:"grand_total"`
			Metadata   struct {
				EngineVersion string `json:"engine_version"`
			} `json:"metadata"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if resp.RequestID == "" {
		t.Error("missing request_id")
	}
	if resp.Result.GrandTotal == "" || resp.Result.GrandTotal == "0.00" {
		t.Errorf("grand_total = %q, want a positive fixed-decimal string", resp.Result.GrandTotal)
	}
	if resp.Result.Metadata.EngineVersion != engine.Version {
		t.Errorf("engine_version = %s, want %s", resp.Result.Metadata.EngineVersion, engine.Version)
	}
}

// Validation failures return 400 with every violation listed.
func TestCalculateValidation(t *testing.T) {
	rec := postJSON(t, testServer(t), "/api/calculate", `{"generators": [], "services": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Error struct {
			Code    string   `json:"code"`
			Details []string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %s, want VALIDATION_ERROR", resp.Error.Code)
	}
	if len(resp.Error.Details) != 2 {
		t.Errorf("details = %v, want both missing-array violations", resp.Error.Details)
	}
}

func TestCalculateRejectsBadJSON(t *testing.T) {
	rec := postJSON(t, testServer(t), "/api/calculate", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSettingsEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/settings")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Brackets []struct {
			Label string `json:"label"`
		} `json:"brackets"`
		Services map[string]string `json:"services"`
		Labor    struct {
			MileageRate float64 `json:"mileage_rate"`
		} `json:"labor"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if len(resp.Brackets) != 10 {
		t.Errorf("brackets = %d, want 10", len(resp.Brackets))
	}
	if len(resp.Services) != 11 {
		t.Errorf("services = %d, want 11", len(resp.Services))
	}
	if resp.Labor.MileageRate != 2.50 {
		t.Errorf("mileage_rate = %f, want 2.50", resp.Labor.MileageRate)
	}
}

func TestCompareEndpoint(t *testing.T) {
	body := `{
		"generators": [{"kw": 80, "quantity": 1}],
		"services": ["A", "B"]
	}`
	rec := postJSON(t, testServer(t), "/api/compare", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Comparison struct {
			Deltas []struct {
				Field string `json:"field"`
			} `json:"deltas"`
		} `json:"comparison"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if len(resp.Comparison.Deltas) != 6 {
		t.Errorf("deltas = %d, want 6", len(resp.Comparison.Deltas))
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDiagnosticsEndpoints(t *testing.T) {
	s := testServer(t)
	postJSON(t, s, "/api/calculate", calculateBody)

	rec := get(t, s, "/api/audit/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("audit stats status = %d", rec.Code)
	}
	var audit struct {
		Started  uint64 `json:"started"`
		Retained int    `json:"retained"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &audit); err != nil {
		t.Fatalf("audit stats not JSON: %v", err)
	}
	if audit.Started != 1 {
		t.Errorf("audit started = %d, want 1", audit.Started)
	}

	rec = get(t, s, "/api/cache/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("cache stats status = %d", rec.Code)
	}
}
