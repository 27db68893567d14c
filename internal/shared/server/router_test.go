package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-report/internal/shared/config"
)

func testConfig() config.Config {
	return config.Config{
		Port:            "8080",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		APIKeys:         []string{"secret"},
		Backend:         config.BackendConfig{BaseURL: "http://127.0.0.1:1/api/v1"},
		RateLimit:       config.RateLimitConfig{Rate: 100, Burst: 100},
		Submission:      config.SubmissionConfig{MaxResumeBytes: 1 << 20, MinJobDescriptionChars: 300},
	}
}

func TestRouterRequiresAPIKey(t *testing.T) {
	r := NewRouter(testConfig())

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestRouterServesProbesWithoutAuth(t *testing.T) {
	r := NewRouter(testConfig())

	for _, path := range []string{"/metrics", "/api/v1/health"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, resp.Code)
		}
	}
}

func TestRouterBuildsReportEndToEnd(t *testing.T) {
	r := NewRouter(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(`{"meta":{"analysisId":"an-e2e"},"ats":{"score":55}}`))
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/history/an-e2e", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected saved history entry, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"overallScoreLabel":"55/100"`) {
		t.Fatalf("unexpected history body %s", resp.Body.String())
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
