package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/contact-site/backend/internal/config"
	"github.com/zhouzirui/contact-site/backend/internal/service/inquiry"
)

const indexHTML = "<!DOCTYPE html><title>contact</title>"

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Addr: ":5000", Port: "5000"},
		Static:   config.StaticConfig{Root: "public", Index: "index.html"},
		Log:      config.LogConfig{Level: "info", Format: "text"},
		Metrics:  config.MetricsConfig{Enabled: false, Path: "/metrics"},
		Security: config.SecurityConfig{AllowedOrigins: []string{"*"}},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (http.Handler, *inquiry.Service) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	assets := fstest.MapFS{
		"index.html": {Data: []byte(indexHTML)},
		"app.js":     {Data: []byte("console.log('ok')")},
	}
	svc := inquiry.NewService(inquiry.WithLogger(log))
	return NewRouter(cfg, svc, assets, log), svc
}

func do(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func validBody(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"name":    "Ada",
		"company": "Engines Ltd",
		"email":   "ada@example.com",
		"message": "Hi",
	})
	require.NoError(t, err)
	return payload
}

func TestRouterSubmitsInquiries(t *testing.T) {
	r, svc := newTestRouter(t, testConfig())

	resp := do(r, http.MethodPost, "/api/inquiries", validBody(t))

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Success bool `json:"success"`
		Inquiry struct {
			ID int64 `json:"id"`
		} `json:"inquiry"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(1), body.Inquiry.ID)
	assert.Equal(t, 1, svc.Count())
	assert.NotEmpty(t, resp.Header().Get("X-Content-Type-Options"))
}

func TestRouterFallsBackToDefaultDocument(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/nonexistent"},
		{http.MethodGet, "/api/inquiries"},
		{http.MethodDelete, "/api/inquiries"},
		{http.MethodGet, "/api/unknown"},
		{http.MethodPost, "/api"},
		{http.MethodPut, "/some/deep/route"},
		{http.MethodGet, "/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			resp := do(r, tt.method, tt.target, nil)
			require.Equal(t, http.StatusOK, resp.Code)
			assert.Equal(t, indexHTML, resp.Body.String())
		})
	}
}

func TestRouterServesStaticFiles(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	resp := do(r, http.MethodGet, "/app.js", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "console.log('ok')", resp.Body.String())
}

func TestRouterConcurrentSubmissions(t *testing.T) {
	r, svc := newTestRouter(t, testConfig())
	body := validBody(t)

	const clients = 32
	ids := make([]int64, clients)

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(r, http.MethodPost, "/api/inquiries", body)
			if resp.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", resp.Code)
				return
			}
			var out struct {
				Inquiry struct {
					ID int64 `json:"id"`
				} `json:"inquiry"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
				t.Errorf("decode: %v", err)
				return
			}
			ids[i] = out.Inquiry.ID
		}(i)
	}
	wg.Wait()

	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for i, id := range ids {
		require.Equal(t, int64(i+1), id)
	}
	assert.Equal(t, clients, svc.Count())
}

func TestRouterMetricsEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = true
	r, _ := newTestRouter(t, cfg)

	do(r, http.MethodPost, "/api/inquiries", validBody(t))
	resp := do(r, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "contact_submissions_total")
	assert.Contains(t, resp.Body.String(), `route="/api/inquiries"`)
}

func TestRouterCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/inquiries", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Equal(t, "Content-Type", resp.Header().Get("Access-Control-Allow-Headers"))
}

func TestRouterContentSecurityPolicy(t *testing.T) {
	cfg := testConfig()
	r, _ := newTestRouter(t, cfg)
	resp := do(r, http.MethodGet, "/", nil)
	assert.Empty(t, resp.Header().Get("Content-Security-Policy"))

	cfg.Security.CSPEnabled = true
	r, _ = newTestRouter(t, cfg)
	resp = do(r, http.MethodGet, "/", nil)
	assert.Contains(t, resp.Header().Get("Content-Security-Policy"), "default-src 'self'")
}
