package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-text-gateway/internal/config"
	"github.com/tbourn/go-text-gateway/internal/domain"
	"github.com/tbourn/go-text-gateway/internal/http/middleware"
	"github.com/tbourn/go-text-gateway/internal/provider"
	"github.com/tbourn/go-text-gateway/internal/repo"
)

func baseConfig() config.Config {
	return config.Config{
		GinMode:         gin.TestMode,
		APIBasePath:     "/",
		MaxInputRunes:   8000,
		RateMaxRequests: 60,
		RateWindow:      time.Minute,
		IdempotencyTTL:  time.Hour,
	}
}

func newTestRouter(t *testing.T, cfg config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := gin.New()
	RegisterRoutes(r, db, provider.NewMockClient(), cfg)
	return r, db
}

func do(r *gin.Engine, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, baseConfig())
	w := do(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}

func TestGenerate_EndToEnd_MockProvider(t *testing.T) {
	r, db := newTestRouter(t, baseConfig())

	w := do(r, http.MethodPost, "/generate", `{"prompt":"hello world"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Text != "(mock) you said: hello world" {
		t.Fatalf("text = %q", resp.Text)
	}

	// One ok record appended.
	recs, err := repo.ListRecentRecords(context.Background(), db, 10, 0)
	if err != nil || len(recs) != 1 {
		t.Fatalf("records = %d err=%v", len(recs), err)
	}
	if recs[0].Mode != domain.ModeGenerate || recs[0].Status != domain.StatusOK {
		t.Fatalf("record = %+v", recs[0])
	}
}

func TestKeywords_EndToEnd(t *testing.T) {
	r, _ := newTestRouter(t, baseConfig())

	w := do(r, http.MethodPost, "/keywords", `{"text":"Banana apple banana Cherry"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(resp.Keywords, ",") != "apple,banana,cherry" {
		t.Fatalf("keywords = %v", resp.Keywords)
	}
}

func TestAuthGate_EndToEnd(t *testing.T) {
	cfg := baseConfig()
	cfg.AuthToken = "s3cret"
	r, db := newTestRouter(t, cfg)

	// No token → 401, no record.
	w := do(r, http.MethodPost, "/title", `{"text":"an article"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var er struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != "unauthorized" {
		t.Fatalf("envelope = %s", w.Body.String())
	}
	if n, _ := repo.CountRecords(context.Background(), db); n != 0 {
		t.Fatalf("rejected request must not be recorded, got %d", n)
	}

	// Wrong token → 401.
	w = do(r, http.MethodPost, "/title", `{"text":"an article"}`, map[string]string{"Authorization": "Bearer nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong token, got %d", w.Code)
	}

	// Valid token → 200.
	w = do(r, http.MethodPost, "/title", `{"text":"an article"}`, map[string]string{"Authorization": "Bearer s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRateLimit_EndToEnd(t *testing.T) {
	cfg := baseConfig()
	cfg.RateMaxRequests = 2
	r, db := newTestRouter(t, cfg)

	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodPost, "/generate", `{"prompt":"x"}`, nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}
	w := do(r, http.MethodPost, "/generate", `{"prompt":"x"}`, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	var er struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != "too_many_requests" {
		t.Fatalf("envelope = %s", w.Body.String())
	}
	if n, _ := repo.CountRecords(context.Background(), db); n != 2 {
		t.Fatalf("over-limit request must not be recorded, got %d", n)
	}
}

func TestHistory_EndToEnd_NewestFirst_AndETag(t *testing.T) {
	r, _ := newTestRouter(t, baseConfig())

	for _, prompt := range []string{"first", "second", "third"} {
		if w := do(r, http.MethodPost, "/generate", `{"prompt":"`+prompt+`"}`, nil); w.Code != http.StatusOK {
			t.Fatalf("seed %q: status = %d", prompt, w.Code)
		}
	}

	w := do(r, http.MethodGet, "/history?limit=2", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var items []domain.Record
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("expected bare array: %v (%s)", err, w.Body.String())
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].InputText != "third" || items[1].InputText != "second" {
		t.Fatalf("not newest-first: %q, %q", items[0].InputText, items[1].InputText)
	}

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}
	cached := do(r, http.MethodGet, "/history?limit=2", "", map[string]string{"If-None-Match": etag})
	if cached.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", cached.Code)
	}

	// A new dispatch invalidates the tag.
	if w := do(r, http.MethodPost, "/generate", `{"prompt":"fourth"}`, nil); w.Code != http.StatusOK {
		t.Fatalf("seed fourth: %d", w.Code)
	}
	fresh := do(r, http.MethodGet, "/history?limit=2", "", map[string]string{"If-None-Match": etag})
	if fresh.Code != http.StatusOK {
		t.Fatalf("stale tag must refetch, got %d", fresh.Code)
	}
}

func TestIdempotency_EndToEnd_Replay(t *testing.T) {
	r, db := newTestRouter(t, baseConfig())

	hdr := map[string]string{middleware.HeaderIdempotencyKey: "retry-key-1"}
	first := do(r, http.MethodPost, "/summarize", `{"text":"a short text"}`, hdr)
	if first.Code != http.StatusOK {
		t.Fatalf("first: status = %d body=%s", first.Code, first.Body.String())
	}
	if first.Header().Get("Idempotency-Replayed") != "" {
		t.Fatalf("first response must not be a replay")
	}

	second := do(r, http.MethodPost, "/summarize", `{"text":"a short text"}`, hdr)
	if second.Code != http.StatusOK {
		t.Fatalf("second: status = %d", second.Code)
	}
	if second.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("expected Idempotency-Replayed header on retry")
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay body differs: %s vs %s", first.Body.String(), second.Body.String())
	}

	// The retry appends no new record.
	if n, _ := repo.CountRecords(context.Background(), db); n != 1 {
		t.Fatalf("expected 1 record after replay, got %d", n)
	}

	// A different key under the same client runs the pipeline again.
	third := do(r, http.MethodPost, "/summarize", `{"text":"a short text"}`, map[string]string{middleware.HeaderIdempotencyKey: "retry-key-2"})
	if third.Code != http.StatusOK || third.Header().Get("Idempotency-Replayed") != "" {
		t.Fatalf("new key must dispatch fresh: %d", third.Code)
	}
	if n, _ := repo.CountRecords(context.Background(), db); n != 2 {
		t.Fatalf("expected 2 records, got %d", n)
	}
}

func TestNoRouteAndNoMethod_Envelopes(t *testing.T) {
	r, _ := newTestRouter(t, baseConfig())

	w := do(r, http.MethodGet, "/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var er struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != "not_found" {
		t.Fatalf("404 envelope = %s", w.Body.String())
	}

	w = do(r, http.MethodDelete, "/generate", "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil || er.Code != "method_not_allowed" {
		t.Fatalf("405 envelope = %s", w.Body.String())
	}
}

func TestBasePathMount(t *testing.T) {
	cfg := baseConfig()
	cfg.APIBasePath = "/api/v1"
	r, _ := newTestRouter(t, cfg)

	if w := do(r, http.MethodPost, "/api/v1/generate", `{"prompt":"x"}`, nil); w.Code != http.StatusOK {
		t.Fatalf("mounted path: status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/generate", `{"prompt":"x"}`, nil); w.Code != http.StatusNotFound {
		t.Fatalf("root path should 404 when mounted under /api/v1, got %d", w.Code)
	}
}

func TestCORS_WildcardDefault(t *testing.T) {
	r, _ := newTestRouter(t, baseConfig())
	w := do(r, http.MethodGet, "/health", "", nil)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("ACAO = %q, want *", got)
	}
}
