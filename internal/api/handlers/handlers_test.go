package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"scambait-lab/internal/config"
	"scambait-lab/internal/domain/services"
	"scambait-lab/internal/honeypot"
	"scambait-lab/internal/report"
	"scambait-lab/internal/session"
	"scambait-lab/pkg/logger"
)

const strongScamText = "URGENT! Your bank account 1234567890 will be blocked in 24 hours. Click here: http://fake-bank.tk/verify"

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "scambait-lab", Version: "test"},
		Detection: config.DetectionConfig{ScamThreshold: 0.5, HighConfidenceThreshold: 0.8, MaxTextRunes: 5000},
	}
}

// newTestRouter mounts the handlers the way the real router does, minus
// auth and rate limiting, which have their own tests.
func newTestRouter(t *testing.T) (*chi.Mux, *honeypot.Engine) {
	t.Helper()
	log := testLogger()
	lib := services.NewPatternLibrary()
	engine := honeypot.NewEngine(
		session.NewStore(log),
		services.NewScamScorer(lib, 0, log),
		services.NewIntelligenceExtractor(lib, log),
		services.NewResponder(1),
		honeypot.DefaultFinalizationPolicy(),
		report.NewLogSink(log),
		log,
	)

	h := NewHandlers(Dependencies{Engine: engine, Config: testConfig(), Logger: log})

	r := chi.NewRouter()
	r.Get("/health", h.Health.Check)
	r.Post("/api/v1/honeypot/analyze", h.Honeypot.Analyze)
	r.Get("/api/v1/honeypot/sessions", h.Sessions.List)
	r.Get("/api/v1/honeypot/sessions/{id}", h.Sessions.Get)
	r.Post("/api/v1/honeypot/sessions/{id}/finalize", h.Sessions.Finalize)
	return r, engine
}

func postAnalyze(t *testing.T, r http.Handler, sessionID, sender, text string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"sessionId": sessionID,
		"message": map[string]string{
			"sender":    sender,
			"text":      text,
			"timestamp": "2025-06-01T12:00:00Z",
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/honeypot/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := postAnalyze(t, r, "sess-1", "scammer", strongScamText)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.Reply == "" {
		t.Error("reply is empty")
	}
}

func TestAnalyzeMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing message", `{"sessionId":"sess-1"}`},
		{"missing session id", `{"message":{"sender":"scammer","text":"hi"}}`},
		{"malformed json", `{"sessionId":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/honeypot/analyze", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestAnalyzeAcknowledgesDecoyMessages(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := postAnalyze(t, r, "sess-1", "user", "What account number should I use?")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp statusResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Reply != honeypot.AckReply {
		t.Errorf("reply = %q, want %q", resp.Reply, honeypot.AckReply)
	}
}

func TestSessionsListAndGet(t *testing.T) {
	r, _ := newTestRouter(t)

	postAnalyze(t, r, "sess-1", "scammer", strongScamText)
	postAnalyze(t, r, "sess-2", "scammer", "hello there friend")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/honeypot/sessions", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct {
		TotalSessions int              `json:"total_sessions"`
		Statistics    map[string]any   `json:"statistics"`
		Sessions      []map[string]any `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if list.TotalSessions != 2 || len(list.Sessions) != 2 {
		t.Errorf("total = %d, sessions = %d, want 2/2", list.TotalSessions, len(list.Sessions))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/honeypot/sessions/sess-1", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var detail struct {
		SessionID    string           `json:"session_id"`
		ScamDetected bool             `json:"scam_detected"`
		Conversation []map[string]any `json:"conversation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if detail.SessionID != "sess-1" || !detail.ScamDetected {
		t.Errorf("detail = %+v", detail)
	}
	// Scammer message plus decoy reply.
	if len(detail.Conversation) != 2 {
		t.Errorf("conversation entries = %d, want 2", len(detail.Conversation))
	}
}

func TestSessionGetNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/honeypot/sessions/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSessionFinalizeEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	// Unknown session.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/honeypot/sessions/missing/finalize", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	// No scam detected yet.
	postAnalyze(t, r, "benign", "scammer", "hello there, hope your week is going well")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/honeypot/sessions/benign/finalize", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}

	// Detected scam finalizes; repeating is idempotent.
	postAnalyze(t, r, "sess-1", "scammer", strongScamText)
	for i := 0; i < 2; i++ {
		req = httptest.NewRequest(http.MethodPost, "/api/v1/honeypot/sessions/sess-1/finalize", nil)
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d status = %d, body = %s", i+1, rec.Code, rec.Body.String())
		}
	}
}

func TestAnalyzeTruncatesOversizedText(t *testing.T) {
	r, engine := newTestRouter(t)

	rec := postAnalyze(t, r, "sess-1", "scammer", strings.Repeat("a", 6000))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	detail, ok := engine.Store().Get("sess-1")
	if !ok {
		t.Fatal("session not created")
	}
	if got := len([]rune(detail.ConversationLog[0].Text)); got != 5000 {
		t.Errorf("stored text length = %d runes, want 5000", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
