package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bridge-voice-backend/internal/config"
	"bridge-voice-backend/internal/store"
	"bridge-voice-backend/internal/types"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Config{
		Port:                 "0",
		AllowedOrigin:        "*",
		STTModel:             "whisper-1",
		ArchiveDir:           t.TempDir(),
		SessionTTL:           time.Hour,
		MaxSessions:          100,
		SessionSweepInterval: time.Minute,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func do(t *testing.T, s *Server, method, path string, body []byte, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func turnEvent(callID, transcript string) []byte {
	b, _ := json.Marshal(types.WebhookEvent{
		Event:      "conversation_turn",
		Call:       &types.CallInfo{CallID: callID},
		Transcript: transcript,
	})
	return b
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rr := do(t, s, http.MethodGet, "/health", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	h := decode[types.HealthResponse](t, rr)
	if h.Status != "healthy" || h.ActiveSessions != 0 || h.Archive != "file" {
		t.Fatalf("unexpected health: %+v", h)
	}
	if _, err := time.Parse(time.RFC3339, h.Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %q", h.Timestamp)
	}
}

func TestWebhookConversationTurn(t *testing.T) {
	s := newTestServer(t, nil)
	rr := do(t, s, http.MethodPost, "/retell/webhook", turnEvent("c1", "I need help with my electric bill"), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[types.TurnResponse](t, rr)
	if resp.EndCall {
		t.Fatal("end_call should be false")
	}
	if !strings.Contains(resp.Response, "energy") || !strings.Contains(resp.Response, "ZIP") {
		t.Fatalf("expected location prompt for energy, got %q", resp.Response)
	}

	// Same call, second turn, other path.
	rr = do(t, s, http.MethodPost, "/retell/events", turnEvent("c1", "Ohio"), nil)
	resp = decode[types.TurnResponse](t, rr)
	if !strings.Contains(resp.Response, "name") {
		t.Fatalf("expected name prompt, got %q", resp.Response)
	}
	if s.sessions.Len() != 1 {
		t.Fatalf("expected one session, got %d", s.sessions.Len())
	}
}

func TestWebhookSpanishCall(t *testing.T) {
	s := newTestServer(t, nil)
	rr := do(t, s, http.MethodPost, "/retell/webhook", turnEvent("es1", "Hola, necesito ayuda con la electricidad"), nil)
	resp := decode[types.TurnResponse](t, rr)
	if !strings.Contains(resp.Response, "código postal") {
		t.Fatalf("expected Spanish location prompt, got %q", resp.Response)
	}
}

func TestWebhookEmptyTranscript(t *testing.T) {
	s := newTestServer(t, nil)
	rr := do(t, s, http.MethodPost, "/retell/webhook", turnEvent("", "   "), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decode[types.TurnResponse](t, rr)
	if !strings.Contains(resp.Response, "repeat") {
		t.Fatalf("expected repeat prompt, got %q", resp.Response)
	}
	if s.sessions.Len() != 0 {
		t.Fatalf("empty transcript must not create a session")
	}
}

func TestWebhookTurnRequiresCallID(t *testing.T) {
	s := newTestServer(t, nil)
	rr := do(t, s, http.MethodPost, "/retell/webhook", turnEvent("", "I need food"), nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestWebhookBadBodies(t *testing.T) {
	s := newTestServer(t, nil)

	rr := do(t, s, http.MethodPost, "/retell/webhook", nil, nil)
	if rr.Code != http.StatusBadRequest || decode[types.ErrorResponse](t, rr).Error != "No data received" {
		t.Fatalf("empty body: got %d %s", rr.Code, rr.Body.String())
	}

	rr = do(t, s, http.MethodPost, "/retell/webhook", []byte("{not json"), nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid JSON: expected 400, got %d", rr.Code)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWebhookBodyReadErrors(t *testing.T) {
	s := newTestServer(t, nil)

	big := bytes.Repeat([]byte("a"), maxWebhookBody+1)
	if rr := do(t, s, http.MethodPost, "/retell/webhook", big, nil); rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized body: expected 413, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/retell/webhook", failingReader{})
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("broken body: expected 400, got %d", rr.Code)
	}
}

func TestWebhookLifecycleEvents(t *testing.T) {
	s := newTestServer(t, nil)
	cases := map[string]string{
		"call_started":  "Call started event received",
		"call_analyzed": "Call analyzed event received",
		"call_ended":    "Call ended event received",
	}
	for event, want := range cases {
		body, _ := json.Marshal(types.WebhookEvent{Event: event, Call: &types.CallInfo{CallID: "c7"}})
		rr := do(t, s, http.MethodPost, "/retell/webhook", body, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", event, rr.Code)
		}
		ack := decode[types.EventAck](t, rr)
		if ack.Message != want || ack.CallID != "c7" {
			t.Fatalf("%s: unexpected ack %+v", event, ack)
		}
	}
}

func TestWebhookUnknownEvent(t *testing.T) {
	s := newTestServer(t, nil)
	rr := do(t, s, http.MethodPost, "/retell/webhook", []byte(`{"event":"call_transferred"}`), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := decode[types.EventAck](t, rr).Message; got != "Event received but not processed" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCallEndedArchivesSession(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, func(c *config.Config) { c.ArchiveDir = dir })
	do(t, s, http.MethodPost, "/retell/webhook", turnEvent("c2", "I need help with rent"), nil)
	do(t, s, http.MethodPost, "/retell/webhook", turnEvent("c2", "Texas"), nil)

	body, _ := json.Marshal(types.WebhookEvent{Event: "call_ended", Call: &types.CallInfo{CallID: "c2"}})
	do(t, s, http.MethodPost, "/retell/webhook", body, nil)

	rec, err := store.NewFileArchive(dir).GetCall(context.Background(), "c2")
	if err != nil || rec == nil {
		t.Fatalf("expected archived record, got %v, %v", rec, err)
	}
	if rec.Step != "collecting_name" || rec.NeedType != "housing" || len(rec.History) != 2 || rec.Reason != "call_ended" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Profile.Location == nil || *rec.Profile.Location != "Texas" {
		t.Fatalf("expected location Texas, got %+v", rec.Profile)
	}

	rr := do(t, s, http.MethodGet, "/api/archive/c2", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from archive endpoint, got %d", rr.Code)
	}
	if rr = do(t, s, http.MethodGet, "/api/archive/other", nil, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestArchiveDisabled(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.ArchiveDir = "" })
	if rr := do(t, s, http.MethodGet, "/api/archive/c1", nil, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	body, _ := json.Marshal(types.WebhookEvent{Event: "call_ended", Call: &types.CallInfo{CallID: "c1"}})
	if rr := do(t, s, http.MethodPost, "/retell/webhook", body, nil); rr.Code != http.StatusOK {
		t.Fatalf("call_ended without archive: expected 200, got %d", rr.Code)
	}
}

func TestSignedWebhook(t *testing.T) {
	const secret = "whsec"
	s := newTestServer(t, func(c *config.Config) { c.RetellWebhookSecret = secret })
	body := turnEvent("c3", "I need food")
	now := time.Now()

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", Sign(secret, body, now), http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", Sign("other", body, now), http.StatusUnauthorized},
		{"stale", Sign(secret, body, now.Add(-10*time.Minute)), http.StatusUnauthorized},
		{"garbage", "nonsense", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.header != "" {
				h.Set(signatureHeader, tc.header)
			}
			if rr := do(t, s, http.MethodPost, "/retell/webhook", body, h); rr.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestAPITurnAndSnapshot(t *testing.T) {
	s := newTestServer(t, nil)
	if rr := do(t, s, http.MethodGet, "/api/calls/d1", nil, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before first turn, got %d", rr.Code)
	}

	body, _ := json.Marshal(types.TurnRequest{CallID: "d1", Transcript: "I lost my job"})
	rr := do(t, s, http.MethodPost, "/api/turn", body, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if step := decode[types.TurnResponse](t, rr).Step; step != "collecting_location" {
		t.Fatalf("expected collecting_location, got %q", step)
	}

	rr = do(t, s, http.MethodGet, "/api/calls/d1", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	snap := decode[map[string]any](t, rr)
	if snap["step"] != "collecting_location" || snap["need_type"] != "employment" || snap["turns"] != float64(1) {
		t.Fatalf("unexpected snapshot: %v", snap)
	}

	body, _ = json.Marshal(types.TurnRequest{Transcript: "hello"})
	if rr := do(t, s, http.MethodPost, "/api/turn", body, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing call_id: expected 400, got %d", rr.Code)
	}
}
