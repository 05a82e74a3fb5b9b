package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bridge-voice-backend/internal/dialogue"
	"bridge-voice-backend/internal/store"
	"bridge-voice-backend/internal/types"
)

const (
	maxWebhookBody  = 1 << 20
	signatureHeader = "X-Retell-Signature"
	signatureWindow = 5 * time.Minute
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleTimestamp   = errors.New("stale webhook timestamp")
)

// VerifySignature checks a "v=<unix-ms>,d=<hex>" signature header, where d is
// the HMAC-SHA256 of the body followed by the timestamp.
func VerifySignature(secret, header string, body []byte, now time.Time) error {
	if header == "" {
		return ErrMissingSignature
	}
	var ts, digest string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrInvalidSignature
		}
		switch k {
		case "v":
			ts = v
		case "d":
			digest = v
		}
	}
	if ts == "" || digest == "" {
		return ErrInvalidSignature
	}
	ms, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	sent := time.UnixMilli(ms)
	if now.Sub(sent) > signatureWindow || sent.Sub(now) > signatureWindow {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	_, _ = mac.Write([]byte(ts))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(digest))) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign produces a header value VerifySignature accepts.
func Sign(secret string, body []byte, at time.Time) string {
	ts := strconv.FormatInt(at.UnixMilli(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	_, _ = mac.Write([]byte(ts))
	return "v=" + ts + ",d=" + hex.EncodeToString(mac.Sum(nil))
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		log.Printf("[webhook] read body: %v", err)
		s.writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	if s.cfg.RetellWebhookSecret != "" {
		if err := VerifySignature(s.cfg.RetellWebhookSecret, r.Header.Get(signatureHeader), body, s.now()); err != nil {
			log.Printf("[webhook] rejected request: %v", err)
			s.writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		log.Println("[webhook] no data received")
		s.writeError(w, http.StatusBadRequest, "No data received")
		return
	}

	var ev types.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	callID := ev.ResolveCallID()

	switch ev.Event {
	case "conversation_turn":
		s.conversationTurn(w, callID, ev.Transcript)
	case "call_started":
		log.Printf("[webhook] call started: %s", callID)
		s.writeJSON(w, http.StatusOK, types.EventAck{Message: "Call started event received", CallID: callID})
	case "call_ended":
		log.Printf("[webhook] call ended: %s", callID)
		s.archiveCall(r, callID, "call_ended")
		s.writeJSON(w, http.StatusOK, types.EventAck{Message: "Call ended event received", CallID: callID})
	case "call_analyzed":
		log.Printf("[webhook] call analyzed: %s", callID)
		s.writeJSON(w, http.StatusOK, types.EventAck{Message: "Call analyzed event received", CallID: callID})
	default:
		log.Printf("[webhook] unknown event type: %q", ev.Event)
		s.writeJSON(w, http.StatusOK, types.EventAck{Message: "Event received but not processed"})
	}
}

func (s *Server) conversationTurn(w http.ResponseWriter, callID, transcript string) {
	if strings.TrimSpace(transcript) != "" && callID == "" {
		s.writeError(w, http.StatusBadRequest, "call_id is required")
		return
	}
	res, err := s.manager.Turn(callID, transcript)
	if errors.Is(err, dialogue.ErrEmptyUtterance) {
		log.Printf("[webhook] empty transcript for call %q", callID)
	} else if err != nil {
		log.Printf("[webhook] turn failed for call %s: %v", callID, err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, types.TurnResponse{Response: res.Response, EndCall: res.EndCall})
}

// archiveCall records the call's final session. Failures are logged; the
// platform has nothing useful to do with them.
func (s *Server) archiveCall(r *http.Request, callID, reason string) {
	if s.archive == nil || callID == "" {
		return
	}
	sess, err := s.manager.Session(callID)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("[archive] no session for call %s", callID)
		return
	}
	if err != nil {
		log.Printf("[archive] load session %s: %v", callID, err)
		return
	}
	if err := s.archive.SaveCall(r.Context(), store.NewCallRecord(sess, reason, s.now())); err != nil {
		log.Printf("[archive] save call %s: %v", callID, err)
		return
	}
	log.Printf("[archive] saved call %s at %s", callID, sess.State)
}
