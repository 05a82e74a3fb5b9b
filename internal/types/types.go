package types

// WebhookEvent is the envelope the telephony platform posts to the webhook.
// Only conversation_turn events carry a transcript.
type WebhookEvent struct {
	Event      string    `json:"event"`
	Call       *CallInfo `json:"call,omitempty"`
	CallID     string    `json:"call_id,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
}

type CallInfo struct {
	CallID string `json:"call_id"`
}

// ResolveCallID prefers the nested call object, as the platform sends it,
// over a top-level call_id.
func (e WebhookEvent) ResolveCallID() string {
	if e.Call != nil && e.Call.CallID != "" {
		return e.Call.CallID
	}
	return e.CallID
}

type TurnRequest struct {
	CallID     string `json:"call_id"`
	Transcript string `json:"transcript"`
}

type TurnResponse struct {
	Response string `json:"response"`
	EndCall  bool   `json:"end_call"`
	// Step is only filled on the diagnostic /api/turn endpoint.
	Step string `json:"step,omitempty"`
}

type EventAck struct {
	Message string `json:"message"`
	CallID  string `json:"call_id,omitempty"`
}

type VoiceResponse struct {
	CallID     string `json:"call_id"`
	Transcript string `json:"transcript"`
	Response   string `json:"response"`
	EndCall    bool   `json:"end_call"`
	Step       string `json:"step"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	ActiveSessions int    `json:"active_sessions"`
	Archive        string `json:"archive"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Custom-LLM websocket frames.

type SocketUtterance struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type SocketRequest struct {
	InteractionType string            `json:"interaction_type"`
	ResponseID      int               `json:"response_id"`
	Transcript      []SocketUtterance `json:"transcript"`
	Timestamp       int64             `json:"timestamp,omitempty"`
}

// SocketResponse answers a response request; response_id is always sent,
// including 0 for the opening greeting.
type SocketResponse struct {
	ResponseType    string `json:"response_type"`
	ResponseID      int    `json:"response_id"`
	Content         string `json:"content"`
	ContentComplete bool   `json:"content_complete"`
	EndCall         bool   `json:"end_call"`
}

type SocketPing struct {
	ResponseType string `json:"response_type"`
	Timestamp    int64  `json:"timestamp"`
}
