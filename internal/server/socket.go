package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"bridge-voice-backend/internal/dialogue"
	"bridge-voice-backend/internal/intake"
	"bridge-voice-backend/internal/types"
)

const maxSocketFrame = 1 << 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleLLMSocket serves the platform's custom-LLM websocket for one call.
// The platform owns speech; frames carry the running transcript and we answer
// each response request with the next intake prompt.
func (s *Server) handleLLMSocket(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callID")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[socket] upgrade failed for call %s: %v", callID, err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxSocketFrame)
	log.Printf("[socket] call %s connected", callID)

	lang := intake.English
	if sess, err := s.manager.Session(callID); err == nil {
		lang = sess.Language
	}
	if err := conn.WriteJSON(types.SocketResponse{
		ResponseType:    "response",
		ResponseID:      0,
		Content:         s.manager.Greeting(lang),
		ContentComplete: true,
	}); err != nil {
		log.Printf("[socket] call %s greeting: %v", callID, err)
		return
	}

	for {
		var req types.SocketRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[socket] call %s read: %v", callID, err)
			}
			return
		}

		var out any
		switch req.InteractionType {
		case "ping_pong":
			out = types.SocketPing{ResponseType: "ping_pong", Timestamp: time.Now().UnixMilli()}
		case "update_only":
		case "response_required":
			res, err := s.manager.Turn(callID, lastUserUtterance(req.Transcript))
			if err != nil && !errors.Is(err, dialogue.ErrEmptyUtterance) {
				log.Printf("[socket] call %s turn: %v", callID, err)
				return
			}
			out = socketReply(req.ResponseID, res)
		case "reminder_required":
			// The caller went quiet; the transcript holds nothing new.
			out = socketReply(req.ResponseID, s.manager.Reprompt(callID))
		default:
			log.Printf("[socket] call %s ignoring interaction %q", callID, req.InteractionType)
		}
		if out == nil {
			continue
		}
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("[socket] call %s write: %v", callID, err)
			return
		}
	}
}

func socketReply(responseID int, res dialogue.TurnResult) types.SocketResponse {
	return types.SocketResponse{
		ResponseType:    "response",
		ResponseID:      responseID,
		Content:         res.Response,
		ContentComplete: true,
		EndCall:         res.EndCall,
	}
}

func lastUserUtterance(transcript []types.SocketUtterance) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == "user" {
			return transcript[i].Content
		}
	}
	return ""
}
