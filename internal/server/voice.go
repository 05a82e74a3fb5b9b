package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"bridge-voice-backend/internal/dialogue"
	"bridge-voice-backend/internal/types"
)

// handleVoice lets a browser client drive a call with recorded audio: the clip
// is transcribed and the transcript runs as one turn.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	if s.client == nil {
		s.writeError(w, http.StatusBadRequest, "speech-to-text is not configured")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "audio file is required (field 'file')")
		return
	}
	defer file.Close()

	callID := strings.TrimSpace(r.FormValue("call_id"))
	if callID == "" {
		callID = uuid.NewString()
		log.Printf("[voice] starting call %s", callID)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()
	tr, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.cfg.STTModel,
		Reader:   file,
		FilePath: header.Filename,
	})
	if err != nil {
		log.Println("[voice] transcription error:", err)
		s.writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}

	transcript := strings.TrimSpace(tr.Text)
	res, err := s.manager.Turn(callID, transcript)
	if err != nil && !errors.Is(err, dialogue.ErrEmptyUtterance) {
		s.writeError(w, http.StatusInternalServerError, "turn failed")
		return
	}
	s.writeJSON(w, http.StatusOK, types.VoiceResponse{
		CallID:     callID,
		Transcript: transcript,
		Response:   res.Response,
		EndCall:    res.EndCall,
		Step:       res.State.String(),
	})
}
