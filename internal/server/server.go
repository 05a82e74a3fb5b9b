package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	openai "github.com/sashabaranov/go-openai"

	"bridge-voice-backend/internal/config"
	"bridge-voice-backend/internal/db"
	"bridge-voice-backend/internal/dialogue"
	"bridge-voice-backend/internal/messages"
	"bridge-voice-backend/internal/store"
	"bridge-voice-backend/internal/types"
)

type Server struct {
	router   *chi.Mux
	cfg      config.Config
	sessions *store.MemoryStore
	manager  *dialogue.Manager
	// archive is nil when neither DB_URL nor ARCHIVE_DIR is set
	archive     store.Archive
	archiveKind string
	database    *db.DB
	client      *openai.Client
	now         func() time.Time
}

func NewServer(cfg config.Config) (*Server, error) {
	text, err := messages.Embedded()
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	sessions := store.NewMemoryStore(store.Options{
		SessionTTL:  cfg.SessionTTL,
		MaxSessions: cfg.MaxSessions,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With", "X-Retell-Signature"},
		MaxAge:         300,
	}))

	s := &Server{
		router:      r,
		cfg:         cfg,
		sessions:    sessions,
		manager:     dialogue.NewManager(sessions, text),
		archiveKind: "disabled",
		now:         time.Now,
	}

	switch {
	case cfg.DatabaseURL != "":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Println("database connection established")
		if err := database.RunMigrations(); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Println("database migrations completed")
		s.database = database
		s.archive = store.NewDatabaseStore(database)
		s.archiveKind = "postgres"
	case cfg.ArchiveDir != "":
		s.archive = store.NewFileArchive(cfg.ArchiveDir)
		s.archiveKind = "file"
		log.Printf("archiving finished calls under %s", cfg.ArchiveDir)
	default:
		log.Println("warning: neither DB_URL nor ARCHIVE_DIR set, finished calls are not archived")
	}

	if cfg.OpenAIAPIKey != "" {
		s.client = openai.NewClient(cfg.OpenAIAPIKey)
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)
	// Telephony platform webhook, under both paths it has been configured with
	s.router.Post("/retell/webhook", s.handleWebhook)
	s.router.Post("/retell/events", s.handleWebhook)
	s.router.Get("/llm-websocket/{callID}", s.handleLLMSocket)
	// Diagnostics and browser clients
	s.router.Post("/api/turn", s.handleTurn)
	s.router.Get("/api/calls/{callID}", s.handleCallSnapshot)
	s.router.Get("/api/archive/{callID}", s.handleArchivedCall)
	s.router.Post("/api/voice", s.handleVoice)
}

func (s *Server) Router() http.Handler { return s.router }

// Manager exposes the dialogue manager, for in-process drivers.
func (s *Server) Manager() *dialogue.Manager { return s.manager }

// StartSweeper evicts idle sessions until ctx is done.
func (s *Server) StartSweeper(ctx context.Context) {
	go s.sessions.Run(ctx, s.cfg.SessionSweepInterval)
}

func (s *Server) Close() error {
	if s.database != nil {
		return s.database.Close()
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if s.database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.database.HealthCheck(ctx); err != nil {
			log.Printf("[health] database check failed: %v", err)
			status = "degraded"
		}
	}
	s.writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:         status,
		Timestamp:      s.now().UTC().Format(time.RFC3339),
		ActiveSessions: s.sessions.Len(),
		Archive:        s.archiveKind,
	})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req types.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.CallID) == "" {
		s.writeError(w, http.StatusBadRequest, "call_id is required")
		return
	}
	res, err := s.manager.Turn(req.CallID, req.Transcript)
	if err != nil && !errors.Is(err, dialogue.ErrEmptyUtterance) {
		s.writeError(w, http.StatusInternalServerError, "turn failed")
		return
	}
	s.writeJSON(w, http.StatusOK, types.TurnResponse{
		Response: res.Response,
		EndCall:  res.EndCall,
		Step:     res.State.String(),
	})
}

func (s *Server) handleCallSnapshot(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callID")
	withHistory := r.URL.Query().Get("history") != "false"
	snap, err := s.manager.Snapshot(callID, withHistory)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "call not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "snapshot failed")
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleArchivedCall(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeError(w, http.StatusNotFound, "call archive is not configured")
		return
	}
	callID := chi.URLParam(r, "callID")
	rec, err := s.archive.GetCall(r.Context(), callID)
	if err != nil {
		log.Printf("[archive] get %s: %v", callID, err)
		s.writeError(w, http.StatusInternalServerError, "archive lookup failed")
		return
	}
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "call not found")
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, types.ErrorResponse{Error: msg})
}
