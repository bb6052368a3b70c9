// Package twin serves a local stand-in for the reply generation service.
// It speaks the same wire contract as the real service, answers with a canned
// or templated reply, and lets tests inject failures through /admin routes.
package twin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"replyterm/internal/model"
	"replyterm/internal/reply"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config controls how the twin answers.
type Config struct {
	// Reply, when set, is returned for every request instead of the template.
	Reply string
	// AllowedOrigin is passed to CORS for browser clients. Defaults to "*".
	AllowedOrigin string
	// Latency delays every generate response.
	Latency time.Duration
}

// Fault makes every generate call fail with Status. An empty Message sends
// no body at all.
type Fault struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// Server is the twin. The zero value is not usable; call New.
type Server struct {
	router *chi.Mux
	cfg    Config
	logger *zap.Logger

	mu       sync.Mutex
	fault    *Fault
	requests []reply.GenerateRequest
}

func New(cfg Config, logger *zap.Logger) *Server {
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", reply.RequestIDHeader},
		MaxAge:         300,
	}))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post(reply.GeneratePath, s.handleGenerate)

	s.router.Route("/admin", func(r chi.Router) {
		r.Get("/requests", s.handleRequests)
		r.Post("/fault", s.handleSetFault)
		r.Delete("/fault", s.handleClearFault)
		r.Post("/reset", s.handleReset)
	})
}

func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// SetFault makes subsequent generate calls fail. Pass nil to clear.
func (s *Server) SetFault(f *Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

// Requests returns a copy of every generate body received since the last reset.
func (s *Server) Requests() []reply.GenerateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]reply.GenerateRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Reset clears recorded requests and any fault.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	s.fault = nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(reply.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(reply.RequestIDHeader, id)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req reply.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	fault := s.fault
	s.mu.Unlock()

	if s.cfg.Latency > 0 {
		select {
		case <-time.After(s.cfg.Latency):
		case <-r.Context().Done():
			return
		}
	}

	if fault != nil {
		if fault.Message == "" {
			w.WriteHeader(fault.Status)
			return
		}
		writeError(w, fault.Status, fault.Message)
		return
	}
	if strings.TrimSpace(req.EmailContent) == "" {
		writeError(w, http.StatusBadRequest, "emailContent is required")
		return
	}

	text := s.cfg.Reply
	if text == "" {
		tone, err := model.ParseTone(req.Tone)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		text = Compose(tone, req.ReplyHints)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Requests())
}

func (s *Server) handleSetFault(w http.ResponseWriter, r *http.Request) {
	var f Fault
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if f.Status < 400 || f.Status > 599 {
		writeError(w, http.StatusBadRequest, "status must be 4xx or 5xx")
		return
	}
	s.SetFault(&f)
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleClearFault(w http.ResponseWriter, r *http.Request) {
	s.SetFault(nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

var greetings = map[model.Tone]string{
	model.ToneNone:         "Hello,",
	model.ToneProfessional: "Dear colleague,",
	model.ToneFriendly:     "Hi there!",
	model.ToneSarcastic:    "Oh, what a delight to hear from you.",
	model.ToneCasual:       "Hey,",
	model.ToneEmotional:    "I was so moved to read your message.",
}

var signoffs = map[model.Tone]string{
	model.ToneNone:         "Best regards",
	model.ToneProfessional: "Kind regards",
	model.ToneFriendly:     "Cheers",
	model.ToneSarcastic:    "Can't wait for the next one",
	model.ToneCasual:       "Later",
	model.ToneEmotional:    "With all my heart",
}

// Compose builds the templated reply the twin sends when no canned reply is set.
func Compose(tone model.Tone, hints string) string {
	var b strings.Builder
	b.WriteString(greetings[tone])
	b.WriteString("\n\nThank you for your email.")
	if h := strings.TrimSpace(hints); h != "" {
		fmt.Fprintf(&b, " %s", h)
		if !strings.HasSuffix(h, ".") {
			b.WriteString(".")
		}
	}
	b.WriteString("\n\n")
	b.WriteString(signoffs[tone])
	return b.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"message": msg, "status": status})
}
