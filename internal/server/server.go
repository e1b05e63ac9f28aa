// Package server is the HTTP host runtime for the affection engine: it
// owns session persistence and invokes the engine once per turn.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	affection "github.com/glusyy/grok-ani-affection-system"
	"github.com/glusyy/grok-ani-affection-system/store"
)

// Server exposes the engine over HTTP, one synchronous turn at a time
// per session.
type Server struct {
	engine  *affection.Engine
	store   store.StateStore
	log     *zap.Logger
	router  chi.Router
	started time.Time
	turns   atomic.Int64

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Server over an engine and a state store.
func New(engine *affection.Engine, st store.StateStore, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		engine:  engine,
		store:   st,
		log:     log,
		started: time.Now(),
		locks:   make(map[string]*sync.Mutex),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Post("/sessions/{sessionID}/turns", s.handleTurn)
		r.Get("/sessions/{sessionID}", s.handleGetSession)
		r.Delete("/sessions/{sessionID}", s.handleResetSession)
	})

	s.router = r
}

// sessionLock serializes turns per session. The engine assumes at most
// one in-flight turn per conversation; concurrent requests for the same
// session queue here instead of racing on the stored snapshot.
func (s *Server) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}
