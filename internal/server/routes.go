package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	affection "github.com/glusyy/grok-ani-affection-system"
)

// maxMessageBytes caps the request body; messages are only ever
// inspected as substring content, so anything longer buys nothing.
const maxMessageBytes = 64 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
		"turns":  s.turns.Load(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()
	state := affection.DefaultState(s.engine.Config())

	if err := s.store.Save(r.Context(), sessionID, state); err != nil {
		s.log.Error("create session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	s.log.Info("session created", zap.String("session_id", sessionID))
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sessionID,
		"state":      s.engine.Config().SnapshotOf(state),
	})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req struct {
		Text string `json:"text"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	prev, err := s.store.Load(r.Context(), sessionID)
	if err != nil {
		s.log.Error("load session", zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	if prev == nil {
		// First turn for an unknown session: start from defaults rather
		// than failing (the host contract never fails a turn).
		state := affection.DefaultState(s.engine.Config())
		prev = &state
	}

	state, turn := s.engine.ProcessTurn(*prev, req.Text)
	if err := s.store.Save(r.Context(), sessionID, state); err != nil {
		s.log.Error("save session", zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	s.turns.Inc()
	s.log.Info("turn processed",
		zap.String("session_id", sessionID),
		zap.Int("delta", turn.Delta),
		zap.String("category", string(turn.Category)),
		zap.String("tier", turn.Current.Tier),
		zap.Bool("tier_changed", turn.TierChanged),
		zap.Bool("just_unlocked", turn.JustUnlocked),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":   sessionID,
		"turn":         turn,
		"notification": turn.Notification,
		"state":        state,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := s.store.Load(r.Context(), sessionID)
	if err != nil {
		s.log.Error("load session", zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	if state == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	// Snapshot feeds the status widget: score, tier, level, unlock.
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"snapshot":   s.engine.Config().SnapshotOf(*state),
		"history":    state.History,
	})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Delete(r.Context(), sessionID); err != nil {
		s.log.Error("delete session", zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}
	s.log.Info("session reset", zap.String("session_id", sessionID))
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
