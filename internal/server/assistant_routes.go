package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shopping-assistant/internal/assistant"
	apperrors "shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/models"
)

const maxMessageBody = 64 << 10

type messageRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBody))
	if err != nil {
		s.writeError(w, r, apperrors.NewInvalidMessageError("could not read request body"))
		return
	}

	if res := s.messages.ValidateJSON(string(body)); !res.Valid {
		details := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Message))
		}
		s.writeError(w, r, apperrors.NewInvalidMessageError(strings.Join(details, "; ")))
		return
	}

	var req messageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, apperrors.NewInvalidMessageError("invalid request body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, r, apperrors.NewInvalidMessageError("message must not be blank"))
		return
	}

	writeJSON(w, http.StatusOK, s.processMessage(r, req.Message))
}

// processMessage turns a panic inside the assistant into the apology reply.
func (s *Server) processMessage(r *http.Request, text string) (result models.MessageResult) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("message processing panicked", map[string]interface{}{
				"panic": fmt.Sprint(rec),
				"path":  r.URL.Path,
			})
			result = assistant.ApologyResult()
		}
	}()
	return s.assistant.ProcessMessage(r.Context(), text)
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": s.assistant.WelcomeMessage()})
}

// handleRefresh re-fetches the catalog snapshot. The session stays Ready even
// when the new snapshot is empty.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.cache != nil {
		if err := s.cache.Invalidate(r.Context()); err != nil {
			s.logger.Warn("catalog cache invalidation failed", map[string]interface{}{"error": err.Error()})
		}
	}

	s.assistant.Initialize(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        s.assistant.State().String(),
		"productCount":  len(s.assistant.Snapshot()),
		"categoryCount": len(s.assistant.Categories()),
	})
}
