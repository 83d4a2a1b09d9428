package server

import (
	"encoding/json"
	"net/http"

	apperrors "shopping-assistant/internal/common/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.Normalize(err)
	status := statusFor(stdErr.Code)

	fields := map[string]interface{}{
		"code":   string(stdErr.Code),
		"path":   r.URL.Path,
		"status": status,
	}
	if status >= http.StatusInternalServerError {
		fields["error"] = err.Error()
		s.logger.Error("request failed", fields)
	} else {
		s.logger.Debug("request rejected", fields)
	}

	writeJSON(w, status, errorBody{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
	})
}

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidMessage, apperrors.ErrCodeInputValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeProductNotFound, apperrors.ErrCodeCartItemNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeEmptyCart:
		return http.StatusConflict
	case apperrors.ErrCodeCartStoreFailed,
		apperrors.ErrCodeCatalogUnavailable,
		apperrors.ErrCodeCatalogTimeout,
		apperrors.ErrCodeCatalogDecodeFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
