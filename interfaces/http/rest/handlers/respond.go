package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "glossary-backend/pkg/errors"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(logger *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondError(logger *zap.Logger, w http.ResponseWriter, status int, code, message string) {
	respondJSON(logger, w, status, errorBody{Error: code, Message: message})
}

// respondFailure is the single error boundary: typed application errors
// keep their HTTP mapping, anything else becomes a 500 whose body carries
// only the raw message text.
func respondFailure(logger *zap.Logger, w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		logger.Error("Request failed", zap.Error(appErr))
		respondError(logger, w, appErr.HTTPStatus, string(appErr.Type), appErr.Message)
		return
	}
	logger.Error("Unhandled error", zap.Error(err))
	respondError(logger, w, http.StatusInternalServerError, string(apperrors.ErrorTypeInternal), err.Error())
}
