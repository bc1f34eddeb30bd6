package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/supaship/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// SendError отправляет JSON ответ с ошибкой.
// Экспортирован для middleware, чтобы все ошибки имели один формат.
func SendError(logger *slog.Logger, w http.ResponseWriter, message, code string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    code,
	}
	sendJSON(logger, w, resp, statusCode)
}

func sendInternalError(logger *slog.Logger, w http.ResponseWriter) {
	SendError(logger, w, "internal server error", api.CodeInternal, http.StatusInternalServerError)
}
