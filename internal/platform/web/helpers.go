package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

var emptyObject = []byte("{}")

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		RespondEmpty(w, logger, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondEmpty writes status with a `{}` body. Every error response of the API has this shape.
func RespondEmpty(w http.ResponseWriter, logger *slog.Logger, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(emptyObject); err != nil {
		logger.Debug("Error writing response", "error", err)
	}
}
