package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

var errMessages = map[int]string{
	http.StatusUnauthorized:        "unauthorized",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "resource not found",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusInternalServerError: "internal server error",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders the uniform failure envelope.
func writeError(w http.ResponseWriter, status int) {
	msg, ok := errMessages[status]
	if !ok {
		msg = strings.ToLower(http.StatusText(status))
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   status,
		"message": msg,
	})
}
