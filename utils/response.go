package utils

import (
	"encoding/json"
	"net/http"
)

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// SendData wraps a payload in the standard success envelope.
func SendData(w http.ResponseWriter, status int, data any) {
	RespondWithJSON(w, status, map[string]any{
		"status": "success",
		"data":   data,
	})
}

// SendList is SendData plus a result count, for list endpoints.
func SendList(w http.ResponseWriter, status int, results int, data any) {
	RespondWithJSON(w, status, map[string]any{
		"status":  "success",
		"results": results,
		"data":    data,
	})
}

type M map[string]interface{}
