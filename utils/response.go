package utils

import (
	"encoding/json"
	"net/http"
)

type M map[string]interface{}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Error writes the standard failure envelope.
func Error(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, M{"success": false, "message": message})
}

// ValidationError writes a 400 with the offending field names.
func ValidationError(w http.ResponseWriter, message string, fields []string) {
	RespondWithJSON(w, http.StatusBadRequest, M{
		"success": false,
		"message": message,
		"errors":  fields,
	})
}
