package respond

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, map[string]string{"error": message})
}

// Validation writes the structured 422 body, one details entry per
// offending field.
func Validation(w http.ResponseWriter, r *http.Request, details map[string]string) {
	JSON(w, r, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":   "Validation Failed",
		"details": details,
	})
}
