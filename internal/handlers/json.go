package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}

// validGeoJSON reports whether raw is a non-empty JSON document.
// Geometry type and SRID are enforced by the database columns.
func validGeoJSON(raw json.RawMessage) bool {
	return len(raw) > 0 && json.Valid(raw)
}
